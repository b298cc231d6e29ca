package parser

import (
	"strings"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// RowParser turns one raw sheet row into a normalized TenderRecord.
// Pure: no I/O, no storage. One bad row never aborts the batch; the caller
// counts the ParseError and moves on.
type RowParser struct {
	sheetType   SheetType
	mappings    map[int]FieldMapping
	sourceSheet string
	sourceFile  string
}

// NewRowParser creates a row parser for one sheet
func NewRowParser(sheetType SheetType, mappings map[int]FieldMapping, sourceSheet, sourceFile string) *RowParser {
	return &RowParser{
		sheetType:   sheetType,
		mappings:    mappings,
		sourceSheet: sourceSheet,
		sourceFile:  sourceFile,
	}
}

// Source tender source for this sheet
func (p *RowParser) Source() model.Source {
	if p.sheetType == SheetTypeGem {
		return model.SourceGem
	}
	return model.SourceNonGem
}

// Parse parses one data row. rowNo is the 1-based row number in the sheet.
func (p *RowParser) Parse(row []string, rowNo int) (*model.TenderRecord, *ParseError) {
	record := &model.TenderRecord{
		Source:      p.Source(),
		RowNo:       rowNo,
		SourceSheet: p.sourceSheet,
		SourceFile:  p.sourceFile,
	}

	for colIdx, mapping := range p.mappings {
		if colIdx >= len(row) {
			continue
		}

		value := strings.TrimSpace(row[colIdx])
		if value == "" {
			continue
		}

		if perr := p.setFieldValue(record, mapping, value, rowNo); perr != nil {
			return nil, perr
		}
	}

	// mandatory identity fields
	if record.ExternalID == "" {
		return nil, &ParseError{Row: rowNo, Reason: "missing external id"}
	}
	if record.Title == "" {
		return nil, &ParseError{Row: rowNo, Reason: "missing title"}
	}

	return record, nil
}

// setFieldValue assigns one mapped cell, enforcing numeric/date cells
func (p *RowParser) setFieldValue(record *model.TenderRecord, mapping FieldMapping, value string, rowNo int) *ParseError {
	switch mapping.Field {
	case FieldExternalID:
		record.ExternalID = value
	case FieldTitle:
		record.Title = value
	case FieldDepartment:
		record.Department = value
	case FieldOrganization:
		record.Organization = value
	case FieldEligibilityCriteria:
		record.EligibilityCriteria = value
	case FieldChecklist:
		record.Checklist = value

	case FieldEstimatedValue:
		v, err := ParseAmount(value)
		if err != nil {
			return &ParseError{Row: rowNo, Reason: "bad estimated value: " + err.Error()}
		}
		record.EstimatedValue = v
	case FieldEmdAmount:
		v, err := ParseAmount(value)
		if err != nil {
			return &ParseError{Row: rowNo, Reason: "bad emd amount: " + err.Error()}
		}
		record.EmdAmount = v
	case FieldTurnoverRequirement:
		v, err := ParseAmount(value)
		if err != nil {
			return &ParseError{Row: rowNo, Reason: "bad turnover requirement: " + err.Error()}
		}
		record.TurnoverRequirement = v

	case FieldPublishDate:
		t, err := ParseDate(value)
		if err != nil {
			return &ParseError{Row: rowNo, Reason: "bad publish date: " + err.Error()}
		}
		record.PublishDate = t
	case FieldSubmissionDeadline:
		t, err := ParseDate(value)
		if err != nil {
			return &ParseError{Row: rowNo, Reason: "bad submission deadline: " + err.Error()}
		}
		record.SubmissionDeadline = t
	case FieldOpeningDate:
		t, err := ParseDate(value)
		if err != nil {
			return &ParseError{Row: rowNo, Reason: "bad opening date: " + err.Error()}
		}
		record.OpeningDate = t

	case FieldMsmeExemption:
		record.IsMsmeExempted = ParseBoolFlag(value)
	case FieldStartupExemption:
		record.IsStartupExempted = ParseBoolFlag(value)
	}

	return nil
}

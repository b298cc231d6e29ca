package parser_test

import (
	"testing"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/parser"
)

func gemRowParser(t *testing.T) *parser.RowParser {
	t.Helper()
	mappings := parser.NewFieldMapper().Map(gemHeaders)
	return parser.NewRowParser(parser.SheetTypeGem, mappings, "GEM Bids", "bids.xlsx")
}

func TestFieldMapperClaimsEachFieldOnce(t *testing.T) {
	t.Parallel()

	mappings := parser.NewFieldMapper().Map(gemHeaders)

	byField := map[string]int{}
	for _, m := range mappings {
		byField[m.Field]++
	}
	for field, n := range byField {
		if n > 1 {
			t.Fatalf("field %s claimed by %d columns", field, n)
		}
	}

	// turnover must not be swallowed by the value/EMD patterns
	want := map[string]bool{
		parser.FieldExternalID:          true,
		parser.FieldTitle:               true,
		parser.FieldTurnoverRequirement: true,
		parser.FieldEmdAmount:           true,
		parser.FieldSubmissionDeadline:  true,
		parser.FieldEligibilityCriteria: true,
		parser.FieldMsmeExemption:       true,
	}
	for field := range want {
		if byField[field] == 0 {
			t.Fatalf("field %s not mapped from headers %v", field, gemHeaders)
		}
	}
}

func TestParseRow(t *testing.T) {
	t.Parallel()

	p := gemRowParser(t)
	row := []string{
		"GEM/2026/B/100001",
		"Software development services",
		"Ministry of Electronics",
		"NIC",
		"15-10-2026 15:00:00",
		"25000",
		"Bidder must have 5 Cr turnover",
		"5 Cr",
		"Yes",
		"No",
	}

	record, perr := p.Parse(row, 2)
	if perr != nil {
		t.Fatalf("Parse error: %v", perr)
	}

	if got, want := record.ExternalID, "GEM/2026/B/100001"; got != want {
		t.Fatalf("externalID = %q, want %q", got, want)
	}
	if got, want := record.Source, model.SourceGem; got != want {
		t.Fatalf("source = %s, want %s", got, want)
	}
	if record.TurnoverRequirement == nil || *record.TurnoverRequirement != 5 {
		t.Fatalf("turnoverRequirement = %v, want 5", record.TurnoverRequirement)
	}
	if record.EmdAmount == nil || *record.EmdAmount != 25000 {
		t.Fatalf("emdAmount = %v, want 25000", record.EmdAmount)
	}
	if record.SubmissionDeadline == nil {
		t.Fatalf("submissionDeadline not parsed")
	}
	if !record.IsMsmeExempted || record.IsStartupExempted {
		t.Fatalf("exemptions = msme:%v startup:%v, want msme only", record.IsMsmeExempted, record.IsStartupExempted)
	}
	if record.RowNo != 2 || record.SourceSheet != "GEM Bids" {
		t.Fatalf("provenance = row %d sheet %q", record.RowNo, record.SourceSheet)
	}
}

func TestParseRowMissingIdentity(t *testing.T) {
	t.Parallel()

	p := gemRowParser(t)

	if _, perr := p.Parse([]string{"", "Some title"}, 3); perr == nil {
		t.Fatalf("row without external id parsed, want ParseError")
	}
	if _, perr := p.Parse([]string{"GEM/2026/B/100002", ""}, 4); perr == nil {
		t.Fatalf("row without title parsed, want ParseError")
	}
}

func TestParseRowBadNumber(t *testing.T) {
	t.Parallel()

	p := gemRowParser(t)
	row := []string{
		"GEM/2026/B/100003", "Portal upgrade", "", "", "", "not-a-number", "", "", "", "",
	}

	_, perr := p.Parse(row, 5)
	if perr == nil {
		t.Fatalf("row with malformed EMD parsed, want ParseError")
	}
	if perr.Row != 5 {
		t.Fatalf("ParseError.Row = %d, want 5", perr.Row)
	}
}

func TestParseRowShortRow(t *testing.T) {
	t.Parallel()

	// rows shorter than the header are common at the sheet tail
	p := gemRowParser(t)
	record, perr := p.Parse([]string{"GEM/2026/B/100004", "Data entry services"}, 6)
	if perr != nil {
		t.Fatalf("Parse error: %v", perr)
	}
	if record.EmdAmount != nil || record.SubmissionDeadline != nil {
		t.Fatalf("missing cells must stay absent")
	}
}

package parser

import "fmt"

// SheetType tender sheet type
type SheetType string

const (
	SheetTypeGem     SheetType = "gem"
	SheetTypeNonGem  SheetType = "non_gem"
	SheetTypeUnknown SheetType = "unknown"
)

// Canonical field names produced by the field mapper
const (
	FieldExternalID          = "external_id"
	FieldTitle               = "title"
	FieldDepartment          = "department"
	FieldOrganization        = "organization"
	FieldEstimatedValue      = "estimated_value"
	FieldEmdAmount           = "emd_amount"
	FieldTurnoverRequirement = "turnover_requirement"
	FieldPublishDate         = "publish_date"
	FieldSubmissionDeadline  = "submission_deadline"
	FieldOpeningDate         = "opening_date"
	FieldEligibilityCriteria = "eligibility_criteria"
	FieldChecklist           = "checklist"
	FieldMsmeExemption       = "msme_exemption"
	FieldStartupExemption    = "startup_exemption"
)

// ParseError one bad row. Recovered locally: the row is counted as failed
// and skipped, the batch continues.
type ParseError struct {
	Row    int
	Reason string
}

// Error implements error
func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// SheetRecognitionResult sheet recognition outcome
type SheetRecognitionResult struct {
	SheetName  string    `json:"sheetName"`
	SheetType  SheetType `json:"sheetType"`
	Confidence float64   `json:"confidence"` // 0-1
}

// FieldMapping one header column bound to a canonical field
type FieldMapping struct {
	ColumnIndex int    `json:"columnIndex"`
	ColumnName  string `json:"columnName"`
	Field       string `json:"field"`
}

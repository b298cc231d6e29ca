package parser

// headerPatterns canonical field -> header substrings, in priority order.
// The first field whose pattern matches a column claims it.
var headerPatterns = []struct {
	field    string
	patterns []string
}{
	{FieldExternalID, []string{"bid number", "bid no", "tender id", "tender no", "tender ref", "reference number"}},
	{FieldTurnoverRequirement, []string{"turnover"}},
	{FieldEmdAmount, []string{"emd"}},
	{FieldEstimatedValue, []string{"estimated value", "estimated cost", "tender value", "contract value"}},
	{FieldPublishDate, []string{"publish", "published"}},
	{FieldSubmissionDeadline, []string{"bid end date", "end date", "submission deadline", "closing date", "due date"}},
	{FieldOpeningDate, []string{"opening date", "bid opening"}},
	{FieldEligibilityCriteria, []string{"eligibility"}},
	{FieldChecklist, []string{"checklist", "documents required"}},
	{FieldMsmeExemption, []string{"msme"}},
	{FieldStartupExemption, []string{"startup"}},
	{FieldDepartment, []string{"ministry", "department"}},
	{FieldOrganization, []string{"organisation", "organization"}},
	{FieldTitle, []string{"item", "title", "work description", "name of work"}},
}

// FieldMapper maps header columns to canonical tender fields
type FieldMapper struct{}

// NewFieldMapper creates a field mapper
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{}
}

// Map binds each header column to at most one canonical field, keyed by
// column index. Unrecognized columns are left unmapped and ignored.
func (m *FieldMapper) Map(headers []string) map[int]FieldMapping {
	mappings := make(map[int]FieldMapping)
	claimed := make(map[string]bool)

	for _, entry := range headerPatterns {
		for colIdx, header := range headers {
			if _, taken := mappings[colIdx]; taken {
				continue
			}
			if claimed[entry.field] {
				break
			}
			normalized := NormalizeHeader(header)
			if normalized == "" {
				continue
			}
			if ContainsAny(normalized, entry.patterns) {
				mappings[colIdx] = FieldMapping{
					ColumnIndex: colIdx,
					ColumnName:  header,
					Field:       entry.field,
				}
				claimed[entry.field] = true
				break
			}
		}
	}

	return mappings
}

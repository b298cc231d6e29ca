package importer

import (
	"strconv"
	"time"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// ResolutionKind outcome of comparing a new row against the prior version
type ResolutionKind string

const (
	ResolutionNew         ResolutionKind = "new"
	ResolutionDuplicate   ResolutionKind = "duplicate"
	ResolutionCorrigendum ResolutionKind = "corrigendum"
)

// Resolution duplicate-detection outcome with the field-level diff
type Resolution struct {
	Kind    ResolutionKind
	Changes []model.CorrigendumChange
}

// trackedFields fields compared between versions of the same external id.
// Field names use the JSON names so change records read the same as the API.
var trackedFields = []struct {
	name string
	get  func(*model.TenderRecord) string
}{
	{"title", func(t *model.TenderRecord) string { return t.Title }},
	{"department", func(t *model.TenderRecord) string { return t.Department }},
	{"organization", func(t *model.TenderRecord) string { return t.Organization }},
	{"estimatedValue", func(t *model.TenderRecord) string { return formatAmount(t.EstimatedValue) }},
	{"emdAmount", func(t *model.TenderRecord) string { return formatAmount(t.EmdAmount) }},
	{"turnoverRequirement", func(t *model.TenderRecord) string { return formatAmount(t.TurnoverRequirement) }},
	{"eligibilityCriteria", func(t *model.TenderRecord) string { return t.EligibilityCriteria }},
	{"publishDate", func(t *model.TenderRecord) string { return formatDate(t.PublishDate) }},
	{"submissionDeadline", func(t *model.TenderRecord) string { return formatDate(t.SubmissionDeadline) }},
	{"openingDate", func(t *model.TenderRecord) string { return formatDate(t.OpeningDate) }},
}

// Resolve decides whether newRecord is new, an unchanged duplicate, or a
// corrigendum of prior. prior is nil when no version with the same
// (externalId, source) exists.
func Resolve(newRecord, prior *model.TenderRecord) Resolution {
	if prior == nil {
		return Resolution{Kind: ResolutionNew}
	}

	var changes []model.CorrigendumChange
	for _, field := range trackedFields {
		oldValue := field.get(prior)
		newValue := field.get(newRecord)
		if oldValue != newValue {
			changes = append(changes, model.CorrigendumChange{
				FieldName: field.name,
				OldValue:  oldValue,
				NewValue:  newValue,
			})
		}
	}

	if len(changes) == 0 {
		return Resolution{Kind: ResolutionDuplicate}
	}

	return Resolution{
		Kind:    ResolutionCorrigendum,
		Changes: changes,
	}
}

// CarryProvenance copies the prior version's override fields onto the new
// version as provenance only: is_manual_override is reset, so the computed
// status is effective until an external actor re-applies the override.
func CarryProvenance(newRecord, prior *model.TenderRecord) {
	newRecord.ID = prior.ID
	newRecord.OverrideStatus = prior.OverrideStatus
	newRecord.OverrideReason = prior.OverrideReason
	newRecord.OverrideComment = prior.OverrideComment
	newRecord.IsManualOverride = false
	newRecord.IsCorrigendum = true
}

func formatAmount(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func formatDate(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.UTC().Format(time.RFC3339)
}

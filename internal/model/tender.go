package model

import "time"

// Source tender source sheet
type Source string

const (
	SourceGem    Source = "gem"
	SourceNonGem Source = "non_gem"
)

// Status classification outcome
type Status string

const (
	StatusEligible        Status = "eligible"
	StatusNotEligible     Status = "not_eligible"
	StatusNotRelevant     Status = "not_relevant"
	StatusManualReview    Status = "manual_review"
	StatusUnableToAnalyze Status = "unable_to_analyze"
)

// TenderRecord one procurement opportunity
type TenderRecord struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"externalId"` // portal reference number, stable across uploads
	Source     Source `json:"source"`

	Title               string `json:"title"`
	Department          string `json:"department"`
	Organization        string `json:"organization"`
	EligibilityCriteria string `json:"eligibilityCriteria"`
	Checklist           string `json:"checklist"`

	// Financials (absent, not zero, when the column is empty)
	EstimatedValue      *float64 `json:"estimatedValue"`
	EmdAmount           *float64 `json:"emdAmount"`
	TurnoverRequirement *float64 `json:"turnoverRequirement"` // in Crores

	PublishDate        *time.Time `json:"publishDate"`
	SubmissionDeadline *time.Time `json:"submissionDeadline"`
	OpeningDate        *time.Time `json:"openingDate"`

	// Classification outputs
	MatchPercentage        int      `json:"matchPercentage"` // 0-100
	Status                 Status   `json:"status"`
	Tags                   []string `json:"tags"`
	MatchedNegativeKeyword string   `json:"matchedNegativeKeyword,omitempty"`
	IsMsmeExempted         bool     `json:"isMsmeExempted"`
	IsStartupExempted      bool     `json:"isStartupExempted"`

	// Manual override, written only by an external actor
	IsManualOverride bool   `json:"isManualOverride"`
	OverrideStatus   Status `json:"overrideStatus,omitempty"`
	OverrideReason   string `json:"overrideReason,omitempty"`
	OverrideComment  string `json:"overrideComment,omitempty"`

	IsCorrigendum bool `json:"isCorrigendum"`

	// Row provenance
	RowNo       int    `json:"rowNo"`
	SourceSheet string `json:"sourceSheet"`
	SourceFile  string `json:"sourceFile"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Key identity within the store: external id is unique per source only
func (t *TenderRecord) Key() string {
	return string(t.Source) + ":" + t.ExternalID
}

// EffectiveStatus the manual override always wins over the computed status
func (t *TenderRecord) EffectiveStatus() Status {
	if t.IsManualOverride && t.OverrideStatus != "" {
		return t.OverrideStatus
	}
	return t.Status
}

// IsExempted MSME/Startup carve-outs waive the turnover check
func (t *TenderRecord) IsExempted() bool {
	return t.IsMsmeExempted || t.IsStartupExempted
}

// IsDeadlineMissed derived lifecycle state, never stored
func (t *TenderRecord) IsDeadlineMissed(now time.Time) bool {
	return t.SubmissionDeadline != nil && now.After(*t.SubmissionDeadline)
}

// CorrigendumChange one field that changed relative to the prior version
// with the same external id
type CorrigendumChange struct {
	ID        int64     `json:"id"`
	TenderID  int64     `json:"tenderId"`
	Seq       int       `json:"seq"`
	FieldName string    `json:"fieldName"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	CreatedAt time.Time `json:"createdAt"`
}

package classifier

import (
	"fmt"
	"math"
	"sort"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/config"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/parser"
)

// Result classification outcome for one record against one criteria snapshot
type Result struct {
	MatchPercentage        int          `json:"matchPercentage"`
	Status                 model.Status `json:"status"`
	Tags                   []string     `json:"tags"`
	MatchedNegativeKeyword string       `json:"matchedNegativeKeyword,omitempty"`
}

// Classifier computes eligibility for tender records. Pure given the
// criteria snapshot: the same (record, criteria) always yields the same
// percentage and status. Manual override fields are never touched here.
type Classifier struct {
	cfg config.ClassifierConfig
	// sorted category labels, so tag order is deterministic
	categories []string
}

// New creates a classifier from the configured policy
func New(cfg config.ClassifierConfig) *Classifier {
	categories := make([]string, 0, len(cfg.Categories))
	for label := range cfg.Categories {
		categories = append(categories, label)
	}
	sort.Strings(categories)

	return &Classifier{
		cfg:        cfg,
		categories: categories,
	}
}

// ValidateCriteria rejects a malformed criteria snapshot. A bad snapshot is
// pipeline-fatal: it would silently misclassify every row.
func ValidateCriteria(criteria model.CompanyCriteria) error {
	if math.IsNaN(criteria.TurnoverCr) || math.IsInf(criteria.TurnoverCr, 0) {
		return fmt.Errorf("criteria turnover is not a finite number")
	}
	if criteria.TurnoverCr < 0 {
		return fmt.Errorf("criteria turnover is negative: %v", criteria.TurnoverCr)
	}
	for _, pt := range criteria.ProjectTypes {
		if pt == "" {
			return fmt.Errorf("criteria contains an empty project type")
		}
	}
	return nil
}

// Classify computes tags, match percentage and status for one record
func (c *Classifier) Classify(record *model.TenderRecord, criteria model.CompanyCriteria) Result {
	text := parser.NormalizeText(record.Title + " " + record.EligibilityCriteria)

	// 1. tag assignment
	tags := c.scanTags(text)

	// 2. relevance gate: exclusion keyword with no project-type overlap
	overlap := criteria.TagOverlap(tags)
	if kw := c.matchNegative(text); kw != "" && overlap == 0 {
		return Result{
			MatchPercentage:        0,
			Status:                 model.StatusNotRelevant,
			Tags:                   tags,
			MatchedNegativeKeyword: kw,
		}
	}

	// 3. turnover gate, skipped entirely for MSME/Startup exempted records
	if !record.IsExempted() {
		if record.TurnoverRequirement != nil && *record.TurnoverRequirement > criteria.TurnoverCr {
			return Result{
				MatchPercentage: c.matchPercentage(overlap, record, criteria),
				Status:          model.StatusNotEligible,
				Tags:            tags,
			}
		}
	}

	// 4. data sufficiency: no text, no turnover signal, no tags
	if record.EligibilityCriteria == "" && record.TurnoverRequirement == nil && len(tags) == 0 {
		return Result{
			MatchPercentage: 0,
			Status:          model.StatusUnableToAnalyze,
			Tags:            tags,
		}
	}

	// 5. weighted score
	pct := c.matchPercentage(overlap, record, criteria)
	return Result{
		MatchPercentage: pct,
		Status:          c.statusFor(pct),
		Tags:            tags,
	}
}

// scanTags returns the category labels whose keywords appear in the text,
// in sorted label order
func (c *Classifier) scanTags(text string) []string {
	var tags []string
	for _, label := range c.categories {
		if parser.ContainsAnyWord(text, c.cfg.Categories[label]) {
			tags = append(tags, label)
		}
	}
	return tags
}

// matchNegative returns the first exclusion keyword found, for traceability
func (c *Classifier) matchNegative(text string) string {
	for _, kw := range c.cfg.NegativeKeywords {
		if parser.ContainsAnyWord(text, []string{kw}) {
			return kw
		}
	}
	return ""
}

// matchPercentage weighted score of tag overlap ratio and turnover headroom.
// Both components are clamped to [0,1] and the weights are positive, so
// improving either signal never lowers the score.
func (c *Classifier) matchPercentage(overlap int, record *model.TenderRecord, criteria model.CompanyCriteria) int {
	overlapRatio := 0.0
	if len(criteria.ProjectTypes) > 0 {
		overlapRatio = float64(overlap) / float64(len(criteria.ProjectTypes))
	}
	if overlapRatio > 1 {
		overlapRatio = 1
	}

	headroom := 1.0
	if !record.IsExempted() && record.TurnoverRequirement != nil {
		if criteria.TurnoverCr <= 0 {
			headroom = 0
		} else {
			headroom = (criteria.TurnoverCr - *record.TurnoverRequirement) / criteria.TurnoverCr
			if headroom < 0 {
				headroom = 0
			}
			if headroom > 1 {
				headroom = 1
			}
		}
	}

	pct := int(math.Round(c.cfg.TagWeight*overlapRatio + c.cfg.TurnoverWeight*headroom))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// statusFor maps a percentage to a status via the configured thresholds
func (c *Classifier) statusFor(pct int) model.Status {
	switch {
	case pct >= c.cfg.EligibleThreshold:
		return model.StatusEligible
	case pct >= c.cfg.ReviewThreshold:
		return model.StatusManualReview
	default:
		return model.StatusNotEligible
	}
}

// Apply copies a classification result onto a record
func Apply(record *model.TenderRecord, result Result) {
	record.MatchPercentage = result.MatchPercentage
	record.Status = result.Status
	record.Tags = result.Tags
	record.MatchedNegativeKeyword = result.MatchedNegativeKeyword
}

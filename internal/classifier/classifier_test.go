package classifier_test

import (
	"reflect"
	"testing"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/classifier"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/config"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

func newClassifier() *classifier.Classifier {
	return classifier.New(config.DefaultConfig().Classifier)
}

func softwareCriteria() model.CompanyCriteria {
	return model.CompanyCriteria{
		TurnoverCr:   10,
		ProjectTypes: []string{"Software"},
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestClassifyEligible(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	record := &model.TenderRecord{
		Title:               "Software development services",
		EligibilityCriteria: "Bidder must have relevant experience",
		TurnoverRequirement: floatPtr(5),
	}

	result := c.Classify(record, softwareCriteria())
	if result.Status != model.StatusEligible {
		t.Fatalf("status = %s, want %s (pct %d)", result.Status, model.StatusEligible, result.MatchPercentage)
	}
	// overlap 1/1 and headroom (10-5)/10: 70*1 + 30*0.5
	if result.MatchPercentage != 85 {
		t.Fatalf("matchPercentage = %d, want 85", result.MatchPercentage)
	}
	if !reflect.DeepEqual(result.Tags, []string{"Software"}) {
		t.Fatalf("tags = %v, want [Software]", result.Tags)
	}
}

func TestClassifyNegativeKeyword(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	record := &model.TenderRecord{
		Title: "Civil construction of office building",
	}

	result := c.Classify(record, softwareCriteria())
	if result.Status != model.StatusNotRelevant {
		t.Fatalf("status = %s, want %s", result.Status, model.StatusNotRelevant)
	}
	if result.MatchPercentage != 0 {
		t.Fatalf("matchPercentage = %d, want 0", result.MatchPercentage)
	}
	if result.MatchedNegativeKeyword != "civil construction" {
		t.Fatalf("matchedNegativeKeyword = %q", result.MatchedNegativeKeyword)
	}
}

// A negative keyword does not fire when the record also carries a tag the
// company covers.
func TestNegativeKeywordNeedsZeroOverlap(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	record := &model.TenderRecord{
		Title: "Software platform for civil construction monitoring",
	}

	result := c.Classify(record, softwareCriteria())
	if result.Status == model.StatusNotRelevant {
		t.Fatalf("tagged record short-circuited to not_relevant")
	}
}

func TestClassifyTurnoverGate(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	record := &model.TenderRecord{
		Title:               "Software development services",
		TurnoverRequirement: floatPtr(50),
	}

	result := c.Classify(record, softwareCriteria())
	if result.Status != model.StatusNotEligible {
		t.Fatalf("status = %s, want %s", result.Status, model.StatusNotEligible)
	}
}

// MSME/Startup exemption waives the turnover requirement entirely: an
// exempted record can never score worse than the same record without the
// exemption.
func TestClassifyExemptionWaivesTurnover(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	criteria := softwareCriteria()

	plain := &model.TenderRecord{
		Title:               "Software development services",
		TurnoverRequirement: floatPtr(50),
	}
	exempted := &model.TenderRecord{
		Title:               "Software development services",
		TurnoverRequirement: floatPtr(50),
		IsMsmeExempted:      true,
	}

	plainResult := c.Classify(plain, criteria)
	exemptedResult := c.Classify(exempted, criteria)

	if exemptedResult.Status != model.StatusEligible {
		t.Fatalf("exempted status = %s, want %s", exemptedResult.Status, model.StatusEligible)
	}
	if exemptedResult.MatchPercentage < plainResult.MatchPercentage {
		t.Fatalf("exemption lowered score: %d < %d", exemptedResult.MatchPercentage, plainResult.MatchPercentage)
	}
}

func TestClassifyUnableToAnalyze(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	record := &model.TenderRecord{
		Title: "Miscellaneous procurement",
	}

	result := c.Classify(record, softwareCriteria())
	if result.Status != model.StatusUnableToAnalyze {
		t.Fatalf("status = %s, want %s", result.Status, model.StatusUnableToAnalyze)
	}
}

// Short category keywords must only match whole words: "lan" inside
// "miscellaneous" or "plans" is not a Networking signal.
func TestTagKeywordsMatchWholeWords(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	criteria := softwareCriteria()

	inside := &model.TenderRecord{
		Title: "Plans for miscellaneous items procurement",
	}
	for _, tag := range c.Classify(inside, criteria).Tags {
		if tag == "Networking" {
			t.Fatalf("Networking tagged from a keyword inside an unrelated word")
		}
	}

	whole := &model.TenderRecord{
		Title: "LAN upgrade for district office",
	}
	result := c.Classify(whole, criteria)
	found := false
	for _, tag := range result.Tags {
		if tag == "Networking" {
			found = true
		}
	}
	if !found {
		t.Fatalf("whole-word lan not tagged as Networking: tags = %v", result.Tags)
	}
}

func TestClassifyManualReviewBand(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	criteria := model.CompanyCriteria{
		TurnoverCr:   10,
		ProjectTypes: []string{"Software", "Website"},
	}
	// overlap 1/2 and no turnover signal: 70*0.5 + 30*1 = 65
	record := &model.TenderRecord{
		Title:               "Software development services",
		EligibilityCriteria: "See tender document",
	}

	result := c.Classify(record, criteria)
	if result.MatchPercentage != 65 {
		t.Fatalf("matchPercentage = %d, want 65", result.MatchPercentage)
	}
	if result.Status != model.StatusManualReview {
		t.Fatalf("status = %s, want %s", result.Status, model.StatusManualReview)
	}
}

// More turnover headroom never lowers the score.
func TestClassifyMonotoneInHeadroom(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	criteria := softwareCriteria()

	prev := -1
	for _, req := range []float64{10, 8, 6, 4, 2, 1} {
		record := &model.TenderRecord{
			Title:               "Software development services",
			TurnoverRequirement: floatPtr(req),
		}
		pct := c.Classify(record, criteria).MatchPercentage
		if pct < prev {
			t.Fatalf("requirement %v scored %d, below %d for a higher requirement", req, pct, prev)
		}
		prev = pct
	}
}

func TestClassifyIdempotent(t *testing.T) {
	t.Parallel()

	c := newClassifier()
	criteria := softwareCriteria()
	record := &model.TenderRecord{
		Title:               "Cloud hosting and software maintenance",
		EligibilityCriteria: "Average annual turnover of 3 Cr",
		TurnoverRequirement: floatPtr(3),
	}

	first := c.Classify(record, criteria)
	classifier.Apply(record, first)
	second := c.Classify(record, criteria)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification not idempotent: %+v vs %+v", first, second)
	}
}

func TestValidateCriteria(t *testing.T) {
	t.Parallel()

	if err := classifier.ValidateCriteria(softwareCriteria()); err != nil {
		t.Fatalf("valid criteria rejected: %v", err)
	}
	if err := classifier.ValidateCriteria(model.CompanyCriteria{TurnoverCr: -1}); err == nil {
		t.Fatalf("negative turnover accepted")
	}
	if err := classifier.ValidateCriteria(model.CompanyCriteria{ProjectTypes: []string{""}}); err == nil {
		t.Fatalf("empty project type accepted")
	}
}

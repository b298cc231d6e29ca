package importer

import (
	"testing"
	"time"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func baseRecord() *model.TenderRecord {
	deadline := time.Date(2026, 10, 15, 15, 0, 0, 0, time.UTC)
	return &model.TenderRecord{
		ExternalID:          "GEM/2026/B/100001",
		Source:              model.SourceGem,
		Title:               "Software development services",
		Department:          "Ministry of Electronics",
		EstimatedValue:      floatPtr(1500000),
		EmdAmount:           floatPtr(25000),
		TurnoverRequirement: floatPtr(5),
		SubmissionDeadline:  timePtr(deadline),
	}
}

func TestResolveNew(t *testing.T) {
	t.Parallel()

	res := Resolve(baseRecord(), nil)
	if res.Kind != ResolutionNew {
		t.Fatalf("kind = %s, want %s", res.Kind, ResolutionNew)
	}
	if len(res.Changes) != 0 {
		t.Fatalf("new record carries %d changes", len(res.Changes))
	}
}

func TestResolveDuplicate(t *testing.T) {
	t.Parallel()

	prior := baseRecord()
	prior.ID = 42
	// classification outputs and provenance differ, tracked fields do not
	prior.Status = model.StatusEligible
	prior.RowNo = 7

	res := Resolve(baseRecord(), prior)
	if res.Kind != ResolutionDuplicate {
		t.Fatalf("kind = %s, want %s (changes %v)", res.Kind, ResolutionDuplicate, res.Changes)
	}
}

func TestResolveCorrigendum(t *testing.T) {
	t.Parallel()

	prior := baseRecord()
	newRecord := baseRecord()
	moved := time.Date(2026, 10, 22, 15, 0, 0, 0, time.UTC)
	newRecord.SubmissionDeadline = timePtr(moved)

	res := Resolve(newRecord, prior)
	if res.Kind != ResolutionCorrigendum {
		t.Fatalf("kind = %s, want %s", res.Kind, ResolutionCorrigendum)
	}
	if len(res.Changes) != 1 {
		t.Fatalf("changes = %v, want exactly one", res.Changes)
	}

	ch := res.Changes[0]
	if ch.FieldName != "submissionDeadline" {
		t.Fatalf("fieldName = %q", ch.FieldName)
	}
	if ch.OldValue != "2026-10-15T15:00:00Z" || ch.NewValue != "2026-10-22T15:00:00Z" {
		t.Fatalf("change values = %q -> %q", ch.OldValue, ch.NewValue)
	}
}

func TestResolveAmountBecomesAbsent(t *testing.T) {
	t.Parallel()

	prior := baseRecord()
	newRecord := baseRecord()
	newRecord.EmdAmount = nil

	res := Resolve(newRecord, prior)
	if res.Kind != ResolutionCorrigendum {
		t.Fatalf("kind = %s, want %s", res.Kind, ResolutionCorrigendum)
	}
	if got := res.Changes[0]; got.OldValue != "25000" || got.NewValue != "" {
		t.Fatalf("change values = %q -> %q, want 25000 -> empty", got.OldValue, got.NewValue)
	}
}

func TestCarryProvenance(t *testing.T) {
	t.Parallel()

	prior := baseRecord()
	prior.ID = 42
	prior.IsManualOverride = true
	prior.OverrideStatus = model.StatusEligible
	prior.OverrideReason = "verified with issuing department"

	newRecord := baseRecord()
	CarryProvenance(newRecord, prior)

	if newRecord.ID != 42 {
		t.Fatalf("id = %d, want 42", newRecord.ID)
	}
	if newRecord.IsManualOverride {
		t.Fatalf("corrigendum kept the manual override active")
	}
	if newRecord.OverrideStatus != model.StatusEligible || newRecord.OverrideReason == "" {
		t.Fatalf("override provenance dropped: %+v", newRecord)
	}
	if !newRecord.IsCorrigendum {
		t.Fatalf("isCorrigendum not set")
	}
}

package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/classifier"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/logger"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// StartReanalysis re-runs classification over every stored tender with the
// current criteria. Runs as a background job on the same progress plumbing
// as uploads. Manual overrides are left in place; only the computed fields
// are rewritten.
func (p *Pipeline) StartReanalysis() string {
	jobID := uuid.NewString()
	p.broadcaster.Register(jobID)

	go p.runReanalysis(jobID)

	return jobID
}

func (p *Pipeline) runReanalysis(jobID string) {
	log := logger.ForJob(jobID)
	job := &model.UploadJob{
		JobID:     jobID,
		FileName:  "reanalysis",
		Status:    model.JobStatusRunning,
		StartedAt: time.Now(),
	}

	criteria, err := p.store.GetCriteria()
	if err != nil {
		p.fail(job, 0, fmt.Sprintf("failed to load company criteria: %v", err))
		return
	}
	if err := classifier.ValidateCriteria(criteria); err != nil {
		p.fail(job, 0, fmt.Sprintf("company criteria misconfigured: %v", err))
		return
	}

	tenders, err := p.store.ListAllTenders()
	if err != nil {
		p.fail(job, 0, fmt.Sprintf("storage unavailable: %v", err))
		return
	}

	job.TotalRows = len(tenders)
	log.Info("reanalysis started", "tenders", job.TotalRows)
	p.broadcaster.Publish(jobID, job.Snapshot(model.EventProgress, 0))

	eta := newEtaTracker()
	consecutiveStorageFailures := 0

	for i := range tenders {
		rowStart := time.Now()
		t := tenders[i]

		result := p.classifier.Classify(t, criteria)

		p.keys.Lock(t.Key())
		err := withRetry(func() error {
			return p.store.UpdateClassification(t.ID, result.MatchPercentage, result.Status, result.Tags, result.MatchedNegativeKeyword)
		})
		p.keys.Unlock(t.Key())

		if err != nil {
			job.FailedCount++
			consecutiveStorageFailures++
			log.Warn("reclassification persist failed", "tender_id", t.ID, "error", err)
			if consecutiveStorageFailures >= maxConsecutiveStorageFailures {
				p.fail(job, 0, fmt.Sprintf("storage unavailable: %v", err))
				return
			}
			p.publishProgress(job, eta)
			continue
		}
		consecutiveStorageFailures = 0

		job.ProcessedRows++
		if t.Source == model.SourceGem {
			job.GemCount++
		} else {
			job.NonGemCount++
		}

		eta.record(time.Since(rowStart))
		p.publishProgress(job, eta)
	}

	job.Status = model.JobStatusComplete
	snap := job.Snapshot(model.EventComplete, 0)
	snap.Message = "reanalysis complete"
	p.broadcaster.Publish(jobID, snap)

	log.Info("reanalysis complete", "processed", job.ProcessedRows, "failed", job.FailedCount)
}

// ReclassifyTender re-runs classification for a single tender, optionally
// substituting corrected eligibility text first. Synchronous; used by the
// per-tender reanalyze endpoint.
func (p *Pipeline) ReclassifyTender(id int64, eligibilityText string) (*model.TenderRecord, error) {
	criteria, err := p.store.GetCriteria()
	if err != nil {
		return nil, fmt.Errorf("failed to load company criteria: %w", err)
	}
	if err := classifier.ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	tender, err := p.store.GetTenderByID(id)
	if err != nil {
		return nil, err
	}
	if tender == nil {
		return nil, nil
	}

	p.keys.Lock(tender.Key())
	defer p.keys.Unlock(tender.Key())

	if eligibilityText != "" {
		tender.EligibilityCriteria = eligibilityText
		if err := p.store.UpdateEligibilityText(id, eligibilityText); err != nil {
			return nil, err
		}
	}

	result := p.classifier.Classify(tender, criteria)
	if err := p.store.UpdateClassification(id, result.MatchPercentage, result.Status, result.Tags, result.MatchedNegativeKeyword); err != nil {
		return nil, err
	}
	classifier.Apply(tender, result)

	return tender, nil
}

package importer

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/classifier"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/logger"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/parser"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/progress"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/store"
)

const (
	// bounded retry for one record's write before counting it failed
	maxWriteAttempts = 3
	writeBackoff     = 100 * time.Millisecond

	// this many storage failures in a row means the store is down, not a
	// bad record: the job aborts instead of failing every remaining row
	maxConsecutiveStorageFailures = 5
)

// Pipeline orchestrates upload jobs: rows stream through parse -> classify ->
// resolve -> persist while counters flow to the broadcaster. Jobs run
// concurrently; each job's own row stream is sequential, and the shared
// KeyLock serializes work per external id across jobs.
type Pipeline struct {
	store       *store.Store
	classifier  *classifier.Classifier
	broadcaster *progress.Broadcaster
	keys        *KeyLock
	recognizer  *parser.SheetRecognizer
}

// NewPipeline creates a pipeline
func NewPipeline(st *store.Store, cl *classifier.Classifier, br *progress.Broadcaster) *Pipeline {
	return &Pipeline{
		store:       st,
		classifier:  cl,
		broadcaster: br,
		keys:        NewKeyLock(),
		recognizer:  parser.NewSheetRecognizer(),
	}
}

// UploadOptions one upload job's inputs
type UploadOptions struct {
	FilePath string
	FileName string
	// the handler saves the upload to a temp path; the job owns its cleanup
	RemoveFileAfter bool
}

// Start registers a job and begins processing in the background.
// Returns the job id immediately, before any row is read.
func (p *Pipeline) Start(opts UploadOptions) string {
	jobID := uuid.NewString()
	p.broadcaster.Register(jobID)

	go p.run(jobID, opts)

	return jobID
}

// sheetWork one recognized sheet queued for processing
type sheetWork struct {
	name      string
	sheetType parser.SheetType
	rows      [][]string
}

// run executes one upload job to completion or hard failure. Started
// ingestions are never cancelled; the batch is bounded by file size.
func (p *Pipeline) run(jobID string, opts UploadOptions) {
	log := logger.ForJob(jobID)
	job := &model.UploadJob{
		JobID:     jobID,
		FileName:  opts.FileName,
		Status:    model.JobStatusRunning,
		StartedAt: time.Now(),
	}

	if opts.RemoveFileAfter {
		defer os.Remove(opts.FilePath)
	}

	logID, err := p.store.CreateImportLog(jobID, opts.FileName)
	if err != nil {
		// storage unreachable at start is job-fatal
		p.fail(job, 0, fmt.Sprintf("storage unavailable: %v", err))
		return
	}

	// criteria snapshot: read once, never re-read mid-job
	criteria, err := p.store.GetCriteria()
	if err != nil {
		p.fail(job, logID, fmt.Sprintf("failed to load company criteria: %v", err))
		return
	}
	if err := classifier.ValidateCriteria(criteria); err != nil {
		p.fail(job, logID, fmt.Sprintf("company criteria misconfigured: %v", err))
		return
	}

	file, err := excelize.OpenFile(opts.FilePath)
	if err != nil {
		p.fail(job, logID, fmt.Sprintf("cannot open spreadsheet: %v", err))
		return
	}
	defer file.Close()

	sheets, err := p.collectSheets(file, log)
	if err != nil {
		p.fail(job, logID, err.Error())
		return
	}

	for _, sheet := range sheets {
		job.TotalRows += dataRowCount(sheet.rows)
	}

	log.Info("upload job started",
		"file", opts.FileName, "sheets", len(sheets), "total_rows", job.TotalRows)
	p.broadcaster.Publish(jobID, job.Snapshot(model.EventProgress, 0))

	eta := newEtaTracker()
	seen := make(map[string]*model.TenderRecord)
	consecutiveStorageFailures := 0

	for _, sheet := range sheets {
		job.CurrentSheet = sheet.name

		mappings := parser.NewFieldMapper().Map(sheet.rows[0])
		rowParser := parser.NewRowParser(sheet.sheetType, mappings, sheet.name, opts.FileName)

		for rowIdx := 1; rowIdx < len(sheet.rows); rowIdx++ {
			rowStart := time.Now()

			record, perr := rowParser.Parse(sheet.rows[rowIdx], rowIdx+1)
			if perr != nil {
				// one bad row never sinks the batch
				job.FailedCount++
				log.Debug("row skipped", "sheet", sheet.name, "reason", perr.Error())
				p.publishProgress(job, eta)
				continue
			}

			classifier.Apply(record, p.classifier.Classify(record, criteria))

			kind, err := p.resolveAndPersist(record, seen)
			if err != nil {
				job.FailedCount++
				consecutiveStorageFailures++
				log.Warn("row persist failed", "sheet", sheet.name, "row", rowIdx+1, "error", err)
				if consecutiveStorageFailures >= maxConsecutiveStorageFailures {
					p.fail(job, logID, fmt.Sprintf("storage unavailable: %v", err))
					return
				}
				p.publishProgress(job, eta)
				continue
			}
			consecutiveStorageFailures = 0

			job.ProcessedRows++
			if record.Source == model.SourceGem {
				job.GemCount++
			} else {
				job.NonGemCount++
			}
			switch kind {
			case ResolutionNew:
				job.NewCount++
			case ResolutionDuplicate:
				job.DuplicateCount++
			case ResolutionCorrigendum:
				job.CorrigendumCount++
			}

			eta.record(time.Since(rowStart))
			p.publishProgress(job, eta)
		}
	}

	job.Status = model.JobStatusComplete
	job.CurrentSheet = ""
	if err := p.store.FinishImportLog(logID, job, ""); err != nil {
		log.Warn("failed to finish import log", "error", err)
	}

	snap := job.Snapshot(model.EventComplete, 0)
	snap.Message = "import complete"
	p.broadcaster.Publish(job.JobID, snap)

	log.Info("upload job complete",
		"processed", job.ProcessedRows, "failed", job.FailedCount,
		"new", job.NewCount, "duplicate", job.DuplicateCount,
		"corrigendum", job.CorrigendumCount)
}

// collectSheets recognizes and orders the workable sheets: GEM before
// Non-GEM, file order within a type. The corrigendum tie-break and progress
// monotonicity both depend on this ordering being reproducible.
func (p *Pipeline) collectSheets(file *excelize.File, log *slog.Logger) ([]sheetWork, error) {
	var gemSheets, nonGemSheets []sheetWork

	for _, sheetName := range file.GetSheetList() {
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("cannot read sheet %q: %v", sheetName, err)
		}
		if len(rows) == 0 {
			continue
		}

		recognition := p.recognizer.Recognize(sheetName, rows[0])
		switch recognition.SheetType {
		case parser.SheetTypeGem:
			gemSheets = append(gemSheets, sheetWork{name: sheetName, sheetType: recognition.SheetType, rows: rows})
		case parser.SheetTypeNonGem:
			nonGemSheets = append(nonGemSheets, sheetWork{name: sheetName, sheetType: recognition.SheetType, rows: rows})
		default:
			log.Warn("unrecognized sheet skipped", "sheet", sheetName)
		}
	}

	sheets := append(gemSheets, nonGemSheets...)
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no GEM or Non-GEM sheet found in file")
	}
	return sheets, nil
}

// resolveAndPersist runs duplicate detection and writes the outcome.
// The caller holds no locks; per-external-id serialization happens here.
func (p *Pipeline) resolveAndPersist(record *model.TenderRecord, seen map[string]*model.TenderRecord) (ResolutionKind, error) {
	key := record.Key()
	p.keys.Lock(key)
	defer p.keys.Unlock(key)

	// same external id twice in one batch: the later row wins and is
	// compared against the earlier in-batch version, not against storage
	prior, inBatch := seen[key]
	if !inBatch {
		stored, err := p.store.GetTenderByExternal(record.Source, record.ExternalID)
		if err != nil {
			return "", err
		}
		prior = stored
	}

	resolution := Resolve(record, prior)

	switch resolution.Kind {
	case ResolutionNew:
		if err := withRetry(func() error {
			_, err := p.store.InsertTender(record)
			return err
		}); err != nil {
			return "", err
		}
		seen[key] = record

	case ResolutionDuplicate:
		// counted, storage untouched, classification not recomputed
		if !inBatch {
			seen[key] = prior
		}

	case ResolutionCorrigendum:
		CarryProvenance(record, prior)
		if err := withRetry(func() error {
			return p.store.UpdateTender(record)
		}); err != nil {
			return "", err
		}
		if err := withRetry(func() error {
			return p.store.InsertChanges(record.ID, resolution.Changes)
		}); err != nil {
			return "", err
		}
		seen[key] = record
	}

	return resolution.Kind, nil
}

// publishProgress emits a progress snapshot; never blocks the row loop
func (p *Pipeline) publishProgress(job *model.UploadJob, eta *etaTracker) {
	remaining := job.TotalRows - job.ProcessedRows - job.FailedCount
	p.broadcaster.Publish(job.JobID, job.Snapshot(model.EventProgress, eta.remainingSeconds(remaining)))
}

// fail transitions the job to its terminal error state
func (p *Pipeline) fail(job *model.UploadJob, logID int64, message string) {
	job.Status = model.JobStatusError
	logger.ForJob(job.JobID).Error("upload job failed", "reason", message)

	if logID > 0 {
		// best effort: the store may be the thing that is down
		_ = p.store.FinishImportLog(logID, job, message)
	}

	snap := job.Snapshot(model.EventError, 0)
	snap.Message = message
	p.broadcaster.Publish(job.JobID, snap)
}

// withRetry bounded retry with linear backoff for transient storage errors
func withRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < maxWriteAttempts {
			time.Sleep(time.Duration(attempt) * writeBackoff)
		}
	}
	return err
}

func dataRowCount(rows [][]string) int {
	if len(rows) < 1 {
		return 0
	}
	return len(rows) - 1
}

// etaTracker moving average of per-row latency over a sliding window
type etaTracker struct {
	window []time.Duration
	idx    int
	filled bool
}

const etaWindowSize = 50

func newEtaTracker() *etaTracker {
	return &etaTracker{
		window: make([]time.Duration, etaWindowSize),
	}
}

func (e *etaTracker) record(d time.Duration) {
	e.window[e.idx] = d
	e.idx++
	if e.idx == len(e.window) {
		e.idx = 0
		e.filled = true
	}
}

// remainingSeconds remaining_rows * avg_latency
func (e *etaTracker) remainingSeconds(remainingRows int) float64 {
	if remainingRows <= 0 {
		return 0
	}

	n := e.idx
	if e.filled {
		n = len(e.window)
	}
	if n == 0 {
		return 0
	}

	var sum time.Duration
	for i := 0; i < n; i++ {
		sum += e.window[i]
	}
	avg := sum / time.Duration(n)

	return (time.Duration(remainingRows) * avg).Seconds()
}

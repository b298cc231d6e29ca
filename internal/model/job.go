package model

import "time"

// JobStatus upload job lifecycle
type JobStatus string

const (
	JobStatusRunning  JobStatus = "running"
	JobStatusComplete JobStatus = "complete"
	JobStatusError    JobStatus = "error"
)

// Snapshot event types emitted on the progress stream
const (
	EventProgress = "progress"
	EventComplete = "complete"
	EventError    = "error"
)

// UploadJob ephemeral per-upload state, mutated only by the pipeline
// goroutine that owns it
type UploadJob struct {
	JobID     string    `json:"jobId"`
	FileName  string    `json:"fileName"`
	Status    JobStatus `json:"status"`
	StartedAt time.Time `json:"startedAt"`

	TotalRows        int    `json:"totalRows"`
	ProcessedRows    int    `json:"processedRows"`
	GemCount         int    `json:"gemCount"`
	NonGemCount      int    `json:"nonGemCount"`
	FailedCount      int    `json:"failedCount"`
	NewCount         int    `json:"newCount"`
	DuplicateCount   int    `json:"duplicateCount"`
	CorrigendumCount int    `json:"corrigendumCount"`
	CurrentSheet     string `json:"currentSheet"`
}

// ProgressSnapshot one point-in-time view of a running job, shaped for the
// event stream
type ProgressSnapshot struct {
	Type     string `json:"type"` // progress/complete/error
	JobID    string `json:"jobId"`
	FileName string `json:"fileName"`

	TotalRows        int    `json:"totalRows"`
	ProcessedRows    int    `json:"processedRows"`
	GemCount         int    `json:"gemCount"`
	NonGemCount      int    `json:"nonGemCount"`
	FailedCount      int    `json:"failedCount"`
	NewCount         int    `json:"newCount"`
	DuplicateCount   int    `json:"duplicateCount"`
	CorrigendumCount int    `json:"corrigendumCount"`
	CurrentSheet     string `json:"currentSheet"`

	// remaining_rows * moving average of per-row latency, in seconds
	EstimatedTimeRemaining float64 `json:"estimatedTimeRemaining"`

	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot builds a snapshot of the current counters
func (j *UploadJob) Snapshot(eventType string, etaSeconds float64) ProgressSnapshot {
	return ProgressSnapshot{
		Type:                   eventType,
		JobID:                  j.JobID,
		FileName:               j.FileName,
		TotalRows:              j.TotalRows,
		ProcessedRows:          j.ProcessedRows,
		GemCount:               j.GemCount,
		NonGemCount:            j.NonGemCount,
		FailedCount:            j.FailedCount,
		NewCount:               j.NewCount,
		DuplicateCount:         j.DuplicateCount,
		CorrigendumCount:       j.CorrigendumCount,
		CurrentSheet:           j.CurrentSheet,
		EstimatedTimeRemaining: etaSeconds,
		Timestamp:              time.Now(),
	}
}

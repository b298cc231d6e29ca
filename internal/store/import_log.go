package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// ImportLog one upload job's persisted summary
type ImportLog struct {
	ID               int64      `json:"id"`
	JobID            string     `json:"jobId"`
	Filename         string     `json:"filename"`
	Status           string     `json:"status"`
	TotalRows        int        `json:"totalRows"`
	ProcessedRows    int        `json:"processedRows"`
	GemCount         int        `json:"gemCount"`
	NonGemCount      int        `json:"nonGemCount"`
	FailedCount      int        `json:"failedCount"`
	NewCount         int        `json:"newCount"`
	DuplicateCount   int        `json:"duplicateCount"`
	CorrigendumCount int        `json:"corrigendumCount"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog records a started upload, returns the log id
func (s *Store) CreateImportLog(jobID, filename string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (job_id, filename, status) VALUES (?, ?, 'running')
	`, jobID, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog writes the final counters and terminal status
func (s *Store) FinishImportLog(id int64, job *model.UploadJob, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			status = ?,
			total_rows = ?,
			processed_rows = ?,
			gem_count = ?,
			non_gem_count = ?,
			failed_count = ?,
			new_count = ?,
			duplicate_count = ?,
			corrigendum_count = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(job.Status), job.TotalRows, job.ProcessedRows,
		job.GemCount, job.NonGemCount, job.FailedCount,
		job.NewCount, job.DuplicateCount, job.CorrigendumCount,
		errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs upload history, newest first
func (s *Store) ListImportLogs(limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, job_id, filename, status, total_rows, processed_rows,
			gem_count, non_gem_count, failed_count,
			new_count, duplicate_count, corrigendum_count,
			error_message, started_at, completed_at
		FROM import_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	var logs []ImportLog
	for rows.Next() {
		var l ImportLog
		var errMsg sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(
			&l.ID, &l.JobID, &l.Filename, &l.Status, &l.TotalRows, &l.ProcessedRows,
			&l.GemCount, &l.NonGemCount, &l.FailedCount,
			&l.NewCount, &l.DuplicateCount, &l.CorrigendumCount,
			&errMsg, &l.StartedAt, &completedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		l.ErrorMessage = errMsg.String
		if completedAt.Valid {
			t := completedAt.Time
			l.CompletedAt = &t
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

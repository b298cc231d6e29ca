package store

import (
	"fmt"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// InsertChanges appends one corrigendum detection's field diffs, in order
func (s *Store) InsertChanges(tenderID int64, changes []model.CorrigendumChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO corrigendum_changes (tender_id, seq, field_name, old_value, new_value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, ch := range changes {
		if _, err := stmt.Exec(tenderID, i+1, ch.FieldName, ch.OldValue, ch.NewValue); err != nil {
			return fmt.Errorf("failed to insert change: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListChangesByTender ordered change history for one tender
func (s *Store) ListChangesByTender(tenderID int64) ([]model.CorrigendumChange, error) {
	rows, err := s.db.Query(`
		SELECT id, tender_id, seq, field_name, old_value, new_value, created_at
		FROM corrigendum_changes
		WHERE tender_id = ?
		ORDER BY id
	`, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer rows.Close()

	var changes []model.CorrigendumChange
	for rows.Next() {
		var ch model.CorrigendumChange
		if err := rows.Scan(&ch.ID, &ch.TenderID, &ch.Seq, &ch.FieldName, &ch.OldValue, &ch.NewValue, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		changes = append(changes, ch)
	}
	return changes, rows.Err()
}

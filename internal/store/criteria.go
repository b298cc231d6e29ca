package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

const (
	configKeyTurnoverCr   = "turnover_cr"
	configKeyProjectTypes = "project_types"
)

// SetConfig writes one config key
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// GetConfig reads one config key, empty string when unset
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// GetCriteria reads the company criteria snapshot. Unset keys yield the
// zero criteria, which the classifier treats as "nothing configured yet".
func (s *Store) GetCriteria() (model.CompanyCriteria, error) {
	criteria := model.CompanyCriteria{}

	turnover, err := s.GetConfig(configKeyTurnoverCr)
	if err != nil {
		return criteria, err
	}
	if turnover != "" {
		f, err := strconv.ParseFloat(turnover, 64)
		if err != nil {
			return criteria, fmt.Errorf("malformed turnover_cr %q: %w", turnover, err)
		}
		criteria.TurnoverCr = f
	}

	typesJSON, err := s.GetConfig(configKeyProjectTypes)
	if err != nil {
		return criteria, err
	}
	if typesJSON != "" {
		if err := json.Unmarshal([]byte(typesJSON), &criteria.ProjectTypes); err != nil {
			return criteria, fmt.Errorf("malformed project_types %q: %w", typesJSON, err)
		}
	}

	return criteria, nil
}

// SetCriteria writes the company criteria. Applies forward only: jobs
// already running keep the snapshot they loaded at start.
func (s *Store) SetCriteria(criteria model.CompanyCriteria) error {
	if err := s.SetConfig(configKeyTurnoverCr, strconv.FormatFloat(criteria.TurnoverCr, 'f', -1, 64)); err != nil {
		return err
	}

	typesJSON, err := json.Marshal(criteria.ProjectTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal project types: %w", err)
	}
	return s.SetConfig(configKeyProjectTypes, string(typesJSON))
}

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

const tenderColumns = `id, external_id, source, title, department, organization,
	eligibility_criteria, checklist, estimated_value, emd_amount, turnover_requirement,
	publish_date, submission_deadline, opening_date,
	match_percentage, status, tags, matched_negative_keyword,
	is_msme_exempted, is_startup_exempted,
	is_manual_override, override_status, override_reason, override_comment,
	is_corrigendum, row_no, source_sheet, source_file, created_at, updated_at`

// InsertTender inserts a newly classified record, returns the row id
func (s *Store) InsertTender(t *model.TenderRecord) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO tenders (
			external_id, source, title, department, organization,
			eligibility_criteria, checklist,
			estimated_value, emd_amount, turnover_requirement,
			publish_date, submission_deadline, opening_date,
			match_percentage, status, tags, matched_negative_keyword,
			is_msme_exempted, is_startup_exempted,
			is_manual_override, override_status, override_reason, override_comment,
			is_corrigendum, row_no, source_sheet, source_file
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ExternalID, t.Source, t.Title, t.Department, t.Organization,
		t.EligibilityCriteria, t.Checklist,
		nullFloat(t.EstimatedValue), nullFloat(t.EmdAmount), nullFloat(t.TurnoverRequirement),
		nullTime(t.PublishDate), nullTime(t.SubmissionDeadline), nullTime(t.OpeningDate),
		t.MatchPercentage, t.Status, marshalTags(t.Tags), t.MatchedNegativeKeyword,
		boolInt(t.IsMsmeExempted), boolInt(t.IsStartupExempted),
		boolInt(t.IsManualOverride), string(t.OverrideStatus), t.OverrideReason, t.OverrideComment,
		boolInt(t.IsCorrigendum), t.RowNo, t.SourceSheet, t.SourceFile,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tender: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get tender id: %w", err)
	}
	t.ID = id
	return id, nil
}

// UpdateTender rewrites a record in place (corrigendum path). Identity
// columns never change.
func (s *Store) UpdateTender(t *model.TenderRecord) error {
	_, err := s.db.Exec(`
		UPDATE tenders SET
			title = ?, department = ?, organization = ?,
			eligibility_criteria = ?, checklist = ?,
			estimated_value = ?, emd_amount = ?, turnover_requirement = ?,
			publish_date = ?, submission_deadline = ?, opening_date = ?,
			match_percentage = ?, status = ?, tags = ?, matched_negative_keyword = ?,
			is_msme_exempted = ?, is_startup_exempted = ?,
			is_manual_override = ?, override_status = ?, override_reason = ?, override_comment = ?,
			is_corrigendum = ?, row_no = ?, source_sheet = ?, source_file = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`,
		t.Title, t.Department, t.Organization,
		t.EligibilityCriteria, t.Checklist,
		nullFloat(t.EstimatedValue), nullFloat(t.EmdAmount), nullFloat(t.TurnoverRequirement),
		nullTime(t.PublishDate), nullTime(t.SubmissionDeadline), nullTime(t.OpeningDate),
		t.MatchPercentage, t.Status, marshalTags(t.Tags), t.MatchedNegativeKeyword,
		boolInt(t.IsMsmeExempted), boolInt(t.IsStartupExempted),
		boolInt(t.IsManualOverride), string(t.OverrideStatus), t.OverrideReason, t.OverrideComment,
		boolInt(t.IsCorrigendum), t.RowNo, t.SourceSheet, t.SourceFile,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tender: %w", err)
	}
	return nil
}

// GetTenderByExternal looks up the prior version by (external_id, source).
// Returns nil without error when no prior record exists.
func (s *Store) GetTenderByExternal(source model.Source, externalID string) (*model.TenderRecord, error) {
	row := s.db.QueryRow(
		"SELECT "+tenderColumns+" FROM tenders WHERE external_id = ? AND source = ?",
		externalID, source,
	)
	t, err := scanTender(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tender: %w", err)
	}
	return t, nil
}

// GetTenderByID looks up one record by row id
func (s *Store) GetTenderByID(id int64) (*model.TenderRecord, error) {
	row := s.db.QueryRow("SELECT "+tenderColumns+" FROM tenders WHERE id = ?", id)
	t, err := scanTender(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tender: %w", err)
	}
	return t, nil
}

// TenderQueryOptions tender listing filters
type TenderQueryOptions struct {
	Source *model.Source
	Status *model.Status
	Tag    *string
	Limit  int
	Offset int
}

func buildTenderFilter(opts TenderQueryOptions) (string, []interface{}) {
	query := " WHERE 1=1"
	args := []interface{}{}

	if opts.Source != nil {
		query += " AND source = ?"
		args = append(args, *opts.Source)
	}
	if opts.Status != nil {
		query += " AND status = ?"
		args = append(args, *opts.Status)
	}
	if opts.Tag != nil {
		// tags is a JSON array of strings
		query += " AND tags LIKE ?"
		args = append(args, `%"`+*opts.Tag+`"%`)
	}

	return query, args
}

// ListTenders lists records matching the filters, newest first
func (s *Store) ListTenders(opts TenderQueryOptions) ([]*model.TenderRecord, error) {
	filter, args := buildTenderFilter(opts)
	query := "SELECT " + tenderColumns + " FROM tenders" + filter + " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenders: %w", err)
	}
	defer rows.Close()

	var records []*model.TenderRecord
	for rows.Next() {
		t, err := scanTender(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tender: %w", err)
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

// ListAllTenders streams-free full listing, in id order, for re-analysis
func (s *Store) ListAllTenders() ([]*model.TenderRecord, error) {
	rows, err := s.db.Query("SELECT " + tenderColumns + " FROM tenders ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query tenders: %w", err)
	}
	defer rows.Close()

	var records []*model.TenderRecord
	for rows.Next() {
		t, err := scanTender(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tender: %w", err)
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

// CountTenders counts records matching the filters
func (s *Store) CountTenders(opts TenderQueryOptions) (int, error) {
	filter, args := buildTenderFilter(opts)
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tenders"+filter, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tenders: %w", err)
	}
	return count, nil
}

// CountByStatus record counts grouped by status
func (s *Store) CountByStatus() (map[model.Status]int, error) {
	rows, err := s.db.Query("SELECT status, COUNT(*) FROM tenders GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status model.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// UpdateClassification rewrites only the classification outputs.
// Override fields are untouched: re-analysis never undoes a manual decision.
func (s *Store) UpdateClassification(id int64, matchPercentage int, status model.Status, tags []string, matchedNegativeKeyword string) error {
	_, err := s.db.Exec(`
		UPDATE tenders SET
			match_percentage = ?, status = ?, tags = ?, matched_negative_keyword = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, matchPercentage, status, marshalTags(tags), matchedNegativeKeyword, id)
	if err != nil {
		return fmt.Errorf("failed to update classification: %w", err)
	}
	return nil
}

// UpdateEligibilityText replaces the free-text criteria (PDF-assisted path)
func (s *Store) UpdateEligibilityText(id int64, text string) error {
	_, err := s.db.Exec(`
		UPDATE tenders SET eligibility_criteria = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, text, id)
	if err != nil {
		return fmt.Errorf("failed to update eligibility text: %w", err)
	}
	return nil
}

// SetOverride writes the manual override fields
func (s *Store) SetOverride(id int64, isOverride bool, status model.Status, reason, comment string) error {
	_, err := s.db.Exec(`
		UPDATE tenders SET
			is_manual_override = ?, override_status = ?, override_reason = ?, override_comment = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, boolInt(isOverride), string(status), reason, comment, id)
	if err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTender(row scanner) (*model.TenderRecord, error) {
	var t model.TenderRecord
	var department, organization, eligibility, checklist sql.NullString
	var estimatedValue, emdAmount, turnoverReq sql.NullFloat64
	var publishDate, deadline, openingDate sql.NullString
	var tagsJSON string
	var negKeyword, overrideStatus, overrideReason, overrideComment sql.NullString
	var msme, startup, manualOverride, corrigendum int
	var rowNo sql.NullInt64
	var sourceSheet, sourceFile sql.NullString

	err := row.Scan(
		&t.ID, &t.ExternalID, &t.Source, &t.Title, &department, &organization,
		&eligibility, &checklist, &estimatedValue, &emdAmount, &turnoverReq,
		&publishDate, &deadline, &openingDate,
		&t.MatchPercentage, &t.Status, &tagsJSON, &negKeyword,
		&msme, &startup,
		&manualOverride, &overrideStatus, &overrideReason, &overrideComment,
		&corrigendum, &rowNo, &sourceSheet, &sourceFile,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Department = department.String
	t.Organization = organization.String
	t.EligibilityCriteria = eligibility.String
	t.Checklist = checklist.String
	t.EstimatedValue = floatPtr(estimatedValue)
	t.EmdAmount = floatPtr(emdAmount)
	t.TurnoverRequirement = floatPtr(turnoverReq)
	t.PublishDate = timePtr(publishDate)
	t.SubmissionDeadline = timePtr(deadline)
	t.OpeningDate = timePtr(openingDate)
	t.Tags = unmarshalTags(tagsJSON)
	t.MatchedNegativeKeyword = negKeyword.String
	t.IsMsmeExempted = msme != 0
	t.IsStartupExempted = startup != 0
	t.IsManualOverride = manualOverride != 0
	t.OverrideStatus = model.Status(overrideStatus.String)
	t.OverrideReason = overrideReason.String
	t.OverrideComment = overrideComment.String
	t.IsCorrigendum = corrigendum != 0
	t.RowNo = int(rowNo.Int64)
	t.SourceSheet = sourceSheet.String
	t.SourceFile = sourceFile.String

	return &t, nil
}

func marshalTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullTime(p *time.Time) interface{} {
	if p == nil {
		return nil
	}
	return p.UTC().Format(time.RFC3339)
}

func timePtr(n sql.NullString) *time.Time {
	if !n.Valid || n.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, n.String)
	if err != nil {
		return nil
	}
	return &t
}

package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SourceKind represents the data source of a merge run.
type SourceKind string

const (
	SourceCalendar SourceKind = "calendar"
	SourceInvoice  SourceKind = "invoice"
)

// MergeRecord represents one merged section of a reconciliation run.
type MergeRecord struct {
	ID           int64
	RunID        string
	SourceKind   SourceKind
	TargetFile   string
	SectionTitle string
	Added        int
	Removed      int
	Adjusted     int
	WindowStart  string
	WindowEnd    string
	MergedAt     time.Time
}

// MergeHistory manages merge history operations.
type MergeHistory struct {
	conn *Connection
}

// NewMergeHistory creates a new MergeHistory instance.
func NewMergeHistory(conn *Connection) *MergeHistory {
	return &MergeHistory{conn: conn}
}

// LastRunKey is the metadata key holding the run ID of the most recently
// recorded run.
const LastRunKey = "last_run_id"

// RecordRun records the merged sections of one run atomically: either the
// whole run lands in the history, or none of it does. The last-run metadata
// is updated in the same transaction.
func (h *MergeHistory) RecordRun(runID string, records []MergeRecord) error {
	insert := `
		INSERT INTO merge_history (run_id, source_kind, target_file, section_title,
			added, removed, adjusted, window_start, window_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	metadata := `
		INSERT INTO merge_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	err := h.conn.Transaction(func(tx *sql.Tx) error {
		for _, record := range records {
			if _, err := tx.Exec(insert,
				runID,
				string(record.SourceKind),
				record.TargetFile,
				record.SectionTitle,
				record.Added,
				record.Removed,
				record.Adjusted,
				record.WindowStart,
				record.WindowEnd,
			); err != nil {
				return err
			}
		}
		_, err := tx.Exec(metadata, LastRunKey, runID)
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// GetRecentMerges retrieves the most recent merge records.
func (h *MergeHistory) GetRecentMerges(limit int) ([]MergeRecord, error) {
	query := `
		SELECT id, run_id, source_kind, target_file, section_title,
			added, removed, adjusted, window_start, window_end, merged_at
		FROM merge_history
		ORDER BY merged_at DESC, id DESC
		LIMIT ?
	`

	rows, err := h.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent merges: %w", err)
	}
	defer rows.Close()

	return scanMergeRecords(rows)
}

func scanMergeRecords(rows *sql.Rows) ([]MergeRecord, error) {
	var records []MergeRecord
	for rows.Next() {
		var record MergeRecord
		var kind string

		if err := rows.Scan(
			&record.ID,
			&record.RunID,
			&kind,
			&record.TargetFile,
			&record.SectionTitle,
			&record.Added,
			&record.Removed,
			&record.Adjusted,
			&record.WindowStart,
			&record.WindowEnd,
			&record.MergedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan merge record: %w", err)
		}

		record.SourceKind = SourceKind(kind)
		records = append(records, record)
	}

	return records, nil
}

// Stats represents merge statistics.
type Stats struct {
	TotalRuns     int
	TotalSections int
	TotalAdded    int
	TotalRemoved  int
	TotalAdjusted int
	LastMerge     sql.NullString
}

// GetStats retrieves merge statistics.
func (h *MergeHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`SELECT COUNT(DISTINCT run_id) FROM merge_history`).Scan(&stats.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to get run count: %w", err)
	}

	err = h.conn.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(added), 0),
			COALESCE(SUM(removed), 0),
			COALESCE(SUM(adjusted), 0)
		FROM merge_history
	`).Scan(&stats.TotalSections, &stats.TotalAdded, &stats.TotalRemoved, &stats.TotalAdjusted)
	if err != nil {
		return nil, fmt.Errorf("failed to get section totals: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(merged_at) FROM merge_history`).Scan(&stats.LastMerge)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last merge time: %w", err)
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value, "" when the key was never set.
func (h *MergeHistory) GetMetadata(key string) (string, error) {
	query := `SELECT value FROM merge_metadata WHERE key = ?`

	var value string
	err := h.conn.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

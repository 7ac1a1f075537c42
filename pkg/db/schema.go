// Package db provides SQLite database management for merge history and metadata.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Merge history table
-- Tracks every reconciliation run applied to a workfile or invoice
CREATE TABLE IF NOT EXISTS merge_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,              -- UUID of the run
    source_kind TEXT NOT NULL,         -- 'calendar' or 'invoice'
    target_file TEXT NOT NULL,         -- Path to the updated file
    section_title TEXT NOT NULL,       -- Title of the merged section
    added INTEGER NOT NULL,            -- Entries appended
    removed INTEGER NOT NULL,          -- Entries deleted
    adjusted INTEGER NOT NULL,         -- Entries fixed in place
    window_start TEXT NOT NULL,        -- YYYY-MM-DD
    window_end TEXT NOT NULL,          -- YYYY-MM-DD (exclusive)
    merged_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_merge_history_run
    ON merge_history(run_id);

CREATE INDEX IF NOT EXISTS idx_merge_history_section
    ON merge_history(section_title, merged_at);

-- Merge metadata table
-- Stores key-value metadata about merge operations
CREATE TABLE IF NOT EXISTS merge_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}

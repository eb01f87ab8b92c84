package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'todo'
		           CHECK(status IN ('todo','in_progress','done')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS subtasks (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'todo'
		           CHECK(status IN ('todo','in_progress','done')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks(task_id)`,

	// event_log is the only record of pause/resume/stop history: one
	// human-readable line per event, appended and never rewritten.
	`CREATE TABLE IF NOT EXISTS time_entries (
		id               TEXT PRIMARY KEY,
		subject_id       TEXT NOT NULL,
		subject_kind     TEXT NOT NULL CHECK(subject_kind IN ('task','subtask')),
		start_time       TEXT NOT NULL,
		end_time         TEXT,
		event_log        TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER,
		comment          TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_entries_subject ON time_entries(subject_kind, subject_id)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_start ON time_entries(start_time)`,

	// At most one open session per subject.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_entries_open_subject
		ON time_entries(subject_kind, subject_id) WHERE end_time IS NULL`,

	`ALTER TABLE time_entries ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`,
}

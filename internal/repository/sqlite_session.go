package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/whiteindia/selftrack-sub002/internal/db"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
)

// sessionColumns is the canonical SELECT column list for time_entries.
const sessionColumns = `id, subject_id, subject_kind, start_time, end_time,
		event_log, duration_minutes, comment, created_at, updated_at`

// SQLiteSessionRepo implements SessionRepo on the time_entries table.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

func (r *SQLiteSessionRepo) Insert(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO time_entries (id, subject_id, subject_kind, start_time, end_time,
		event_log, duration_minutes, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.SubjectID,
		string(s.SubjectKind),
		formatTime(s.StartTime),
		nullableTimeToString(s.EndTime),
		s.EventLog,
		nullableIntToValue(s.DurationMinutes),
		s.Comment,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("inserting session for %s %s: %w", s.SubjectKind, s.SubjectID, ErrConflict)
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM time_entries WHERE id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

// Update applies the non-nil fields of u in a single statement. Sessions
// with an end time are never modified: the update fails with
// ErrSessionClosed instead.
func (r *SQLiteSessionRepo) Update(ctx context.Context, id string, u domain.SessionUpdate) (*domain.Session, error) {
	if u.IsEmpty() {
		return r.Get(ctx, id)
	}

	updatedAt := u.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = nowUTC()
	}
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(updatedAt)}
	if u.EventLog != nil {
		sets = append(sets, "event_log = ?")
		args = append(args, *u.EventLog)
	}
	if u.EndTime != nil {
		sets = append(sets, "end_time = ?")
		args = append(args, formatTime(*u.EndTime))
	}
	if u.DurationMinutes != nil {
		sets = append(sets, "duration_minutes = ?")
		args = append(args, *u.DurationMinutes)
	}
	if u.Comment != nil {
		sets = append(sets, "comment = ?")
		args = append(args, *u.Comment)
	}
	args = append(args, id)

	query := `UPDATE time_entries SET ` + strings.Join(sets, ", ") + `
		WHERE id = ? AND end_time IS NULL
		RETURNING ` + sessionColumns
	updated, err := r.scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, ErrNotFound) {
		// Either the row is missing or it is already closed.
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("updating session %s: %w", id, ErrSessionClosed)
	}
	if err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return updated, nil
}

func (r *SQLiteSessionRepo) FindOpenBySubject(ctx context.Context, subjectID string, kind domain.SubjectKind) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM time_entries
		WHERE subject_id = ? AND subject_kind = ? AND end_time IS NULL`
	return r.scanSession(r.db.QueryRowContext(ctx, query, subjectID, string(kind)))
}

func (r *SQLiteSessionRepo) ListOpen(ctx context.Context) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM time_entries
		WHERE end_time IS NULL ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing open sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM time_entries
		WHERE start_time >= ? ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing recent sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListBySubject(ctx context.Context, subjectID string, kind domain.SubjectKind) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM time_entries
		WHERE subject_id = ? AND subject_kind = ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query, subjectID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing sessions by subject: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	s, err := scanSessionRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return s, nil
}

func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSessionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func scanSessionRow(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var kind, startStr, createdStr, updatedStr string
	var endStr sql.NullString
	var duration sql.NullInt64

	err := row.Scan(
		&s.ID, &s.SubjectID, &kind, &startStr, &endStr,
		&s.EventLog, &duration, &s.Comment, &createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	s.SubjectKind = domain.SubjectKind(kind)
	if s.StartTime, err = parseTime(startStr); err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	// Rows written before updated_at existed carry the empty default.
	if updatedStr == "" {
		s.UpdatedAt = s.CreatedAt
	} else if s.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	s.EndTime = parseNullableTime(endStr)
	s.DurationMinutes = intFromNull(duration)
	return &s, nil
}

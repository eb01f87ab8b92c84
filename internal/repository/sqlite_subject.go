package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/whiteindia/selftrack-sub002/internal/db"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
)

// SQLiteSubjectRepo implements SubjectRepo over the tasks and subtasks tables.
type SQLiteSubjectRepo struct {
	db db.DBTX
}

// NewSQLiteSubjectRepo creates a new SQLiteSubjectRepo.
func NewSQLiteSubjectRepo(db db.DBTX) *SQLiteSubjectRepo {
	return &SQLiteSubjectRepo{db: db}
}

func (r *SQLiteSubjectRepo) CreateTask(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, title, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, string(t.Status), formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteSubjectRepo) CreateSubtask(ctx context.Context, s *domain.Subtask) error {
	query := `INSERT INTO subtasks (id, task_id, title, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.TaskID, s.Title, string(s.Status), formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting subtask: %w", err)
	}
	return nil
}

func (r *SQLiteSubjectRepo) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	var status, createdStr, updatedStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, status, created_at, updated_at FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &status, &createdStr, &updatedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Status = domain.SubjectStatus(status)
	if t.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

// Get loads a task or subtask by id.
func (r *SQLiteSubjectRepo) Get(ctx context.Context, id string, kind domain.SubjectKind) (*domain.Subject, error) {
	var query string
	switch kind {
	case domain.SubjectTask:
		query = `SELECT id, 'task', title, status, '' FROM tasks WHERE id = ?`
	case domain.SubjectSubtask:
		query = `SELECT id, 'subtask', title, status, task_id FROM subtasks WHERE id = ?`
	default:
		return nil, fmt.Errorf("unknown subject kind %q", kind)
	}

	s, err := scanSubject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", kind, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning %s: %w", kind, err)
	}
	return s, nil
}

// List returns every task followed by its subtasks.
func (r *SQLiteSubjectRepo) List(ctx context.Context) ([]*domain.Subject, error) {
	query := `SELECT id, kind, title, status, parent_id FROM (
			SELECT t.id, 'task' AS kind, t.title, t.status, '' AS parent_id,
			       t.created_at AS root_created, t.id AS root, 0 AS ord, t.created_at AS created_at
			FROM tasks t
			UNION ALL
			SELECT s.id, 'subtask', s.title, s.status, s.task_id,
			       t.created_at, t.id, 1, s.created_at
			FROM subtasks s JOIN tasks t ON t.id = s.task_id
		) ORDER BY root_created, root, ord, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*domain.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subjects: %w", err)
	}
	return subjects, nil
}

func (r *SQLiteSubjectRepo) UpdateStatus(ctx context.Context, id string, kind domain.SubjectKind, status domain.SubjectStatus) error {
	var table string
	switch kind {
	case domain.SubjectTask:
		table = "tasks"
	case domain.SubjectSubtask:
		table = "subtasks"
	default:
		return fmt.Errorf("unknown subject kind %q", kind)
	}
	if !status.IsValid() {
		return fmt.Errorf("unknown subject status %q", status)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(nowUTC()), id)
	if err != nil {
		return fmt.Errorf("updating %s status: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s update: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return nil
}

func scanSubject(row rowScanner) (*domain.Subject, error) {
	var s domain.Subject
	var kind, status string
	if err := row.Scan(&s.ID, &kind, &s.Title, &status, &s.ParentID); err != nil {
		return nil, err
	}
	s.Kind = domain.SubjectKind(kind)
	s.Status = domain.SubjectStatus(status)
	return &s, nil
}

package repository

import (
	"context"
	"time"

	"github.com/whiteindia/selftrack-sub002/internal/domain"
)

// SessionRepo is the keyed session store the timer engine runs against.
// Get, Insert and Update are the whole write-side contract; the listing
// methods serve displays.
type SessionRepo interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Insert(ctx context.Context, s *domain.Session) error
	Update(ctx context.Context, id string, u domain.SessionUpdate) (*domain.Session, error)

	FindOpenBySubject(ctx context.Context, subjectID string, kind domain.SubjectKind) (*domain.Session, error)
	ListOpen(ctx context.Context) ([]*domain.Session, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.Session, error)
	ListBySubject(ctx context.Context, subjectID string, kind domain.SubjectKind) ([]*domain.Session, error)
}

// SubjectRepo stores the tasks and subtasks that sessions time.
type SubjectRepo interface {
	CreateTask(ctx context.Context, t *domain.Task) error
	CreateSubtask(ctx context.Context, s *domain.Subtask) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	Get(ctx context.Context, id string, kind domain.SubjectKind) (*domain.Subject, error)
	List(ctx context.Context) ([]*domain.Subject, error)
	UpdateStatus(ctx context.Context, id string, kind domain.SubjectKind, status domain.SubjectStatus) error
}

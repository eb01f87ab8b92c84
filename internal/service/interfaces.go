package service

import (
	"context"
	"time"

	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

// SessionView is a session together with the timer state derived from it
// at AsOf. It goes stale as soon as the session is mutated.
type SessionView struct {
	Session  *domain.Session
	Snapshot timer.Snapshot
	Elapsed  time.Duration
	AsOf     time.Time
}

// TickInput returns what a live ticker needs to display this session.
func (v *SessionView) TickInput() timer.TickInput {
	return timer.TickInput{Start: v.Session.StartTime, Snapshot: v.Snapshot}
}

// TimerService runs the start, pause, resume and stop commands. Each
// mutation reads the stored event log, checks the transition, appends one
// event and writes the result back in a single update.
type TimerService interface {
	Start(ctx context.Context, subjectID string, kind domain.SubjectKind, note string) (*domain.Session, error)
	Pause(ctx context.Context, id string) (*domain.Session, error)
	Resume(ctx context.Context, id string) (*domain.Session, error)
	Stop(ctx context.Context, id string, comment string) (*domain.Session, error)

	Get(ctx context.Context, id string) (*SessionView, error)
	ListOpen(ctx context.Context) ([]*SessionView, error)
	ListRecent(ctx context.Context, days int) ([]*SessionView, error)
	// ListBySubject returns every session of one subject, oldest first.
	ListBySubject(ctx context.Context, subjectID string, kind domain.SubjectKind) ([]*SessionView, error)
}

// SubjectService manages the tasks and subtasks that sessions time.
type SubjectService interface {
	CreateTask(ctx context.Context, title string) (*domain.Task, error)
	CreateSubtask(ctx context.Context, taskID, title string) (*domain.Subtask, error)
	Get(ctx context.Context, id string, kind domain.SubjectKind) (*domain.Subject, error)
	List(ctx context.Context) ([]*domain.Subject, error)
	MarkInProgress(ctx context.Context, id string, kind domain.SubjectKind) error
}

package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
)

func NewTestTask(title string) *domain.Task {
	now := time.Now().UTC()
	return &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.SubjectTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestSubtask(taskID, title string) *domain.Subtask {
	now := time.Now().UTC()
	return &domain.Subtask{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		Title:     title,
		Status:    domain.SubjectTodo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Session options
type SessionOption func(*domain.Session)

func WithStartTime(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.StartTime = t
	}
}

func WithEventLog(log string) SessionOption {
	return func(s *domain.Session) {
		s.EventLog = log
	}
}

// WithStopped closes the session at end with the given duration and comment.
func WithStopped(end time.Time, minutes int, comment string) SessionOption {
	return func(s *domain.Session) {
		s.EndTime = &end
		s.DurationMinutes = &minutes
		s.Comment = comment
	}
}

// NewTestSession builds an open session on a task that started an hour ago.
func NewTestSession(subjectID string, opts ...SessionOption) *domain.Session {
	now := time.Now().UTC()
	s := &domain.Session{
		ID:          uuid.New().String(),
		SubjectID:   subjectID,
		SubjectKind: domain.SubjectTask,
		StartTime:   now.Add(-time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

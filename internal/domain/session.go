package domain

import (
	"time"

	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

// Session is one timed work interval against a task or subtask.
//
// Pause, resume and stop history lives only in EventLog, one human-readable
// line per event. EndTime, DurationMinutes and Comment are written together
// when the session is stopped; after that the session is immutable.
type Session struct {
	ID              string
	SubjectID       string
	SubjectKind     SubjectKind
	StartTime       time.Time
	EndTime         *time.Time
	EventLog        string
	DurationMinutes *int
	Comment         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOpen reports whether the session is still running or paused.
func (s *Session) IsOpen() bool {
	return s.EndTime == nil
}

// Snapshot derives the timer state from the event log. EndTime, when set,
// wins over anything the log says.
func (s *Session) Snapshot() timer.Snapshot {
	return timer.Derive(s.EventLog, s.EndTime)
}

// Elapsed returns the worked time as of now.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return timer.LiveElapsed(s.StartTime, now, s.Snapshot())
}

// SessionUpdate is a partial update of a session. Nil fields are left
// untouched. A zero UpdatedAt is stamped with the current time by the store.
type SessionUpdate struct {
	EventLog        *string
	EndTime         *time.Time
	DurationMinutes *int
	Comment         *string
	UpdatedAt       time.Time
}

// IsEmpty reports whether the update changes nothing. UpdatedAt alone does
// not count as a change.
func (u SessionUpdate) IsEmpty() bool {
	return u.EventLog == nil && u.EndTime == nil && u.DurationMinutes == nil && u.Comment == nil
}

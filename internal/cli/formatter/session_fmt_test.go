package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/service"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func stoppedSession() *domain.Session {
	end := t0.Add(20 * time.Minute)
	minutes := 15
	return &domain.Session{
		ID:          "sess-1234567890",
		SubjectID:   "task-1",
		SubjectKind: domain.SubjectTask,
		StartTime:   t0,
		EndTime:     &end,
		EventLog: "kickoff call\n" +
			"Paused at 2024-03-01T09:10:00Z\n" +
			"Resumed at 2024-03-01T09:15:00Z\n" +
			"Stopped at 2024-03-01T09:20:00Z",
		DurationMinutes: &minutes,
		Comment:         "done",
	}
}

func TestFormatSessionDetail(t *testing.T) {
	s := stoppedSession()
	snap := s.Snapshot()
	out := FormatSessionDetail(&service.SessionView{
		Session:  s,
		Snapshot: snap,
		Elapsed:  timer.LiveElapsed(s.StartTime, t0.Add(time.Hour), snap),
	})

	assert.Contains(t, out, "Stopped")
	assert.Contains(t, out, "00:15:00")
	assert.Contains(t, out, "00:05:00")
	assert.Contains(t, out, "15m")
	assert.Contains(t, out, "done")
}

func TestFormatSessionList(t *testing.T) {
	s := stoppedSession()
	snap := s.Snapshot()
	out := FormatSessionList("Recent", []*service.SessionView{{
		Session:  s,
		Snapshot: snap,
		Elapsed:  15 * time.Minute,
	}}, t0.Add(time.Hour))

	assert.Contains(t, out, "RECENT")
	assert.Contains(t, out, "sess-123")
	assert.Contains(t, out, "Stopped")
	assert.Contains(t, out, "1h ago")

	assert.Contains(t, FormatSessionList("Recent", nil, t0), "No sessions found.")
}

func TestFormatTimeline(t *testing.T) {
	out := FormatTimeline(stoppedSession())

	assert.Contains(t, out, "started")
	assert.Contains(t, out, "paused")
	assert.Contains(t, out, "resumed")
	assert.Contains(t, out, "stopped")
	// Worked time at the stop excludes the five paused minutes.
	assert.Contains(t, out, "00:20:00")
	assert.Contains(t, out, "00:15:00")
	assert.Contains(t, out, "note: kickoff call")
}

func TestFormatTimeline_EventsAfterStopAreIgnored(t *testing.T) {
	s := stoppedSession()
	s.EventLog += "\nResumed at 2024-03-01T09:30:00Z"

	out := FormatTimeline(s)
	assert.Contains(t, out, "resumed (ignored)")
}

func TestTimerStatusPill(t *testing.T) {
	assert.Contains(t, TimerStatusPill(timer.StatusRunning), "Running")
	assert.Contains(t, TimerStatusPill(timer.StatusPaused), "Paused")
	assert.Contains(t, TimerStatusPill(timer.StatusStopped), "Stopped")
}

func TestFormatSubjectList(t *testing.T) {
	out := FormatSubjectList([]*domain.Subject{
		{ID: "t1", Kind: domain.SubjectTask, Title: "Website", Status: domain.SubjectInProgress},
		{ID: "s1", Kind: domain.SubjectSubtask, Title: "Landing", Status: domain.SubjectTodo, ParentID: "t1"},
	})
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "└ Landing")
	assert.Contains(t, out, "In Progress")

	assert.Contains(t, FormatSubjectList(nil), "No tasks yet")
}

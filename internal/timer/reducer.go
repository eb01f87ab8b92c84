package timer

import "time"

// Status is the derived state of a session's timer.
type Status string

const (
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusStopped Status = "stopped"
)

// Snapshot is the folded view of an event log at a point in time. It is
// derived, never persisted.
type Snapshot struct {
	Status Status

	// TotalPaused is the sum of all closed pause intervals. An open pause
	// is never included.
	TotalPaused time.Duration

	// LastPauseAt is set when the log holds more pauses than resumes: it is
	// the start of the pause that is still open.
	LastPauseAt *time.Time

	// StoppedAt is set for terminal sessions.
	StoppedAt *time.Time
}

// IsTerminal reports whether the session has been stopped.
func (s Snapshot) IsTerminal() bool {
	return s.Status == StatusStopped
}

// Reduce folds events into a Snapshot.
//
// The i-th pause is paired with the i-th resume and each closed pair adds
// its length to TotalPaused, clamped at zero for pairs whose resume precedes
// the pause. A surplus pause leaves the session paused. The first stop event
// ends the fold: anything appended after it is ignored.
func Reduce(events []Event) Snapshot {
	var paused, resumed []time.Time
	var stoppedAt *time.Time

fold:
	for _, ev := range events {
		switch ev.Kind {
		case KindPaused:
			paused = append(paused, ev.At)
		case KindResumed:
			resumed = append(resumed, ev.At)
		case KindStopped:
			at := ev.At
			stoppedAt = &at
			break fold
		}
	}

	snap := Snapshot{Status: StatusRunning}
	for i := 0; i < len(paused) && i < len(resumed); i++ {
		if gap := resumed[i].Sub(paused[i]); gap > 0 {
			snap.TotalPaused += gap
		}
	}

	if len(paused) > len(resumed) {
		last := paused[len(paused)-1]
		snap.LastPauseAt = &last
		snap.Status = StatusPaused
	}

	if stoppedAt != nil {
		snap.Status = StatusStopped
		snap.StoppedAt = stoppedAt
	}
	return snap
}

// Derive decodes a stored event log and reduces it, treating endTime as
// authoritative in both directions. A session with an end time is terminal
// whatever its log says, and the end time replaces any logged stop instant.
// A session without one is open: stray stop lines are dropped and every
// pause and resume in the log is folded.
func Derive(eventLog string, endTime *time.Time) Snapshot {
	events := Decode(eventLog)
	if endTime == nil {
		return Reduce(withoutStops(events))
	}
	snap := Reduce(events)
	end := *endTime
	snap.Status = StatusStopped
	snap.StoppedAt = &end
	return snap
}

func withoutStops(events []Event) []Event {
	kept := events[:0:0]
	for _, ev := range events {
		if ev.Kind != KindStopped {
			kept = append(kept, ev)
		}
	}
	return kept
}

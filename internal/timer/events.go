// Package timer reconstructs work-session timing from the append-only,
// human-readable event log stored on each session.
//
// Only codec.go knows the text format. Everything else operates on Event
// values, so callers (list badges, the live counter, stop-time math) all
// share one reduction of the log.
package timer

import "time"

// Kind identifies the action recorded by an Event.
type Kind string

const (
	KindPaused  Kind = "paused"
	KindResumed Kind = "resumed"
	KindStopped Kind = "stopped"
)

// IsValid reports whether k is one of the recognised event kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindPaused, KindResumed, KindStopped:
		return true
	}
	return false
}

// Event is a single entry in a session's event log. Position in the log is
// the only ordering key; events carry no sequence number.
type Event struct {
	Kind Kind
	At   time.Time
}

// Paused returns a pause event at the given instant.
func Paused(at time.Time) Event { return Event{Kind: KindPaused, At: at} }

// Resumed returns a resume event at the given instant.
func Resumed(at time.Time) Event { return Event{Kind: KindResumed, At: at} }

// Stopped returns a stop event at the given instant.
func Stopped(at time.Time) Event { return Event{Kind: KindStopped, At: at} }

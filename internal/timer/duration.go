package timer

import (
	"fmt"
	"math"
	"time"
)

// LiveElapsed returns the worked time of a session as of now: wall time
// since start minus closed pauses, minus the open pause if one is running.
// While paused the result does not change as now advances. For stopped
// sessions now is clamped to the stop instant. The result is never negative.
func LiveElapsed(start, now time.Time, snap Snapshot) time.Duration {
	if snap.StoppedAt != nil && now.After(*snap.StoppedAt) {
		now = *snap.StoppedAt
	}
	worked := now.Sub(start) - snap.TotalPaused - openPause(now, snap)
	if worked < 0 {
		return 0
	}
	return worked
}

// FinalDuration returns the billable minutes of a session stopped at end:
// max(1, round((end - start - paused) / 1m)). A pause still open at end is
// excluded up to end.
func FinalDuration(start, end time.Time, snap Snapshot) int {
	worked := end.Sub(start) - snap.TotalPaused - openPause(end, snap)
	minutes := int(math.Round(worked.Minutes()))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// FormatClock renders d as HH:MM:SS. Hours are not capped at 24.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func openPause(at time.Time, snap Snapshot) time.Duration {
	if snap.LastPauseAt == nil || !at.After(*snap.LastPauseAt) {
		return 0
	}
	return at.Sub(*snap.LastPauseAt)
}

package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLiveElapsed_Running(t *testing.T) {
	snap := Reduce([]Event{Paused(t0.Add(10 * time.Minute)), Resumed(t0.Add(15 * time.Minute))})
	assert.Equal(t, 25*time.Minute, LiveElapsed(t0, t0.Add(30*time.Minute), snap))
}

func TestLiveElapsed_FrozenWhilePaused(t *testing.T) {
	snap := Reduce([]Event{
		Paused(t0.Add(10 * time.Minute)),
		Resumed(t0.Add(15 * time.Minute)),
		Paused(t0.Add(20 * time.Minute)),
	})

	first := LiveElapsed(t0, t0.Add(21*time.Minute), snap)
	later := LiveElapsed(t0, t0.Add(3*time.Hour), snap)
	assert.Equal(t, first, later)
	assert.Equal(t, 15*time.Minute, first)
}

func TestLiveElapsed_ClampedAtStop(t *testing.T) {
	snap := Reduce([]Event{Stopped(t0.Add(20 * time.Minute))})
	assert.Equal(t, 20*time.Minute, LiveElapsed(t0, t0.Add(2*time.Hour), snap))
}

func TestLiveElapsed_NeverNegative(t *testing.T) {
	assert.Zero(t, LiveElapsed(t0, t0.Add(-time.Minute), Snapshot{Status: StatusRunning}))
}

func TestFinalDuration_Floor(t *testing.T) {
	for _, d := range []time.Duration{0, time.Second, 29 * time.Second, 59 * time.Second, -5 * time.Minute} {
		assert.Equal(t, 1, FinalDuration(t0, t0.Add(d), Snapshot{}), "duration %s", d)
	}
}

func TestFinalDuration_Rounds(t *testing.T) {
	assert.Equal(t, 2, FinalDuration(t0, t0.Add(90*time.Second), Snapshot{}))
	assert.Equal(t, 2, FinalDuration(t0, t0.Add(149*time.Second), Snapshot{}))
	assert.Equal(t, 3, FinalDuration(t0, t0.Add(150*time.Second), Snapshot{}))
}

func TestFinalDuration_ExcludesClosedPause(t *testing.T) {
	// start T0, pause +10m, resume +15m, stop +20m
	snap := Reduce([]Event{Paused(t0.Add(10 * time.Minute)), Resumed(t0.Add(15 * time.Minute))})
	assert.Equal(t, 5*time.Minute, snap.TotalPaused)
	assert.Equal(t, 15, FinalDuration(t0, t0.Add(20*time.Minute), snap))
}

func TestFinalDuration_ExcludesOpenPause(t *testing.T) {
	// start T0, pause +5m, stop +6m without resume
	end := t0.Add(6 * time.Minute)
	snap := Reduce([]Event{Paused(t0.Add(5 * time.Minute)), Stopped(end)})
	assert.Equal(t, 5, FinalDuration(t0, end, snap))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "00:00:59", FormatClock(59*time.Second+900*time.Millisecond))
	assert.Equal(t, "01:02:03", FormatClock(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "27:00:00", FormatClock(27*time.Hour))
	assert.Equal(t, "00:00:00", FormatClock(-time.Second))
}

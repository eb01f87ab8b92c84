package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whiteindia/selftrack-sub002/internal/teatest"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

// newWatchDriver starts a session and wraps a watch model for it. The
// ticker is never started; tests deliver ticks by hand.
func newWatchDriver(t *testing.T) (*teatest.Driver, *App, *fakeClock, string) {
	t.Helper()
	app, clock := testApp(t)
	task := seedTask(t, app)
	ctx := context.Background()

	s, err := app.Timers.Start(ctx, task.ID, "task", "")
	require.NoError(t, err)
	v, err := app.Timers.Get(ctx, s.ID)
	require.NoError(t, err)

	ticks := make(chan timer.Tick)
	ticker := timer.NewTicker(v.TickInput(), nil)
	m := newWatchModel(app.Timers, v, ticker, ticks, time.Hour)
	return teatest.New(t, m), app, clock, s.ID
}

func TestWatch_RendersTicks(t *testing.T) {
	d, _, _, id := newWatchDriver(t)

	assert.Contains(t, d.View(), id)
	assert.Contains(t, d.View(), "00:00:00")
	assert.Contains(t, d.View(), "Running")

	d.Send(tickMsg(timer.Tick{Elapsed: 83 * time.Second, Clock: "00:01:23", Status: timer.StatusRunning}))
	assert.Contains(t, d.View(), "00:01:23")
}

func TestWatch_PauseAndResumeKeys(t *testing.T) {
	d, _, clock, _ := newWatchDriver(t)

	clock.at(10 * time.Minute)
	d.Key("p")
	view := d.View()
	assert.Contains(t, view, "Paused")
	assert.Contains(t, view, "00:10:00")

	// Pausing twice surfaces the rejected transition without losing state.
	d.Key("p")
	m := d.Model().(*watchModel)
	require.Error(t, m.err)
	assert.Contains(t, d.View(), "Paused")

	clock.at(12 * time.Minute)
	d.Key("r")
	m = d.Model().(*watchModel)
	assert.NoError(t, m.err)
	assert.Contains(t, d.View(), "Running")
	assert.Contains(t, d.View(), "paused 00:02:00")
}

func TestWatch_RefreshPicksUpExternalStop(t *testing.T) {
	d, app, clock, id := newWatchDriver(t)

	clock.at(30 * time.Minute)
	_, err := app.Timers.Stop(context.Background(), id, "finished elsewhere")
	require.NoError(t, err)

	d.Send(refreshMsg{})
	view := d.View()
	assert.Contains(t, view, "Stopped")
	assert.Contains(t, view, "00:30:00")
	assert.Contains(t, view, "finished elsewhere")

	// No further refetches once stopped.
	_, cmd := d.Model().Update(refreshMsg{})
	assert.Nil(t, cmd)
}

func TestWatch_QuitStopsTicker(t *testing.T) {
	d, _, _, _ := newWatchDriver(t)

	d.Key("q")
	assert.True(t, d.Quitting())

	m := d.Model().(*watchModel)
	select {
	case <-m.ticker.Done():
	default:
		t.Fatal("ticker still running after quit")
	}
}

func TestNewTickFeed_ClosesWhenSessionStops(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	input := timer.TickInput{
		Start:    start,
		Snapshot: timer.Snapshot{Status: timer.StatusStopped, StoppedAt: &end},
	}
	ticker, ticks := newTickFeed(input, timer.WithClock(func() time.Time { return end.Add(time.Hour) }))
	ticker.Start()
	defer ticker.Stop()

	m := &watchModel{ticks: ticks}
	waitForTick := m.waitForTick()

	msg := runWithin(t, waitForTick)
	require.IsType(t, tickMsg{}, msg)
	assert.Equal(t, "00:45:00", msg.(tickMsg).Clock)
	assert.Equal(t, timer.StatusStopped, msg.(tickMsg).Status)

	// The ticker exits after the terminal tick and the feed is closed, so
	// the pending wait returns instead of blocking.
	assert.Nil(t, runWithin(t, m.waitForTick()))
}

func TestNewTickFeed_ClosesOnStop(t *testing.T) {
	input := timer.TickInput{Start: time.Now(), Snapshot: timer.Snapshot{Status: timer.StatusRunning}}
	ticker, ticks := newTickFeed(input, timer.WithInterval(time.Hour))
	ticker.Stop()

	m := &watchModel{ticks: ticks}
	assert.Nil(t, runWithin(t, m.waitForTick()))
}

func runWithin(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not return")
		return nil
	}
}

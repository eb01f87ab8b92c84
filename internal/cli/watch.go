package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/whiteindia/selftrack-sub002/internal/cli/formatter"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/service"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

// ── messages ─────────────────────────────────────────────────────────────────

// tickMsg carries one value published by the session ticker.
type tickMsg timer.Tick

// refreshMsg asks the model to refetch the session.
type refreshMsg struct{}

// sessionLoadedMsg reports a refetch or the result of a pause/resume.
type sessionLoadedMsg struct {
	view *service.SessionView
	err  error
}

const defaultWatchRefresh = 5 * time.Second

// ── keys ─────────────────────────────────────────────────────────────────────

type watchKeyMap struct {
	Pause  key.Binding
	Resume key.Binding
	Quit   key.Binding
}

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Resume, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ── model ────────────────────────────────────────────────────────────────────

// watchModel shows a live counter for one session. Repaints come from a
// timer.Ticker through ticks; the session itself is refetched every
// refresh interval so changes made elsewhere show up.
type watchModel struct {
	timers  service.TimerService
	id      string
	view    *service.SessionView
	clock   string
	status  timer.Status
	err     error
	refresh time.Duration

	ticks  <-chan timer.Tick
	ticker *timer.Ticker

	keys watchKeyMap
	help help.Model
}

func newWatchModel(timers service.TimerService, v *service.SessionView, ticker *timer.Ticker, ticks <-chan timer.Tick, refresh time.Duration) *watchModel {
	if refresh <= 0 {
		refresh = defaultWatchRefresh
	}
	m := &watchModel{
		timers:  timers,
		id:      v.Session.ID,
		ticks:   ticks,
		ticker:  ticker,
		refresh: refresh,
		keys:    defaultWatchKeys(),
		help:    help.New(),
	}
	m.setView(v)
	return m
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.waitForTick(), m.scheduleRefresh())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.clock = msg.Clock
		m.status = msg.Status
		return m, m.waitForTick()

	case refreshMsg:
		if m.status == timer.StatusStopped {
			return m, nil
		}
		return m, tea.Batch(m.load(), m.scheduleRefresh())

	case sessionLoadedMsg:
		m.err = msg.err
		if msg.view != nil {
			m.setView(msg.view)
			m.ticker.Update(msg.view.TickInput())
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.ticker.Stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			return m, m.act(m.timers.Pause)
		case key.Matches(msg, m.keys.Resume):
			return m, m.act(m.timers.Resume)
		}
	}
	return m, nil
}

func (m *watchModel) View() string {
	s := m.view.Session

	var b strings.Builder
	b.WriteString(formatter.Label("SESSION", s.ID) + "\n")
	b.WriteString(formatter.Dim(fmt.Sprintf("%s %s", s.SubjectKind, s.SubjectID)) + "\n\n")

	counter := formatter.TimerStatusColor(m.status).Bold(true)
	b.WriteString("  " + counter.Render(m.clock) + "  " + formatter.TimerStatusPill(m.status) + "\n")
	if m.view.Snapshot.TotalPaused > 0 {
		b.WriteString(formatter.Dim("  paused "+timer.FormatClock(m.view.Snapshot.TotalPaused)) + "\n")
	}
	if s.Comment != "" {
		b.WriteString(formatter.Dim("  "+s.Comment) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + formatter.StyleRed.Render("  "+m.err.Error()) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

// setView adopts a freshly fetched session and shows its elapsed time until
// the next tick arrives.
func (m *watchModel) setView(v *service.SessionView) {
	m.view = v
	m.clock = timer.FormatClock(v.Elapsed)
	m.status = v.Snapshot.Status
}

func (m *watchModel) waitForTick() tea.Cmd {
	ticks := m.ticks
	return func() tea.Msg {
		t, ok := <-ticks
		if !ok {
			return nil
		}
		return tickMsg(t)
	}
}

func (m *watchModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m *watchModel) load() tea.Cmd {
	timers, id := m.timers, m.id
	return func() tea.Msg {
		v, err := timers.Get(context.Background(), id)
		return sessionLoadedMsg{view: v, err: err}
	}
}

// act runs pause or resume and then refetches so the display reflects the
// appended event right away.
func (m *watchModel) act(command func(context.Context, string) (*domain.Session, error)) tea.Cmd {
	timers, id := m.timers, m.id
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := command(ctx, id); err != nil {
			return sessionLoadedMsg{err: err}
		}
		v, err := timers.Get(ctx, id)
		return sessionLoadedMsg{view: v, err: err}
	}
}

// runWatch fetches the session, starts its ticker and runs the live view
// until the user quits.
func runWatch(cmd *cobra.Command, app *App, id string) error {
	v, err := app.Timers.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	ticker, ticks := newTickFeed(v.TickInput(),
		timer.WithInterval(app.Config.TickInterval), timer.WithClock(app.Now))
	ticker.Start()
	defer ticker.Stop()

	m := newWatchModel(app.Timers, v, ticker, ticks, app.Config.RefreshInterval)
	p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout()))
	_, err = p.Run()
	return err
}

// newTickFeed builds a ticker that publishes into the returned channel,
// dropping ticks the view has not consumed yet. The channel is closed once
// the ticker has exited, whether through Stop or a terminal session.
func newTickFeed(input timer.TickInput, opts ...timer.TickerOption) (*timer.Ticker, <-chan timer.Tick) {
	ticks := make(chan timer.Tick, 1)
	ticker := timer.NewTicker(input, func(t timer.Tick) {
		select {
		case ticks <- t:
		default:
		}
	}, opts...)
	go func() {
		<-ticker.Done()
		close(ticks)
	}()
	return ticker, ticks
}

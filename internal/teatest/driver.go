// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and returned Cmds are run inline. Cmds that
// block, such as waits on a channel or tea.Tick, are abandoned after a short
// timeout so a test never hangs on them.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds how many chained Cmds one Send may run.
const maxDepth = 64

// cmdTimeout is how long a Cmd may run before it is treated as blocking.
const cmdTimeout = 50 * time.Millisecond

// Driver holds a model and feeds it messages.
type Driver struct {
	t        *testing.T
	model    tea.Model
	quitting bool
}

// New wraps model and runs its Init command.
func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	d := &Driver{t: t, model: model}
	d.run(model.Init(), 0)
	return d
}

// Send dispatches msg through Update and runs the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.quitting {
		return
	}
	next, cmd := d.model.Update(msg)
	d.model = next
	d.run(cmd, 0)
}

// Key sends a key press. Named keys such as "esc" and "ctrl+c" are
// recognised; anything else is sent as runes.
func (d *Driver) Key(k string) {
	d.t.Helper()
	switch k {
	case "esc":
		d.Send(tea.KeyMsg{Type: tea.KeyEsc})
	case "enter":
		d.Send(tea.KeyMsg{Type: tea.KeyEnter})
	case "ctrl+c":
		d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	default:
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

// Model returns the current model.
func (d *Driver) Model() tea.Model { return d.model }

// View renders the current model.
func (d *Driver) View() string { return d.model.View() }

// Quitting reports whether a tea.Quit command has been seen.
func (d *Driver) Quitting() bool { return d.quitting }

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Logf("teatest: command depth limit (%d) reached", maxDepth)
		return
	}

	msg, ok := runWithTimeout(cmd)
	if !ok || msg == nil {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.run(sub, depth+1)
		}
	case tea.QuitMsg:
		d.quitting = true
	default:
		next, nextCmd := d.model.Update(msg)
		d.model = next
		d.run(nextCmd, depth+1)
	}
}

func runWithTimeout(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

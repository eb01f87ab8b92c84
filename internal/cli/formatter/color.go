package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

// Palette shared by tables, the watch view and huh prompts.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// pill is a status badge: an icon and a label in one color.
type pill struct {
	icon  string
	label string
	style lipgloss.Style
}

func (p pill) render() string { return p.style.Render(p.icon + " " + p.label) }

var timerPills = map[timer.Status]pill{
	timer.StatusRunning: {"●", "Running", StyleGreen},
	timer.StatusPaused:  {"❚❚", "Paused", StyleYellow},
	timer.StatusStopped: {"■", "Stopped", StyleDim},
}

var subjectPills = map[domain.SubjectStatus]pill{
	domain.SubjectTodo:       {"○", "Todo", StyleBlue},
	domain.SubjectInProgress: {"●", "In Progress", StyleGreen},
	domain.SubjectDone:       {"✔", "Done", StyleDim},
}

// TimerStatusColor returns the style used for a timer status.
func TimerStatusColor(status timer.Status) lipgloss.Style {
	if p, ok := timerPills[status]; ok {
		return p.style
	}
	return StyleDim
}

// TimerStatusPill returns a badge such as "● Running".
func TimerStatusPill(status timer.Status) string {
	if p, ok := timerPills[status]; ok {
		return p.render()
	}
	return Dim(string(status))
}

// SubjectStatusPill returns a badge for a task or subtask status.
func SubjectStatusPill(status domain.SubjectStatus) string {
	if p, ok := subjectPills[status]; ok {
		return p.render()
	}
	return Dim(string(status))
}

// Label renders "NAME value" with the name in the header color.
func Label(name, value string) string {
	return StyleHeader.Render(name) + " " + value
}

func Dim(text string) string { return StyleDim.Render(text) }

func Bold(text string) string { return StyleBold.Render(text) }

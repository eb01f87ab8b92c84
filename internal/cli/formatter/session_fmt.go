package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/service"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

// FormatSessionDetail renders one session with its derived timer state.
func FormatSessionDetail(v *service.SessionView) string {
	s := v.Session
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}

	row("SESSION", s.ID)
	row("SUBJECT", fmt.Sprintf("%s %s", s.SubjectKind, s.SubjectID))
	row("STATUS", TimerStatusPill(v.Snapshot.Status))
	row("STARTED", s.StartTime.Local().Format("Jan 2 15:04:05"))
	row("WORKED", Bold(timer.FormatClock(v.Elapsed)))
	if v.Snapshot.TotalPaused > 0 {
		row("PAUSED", timer.FormatClock(v.Snapshot.TotalPaused))
	}
	if v.Snapshot.LastPauseAt != nil && !v.Snapshot.IsTerminal() {
		row("SINCE", v.Snapshot.LastPauseAt.Local().Format("15:04:05"))
	}
	if s.EndTime != nil {
		row("ENDED", s.EndTime.Local().Format("Jan 2 15:04:05"))
	}
	if s.DurationMinutes != nil {
		row("BILLED", FormatMinutes(*s.DurationMinutes))
	}
	if s.Comment != "" {
		row("COMMENT", s.Comment)
	}

	return RenderBox("Session", strings.TrimRight(b.String(), "\n"))
}

// FormatSessionList renders sessions as a table with a live status badge.
func FormatSessionList(title string, views []*service.SessionView, now time.Time) string {
	if len(views) == 0 {
		return Dim("No sessions found.") + "\n"
	}

	headers := []string{"ID", "SUBJECT", "STARTED", "STATUS", "WORKED", "BILLED", "COMMENT"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		s := v.Session
		billed := Dim("--")
		if s.DurationMinutes != nil {
			billed = FormatMinutes(*s.DurationMinutes)
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			fmt.Sprintf("%s %s", string(s.SubjectKind), TruncID(s.SubjectID)),
			HumanTimestampFrom(s.StartTime, now),
			TimerStatusPill(v.Snapshot.Status),
			timer.FormatClock(v.Elapsed),
			billed,
			Dim(Truncate(s.Comment, 32)),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatTimeline renders the decoded event log of a session, one row per
// event, with the offset from start and the worked time at that instant.
// Lines that are not timer events are listed as notes.
func FormatTimeline(s *domain.Session) string {
	headers := []string{"OFFSET", "EVENT", "AT", "WORKED"}
	rows := [][]string{{
		timer.FormatClock(0),
		StyleGreen.Render("started"),
		s.StartTime.Local().Format("15:04:05"),
		timer.FormatClock(0),
	}}

	events := timer.Decode(s.EventLog)
	stopped := false
	for i, ev := range events {
		label := TimerEventLabel(ev.Kind)
		worked := timer.FormatClock(timer.LiveElapsed(s.StartTime, ev.At, timer.Reduce(events[:i+1])))
		if stopped {
			label = Dim(string(ev.Kind) + " (ignored)")
			worked = Dim("--")
		}
		rows = append(rows, []string{
			timer.FormatClock(max(ev.At.Sub(s.StartTime), 0)),
			label,
			ev.At.Local().Format("15:04:05"),
			worked,
		})
		if ev.Kind == timer.KindStopped && !s.IsOpen() {
			stopped = true
		}
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	if notes := nonEventLines(s.EventLog); len(notes) > 0 {
		b.WriteString("\n")
		for _, n := range notes {
			b.WriteString(StyleDim.Render("note:") + " " + n + "\n")
		}
	}
	return RenderBox("Timeline", strings.TrimRight(b.String(), "\n"))
}

// TimerEventLabel returns a colored label for an event kind.
func TimerEventLabel(k timer.Kind) string {
	switch k {
	case timer.KindPaused:
		return StyleYellow.Render("paused")
	case timer.KindResumed:
		return StyleGreen.Render("resumed")
	case timer.KindStopped:
		return StyleRed.Render("stopped")
	default:
		return Dim(string(k))
	}
}

func nonEventLines(log string) []string {
	var notes []string
	for _, line := range strings.Split(log, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(timer.Decode(line)) > 0 {
			continue
		}
		notes = append(notes, line)
	}
	return notes
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/whiteindia/selftrack-sub002/internal/cli/formatter"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/timer"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timer",
		Aliases: []string{"t"},
		Short:   "Start, pause, resume and stop work sessions",
	}

	cmd.AddCommand(
		newTimerStartCmd(app),
		newTimerPauseCmd(app),
		newTimerResumeCmd(app),
		newTimerStopCmd(app),
		newTimerStatusCmd(app),
		newTimerListCmd(app),
		newTimerLogCmd(app),
		newTimerWatchCmd(app),
	)

	return cmd
}

func newTimerStartCmd(app *App) *cobra.Command {
	var note string
	kind := newSubjectKindFlag()

	cmd := &cobra.Command{
		Use:   "start SUBJECT_ID",
		Short: "Start a session on a task or subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Timers.Start(ctx, args[0], kind.kind, note)
			if err != nil {
				return err
			}
			if err := app.Subjects.MarkInProgress(ctx, s.SubjectID, s.SubjectKind); err != nil {
				app.logger().Warn("marking subject in progress", "subject_id", s.SubjectID, "error", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not mark %s %s in progress: %v\n", s.SubjectKind, s.SubjectID, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s session %s on %s %s\n",
				formatter.TimerStatusPill(timer.StatusRunning), s.ID, s.SubjectKind, s.SubjectID)
			return nil
		},
	}

	cmd.Flags().Var(kind, "kind", "Subject kind: task or subtask")
	cmd.Flags().StringVar(&note, "note", "", "Creation note, stored as the first log line")

	return cmd
}

func newTimerPauseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause SESSION_ID",
		Short: "Pause a running session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Timers.Pause(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTransition(cmd, app, s)
			return nil
		},
	}
}

func newTimerResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume SESSION_ID",
		Short: "Resume a paused session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Timers.Resume(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTransition(cmd, app, s)
			return nil
		},
	}
}

func newTimerStopCmd(app *App) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "stop SESSION_ID",
		Short: "Stop a session and record its worked minutes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(comment) == "" && app.interactive() {
				if err := stopCommentForm(&comment).Run(); err != nil {
					return err
				}
			}

			s, err := app.Timers.Stop(cmd.Context(), args[0], comment)
			if err != nil {
				return err
			}

			minutes := 0
			if s.DurationMinutes != nil {
				minutes = *s.DurationMinutes
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s session %s: %s worked\n",
				formatter.TimerStatusPill(timer.StatusStopped), s.ID, formatter.FormatMinutes(minutes))
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "What was done; prompted for when omitted on a terminal")

	return cmd
}

func newTimerStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status [SESSION_ID]",
		Short: "Show one session, or all open sessions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				views, err := app.Timers.ListOpen(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatSessionList("Open sessions", views, app.now()))
				return nil
			}

			v, err := app.Timers.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatSessionDetail(v))
			return nil
		},
	}
}

func newTimerListCmd(app *App) *cobra.Command {
	var open bool
	var days int
	var subject string
	kind := newSubjectKindFlag()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent or open sessions, or every session of one subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if subject != "" {
				views, err := app.Timers.ListBySubject(ctx, subject, kind.kind)
				if err != nil {
					return err
				}
				title := fmt.Sprintf("Sessions of %s %s", kind.kind, subject)
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(title, views, app.now()))
				return nil
			}

			if open {
				views, err := app.Timers.ListOpen(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList("Open sessions", views, app.now()))
				return nil
			}

			views, err := app.Timers.ListRecent(ctx, days)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("Sessions, last %d days", days)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(title, views, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "Only running or paused sessions")
	cmd.Flags().IntVar(&days, "days", 7, "Number of recent days to show")
	cmd.Flags().StringVar(&subject, "subject", "", "Show all sessions of this task or subtask")
	cmd.Flags().Var(kind, "kind", "Kind of --subject: task or subtask")

	return cmd
}

func newTimerLogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "log SESSION_ID",
		Short: "Show the decoded pause/resume/stop timeline of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Timers.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTimeline(v.Session))
			return nil
		},
	}
}

func newTimerWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch SESSION_ID",
		Short: "Show a live counter for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, app, args[0])
		},
	}
}

// printTransition reports the state a session is in after pause or resume.
func printTransition(cmd *cobra.Command, app *App, s *domain.Session) {
	snap := s.Snapshot()
	elapsed := timer.LiveElapsed(s.StartTime, app.now(), snap)
	fmt.Fprintf(cmd.OutOrStdout(), "%s session %s at %s\n",
		formatter.TimerStatusPill(snap.Status), s.ID, timer.FormatClock(elapsed))
}

package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/whiteindia/selftrack-sub002/internal/config"
	"github.com/whiteindia/selftrack-sub002/internal/service"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Timers   service.TimerService
	Subjects service.SubjectService
	Config   config.Config

	// IsInteractive reports whether stdin is a terminal. Commands only
	// prompt when it returns true.
	IsInteractive func() bool
	Logger        *slog.Logger
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// NewRootCmd creates the top-level "selftrack" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "selftrack",
		Short:         "Task timer with pause-aware duration tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTaskCmd(app),
		newTimerCmd(app),
		newServeCmd(app),
	)

	return root
}

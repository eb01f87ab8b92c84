package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/whiteindia/selftrack-sub002/internal/cli"
	"github.com/whiteindia/selftrack-sub002/internal/config"
	"github.com/whiteindia/selftrack-sub002/internal/db"
	"github.com/whiteindia/selftrack-sub002/internal/repository"
	"github.com/whiteindia/selftrack-sub002/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// SELFTRACK_CONFIG overrides ~/.selftrack/config.toml.
	cfg, err := config.Load(os.Getenv("SELFTRACK_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Use-case logs are opt-in; request logs from serve always go to stderr.
	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	sessionRepo := repository.NewSQLiteSessionRepo(database)
	subjectRepo := repository.NewSQLiteSubjectRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Timers:   service.NewTimerService(sessionRepo, uow, nil, observers...),
		Subjects: service.NewSubjectService(subjectRepo, uow, observers...),
		Config:   cfg,
		Logger:   logger,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

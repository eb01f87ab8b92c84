package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whiteindia/selftrack-sub002/internal/config"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/repository"
	"github.com/whiteindia/selftrack-sub002/internal/service"
	"github.com/whiteindia/selftrack-sub002/internal/testutil"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) at(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t0.Add(d)
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, *fakeClock) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	clock := &fakeClock{now: t0}

	return &App{
		Timers:   service.NewTimerService(repository.NewSQLiteSessionRepo(database), uow, clock.Now),
		Subjects: service.NewSubjectService(repository.NewSQLiteSubjectRepo(database), uow),
		Config:   config.Default(t.TempDir()),
		Now:      clock.Now,
	}, clock
}

// seedTask creates a task for timer commands to run against.
func seedTask(t *testing.T, app *App) *domain.Task {
	t.Helper()
	task, err := app.Subjects.CreateTask(context.Background(), "Client onboarding")
	require.NoError(t, err)
	return task
}

// openSessionID returns the single open session.
func openSessionID(t *testing.T, app *App) string {
	t.Helper()
	views, err := app.Timers.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	return views[0].Session.ID
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestTaskAdd_CreatesTaskAndSubtask(t *testing.T) {
	app, _ := testApp(t)
	task := seedTask(t, app)

	out, err := executeCmd(t, app, "task", "add", "--title", "Kickoff deck")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task")
	assert.Contains(t, out, "Kickoff deck")

	out, err = executeCmd(t, app, "task", "add", "--title", "Slides", "--parent", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Added subtask")

	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Client onboarding")
	assert.Contains(t, out, "└ Slides")
	assert.Contains(t, out, "Kickoff deck")
}

func TestTaskAdd_UnknownParent(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "--title", "Orphan", "--parent", "nope")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTimerCommands_Lifecycle(t *testing.T) {
	app, clock := testApp(t)
	task := seedTask(t, app)

	out, err := executeCmd(t, app, "timer", "start", task.ID, "--note", "kickoff call")
	require.NoError(t, err)
	assert.Contains(t, out, "Running")
	id := openSessionID(t, app)

	subject, err := app.Subjects.Get(context.Background(), task.ID, domain.SubjectTask)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectInProgress, subject.Status)

	clock.at(10 * time.Minute)
	out, err = executeCmd(t, app, "timer", "pause", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Paused")
	assert.Contains(t, out, "00:10:00")

	clock.at(15 * time.Minute)
	out, err = executeCmd(t, app, "timer", "resume", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "00:10:00")

	clock.at(20 * time.Minute)
	out, err = executeCmd(t, app, "timer", "stop", id, "--comment", "wrote the brief")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped")
	assert.Contains(t, out, "15m worked")

	out, err = executeCmd(t, app, "timer", "log", id)
	require.NoError(t, err)
	assert.Contains(t, out, "paused")
	assert.Contains(t, out, "resumed")
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "note: kickoff call")

	out, err = executeCmd(t, app, "timer", "status", id)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote the brief")
	assert.Contains(t, out, "00:15:00")
}

func TestTimerStop_RequiresCommentWhenNotInteractive(t *testing.T) {
	app, _ := testApp(t)
	task := seedTask(t, app)

	_, err := executeCmd(t, app, "timer", "start", task.ID)
	require.NoError(t, err)
	id := openSessionID(t, app)

	_, err = executeCmd(t, app, "timer", "stop", id)
	assert.ErrorIs(t, err, service.ErrValidation)

	// Still open.
	assert.Equal(t, id, openSessionID(t, app))
}

func TestTimerPause_Twice(t *testing.T) {
	app, _ := testApp(t)
	task := seedTask(t, app)

	_, err := executeCmd(t, app, "timer", "start", task.ID)
	require.NoError(t, err)
	id := openSessionID(t, app)

	_, err = executeCmd(t, app, "timer", "pause", id)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "timer", "pause", id)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestTimerStart_SecondOpenSessionConflicts(t *testing.T) {
	app, _ := testApp(t)
	task := seedTask(t, app)

	_, err := executeCmd(t, app, "timer", "start", task.ID)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "timer", "start", task.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestTimerStart_KindFlag(t *testing.T) {
	app, _ := testApp(t)
	task := seedTask(t, app)
	sub, err := app.Subjects.CreateSubtask(context.Background(), task.ID, "Slides")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "timer", "start", sub.ID, "--kind", "subtask")
	require.NoError(t, err)

	views, err := app.Timers.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.SubjectSubtask, views[0].Session.SubjectKind)

	_, err = executeCmd(t, app, "timer", "start", task.ID, "--kind", "project")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be")
}

func TestTimerList(t *testing.T) {
	app, clock := testApp(t)
	task := seedTask(t, app)

	out, err := executeCmd(t, app, "timer", "list", "--open")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")

	_, err = executeCmd(t, app, "timer", "start", task.ID)
	require.NoError(t, err)
	id := openSessionID(t, app)

	clock.at(5 * time.Minute)
	out, err = executeCmd(t, app, "timer", "list", "--open")
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "00:05:00")

	out, err = executeCmd(t, app, "timer", "status")
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])

	out, err = executeCmd(t, app, "timer", "list", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])

	_, err = executeCmd(t, app, "timer", "list", "--days", "0")
	assert.ErrorIs(t, err, service.ErrValidation)

	out, err = executeCmd(t, app, "timer", "list", "--subject", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, id[:8])
}

func TestTimerStatus_NotFound(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "timer", "status", "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

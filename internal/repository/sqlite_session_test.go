package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
	"github.com/whiteindia/selftrack-sub002/internal/testutil"
)

// sessionTestSetup creates a task for sessions to time.
func sessionTestSetup(t *testing.T) (*SQLiteSessionRepo, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	task := testutil.NewTestTask("Write report")
	require.NoError(t, NewSQLiteSubjectRepo(db).CreateTask(ctx, task))

	return NewSQLiteSessionRepo(db), task.ID
}

func TestSessionRepo_InsertAndGet(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	sess := testutil.NewTestSession(taskID,
		testutil.WithStartTime(start),
		testutil.WithEventLog("Started for client call"))
	require.NoError(t, repo.Insert(ctx, sess))

	fetched, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, fetched.ID)
	assert.Equal(t, taskID, fetched.SubjectID)
	assert.Equal(t, domain.SubjectTask, fetched.SubjectKind)
	assert.True(t, start.Equal(fetched.StartTime))
	assert.Equal(t, "Started for client call", fetched.EventLog)
	assert.Nil(t, fetched.EndTime)
	assert.Nil(t, fetched.DurationMinutes)
	assert.True(t, fetched.IsOpen())
}

func TestSessionRepo_Get_NotFound(t *testing.T) {
	repo, _ := sessionTestSetup(t)

	_, err := repo.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_Insert_SecondOpenSessionConflicts(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testutil.NewTestSession(taskID)))
	err := repo.Insert(ctx, testutil.NewTestSession(taskID))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSessionRepo_Insert_ClosedSessionsDoNotConflict(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	end := time.Now().UTC()
	require.NoError(t, repo.Insert(ctx, testutil.NewTestSession(taskID, testutil.WithStopped(end, 30, "done"))))
	require.NoError(t, repo.Insert(ctx, testutil.NewTestSession(taskID, testutil.WithStopped(end, 10, "again"))))
	require.NoError(t, repo.Insert(ctx, testutil.NewTestSession(taskID)))
}

func TestSessionRepo_Update_AppliesOnlySetFields(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	sess := testutil.NewTestSession(taskID, testutil.WithEventLog("note"))
	require.NoError(t, repo.Insert(ctx, sess))

	log := "note\nPaused at 2024-03-01T09:10:00Z"
	updated, err := repo.Update(ctx, sess.ID, domain.SessionUpdate{EventLog: &log})
	require.NoError(t, err)
	assert.Equal(t, log, updated.EventLog)
	assert.Nil(t, updated.EndTime)
	assert.Empty(t, updated.Comment)
	assert.False(t, updated.UpdatedAt.Before(sess.UpdatedAt))

	fetched, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, log, fetched.EventLog)
}

func TestSessionRepo_Update_UsesGivenUpdatedAt(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	sess := testutil.NewTestSession(taskID)
	require.NoError(t, repo.Insert(ctx, sess))

	at := time.Date(2024, 3, 1, 9, 10, 0, 0, time.UTC)
	log := "Paused at 2024-03-01T09:10:00Z"
	updated, err := repo.Update(ctx, sess.ID, domain.SessionUpdate{EventLog: &log, UpdatedAt: at})
	require.NoError(t, err)
	assert.True(t, at.Equal(updated.UpdatedAt), "got %s", updated.UpdatedAt)
}

func TestSessionRepo_Update_StopWritesAllFields(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	sess := testutil.NewTestSession(taskID)
	require.NoError(t, repo.Insert(ctx, sess))

	log := "Stopped at 2024-03-01T10:00:00Z"
	end := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	minutes := 60
	comment := "wrapped up"
	updated, err := repo.Update(ctx, sess.ID, domain.SessionUpdate{
		EventLog:        &log,
		EndTime:         &end,
		DurationMinutes: &minutes,
		Comment:         &comment,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.EndTime)
	assert.True(t, end.Equal(*updated.EndTime))
	require.NotNil(t, updated.DurationMinutes)
	assert.Equal(t, 60, *updated.DurationMinutes)
	assert.Equal(t, "wrapped up", updated.Comment)
	assert.False(t, updated.IsOpen())
}

func TestSessionRepo_Update_ClosedSessionRejected(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	sess := testutil.NewTestSession(taskID, testutil.WithStopped(time.Now().UTC(), 5, "done"))
	require.NoError(t, repo.Insert(ctx, sess))

	log := "Paused at 2024-03-01T09:10:00Z"
	_, err := repo.Update(ctx, sess.ID, domain.SessionUpdate{EventLog: &log})
	assert.ErrorIs(t, err, ErrSessionClosed)

	fetched, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.EventLog)
}

func TestSessionRepo_Update_NotFound(t *testing.T) {
	repo, _ := sessionTestSetup(t)

	log := "x"
	_, err := repo.Update(context.Background(), "nonexistent", domain.SessionUpdate{EventLog: &log})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_FindOpenBySubject(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	_, err := repo.FindOpenBySubject(ctx, taskID, domain.SubjectTask)
	assert.ErrorIs(t, err, ErrNotFound)

	closed := testutil.NewTestSession(taskID, testutil.WithStopped(time.Now().UTC(), 5, "done"))
	open := testutil.NewTestSession(taskID)
	require.NoError(t, repo.Insert(ctx, closed))
	require.NoError(t, repo.Insert(ctx, open))

	found, err := repo.FindOpenBySubject(ctx, taskID, domain.SubjectTask)
	require.NoError(t, err)
	assert.Equal(t, open.ID, found.ID)

	_, err = repo.FindOpenBySubject(ctx, taskID, domain.SubjectSubtask)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_ListOpen(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Insert(ctx, testutil.NewTestSession(taskID, testutil.WithStopped(now, 5, "done"))))
	open := testutil.NewTestSession(taskID)
	require.NoError(t, repo.Insert(ctx, open))

	list, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)
}

func TestSessionRepo_ListSince_NewestFirst(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	now := time.Now().UTC()
	old := testutil.NewTestSession(taskID,
		testutil.WithStartTime(now.AddDate(0, 0, -10)),
		testutil.WithStopped(now.AddDate(0, 0, -10).Add(time.Hour), 60, "old"))
	earlier := testutil.NewTestSession(taskID,
		testutil.WithStartTime(now.Add(-3*time.Hour)),
		testutil.WithStopped(now.Add(-2*time.Hour), 60, "earlier"))
	latest := testutil.NewTestSession(taskID, testutil.WithStartTime(now.Add(-time.Hour)))
	for _, s := range []*domain.Session{old, earlier, latest} {
		require.NoError(t, repo.Insert(ctx, s))
	}

	list, err := repo.ListSince(ctx, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, latest.ID, list[0].ID)
	assert.Equal(t, earlier.ID, list[1].ID)
}

func TestSessionRepo_ListBySubject(t *testing.T) {
	repo, taskID := sessionTestSetup(t)
	ctx := context.Background()

	now := time.Now().UTC()
	s1 := testutil.NewTestSession(taskID,
		testutil.WithStartTime(now.Add(-2*time.Hour)),
		testutil.WithStopped(now.Add(-90*time.Minute), 30, "first"))
	s2 := testutil.NewTestSession(taskID, testutil.WithStartTime(now.Add(-time.Hour)))
	other := testutil.NewTestSession("other-task")
	for _, s := range []*domain.Session{s2, s1, other} {
		require.NoError(t, repo.Insert(ctx, s))
	}

	list, err := repo.ListBySubject(ctx, taskID, domain.SubjectTask)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, s1.ID, list[0].ID)
	assert.Equal(t, s2.ID, list[1].ID)
}

package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whiteindia/selftrack-sub002/internal/testutil"
)

// TestConcurrentAccess_OneOpenSessionPerSubject races several inserts of an
// open session for the same task. The partial unique index must let exactly
// one through.
func TestConcurrentAccess_OneOpenSessionPerSubject(t *testing.T) {
	database := testutil.NewTestFileDB(t)
	ctx := context.Background()

	task := testutil.NewTestTask("Race")
	require.NoError(t, NewSQLiteSubjectRepo(database).CreateTask(ctx, task))
	repo := NewSQLiteSessionRepo(database)

	const workers = 8
	var wg sync.WaitGroup
	var inserted atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Insert(ctx, testutil.NewTestSession(task.ID)); err == nil {
				inserted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), inserted.Load())
	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

package testutil

import (
	"context"
	"database/sql"

	"github.com/whiteindia/selftrack-sub002/internal/db"
)

// FailingExecUoW wraps a UnitOfWork and makes the FailOn-th write inside a
// transaction return Err, so tests can check that earlier writes of the
// same unit are rolled back. Writes are counted from 1 per transaction;
// reads are never intercepted.
type FailingExecUoW struct {
	Inner  db.UnitOfWork
	FailOn int
	Err    error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingExec{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failingExec struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

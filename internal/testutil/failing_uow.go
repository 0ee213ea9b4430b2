package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/wbs/internal/db"
)

// FaultyUoW runs each transaction against DB but fails one write statement
// with Err. Only statements containing Match count (all writes when Match is
// empty); the FailOn-th counted statement fails, counting from 1. Reads are
// never intercepted.
type FaultyUoW struct {
	DB     *sql.DB
	Match  string
	FailOn int
	Err    error

	mu   sync.Mutex
	seen int
}

// Seen reports how many matching writes were attempted so far.
func (u *FaultyUoW) Seen() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.seen
}

func (u *FaultyUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &faultyTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type faultyTx struct {
	db.DBTX
	uow *FaultyUoW
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.trip(query) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

func (u *FaultyUoW) trip(query string) bool {
	if u.Match != "" && !strings.Contains(query, u.Match) {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seen++
	return u.seen == u.FailOn
}

package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrGuardReentered is the panic value raised when an operation tries to
	// acquire the connection guard it already holds.
	ErrGuardReentered = errors.New("db: connection guard acquired recursively")

	// ErrClosed is returned by operations on a closed repository.
	ErrClosed = errors.New("db: repository is closed")
)

// guardKey marks a context derived inside the guard.
type guardKey struct{}

// guard owns the single connection and lets one operation at a time use it.
type guard struct {
	mu   sync.Mutex
	conn *sqlx.DB
}

func newGuard(conn *sqlx.DB) *guard {
	return &guard{conn: conn}
}

// acquire blocks until the connection is free and runs fn with it.
// The context passed to fn carries the guard and is never cancelled, so a
// statement that has started always runs to completion.
func (g *guard) acquire(ctx context.Context, fn func(ctx context.Context, conn *sqlx.DB) error) error {
	if held, _ := ctx.Value(guardKey{}).(*guard); held == g {
		panic(ErrGuardReentered)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return ErrClosed
	}

	return fn(context.WithValue(context.WithoutCancel(ctx), guardKey{}, g), g.conn)
}

// acquireTx runs fn inside a transaction while holding the guard.
// The transaction commits when fn returns nil and rolls back otherwise,
// including when fn panics.
func (g *guard) acquireTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	return g.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) (err error) {
		tx, err := conn.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}

		committed := false
		defer func() {
			if committed {
				return
			}
			if rbErr := tx.Rollback(); rbErr != nil && err != nil {
				err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
			}
		}()

		if err := fn(ctx, tx); err != nil {
			return err
		}

		// database/sql finishes the transaction even when Commit fails.
		committed = true
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
		return nil
	})
}

func (g *guard) close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return nil
	}
	err := g.conn.Close()
	g.conn = nil
	return err
}

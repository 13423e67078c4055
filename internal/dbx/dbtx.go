// Package dbx provides the small database/sql abstractions shared by the
// SQLite repositories: DBTX, satisfied by both *sql.DB and *sql.Tx, and
// WithTx, which scopes a function to a single transaction.
package dbx

import (
	"context"
	"database/sql"
	"errors"
)

// DBTX is the subset of database/sql the repositories rely on.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction on db, hands it to fn and commits when fn
// returns nil. Errors and panics roll the transaction back; panics are
// rethrown after the rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := favorites.NewSQLiteRepository(tx)
//	    return repo.Set(ctx, fav)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// BoolToInt maps a Go bool to the 0/1 integers SQLite stores.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// IsNoRows reports whether err is the database/sql "no rows" sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Package dbx carries the small database plumbing shared by the Postgres
// repositories on the server and the SQLite watermark store on the client.
package dbx

import (
	"context"
	"database/sql"
)

// Querier is the common surface of *sql.DB and *sql.Tx that repositories
// are written against. Writing against the interface lets the same
// repository run standalone or inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InTx begins a transaction, runs fn against it, and commits when fn
// succeeds. fn returning an error or panicking rolls the transaction back;
// panics are rethrown after the rollback.
//
//	err := dbx.InTx(ctx, db, nil, func(ctx context.Context, tx dbx.Querier) error {
//	    if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id); err != nil {
//	        return err
//	    }
//	    _, err := tx.ExecContext(ctx, `UPDATE projects SET ...`)
//	    return err
//	})
func InTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx Querier) error) (err error) {
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

	err = fn(ctx, tx)
	return err
}

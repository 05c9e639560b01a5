package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbx_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS watermarks (organization_id TEXT PRIMARY KEY, read_at TEXT NOT NULL);`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM watermarks`)
	require.NoError(t, err)
	return db
}

func countWatermarks(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM watermarks`).Scan(&n))
	return n
}

func insertWatermark(ctx context.Context, q Querier, orgID string) error {
	_, err := q.ExecContext(ctx, `INSERT INTO watermarks(organization_id, read_at) VALUES (?, ?)`,
		orgID, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	db := setupDB(t)

	err := InTx(context.Background(), db, nil, func(ctx context.Context, tx Querier) error {
		return insertWatermark(ctx, tx, "org-1")
	})
	require.NoError(t, err)
	require.Equal(t, 1, countWatermarks(t, db), "must commit on success")
}

func TestInTx_RollbackOnFnError(t *testing.T) {
	db := setupDB(t)

	err := InTx(context.Background(), db, nil, func(ctx context.Context, tx Querier) error {
		require.NoError(t, insertWatermark(ctx, tx, "org-1"))
		return errors.New("boom")
	})
	require.Error(t, err)

	require.Equal(t, 0, countWatermarks(t, db), "must rollback when fn returns error")
}

func TestInTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic to propagate")
		}
		require.Equal(t, 0, countWatermarks(t, db), "must rollback on panic")
	}()

	_ = InTx(context.Background(), db, nil, func(ctx context.Context, tx Querier) error {
		require.NoError(t, insertWatermark(ctx, tx, "org-1"))
		panic("kaput")
	})
}

func TestInTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := InTx(context.Background(), db, nil, func(ctx context.Context, tx Querier) error {
		return nil
	})
	require.Error(t, err, "begin should fail when DB is closed")
}

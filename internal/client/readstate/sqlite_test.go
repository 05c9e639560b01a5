package readstate

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE watermarks (
  organization_id TEXT PRIMARY KEY,
  read_at         TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	readAt := time.Date(2026, 2, 10, 9, 30, 0, 123456000, time.UTC)
	require.NoError(t, r.Set(ctx, "org-1", readAt))

	got, err := r.Get(ctx, "org-1")
	require.NoError(t, err)
	require.True(t, got.Equal(readAt))
}

func TestGet_NotExists_ReturnsZeroTime(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := old.Add(48 * time.Hour)

	require.NoError(t, r.Set(ctx, "org-1", old))
	require.NoError(t, r.Set(ctx, "org-1", newer))

	got, err := r.Get(ctx, "org-1")
	require.NoError(t, err)
	require.True(t, got.Equal(newer))
}

func TestSet_OrganizationsAreIndependent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Set(ctx, "org-1", t1))
	require.NoError(t, r.Set(ctx, "org-2", t2))

	got1, err := r.Get(ctx, "org-1")
	require.NoError(t, err)
	got2, err := r.Get(ctx, "org-2")
	require.NoError(t, err)
	assert.True(t, got1.Equal(t1))
	assert.True(t, got2.Equal(t2))
}

func TestDelete_RemovesKey_AndIsIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "org-1", time.Now().UTC()))
	require.NoError(t, r.Delete(ctx, "org-1"))

	got, err := r.Get(ctx, "org-1")
	require.NoError(t, err)
	require.True(t, got.IsZero())

	require.NoError(t, r.Delete(ctx, "org-1"))
}

func TestGet_SurvivesRepositoryReopen(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	readAt := time.Date(2026, 5, 20, 18, 0, 0, 0, time.UTC)
	require.NoError(t, NewSQLiteRepository(db).Set(ctx, "org-1", readAt))

	// a fresh repository over the same database sees the same watermark
	got, err := NewSQLiteRepository(db).Get(ctx, "org-1")
	require.NoError(t, err)
	require.True(t, got.Equal(readAt))
}

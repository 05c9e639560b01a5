// Package localdb opens the client's local SQLite database and applies the
// embedded goose migrations. The database holds only read watermarks; losing
// it is recoverable.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/zlvtv/TeamBridge-sub000/internal/client/migrations"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/readstate"
)

// Repositories bundles the repositories backed by the local database.
type Repositories struct {
	ReadState readstate.Repository
	DB        *sql.DB
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// RunMigrations applies all pending embedded migrations. Safe to call on
// every startup: already-applied versions are skipped.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the database at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		ReadState: readstate.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}

package readstate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zlvtv/TeamBridge-sub000/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.Querier
}

func NewSQLiteRepository(db dbx.Querier) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, organizationID string) (time.Time, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT read_at FROM watermarks WHERE organization_id = ?`, organizationID).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get watermark[%s]: %w", organizationID, err)
	}

	readAt, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse watermark[%s]: %w", organizationID, err)
	}
	return readAt, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, organizationID string, readAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO watermarks (organization_id, read_at) VALUES (?, ?)
		ON CONFLICT(organization_id) DO UPDATE SET read_at = excluded.read_at
	`, organizationID, readAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to set watermark[%s]: %w", organizationID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, organizationID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM watermarks WHERE organization_id = ?`, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete watermark[%s]: %w", organizationID, err)
	}
	return nil
}

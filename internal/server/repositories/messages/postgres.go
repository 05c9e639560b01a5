// Package messages provides PostgreSQL-backed persistence for the
// append-only project message store.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zlvtv/TeamBridge-sub000/internal/common"
	"github.com/zlvtv/TeamBridge-sub000/internal/dbx"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.Querier (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.Querier
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert appends a message. CreatedAt must already be assigned by the caller
// (the service sets server time); the delivered flag always starts false.
func (r *PostgresRepository) Insert(ctx context.Context, msg *models.Message) error {
	query := `INSERT INTO messages (id, project_id, sender_id, body, type, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ProjectID, msg.SenderID, msg.Body, string(msg.Type), msg.ParentID, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListByProject returns the complete visible message set for one project,
// ordered by creation time ascending.
func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Message, error) {
	query := `SELECT id, project_id, sender_id, body, type, parent_id, delivered, created_at
		FROM messages WHERE project_id=$1 ORDER BY created_at, id`
	return r.list(ctx, query, projectID)
}

// ListByOrganization returns all messages across every project of the
// organization. Used by the client's unread scan.
func (r *PostgresRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Message, error) {
	query := `SELECT m.id, m.project_id, m.sender_id, m.body, m.type, m.parent_id, m.delivered, m.created_at
		FROM messages m JOIN projects p ON p.id = m.project_id
		WHERE p.organization_id=$1 ORDER BY m.created_at, m.id`
	return r.list(ctx, query, organizationID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		var item models.Message
		var msgType string
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.SenderID, &item.Body,
			&msgType, &item.ParentID, &item.Delivered, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Type = models.MessageType(msgType)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	query := `SELECT id, project_id, sender_id, body, type, parent_id, delivered, created_at
		FROM messages WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)

	m := &models.Message{}
	var msgType string
	err := row.Scan(&m.ID, &m.ProjectID, &m.SenderID, &m.Body, &msgType, &m.ParentID, &m.Delivered, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	m.Type = models.MessageType(msgType)
	return m, nil
}

// DeleteByID hard-deletes a message. It expects exactly one row to be affected.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// MarkDelivered sets the delivered flag on the given messages of one project.
// Unknown ids are ignored; the flag never transitions back to false.
func (r *PostgresRepository) MarkDelivered(ctx context.Context, projectID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, projectID)
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`UPDATE messages SET delivered=TRUE WHERE project_id=$1 AND id IN (%s)`,
		strings.Join(placeholders, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark messages delivered: %w", err)
	}
	return nil
}

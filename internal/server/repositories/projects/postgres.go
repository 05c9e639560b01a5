// Package projects provides PostgreSQL-backed persistence for organizations
// and their projects.
package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) CreateOrganization(ctx context.Context, org *models.Organization) error {
	query := `INSERT INTO organizations (id, name) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, org.ID, org.Name); err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) error {
	query := `INSERT INTO projects (id, organization_id, name) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, project.ID, project.OrganizationID, project.Name); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// ListByOrganization returns all projects belonging to the organization,
// oldest first.
func (r *PostgresRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Project, error) {
	query := `SELECT id, organization_id, name, created_at FROM projects
		WHERE organization_id=$1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		var item models.Project
		if err := rows.Scan(&item.ID, &item.OrganizationID, &item.Name, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT id, organization_id, name, created_at FROM projects WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)

	p := &models.Project{}
	if err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return p, nil
}

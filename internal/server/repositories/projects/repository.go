package projects

import (
	"context"

	"github.com/zlvtv/TeamBridge-sub000/internal/server/models"
)

type Repository interface {
	CreateOrganization(ctx context.Context, org *models.Organization) error
	Create(ctx context.Context, project *models.Project) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
}

package messages

import (
	"context"

	"github.com/zlvtv/TeamBridge-sub000/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, msg *models.Message) error
	ListByProject(ctx context.Context, projectID string) ([]*models.Message, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*models.Message, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	DeleteByID(ctx context.Context, id string) error
	MarkDelivered(ctx context.Context, projectID string, ids []string) error
}

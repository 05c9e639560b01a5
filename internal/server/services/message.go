// Package services contains application services for the TeamBridge server:
// the message store operations and attachment URL presigning.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zlvtv/TeamBridge-sub000/internal/common"
	"github.com/zlvtv/TeamBridge-sub000/internal/logging"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/hub"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/models"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/repositories/messages"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/repositories/projects"
)

// MessageService implements the store side of the chat core: append, list,
// hard delete, and the delivered flag. After every mutation the project's
// complete snapshot is re-published to live subscribers through the hub.
type MessageService struct {
	projectRepo projects.Repository
	messageRepo messages.Repository
	hub         *hub.Hub
	logger      logging.Logger
}

func NewMessageService(projectRepo projects.Repository, messageRepo messages.Repository, h *hub.Hub, logger logging.Logger) *MessageService {
	return &MessageService{projectRepo: projectRepo, messageRepo: messageRepo, hub: h, logger: logger}
}

// Append validates and persists a new message. The server assigns the id and
// the creation timestamp; the body is stored as received (the server never
// inspects ciphertext). An empty type defaults to text.
func (s *MessageService) Append(ctx context.Context, projectID, senderID, body string, msgType models.MessageType, parentID string) (*models.Message, error) {
	if projectID == "" {
		return nil, common.ErrorMissingProject
	}
	if senderID == "" {
		return nil, common.ErrorMissingSender
	}
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if !models.ValidType(msgType) {
		return nil, common.ErrorUnknownType
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("project lookup error: %w", err)
	}

	msg := &models.Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		SenderID:  senderID,
		Body:      body,
		Type:      msgType,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.messageRepo.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	s.broadcast(ctx, projectID)
	return msg, nil
}

// Delete hard-deletes a message and re-publishes the owning project's
// snapshot. Returns common.ErrorNotFound for unknown ids.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.messageRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}

	s.broadcast(ctx, msg.ProjectID)
	return nil
}

// MarkDelivered flags the given messages as delivered. The flag is the only
// mutable part of a message and is settable solely through this operation.
func (s *MessageService) MarkDelivered(ctx context.Context, projectID string, ids []string) error {
	if err := s.messageRepo.MarkDelivered(ctx, projectID, ids); err != nil {
		return err
	}
	if len(ids) > 0 {
		s.broadcast(ctx, projectID)
	}
	return nil
}

// Snapshot returns the complete visible message set for the project, ordered
// by creation time ascending.
func (s *MessageService) Snapshot(ctx context.Context, projectID string) ([]*models.Message, error) {
	return s.messageRepo.ListByProject(ctx, projectID)
}

// ListByOrganization returns all messages across the organization's projects.
func (s *MessageService) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Message, error) {
	return s.messageRepo.ListByOrganization(ctx, organizationID)
}

// ListProjects enumerates the organization's projects.
func (s *MessageService) ListProjects(ctx context.Context, organizationID string) ([]*models.Project, error) {
	return s.projectRepo.ListByOrganization(ctx, organizationID)
}

// CreateOrganization and CreateProject exist so a deployment can be seeded
// through the API; collaboration-space management beyond that is out of
// scope.
func (s *MessageService) CreateOrganization(ctx context.Context, name string) (*models.Organization, error) {
	org := &models.Organization{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	if err := s.projectRepo.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *MessageService) CreateProject(ctx context.Context, organizationID, name string) (*models.Project, error) {
	p := &models.Project{ID: uuid.NewString(), OrganizationID: organizationID, Name: name, CreatedAt: time.Now().UTC()}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Watch attaches a live listener to the project's snapshot feed.
func (s *MessageService) Watch(projectID string) (<-chan hub.Snapshot, func()) {
	return s.hub.Subscribe(projectID)
}

// broadcast pushes the current full snapshot to live subscribers. Failures
// here must never surface to the caller of the mutation.
func (s *MessageService) broadcast(ctx context.Context, projectID string) {
	snapshot, err := s.messageRepo.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error(ctx, "snapshot broadcast failed", "project_id", projectID, "error", err)
		return
	}
	s.hub.Publish(projectID, snapshot)
}

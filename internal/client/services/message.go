// Package services exposes the chat operations the UI layer consumes:
// sending and deleting messages, live subscriptions, unread badges and
// photo attachments. Encryption and decryption never leave this boundary —
// callers only ever see plaintext.
package services

import (
	"context"
	"fmt"

	"github.com/zlvtv/TeamBridge-sub000/internal/chatcrypto"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/feed"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/readstate"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/store"
	"github.com/zlvtv/TeamBridge-sub000/internal/common"
	"github.com/zlvtv/TeamBridge-sub000/internal/logging"
	"github.com/zlvtv/TeamBridge-sub000/internal/netx"
)

// test seams
var (
	uploadToPresignedURL     = netx.UploadToPresignedURL
	downloadFromPresignedURL = netx.DownloadFromPresignedURL
)

type MessageService interface {
	SendMessage(ctx context.Context, projectID, plaintext string) (*feed.Message, error)
	SendReply(ctx context.Context, projectID, plaintext, parentID string) (*feed.Message, error)
	SendPhoto(ctx context.Context, projectID string, data []byte) (*feed.Message, error)
	PhotoURL(ctx context.Context, msg feed.Message) (string, error)
	FetchPhoto(ctx context.Context, projectID, messageID string) ([]byte, error)
	SubscribeToMessages(ctx context.Context, projectID string, onUpdate feed.UpdateFunc, opts feed.Options) (*feed.Subscription, error)
	DeleteMessage(ctx context.Context, id string) error
	HasUnreadMessages(ctx context.Context, organizationID string) bool
	MarkOrganizationRead(ctx context.Context, organizationID string) error
	ListProjects(ctx context.Context, organizationID string) ([]store.Project, error)
}

type messageService struct {
	store   store.Store
	tracker *readstate.Tracker
	logger  logging.Logger
	userID  string
}

func NewMessageService(st store.Store, tracker *readstate.Tracker, logger logging.Logger, userID string) MessageService {
	return &messageService{store: st, tracker: tracker, logger: logger, userID: userID}
}

// SendMessage encrypts plaintext under the project key and persists it. The
// returned record carries the plaintext and the server-assigned id and
// timestamp, so callers can render it immediately without waiting for the
// live feed to echo it back.
func (s *messageService) SendMessage(ctx context.Context, projectID, plaintext string) (*feed.Message, error) {
	return s.send(ctx, projectID, plaintext, store.TypeText, "")
}

// SendReply is SendMessage threaded under an existing message.
func (s *messageService) SendReply(ctx context.Context, projectID, plaintext, parentID string) (*feed.Message, error) {
	return s.send(ctx, projectID, plaintext, store.TypeText, parentID)
}

func (s *messageService) send(ctx context.Context, projectID, plaintext, msgType, parentID string) (*feed.Message, error) {
	if plaintext == "" {
		return nil, common.ErrorEmptyMessage
	}

	ciphertext, err := chatcrypto.EncryptMessage(plaintext, projectID)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	persisted, err := s.store.SendMessage(ctx, projectID, ciphertext, msgType, parentID)
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}

	return &feed.Message{
		ID:        persisted.ID,
		ProjectID: persisted.ProjectID,
		SenderID:  persisted.SenderID,
		Text:      plaintext,
		Type:      persisted.Type,
		ParentID:  persisted.ParentID,
		Delivered: persisted.Delivered,
		CreatedAt: persisted.CreatedAt,
	}, nil
}

// SendPhoto uploads the image bytes through a presigned URL and posts a
// photo message whose body is the encrypted storage key.
func (s *messageService) SendPhoto(ctx context.Context, projectID string, data []byte) (*feed.Message, error) {
	if len(data) == 0 {
		return nil, common.ErrorEmptyMessage
	}

	key, uploadURL, err := s.store.CreateAttachmentUpload(ctx)
	if err != nil {
		return nil, fmt.Errorf("error requesting upload: %w", err)
	}

	if err := uploadToPresignedURL(ctx, uploadURL, data); err != nil {
		return nil, fmt.Errorf("error uploading attachment: %w", err)
	}

	return s.send(ctx, projectID, key, store.TypePhoto, "")
}

// PhotoURL resolves a received photo message to a presigned download URL.
func (s *messageService) PhotoURL(ctx context.Context, msg feed.Message) (string, error) {
	if msg.Type != store.TypePhoto || msg.Text == "" {
		return "", common.ErrorUnknownType
	}
	url, err := s.store.GetAttachmentURL(ctx, msg.Text)
	if err != nil {
		return "", fmt.Errorf("error resolving attachment: %w", err)
	}
	return url, nil
}

// FetchPhoto downloads the image bytes of a photo message. The message is
// looked up in the project's current listing, its body decrypted into the
// storage key, and the object fetched through a presigned URL.
func (s *messageService) FetchPhoto(ctx context.Context, projectID, messageID string) ([]byte, error) {
	msgs, err := s.store.ListMessages(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}

	for _, m := range msgs {
		if m.ID != messageID {
			continue
		}
		url, err := s.PhotoURL(ctx, feed.Message{
			ID:        m.ID,
			ProjectID: m.ProjectID,
			Type:      m.Type,
			Text:      chatcrypto.DecryptMessage(m.Body, projectID),
		})
		if err != nil {
			return nil, err
		}
		data, err := downloadFromPresignedURL(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("error downloading attachment: %w", err)
		}
		return data, nil
	}

	return nil, common.ErrorNotFound
}

// SubscribeToMessages opens a live decrypted feed for the project. The
// caller owns the returned subscription and must Close it on every exit
// path.
func (s *messageService) SubscribeToMessages(ctx context.Context, projectID string, onUpdate feed.UpdateFunc, opts feed.Options) (*feed.Subscription, error) {
	return feed.Subscribe(ctx, s.store, s.logger, projectID, s.userID, onUpdate, opts)
}

// DeleteMessage removes a message permanently. There is no undo.
func (s *messageService) DeleteMessage(ctx context.Context, id string) error {
	if err := s.store.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}
	return nil
}

func (s *messageService) HasUnreadMessages(ctx context.Context, organizationID string) bool {
	return s.tracker.HasUnread(ctx, organizationID, s.userID)
}

func (s *messageService) MarkOrganizationRead(ctx context.Context, organizationID string) error {
	return s.tracker.MarkRead(ctx, organizationID)
}

func (s *messageService) ListProjects(ctx context.Context, organizationID string) ([]store.Project, error) {
	projects, err := s.store.ListProjects(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return projects, nil
}

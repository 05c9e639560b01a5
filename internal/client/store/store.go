// Package store defines the client's view of the remote message store and
// its live snapshot transport.
//
// The interface is the boundary the chat core is written against: an HTTP
// implementation talks to a real server, an in-memory implementation backs
// tests. Consumers never see transport details, only
// subscribe/callback/unsubscribe.
package store

import (
	"context"
	"time"
)

// Message type tags understood by the server.
const (
	TypeText   = "text"
	TypePhoto  = "photo"
	TypePoll   = "poll"
	TypeSystem = "system"
)

// Message is the wire form of a stored message. Body carries ciphertext;
// decryption happens in the feed layer, not here.
type Message struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	Type      string    `json:"type"`
	ParentID  string    `json:"parent_id,omitempty"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// Project identifies one collaboration space within an organization.
type Project struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConnState describes the live transport's connectivity.
type ConnState int

const (
	Connected ConnState = iota
	Disconnected
)

// SnapshotFunc receives the complete current message set for a project.
// The slice is owned by the callee after the call returns.
type SnapshotFunc func(msgs []Message)

// StateFunc observes transport connectivity transitions. May be nil.
type StateFunc func(state ConnState)

// Store is the remote message store boundary.
//
// Subscribe opens a live query scoped to one project. The transport owns
// reconnection: after a connection loss it retries with backoff and reports
// Disconnected/Connected transitions through onState. The returned cancel
// function releases the listener; it is safe to call more than once.
type Store interface {
	SendMessage(ctx context.Context, projectID, body, msgType, parentID string) (*Message, error)
	DeleteMessage(ctx context.Context, id string) error
	MarkDelivered(ctx context.Context, projectID string, ids []string) error
	ListMessages(ctx context.Context, projectID string) ([]Message, error)
	ListProjects(ctx context.Context, organizationID string) ([]Project, error)
	ListOrganizationMessages(ctx context.Context, organizationID string) ([]Message, error)
	Subscribe(ctx context.Context, projectID string, onSnapshot SnapshotFunc, onState StateFunc) (cancel func(), err error)
	CreateAttachmentUpload(ctx context.Context) (key string, url string, err error)
	GetAttachmentURL(ctx context.Context, key string) (string, error)
}

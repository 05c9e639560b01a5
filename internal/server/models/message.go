// Package models defines server-side data models for the TeamBridge message
// store.
package models

import "time"

// MessageType tags the kind of payload carried by a message body.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypePhoto  MessageType = "photo"
	MessageTypePoll   MessageType = "poll"
	MessageTypeSystem MessageType = "system"
)

// ValidType reports whether t is one of the known message type tags.
func ValidType(t MessageType) bool {
	switch t {
	case MessageTypeText, MessageTypePhoto, MessageTypePoll, MessageTypeSystem:
		return true
	}
	return false
}

// Message is the unit of communication persisted by the store.
//
// Body carries ciphertext produced by the client; the server never sees
// plaintext. Messages are immutable except for the Delivered flag, which is
// settable only through the store's mark-delivered operation. Deletion is a
// hard delete, no tombstone.
type Message struct {
	// ID is a globally unique identifier for the message.
	ID string

	// ProjectID scopes the message to one project chat stream.
	ProjectID string

	// SenderID identifies the authoring user.
	SenderID string

	// Body is the encrypted message body (opaque to the server, empty allowed).
	Body string

	// Type tags the payload kind (text, photo, poll, system).
	Type MessageType

	// ParentID optionally references the message this one replies to.
	ParentID string

	// Delivered is set once the author's client has acknowledged seeing the
	// message in a live snapshot.
	Delivered bool

	// CreatedAt is the server-assigned creation time in UTC.
	CreatedAt time.Time
}

// Package common defines shared constants and sentinel errors used across
// client and server layers of TeamBridge. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorEmptyMessage   = errors.New("empty message body")
	ErrorUnknownType    = errors.New("unknown message type")
	ErrorMissingProject = errors.New("missing project id")
	ErrorMissingSender  = errors.New("missing sender id")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Package readstate tracks per-organization read watermarks and answers
// "does this organization have unread messages" for badge rendering.
//
// A watermark is a single timestamp per organization: everything created at
// or before it counts as read. Watermarks live in the client's local
// database and survive restarts; losing them only causes a temporary
// all-unread signal, never data loss.
package readstate

import (
	"context"
	"time"
)

// Repository persists watermarks. A missing watermark is reported as the
// zero time, not an error.
type Repository interface {
	Get(ctx context.Context, organizationID string) (time.Time, error)
	Set(ctx context.Context, organizationID string, readAt time.Time) error
	Delete(ctx context.Context, organizationID string) error
}

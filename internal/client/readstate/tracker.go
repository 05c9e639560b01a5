package readstate

import (
	"context"
	"sync"
	"time"

	"github.com/zlvtv/TeamBridge-sub000/internal/client/store"
	"github.com/zlvtv/TeamBridge-sub000/internal/logging"
)

// ListenerFunc observes watermark updates, e.g. to clear an unread badge.
type ListenerFunc func(organizationID string, readAt time.Time)

// Tracker answers unread queries against a Repository of watermarks and the
// remote message store. Safe for concurrent use.
type Tracker struct {
	repo   Repository
	store  store.Store
	logger logging.Logger

	now func() time.Time

	mu        sync.Mutex
	listeners map[int]ListenerFunc
	nextID    int
}

func NewTracker(repo Repository, st store.Store, logger logging.Logger) *Tracker {
	return &Tracker{
		repo:      repo,
		store:     st,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]ListenerFunc),
	}
}

// HasUnread reports whether the organization has any message from another
// user created strictly after its watermark. A missing watermark counts as
// the zero time, so every foreign message is unread until the first MarkRead.
//
// The check scans every message in the organization on each call. Any
// failure along the way degrades to false: a missed badge is preferable to
// an error surfacing in badge-rendering paths.
func (t *Tracker) HasUnread(ctx context.Context, organizationID, userID string) bool {
	watermark, err := t.repo.Get(ctx, organizationID)
	if err != nil {
		t.logger.Warn(ctx, "failed to load watermark", "organization_id", organizationID, "error", err)
		return false
	}

	msgs, err := t.store.ListOrganizationMessages(ctx, organizationID)
	if err != nil {
		t.logger.Warn(ctx, "failed to enumerate messages", "organization_id", organizationID, "error", err)
		return false
	}

	for _, m := range msgs {
		if m.SenderID == userID {
			continue
		}
		if m.CreatedAt.After(watermark) {
			return true
		}
	}
	return false
}

// MarkRead advances the organization's watermark to now. Concurrent callers
// race last-write-wins by wall clock; no compare-and-swap is attempted.
func (t *Tracker) MarkRead(ctx context.Context, organizationID string) error {
	readAt := t.now().UTC()
	if err := t.repo.Set(ctx, organizationID, readAt); err != nil {
		return err
	}
	t.notify(organizationID, readAt)
	return nil
}

// Register adds a watermark-update listener and returns its unregister
// function. Unregistering twice is a no-op.
func (t *Tracker) Register(fn ListenerFunc) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

func (t *Tracker) notify(organizationID string, readAt time.Time) {
	t.mu.Lock()
	fns := make([]ListenerFunc, 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(organizationID, readAt)
	}
}

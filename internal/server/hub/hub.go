// Package hub fans complete message snapshots out to live subscribers.
//
// Each project chat has a room; a subscriber receives the full current
// message list on every change, never a diff. Because every snapshot
// supersedes the previous one, a slow subscriber's stale snapshot is dropped
// in favor of the newest rather than blocking the publisher.
package hub

import (
	"sync"

	"github.com/zlvtv/TeamBridge-sub000/internal/server/models"
)

// Snapshot is a complete point-in-time listing of a project's messages.
type Snapshot []*models.Message

type subscriber struct {
	ch chan Snapshot
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*subscriber]struct{}
}

func New() *Hub {
	return &Hub{rooms: make(map[string]map[*subscriber]struct{})}
}

// Subscribe registers a listener for the project's snapshots. The returned
// cancel function detaches the listener and closes the channel; calling it
// more than once is a no-op.
func (h *Hub) Subscribe(projectID string) (<-chan Snapshot, func()) {
	sub := &subscriber{ch: make(chan Snapshot, 1)}

	h.mu.Lock()
	if h.rooms[projectID] == nil {
		h.rooms[projectID] = make(map[*subscriber]struct{})
	}
	h.rooms[projectID][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if room := h.rooms[projectID]; room != nil {
				delete(room, sub)
				if len(room) == 0 {
					delete(h.rooms, projectID)
				}
			}
			// closed under the write lock so Publish, which sends under the
			// read lock, can never race a send against this close
			close(sub.ch)
		})
	}

	return sub.ch, cancel
}

// Publish delivers the snapshot to every subscriber of the project. If a
// subscriber has not consumed the previous snapshot yet, it is replaced:
// only the newest complete view matters.
func (h *Hub) Publish(projectID string, snapshot Snapshot) {
	// Write lock: publishers are serialized with each other and with cancel,
	// so the drain-then-send below can neither block nor hit a closed channel.
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.rooms[projectID] {
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snapshot
	}
}

// Subscribers reports how many listeners the project currently has.
func (h *Hub) Subscribers(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}

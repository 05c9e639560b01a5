package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zlvtv/TeamBridge-sub000/internal/common"
)

// MemoryStore is an in-process Store with synchronous snapshot delivery.
// It backs tests and offline development; semantics mirror the server:
// server-assigned ids and timestamps, full-snapshot fanout on every change.
type MemoryStore struct {
	mu          sync.Mutex
	senderID    string
	projects    map[string]Project
	messages    map[string]Message
	subscribers map[string]map[int]SnapshotFunc
	nextSubID   int
	now         func() time.Time

	// guarded by mu; see SetFailEnumeration
	failEnumeration bool
}

// NewMemoryStore creates an empty store. senderID is the identity attributed
// to SendMessage calls (the HTTP store derives it from the bearer token).
func NewMemoryStore(senderID string) *MemoryStore {
	return &MemoryStore{
		senderID:    senderID,
		projects:    make(map[string]Project),
		messages:    make(map[string]Message),
		subscribers: make(map[string]map[int]SnapshotFunc),
		now:         time.Now,
	}
}

// AddProject registers a project so messages can be scoped to it.
func (s *MemoryStore) AddProject(projectID, organizationID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[projectID] = Project{ID: projectID, OrganizationID: organizationID, Name: name, CreatedAt: s.now().UTC()}
}

// SetFailEnumeration makes the listing calls fail, for fail-closed tests.
// Safe to flip while subscriptions are live.
func (s *MemoryStore) SetFailEnumeration(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failEnumeration = fail
}

// Seed inserts a message as-is, bypassing id/timestamp assignment.
func (s *MemoryStore) Seed(msg Message) {
	s.mu.Lock()
	s.messages[msg.ID] = msg
	s.mu.Unlock()
	s.publish(msg.ProjectID)
}

func (s *MemoryStore) SendMessage(ctx context.Context, projectID, body, msgType, parentID string) (*Message, error) {
	s.mu.Lock()
	if _, ok := s.projects[projectID]; !ok {
		s.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	if msgType == "" {
		msgType = TypeText
	}
	msg := Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		SenderID:  s.senderID,
		Body:      body,
		Type:      msgType,
		ParentID:  parentID,
		CreatedAt: s.now().UTC(),
	}
	s.messages[msg.ID] = msg
	s.mu.Unlock()

	s.publish(projectID)
	return &msg, nil
}

func (s *MemoryStore) DeleteMessage(ctx context.Context, id string) error {
	s.mu.Lock()
	msg, ok := s.messages[id]
	if !ok {
		s.mu.Unlock()
		return common.ErrorNotFound
	}
	delete(s.messages, id)
	s.mu.Unlock()

	s.publish(msg.ProjectID)
	return nil
}

func (s *MemoryStore) MarkDelivered(ctx context.Context, projectID string, ids []string) error {
	s.mu.Lock()
	changed := false
	for _, id := range ids {
		if m, ok := s.messages[id]; ok && m.ProjectID == projectID && !m.Delivered {
			m.Delivered = true
			s.messages[id] = m
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.publish(projectID)
	}
	return nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, projectID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failEnumeration {
		return nil, ErrUnavailable
	}
	return s.snapshotLocked(projectID), nil
}

func (s *MemoryStore) ListProjects(ctx context.Context, organizationID string) ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failEnumeration {
		return nil, ErrUnavailable
	}
	var out []Project
	for _, p := range s.projects {
		if p.OrganizationID == organizationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListOrganizationMessages(ctx context.Context, organizationID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failEnumeration {
		return nil, ErrUnavailable
	}
	var out []Message
	for _, m := range s.messages {
		if p, ok := s.projects[m.ProjectID]; ok && p.OrganizationID == organizationID {
			out = append(out, m)
		}
	}
	return out, nil
}

// Subscribe delivers the current snapshot synchronously, then again after
// every mutation. There is no transport to lose, so onState only ever
// reports Connected.
func (s *MemoryStore) Subscribe(ctx context.Context, projectID string, onSnapshot SnapshotFunc, onState StateFunc) (func(), error) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	if s.subscribers[projectID] == nil {
		s.subscribers[projectID] = make(map[int]SnapshotFunc)
	}
	s.subscribers[projectID][id] = onSnapshot
	initial := s.snapshotLocked(projectID)
	s.mu.Unlock()

	if onState != nil {
		onState(Connected)
	}
	onSnapshot(initial)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers[projectID], id)
			s.mu.Unlock()
		})
	}
	return cancel, nil
}

func (s *MemoryStore) CreateAttachmentUpload(ctx context.Context) (string, string, error) {
	key := fmt.Sprintf("attachments/%s", uuid.NewString())
	return key, "memory://" + key, nil
}

func (s *MemoryStore) GetAttachmentURL(ctx context.Context, key string) (string, error) {
	return "memory://" + key, nil
}

func (s *MemoryStore) snapshotLocked(projectID string) []Message {
	var out []Message
	for _, m := range s.messages {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *MemoryStore) publish(projectID string) {
	s.mu.Lock()
	snapshot := s.snapshotLocked(projectID)
	subs := make([]SnapshotFunc, 0, len(s.subscribers[projectID]))
	for _, fn := range s.subscribers[projectID] {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

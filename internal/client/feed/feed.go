// Package feed turns the store's raw snapshot stream into an ordered,
// decrypted message feed.
//
// On every snapshot the feed decrypts each body with the project key, sorts
// the complete visible set by creation time (stable, so arrival order breaks
// ties), and hands the consumer the full ordered list rather than a diff.
// Consumers therefore need no merge logic of their own.
package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zlvtv/TeamBridge-sub000/internal/chatcrypto"
	"github.com/zlvtv/TeamBridge-sub000/internal/client/store"
	"github.com/zlvtv/TeamBridge-sub000/internal/logging"
)

// State describes one subscription's lifecycle.
type State int

const (
	StateIdle State = iota
	StateSubscribing
	StateStreaming
	StateDisconnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubscribing:
		return "subscribing"
	case StateStreaming:
		return "streaming"
	case StateDisconnected:
		return "disconnected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Message is a decrypted member of the feed. Text is empty when the stored
// body was empty or could not be decrypted (fail-soft policy).
type Message struct {
	ID        string
	ProjectID string
	SenderID  string
	Text      string
	Type      string
	ParentID  string
	Delivered bool
	CreatedAt time.Time
}

// UpdateFunc receives the complete ordered decrypted list on every snapshot.
type UpdateFunc func(msgs []Message)

// StateFunc observes subscription state transitions. May be nil.
type StateFunc func(state State)

// DeliveryAcker flags own-authored messages as delivered back at the store.
// Injected so the side effect can be disabled or observed in tests.
type DeliveryAcker interface {
	AckDelivered(ctx context.Context, projectID string, ids []string) error
}

// AckerFunc adapts a function to the DeliveryAcker interface.
type AckerFunc func(ctx context.Context, projectID string, ids []string) error

func (f AckerFunc) AckDelivered(ctx context.Context, projectID string, ids []string) error {
	return f(ctx, projectID, ids)
}

// Subscription is one open live feed. It is exclusively owned by the caller
// that opened it; Close must be called on every exit path, or the remote
// listener leaks.
type Subscription struct {
	projectID string
	userID    string
	acker     DeliveryAcker
	logger    logging.Logger
	onUpdate  UpdateFunc
	onState   StateFunc

	ctx    context.Context
	cancel func()

	mu        sync.Mutex
	state     State
	transport func()
	seq       int
}

// Options tune a subscription.
type Options struct {
	// OnState observes lifecycle transitions, including Disconnected when
	// the transport loses its connection. May be nil.
	OnState StateFunc
	// Acker overrides the default acknowledgment path (st.MarkDelivered).
	// Set to a no-op in tests that have no store to write back to.
	Acker DeliveryAcker
}

// Subscribe opens a live feed for projectID. userID identifies the current
// user: own-authored messages seen in a snapshot and not yet flagged
// delivered are acknowledged back to the store, best effort.
func Subscribe(ctx context.Context, st store.Store, logger logging.Logger, projectID, userID string, onUpdate UpdateFunc, opts Options) (*Subscription, error) {
	acker := opts.Acker
	if acker == nil {
		acker = AckerFunc(st.MarkDelivered)
	}

	subCtx, cancel := context.WithCancel(ctx)

	s := &Subscription{
		projectID: projectID,
		userID:    userID,
		acker:     acker,
		logger:    logger,
		onUpdate:  onUpdate,
		onState:   opts.OnState,
		ctx:       subCtx,
		cancel:    cancel,
		state:     StateIdle,
	}

	s.setState(StateSubscribing)

	transport, err := st.Subscribe(subCtx, projectID, s.handleSnapshot, s.handleConnState)
	if err != nil {
		cancel()
		s.setState(StateClosed)
		return nil, err
	}

	s.mu.Lock()
	s.transport = transport
	closed := s.state == StateClosed
	s.mu.Unlock()
	if closed {
		// Close raced the subscribe call
		transport()
	}

	return s, nil
}

// State returns the current lifecycle state.
func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close detaches the live query and releases all resources. Idempotent:
// calling it twice is a no-op.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	transport := s.transport
	onState := s.onState
	s.mu.Unlock()

	s.cancel()
	if transport != nil {
		transport()
	}
	if onState != nil {
		onState(StateClosed)
	}
}

func (s *Subscription) setState(next State) {
	s.mu.Lock()
	if s.state == StateClosed || s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	onState := s.onState
	s.mu.Unlock()

	if onState != nil {
		onState(next)
	}
}

func (s *Subscription) handleConnState(state store.ConnState) {
	switch state {
	case store.Disconnected:
		s.setState(StateDisconnected)
	case store.Connected:
		s.mu.Lock()
		reconnected := s.state == StateDisconnected
		s.mu.Unlock()
		if reconnected {
			s.setState(StateStreaming)
		}
	}
}

// handleSnapshot is invoked by the transport with the complete current
// message set, in arrival order.
func (s *Subscription) handleSnapshot(raw []store.Message) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	decrypted := make([]Message, 0, len(raw))
	var unacked []string
	for _, m := range raw {
		decrypted = append(decrypted, Message{
			ID:        m.ID,
			ProjectID: m.ProjectID,
			SenderID:  m.SenderID,
			Text:      chatcrypto.DecryptMessage(m.Body, s.projectID),
			Type:      m.Type,
			ParentID:  m.ParentID,
			Delivered: m.Delivered,
			CreatedAt: m.CreatedAt,
		})
		if m.SenderID == s.userID && !m.Delivered {
			unacked = append(unacked, m.ID)
		}
	}

	// presentation order: timestamp ascending, arrival order on ties
	sort.SliceStable(decrypted, func(i, j int) bool {
		return decrypted[i].CreatedAt.Before(decrypted[j].CreatedAt)
	})

	if seq == 1 {
		s.setState(StateStreaming)
	}

	if len(unacked) > 0 {
		go s.ackDelivered(unacked)
	}

	s.onUpdate(decrypted)
}

// ackDelivered is best effort: a failure degrades delivery reporting, never
// the feed itself.
func (s *Subscription) ackDelivered(ids []string) {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	if err := s.acker.AckDelivered(ctx, s.projectID, ids); err != nil {
		s.logger.Warn(ctx, "delivery ack failed", "project_id", s.projectID, "count", len(ids), "error", err)
	}
}

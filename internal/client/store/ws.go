package store

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zlvtv/TeamBridge-sub000/internal/common"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Subscribe opens the server's websocket snapshot stream for one project.
//
// The connection is owned by a background goroutine that redials with
// exponential backoff after any failure; connectivity transitions are
// reported through onState. Snapshots are handed to onSnapshot in arrival
// order from a single goroutine. The returned cancel function stops the
// loop and closes the connection; calling it repeatedly is a no-op.
func (s *HTTPStore) Subscribe(ctx context.Context, projectID string, onSnapshot SnapshotFunc, onState StateFunc) (func(), error) {
	wsURL := httpToWS(s.baseURL) + "/api/v1/projects/" + projectID + "/stream"

	subCtx, stop := context.WithCancel(ctx)

	var once sync.Once
	cancel := func() { once.Do(stop) }

	go s.runSubscription(subCtx, wsURL, onSnapshot, onState)

	return cancel, nil
}

func httpToWS(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}

func (s *HTTPStore) runSubscription(ctx context.Context, wsURL string, onSnapshot SnapshotFunc, onState StateFunc) {
	backoff := initialBackoff
	connectedOnce := false

	notify := func(state ConnState) {
		if onState != nil {
			onState(state)
		}
	}

	for {
		if ctx.Err() != nil {
			return
		}

		header := http.Header{}
		header.Set(common.AuthorizationHeaderName, "Bearer "+s.accessToken)

		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
		if resp != nil {
			resp.Body.Close()
		}
		if err != nil {
			if connectedOnce {
				notify(Disconnected)
				connectedOnce = false
			}
			if !sleep(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		backoff = initialBackoff
		connectedOnce = true
		notify(Connected)

		s.readLoop(ctx, conn, onSnapshot)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		notify(Disconnected)
		connectedOnce = false
		if !sleep(ctx, backoff) {
			return
		}
	}
}

// readLoop delivers snapshots until the connection fails or ctx is done.
func (s *HTTPStore) readLoop(ctx context.Context, conn *websocket.Conn, onSnapshot SnapshotFunc) {
	// unblock the blocking read when the subscription is cancelled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var snapshot []Message
		if err := conn.ReadJSON(&snapshot); err != nil {
			return
		}
		onSnapshot(snapshot)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

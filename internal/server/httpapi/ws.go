package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zlvtv/TeamBridge-sub000/internal/server/hub"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream upgrades to a websocket and pushes the project's complete
// message snapshot on connect and after every change. The client never
// receives a diff. The subscription lives until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error
		return
	}
	defer conn.Close()

	ch, cancel := s.messages.Watch(projectID)
	defer cancel()

	initial, err := s.messages.Snapshot(r.Context(), projectID)
	if err != nil {
		s.logger.Error(r.Context(), "initial snapshot failed", "project_id", projectID, "error", err)
		return
	}
	if err := s.writeSnapshot(conn, initial); err != nil {
		return
	}

	// read pump: we never expect client frames, but reading is required to
	// process pongs and to notice the peer going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			if err := s.writeSnapshot(conn, snapshot); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) writeSnapshot(conn *websocket.Conn, snapshot hub.Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(toMessageDTOs(snapshot))
}

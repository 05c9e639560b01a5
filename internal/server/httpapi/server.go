// Package httpapi exposes the message store over HTTP: JSON endpoints for
// the store operations and a websocket stream that pushes complete message
// snapshots.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zlvtv/TeamBridge-sub000/internal/logging"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/models"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/services"
)

type Server struct {
	messages    *services.MessageService
	attachments *services.AttachmentService
	secretKey   []byte
	logger      logging.Logger
}

func NewServer(messages *services.MessageService, attachments *services.AttachmentService, secretKey []byte, logger logging.Logger) *Server {
	return &Server{messages: messages, attachments: attachments, secretKey: secretKey, logger: logger}
}

// Register attaches all routes to the mux. Every route goes through the
// bearer-token middleware.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/organizations", s.withAuth(s.handleCreateOrganization))
	mux.Handle("POST /api/v1/organizations/{id}/projects", s.withAuth(s.handleCreateProject))
	mux.Handle("GET /api/v1/organizations/{id}/projects", s.withAuth(s.handleListProjects))
	mux.Handle("GET /api/v1/organizations/{id}/messages", s.withAuth(s.handleListOrganizationMessages))
	mux.Handle("POST /api/v1/projects/{id}/messages", s.withAuth(s.handleAppendMessage))
	mux.Handle("GET /api/v1/projects/{id}/messages", s.withAuth(s.handleListMessages))
	mux.Handle("POST /api/v1/projects/{id}/delivered", s.withAuth(s.handleMarkDelivered))
	mux.Handle("GET /api/v1/projects/{id}/stream", s.withAuth(s.handleStream))
	mux.Handle("DELETE /api/v1/messages/{id}", s.withAuth(s.handleDeleteMessage))
	mux.Handle("POST /api/v1/attachments/uploads", s.withAuth(s.handleAttachmentUpload))
	mux.Handle("GET /api/v1/attachments/{key...}", s.withAuth(s.handleAttachmentDownload))
}

// messageDTO is the wire form of a stored message.
type messageDTO struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	Type      string    `json:"type"`
	ParentID  string    `json:"parent_id,omitempty"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

type projectDTO struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

func toMessageDTO(m *models.Message) messageDTO {
	return messageDTO{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		Type:      string(m.Type),
		ParentID:  m.ParentID,
		Delivered: m.Delivered,
		CreatedAt: m.CreatedAt,
	}
}

func toMessageDTOs(msgs []*models.Message) []messageDTO {
	out := make([]messageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageDTO(m))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

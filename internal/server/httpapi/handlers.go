package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/zlvtv/TeamBridge-sub000/internal/common"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/models"
)

type appendMessageRequest struct {
	Body     string `json:"body"`
	Type     string `json:"type,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

func (s *Server) handleAppendMessage(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	var req appendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := s.messages.Append(r.Context(), projectID, userID(r), req.Body, models.MessageType(req.Type), req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "project not found")
		case errors.Is(err, common.ErrorUnknownType),
			errors.Is(err, common.ErrorMissingProject),
			errors.Is(err, common.ErrorMissingSender):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error(r.Context(), "append message failed", "project_id", projectID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toMessageDTO(msg))
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error(r.Context(), "list messages failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMessageDTOs(msgs))
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	err := s.messages.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		s.logger.Error(r.Context(), "delete message failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type markDeliveredRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleMarkDelivered(w http.ResponseWriter, r *http.Request) {
	var req markDeliveredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.messages.MarkDelivered(r.Context(), r.PathValue("id"), req.IDs); err != nil {
		s.logger.Error(r.Context(), "mark delivered failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.messages.ListProjects(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error(r.Context(), "list projects failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]projectDTO, 0, len(list))
	for _, p := range list {
		out = append(out, projectDTO{ID: p.ID, OrganizationID: p.OrganizationID, Name: p.Name, CreatedAt: p.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListOrganizationMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.ListByOrganization(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error(r.Context(), "list organization messages failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toMessageDTOs(msgs))
}

type createNameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req createNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := s.messages.CreateOrganization(r.Context(), req.Name)
	if err != nil {
		s.logger.Error(r.Context(), "create organization failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": org.ID, "name": org.Name})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.messages.CreateProject(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		s.logger.Error(r.Context(), "create project failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, projectDTO{ID: p.ID, OrganizationID: p.OrganizationID, Name: p.Name, CreatedAt: p.CreatedAt})
}

func (s *Server) handleAttachmentUpload(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.attachments.GetPresignedPutUrl(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "presign upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key, "url": url})
}

func (s *Server) handleAttachmentDownload(w http.ResponseWriter, r *http.Request) {
	url, err := s.attachments.GetPresignedGetUrl(r.Context(), r.PathValue("key"))
	if err != nil {
		s.logger.Error(r.Context(), "presign download failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

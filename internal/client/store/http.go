package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zlvtv/TeamBridge-sub000/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// HTTPStore implements Store against the TeamBridge server's JSON API plus
// its websocket snapshot stream.
type HTTPStore struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// NewHTTPStore constructs a store client. baseURL is the server root, e.g.
// "http://127.0.0.1:8080".
func NewHTTPStore(baseURL, accessToken string) *HTTPStore {
	return &HTTPStore{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+s.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("response decode error: %w", err)
		}
	}
	return nil
}

func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return common.ErrorNotFound
	case code >= 500:
		return ErrUnavailable
	default:
		return fmt.Errorf("unexpected status: %d", code)
	}
}

type sendMessageRequest struct {
	Body     string `json:"body"`
	Type     string `json:"type,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

func (s *HTTPStore) SendMessage(ctx context.Context, projectID, body, msgType, parentID string) (*Message, error) {
	var msg Message
	err := s.do(ctx, http.MethodPost,
		"/api/v1/projects/"+url.PathEscape(projectID)+"/messages",
		sendMessageRequest{Body: body, Type: msgType, ParentID: parentID}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *HTTPStore) DeleteMessage(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/v1/messages/"+url.PathEscape(id), nil, nil)
}

func (s *HTTPStore) MarkDelivered(ctx context.Context, projectID string, ids []string) error {
	return s.do(ctx, http.MethodPost,
		"/api/v1/projects/"+url.PathEscape(projectID)+"/delivered",
		map[string][]string{"ids": ids}, nil)
}

func (s *HTTPStore) ListMessages(ctx context.Context, projectID string) ([]Message, error) {
	var out []Message
	err := s.do(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(projectID)+"/messages", nil, &out)
	return out, err
}

func (s *HTTPStore) ListProjects(ctx context.Context, organizationID string) ([]Project, error) {
	var out []Project
	err := s.do(ctx, http.MethodGet, "/api/v1/organizations/"+url.PathEscape(organizationID)+"/projects", nil, &out)
	return out, err
}

func (s *HTTPStore) ListOrganizationMessages(ctx context.Context, organizationID string) ([]Message, error) {
	var out []Message
	err := s.do(ctx, http.MethodGet, "/api/v1/organizations/"+url.PathEscape(organizationID)+"/messages", nil, &out)
	return out, err
}

func (s *HTTPStore) CreateAttachmentUpload(ctx context.Context) (string, string, error) {
	var out struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/v1/attachments/uploads", struct{}{}, &out); err != nil {
		return "", "", err
	}
	return out.Key, out.URL, nil
}

func (s *HTTPStore) GetAttachmentURL(ctx context.Context, key string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/v1/attachments/"+key, nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zlvtv/TeamBridge-sub000/internal/common"
)

func TestHTTPStore_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"not found", http.StatusNotFound, common.ErrorNotFound},
		{"internal error", http.StatusInternalServerError, ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer ts.Close()

			st := NewHTTPStore(ts.URL, "tok")
			_, err := st.ListMessages(context.Background(), "proj-1")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPStore_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer ts.Close()

	st := NewHTTPStore(ts.URL, "tok")
	err := st.DeleteMessage(context.Background(), "m-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "418")
}

func TestHTTPStore_ServerUnreachable(t *testing.T) {
	st := NewHTTPStore("http://127.0.0.1:1", "tok")

	_, err := st.ListProjects(context.Background(), "org-1")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSendMessage_PostsJSONWithBearer(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotContentType string
	var gotBody sendMessageRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get(common.AuthorizationHeaderName)
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(Message{
			ID:        "m-1",
			ProjectID: "proj-1",
			SenderID:  "u1",
			Body:      gotBody.Body,
			Type:      gotBody.Type,
			ParentID:  gotBody.ParentID,
			CreatedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		})
	}))
	defer ts.Close()

	st := NewHTTPStore(ts.URL, "tok")
	msg, err := st.SendMessage(context.Background(), "proj-1", "ciphertext", TypeText, "m-0")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/projects/proj-1/messages", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "ciphertext", gotBody.Body)
	assert.Equal(t, "m-0", gotBody.ParentID)

	assert.Equal(t, "m-1", msg.ID)
	assert.Equal(t, "u1", msg.SenderID)
	assert.Equal(t, 2026, msg.CreatedAt.Year())
}

func TestListProjects_DecodesResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/organizations/org-1/projects", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]Project{
			{ID: "proj-1", OrganizationID: "org-1", Name: "Apollo"},
			{ID: "proj-2", OrganizationID: "org-1", Name: "Hermes"},
		})
	}))
	defer ts.Close()

	st := NewHTTPStore(ts.URL, "tok")
	projects, err := st.ListProjects(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Apollo", projects[0].Name)
}

func TestCreateAttachmentUpload_ReturnsKeyAndURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/attachments/uploads", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"key": "attachments/abc",
			"url": "http://minio.local/attachments/abc?sig=x",
		})
	}))
	defer ts.Close()

	st := NewHTTPStore(ts.URL, "tok")
	key, url, err := st.CreateAttachmentUpload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "attachments/abc", key)
	assert.Contains(t, url, "sig=x")
}

func TestMarkDelivered_SendsIDs(t *testing.T) {
	var got map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/proj-1/delivered", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer ts.Close()

	st := NewHTTPStore(ts.URL, "tok")
	require.NoError(t, st.MarkDelivered(context.Background(), "proj-1", []string{"m-1", "m-2"}))
	assert.Equal(t, []string{"m-1", "m-2"}, got["ids"])
}

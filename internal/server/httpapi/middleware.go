package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/zlvtv/TeamBridge-sub000/internal/common"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// userID returns the authenticated user id stored by withAuth.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// withAuth verifies the bearer token and injects the caller's user id into
// the request context. The sender identity used by mutation handlers always
// comes from the token, never from the request body.
func (s *Server) withAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		id, err := auth.GetUserIDFromToken(token, s.secretKey)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
				return
			}
			writeError(w, http.StatusUnauthorized, common.ErrInvalidToken.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"matchtalk/errors"
)

type contextKey struct{ name string }

var userIDContextKey = &contextKey{"UserID"}

func currentUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDContextKey).(uuid.UUID)
	return id, ok
}

// withAuth validates the bearer token, verifies the account still exists,
// and touches presence — every authenticated request counts as activity.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			s.writeError(w, errors.Unauthenticated("Missing bearer token."))
			return
		}

		userID, err := s.tokens.Validate(token)
		if err != nil {
			s.writeError(w, errors.Unauthenticated("Invalid or expired token."))
			return
		}
		if _, err := s.users.Get(userID); err != nil {
			s.writeError(w, errors.Unauthenticated("Unknown user."))
			return
		}

		if err := s.presence.Touch(userID); err != nil {
			s.log.Error("touching presence", "user_id", userID, "error", err)
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

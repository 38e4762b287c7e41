package httpapi

import (
	"encoding/json"
	"net/http"

	"matchtalk/errors"
)

// envelope is the uniform response shape. unread_count rides along on
// every authenticated response so clients can keep their badge current
// without a dedicated poll.
type envelope struct {
	Status      string            `json:"status"`
	Message     string            `json:"message,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
	Data        any               `json:"data,omitempty"`
	UnreadCount *int              `json:"unread_count,omitempty"`
}

func (s *Server) writeOK(w http.ResponseWriter, r *http.Request, data any) {
	env := envelope{Status: "ok", Data: data}
	if userID, ok := currentUserID(r.Context()); ok {
		if count, err := s.chat.UnreadCount(userID); err == nil {
			env.UnreadCount = &count
		} else {
			s.log.Error("counting unread messages", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	status := statusOf(code)
	message := err.Error()
	if code == errors.CodeInternal {
		s.log.Error("request failed", "error", err)
		message = "Internal server error."
	}
	writeJSON(w, status, envelope{
		Status:  "error",
		Message: message,
		Errors:  errors.FieldsOf(err),
	})
}

func statusOf(code errors.Code) int {
	switch code {
	case errors.CodeValidation, errors.CodeMalformedRequest, errors.CodeInvalidOperation:
		return http.StatusBadRequest
	case errors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case errors.CodeForbidden, errors.CodeBlocked:
		return http.StatusForbidden
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Malformed("Invalid JSON")
	}
	return nil
}

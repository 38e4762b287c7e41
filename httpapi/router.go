package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter wires all endpoints. Everything except signup and login sits
// behind the auth middleware, which also records presence activity.
func NewRouter(s *Server) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Post("/api/auth/signup", s.handleSignup)
	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.withAuth)

		r.Get("/api/conversations", s.handleListConversations)
		r.Post("/api/conversations/start/{userID}", s.handleStartConversation)
		r.Get("/api/conversations/{conversationID}", s.handleOpenConversation)
		r.Post("/api/conversations/{conversationID}/messages", s.handleSendMessage)
		r.Get("/api/conversations/{conversationID}/statuses", s.handleConversationStatuses)
		r.Post("/api/conversations/{conversationID}/typing", s.handleSetTyping)
		r.Get("/api/conversations/{conversationID}/typing", s.handleGetTyping)

		r.Post("/api/messages/{messageID}/edit", s.handleEditMessage)
		r.Post("/api/messages/{messageID}/delete", s.handleDeleteMessage)

		r.Post("/api/users/{userID}/block", s.handleBlockToggle)
		r.Get("/api/unread-count", s.handleUnreadCount)
		r.Delete("/api/account", s.handleDeleteAccount)
	})

	return r
}

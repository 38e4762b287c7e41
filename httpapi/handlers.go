package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"matchtalk/auth"
	"matchtalk/domain"
	"matchtalk/errors"
	"matchtalk/repositories"
	"matchtalk/services"
)

type Server struct {
	log           *slog.Logger
	tokens        auth.TokenManager
	users         repositories.IUserRepository
	authService   services.IAuthService
	conversations services.IConversationService
	chat          services.IChatService
	typing        services.ITypingService
	presence      services.IPresenceService
	blocks        services.IBlockService
}

func NewServer(
	log *slog.Logger,
	tokens auth.TokenManager,
	users repositories.IUserRepository,
	authService services.IAuthService,
	conversations services.IConversationService,
	chat services.IChatService,
	typing services.ITypingService,
	presence services.IPresenceService,
	blocks services.IBlockService,
) *Server {
	return &Server{
		log:           log,
		tokens:        tokens,
		users:         users,
		authService:   authService,
		conversations: conversations,
		chat:          chat,
		typing:        typing,
		presence:      presence,
		blocks:        blocks,
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var cmd services.RegisterCommand
	if err := decodeJSON(r, &cmd); err != nil {
		s.writeError(w, err)
		return
	}
	session, err := s.authService.Register(cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cmd services.LoginCommand
	if err := decodeJSON(r, &cmd); err != nil {
		s.writeError(w, err)
		return
	}
	session, err := s.authService.Login(cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, session)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	if err := s.authService.DeleteAccount(userID); err != nil {
		s.writeError(w, err)
		return
	}
	// the account is gone; no unread badge to report
	writeJSON(w, http.StatusOK, envelope{Status: "ok"})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	summaries, err := s.conversations.List(userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"conversations": summaries})
}

func (s *Server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	targetID, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, err)
		return
	}
	convID, err := s.conversations.Start(userID, targetID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"conversation_id": convID})
}

func (s *Server) handleOpenConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	convID, err := pathID(r, "conversationID")
	if err != nil {
		s.writeError(w, err)
		return
	}

	var cursor *string
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor = &raw
	}
	page, err := s.chat.Open(domain.OpenConversationCommand{
		ConversationID: convID,
		ViewerID:       userID,
		Cursor:         cursor,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, page)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	convID, err := pathID(r, "conversationID")
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.chat.Send(domain.SendMessageCommand{
		ConversationID: convID,
		SenderID:       userID,
		Content:        body.Content,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"message": view})
}

func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	messageID, err := pathID(r, "messageID")
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.chat.Edit(domain.EditMessageCommand{
		MessageID:   messageID,
		RequesterID: userID,
		Content:     body.Content,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"message": view})
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	messageID, err := pathID(r, "messageID")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.chat.SoftDelete(domain.DeleteMessageCommand{MessageID: messageID, RequesterID: userID}); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, nil)
}

func (s *Server) handleConversationStatuses(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	convID, err := pathID(r, "conversationID")
	if err != nil {
		s.writeError(w, err)
		return
	}
	statuses, err := s.presence.ConversationStatuses(convID, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"participants": statuses})
}

func (s *Server) handleSetTyping(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	convID, err := pathID(r, "conversationID")
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body struct {
		IsTyping bool   `json:"is_typing"`
		Snippet  string `json:"snippet"` // accepted, unused by the core
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	typers, err := s.typing.Set(domain.TypingCommand{
		ConversationID: convID,
		UserID:         userID,
		IsTyping:       body.IsTyping,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"typing_users": typers})
}

func (s *Server) handleGetTyping(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	convID, err := pathID(r, "conversationID")
	if err != nil {
		s.writeError(w, err)
		return
	}
	typers, err := s.typing.Typers(convID, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"typing_users": typers})
}

func (s *Server) handleBlockToggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	targetID, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.blocks.Toggle(userID, targetID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"result": result})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := currentUserID(r.Context())
	count, err := s.chat.UnreadCount(userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeOK(w, r, map[string]any{"count": count})
}

// pathID parses a uuid path parameter. An id that does not parse cannot
// name anything, so it is reported as not found.
func pathID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, errors.NotFound("no such " + param)
	}
	return id, nil
}

package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"matchtalk/errors"
	"matchtalk/repositories"
)

type IConversationService interface {
	Start(actorID, targetID uuid.UUID) (uuid.UUID, error)
	List(userID uuid.UUID) ([]ConversationSummary, error)
}

type ConversationService struct {
	conversations repositories.IConversationRepository
	users         repositories.IUserRepository
	log           *slog.Logger
}

func NewConversationService(
	conversations repositories.IConversationRepository,
	users repositories.IUserRepository,
	log *slog.Logger,
) *ConversationService {
	return &ConversationService{conversations: conversations, users: users, log: log}
}

// Start finds or creates the conversation between actor and target and
// returns its id as the redirect target. At most one conversation exists
// per unordered pair.
func (s *ConversationService) Start(actorID, targetID uuid.UUID) (uuid.UUID, error) {
	if actorID == targetID {
		return uuid.Nil, errors.InvalidOperation("You cannot start a conversation with yourself.")
	}
	if _, err := s.users.Get(targetID); err != nil {
		return uuid.Nil, err
	}

	conv, created, err := s.conversations.FindOrCreate(actorID, targetID, time.Now().UTC())
	if err != nil {
		return uuid.Nil, err
	}
	if created {
		s.log.Info("conversation created", "conversation_id", conv.ID)
	}
	return conv.ID, nil
}

// List returns the user's conversations, newest first, with the other
// participant resolved.
func (s *ConversationService) List(userID uuid.UUID) ([]ConversationSummary, error) {
	conversations, err := s.conversations.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		otherID, ok := conv.OtherParticipant(userID)
		if !ok {
			continue
		}
		other, err := s.users.Get(otherID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ConversationSummary{
			ID:        conv.ID,
			CreatedAt: conv.CreatedAt,
			Other:     ParticipantView{ID: other.ID, Username: other.Username},
		})
	}
	return summaries, nil
}

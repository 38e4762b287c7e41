package services

import (
	"log/slog"

	"github.com/google/uuid"

	"matchtalk/domain"
	"matchtalk/errors"
	"matchtalk/repositories"
)

type ITypingService interface {
	Set(cmd domain.TypingCommand) ([]ParticipantView, error)
	Typers(convID, callerID uuid.UUID) ([]ParticipantView, error)
}

type TypingService struct {
	conversations repositories.IConversationRepository
	typing        repositories.ITypingRepository
	users         repositories.IUserRepository
	log           *slog.Logger
}

func NewTypingService(
	conversations repositories.IConversationRepository,
	typing repositories.ITypingRepository,
	users repositories.IUserRepository,
	log *slog.Logger,
) *TypingService {
	return &TypingService{conversations: conversations, typing: typing, users: users, log: log}
}

// Set adds or removes the caller from the conversation's typing set and
// returns the remaining typers, excluding the caller.
func (s *TypingService) Set(cmd domain.TypingCommand) ([]ParticipantView, error) {
	conv, err := s.conversations.Get(cmd.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(cmd.UserID) {
		return nil, errors.Forbidden("You are not a participant in that conversation.")
	}
	if err := s.typing.Set(conv.ID, cmd.UserID, cmd.IsTyping); err != nil {
		return nil, err
	}
	return s.typers(conv.ID, cmd.UserID)
}

// Typers lists who is currently composing, excluding the caller.
func (s *TypingService) Typers(convID, callerID uuid.UUID) ([]ParticipantView, error) {
	conv, err := s.conversations.Get(convID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(callerID) {
		return nil, errors.Forbidden("You are not a participant in that conversation.")
	}
	return s.typers(conv.ID, callerID)
}

func (s *TypingService) typers(convID, exclude uuid.UUID) ([]ParticipantView, error) {
	ids, err := s.typing.Typing(convID, exclude)
	if err != nil {
		return nil, err
	}

	views := make([]ParticipantView, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.Get(id)
		if err != nil {
			if errors.IsCode(err, errors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, ParticipantView{ID: user.ID, Username: user.Username})
	}
	return views, nil
}

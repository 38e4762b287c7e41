package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"matchtalk/errors"
	"matchtalk/repositories"
)

type IPresenceService interface {
	Touch(userID uuid.UUID) error
	ConversationStatuses(convID, viewerID uuid.UUID) ([]ParticipantStatus, error)
}

type PresenceService struct {
	conversations repositories.IConversationRepository
	presence      repositories.IPresenceRepository
	users         repositories.IUserRepository
	log           *slog.Logger
}

func NewPresenceService(
	conversations repositories.IConversationRepository,
	presence repositories.IPresenceRepository,
	users repositories.IUserRepository,
	log *slog.Logger,
) *PresenceService {
	return &PresenceService{conversations: conversations, presence: presence, users: users, log: log}
}

// Touch records activity; it runs once per authenticated request.
func (s *PresenceService) Touch(userID uuid.UUID) error {
	return s.presence.Touch(userID, time.Now().UTC())
}

// ConversationStatuses classifies both participants of a conversation for
// the viewer. Only participants may ask.
func (s *PresenceService) ConversationStatuses(convID, viewerID uuid.UUID) ([]ParticipantStatus, error) {
	conv, err := s.conversations.Get(convID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(viewerID) {
		return nil, errors.Forbidden("You are not a participant in that conversation.")
	}

	now := time.Now().UTC()
	statuses := make([]ParticipantStatus, 0, 2)
	for _, id := range []uuid.UUID{conv.ParticipantA, conv.ParticipantB} {
		user, err := s.users.Get(id)
		if err != nil {
			return nil, err
		}
		status, err := s.presence.StatusOf(id, now)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, ParticipantStatus{ID: user.ID, Username: user.Username, Status: status})
	}
	return statuses, nil
}

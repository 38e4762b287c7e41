package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation is a strictly two-party thread. ParticipantA and
// ParticipantB are kept in normalized (lexicographic) order so that the
// unordered pair has exactly one representation in storage.
type Conversation struct {
	ID           uuid.UUID `json:"id"`
	ParticipantA uuid.UUID `json:"participant_a"`
	ParticipantB uuid.UUID `json:"participant_b"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizePair orders two user ids lexicographically.
func NormalizePair(x, y uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(x.String(), y.String()) > 0 {
		return y, x
	}
	return x, y
}

func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// OtherParticipant returns the participant that is not userID. The second
// return value is false when userID is not a participant at all.
func (c Conversation) OtherParticipant(userID uuid.UUID) (uuid.UUID, bool) {
	switch userID {
	case c.ParticipantA:
		return c.ParticipantB, true
	case c.ParticipantB:
		return c.ParticipantA, true
	default:
		return uuid.Nil, false
	}
}

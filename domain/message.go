package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxContentLength bounds message content after whitespace trimming.
const MaxContentLength = 1000

type Message struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	Content        string     `json:"content"`
	SentAt         time.Time  `json:"sent_at"`
	Read           bool       `json:"read"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	// Deleted hides the message from display; the row is never removed.
	Deleted bool `json:"deleted"`
}

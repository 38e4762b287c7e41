package services

import (
	"time"

	"github.com/google/uuid"

	"matchtalk/domain"
)

// Read models returned to the request-handling layer.

type MessageView struct {
	ID       uuid.UUID  `json:"id"`
	Content  string     `json:"content"`
	SentAt   time.Time  `json:"timestamp"`
	Sender   string     `json:"sender"`
	IsMine   bool       `json:"is_mine"`
	Read     bool       `json:"read"`
	EditedAt *time.Time `json:"edited_at,omitempty"`
	Deleted  bool       `json:"deleted"`
}

type ConversationSummary struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Other     ParticipantView `json:"other_participant"`
}

type ParticipantView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type ParticipantStatus struct {
	ID       uuid.UUID     `json:"id"`
	Username string        `json:"username"`
	Status   domain.Status `json:"status"`
}

type ConversationPage struct {
	Conversation ConversationSummary `json:"conversation"`
	Messages     []MessageView       `json:"messages"`
	NextCursor   *string             `json:"next_cursor,omitempty"`
	BlockedIDs   []uuid.UUID         `json:"blocked_ids"`
}

func messageView(msg domain.Message, sender string, viewerID uuid.UUID) MessageView {
	view := MessageView{
		ID:       msg.ID,
		Content:  msg.Content,
		SentAt:   msg.SentAt,
		Sender:   sender,
		IsMine:   msg.SenderID == viewerID,
		Read:     msg.Read,
		EditedAt: msg.EditedAt,
		Deleted:  msg.Deleted,
	}
	if msg.Deleted {
		// the row survives, only the display content is withheld
		view.Content = ""
	}
	return view
}

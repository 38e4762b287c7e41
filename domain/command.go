package domain

import "github.com/google/uuid"

type SendMessageCommand struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
}

type EditMessageCommand struct {
	MessageID   uuid.UUID
	RequesterID uuid.UUID
	Content     string
}

type DeleteMessageCommand struct {
	MessageID   uuid.UUID
	RequesterID uuid.UUID
}

type OpenConversationCommand struct {
	ConversationID uuid.UUID
	ViewerID       uuid.UUID
	Cursor         *string
}

type TypingCommand struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	IsTyping       bool
}

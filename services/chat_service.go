package services

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"matchtalk/domain"
	"matchtalk/errors"
	"matchtalk/moderation"
	"matchtalk/repositories"
)

type IChatService interface {
	Send(cmd domain.SendMessageCommand) (MessageView, error)
	Edit(cmd domain.EditMessageCommand) (MessageView, error)
	SoftDelete(cmd domain.DeleteMessageCommand) error
	Open(cmd domain.OpenConversationCommand) (ConversationPage, error)
	UnreadCount(userID uuid.UUID) (int, error)
}

// ChatService is the message pipeline: send, edit, soft delete, the
// mark-read-on-open sweep and the unread badge count.
type ChatService struct {
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	users         repositories.IUserRepository
	blocks        repositories.IBlockRepository
	moderator     *moderation.Moderator
	pageSize      int
	log           *slog.Logger
}

func NewChatService(
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	blocks repositories.IBlockRepository,
	moderator *moderation.Moderator,
	pageSize int,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		blocks:        blocks,
		moderator:     moderator,
		pageSize:      pageSize,
		log:           log,
	}
}

// Send validates and persists a message. The blocked-sender check runs in
// the same storage transaction as the insert, so a blocked sender gets a
// clear rejection and nothing is written.
func (s *ChatService) Send(cmd domain.SendMessageCommand) (MessageView, error) {
	conv, err := s.conversations.Get(cmd.ConversationID)
	if err != nil {
		return MessageView{}, err
	}
	recipientID, ok := conv.OtherParticipant(cmd.SenderID)
	if !ok {
		return MessageView{}, errors.Forbidden("You are not a participant in that conversation.")
	}

	content, err := validateContent(cmd.Content)
	if err != nil {
		return MessageView{}, err
	}
	content = s.moderator.Censor(content)

	msg := domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       cmd.SenderID,
		Content:        content,
		SentAt:         time.Now().UTC(),
	}
	if err := s.messages.Store(msg, recipientID); err != nil {
		return MessageView{}, err
	}

	sender, err := s.users.Get(cmd.SenderID)
	if err != nil {
		return MessageView{}, err
	}
	s.log.Info("message sent", "conversation_id", conv.ID, "message_id", msg.ID)
	return messageView(msg, sender.Username, cmd.SenderID), nil
}

// Edit replaces the content and stamps edited_at. Only the original sender
// may edit.
func (s *ChatService) Edit(cmd domain.EditMessageCommand) (MessageView, error) {
	msg, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return MessageView{}, err
	}
	if msg.SenderID != cmd.RequesterID {
		return MessageView{}, errors.Forbidden("You can only edit your own messages.")
	}

	content, err := validateContent(cmd.Content)
	if err != nil {
		return MessageView{}, err
	}
	msg.Content = s.moderator.Censor(content)
	msg.EditedAt = lo.ToPtr(time.Now().UTC())
	if err := s.messages.Update(msg); err != nil {
		return MessageView{}, err
	}

	sender, err := s.users.Get(msg.SenderID)
	if err != nil {
		return MessageView{}, err
	}
	return messageView(msg, sender.Username, cmd.RequesterID), nil
}

// SoftDelete hides the message from display. Content and timestamp stay in
// storage untouched.
func (s *ChatService) SoftDelete(cmd domain.DeleteMessageCommand) error {
	msg, err := s.messages.Get(cmd.MessageID)
	if err != nil {
		return err
	}
	if msg.SenderID != cmd.RequesterID {
		return errors.Forbidden("You can only delete your own messages.")
	}
	msg.Deleted = true
	return s.messages.Update(msg)
}

// Open returns a page of the conversation for a participant and marks
// every unread message from the other side as read. Opening the
// conversation is the sole read-state mechanism.
func (s *ChatService) Open(cmd domain.OpenConversationCommand) (ConversationPage, error) {
	conv, err := s.conversations.Get(cmd.ConversationID)
	if err != nil {
		return ConversationPage{}, err
	}
	otherID, ok := conv.OtherParticipant(cmd.ViewerID)
	if !ok {
		return ConversationPage{}, errors.Forbidden("You are not a participant in that conversation.")
	}

	if _, err := s.messages.MarkConversationRead(conv.ID, cmd.ViewerID); err != nil {
		return ConversationPage{}, err
	}

	messages, nextCursor, err := s.messages.List(conv.ID, cmd.Cursor, s.pageSize)
	if err != nil {
		return ConversationPage{}, err
	}

	viewer, err := s.users.Get(cmd.ViewerID)
	if err != nil {
		return ConversationPage{}, err
	}
	other, err := s.users.Get(otherID)
	if err != nil {
		return ConversationPage{}, err
	}
	usernames := map[uuid.UUID]string{viewer.ID: viewer.Username, other.ID: other.Username}

	blockedIDs, err := s.blocks.BlockedIDs(cmd.ViewerID)
	if err != nil {
		return ConversationPage{}, err
	}

	views := lo.Map(messages, func(msg domain.Message, _ int) MessageView {
		return messageView(msg, usernames[msg.SenderID], cmd.ViewerID)
	})
	return ConversationPage{
		Conversation: ConversationSummary{
			ID:        conv.ID,
			CreatedAt: conv.CreatedAt,
			Other:     ParticipantView{ID: other.ID, Username: other.Username},
		},
		Messages:   views,
		NextCursor: nextCursor,
		BlockedIDs: blockedIDs,
	}, nil
}

func (s *ChatService) UnreadCount(userID uuid.UUID) (int, error) {
	return s.messages.UnreadCount(userID)
}

func validateContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", errors.FieldError("content", "Message cannot be empty.")
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return "", errors.FieldError("content", "Message is too long (max 1000 characters).")
	}
	return content, nil
}

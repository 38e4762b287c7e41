package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"matchtalk/domain"
	"matchtalk/errors"
)

// The full round trip: Alice messages Bob, Bob opens and replies, both
// unread counters move exactly when a conversation is opened.
func Test_Conversation_Round_Trip(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	convID := env.startConversation(t, alice, bob)

	sent, err := env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: "Hello",
	})
	req.NoError(err)
	req.Equal("Hello", sent.Content)
	req.True(sent.IsMine)
	req.False(sent.Read)

	count, err := env.chatService.UnreadCount(bob)
	req.NoError(err)
	req.Equal(1, count)

	// Bob opens the conversation: Alice's message becomes read.
	page, err := env.chatService.Open(domain.OpenConversationCommand{ConversationID: convID, ViewerID: bob})
	req.NoError(err)
	req.Len(page.Messages, 1)
	req.True(page.Messages[0].Read)
	req.False(page.Messages[0].IsMine)
	req.Equal("alice", page.Messages[0].Sender)
	req.Equal("alice", page.Conversation.Other.Username)

	count, err = env.chatService.UnreadCount(bob)
	req.NoError(err)
	req.Equal(0, count)

	_, err = env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: bob, Content: "Hi",
	})
	req.NoError(err)

	count, err = env.chatService.UnreadCount(alice)
	req.NoError(err)
	req.Equal(1, count)

	page, err = env.chatService.Open(domain.OpenConversationCommand{ConversationID: convID, ViewerID: alice})
	req.NoError(err)
	req.Len(page.Messages, 2)
	req.Equal("Hi", page.Messages[0].Content)
	req.Equal("Hello", page.Messages[1].Content)

	count, err = env.chatService.UnreadCount(alice)
	req.NoError(err)
	req.Equal(0, count)
}

func Test_Send_Validates_Content(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	convID := env.startConversation(t, alice, bob)

	// Whitespace-only content is empty after trimming.
	_, err := env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: "   \n\t  ",
	})
	req.True(errors.IsCode(err, errors.CodeValidation))
	req.Equal("Message cannot be empty.", errors.FieldsOf(err)["content"])

	_, err = env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: strings.Repeat("a", 1001),
	})
	req.True(errors.IsCode(err, errors.CodeValidation))
	req.Equal("Message is too long (max 1000 characters).", errors.FieldsOf(err)["content"])

	// Exactly at the limit is fine, and the limit counts runes, not bytes.
	_, err = env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: strings.Repeat("é", 1000),
	})
	req.NoError(err)

	// Surrounding whitespace is trimmed before storage.
	sent, err := env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: "  hello  ",
	})
	req.NoError(err)
	req.Equal("hello", sent.Content)
}

func Test_Send_Rejects_Non_Participant(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	mallory := env.registerUser(t, "mallory")
	convID := env.startConversation(t, alice, bob)

	_, err := env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: mallory, Content: "let me in",
	})
	req.True(errors.IsCode(err, errors.CodeForbidden))

	_, err = env.chatService.Open(domain.OpenConversationCommand{ConversationID: convID, ViewerID: mallory})
	req.True(errors.IsCode(err, errors.CodeForbidden))
}

func Test_Send_To_Unknown_Conversation(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	_, err := env.chatService.Send(domain.SendMessageCommand{
		ConversationID: uuid.New(), SenderID: alice, Content: "hello?",
	})
	req.True(errors.IsCode(err, errors.CodeNotFound))
}

func Test_Blocked_Sender_Is_Rejected_Until_Unblocked(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	convID := env.startConversation(t, alice, bob)

	result, err := env.blockService.Toggle(bob, alice)
	req.NoError(err)
	req.Equal(ToggleBlocked, result)

	_, err = env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: "please",
	})
	req.True(errors.IsCode(err, errors.CodeBlocked))

	// Bob can still message Alice while the block stands.
	_, err = env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: bob, Content: "one way only",
	})
	req.NoError(err)

	result, err = env.blockService.Toggle(bob, alice)
	req.NoError(err)
	req.Equal(ToggleUnblocked, result)

	_, err = env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: "finally",
	})
	req.NoError(err)
}

func Test_Edit_Is_Sender_Only(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	convID := env.startConversation(t, alice, bob)

	sent, err := env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: "draft",
	})
	req.NoError(err)

	_, err = env.chatService.Edit(domain.EditMessageCommand{
		MessageID: sent.ID, RequesterID: bob, Content: "hijacked",
	})
	req.True(errors.IsCode(err, errors.CodeForbidden))

	edited, err := env.chatService.Edit(domain.EditMessageCommand{
		MessageID: sent.ID, RequesterID: alice, Content: "final",
	})
	req.NoError(err)
	req.Equal("final", edited.Content)
	req.NotNil(edited.EditedAt)
}

func Test_SoftDelete_Hides_Content_But_Keeps_Message(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	convID := env.startConversation(t, alice, bob)

	sent, err := env.chatService.Send(domain.SendMessageCommand{
		ConversationID: convID, SenderID: alice, Content: "regret",
	})
	req.NoError(err)

	err = env.chatService.SoftDelete(domain.DeleteMessageCommand{MessageID: sent.ID, RequesterID: bob})
	req.True(errors.IsCode(err, errors.CodeForbidden))

	req.NoError(env.chatService.SoftDelete(domain.DeleteMessageCommand{MessageID: sent.ID, RequesterID: alice}))

	page, err := env.chatService.Open(domain.OpenConversationCommand{ConversationID: convID, ViewerID: bob})
	req.NoError(err)
	req.Len(page.Messages, 1)
	req.True(page.Messages[0].Deleted)
	req.Empty(page.Messages[0].Content)
}

func Test_Open_Reports_Viewers_Blocked_Users(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	convID := env.startConversation(t, alice, bob)

	_, err := env.blockService.Toggle(alice, bob)
	req.NoError(err)

	page, err := env.chatService.Open(domain.OpenConversationCommand{ConversationID: convID, ViewerID: alice})
	req.NoError(err)
	req.Equal([]uuid.UUID{bob}, page.BlockedIDs)

	// Bob's view carries no block information about Alice's list.
	page, err = env.chatService.Open(domain.OpenConversationCommand{ConversationID: convID, ViewerID: bob})
	req.NoError(err)
	req.Empty(page.BlockedIDs)
}

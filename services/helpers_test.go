package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"matchtalk/auth"
	"matchtalk/domain"
	"matchtalk/moderation"
	"matchtalk/repositories"
)

// testEnv wires the full service stack over an in-memory store, the same
// way the server entrypoint does.
type testEnv struct {
	users         repositories.UserRepository
	presence      repositories.PresenceRepository
	blocks        repositories.BlockRepository
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	typing        repositories.TypingRepository

	authService         *AuthService
	conversationService *ConversationService
	chatService         *ChatService
	typingService       *TypingService
	presenceService     *PresenceService
	blockService        *BlockService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	env := &testEnv{
		users:         repositories.NewUserRepository(db, log),
		presence:      repositories.NewPresenceRepository(db, log),
		blocks:        repositories.NewBlockRepository(db, log),
		conversations: repositories.NewConversationRepository(db, log),
		messages:      repositories.NewMessageRepository(db, log),
		typing:        repositories.NewTypingRepository(db, log, time.Minute),
	}

	moderator, err := moderation.New(nil, '*')
	require.NoError(t, err)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	env.authService = NewAuthService(env.users, env.conversations, env.messages, env.typing, env.blocks, tokens, log)
	env.conversationService = NewConversationService(env.conversations, env.users, log)
	env.chatService = NewChatService(env.conversations, env.messages, env.users, env.blocks, moderator, 50, log)
	env.typingService = NewTypingService(env.conversations, env.typing, env.users, log)
	env.presenceService = NewPresenceService(env.conversations, env.presence, env.users, log)
	env.blockService = NewBlockService(env.blocks, env.users, log)
	return env
}

// registerUser creates an account directly through the repository; the
// registration flow itself is covered by the auth service tests.
func (e *testEnv) registerUser(t *testing.T, username string) uuid.UUID {
	t.Helper()
	user := domain.User{
		ID:        uuid.New(),
		Username:  username,
		Gender:    "F",
		Age:       25,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, e.users.Create(user))
	return user.ID
}

// startConversation returns the conversation id between two users.
func (e *testEnv) startConversation(t *testing.T, a, b uuid.UUID) uuid.UUID {
	t.Helper()
	convID, err := e.conversationService.Start(a, b)
	require.NoError(t, err)
	return convID
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"matchtalk/domain"
	"matchtalk/errors"
)

func Test_ConversationStatuses_Classifies_Both_Participants(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	convID := env.startConversation(t, alice, bob)

	// Alice just acted; Bob went quiet ten minutes ago.
	req.NoError(env.presenceService.Touch(alice))
	req.NoError(env.presence.Touch(bob, time.Now().UTC().Add(-10*time.Minute)))

	statuses, err := env.presenceService.ConversationStatuses(convID, alice)
	req.NoError(err)
	req.Len(statuses, 2)

	byName := map[string]domain.Status{}
	for _, s := range statuses {
		byName[s.Username] = s.Status
	}
	req.Equal(domain.StatusOnline, byName["alice"])
	req.Equal(domain.StatusAway, byName["bob"])
}

func Test_ConversationStatuses_Requires_Participation(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	mallory := env.registerUser(t, "mallory")
	convID := env.startConversation(t, alice, bob)

	_, err := env.presenceService.ConversationStatuses(convID, mallory)
	req.True(errors.IsCode(err, errors.CodeForbidden))
}

func Test_Never_Seen_User_Is_Offline(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	convID := env.startConversation(t, alice, bob)

	statuses, err := env.presenceService.ConversationStatuses(convID, alice)
	req.NoError(err)
	for _, s := range statuses {
		req.Equal(domain.StatusOffline, s.Status)
	}
}

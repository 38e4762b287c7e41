package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Token_Round_Trip(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("test-secret", time.Hour)

	userID := uuid.New()
	token, err := tm.Generate(userID)
	req.NoError(err)
	req.NotEmpty(token)

	got, err := tm.Validate(token)
	req.NoError(err)
	req.Equal(userID, got)
}

func Test_Token_Rejects_Wrong_Secret(t *testing.T) {
	req := require.New(t)

	token, err := NewTokenManager("secret-a", time.Hour).Generate(uuid.New())
	req.NoError(err)

	_, err = NewTokenManager("secret-b", time.Hour).Validate(token)
	req.Error(err)
}

func Test_Token_Rejects_Expired(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Generate(uuid.New())
	req.NoError(err)

	_, err = tm.Validate(token)
	req.Error(err)
}

func Test_Token_Rejects_Garbage(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("test-secret", time.Hour)

	_, err := tm.Validate("not.a.token")
	req.Error(err)
}

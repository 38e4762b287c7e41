package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"matchtalk/domain"
	"matchtalk/errors"
)

func newUser(username string) domain.User {
	return domain.User{
		ID:        uuid.New(),
		Username:  username,
		Gender:    "M",
		Age:       30,
		CreatedAt: time.Now().UTC(),
	}
}

func Test_Create_And_Lookup_User(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t), slog.Default())

	user := newUser("alice")
	req.NoError(repo.Create(user))

	byID, err := repo.Get(user.ID)
	req.NoError(err)
	req.Equal(user.Username, byID.Username)

	byName, err := repo.GetByUsername("alice")
	req.NoError(err)
	req.Equal(user.ID, byName.ID)
}

func Test_Create_Rejects_Taken_Username(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t), slog.Default())

	req.NoError(repo.Create(newUser("alice")))

	err := repo.Create(newUser("alice"))
	req.Error(err)
	req.True(errors.IsCode(err, errors.CodeValidation))
	req.Equal("This username is already taken.", errors.FieldsOf(err)["username"])
}

func Test_Get_Unknown_User(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t), slog.Default())

	_, err := repo.Get(uuid.New())
	req.True(errors.IsCode(err, errors.CodeNotFound))

	_, err = repo.GetByUsername("ghost")
	req.True(errors.IsCode(err, errors.CodeNotFound))
}

func Test_Delete_Frees_Username(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(newTestDB(t), slog.Default())

	user := newUser("alice")
	req.NoError(repo.Create(user))
	req.NoError(repo.Delete(user.ID))

	_, err := repo.Get(user.ID)
	req.True(errors.IsCode(err, errors.CodeNotFound))

	// The name can be claimed by a new account.
	req.NoError(repo.Create(newUser("alice")))
}

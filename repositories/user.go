package repositories

import (
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"matchtalk/domain"
	"matchtalk/errors"
)

type IUserRepository interface {
	Create(user domain.User) error
	Get(id uuid.UUID) (domain.User, error)
	GetByUsername(username string) (domain.User, error)
	Delete(id uuid.UUID) error
}

type UserRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserRepository(db *badger.DB, log *slog.Logger) UserRepository {
	return UserRepository{db: db, log: log}
}

// Create stores the user and claims the username in the same transaction,
// so two simultaneous signups with the same name cannot both succeed.
func (r UserRepository) Create(user domain.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(usernameKey(user.Username))
		if err == nil {
			return errors.FieldError("username", "This username is already taken.")
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Set(usernameKey(user.Username), []byte(user.ID.String())); err != nil {
			return err
		}
		return setJSON(txn, userKey(user.ID), user)
	})
}

func (r UserRepository) Get(id uuid.UUID) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &user)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, errors.NotFound("user not found")
	}
	return user, err
}

func (r UserRepository) GetByUsername(username string) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(string(raw))
		if err != nil {
			return err
		}
		return getJSON(txn, userKey(id), &user)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, errors.NotFound("user not found")
	}
	return user, err
}

// Delete removes the user record, its username claim and its presence key.
// Conversations, messages and block edges are cleaned up by their own
// repositories as part of the account deletion routine.
func (r UserRepository) Delete(id uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var user domain.User
		if err := getJSON(txn, userKey(id), &user); err != nil {
			if err == badger.ErrKeyNotFound {
				return errors.NotFound("user not found")
			}
			return err
		}
		if err := txn.Delete(usernameKey(user.Username)); err != nil {
			return err
		}
		if err := txn.Delete(presenceKey(id)); err != nil {
			return err
		}
		return txn.Delete(userKey(id))
	})
}

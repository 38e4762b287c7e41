package repositories

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type ITypingRepository interface {
	Set(convID, userID uuid.UUID, typing bool) error
	Typing(convID uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error)
	PurgeConversation(convID uuid.UUID) error
}

// TypingRepository holds the ephemeral per-conversation set of composing
// users. Entries carry a TTL so a crashed client cannot leave a stuck
// indicator behind; explicit clear-on-stop and clear-on-send still remove
// them immediately.
type TypingRepository struct {
	db  *badger.DB
	log *slog.Logger
	ttl time.Duration
}

func NewTypingRepository(db *badger.DB, log *slog.Logger, ttl time.Duration) TypingRepository {
	return TypingRepository{db: db, log: log, ttl: ttl}
}

func (r TypingRepository) Set(convID, userID uuid.UUID, typing bool) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := typingKey(convID, userID)
		if !typing {
			return txn.Delete(key)
		}
		value := []byte(strconv.FormatInt(time.Now().UnixNano(), 10))
		return txn.SetEntry(badger.NewEntry(key, value).WithTTL(r.ttl))
	})
}

// Typing returns the users currently composing in the conversation, minus
// the excluded caller so nobody sees their own indicator echoed back.
func (r TypingRepository) Typing(convID uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	prefix := []byte(typingPrefix + convID.String() + ":")
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := uuid.Parse(string(it.Item().Key()[len(prefix):]))
			if err != nil {
				return err
			}
			if id == exclude {
				continue
			}
			ids = append(ids, id)
		}
		return nil
	})
	return ids, err
}

func (r TypingRepository) PurgeConversation(convID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		keys, err := collectKeys(txn, []byte(typingPrefix+convID.String()+":"))
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

package repositories

import (
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"matchtalk/domain"
	"matchtalk/errors"
)

// findOrCreateRetries bounds the conflict retry loop. Two simultaneous
// first contacts between the same pair serialize on the pair key; the
// loser re-reads and returns the winner's conversation.
const findOrCreateRetries = 3

type IConversationRepository interface {
	FindOrCreate(x, y uuid.UUID, now time.Time) (domain.Conversation, bool, error)
	Get(id uuid.UUID) (domain.Conversation, error)
	ListForUser(userID uuid.UUID) ([]domain.Conversation, error)
	Delete(conv domain.Conversation) error
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

// FindOrCreate returns the unique conversation for the unordered pair,
// creating it on first contact. The normalized pair key is the uniqueness
// constraint: lookup and insert happen in one serializable transaction.
// The second return value reports whether a new conversation was created.
func (r ConversationRepository) FindOrCreate(x, y uuid.UUID, now time.Time) (domain.Conversation, bool, error) {
	a, b := domain.NormalizePair(x, y)

	var conv domain.Conversation
	var created bool
	var err error
	for attempt := 0; attempt < findOrCreateRetries; attempt++ {
		err = r.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(conversationPairKey(a, b))
			if err == nil {
				raw, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				id, err := uuid.Parse(string(raw))
				if err != nil {
					return err
				}
				created = false
				return getJSON(txn, conversationKey(id), &conv)
			}
			if err != badger.ErrKeyNotFound {
				return err
			}

			conv = domain.Conversation{ID: uuid.New(), ParticipantA: a, ParticipantB: b, CreatedAt: now}
			created = true
			if err := txn.Set(conversationPairKey(a, b), []byte(conv.ID.String())); err != nil {
				return err
			}
			if err := txn.Set(userConversationKey(a, conv.ID), nil); err != nil {
				return err
			}
			if err := txn.Set(userConversationKey(b, conv.ID), nil); err != nil {
				return err
			}
			return setJSON(txn, conversationKey(conv.ID), conv)
		})
		if err != badger.ErrConflict {
			break
		}
		r.log.Debug("conversation pair conflict, retrying", "a", a, "b", b)
	}
	return conv, created, err
}

func (r ConversationRepository) Get(id uuid.UUID) (domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, conversationKey(id), &conv)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, errors.NotFound("conversation not found")
	}
	return conv, err
}

// ListForUser returns the user's conversations, newest first.
func (r ConversationRepository) ListForUser(userID uuid.UUID) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	prefix := []byte(userConvPrefix + userID.String() + ":")
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
			var conv domain.Conversation
			if err := getJSON(txn, conversationKey(id), &conv); err != nil {
				return err
			}
			conversations = append(conversations, conv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
	return conversations, nil
}

// Delete removes the conversation record, its pair key and both per-user
// index entries. Messages are purged by the message repository.
func (r ConversationRepository) Delete(conv domain.Conversation) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(conversationPairKey(conv.ParticipantA, conv.ParticipantB)); err != nil {
			return err
		}
		if err := txn.Delete(userConversationKey(conv.ParticipantA, conv.ID)); err != nil {
			return err
		}
		if err := txn.Delete(userConversationKey(conv.ParticipantB, conv.ID)); err != nil {
			return err
		}
		return txn.Delete(conversationKey(conv.ID))
	})
}

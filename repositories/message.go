package repositories

import (
	"encoding/json"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"matchtalk/domain"
	"matchtalk/errors"
)

type IMessageRepository interface {
	Store(msg domain.Message, recipientID uuid.UUID) error
	Get(id uuid.UUID) (domain.Message, error)
	Update(msg domain.Message) error
	List(convID uuid.UUID, cursor *string, limit int) ([]domain.Message, *string, error)
	MarkConversationRead(convID, viewerID uuid.UUID) (int, error)
	UnreadCount(userID uuid.UUID) (int, error)
	PurgeConversation(conv domain.Conversation) error
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// Store persists a message under "msg:{conv}:{timestamp_padded}:{id}":
// the 19-digit zero padding keeps chronological order lexicographic, the
// trailing uuid disambiguates two messages landing on the same nanosecond.
// The blocked-sender check, the unread index entry for the recipient and
// the clearing of the sender's typing indicator all happen in the same
// transaction as the insert, so a blocked sender is rejected before any
// state changes.
func (r MessageRepository) Store(msg domain.Message, recipientID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(blockKey(recipientID, msg.SenderID))
		switch err {
		case nil:
			return errors.Blocked("You are blocked by this user. Message not sent.")
		case badger.ErrKeyNotFound:
			// not blocked
		default:
			return err
		}

		key := messageKey(msg)
		if err := setJSON(txn, key, msg); err != nil {
			return err
		}
		if err := txn.Set(messageRefKey(msg.ID), key); err != nil {
			return err
		}
		if err := txn.Set(unreadKey(recipientID, msg.ConversationID, msg.ID), key); err != nil {
			return err
		}
		// sending implies no longer composing
		return txn.Delete(typingKey(msg.ConversationID, msg.SenderID))
	})
}

func (r MessageRepository) Get(id uuid.UUID) (domain.Message, error) {
	var msg domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(messageRefKey(id))
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, key, &msg)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, errors.NotFound("message not found")
	}
	return msg, err
}

// Update rewrites the message blob in place. The key is derived from the
// immutable conversation, timestamp and id fields, so edits and soft
// deletes never move the record.
func (r MessageRepository) Update(msg domain.Message) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, messageKey(msg), msg)
	})
}

// List pages through a conversation newest first. The cursor is the key
// suffix of the last message of the previous page; nil starts from the
// most recent message. A limit of 0 means no limit.
func (r MessageRepository) List(convID uuid.UUID, cursor *string, limit int) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	prefixStr := msgPrefix + convID.String() + ":"
	prefix := []byte(prefixStr)

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		if cursor == nil {
			// Position past the newest possible timestamp, then walk back.
			seekKey = append([]byte(prefixStr), []byte("9999999999999999999")...)
		} else {
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefixStr):])
			err := item.Value(func(raw []byte) error {
				var msg domain.Message
				if err := json.Unmarshal(raw, &msg); err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return messages, &lastKey, nil
}

// MarkConversationRead flips every unread message the viewer has in the
// conversation to read and drops the index entries, as one atomic batch.
// Messages sent by the viewer never appear in the viewer's unread index,
// so they are untouched by construction.
func (r MessageRepository) MarkConversationRead(convID, viewerID uuid.UUID) (int, error) {
	var count int
	prefix := []byte(unreadPrefix + viewerID.String() + ":" + convID.String() + ":")
	err := r.db.Update(func(txn *badger.Txn) error {
		count = 0
		type entry struct{ indexKey, msgKey []byte }
		var entries []entry

		options := badger.DefaultIteratorOptions
		it := txn.NewIterator(options)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			msgKey, err := item.ValueCopy(nil)
			if err != nil {
				it.Close()
				return err
			}
			entries = append(entries, entry{indexKey: item.KeyCopy(nil), msgKey: msgKey})
		}
		it.Close()

		for _, e := range entries {
			var msg domain.Message
			if err := getJSON(txn, e.msgKey, &msg); err != nil {
				return err
			}
			msg.Read = true
			if err := setJSON(txn, e.msgKey, msg); err != nil {
				return err
			}
			if err := txn.Delete(e.indexKey); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

// UnreadCount counts unread messages addressed to the user across all
// conversations with one key-only prefix scan.
func (r MessageRepository) UnreadCount(userID uuid.UUID) (int, error) {
	var count int
	prefix := []byte(unreadPrefix + userID.String() + ":")
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// PurgeConversation hard-deletes every message of a conversation together
// with its ref and unread index entries. Only the account deletion routine
// calls this; normal operation soft-deletes single messages instead.
func (r MessageRepository) PurgeConversation(conv domain.Conversation) error {
	return r.db.Update(func(txn *badger.Txn) error {
		msgKeys, err := collectKeys(txn, []byte(msgPrefix+conv.ID.String()+":"))
		if err != nil {
			return err
		}
		for _, key := range msgKeys {
			id, err := uuid.Parse(lastSegment(key))
			if err != nil {
				return err
			}
			if err := txn.Delete(messageRefKey(id)); err != nil {
				return err
			}
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		for _, participant := range []uuid.UUID{conv.ParticipantA, conv.ParticipantB} {
			unreadKeys, err := collectKeys(txn, []byte(unreadPrefix+participant.String()+":"+conv.ID.String()+":"))
			if err != nil {
				return err
			}
			for _, key := range unreadKeys {
				if err := txn.Delete([]byte(key)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

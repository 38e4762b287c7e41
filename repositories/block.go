package repositories

import (
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IBlockRepository interface {
	Block(actor, target uuid.UUID) error
	Unblock(actor, target uuid.UUID) error
	Toggle(actor, target uuid.UUID) (bool, error)
	IsBlockedBy(sender, recipient uuid.UUID) (bool, error)
	BlockedIDs(actor uuid.UUID) ([]uuid.UUID, error)
	PurgeUser(userID uuid.UUID) error
}

// BlockRepository stores the directed block relation. Each edge is written
// twice (forward and reverse key) so that both directions are prefix scans.
type BlockRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBlockRepository(db *badger.DB, log *slog.Logger) BlockRepository {
	return BlockRepository{db: db, log: log}
}

func (r BlockRepository) Block(actor, target uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return setEdge(txn, actor, target)
	})
}

func (r BlockRepository) Unblock(actor, target uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return deleteEdge(txn, actor, target)
	})
}

// Toggle flips the actor->target edge in a single transaction and reports
// the resulting state: true means the target is now blocked.
func (r BlockRepository) Toggle(actor, target uuid.UUID) (bool, error) {
	var blocked bool
	err := r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(blockKey(actor, target))
		switch err {
		case nil:
			blocked = false
			return deleteEdge(txn, actor, target)
		case badger.ErrKeyNotFound:
			blocked = true
			return setEdge(txn, actor, target)
		default:
			return err
		}
	})
	return blocked, err
}

// IsBlockedBy reports whether recipient has blocked sender. The relation is
// directed: being blocked by someone does not block them back.
func (r BlockRepository) IsBlockedBy(sender, recipient uuid.UUID) (bool, error) {
	var blocked bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(blockKey(recipient, sender))
		switch err {
		case nil:
			blocked = true
			return nil
		case badger.ErrKeyNotFound:
			return nil
		default:
			return err
		}
	})
	return blocked, err
}

// BlockedIDs lists the users the actor has blocked.
func (r BlockRepository) BlockedIDs(actor uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	prefix := []byte(blockPrefix + actor.String() + ":")
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
			ids = append(ids, id)
		}
		return nil
	})
	return ids, err
}

// PurgeUser removes every edge touching the user, in both directions. Part
// of the explicit account deletion routine.
func (r BlockRepository) PurgeUser(userID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		outgoing, err := collectKeys(txn, []byte(blockPrefix+userID.String()+":"))
		if err != nil {
			return err
		}
		incoming, err := collectKeys(txn, []byte(blockedByPrefix+userID.String()+":"))
		if err != nil {
			return err
		}
		for _, key := range append(outgoing, incoming...) {
			other, err := uuid.Parse(lastSegment(key))
			if err != nil {
				return err
			}
			if err := deleteEdge(txn, userID, other); err != nil {
				return err
			}
			if err := deleteEdge(txn, other, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

func setEdge(txn *badger.Txn, actor, target uuid.UUID) error {
	if err := txn.Set(blockKey(actor, target), []byte{1}); err != nil {
		return err
	}
	return txn.Set(blockedByKey(target, actor), []byte{1})
}

func deleteEdge(txn *badger.Txn, actor, target uuid.UUID) error {
	if err := txn.Delete(blockKey(actor, target)); err != nil {
		return err
	}
	return txn.Delete(blockedByKey(target, actor))
}

func collectKeys(txn *badger.Txn, prefix []byte) ([]string, error) {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	var keys []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, string(it.Item().KeyCopy(nil)))
	}
	return keys, nil
}

func lastSegment(key string) string {
	return key[strings.LastIndexByte(key, ':')+1:]
}

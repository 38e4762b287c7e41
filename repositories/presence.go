package repositories

import (
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"matchtalk/domain"
)

type IPresenceRepository interface {
	Touch(userID uuid.UUID, now time.Time) error
	Get(userID uuid.UUID) (domain.Presence, error)
	StatusOf(userID uuid.UUID, now time.Time) (domain.Status, error)
}

type PresenceRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewPresenceRepository(db *badger.DB, log *slog.Logger) PresenceRepository {
	return PresenceRepository{db: db, log: log}
}

// Touch records activity for the user. It writes the presence key only,
// never the profile blob, since it runs on every authenticated request.
func (r PresenceRepository) Touch(userID uuid.UUID, now time.Time) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, presenceKey(userID), domain.Presence{LastActivity: now, Online: true})
	})
}

// Get returns the stored presence record. A user who never made a request
// has a zero record, which classifies as offline.
func (r PresenceRepository) Get(userID uuid.UUID) (domain.Presence, error) {
	var p domain.Presence
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, presenceKey(userID), &p)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Presence{}, nil
	}
	return p, err
}

// StatusOf classifies the user's presence. When the classification comes
// out offline and the cached online flag is still set, the flag is
// corrected in place: there is no background sweep, staleness is fixed
// opportunistically on read.
func (r PresenceRepository) StatusOf(userID uuid.UUID, now time.Time) (domain.Status, error) {
	var status domain.Status
	err := r.db.Update(func(txn *badger.Txn) error {
		var p domain.Presence
		if err := getJSON(txn, presenceKey(userID), &p); err != nil {
			if err == badger.ErrKeyNotFound {
				status = domain.StatusOffline
				return nil
			}
			return err
		}
		status = domain.Classify(p.LastActivity, now)
		if status == domain.StatusOffline && p.Online {
			p.Online = false
			return setJSON(txn, presenceKey(userID), p)
		}
		return nil
	})
	return status, err
}

package repositories

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"yatube/app/models"
)

// BadgerSessionRepository implements SessionRepository using BadgerDB.
// Entries carry a TTL so expired sessions are dropped by badger itself.
type BadgerSessionRepository struct {
	db *badger.DB
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db}
}

// Create stores a session until its expiry
func (r *BadgerSessionRepository) Create(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	err = updateWithRetry(r.db, func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(SessionKeyPrefix+session.TokenHash), data).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	return errors.Wrap(err, "create session")
}

// Get retrieves a live session
func (r *BadgerSessionRepository) Get(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, []byte(SessionKeyPrefix+tokenHash), &session)
	})
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	if session.Expired(time.Now()) {
		return nil, errors.Wrap(ErrNotFound, "get session")
	}
	return &session, nil
}

// Delete removes a session
func (r *BadgerSessionRepository) Delete(ctx context.Context, tokenHash string) error {
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		return txn.Delete([]byte(SessionKeyPrefix + tokenHash))
	})
	return errors.Wrap(err, "delete session")
}

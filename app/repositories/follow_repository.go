package repositories

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"yatube/app/models"
)

// BadgerFollowRepository implements FollowRepository using BadgerDB. The
// (user, author) pair is the key, so an edge can exist at most once.
type BadgerFollowRepository struct {
	db *badger.DB
}

// NewBadgerFollowRepository creates a new BadgerFollowRepository
func NewBadgerFollowRepository(db *badger.DB) *BadgerFollowRepository {
	return &BadgerFollowRepository{db: db}
}

// GetOrCreate returns the edge for (userID, authorID), creating it when missing
func (r *BadgerFollowRepository) GetOrCreate(ctx context.Context, userID, authorID int) (*models.Follow, bool, error) {
	var follow *models.Follow
	var created bool
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		var txErr error
		follow, created, txErr = getOrCreateFollow(txn, userID, authorID)
		return txErr
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "follow %d -> %d", userID, authorID)
	}
	return follow, created, nil
}

func getOrCreateFollow(txn *badger.Txn, userID, authorID int) (*models.Follow, bool, error) {
	key := idKey(FollowKeyPrefix, userID, authorID)
	var existing models.Follow
	err := getEntity(txn, key, &existing)
	if err == nil {
		return &existing, false, nil
	}
	if err != ErrNotFound {
		return nil, false, err
	}

	follow, err := models.NewFollow(userID, authorID)
	if err != nil {
		return nil, false, err
	}
	id, err := getNextID(txn, FollowSeqKey)
	if err != nil {
		return nil, false, err
	}
	follow.ID = id
	if err := setEntity(txn, key, follow); err != nil {
		return nil, false, err
	}
	return follow, true, nil
}

// Delete removes the edge if present
func (r *BadgerFollowRepository) Delete(ctx context.Context, userID, authorID int) error {
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		return txn.Delete(idKey(FollowKeyPrefix, userID, authorID))
	})
	return errors.Wrapf(err, "unfollow %d -> %d", userID, authorID)
}

// Exists reports whether userID follows authorID
func (r *BadgerFollowRepository) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(idKey(FollowKeyPrefix, userID, authorID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "check follow")
	}
	return found, nil
}

// ListAuthorIDs returns the ids of every author userID follows
func (r *BadgerFollowRepository) ListAuthorIDs(ctx context.Context, userID int) ([]int, error) {
	ids := []int{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := append(idKey(FollowKeyPrefix, userID), ':')
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var follow models.Follow
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &follow)
			})
			if err != nil {
				return err
			}
			ids = append(ids, follow.AuthorID)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list follows of %d", userID)
	}
	return ids, nil
}

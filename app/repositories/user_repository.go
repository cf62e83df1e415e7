package repositories

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"yatube/app/models"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new user, rejecting a taken username with ErrDuplicate
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		nameKey := []byte(UsernameKeyPrefix + user.Username)
		if _, err := txn.Get(nameKey); err == nil {
			return ErrDuplicate
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		if err := setEntity(txn, idKey(UserKeyPrefix, user.ID), user); err != nil {
			return err
		}
		return setIndex(txn, nameKey, user.ID)
	})
	return errors.Wrapf(err, "create user %q", user.Username)
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, idKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get user %d", id)
	}
	return &user, nil
}

// GetByUsername retrieves a user through the username index
func (r *BadgerUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, []byte(UsernameKeyPrefix+username))
		if err != nil {
			return err
		}
		return getEntity(txn, idKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get user %q", username)
	}
	return &user, nil
}

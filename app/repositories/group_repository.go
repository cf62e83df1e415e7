package repositories

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"yatube/app/models"
)

// BadgerGroupRepository implements GroupRepository using BadgerDB
type BadgerGroupRepository struct {
	db *badger.DB
}

// NewBadgerGroupRepository creates a new BadgerGroupRepository
func NewBadgerGroupRepository(db *badger.DB) *BadgerGroupRepository {
	return &BadgerGroupRepository{db: db}
}

// Create stores a new group, rejecting a taken slug with ErrDuplicate
func (r *BadgerGroupRepository) Create(ctx context.Context, group *models.Group) error {
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		slugKey := []byte(GroupSlugPrefix + group.Slug)
		if _, err := txn.Get(slugKey); err == nil {
			return ErrDuplicate
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := getNextID(txn, GroupSeqKey)
		if err != nil {
			return err
		}
		group.ID = id

		if err := setEntity(txn, idKey(GroupKeyPrefix, group.ID), group); err != nil {
			return err
		}
		return setIndex(txn, slugKey, group.ID)
	})
	return errors.Wrapf(err, "create group %q", group.Slug)
}

// GetByID retrieves a group by ID
func (r *BadgerGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, idKey(GroupKeyPrefix, id), &group)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get group %d", id)
	}
	return &group, nil
}

// GetBySlug retrieves a group through the slug index
func (r *BadgerGroupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, []byte(GroupSlugPrefix+slug))
		if err != nil {
			return err
		}
		return getEntity(txn, idKey(GroupKeyPrefix, id), &group)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get group %q", slug)
	}
	return &group, nil
}

// List returns every group ordered by ID
func (r *BadgerGroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(GroupKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var group models.Group
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &group)
			})
			if err != nil {
				return err
			}
			groups = append(groups, &group)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list groups")
	}
	return groups, nil
}

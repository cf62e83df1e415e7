package repositories

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"yatube/app/models"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		// Get next ID
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		return setEntity(txn, idKey(PostKeyPrefix, post.ID), post)
	})
	return errors.Wrap(err, "create post")
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, idKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get post %d", id)
	}
	return &post, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		key := idKey(PostKeyPrefix, post.ID)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return setEntity(txn, key, post)
	})
	return errors.Wrapf(err, "update post %d", post.ID)
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int) error {
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		key := idKey(PostKeyPrefix, id)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(key)
	})
	return errors.Wrapf(err, "delete post %d", id)
}

// List retrieves all posts, newest first
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.scan(ctx, func(*models.Post) bool { return true })
}

// ListByGroup retrieves the posts of one group, newest first
func (r *BadgerPostRepository) ListByGroup(ctx context.Context, groupID int) ([]*models.Post, error) {
	return r.scan(ctx, func(p *models.Post) bool { return p.InGroup(groupID) })
}

// ListByAuthor retrieves the posts of one author, newest first
func (r *BadgerPostRepository) ListByAuthor(ctx context.Context, authorID int) ([]*models.Post, error) {
	return r.scan(ctx, func(p *models.Post) bool { return p.AuthorID == authorID })
}

// ListByAuthors retrieves the posts written by any of authorIDs, newest first
func (r *BadgerPostRepository) ListByAuthors(ctx context.Context, authorIDs []int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, nil
	}
	set := make(map[int]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		set[id] = struct{}{}
	}
	return r.scan(ctx, func(p *models.Post) bool {
		_, ok := set[p.AuthorID]
		return ok
	})
}

func (r *BadgerPostRepository) scan(ctx context.Context, keep func(*models.Post) bool) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			if keep(&post) {
				posts = append(posts, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	sortNewestFirst(posts)
	return posts, nil
}

package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store bundles the repositories the services depend on.
type Store struct {
	Users    UserRepository
	Groups   GroupRepository
	Posts    PostRepository
	Comments CommentRepository
	Follows  FollowRepository
	Sessions SessionRepository

	closer func() error
}

// NewStore wraps repositories built elsewhere. closer may be nil.
func NewStore(users UserRepository, groups GroupRepository, posts PostRepository, comments CommentRepository, follows FollowRepository, sessions SessionRepository, closer func() error) *Store {
	return &Store{
		Users:    users,
		Groups:   groups,
		Posts:    posts,
		Comments: comments,
		Follows:  follows,
		Sessions: sessions,
		closer:   closer,
	}
}

// Close releases the underlying engine
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// OpenBadger opens the database at path. An empty path opens an in-memory
// database, which tests rely on for isolation.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %v", path, err)
	}
	return db, nil
}

// NewBadgerStore builds every repository on top of db. Closing the store
// closes db.
func NewBadgerStore(db *badger.DB) *Store {
	return NewStore(
		NewBadgerUserRepository(db),
		NewBadgerGroupRepository(db),
		NewBadgerPostRepository(db),
		NewBadgerCommentRepository(db),
		NewBadgerFollowRepository(db),
		NewBadgerSessionRepository(db),
		db.Close,
	)
}

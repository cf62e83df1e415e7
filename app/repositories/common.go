package repositories

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"yatube/app/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix     = "user:"
	UsernameKeyPrefix = "username:"
	GroupKeyPrefix    = "group:"
	GroupSlugPrefix   = "groupslug:"
	PostKeyPrefix     = "post:"
	CommentKeyPrefix  = "comment:"
	FollowKeyPrefix   = "follow:"
	SessionKeyPrefix  = "session:"

	// Sequence keys for auto-incrementing IDs
	UserSeqKey    = "seq:user"
	GroupSeqKey   = "seq:group"
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
	FollowSeqKey  = "seq:follow"
)

// maxConflictRetries bounds how often a write is replayed after badger
// reports a conflicting concurrent commit. Every conflict means another
// write committed, so this only has to exceed the number of writers racing
// on one key.
const maxConflictRetries = 100

// updateWithRetry runs fn in a read-write transaction, replaying it on
// badger.ErrConflict. fn must be safe to run more than once.
func updateWithRetry(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		time.Sleep(time.Duration(rand.Intn(attempt+1)) * 100 * time.Microsecond)
	}
	return err
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %q", seqKey)
			}
			id = int(binary.BigEndian.Uint64(val))
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, uint64(id))
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return id, nil
}

// idKey builds a key whose lexical order matches the numeric order of ids
func idKey(prefix string, ids ...int) []byte {
	key := prefix
	for i, id := range ids {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprintf("%010d", id)
	}
	return []byte(key)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}

// getEntity loads the value at key into entity, mapping a missing key to ErrNotFound
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity marshals entity and stores it at key
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// getIndex resolves a secondary index key to the id it points at
func getIndex(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt index %q", key)
		}
		id = int(binary.BigEndian.Uint64(val))
		return nil
	})
	return id, err
}

func setIndex(txn *badger.Txn, key []byte, id int) error {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(id))
	return txn.Set(key, val)
}

// sortNewestFirst orders posts by creation time descending, newest id first on ties
func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

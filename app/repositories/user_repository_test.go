package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/app/models"
)

func TestBadgerUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerUserRepository(setupTestDB(t))

	user := &models.User{Username: "nemo", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, 1, user.ID)
	assert.False(t, user.DateJoined.IsZero())

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "nemo", got.Username)
	})

	t.Run("by username", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "nemo")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		_, err = repo.GetByUsername(ctx, "ghost")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "nemo", PasswordHash: "other"})
		assert.True(t, errors.Is(err, ErrDuplicate))
	})
}

func TestBadgerGroupRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerGroupRepository(setupTestDB(t))

	group := &models.Group{Title: "Cats", Slug: "cats", Description: "Meow"}
	require.NoError(t, repo.Create(ctx, group))
	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Dogs", Slug: "dogs", Description: "Woof"}))

	got, err := repo.GetBySlug(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)

	got, err = repo.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meow", got.Description)

	_, err = repo.GetBySlug(ctx, "birds")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = repo.Create(ctx, &models.Group{Title: "Cats 2", Slug: "cats", Description: "dup"})
	assert.True(t, errors.Is(err, ErrDuplicate))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestBadgerSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerSessionRepository(setupTestDB(t))

	session := &models.Session{TokenHash: "abc", UserID: 3, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, got.UserID)

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Get(ctx, "abc")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = repo.Create(ctx, &models.Session{TokenHash: "old", UserID: 3, ExpiresAt: time.Now().Add(-time.Second)})
	assert.Error(t, err)
}

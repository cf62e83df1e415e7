package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/app/repositories"
	"yatube/app/repositories/mock"
)

func TestFollowIdempotent(t *testing.T) {
	follows := mock.NewFollowRepository()
	store := newTestStore()
	store.Follows = follows
	service := NewFollowService(store)
	author := createTestUser(t, store, "leo")
	reader := createTestUser(t, store, "reader")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		target, err := service.Follow(ctx, reader, "leo")
		require.NoError(t, err)
		assert.Equal(t, author.ID, target.ID)
	}
	assert.Equal(t, 1, follows.Count())

	_, err := service.Follow(ctx, reader, "reader")
	require.NoError(t, err)
	assert.Equal(t, 1, follows.Count())

	_, err = service.Follow(ctx, reader, "ghost")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUnfollow(t *testing.T) {
	store := newTestStore()
	service := NewFollowService(store)
	author := createTestUser(t, store, "leo")
	reader := createTestUser(t, store, "reader")
	ctx := context.Background()

	_, err := service.Unfollow(ctx, reader, "leo")
	require.NoError(t, err)

	_, err = service.Follow(ctx, reader, "leo")
	require.NoError(t, err)
	_, err = service.Unfollow(ctx, reader, "leo")
	require.NoError(t, err)

	exists, err := store.Follows.Exists(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

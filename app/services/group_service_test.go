package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/app/repositories"
)

func TestCreateGroup(t *testing.T) {
	store := newTestStore()
	service := NewGroupService(store)
	ctx := context.Background()

	group, err := service.Create(ctx, "Funny Cats", "", "cats only")
	require.NoError(t, err)
	assert.Equal(t, "funny-cats", group.Slug)

	_, err = service.Create(ctx, "Other", "funny-cats", "dup")
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = service.Create(ctx, "Bad", "no spaces!", "x")
	assert.Error(t, err)

	groups, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

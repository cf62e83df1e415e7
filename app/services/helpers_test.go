package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/repositories/mock"
)

func newTestStore() *repositories.Store {
	return mock.NewStore()
}

func createTestUser(t *testing.T, store *repositories.Store, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "unused"}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

func createTestGroup(t *testing.T, store *repositories.Store, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, store.Groups.Create(context.Background(), group))
	return group
}

// createTestPosts stores n posts one second apart, oldest first.
func createTestPosts(t *testing.T, store *repositories.Store, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := &models.Post{
			Text:      fmt.Sprintf("post %d", i),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		post.SetGroup(group)
		require.NoError(t, store.Posts.Create(context.Background(), post))
		posts = append(posts, post)
	}
	return posts
}

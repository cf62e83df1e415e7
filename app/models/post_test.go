package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				Text:      "Something worth reading",
				AuthorID:  1,
				CreatedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "empty text",
			post: &Post{
				Text:      "",
				AuthorID:  1,
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing author",
			post: &Post{
				Text:      "Orphan",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			post: &Post{
				Text:     "Valid text",
				AuthorID: 1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{Text: "Test Post", AuthorID: 1}

	assert.True(t, post.CreatedAt.IsZero())
	post.BeforeCreate()
	assert.False(t, post.CreatedAt.IsZero())

	created := post.CreatedAt
	post.BeforeCreate()
	assert.Equal(t, created, post.CreatedAt, "BeforeCreate must not move an existing timestamp")
}

func TestPostOwnership(t *testing.T) {
	author := &User{ID: 7, Username: "nemo"}
	other := &User{ID: 8, Username: "anonym"}
	post := &Post{Text: "mine"}

	t.Run("set author", func(t *testing.T) {
		assert.NoError(t, post.SetAuthor(author))
		assert.Equal(t, 7, post.AuthorID)
		assert.True(t, post.IsAuthor(author))
		assert.False(t, post.IsAuthor(other))
		assert.False(t, post.IsAuthor(nil))
	})

	t.Run("set nil author", func(t *testing.T) {
		assert.Error(t, post.SetAuthor(nil))
	})
}

func TestPostGroup(t *testing.T) {
	post := &Post{Text: "grouped"}
	post.SetGroup(&Group{ID: 3, Title: "Cats", Slug: "cats"})
	assert.True(t, post.InGroup(3))
	assert.False(t, post.InGroup(4))

	post.SetGroup(nil)
	assert.Nil(t, post.GroupID)
	assert.False(t, post.InGroup(3))
}

func TestPostExcerpt(t *testing.T) {
	post := &Post{Text: "Привет, мир"}
	assert.Equal(t, "Привет", post.Excerpt(6))
	assert.Equal(t, "Привет, мир", post.Excerpt(100))
}

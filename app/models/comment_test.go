package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name:    "valid comment",
			comment: &Comment{PostID: 1, AuthorID: 2, Text: "Nice", CreatedAt: time.Now()},
			wantErr: false,
		},
		{
			name:    "empty text",
			comment: &Comment{PostID: 1, AuthorID: 2, Text: "", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "whitespace text",
			comment: &Comment{PostID: 1, AuthorID: 2, Text: "  \n\t", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "missing post",
			comment: &Comment{AuthorID: 2, Text: "Nice", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "zero creation time",
			comment: &Comment{PostID: 1, AuthorID: 2, Text: "Nice"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentSetPost(t *testing.T) {
	comment := &Comment{AuthorID: 1, Text: "Test Comment"}

	t.Run("set valid post", func(t *testing.T) {
		post := &Post{ID: 4, Text: "Test Post"}

		err := comment.SetPost(post)
		assert.NoError(t, err)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, post, comment.Post)
	})

	t.Run("set nil post", func(t *testing.T) {
		err := comment.SetPost(nil)
		assert.Error(t, err)
	})
}

func TestCommentSetAuthor(t *testing.T) {
	comment := &Comment{PostID: 4, Text: "Test Comment"}

	t.Run("set valid author", func(t *testing.T) {
		author := &User{ID: 7, Username: "leo"}

		err := comment.SetAuthor(author)
		assert.NoError(t, err)
		assert.Equal(t, 7, comment.AuthorID)
		assert.Same(t, author, comment.Author)
	})

	t.Run("set nil author", func(t *testing.T) {
		err := comment.SetAuthor(nil)
		assert.Error(t, err)
		assert.Equal(t, 7, comment.AuthorID)
	})
}

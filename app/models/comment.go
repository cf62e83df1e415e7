package models

import (
	"errors"
	"strings"
	"time"
)

// Validate checks a comment before it is stored. Whitespace-only text is
// treated as empty.
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return errors.New("comment text cannot be empty")
	}
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		return errors.New("comment has no creation time")
	}
	return nil
}

// BeforeCreate stamps the creation time
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}

// SetPost attaches the comment to post
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("comment needs a post")
	}
	c.Post = post
	c.PostID = post.ID
	return nil
}

// SetAuthor records who wrote the comment
func (c *Comment) SetAuthor(author *User) error {
	if author == nil {
		return errors.New("comment needs an author")
	}
	c.Author = author
	c.AuthorID = author.ID
	return nil
}

package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
}

// SetAuthor sets the owning author and updates the AuthorID
func (p *Post) SetAuthor(author *User) error {
	if author == nil {
		return errors.New("author cannot be nil")
	}

	p.Author = author
	p.AuthorID = author.ID
	return nil
}

// SetGroup attaches the post to group, or detaches it when group is nil
func (p *Post) SetGroup(group *Group) {
	p.Group = group
	if group == nil {
		p.GroupID = nil
		return
	}
	id := group.ID
	p.GroupID = &id
}

// InGroup reports whether the post belongs to the group with the given id
func (p *Post) InGroup(groupID int) bool {
	return p.GroupID != nil && *p.GroupID == groupID
}

// IsAuthor reports whether user owns the post
func (p *Post) IsAuthor(user *User) bool {
	return user != nil && p.AuthorID == user.ID
}

// Excerpt returns the first n runes of the text, used for titles and previews
func (p *Post) Excerpt(n int) string {
	runes := []rune(p.Text)
	if len(runes) <= n {
		return p.Text
	}
	return string(runes[:n])
}

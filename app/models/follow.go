package models

import (
	"errors"
	"time"
)

// ErrSelfFollow is returned when a user tries to follow themself.
var ErrSelfFollow = errors.New("users cannot follow themselves")

// NewFollow builds an edge from user to author
func NewFollow(userID, authorID int) (*Follow, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}
	return &Follow{
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}, nil
}

package services

import (
	"context"
	"fmt"

	"yatube/app/models"
	"yatube/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	store *repositories.Store
}

// NewCommentService creates a new CommentService
func NewCommentService(store *repositories.Store) *CommentService {
	return &CommentService{store: store}
}

// Add attaches a comment by actor to the post. The post must exist.
func (s *CommentService) Add(ctx context.Context, actor *models.User, postID int, form *models.CommentForm) (*models.Comment, error) {
	// Verify post exists
	post, err := s.store.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if fields := form.Validate(); fields != nil {
		return nil, invalid(fields)
	}

	comment := &models.Comment{Text: form.Text}
	if err := comment.SetAuthor(actor); err != nil {
		return nil, err
	}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	comment.BeforeCreate()

	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comment: %v", err)
	}

	if err := s.store.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List retrieves the comments of a post in insertion order, authors attached
func (s *CommentService) List(ctx context.Context, postID int) ([]*models.Comment, error) {
	comments, err := s.store.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	users := map[int]*models.User{}
	for _, comment := range comments {
		if comment.Author != nil {
			continue
		}
		author, ok := users[comment.AuthorID]
		if !ok {
			author, err = s.store.Users.GetByID(ctx, comment.AuthorID)
			if err != nil {
				return nil, fmt.Errorf("failed to get author of comment %d: %v", comment.ID, err)
			}
			users[comment.AuthorID] = author
		}
		comment.Author = author
	}
	return comments, nil
}

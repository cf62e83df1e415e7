package repositories

import (
	"context"

	"yatube/app/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id int) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
}

// PostRepository defines the interface for post data access. Every List
// method returns posts newest first.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*models.Post, error)
	ListByGroup(ctx context.Context, groupID int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID int) ([]*models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []int) ([]*models.Post, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID int) ([]*models.Comment, error)
	DeleteByPost(ctx context.Context, postID int) error
}

// FollowRepository defines the interface for follow edges
type FollowRepository interface {
	// GetOrCreate returns the existing edge or creates it atomically. The
	// boolean reports whether a new edge was written.
	GetOrCreate(ctx context.Context, userID, authorID int) (*models.Follow, bool, error)
	// Delete removes the edge if present. A missing edge is not an error.
	Delete(ctx context.Context, userID, authorID int) error
	Exists(ctx context.Context, userID, authorID int) (bool, error)
	ListAuthorIDs(ctx context.Context, userID int) ([]int, error)
}

// SessionRepository defines the interface for login sessions
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, tokenHash string) (*models.Session, error)
	Delete(ctx context.Context, tokenHash string) error
}

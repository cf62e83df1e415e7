// Package gormstore implements the repositories on PostgreSQL through GORM.
package gormstore

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"yatube/app/models"
	"yatube/app/repositories"
)

// Open connects to PostgreSQL, verifies the connection and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("Successfully connected to PostgreSQL!")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.Session{},
	)
	if err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")
	return nil
}

// NewStore builds every repository on db. Closing the store closes the pool.
func NewStore(db *gorm.DB) *repositories.Store {
	return repositories.NewStore(
		&UserRepository{db: db},
		&GroupRepository{db: db},
		&PostRepository{db: db},
		&CommentRepository{db: db},
		&FollowRepository{db: db},
		&SessionRepository{db: db},
		func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	)
}

// translate maps gorm sentinels onto the repository ones
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicate
	default:
		return err
	}
}

// UserRepository implements repositories.UserRepository for PostgreSQL
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()
	err := r.db.WithContext(ctx).Create(user).Error
	return errors.Wrapf(translate(err), "create user %q", user.Username)
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get user %d", id)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get user %q", username)
	}
	return &user, nil
}

// GroupRepository implements repositories.GroupRepository for PostgreSQL
type GroupRepository struct {
	db *gorm.DB
}

func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Create(group).Error
	return errors.Wrapf(translate(err), "create group %q", group.Slug)
}

func (r *GroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get group %d", id)
	}
	return &group, nil
}

func (r *GroupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get group %q", slug)
	}
	return &group, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	if err := r.db.WithContext(ctx).Order("id").Find(&groups).Error; err != nil {
		return nil, errors.Wrap(err, "list groups")
	}
	return groups, nil
}

// PostRepository implements repositories.PostRepository for PostgreSQL.
// Listings preload author and group, the equivalent of a select-related join.
type PostRepository struct {
	db *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
	return errors.Wrap(translate(err), "create post")
}

func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := r.listing(ctx).First(&post, id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get post %d", id)
	}
	return &post, nil
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update post %d", post.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(repositories.ErrNotFound, "update post %d", post.ID)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete post %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(repositories.ErrNotFound, "delete post %d", id)
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.find(r.listing(ctx))
}

func (r *PostRepository) ListByGroup(ctx context.Context, groupID int) ([]*models.Post, error) {
	return r.find(r.listing(ctx).Where("group_id = ?", groupID))
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int) ([]*models.Post, error) {
	return r.find(r.listing(ctx).Where("author_id = ?", authorID))
}

func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, nil
	}
	return r.find(r.listing(ctx).Where("author_id IN ?", authorIDs))
}

func (r *PostRepository) listing(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author").Preload("Group")
}

func (r *PostRepository) find(q *gorm.DB) ([]*models.Post, error) {
	posts := []*models.Post{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	return posts, nil
}

// CommentRepository implements repositories.CommentRepository for PostgreSQL
type CommentRepository struct {
	db *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.BeforeCreate()
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
	return errors.Wrap(translate(err), "create comment")
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).Order("id").Find(&comments).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list comments of post %d", postID)
	}
	return comments, nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID int) error {
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error
	return errors.Wrapf(err, "delete comments of post %d", postID)
}

// FollowRepository implements repositories.FollowRepository for PostgreSQL.
// The idx_follow_pair unique index backs the get-or-create.
type FollowRepository struct {
	db *gorm.DB
}

func (r *FollowRepository) GetOrCreate(ctx context.Context, userID, authorID int) (*models.Follow, bool, error) {
	follow, err := models.NewFollow(userID, authorID)
	if err != nil {
		return nil, false, err
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	if res.Error != nil {
		return nil, false, errors.Wrapf(res.Error, "follow %d -> %d", userID, authorID)
	}
	if res.RowsAffected == 1 {
		return follow, true, nil
	}

	var existing models.Follow
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		First(&existing).Error
	if err != nil {
		return nil, false, errors.Wrapf(translate(err), "follow %d -> %d", userID, authorID)
	}
	return &existing, false, nil
}

func (r *FollowRepository) Delete(ctx context.Context, userID, authorID int) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
	return errors.Wrapf(err, "unfollow %d -> %d", userID, authorID)
}

func (r *FollowRepository) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check follow")
	}
	return count > 0, nil
}

func (r *FollowRepository) ListAuthorIDs(ctx context.Context, userID int) ([]int, error) {
	ids := []int{}
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).Order("author_id").
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list follows of %d", userID)
	}
	return ids, nil
}

// SessionRepository implements repositories.SessionRepository for PostgreSQL
type SessionRepository struct {
	db *gorm.DB
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(session).Error, "create session")
}

func (r *SessionRepository) Get(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > now()", tokenHash).
		First(&session).Error
	if err != nil {
		return nil, errors.Wrap(translate(err), "get session")
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&models.Session{}).Error
	return errors.Wrap(err, "delete session")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"yatube/app/media"
	"yatube/app/models"
	"yatube/app/pagination"
	"yatube/app/repositories"
)

// PostPage is one page of a post listing.
type PostPage = pagination.Page[*models.Post]

// Profile is an author's page as seen by the actor.
type Profile struct {
	Author    *models.User
	Page      PostPage
	PostCount int
	Following bool
	IsSelf    bool
}

// PostService handles business logic for posts and their listings
type PostService struct {
	store   *repositories.Store
	media   *media.Storage
	perPage int
}

// NewPostService creates a new PostService
func NewPostService(store *repositories.Store, storage *media.Storage, perPage int) *PostService {
	if perPage < 1 {
		perPage = pagination.PostsPerPage
	}
	return &PostService{
		store:   store,
		media:   storage,
		perPage: perPage,
	}
}

// Index returns the requested page of every post, newest first
func (s *PostService) Index(ctx context.Context, pageParam string) (PostPage, error) {
	posts, err := s.store.Posts.List(ctx)
	if err != nil {
		return PostPage{}, err
	}
	return s.paginate(ctx, posts, pageParam)
}

// GroupPosts returns the group with the slug and a page of its posts
func (s *PostService) GroupPosts(ctx context.Context, slug, pageParam string) (*models.Group, PostPage, error) {
	group, err := s.store.Groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, PostPage{}, err
	}

	posts, err := s.store.Posts.ListByGroup(ctx, group.ID)
	if err != nil {
		return nil, PostPage{}, err
	}

	page, err := s.paginate(ctx, posts, pageParam)
	return group, page, err
}

// Profile returns the author's posts and whether actor follows them. actor
// may be nil.
func (s *PostService) Profile(ctx context.Context, actor *models.User, username, pageParam string) (*Profile, error) {
	author, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.store.Posts.ListByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	page, err := s.paginate(ctx, posts, pageParam)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		Author:    author,
		Page:      page,
		PostCount: len(posts),
	}
	if actor != nil {
		profile.IsSelf = actor.ID == author.ID
		profile.Following, err = s.store.Follows.Exists(ctx, actor.ID, author.ID)
		if err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// Feed returns posts by every author actor follows
func (s *PostService) Feed(ctx context.Context, actor *models.User, pageParam string) (PostPage, error) {
	authorIDs, err := s.store.Follows.ListAuthorIDs(ctx, actor.ID)
	if err != nil {
		return PostPage{}, err
	}

	posts, err := s.store.Posts.ListByAuthors(ctx, authorIDs)
	if err != nil {
		return PostPage{}, err
	}
	return s.paginate(ctx, posts, pageParam)
}

// Get retrieves a post by ID with its author and group attached
func (s *PostService) Get(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.store.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// Groups lists the groups a post can be published into
func (s *PostService) Groups(ctx context.Context) ([]*models.Group, error) {
	return s.store.Groups.List(ctx)
}

// Create publishes a new post owned by actor
func (s *PostService) Create(ctx context.Context, actor *models.User, form *models.PostForm) (*models.Post, error) {
	post := &models.Post{}
	if err := post.SetAuthor(actor); err != nil {
		return nil, err
	}

	saved, err := s.apply(ctx, post, form)
	if err != nil {
		return nil, err
	}
	post.BeforeCreate()

	if err := post.Validate(); err != nil {
		s.removeImage(saved)
		return nil, fmt.Errorf("invalid post: %v", err)
	}

	if err := s.store.Posts.Create(ctx, post); err != nil {
		s.removeImage(saved)
		return nil, err
	}
	log.Printf("Post %d created by %s", post.ID, actor.Username)
	return post, nil
}

// Edit changes text, group and image of a post owned by actor. Author and
// creation time are never touched.
func (s *PostService) Edit(ctx context.Context, actor *models.User, id int, form *models.PostForm) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Verify ownership
	if !post.IsAuthor(actor) {
		return post, ErrForbidden
	}

	previous := post.Image
	saved, err := s.apply(ctx, post, form)
	if err != nil {
		return post, err
	}

	if err := post.Validate(); err != nil {
		s.removeImage(saved)
		return post, fmt.Errorf("invalid post: %v", err)
	}

	if err := s.store.Posts.Update(ctx, post); err != nil {
		s.removeImage(saved)
		return post, err
	}

	// A replaced image is no longer referenced by anything
	if saved != "" && previous != saved {
		s.removeImage(previous)
	}
	return post, nil
}

// Delete removes a post together with its comments and image
func (s *PostService) Delete(ctx context.Context, id int) error {
	post, err := s.store.Posts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Delete all comments
	if err := s.store.Comments.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comments of post %d: %v", id, err)
	}

	// Delete the post
	if err := s.store.Posts.Delete(ctx, id); err != nil {
		return err
	}

	s.removeImage(post.Image)
	return nil
}

func (s *PostService) removeImage(rel string) {
	if s.media == nil || rel == "" {
		return
	}
	if err := s.media.Remove(rel); err != nil {
		log.Printf("Warning: could not remove %s: %v", rel, err)
	}
}

// apply validates form and copies it onto post, returning the path of a
// newly stored image. Field problems come back as a *ValidationError.
func (s *PostService) apply(ctx context.Context, post *models.Post, form *models.PostForm) (string, error) {
	fields := form.Validate()
	if fields == nil {
		fields = models.FieldErrors{}
	}

	var group *models.Group
	if form.Group != "" && fields["group"] == "" {
		id, _ := strconv.Atoi(form.Group)
		g, err := s.store.Groups.GetByID(ctx, id)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			fields.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		case err != nil:
			return "", err
		default:
			group = g
		}
	}

	var image string
	if form.Image != nil && len(form.Image.Data) > 0 && len(fields) == 0 {
		if s.media == nil {
			return "", errors.New("media storage is not configured")
		}
		rel, err := s.media.SavePostImage(form.Image.Filename, form.Image.Data)
		if errors.Is(err, media.ErrNotImage) {
			fields.Add("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		} else if err != nil {
			return "", err
		}
		image = rel
	}

	if len(fields) > 0 {
		return "", invalid(fields)
	}

	post.Text = form.Text
	post.SetGroup(group)
	if image != "" {
		post.Image = image
	}
	return image, nil
}

func (s *PostService) paginate(ctx context.Context, posts []*models.Post, pageParam string) (PostPage, error) {
	page := pagination.Paginate(posts, pageParam, s.perPage)
	if err := s.hydrate(ctx, page.Items); err != nil {
		return PostPage{}, err
	}
	return page, nil
}

// hydrate attaches Author and Group to posts whose store did not preload
// them. Lookups are shared across the batch.
func (s *PostService) hydrate(ctx context.Context, posts []*models.Post) error {
	users := map[int]*models.User{}
	groups := map[int]*models.Group{}

	for _, post := range posts {
		if post.Author == nil {
			author, ok := users[post.AuthorID]
			if !ok {
				var err error
				author, err = s.store.Users.GetByID(ctx, post.AuthorID)
				if err != nil {
					return fmt.Errorf("failed to get author of post %d: %v", post.ID, err)
				}
				users[post.AuthorID] = author
			}
			post.Author = author
		}

		if post.GroupID != nil && post.Group == nil {
			group, ok := groups[*post.GroupID]
			if !ok {
				var err error
				group, err = s.store.Groups.GetByID(ctx, *post.GroupID)
				if errors.Is(err, repositories.ErrNotFound) {
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to get group of post %d: %v", post.ID, err)
				}
				groups[*post.GroupID] = group
			}
			post.Group = group
		}
	}
	return nil
}

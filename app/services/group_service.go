package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"

	"yatube/app/models"
	"yatube/app/repositories"
)

// GroupService manages communities. Groups are created out of band.
type GroupService struct {
	store *repositories.Store
}

// NewGroupService creates a new GroupService
func NewGroupService(store *repositories.Store) *GroupService {
	return &GroupService{store: store}
}

// Create stores a new group. An empty slug is derived from the title.
func (s *GroupService) Create(ctx context.Context, title, groupSlug, description string) (*models.Group, error) {
	if groupSlug == "" {
		groupSlug = slug.Make(title)
	}
	group := &models.Group{
		Title:       title,
		Slug:        groupSlug,
		Description: description,
	}
	if err := group.Validate(); err != nil {
		return nil, fmt.Errorf("invalid group: %v", err)
	}

	err := s.store.Groups.Create(ctx, group)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, fmt.Errorf("group with slug %q already exists: %w", groupSlug, err)
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

// List returns every group
func (s *GroupService) List(ctx context.Context) ([]*models.Group, error) {
	return s.store.Groups.List(ctx)
}

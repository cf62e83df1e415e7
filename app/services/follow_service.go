package services

import (
	"context"
	"log"

	"yatube/app/models"
	"yatube/app/repositories"
)

// FollowService manages subscriptions between users
type FollowService struct {
	store *repositories.Store
}

// NewFollowService creates a new FollowService
func NewFollowService(store *repositories.Store) *FollowService {
	return &FollowService{store: store}
}

// Follow subscribes actor to the author with username. Following twice keeps
// a single edge; following yourself does nothing.
func (s *FollowService) Follow(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	author, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == actor.ID {
		return author, nil
	}

	_, created, err := s.store.Follows.GetOrCreate(ctx, actor.ID, author.ID)
	if err != nil {
		return nil, err
	}
	if created {
		log.Printf("%s now follows %s", actor.Username, author.Username)
	}
	return author, nil
}

// Unfollow removes the subscription if there is one
func (s *FollowService) Unfollow(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	author, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.store.Follows.Delete(ctx, actor.ID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

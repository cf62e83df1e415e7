package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"yatube/app/models"
	"yatube/app/services"
)

// FollowController handles subscribing to authors
type FollowController struct {
	followService *services.FollowService
	render        *Renderer
}

// NewFollowController creates a new FollowController
func NewFollowController(follows *services.FollowService, render *Renderer) *FollowController {
	return &FollowController{
		followService: follows,
		render:        render,
	}
}

// Follow subscribes the actor and returns to the author's profile
func (fc *FollowController) Follow(w http.ResponseWriter, r *http.Request, actor *models.User) {
	author, err := fc.followService.Follow(r.Context(), actor, mux.Vars(r)["username"])
	if err != nil {
		fc.render.handleError(w, r, actor, err)
		return
	}
	redirectTo(w, r, profileURL(author.Username))
}

// Unfollow drops the subscription and returns to the author's profile
func (fc *FollowController) Unfollow(w http.ResponseWriter, r *http.Request, actor *models.User) {
	author, err := fc.followService.Unfollow(r.Context(), actor, mux.Vars(r)["username"])
	if err != nil {
		fc.render.handleError(w, r, actor, err)
		return
	}
	redirectTo(w, r, profileURL(author.Username))
}

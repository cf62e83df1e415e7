package controllers

import (
	"log"
	"net/http"

	"yatube/app/cache"
	"yatube/app/models"
)

// AdminController exposes staff-only maintenance actions
type AdminController struct {
	cache  cache.Store
	render *Renderer
}

// NewAdminController creates a new AdminController
func NewAdminController(pages cache.Store, render *Renderer) *AdminController {
	return &AdminController{cache: pages, render: render}
}

// ClearCache drops every cached page
func (ac *AdminController) ClearCache(w http.ResponseWriter, r *http.Request, actor *models.User) {
	if !actor.IsStaff {
		ac.render.Forbidden(w, r, actor)
		return
	}
	if err := ac.cache.Clear(r.Context()); err != nil {
		ac.render.handleError(w, r, actor, err)
		return
	}
	log.Printf("Page cache cleared by %s", actor.Username)
	afterPost(w, r, "/")
}

package controllers

import (
	"net/http"

	"yatube/app/models"
	"yatube/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
	render         *Renderer
}

// NewCommentController creates a new CommentController
func NewCommentController(comments *services.CommentService, render *Renderer) *CommentController {
	return &CommentController{
		commentService: comments,
		render:         render,
	}
}

// Add stores a comment and always returns to the post. Empty comments are
// dropped without feedback.
func (cc *CommentController) Add(w http.ResponseWriter, r *http.Request, actor *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		cc.render.handleError(w, r, actor, err)
		return
	}

	form := &models.CommentForm{Text: r.PostFormValue("text")}
	_, err = cc.commentService.Add(r.Context(), actor, id, form)
	if err != nil && services.FieldErrorsOf(err) == nil {
		cc.render.handleError(w, r, actor, err)
		return
	}
	afterPost(w, r, postURL(id))
}

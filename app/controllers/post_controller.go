package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"yatube/app/cache"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/services"
)

// MaxUploadSize bounds the multipart body of the post form
const MaxUploadSize = 10 << 20

// PostController handles HTTP requests for posts and listings
type PostController struct {
	postService    *services.PostService
	commentService *services.CommentService
	render         *Renderer
	cache          cache.Store
	indexTTL       time.Duration
}

// NewPostController creates a new PostController. The index page is cached
// in pages for indexTTL.
func NewPostController(posts *services.PostService, comments *services.CommentService, render *Renderer, pages cache.Store, indexTTL time.Duration) *PostController {
	return &PostController{
		postService:    posts,
		commentService: comments,
		render:         render,
		cache:          pages,
		indexTTL:       indexTTL,
	}
}

// Index renders the newest posts. The whole page is cached under one key,
// whatever the query string or visitor, until the TTL runs out.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request, actor *models.User) {
	ctx := r.Context()
	body, err := cache.Remember(ctx, pc.cache, cache.IndexPageKey, pc.indexTTL, func() ([]byte, error) {
		page, err := pc.postService.Index(ctx, r.URL.Query().Get("page"))
		if err != nil {
			return nil, err
		}
		return pc.render.Bytes("posts/index.html", viewData{"Page": page})
	})
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// GroupPosts renders the posts of one group
func (pc *PostController) GroupPosts(w http.ResponseWriter, r *http.Request, actor *models.User) {
	group, page, err := pc.postService.GroupPosts(r.Context(), mux.Vars(r)["slug"], r.URL.Query().Get("page"))
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}
	pc.render.Render(w, r, http.StatusOK, "posts/group_list.html", actor, viewData{
		"Group": group,
		"Page":  page,
	})
}

// Profile renders an author's posts
func (pc *PostController) Profile(w http.ResponseWriter, r *http.Request, actor *models.User) {
	profile, err := pc.postService.Profile(r.Context(), actor, mux.Vars(r)["username"], r.URL.Query().Get("page"))
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}
	pc.render.Render(w, r, http.StatusOK, "posts/profile.html", actor, viewData{
		"Profile": profile,
	})
}

// Detail shows a post with its comments. A POST adds a comment and
// re-renders the page with errors when the text is empty.
func (pc *PostController) Detail(w http.ResponseWriter, r *http.Request, actor *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}

	form := &models.CommentForm{}
	var fields models.FieldErrors

	if r.Method == http.MethodPost {
		if actor == nil {
			redirectTo(w, r, middleware.LoginRedirect(r.URL.Path))
			return
		}
		form.Text = r.PostFormValue("text")
		_, err := pc.commentService.Add(r.Context(), actor, id, form)
		if err == nil {
			afterPost(w, r, postURL(id))
			return
		}
		if fields = services.FieldErrorsOf(err); fields == nil {
			pc.render.handleError(w, r, actor, err)
			return
		}
	}

	post, err := pc.postService.Get(r.Context(), id)
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}
	comments, err := pc.commentService.List(r.Context(), id)
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}

	pc.render.Render(w, r, http.StatusOK, "posts/post_detail.html", actor, viewData{
		"Post":     post,
		"Comments": comments,
		"Form":     form,
		"Errors":   fields,
	})
}

// Create shows and handles the new post form
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request, actor *models.User) {
	form := &models.PostForm{}

	if r.Method == http.MethodPost {
		if err := readPostForm(r, form); err != nil {
			http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		_, err := pc.postService.Create(r.Context(), actor, form)
		if err == nil {
			afterPost(w, r, profileURL(actor.Username))
			return
		}
		fields := services.FieldErrorsOf(err)
		if fields == nil {
			pc.render.handleError(w, r, actor, err)
			return
		}
		pc.renderForm(w, r, actor, form, fields, nil)
		return
	}

	pc.renderForm(w, r, actor, form, nil, nil)
}

// Edit shows and handles the edit form. Only the author may edit; anyone
// else is sent back to the post.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request, actor *models.User) {
	id, err := pathID(r, "id")
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}

	post, err := pc.postService.Get(r.Context(), id)
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}
	if !post.IsAuthor(actor) {
		redirectTo(w, r, postURL(id))
		return
	}

	form := &models.PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = fmt.Sprint(*post.GroupID)
	}

	if r.Method == http.MethodPost {
		form = &models.PostForm{}
		if err := readPostForm(r, form); err != nil {
			http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		_, err := pc.postService.Edit(r.Context(), actor, id, form)
		switch {
		case err == nil:
			afterPost(w, r, postURL(id))
			return
		case errors.Is(err, services.ErrForbidden):
			redirectTo(w, r, postURL(id))
			return
		}
		fields := services.FieldErrorsOf(err)
		if fields == nil {
			pc.render.handleError(w, r, actor, err)
			return
		}
		pc.renderForm(w, r, actor, form, fields, post)
		return
	}

	pc.renderForm(w, r, actor, form, nil, post)
}

// Feed renders posts by the authors the actor follows
func (pc *PostController) Feed(w http.ResponseWriter, r *http.Request, actor *models.User) {
	page, err := pc.postService.Feed(r.Context(), actor, r.URL.Query().Get("page"))
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}
	pc.render.Render(w, r, http.StatusOK, "posts/follow.html", actor, viewData{
		"Page": page,
	})
}

func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, actor *models.User, form *models.PostForm, fields models.FieldErrors, post *models.Post) {
	groups, err := pc.postService.Groups(r.Context())
	if err != nil {
		pc.render.handleError(w, r, actor, err)
		return
	}
	pc.render.Render(w, r, http.StatusOK, "posts/create_post.html", actor, viewData{
		"Form":   form,
		"Groups": groups,
		"Errors": fields,
		"IsEdit": post != nil,
		"Post":   post,
	})
}

// readPostForm fills form from a multipart or urlencoded body
func readPostForm(r *http.Request, form *models.PostForm) error {
	err := r.ParseMultipartForm(MaxUploadSize)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}

	form.Text = r.FormValue("text")
	form.Group = r.FormValue("group")

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize))
	if err != nil {
		return err
	}
	if len(data) > 0 {
		form.Image = &models.Upload{Filename: header.Filename, Data: data}
	}
	return nil
}

package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/services"
	"yatube/app/views"
)

// viewData is the context handed to a template
type viewData map[string]interface{}

// Renderer executes the embedded page templates through the layout.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page template
func NewRenderer() (*Renderer, error) {
	templates, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %v", err)
	}
	return &Renderer{templates: templates}, nil
}

// Bytes renders page into memory. The actor is taken from data["Actor"].
func (rd *Renderer) Bytes(page string, data viewData) ([]byte, error) {
	t, ok := rd.templates[page]
	if !ok {
		return nil, fmt.Errorf("unknown template %s", page)
	}
	if data == nil {
		data = viewData{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = models.FieldErrors{}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("template %s: %v", page, err)
	}
	return buf.Bytes(), nil
}

// Render writes page with status. Nothing is written if execution fails.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, actor *models.User, data viewData) {
	if data == nil {
		data = viewData{}
	}
	data["Actor"] = actor

	body, err := rd.Bytes(page, data)
	if err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, body)
}

// NotFound renders the 404 page
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request, actor *models.User) {
	rd.Render(w, r, http.StatusNotFound, "core/404.html", actor, viewData{"Path": r.URL.Path})
}

// Forbidden renders the 403 page
func (rd *Renderer) Forbidden(w http.ResponseWriter, r *http.Request, actor *models.User) {
	rd.Render(w, r, http.StatusForbidden, "core/403.html", actor, nil)
}

// NotFoundHandler serves unmatched routes.
func (rd *Renderer) NotFoundHandler(w http.ResponseWriter, r *http.Request, actor *models.User) {
	rd.NotFound(w, r, actor)
}

// handleError maps service and store failures onto a response
func (rd *Renderer) handleError(w http.ResponseWriter, r *http.Request, actor *models.User, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		rd.NotFound(w, r, actor)
	case errors.Is(err, services.ErrForbidden):
		rd.Forbidden(w, r, actor)
	default:
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		rd.Render(w, r, http.StatusInternalServerError, "core/500.html", actor, nil)
	}
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// pathID reads a numeric route variable. The routes only match digits, so a
// failure means the id overflowed and cannot exist.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, repositories.ErrNotFound
	}
	return id, nil
}

func redirectTo(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}

func afterPost(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func postURL(id int) string {
	return "/posts/" + strconv.Itoa(id) + "/"
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

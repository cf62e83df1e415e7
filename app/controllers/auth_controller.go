package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/services"
)

// AuthController handles signup, login and logout
type AuthController struct {
	authService  *services.AuthService
	render       *Renderer
	secureCookie bool
}

// NewAuthController creates a new AuthController. secureCookie marks the
// session cookie Secure, for deployments behind TLS.
func NewAuthController(auth *services.AuthService, render *Renderer, secureCookie bool) *AuthController {
	return &AuthController{
		authService:  auth,
		render:       render,
		secureCookie: secureCookie,
	}
}

// Signup shows and handles the registration form
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request, actor *models.User) {
	form := &models.SignupForm{}

	if r.Method == http.MethodPost {
		form.FirstName = r.PostFormValue("first_name")
		form.LastName = r.PostFormValue("last_name")
		form.Username = r.PostFormValue("username")
		form.Password = r.PostFormValue("password1")
		form.Password2 = r.PostFormValue("password2")

		user, err := ac.authService.Signup(r.Context(), form)
		if err == nil {
			if err := ac.startSession(w, r, user); err != nil {
				ac.render.handleError(w, r, actor, err)
				return
			}
			afterPost(w, r, "/")
			return
		}
		fields := services.FieldErrorsOf(err)
		if fields == nil {
			ac.render.handleError(w, r, actor, err)
			return
		}
		ac.render.Render(w, r, http.StatusOK, "auth/signup.html", actor, viewData{"Form": form, "Errors": fields})
		return
	}

	ac.render.Render(w, r, http.StatusOK, "auth/signup.html", actor, viewData{"Form": form})
}

// Login shows and handles the login form. After success the visitor goes to
// next when it is a local path, otherwise to the index.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request, actor *models.User) {
	form := &models.LoginForm{}
	next := r.FormValue("next")

	if r.Method == http.MethodPost {
		form.Username = r.PostFormValue("username")
		form.Password = r.PostFormValue("password")

		user, err := ac.authService.Authenticate(r.Context(), form)
		if err == nil {
			if err := ac.startSession(w, r, user); err != nil {
				ac.render.handleError(w, r, actor, err)
				return
			}
			afterPost(w, r, SafeNext(next))
			return
		}
		fields := services.FieldErrorsOf(err)
		if fields == nil {
			ac.render.handleError(w, r, actor, err)
			return
		}
		ac.render.Render(w, r, http.StatusOK, "auth/login.html", actor, viewData{"Form": form, "Errors": fields, "Next": next})
		return
	}

	ac.render.Render(w, r, http.StatusOK, "auth/login.html", actor, viewData{"Form": form, "Next": next})
}

// Logout ends the session and clears the cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request, actor *models.User) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := ac.authService.Logout(r.Context(), cookie.Value); err != nil {
			ac.render.handleError(w, r, actor, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ac.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	redirectTo(w, r, "/")
}

func (ac *AuthController) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	token, expires, err := ac.authService.StartSession(r.Context(), user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   ac.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SafeNext returns next when it is a path on this site, otherwise "/".
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

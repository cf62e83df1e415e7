package middleware

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"yatube/app/models"
)

// SessionCookie is the name of the cookie holding the session token.
const SessionCookie = "sessionid"

// LoginURL is where anonymous visitors of gated pages are sent.
const LoginURL = "/auth/login/"

type contextKey int

const actorKey contextKey = iota

// statusRecorder remembers the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// Logger logs information about each request
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		// Log request details
		log.Printf("%s %s %d took %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// Recoverer recovers from panics and logs the error
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// SessionResolver maps a session token to its user. A nil user means the
// token is unknown or expired.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Session resolves the request's actor once and stores it in the context.
// Lookup failures are logged and the request continues anonymously.
func Session(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := resolver.CurrentUser(r.Context(), cookie.Value)
			if err != nil {
				log.Printf("session lookup failed: %v", err)
			}
			if actor != nil {
				r = r.WithContext(context.WithValue(r.Context(), actorKey, actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Actor returns the authenticated user of the request, or nil.
func Actor(r *http.Request) *models.User {
	actor, _ := r.Context().Value(actorKey).(*models.User)
	return actor
}

// ActorHandlerFunc is a handler that receives the request's actor explicitly.
type ActorHandlerFunc func(w http.ResponseWriter, r *http.Request, actor *models.User)

// WithActor adapts h for routes open to anonymous visitors; actor may be nil.
func WithActor(h ActorHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r, Actor(r))
	})
}

// RequireLogin adapts h for gated routes. Anonymous visitors are redirected
// to the login page with the current path as next.
func RequireLogin(h ActorHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := Actor(r)
		if actor == nil {
			http.Redirect(w, r, LoginRedirect(r.URL.Path), http.StatusFound)
			return
		}
		h(w, r, actor)
	})
}

// LoginRedirect builds the login URL that returns to path afterwards.
func LoginRedirect(path string) string {
	return LoginURL + "?" + url.Values{"next": {path}}.Encode()
}

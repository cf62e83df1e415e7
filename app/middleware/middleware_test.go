package middleware

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"yatube/app/models"
)

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestLogger(t *testing.T) {
	buf := captureLog(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)

	logOutput := buf.String()
	assert.Contains(t, logOutput, "GET")
	assert.Contains(t, logOutput, "/test")
	assert.Contains(t, logOutput, "418")
	assert.Contains(t, logOutput, "took")
}

func TestRecoverer(t *testing.T) {
	captureLog(t)

	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusInternalServerError, rw.Code)
	assert.Contains(t, rw.Body.String(), "Internal Server Error")
}

type fakeResolver struct {
	users map[string]*models.User
	err   error
}

func (f *fakeResolver) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	return f.users[token], f.err
}

func actorEcho() http.Handler {
	return WithActor(func(w http.ResponseWriter, r *http.Request, actor *models.User) {
		if actor == nil {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(actor.Username))
	})
}

func TestSession(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*models.User{"good": {ID: 1, Username: "leo"}}}
	handler := Session(resolver)(actorEcho())

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", "anonymous"},
		{"unknown token", "bad", "anonymous"},
		{"valid token", "good", "leo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			rw := httptest.NewRecorder()
			handler.ServeHTTP(rw, req)
			assert.Equal(t, tt.want, rw.Body.String())
		})
	}
}

func TestSessionLookupError(t *testing.T) {
	captureLog(t)
	handler := Session(&fakeResolver{err: errors.New("store down")})(actorEcho())

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "anonymous", rw.Body.String())
}

func TestRequireLogin(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*models.User{"good": {ID: 1, Username: "leo"}}}
	handler := Session(resolver)(RequireLogin(func(w http.ResponseWriter, r *http.Request, actor *models.User) {
		w.Write([]byte("hello " + actor.Username))
	}))

	req := httptest.NewRequest("GET", "/create/", nil)
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, req)
	assert.Equal(t, http.StatusFound, rw.Code)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", rw.Header().Get("Location"))

	req = httptest.NewRequest("GET", "/create/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	rw = httptest.NewRecorder()
	handler.ServeHTTP(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "hello leo", rw.Body.String())
}

package routes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"yatube/app/cache"
	"yatube/app/config"
	"yatube/app/media"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/services"
)

type testApp struct {
	router *mux.Router
	store  *repositories.Store
	cache  *cache.MemoryStore
	media  *media.Storage
	auth   *services.AuthService
}

func setupTestDB(t *testing.T) *repositories.Store {
	db, err := repositories.OpenBadger("")
	require.NoError(t, err)
	store := repositories.NewBadgerStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func setupTestApp(t *testing.T) *testApp {
	store := setupTestDB(t)

	pages, err := cache.NewMemoryStore(1 << 20)
	require.NoError(t, err)
	t.Cleanup(pages.Close)

	cfg := &config.Config{
		Env:          "test",
		IndexTTL:     20 * time.Second,
		SessionTTL:   time.Hour,
		PostsPerPage: 10,
		StaticRoot:   t.TempDir(),
	}
	storage := media.NewStorage(t.TempDir())

	router, err := SetupRoutes(Dependencies{
		Store:  store,
		Cache:  pages,
		Media:  storage,
		Config: cfg,
	})
	require.NoError(t, err)

	return &testApp{
		router: router,
		store:  store,
		cache:  pages,
		media:  storage,
		auth:   services.NewAuthService(store, time.Hour),
	}
}

// user creates an account and returns it with a logged-in session cookie.
func (a *testApp) user(t *testing.T, username string) (*models.User, *http.Cookie) {
	ctx := context.Background()
	user, err := a.auth.CreateUser(ctx, username, "correct-horse", false)
	require.NoError(t, err)
	token, _, err := a.auth.StartSession(ctx, user)
	require.NoError(t, err)
	return user, &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func (a *testApp) group(t *testing.T, slug string) *models.Group {
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, a.store.Groups.Create(context.Background(), group))
	return group
}

// posts stores n posts one second apart, oldest first.
func (a *testApp) posts(t *testing.T, author *models.User, group *models.Group, n int) []*models.Post {
	base := time.Now().Add(-time.Hour)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := &models.Post{
			Text:      fmt.Sprintf("%s wrote post number %d", author.Username, i),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		post.SetGroup(group)
		require.NoError(t, a.store.Posts.Create(context.Background(), post))
		posts = append(posts, post)
	}
	return posts
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	return a.serve(req, cookie)
}

func (a *testApp) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.serve(req, cookie)
}

func (a *testApp) postMultipart(t *testing.T, path string, fields map[string]string, filename string, data []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(data))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return a.serve(req, cookie)
}

func (a *testApp) serve(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rw := httptest.NewRecorder()
	a.router.ServeHTTP(rw, req)
	return rw
}

// countPosts counts the post cards on a listing page.
func countPosts(body string) int {
	return strings.Count(body, `<article class="post" id=`)
}

var tinyGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44,
	0x01, 0x00, 0x3B,
}

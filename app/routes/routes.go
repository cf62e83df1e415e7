package routes

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"yatube/app/cache"
	"yatube/app/config"
	"yatube/app/controllers"
	"yatube/app/media"
	"yatube/app/middleware"
	"yatube/app/repositories"
	"yatube/app/services"
)

// Dependencies are the long-lived resources the router is built on.
type Dependencies struct {
	Store  *repositories.Store
	Cache  cache.Store
	Media  *media.Storage
	Config *config.Config
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) (*mux.Router, error) {
	cfg := deps.Config

	render, err := controllers.NewRenderer()
	if err != nil {
		return nil, err
	}

	postService := services.NewPostService(deps.Store, deps.Media, cfg.PostsPerPage)
	commentService := services.NewCommentService(deps.Store)
	followService := services.NewFollowService(deps.Store)
	authService := services.NewAuthService(deps.Store, cfg.SessionTTL)

	postController := controllers.NewPostController(postService, commentService, render, deps.Cache, cfg.IndexTTL)
	commentController := controllers.NewCommentController(commentService, render)
	followController := controllers.NewFollowController(followService, render)
	authController := controllers.NewAuthController(authService, render, cfg.IsProduction())
	adminController := controllers.NewAdminController(deps.Cache, render)

	router := mux.NewRouter().StrictSlash(true)

	// Apply global middleware
	session := middleware.Session(authService)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(session)

	// Serve static and uploaded files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticRoot))))
	router.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(deps.Media.Root))))

	// Listings
	router.Handle("/", middleware.WithActor(postController.Index)).Methods("GET")
	router.Handle("/group/{slug}/", middleware.WithActor(postController.GroupPosts)).Methods("GET")
	router.Handle("/profile/{username}/", middleware.WithActor(postController.Profile)).Methods("GET")
	router.Handle("/follow/", middleware.RequireLogin(postController.Feed)).Methods("GET")

	// Posts
	router.Handle("/create/", middleware.RequireLogin(postController.Create)).Methods("GET", "POST")
	router.Handle("/posts/{id:[0-9]+}/", middleware.WithActor(postController.Detail)).Methods("GET")
	router.Handle("/posts/{id:[0-9]+}/", middleware.RequireLogin(postController.Detail)).Methods("POST")
	router.Handle("/posts/{id:[0-9]+}/edit/", middleware.RequireLogin(postController.Edit)).Methods("GET", "POST")
	router.Handle("/posts/{id:[0-9]+}/comment/", middleware.RequireLogin(commentController.Add)).Methods("GET", "POST")

	// Follows
	router.Handle("/profile/{username}/follow/", middleware.RequireLogin(followController.Follow)).Methods("GET")
	router.Handle("/profile/{username}/unfollow/", middleware.RequireLogin(followController.Unfollow)).Methods("GET")

	// Authentication
	router.Handle("/auth/signup/", middleware.WithActor(authController.Signup)).Methods("GET", "POST")
	router.Handle("/auth/login/", middleware.WithActor(authController.Login)).Methods("GET", "POST")
	router.Handle("/auth/logout/", middleware.WithActor(authController.Logout)).Methods("GET", "POST")

	// Administration
	router.Handle("/admin/cache/clear/", middleware.RequireLogin(adminController.ClearCache)).Methods("POST")

	// Router middleware only runs on matched routes
	router.NotFoundHandler = middleware.Logger(session(middleware.WithActor(render.NotFoundHandler)))

	return router, nil
}

// StartServer serves router on addr until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

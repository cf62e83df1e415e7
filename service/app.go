package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"yatube/app/cache"
	"yatube/app/config"
	"yatube/app/media"
	"yatube/app/repositories"
	"yatube/app/repositories/gormstore"
	"yatube/app/routes"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunAppServer(loadConfig())
		},
	}
}

// RunAppServer serves the application until interrupted.
func RunAppServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pages, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	router, err := routes.SetupRoutes(routes.Dependencies{
		Store:  store,
		Cache:  pages,
		Media:  media.NewStorage(cfg.MediaRoot),
		Config: cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to setup routes: %v", err)
	}

	log.Printf("Starting yatube on port %s (%s store, %s cache)", cfg.Port, cfg.StoreBackend, cfg.CacheBackend)
	return routes.StartServer(ctx, ":"+cfg.Port, router)
}

// openStore opens the configured entity store
func openStore(cfg *config.Config) (*repositories.Store, error) {
	switch cfg.StoreBackend {
	case "badger":
		if err := os.MkdirAll(cfg.BadgerPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
		db, err := repositories.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return repositories.NewBadgerStore(db), nil
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("POSTGRES_URL is required for the postgres store")
		}
		db, err := gormstore.Open(cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
		}
		return gormstore.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// openCache opens the configured page cache. The returned func releases it.
func openCache(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case "memory":
		store, err := cache.NewMemoryStore(64 << 20)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "redis":
		store, err := cache.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}
}

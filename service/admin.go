package service

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"yatube/app/cache"
	"yatube/app/media"
	"yatube/app/repositories"
	"yatube/app/services"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.CacheBackend != "redis" {
				fmt.Fprintln(cmd.OutOrStdout(), "The memory cache lives inside the server process; use POST /admin/cache/clear/ instead")
				return nil
			}
			pages, err := cache.NewRedisStore(cmd.Context(), cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer pages.Close()
			if err := pages.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear cache: %v", err)
			}
			printSuccess(cmd.OutOrStdout(), "Page cache cleared")
			return nil
		},
	})
	return cmd
}

func newGroupCmd() *cobra.Command {
	var title, slug, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a community group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *repositories.Store) error {
				group, err := services.NewGroupService(store).Create(cmd.Context(), title, slug, description)
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Group %q created at /group/%s/", group.Title, group.Slug)
				return nil
			})
		},
	}
	create.Flags().StringVar(&title, "title", "", "Group title")
	create.Flags().StringVar(&slug, "slug", "", "URL slug, derived from the title when empty")
	create.Flags().StringVar(&description, "description", "", "Group description")
	create.MarkFlagRequired("title")
	create.MarkFlagRequired("description")

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}
	cmd.AddCommand(create)
	return cmd
}

func newUserCmd() *cobra.Command {
	var username, password string
	var staff bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			return withStore(func(store *repositories.Store) error {
				auth := services.NewAuthService(store, cfg.SessionTTL)
				user, err := auth.CreateUser(cmd.Context(), username, password, staff)
				if err != nil {
					return err
				}
				role := "user"
				if user.IsStaff {
					role = "staff user"
				}
				printSuccess(cmd.OutOrStdout(), "Created %s %s (id %d)", role, user.Username, user.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&username, "username", "", "Login name")
	create.Flags().StringVar(&password, "password", "", "Password")
	create.Flags().BoolVar(&staff, "staff", false, "Grant staff rights")
	create.MarkFlagRequired("username")
	create.MarkFlagRequired("password")

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(create)
	return cmd
}

func newPostCmd() *cobra.Command {
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post with its comments and image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			cfg := loadConfig()
			return withStore(func(store *repositories.Store) error {
				posts := services.NewPostService(store, media.NewStorage(cfg.MediaRoot), cfg.PostsPerPage)
				if err := posts.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Post %d deleted", id)
				return nil
			})
		},
	}

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage posts",
	}
	cmd.AddCommand(del)
	return cmd
}

// withStore opens the configured store for the duration of fn
func withStore(fn func(store *repositories.Store) error) error {
	store, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

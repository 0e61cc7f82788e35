package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// openApplication connects to the database and builds the application.
// Callers must call cleanup on the result.
func (c *cli) openApplication(ctx context.Context) (*application, error) {
	db, err := setupAppDatabase(ctx, c.config.Database, c.logger)
	if err != nil {
		return nil, err
	}
	app, err := newApplication(c.config, c.logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openApplication(cmd.Context())
			if err != nil {
				return err
			}
			defer app.cleanup()

			return app.startHTTPServer(cmd.Context(), app.setupRouter())
		},
	}
}

func newUserCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var loginName, name, password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openApplication(cmd.Context())
			if err != nil {
				return err
			}
			defer app.cleanup()

			user, err := app.userService.CreateUser(cmd.Context(), loginName, name, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", user.ID, user.LoginName)
			return err
		},
	}
	add.Flags().StringVar(&loginName, "login", "", "login name")
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().StringVar(&password, "password", "", "password")
	_ = add.MarkFlagRequired("login")
	_ = add.MarkFlagRequired("password")

	cmd.AddCommand(add)
	return cmd
}

func newThreadCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Manage task threads",
	}

	var (
		userID int64
		title  string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a thread for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openApplication(cmd.Context())
			if err != nil {
				return err
			}
			defer app.cleanup()

			if _, err := app.userStore.GetByID(cmd.Context(), userID); err != nil {
				return fmt.Errorf("failed to find user %d: %w", userID, err)
			}

			thread, err := app.threadService.CreateThread(cmd.Context(), userID, title)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created thread %d (%s)\n", thread.ID, thread.Title)
			return err
		},
	}
	add.Flags().Int64Var(&userID, "user-id", 0, "owning user ID")
	add.Flags().StringVar(&title, "title", "", "thread title")
	_ = add.MarkFlagRequired("user-id")
	_ = add.MarkFlagRequired("title")

	cmd.AddCommand(add)
	return cmd
}

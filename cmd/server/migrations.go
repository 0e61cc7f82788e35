package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(postgres.MigrationCommands, "|") + "]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			log := c.logger.With("correlation_id", uuid.NewString(), "component", "migrations")

			db, err := setupAppDatabase(cmd.Context(), c.config.Database, log)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					log.Error("error closing database connection", "error", cerr)
				}
			}()

			if err := postgres.Migrate(cmd.Context(), db, command, log); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			log.Info("migrations completed", "command", command)
			return nil
		},
	}
}

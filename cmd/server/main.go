// Package main implements the taskboard binary: the web server plus the
// migration and account administration commands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/spf13/cobra"
)

// cli holds state shared by every subcommand once the root pre-run has
// loaded configuration.
type cli struct {
	configDir string
	envFile   string

	config *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:          "taskboard",
		Short:        "Task board web application",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
	}

	cmd.PersistentFlags().StringVar(&c.configDir, "config-dir", "", "directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	cmd.AddCommand(
		newServeCmd(c),
		newMigrateCmd(c),
		newUserCmd(c),
		newThreadCmd(c),
	)
	return cmd
}

// load reads the .env file, configuration and logger.
func (c *cli) load() error {
	if err := config.LoadDotEnv(c.envFile); err != nil {
		return err
	}

	var (
		cfg *config.Config
		err error
	)
	if c.configDir != "" {
		cfg, err = config.LoadFrom(c.configDir)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Debug("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"secure_cookie", cfg.Auth.SecureCookie)

	c.config = cfg
	c.logger = l
	return nil
}

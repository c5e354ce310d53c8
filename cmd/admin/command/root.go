package command

// root.go wires the shared config, logger and database for every admin subcommand.

import (
	"fmt"
	"log/slog"
	"os"

	"bookhub/database"
	"bookhub/internal/config"
	"bookhub/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app holds what PersistentPreRunE prepared for the running subcommand.
type app struct {
	cfg *config.Config
	log *slog.Logger
	db  *gorm.DB
}

var current app

var rootCmd = &cobra.Command{
	Use:   "bookhub-admin",
	Short: "bookhub-admin - operator tooling for the bookhub API",
	Long: `bookhub-admin runs maintenance against the bookhub database:
seed the default categories, import books from Google Books, normalize stored
cover paths, prune stale sessions, or run those jobs on a cron schedule.

It reads the same environment (and .env file) as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel, cfg.LogFormat)

		db, err := database.ConnectDB(cfg, log)
		if err != nil {
			return err
		}
		current = app{cfg: cfg, log: log, db: db}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current.db == nil {
			return nil
		}
		return database.Close(current.db)
	},
}

// Execute runs the root command; main calls it once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(seedCmd, importCmd, coversCmd, tokensCmd, scheduleCmd)
}

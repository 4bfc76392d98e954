// Package cmd holds the command-line entry points of the invoicing service.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/satheeshds/invoicing/config"
	"github.com/satheeshds/invoicing/db"
	"github.com/satheeshds/invoicing/invoicing"
	"github.com/satheeshds/invoicing/lock"
	"github.com/satheeshds/invoicing/store"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "invoicing",
	Short: "Invoicing service for small businesses",
	Long: `invoicing manages billing companies, customers, products and invoices.

Run "invoicing serve" to start the HTTP API and web UI. Settings are read from
the environment and an optional .env file in the working directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		setupLogging(cfg)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, importCmd, exportCmd)
}

func setupLogging(c *config.Config) {
	level := slog.LevelInfo
	if c.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// openDatabase opens and migrates the configured database.
func openDatabase() (*sql.DB, error) {
	database, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(database, cfg.DBDriver); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return database, nil
}

// newStore wires the repository with the configured locker and numbering strategy.
func newStore(ctx context.Context, database *sql.DB) (*store.Store, error) {
	numbering, err := invoicing.NewNumbering(cfg.InvoiceNumbering)
	if err != nil {
		return nil, err
	}
	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		if locker, err = lock.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
			return nil, err
		}
	}
	return store.New(database,
		store.WithLocker(locker),
		store.WithNumbering(numbering),
		store.WithLogger(slog.Default()),
	), nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AmanMalviya08/Bill-app-backend/internal/database"
)

var (
	dbPath  string
	backup  bool
	verbose bool
	logger  = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the billing database schema",
	Long: `migrate applies, rolls back and inspects the embedded SQLite schema migrations.

The database file and its directory are created when missing.`,
	Example: `  # Apply every pending migration
  migrate up --db ./data/billing.db

  # Roll back the last migration, keeping a copy of the file first
  migrate down --backup`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(cmd.Context(), func(m *database.MigrationManager) error {
			return m.Up()
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(cmd.Context(), func(m *database.MigrationManager) error {
			return m.Down()
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(cmd.Context(), func(m *database.MigrationManager) error {
			status, err := m.Status()
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Migration Status:\n")
			fmt.Fprintf(out, "  Version: %d\n", status.Version)
			fmt.Fprintf(out, "  Applied: %t\n", status.Applied)
			fmt.Fprintf(out, "  Dirty: %t\n", status.Dirty)
			fmt.Fprintf(out, "  Timestamp: %s\n", status.Timestamp.Format("2006-01-02 15:04:05"))
			return nil
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that every expected table exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(cmd.Context(), func(m *database.MigrationManager) error {
			if err := m.ValidateSchema(cmd.Context()); err != nil {
				return fmt.Errorf("schema validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema validation passed successfully")
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/billing.db", "Database file path")
	rootCmd.PersistentFlags().BoolVar(&backup, "backup", false, "Copy the database file before changing the schema")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd, validateCmd)
}

// withMigrations opens the database without auto-migration and runs fn
func withMigrations(ctx context.Context, fn func(*database.MigrationManager) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cm := database.NewConnectionManager(&database.ConnectionConfig{
		Path:                dbPath,
		MaxOpenConns:        1,
		MaxIdleConns:        1,
		ConnMaxLifetime:     time.Hour,
		BusyTimeout:         5000,
		BackupBeforeMigrate: backup,
		Logger:              logger,
	})
	if err := cm.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer cm.Close()

	logger.WithField("db_path", cm.Path()).Debug("Starting migration tool")
	return fn(cm.Migrations())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("Migration command failed")
		os.Exit(1)
	}
}

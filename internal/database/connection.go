package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// ConnectionConfig holds database connection configuration
type ConnectionConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// BusyTimeout is the SQLite busy timeout in milliseconds
	BusyTimeout int
	AutoMigrate bool
	// BackupBeforeMigrate copies the database file before applying migrations
	BackupBeforeMigrate bool
	Logger              *logrus.Logger
}

// DefaultConnectionConfig returns a default configuration
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Path:            "./data/billing.db",
		MaxOpenConns:    1, // SQLite serializes writers
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5000,
		AutoMigrate:     true,
		Logger:          logrus.New(),
	}
}

// BuildDSN builds a go-sqlite3 DSN with foreign keys and WAL enabled
func BuildDSN(path string, busyTimeout int) string {
	options := []string{"_foreign_keys=on", "_journal_mode=WAL"}
	if busyTimeout > 0 {
		options = append(options, fmt.Sprintf("_busy_timeout=%d", busyTimeout))
	}
	return fmt.Sprintf("%s?%s", path, strings.Join(options, "&"))
}

// ConnectionManager owns the process-wide database handle
type ConnectionManager struct {
	config *ConnectionConfig
	path   string
	db     *sql.DB
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(config *ConnectionConfig) *ConnectionManager {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &ConnectionManager{config: config}
}

// Connect opens the database, configures the pool and applies migrations when enabled
func (cm *ConnectionManager) Connect(ctx context.Context) error {
	if cm.db != nil {
		return fmt.Errorf("database connection already established")
	}

	path, err := filepath.Abs(cm.config.Path)
	if err != nil {
		return fmt.Errorf("failed to get absolute database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", BuildDSN(path, cm.config.BusyTimeout))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cm.config.MaxOpenConns)
	db.SetMaxIdleConns(cm.config.MaxIdleConns)
	db.SetConnMaxLifetime(cm.config.ConnMaxLifetime)

	cm.db = db
	cm.path = path

	if cm.config.AutoMigrate {
		if err := cm.Migrations().Up(); err != nil {
			cm.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	cm.config.Logger.WithField("db_path", path).Info("Database connection established")
	return nil
}

// DB returns the database handle, nil before Connect
func (cm *ConnectionManager) DB() *sql.DB {
	return cm.db
}

// Path returns the absolute database path once connected
func (cm *ConnectionManager) Path() string {
	return cm.path
}

// Close closes the database connection
func (cm *ConnectionManager) Close() error {
	if cm.db == nil {
		return nil
	}

	err := cm.db.Close()
	cm.db = nil
	if err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	cm.config.Logger.Info("Database connection closed")
	return nil
}

// Migrations returns a migration manager for this connection
func (cm *ConnectionManager) Migrations() *MigrationManager {
	return NewMigrationManager(cm.db, cm.path, cm.config.Logger).WithBackup(cm.config.BackupBeforeMigrate)
}

// HealthCheck pings the database, runs a trivial query and checks foreign key enforcement
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if cm.db == nil {
		return fmt.Errorf("database connection not established")
	}
	return HealthCheck(ctx, cm.db)
}

// HealthCheck verifies a SQLite handle is usable
func HealthCheck(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("test query returned unexpected result: %d", result)
	}

	var fkEnabled int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("failed to check foreign key status: %w", err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("foreign keys are not enabled")
	}
	return nil
}

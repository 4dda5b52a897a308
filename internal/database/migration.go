package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ExpectedTables lists the tables the current schema must contain
var ExpectedTables = []string{
	"companies",
	"branches",
	"categories",
	"subcategories",
	"clients",
	"invoices",
	"invoice_items",
}

// MigrationManager applies the embedded schema migrations to a SQLite database
type MigrationManager struct {
	db     *sql.DB
	dbPath string
	backup bool
	logger *logrus.Logger
}

// NewMigrationManager creates a migration manager. db is used for schema
// inspection; migrations run over a dedicated handle opened on dbPath, since
// the migrate driver closes the handle it is given.
func NewMigrationManager(db *sql.DB, dbPath string, logger *logrus.Logger) *MigrationManager {
	return &MigrationManager{
		db:     db,
		dbPath: dbPath,
		logger: logger,
	}
}

// WithBackup makes Up and Down copy the database file before touching it
func (m *MigrationManager) WithBackup(enabled bool) *MigrationManager {
	m.backup = enabled
	return m
}

// MigrationInfo contains information about the applied schema version
type MigrationInfo struct {
	Version   uint      `json:"version"`
	Dirty     bool      `json:"dirty"`
	Applied   bool      `json:"applied"`
	Timestamp time.Time `json:"timestamp"`
}

// Up applies every pending migration
func (m *MigrationManager) Up() error {
	m.logger.Info("Starting database migrations")
	m.backupIfEnabled("migration")

	mg, err := m.initMigrate()
	if err != nil {
		return err
	}
	defer m.closeMigrate(mg)

	current, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		m.logger.WithField("version", current).Warn("Database is in dirty state, forcing version")
		if err := mg.Force(int(current)); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"previous_version": current,
		"version":          version,
	}).Info("Migrations completed")
	return nil
}

// Down rolls back the most recent migration
func (m *MigrationManager) Down() error {
	m.logger.Info("Rolling back last migration")
	m.backupIfEnabled("rollback")

	mg, err := m.initMigrate()
	if err != nil {
		return err
	}
	defer m.closeMigrate(mg)

	current, _, err := mg.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("no migrations to roll back")
		}
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if err := mg.Steps(-1); err != nil {
		return fmt.Errorf("failed to roll back migration %d: %w", current, err)
	}

	m.logger.WithField("from_version", current).Info("Rollback completed")
	return nil
}

// Status reports the applied schema version
func (m *MigrationManager) Status() (*MigrationInfo, error) {
	mg, err := m.initMigrate()
	if err != nil {
		return nil, err
	}
	defer m.closeMigrate(mg)

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationInfo{
		Version:   version,
		Dirty:     dirty,
		Applied:   err == nil,
		Timestamp: time.Now(),
	}, nil
}

// ValidateSchema checks that every expected table exists and foreign keys are enforced
func (m *MigrationManager) ValidateSchema(ctx context.Context) error {
	m.logger.Debug("Validating database schema")

	for _, table := range ExpectedTables {
		var count int
		query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
		if err := m.db.QueryRowContext(ctx, query, table).Scan(&count); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if count == 0 {
			return fmt.Errorf("expected table %s not found", table)
		}
	}

	var fkEnabled int
	if err := m.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("failed to check foreign key status: %w", err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("foreign keys are not enabled")
	}

	m.logger.Info("Schema validation completed")
	return nil
}

func (m *MigrationManager) initMigrate() (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	conn, err := sql.Open("sqlite3", BuildDSN(m.dbPath, 0))
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}

	driver, err := sqlite3.WithInstance(conn, &sqlite3.Config{})
	if err != nil {
		source.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		source.Close()
		driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mg, nil
}

func (m *MigrationManager) closeMigrate(mg *migrate.Migrate) {
	srcErr, dbErr := mg.Close()
	if srcErr != nil || dbErr != nil {
		m.logger.WithFields(logrus.Fields{
			"source_error":   srcErr,
			"database_error": dbErr,
		}).Warn("Failed to close migrate instance")
	}
}

func (m *MigrationManager) backupIfEnabled(reason string) {
	if !m.backup {
		return
	}
	if _, err := m.createBackup(); err != nil {
		m.logger.WithError(err).WithField("reason", reason).Warn("Failed to create database backup")
	}
}

// createBackup copies the database file next to itself and returns the copy's path
func (m *MigrationManager) createBackup() (string, error) {
	if m.dbPath == "" || m.dbPath == ":memory:" {
		return "", nil
	}
	if _, err := os.Stat(m.dbPath); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	backupPath := fmt.Sprintf("%s.backup_%s", m.dbPath, time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := copyFile(m.dbPath, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	m.logger.WithField("backup_path", backupPath).Info("Database backup created")
	return backupPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/adapters/storage"
	"github.com/AmanMalviya08/Bill-app-backend/internal/database"
)

const (
	defaultDatabasePath = "./data/billing.db"
	defaultStoragePath  = "./data/reports"
)

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// BusyTimeout is in milliseconds
	BusyTimeout   int  `mapstructure:"busy_timeout"`
	AutoMigrate   bool `mapstructure:"auto_migrate"`
	BackupEnabled bool `mapstructure:"backup_enabled"`
}

// Validate validates the database configuration
func (c *DatabaseConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.MaxOpenConns < 1 {
		return fmt.Errorf("max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		return fmt.Errorf("max idle connections must be at least 1")
	}
	if c.ConnMaxLifetime < time.Minute {
		return fmt.Errorf("connection max lifetime must be at least 1 minute")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busy timeout cannot be negative")
	}
	return nil
}

// ToConnectionConfig converts DatabaseConfig to database.ConnectionConfig
func (c *DatabaseConfig) ToConnectionConfig(logger *logrus.Logger) *database.ConnectionConfig {
	return &database.ConnectionConfig{
		Path:                c.Path,
		MaxOpenConns:        c.MaxOpenConns,
		MaxIdleConns:        c.MaxIdleConns,
		ConnMaxLifetime:     c.ConnMaxLifetime,
		BusyTimeout:         c.BusyTimeout,
		AutoMigrate:         c.AutoMigrate,
		BackupBeforeMigrate: c.BackupEnabled,
		Logger:              logger,
	}
}

// ToStorageConfig converts StorageConfig to the storage factory input
func (c *StorageConfig) ToStorageConfig() storage.Config {
	return storage.Config{
		Type:     c.Type,
		BasePath: c.LocalPath,
		Bucket:   c.Bucket,
		Region:   c.Region,
		Prefix:   c.Prefix,
	}
}

package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	Database    DatabaseConfig
	Storage     StorageConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Reports     ReportConfig
	// CORSOrigins lists allowed origins; "*" allows any
	CORSOrigins []string
}

// StorageConfig selects where archived reports are written
type StorageConfig struct {
	Type      string // "local", "memory", "s3", "gcs" or "none"
	LocalPath string
	Bucket    string
	Region    string
	Prefix    string
}

// AuthConfig holds JWT configuration. Authentication is only enforced when Enabled.
type AuthConfig struct {
	Enabled     bool
	Secret      string
	ExpiryHours int
}

// RateLimitConfig configures the per-client token bucket. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// ReportConfig sizes the ranked report sections
type ReportConfig struct {
	TopSubcategories int
	TopClients       int
	TopSpenders      int
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Environment: strings.ToLower(v.GetString("ENVIRONMENT")),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Database: DatabaseConfig{
			Path:            v.GetString("DB_PATH"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			BusyTimeout:     v.GetInt("DB_BUSY_TIMEOUT"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			BackupEnabled:   v.GetBool("DB_BACKUP_ENABLED"),
		},
		Storage: StorageConfig{
			Type:      strings.ToLower(v.GetString("STORAGE_TYPE")),
			LocalPath: v.GetString("STORAGE_LOCAL_PATH"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
		},
		Auth: AuthConfig{
			Enabled:     v.GetBool("AUTH_ENABLED"),
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Reports: ReportConfig{
			TopSubcategories: v.GetInt("REPORT_TOP_SUBCATEGORIES"),
			TopClients:       v.GetInt("REPORT_TOP_CLIENTS"),
			TopSpenders:      v.GetInt("REPORT_TOP_SPENDERS"),
		},
		CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", EnvDevelopment)
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PATH", defaultDatabasePath)
	v.SetDefault("DB_MAX_OPEN_CONNS", 1)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DB_BUSY_TIMEOUT", 5000)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_BACKUP_ENABLED", false)
	v.SetDefault("STORAGE_TYPE", "local")
	v.SetDefault("STORAGE_LOCAL_PATH", defaultStoragePath)
	v.SetDefault("STORAGE_PREFIX", "reports")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("REPORT_TOP_SUBCATEGORIES", 5)
	v.SetDefault("REPORT_TOP_CLIENTS", 10)
	v.SetDefault("REPORT_TOP_SPENDERS", 5)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown environment %q", c.Environment))
	}
	if c.Port == "" {
		result = multierror.Append(result, fmt.Errorf("port cannot be empty"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if err := c.Database.Validate(); err != nil {
		result = multierror.Append(result, err)
	}

	switch c.Storage.Type {
	case "local", "memory", "none", "":
	case "s3", "gcs":
		if c.Storage.Bucket == "" {
			result = multierror.Append(result, fmt.Errorf("storage type %s requires STORAGE_BUCKET", c.Storage.Type))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unsupported storage type %q", c.Storage.Type))
	}

	if c.Auth.Enabled {
		if len(c.Auth.Secret) < 16 {
			result = multierror.Append(result, fmt.Errorf("JWT_SECRET must be at least 16 characters when auth is enabled"))
		}
		if c.Auth.ExpiryHours < 1 {
			result = multierror.Append(result, fmt.Errorf("JWT_EXPIRY_HOURS must be positive"))
		}
	}

	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		result = multierror.Append(result, fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled"))
	}
	if c.Reports.TopSubcategories < 1 || c.Reports.TopClients < 1 || c.Reports.TopSpenders < 1 {
		result = multierror.Append(result, fmt.Errorf("report section sizes must be positive"))
	}

	return result.ErrorOrNil()
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// NewLogger builds the process logger: JSON in production, text otherwise
func NewLogger(cfg *Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

package config

import (
	"os"
	"path/filepath"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
	// EFSMountPath is where a shared filesystem is mounted, if any
	EFSMountPath string
}

// GetServerlessConfig reads the serverless environment
func GetServerlessConfig() *ServerlessConfig {
	return &ServerlessConfig{
		IsLambda:     os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        getEnv("STAGE", "dev"),
		EFSMountPath: os.Getenv("EFS_MOUNT_PATH"),
	}
}

// IsServerlessMode returns true if running in AWS Lambda
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless rewrites paths for the Lambda filesystem, where only /tmp
// and mounted volumes are writable. The database moves to EFS when mounted and to
// /tmp otherwise; local report storage moves to /tmp unless a bucket is configured.
func AdaptConfigForServerless(cfg *Config) *Config {
	sc := GetServerlessConfig()
	if !sc.IsLambda {
		return cfg
	}

	if cfg.Database.Path == defaultDatabasePath || !filepath.IsAbs(cfg.Database.Path) {
		base := "/tmp"
		if sc.EFSMountPath != "" {
			base = sc.EFSMountPath
		}
		cfg.Database.Path = filepath.Join(base, filepath.Base(cfg.Database.Path))
	}
	// No pre-migration backups inside Lambda
	cfg.Database.BackupEnabled = false

	if cfg.Storage.Type == "local" {
		switch {
		case cfg.Storage.Bucket != "":
			cfg.Storage.Type = "s3"
			if cfg.Storage.Region == "" {
				cfg.Storage.Region = sc.Region
			}
		case !filepath.IsAbs(cfg.Storage.LocalPath):
			cfg.Storage.LocalPath = filepath.Join("/tmp", filepath.Base(cfg.Storage.LocalPath))
		}
	}

	return cfg
}

// GetOptimizedConfig loads configuration and applies serverless adaptations
func GetOptimizedConfig() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	return AdaptConfigForServerless(cfg), nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

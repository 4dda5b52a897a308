package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// StorageType represents the type of storage implementation
type StorageType string

const (
	StorageTypeLocal  StorageType = "local"
	StorageTypeMemory StorageType = "memory"
	StorageTypeS3     StorageType = "s3"
	StorageTypeGCS    StorageType = "gcs"
	StorageTypeNone   StorageType = "none"
)

const defaultBasePath = "./data/reports"

// Factory creates FileStorage instances based on configuration
type Factory struct {
	retryConfig *RetryConfig
	logger      *logrus.Logger
}

// NewFactory creates a new storage factory. A nil retry config disables the retry wrapper.
func NewFactory(retryConfig *RetryConfig, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Factory{retryConfig: retryConfig, logger: logger}
}

// Create builds the backend named by config.Type. Type "none" (or empty) returns a
// nil FileStorage and no error, which leaves report archiving disabled.
func (f *Factory) Create(ctx context.Context, config Config) (FileStorage, error) {
	storageType := StorageType(strings.ToLower(strings.TrimSpace(config.Type)))

	var (
		storage FileStorage
		err     error
	)
	switch storageType {
	case StorageTypeNone, "":
		return nil, nil
	case StorageTypeLocal:
		basePath := config.BasePath
		if basePath == "" {
			basePath = defaultBasePath
		}
		storage, err = NewLocalFileStorage(basePath)
	case StorageTypeMemory:
		storage = NewMemoryFileStorage()
	case StorageTypeS3:
		storage, err = NewS3FileStorage(config)
	case StorageTypeGCS:
		storage, err = NewGCSFileStorage(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s storage: %w", storageType, err)
	}

	f.logger.WithFields(logrus.Fields{
		"type":   storageType,
		"bucket": config.Bucket,
		"path":   config.BasePath,
	}).Info("report archive storage ready")

	if f.retryConfig != nil {
		storage = NewRetryableFileStorage(storage, f.retryConfig, f.logger)
	}
	return storage, nil
}

// CreateFromConfig creates storage with the default retry policy
func CreateFromConfig(ctx context.Context, config Config, logger *logrus.Logger) (FileStorage, error) {
	return NewFactory(DefaultRetryConfig(), logger).Create(ctx, config)
}

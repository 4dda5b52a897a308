package storage

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig configures retry behavior for storage operations
type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" mapstructure:"max_attempts"`
	InitialDelay  time.Duration `json:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay      time.Duration `json:"max_delay" mapstructure:"max_delay"`
	BackoffFactor float64       `json:"backoff_factor" mapstructure:"backoff_factor"`
	JitterEnabled bool          `json:"jitter_enabled" mapstructure:"jitter_enabled"`
}

// DefaultRetryConfig returns the retry policy used for report archives
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func(ctx context.Context) error

// WithRetry runs op until it succeeds, fails with a non-retryable error, or runs out
// of attempts. The context is checked before every attempt and while waiting.
func WithRetry(ctx context.Context, config *RetryConfig, op RetryableOperation) error {
	if config == nil {
		config = DefaultRetryConfig()
	}
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == attempts || !IsRetryable(err) {
			break
		}

		timer := time.NewTimer(config.calculateDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// calculateDelay returns InitialDelay * BackoffFactor^(attempt-1), capped at MaxDelay,
// plus up to 10% jitter
func (c *RetryConfig) calculateDelay(attempt int) time.Duration {
	delay := float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt-1))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	if c.JitterEnabled {
		delay += rand.Float64() * 0.1 * delay
	}
	return time.Duration(delay)
}

// RetryableFileStorage wraps a FileStorage with retries on transient failures
type RetryableFileStorage struct {
	storage FileStorage
	config  *RetryConfig
	logger  *logrus.Logger
}

// NewRetryableFileStorage creates a new RetryableFileStorage
func NewRetryableFileStorage(storage FileStorage, config *RetryConfig, logger *logrus.Logger) *RetryableFileStorage {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RetryableFileStorage{storage: storage, config: config, logger: logger}
}

func (r *RetryableFileStorage) do(ctx context.Context, op, key string, fn RetryableOperation) error {
	attempt := 0
	return WithRetry(ctx, r.config, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && IsRetryable(err) && attempt < r.config.MaxAttempts {
			r.logger.WithFields(logrus.Fields{
				"operation": op,
				"key":       key,
				"attempt":   attempt,
			}).WithError(err).Warn("storage operation failed, retrying")
		}
		return err
	})
}

// Store implements FileStorage.Store with retry logic
func (r *RetryableFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	return r.do(ctx, "store", key, func(ctx context.Context) error {
		return r.storage.Store(ctx, key, data, opts)
	})
}

// Retrieve implements FileStorage.Retrieve with retry logic
func (r *RetryableFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	var result []byte
	err := r.do(ctx, "retrieve", key, func(ctx context.Context) error {
		data, err := r.storage.Retrieve(ctx, key)
		result = data
		return err
	})
	return result, err
}

// Delete implements FileStorage.Delete with retry logic
func (r *RetryableFileStorage) Delete(ctx context.Context, key string) error {
	return r.do(ctx, "delete", key, func(ctx context.Context) error {
		return r.storage.Delete(ctx, key)
	})
}

// Exists implements FileStorage.Exists with retry logic
func (r *RetryableFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	var result bool
	err := r.do(ctx, "exists", key, func(ctx context.Context) error {
		exists, err := r.storage.Exists(ctx, key)
		result = exists
		return err
	})
	return result, err
}

// List implements FileStorage.List with retry logic
func (r *RetryableFileStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	var result []FileMetadata
	err := r.do(ctx, "list", prefix, func(ctx context.Context) error {
		files, err := r.storage.List(ctx, prefix)
		result = files
		return err
	})
	return result, err
}

// Close implements FileStorage.Close
func (r *RetryableFileStorage) Close() error {
	return r.storage.Close()
}

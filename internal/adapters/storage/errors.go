package storage

import (
	"errors"
	"fmt"
)

// Archive backends translate their native failures into these sentinels so the
// report service can tell a missing snapshot (404) from an unreachable bucket (502).
var (
	ErrFileNotFound       = errors.New("archived object not found")
	ErrFileAlreadyExists  = errors.New("archive key already taken")
	ErrInvalidKey         = errors.New("invalid archive key")
	ErrStorageUnavailable = errors.New("report archive unavailable")
	ErrTimeout            = errors.New("report archive timed out")
)

// StorageError wraps a backend failure with the operation and object key.
// Retryable marks failures that RetryableFileStorage should repeat.
type StorageError struct {
	Op        string
	Key       string
	Err       error
	Retryable bool
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return "archive " + e.Op + ": " + e.Err.Error()
	}
	return fmt.Sprintf("archive %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op, key string, err error, retryable bool) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err, Retryable: retryable}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrFileNotFound) }

// IsAlreadyExists is reported for writes made with NoOverwrite
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrFileAlreadyExists) }

// IsRetryable trusts the Retryable flag of a StorageError. Bare sentinels count as
// transient when they describe an outage or a timeout.
func IsRetryable(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrTimeout)
}

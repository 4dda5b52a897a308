package storage

import (
	"context"
	"time"
)

// FileMetadata describes a stored object
type FileMetadata struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// StoreOptions controls how an object is written
type StoreOptions struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	// NoOverwrite fails the write with ErrFileAlreadyExists when the key is taken
	NoOverwrite bool `json:"no_overwrite,omitempty"`
}

// FileStorage stores generated documents such as archived reports.
// Keys are slash separated relative paths.
type FileStorage interface {
	// Store writes data under key
	Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error

	// Retrieve reads the object at key; missing objects yield ErrFileNotFound
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object at key
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored at key
	Exists(ctx context.Context, key string) (bool, error)

	// List returns the objects whose key starts with prefix, ordered by key
	List(ctx context.Context, prefix string) ([]FileMetadata, error)

	// Close releases any client held by the implementation
	Close() error
}

// Config selects and configures a storage backend
type Config struct {
	Type     string `json:"type" mapstructure:"type"`
	BasePath string `json:"base_path" mapstructure:"base_path"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
	Region   string `json:"region" mapstructure:"region"`
	// Prefix is prepended to every key in bucket backends
	Prefix string `json:"prefix" mapstructure:"prefix"`
}

package storage

import (
	"context"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFileStorage keeps objects in process memory. It backs the "memory" storage
// type used by short-lived Lambda containers and tests.
type MemoryFileStorage struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	now   func() time.Time
}

type memoryFile struct {
	data         []byte
	metadata     map[string]string
	contentType  string
	lastModified time.Time
}

// NewMemoryFileStorage creates an empty MemoryFileStorage
func NewMemoryFileStorage() *MemoryFileStorage {
	return &MemoryFileStorage{
		files: make(map[string]*memoryFile),
		now:   time.Now,
	}
}

// Store implements FileStorage.Store
func (m *MemoryFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if opts == nil {
		opts = &StoreOptions{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[key]; exists && opts.NoOverwrite {
		return NewStorageError("Store", key, ErrFileAlreadyExists, false)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(key))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var metadata map[string]string
	if len(opts.Metadata) > 0 {
		metadata = make(map[string]string, len(opts.Metadata))
		for k, v := range opts.Metadata {
			metadata[k] = v
		}
	}

	m.files[key] = &memoryFile{
		data:         append([]byte(nil), data...),
		metadata:     metadata,
		contentType:  contentType,
		lastModified: m.now().UTC(),
	}
	return nil
}

// Retrieve implements FileStorage.Retrieve
func (m *MemoryFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err, false)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[key]
	if !ok {
		return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
	}
	return append([]byte(nil), file.data...), nil
}

// Delete implements FileStorage.Delete
func (m *MemoryFileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Delete", key, err, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[key]; !ok {
		return NewStorageError("Delete", key, ErrFileNotFound, false)
	}
	delete(m.files, key)
	return nil
}

// Exists implements FileStorage.Exists
func (m *MemoryFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err, false)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[key]
	return ok, nil
}

// List implements FileStorage.List
func (m *MemoryFileStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := []FileMetadata{}
	for key, file := range m.files {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		files = append(files, FileMetadata{
			Key:          key,
			Size:         int64(len(file.data)),
			ContentType:  file.contentType,
			LastModified: file.lastModified,
			Metadata:     file.metadata,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// Close implements FileStorage.Close
func (m *MemoryFileStorage) Close() error {
	return nil
}

// Len returns the number of stored objects
func (m *MemoryFileStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

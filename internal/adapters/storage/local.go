package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const sidecarSuffix = ".meta.json"

// LocalFileStorage stores objects as files below a base directory. Content type and
// metadata live in a JSON sidecar next to each file.
type LocalFileStorage struct {
	basePath string
}

type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewLocalFileStorage creates the base directory if needed
func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, NewStorageError("Open", "", err, false)
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewStorageError("Open", "", err, false)
	}
	return &LocalFileStorage{basePath: absPath}, nil
}

// BasePath returns the absolute storage root
func (l *LocalFileStorage) BasePath() string {
	return l.basePath
}

// Store implements FileStorage.Store. Writes go through a temp file and rename.
func (l *LocalFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if err := ctx.Err(); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if opts == nil {
		opts = &StoreOptions{}
	}

	filePath := l.filePath(key)
	if opts.NoOverwrite {
		if _, err := os.Stat(filePath); err == nil {
			return NewStorageError("Store", key, ErrFileAlreadyExists, false)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return NewStorageError("Store", key, err, true)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".upload-*")
	if err != nil {
		return NewStorageError("Store", key, err, true)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return NewStorageError("Store", key, err, true)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return NewStorageError("Store", key, err, true)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return NewStorageError("Store", key, err, true)
	}

	meta := sidecar{ContentType: opts.ContentType, Metadata: opts.Metadata}
	if meta.ContentType == "" && len(meta.Metadata) == 0 {
		os.Remove(filePath + sidecarSuffix)
		return nil
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if err := os.WriteFile(filePath+sidecarSuffix, encoded, 0o644); err != nil {
		return NewStorageError("Store", key, err, true)
	}
	return nil
}

// Retrieve implements FileStorage.Retrieve
func (l *LocalFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err, false)
	}

	data, err := os.ReadFile(l.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageError("Retrieve", key, ErrFileNotFound, false)
		}
		return nil, NewStorageError("Retrieve", key, err, true)
	}
	return data, nil
}

// Delete implements FileStorage.Delete
func (l *LocalFileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Delete", key, err, false)
	}

	filePath := l.filePath(key)
	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStorageError("Delete", key, ErrFileNotFound, false)
		}
		return NewStorageError("Delete", key, err, true)
	}
	os.Remove(filePath + sidecarSuffix)
	return nil
}

// Exists implements FileStorage.Exists
func (l *LocalFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err, false)
	}

	info, err := os.Stat(l.filePath(key))
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, NewStorageError("Exists", key, err, true)
	}
}

// List implements FileStorage.List
func (l *LocalFileStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	files := []FileMetadata{}
	err := filepath.WalkDir(l.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, sidecarSuffix) || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}

		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		entry := FileMetadata{
			Key:          key,
			Size:         info.Size(),
			ContentType:  mime.TypeByExtension(path.Ext(key)),
			LastModified: info.ModTime().UTC(),
		}
		if meta, ok := l.readSidecar(key); ok {
			if meta.ContentType != "" {
				entry.ContentType = meta.ContentType
			}
			entry.Metadata = meta.Metadata
		}
		if entry.ContentType == "" {
			entry.ContentType = "application/octet-stream"
		}
		files = append(files, entry)
		return nil
	})
	if err != nil {
		return nil, NewStorageError("List", prefix, err, true)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// Close implements FileStorage.Close
func (l *LocalFileStorage) Close() error {
	return nil
}

func (l *LocalFileStorage) filePath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}

func (l *LocalFileStorage) readSidecar(key string) (sidecar, bool) {
	data, err := os.ReadFile(l.filePath(key) + sidecarSuffix)
	if err != nil {
		return sidecar{}, false
	}
	var meta sidecar
	if err := json.Unmarshal(data, &meta); err != nil {
		return sidecar{}, false
	}
	return meta, true
}

// validateKey rejects empty, absolute and parent-relative keys
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	if strings.HasSuffix(key, sidecarSuffix) {
		return ErrInvalidKey
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// GCSFileStorage stores objects in a Google Cloud Storage bucket
type GCSFileStorage struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
	prefix string
}

// NewGCSFileStorage opens a client with application default credentials
func NewGCSFileStorage(ctx context.Context, cfg Config) (*GCSFileStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs storage requires a bucket")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, NewStorageError("Open", "", err, false)
	}
	return &GCSFileStorage{
		client: client,
		bucket: client.Bucket(cfg.Bucket),
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Store implements FileStorage.Store
func (g *GCSFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if opts == nil {
		opts = &StoreOptions{}
	}

	obj := g.bucket.Object(g.objectKey(key))
	if opts.NoOverwrite {
		obj = obj.If(gcs.Conditions{DoesNotExist: true})
	}

	w := obj.NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.Metadata = opts.Metadata
	if _, err := w.Write(data); err != nil {
		w.Close()
		return g.wrap("Store", key, err)
	}
	if err := w.Close(); err != nil {
		return g.wrap("Store", key, err)
	}
	return nil
}

// Retrieve implements FileStorage.Retrieve
func (g *GCSFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err, false)
	}

	r, err := g.bucket.Object(g.objectKey(key)).NewReader(ctx)
	if err != nil {
		return nil, g.wrap("Retrieve", key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewStorageError("Retrieve", key, err, true)
	}
	return data, nil
}

// Delete implements FileStorage.Delete
func (g *GCSFileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Delete", key, err, false)
	}
	if err := g.bucket.Object(g.objectKey(key)).Delete(ctx); err != nil {
		return g.wrap("Delete", key, err)
	}
	return nil
}

// Exists implements FileStorage.Exists
func (g *GCSFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err, false)
	}

	_, err := g.bucket.Object(g.objectKey(key)).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, nil
		}
		return false, g.wrap("Exists", key, err)
	}
	return true, nil
}

// List implements FileStorage.List
func (g *GCSFileStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	files := []FileMetadata{}
	it := g.bucket.Objects(ctx, &gcs.Query{Prefix: g.objectKey(prefix)})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, g.wrap("List", prefix, err)
		}
		files = append(files, FileMetadata{
			Key:          g.storageKey(attrs.Name),
			Size:         attrs.Size,
			ContentType:  attrs.ContentType,
			LastModified: attrs.Updated.UTC(),
			Metadata:     attrs.Metadata,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// Close implements FileStorage.Close
func (g *GCSFileStorage) Close() error {
	return g.client.Close()
}

func (g *GCSFileStorage) objectKey(key string) string {
	if g.prefix == "" {
		return key
	}
	return g.prefix + "/" + key
}

func (g *GCSFileStorage) storageKey(name string) string {
	if g.prefix == "" {
		return name
	}
	return strings.TrimPrefix(name, g.prefix+"/")
}

func (g *GCSFileStorage) wrap(op, key string, err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return NewStorageError(op, key, ErrFileNotFound, false)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusPreconditionFailed:
			return NewStorageError(op, key, ErrFileAlreadyExists, false)
		case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= 500:
			return NewStorageError(op, key, fmt.Errorf("%w: %v", ErrStorageUnavailable, err), true)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewStorageError(op, key, fmt.Errorf("%w: %v", ErrTimeout, err), false)
	}
	return NewStorageError(op, key, err, false)
}

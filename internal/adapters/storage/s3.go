package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3FileStorage stores objects in an S3 bucket below an optional key prefix
type S3FileStorage struct {
	client s3iface.S3API
	bucket string
	prefix string
}

// NewS3FileStorage opens an S3 client from the default AWS credential chain
func NewS3FileStorage(cfg Config) (*S3FileStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires a bucket")
	}
	awsConfig := aws.NewConfig()
	if cfg.Region != "" {
		awsConfig = awsConfig.WithRegion(cfg.Region)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, NewStorageError("Open", "", err, false)
	}
	return NewS3FileStorageWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}

// NewS3FileStorageWithClient wraps an existing S3 client
func NewS3FileStorageWithClient(client s3iface.S3API, bucket, prefix string) *S3FileStorage {
	return &S3FileStorage{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Store implements FileStorage.Store
func (s *S3FileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if opts == nil {
		opts = &StoreOptions{}
	}

	if opts.NoOverwrite {
		exists, err := s.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return NewStorageError("Store", key, ErrFileAlreadyExists, false)
		}
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader(data),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = aws.StringMap(opts.Metadata)
	}

	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return s.wrap("Store", key, err)
	}
	return nil
}

// Retrieve implements FileStorage.Retrieve
func (s *S3FileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("Retrieve", key, err, false)
	}

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return nil, s.wrap("Retrieve", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, NewStorageError("Retrieve", key, err, true)
	}
	return data, nil
}

// Delete implements FileStorage.Delete. S3 deletes are idempotent, so the object is
// checked first to report missing keys.
func (s *S3FileStorage) Delete(ctx context.Context, key string) error {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return NewStorageError("Delete", key, ErrFileNotFound, false)
	}

	_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return s.wrap("Delete", key, err)
	}
	return nil
}

// Exists implements FileStorage.Exists
func (s *S3FileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewStorageError("Exists", key, err, false)
	}

	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		wrapped := s.wrap("Exists", key, err)
		if IsNotFound(wrapped) {
			return false, nil
		}
		return false, wrapped
	}
	return true, nil
}

// List implements FileStorage.List
func (s *S3FileStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	files := []FileMetadata{}
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.objectKey(prefix)),
	}
	err := s.client.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			files = append(files, FileMetadata{
				Key:          s.storageKey(aws.StringValue(obj.Key)),
				Size:         aws.Int64Value(obj.Size),
				LastModified: aws.TimeValue(obj.LastModified).UTC(),
			})
		}
		return true
	})
	if err != nil {
		return nil, s.wrap("List", prefix, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// Close implements FileStorage.Close
func (s *S3FileStorage) Close() error {
	return nil
}

func (s *S3FileStorage) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *S3FileStorage) storageKey(objectKey string) string {
	if s.prefix == "" {
		return objectKey
	}
	return strings.TrimPrefix(objectKey, s.prefix+"/")
}

// wrap maps S3 failures onto storage errors. Missing keys become ErrFileNotFound;
// throttling and 5xx responses are retryable.
func (s *S3FileStorage) wrap(op, key string, err error) error {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.StatusCode() == http.StatusNotFound:
			return NewStorageError(op, key, ErrFileNotFound, false)
		case reqErr.StatusCode() == http.StatusTooManyRequests, reqErr.StatusCode() >= 500:
			return NewStorageError(op, key, fmt.Errorf("%w: %v", ErrStorageUnavailable, err), true)
		}
	}

	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return NewStorageError(op, key, ErrFileNotFound, false)
		case "SlowDown", "RequestTimeout", "ServiceUnavailable":
			return NewStorageError(op, key, fmt.Errorf("%w: %v", ErrStorageUnavailable, err), true)
		}
	}
	return NewStorageError(op, key, err, false)
}

package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestFactory_Create(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		config  Config
		wantNil bool
		wantErr bool
	}{
		{name: "none disables archiving", config: Config{Type: "none"}, wantNil: true},
		{name: "empty type disables archiving", config: Config{}, wantNil: true},
		{name: "local", config: Config{Type: "local", BasePath: filepath.Join(dir, "reports")}},
		{name: "memory upper case", config: Config{Type: " MEMORY "}},
		{name: "s3 without bucket", config: Config{Type: "s3"}, wantErr: true},
		{name: "gcs without bucket", config: Config{Type: "gcs"}, wantErr: true},
		{name: "unknown", config: Config{Type: "ftp"}, wantErr: true},
	}

	factory := NewFactory(nil, quietLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := factory.Create(ctx, tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (s == nil) != tt.wantNil {
				t.Fatalf("Create returned %v, wantNil %v", s, tt.wantNil)
			}
			if s != nil {
				defer s.Close()
				if err := s.Store(ctx, "probe.json", []byte("{}"), nil); err != nil {
					t.Errorf("Store on created storage failed: %v", err)
				}
			}
		})
	}
}

func TestCreateFromConfig_WrapsWithRetry(t *testing.T) {
	s, err := CreateFromConfig(context.Background(), Config{Type: "memory"}, quietLogger())
	if err != nil {
		t.Fatalf("CreateFromConfig failed: %v", err)
	}
	if _, ok := s.(*RetryableFileStorage); !ok {
		t.Errorf("expected *RetryableFileStorage, got %T", s)
	}
}

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *ConnectionConfig {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	return &ConnectionConfig{
		Path:            filepath.Join(t.TempDir(), "nested", "billing.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		AutoMigrate:     true,
		Logger:          logger,
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name        string
		busyTimeout int
		want        string
	}{
		{"defaults", 0, "/tmp/a.db?_foreign_keys=on&_journal_mode=WAL"},
		{"busy timeout", 2500, "/tmp/a.db?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=2500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildDSN("/tmp/a.db", tt.busyTimeout))
		})
	}
}

func TestConnectionManager_ConnectMigratesAndChecksHealth(t *testing.T) {
	ctx := context.Background()
	cm := NewConnectionManager(testConfig(t))

	require.NoError(t, cm.Connect(ctx))
	defer cm.Close()

	assert.NotNil(t, cm.DB())
	assert.Error(t, cm.Connect(ctx), "second connect must fail")
	assert.NoError(t, cm.HealthCheck(ctx))
	assert.NoError(t, cm.Migrations().ValidateSchema(ctx))

	info, err := cm.Migrations().Status()
	require.NoError(t, err)
	assert.True(t, info.Applied)
	assert.False(t, info.Dirty)
	assert.Equal(t, uint(1), info.Version)
}

func TestConnectionManager_CloseIsIdempotent(t *testing.T) {
	cm := NewConnectionManager(testConfig(t))
	require.NoError(t, cm.Connect(context.Background()))

	require.NoError(t, cm.Close())
	assert.Nil(t, cm.DB())
	assert.NoError(t, cm.Close())
	assert.Error(t, cm.HealthCheck(context.Background()))
}

package lambda

import (
	"context"
	"sync"
	"time"

	"github.com/AmanMalviya08/Bill-app-backend/internal/config"
	"github.com/AmanMalviya08/Bill-app-backend/pkg/server"
)

// staleAfter is how long a warm container may sit idle before it is reported unhealthy
const staleAfter = 5 * time.Minute

// ConnectionManager keeps one application container alive across warm invocations
type ConnectionManager struct {
	mu        sync.RWMutex
	container *server.Container
	lastUsed  time.Time
	load      func() (*config.Config, error)
	now       func() time.Time
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the process-wide connection manager
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(config.GetOptimizedConfig)
	})
	return globalConnectionManager
}

// NewConnectionManager creates a manager that builds its container from load on first use
func NewConnectionManager(load func() (*config.Config, error)) *ConnectionManager {
	return &ConnectionManager{load: load, now: time.Now}
}

// GetContainer returns the container, creating it on the first call. A failed
// creation is retried on the next invocation.
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.RLock()
	container := cm.container
	cm.mu.RUnlock()
	if container != nil {
		cm.touch()
		return container, nil
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.container == nil {
		cfg, err := cm.load()
		if err != nil {
			return nil, err
		}
		container, err := server.NewContainer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		cm.container = container
	}
	cm.lastUsed = cm.now()
	return cm.container, nil
}

// IsHealthy reports whether a container exists and was used recently
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.container == nil {
		return false
	}
	return cm.now().Sub(cm.lastUsed) < staleAfter
}

// Cleanup closes the container; the next invocation builds a new one
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}
	err := cm.container.Close()
	cm.container = nil
	return err
}

func (cm *ConnectionManager) touch() {
	cm.mu.Lock()
	cm.lastUsed = cm.now()
	cm.mu.Unlock()
}

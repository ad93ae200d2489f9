package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// StopFunc releases one component.
type StopFunc func(ctx context.Context) error

type component struct {
	name string
	stop StopFunc
}

// Manager stops the session backend, the background workers and the HTTP
// server in the reverse order they were registered.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	components []component
	stopped    bool
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register records a component to stop on shutdown. A component registered
// after Shutdown has begun is stopped right away.
func (m *Manager) Register(name string, stop StopFunc) {
	if stop == nil {
		return
	}
	c := component{name: name, stop: stop}

	m.mu.Lock()
	if !m.stopped {
		m.components = append(m.components, c)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	_ = m.stopOne(ctx, c)
}

// WaitForSignal blocks until SIGINT or SIGTERM arrives or ctx is done.
func (m *Manager) WaitForSignal(ctx context.Context) {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	m.logger.Info("shutdown requested")
}

// Shutdown stops every registered component once, within the configured
// timeout. A failing component does not keep the others running.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	components := m.components
	m.components = nil
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var errs []error
	for i := len(components) - 1; i >= 0; i-- {
		if err := m.stopOne(ctx, components[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) stopOne(ctx context.Context, c component) error {
	start := time.Now()
	if err := c.stop(ctx); err != nil {
		m.logger.Error("component stop failed", zap.String("component", c.name), zap.Error(err))
		return fmt.Errorf("%s: %w", c.name, err)
	}
	m.logger.Info("component stopped",
		zap.String("component", c.name),
		zap.Duration("took", time.Since(start)))
	return nil
}

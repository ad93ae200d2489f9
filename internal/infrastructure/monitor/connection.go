package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionProbe is satisfied by every session backend.
type SessionProbe interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// TaskCounter reports the size of the task store.
type TaskCounter interface {
	CountTasks(ctx context.Context) (int, error)
}

type Monitor struct {
	sessions     SessionProbe
	sessionStore string
	tasks        TaskCounter

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(sessions SessionProbe, sessionStore string, tasks TaskCounter, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		sessions:     sessions,
		sessionStore: sessionStore,
		tasks:        tasks,
		interval:     interval,
		stopCh:       make(chan struct{}),
		logger:       logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether the session backend answered the last probe.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Sessions
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh()
	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every probe once and stores the result.
func (m *Monitor) Refresh() Status {
	status := Status{
		SessionStore: m.sessionStore,
		Sessions:     m.checkSessions(),
		Tasks:        m.countTasks(),
		LastCheck:    time.Now(),
	}
	if status.Sessions {
		status.ActiveSessions = m.countSessions()
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if !previous.LastCheck.IsZero() && previous.Sessions != status.Sessions {
		m.logger.Warn("session store availability changed",
			zap.String("store", m.sessionStore),
			zap.Bool("online", status.Sessions))
	}
	return status
}

func (m *Monitor) checkSessions() bool {
	if m.sessions == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.sessions.Ping(ctx); err != nil {
		m.logger.Debug("session store ping failed", zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) countSessions() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := m.sessions.Count(ctx)
	if err != nil {
		m.logger.Warn("session count failed", zap.String("store", m.sessionStore), zap.Error(err))
		return 0
	}
	return n
}

func (m *Monitor) countTasks() int {
	if m.tasks == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, err := m.tasks.CountTasks(ctx)
	if err != nil {
		m.logger.Warn("task count failed", zap.Error(err))
		return 0
	}
	return n
}

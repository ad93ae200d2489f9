package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/repository"
)

// SweepRecorder receives the number of sessions removed per sweep.
type SweepRecorder interface {
	SessionsSwept(store string, n int)
}

// SweeperConfig controls how often expired sessions are purged.
type SweeperConfig struct {
	Store    string
	Interval time.Duration
}

// SessionSweeper periodically deletes expired sessions from backends that
// have no native expiry (memory, bolt, postgres).
type SessionSweeper struct {
	sweeper  repository.SessionSweeper
	recorder SweepRecorder
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      SweeperConfig
}

func NewSessionSweeper(
	sweeper repository.SessionSweeper,
	recorder SweepRecorder,
	logger *zap.Logger,
	cfg SweeperConfig,
) (*SessionSweeper, error) {
	if cfg.Interval < time.Second {
		cfg.Interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &SessionSweeper{
		sweeper:  sweeper,
		recorder: recorder,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("session sweep failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}

	return s, nil
}

// Start launches the cron scheduler.
func (s *SessionSweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", zap.Duration("interval", s.cfg.Interval))
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *SessionSweeper) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("session sweeper stopped")
}

// Sweep removes expired sessions once.
func (s *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	if s == nil || s.sweeper == nil {
		return 0, nil
	}
	removed, err := s.sweeper.DeleteExpired(ctx)
	if err != nil {
		return removed, err
	}
	if s.recorder != nil {
		s.recorder.SessionsSwept(s.cfg.Store, removed)
	}
	if removed > 0 {
		s.logger.Debug("expired sessions removed", zap.Int("count", removed))
	}
	return removed, nil
}

package repository

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

// SessionRepository persists sessions keyed by their opaque id.
// Get returns domain.ErrSessionNotFound for unknown or expired ids.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)
}

// SessionSweeper is implemented by backends without native expiry.
type SessionSweeper interface {
	DeleteExpired(ctx context.Context) (int, error)
}

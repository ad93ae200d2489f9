package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

// SessionRepository keeps sessions in process memory. It is the default
// backend and the one used by tests.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	ttl      time.Duration
	now      func() time.Time
}

var (
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ repository.SessionSweeper    = (*SessionRepository)(nil)
)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || session.IsExpired(r.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	now := r.now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if !session.ExpiresAt.After(now) {
		session.ExpiresAt = now.Add(r.ttl)
	}

	r.mu.Lock()
	r.sessions[session.ID] = *session
	r.mu.Unlock()
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.IsExpired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	now := r.now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	live := 0
	for _, session := range r.sessions {
		if !session.IsExpired(now) {
			live++
		}
	}
	return live, nil
}

package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

// UseCase implements the cookie-session login flow. One shared password
// unlocks any email identity.
type UseCase struct {
	sessions repository.SessionRepository
	password string
	ttl      time.Duration
	logger   *zap.Logger
}

func New(sessions repository.SessionRepository, password string, ttl time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UseCase{
		sessions: sessions,
		password: password,
		ttl:      ttl,
		logger:   logger,
	}
}

// Login authenticates a fresh session for email. The previous session, if
// any, is destroyed so a login always rotates the session id.
func (uc *UseCase) Login(ctx context.Context, previousID, email, password string) (*domain.Session, error) {
	if password != uc.password {
		uc.logger.Info("login rejected", zap.String("email", email))
		return nil, domain.InvalidCredentials(uc.password)
	}

	if previousID != "" {
		if err := uc.sessions.Delete(ctx, previousID); err != nil {
			uc.logger.Warn("failed to drop previous session", zap.Error(err))
		}
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	uc.logger.Info("session authenticated", zap.String("email", email))
	return session, nil
}

func (uc *UseCase) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		if err := uc.sessions.Delete(ctx, sessionID); err != nil {
			uc.logger.Warn("failed to drop expired session", zap.Error(err))
		}
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Logout destroys the session. Unknown ids are not an error.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

// SessionRepository persists sessions in the sessions table.
type SessionRepository struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewSessionRepository returns a Postgres-backed session repository. The
// sessions table is created by the migrations under assets/migrations.
func NewSessionRepository(pool *pgxpool.Pool, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{pool: pool, ttl: ttl}
}

var (
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ repository.SessionSweeper    = (*SessionRepository)(nil)
)

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	const query = `
	SELECT id, email, created_at, expires_at
	FROM sessions
	WHERE id = $1 AND expires_at > NOW()
	`
	var (
		session domain.Session
		email   *string
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&email,
		&session.CreatedAt,
		&session.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "select session", err)
	}
	if email != nil {
		session.Email = *email
	}
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if !session.ExpiresAt.After(now) {
		session.ExpiresAt = now.Add(r.ttl)
	}

	const query = `
	INSERT INTO sessions (id, email, created_at, expires_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET email = EXCLUDED.email,
		expires_at = EXCLUDED.expires_at
	`
	if _, err := r.pool.Exec(ctx, query,
		session.ID,
		nullString(session.Email),
		session.CreatedAt,
		session.ExpiresAt,
	); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "upsert session", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	const query = `DELETE FROM sessions WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "delete session", err)
	}
	return nil
}

func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM sessions WHERE expires_at > NOW()`
	var live int
	if err := r.pool.QueryRow(ctx, query).Scan(&live); err != nil {
		return 0, domain.WrapError(domain.ErrCodeInternal, "count sessions", err)
	}
	return live, nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= NOW()`
	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

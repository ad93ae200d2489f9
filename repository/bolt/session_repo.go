package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

const sessionBucket = "sessions"

// SessionRepository stores sessions as JSON values in a single BoltDB bucket.
type SessionRepository struct {
	db     *bolt.DB
	bucket []byte
	ttl    time.Duration
}

var (
	_ repository.SessionRepository = (*SessionRepository)(nil)
	_ repository.SessionSweeper    = (*SessionRepository)(nil)
)

// NewSessionRepository ensures the sessions bucket exists in db.
func NewSessionRepository(db *bolt.DB, ttl time.Duration) (*SessionRepository, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	}); err != nil {
		return nil, fmt.Errorf("create session bucket: %w", err)
	}
	return &SessionRepository{
		db:     db,
		bucket: []byte(sessionBucket),
		ttl:    ttl,
	}, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	var session *domain.Session
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(r.bucket).Get([]byte(id))
		if raw == nil {
			return nil
		}
		var s domain.Session
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		session = &s
		return nil
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "bolt get session", err)
	}
	if session == nil || session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
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

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put([]byte(session.ID), payload)
	}); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "bolt save session", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Delete([]byte(id))
	}); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "bolt delete session", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// DeleteExpired removes sessions whose expiry lies in the past. Undecodable
// values are removed as well.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	now := time.Now()
	removed := 0
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		var stale [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			var s domain.Session
			if err := json.Unmarshal(v, &s); err != nil || s.IsExpired(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Count returns the number of unexpired, decodable sessions.
func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	now := time.Now()
	live := 0
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(_, v []byte) error {
			var s domain.Session
			if json.Unmarshal(v, &s) == nil && !s.IsExpired(now) {
				live++
			}
			return nil
		})
	})
	if err != nil {
		return 0, domain.WrapError(domain.ErrCodeInternal, "bolt count sessions", err)
	}
	return live, nil
}

package domain

import "time"

// Session is the server-side record behind the session cookie.
// Email is empty until the client logs in.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Email != ""
}

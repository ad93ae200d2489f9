package monitor

import "time"

type Status struct {
	SessionStore   string    `json:"session_store"`
	Sessions       bool      `json:"sessions"`
	ActiveSessions int       `json:"active_sessions"`
	Tasks          int       `json:"tasks"`
	LastCheck      time.Time `json:"last_check"`
}

package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "this is just an example, not a real secret"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != "3000" {
		t.Errorf("port = %q", cfg.HTTP.Port)
	}
	if cfg.Session.CookieName != "m294-session" {
		t.Errorf("cookie name = %q", cfg.Session.CookieName)
	}
	if cfg.Session.Store != SessionStoreMemory {
		t.Errorf("store = %q", cfg.Session.Store)
	}
	if cfg.Auth.Password != "m294" {
		t.Errorf("password = %q", cfg.Auth.Password)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("ttl = %v", cfg.Session.TTL)
	}
	if cfg.Address() != "0.0.0.0:3000" {
		t.Errorf("address = %q", cfg.Address())
	}
	if !strings.HasPrefix(cfg.Database.URL, "postgres://") {
		t.Errorf("database url = %q", cfg.Database.URL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("SERVER_ENABLE_METRICS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != "8081" || cfg.Session.Store != SessionStoreRedis {
		t.Errorf("overrides not applied: %+v", cfg.HTTP)
	}
	if cfg.Session.TTL != 90*time.Second {
		t.Errorf("ttl = %v", cfg.Session.TTL)
	}
	if cfg.RateLimit.RPS != 2.5 {
		t.Errorf("rps = %v", cfg.RateLimit.RPS)
	}
	if !cfg.HTTP.EnableMetrics {
		t.Error("metrics not enabled")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); err != ErrMissingSecret {
		t.Fatalf("err = %v, want ErrMissingSecret", err)
	}

	t.Setenv("SESSION_SECRET", "too short")
	if _, err := Load(); err != ErrMissingSecret {
		t.Fatalf("err = %v, want ErrMissingSecret", err)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_STORE", "memcached")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "http")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

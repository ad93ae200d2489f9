package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestNewWritesJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Encoding: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	ctx := ContextWithRequestID(context.Background(), "req-1")
	WithRequestID(ctx, log).Debug("hello")
	_ = log.Sync()

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["request_id"] != "req-1" {
		t.Fatalf("request_id = %v", entry["request_id"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatal("missing timestamp key")
	}
}

func TestNewRejectsBadSettings(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New(Config{Encoding: "xml"}); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("dropped")
	_ = log.Sync()
	if buf.Len() != 0 {
		t.Fatalf("info line leaked at warn level: %s", buf.String())
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("RequestID = %q", got)
	}
}

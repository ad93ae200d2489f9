package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap/zaptest"

	"github.com/fastygo/tasktracker/internal/infrastructure/monitor"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func (p pinger) Count(context.Context) (int, error) { return 4, nil }

type counter int

func (c counter) CountTasks(context.Context) (int, error) { return int(c), nil }

func checkHealth(t *testing.T, sessions monitor.SessionProbe) (int, map[string]interface{}) {
	t.Helper()
	log := zaptest.NewLogger(t)
	mon := monitor.New(sessions, "redis", counter(3), time.Minute, log)
	h := NewHealthHandler(mon, nil, log)

	ctx := &fasthttp.RequestCtx{}
	h.Check(ctx)

	var payload map[string]interface{}
	if err := json.Unmarshal(ctx.Response.Body(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return ctx.Response.StatusCode(), payload
}

func TestHealthReportsOnlineStore(t *testing.T) {
	status, payload := checkHealth(t, pinger{})
	if status != http.StatusOK || payload["status"] != "ok" {
		t.Fatalf("status = %d, payload = %v", status, payload)
	}
	services := payload["services"].(map[string]interface{})
	if services["tasks"] != float64(3) {
		t.Fatalf("tasks = %v", services["tasks"])
	}
	if active := services["sessions"].(map[string]interface{})["active"]; active != float64(4) {
		t.Fatalf("active sessions = %v", active)
	}
}

func TestHealthDegradedWhenStoreDown(t *testing.T) {
	status, payload := checkHealth(t, pinger{err: errors.New("connection refused")})
	if status != http.StatusServiceUnavailable || payload["status"] != "degraded" {
		t.Fatalf("status = %d, payload = %v", status, payload)
	}
	sessions := payload["services"].(map[string]interface{})["sessions"].(map[string]interface{})
	if sessions["store"] != "redis" || sessions["online"] != false {
		t.Fatalf("sessions = %v", sessions)
	}
}

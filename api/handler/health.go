package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/internal/infrastructure/monitor"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	if status.LastCheck.IsZero() {
		status = h.monitor.Refresh()
	}

	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"status":    "ok",
		"services": map[string]interface{}{
			"sessions": map[string]interface{}{
				"store":  status.SessionStore,
				"online": status.Sessions,
				"active": status.ActiveSessions,
			},
			"tasks": status.Tasks,
		},
		"last_check": status.LastCheck.UTC(),
	}

	if status.Sessions {
		h.respondJSON(ctx, http.StatusOK, payload)
		return
	}
	payload["status"] = "degraded"
	h.respondJSON(ctx, http.StatusServiceUnavailable, payload)
}

package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/tasktracker/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// Request user values shared between middleware and handlers.
const (
	userValueRequestID = "httpcontext.request_id"
	userValueSessionID = "httpcontext.session_id"
	userValueEmail     = "httpcontext.email"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	timeout := 5 * time.Second
	if a != nil {
		timeout = a.timeout
	}
	stdCtx, cancel := context.WithTimeout(context.Background(), timeout)

	stdCtx = appLogger.ContextWithRequestID(stdCtx, RequestID(ctx))

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// RequestID returns the id of the current request, taking it from the
// X-Request-ID header or minting one. The id is echoed in the response.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if id, ok := ctx.UserValue(userValueRequestID).(string); ok && id != "" {
		return id
	}
	id := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID")))
	if id == "" {
		id = uuid.NewString()
	}
	ctx.SetUserValue(userValueRequestID, id)
	ctx.Response.Header.Set("X-Request-ID", id)
	return id
}

// RemoteAddr returns the client address stored by Attach.
func RemoteAddr(ctx context.Context) string {
	addr, _ := ctx.Value(KeyRemoteAddr).(string)
	return addr
}

// UserAgent returns the client user agent stored by Attach.
func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(KeyUserAgent).(string)
	return ua
}

// SetSession records the session loaded for this request.
func SetSession(ctx *fasthttp.RequestCtx, sessionID, email string) {
	ctx.SetUserValue(userValueSessionID, sessionID)
	ctx.SetUserValue(userValueEmail, email)
}

// SessionID returns the id of the session attached to the request, if any.
func SessionID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(userValueSessionID).(string)
	return id
}

// Email returns the authenticated identity of the request, if any.
func Email(ctx *fasthttp.RequestCtx) string {
	email, _ := ctx.UserValue(userValueEmail).(string)
	return email
}

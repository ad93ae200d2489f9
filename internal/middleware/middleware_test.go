package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	"github.com/fastygo/tasktracker/pkg/sessioncookie"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubLoader struct {
	sessions map[string]*domain.Session
	err      error
}

func (s stubLoader) Session(_ context.Context, id string) (*domain.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	if session, ok := s.sessions[id]; ok {
		return session, nil
	}
	return nil, domain.ErrSessionNotFound
}

func requestWithCookie(t *testing.T, codec *sessioncookie.Codec, sessionID string) *fasthttp.RequestCtx {
	t.Helper()
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/auth/cookie/tasks")
	if sessionID != "" {
		value, err := codec.Encode(sessionID)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		ctx.Request.Header.SetCookie(codec.Name(), value)
	}
	return ctx
}

func captureEmail(seen *string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		*seen = httpcontext.Email(ctx)
		ctx.SetStatusCode(http.StatusOK)
	}
}

func TestSessionsAttachesKnownSession(t *testing.T) {
	codec := sessioncookie.New("", testSecret)
	loader := stubLoader{sessions: map[string]*domain.Session{
		"sid-1": {ID: "sid-1", Email: "a@b.com"},
	}}

	var seen string
	h := Sessions(codec, loader, httpcontext.NewAdapter(time.Second), nil)(captureEmail(&seen))

	ctx := requestWithCookie(t, codec, "sid-1")
	h(ctx)

	if seen != "a@b.com" {
		t.Fatalf("email = %q", seen)
	}
	if httpcontext.SessionID(ctx) != "sid-1" {
		t.Fatalf("session id = %q", httpcontext.SessionID(ctx))
	}
}

func TestSessionsClearsCookieOfUnknownSession(t *testing.T) {
	codec := sessioncookie.New("", testSecret)
	var seen string
	h := Sessions(codec, stubLoader{}, httpcontext.NewAdapter(time.Second), nil)(captureEmail(&seen))

	ctx := requestWithCookie(t, codec, "gone")
	h(ctx)

	if seen != "" {
		t.Fatalf("email = %q, want anonymous", seen)
	}
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(codec.Name())
	if !ctx.Response.Header.Cookie(cookie) {
		t.Fatal("stale cookie was not cleared")
	}
	if !cookie.Expire().Equal(fasthttp.CookieExpireDelete) {
		t.Fatalf("cookie expire = %v", cookie.Expire())
	}
}

func TestSessionsIgnoresForeignCookie(t *testing.T) {
	codec := sessioncookie.New("", testSecret)
	foreign := sessioncookie.New("", "ffffffffffffffffffffffffffffffff")
	loader := stubLoader{sessions: map[string]*domain.Session{
		"sid-1": {ID: "sid-1", Email: "a@b.com"},
	}}

	var seen string
	h := Sessions(codec, loader, nil, nil)(captureEmail(&seen))
	h(requestWithCookie(t, foreign, "sid-1"))

	if seen != "" {
		t.Fatalf("email = %q, want anonymous", seen)
	}
}

func TestSessionsLogsBackendFailure(t *testing.T) {
	codec := sessioncookie.New("", testSecret)
	core, logs := observer.New(zap.WarnLevel)

	var seen string
	h := Sessions(codec, stubLoader{err: errors.New("redis down")}, nil, zap.New(core))(captureEmail(&seen))
	ctx := requestWithCookie(t, codec, "sid-1")
	h(ctx)

	if seen != "" {
		t.Fatalf("email = %q", seen)
	}
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d, request should proceed anonymously", ctx.Response.StatusCode())
	}
	if logs.FilterMessage("session lookup failed").Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

func TestRequireSession(t *testing.T) {
	called := false
	h := RequireSession(nil)(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	h(ctx)

	if called {
		t.Fatal("anonymous request reached the handler")
	}
	if ctx.Response.StatusCode() != http.StatusUnauthorized {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	want := `{"statusCode":401,"error":"Unauthorized","message":"authenticate your session via /auth/cookie/login"}`
	if got := string(ctx.Response.Body()); got != want {
		t.Fatalf("body = %s", got)
	}

	ctx = &fasthttp.RequestCtx{}
	httpcontext.SetSession(ctx, "sid-1", "a@b.com")
	h(ctx)
	if !called {
		t.Fatal("authenticated request was rejected")
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(rate.NewLimiter(rate.Every(time.Hour), 2))(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		ctx := &fasthttp.RequestCtx{}
		h(ctx)
		if ctx.Response.StatusCode() != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, ctx.Response.StatusCode())
		}
	}

	ctx := &fasthttp.RequestCtx{}
	h(ctx)
	if ctx.Response.StatusCode() != http.StatusTooManyRequests {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	if string(ctx.Response.Header.Peek("Retry-After")) != "1" {
		t.Fatal("missing Retry-After")
	}
}

func TestNewLimiterDisabled(t *testing.T) {
	if NewLimiter(0, 10) != nil {
		t.Fatal("zero rps should disable limiting")
	}
	if l := NewLimiter(5, 0); l == nil || l.Burst() != 1 {
		t.Fatalf("limiter = %+v", l)
	}

	called := false
	RateLimit(nil)(func(*fasthttp.RequestCtx) { called = true })(&fasthttp.RequestCtx{})
	if !called {
		t.Fatal("nil limiter must pass through")
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := AccessLog(zap.New(core))(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusInternalServerError)
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/tasks")
	ctx.Request.Header.Set("X-Request-ID", "req-9")
	h(ctx)

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != zap.ErrorLevel {
		t.Fatalf("level = %v, 5xx should log at error", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["request_id"] != "req-9" || fields["path"] != "/tasks" || fields["status"] != int64(500) {
		t.Fatalf("fields = %v", fields)
	}
}

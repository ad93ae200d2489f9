package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/api/transport"
	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	"github.com/fastygo/tasktracker/pkg/sessioncookie"
)

// SessionLoader resolves a session id to its record.
type SessionLoader interface {
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
}

// Sessions attaches the session carried by the request cookie. Requests
// without a valid cookie proceed anonymously.
func Sessions(cookies *sessioncookie.Codec, loader SessionLoader, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			sessionID := cookies.Read(ctx)
			if sessionID == "" {
				next(ctx)
				return
			}

			stdCtx, cancel := adapter.Attach(ctx)
			session, err := loader.Session(stdCtx, sessionID)
			cancel()

			switch {
			case err == nil:
				httpcontext.SetSession(ctx, session.ID, session.Email)
			case errors.Is(err, domain.ErrSessionNotFound):
				cookies.Clear(ctx)
			default:
				logger.Warn("session lookup failed",
					zap.String("request_id", httpcontext.RequestID(ctx)),
					zap.Error(err))
			}
			next(ctx)
		}
	}
}

// RequireSession rejects requests whose session carries no identity.
func RequireSession(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	body, _ := json.Marshal(transport.NewError(http.StatusUnauthorized, domain.ErrUnauthorized.Message))
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if httpcontext.Email(ctx) == "" {
				logger.Debug("unauthenticated request rejected", zap.ByteString("path", ctx.Path()))
				ctx.Response.Header.SetContentType("application/json; charset=utf-8")
				ctx.SetStatusCode(http.StatusUnauthorized)
				ctx.SetBody(body)
				return
			}
			next(ctx)
		}
	}
}

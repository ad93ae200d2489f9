package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/api/transport"
	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	"github.com/fastygo/tasktracker/pkg/sessioncookie"
	authUC "github.com/fastygo/tasktracker/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc      *authUC.UseCase
	cookies *sessioncookie.Codec
}

func NewAuthHandler(uc *authUC.UseCase, cookies *sessioncookie.Codec, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		cookies:     cookies,
	}
}

// @Summary Report the identity bound to the session
// @Tags auth
// @Router /auth/cookie/status [get]
func (h *AuthHandler) Status(ctx *fasthttp.RequestCtx) {
	email := httpcontext.Email(ctx)
	if email == "" {
		ctx.SetStatusCode(http.StatusUnauthorized)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.StatusResponse{Email: email})
}

// @Summary Bind an email to the session
// @Tags auth
// @Router /auth/cookie/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := transport.DecodeBody(ctx.PostBody(), &req); err != nil {
		h.respondDecodeError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Login(stdCtx, httpcontext.SessionID(ctx), *req.Email, *req.Password)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) {
			h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{
				StatusCode: http.StatusBadRequest,
				Message:    domain.Message(err),
			})
			return
		}
		h.respondError(ctx, stdCtx, err)
		return
	}

	if err := h.cookies.Write(ctx, session.ID); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	httpcontext.SetSession(ctx, session.ID, session.Email)
	h.respondText(ctx, http.StatusOK, "ok")
}

// @Summary Destroy the session
// @Tags auth
// @Router /auth/cookie/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, httpcontext.SessionID(ctx)); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.cookies.Clear(ctx)
	httpcontext.SetSession(ctx, "", "")
	h.respondText(ctx, http.StatusOK, "ok")
}

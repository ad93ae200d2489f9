package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/fastygo/tasktracker/api/transport"
)

// RateLimit rejects requests with 429 once limiter runs dry. A nil limiter
// disables limiting.
func RateLimit(limiter *rate.Limiter) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	body, _ := json.Marshal(transport.NewError(http.StatusTooManyRequests, "the API is at capacity, try again later"))
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if limiter == nil {
			return next
		}
		return func(ctx *fasthttp.RequestCtx) {
			if !limiter.Allow() {
				ctx.Response.Header.SetContentType("application/json; charset=utf-8")
				ctx.Response.Header.Set("Retry-After", "1")
				ctx.SetStatusCode(http.StatusTooManyRequests)
				ctx.SetBody(body)
				return
			}
			next(ctx)
		}
	}
}

// NewLimiter returns nil when rps is not positive.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

package handler

import (
	_ "embed"
	"net/http"

	"github.com/valyala/fasthttp"
)

//go:embed static/index.html
var indexHTML []byte

// Index serves the bundled API overview page verbatim.
func Index(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("text/html; charset=utf-8")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(indexHTML)
}

package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
	"github.com/fastygo/tasktracker/api/transport"
)

// Middleware decorates a request handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
	Metrics fasthttp.RequestHandler
}

// New registers the public task routes, their session-gated twins under
// /auth/cookie and the auth endpoints. gate wraps every gated task route;
// global middleware is applied outermost first.
func New(handlers Handlers, gate Middleware, global ...Middleware) fasthttp.RequestHandler {
	r := router.New()
	r.SaveMatchedRoutePath = true
	r.HandleMethodNotAllowed = false
	r.NotFound = notFound

	r.GET("/", apiHandler.Index)
	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	registerTasks(r, handlers.Task, nil)

	cookie := r.Group("/auth/cookie")
	registerTasks(cookie, handlers.Task, gate)
	cookie.GET("/status", handlers.Auth.Status)
	cookie.POST("/login", handlers.Auth.Login)
	cookie.POST("/logout", handlers.Auth.Logout)

	return chain(r.Handler, global...)
}

// routes is implemented by both *router.Router and *router.Group.
type routes interface {
	GET(path string, handler fasthttp.RequestHandler)
	POST(path string, handler fasthttp.RequestHandler)
	PUT(path string, handler fasthttp.RequestHandler)
	DELETE(path string, handler fasthttp.RequestHandler)
}

func registerTasks(g routes, h *apiHandler.TaskHandler, gate Middleware) {
	wrap := func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		if gate == nil {
			return next
		}
		return gate(next)
	}
	g.GET("/tasks", wrap(h.GetTasks))
	g.POST("/tasks", wrap(h.CreateTask))
	g.PUT("/tasks", wrap(h.UpdateTask))
	g.GET("/task/{id}", wrap(h.GetTask))
	g.DELETE("/task/{id}", wrap(h.DeleteTask))
}

func chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

func notFound(ctx *fasthttp.RequestCtx) {
	body, _ := json.Marshal(transport.NewError(http.StatusNotFound,
		fmt.Sprintf("Route %s:%s not found", ctx.Method(), ctx.Path())))
	ctx.Response.Header.SetContentType("application/json; charset=utf-8")
	ctx.SetStatusCode(http.StatusNotFound)
	ctx.SetBody(body)
}

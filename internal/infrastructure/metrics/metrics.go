package metrics

import (
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Collector records per-route request counts and latencies.
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sessions *prometheus.CounterVec
}

// New registers the HTTP collectors plus the Go and process collectors on a
// dedicated registry.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "tasktracker"
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_sessions_removed_total",
			Help:      "Expired sessions removed by the sweeper.",
		}, []string{"store"}),
	}
	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Middleware observes every request passing through next.
func (c *Collector) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		route := routeLabel(ctx)
		method := string(ctx.Method())
		c.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Response.StatusCode())).Inc()
		c.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// SessionsSwept counts sessions removed from store.
func (c *Collector) SessionsSwept(store string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.sessions.WithLabelValues(store).Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}

// routeLabel prefers the matched route pattern so ids do not explode label cardinality.
func routeLabel(ctx *fasthttp.RequestCtx) string {
	if route, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && route != "" {
		return route
	}
	return "unmatched"
}

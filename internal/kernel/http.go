// Package kernel assembles the storefront's HTTP handler: the global
// middleware stack, the API routes and the operational endpoints.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/freshchoice/storefront/app/routes"
	"github.com/freshchoice/storefront/pkg/database"
	"github.com/freshchoice/storefront/pkg/metrics"
	"github.com/freshchoice/storefront/pkg/middleware"
	"github.com/freshchoice/storefront/pkg/reqid"
	"github.com/freshchoice/storefront/pkg/response"
	"github.com/freshchoice/storefront/pkg/router"
	"github.com/freshchoice/storefront/pkg/sse"
	"github.com/freshchoice/storefront/pkg/storage"
	"github.com/freshchoice/storefront/pkg/ws"
)

// Deps extends the API dependencies with what the kernel itself serves.
type Deps struct {
	routes.Deps

	// Hub serves /ws/orders and Feed serves /events/orders, each when set.
	Hub  *ws.Hub
	Feed *sse.Feed

	CORSOrigins []string

	// RateLimit is requests per minute per IP; 0 disables limiting.
	RateLimit int
}

type HTTPKernel struct {
	Router  *router.Router
	Limiter *middleware.RateLimiter
}

// NewHTTPKernel builds the router. Middleware order (outermost first):
//
//  1. Prometheus metrics: total latency including everything below
//  2. Recovery: panics become a 500
//  3. Request ID: before anything logs
//  4. Logger: request-scoped logger with the request id
//  5. CORS: configured origins, credentials allowed
//  6. Rate limiter
func NewHTTPKernel(d Deps) (*HTTPKernel, error) {
	r := router.New()
	k := &HTTPKernel{Router: r}

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(d.CORSOrigins)))
	if d.RateLimit > 0 {
		k.Limiter = middleware.NewRateLimiter(d.RateLimit, time.Minute)
		r.Use(k.Limiter.Middleware)
	}

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", healthHandler(d))

	if d.Hub != nil {
		r.Get("/ws/orders", "ws.orders", d.Hub.ServeHTTP)
	}
	if d.Feed != nil {
		r.Get("/events/orders", "sse.orders", d.Feed.ServeHTTP)
	}

	if local, ok := d.Disk.(*storage.LocalDisk); ok {
		files := http.StripPrefix("/storage/", http.FileServer(http.Dir(local.Root())))
		r.Get("/storage/*", "storage", files.ServeHTTP)
	}

	if err := routes.RegisterAPI(r, d.Deps); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.Router.Handler()
}

func healthHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if d.DB == nil || database.Ping(c, d.DB) != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}

		status := map[string]string{"status": "ok", "database": "ok"}
		if d.Cache != nil {
			status["cache"] = "ok"
			if err := d.Cache.Ping(c); err != nil {
				status["cache"] = "unavailable"
			}
		}
		response.Success(w, status)
	}
}

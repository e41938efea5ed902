// Package server boots the storefront: it connects the stores, starts the
// HTTP and gRPC listeners with their background workers, and shuts
// everything down in order on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshchoice/storefront/app/listeners"
	"github.com/freshchoice/storefront/app/routes"
	"github.com/freshchoice/storefront/config"
	"github.com/freshchoice/storefront/internal/kernel"
	"github.com/freshchoice/storefront/pkg/cache"
	"github.com/freshchoice/storefront/pkg/database"
	"github.com/freshchoice/storefront/pkg/event"
	"github.com/freshchoice/storefront/pkg/grpc"
	"github.com/freshchoice/storefront/pkg/logger"
	"github.com/freshchoice/storefront/pkg/middleware"
	"github.com/freshchoice/storefront/pkg/schedule"
	"github.com/freshchoice/storefront/pkg/session"
	"github.com/freshchoice/storefront/pkg/sse"
	"github.com/freshchoice/storefront/pkg/storage"
	"github.com/freshchoice/storefront/pkg/workerpool"
	"github.com/freshchoice/storefront/pkg/ws"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 10 * time.Second
	eventWorkers    = 8

	// RateLimit is requests per minute per client IP.
	RateLimit = 200
)

// Start runs the storefront until ctx is cancelled or a signal arrives.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		closeLogs, err := logger.EnableMongo(uri, config.LogMongoDB(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			defer closeLogs()
		}
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	store, err := cache.Connect(config.RedisAddr(), config.RedisPassword())
	if err != nil {
		logger.Warn("redis unavailable, running without cache", "error", err)
		store = nil
	}
	defer store.Close() //nolint:errcheck

	sessions, err := newSessionManager(db, store)
	if err != nil {
		return err
	}

	disk, err := storage.Open(ctx, storage.ConfigFromEnv())
	if err != nil {
		return err
	}

	pool := workerpool.New("events", eventWorkers)
	bus := event.New(event.WithPool(pool))
	hub := ws.NewHub(config.CORSOrigins())
	feed := sse.NewFeed(event.OrderPlaced)
	listeners.RegisterOrderFeed(bus, hub)
	listeners.RegisterOrderFeed(bus, feed)

	k, err := kernel.NewHTTPKernel(kernel.Deps{
		Deps: routes.Deps{
			DB:       db,
			Cache:    store,
			Sessions: sessions,
			Disk:     disk,
			Events:   bus,
		},
		Hub:         hub,
		Feed:        feed,
		CORSOrigins: config.CORSOrigins(),
		RateLimit:   RateLimit,
	})
	if err != nil {
		return err
	}

	jobs, err := Housekeeping(sessions, k.Limiter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)
	jobsDone := make(chan struct{})
	go func() {
		jobs.Start(ctx)
		close(jobsDone)
	}()

	var grpcSrv *grpc.Server
	if port := config.GRPCPort(); port != "" {
		grpcSrv = grpc.New(func(c context.Context) error { return database.Ping(c, db) })
		if _, err := grpcSrv.Start(port); err != nil {
			return err
		}
	}

	srv := newHTTPServer(":"+config.AppPort(), k.Handler(), feed)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Fresh Choice storefront running",
			"addr", srv.Addr,
			"env", config.AppEnv(),
			"db", config.DatabaseDriver(),
			"sessions", config.SessionDriver(),
			"storage", disk.Name(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: http: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: http shutdown", "error", err)
	}
	grpcSrv.Stop()
	<-jobsDone
	bus.Wait()
	pool.Shutdown()
	return nil
}

// newHTTPServer closes feed when Shutdown starts; open event streams would
// otherwise keep it waiting until the timeout.
func newHTTPServer(addr string, h http.Handler, feed *sse.Feed) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if feed != nil {
		srv.RegisterOnShutdown(feed.Close)
	}
	return srv
}

// Housekeeping registers the periodic cleanup tasks. limiter may be nil.
func Housekeeping(sessions *session.Manager, limiter *middleware.RateLimiter) (*schedule.Scheduler, error) {
	s := schedule.New()

	err := s.Every(config.SessionPurgeInterval()).Name("sessions.purge").Run(func(ctx context.Context) error {
		n, err := sessions.Purge(ctx)
		if n > 0 {
			logger.Info("expired sessions purged", "count", n)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if limiter != nil {
		err = s.Every(limiter.Window).Name("ratelimit.evict").Run(func(context.Context) error {
			limiter.Evict()
			return nil
		})
	}
	return s, err
}

// newSessionManager picks the store named by SESSION_DRIVER.
func newSessionManager(db *gorm.DB, store *cache.Store) (*session.Manager, error) {
	opts := session.Options{
		CookieName: config.SessionCookieName(),
		TTL:        config.SessionTTL(),
		Secure:     config.SessionCookieSecure(),
	}

	switch driver := config.SessionDriver(); driver {
	case "database", "":
		return session.NewManager(session.NewDBStore(db), opts), nil
	case "redis":
		if store == nil {
			return nil, errors.New("server: SESSION_DRIVER=redis needs REDIS_ADDR")
		}
		return session.NewManager(session.NewRedisStore(store.Client()), opts), nil
	default:
		return nil, fmt.Errorf("server: unknown SESSION_DRIVER %q (supported: database, redis)", driver)
	}
}

// Package webserver runs the admin HTTP endpoint of a process using structlog: Prometheus
// metrics, a health probe and optional pprof, with every request logged as a JSON record.
package webserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GabrielNunesIT/structlog/echolog"
	"github.com/GabrielNunesIT/structlog/logger"
	"github.com/GabrielNunesIT/structlog/metrics"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Routes served by the admin server.
const (
	MetricsRoute = "/metrics"
	HealthRoute  = "/healthz"
)

const defaultShutdownTimeout = 5 * time.Second

// WebServer is the admin HTTP server.
type WebServer struct {
	framework       *echo.Echo
	address         string
	shutdownTimeout time.Duration
}

// Option defines a configuration option for the WebServer.
type Option func(*WebServer)

// New creates a new WebServer with the given options. The health route is always served.
func New(opts ...Option) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	server := &WebServer{
		framework:       e,
		address:         ":0", // Random address
		shutdownTimeout: defaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(server)
	}

	e.GET(HealthRoute, func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	return server
}

// WithAddress sets the address for the WebServer.
func WithAddress(address string) Option {
	return func(server *WebServer) {
		server.address = address
	}
}

// WithReadTimeout sets the read timeout for the WebServer.
func WithReadTimeout(timeout time.Duration) Option {
	return func(server *WebServer) {
		server.framework.Server.ReadTimeout = timeout
	}
}

// WithShutdownTimeout bounds the graceful shutdown performed by Run.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(server *WebServer) {
		server.shutdownTimeout = timeout
	}
}

// WithRecovery adds the recovery middleware to the WebServer.
func WithRecovery() Option {
	return func(server *WebServer) {
		server.framework.Use(middleware.Recover())
	}
}

// WithLogger routes Echo's own logging and one record per request through l.
// Health probes are not logged.
func WithLogger(l logger.ILogger) Option {
	return func(server *WebServer) {
		server.framework.Logger = echolog.New(l, echolog.WithPrefix("admin"))
		server.framework.Use(echolog.Middleware(l, echolog.WithSkipper(func(c echo.Context) bool {
			return c.Path() == HealthRoute
		})))
	}
}

// WithMetrics serves reg on MetricsRoute and records HTTP metrics for the admin routes in it.
func WithMetrics(reg *metrics.Registry) Option {
	return func(server *WebServer) {
		server.framework.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "admin",
			Registerer: reg.PrometheusRegistry(),
		}))
		server.framework.GET(MetricsRoute, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: reg.PrometheusRegistry(),
		}))
	}
}

// WithPprof adds pprof handlers under /debug/pprof.
func WithPprof() Option {
	return func(server *WebServer) {
		pprof.Register(server.framework)
	}
}

// ServeHTTP implements http.Handler.
func (server *WebServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.framework.ServeHTTP(w, r)
}

// Run serves until ctx is done, then shuts down gracefully.
func (server *WebServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.framework.Start(server.address)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		//nolint:wrapcheck // we want to return the error from echo directly
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), server.shutdownTimeout)
	defer cancel()

	//nolint:wrapcheck // we want to return the error from echo directly
	return server.framework.Shutdown(shutdownCtx)
}

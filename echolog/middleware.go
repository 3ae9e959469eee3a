package echolog

import (
	"net/http"
	"time"

	"github.com/GabrielNunesIT/structlog/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DefaultRequestIDHeader is the header the request ID is read from and written to.
const DefaultRequestIDHeader = echo.HeaderXRequestID

type (
	middlewareConfig struct {
		// level is used for successful requests. 4xx responses are logged at Warn at most
		// and 5xx responses at Error.
		level logger.Level
		// requestIDHeader is read for an incoming request ID; a new one is generated when empty.
		requestIDHeader string
		skipper         func(c echo.Context) bool
	}

	// MiddlewareOption configures Middleware.
	MiddlewareOption func(*middlewareConfig)

	// requestRecord is the structured payload logged for every request.
	requestRecord struct {
		Method    string `json:"method"`
		URI       string `json:"uri"`
		Protocol  string `json:"protocol"`
		Status    int    `json:"status"`
		LatencyMS int64  `json:"latency_ms"`
		RequestID string `json:"request_id"`
		Error     string `json:"error,omitempty"`
	}
)

// WithLogLevel sets the level successful requests are logged at. Default: Info.
func WithLogLevel(level logger.Level) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if level.Valid() {
			cfg.level = level
		}
	}
}

// WithRequestIDHeader sets the header used for request IDs. Default: X-Request-Id.
func WithRequestIDHeader(header string) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if header != "" {
			cfg.requestIDHeader = header
		}
	}
}

// WithSkipper skips logging for requests where skip returns true.
func WithSkipper(skip func(c echo.Context) bool) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.skipper = skip
	}
}

// Middleware returns an Echo middleware that logs one structured record per request and
// attaches l to the request context, where logger.FromCtx finds it.
// Errors returned by the handler chain are passed to the Echo error handler so the logged
// status matches the response.
func Middleware(l logger.ILogger, opts ...MiddlewareOption) echo.MiddlewareFunc {
	cfg := middlewareConfig{
		level:           logger.LevelInfo,
		requestIDHeader: DefaultRequestIDHeader,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.skipper != nil && cfg.skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()
			start := time.Now()

			id := req.Header.Get(cfg.requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			res.Header().Set(cfg.requestIDHeader, id)

			c.SetRequest(req.WithContext(logger.NewContextWithLogger(req.Context(), l)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			rec := requestRecord{
				Method:    req.Method,
				URI:       req.RequestURI,
				Protocol:  req.Proto,
				Status:    res.Status,
				LatencyMS: time.Since(start).Milliseconds(),
				RequestID: id,
			}
			if err != nil {
				rec.Error = err.Error()
			}

			l.LogValue(levelForStatus(res.Status, cfg.level), rec)
			return nil
		}
	}
}

func levelForStatus(status int, base logger.Level) logger.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return logger.LevelError
	case status >= http.StatusBadRequest && base > logger.LevelWarn:
		return logger.LevelWarn
	default:
		return base
	}
}

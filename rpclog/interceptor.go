// Package rpclog provides gRPC server interceptors that log one structured record per call.
package rpclog

import (
	"context"
	"time"

	"github.com/GabrielNunesIT/structlog/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const unknownService = "unknown"

const (
	kindUnary  = "unary"
	kindStream = "stream"
)

type config struct {
	level logger.Level
}

// Option configures the interceptors.
type Option func(*config)

// WithLogLevel sets the level successful calls are logged at. Default: Info.
func WithLogLevel(level logger.Level) Option {
	return func(cfg *config) {
		if level.Valid() {
			cfg.level = level
		}
	}
}

// callRecord is the structured payload logged for every call.
type callRecord struct {
	Kind       string `json:"grpc_kind"`
	Service    string `json:"grpc_service"`
	Method     string `json:"grpc_method"`
	Code       string `json:"grpc_code"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func newConfig(opts []Option) *config {
	cfg := &config{level: logger.LevelInfo}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// splitMethodName extracts the service and method from a gRPC full method
// string of the form "/package.Service/Method".
func splitMethodName(fullMethod string) (service, method string) {
	if fullMethod == "" || fullMethod[0] != '/' {
		return unknownService, fullMethod
	}

	trimmed := fullMethod[1:]
	pos := 0

	for idx := range len(trimmed) {
		if trimmed[idx] == '/' {
			pos = idx

			break
		}
	}

	if pos == 0 {
		return unknownService, trimmed
	}

	return trimmed[:pos], trimmed[pos+1:]
}

// levelForCode logs caller mistakes at Warn and server-side failures at Error.
func levelForCode(code codes.Code, base logger.Level) logger.Level {
	switch code {
	case codes.OK:
		return base
	case codes.Canceled, codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.PermissionDenied, codes.Unauthenticated, codes.FailedPrecondition, codes.OutOfRange:
		if base > logger.LevelWarn {
			return logger.LevelWarn
		}
		return base
	default:
		return logger.LevelError
	}
}

func logCall(l logger.ILogger, cfg *config, kind, fullMethod string, start time.Time, err error) {
	service, method := splitMethodName(fullMethod)
	code := status.Code(err)

	rec := callRecord{
		Kind:       kind,
		Service:    service,
		Method:     method,
		Code:       code.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = status.Convert(err).Message()
	}

	l.LogValue(levelForCode(code, cfg.level), rec)
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that logs every unary RPC
// and attaches l to the handler context.
func UnaryServerInterceptor(l logger.ILogger, opts ...Option) grpc.UnaryServerInterceptor {
	cfg := newConfig(opts)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		resp, err := handler(logger.NewContextWithLogger(ctx, l), req)
		logCall(l, cfg, kindUnary, info.FullMethod, start, err)

		return resp, err
	}
}

// wrappedStream carries a context with the logger attached.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context //nolint:containedctx // overrides ServerStream.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that logs every streaming
// RPC once it completes and attaches l to the stream context.
func StreamServerInterceptor(l logger.ILogger, opts ...Option) grpc.StreamServerInterceptor {
	cfg := newConfig(opts)

	return func(
		srv any,
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		err := handler(srv, &wrappedStream{
			ServerStream: stream,
			ctx:          logger.NewContextWithLogger(stream.Context(), l),
		})
		logCall(l, cfg, kindStream, info.FullMethod, start, err)

		return err
	}
}

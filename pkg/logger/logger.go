package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	ServiceKey   contextKey = "service"
	ReferenceKey contextKey = "reference"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(New(os.Stdout, os.Getenv("LOG_LEVEL")))
}

// New builds a JSON logger writing to w. Only "debug" lowers the level below info.
func New(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if level == "debug" {
		opts.Level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault swaps the package logger and returns the previous one.
func SetDefault(l *slog.Logger) *slog.Logger {
	return defaultLogger.Swap(l)
}

// WithReference stores an inquiry reference code so later log lines carry it.
func WithReference(ctx context.Context, reference string) context.Context {
	return context.WithValue(ctx, ReferenceKey, reference)
}

func WithContext(ctx context.Context) *slog.Logger {
	logger := Default()

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		logger = logger.With("request_id", requestID)
	}

	if service := ctx.Value(ServiceKey); service != nil {
		logger = logger.With("service", service)
	}

	if reference := ctx.Value(ReferenceKey); reference != nil {
		logger = logger.With("reference", reference)
	}

	return logger
}

func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Info(msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Error(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Debug(msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Warn(msg, args...)
}

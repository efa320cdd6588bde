// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID keys one user action across the optimistic mutation, the remote
// call, and the settle/rollback that follows it.
const CorrelationID LogContextKey = "correlation_id"

// LoggingConfig defines which types of automated logging are enabled.
type LoggingConfig struct {
	EnableSyncLogging bool
	EnableAPILogging  bool
}

// Config holds the current logging configuration.
var Config = LoggingConfig{
	EnableSyncLogging: true,
	EnableAPILogging:  true,
}

// GenerateCorrelationID creates a new unique correlation ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id := ctx.Value(CorrelationID); id != nil {
		return id.(string)
	}
	return ""
}

// SyncLogger provides structured logging for synchronizer operations.
type SyncLogger struct {
	component string
	logger    *Logger
}

// NewSyncLogger creates a SyncLogger for the given synchronizer component.
func NewSyncLogger(component string) *SyncLogger {
	return &SyncLogger{component: component, logger: GlobalLogger}
}

// LogApply logs the optimistic phase of one apply operation.
func (l *SyncLogger) LogApply(ctx context.Context, transition string, postID, userID uint) {
	if !Config.EnableSyncLogging {
		return
	}
	l.logger.InfoContext(ctx, "optimistic apply",
		slog.String("component", l.component),
		slog.String("transition", transition),
		slog.Uint64("post_id", uint64(postID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogSettle logs the resolution of one apply operation.
func (l *SyncLogger) LogSettle(ctx context.Context, transition string, postID uint, err error) {
	if !Config.EnableSyncLogging {
		return
	}
	attrs := []any{
		slog.String("component", l.component),
		slog.String("transition", transition),
		slog.Uint64("post_id", uint64(postID)),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.logger.WarnContext(ctx, "apply rolled back", attrs...)
		return
	}
	l.logger.InfoContext(ctx, "apply settled", attrs...)
}

// LogGuard logs an apply rejected before any state mutation.
func (l *SyncLogger) LogGuard(ctx context.Context, postID, userID uint, err error) {
	if !Config.EnableSyncLogging {
		return
	}
	l.logger.WarnContext(ctx, "apply rejected",
		slog.String("component", l.component),
		slog.Uint64("post_id", uint64(postID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// APILogger provides structured logging for remote store requests.
type APILogger struct {
	logger *Logger
}

// NewAPILogger creates a new APILogger.
func NewAPILogger() *APILogger {
	return &APILogger{logger: GlobalLogger}
}

// LogRequest logs one completed request.
func (l *APILogger) LogRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if !Config.EnableAPILogging {
		return
	}
	l.logger.InfoContext(ctx, "remote store request",
		slog.String("method", method),
		slog.String("route", route),
		slog.Int("status", status),
		slog.Duration("elapsed", elapsed),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogError logs a request that failed before producing a response.
func (l *APILogger) LogError(ctx context.Context, method, route string, err error) {
	if !Config.EnableAPILogging {
		return
	}
	l.logger.ErrorContext(ctx, "remote store request failed",
		slog.String("method", method),
		slog.String("route", route),
		slog.String("error", err.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key carrying the request correlation id.
const CorrelationID LogContextKey = "correlation_id"

// LoggingConfig defines which types of automated logging are enabled.
type LoggingConfig struct {
	EnableStoreLogging bool
}

// Config holds the current logging configuration.
var Config = LoggingConfig{
	EnableStoreLogging: true,
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
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// StoreLogger provides structured logging for one store collection.
type StoreLogger struct {
	collection string
	logger     *Logger
}

// NewStoreLogger creates a new StoreLogger for the given collection.
func NewStoreLogger(collection string) *StoreLogger {
	return &StoreLogger{
		collection: collection,
		logger:     GlobalLogger,
	}
}

func (l *StoreLogger) log(ctx context.Context, operation string, id int) {
	if !Config.EnableStoreLogging {
		return
	}
	l.logger.InfoContext(ctx, "store "+operation,
		slog.String("collection", l.collection),
		slog.String("operation", operation),
		slog.Int("id", id),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogCreate logs a store create operation.
func (l *StoreLogger) LogCreate(ctx context.Context, id int) { l.log(ctx, "create", id) }

// LogUpdate logs a store update operation.
func (l *StoreLogger) LogUpdate(ctx context.Context, id int) { l.log(ctx, "update", id) }

// LogDelete logs a store delete operation.
func (l *StoreLogger) LogDelete(ctx context.Context, id int) { l.log(ctx, "delete", id) }

// LogReaction logs a like or dislike.
func (l *StoreLogger) LogReaction(ctx context.Context, id int, reaction string) {
	if !Config.EnableStoreLogging {
		return
	}
	l.logger.InfoContext(ctx, "store reaction",
		slog.String("collection", l.collection),
		slog.String("operation", reaction),
		slog.Int("id", id),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogLoad logs a completed snapshot load.
func (l *StoreLogger) LogLoad(ctx context.Context, count, nextID int, found bool) {
	l.logger.InfoContext(ctx, "store loaded",
		slog.String("collection", l.collection),
		slog.Int("count", count),
		slog.Int("next_id", nextID),
		slog.Bool("snapshot_found", found),
	)
}

// LogError logs a store error. These are always emitted.
func (l *StoreLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "store error",
		slog.String("collection", l.collection),
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
		slog.String("error", err.Error()),
	)
}

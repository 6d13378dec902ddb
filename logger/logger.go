// ABOUTME: This file provides the slog-based structured logger for the service
// ABOUTME: Outputs JSON with lowercase level names and service metadata
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the package-level default. bootstrap.Run replaces it during
// startup; tests may swap it for a quiet logger.
var Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	OperationKey ContextKey = "operation"
)

// Config controls logger construction.
type Config struct {
	Level       string
	ServiceName string
}

// LoadConfigFromEnv reads logger configuration from environment variables.
func LoadConfigFromEnv() *Config {
	return &Config{
		Level:       getEnvOrDefault("LOG_LEVEL", "info"),
		ServiceName: getEnvOrDefault("SERVICE_NAME", "briefcard"),
	}
}

// New creates a *slog.Logger writing JSON to output.
func New(output io.Writer, cfg *Config) *slog.Logger {
	options := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if level, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: slog.LevelKey, Value: slog.StringValue(strings.ToLower(level.String()))}
				}
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, options)).With("service", cfg.ServiceName)
}

// Init builds the logger from the environment, installs it as the package
// default and returns it.
func Init() *slog.Logger {
	Logger = New(os.Stdout, LoadConfigFromEnv())
	return Logger
}

// WithOperation stores an operation name in the context for extraction by
// FromContext.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// WithRequestID stores a request id in the context for extraction by
// FromContext.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// FromContext returns log with any context-carried fields attached.
func FromContext(ctx context.Context, log *slog.Logger) *slog.Logger {
	var fields []any

	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		fields = append(fields, "request_id", requestID)
	}

	if operation := ctx.Value(OperationKey); operation != nil {
		fields = append(fields, "operation", operation)
	}

	if len(fields) > 0 {
		return log.With(fields...)
	}

	return log
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

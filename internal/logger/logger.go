package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cardkeeper/card-indexer/internal/domain"
)

var (
	// log is a no-op logger until Initialize is called
	log = zap.NewNop()

	sentryClient *sentry.Client
)

// Config holds logger configuration
type Config struct {
	Debug           bool
	SentryDSN       string
	Environment     string
	BreadcrumbLevel zapcore.Level
	Tags            map[string]string
}

// Initialize builds the global logger. Errors are also reported to Sentry
// when a DSN is configured.
func Initialize(cfg Config) error {
	zapConfig := zap.NewProductionConfig()
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	}

	base, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	if service, ok := cfg.Tags["service"]; ok {
		base = base.With(zap.String("service", service))
	}

	if cfg.SentryDSN == "" {
		log = base
		return nil
	}

	sentryClient, err = sentry.NewClient(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Debug:       cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("failed to create sentry client: %w", err)
	}

	breadcrumbLevel := cfg.BreadcrumbLevel
	if breadcrumbLevel == zapcore.InvalidLevel {
		breadcrumbLevel = zapcore.InfoLevel
	}

	core, err := zapsentry.NewCore(zapsentry.Configuration{
		Level:             zapcore.ErrorLevel,
		EnableBreadcrumbs: true,
		BreadcrumbLevel:   breadcrumbLevel,
		Tags:              cfg.Tags,
	}, zapsentry.NewSentryClientFromClient(sentryClient))
	if err != nil {
		return fmt.Errorf("failed to create sentry core: %w", err)
	}

	log = zapsentry.AttachCoreToLogger(core, base)
	return nil
}

// Flush flushes any buffered sentry events
func Flush(timeout time.Duration) {
	if sentryClient != nil {
		sentryClient.Flush(timeout)
	}
}

type loggerKey struct{}

// WithFields returns a context carrying a logger enriched with the given fields.
// The *Ctx helpers include them.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return context.WithValue(ctx, loggerKey{}, scoped(ctx).With(fields...))
}

func scoped(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return log
	}
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return log
}

// FromContext returns the context's logger with the sentry scope attached
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return log
	}
	return scoped(ctx).With(zapsentry.Context(ctx))
}

// Default returns the global logger
func Default() *zap.Logger {
	return log
}

// errorFields describes a classified failure
func errorFields(err error) []zap.Field {
	var e *domain.Error
	if !errors.As(err, &e) {
		return nil
	}
	fields := []zap.Field{zap.String("error_kind", string(e.Kind))}
	if e.SetName != "" {
		fields = append(fields, zap.String("set_name", e.SetName))
	}
	return fields
}

func logError(l *zap.Logger, err error, fields []zap.Field) {
	if err == nil {
		l.Error("error occurred", fields...)
		return
	}
	l.Error(err.Error(), append(errorFields(err), fields...)...)
}

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Warn(msg, fields...)
}

// Error logs err as the message. Classified errors carry their kind and set name.
func Error(err error, fields ...zap.Field) {
	logError(log, err, fields)
}

// ErrorCtx is Error with the context's logger
func ErrorCtx(ctx context.Context, err error, fields ...zap.Field) {
	logError(FromContext(ctx), err, fields)
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Debug(msg, fields...)
}

// Fatal logs and exits the process
func Fatal(msg string, fields ...zap.Field) {
	log.Fatal(msg, fields...)
}

// FatalCtx logs with the context's logger and exits the process
func FatalCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Fatal(msg, fields...)
}

package database

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/utafrali/phonebook/pkg/database"

// slowCommandCfg holds the configurable slow command logging settings.
var slowCommandCfg struct {
	mu        sync.RWMutex
	threshold time.Duration
	logger    *slog.Logger
}

// SetSlowCommandLogging configures slow command detection. Commands exceeding
// the threshold are logged as warnings with operation name, key, and
// duration. A zero threshold disables slow command logging.
func SetSlowCommandLogging(threshold time.Duration, logger *slog.Logger) {
	slowCommandCfg.mu.Lock()
	defer slowCommandCfg.mu.Unlock()
	slowCommandCfg.threshold = threshold
	slowCommandCfg.logger = logger
}

func getSlowCommandConfig() (time.Duration, *slog.Logger) {
	slowCommandCfg.mu.RLock()
	defer slowCommandCfg.mu.RUnlock()
	return slowCommandCfg.threshold, slowCommandCfg.logger
}

// TraceCommand starts a span for a Redis command and times it. The returned
// function must be called when the command completes (typically via defer):
//
//	ctx, end := database.TraceCommand(ctx, "get", key)
//	defer func() { end(err) }()
//
// The end function also records command metrics, and logs a warning when the
// command exceeded the threshold set with SetSlowCommandLogging.
func TraceCommand(ctx context.Context, operation, key string) (context.Context, func(error)) {
	start := time.Now()
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "redis."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.redis.key", key),
		),
	)

	return ctx, func(err error) {
		elapsed := time.Since(start)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		observeCommand(operation, elapsed, err)

		if threshold, logger := getSlowCommandConfig(); threshold > 0 && logger != nil && elapsed >= threshold {
			attrs := []any{
				slog.String("operation", operation),
				slog.String("key", key),
				slog.Duration("duration", elapsed),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			logger.WarnContext(ctx, "slow redis command detected", attrs...)
		}
	}
}

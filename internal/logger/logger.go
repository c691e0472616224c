package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"product-resource/internal/utils"

	"go.opentelemetry.io/otel/trace"
)

var (
	instance *slog.Logger
	level    = new(slog.LevelVar)
	once     sync.Once
)

// Instance returns the process-wide JSON logger on stdout. LOG_LEVEL
// (debug, info, warn, error) sets the starting threshold.
func Instance() *slog.Logger {
	once.Do(func() {
		if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
			level.Set(slog.LevelInfo)
		}
		instance = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	})
	return instance
}

// SetLevel changes the threshold of the running logger.
func SetLevel(l slog.Level) {
	Instance()
	level.Set(l)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, slog.LevelError, msg, attrs)
}

// emit writes one record locally and forwards it to the remote sink. Records
// below the threshold go nowhere.
func emit(ctx context.Context, lvl slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := Instance()
	if !log.Enabled(ctx, lvl) {
		return
	}
	attrs = withTrace(ctx, attrs)
	log.LogAttrs(ctx, lvl, msg, attrs...)
	sendLog(levelName(lvl), msg, attrs)
}

// withTrace tags attrs with the active span, if any, and the host.
func withTrace(ctx context.Context, attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs)+3)
	out = append(out, attrs...)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		out = append(out,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return append(out, slog.String("hostname", utils.Hostname()))
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

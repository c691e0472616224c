package tracer

import (
	"context"
	"log/slog"
	"sync"

	"product-resource/internal/config"
	"product-resource/internal/logger"
	"product-resource/internal/version"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

var (
	once         sync.Once
	shutdownFunc = func() {}
	initErr      error
)

var pyroLogrus = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}()

func newExporter(ctx context.Context, cfg *config.Config) (trace.SpanExporter, error) {
	if cfg.RemoteTraceRpcURI == "" {
		return stdouttrace.New()
	}
	return otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.RemoteTraceRpcURI),
		otlptracegrpc.WithCompressor("gzip"),
	)
}

// Instance sets up the global tracer provider and, when configured, the
// Pyroscope profiler. The returned func flushes pending spans.
func Instance(globalCtx context.Context, cfg *config.Config) (func(), error) {
	once.Do(func() {
		log := logger.Instance()

		exp, err := newExporter(globalCtx, cfg)
		if err != nil {
			log.Error("Failed to create trace exporter", slog.String("error", err.Error()))
			initErr = err
			return
		}

		res, err := resource.New(globalCtx,
			resource.WithAttributes(
				semconv.ServiceNameKey.String(cfg.AppName),
				semconv.ServiceVersionKey.String(version.Version),
				attribute.String("store.driver", cfg.StoreDriver),
			),
		)
		if err != nil {
			log.Error("Failed to create resource", slog.String("error", err.Error()))
			initErr = err
			return
		}

		tp := trace.NewTracerProvider(
			trace.WithBatcher(exp),
			trace.WithResource(res),
		)

		// Spans carry profile ids so Pyroscope can link back to them.
		otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp))
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

		log.Info("OpenTelemetry Tracer initialized", slog.Bool("stdout", cfg.RemoteTraceRpcURI == ""))

		if cfg.RemoteProfilingHttpURI != "" {
			_, err := pyroscope.Start(pyroscope.Config{
				ApplicationName: cfg.AppName,
				ServerAddress:   cfg.RemoteProfilingHttpURI,
				Logger:          pyroLogrus,
			})
			if err != nil {
				log.Error("Pyroscope failed to start", slog.String("error", err.Error()))
			} else {
				log.Info("Pyroscope started successfully")
			}
		}

		shutdownFunc = func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down tracer provider", slog.String("error", err.Error()))
			}
		}
	})

	return shutdownFunc, initErr
}

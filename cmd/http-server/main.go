package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-resource/internal/bootstrap"
	"product-resource/internal/config"
	handler "product-resource/internal/handler/http"
	"product-resource/internal/logger"
	middleware_http "product-resource/internal/middleware/http"
	"product-resource/internal/tracer"
	"product-resource/internal/version"
)

func main() {
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Instance()
	cfg := config.Instance()

	log.Info(cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	// OpenTelemetry + Pyroscope
	shutdown, err := tracer.Instance(globalCtx, cfg)
	if err != nil {
		log.Warn("Tracing disabled", slog.String("error", err.Error()))
	}
	defer shutdown()

	stores, err := bootstrap.OpenStores(globalCtx, cfg)
	if err != nil {
		log.Error("Failed to open store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stores.Close(context.Background())

	app, err := bootstrap.NewApp(globalCtx, cfg, stores)
	if err != nil {
		log.Error("Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := handler.NewRouter(handler.RouterDeps{
		Products: app.Products,
		Auth:     app.Auth,
		Sessions: app.Sessions,
		Health:   app.Health,
		ACL:      app.ACL,
	})

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      middleware_http.TraceMiddleware(globalCtx)(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server running", slog.String("addr", server.Addr), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-globalCtx.Done()
	log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

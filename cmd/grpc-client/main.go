package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"product-resource/internal/config"
	grpcHandler "product-resource/internal/handler/grpc"
	"product-resource/internal/logger"
	middleware_grpc "product-resource/internal/middleware/grpc"
	"product-resource/internal/tracer"
	"product-resource/internal/version"
)

func main() {
	interval := flag.Duration("interval", 2*time.Second, "delay between List calls")
	once := flag.Bool("once", false, "call List once and exit")
	cookie := flag.String("cookie", os.Getenv("SESSION_COOKIE"), "session cookie (name=value) sent as metadata")
	flag.Parse()

	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Instance()
	cfg := config.ClientInstance()

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	shutdown, _ := tracer.Instance(globalCtx, cfg)
	defer shutdown()

	conn, err := grpc.NewClient(
		cfg.ApiGrpcURI,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy":"round_robin"}`),
		grpc.WithUnaryInterceptor(middleware_grpc.UnaryClientTracingInterceptor()),
	)
	if err != nil {
		logger.Error(globalCtx, "Failed to connect to gRPC server",
			slog.String("error", err.Error()),
			slog.String("target", cfg.ApiGrpcURI),
		)
		os.Exit(1)
	}
	defer func() {
		logger.Info(globalCtx, "Closing gRPC connection")
		_ = conn.Close()
	}()

	client := grpcHandler.NewProductClient(conn)
	timeout := time.Duration(cfg.ClientTimeoutMs) * time.Millisecond

	logger.Info(globalCtx, "gRPC client started", slog.String("target", cfg.ApiGrpcURI))

	for {
		ctx, cancel := context.WithTimeout(grpcHandler.WithSession(globalCtx, *cookie), timeout)
		var trailer metadata.MD
		resp, err := client.List(ctx, grpc.Trailer(&trailer))
		cancel()

		traceID := "empty"
		if ids := trailer.Get("x-trace-id"); len(ids) > 0 {
			traceID = ids[0]
		}

		if err != nil {
			logger.Error(globalCtx, "Error calling List",
				slog.String("error", err.Error()),
				slog.String("trace_id", traceID),
			)
		} else {
			logger.Info(globalCtx, "Received products",
				slog.String("resolver", resp.Resolver),
				slog.String("trace_id", traceID),
				slog.Int("count", len(resp.Products)),
			)
		}

		if *once {
			return
		}
		select {
		case <-globalCtx.Done():
			logger.Info(globalCtx, "Shutting down gRPC client")
			return
		case <-time.After(*interval):
		}
	}
}

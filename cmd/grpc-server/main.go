package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"product-resource/internal/bootstrap"
	"product-resource/internal/config"
	grpcHandler "product-resource/internal/handler/grpc"
	"product-resource/internal/logger"
	middleware_grpc "product-resource/internal/middleware/grpc"
	"product-resource/internal/tracer"
	"product-resource/internal/version"
)

func main() {
	// Create cancellable context for graceful shutdown
	globalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Instance()
	cfg := config.Instance()

	isProduction := os.Getenv("ENV") == "production"

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
		slog.Bool("gracefulShutdown", isProduction),
	)

	shutdown, err := tracer.Instance(globalCtx, cfg)
	if err != nil {
		logger.Warn(globalCtx, "Tracing disabled", slog.String("error", err.Error()))
	}
	defer shutdown()

	stores, err := bootstrap.OpenStores(globalCtx, cfg)
	if err != nil {
		logger.Error(globalCtx, "Failed to open store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stores.Close(context.Background())

	app, err := bootstrap.NewApp(globalCtx, cfg, stores)
	if err != nil {
		logger.Error(globalCtx, "Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware_grpc.UnaryTracingInterceptor(),
			middleware_grpc.UnaryIdentityInterceptor(app.Sessions),
			middleware_grpc.UnaryPolicyInterceptor(app.ACL, grpcHandler.ProductRoutes()),
		),
	)
	grpcHandler.RegisterProductServiceServer(grpcServer, grpcHandler.NewProductGRPCHandler(app.Products))

	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		logger.Error(globalCtx, "failed to listen", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info(globalCtx, "gRPC server running", slog.String("port", cfg.GrpcPort))

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error(globalCtx, "failed to serve", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-globalCtx.Done()

	if !isProduction {
		logger.Info(globalCtx, "Received shutdown signal, stopping immediately")
		grpcServer.Stop()
		return
	}
	logger.Info(globalCtx, "Shutting down gRPC server")
	grpcServer.GracefulStop()
	logger.Info(globalCtx, "gRPC server exited cleanly")
}

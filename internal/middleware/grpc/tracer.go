package middleware_grpc

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"product-resource/internal/logger"
	"product-resource/internal/telemetry"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

var tracer = otel.Tracer("GrpcMiddleware")

// UnaryTracingInterceptor continues the caller's trace, logs both ends of the
// call, returns the trace id in the "x-trace-id" trailer and converts panics
// into codes.Internal.
func UnaryTracingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp any, err error) {
		md, _ := metadata.FromIncomingContext(ctx)
		ctx = otel.GetTextMapPropagator().Extract(ctx, telemetry.MetadataTextMapCarrier(md.Copy()))

		ctx, span := tracer.Start(ctx, info.FullMethod)
		defer span.End()

		_ = grpc.SetTrailer(ctx, metadata.Pairs("x-trace-id", span.SpanContext().TraceID().String()))

		attrs := logger.LogGRPCRequest(ctx, info.FullMethod, md, req, "incoming::request")
		if p, ok := peer.FromContext(ctx); ok {
			attrs = append(attrs, slog.String("grpc.remote", p.Addr.String()))
		}
		logger.Info(ctx, "GRPC", attrs...)

		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(ctx, "Recovered from panic",
					slog.String("error", fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				resp, err = nil, status.Error(codes.Internal, "Internal server error")
			}

			code := status.Code(err)
			if code != codes.OK {
				span.SetStatus(otelcodes.Error, code.String())
			}
			logger.Info(ctx, "GRPC", logger.LogGRPCResponse(ctx, info.FullMethod, code, resp, time.Since(start), "incoming::response")...)
		}()

		return handler(ctx, req)
	}
}

// UnaryClientTracingInterceptor starts a client span and injects its context
// into the outgoing metadata.
func UnaryClientTracingInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, span := tracer.Start(ctx, method)
		defer span.End()

		md, ok := metadata.FromOutgoingContext(ctx)
		if ok {
			md = md.Copy()
		} else {
			md = metadata.MD{}
		}
		otel.GetTextMapPropagator().Inject(ctx, telemetry.MetadataTextMapCarrier(md))
		ctx = metadata.NewOutgoingContext(ctx, md)

		logger.Info(ctx, "GRPC", logger.LogGRPCRequest(ctx, method, md, req, "outgoing::request")...)

		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		code := status.Code(err)
		if code != codes.OK {
			span.SetStatus(otelcodes.Error, code.String())
			reply = nil
		}
		logger.Info(ctx, "GRPC", logger.LogGRPCResponse(ctx, method, code, reply, time.Since(start), "outgoing::response")...)
		return err
	}
}

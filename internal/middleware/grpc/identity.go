package middleware_grpc

import (
	"context"
	"log/slog"

	"product-resource/internal/auth"
	"product-resource/internal/logger"
	"product-resource/internal/model"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// CookieIdentifier resolves a caller from raw Cookie header values.
type CookieIdentifier interface {
	IdentifyCookies(ctx context.Context, cookies []string) (*model.User, error)
}

// UnaryIdentityInterceptor reads the session from the "cookie" metadata, the
// same cookie the HTTP API issues.
func UnaryIdentityInterceptor(id CookieIdentifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		u, err := id.IdentifyCookies(ctx, md.Get("cookie"))
		if err != nil {
			logger.Warn(ctx, "Failed to resolve session user", slog.String("error", err.Error()))
			u = nil
		}
		return handler(auth.WithUser(ctx, u), req)
	}
}

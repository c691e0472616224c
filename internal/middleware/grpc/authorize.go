package middleware_grpc

import (
	"context"
	"log/slog"

	"product-resource/internal/auth"
	"product-resource/internal/logger"
	"product-resource/internal/policy"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Route is the HTTP resource and verb a gRPC method is checked as.
type Route struct {
	Resource string
	Verb     string
}

// UnaryPolicyInterceptor applies acl to the methods listed in routes.
// Methods missing from routes are passed through.
func UnaryPolicyInterceptor(acl *policy.ACL, routes map[string]Route) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		route, ok := routes[info.FullMethod]
		if !ok {
			return handler(ctx, req)
		}
		roles := policy.Roles(auth.UserFrom(ctx))
		if !acl.Allowed(roles, route.Resource, route.Verb) {
			logger.Warn(ctx, "Call denied by policy",
				slog.String("grpc.method", info.FullMethod),
				slog.Any("roles", roles),
			)
			return nil, status.Error(codes.PermissionDenied, "User is not authorized")
		}
		return handler(ctx, req)
	}
}

package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var allowedMD = map[string]bool{
	"content-type": true,
	"user-agent":   true,
	"x-trace-id":   true,
	"x-request-id": true,
	"traceparent":  true,
	"cookie":       true,
}

// MetadataAttrs converts gRPC metadata into []slog.Attr (grpc.header.*).
func MetadataAttrs(md metadata.MD) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(md))
	for k, vs := range md {
		lower := strings.ToLower(k)
		if !allowedMD[lower] {
			continue
		}
		v := strings.Join(vs, ", ")
		if secretHeaders[lower] {
			v = "***"
		}
		attrs = append(attrs, slog.String("grpc.header."+lower, v))
	}
	return attrs
}

// msgAttrs flattens a protobuf message, or any JSON-encodable value, under prefix.
func msgAttrs(prefix string, m interface{}) []slog.Attr {
	if m == nil {
		return nil
	}
	if pm, ok := m.(proto.Message); ok {
		if b, err := protojson.Marshal(pm); err == nil {
			a, _ := jsonAttrsWithPrefix(prefix, b)
			return a
		}
	}
	if b, err := json.Marshal(m); err == nil {
		a, _ := jsonAttrsWithPrefix(prefix, b)
		return a
	}
	return []slog.Attr{slog.String(prefix, redactIfNeeded(fmt.Sprintf("%v", m)))}
}

// LogGRPCRequest builds attrs for a unary request. fullMethod is "/package.Service/Method".
func LogGRPCRequest(ctx context.Context, fullMethod string, md metadata.MD, req interface{}, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("grpc.direction", direction),
		slog.String("grpc.method", fullMethod),
	}
	attrs = append(attrs, MetadataAttrs(md)...)
	attrs = append(attrs, msgAttrs("grpc.request", req)...)
	return attrs
}

func LogGRPCResponse(ctx context.Context, fullMethod string, code codes.Code, resp interface{}, duration time.Duration, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("grpc.direction", direction),
		slog.String("grpc.method", fullMethod),
		slog.String("grpc.code", code.String()),
		slog.Int64("grpc.duration_ms", duration.Milliseconds()),
	}
	attrs = append(attrs, msgAttrs("grpc.response", resp)...)
	return attrs
}

package telemetry

import "google.golang.org/grpc/metadata"

// MetadataTextMapCarrier lets the OpenTelemetry propagator read and write
// gRPC metadata. Keys are lower-cased by metadata.MD.
type MetadataTextMapCarrier metadata.MD

func (c MetadataTextMapCarrier) Get(key string) string {
	v := metadata.MD(c).Get(key)
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (c MetadataTextMapCarrier) Set(key string, value string) {
	metadata.MD(c).Set(key, value)
}

func (c MetadataTextMapCarrier) Keys() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	return out
}

package logger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
)

func attrMap(attrs []slog.Attr) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[a.Key] = a.Value.String()
	}
	return out
}

func TestHeaderAttrsRedactsSessionHeaders(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Cookie", "session=abc")
	hdr.Set("Content-Type", "application/json")
	hdr.Set("X-Internal", "dropped")

	got := attrMap(HeaderAttrs(hdr))
	if got["http.header.cookie"] != "***" {
		t.Errorf("cookie = %q, want redacted", got["http.header.cookie"])
	}
	if got["http.header.content-type"] != "application/json" {
		t.Errorf("content-type = %q", got["http.header.content-type"])
	}
	if _, ok := got["http.header.x-internal"]; ok {
		t.Error("unexpected header logged")
	}
}

func TestLogHTTPRequestKeepsBodyReadable(t *testing.T) {
	body := `{"usernameOrEmail":"admin","password":"hunter2","tags":["a","b","c"]}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/signin?x=1", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	got := attrMap(LogHTTPRequest(r.Context(), r, "incoming::request"))
	if got["http.body.password"] != "***" {
		t.Errorf("password = %q, want redacted", got["http.body.password"])
	}
	if got["http.body.usernameOrEmail"] != "admin" {
		t.Errorf("usernameOrEmail = %q", got["http.body.usernameOrEmail"])
	}
	if got["http.body.tags.0"] != "a" || got["http.body.tags.2"] != "c" {
		t.Errorf("tags not trimmed to first/last: %v", got)
	}
	if _, ok := got["http.body.tags.1"]; ok {
		t.Error("middle array element should be skipped")
	}
	if got["http.query.x"] != "1" {
		t.Errorf("query = %q", got["http.query.x"])
	}

	rest, _ := io.ReadAll(r.Body)
	if string(rest) != body {
		t.Errorf("body not restored: %q", rest)
	}
}

func TestCaptureBodySamplesLargeBody(t *testing.T) {
	body := strings.Repeat("a", MaxBodyLogged) + "tail"
	r := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))

	sample, err := CaptureBody(r)
	if err != nil {
		t.Fatalf("CaptureBody: %v", err)
	}
	if len(sample) != MaxBodyLogged {
		t.Errorf("sample length = %d, want %d", len(sample), MaxBodyLogged)
	}

	rest, _ := io.ReadAll(r.Body)
	if len(rest) != len(body) || !strings.HasSuffix(string(rest), "tail") {
		t.Errorf("handler sees %d bytes, want %d", len(rest), len(body))
	}
	if err := r.Body.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestDecodeBodyBinary(t *testing.T) {
	big := strings.Repeat("x", 300)
	got := attrMap(mustDecode(t, "application/octet-stream", []byte(big)))
	if got["http.body.size_bytes"] != "300" {
		t.Errorf("size_bytes = %q", got["http.body.size_bytes"])
	}
}

func mustDecode(t *testing.T, ct string, b []byte) []slog.Attr {
	t.Helper()
	attrs, err := DecodeBody(ct, b)
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	return attrs
}

func TestGRPCAttrs(t *testing.T) {
	md := metadata.Pairs("cookie", "session=abc", "user-agent", "grpc-go")
	got := attrMap(LogGRPCRequest(context.Background(), "/productresource.ProductService/List", md, &emptypb.Empty{}, "incoming::request"))
	if got["grpc.header.cookie"] != "***" {
		t.Errorf("cookie = %q", got["grpc.header.cookie"])
	}
	if got["grpc.method"] != "/productresource.ProductService/List" {
		t.Errorf("method = %q", got["grpc.method"])
	}

	resp := map[string]any{"title": "T", "content": "C"}
	got = attrMap(msgAttrs("grpc.response", resp))
	if got["grpc.response.title"] != "T" {
		t.Errorf("title = %q", got["grpc.response.title"])
	}
}

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-resource/internal/model"
)

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("insert product: %w", errors.New("connection refused by 10.0.0.7:27017")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := messageOf(t, rec); msg != "Internal server error" {
		t.Errorf("message = %q", msg)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		want  error
		title string
	}{
		{"single value", `{"title":"T"}`, nil, "T"},
		{"trailing whitespace", "{\"title\":\"T\"}\n  ", nil, "T"},
		{"empty body", "", nil, ""},
		{"trailing garbage", `{"title":"T"}xyz`, errBadPayload, ""},
		{"second value", `{"title":"T"}{"title":"U"}`, errBadPayload, ""},
		{"truncated", `{"title":`, errBadPayload, ""},
		{"oversized", `{"title":"` + strings.Repeat("x", maxPayloadBytes) + `"}`, errPayloadTooLarge, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tt.body))
			var in model.ProductInput
			err := decodeJSON(httptest.NewRecorder(), r, &in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.want == nil && in.Title != tt.title {
				t.Errorf("title = %q, want %q", in.Title, tt.title)
			}
		})
	}
}

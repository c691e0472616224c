package config

import (
	"errors"
	"log/slog"
	"testing"
)

func TestLoadServerProfileMongo(t *testing.T) {
	t.Setenv("APP_NAME", "product-resource")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "products")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("CLIENT_TIMEOUT_MS", "")

	cfg, err := Load(ServerProfile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, StoreMongo)
	}
	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q, want default 8080", cfg.AppPort)
	}
	if cfg.ClientTimeoutMs != 3000 {
		t.Errorf("ClientTimeoutMs = %d, want 3000", cfg.ClientTimeoutMs)
	}
}

func TestLoadReportsMissing(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := Load(ServerProfile)
	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingError", err)
	}
	want := []string{"APP_NAME", "POSTGRES_DSN", "SESSION_SECRET", "ADMIN_USERNAME/ADMIN_PASSWORD"}
	if len(missing.Missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing.Missing, want)
	}
	for i := range want {
		if missing.Missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, missing.Missing[i], want[i])
		}
	}
}

func TestLoadClientProfileSkipsServerVars(t *testing.T) {
	t.Setenv("APP_NAME", "product-cli")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("API_HTTP_URI", "http://api:8080")

	cfg, err := Load(ClientProfile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ApiHttpURI != "http://api:8080" {
		t.Errorf("ApiHttpURI = %q", cfg.ApiHttpURI)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("APP_NAME", "x")
	t.Setenv("STORE_DRIVER", "cassandra")

	if _, err := Load(ServerProfile); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestStructAttrsUsesJSONTags(t *testing.T) {
	cfg := &Config{AppName: "svc", MongoURI: "mongodb://user:pw@host", ClientTimeoutMs: 10}
	attrs := StructAttrs("data", cfg.ToSafeConfig())

	got := map[string]slog.Value{}
	for _, a := range attrs {
		got[a.Key] = a.Value
	}
	if got["data.app_name"].String() != "svc" {
		t.Errorf("data.app_name = %v", got["data.app_name"])
	}
	if got["data.client_timeout_ms"].Int64() != 10 {
		t.Errorf("data.client_timeout_ms = %v", got["data.client_timeout_ms"])
	}
	for k := range got {
		if k == "data.mongo_uri" || k == "data.session_secret" {
			t.Errorf("unsafe key %q logged", k)
		}
	}
}

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"AppName":     "app_name",
		"MongoURI":    "mongo_u_r_i",
		"already_low": "already_low",
	}
	for in, want := range cases {
		if got := toSnake(in); got != want {
			t.Errorf("toSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"product-resource/internal/logger"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Profile selects which variables are required.
type Profile int

const (
	ServerProfile Profile = iota
	ClientProfile
)

type Config struct {
	AppPort                string
	AppName                string
	GrpcPort               string
	StoreDriver            string
	MongoURI               string
	MongoDBName            string
	PostgresDSN            string
	SessionSecret          string
	AdminUsername          string
	AdminPassword          string
	AdminDisplayName       string
	ApiHttpURI             string
	ApiGrpcURI             string
	ClientTimeoutMs        int64
	RemoteLogHttpURI       string
	RemoteTraceRpcURI      string
	RemoteProfilingHttpURI string
}

// SafeConfig is what gets logged: no URIs with credentials, no secrets.
type SafeConfig struct {
	AppPort                string `json:"app_port"`
	AppName                string `json:"app_name"`
	GrpcPort               string `json:"grpc_port"`
	StoreDriver            string `json:"store_driver"`
	MongoDBName            string `json:"mongo_db_name"`
	AdminUsername          string `json:"admin_username"`
	ApiHttpURI             string `json:"api_http_uri"`
	ApiGrpcURI             string `json:"api_grpc_uri"`
	ClientTimeoutMs        int64  `json:"client_timeout_ms"`
	RemoteLogHttpURI       string `json:"remote_log_http_uri"`
	RemoteTraceRpcURI      string `json:"remote_trace_rpc_uri"`
	RemoteProfilingHttpURI string `json:"remote_profiling_http_uri"`
}

// MissingError lists required variables that were not set.
type MissingError struct {
	Missing []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Missing, ", "))
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "3001"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := prefix + "." + jsonKey(f)

		switch v.Field(i).Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, v.Field(i).String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, v.Field(i).Int()))
		default:
			attrs = append(attrs, slog.Any(key, v.Field(i).Interface()))
		}
	}
	return attrs
}

// json tag name if present, snake_case of the field name otherwise
func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppPort:                c.AppPort,
		AppName:                c.AppName,
		GrpcPort:               c.GrpcPort,
		StoreDriver:            c.StoreDriver,
		MongoDBName:            c.MongoDBName,
		AdminUsername:          c.AdminUsername,
		ApiHttpURI:             c.ApiHttpURI,
		ApiGrpcURI:             c.ApiGrpcURI,
		ClientTimeoutMs:        c.ClientTimeoutMs,
		RemoteLogHttpURI:       c.RemoteLogHttpURI,
		RemoteTraceRpcURI:      c.RemoteTraceRpcURI,
		RemoteProfilingHttpURI: c.RemoteProfilingHttpURI,
	}
}

var log = logger.Instance()
var (
	serverInstance *Config
	serverOnce     sync.Once
	clientInstance *Config
	clientOnce     sync.Once
)

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func setInt64(varName string, fallback int64) int64 {
	val := os.Getenv(varName)
	if val == "" {
		return fallback
	}

	num, err := strconv.ParseInt(val, 10, 64)
	if err != nil || num <= 0 {
		log.Warn("Invalid integer variable, using default",
			slog.String("name", varName),
			slog.String("value", val),
			slog.Int64("default", fallback),
		)
		return fallback
	}

	return num
}

// Load reads the process environment. It does not touch .env files.
func Load(profile Profile) (*Config, error) {
	cfg := &Config{
		AppPort:                getenv("APP_PORT", "8080"),
		AppName:                os.Getenv("APP_NAME"),
		GrpcPort:               getenv("GRPC_PORT", "50051"),
		StoreDriver:            strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),
		MongoURI:               os.Getenv("MONGO_URI"),
		MongoDBName:            os.Getenv("MONGO_DB_NAME"),
		PostgresDSN:            os.Getenv("POSTGRES_DSN"),
		SessionSecret:          os.Getenv("SESSION_SECRET"),
		AdminUsername:          os.Getenv("ADMIN_USERNAME"),
		AdminPassword:          os.Getenv("ADMIN_PASSWORD"),
		AdminDisplayName:       getenv("ADMIN_DISPLAY_NAME", "Administrator"),
		ApiHttpURI:             getenv("API_HTTP_URI", "http://localhost:8080"),
		ApiGrpcURI:             getenv("API_GRPC_URI", "localhost:50051"),
		ClientTimeoutMs:        setInt64("CLIENT_TIMEOUT_MS", 3000),
		RemoteLogHttpURI:       os.Getenv("REMOTE_LOG_HTTP_URI"),
		RemoteTraceRpcURI:      os.Getenv("REMOTE_TRACE_RPC_URI"),
		RemoteProfilingHttpURI: os.Getenv("REMOTE_PROFILING_HTTP_URI"),
	}

	var missing []string
	if cfg.AppName == "" {
		missing = append(missing, "APP_NAME")
	}

	if profile == ServerProfile {
		switch cfg.StoreDriver {
		case StoreMongo:
			if cfg.MongoURI == "" {
				missing = append(missing, "MONGO_URI")
			}
			if cfg.MongoDBName == "" {
				missing = append(missing, "MONGO_DB_NAME")
			}
		case StorePostgres:
			if cfg.PostgresDSN == "" {
				missing = append(missing, "POSTGRES_DSN")
			}
		case StoreMemory:
		default:
			return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
		}
		if cfg.SessionSecret == "" {
			missing = append(missing, "SESSION_SECRET")
		}
		if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
			missing = append(missing, "ADMIN_USERNAME/ADMIN_PASSWORD")
		}
	}

	if len(missing) > 0 {
		return nil, &MissingError{Missing: missing}
	}
	return cfg, nil
}

func load(profile Profile) *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	cfg, err := Load(profile)
	if err != nil {
		log.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.RemoteLogHttpURI == "" {
		log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
	}
	if cfg.RemoteTraceRpcURI == "" {
		log.Warn("Missing REMOTE_TRACE_RPC_URI will export traces to stdout")
	}
	if cfg.RemoteProfilingHttpURI == "" {
		log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip sending profiling")
	}

	attrs := StructAttrs("data", cfg.ToSafeConfig())
	anyAttrs := make([]any, len(attrs))
	for i, a := range attrs {
		anyAttrs[i] = a
	}
	log.Info("Configuration loaded successfully", anyAttrs...)
	return cfg
}

// Instance is the server configuration singleton. Exits the process when invalid.
func Instance() *Config {
	serverOnce.Do(func() {
		serverInstance = load(ServerProfile)
	})
	return serverInstance
}

// ClientInstance is the configuration singleton for the client binaries.
func ClientInstance() *Config {
	clientOnce.Do(func() {
		clientInstance = load(ClientProfile)
	})
	return clientInstance
}

package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"product-resource/internal/logger"

	"go.opentelemetry.io/otel"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	checks map[string]Pinger
}

type HealthStatus struct {
	Overall    string
	Components map[string]string
}

var HealthServiceTracer = otel.Tracer("HealthService")

// NewHealthService checks every named dependency, e.g. {"mongodb": db}.
func NewHealthService(checks map[string]Pinger) *HealthService {
	return &HealthService{checks: checks}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, span := HealthServiceTracer.Start(ctx, "HealthService.Check")
	defer span.End()

	status := HealthStatus{Overall: "UP", Components: make(map[string]string, len(s.checks))}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.checks[name].Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Warn(ctx, "Health check failed",
				slog.String("component", name),
				slog.String("error", err.Error()),
			)
			status.Components[name] = "DOWN"
			status.Overall = "DOWN"
			continue
		}
		status.Components[name] = "UP"
	}

	return status
}

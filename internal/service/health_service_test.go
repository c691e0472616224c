package service

import (
	"context"
	"errors"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	status := NewHealthService(map[string]Pinger{"mongodb": up}).Check(context.Background())
	if status.Overall != "UP" || status.Components["mongodb"] != "UP" {
		t.Errorf("status = %+v", status)
	}

	status = NewHealthService(map[string]Pinger{"mongodb": up, "postgres": down}).Check(context.Background())
	if status.Overall != "DOWN" || status.Components["postgres"] != "DOWN" || status.Components["mongodb"] != "UP" {
		t.Errorf("status = %+v", status)
	}
}

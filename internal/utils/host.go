package utils

import (
	"os"
	"sync"
)

// Hostname identifies the process in logs and in gRPC List responses, where
// it tells a round-robin client which backend answered. Containers that
// hide the kernel hostname usually still export $HOSTNAME.
var Hostname = sync.OnceValue(func() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	if h := os.Getenv("HOSTNAME"); h != "" {
		return h
	}
	return "unknown"
})

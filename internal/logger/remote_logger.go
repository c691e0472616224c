package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

var (
	httpClient = &http.Client{Timeout: 5 * time.Second}
)

// sendLog pushes the entry to REMOTE_LOG_HTTP_URI in the background.
// Failures go to stderr only.
func sendLog(level, message string, attrs []slog.Attr) {
	remoteURI := os.Getenv("REMOTE_LOG_HTTP_URI")
	if remoteURI == "" {
		return
	}

	go func() {
		jsonData, err := json.Marshal(buildLogEntry(level, message, attrs))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal remote log entry: %v\n", err)
			return
		}

		req, err := http.NewRequest(http.MethodPost, remoteURI, bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create request for remote log: %v\n", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send to remote log: %v\n", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			fmt.Fprintf(os.Stderr, "Remote log returned error status: %d\n", resp.StatusCode)
		}
	}()
}

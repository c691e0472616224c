package logger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"
)

func jobName() string {
	if name := os.Getenv("APP_NAME"); name != "" {
		return name
	}
	return "product-resource"
}

// buildLogEntry wraps one log line in a Loki push payload.
func buildLogEntry(level, message string, attrs []slog.Attr) map[string]interface{} {
	return map[string]interface{}{
		"streams": []map[string]interface{}{
			{
				"stream": map[string]string{
					"level": level,
					"job":   jobName(),
				},
				"values": [][]string{
					{
						fmt.Sprintf("%d", time.Now().UnixNano()),
						buildLogLine(level, message, attrs),
					},
				},
			},
		},
	}
}

func buildLogLine(level, message string, attrs []slog.Attr) string {
	logData := map[string]interface{}{
		"level":   level,
		"message": message,
		"time":    time.Now().Format(time.RFC3339),
	}

	for _, attr := range attrs {
		logData[attr.Key] = attr.Value.Any()
	}

	jsonBytes, _ := json.Marshal(logData)
	return string(jsonBytes)
}

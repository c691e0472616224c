package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"product-resource/internal/logger"
)

// console prints notifications for the user and mirrors them to the log.
type console struct {
	out io.Writer
}

func (c console) Success(msg string) {
	fmt.Fprintln(c.out, msg)
	logger.Info(context.Background(), msg)
}

func (c console) Error(title, msg string) {
	fmt.Fprintf(c.out, "%s %s\n", title, msg)
	logger.Error(context.Background(), title, slog.String("message", msg))
}

func (c console) Broadcast(event string, arg any) {
	fmt.Fprintf(c.out, "%s: %v has invalid fields\n", event, arg)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"product-resource/internal/logger"
	"product-resource/internal/service"
)

type errorBody struct {
	Message string `json:"message"`
}

// maxPayloadBytes bounds request bodies read by decodeJSON.
const maxPayloadBytes = 1 << 20

var (
	errBadPayload      = errors.New("Invalid request payload")
	errPayloadTooLarge = errors.New("Request payload too large")
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

// writeError maps service errors to a status and a {"message"} body.
// Unexpected errors are logged and reported as 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusUnprocessableEntity, verr.Message)
	case errors.Is(err, errBadPayload), errors.Is(err, service.ErrInvalidID), errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errPayloadTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrNotAuthorized):
		writeMessage(w, http.StatusForbidden, err.Error())
	default:
		logger.Error(ctx, "Request failed", slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads exactly one JSON value from the body into v. An empty
// body leaves v zero.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return payloadError(err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return payloadError(err)
	}
	return nil
}

func payloadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errPayloadTooLarge
	}
	return errBadPayload
}

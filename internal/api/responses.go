package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "omnirag/console/internal/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse acknowledges a command that has no resource to return.
type StatusResponse struct {
	Status string `json:"status"`
}

// SendMessageRequest is the body of the streaming send endpoint.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=8000" example:"What is the refund policy?"`
}

// SetTokenRequest is the body of the token endpoint.
type SetTokenRequest struct {
	Token string `json:"token" validate:"required,printascii,max=4096" example:"eyJhbGciOi..."`
}

// EvidenceResponse reports whether selecting a message changed the evidence panel.
type EvidenceResponse struct {
	Selected bool `json:"selected"`
}

// SendResult is the last event of a send stream.
type SendResult struct {
	Kind   string `json:"kind" example:"send.finished"`
	Status string `json:"status" example:"ok" enums:"ok,superseded,cancelled"`
}

type errorMapping struct {
	target  error
	status  int
	message string // empty means the wrapped error text is safe to show
}

// Checked in order; anything unmatched is a 500 with a generic message.
var errorMappings = []errorMapping{
	{app_errors.ErrNotFound, http.StatusNotFound, "The requested resource was not found."},
	{app_errors.ErrValidation, http.StatusBadRequest, ""},
	{app_errors.ErrConflict, http.StatusConflict, "The request conflicts with the current conversation state."},
	{app_errors.ErrPermission, http.StatusForbidden, "The OmniRAG API denied access to this bot."},
	{app_errors.ErrUnauthorized, http.StatusUnauthorized, "The OmniRAG API rejected the access token."},
	{app_errors.ErrUnavailable, http.StatusBadGateway, "The OmniRAG API is unavailable."},
}

// respondWithError maps a service error onto an HTTP status and a client-safe message.
// The full error is only logged.
func respondWithError(w http.ResponseWriter, err error) {
	status, message := http.StatusInternalServerError, "An unexpected internal server error occurred."
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		status, message = m.status, m.message
		if message == "" {
			message = err.Error()
		}
		break
	}

	slog.Warn("Responding with error", "status_code", status, "client_message", message, "internal_error", err)
	respondWithJSON(w, status, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// writeFrame writes one SSE frame and flushes it. event may be empty.
func writeFrame(w http.ResponseWriter, event string, data []byte) error {
	var err error
	if event != "" {
		_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	} else {
		_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	}
	if err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// sendStreamError reports a failure inside an open event stream as an `error` event,
// so EventSource clients can listen for it separately from data frames.
func sendStreamError(w http.ResponseWriter, message string) {
	slog.Warn("Sending stream error to client", "message", message)
	data, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		slog.Error("Failed to marshal stream error payload", "error", err)
		return
	}
	if err := writeFrame(w, "error", data); err != nil {
		slog.Warn("Failed to write stream error, client might have disconnected", "error", err)
	}
}

// writeStreamEvent sends data as one SSE frame. A returned error means the client is gone;
// unmarshalable data is logged and skipped.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err, "type", fmt.Sprintf("%T", data))
		return nil
	}
	if err := writeFrame(w, "", payload); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}
	return nil
}

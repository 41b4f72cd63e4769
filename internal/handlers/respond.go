// Package handlers implements the JSON API endpoints for the ReelPrompt
// backend: auth, wizard drafts, prompt generation, multi-scene projects,
// history, continuity suggestions, and account/billing.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"reelprompt/internal/apperr"
)

// errorResponse is the JSON body sent for every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError maps an application error to its HTTP status and writes
// the JSON error body. Unrecognized errors become 500s with a generic
// message so internals never leak to the client.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, apperr.ErrAuthRequired):
		status = http.StatusUnauthorized
		message = apperr.ErrAuthRequired.Error()
	case errors.Is(err, apperr.ErrAuthentication):
		status = http.StatusUnauthorized
		message = apperr.ErrAuthentication.Error()
	case errors.Is(err, apperr.ErrUsageLimitExceeded):
		status = http.StatusTooManyRequests
		message = apperr.ErrUsageLimitExceeded.Error()
	case errors.Is(err, apperr.ErrSceneLimitExceeded):
		status = http.StatusConflict
		message = apperr.ErrSceneLimitExceeded.Error()
	case errors.Is(err, apperr.ErrInvalidIndex):
		status = http.StatusNotFound
		message = apperr.ErrInvalidIndex.Error()
	case errors.Is(err, apperr.ErrGenerationFailed):
		status = http.StatusBadGateway
		message = apperr.ErrGenerationFailed.Error()
	case errors.Is(err, apperr.ErrPersistenceFailed):
		status = http.StatusInternalServerError
		message = apperr.ErrPersistenceFailed.Error()
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	respondJSON(w, status, errorResponse{Error: message})
}

// respondBadRequest writes a 400 with the given message.
func respondBadRequest(w http.ResponseWriter, format string, args ...any) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf(format, args...)})
}

// decodeJSON parses the request body into v, limiting body size to 1 MiB.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

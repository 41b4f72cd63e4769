package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelprompt/internal/apperr"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"auth required", apperr.ErrAuthRequired, http.StatusUnauthorized},
		{"authentication", apperr.ErrAuthentication, http.StatusUnauthorized},
		{"usage limit", apperr.ErrUsageLimitExceeded, http.StatusTooManyRequests},
		{"scene limit", apperr.ErrSceneLimitExceeded, http.StatusConflict},
		{"invalid index", apperr.ErrInvalidIndex, http.StatusNotFound},
		{"generation failed", apperr.ErrGenerationFailed, http.StatusBadGateway},
		{"persistence failed", apperr.ErrPersistenceFailed, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
			ct := rec.Header().Get("Content-Type")
			if !strings.Contains(ct, "application/json") {
				t.Errorf("Content-Type: got %q, want application/json", ct)
			}
		})
	}
}

func TestRespondError_WrappedSentinelStillMaps(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, fmt.Errorf("saving scene 3: %w", apperr.ErrSceneLimitExceeded))
	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRespondError_UnknownErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("pq: connection refused on 10.0.0.3"))
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Error("internal error details leaked to the client")
	}
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tier":"creator","bogus":true}`))
	var body checkoutRequest
	if err := decodeJSON(req, &body); err == nil {
		t.Error("expected an error for unknown fields")
	}
}

func TestDecodeJSON_RejectsOversizedBody(t *testing.T) {
	huge := `{"tier":"` + strings.Repeat("x", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge))
	var body checkoutRequest
	if err := decodeJSON(req, &body); err == nil {
		t.Error("expected an error for a body over the size cap")
	}
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"brawlstars-tracker/internal/api"
	"brawlstars-tracker/internal/llm"
	"brawlstars-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MapError converts a domain or upstream error into an HTTP status and
// payload. Upstream status codes are folded into a small set the dashboard
// can act on.
func MapError(err error) (int, ErrorPayload) {
	var statusErr *api.StatusError
	switch {
	case errors.As(err, &statusErr):
		switch statusErr.Code {
		case http.StatusNotFound:
			return http.StatusNotFound, ErrorPayload{Error: "not_found", Message: "unknown tag"}
		case http.StatusTooManyRequests:
			return http.StatusServiceUnavailable, ErrorPayload{Error: "rate_limited", Message: "upstream API rate limit reached"}
		default:
			return http.StatusBadGateway, ErrorPayload{Error: "upstream_error"}
		}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, llm.ErrUnavailable):
		return http.StatusServiceUnavailable, ErrorPayload{Error: "analysis_unavailable"}
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_input", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status, payload := MapError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

package common

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
//
//nolint:gocritic // zerolog.Logger is passed by value by design of the library
func WriteJSON(logger zerolog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

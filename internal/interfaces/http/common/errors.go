package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	admindomain "github.com/prbeaches/directory/api/internal/admin/domain"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
	"github.com/prbeaches/directory/api/internal/validation"
)

// Error codes returned in the "code" field.
const (
	CodeNotFound          = "not_found"
	CodeUnknownCollection = "unknown_collection"
	CodeOutOfBounds       = "out_of_bounds"
	CodeNotPublishable    = "not_publishable"
	CodeValidation        = "validation_failed"
	CodeBadRequest        = "bad_request"
	CodeRateLimited       = "rate_limited"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeInternal          = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// WriteError maps err to a status code. Unclassified errors are logged and reported as a
// generic 500.
//
//nolint:gocritic // zerolog.Logger is passed by value by design of the library
func WriteError(logger zerolog.Logger, w http.ResponseWriter, err error) {
	var (
		verr *validation.Error
		rl   *publicapp.RateLimitError
	)
	switch {
	case errors.Is(err, domain.ErrUnknownCollection):
		WriteJSON(logger, w, http.StatusNotFound, ErrorResponse{Error: "collection not found", Code: CodeUnknownCollection})
	case errors.Is(err, domain.ErrBeachNotFound):
		WriteJSON(logger, w, http.StatusNotFound, ErrorResponse{Error: "beach not found", Code: CodeNotFound})
	case errors.Is(err, domain.ErrReviewNotFound):
		WriteJSON(logger, w, http.StatusNotFound, ErrorResponse{Error: "review not found", Code: CodeNotFound})
	case errors.Is(err, admindomain.ErrNotPublishable):
		WriteJSON(logger, w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeNotPublishable})
	case errors.Is(err, domain.ErrOutOfBounds), errors.Is(err, domain.ErrInvalidCoordinates):
		WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "coordinates are outside the service area", Code: CodeOutOfBounds})
	case errors.Is(err, ErrBadBody):
		WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeBadRequest})
	case errors.As(err, &verr):
		WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Code: CodeValidation, Fields: verr.Fields})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, admindomain.ErrInvalidActor):
		WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeBadRequest})
	case errors.As(err, &rl):
		if secs := int(rl.RetryAfter.Seconds()); secs > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
		WriteJSON(logger, w, http.StatusTooManyRequests, ErrorResponse{Error: "too many requests, try again later", Code: CodeRateLimited})
	default:
		logger.Error().Err(err).Msg("request failed")
		WriteJSON(logger, w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
	}
}

// WriteMessage writes an error body with an explicit status.
//
//nolint:gocritic // zerolog.Logger is passed by value by design of the library
func WriteMessage(logger zerolog.Logger, w http.ResponseWriter, status int, code, message string) {
	WriteJSON(logger, w, status, ErrorResponse{Error: message, Code: code})
}

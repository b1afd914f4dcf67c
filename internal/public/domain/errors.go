package domain

import "errors"

var (
	// ErrUnknownCollection is returned for a collection key that is not registered.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrBeachNotFound covers both missing and unpublished beaches.
	ErrBeachNotFound = errors.New("beach not found")
	// ErrInvalidCoordinates marks a latitude/longitude pair that is not a point on Earth.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrOutOfBounds marks coordinates outside the service area.
	ErrOutOfBounds = errors.New("coordinates outside service area")
	// ErrInvalidStatus rejects an unknown publish or moderation state.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrReviewNotFound is returned by moderation lookups.
	ErrReviewNotFound = errors.New("review not found")
)

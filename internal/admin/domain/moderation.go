package domain

import (
	"time"

	publicdomain "github.com/prbeaches/directory/api/internal/public/domain"
)

// StatusChange records a publish/unpublish transition.
type StatusChange struct {
	BeachID   string
	From      publicdomain.PublishState
	To        publicdomain.PublishState
	ChangedBy Actor
	ChangedAt time.Time
}

// Noop reports whether the beach already had the target state.
func (c StatusChange) Noop() bool {
	return c.From == c.To
}

// ModerationResult is the outcome of approving or rejecting a review together with the
// recomputed community aggregate of its beach.
type ModerationResult struct {
	Review    publicdomain.Review
	Community publicdomain.RatingFacet
	DecidedBy Actor
}

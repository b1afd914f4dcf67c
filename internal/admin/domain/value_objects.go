package domain

import (
	"errors"
	"fmt"
	"strings"

	publicdomain "github.com/prbeaches/directory/api/internal/public/domain"
)

var (
	// ErrInvalidActor rejects a missing or oversized admin subject.
	ErrInvalidActor = errors.New("invalid actor")
	// ErrNotPublishable marks a beach whose record is incomplete or invalid.
	ErrNotPublishable = errors.New("beach cannot be published")
)

// Actor is the authenticated admin subject performing a change.
type Actor string

func NewActor(value string) (Actor, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: actor is required", ErrInvalidActor)
	}
	if len(trimmed) > 128 {
		return "", fmt.Errorf("%w: actor too long", ErrInvalidActor)
	}
	return Actor(trimmed), nil
}

func (a Actor) String() string {
	return string(a)
}

// StatusFilter is an optional publish-state filter. The zero value matches every state.
type StatusFilter struct {
	state *publicdomain.PublishState
}

// NewStatusFilter parses a query value. Empty means "any".
func NewStatusFilter(value string) (StatusFilter, error) {
	if strings.TrimSpace(value) == "" {
		return StatusFilter{}, nil
	}
	state, err := publicdomain.ParsePublishState(value)
	if err != nil {
		return StatusFilter{}, err
	}
	return StatusFilter{state: &state}, nil
}

// State returns the filtered state, or false for "any".
func (f StatusFilter) State() (publicdomain.PublishState, bool) {
	if f.state == nil {
		return "", false
	}
	return *f.state, true
}

// ReviewStatusFilter is an optional moderation-state filter.
type ReviewStatusFilter struct {
	status *publicdomain.ReviewStatus
}

func NewReviewStatusFilter(value string) (ReviewStatusFilter, error) {
	if strings.TrimSpace(value) == "" {
		return ReviewStatusFilter{}, nil
	}
	status, err := publicdomain.ParseReviewStatus(value)
	if err != nil {
		return ReviewStatusFilter{}, err
	}
	return ReviewStatusFilter{status: &status}, nil
}

func (f ReviewStatusFilter) Status() (publicdomain.ReviewStatus, bool) {
	if f.status == nil {
		return "", false
	}
	return *f.status, true
}

// ReviewDecision is a terminal moderation outcome. Pending is not a decision.
type ReviewDecision publicdomain.ReviewStatus

func NewReviewDecision(value string) (ReviewDecision, error) {
	status, err := publicdomain.ParseReviewStatus(value)
	if err != nil {
		return "", err
	}
	if status == publicdomain.ReviewPending {
		return "", fmt.Errorf("%w: a review cannot be moved back to pending", publicdomain.ErrInvalidStatus)
	}
	return ReviewDecision(status), nil
}

func (d ReviewDecision) Status() publicdomain.ReviewStatus {
	return publicdomain.ReviewStatus(d)
}

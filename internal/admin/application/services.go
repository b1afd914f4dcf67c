package application

import (
	"context"
	"time"

	admindomain "github.com/prbeaches/directory/api/internal/admin/domain"
	publicdomain "github.com/prbeaches/directory/api/internal/public/domain"
)

// BeachRepository exposes admin operations on beaches in any publish state.
type BeachRepository interface {
	List(ctx context.Context, filter BeachFilter, paging Paging) ([]publicdomain.Beach, error)
	FindByID(ctx context.Context, id string) (*publicdomain.Beach, error)
	SetStatus(ctx context.Context, id string, status publicdomain.PublishState, at time.Time) error
	SetCommunityRating(ctx context.Context, id string, facet publicdomain.RatingFacet, at time.Time) error
}

// ReviewRepository exposes moderation operations on community reviews.
type ReviewRepository interface {
	List(ctx context.Context, filter ReviewFilter, paging Paging) ([]publicdomain.Review, error)
	FindByID(ctx context.Context, id string) (*publicdomain.Review, error)
	UpdateStatus(ctx context.Context, id string, status publicdomain.ReviewStatus, at time.Time) error
	ListByBeach(ctx context.Context, beachID string) ([]publicdomain.Review, error)
}

// BeachFilter expresses admin search criteria.
type BeachFilter struct {
	Status  admindomain.StatusFilter
	Keyword string
}

// ReviewFilter expresses moderation queue criteria.
type ReviewFilter struct {
	Status  admindomain.ReviewStatusFilter
	BeachID string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p Paging) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// BeachService describes admin beach use-cases.
type BeachService interface {
	List(ctx context.Context, filter BeachFilter, paging Paging) ([]publicdomain.Beach, error)
	Detail(ctx context.Context, id string) (*publicdomain.Beach, error)
	SetStatus(ctx context.Context, id string, cmd SetStatusCommand) (*admindomain.StatusChange, error)
}

// ReviewService describes moderation use-cases.
type ReviewService interface {
	List(ctx context.Context, filter ReviewFilter, paging Paging) ([]publicdomain.Review, error)
	Moderate(ctx context.Context, id string, cmd ModerateReviewCommand) (*admindomain.ModerationResult, error)
}

// SetStatusCommand publishes or unpublishes a beach.
type SetStatusCommand struct {
	Status string `json:"status" validate:"required,oneof=draft published"`
	Actor  string `json:"-" validate:"required"`
}

// ModerateReviewCommand approves or rejects a pending review.
type ModerateReviewCommand struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Actor  string `json:"-" validate:"required"`
}

package application

import (
	"context"
	"fmt"
	"time"

	admindomain "github.com/prbeaches/directory/api/internal/admin/domain"
	publicdomain "github.com/prbeaches/directory/api/internal/public/domain"
	"github.com/prbeaches/directory/api/internal/validation"
)

type reviewService struct {
	reviews ReviewRepository
	beaches BeachRepository
	now     func() time.Time
}

func NewReviewService(reviews ReviewRepository, beaches BeachRepository) ReviewService {
	return &reviewService{reviews: reviews, beaches: beaches, now: time.Now}
}

func (s *reviewService) List(ctx context.Context, filter ReviewFilter, paging Paging) ([]publicdomain.Review, error) {
	return s.reviews.List(ctx, filter, paging)
}

// Moderate records the decision and recomputes the beach's community facet from every
// approved review, so approving and later rejecting a review leaves no residue.
func (s *reviewService) Moderate(ctx context.Context, id string, cmd ModerateReviewCommand) (*admindomain.ModerationResult, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}
	decision, err := admindomain.NewReviewDecision(cmd.Status)
	if err != nil {
		return nil, err
	}
	actor, err := admindomain.NewActor(cmd.Actor)
	if err != nil {
		return nil, err
	}

	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if review.Status != decision.Status() {
		if err := s.reviews.UpdateStatus(ctx, review.ID, decision.Status(), now); err != nil {
			return nil, err
		}
		review.Status = decision.Status()
		review.UpdatedAt = now
	}

	all, err := s.reviews.ListByBeach(ctx, review.BeachID)
	if err != nil {
		return nil, fmt.Errorf("load reviews for %s: %w", review.BeachID, err)
	}
	community := publicdomain.CommunityAggregate(all)
	if err := s.beaches.SetCommunityRating(ctx, review.BeachID, community, now); err != nil {
		return nil, fmt.Errorf("update community rating for %s: %w", review.BeachID, err)
	}

	return &admindomain.ModerationResult{Review: *review, Community: community, DecidedBy: actor}, nil
}

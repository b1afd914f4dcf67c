package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prbeaches/directory/api/internal/public/domain"
	"github.com/prbeaches/directory/api/internal/validation"
)

// NewReviewCommandService creates the review submission use-case.
func NewReviewCommandService(beaches BeachRepository, reviews ReviewRepository) ReviewCommandService {
	return &reviewCommandService{beaches: beaches, reviews: reviews, now: time.Now}
}

type reviewCommandService struct {
	beaches BeachRepository
	reviews ReviewRepository
	now     func() time.Time
}

// Submit stores a pending review. Only published beaches accept reviews.
func (s *reviewCommandService) Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error) {
	cmd.AuthorName = strings.TrimSpace(cmd.AuthorName)
	cmd.Comment = strings.TrimSpace(cmd.Comment)
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	beach, err := s.beaches.FindByIDOrSlug(ctx, cmd.BeachID)
	if err != nil {
		return nil, err
	}
	if !beach.Published() {
		return nil, domain.ErrBeachNotFound
	}

	now := s.now().UTC()
	review := &domain.Review{
		ID:         uuid.NewString(),
		BeachID:    beach.ID,
		AuthorID:   cmd.AuthorID,
		AuthorName: cmd.AuthorName,
		Rating:     cmd.Rating,
		Comment:    cmd.Comment,
		Status:     domain.ReviewPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("store review: %w", err)
	}
	return review, nil
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReviewStatus is the moderation state of a community review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ParseReviewStatus validates a raw moderation state.
func ParseReviewStatus(raw string) (ReviewStatus, error) {
	switch s := ReviewStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return s, nil
	}
	return "", fmt.Errorf("%w: review status %q", ErrInvalidStatus, raw)
}

// Review is a community-submitted rating of a beach.
type Review struct {
	ID         string
	BeachID    string
	AuthorID   string
	AuthorName string
	Rating     int
	Comment    string
	Status     ReviewStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CommunityAggregate recomputes the community facet from approved reviews.
func CommunityAggregate(reviews []Review) RatingFacet {
	var sum, count int
	for _, r := range reviews {
		if r.Status != ReviewApproved {
			continue
		}
		sum += r.Rating
		count++
	}
	if count == 0 {
		return RatingFacet{}
	}
	avg := float64(sum) / float64(count)
	return RatingFacet{Value: &avg, Count: count}
}

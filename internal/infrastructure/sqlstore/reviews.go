package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

const reviewColumns = `id, beach_id, author_id, author_name, rating, comment, status, created_at, updated_at`

// ReviewRepository implements application.ReviewRepository on a relational store.
type ReviewRepository struct {
	store *Store
}

func NewReviewRepository(store *Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// Create inserts a review. A blank ID gets a fresh UUID.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if strings.TrimSpace(review.ID) == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	if review.UpdatedAt.IsZero() {
		review.UpdatedAt = review.CreatedAt
	}
	_, err := r.store.q().exec(ctx,
		`INSERT INTO reviews (`+reviewColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID, review.BeachID, review.AuthorID, review.AuthorName, review.Rating, review.Comment,
		string(review.Status), review.CreatedAt.UnixMilli(), review.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

// ListApproved returns the newest approved reviews of a beach.
func (r *ReviewRepository) ListApproved(ctx context.Context, beachID string, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 50
	}
	return selectReviews(ctx, r.store.q(),
		`SELECT `+reviewColumns+` FROM reviews WHERE beach_id = ? AND status = ? ORDER BY created_at DESC, id LIMIT ?`,
		beachID, string(domain.ReviewApproved), limit)
}

func selectReviews(ctx context.Context, q querier, query string, args ...any) ([]domain.Review, error) {
	rs, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rs.Close()

	reviews := make([]domain.Review, 0)
	for rs.Next() {
		review, err := scanReview(rs)
		if err != nil {
			return nil, fmt.Errorf("scanning review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rs.Err()
}

func scanReview(r row) (domain.Review, error) {
	var (
		review               domain.Review
		rating               int64
		status               string
		createdAt, updatedAt int64
	)
	if err := r.Scan(&review.ID, &review.BeachID, &review.AuthorID, &review.AuthorName, &rating,
		&review.Comment, &status, &createdAt, &updatedAt); err != nil {
		return domain.Review{}, err
	}
	review.Rating = int(rating)
	review.Status = domain.ReviewStatus(status)
	review.CreatedAt = time.UnixMilli(createdAt).UTC()
	review.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return review, nil
}

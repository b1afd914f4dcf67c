package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	adminapp "github.com/prbeaches/directory/api/internal/admin/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

const (
	defaultAdminLimit = 50
	maxAdminLimit     = 200
)

// AdminBeachRepository is the moderation view of the beaches table.
type AdminBeachRepository struct {
	store *Store
}

func NewAdminBeachRepository(store *Store) *AdminBeachRepository {
	return &AdminBeachRepository{store: store}
}

// List returns beaches in any publish state, most recently updated first.
func (r *AdminBeachRepository) List(ctx context.Context, filter adminapp.BeachFilter, paging adminapp.Paging) ([]domain.Beach, error) {
	var (
		where []string
		args  []any
	)
	if state, ok := filter.Status.State(); ok {
		where = append(where, "b.status = ?")
		args = append(args, string(state))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
		where = append(where, `(LOWER(b.name) LIKE ? ESCAPE '\' OR LOWER(b.slug) LIKE ? ESCAPE '\' OR LOWER(b.municipality) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + beachColumns + ` FROM beaches b`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	limit := clampAdminLimit(paging.Limit)
	query += ` ORDER BY b.updated_at DESC, b.name LIMIT ? OFFSET ?`
	args = append(args, limit, adminapp.Paging{Page: paging.Page, Limit: limit}.Offset())

	return r.store.selectBeaches(ctx, r.store.q(), query, args...)
}

// FindByID returns a beach by primary key.
func (r *AdminBeachRepository) FindByID(ctx context.Context, id string) (*domain.Beach, error) {
	beaches, err := r.store.selectBeaches(ctx, r.store.q(), `SELECT `+beachColumns+` FROM beaches b WHERE b.id = ?`, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if len(beaches) == 0 {
		return nil, domain.ErrBeachNotFound
	}
	return &beaches[0], nil
}

// SetStatus publishes or unpublishes a beach.
func (r *AdminBeachRepository) SetStatus(ctx context.Context, id string, status domain.PublishState, at time.Time) error {
	n, err := r.store.q().exec(ctx, `UPDATE beaches SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), at.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("updating status of %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrBeachNotFound
	}
	return nil
}

// SetCommunityRating overwrites the community facet.
func (r *AdminBeachRepository) SetCommunityRating(ctx context.Context, id string, facet domain.RatingFacet, at time.Time) error {
	n, err := r.store.q().exec(ctx, `UPDATE beaches SET community_rating = ?, community_count = ?, updated_at = ? WHERE id = ?`,
		facet.Value, facet.Count, at.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("updating community rating of %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrBeachNotFound
	}
	return nil
}

// AdminReviewRepository handles the moderation queue.
type AdminReviewRepository struct {
	store *Store
}

func NewAdminReviewRepository(store *Store) *AdminReviewRepository {
	return &AdminReviewRepository{store: store}
}

// List returns reviews oldest first.
func (r *AdminReviewRepository) List(ctx context.Context, filter adminapp.ReviewFilter, paging adminapp.Paging) ([]domain.Review, error) {
	var (
		where []string
		args  []any
	)
	if status, ok := filter.Status.Status(); ok {
		where = append(where, "status = ?")
		args = append(args, string(status))
	}
	if beachID := strings.TrimSpace(filter.BeachID); beachID != "" {
		where = append(where, "beach_id = ?")
		args = append(args, beachID)
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	limit := clampAdminLimit(paging.Limit)
	query += ` ORDER BY created_at, id LIMIT ? OFFSET ?`
	args = append(args, limit, adminapp.Paging{Page: paging.Page, Limit: limit}.Offset())

	return selectReviews(ctx, r.store.q(), query, args...)
}

// FindByID returns a single review.
func (r *AdminReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	review, err := scanReview(r.store.q().queryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, strings.TrimSpace(id)))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

// UpdateStatus records a moderation decision.
func (r *AdminReviewRepository) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus, at time.Time) error {
	n, err := r.store.q().exec(ctx, `UPDATE reviews SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), at.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("updating review %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// ListByBeach returns every review of a beach regardless of status.
func (r *AdminReviewRepository) ListByBeach(ctx context.Context, beachID string) ([]domain.Review, error) {
	return selectReviews(ctx, r.store.q(),
		`SELECT `+reviewColumns+` FROM reviews WHERE beach_id = ? ORDER BY created_at, id`, beachID)
}

// RecalculateCommunity rebuilds a beach's community facet with one aggregate query.
func (r *AdminReviewRepository) RecalculateCommunity(ctx context.Context, beachID string) (domain.RatingFacet, error) {
	var facet domain.RatingFacet
	err := r.store.withTx(ctx, func(q querier) error {
		var (
			count int64
			avg   *float64
		)
		if err := q.queryRow(ctx, `SELECT COUNT(*), AVG(rating) FROM reviews WHERE beach_id = ? AND status = ?`,
			beachID, string(domain.ReviewApproved)).Scan(&count, &avg); err != nil {
			return fmt.Errorf("aggregating reviews of %s: %w", beachID, err)
		}
		facet = domain.RatingFacet{Value: avg, Count: int(count)}

		n, err := q.exec(ctx, `UPDATE beaches SET community_rating = ?, community_count = ?, updated_at = ? WHERE id = ?`,
			facet.Value, facet.Count, time.Now().UTC().UnixMilli(), beachID)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrBeachNotFound
		}
		return nil
	})
	return facet, err
}

func clampAdminLimit(limit int) int {
	if limit <= 0 {
		return defaultAdminLimit
	}
	return min(limit, maxAdminLimit)
}

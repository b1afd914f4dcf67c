package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/prbeaches/directory/api/internal/metrics"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

// DetailReviewLimit bounds the approved reviews attached to a detail response.
const DetailReviewLimit = 10

type discoveryService struct {
	repo      BeachRepository
	reviews   ReviewRepository
	registry  *CollectionRegistry
	resolver  *CollectionResolver
	estimator domain.CrowdEstimator
	limits    Limits
	now       func() time.Time
}

// DiscoveryConfig wires a DiscoveryService.
type DiscoveryConfig struct {
	Beaches     BeachRepository
	Reviews     ReviewRepository
	Collections *CollectionRegistry
	Estimator   domain.CrowdEstimator
	Limits      Limits
	Clock       func() time.Time
}

// NewDiscoveryService creates the discovery orchestrator.
func NewDiscoveryService(cfg DiscoveryConfig) DiscoveryService {
	registry := cfg.Collections
	if registry == nil {
		registry = MustCollectionRegistry()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &discoveryService{
		repo:      cfg.Beaches,
		reviews:   cfg.Reviews,
		registry:  registry,
		resolver:  NewCollectionResolver(registry, cfg.Beaches),
		estimator: cfg.Estimator,
		limits:    cfg.Limits,
		now:       clock,
	}
}

func (s *discoveryService) Discover(ctx context.Context, req DiscoveryRequest) (DiscoveryResult, error) {
	start := time.Now()
	if err := checkOrigin(req.Origin); err != nil {
		return DiscoveryResult{}, err
	}

	criteria := withoutUnusableDistance(req.Criteria, req.Origin)
	beaches, err := fetchMatches(ctx, s.repo, criteria, req.Origin)
	if err != nil {
		return DiscoveryResult{}, fmt.Errorf("discover beaches: %w", err)
	}

	result := s.assemble(beaches, criteria, req)
	metrics.ObserveDiscovery("filter", string(result.View), result.Total, time.Since(start))
	return result, nil
}

func (s *discoveryService) DiscoverCollection(ctx context.Context, key string, req DiscoveryRequest) (DiscoveryResult, error) {
	start := time.Now()
	if err := checkOrigin(req.Origin); err != nil {
		return DiscoveryResult{}, err
	}

	res, err := s.resolver.Resolve(ctx, key, req.Criteria, req.Origin)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCollection) {
			return DiscoveryResult{}, err
		}
		return DiscoveryResult{}, fmt.Errorf("resolve collection %q: %w", key, err)
	}

	req.Origin = res.Origin
	result := s.assemble(res.Beaches, res.Criteria, req)
	def := res.Definition
	result.Collection = &def
	result.ContextFallback = res.ContextFallback
	metrics.ObserveDiscovery("collection", string(result.View), result.Total, time.Since(start))
	return result, nil
}

func (s *discoveryService) Detail(ctx context.Context, idOrSlug string) (*BeachDetail, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, domain.ErrBeachNotFound
	}
	beach, err := s.repo.FindByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, domain.ErrBeachNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load beach %q: %w", idOrSlug, err)
	}
	if beach == nil || !beach.Published() {
		return nil, domain.ErrBeachNotFound
	}

	detail := &BeachDetail{Beach: *beach, Rating: domain.RatingFor(*beach)}
	if s.reviews != nil {
		reviews, err := s.reviews.ListApproved(ctx, beach.ID, DetailReviewLimit)
		if err != nil {
			return nil, fmt.Errorf("load reviews for %q: %w", beach.ID, err)
		}
		detail.Reviews = reviews
	}
	return detail, nil
}

func (s *discoveryService) Collections() []domain.CollectionDefinition {
	return s.registry.All()
}

// assemble sorts, caps and annotates matches.
func (s *discoveryService) assemble(beaches []domain.Beach, criteria domain.FilterCriteria, req DiscoveryRequest) DiscoveryResult {
	view := req.View
	if view == "" {
		view = ViewList
	}

	sorted := slices.Clone(beaches)
	slices.SortStableFunc(sorted, comparatorFor(criteria.Sort(), req.Origin))

	capLimit := s.limits.capFor(view)
	limit := criteria.Limit()
	if limit <= 0 || limit > capLimit {
		limit = capLimit
	}
	page := criteria.Page()
	start := len(sorted)
	if pages := (len(sorted) + limit - 1) / limit; page-1 < pages {
		start = (page - 1) * limit
	}
	end := min(start+limit, len(sorted))
	window := sorted[start:end]

	var crowd map[string]domain.CrowdEstimate
	if req.IncludeCrowd {
		ids := make([]string, 0, len(window))
		for _, b := range window {
			ids = append(ids, b.ID)
		}
		now := req.Now
		if now.IsZero() {
			now = s.now()
		}
		crowd = s.estimator.EstimateBatch(ids, now, req.CrowdHorizon)
	}

	items := make([]BeachResult, 0, len(window))
	for _, b := range window {
		item := BeachResult{Beach: b, Rating: domain.RatingFor(b)}
		if req.Origin != nil {
			d := domain.DistanceMeters(*req.Origin, b.Coordinates)
			item.DistanceMeters = &d
		}
		if est, ok := crowd[b.ID]; ok {
			item.Crowd = &est
		}
		items = append(items, item)
	}

	return DiscoveryResult{
		Items:    items,
		Total:    len(sorted),
		Page:     page,
		Limit:    limit,
		View:     view,
		Criteria: criteria,
		Origin:   req.Origin,
	}
}

func comparatorFor(key domain.SortKey, origin *domain.Coordinates) func(a, b domain.Beach) int {
	switch key {
	case domain.SortDistance:
		return domain.ByDistance(origin)
	case domain.SortRating:
		return func(a, b domain.Beach) int {
			ra, rb := domain.RatingFor(a), domain.RatingFor(b)
			if c := compareRatings(ra, rb); c != 0 {
				return c
			}
			return domain.ByName(a, b)
		}
	case domain.SortReviews:
		return func(a, b domain.Beach) int {
			ra, rb := domain.RatingFor(a), domain.RatingFor(b)
			if ra.Count != rb.Count {
				return rb.Count - ra.Count
			}
			return domain.ByName(a, b)
		}
	}
	return domain.ByName
}

// compareRatings orders rated beaches before unrated ones, highest first.
func compareRatings(a, b domain.ChosenRating) int {
	switch {
	case a.Present() && !b.Present():
		return -1
	case !a.Present() && b.Present():
		return 1
	case a.Value > b.Value:
		return -1
	case a.Value < b.Value:
		return 1
	}
	return 0
}

func checkOrigin(origin *domain.Coordinates) error {
	if origin != nil && !domain.ServiceArea.Contains(*origin) {
		return fmt.Errorf("%w: %.5f,%.5f", domain.ErrOutOfBounds, origin.Lat, origin.Lng)
	}
	return nil
}

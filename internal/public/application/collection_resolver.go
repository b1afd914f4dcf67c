package application

import (
	"context"
	"net/url"

	"github.com/prbeaches/directory/api/internal/metrics"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

// Resolution is the outcome of expanding a collection key.
type Resolution struct {
	Definition      domain.CollectionDefinition
	Criteria        domain.FilterCriteria
	Origin          *domain.Coordinates
	ContextFallback bool
	// Beaches are the matches before sorting and capping.
	Beaches []domain.Beach
}

// CollectionResolver expands a collection key into effective criteria and executes it,
// broadening at most once when the strict query is too sparse.
type CollectionResolver struct {
	registry *CollectionRegistry
	repo     BeachRepository
}

// NewCollectionResolver wires a resolver to its registry and datastore.
func NewCollectionResolver(registry *CollectionRegistry, repo BeachRepository) *CollectionResolver {
	return &CollectionResolver{registry: registry, repo: repo}
}

// ResolveParams composes refinements from raw parameters and resolves key.
func (r *CollectionResolver) ResolveParams(ctx context.Context, key string, params url.Values, origin *domain.Coordinates) (Resolution, error) {
	return r.Resolve(ctx, key, ComposeFilter(params), origin)
}

// Resolve merges request into the collection's base criteria and runs the query. A collection
// anchor replaces the visitor origin for distance filtering and ordering.
func (r *CollectionResolver) Resolve(ctx context.Context, key string, request domain.FilterCriteria, origin *domain.Coordinates) (Resolution, error) {
	def, err := r.registry.Lookup(key)
	if err != nil {
		return Resolution{}, err
	}

	if def.Anchor != nil {
		anchor := *def.Anchor
		origin = &anchor
	}
	criteria := withoutUnusableDistance(def.Refine(request), origin)

	beaches, err := fetchMatches(ctx, r.repo, criteria, origin)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Definition: def, Criteria: criteria, Origin: origin, Beaches: beaches}
	if len(beaches) >= def.MinResults || !def.Broadens(criteria) {
		return res, nil
	}

	broadened := def.Broaden(criteria)
	beaches, err = fetchMatches(ctx, r.repo, broadened, origin)
	if err != nil {
		return Resolution{}, err
	}
	metrics.CollectionFallbacks.WithLabelValues(def.Key).Inc()

	res.Criteria = broadened
	res.Beaches = beaches
	res.ContextFallback = true
	return res, nil
}

// withoutUnusableDistance clears the distance clause when there is no origin to measure from.
func withoutUnusableDistance(criteria domain.FilterCriteria, origin *domain.Coordinates) domain.FilterCriteria {
	if origin == nil {
		return criteria.Without(domain.ConstraintDistance)
	}
	return criteria
}

// fetchMatches performs the single datastore read for criteria and applies the distance
// constraint, which depends on the request origin rather than a stored column.
func fetchMatches(ctx context.Context, repo BeachRepository, criteria domain.FilterCriteria, origin *domain.Coordinates) ([]domain.Beach, error) {
	beaches, err := repo.FindPublished(ctx, criteria)
	if err != nil {
		return nil, err
	}

	maxKm := criteria.MaxDistanceKm()
	if maxKm <= 0 || origin == nil {
		return beaches, nil
	}
	limit := maxKm * 1000
	kept := make([]domain.Beach, 0, len(beaches))
	for _, b := range beaches {
		if domain.DistanceMeters(*origin, b.Coordinates) <= limit {
			kept = append(kept, b)
		}
	}
	return kept, nil
}

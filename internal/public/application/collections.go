package application

import (
	"fmt"
	"sort"

	"github.com/prbeaches/directory/api/internal/public/domain"
	"github.com/prbeaches/directory/api/internal/validation"
)

// CollectionRegistry maps collection keys to definitions. It is populated at startup and
// read-only afterwards, so lookups need no locking.
type CollectionRegistry struct {
	byKey map[string]domain.CollectionDefinition
	order []string
}

// NewCollectionRegistry validates and registers defs.
func NewCollectionRegistry(defs ...domain.CollectionDefinition) (*CollectionRegistry, error) {
	r := &CollectionRegistry{byKey: make(map[string]domain.CollectionDefinition, len(defs))}
	for _, def := range defs {
		if err := r.register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustCollectionRegistry panics on an invalid definition.
func MustCollectionRegistry(defs ...domain.CollectionDefinition) *CollectionRegistry {
	r, err := NewCollectionRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *CollectionRegistry) register(def domain.CollectionDefinition) error {
	if err := validation.Struct(def); err != nil {
		return fmt.Errorf("collection %q: %w", def.Key, err)
	}
	if err := def.Validate(); err != nil {
		return err
	}
	if _, exists := r.byKey[def.Key]; exists {
		return fmt.Errorf("collection %q registered twice", def.Key)
	}
	r.byKey[def.Key] = def
	r.order = append(r.order, def.Key)
	return nil
}

// Lookup returns the definition for key or domain.ErrUnknownCollection.
func (r *CollectionRegistry) Lookup(key string) (domain.CollectionDefinition, error) {
	def, ok := r.byKey[key]
	if !ok {
		return domain.CollectionDefinition{}, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, key)
	}
	return def, nil
}

// All returns definitions in registration order.
func (r *CollectionRegistry) All() []domain.CollectionDefinition {
	out := make([]domain.CollectionDefinition, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Keys returns registered keys sorted alphabetically.
func (r *CollectionRegistry) Keys() []string {
	keys := append([]string(nil), r.order...)
	sort.Strings(keys)
	return keys
}

// SanJuan is the Old San Juan anchor used by proximity collections.
var SanJuan = domain.Coordinates{Lat: 18.4655, Lng: -66.1057}

// DefaultCollections are the curated collections shipped with the site.
func DefaultCollections() []domain.CollectionDefinition {
	sanJuan := SanJuan
	return []domain.CollectionDefinition{
		{
			Key:        "beaches-near-san-juan",
			Title:      "Beaches near San Juan",
			Subtitle:   "Sand within a short drive of the capital",
			Base:       domain.NewFilterCriteria(domain.FilterInput{MaxDistanceKm: 30, Sort: string(domain.SortDistance)}),
			Anchor:     &sanJuan,
			MinResults: 6,
			Fallback:   domain.FallbackRule{Drop: []domain.Constraint{domain.ConstraintDistance}},
		},
		{
			Key:        "best-surfing",
			Title:      "Best surfing beaches",
			Subtitle:   "Reliable breaks from Rincón to Isabela",
			Base:       domain.NewFilterCriteria(domain.FilterInput{Tags: []string{"surfing"}, Sort: string(domain.SortRating)}),
			MinResults: 5,
			Fallback:   domain.FallbackRule{Drop: []domain.Constraint{domain.ConstraintTags}},
		},
		{
			Key:        "family-friendly",
			Title:      "Family-friendly beaches",
			Subtitle:   "Calm water, facilities and lifeguards on duty",
			Base:       domain.NewFilterCriteria(domain.FilterInput{Tags: []string{"family-friendly"}, Lifeguard: true, Sort: string(domain.SortRating)}),
			MinResults: 5,
			Fallback:   domain.FallbackRule{Drop: []domain.Constraint{domain.ConstraintLifeguard}},
		},
		{
			Key:        "snorkeling-spots",
			Title:      "Snorkeling spots",
			Subtitle:   "Reefs and clear water close to shore",
			Base:       domain.NewFilterCriteria(domain.FilterInput{Tags: []string{"snorkeling", "reef"}, Sort: string(domain.SortRating)}),
			MinResults: 5,
			Fallback:   domain.FallbackRule{Drop: []domain.Constraint{domain.ConstraintTags}},
		},
		{
			Key:        "secluded-beaches",
			Title:      "Secluded beaches",
			Subtitle:   "Fewer crowds, more sand",
			Base:       domain.NewFilterCriteria(domain.FilterInput{Tags: []string{"secluded"}}),
			MinResults: 4,
			Fallback:   domain.FallbackRule{Drop: []domain.Constraint{domain.ConstraintTags}},
		},
		{
			Key:      "beaches-with-lifeguards",
			Title:    "Beaches with lifeguards",
			Subtitle: "Supervised swimming areas",
			Base:     domain.NewFilterCriteria(domain.FilterInput{Lifeguard: true}),
		},
		{
			Key:        "sunset-spots",
			Title:      "Sunset spots",
			Subtitle:   "West-facing shores for golden hour",
			Base:       domain.NewFilterCriteria(domain.FilterInput{Tags: []string{"sunset"}, Sort: string(domain.SortReviews)}),
			MinResults: 4,
			Fallback:   domain.FallbackRule{Drop: []domain.Constraint{domain.ConstraintTags}},
		},
	}
}

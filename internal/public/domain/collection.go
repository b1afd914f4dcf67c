package domain

import (
	"fmt"
	"regexp"
)

var collectionKeyPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// FallbackRule broadens a collection once by clearing Drop. An empty Drop disables fallback.
type FallbackRule struct {
	Drop []Constraint
}

// CollectionDefinition is a statically registered, curated view over the beach dataset.
type CollectionDefinition struct {
	Key        string `validate:"required,max=64"`
	Title      string `validate:"required,max=120"`
	Subtitle   string `validate:"max=240"`
	Base       FilterCriteria
	Anchor     *Coordinates
	MinResults int `validate:"gte=0,lte=500"`
	Fallback   FallbackRule
}

// Validate checks invariants the struct tags cannot express.
func (d CollectionDefinition) Validate() error {
	if !collectionKeyPattern.MatchString(d.Key) {
		return fmt.Errorf("collection key %q must be lowercase kebab-case", d.Key)
	}
	if d.Anchor != nil && !ServiceArea.Contains(*d.Anchor) {
		return fmt.Errorf("collection %s: anchor %w", d.Key, ErrOutOfBounds)
	}
	for _, c := range d.Fallback.Drop {
		if !c.Valid() {
			return fmt.Errorf("collection %s: unknown fallback constraint %q", d.Key, c)
		}
	}
	if len(d.Fallback.Drop) > 0 && d.MinResults <= 0 {
		return fmt.Errorf("collection %s: fallback requires a positive minimum", d.Key)
	}
	return nil
}

// HasFallback reports whether a sparse result may be broadened.
func (d CollectionDefinition) HasFallback() bool {
	return d.MinResults > 0 && len(d.Fallback.Drop) > 0
}

// Refine merges request refinements into the base criteria. Refinements can only narrow
// the base: tags and amenities are unioned, lifeguard is OR-ed, the tighter distance wins,
// and a base municipality or query is never replaced.
func (d CollectionDefinition) Refine(request FilterCriteria) FilterCriteria {
	merged := d.Base

	merged.tags = unionStrings(d.Base.tags, request.tags)
	merged.amenities = unionStrings(d.Base.amenities, request.amenities)
	if merged.municipality == "" {
		merged.municipality = request.municipality
	}
	if merged.query == "" {
		merged.query = request.query
	}
	merged.lifeguard = d.Base.lifeguard || request.lifeguard

	switch {
	case merged.maxDistanceKm == 0:
		merged.maxDistanceKm = request.maxDistanceKm
	case request.maxDistanceKm > 0 && request.maxDistanceKm < merged.maxDistanceKm:
		merged.maxDistanceKm = request.maxDistanceKm
	}

	if request.sortExplicit {
		merged.sort = request.sort
		merged.sortExplicit = true
	} else if !merged.sortExplicit {
		merged.sort = SortName
	}

	merged.page = request.Page()
	merged.limit = request.limit
	return merged
}

// Broadens reports whether the fallback rule would clear at least one active clause of criteria.
func (d CollectionDefinition) Broadens(criteria FilterCriteria) bool {
	if !d.HasFallback() {
		return false
	}
	for _, c := range d.Fallback.Drop {
		if criteria.Has(c) {
			return true
		}
	}
	return false
}

// Broaden applies the fallback rule to criteria.
func (d CollectionDefinition) Broaden(criteria FilterCriteria) FilterCriteria {
	return criteria.Without(d.Fallback.Drop...)
}

func unionStrings(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	result := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

package domain

import (
	"math"
	"strings"
)

// SortKey orders a discovery result set.
type SortKey string

const (
	SortName     SortKey = "name"
	SortRating   SortKey = "rating"
	SortReviews  SortKey = "reviews"
	SortDistance SortKey = "distance"
)

// ParseSortKey accepts only the four supported keys.
func ParseSortKey(raw string) (SortKey, bool) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(raw))); key {
	case SortName, SortRating, SortReviews, SortDistance:
		return key, true
	}
	return SortName, false
}

// Constraint names one droppable clause of a FilterCriteria.
type Constraint string

const (
	ConstraintQuery        Constraint = "query"
	ConstraintMunicipality Constraint = "municipality"
	ConstraintTags         Constraint = "tags"
	ConstraintAmenities    Constraint = "amenities"
	ConstraintLifeguard    Constraint = "lifeguard"
	ConstraintDistance     Constraint = "distance"
)

// Valid reports whether c is a known constraint name.
func (c Constraint) Valid() bool {
	switch c {
	case ConstraintQuery, ConstraintMunicipality, ConstraintTags, ConstraintAmenities, ConstraintLifeguard, ConstraintDistance:
		return true
	}
	return false
}

// FilterInput is the raw, unvalidated shape of a FilterCriteria.
type FilterInput struct {
	Query         string
	Municipality  string
	Tags          []string
	Amenities     []string
	Lifeguard     bool
	MaxDistanceKm float64
	Sort          string
	Page          int
	Limit         int
}

// MaxPage bounds the page number so page offsets cannot overflow.
const MaxPage = 100_000

// FilterCriteria is a normalized, immutable search definition. The zero value matches every published beach.
type FilterCriteria struct {
	query         string
	municipality  string
	tags          []string
	amenities     []string
	lifeguard     bool
	maxDistanceKm float64
	sort          SortKey
	sortExplicit  bool
	page          int
	limit         int
}

// NewFilterCriteria normalizes in. Invalid enumerated values are dropped instead of rejected.
func NewFilterCriteria(in FilterInput) FilterCriteria {
	c := FilterCriteria{
		query: strings.TrimSpace(in.Query),
		page:  1,
	}
	if IsMunicipality(in.Municipality) {
		c.municipality = in.Municipality
	}
	c.tags = normalizeVocabulary(in.Tags, IsTag)

	c.lifeguard = in.Lifeguard
	amenities := make([]string, 0, len(in.Amenities))
	for _, raw := range in.Amenities {
		if IsLifeguardAmenity(raw) {
			c.lifeguard = true
			continue
		}
		amenities = append(amenities, raw)
	}
	c.amenities = normalizeVocabulary(amenities, IsAmenity)

	if in.MaxDistanceKm > 0 && !math.IsInf(in.MaxDistanceKm, 0) && !math.IsNaN(in.MaxDistanceKm) {
		c.maxDistanceKm = in.MaxDistanceKm
	}

	c.sort, c.sortExplicit = ParseSortKey(in.Sort)

	if in.Page > 1 {
		c.page = min(in.Page, MaxPage)
	}
	if in.Limit > 0 {
		c.limit = in.Limit
	}
	return c
}

func normalizeVocabulary(values []string, allowed func(string) bool) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if !allowed(value) {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func (c FilterCriteria) Query() string          { return c.query }
func (c FilterCriteria) Municipality() string   { return c.municipality }
func (c FilterCriteria) Tags() []string         { return append([]string(nil), c.tags...) }
func (c FilterCriteria) Amenities() []string    { return append([]string(nil), c.amenities...) }
func (c FilterCriteria) Lifeguard() bool        { return c.lifeguard }
func (c FilterCriteria) MaxDistanceKm() float64 { return c.maxDistanceKm }
func (c FilterCriteria) Sort() SortKey          { return c.sort }

// SortExplicit reports whether the sort key came from the caller rather than the default.
func (c FilterCriteria) SortExplicit() bool { return c.sortExplicit }

// Page is 1-based.
func (c FilterCriteria) Page() int { return max(c.page, 1) }

// Limit is zero when the caller did not ask for one.
func (c FilterCriteria) Limit() int { return c.limit }

// Input returns a copy of the criteria as raw input, suitable for further editing.
func (c FilterCriteria) Input() FilterInput {
	in := FilterInput{
		Query:         c.query,
		Municipality:  c.municipality,
		Tags:          c.Tags(),
		Amenities:     c.Amenities(),
		Lifeguard:     c.lifeguard,
		MaxDistanceKm: c.maxDistanceKm,
		Page:          c.page,
		Limit:         c.limit,
	}
	if c.sortExplicit {
		in.Sort = string(c.sort)
	}
	return in
}

// WithSort returns a copy ordered by key.
func (c FilterCriteria) WithSort(key SortKey) FilterCriteria {
	if parsed, ok := ParseSortKey(string(key)); ok {
		c.sort = parsed
		c.sortExplicit = true
	}
	return c
}

// WithPaging returns a copy with new page/limit bounds.
func (c FilterCriteria) WithPaging(page, limit int) FilterCriteria {
	c.page = max(min(page, MaxPage), 1)
	c.limit = max(limit, 0)
	return c
}

// Without returns a copy with the named constraints cleared.
func (c FilterCriteria) Without(constraints ...Constraint) FilterCriteria {
	for _, constraint := range constraints {
		switch constraint {
		case ConstraintQuery:
			c.query = ""
		case ConstraintMunicipality:
			c.municipality = ""
		case ConstraintTags:
			c.tags = nil
		case ConstraintAmenities:
			c.amenities = nil
		case ConstraintLifeguard:
			c.lifeguard = false
		case ConstraintDistance:
			c.maxDistanceKm = 0
		}
	}
	return c
}

// Has reports whether the constraint is currently active.
func (c FilterCriteria) Has(constraint Constraint) bool {
	switch constraint {
	case ConstraintQuery:
		return c.query != ""
	case ConstraintMunicipality:
		return c.municipality != ""
	case ConstraintTags:
		return len(c.tags) > 0
	case ConstraintAmenities:
		return len(c.amenities) > 0
	case ConstraintLifeguard:
		return c.lifeguard
	case ConstraintDistance:
		return c.maxDistanceKm > 0
	}
	return false
}

// Matches evaluates the stored-column predicates against b. Distance is not a stored
// column and is checked by the caller once a visitor origin is known.
func (c FilterCriteria) Matches(b Beach) bool {
	if !b.Published() {
		return false
	}
	if c.municipality != "" && b.Municipality != c.municipality {
		return false
	}
	for _, tag := range c.tags {
		if !b.HasTag(tag) {
			return false
		}
	}
	for _, amenity := range c.amenities {
		if !b.HasAmenity(amenity) {
			return false
		}
	}
	if c.lifeguard && !b.HasLifeguard() {
		return false
	}
	if c.query != "" && !MatchesQuery(b, c.query) {
		return false
	}
	return true
}

// MatchesQuery is a case-insensitive substring match over name, municipality and description.
func MatchesQuery(b Beach, query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	for _, field := range []string{b.Name, b.Municipality, b.Description} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

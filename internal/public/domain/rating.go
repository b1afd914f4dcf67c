package domain

import (
	"fmt"
	"math"
)

// CommunityThreshold is the review count the community facet must strictly exceed to be preferred.
const CommunityThreshold = 10

// RatingSource identifies which facet produced the headline rating.
type RatingSource string

const (
	RatingSourceCommunity  RatingSource = "community"
	RatingSourceThirdParty RatingSource = "third_party"
	RatingSourceNone       RatingSource = "none"
)

// ChosenRating is the single rating shown for a beach.
type ChosenRating struct {
	Value  float64
	Count  int
	Source RatingSource
}

// SelectRating prefers the community facet once it has more than CommunityThreshold reviews.
func SelectRating(thirdParty, community RatingFacet) ChosenRating {
	if community.Count > CommunityThreshold && community.HasValue() {
		return ChosenRating{Value: *community.Value, Count: community.Count, Source: RatingSourceCommunity}
	}
	if thirdParty.HasValue() {
		return ChosenRating{Value: *thirdParty.Value, Count: max(thirdParty.Count, 0), Source: RatingSourceThirdParty}
	}
	return ChosenRating{Source: RatingSourceNone}
}

// RatingFor is SelectRating applied to a beach.
func RatingFor(b Beach) ChosenRating {
	return SelectRating(b.ThirdParty, b.Community)
}

// Present reports whether a rating was chosen.
func (r ChosenRating) Present() bool {
	return r.Source != RatingSourceNone && r.Source != ""
}

// Rounded returns the value rounded to one decimal place.
func (r ChosenRating) Rounded() float64 {
	return math.Round(r.Value*10) / 10
}

// Display formats the rating for UI badges, e.g. "4.6 (23 reviews)".
func (r ChosenRating) Display() string {
	if !r.Present() {
		return ""
	}
	switch r.Count {
	case 0:
		return fmt.Sprintf("%.1f", r.Rounded())
	case 1:
		return fmt.Sprintf("%.1f (1 review)", r.Rounded())
	}
	return fmt.Sprintf("%.1f (%d reviews)", r.Rounded(), r.Count)
}

// StructuredData renders a schema.org AggregateRating object, or nil when nothing qualifies.
// Consumers require a positive review count.
func (r ChosenRating) StructuredData() map[string]any {
	if !r.Present() || r.Count <= 0 {
		return nil
	}
	return map[string]any{
		"@type":       "AggregateRating",
		"ratingValue": r.Rounded(),
		"reviewCount": r.Count,
		"bestRating":  5,
		"worstRating": 1,
	}
}

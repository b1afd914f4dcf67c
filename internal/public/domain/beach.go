package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PublishState controls whether a beach is visible to discovery.
type PublishState string

const (
	StateDraft     PublishState = "draft"
	StatePublished PublishState = "published"
)

// ParsePublishState validates a raw publish state.
func ParsePublishState(raw string) (PublishState, error) {
	switch PublishState(strings.ToLower(strings.TrimSpace(raw))) {
	case StateDraft:
		return StateDraft, nil
	case StatePublished:
		return StatePublished, nil
	}
	return "", fmt.Errorf("%w: publish state %q", ErrInvalidStatus, raw)
}

// Coordinates is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether both components are finite and within world ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// BoundingBox is an axis-aligned lat/lng rectangle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// ServiceArea covers the main island, Vieques, Culebra, Mona and Desecheo.
var ServiceArea = BoundingBox{
	MinLat: 17.80,
	MaxLat: 18.60,
	MinLng: -68.00,
	MaxLng: -65.20,
}

// Contains reports whether c lies within the box, edges inclusive.
func (b BoundingBox) Contains(c Coordinates) bool {
	if !c.Valid() {
		return false
	}
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// RatingFacet is one aggregate rating source. Value is nil when the source has no score.
type RatingFacet struct {
	Value *float64
	Count int
}

// HasValue reports whether the facet carries a usable score.
func (f RatingFacet) HasValue() bool {
	return f.Value != nil && !math.IsNaN(*f.Value)
}

// Beach is the publicly listed entity.
type Beach struct {
	ID           string
	Slug         string
	Name         string
	Municipality string
	Coordinates  Coordinates
	CoverImage   string
	Description  string
	Tags         []string
	Amenities    []string
	Gallery      []string
	Features     []string
	ThirdParty   RatingFacet
	Community    RatingFacet
	Status       PublishState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Published reports whether discovery may surface the beach.
func (b Beach) Published() bool {
	return b.Status == StatePublished
}

// HasTag reports whether the beach carries tag.
func (b Beach) HasTag(tag string) bool {
	return containsString(b.Tags, tag)
}

// HasAmenity reports whether the beach lists amenity.
func (b Beach) HasAmenity(amenity string) bool {
	return containsString(b.Amenities, amenity)
}

// HasLifeguard reports whether any lifeguard-equivalent amenity is present.
func (b Beach) HasLifeguard() bool {
	for _, a := range b.Amenities {
		if IsLifeguardAmenity(a) {
			return true
		}
	}
	return false
}

// Validate checks the invariants every stored beach must hold.
func (b Beach) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("beach name is required")
	}
	if strings.TrimSpace(b.Slug) == "" {
		return fmt.Errorf("beach slug is required")
	}
	if !b.Coordinates.Valid() {
		return fmt.Errorf("%w: %v,%v", ErrInvalidCoordinates, b.Coordinates.Lat, b.Coordinates.Lng)
	}
	if !ServiceArea.Contains(b.Coordinates) {
		return fmt.Errorf("%w: %.5f,%.5f", ErrOutOfBounds, b.Coordinates.Lat, b.Coordinates.Lng)
	}
	if b.Municipality != "" && !IsMunicipality(b.Municipality) {
		return fmt.Errorf("unknown municipality %q", b.Municipality)
	}
	if _, err := ParsePublishState(string(b.Status)); err != nil {
		return err
	}
	return nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

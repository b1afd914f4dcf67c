package application

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

// ComposeFilter turns raw request parameters into normalized criteria. It never fails:
// anything it does not understand is ignored.
func ComposeFilter(params url.Values) domain.FilterCriteria {
	return domain.NewFilterCriteria(domain.FilterInput{
		Query:         firstValue(params, "q", "query", "keyword"),
		Municipality:  firstValue(params, "municipality", "municipio"),
		Tags:          listValues(params, "tags", "tag"),
		Amenities:     listValues(params, "amenities", "amenity"),
		Lifeguard:     truthy(firstValue(params, "lifeguard", "has_lifeguard")),
		MaxDistanceKm: parseFloat(firstValue(params, "max_distance", "max_distance_km", "radius")),
		Sort:          firstValue(params, "sort"),
		Page:          parseInt(firstValue(params, "page")),
		Limit:         parseInt(firstValue(params, "limit")),
	})
}

// ParseOrigin reads an optional visitor location from lat/lng. A missing or malformed pair
// means "no location"; a well-formed pair outside the service area is rejected.
func ParseOrigin(params url.Values) (*domain.Coordinates, error) {
	rawLat := firstValue(params, "lat", "latitude")
	rawLng := firstValue(params, "lng", "lon", "longitude")
	if rawLat == "" || rawLng == "" {
		return nil, nil
	}
	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lng, errLng := strconv.ParseFloat(rawLng, 64)
	if errLat != nil || errLng != nil {
		return nil, nil
	}
	origin := domain.Coordinates{Lat: lat, Lng: lng}
	if !domain.ServiceArea.Contains(origin) {
		return nil, fmt.Errorf("%w: %s,%s", domain.ErrOutOfBounds, rawLat, rawLng)
	}
	return &origin, nil
}

func firstValue(params url.Values, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(params.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// listValues accepts repeated keys and comma-separated values.
func listValues(params url.Values, keys ...string) []string {
	var out []string
	for _, key := range keys {
		for _, raw := range params[key] {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

func truthy(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on", "si", "sí":
		return true
	}
	return false
}

func parseFloat(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

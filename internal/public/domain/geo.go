package domain

import (
	"math"
	"strings"
)

// EarthRadiusMeters is the IUGG mean Earth radius.
const EarthRadiusMeters = 6371008.8

// DistanceMeters returns the great-circle distance between a and b using the haversine formula.
func DistanceMeters(a, b Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h a hair past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ByName orders beaches by case-insensitive name, then id for a total order.
func ByName(a, b Beach) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// ByDistance returns a comparator ordering beaches nearest-first from origin.
// With a nil origin it degrades to ByName.
func ByDistance(origin *Coordinates) func(a, b Beach) int {
	if origin == nil {
		return ByName
	}
	o := *origin
	return func(a, b Beach) int {
		da := DistanceMeters(o, a.Coordinates)
		db := DistanceMeters(o, b.Coordinates)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return ByName(a, b)
	}
}

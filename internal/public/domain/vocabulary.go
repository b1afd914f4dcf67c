package domain

import (
	"slices"
	"strings"
)

// Tags is the closed tag vocabulary accepted by discovery.
var Tags = []string{
	"surfing",
	"snorkeling",
	"swimming",
	"diving",
	"family-friendly",
	"secluded",
	"sunset",
	"calm-water",
	"natural-pool",
	"reef",
	"kayaking",
	"fishing",
	"camping",
	"hiking",
	"pet-friendly",
	"accessible",
	"blue-flag",
	"nightlife",
}

// Amenities is the closed amenity vocabulary. AmenityLifeguard is the canonical lifeguard value.
var Amenities = []string{
	AmenityLifeguard,
	"parking",
	"restrooms",
	"showers",
	"food",
	"bar",
	"picnic-area",
	"shade",
	"rentals",
	"wheelchair-access",
	"playground",
	"camping-area",
}

// AmenityLifeguard is the stored amenity that satisfies a lifeguard filter.
const AmenityLifeguard = "lifeguard"

var lifeguardAliases = map[string]struct{}{
	"lifeguard":     {},
	"lifeguards":    {},
	"salvavidas":    {},
	"has-lifeguard": {},
}

// Municipalities lists the 78 municipios of Puerto Rico with their official spelling.
var Municipalities = []string{
	"Adjuntas", "Aguada", "Aguadilla", "Aguas Buenas", "Aibonito", "Añasco", "Arecibo", "Arroyo",
	"Barceloneta", "Barranquitas", "Bayamón", "Cabo Rojo", "Caguas", "Camuy", "Canóvanas", "Carolina",
	"Cataño", "Cayey", "Ceiba", "Ciales", "Cidra", "Coamo", "Comerío", "Corozal",
	"Culebra", "Dorado", "Fajardo", "Florida", "Guánica", "Guayama", "Guayanilla", "Guaynabo",
	"Gurabo", "Hatillo", "Hormigueros", "Humacao", "Isabela", "Jayuya", "Juana Díaz", "Juncos",
	"Lajas", "Lares", "Las Marías", "Las Piedras", "Loíza", "Luquillo", "Manatí", "Maricao",
	"Maunabo", "Mayagüez", "Moca", "Morovis", "Naguabo", "Naranjito", "Orocovis", "Patillas",
	"Peñuelas", "Ponce", "Quebradillas", "Rincón", "Río Grande", "Sabana Grande", "Salinas", "San Germán",
	"San Juan", "San Lorenzo", "San Sebastián", "Santa Isabel", "Toa Alta", "Toa Baja", "Trujillo Alto", "Utuado",
	"Vega Alta", "Vega Baja", "Vieques", "Villalba", "Yabucoa", "Yauco",
}

var (
	tagSet          = makeStringSet(Tags)
	amenitySet      = makeStringSet(Amenities)
	municipalitySet = makeStringSet(Municipalities)
)

func makeStringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// IsTag reports whether value is in the tag vocabulary.
func IsTag(value string) bool {
	_, ok := tagSet[value]
	return ok
}

// IsAmenity reports whether value is in the amenity vocabulary.
func IsAmenity(value string) bool {
	_, ok := amenitySet[value]
	return ok
}

// IsMunicipality is an exact, case-sensitive lookup.
func IsMunicipality(value string) bool {
	_, ok := municipalitySet[value]
	return ok
}

// IsLifeguardAmenity reports whether value expresses the lifeguard constraint.
func IsLifeguardAmenity(value string) bool {
	_, ok := lifeguardAliases[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// LifeguardAliases returns the stored amenity values that satisfy a lifeguard filter, sorted.
// Datastores match them as-is, so writers store amenities lowercase.
func LifeguardAliases() []string {
	out := make([]string, 0, len(lifeguardAliases))
	for alias := range lifeguardAliases {
		out = append(out, alias)
	}
	slices.Sort(out)
	return out
}

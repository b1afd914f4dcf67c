package main

import "github.com/prbeaches/directory/api/internal/public/domain"

func rating(value float64, count int) domain.RatingFacet {
	return domain.RatingFacet{Value: &value, Count: count}
}

func catalog() []domain.Beach {
	return []domain.Beach{
		{
			Slug:         "flamenco",
			Name:         "Playa Flamenco",
			Municipality: "Culebra",
			Coordinates:  domain.Coordinates{Lat: 18.3295, Lng: -65.3180},
			CoverImage:   "https://images.prbeaches.example/flamenco/cover.jpg",
			Description:  "A crescent of white sand on Culebra's north shore with rusted tanks left from Navy exercises.",
			Tags:         []string{"swimming", "snorkeling", "family-friendly", "camping", "calm-water"},
			Amenities:    []string{"lifeguard", "restrooms", "showers", "food", "camping-area", "parking"},
			Features:     []string{"tanks", "white-sand"},
			ThirdParty:   rating(4.8, 5120),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "condado",
			Name:         "Playa Condado",
			Municipality: "San Juan",
			Coordinates:  domain.Coordinates{Lat: 18.4588, Lng: -66.0732},
			CoverImage:   "https://images.prbeaches.example/condado/cover.jpg",
			Description:  "City beach lined with hotels, a short walk from restaurants and nightlife.",
			Tags:         []string{"swimming", "nightlife", "sunset", "accessible"},
			Amenities:    []string{"lifeguard", "food", "bar", "rentals", "wheelchair-access"},
			ThirdParty:   rating(4.3, 2310),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "escambron",
			Name:         "Balneario El Escambrón",
			Municipality: "San Juan",
			Coordinates:  domain.Coordinates{Lat: 18.4664, Lng: -66.0863},
			Description:  "Blue Flag beach protected by a reef break, popular for snorkeling near the old bridge.",
			Tags:         []string{"swimming", "snorkeling", "reef", "blue-flag", "family-friendly", "calm-water"},
			Amenities:    []string{"lifeguard", "parking", "restrooms", "showers", "food"},
			ThirdParty:   rating(4.5, 1870),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "luquillo",
			Name:         "Balneario La Monserrate",
			Municipality: "Luquillo",
			Coordinates:  domain.Coordinates{Lat: 18.3893, Lng: -65.7229},
			Description:  "Palm-shaded public beach next to the Luquillo kiosks.",
			Tags:         []string{"swimming", "family-friendly", "calm-water", "accessible", "blue-flag"},
			Amenities:    []string{"lifeguard", "parking", "restrooms", "showers", "picnic-area", "shade", "wheelchair-access"},
			ThirdParty:   rating(4.6, 4400),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "crash-boat",
			Name:         "Crash Boat",
			Municipality: "Aguadilla",
			Coordinates:  domain.Coordinates{Lat: 18.4586, Lng: -67.1636},
			Description:  "Turquoise water around an old pier that locals jump from.",
			Tags:         []string{"snorkeling", "diving", "swimming", "sunset"},
			Amenities:    []string{"parking", "food", "bar", "restrooms"},
			Features:     []string{"pier"},
			ThirdParty:   rating(4.6, 3050),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "domes",
			Name:         "Domes Beach",
			Municipality: "Rincón",
			Coordinates:  domain.Coordinates{Lat: 18.3651, Lng: -67.2697},
			Description:  "Reliable winter surf in front of the decommissioned dome-shaped reactor.",
			Tags:         []string{"surfing", "sunset"},
			Amenities:    []string{"parking"},
			Features:     []string{"point-break"},
			ThirdParty:   rating(4.7, 980),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "sandy-beach",
			Name:         "Sandy Beach",
			Municipality: "Rincón",
			Coordinates:  domain.Coordinates{Lat: 18.3572, Lng: -67.2596},
			Description:  "Long stretch with beach bars and gentle summer snorkeling.",
			Tags:         []string{"surfing", "snorkeling", "sunset", "pet-friendly"},
			Amenities:    []string{"food", "bar", "rentals"},
			ThirdParty:   rating(4.5, 760),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "playa-sucia",
			Name:         "Playa Sucia",
			Municipality: "Cabo Rojo",
			Coordinates:  domain.Coordinates{Lat: 17.9353, Lng: -67.1943},
			Description:  "Secluded bay below the Los Morrillos lighthouse and the salt flats.",
			Tags:         []string{"secluded", "swimming", "hiking", "sunset"},
			Amenities:    []string{"parking"},
			Features:     []string{"lighthouse", "cliffs"},
			ThirdParty:   rating(4.8, 2650),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "gilligan",
			Name:         "Cayo Aurora (Gilligan's Island)",
			Municipality: "Guánica",
			Coordinates:  domain.Coordinates{Lat: 17.9447, Lng: -66.8744},
			Description:  "Mangrove cay reached by ferry with shallow channels to float through.",
			Tags:         []string{"snorkeling", "kayaking", "secluded", "calm-water"},
			Amenities:    []string{"restrooms", "picnic-area"},
			Features:     []string{"mangroves", "ferry"},
			ThirdParty:   rating(4.4, 1230),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "mar-chiquita",
			Name:         "Mar Chiquita",
			Municipality: "Manatí",
			Coordinates:  domain.Coordinates{Lat: 18.4744, Lng: -66.4852},
			Description:  "Rock walls enclose a small natural pool open to the Atlantic.",
			Tags:         []string{"natural-pool", "swimming", "sunset"},
			Amenities:    []string{"parking", "food"},
			Features:     []string{"natural-pool"},
			ThirdParty:   rating(4.6, 1900),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "sun-bay",
			Name:         "Balneario Sun Bay",
			Municipality: "Vieques",
			Coordinates:  domain.Coordinates{Lat: 18.0959, Lng: -65.4610},
			Description:  "Mile-long public beach with camping and wild horses wandering the sand.",
			Tags:         []string{"swimming", "camping", "family-friendly", "calm-water"},
			Amenities:    []string{"lifeguard", "parking", "restrooms", "showers", "camping-area", "picnic-area"},
			ThirdParty:   rating(4.5, 1410),
			Status:       domain.StatePublished,
		},
		{
			Slug:         "caja-de-muertos",
			Name:         "Isla Caja de Muertos",
			Municipality: "Ponce",
			Coordinates:  domain.Coordinates{Lat: 17.8953, Lng: -66.5233},
			Description:  "Nature reserve island off Ponce with a lighthouse trail and clear reef water.",
			Tags:         []string{"snorkeling", "hiking", "reef", "secluded"},
			Amenities:    []string{"restrooms", "shade"},
			Features:     []string{"lighthouse", "ferry"},
			Status:       domain.StateDraft,
		},
	}
}

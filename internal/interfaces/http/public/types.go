package public

import (
	"math"
	"time"

	publicapp "github.com/prbeaches/directory/api/internal/public/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

type coordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ratingResponse struct {
	Value   float64 `json:"value"`
	Count   int     `json:"count"`
	Source  string  `json:"source"`
	Display string  `json:"display"`
}

type crowdHourResponse struct {
	At            time.Time `json:"at"`
	Level         string    `json:"level"`
	Label         string    `json:"label"`
	TimeQualifier string    `json:"time_qualifier"`
}

type crowdResponse struct {
	Level         string              `json:"level"`
	Label         string              `json:"label"`
	TimeQualifier string              `json:"time_qualifier"`
	At            time.Time           `json:"at"`
	Forecast      []crowdHourResponse `json:"forecast,omitempty"`
}

type beachSummaryResponse struct {
	ID           string              `json:"id"`
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	Municipality string              `json:"municipality"`
	Coordinates  coordinatesResponse `json:"coordinates"`
	CoverImage   string              `json:"cover_image,omitempty"`
	Tags         []string            `json:"tags"`
	Amenities    []string            `json:"amenities"`
	Rating       *ratingResponse     `json:"rating,omitempty"`
	DistanceKm   *float64            `json:"distance_km,omitempty"`
	Crowd        *crowdResponse      `json:"crowd,omitempty"`
}

// mapPinResponse is the slim item returned by the map view.
type mapPinResponse struct {
	ID          string              `json:"id"`
	Slug        string              `json:"slug"`
	Name        string              `json:"name"`
	Coordinates coordinatesResponse `json:"coordinates"`
	Rating      *ratingResponse     `json:"rating,omitempty"`
	DistanceKm  *float64            `json:"distance_km,omitempty"`
	Crowd       *crowdResponse      `json:"crowd,omitempty"`
}

type filtersResponse struct {
	Query         string   `json:"q,omitempty"`
	Municipality  string   `json:"municipality,omitempty"`
	Tags          []string `json:"tags"`
	Amenities     []string `json:"amenities"`
	Lifeguard     bool     `json:"lifeguard"`
	MaxDistanceKm float64  `json:"max_distance_km,omitempty"`
}

type collectionResponse struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

type listMetaResponse struct {
	Total           int                  `json:"total"`
	Page            int                  `json:"page"`
	Limit           int                  `json:"limit"`
	View            string               `json:"view"`
	Sort            string               `json:"sort"`
	Filters         filtersResponse      `json:"filters"`
	Collection      *collectionResponse  `json:"collection,omitempty"`
	ContextFallback bool                 `json:"context_fallback"`
	HasLocation     bool                 `json:"has_location"`
	Origin          *coordinatesResponse `json:"origin,omitempty"`
}

type listResponse struct {
	Items any              `json:"items"`
	Meta  listMetaResponse `json:"meta"`
}

type reviewResponse struct {
	ID         string    `json:"id"`
	BeachID    string    `json:"beach_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type beachDetailResponse struct {
	ID              string              `json:"id"`
	Slug            string              `json:"slug"`
	Name            string              `json:"name"`
	Municipality    string              `json:"municipality"`
	Coordinates     coordinatesResponse `json:"coordinates"`
	CoverImage      string              `json:"cover_image,omitempty"`
	Description     string              `json:"description,omitempty"`
	Tags            []string            `json:"tags"`
	Amenities       []string            `json:"amenities"`
	Gallery         []string            `json:"gallery"`
	Features        []string            `json:"features"`
	Rating          *ratingResponse     `json:"rating,omitempty"`
	AggregateRating map[string]any      `json:"aggregate_rating,omitempty"`
	Reviews         []reviewResponse    `json:"reviews"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type currentWeatherResponse struct {
	TemperatureC             *float64 `json:"temperature_c"`
	WindSpeedKmh             *float64 `json:"wind_speed_kmh"`
	WindDirectionDeg         *float64 `json:"wind_direction_deg"`
	UVIndex                  *float64 `json:"uv_index"`
	HumidityPct              *float64 `json:"humidity_pct"`
	PrecipitationProbability *float64 `json:"precipitation_probability_pct"`
}

type dailyWeatherResponse struct {
	Date                     string   `json:"date"`
	TemperatureMaxC          *float64 `json:"temperature_max_c"`
	TemperatureMinC          *float64 `json:"temperature_min_c"`
	PrecipitationProbability *float64 `json:"precipitation_probability_pct"`
	UVIndexMax               *float64 `json:"uv_index_max"`
	WindSpeedMaxKmh          *float64 `json:"wind_speed_max_kmh"`
}

type recommendationResponse struct {
	Score   int    `json:"score"`
	Tier    string `json:"tier"`
	Message string `json:"message"`
	Safety  string `json:"safety,omitempty"`
}

type weatherResponse struct {
	Available      bool                    `json:"available"`
	BeachID        string                  `json:"beach_id,omitempty"`
	ObservedAt     *time.Time              `json:"observed_at,omitempty"`
	Current        *currentWeatherResponse `json:"current,omitempty"`
	Daily          []dailyWeatherResponse  `json:"daily,omitempty"`
	Recommendation *recommendationResponse `json:"recommendation,omitempty"`
}

type vocabularyResponse struct {
	Tags           []string `json:"tags"`
	Amenities      []string `json:"amenities"`
	Municipalities []string `json:"municipalities"`
	Sorts          []string `json:"sorts"`
	CrowdLevels    []string `json:"crowd_levels"`
}

type leadReceiptResponse struct {
	ID         string    `json:"id"`
	BeachCount int       `json:"beach_count"`
	SentAt     time.Time `json:"sent_at"`
}

func buildRating(r domain.ChosenRating) *ratingResponse {
	if !r.Present() {
		return nil
	}
	return &ratingResponse{
		Value:   r.Rounded(),
		Count:   r.Count,
		Source:  string(r.Source),
		Display: r.Display(),
	}
}

func buildCoordinates(c domain.Coordinates) coordinatesResponse {
	return coordinatesResponse{Lat: c.Lat, Lng: c.Lng}
}

func buildDistanceKm(meters *float64) *float64 {
	if meters == nil {
		return nil
	}
	km := math.Round(*meters/100) / 10
	return &km
}

func buildCrowd(est *domain.CrowdEstimate, loc *time.Location) *crowdResponse {
	if est == nil {
		return nil
	}
	resp := &crowdResponse{
		Level:         string(est.Level),
		Label:         est.Level.Label(),
		TimeQualifier: est.TimeQualifier,
		At:            est.At.In(loc),
	}
	for _, hour := range est.Forecast {
		resp.Forecast = append(resp.Forecast, crowdHourResponse{
			At:            hour.At.In(loc),
			Level:         string(hour.Level),
			Label:         hour.Level.Label(),
			TimeQualifier: hour.TimeQualifier,
		})
	}
	return resp
}

func buildBeachSummary(item publicapp.BeachResult, loc *time.Location) beachSummaryResponse {
	b := item.Beach
	return beachSummaryResponse{
		ID:           b.ID,
		Slug:         b.Slug,
		Name:         b.Name,
		Municipality: b.Municipality,
		Coordinates:  buildCoordinates(b.Coordinates),
		CoverImage:   b.CoverImage,
		Tags:         nonNil(b.Tags),
		Amenities:    nonNil(b.Amenities),
		Rating:       buildRating(item.Rating),
		DistanceKm:   buildDistanceKm(item.DistanceMeters),
		Crowd:        buildCrowd(item.Crowd, loc),
	}
}

func buildMapPin(item publicapp.BeachResult, loc *time.Location) mapPinResponse {
	return mapPinResponse{
		ID:          item.Beach.ID,
		Slug:        item.Beach.Slug,
		Name:        item.Beach.Name,
		Coordinates: buildCoordinates(item.Beach.Coordinates),
		Rating:      buildRating(item.Rating),
		DistanceKm:  buildDistanceKm(item.DistanceMeters),
		Crowd:       buildCrowd(item.Crowd, loc),
	}
}

func buildCollection(def *domain.CollectionDefinition) *collectionResponse {
	if def == nil {
		return nil
	}
	return &collectionResponse{Key: def.Key, Title: def.Title, Subtitle: def.Subtitle}
}

func buildListResponse(result publicapp.DiscoveryResult, loc *time.Location) listResponse {
	var items any
	if result.View == publicapp.ViewMap {
		pins := make([]mapPinResponse, 0, len(result.Items))
		for _, item := range result.Items {
			pins = append(pins, buildMapPin(item, loc))
		}
		items = pins
	} else {
		summaries := make([]beachSummaryResponse, 0, len(result.Items))
		for _, item := range result.Items {
			summaries = append(summaries, buildBeachSummary(item, loc))
		}
		items = summaries
	}

	criteria := result.Criteria
	meta := listMetaResponse{
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
		View:  string(result.View),
		Sort:  string(criteria.Sort()),
		Filters: filtersResponse{
			Query:         criteria.Query(),
			Municipality:  criteria.Municipality(),
			Tags:          nonNil(criteria.Tags()),
			Amenities:     nonNil(criteria.Amenities()),
			Lifeguard:     criteria.Lifeguard(),
			MaxDistanceKm: criteria.MaxDistanceKm(),
		},
		Collection:      buildCollection(result.Collection),
		ContextFallback: result.ContextFallback,
		HasLocation:     result.Origin != nil,
	}
	if result.Origin != nil {
		origin := buildCoordinates(*result.Origin)
		meta.Origin = &origin
	}
	return listResponse{Items: items, Meta: meta}
}

func buildReview(r domain.Review, loc *time.Location) reviewResponse {
	return reviewResponse{
		ID:         r.ID,
		BeachID:    r.BeachID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.In(loc),
	}
}

func buildBeachDetail(detail *publicapp.BeachDetail, loc *time.Location) beachDetailResponse {
	b := detail.Beach
	reviews := make([]reviewResponse, 0, len(detail.Reviews))
	for _, r := range detail.Reviews {
		reviews = append(reviews, buildReview(r, loc))
	}
	return beachDetailResponse{
		ID:              b.ID,
		Slug:            b.Slug,
		Name:            b.Name,
		Municipality:    b.Municipality,
		Coordinates:     buildCoordinates(b.Coordinates),
		CoverImage:      b.CoverImage,
		Description:     b.Description,
		Tags:            nonNil(b.Tags),
		Amenities:       nonNil(b.Amenities),
		Gallery:         nonNil(b.Gallery),
		Features:        nonNil(b.Features),
		Rating:          buildRating(detail.Rating),
		AggregateRating: detail.Rating.StructuredData(),
		Reviews:         reviews,
		UpdatedAt:       b.UpdatedAt.In(loc),
	}
}

func buildWeather(beachID string, report publicapp.WeatherReport, loc *time.Location) weatherResponse {
	if !report.Available {
		return weatherResponse{Available: false, BeachID: beachID}
	}
	s := report.Snapshot
	resp := weatherResponse{
		Available: true,
		BeachID:   beachID,
		Current: &currentWeatherResponse{
			TemperatureC:             finite(s.Temperature),
			WindSpeedKmh:             finite(s.WindSpeed),
			WindDirectionDeg:         finite(s.WindDirection),
			UVIndex:                  finite(s.UVIndex),
			HumidityPct:              finite(s.Humidity),
			PrecipitationProbability: finite(s.PrecipitationProbability),
		},
		Recommendation: &recommendationResponse{
			Score:   report.Recommendation.Score,
			Tier:    string(report.Recommendation.Tier),
			Message: report.Recommendation.Message,
			Safety:  report.Recommendation.Safety,
		},
	}
	if !s.ObservedAt.IsZero() {
		observed := s.ObservedAt.In(loc)
		resp.ObservedAt = &observed
	}
	for _, day := range s.Daily {
		resp.Daily = append(resp.Daily, dailyWeatherResponse{
			Date:                     day.Date.In(loc).Format(time.DateOnly),
			TemperatureMaxC:          finite(day.TemperatureMax),
			TemperatureMinC:          finite(day.TemperatureMin),
			PrecipitationProbability: finite(day.PrecipitationProbability),
			UVIndexMax:               finite(day.UVIndexMax),
			WindSpeedMaxKmh:          finite(day.WindSpeedMax),
		})
	}
	return resp
}

// finite drops readings the provider did not report. JSON has no NaN.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

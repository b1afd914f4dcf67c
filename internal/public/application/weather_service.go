package application

import (
	"context"

	"github.com/prbeaches/directory/api/internal/public/domain"
)

// WeatherReport is a scored snapshot. Available is false when the provider could not answer;
// callers omit the weather section instead of failing.
type WeatherReport struct {
	Available      bool
	Snapshot       domain.WeatherSnapshot
	Recommendation domain.WeatherRecommendation
	ProviderErr    error
}

// WeatherService fetches and scores weather for a published beach.
type WeatherService struct {
	discovery DiscoveryService
	provider  WeatherProvider
}

// NewWeatherService wires weather lookups. A nil provider always reports unavailable.
func NewWeatherService(discovery DiscoveryService, provider WeatherProvider) *WeatherService {
	return &WeatherService{discovery: discovery, provider: provider}
}

// ForBeach returns domain.ErrBeachNotFound for unknown or unpublished beaches. Provider failures
// are reported through the report, never as an error.
func (s *WeatherService) ForBeach(ctx context.Context, idOrSlug string) (WeatherReport, error) {
	detail, err := s.discovery.Detail(ctx, idOrSlug)
	if err != nil {
		return WeatherReport{}, err
	}
	if s.provider == nil {
		return WeatherReport{}, nil
	}

	snapshot, err := s.provider.Snapshot(ctx, detail.Beach.Coordinates)
	if err != nil {
		return WeatherReport{ProviderErr: err}, nil
	}
	return WeatherReport{
		Available:      true,
		Snapshot:       snapshot,
		Recommendation: domain.ScoreWeather(snapshot),
	}, nil
}

// Package weather fetches current conditions and a short daily forecast from Open-Meteo.
package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/prbeaches/directory/api/internal/logging"
	"github.com/prbeaches/directory/api/internal/metrics"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

const (
	DefaultBaseURL = "https://api.open-meteo.com"
	breakerName    = "weather-provider"

	currentFields = "temperature_2m,relative_humidity_2m,wind_speed_10m,wind_direction_10m,uv_index,precipitation_probability"
	dailyFields   = "temperature_2m_max,temperature_2m_min,precipitation_probability_max,uv_index_max,wind_speed_10m_max"
)

// ErrUnavailable wraps every failure, including an open breaker.
var ErrUnavailable = errors.New("weather provider unavailable")

// Config configures the client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ForecastDays int
	Timezone     string
	HTTPClient   *http.Client
}

// Client implements application.WeatherProvider.
type Client struct {
	baseURL      string
	forecastDays int
	location     *time.Location
	httpClient   *http.Client
	cb           *gobreaker.CircuitBreaker[domain.WeatherSnapshot]
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = 3
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if cfg.Timezone == "" || err != nil {
		loc = time.UTC
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	metrics.BreakerState.WithLabelValues(breakerName).Set(0)
	cb := gobreaker.NewCircuitBreaker[domain.WeatherSnapshot](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			metrics.BreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Client{
		baseURL:      cfg.BaseURL,
		forecastDays: cfg.ForecastDays,
		location:     loc,
		httpClient:   httpClient,
		cb:           cb,
	}
}

// Snapshot returns current conditions at a coordinate.
func (c *Client) Snapshot(ctx context.Context, at domain.Coordinates) (domain.WeatherSnapshot, error) {
	snap, err := c.cb.Execute(func() (domain.WeatherSnapshot, error) {
		return c.fetch(ctx, at)
	})
	if err != nil {
		result := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "open"
		}
		metrics.WeatherRequests.WithLabelValues(result).Inc()
		return domain.WeatherSnapshot{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	metrics.WeatherRequests.WithLabelValues("success").Inc()
	return snap, nil
}

func (c *Client) fetch(ctx context.Context, at domain.Coordinates) (domain.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(at.Lng, 'f', 4, 64))
	q.Set("current", currentFields)
	q.Set("daily", dailyFields)
	q.Set("wind_speed_unit", "kmh")
	q.Set("timezone", c.location.String())
	q.Set("forecast_days", strconv.Itoa(c.forecastDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.WeatherSnapshot{}, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return body.toSnapshot(c.location), nil
}

type forecastResponse struct {
	Current struct {
		Time                     string   `json:"time"`
		Temperature              *float64 `json:"temperature_2m"`
		Humidity                 *float64 `json:"relative_humidity_2m"`
		WindSpeed                *float64 `json:"wind_speed_10m"`
		WindDirection            *float64 `json:"wind_direction_10m"`
		UVIndex                  *float64 `json:"uv_index"`
		PrecipitationProbability *float64 `json:"precipitation_probability"`
	} `json:"current"`
	Daily struct {
		Time                     []string   `json:"time"`
		TemperatureMax           []*float64 `json:"temperature_2m_max"`
		TemperatureMin           []*float64 `json:"temperature_2m_min"`
		PrecipitationProbability []*float64 `json:"precipitation_probability_max"`
		UVIndexMax               []*float64 `json:"uv_index_max"`
		WindSpeedMax             []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// toSnapshot maps missing values to NaN, which the scorer ignores.
func (r forecastResponse) toSnapshot(loc *time.Location) domain.WeatherSnapshot {
	snap := domain.WeatherSnapshot{
		Temperature:              value(r.Current.Temperature),
		WindSpeed:                value(r.Current.WindSpeed),
		WindDirection:            value(r.Current.WindDirection),
		UVIndex:                  value(r.Current.UVIndex),
		Humidity:                 value(r.Current.Humidity),
		PrecipitationProbability: value(r.Current.PrecipitationProbability),
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", r.Current.Time, loc); err == nil {
		snap.ObservedAt = t
	}

	for i, day := range r.Daily.Time {
		date, err := time.ParseInLocation(time.DateOnly, day, loc)
		if err != nil {
			continue
		}
		snap.Daily = append(snap.Daily, domain.DailyForecast{
			Date:                     date,
			TemperatureMax:           valueAt(r.Daily.TemperatureMax, i),
			TemperatureMin:           valueAt(r.Daily.TemperatureMin, i),
			PrecipitationProbability: valueAt(r.Daily.PrecipitationProbability, i),
			UVIndexMax:               valueAt(r.Daily.UVIndexMax, i),
			WindSpeedMax:             valueAt(r.Daily.WindSpeedMax, i),
		})
	}
	return snap
}

func value(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func valueAt(values []*float64, i int) float64 {
	if i >= len(values) {
		return math.NaN()
	}
	return value(values[i])
}

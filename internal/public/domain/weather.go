package domain

import (
	"math"
	"strings"
	"time"
)

// WeatherSnapshot is a point-in-time reading for a coordinate. Units: °C, km/h, degrees, percent.
type WeatherSnapshot struct {
	Temperature              float64
	WindSpeed                float64
	WindDirection            float64
	UVIndex                  float64
	Humidity                 float64
	PrecipitationProbability float64
	Daily                    []DailyForecast
	ObservedAt               time.Time
}

// DailyForecast is one entry of the short forecast list.
type DailyForecast struct {
	Date                     time.Time
	TemperatureMax           float64
	TemperatureMin           float64
	PrecipitationProbability float64
	UVIndexMax               float64
	WindSpeedMax             float64
}

// WeatherTier buckets a beach score.
type WeatherTier string

const (
	WeatherPoor      WeatherTier = "poor"
	WeatherFair      WeatherTier = "fair"
	WeatherGood      WeatherTier = "good"
	WeatherExcellent WeatherTier = "excellent"
)

// WeatherRecommendation is the scorer output.
type WeatherRecommendation struct {
	Score   int
	Tier    WeatherTier
	Message string
	Safety  string
}

const (
	weatherBaseline      = 70.0
	windComfortKmh       = 20.0
	windPenaltyPerKmh    = 1.2
	windPenaltyCap       = 40.0
	uvHighThreshold      = 8.0
	uvExtremeThreshold   = 10.0
	uvAdvisoryThreshold  = 6.0
	precipThreshold      = 20.0
	precipPenaltyPerPct  = 0.4
	idealTempBonus       = 15.0
	mildTempBonus        = 5.0
	uncomfortableTempHit = 15.0
)

// ScoreWeather maps a snapshot to a 0-100 beach score. Non-finite readings are ignored.
func ScoreWeather(s WeatherSnapshot) WeatherRecommendation {
	score := weatherBaseline

	if finite(s.Temperature) {
		score += temperatureAdjustment(s.Temperature)
	}
	if finite(s.WindSpeed) && s.WindSpeed > windComfortKmh {
		score -= math.Min((s.WindSpeed-windComfortKmh)*windPenaltyPerKmh, windPenaltyCap)
	}
	var safety string
	if finite(s.UVIndex) {
		switch {
		case s.UVIndex > uvExtremeThreshold:
			score -= 20
		case s.UVIndex > uvHighThreshold:
			score -= 10
		}
		safety = uvAdvisory(s.UVIndex)
	}
	if finite(s.PrecipitationProbability) {
		prob := math.Min(math.Max(s.PrecipitationProbability, 0), 100)
		if prob > precipThreshold {
			score -= prob * precipPenaltyPerPct
		}
	}

	final := int(math.Round(math.Min(math.Max(score, 0), 100)))
	tier := tierFor(final)
	return WeatherRecommendation{
		Score:   final,
		Tier:    tier,
		Message: tierMessage(tier, s),
		Safety:  safety,
	}
}

func temperatureAdjustment(t float64) float64 {
	switch {
	case t >= 24 && t <= 31:
		return idealTempBonus
	case (t >= 21 && t < 24) || (t > 31 && t <= 33):
		return mildTempBonus
	case t < 18 || t > 35:
		return -uncomfortableTempHit
	}
	return 0
}

func tierFor(score int) WeatherTier {
	switch {
	case score >= 80:
		return WeatherExcellent
	case score >= 60:
		return WeatherGood
	case score >= 40:
		return WeatherFair
	}
	return WeatherPoor
}

func tierMessage(tier WeatherTier, s WeatherSnapshot) string {
	var reasons []string
	if finite(s.WindSpeed) && s.WindSpeed > windComfortKmh {
		reasons = append(reasons, "windy")
	}
	if finite(s.PrecipitationProbability) && s.PrecipitationProbability > 50 {
		reasons = append(reasons, "rain likely")
	}
	suffix := ""
	if len(reasons) > 0 {
		suffix = " (" + strings.Join(reasons, ", ") + ")"
	}

	switch tier {
	case WeatherExcellent:
		return "Perfect beach day" + suffix
	case WeatherGood:
		return "Good conditions for the beach" + suffix
	case WeatherFair:
		return "Fair conditions, check before heading out" + suffix
	}
	return "Not a great beach day" + suffix
}

func uvAdvisory(uv float64) string {
	switch {
	case uv > uvExtremeThreshold:
		return "Extreme UV: avoid midday sun and seek shade"
	case uv > uvHighThreshold:
		return "Very high UV: reapply reef-safe sunscreen often"
	case uv >= uvAdvisoryThreshold:
		return "High UV: wear reef-safe sunscreen"
	}
	return ""
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

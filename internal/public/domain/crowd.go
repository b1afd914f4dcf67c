package domain

import (
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// CrowdLevel is one of a fixed, ordered set of labels.
type CrowdLevel string

const (
	CrowdQuiet    CrowdLevel = "quiet"
	CrowdModerate CrowdLevel = "moderate"
	CrowdBusy     CrowdLevel = "busy"
	CrowdVeryBusy CrowdLevel = "very_busy"
	CrowdUnknown  CrowdLevel = "unknown"
)

// CrowdLevels lists every label the estimator can emit, quietest first.
var CrowdLevels = []CrowdLevel{CrowdQuiet, CrowdModerate, CrowdBusy, CrowdVeryBusy, CrowdUnknown}

// MaxCrowdHorizon bounds the number of projected hours.
const MaxCrowdHorizon = 12

const (
	crowdJitter        = 0.15
	quietUpperBound    = 0.30
	moderateUpperBound = 0.55
	busyUpperBound     = 0.78
	weekendMultiplier  = 1.3
	weekendOffset      = 0.05
)

// weekday load by local hour of day
var hourlyLoad = [24]float64{
	0.02, 0.02, 0.02, 0.02, 0.02, 0.03,
	0.08, 0.15, 0.22, 0.30, 0.40, 0.50,
	0.58, 0.62, 0.60, 0.55, 0.48, 0.40,
	0.30, 0.18, 0.10, 0.05, 0.05, 0.03,
}

// Label is the human-readable form of the level.
func (l CrowdLevel) Label() string {
	switch l {
	case CrowdQuiet:
		return "Quiet"
	case CrowdModerate:
		return "Moderate"
	case CrowdBusy:
		return "Busy"
	case CrowdVeryBusy:
		return "Very busy"
	}
	return "Unknown"
}

// HourlyCrowd is a projected level for a future hour.
type HourlyCrowd struct {
	At            time.Time
	Level         CrowdLevel
	TimeQualifier string
}

// CrowdEstimate is derived per request and never stored.
type CrowdEstimate struct {
	Level         CrowdLevel
	TimeQualifier string
	At            time.Time
	Forecast      []HourlyCrowd
}

// CrowdEstimator classifies expected visitor density from local time alone.
type CrowdEstimator struct {
	loc *time.Location
}

// NewCrowdEstimator evaluates hours in loc. A nil loc means UTC.
func NewCrowdEstimator(loc *time.Location) CrowdEstimator {
	if loc == nil {
		loc = time.UTC
	}
	return CrowdEstimator{loc: loc}
}

// EstimateBatch returns an estimate for every id in one pass. Results depend only on
// the id and the wall-clock minute of at.
func (e CrowdEstimator) EstimateBatch(ids []string, at time.Time, horizonHours int) map[string]CrowdEstimate {
	horizon := min(max(horizonHours, 0), MaxCrowdHorizon)
	now := at.In(e.location()).Truncate(time.Minute)

	result := make(map[string]CrowdEstimate, len(ids))
	for _, id := range ids {
		if _, done := result[id]; done {
			continue
		}
		estimate := CrowdEstimate{
			Level:         e.Level(id, now),
			TimeQualifier: "right now",
			At:            now,
		}
		if horizon > 0 {
			estimate.Forecast = make([]HourlyCrowd, 0, horizon)
			for h := 1; h <= horizon; h++ {
				slot := now.Truncate(time.Hour).Add(time.Duration(h) * time.Hour)
				estimate.Forecast = append(estimate.Forecast, HourlyCrowd{
					At:            slot,
					Level:         e.Level(id, slot),
					TimeQualifier: "around " + slot.Format("3 PM"),
				})
			}
		}
		result[id] = estimate
	}
	return result
}

// Level classifies a single beach at t.
func (e CrowdEstimator) Level(id string, t time.Time) CrowdLevel {
	if strings.TrimSpace(id) == "" {
		return CrowdUnknown
	}
	local := t.In(e.location())
	load := baseLoad(local) + perturbation(id, local)
	return bucketLoad(load)
}

func (e CrowdEstimator) location() *time.Location {
	if e.loc == nil {
		return time.UTC
	}
	return e.loc
}

func baseLoad(local time.Time) float64 {
	load := hourlyLoad[local.Hour()]
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		load = load*weekendMultiplier + weekendOffset
	}
	return load
}

// perturbation maps (id, local hour) onto [-crowdJitter, +crowdJitter].
func perturbation(id string, local time.Time) float64 {
	sum := xxhash.Sum64String(id + "|" + local.Format("2006-01-02T15"))
	unit := float64(sum%1000) / 999
	return unit*2*crowdJitter - crowdJitter
}

func bucketLoad(load float64) CrowdLevel {
	load = min(max(load, 0), 1)
	switch {
	case load < quietUpperBound:
		return CrowdQuiet
	case load < moderateUpperBound:
		return CrowdModerate
	case load < busyUpperBound:
		return CrowdBusy
	}
	return CrowdVeryBusy
}

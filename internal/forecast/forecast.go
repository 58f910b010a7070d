// Package forecast predicts next-day PM2.5 levels per district. The model is
// a deterministic heuristic over district baselines and calendar features —
// no state, no I/O.
package forecast

import (
	"math"
	"strings"
	"time"

	"github.com/SULDev2024/ICPAIR/internal/config"
)

const (
	fallbackPM25 = 60 // unknown district
	minPM25      = 10
	maxPM25      = 150
)

// PredictPM25 returns the expected PM2.5 concentration (µg/m³) for a
// district on a given date. District matching is case-insensitive; unknown
// districts get a city-average fallback. Deterministic: the same
// (date, district) pair always yields the same value.
func PredictPM25(date time.Time, district string) float64 {
	var baseline *config.DistrictConfig
	for name, dc := range config.DistrictRegistry {
		if strings.EqualFold(name, district) {
			d := dc
			baseline = &d
			break
		}
	}
	if baseline == nil {
		return fallbackPM25
	}

	prediction := baseline.BaselinePM25
	month := int(date.Month())

	// Almaty winters trap smog in the valley; summers clear it out.
	switch {
	case month >= 11 || month <= 2:
		prediction += 15
	case month >= 6 && month <= 8:
		prediction -= 10
	}

	// Weekends have less traffic.
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		prediction -= 5
	}

	// Deterministic day-to-day variation scaled by district volatility.
	dayHash := float64(date.Day() + (month-1)*31)
	prediction += math.Sin(dayHash) * baseline.Variation

	prediction = math.Max(minPM25, math.Min(maxPM25, prediction))
	return math.Round(prediction*10) / 10
}

package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SULDev2024/ICPAIR/internal/config"
)

func TestPredictPM25_Deterministic(t *testing.T) {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	a := PredictPM25(date, "Turksib")
	b := PredictPM25(date, "Turksib")
	assert.Equal(t, a, b)
}

func TestPredictPM25_Bounds(t *testing.T) {
	for _, district := range config.DefaultDistricts {
		for day := 1; day <= 28; day++ {
			for month := time.January; month <= time.December; month++ {
				date := time.Date(2026, month, day, 0, 0, 0, 0, time.UTC)
				v := PredictPM25(date, district)
				assert.GreaterOrEqual(t, v, 10.0, "%s %s", district, date)
				assert.LessOrEqual(t, v, 150.0, "%s %s", district, date)
			}
		}
	}
}

func TestPredictPM25_WinterExceedsSummer(t *testing.T) {
	// Same weekday and day-of-month so only the season differs.
	winter := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)  // Monday
	summer := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)  // Monday

	// Compare averages across districts so the per-day variation washes out.
	var winterSum, summerSum float64
	for _, d := range config.DefaultDistricts {
		winterSum += PredictPM25(winter, d)
		summerSum += PredictPM25(summer, d)
	}
	assert.Greater(t, winterSum, summerSum)
}

func TestPredictPM25_CaseInsensitive(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, PredictPM25(date, "Medeu"), PredictPM25(date, "medeu"))
	assert.Equal(t, PredictPM25(date, "Medeu"), PredictPM25(date, "MEDEU"))
}

func TestPredictPM25_UnknownDistrictFallback(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 60.0, PredictPM25(date, "Atlantis"))
}

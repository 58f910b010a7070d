package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Bands(t *testing.T) {
	tests := []struct {
		name     string
		pm25     float64
		pm10     float64
		wantOK   bool
		wantLvl  Level
		dominant string
	}{
		{"clean air", 10, 20, false, LevelNone, ""},
		{"both at threshold boundary", 75, 150, false, LevelNone, ""},
		{"pm25 just over first band", 75.1, 0, true, LevelSensitiveGroups, "PM2.5"},
		{"pm10 just over first band", 0, 150.1, true, LevelSensitiveGroups, "PM10"},
		{"pm25 unhealthy", 120, 50, true, LevelUnhealthy, "PM2.5"},
		{"pm10 unhealthy", 50, 260, true, LevelUnhealthy, "PM10"},
		{"pm25 very unhealthy", 151, 0, true, LevelVeryUnhealthy, "PM2.5"},
		{"pm10 very unhealthy", 0, 351, true, LevelVeryUnhealthy, "PM10"},
		{"worse pollutant wins", 80, 260, true, LevelUnhealthy, "PM10"},
		{"equal bands favor pm25", 120, 260, true, LevelUnhealthy, "PM2.5"},
		{"sensitive tie favors pm25", 80, 160, true, LevelSensitiveGroups, "PM2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sev, ok := Classify(tt.pm25, tt.pm10)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantLvl, sev.Level)
			assert.Equal(t, tt.dominant, sev.Dominant)
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	// Increasing PM2.5 never lowers the severity band.
	prev := LevelNone
	for v := 0.0; v <= 300; v += 5 {
		sev, ok := Classify(v, 0)
		lvl := LevelNone
		if ok {
			lvl = sev.Level
		}
		require.GreaterOrEqual(t, lvl, prev, "pm25=%v", v)
		prev = lvl
	}
}

func TestClassifyOverride_BelowBands(t *testing.T) {
	sev := ClassifyOverride(30, 40)
	assert.Equal(t, LevelSensitiveGroups, sev.Level)
	assert.Equal(t, "PM2.5", sev.Dominant)

	// Above bands it matches Classify.
	sev = ClassifyOverride(160, 40)
	assert.Equal(t, LevelVeryUnhealthy, sev.Level)
	assert.Equal(t, 160.0, sev.Value)
}

func TestBuildNotification(t *testing.T) {
	sev, ok := Classify(120, 200)
	require.True(t, ok)
	require.Equal(t, LevelUnhealthy, sev.Level)

	n := BuildNotification("Turksib", 120, 200, sev)

	assert.Equal(t, "🔴 Air Quality Alert - Turksib", n.Title)
	assert.Equal(t, "PM2.5: 120 µg/m³ (Unhealthy). Limit outdoor activities.", n.Body)
	assert.Equal(t, map[string]string{
		"type":     "air_quality_alert",
		"district": "Turksib",
		"pm25":     "120",
		"pm10":     "200",
		"level":    "Unhealthy",
	}, n.Data)
}

func TestBuildNotification_RoundsDominantValue(t *testing.T) {
	sev, ok := Classify(120.6, 50)
	require.True(t, ok)
	n := BuildNotification("Medeu", 120.6, 50, sev)
	assert.Contains(t, n.Body, "PM2.5: 121 µg/m³")
	// Raw values stay un-rounded in the data payload.
	assert.Equal(t, "120.6", n.Data["pm25"])
}

func TestBuildNotification_VeryUnhealthyEmoji(t *testing.T) {
	sev, ok := Classify(160, 0)
	require.True(t, ok)
	n := BuildNotification("Alatau", 160, 0, sev)
	assert.Equal(t, "🟣 Air Quality Alert - Alatau", n.Title)
}

package alert

import (
	"fmt"
	"math"
)

// Level is an air-quality severity band. Ordered: a higher value is worse.
type Level int

const (
	LevelNone Level = iota
	LevelSensitiveGroups
	LevelUnhealthy
	LevelVeryUnhealthy
)

// Label returns the human-readable severity name used in notifications.
func (l Level) Label() string {
	switch l {
	case LevelSensitiveGroups:
		return "Unhealthy for Sensitive Groups"
	case LevelUnhealthy:
		return "Unhealthy"
	case LevelVeryUnhealthy:
		return "Very Unhealthy"
	default:
		return "Good"
	}
}

// Emoji returns the severity marker used in notification titles.
func (l Level) Emoji() string {
	switch l {
	case LevelUnhealthy:
		return "🔴"
	case LevelVeryUnhealthy:
		return "🟣"
	default:
		return "🟠"
	}
}

// Severity is the classification of a (PM2.5, PM10) pair. Dominant names the
// pollutant that produced the level ("PM2.5" or "PM10"); Value is its
// concentration in µg/m³.
type Severity struct {
	Level    Level
	Dominant string
	Value    float64
}

// Classify maps a measured PM pair to a severity. Either pollutant can
// trigger a band and the worse of the two wins; on equal bands PM2.5 is the
// dominant pollutant. Returns ok=false when both values are below the lowest
// band, meaning air quality is acceptable and no alert is warranted.
// Pure — no I/O, no side effects.
func Classify(pm25, pm10 float64) (Severity, bool) {
	l25 := classifyPM25(pm25)
	l10 := classifyPM10(pm10)

	if l25 == LevelNone && l10 == LevelNone {
		return Severity{}, false
	}
	if l10 > l25 {
		return Severity{Level: l10, Dominant: "PM10", Value: pm10}, true
	}
	return Severity{Level: l25, Dominant: "PM2.5", Value: pm25}, true
}

// PM2.5 bands (µg/m³).
func classifyPM25(v float64) Level {
	switch {
	case v > 150:
		return LevelVeryUnhealthy
	case v > 115:
		return LevelUnhealthy
	case v > 75:
		return LevelSensitiveGroups
	default:
		return LevelNone
	}
}

// PM10 bands (µg/m³).
func classifyPM10(v float64) Level {
	switch {
	case v > 350:
		return LevelVeryUnhealthy
	case v > 250:
		return LevelUnhealthy
	case v > 150:
		return LevelSensitiveGroups
	default:
		return LevelNone
	}
}

// ClassifyOverride is the manual-alert variant of Classify: values below
// every band still yield a SensitiveGroups severity, so an administrative
// send is never rejected for being "too clean".
func ClassifyOverride(pm25, pm10 float64) Severity {
	if sev, ok := Classify(pm25, pm10); ok {
		return sev
	}
	return Severity{Level: LevelSensitiveGroups, Dominant: "PM2.5", Value: pm25}
}

// Notification is a fully rendered alert payload ready for the push gateway.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// BuildNotification renders the fixed-shape alert payload for a district.
// The body names the dominant pollutant of the given severity.
func BuildNotification(district string, pm25, pm10 float64, sev Severity) Notification {
	return Notification{
		Title: fmt.Sprintf("%s Air Quality Alert - %s", sev.Level.Emoji(), district),
		Body: fmt.Sprintf("%s: %d µg/m³ (%s). Limit outdoor activities.",
			sev.Dominant, int(math.Round(sev.Value)), sev.Level.Label()),
		Data: map[string]string{
			"type":     "air_quality_alert",
			"district": district,
			"pm25":     fmt.Sprintf("%g", pm25),
			"pm10":     fmt.Sprintf("%g", pm10),
			"level":    sev.Level.Label(),
		},
	}
}

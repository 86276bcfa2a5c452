package domain

import (
	"fmt"
	"time"
)

// Alert levels, in increasing order of urgency.
const (
	AlertWarning = "warning"
	AlertAlert   = "alert"
	AlertSevere  = "severe"
)

// Alert is one active space-weather alert derived from current conditions.
type Alert struct {
	Level     string    `json:"level"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckAlerts evaluates current conditions against the operational alert
// thresholds. Returns an empty slice during quiet conditions.
func CheckAlerts(cond Conditions, now time.Time) []Alert {
	alerts := []Alert{}
	ts := now.UTC()

	if cond.SolarWindSpeed > 700 {
		alerts = append(alerts, Alert{
			Level:     AlertWarning,
			Type:      "solar_wind",
			Message:   fmt.Sprintf("High solar wind speed detected: %.0f km/s", cond.SolarWindSpeed),
			Timestamp: ts,
		})
	}

	if cond.Bz < -15 {
		alerts = append(alerts, Alert{
			Level:     AlertAlert,
			Type:      "magnetic_field",
			Message:   fmt.Sprintf("Strong southward magnetic field: Bz = %.1f nT", cond.Bz),
			Timestamp: ts,
		})
	}

	if cond.Dst < -100 {
		alerts = append(alerts, Alert{
			Level:     AlertSevere,
			Type:      "geomagnetic_storm",
			Message:   fmt.Sprintf("Severe geomagnetic storm conditions: Dst = %.1f nT", cond.Dst),
			Timestamp: ts,
		})
	}

	if cond.SouthwardDuration > 3*time.Hour {
		alerts = append(alerts, Alert{
			Level:     AlertWarning,
			Type:      "sustained_southward",
			Message:   fmt.Sprintf("Sustained southward IMF for %.0f minutes", cond.SouthwardDuration.Minutes()),
			Timestamp: ts,
		})
	}

	return alerts
}

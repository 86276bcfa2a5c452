package domain

import (
	"errors"
	"time"
)

// ErrNoSamples is returned by the summary functions when the validated feed
// contained no usable rows.
var ErrNoSamples = errors.New("no samples in feed")

// trailingWindow is the lookback used for the rolling statistics in all
// feed summaries.
const trailingWindow = 24 * time.Hour

// SolarWindSummary condenses a plasma feed into the figures the dashboard
// renders: the latest reading plus trailing 24-hour statistics.
type SolarWindSummary struct {
	CurrentSpeed       float64   `json:"current_speed"`
	CurrentDensity     float64   `json:"current_density"`
	CurrentTemperature float64   `json:"current_temperature"`
	AvgSpeed24h        float64   `json:"avg_speed_24h"`
	MaxSpeed24h        float64   `json:"max_speed_24h"`
	Timestamp          time.Time `json:"timestamp"`
}

// SummarizeSolarWind computes a SolarWindSummary from normalized samples.
// Samples are assumed to be in feed order (oldest first); the trailing
// window is anchored at the newest sample, not wall-clock time, so a stale
// feed still summarizes consistently.
func SummarizeSolarWind(samples []SolarWindSample) (SolarWindSummary, error) {
	if len(samples) == 0 {
		return SolarWindSummary{}, ErrNoSamples
	}

	latest := samples[len(samples)-1]
	cutoff := latest.Time.Add(-trailingWindow)

	var sum, max float64
	var n int
	for _, s := range samples {
		if s.Time.Before(cutoff) {
			continue
		}
		sum += s.Speed
		if s.Speed > max {
			max = s.Speed
		}
		n++
	}

	return SolarWindSummary{
		CurrentSpeed:       latest.Speed,
		CurrentDensity:     latest.Density,
		CurrentTemperature: latest.Temperature,
		AvgSpeed24h:        sum / float64(n),
		MaxSpeed24h:        max,
		Timestamp:          latest.Time,
	}, nil
}

package domain

import (
	"math"
	"time"
)

// MagSummary condenses the IMF magnetometer feed: the latest field reading,
// how long Bz has pointed southward over the trailing 24 hours, and a
// disturbance classification from total-field variation.
type MagSummary struct {
	CurrentBz         float64       `json:"current_bz"`
	CurrentBt         float64       `json:"current_bt"`
	SouthwardDuration time.Duration `json:"southward_duration"`
	AvgBt24h          float64       `json:"avg_bt_24h"`
	Variation24h      float64       `json:"variation_24h"` // std dev of Bt, nT
	Disturbance       string        `json:"disturbance_level"`
	Timestamp         time.Time     `json:"timestamp"`
}

// SummarizeMagnetometer computes a MagSummary from normalized samples
// (oldest first). Southward duration is estimated from the fraction of
// samples with Bz < 0 scaled by the sample cadence, so it tolerates feeds
// published at different resolutions.
func SummarizeMagnetometer(samples []MagSample) (MagSummary, error) {
	if len(samples) == 0 {
		return MagSummary{}, ErrNoSamples
	}

	latest := samples[len(samples)-1]
	cutoff := latest.Time.Add(-trailingWindow)

	window := samples[:0:0]
	for _, s := range samples {
		if !s.Time.Before(cutoff) {
			window = append(window, s)
		}
	}

	var sum float64
	var southward int
	for _, s := range window {
		sum += s.Bt
		if s.Bz < 0 {
			southward++
		}
	}
	avg := sum / float64(len(window))

	var variance float64
	for _, s := range window {
		d := s.Bt - avg
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(window)))

	return MagSummary{
		CurrentBz:         latest.Bz,
		CurrentBt:         latest.Bt,
		SouthwardDuration: time.Duration(southward) * cadence(window),
		AvgBt24h:          avg,
		Variation24h:      stddev,
		Disturbance:       ClassifyDisturbance(stddev),
		Timestamp:         latest.Time,
	}, nil
}

// cadence estimates the publication interval of a sample window. Falls back
// to 15 minutes, the historical ACE cadence, for single-sample windows.
func cadence(window []MagSample) time.Duration {
	if len(window) < 2 {
		return 15 * time.Minute
	}
	span := window[len(window)-1].Time.Sub(window[0].Time)
	return span / time.Duration(len(window)-1)
}

// ClassifyDisturbance maps total-field standard deviation (nT) to a
// qualitative geomagnetic disturbance level.
func ClassifyDisturbance(variation float64) string {
	switch {
	case variation < 10:
		return "Quiet"
	case variation < 20:
		return "Unsettled"
	case variation < 30:
		return "Active"
	case variation < 50:
		return "Minor Storm"
	default:
		return "Major Storm"
	}
}

// PropagationTime estimates how long solar wind observed at L1 takes to
// reach Earth, given its speed in km/s.
func PropagationTime(speedKms float64) time.Duration {
	const l1DistanceKm = 1_500_000
	if speedKms <= 0 {
		return time.Hour
	}
	return time.Duration(l1DistanceKm / speedKms * float64(time.Second))
}

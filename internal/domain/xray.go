package domain

import (
	"fmt"
	"sort"
	"time"
)

// GOES X-ray energy channel names as they appear in the feed.
const (
	XRayChannelShort = "0.05-0.4nm"
	XRayChannelLong  = "0.1-0.8nm"
)

// XRaySummary condenses the GOES X-ray flux feed. Flare classification and
// rolling statistics use the long (0.1-0.8nm) channel, the channel NOAA
// flare classes are defined on.
type XRaySummary struct {
	CurrentFlux     float64   `json:"current_flux"` // W/m²
	Classification  string    `json:"classification"`
	Max24h          float64   `json:"max_24h"`
	BackgroundLevel float64   `json:"background_level"` // 10th percentile of trailing window
	DataPoints      int       `json:"data_points"`
	LastUpdate      time.Time `json:"last_update"`
}

// SummarizeXRay computes an XRaySummary from normalized flux samples
// (oldest first, both channels interleaved).
func SummarizeXRay(samples []FluxSample) (XRaySummary, error) {
	long := samples[:0:0]
	for _, s := range samples {
		if s.Energy == XRayChannelLong {
			long = append(long, s)
		}
	}
	if len(long) == 0 {
		return XRaySummary{}, ErrNoSamples
	}

	latest := long[len(long)-1]
	cutoff := latest.Time.Add(-trailingWindow)

	var window []float64
	var max float64
	for _, s := range long {
		if s.Time.Before(cutoff) {
			continue
		}
		window = append(window, s.Flux)
		if s.Flux > max {
			max = s.Flux
		}
	}

	return XRaySummary{
		CurrentFlux:     latest.Flux,
		Classification:  ClassifyFlux(latest.Flux),
		Max24h:          max,
		BackgroundLevel: percentile(window, 0.1),
		DataPoints:      len(samples),
		LastUpdate:      latest.Time,
	}, nil
}

// ClassifyFlux maps long-channel X-ray flux (W/m²) to the standard solar
// flare class. Flux above the X1 threshold carries the multiplier, e.g.
// 2.5e-4 W/m² is "X2-class".
func ClassifyFlux(flux float64) string {
	switch {
	case flux < 1e-8:
		return "A-class"
	case flux < 1e-7:
		return "B-class"
	case flux < 1e-6:
		return "C-class"
	case flux < 1e-5:
		return "M-class"
	case flux < 1e-4:
		return "X-class"
	default:
		return fmt.Sprintf("X%d-class", int(flux/1e-4))
	}
}

// percentile returns the p-th (0..1) percentile of values using
// nearest-rank on a sorted copy. Returns 0 for an empty slice.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

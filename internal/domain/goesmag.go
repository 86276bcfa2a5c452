package domain

import (
	"math"
	"time"
)

// GoesMagSample is one normalized row of the GOES magnetometer feed. The
// spacecraft measures the geomagnetic field in situ (Hp northward, He
// earthward, Hn eastward), unlike the L1 monitors that sample the
// interplanetary field upstream.
type GoesMagSample struct {
	Time  time.Time `json:"time"`
	Hp    float64   `json:"hp"` // nT
	He    float64   `json:"he"`
	Hn    float64   `json:"hn"`
	Total float64   `json:"total"`
}

// GoesField is the latest GOES field reading by component.
type GoesField struct {
	Hp    float64 `json:"hp"`
	He    float64 `json:"he"`
	Hn    float64 `json:"hn"`
	Total float64 `json:"total"`
}

// GoesMagSummary condenses the GOES magnetometer feed: the current field
// and a disturbance classification from total-field variation over the
// trailing 24 hours.
type GoesMagSummary struct {
	CurrentField GoesField `json:"current_field"`
	Variation24h float64   `json:"variation_24h"` // std dev of total field, nT
	Disturbance  string    `json:"disturbance_level"`
	Timestamp    time.Time `json:"timestamp"`
}

// SummarizeGoesMag computes a GoesMagSummary from normalized samples
// (oldest first).
func SummarizeGoesMag(samples []GoesMagSample) (GoesMagSummary, error) {
	if len(samples) == 0 {
		return GoesMagSummary{}, ErrNoSamples
	}

	latest := samples[len(samples)-1]
	cutoff := latest.Time.Add(-trailingWindow)

	var window []float64
	var sum float64
	for _, s := range samples {
		if s.Time.Before(cutoff) {
			continue
		}
		window = append(window, s.Total)
		sum += s.Total
	}
	avg := sum / float64(len(window))

	var variance float64
	for _, v := range window {
		d := v - avg
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(window)))

	return GoesMagSummary{
		CurrentField: GoesField{Hp: latest.Hp, He: latest.He, Hn: latest.Hn, Total: latest.Total},
		Variation24h: stddev,
		Disturbance:  ClassifyDisturbance(stddev),
		Timestamp:    latest.Time,
	}, nil
}

package domain

import "time"

// sepThresholdPfu is the NOAA S1 threshold: a >=10 MeV proton flux above
// 10 pfu marks a solar energetic particle event in progress. The channel
// name is matched exactly so ">=100 MeV" never inherits the threshold.
const (
	sepThresholdPfu = 10.0
	sepChannel      = ">=10 MeV"
)

// ProtonChannel summarizes one integral proton energy channel.
type ProtonChannel struct {
	CurrentFlux            float64 `json:"current_flux"` // pfu
	Max24h                 float64 `json:"max_24h"`
	Avg24h                 float64 `json:"avg_24h"`
	AlertThresholdExceeded bool    `json:"alert_threshold_exceeded"`
}

// ProtonSummary condenses the GOES integral proton feed across all energy
// channels present in the payload.
type ProtonSummary struct {
	Channels   map[string]ProtonChannel `json:"channels"`
	SEPEvent   bool                     `json:"sep_event_in_progress"`
	LastUpdate time.Time                `json:"last_update"`
}

// SummarizeProtons groups flux samples by energy channel and computes
// per-channel statistics over the trailing 24 hours.
func SummarizeProtons(samples []FluxSample) (ProtonSummary, error) {
	if len(samples) == 0 {
		return ProtonSummary{}, ErrNoSamples
	}

	byChannel := map[string][]FluxSample{}
	var lastUpdate time.Time
	for _, s := range samples {
		byChannel[s.Energy] = append(byChannel[s.Energy], s)
		if s.Time.After(lastUpdate) {
			lastUpdate = s.Time
		}
	}

	channels := make(map[string]ProtonChannel, len(byChannel))
	sepEvent := false
	for energy, chSamples := range byChannel {
		latest := chSamples[len(chSamples)-1]
		cutoff := latest.Time.Add(-trailingWindow)

		var sum, max float64
		var n int
		for _, s := range chSamples {
			if s.Time.Before(cutoff) {
				continue
			}
			sum += s.Flux
			if s.Flux > max {
				max = s.Flux
			}
			n++
		}

		exceeded := energy == sepChannel && latest.Flux > sepThresholdPfu
		if exceeded {
			sepEvent = true
		}

		channels[energy] = ProtonChannel{
			CurrentFlux:            latest.Flux,
			Max24h:                 max,
			Avg24h:                 sum / float64(n),
			AlertThresholdExceeded: exceeded,
		}
	}

	return ProtonSummary{
		Channels:   channels,
		SEPEvent:   sepEvent,
		LastUpdate: lastUpdate,
	}, nil
}

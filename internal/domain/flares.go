package domain

import (
	"sort"
	"strings"
	"time"
)

// flareClasses are the GOES flare classes tracked in activity counts,
// weakest first.
var flareClasses = []string{"B", "C", "M", "X"}

// FlareEvent is one normalized flare from the GOES X-ray flares feed.
type FlareEvent struct {
	Class    string    `json:"class"` // e.g. "M1.2"
	Begin    time.Time `json:"begin"`
	Peak     time.Time `json:"peak"`
	End      time.Time `json:"end"`
	Region   string    `json:"region"`
	Location string    `json:"location"`
	PeakFlux float64   `json:"peak_flux"` // W/m²
}

// FlareActivity summarizes recent flaring: per-class counts over the
// trailing 24 hours and the strongest recent events, newest first.
type FlareActivity struct {
	Counts24h     map[string]int `json:"counts_24h"`
	Recent        []FlareEvent   `json:"recent_flares"` // up to 10, newest first
	ActivityLevel string         `json:"activity_level"`
}

// UnknownFlareActivity is the degraded view served when the flares feed is
// unavailable: zero counts and an explicit unknown level, so the dashboard
// can tell "no flares" from "no data".
func UnknownFlareActivity() FlareActivity {
	return FlareActivity{
		Counts24h:     zeroCounts(),
		Recent:        []FlareEvent{},
		ActivityLevel: "Unknown",
	}
}

// SummarizeFlares counts flares by class over the 24 hours before now and
// classifies the overall activity level.
func SummarizeFlares(events []FlareEvent, now time.Time) FlareActivity {
	counts := zeroCounts()
	cutoff := now.Add(-trailingWindow)
	for _, e := range events {
		if e.Peak.Before(cutoff) {
			continue
		}
		class := flareClass(e.Class)
		if _, ok := counts[class]; ok {
			counts[class]++
		}
	}

	recent := append([]FlareEvent(nil), events...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Peak.After(recent[j].Peak)
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}
	if recent == nil {
		recent = []FlareEvent{}
	}

	return FlareActivity{
		Counts24h:     counts,
		Recent:        recent,
		ActivityLevel: ClassifyActivityLevel(counts),
	}
}

// ClassifyActivityLevel maps 24-hour flare counts to a qualitative solar
// activity level. Any X flare dominates; repeated M flares outrank a burst
// of C flares.
func ClassifyActivityLevel(counts map[string]int) string {
	switch {
	case counts["X"] > 0:
		return "Very High"
	case counts["M"] >= 3:
		return "High"
	case counts["M"] >= 1:
		return "Moderate"
	case counts["C"] >= 5:
		return "Low-Moderate"
	case counts["C"] >= 1:
		return "Low"
	case counts["B"] >= 1:
		return "Very Low"
	default:
		return "Quiet"
	}
}

func zeroCounts() map[string]int {
	counts := make(map[string]int, len(flareClasses))
	for _, c := range flareClasses {
		counts[c] = 0
	}
	return counts
}

// flareClass extracts the class letter from a GOES class string like
// "M1.2".
func flareClass(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1])
}

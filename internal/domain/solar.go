package domain

import (
	"fmt"
	"strings"
	"time"
)

// RegionSummary condenses the SWPC solar regions feed: active region count,
// magnetic complexity, and an assessment of flare potential.
type RegionSummary struct {
	TotalRegions   int           `json:"total_regions"`
	ComplexRegions int           `json:"complex_regions"`
	Regions        []SolarRegion `json:"regions"` // up to 5 most significant
	FlarePotential string        `json:"flare_potential"`
}

// SolarAnalysis is the combined solar conditions view: current cycle
// indices, active region analysis, recent flare activity, and an overall
// assessment.
type SolarAnalysis struct {
	Timestamp  time.Time       `json:"timestamp"`
	Indices    SolarIndices    `json:"solar_indices"`
	Regions    RegionSummary   `json:"sunspot_analysis"`
	Flares     FlareActivity   `json:"flare_activity"`
	Assessment SolarAssessment `json:"overall_assessment"`
}

// SolarAssessment is the structured overall view at the top of the solar
// conditions panel: where the solar cycle stands and what the current
// configuration puts at risk.
type SolarAssessment struct {
	CyclePhase      string   `json:"solar_cycle_phase"`
	KeyRisks        []string `json:"key_risks"`
	Recommendations []string `json:"recommendations"`
}

// SummarizeRegions filters a regions feed to active regions and assesses
// flare potential from magnetic classification. Delta configurations and
// beta-gamma complexes are the strongest flare precursors.
func SummarizeRegions(regions []SolarRegion) RegionSummary {
	var active []SolarRegion
	complexCount := 0
	for _, r := range regions {
		if r.Status != "active" {
			continue
		}
		active = append(active, r)
		if isComplex(r.MagClass) {
			complexCount++
		}
	}

	shown := active
	if len(shown) > 5 {
		shown = shown[:5]
	}
	if shown == nil {
		shown = []SolarRegion{}
	}

	return RegionSummary{
		TotalRegions:   len(active),
		ComplexRegions: complexCount,
		Regions:        shown,
		FlarePotential: assessFlarePotential(len(active), complexCount),
	}
}

func isComplex(magClass string) bool {
	mc := strings.ToLower(magClass)
	return strings.Contains(mc, "delta") || strings.Contains(mc, "beta-gamma")
}

func assessFlarePotential(active, complexCount int) string {
	switch {
	case complexCount >= 2:
		return "high"
	case complexCount == 1 || active >= 5:
		return "moderate"
	case active > 0:
		return "low"
	default:
		return "very low"
	}
}

// Assess combines indices, region analysis, and flare activity into the
// overall assessment. The cycle phase follows the sunspot number; risks
// and recommendations accumulate from whichever hazards are present, so a
// quiet sun yields empty lists rather than filler text.
func Assess(indices SolarIndices, regions RegionSummary, flares FlareActivity) SolarAssessment {
	a := SolarAssessment{
		CyclePhase:      cyclePhase(indices.SunspotNumber),
		KeyRisks:        []string{},
		Recommendations: []string{},
	}

	if flares.ActivityLevel == "High" || flares.ActivityLevel == "Very High" {
		a.KeyRisks = append(a.KeyRisks, "Elevated risk of radio blackouts")
		a.Recommendations = append(a.Recommendations, "Monitor HF radio communications")
	}
	if regions.FlarePotential == "high" || regions.FlarePotential == "moderate" {
		a.KeyRisks = append(a.KeyRisks, fmt.Sprintf("%s potential for significant flares", regions.FlarePotential))
		a.Recommendations = append(a.Recommendations, "Prepare for possible geomagnetic disturbances")
	}
	if regions.ComplexRegions > 0 {
		a.KeyRisks = append(a.KeyRisks, fmt.Sprintf("%d magnetically complex regions present", regions.ComplexRegions))
	}
	return a
}

// cyclePhase places a monthly sunspot number on the solar cycle.
func cyclePhase(ssn float64) string {
	switch {
	case ssn <= 0:
		return "Unknown"
	case ssn < 30:
		return "Minimum"
	case ssn < 80:
		return "Rising/Declining"
	default:
		return "Maximum"
	}
}

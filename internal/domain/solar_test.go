package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeRegions(t *testing.T) {
	t.Run("filters and classifies active regions", func(t *testing.T) {
		regions := []SolarRegion{
			{Region: 13664, MagClass: "beta-gamma-delta", Status: "active"},
			{Region: 13668, MagClass: "beta", Status: "active"},
			{Region: 13661, MagClass: "alpha", Status: "inactive"},
		}
		sum := SummarizeRegions(regions)

		assert.Equal(t, 2, sum.TotalRegions)
		assert.Equal(t, 1, sum.ComplexRegions)
		assert.Len(t, sum.Regions, 2)
		assert.Equal(t, "moderate", sum.FlarePotential)
	})

	t.Run("caps displayed regions at five", func(t *testing.T) {
		var regions []SolarRegion
		for i := range 8 {
			regions = append(regions, SolarRegion{Region: 13600 + i, MagClass: "beta", Status: "active"})
		}
		sum := SummarizeRegions(regions)

		assert.Equal(t, 8, sum.TotalRegions)
		assert.Len(t, sum.Regions, 5)
		assert.Equal(t, "moderate", sum.FlarePotential, "many active regions alone raise the potential")
	})

	t.Run("two complex regions is high potential", func(t *testing.T) {
		sum := SummarizeRegions([]SolarRegion{
			{Region: 1, MagClass: "Beta-Gamma", Status: "active"},
			{Region: 2, MagClass: "gamma-delta", Status: "active"},
		})
		assert.Equal(t, "high", sum.FlarePotential)
	})

	t.Run("no regions", func(t *testing.T) {
		sum := SummarizeRegions(nil)
		assert.Equal(t, 0, sum.TotalRegions)
		assert.NotNil(t, sum.Regions, "regions must serialize as [], not null")
		assert.Equal(t, "very low", sum.FlarePotential)
	})
}

func TestAssess(t *testing.T) {
	t.Run("cycle phase follows the sunspot number", func(t *testing.T) {
		tests := []struct {
			ssn  float64
			want string
		}{
			{0, "Unknown"},
			{12, "Minimum"},
			{55, "Rising/Declining"},
			{130, "Maximum"},
		}
		for i, tt := range tests {
			a := Assess(SolarIndices{SunspotNumber: tt.ssn}, RegionSummary{}, FlareActivity{})
			assert.Equal(t, tt.want, a.CyclePhase, fmt.Sprintf("case %d", i))
		}
	})

	t.Run("quiet sun yields empty risk lists", func(t *testing.T) {
		a := Assess(SolarIndices{SunspotNumber: 12}, RegionSummary{FlarePotential: "very low"}, FlareActivity{ActivityLevel: "Quiet"})
		assert.NotNil(t, a.KeyRisks, "risks must serialize as [], not null")
		assert.Empty(t, a.KeyRisks)
		assert.Empty(t, a.Recommendations)
	})

	t.Run("high flare activity flags radio blackouts", func(t *testing.T) {
		a := Assess(SolarIndices{SunspotNumber: 130}, RegionSummary{}, FlareActivity{ActivityLevel: "Very High"})
		assert.Contains(t, a.KeyRisks, "Elevated risk of radio blackouts")
		assert.Contains(t, a.Recommendations, "Monitor HF radio communications")
	})

	t.Run("complex regions accumulate risks", func(t *testing.T) {
		regions := RegionSummary{FlarePotential: "high", ComplexRegions: 2}
		a := Assess(SolarIndices{SunspotNumber: 130}, regions, FlareActivity{ActivityLevel: "Moderate"})

		assert.Contains(t, a.KeyRisks, "high potential for significant flares")
		assert.Contains(t, a.KeyRisks, "2 magnetically complex regions present")
		assert.Contains(t, a.Recommendations, "Prepare for possible geomagnetic disturbances")
	})
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDst(t *testing.T) {
	assert.Equal(t, -2.0, EstimateDst(400, 0), "northward IMF gives the quiet baseline")
	assert.Equal(t, -2.0, EstimateDst(800, 5))

	// At the 400 km/s reference speed the scale factor is exactly 20.
	assert.InDelta(t, -100.0, EstimateDst(400, -5), 1e-9)
	assert.InDelta(t, -200.0, EstimateDst(400, -10), 1e-9)

	// Faster wind deepens the depression.
	assert.Less(t, EstimateDst(800, -10), EstimateDst(400, -10))

	// A non-physical speed falls back to the reference.
	assert.InDelta(t, EstimateDst(400, -10), EstimateDst(0, -10), 1e-9)
}

func TestBuildForecast(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("quiet conditions", func(t *testing.T) {
		f := BuildForecast(Conditions{SolarWindSpeed: 400, Bz: 2, Dst: -2}, 3, now)

		assert.Equal(t, "3 days", f.Period)
		assert.Equal(t, now, f.GeneratedAt)
		require.Len(t, f.Predictions, 3)
		assert.Equal(t, "2026-03-02", f.Predictions[0].Date)
		assert.Equal(t, "2026-03-04", f.Predictions[2].Date)
		for _, p := range f.Predictions {
			assert.Equal(t, 0.1, p.StormProbability)
			assert.Equal(t, 3, p.ExpectedKp)
			assert.Equal(t, "Quiet to unsettled", p.ExpectedConditions)
		}
	})

	t.Run("storm conditions stack and cap", func(t *testing.T) {
		f := BuildForecast(Conditions{SolarWindSpeed: 750, Bz: -18, Dst: -120}, 1, now)

		require.Len(t, f.Predictions, 1)
		p := f.Predictions[0]
		// 0.1 + 0.3 + 0.4 + 0.2 caps at 0.95.
		assert.Equal(t, 0.95, p.StormProbability)
		assert.Equal(t, 7, p.ExpectedKp)
		assert.Equal(t, "Strong storm expected", p.ExpectedConditions)
	})

	t.Run("single contribution", func(t *testing.T) {
		f := BuildForecast(Conditions{SolarWindSpeed: 650, Bz: 1, Dst: -2}, 1, now)
		p := f.Predictions[0]
		assert.Equal(t, 0.4, p.StormProbability)
		assert.Equal(t, 5, p.ExpectedKp)
		assert.Equal(t, "Minor storm possible", p.ExpectedConditions)
	})
}

func TestEstimateKp(t *testing.T) {
	assert.Equal(t, 3, EstimateKp(0.1))
	assert.Equal(t, 4, EstimateKp(0.2))
	assert.Equal(t, 5, EstimateKp(0.5))
	assert.Equal(t, 6, EstimateKp(0.7))
	assert.Equal(t, 7, EstimateKp(0.95))
}

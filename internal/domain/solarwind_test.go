package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedStart = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestSummarizeSolarWind(t *testing.T) {
	t.Run("latest reading and trailing stats", func(t *testing.T) {
		samples := []SolarWindSample{
			{Time: feedStart, Speed: 400, Density: 5.0, Temperature: 80000},
			{Time: feedStart.Add(time.Hour), Speed: 500, Density: 4.0, Temperature: 90000},
			{Time: feedStart.Add(2 * time.Hour), Speed: 450, Density: 4.5, Temperature: 85000},
		}
		sum, err := SummarizeSolarWind(samples)

		require.NoError(t, err)
		assert.Equal(t, 450.0, sum.CurrentSpeed)
		assert.Equal(t, 4.5, sum.CurrentDensity)
		assert.Equal(t, 85000.0, sum.CurrentTemperature)
		assert.Equal(t, 450.0, sum.AvgSpeed24h)
		assert.Equal(t, 500.0, sum.MaxSpeed24h)
		assert.Equal(t, feedStart.Add(2*time.Hour), sum.Timestamp)
	})

	t.Run("window anchored at newest sample", func(t *testing.T) {
		samples := []SolarWindSample{
			{Time: feedStart, Speed: 900}, // outside the 24h window
			{Time: feedStart.Add(30 * time.Hour), Speed: 400},
			{Time: feedStart.Add(31 * time.Hour), Speed: 420},
		}
		sum, err := SummarizeSolarWind(samples)

		require.NoError(t, err)
		assert.Equal(t, 410.0, sum.AvgSpeed24h)
		assert.Equal(t, 420.0, sum.MaxSpeed24h, "day-old spike must not leak into the window")
	})

	t.Run("empty feed", func(t *testing.T) {
		_, err := SummarizeSolarWind(nil)
		assert.ErrorIs(t, err, ErrNoSamples)
	})
}

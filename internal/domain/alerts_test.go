package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAlerts(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("quiet conditions produce none", func(t *testing.T) {
		alerts := CheckAlerts(Conditions{SolarWindSpeed: 420, Bz: 2, Dst: -5}, now)
		assert.NotNil(t, alerts)
		assert.Empty(t, alerts)
	})

	t.Run("each threshold fires independently", func(t *testing.T) {
		alerts := CheckAlerts(Conditions{SolarWindSpeed: 750, Bz: 2, Dst: -5}, now)
		require.Len(t, alerts, 1)
		assert.Equal(t, AlertWarning, alerts[0].Level)
		assert.Equal(t, "solar_wind", alerts[0].Type)
		assert.Contains(t, alerts[0].Message, "750")

		alerts = CheckAlerts(Conditions{SolarWindSpeed: 420, Bz: -18, Dst: -5}, now)
		require.Len(t, alerts, 1)
		assert.Equal(t, AlertAlert, alerts[0].Level)
		assert.Equal(t, "magnetic_field", alerts[0].Type)

		alerts = CheckAlerts(Conditions{SolarWindSpeed: 420, Bz: 2, Dst: -150}, now)
		require.Len(t, alerts, 1)
		assert.Equal(t, AlertSevere, alerts[0].Level)
		assert.Equal(t, "geomagnetic_storm", alerts[0].Type)

		alerts = CheckAlerts(Conditions{SolarWindSpeed: 420, Bz: -2, SouthwardDuration: 4 * time.Hour}, now)
		require.Len(t, alerts, 1)
		assert.Equal(t, "sustained_southward", alerts[0].Type)
		assert.Contains(t, alerts[0].Message, "240 minutes")
	})

	t.Run("severe storm fires everything", func(t *testing.T) {
		alerts := CheckAlerts(Conditions{
			SolarWindSpeed:    820,
			Bz:                -22,
			Dst:               -180,
			SouthwardDuration: 5 * time.Hour,
		}, now)
		assert.Len(t, alerts, 4)
		for _, a := range alerts {
			assert.Equal(t, now, a.Timestamp)
		}
	})

	t.Run("thresholds are exclusive", func(t *testing.T) {
		alerts := CheckAlerts(Conditions{
			SolarWindSpeed:    700,
			Bz:                -15,
			Dst:               -100,
			SouthwardDuration: 3 * time.Hour,
		}, now)
		assert.Empty(t, alerts, "boundary values must not trigger")
	})
}

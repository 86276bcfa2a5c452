package domain

import (
	"fmt"
	"math"
	"time"
)

// Conditions are the current readings the forecast and alert checks key off.
type Conditions struct {
	SolarWindSpeed    float64       `json:"solar_wind_speed"` // km/s
	Bz                float64       `json:"bz_component"`     // nT
	Dst               float64       `json:"dst_index"`        // nT
	SouthwardDuration time.Duration `json:"-"`
}

// Prediction is one day of the statistical storm forecast.
type Prediction struct {
	Date               string  `json:"date"` // YYYY-MM-DD
	StormProbability   float64 `json:"storm_probability"`
	ExpectedKp         int     `json:"expected_kp"`
	ExpectedConditions string  `json:"expected_conditions"`
}

// Forecast is the multi-day storm outlook derived from current conditions.
type Forecast struct {
	Period      string       `json:"forecast_period"`
	GeneratedAt time.Time    `json:"generated_at"`
	Current     Conditions   `json:"current_conditions"`
	Predictions []Prediction `json:"predictions"`
}

// EstimateDst approximates the Dst index from solar wind speed and the IMF
// Bz component. Northward IMF (Bz >= 0) contributes a small quiet-time
// baseline; southward IMF drives the estimate negative, scaled by speed.
func EstimateDst(speedKms, bz float64) float64 {
	if bz >= 0 {
		return -2.0
	}
	if speedKms <= 0 {
		speedKms = 400
	}
	return -20.0 * math.Sqrt(speedKms/400) * math.Abs(bz)
}

// BuildForecast generates a days-long outlook from current conditions. The
// probability model is intentionally simple: a quiet-time base of 0.1 with
// additive contributions from elevated wind speed, southward IMF, and a
// depressed Dst, capped at 0.95.
func BuildForecast(cond Conditions, days int, now time.Time) Forecast {
	prob := 0.1
	if cond.SolarWindSpeed > 600 {
		prob += 0.3
	}
	if cond.Bz < -10 {
		prob += 0.4
	}
	if cond.Dst < -50 {
		prob += 0.2
	}
	prob = math.Min(prob, 0.95)
	prob = math.Round(prob*100) / 100

	predictions := make([]Prediction, 0, days)
	for day := 1; day <= days; day++ {
		date := now.UTC().AddDate(0, 0, day)
		predictions = append(predictions, Prediction{
			Date:               date.Format("2006-01-02"),
			StormProbability:   prob,
			ExpectedKp:         EstimateKp(prob),
			ExpectedConditions: DescribeConditions(prob),
		})
	}

	return Forecast{
		Period:      fmt.Sprintf("%d days", days),
		GeneratedAt: now.UTC(),
		Current:     cond,
		Predictions: predictions,
	}
}

// EstimateKp maps storm probability to an expected planetary K index.
func EstimateKp(stormProbability float64) int {
	switch {
	case stormProbability < 0.2:
		return 3
	case stormProbability < 0.4:
		return 4
	case stormProbability < 0.6:
		return 5
	case stormProbability < 0.8:
		return 6
	default:
		return 7
	}
}

// DescribeConditions maps storm probability to the condition wording shown
// on the dashboard.
func DescribeConditions(stormProbability float64) string {
	switch {
	case stormProbability < 0.2:
		return "Quiet to unsettled"
	case stormProbability < 0.4:
		return "Active conditions likely"
	case stormProbability < 0.6:
		return "Minor storm possible"
	case stormProbability < 0.8:
		return "Moderate storm likely"
	default:
		return "Strong storm expected"
	}
}

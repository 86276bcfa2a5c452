package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossValidate_AgreementKeepsFullConfidence(t *testing.T) {
	c := CrossValidate([]Ranked[float64]{
		{Name: "plasma-7-day", Data: 420.5, Quality: 100},
		{Name: "plasma-1-day", Data: 421.0, Quality: 80},
	})

	assert.True(t, c.OK)
	assert.Equal(t, 420.5, c.Consensus, "highest quality source wins")
	assert.Empty(t, c.Outliers)
	assert.InDelta(t, 90.0, c.Confidence, 1e-9)
}

func TestCrossValidate_FlagsLowQualityOutliers(t *testing.T) {
	c := CrossValidate([]Ranked[float64]{
		{Name: "primary", Data: 450, Quality: 90},
		{Name: "mirror", Data: 9000, Quality: 30},
	})

	assert.True(t, c.OK)
	assert.Equal(t, float64(450), c.Consensus)
	assert.Equal(t, []string{"mirror"}, c.Outliers)
	// Mean quality 60, discounted 20% for the disagreement.
	assert.InDelta(t, 48.0, c.Confidence, 1e-9)
}

func TestCrossValidate_SingleSource(t *testing.T) {
	c := CrossValidate([]Ranked[string]{
		{Name: "only", Data: "quiet", Quality: 60},
	})

	assert.True(t, c.OK)
	assert.Equal(t, "quiet", c.Consensus)
	assert.Empty(t, c.Outliers)
	assert.InDelta(t, 60.0, c.Confidence, 1e-9)
}

func TestCrossValidate_NoSources(t *testing.T) {
	c := CrossValidate[int](nil)
	assert.False(t, c.OK)
	assert.Zero(t, c.Consensus)
	assert.Zero(t, c.Confidence)
}

func TestCrossValidate_StableOrderAmongEqualQuality(t *testing.T) {
	c := CrossValidate([]Ranked[string]{
		{Name: "first", Data: "a", Quality: 100},
		{Name: "second", Data: "b", Quality: 100},
	})

	assert.Equal(t, "a", c.Consensus, "ties keep input order")
	assert.Empty(t, c.Outliers)
}

package quality

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const breakerURL = "https://services.swpc.noaa.gov/products/solar-wind/plasma-7-day.json"

func testBreaker(onChange func(url string, from, to BreakerState)) (*CircuitBreaker, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))
	return NewCircuitBreaker(5, time.Minute, 3, clock, onChange), clock
}

func TestCircuitBreaker_OpensAtThreshold(t *testing.T) {
	b, _ := testBreaker(nil)

	for range 4 {
		b.RecordFailure(breakerURL)
		assert.False(t, b.IsOpen(breakerURL))
	}
	b.RecordFailure(breakerURL)
	assert.True(t, b.IsOpen(breakerURL))
	assert.Equal(t, StateOpen, b.State(breakerURL))
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := testBreaker(nil)

	for range 4 {
		b.RecordFailure(breakerURL)
	}
	b.RecordSuccess(breakerURL)
	for range 4 {
		b.RecordFailure(breakerURL)
	}
	assert.False(t, b.IsOpen(breakerURL))
	assert.Equal(t, StateClosed, b.State(breakerURL))
}

func TestCircuitBreaker_HalfOpenAfterCooldown(t *testing.T) {
	b, clock := testBreaker(nil)
	for range 5 {
		b.RecordFailure(breakerURL)
	}
	require.True(t, b.IsOpen(breakerURL))

	clock.Advance(59 * time.Second)
	assert.True(t, b.IsOpen(breakerURL))

	clock.Advance(2 * time.Second)
	// The first caller after cooldown is admitted as a probe.
	assert.False(t, b.IsOpen(breakerURL))
	assert.Equal(t, StateHalfOpen, b.State(breakerURL))
}

func TestCircuitBreaker_HalfOpenProbeLimit(t *testing.T) {
	b, clock := testBreaker(nil)
	for range 5 {
		b.RecordFailure(breakerURL)
	}
	clock.Advance(61 * time.Second)

	// maxProbes callers get through, the rest are short-circuited.
	for range 3 {
		assert.False(t, b.IsOpen(breakerURL))
	}
	assert.True(t, b.IsOpen(breakerURL))
}

func TestCircuitBreaker_ProbeSuccessCloses(t *testing.T) {
	b, clock := testBreaker(nil)
	for range 5 {
		b.RecordFailure(breakerURL)
	}
	clock.Advance(61 * time.Second)
	require.False(t, b.IsOpen(breakerURL))

	b.RecordSuccess(breakerURL)
	assert.Equal(t, StateClosed, b.State(breakerURL))
	assert.False(t, b.IsOpen(breakerURL))
}

func TestCircuitBreaker_ProbeFailureReopens(t *testing.T) {
	b, clock := testBreaker(nil)
	for range 5 {
		b.RecordFailure(breakerURL)
	}
	clock.Advance(61 * time.Second)
	require.False(t, b.IsOpen(breakerURL))

	b.RecordFailure(breakerURL)
	assert.Equal(t, StateOpen, b.State(breakerURL))
	assert.True(t, b.IsOpen(breakerURL))
}

func TestCircuitBreaker_IsolatesURLs(t *testing.T) {
	b, _ := testBreaker(nil)
	other := "https://backup.example.com/plasma-7-day.json"

	for range 5 {
		b.RecordFailure(breakerURL)
	}
	assert.True(t, b.IsOpen(breakerURL))
	assert.False(t, b.IsOpen(other))
}

func TestCircuitBreaker_OnChangeTransitions(t *testing.T) {
	type transition struct{ from, to BreakerState }
	var seen []transition
	b, clock := testBreaker(func(_ string, from, to BreakerState) {
		seen = append(seen, transition{from, to})
	})

	for range 5 {
		b.RecordFailure(breakerURL)
	}
	clock.Advance(61 * time.Second)
	b.IsOpen(breakerURL)
	b.RecordSuccess(breakerURL)

	assert.Equal(t, []transition{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}, seen)
}

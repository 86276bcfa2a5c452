package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(maxSize int, ttl time.Duration) (*Cache, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))
	return NewCache(maxSize, ttl, clock), clock
}

func TestCache_GetSet(t *testing.T) {
	c, _ := testCache(10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("plasma", json.RawMessage(`{"speed":420}`), 0)
	data, ok := c.Get("plasma")
	require.True(t, ok)
	assert.JSONEq(t, `{"speed":420}`, string(data))

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestCache_TTLExpiry(t *testing.T) {
	c, clock := testCache(10, time.Minute)
	c.Set("plasma", json.RawMessage(`1`), 0)

	clock.Advance(59 * time.Second)
	assert.True(t, c.Has("plasma"))

	clock.Advance(2 * time.Second)
	_, ok := c.Get("plasma")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Expired)
	// Expired entry was deleted on access.
	assert.Equal(t, 0, c.Len())
}

func TestCache_ExplicitTTLOverridesDefault(t *testing.T) {
	c, clock := testCache(10, time.Minute)
	c.Set("regions", json.RawMessage(`1`), time.Hour)

	clock.Advance(30 * time.Minute)
	assert.True(t, c.Has("regions"))
	clock.Advance(31 * time.Minute)
	assert.False(t, c.Has("regions"))
}

func TestCache_EvictionPrefersColdEntries(t *testing.T) {
	c, clock := testCache(3, time.Hour)

	c.Set("a", json.RawMessage(`1`), 0)
	c.Set("b", json.RawMessage(`2`), 0)
	c.Set("c", json.RawMessage(`3`), 0)

	// Heat up "a" so its hit bonus outweighs "b" and "c".
	for range 5 {
		_, ok := c.Get("a")
		require.True(t, ok)
	}
	clock.Advance(time.Second)

	c.Set("d", json.RawMessage(`4`), 0)
	assert.True(t, c.Has("a"))
	assert.True(t, c.Has("d"))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCache_SetExistingKeyDoesNotEvict(t *testing.T) {
	c, _ := testCache(2, time.Hour)
	c.Set("a", json.RawMessage(`1`), 0)
	c.Set("b", json.RawMessage(`2`), 0)

	c.Set("a", json.RawMessage(`9`), 0)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(0), c.Stats().Evictions)

	data, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, `9`, string(data))
}

func TestCache_Sweep(t *testing.T) {
	c, clock := testCache(10, time.Minute)
	c.Set("stale", json.RawMessage(`1`), time.Second)
	c.Set("fresh", json.RawMessage(`2`), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Sweep(ctx, 10*time.Second)
	}()

	clock.BlockUntil(1) // sweeper ticker registered
	clock.Advance(10 * time.Second)

	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)
	assert.True(t, c.Has("fresh"))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("/api/v1/forecast", map[string]string{"days": "3", "units": "si"})
	b := Key("/api/v1/forecast", map[string]string{"units": "si", "days": "3"})
	assert.Equal(t, a, b)
	assert.Equal(t, "/api/v1/forecast?days=3&units=si", a)

	assert.Equal(t, "/api/v1/alerts", Key("/api/v1/alerts", nil))
	assert.NotEqual(t,
		Key("/api/v1/forecast", map[string]string{"days": "3"}),
		Key("/api/v1/forecast", map[string]string{"days": "5"}),
	)
}

func TestCache_KeysSkipExpired(t *testing.T) {
	c, clock := testCache(10, time.Minute)
	for i := range 3 {
		c.Set(fmt.Sprintf("k%d", i), json.RawMessage(`1`), 0)
	}
	c.Set("long", json.RawMessage(`1`), time.Hour)

	clock.Advance(2 * time.Minute)
	assert.ElementsMatch(t, []string{"long"}, c.Keys())
}

package quality

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// BreakerState is the per-URL circuit state.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// CircuitBreaker tracks consecutive failures per upstream URL and
// short-circuits requests to URLs that keep failing. After the cooldown it
// lets a bounded number of probe requests through; one success closes the
// circuit again, one failure re-opens it.
type CircuitBreaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	maxProbes int
	clock     clockwork.Clock
	circuits  map[string]*circuit
	onChange  func(url string, from, to BreakerState)
}

type circuit struct {
	state       BreakerState
	failures    int
	lastFailure time.Time
	probes      int
}

// NewCircuitBreaker creates a breaker that opens a URL's circuit after
// threshold consecutive failures and allows maxProbes half-open probes
// after cooldown. onChange, if non-nil, is invoked outside the lock on
// every state transition.
func NewCircuitBreaker(threshold int, cooldown time.Duration, maxProbes int, clock clockwork.Clock, onChange func(url string, from, to BreakerState)) *CircuitBreaker {
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		maxProbes: maxProbes,
		clock:     clock,
		circuits:  make(map[string]*circuit),
		onChange:  onChange,
	}
}

// IsOpen reports whether requests to url should be short-circuited. It also
// advances open circuits to half-open once the cooldown elapses, and counts
// half-open probe admissions; concurrent callers may occasionally admit
// duplicate probes, which is harmless.
func (b *CircuitBreaker) IsOpen(url string) bool {
	b.mu.Lock()
	c := b.get(url)

	var transition func()
	open := false
	switch c.state {
	case StateClosed:
	case StateOpen:
		if b.clock.Now().Sub(c.lastFailure) > b.cooldown {
			transition = b.setState(url, c, StateHalfOpen)
			c.probes = 1 // this caller becomes the first probe
		} else {
			open = true
		}
	case StateHalfOpen:
		if c.probes >= b.maxProbes {
			open = true
		} else {
			c.probes++
		}
	}
	b.mu.Unlock()

	if transition != nil {
		transition()
	}
	return open
}

// RecordSuccess closes the circuit for url and clears its failure count.
func (b *CircuitBreaker) RecordSuccess(url string) {
	b.mu.Lock()
	c := b.get(url)
	transition := b.setState(url, c, StateClosed)
	c.failures = 0
	c.probes = 0
	b.mu.Unlock()

	if transition != nil {
		transition()
	}
}

// RecordFailure counts a failure for url. The circuit opens when failures
// reach the threshold, or immediately on any half-open probe failure.
func (b *CircuitBreaker) RecordFailure(url string) {
	b.mu.Lock()
	c := b.get(url)
	c.failures++
	c.lastFailure = b.clock.Now()

	var transition func()
	if c.state == StateHalfOpen || c.failures >= b.threshold {
		transition = b.setState(url, c, StateOpen)
	}
	b.mu.Unlock()

	if transition != nil {
		transition()
	}
}

// State returns the current circuit state for url without side effects.
func (b *CircuitBreaker) State(url string) BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.circuits[url]; ok {
		return c.state
	}
	return StateClosed
}

// get returns the circuit for url, creating a closed one on first use.
// Caller holds the lock.
func (b *CircuitBreaker) get(url string) *circuit {
	c, ok := b.circuits[url]
	if !ok {
		c = &circuit{state: StateClosed}
		b.circuits[url] = c
	}
	return c
}

// setState applies a transition and returns the deferred onChange call, or
// nil when the state is unchanged. Caller holds the lock and must invoke
// the returned func after releasing it.
func (b *CircuitBreaker) setState(url string, c *circuit, to BreakerState) func() {
	from := c.state
	if from == to {
		return nil
	}
	c.state = to
	if b.onChange == nil {
		return nil
	}
	return func() { b.onChange(url, from, to) }
}

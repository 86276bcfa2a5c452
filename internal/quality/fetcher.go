package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heliowatch/spaceweather/internal/observability"
	"github.com/heliowatch/spaceweather/internal/schema"
)

// Fetch outcome labels for metrics.
const (
	outcomeFresh        = "fresh"
	outcomeDegraded     = "degraded"
	outcomeCache        = "cache"
	outcomeFallback     = "fallback"
	outcomeFailure      = "failure"
	outcomeShortCircuit = "short_circuit"
)

// maxBackoff caps the exponential retry delay.
const maxBackoff = 10 * time.Second

// FetchOptions tune one quality-aware fetch. The zero value gets sensible
// defaults: 10s per-attempt timeout, 2 retries, 1s base backoff, 5m cache
// TTL, and the URL itself as the cache key.
type FetchOptions struct {
	Timeout    time.Duration    // per attempt
	Retries    int              // additional attempts after the first
	RetryDelay time.Duration    // base backoff, doubled per attempt
	Fallback   json.RawMessage  // served at QualityFallback when all else fails
	CacheKey   string           // defaults to the URL
	CacheTTL   time.Duration    // 0 uses the cache default
	Validator  schema.Validator // optional payload validation
}

func (o FetchOptions) withDefaults() FetchOptions {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	return o
}

// Fetcher performs quality-aware HTTP fetches: per-attempt timeouts, retry
// with jittered exponential backoff, circuit-breaker gating, payload
// validation, and degradation to cached or fallback data. It never returns
// an error; all failure modes are encoded in the Result.
type Fetcher struct {
	client  *http.Client
	breaker *CircuitBreaker
	cache   *Cache
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFetcher wires a Fetcher to the shared breaker and cache owned by the
// composition root.
func NewFetcher(client *http.Client, breaker *CircuitBreaker, cache *Cache, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		client:  client,
		breaker: breaker,
		cache:   cache,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch GETs url with the resilience policy described in FetchOptions.
//
// An open circuit skips the network entirely and degrades straight to
// cache, then fallback. Otherwise up to Retries+1 attempts are made;
// definitive client errors (4xx) abort retries immediately. Validation
// failures downgrade quality to QualityDegraded but keep the data. Results
// above the cache quality floor are written back to the cache.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts FetchOptions) Result {
	opts = opts.withDefaults()
	key := opts.CacheKey
	if key == "" {
		key = url
	}
	start := f.clock.Now()
	defer func() {
		f.metrics.FetchDuration.Observe(f.clock.Since(start).Seconds())
	}()

	if f.breaker.IsOpen(url) {
		f.metrics.FetchRequests.WithLabelValues(outcomeShortCircuit).Inc()
		f.logger.Debug("circuit open, skipping fetch", "url", url)
		return f.degrade(url, key, opts, start, "circuit open: "+url)
	}

	var lastErr string
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			f.metrics.FetchRetries.Inc()
			if !f.sleep(ctx, backoffDelay(opts.RetryDelay, attempt-1)) {
				lastErr = "cancelled: " + ctx.Err().Error()
				break
			}
		}

		body, status, err := f.attempt(ctx, url, opts.Timeout)
		if err == nil && status/100 == 2 {
			f.breaker.RecordSuccess(url)
			return f.succeed(url, key, body, opts, start)
		}

		if err != nil {
			lastErr = err.Error()
		} else {
			lastErr = fmt.Sprintf("unexpected status %d", status)
		}
		f.logger.Warn("fetch attempt failed",
			"url", url,
			"attempt", attempt+1,
			"status", status,
			"error", lastErr,
		)

		// A definitive client error will not heal on retry.
		if status >= 400 && status < 500 {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	// A caller-side cancellation says nothing about upstream health, so it
	// must not count against the circuit.
	if ctx.Err() == nil {
		f.breaker.RecordFailure(url)
	}
	return f.degrade(url, key, opts, start, lastErr)
}

// attempt performs a single bounded GET and reads the full body.
func (f *Fetcher) attempt(ctx context.Context, url string, timeout time.Duration) ([]byte, int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// succeed builds the result for a 2xx response, applying validation and
// writing trustworthy payloads back to the cache.
func (f *Fetcher) succeed(url, key string, body []byte, opts FetchOptions, start time.Time) Result {
	meta := Meta{
		Source:       url,
		Quality:      QualityFresh,
		Completeness: 100,
		Timestamp:    f.clock.Now(),
	}
	data := json.RawMessage(body)

	if opts.Validator != nil {
		vr := opts.Validator.Validate(body)
		meta.Completeness = vr.Completeness
		if vr.Valid {
			data = vr.Data
		} else {
			// Degraded data beats no data; keep it with a reduced score
			// and let callers judge from the recorded errors.
			meta.Quality = QualityDegraded
			meta.ValidationErrors = vr.Errors
			if vr.Data != nil {
				data = vr.Data
			}
			f.logger.Warn("payload failed validation",
				"url", url,
				"errors", len(vr.Errors),
			)
		}
	}
	meta.Latency = f.clock.Since(start)

	if meta.Quality > cacheQualityFloor {
		f.cache.Set(key, data, opts.CacheTTL)
	}

	outcome := outcomeFresh
	if meta.Quality < QualityFresh {
		outcome = outcomeDegraded
	}
	f.metrics.FetchRequests.WithLabelValues(outcome).Inc()
	return Result{Data: data, Meta: meta}
}

// degrade serves the best stale substitute available: cache, then
// caller-supplied fallback, then a total-failure result.
func (f *Fetcher) degrade(url, key string, opts FetchOptions, start time.Time, errMsg string) Result {
	meta := Meta{
		Source:    url,
		Latency:   f.clock.Since(start),
		Timestamp: f.clock.Now(),
	}

	if data, ok := f.cache.Get(key); ok {
		f.metrics.CacheLookups.WithLabelValues("fetch", "hit").Inc()
		f.metrics.FetchRequests.WithLabelValues(outcomeCache).Inc()
		meta.Quality = QualityCached
		meta.IsCache = true
		return Result{Data: data, Meta: meta}
	}
	f.metrics.CacheLookups.WithLabelValues("fetch", "miss").Inc()

	if opts.Fallback != nil {
		f.metrics.FetchRequests.WithLabelValues(outcomeFallback).Inc()
		meta.Quality = QualityFallback
		meta.IsFallback = true
		return Result{Data: opts.Fallback, Meta: meta}
	}

	f.metrics.FetchRequests.WithLabelValues(outcomeFailure).Inc()
	f.logger.Error("fetch exhausted all fallbacks", "url", url, "error", errMsg)
	if errMsg == "" {
		errMsg = "no data available"
	}
	return Result{Meta: meta, Err: errMsg}
}

// sleep waits for d or until ctx is cancelled. Returns false on cancel.
func (f *Fetcher) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := f.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

// backoffDelay returns the jittered exponential delay before retry n
// (0-based): min(base*2^n, 10s) plus up to 10% jitter to avoid synchronized
// retry storms against a recovering upstream.
func backoffDelay(base time.Duration, n int) time.Duration {
	d := base << uint(n)
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(d)/10 + 1))
	return d + jitter
}

// Package quality is the multi-source data-quality pipeline: a resilient
// HTTP fetcher (timeout, retry with backoff, circuit breaker), a TTL cache
// with stale-data fallback, and a cross-source consensus engine.
//
// Every failure mode is encoded in the returned Result rather than
// propagated as an error, so callers can apply a uniform degrade-don't-crash
// policy. Quality scores rank how trustworthy a result is: fresh validated
// data is 100, data that failed schema validation 80, a stale cache entry
// 60, caller-supplied fallback data 40, and total failure 0.
package quality

import (
	"encoding/json"
	"time"
)

// Quality levels assigned by the fetcher.
const (
	QualityFresh    = 100.0 // fresh, validated upstream data
	QualityDegraded = 80.0  // fresh data that failed schema validation
	QualityCached   = 60.0  // stale cache entry served after upstream failure
	QualityFallback = 40.0  // caller-supplied fallback data

	// cacheQualityFloor is the minimum quality worth writing back to the
	// cache; serving a cached copy of fallback data would compound staleness.
	cacheQualityFloor = 70.0

	// outlierQualityFloor marks consensus sources below it as outliers.
	outlierQualityFloor = 50.0
)

// Meta describes how trustworthy one fetch result is and where it came from.
type Meta struct {
	Source           string        `json:"source"`
	Quality          float64       `json:"quality"`      // 0-100
	Completeness     float64       `json:"completeness"` // 0-100
	Latency          time.Duration `json:"latency"`
	IsCache          bool          `json:"is_cache"`
	IsFallback       bool          `json:"is_fallback"`
	ValidationErrors []string      `json:"validation_errors,omitempty"`
	Timestamp        time.Time     `json:"timestamp"`
}

// Result is the outcome of one upstream fetch, including its retries and
// any degradation to cache or fallback data. Data is nil only on total
// failure, in which case Err describes the last error encountered.
type Result struct {
	Data json.RawMessage `json:"data"`
	Meta Meta            `json:"meta"`
	Err  string          `json:"error,omitempty"`
}

// Failed reports whether the result carries no data of any kind.
func (r Result) Failed() bool {
	return r.Data == nil
}

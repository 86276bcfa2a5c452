package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/heliowatch/spaceweather/internal/schema"
)

// Source is one redundant upstream endpoint for a feed.
type Source struct {
	Name      string
	URL       string
	Priority  int // tie-breaker between equal-quality results; higher wins
	Validator schema.Validator
	// Transform optionally reshapes the normalized payload before it is
	// selected as the representative result.
	Transform func(json.RawMessage) (json.RawMessage, error)
}

// FetchAll fans the fetcher out across redundant sources in parallel and
// returns the single best result by (quality desc, priority desc). Sources
// are started together and completion order does not affect selection, so
// the outcome is deterministic given deterministic per-source results.
//
// Each source caches under its own URL; per-call CacheKey is ignored here.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source, opts FetchOptions) Result {
	if len(sources) == 0 {
		return Result{
			Meta: Meta{Source: "aggregate", Timestamp: f.clock.Now()},
			Err:  "no sources configured",
		}
	}

	results := make([]Result, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := opts
			o.CacheKey = "" // cache per source URL
			o.Validator = src.Validator
			results[i] = f.Fetch(ctx, src.URL, o)
		}()
	}
	wg.Wait()

	type candidate struct {
		src Source
		res Result
	}
	var candidates []candidate
	for i, res := range results {
		if !res.Failed() {
			candidates = append(candidates, candidate{src: sources[i], res: res})
		}
	}
	if len(candidates) == 0 {
		return Result{
			Meta: Meta{Source: "aggregate", Timestamp: f.clock.Now()},
			Err:  fmt.Sprintf("all %d sources failed", len(sources)),
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].res.Meta.Quality != candidates[j].res.Meta.Quality {
			return candidates[i].res.Meta.Quality > candidates[j].res.Meta.Quality
		}
		return candidates[i].src.Priority > candidates[j].src.Priority
	})

	for _, c := range candidates {
		data := c.res.Data
		if c.src.Transform != nil {
			transformed, err := c.src.Transform(data)
			if err != nil {
				f.logger.Warn("source transform failed, trying next candidate",
					"source", c.src.Name,
					"error", err,
				)
				continue
			}
			data = transformed
		}
		res := c.res
		res.Data = data
		res.Meta.Source = fmt.Sprintf("%s (best of %d)", c.src.Name, len(candidates))
		return res
	}

	return Result{
		Meta: Meta{Source: "aggregate", Timestamp: f.clock.Now()},
		Err:  fmt.Sprintf("all %d candidate transforms failed", len(candidates)),
	}
}

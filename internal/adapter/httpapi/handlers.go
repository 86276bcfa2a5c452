package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/heliowatch/spaceweather/internal/adapter/swpc"
	"github.com/heliowatch/spaceweather/internal/domain"
	"github.com/heliowatch/spaceweather/internal/quality"
)

// envelope is the response shape shared by all feed endpoints. Failures
// carry an error string; successes carry data plus the quality block the
// dashboard uses to display confidence.
type envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Quality *qualityInfo `json:"quality,omitempty"`
}

type qualityInfo struct {
	Source           string    `json:"source"`
	Quality          float64   `json:"quality"`
	Completeness     float64   `json:"completeness,omitempty"`
	Confidence       float64   `json:"confidence,omitempty"`
	IsCache          bool      `json:"is_cache"`
	IsFallback       bool      `json:"is_fallback"`
	ValidationErrors []string  `json:"validation_errors,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

func metaInfo(meta quality.Meta) *qualityInfo {
	return &qualityInfo{
		Source:           meta.Source,
		Quality:          meta.Quality,
		Completeness:     meta.Completeness,
		IsCache:          meta.IsCache,
		IsFallback:       meta.IsFallback,
		ValidationErrors: meta.ValidationErrors,
		Timestamp:        meta.Timestamp,
	}
}

// feedResponse is one built feed payload plus its provenance.
type feedResponse struct {
	data       any
	meta       quality.Meta
	confidence float64 // non-zero only for cross-validated endpoints
}

// serveFeed handles the envelope, response cache, readiness, and report
// publishing shared by every feed endpoint. build runs only on a response
// cache miss.
func (s *Server) serveFeed(w http.ResponseWriter, r *http.Request, feed string, params map[string]string, build func(ctx context.Context) (feedResponse, error)) {
	key := quality.Key(r.URL.Path, params)
	if cached, ok := s.respCache.Get(key); ok {
		s.metrics.CacheLookups.WithLabelValues("response", "hit").Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached) //nolint:errcheck // best-effort response
		return
	}
	s.metrics.CacheLookups.WithLabelValues("response", "miss").Inc()

	resp, err := build(r.Context())
	if err != nil {
		// Total failure: no fresh, cached, or fallback data of any kind.
		writeJSON(w, http.StatusBadGateway, envelope{Success: false, Error: err.Error()})
		return
	}

	qi := metaInfo(resp.meta)
	qi.Confidence = resp.confidence
	body, err := json.Marshal(envelope{Success: true, Data: resp.data, Quality: qi})
	if err != nil {
		s.logger.Error("marshal response failed", "feed", feed, "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "internal error"})
		return
	}

	s.respCache.Set(key, body, s.opts.ResponseCacheTTL)
	s.ready.Store(true)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // best-effort response

	s.publishReport(feed, resp)
}

// publishReport hands a served feed snapshot to the persistence sink
// without blocking the response.
func (s *Server) publishReport(feed string, resp feedResponse) {
	if s.sink == nil {
		return
	}
	payload, err := json.Marshal(resp.data)
	if err != nil {
		s.logger.Error("marshal report payload failed", "feed", feed, "error", err)
		return
	}
	report := domain.NewReport(feed, resp.meta.Source, resp.meta.Quality, payload, s.clock.Now())

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.sink.Publish(ctx, report); err != nil {
			s.logger.Warn("report publish failed", "feed", feed, "report_id", report.ID, "error", err)
		}
	}()
}

func (s *Server) fetchOpts(ttl time.Duration) quality.FetchOptions {
	return quality.FetchOptions{
		Timeout:    s.opts.FetchTimeout,
		Retries:    s.opts.FetchRetries,
		RetryDelay: s.opts.RetryDelay,
		CacheTTL:   ttl,
	}
}

// summarize decodes a result's normalized samples and reduces them with f.
// A failed result or undecodable payload yields an error for the caller's
// degraded response.
func summarize[S, T any](res quality.Result, f func([]S) (T, error)) (T, error) {
	var zero T
	if res.Failed() {
		return zero, errors.New(res.Err)
	}
	var samples []S
	if err := json.Unmarshal(res.Data, &samples); err != nil {
		return zero, fmt.Errorf("decode feed payload: %w", err)
	}
	return f(samples)
}

// ranked wraps a summarized result for cross-validation; a failed result
// contributes nothing.
func ranked[S, T any](res quality.Result, name string, f func([]S) (T, error)) []quality.Ranked[T] {
	sum, err := summarize(res, f)
	if err != nil {
		return nil
	}
	return []quality.Ranked[T]{{Name: name, Data: sum, Quality: res.Meta.Quality}}
}

// combineMeta merges provenance of a multi-feed response, keeping the most
// pessimistic quality and completeness.
func (s *Server) combineMeta(metas ...quality.Meta) quality.Meta {
	m := quality.Meta{Source: "composite", Quality: 100, Completeness: 100, Timestamp: s.clock.Now()}
	for _, in := range metas {
		if in.Quality < m.Quality {
			m.Quality = in.Quality
		}
		if in.Completeness < m.Completeness {
			m.Completeness = in.Completeness
		}
		m.IsCache = m.IsCache || in.IsCache
		m.IsFallback = m.IsFallback || in.IsFallback
	}
	return m
}

func (s *Server) handleSolarWind(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, "solar-wind", nil, func(ctx context.Context) (feedResponse, error) {
		res := s.fetcher.FetchAll(ctx, s.catalog.SolarWind(), s.fetchOpts(swpc.FeedTTLs["solar-wind"]))
		summary, err := summarize(res, domain.SummarizeSolarWind)
		if err != nil {
			return feedResponse{}, err
		}
		return feedResponse{data: summary, meta: res.Meta}, nil
	})
}

func (s *Server) handleMagnetometer(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, "magnetometer", nil, func(ctx context.Context) (feedResponse, error) {
		res := s.fetcher.FetchAll(ctx, s.catalog.Magnetometer(), s.fetchOpts(swpc.FeedTTLs["mag"]))
		summary, err := summarize(res, domain.SummarizeMagnetometer)
		if err != nil {
			return feedResponse{}, err
		}
		return feedResponse{data: summary, meta: res.Meta}, nil
	})
}

func (s *Server) handleXRay(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, "xray", nil, func(ctx context.Context) (feedResponse, error) {
		res := s.fetcher.FetchAll(ctx, s.catalog.XRayFlux(), s.fetchOpts(swpc.FeedTTLs["xray"]))
		summary, err := summarize(res, domain.SummarizeXRay)
		if err != nil {
			return feedResponse{}, err
		}
		return feedResponse{data: summary, meta: res.Meta}, nil
	})
}

func (s *Server) handleProtons(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, "protons", nil, func(ctx context.Context) (feedResponse, error) {
		res := s.fetcher.FetchAll(ctx, s.catalog.ProtonFlux(), s.fetchOpts(swpc.FeedTTLs["protons"]))
		summary, err := summarize(res, domain.SummarizeProtons)
		if err != nil {
			return feedResponse{}, err
		}
		return feedResponse{data: summary, meta: res.Meta}, nil
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	days := 3
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "days must be an integer"})
			return
		}
		days = min(max(n, 1), 7)
	}

	params := map[string]string{"days": strconv.Itoa(days)}
	s.serveFeed(w, r, "forecast", params, func(ctx context.Context) (feedResponse, error) {
		cond, meta, confidence, err := s.conditions(ctx)
		if err != nil {
			return feedResponse{}, err
		}
		forecast := domain.BuildForecast(cond, days, s.clock.Now())
		return feedResponse{data: forecast, meta: meta, confidence: confidence}, nil
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, "alerts", nil, func(ctx context.Context) (feedResponse, error) {
		cond, meta, confidence, err := s.conditions(ctx)
		if err != nil {
			return feedResponse{}, err
		}
		alerts := domain.CheckAlerts(cond, s.clock.Now())
		return feedResponse{data: alerts, meta: meta, confidence: confidence}, nil
	})
}

// conditions assembles the current solar wind and IMF readings that drive
// forecasts and alerts. The 7-day and 1-day feeds are treated as redundant
// reads of the same quantities and cross-validated, so a corrupted or
// stale variant of one feed cannot silently skew the forecast.
func (s *Server) conditions(ctx context.Context) (domain.Conditions, quality.Meta, float64, error) {
	fetches := []struct {
		sources []quality.Source
		ttl     time.Duration
	}{
		{s.catalog.SolarWind(), swpc.FeedTTLs["solar-wind"]},
		{s.catalog.SolarWind1Day(), swpc.FeedTTLs["solar-wind"]},
		{s.catalog.Magnetometer(), swpc.FeedTTLs["mag"]},
		{s.catalog.Magnetometer1Day(), swpc.FeedTTLs["mag"]},
	}
	results := make([]quality.Result, len(fetches))
	var wg sync.WaitGroup
	for i, fd := range fetches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.fetcher.FetchAll(ctx, fd.sources, s.fetchOpts(fd.ttl))
		}()
	}
	wg.Wait()

	windRanked := ranked(results[0], "plasma-7-day", domain.SummarizeSolarWind)
	windRanked = append(windRanked, ranked(results[1], "plasma-1-day", domain.SummarizeSolarWind)...)
	windCons := quality.CrossValidate(windRanked)

	magRanked := ranked(results[2], "mag-7-day", domain.SummarizeMagnetometer)
	magRanked = append(magRanked, ranked(results[3], "mag-1-day", domain.SummarizeMagnetometer)...)
	magCons := quality.CrossValidate(magRanked)

	if !windCons.OK || !magCons.OK {
		return domain.Conditions{}, quality.Meta{}, 0, errors.New("solar wind and magnetometer feeds unavailable")
	}

	wind := windCons.Consensus
	mag := magCons.Consensus
	cond := domain.Conditions{
		SolarWindSpeed:    wind.CurrentSpeed,
		Bz:                mag.CurrentBz,
		Dst:               domain.EstimateDst(wind.CurrentSpeed, mag.CurrentBz),
		SouthwardDuration: mag.SouthwardDuration,
	}

	confidence := (windCons.Confidence + magCons.Confidence) / 2
	s.metrics.ConsensusConfidence.Observe(confidence)

	var contributing []quality.Meta
	for _, res := range results {
		if !res.Failed() {
			contributing = append(contributing, res.Meta)
		}
	}
	return cond, s.combineMeta(contributing...), confidence, nil
}

func (s *Server) handleSatellite(w http.ResponseWriter, r *http.Request) {
	satType := r.URL.Query().Get("type")
	if satType == "" {
		satType = "goes"
	}
	switch satType {
	case "goes", "ace":
	default:
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "unknown satellite type: " + satType})
		return
	}

	params := map[string]string{"type": satType}
	s.serveFeed(w, r, "satellite", params, func(ctx context.Context) (feedResponse, error) {
		if satType == "ace" {
			return s.aceView(ctx)
		}
		return s.goesView(ctx)
	})
}

// goesView combines the three GOES instrument feeds. Partial instrument
// outages are tolerated; the missing section is simply omitted.
func (s *Server) goesView(ctx context.Context) (feedResponse, error) {
	type goesData struct {
		XRay         *domain.XRaySummary    `json:"xray,omitempty"`
		Protons      *domain.ProtonSummary  `json:"proton,omitempty"`
		Magnetometer *domain.GoesMagSummary `json:"magnetometer,omitempty"`
	}

	feeds := []struct {
		sources []quality.Source
		ttl     time.Duration
	}{
		{s.catalog.XRayFlux(), swpc.FeedTTLs["xray"]},
		{s.catalog.ProtonFlux(), swpc.FeedTTLs["protons"]},
		{s.catalog.GoesMagnetometer(), swpc.FeedTTLs["goes-mag"]},
	}
	results := make([]quality.Result, len(feeds))
	var wg sync.WaitGroup
	for i, fd := range feeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.fetcher.FetchAll(ctx, fd.sources, s.fetchOpts(fd.ttl))
		}()
	}
	wg.Wait()

	var data goesData
	var contributing []quality.Meta
	if sum, err := summarize(results[0], domain.SummarizeXRay); err == nil {
		data.XRay = &sum
		contributing = append(contributing, results[0].Meta)
	}
	if sum, err := summarize(results[1], domain.SummarizeProtons); err == nil {
		data.Protons = &sum
		contributing = append(contributing, results[1].Meta)
	}
	if sum, err := summarize(results[2], domain.SummarizeGoesMag); err == nil {
		data.Magnetometer = &sum
		contributing = append(contributing, results[2].Meta)
	}
	if len(contributing) == 0 {
		return feedResponse{}, errors.New("all GOES instrument feeds unavailable")
	}
	return feedResponse{data: data, meta: s.combineMeta(contributing...)}, nil
}

// aceView combines the 1-day L1 plasma and IMF feeds with the propagation
// estimate from L1 to Earth.
func (s *Server) aceView(ctx context.Context) (feedResponse, error) {
	type plasmaData struct {
		CurrentSpeed   float64 `json:"current_speed"`
		CurrentDensity float64 `json:"current_density"`
	}
	type magneticData struct {
		CurrentBz float64 `json:"current_bz"`
		CurrentBt float64 `json:"current_bt"`
	}
	type aceData struct {
		Plasma                 plasmaData   `json:"plasma"`
		Magnetic               magneticData `json:"magnetic"`
		PropagationTimeMinutes float64      `json:"propagation_time_minutes"`
	}

	var wg sync.WaitGroup
	var plasmaRes, magRes quality.Result
	wg.Add(2)
	go func() {
		defer wg.Done()
		plasmaRes = s.fetcher.FetchAll(ctx, s.catalog.SolarWind1Day(), s.fetchOpts(swpc.FeedTTLs["solar-wind"]))
	}()
	go func() {
		defer wg.Done()
		magRes = s.fetcher.FetchAll(ctx, s.catalog.Magnetometer1Day(), s.fetchOpts(swpc.FeedTTLs["mag"]))
	}()
	wg.Wait()

	plasma, err := summarize(plasmaRes, domain.SummarizeSolarWind)
	if err != nil {
		return feedResponse{}, err
	}
	mag, err := summarize(magRes, domain.SummarizeMagnetometer)
	if err != nil {
		return feedResponse{}, err
	}

	data := aceData{
		Plasma:                 plasmaData{CurrentSpeed: plasma.CurrentSpeed, CurrentDensity: plasma.CurrentDensity},
		Magnetic:               magneticData{CurrentBz: mag.CurrentBz, CurrentBt: mag.CurrentBt},
		PropagationTimeMinutes: domain.PropagationTime(plasma.CurrentSpeed).Minutes(),
	}
	return feedResponse{data: data, meta: s.combineMeta(plasmaRes.Meta, magRes.Meta)}, nil
}

func (s *Server) handleSolarAnalysis(w http.ResponseWriter, r *http.Request) {
	s.serveFeed(w, r, "solar-analysis", nil, func(ctx context.Context) (feedResponse, error) {
		var wg sync.WaitGroup
		var indicesRes, regionsRes, flaresRes quality.Result
		wg.Add(3)
		go func() {
			defer wg.Done()
			indicesRes = s.fetcher.FetchAll(ctx, s.catalog.SolarIndices(), s.fetchOpts(swpc.FeedTTLs["indices"]))
		}()
		go func() {
			defer wg.Done()
			regionsRes = s.fetcher.FetchAll(ctx, s.catalog.SolarRegions(), s.fetchOpts(swpc.FeedTTLs["regions"]))
		}()
		go func() {
			defer wg.Done()
			flaresRes = s.fetcher.FetchAll(ctx, s.catalog.XRayFlares(), s.fetchOpts(swpc.FeedTTLs["flares"]))
		}()
		wg.Wait()

		if indicesRes.Failed() {
			return feedResponse{}, errors.New(indicesRes.Err)
		}
		var indices []domain.SolarIndices
		if err := json.Unmarshal(indicesRes.Data, &indices); err != nil {
			return feedResponse{}, fmt.Errorf("decode indices payload: %w", err)
		}
		if len(indices) == 0 {
			return feedResponse{}, errors.New("solar indices feed is empty")
		}
		latest := indices[len(indices)-1]

		// A regions or flares outage degrades that section rather than
		// failing the whole analysis.
		var regions []domain.SolarRegion
		contributing := []quality.Meta{indicesRes.Meta}
		if !regionsRes.Failed() {
			if err := json.Unmarshal(regionsRes.Data, &regions); err == nil {
				contributing = append(contributing, regionsRes.Meta)
			}
		}
		regionSummary := domain.SummarizeRegions(regions)

		flareActivity := domain.UnknownFlareActivity()
		if !flaresRes.Failed() {
			var flares []domain.FlareEvent
			if err := json.Unmarshal(flaresRes.Data, &flares); err == nil {
				flareActivity = domain.SummarizeFlares(flares, s.clock.Now().UTC())
				contributing = append(contributing, flaresRes.Meta)
			}
		}

		analysis := domain.SolarAnalysis{
			Timestamp:  s.clock.Now().UTC(),
			Indices:    latest,
			Regions:    regionSummary,
			Flares:     flareActivity,
			Assessment: domain.Assess(latest, regionSummary, flareActivity),
		}
		return feedResponse{data: analysis, meta: s.combineMeta(contributing...)}, nil
	})
}

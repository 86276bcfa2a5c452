package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/heliowatch/spaceweather/internal/domain"
)

// Physical plausibility ranges. Readings outside these bounds are treated
// as corrupt sensor output and dropped (see the domain package docs).
const (
	minWindSpeed   = 200  // km/s
	maxWindSpeed   = 3000 // km/s
	minDensity     = 0.1  // p/cc
	maxDensity     = 100  // p/cc
	minTemperature = 1e3  // K
	maxTemperature = 1e7  // K
	maxFieldNt     = 100  // nT, per IMF component
	maxGoesFieldNt = 1000 // nT, per GOES in-situ component
	maxXRayFlux    = 1e-2 // W/m²
	maxProtonFlux  = 1e6  // pfu
)

// timeLayouts covers the timestamp formats seen across SWPC feeds.
var timeLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseTable decodes the NOAA table format (array of arrays, row 0 is the
// header) and resolves the required column indices. A nil cols return means
// the payload is structurally unusable.
func parseTable(raw []byte, required []string) (rows [][]any, cols map[string]int, errs []string) {
	var tbl [][]any
	if err := json.Unmarshal(raw, &tbl); err != nil {
		return nil, nil, []string{fmt.Sprintf("payload: not a NOAA table: %v", err)}
	}
	if len(tbl) < 2 {
		return nil, nil, []string{"payload: table has no data rows"}
	}

	cols = make(map[string]int, len(tbl[0]))
	for i, cell := range tbl[0] {
		if name, ok := cell.(string); ok {
			cols[name] = i
		}
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			errs = append(errs, fmt.Sprintf("header: missing column %q", name))
		}
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}
	return tbl[1:], cols, nil
}

// cell returns the value at a named column, or nil when the row is ragged.
func cell(row []any, cols map[string]int, name string) any {
	i := cols[name]
	if i >= len(row) {
		return nil
	}
	return row[i]
}

// finish assembles a series validator result: normalized data (when any
// rows survived), completeness as the surviving fraction, and validity
// from the structural error list.
func finish(normalized any, kept, total int, errs []string) ValidationResult {
	if kept == 0 {
		return invalid(append(errs, "payload: no usable rows"))
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return invalid(append(errs, fmt.Sprintf("payload: marshal normalized form: %v", err)))
	}
	completeness := float64(kept) / float64(total) * 100
	if len(errs) > 0 {
		vr := invalid(errs)
		vr.Data = data
		vr.Completeness = completeness
		return vr
	}
	return valid(data, completeness)
}

// SolarWindValidator parses the solar wind plasma table feed
// (plasma-*-day.json) into []domain.SolarWindSample.
type SolarWindValidator struct{}

func (SolarWindValidator) Validate(raw []byte) ValidationResult {
	rows, cols, errs := parseTable(raw, []string{"time_tag", "density", "speed", "temperature"})
	if cols == nil {
		return invalid(errs)
	}

	samples := make([]domain.SolarWindSample, 0, len(rows))
	for i, row := range rows {
		t, ok := parseTime(cell(row, cols, "time_tag"))
		if !ok {
			errs = append(errs, fmt.Sprintf("rows[%d].time_tag: unparseable timestamp", i))
			continue
		}
		speed, ok := numberInRange(cell(row, cols, "speed"), minWindSpeed, maxWindSpeed, &errs, fmt.Sprintf("rows[%d].speed", i))
		if !ok {
			continue
		}
		density, ok := numberInRange(cell(row, cols, "density"), minDensity, maxDensity, &errs, fmt.Sprintf("rows[%d].density", i))
		if !ok {
			continue
		}
		temp, ok := numberInRange(cell(row, cols, "temperature"), minTemperature, maxTemperature, &errs, fmt.Sprintf("rows[%d].temperature", i))
		if !ok {
			continue
		}
		samples = append(samples, domain.SolarWindSample{Time: t, Density: density, Speed: speed, Temperature: temp})
	}
	return finish(samples, len(samples), len(rows), errs)
}

// MagnetometerValidator parses the IMF magnetometer table feed
// (mag-*-day.json) into []domain.MagSample.
type MagnetometerValidator struct{}

func (MagnetometerValidator) Validate(raw []byte) ValidationResult {
	rows, cols, errs := parseTable(raw, []string{"time_tag", "bx_gsm", "by_gsm", "bz_gsm", "bt"})
	if cols == nil {
		return invalid(errs)
	}

	samples := make([]domain.MagSample, 0, len(rows))
	for i, row := range rows {
		t, ok := parseTime(cell(row, cols, "time_tag"))
		if !ok {
			errs = append(errs, fmt.Sprintf("rows[%d].time_tag: unparseable timestamp", i))
			continue
		}
		bx, okX := numberInRange(cell(row, cols, "bx_gsm"), -maxFieldNt, maxFieldNt, &errs, fmt.Sprintf("rows[%d].bx_gsm", i))
		by, okY := numberInRange(cell(row, cols, "by_gsm"), -maxFieldNt, maxFieldNt, &errs, fmt.Sprintf("rows[%d].by_gsm", i))
		bz, okZ := numberInRange(cell(row, cols, "bz_gsm"), -maxFieldNt, maxFieldNt, &errs, fmt.Sprintf("rows[%d].bz_gsm", i))
		bt, okT := numberInRange(cell(row, cols, "bt"), 0, 2*maxFieldNt, &errs, fmt.Sprintf("rows[%d].bt", i))
		if !okX || !okY || !okZ || !okT {
			continue
		}
		samples = append(samples, domain.MagSample{Time: t, Bx: bx, By: by, Bz: bz, Bt: bt})
	}
	return finish(samples, len(samples), len(rows), errs)
}

// numberInRange extracts a plausible number from a payload cell. Missing
// values and implausible readings (sentinels like -9999.9 land here) are
// dropped silently; non-numeric text is a structural error.
func numberInRange(v any, min, max float64, errs *[]string, path string) (float64, bool) {
	if missing(v) {
		return 0, false
	}
	n, ok := parseNumber(v)
	if !ok {
		*errs = append(*errs, path+": not a number")
		return 0, false
	}
	if n < min || n > max {
		return 0, false
	}
	return n, true
}

// fluxValidator is the shared core of the GOES X-ray and proton feeds,
// which use the same object format: {time_tag, energy, flux}.
type fluxValidator struct {
	maxFlux float64
}

func (fv fluxValidator) Validate(raw []byte) ValidationResult {
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return invalid([]string{fmt.Sprintf("payload: not a flux array: %v", err)})
	}

	var errs []string
	samples := make([]domain.FluxSample, 0, len(entries))
	for i, e := range entries {
		t, ok := parseTime(e["time_tag"])
		if !ok {
			errs = append(errs, fmt.Sprintf("entries[%d].time_tag: unparseable timestamp", i))
			continue
		}
		energy, ok := e["energy"].(string)
		if !ok || energy == "" {
			errs = append(errs, fmt.Sprintf("entries[%d].energy: missing channel name", i))
			continue
		}
		flux, ok := numberInRange(e["flux"], 0, fv.maxFlux, &errs, fmt.Sprintf("entries[%d].flux", i))
		if !ok {
			continue
		}
		samples = append(samples, domain.FluxSample{Time: t, Energy: energy, Flux: flux})
	}
	return finish(samples, len(samples), len(entries), errs)
}

// XRayFluxValidator parses the GOES X-ray feed (xrays-*-day.json).
type XRayFluxValidator struct{}

func (XRayFluxValidator) Validate(raw []byte) ValidationResult {
	return fluxValidator{maxFlux: maxXRayFlux}.Validate(raw)
}

// ProtonFluxValidator parses the GOES integral proton feed
// (integral-protons-*-day.json).
type ProtonFluxValidator struct{}

func (ProtonFluxValidator) Validate(raw []byte) ValidationResult {
	return fluxValidator{maxFlux: maxProtonFlux}.Validate(raw)
}

// GoesMagnetometerValidator parses the GOES magnetometer feed
// (magnetometers-*-day.json) into []domain.GoesMagSample. The spacecraft
// field components use the Hp/He/Hn/Ht keys.
type GoesMagnetometerValidator struct{}

func (GoesMagnetometerValidator) Validate(raw []byte) ValidationResult {
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return invalid([]string{fmt.Sprintf("payload: not a magnetometer array: %v", err)})
	}

	var errs []string
	samples := make([]domain.GoesMagSample, 0, len(entries))
	for i, e := range entries {
		t, ok := parseTime(e["time_tag"])
		if !ok {
			errs = append(errs, fmt.Sprintf("entries[%d].time_tag: unparseable timestamp", i))
			continue
		}
		hp, okP := numberInRange(e["Hp"], -maxGoesFieldNt, maxGoesFieldNt, &errs, fmt.Sprintf("entries[%d].Hp", i))
		he, okE := numberInRange(e["He"], -maxGoesFieldNt, maxGoesFieldNt, &errs, fmt.Sprintf("entries[%d].He", i))
		hn, okN := numberInRange(e["Hn"], -maxGoesFieldNt, maxGoesFieldNt, &errs, fmt.Sprintf("entries[%d].Hn", i))
		ht, okT := numberInRange(e["Ht"], 0, 2*maxGoesFieldNt, &errs, fmt.Sprintf("entries[%d].Ht", i))
		if !okP || !okE || !okN || !okT {
			continue
		}
		samples = append(samples, domain.GoesMagSample{Time: t, Hp: hp, He: he, Hn: hn, Total: ht})
	}
	return finish(samples, len(samples), len(entries), errs)
}

// XRayFlaresValidator parses the GOES X-ray flares event feed
// (xray-flares-*-day.json) into []domain.FlareEvent. Flares are sparse
// event records rather than a time series; a record without a class or a
// peak time is unusable.
type XRayFlaresValidator struct{}

func (XRayFlaresValidator) Validate(raw []byte) ValidationResult {
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return invalid([]string{fmt.Sprintf("payload: not a flares array: %v", err)})
	}
	if len(entries) == 0 {
		// An empty feed is a quiet sun, not a broken one.
		return valid([]byte("[]"), 100)
	}

	var errs []string
	events := make([]domain.FlareEvent, 0, len(entries))
	for i, e := range entries {
		class, ok := e["class_type"].(string)
		if !ok || class == "" {
			errs = append(errs, fmt.Sprintf("entries[%d].class_type: missing flare class", i))
			continue
		}
		begin, _ := parseTime(e["begin_time"])
		peak, ok := parseTime(e["peak_time"])
		if !ok {
			// Some records carry only a begin time while the flare is in
			// progress.
			if begin.IsZero() {
				errs = append(errs, fmt.Sprintf("entries[%d].peak_time: unparseable timestamp", i))
				continue
			}
			peak = begin
		}
		end, _ := parseTime(e["end_time"])

		events = append(events, domain.FlareEvent{
			Class:    class,
			Begin:    begin,
			Peak:     peak,
			End:      end,
			Region:   regionLabel(e["region"]),
			Location: stringField(e["location"]),
			PeakFlux: SanitizeNumber(e["peak_flux"], 0, maxXRayFlux, 0),
		})
	}
	return finish(events, len(events), len(entries), errs)
}

// regionLabel renders the active region field, which the feed reports as
// either a number or a string.
func regionLabel(v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	if n, ok := parseNumber(v); ok {
		return strconv.Itoa(int(n))
	}
	return "Unknown"
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// SolarRegionsValidator parses the solar regions feed into
// []domain.SolarRegion. Region records are sparse by nature, so
// completeness here is the mean field completeness across records rather
// than a surviving-row fraction.
type SolarRegionsValidator struct{}

func (SolarRegionsValidator) Validate(raw []byte) ValidationResult {
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return invalid([]string{fmt.Sprintf("payload: not a regions array: %v", err)})
	}
	if len(entries) == 0 {
		return invalid([]string{"payload: no usable rows"})
	}

	var errs []string
	var completenessSum float64
	regions := make([]domain.SolarRegion, 0, len(entries))
	for i, e := range entries {
		completenessSum += Completeness(e)

		regionNum, ok := parseNumber(e["region"])
		if !ok {
			errs = append(errs, fmt.Sprintf("entries[%d].region: missing region number", i))
			continue
		}
		status, _ := e["status"].(string)
		location, _ := e["location"].(string)
		magClass, _ := e["mag_class"].(string)

		regions = append(regions, domain.SolarRegion{
			Region:   int(regionNum),
			Location: location,
			Area:     int(SanitizeNumber(e["area"], 0, 10000, 0)),
			MagClass: magClass,
			Spots:    int(SanitizeNumber(e["number_spots"], 0, 200, 0)),
			Status:   status,
		})
	}

	vr := finish(regions, len(regions), len(entries), errs)
	if vr.Data != nil {
		vr.Completeness = completenessSum / float64(len(entries))
	}
	return vr
}

// SolarIndicesValidator parses the observed solar cycle indices feed into
// []domain.SolarIndices.
type SolarIndicesValidator struct{}

func (SolarIndicesValidator) Validate(raw []byte) ValidationResult {
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return invalid([]string{fmt.Sprintf("payload: not an indices array: %v", err)})
	}

	var errs []string
	indices := make([]domain.SolarIndices, 0, len(entries))
	for i, e := range entries {
		tag, ok := e["time-tag"].(string)
		if !ok || tag == "" {
			errs = append(errs, fmt.Sprintf("entries[%d].time-tag: missing", i))
			continue
		}
		f107, ok := numberInRange(e["f10.7"], 0, 500, &errs, fmt.Sprintf("entries[%d].f10.7", i))
		if !ok {
			continue
		}
		ssn, ok := numberInRange(e["ssn"], 0, 500, &errs, fmt.Sprintf("entries[%d].ssn", i))
		if !ok {
			continue
		}
		indices = append(indices, domain.SolarIndices{
			Tag:            tag,
			F107:           f107,
			SmoothedF107:   SanitizeNumber(e["smoothed_f10.7"], 0, 500, f107),
			SunspotNumber:  ssn,
			SmoothedNumber: SanitizeNumber(e["smoothed_ssn"], 0, 500, ssn),
		})
	}
	return finish(indices, len(indices), len(entries), errs)
}

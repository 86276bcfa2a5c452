// Command mockswpc runs a local stand-in for the NOAA SWPC feed host. It
// serves synthetic payloads for every feed the dashboard pulls, so the API
// can be developed and demoed without hitting services.swpc.noaa.gov.
//
// Usage:
//
//	go run ./cmd/mockswpc -addr :9090
//	SWPC_BASE_URL=http://localhost:9090 go run ./cmd/api
//
// Fault injection: -fail takes a comma-separated list of feed names
// (plasma, mag, goesmag, xrays, flares, protons, regions, indices) that
// should answer 503,
// and -latency delays every response, which is enough to exercise the
// retry, circuit breaker, and stale-cache paths end to end.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("addr", ":9090", "listen address")
	fail := flag.String("fail", "", "comma-separated feed names to answer 503")
	latency := flag.Duration("latency", 0, "artificial delay added to every response")
	flag.Parse()

	failing := map[string]bool{}
	for _, name := range strings.Split(*fail, ",") {
		if name = strings.TrimSpace(name); name != "" {
			failing[name] = true
		}
	}

	now := time.Now().UTC().Truncate(time.Minute)

	feeds := []struct {
		path    string
		name    string
		payload any
	}{
		{"/products/solar-wind/plasma-7-day.json", "plasma", plasmaTable(now, 7*24*time.Hour)},
		{"/products/solar-wind/plasma-1-day.json", "plasma", plasmaTable(now, 24*time.Hour)},
		{"/products/solar-wind/mag-7-day.json", "mag", magTable(now, 7*24*time.Hour)},
		{"/products/solar-wind/mag-1-day.json", "mag", magTable(now, 24*time.Hour)},
		{"/json/goes/primary/xrays-7-day.json", "xrays", xrayEntries(now)},
		{"/json/goes/primary/xray-flares-1-day.json", "flares", flareEntries(now)},
		{"/json/goes/primary/magnetometers-1-day.json", "goesmag", goesMagEntries(now)},
		{"/json/goes/primary/integral-protons-1-day.json", "protons", protonEntries(now)},
		{"/json/regions/solar-regions.json", "regions", regionEntries(now)},
		{"/json/solar-cycle/observed-solar-cycle-indices.json", "indices", indexEntries(now)},
	}

	mux := http.NewServeMux()
	for _, feed := range feeds {
		mux.HandleFunc(feed.path, func(w http.ResponseWriter, r *http.Request) {
			if *latency > 0 {
				time.Sleep(*latency)
			}
			if failing[feed.name] {
				http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(feed.payload); err != nil {
				log.Printf("encode %s: %v", r.URL.Path, err)
			}
		})
		log.Printf("serving %s", feed.path)
	}

	log.Printf("mock SWPC listening on %s", *addr)
	return http.ListenAndServe(*addr, mux)
}

const feedStamp = "2006-01-02 15:04:05.000"

// plasmaTable renders solar wind plasma rows in SWPC's table format: row 0
// is the header, every cell is a string. A slow sinusoid around typical
// quiet-time values keeps derived summaries plausible, and a couple of
// sentinel cells exercise the sanitizer.
func plasmaTable(now time.Time, span time.Duration) [][]string {
	rows := [][]string{{"time_tag", "density", "speed", "temperature"}}
	for t := now.Add(-span); !t.After(now); t = t.Add(time.Minute * 10) {
		phase := float64(t.Unix()%86400) / 86400 * 2 * math.Pi
		density := 4.5 + 1.5*math.Sin(phase)
		speed := 420 + 60*math.Sin(phase/2)
		temp := 85000 + 20000*math.Cos(phase)
		rows = append(rows, []string{
			t.Format(feedStamp),
			fmt.Sprintf("%.2f", density),
			fmt.Sprintf("%.1f", speed),
			fmt.Sprintf("%.0f", temp),
		})
	}
	// Sprinkle sentinels the way the real feed does.
	if len(rows) > 3 {
		rows[2][1] = ""
		rows[3][3] = "-9999.9"
	}
	return rows
}

func magTable(now time.Time, span time.Duration) [][]string {
	rows := [][]string{{"time_tag", "bx_gsm", "by_gsm", "bz_gsm", "bt"}}
	for t := now.Add(-span); !t.After(now); t = t.Add(time.Minute * 10) {
		phase := float64(t.Unix()%43200) / 43200 * 2 * math.Pi
		bx := 2.0 * math.Cos(phase)
		by := 3.0 * math.Sin(phase)
		bz := -1.5 + 2.5*math.Sin(phase/3)
		bt := math.Sqrt(bx*bx + by*by + bz*bz)
		rows = append(rows, []string{
			t.Format(feedStamp),
			fmt.Sprintf("%.2f", bx),
			fmt.Sprintf("%.2f", by),
			fmt.Sprintf("%.2f", bz),
			fmt.Sprintf("%.2f", bt),
		})
	}
	return rows
}

func xrayEntries(now time.Time) []map[string]any {
	var entries []map[string]any
	for t := now.Add(-6 * time.Hour); !t.After(now); t = t.Add(time.Minute) {
		flux := 2.3e-7 * (1 + 0.3*math.Sin(float64(t.Unix())/1800))
		entries = append(entries,
			map[string]any{"time_tag": t.Format(time.RFC3339), "energy": "0.05-0.4nm", "flux": flux / 10},
			map[string]any{"time_tag": t.Format(time.RFC3339), "energy": "0.1-0.8nm", "flux": flux},
		)
	}
	return entries
}

func flareEntries(now time.Time) []map[string]any {
	event := func(age time.Duration, class string, region int, location string, flux float64) map[string]any {
		peak := now.Add(-age)
		return map[string]any{
			"class_type": class,
			"begin_time": peak.Add(-15 * time.Minute).Format(time.RFC3339),
			"peak_time":  peak.Format(time.RFC3339),
			"end_time":   peak.Add(20 * time.Minute).Format(time.RFC3339),
			"region":     region,
			"location":   location,
			"peak_flux":  flux,
		}
	}
	return []map[string]any{
		event(2*time.Hour, "M1.4", 13664, "S17W32", 1.4e-5),
		event(7*time.Hour, "C5.2", 13664, "S17W30", 5.2e-6),
		event(16*time.Hour, "C2.8", 13668, "N12E08", 2.8e-6),
	}
}

func goesMagEntries(now time.Time) []map[string]any {
	var entries []map[string]any
	for t := now.Add(-24 * time.Hour); !t.After(now); t = t.Add(time.Minute * 10) {
		phase := float64(t.Unix()%86400) / 86400 * 2 * math.Pi
		hp := 98 + 6*math.Sin(phase)
		he := 12 + 2*math.Cos(phase)
		hn := -3 + math.Sin(phase/2)
		entries = append(entries, map[string]any{
			"time_tag": t.Format(time.RFC3339),
			"Hp":       hp,
			"He":       he,
			"Hn":       hn,
			"Ht":       math.Sqrt(hp*hp + he*he + hn*hn),
		})
	}
	return entries
}

func protonEntries(now time.Time) []map[string]any {
	var entries []map[string]any
	for t := now.Add(-6 * time.Hour); !t.After(now); t = t.Add(5 * time.Minute) {
		entries = append(entries,
			map[string]any{"time_tag": t.Format(time.RFC3339), "energy": ">=10 MeV", "flux": 0.3},
			map[string]any{"time_tag": t.Format(time.RFC3339), "energy": ">=100 MeV", "flux": 0.05},
		)
	}
	return entries
}

func regionEntries(now time.Time) []map[string]any {
	date := now.Format("2006-01-02")
	return []map[string]any{
		{"observed_date": date, "region": 13664, "location": "S17W32", "area": 540, "spot_class": "Ekc", "mag_class": "beta-gamma-delta", "number_spots": 24, "status": "active"},
		{"observed_date": date, "region": 13668, "location": "N12E08", "area": 120, "spot_class": "Dai", "mag_class": "beta", "number_spots": 8, "status": "active"},
		{"observed_date": date, "region": 13661, "location": "N05W60", "area": 30, "spot_class": "Bxo", "mag_class": "alpha", "number_spots": 3, "status": "inactive"},
	}
}

func indexEntries(now time.Time) []map[string]any {
	var entries []map[string]any
	for i := 23; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		entries = append(entries, map[string]any{
			"time-tag":       month.Format("2006-01"),
			"ssn":            130.0 + 10*math.Sin(float64(i)),
			"smoothed_ssn":   125.0,
			"f10.7":          165.0 + 8*math.Cos(float64(i)),
			"smoothed_f10.7": 160.0,
		})
	}
	return entries
}

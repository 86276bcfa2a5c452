// Package swpc catalogs the NOAA SWPC feed endpoints the dashboard pulls
// from, pairing each feed with its validator and the redundant hosts it can
// be served by.
package swpc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/heliowatch/spaceweather/internal/domain"
	"github.com/heliowatch/spaceweather/internal/quality"
	"github.com/heliowatch/spaceweather/internal/schema"
)

// Feed paths relative to the SWPC host.
const (
	pathPlasma7Day  = "/products/solar-wind/plasma-7-day.json"
	pathPlasma1Day  = "/products/solar-wind/plasma-1-day.json"
	pathMag7Day     = "/products/solar-wind/mag-7-day.json"
	pathMag1Day     = "/products/solar-wind/mag-1-day.json"
	pathXRays7Day   = "/json/goes/primary/xrays-7-day.json"
	pathFlares1Day  = "/json/goes/primary/xray-flares-1-day.json"
	pathGoesMag1Day = "/json/goes/primary/magnetometers-1-day.json"
	pathProtons1Day = "/json/goes/primary/integral-protons-1-day.json"
	pathRegions     = "/json/regions/solar-regions.json"
	pathIndices     = "/json/solar-cycle/observed-solar-cycle-indices.json"
)

// Catalog resolves feeds to prioritized source lists. The primary host gets
// the highest priority; mirrors descend from there, so equal-quality
// results prefer the primary.
type Catalog struct {
	primary string
	mirrors []string
}

// NewCatalog builds a catalog over the primary SWPC host plus optional
// mirror hosts.
func NewCatalog(primary string, mirrors []string) *Catalog {
	return &Catalog{
		primary: strings.TrimSuffix(primary, "/"),
		mirrors: mirrors,
	}
}

// SolarWind returns the redundant sources for the 7-day solar wind plasma
// feed.
func (c *Catalog) SolarWind() []quality.Source {
	return c.sources("solar-wind-plasma", pathPlasma7Day, schema.SolarWindValidator{}, nil)
}

// SolarWind1Day returns sources for the 1-day plasma feed used by the ACE
// satellite view.
func (c *Catalog) SolarWind1Day() []quality.Source {
	return c.sources("solar-wind-plasma-1d", pathPlasma1Day, schema.SolarWindValidator{}, nil)
}

// Magnetometer returns sources for the 7-day IMF magnetometer feed.
func (c *Catalog) Magnetometer() []quality.Source {
	return c.sources("imf-magnetometer", pathMag7Day, schema.MagnetometerValidator{}, nil)
}

// Magnetometer1Day returns sources for the 1-day IMF feed used by the ACE
// satellite view.
func (c *Catalog) Magnetometer1Day() []quality.Source {
	return c.sources("imf-magnetometer-1d", pathMag1Day, schema.MagnetometerValidator{}, nil)
}

// XRayFlux returns sources for the GOES X-ray flux feed.
func (c *Catalog) XRayFlux() []quality.Source {
	return c.sources("goes-xray", pathXRays7Day, schema.XRayFluxValidator{}, nil)
}

// XRayFlares returns sources for the GOES X-ray flare event feed.
func (c *Catalog) XRayFlares() []quality.Source {
	return c.sources("goes-xray-flares", pathFlares1Day, schema.XRayFlaresValidator{}, nil)
}

// GoesMagnetometer returns sources for the GOES in-situ magnetometer feed,
// distinct from the L1 IMF feed served by Magnetometer.
func (c *Catalog) GoesMagnetometer() []quality.Source {
	return c.sources("goes-magnetometer", pathGoesMag1Day, schema.GoesMagnetometerValidator{}, nil)
}

// ProtonFlux returns sources for the GOES integral proton feed.
func (c *Catalog) ProtonFlux() []quality.Source {
	return c.sources("goes-protons", pathProtons1Day, schema.ProtonFluxValidator{}, nil)
}

// SolarRegions returns sources for the active solar regions feed.
func (c *Catalog) SolarRegions() []quality.Source {
	return c.sources("solar-regions", pathRegions, schema.SolarRegionsValidator{}, nil)
}

// SolarIndices returns sources for the observed solar cycle indices feed.
// The full feed spans decades; the transform trims it to the trailing 13
// months the dashboard actually renders.
func (c *Catalog) SolarIndices() []quality.Source {
	return c.sources("solar-indices", pathIndices, schema.SolarIndicesValidator{}, trimIndices)
}

// sources expands one feed path across the primary host and mirrors.
func (c *Catalog) sources(name, path string, v schema.Validator, transform func(json.RawMessage) (json.RawMessage, error)) []quality.Source {
	out := make([]quality.Source, 0, 1+len(c.mirrors))
	out = append(out, quality.Source{
		Name:      name,
		URL:       c.primary + path,
		Priority:  len(c.mirrors) + 1,
		Validator: v,
		Transform: transform,
	})
	for i, mirror := range c.mirrors {
		out = append(out, quality.Source{
			Name:      fmt.Sprintf("%s (mirror %d)", name, i+1),
			URL:       strings.TrimSuffix(mirror, "/") + path,
			Priority:  len(c.mirrors) - i,
			Validator: v,
			Transform: transform,
		})
	}
	return out
}

// trimIndices keeps the trailing 13 months of the solar cycle indices feed.
func trimIndices(data json.RawMessage) (json.RawMessage, error) {
	var indices []domain.SolarIndices
	if err := json.Unmarshal(data, &indices); err != nil {
		return nil, fmt.Errorf("trim indices: %w", err)
	}
	if len(indices) > 13 {
		indices = indices[len(indices)-13:]
	}
	return json.Marshal(indices)
}

// FeedTTLs are the recommended cache TTLs per feed cadence: real-time
// feeds refresh every minute upstream, region and cycle data daily.
var FeedTTLs = map[string]time.Duration{
	"solar-wind": 5 * time.Minute,
	"mag":        5 * time.Minute,
	"goes-mag":   5 * time.Minute,
	"xray":       5 * time.Minute,
	"flares":     10 * time.Minute,
	"protons":    5 * time.Minute,
	"regions":    time.Hour,
	"indices":    6 * time.Hour,
}

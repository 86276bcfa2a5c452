// Package domain models NOAA SWPC space-weather feed data and the derived
// analysis served by the dashboard API.
//
// # Data Sources
//
// All feeds originate from the NOAA Space Weather Prediction Center (SWPC)
// at https://services.swpc.noaa.gov, with optional mirror hosts configured
// for redundancy. Two wire formats appear:
//
// Table format (solar wind plasma and IMF magnetometer):
//
//	A JSON array of arrays where row 0 is the column header, e.g.
//	[["time_tag","density","speed","temperature"],
//	 ["2024-08-26 14:45:00.000","4.2","412.7","98234"], ...]
//	All cells are strings or null. Sentinels for "no data": null, "",
//	"UNK", and large negative values such as -9999.9.
//
// Object format (GOES X-ray, proton flux, solar regions, solar indices):
//
//	A JSON array of flat objects, e.g.
//	[{"time_tag":"2024-08-26T14:45:00Z","energy":"0.1-0.8nm","flux":2.3e-7}, ...]
//
// # Physical Plausibility Ranges
//
// Values outside these ranges are treated as corrupt sensor output and
// dropped during validation rather than propagated:
//
//	solar wind speed      200–3000 km/s
//	proton density        0.1–100 p/cc
//	plasma temperature    1e3–1e7 K
//	IMF components        |B| ≤ 100 nT
//	X-ray / proton flux   ≥ 0
//
// # Derived Quantities
//
// Dst index estimate (Burton-style approximation): -2 nT under northward
// IMF, otherwise -20·sqrt(v/400)·|Bz|. Storm probability accumulates from
// solar wind speed > 600 km/s, Bz < -10 nT, and Dst < -50 nT, capped at
// 0.95. X-ray flux maps to the standard A/B/C/M/X flare classes at decade
// boundaries starting at 1e-8 W/m². A ≥10 MeV proton flux above 10 pfu
// marks a solar energetic particle (SEP) event in progress.
package domain

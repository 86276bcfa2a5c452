package domain

import "time"

// SolarWindSample is one normalized row of the SWPC solar wind plasma feed.
type SolarWindSample struct {
	Time        time.Time `json:"time"`
	Density     float64   `json:"density"`     // protons per cm³
	Speed       float64   `json:"speed"`       // km/s
	Temperature float64   `json:"temperature"` // Kelvin
}

// MagSample is one normalized row of the interplanetary magnetic field feed,
// GSM coordinates, nanotesla.
type MagSample struct {
	Time time.Time `json:"time"`
	Bx   float64   `json:"bx"`
	By   float64   `json:"by"`
	Bz   float64   `json:"bz"`
	Bt   float64   `json:"bt"`
}

// FluxSample is one normalized row of a GOES X-ray or proton flux feed.
type FluxSample struct {
	Time   time.Time `json:"time"`
	Energy string    `json:"energy"`
	Flux   float64   `json:"flux"`
}

// SolarRegion is one active region from the SWPC solar regions feed.
type SolarRegion struct {
	Region   int    `json:"region"`
	Location string `json:"location"`
	Area     int    `json:"area"`
	MagClass string `json:"mag_class"`
	Spots    int    `json:"spots"`
	Status   string `json:"status"`
}

// SolarIndices is one monthly row of the observed solar cycle indices feed.
type SolarIndices struct {
	Tag            string  `json:"tag"` // "YYYY-MM"
	F107           float64 `json:"f10_7"`
	SmoothedF107   float64 `json:"smoothed_f10_7"`
	SunspotNumber  float64 `json:"sunspot_number"`
	SmoothedNumber float64 `json:"smoothed_sunspot_number"`
}

package domain

import "time"

// Conditions is a structured current-weather reading.
type Conditions struct {
	City        string
	Lat         float64
	Lon         float64
	Temp        float64 // °C
	FeelsLike   float64 // °C
	Humidity    int     // %
	Pressure    float64 // hPa
	WindSpeed   float64 // m/s
	Description string
	Code        int // provider condition code, e.g. 501
	Clouds      int // %
	Sunrise     time.Time
	Sunset      time.Time
	TZOffset    int // seconds east of UTC
	ObservedAt  time.Time
}

// ForecastEntry is one 3-hourly forecast slot.
type ForecastEntry struct {
	At          time.Time
	Temp        float64
	FeelsLike   float64
	Humidity    int
	Pressure    float64
	WindSpeed   float64
	Description string
	Code        int
	Clouds      int
}

// Forecast is a chronologically ordered list of entries for one place.
type Forecast struct {
	City     string
	TZOffset int // seconds east of UTC
	Entries  []ForecastEntry
}

// Zone returns the forecast location's fixed time zone.
func (f Forecast) Zone() *time.Location {
	return time.FixedZone("", f.TZOffset)
}

// Reading is a single pollutant concentration in µg/m³.
type Reading struct {
	Pollutant Pollutant
	Value     float64
}

// Pollution is an air-quality reading for one place.
type Pollution struct {
	ProviderIndex int // provider's own 1..5 index, informational only
	Readings      []Reading
}

// Value returns the concentration of pol and whether it was reported.
func (p Pollution) Value(pol Pollutant) (float64, bool) {
	for _, r := range p.Readings {
		if r.Pollutant == pol {
			return r.Value, true
		}
	}
	return 0, false
}

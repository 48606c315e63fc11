package domain

import "math"

// Pollutant names a pollutant with a breakpoint table.
type Pollutant string

const (
	PollutantSO2  Pollutant = "SO2"
	PollutantNO2  Pollutant = "NO2"
	PollutantPM10 Pollutant = "PM10"
	PollutantPM25 Pollutant = "PM2.5"
	PollutantO3   Pollutant = "O3"
	PollutantCO   Pollutant = "CO"
)

// AQICategory is a 1..5 air-quality bucket.
type AQICategory int

const (
	AQIGood AQICategory = iota + 1
	AQIFair
	AQIModerate
	AQIPoor
	AQIVeryPoor
)

var aqiLabels = map[AQICategory]string{
	AQIGood:     "Отличное 🟢",
	AQIFair:     "Хорошее 🟡",
	AQIModerate: "Умеренное 🟠",
	AQIPoor:     "Плохое 🔴",
	AQIVeryPoor: "Очень плохое 🟣",
}

// Label returns the human-readable category name.
func (c AQICategory) Label() string {
	if l, ok := aqiLabels[c]; ok {
		return l
	}
	return "N/A"
}

// aqiBreakpoints holds the lower bounds of categories 2..5 in µg/m³.
// Category n covers [bp[n-2], bp[n-1]); category 5 is open above bp[3].
var aqiBreakpoints = map[Pollutant][4]float64{
	PollutantSO2:  {20, 80, 250, 350},
	PollutantNO2:  {40, 70, 150, 200},
	PollutantPM10: {20, 50, 100, 200},
	PollutantPM25: {10, 25, 50, 75},
	PollutantO3:   {60, 100, 140, 180},
	PollutantCO:   {4400, 9400, 12400, 15400},
}

// ClassifyPollutant returns the category of value for pollutant p.
// ok is false when p has no breakpoint table or value is not a number.
func ClassifyPollutant(p Pollutant, value float64) (cat AQICategory, ok bool) {
	bps, ok := aqiBreakpoints[p]
	if !ok || math.IsNaN(value) {
		return 0, false
	}
	for i, lower := range bps {
		if value < lower {
			return AQICategory(i + 1), true
		}
	}
	return AQIVeryPoor, true
}

// MaxCategory returns the worst category over readings and the pollutant that
// first reached it. Unknown pollutants are ignored; no readings yields AQIGood.
func MaxCategory(readings []Reading) (AQICategory, Pollutant) {
	worst, by := AQIGood, Pollutant("")
	for _, r := range readings {
		cat, ok := ClassifyPollutant(r.Pollutant, r.Value)
		if !ok {
			continue
		}
		if by == "" || cat > worst {
			worst, by = cat, r.Pollutant
		}
	}
	return worst, by
}

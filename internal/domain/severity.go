package domain

// Severity is the alert bucket derived from a provider condition code.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityThunderstorm
	SeverityRain
	SeveritySnow
)

// ClassifySeverity maps a condition code to a severity bucket:
// [200,300) thunderstorm, [300,600) drizzle/rain, [600,700) snow.
func ClassifySeverity(code int) Severity {
	switch {
	case code >= 200 && code < 300:
		return SeverityThunderstorm
	case code >= 300 && code < 600:
		return SeverityRain
	case code >= 600 && code < 700:
		return SeveritySnow
	default:
		return SeverityNone
	}
}

// Alert reports whether the bucket warrants a push.
func (s Severity) Alert() bool { return s != SeverityNone }

// Banner is the alert prefix for the bucket.
func (s Severity) Banner() string {
	switch s {
	case SeverityThunderstorm:
		return "⛈️ Внимание! Ожидается гроза!"
	case SeverityRain:
		return "🌧️ Внимание! Ожидается дождь!"
	case SeveritySnow:
		return "❄️ Внимание! Ожидается снег!"
	default:
		return ""
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityThunderstorm:
		return "thunderstorm"
	case SeverityRain:
		return "rain"
	case SeveritySnow:
		return "snow"
	default:
		return "none"
	}
}

package domain

import "testing"

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		code int
		want Severity
	}{
		{199, SeverityNone},
		{200, SeverityThunderstorm},
		{232, SeverityThunderstorm},
		{299, SeverityThunderstorm},
		{300, SeverityRain},
		{321, SeverityRain},
		{501, SeverityRain},
		{599, SeverityRain},
		{600, SeveritySnow},
		{699, SeveritySnow},
		{700, SeverityNone},
		{800, SeverityNone},
		{0, SeverityNone},
	}
	for _, tt := range tests {
		if got := ClassifySeverity(tt.code); got != tt.want {
			t.Errorf("ClassifySeverity(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestSeverity_Banner(t *testing.T) {
	if SeverityNone.Alert() || SeverityNone.Banner() != "" {
		t.Fatal("none must not alert")
	}
	for _, s := range []Severity{SeverityThunderstorm, SeverityRain, SeveritySnow} {
		if !s.Alert() || s.Banner() == "" {
			t.Fatalf("%s must alert with a banner", s)
		}
	}
}

func TestWeatherEmoji(t *testing.T) {
	cases := map[string]string{
		"ясно":            "☀️",
		"Пасмурно":        "☁️",
		"небольшой дождь": "🌧️",
		"гроза":           "⛈️",
		"небольшой снег":  "❄️",
		"дымка":           DefaultEmoji,
	}
	for in, want := range cases {
		if got := WeatherEmoji(in); got != want {
			t.Errorf("WeatherEmoji(%q) = %s, want %s", in, got, want)
		}
	}
}

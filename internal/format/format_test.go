package format

import (
	"strings"
	"testing"
	"time"

	"github.com/NataKl/weather-API/internal/domain"
)

func paris() domain.Conditions {
	return domain.Conditions{
		City:        "Paris",
		Temp:        18.2,
		FeelsLike:   18,
		Humidity:    77,
		Pressure:    1013,
		WindSpeed:   3.6,
		Description: "небольшой дождь",
		Code:        501,
		Clouds:      75,
		TZOffset:    7200,
		Sunrise:     time.Date(2025, time.May, 5, 4, 15, 0, 0, time.UTC),
	}
}

func TestWeather(t *testing.T) {
	msg := Weather(paris(), "")
	for _, want := range []string{"🌧️", "Погода в городе Paris", "18.2°C", "18.0°C", "77%", "3.6 м/с", "760 мм рт. ст.", "Небольшой дождь"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message lacks %q:\n%s", want, msg)
		}
	}
	if !strings.Contains(Weather(paris(), "Дом"), "Погода в городе Дом") {
		t.Error("explicit city name must override the provider's")
	}
}

func TestWeather_EscapesCity(t *testing.T) {
	c := paris()
	c.City = "<b>x</b>"
	if strings.Contains(Weather(c, ""), "<b>x</b>") {
		t.Fatal("city name must be escaped")
	}
}

func TestNumber(t *testing.T) {
	cases := map[float64]string{18.2: "18.2", 18: "18.0", -3.25: "-3.25", 0: "0.0"}
	for in, want := range cases {
		if got := Number(in); got != want {
			t.Errorf("Number(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestExtended(t *testing.T) {
	p := &domain.Pollution{Readings: []domain.Reading{
		{Pollutant: domain.PollutantPM25, Value: 30},
		{Pollutant: domain.PollutantPM10, Value: 14.1},
	}}
	msg := Extended(paris(), p)
	for _, want := range []string{"Восход: <b>06:15</b>", "Закат: <b>N/A</b>", "Облачность: <b>75%</b>", "Умеренное 🟠", "(PM2.5)", "CO: <b>N/A µg/m³</b>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message lacks %q:\n%s", want, msg)
		}
	}
	if strings.Contains(Extended(paris(), nil), "КАЧЕСТВО ВОЗДУХА") {
		t.Error("air quality block must be omitted without pollution data")
	}
}

func TestCompare(t *testing.T) {
	a, b := paris(), paris()
	b.City, b.Temp = "Berlin", 15.7
	if msg := Compare(a, b); !strings.Contains(msg, "В Paris теплее на 2.5°C") {
		t.Fatalf("unexpected verdict:\n%s", msg)
	}
	if msg := Compare(a, a); !strings.Contains(msg, "Температура одинаковая") {
		t.Fatalf("unexpected verdict:\n%s", msg)
	}
}

func TestDayButton(t *testing.T) {
	d := domain.DayBucket{
		Day:         time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC), // Monday
		AvgTemp:     15,
		Description: "ясно",
	}
	if got, want := DayButton(d), "☀️ 05.05 (Пн) (15.0°C)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDayDetail(t *testing.T) {
	zone := time.FixedZone("", 3*3600)
	entries := []domain.ForecastEntry{
		{At: time.Date(2025, time.May, 5, 6, 0, 0, 0, time.UTC), Temp: 12.34, FeelsLike: 11, Humidity: 60, WindSpeed: 2, Description: "облачно"},
	}
	msg := DayDetail("Москва", entries, zone)
	for _, want := range []string{"05.05.2025 (Понедельник)", "🕐 <b>09:00</b>", "☁️ 12.3°C (ощущ. 11.0°C)", "💨 2.0 м/с | 💧 60%"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message lacks %q:\n%s", want, msg)
		}
	}
}

func TestAlert(t *testing.T) {
	msg := Alert(domain.ClassifySeverity(501), paris(), "Париж")
	if !strings.HasPrefix(msg, "🌧️ Внимание! Ожидается дождь!\n\n") || !strings.Contains(msg, "Погода в городе Париж") {
		t.Fatalf("unexpected alert:\n%s", msg)
	}
}

func TestCachedNote(t *testing.T) {
	if got := CachedNote(2*time.Hour + 5*time.Minute); !strings.Contains(got, "получены 2ч 5мин назад") {
		t.Fatalf("unexpected note %q", got)
	}
}

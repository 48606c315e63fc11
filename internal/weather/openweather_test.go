package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
)

const currentParis = `{
  "coord": {"lon": 2.35, "lat": 48.85},
  "weather": [{"id": 500, "description": "небольшой дождь"}],
  "main": {"temp": 18.2, "feels_like": 17.9, "pressure": 1013, "humidity": 77},
  "wind": {"speed": 3.6},
  "clouds": {"all": 75},
  "dt": 1715000000,
  "sys": {"sunrise": 1714970000, "sunset": 1715020000},
  "timezone": 7200,
  "name": "Париж"
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *OpenWeather {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewOpenWeather(OpenWeatherConfig{
		APIKey:         "k",
		BaseURL:        srv.URL,
		Client:         srv.Client(),
		RequestTimeout: 5 * time.Second,
		Attempts:       3,
		RetryDelay:     time.Millisecond,
	}, zap.NewNop())
}

func TestCurrentByCity(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/data/2.5/weather" || q.Get("q") != "Paris" ||
			q.Get("units") != "metric" || q.Get("lang") != "ru" || q.Get("appid") != "k" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(currentParis))
	})

	c, err := p.CurrentByCity(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.City != "Париж" || c.Temp != 18.2 || c.Code != 500 || c.Humidity != 77 {
		t.Fatalf("unexpected conditions: %+v", c)
	}
	if c.Description != "небольшой дождь" || c.TZOffset != 7200 || c.Sunrise.IsZero() {
		t.Fatalf("unexpected conditions: %+v", c)
	}
}

func TestCurrentByCity_NotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := p.CurrentByCity(context.Background(), "Nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if IsTransient(err) {
		t.Fatal("not found must not be transient")
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("want 1 request, got %d", n)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		want      error
		transient bool
	}{
		{http.StatusUnauthorized, ErrUnauthorized, false},
		{http.StatusForbidden, ErrUnauthorized, false},
		{http.StatusTooManyRequests, ErrRateLimited, true},
	}
	for _, tt := range tests {
		p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := p.CurrentByCoordinates(context.Background(), 1, 2)
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: want %v, got %v", tt.status, tt.want, err)
		}
		if IsTransient(err) != tt.transient {
			t.Errorf("status %d: transient = %v", tt.status, IsTransient(err))
		}
	}
}

func TestServerErrorIsRetried(t *testing.T) {
	var hits atomic.Int32
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(currentParis))
	})

	if _, err := p.CurrentByCity(context.Background(), "Paris"); err != nil {
		t.Fatalf("want success after retries, got %v", err)
	}
	if n := hits.Load(); n != 3 {
		t.Fatalf("want 3 requests, got %d", n)
	}
}

func TestServerErrorExhaustsAttempts(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := p.CurrentByCity(context.Background(), "Paris")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("want StatusError 503, got %v", err)
	}
	if !IsTransient(err) {
		t.Fatal("5xx must be transient")
	}
}

func TestPollutionByCoordinates(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/air_pollution" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"list":[{"main":{"aqi":2},"components":{"co":201.9,"no2":0.8,"o3":68.7,"so2":0.6,"pm2_5":12.5,"pm10":14.1,"nh3":0.1}}]}`))
	})

	got, err := p.PollutionByCoordinates(context.Background(), 55.75, 37.62)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProviderIndex != 2 || len(got.Readings) != 6 {
		t.Fatalf("unexpected pollution: %+v", got)
	}
	if v, ok := got.Value(domain.PollutantPM25); !ok || v != 12.5 {
		t.Fatalf("PM2.5 = %v, %v", v, ok)
	}
}

func TestForecastByCoordinates(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"list":[
		  {"dt":1715007600,"main":{"temp":10,"feels_like":9,"pressure":1000,"humidity":50},"weather":[{"id":800,"description":"ясно"}],"wind":{"speed":1},"clouds":{"all":0}},
		  {"dt":1715018400,"main":{"temp":12,"feels_like":11,"pressure":1001,"humidity":55},"weather":[{"id":801,"description":"облачно"}],"wind":{"speed":2},"clouds":{"all":20}}
		],"city":{"name":"Москва","timezone":10800}}`))
	})

	f, err := p.ForecastByCoordinates(context.Background(), 55.75, 37.62)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.City != "Москва" || f.TZOffset != 10800 || len(f.Entries) != 2 {
		t.Fatalf("unexpected forecast: %+v", f)
	}
	if f.Entries[1].Description != "облачно" || f.Entries[1].Clouds != 20 {
		t.Fatalf("unexpected entry: %+v", f.Entries[1])
	}
}

func TestReverseGeocode_PrefersLocalName(t *testing.T) {
	p := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("limit not set: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"name":"Moscow","local_names":{"ru":"Москва","en":"Moscow"}}]`))
	})

	name, err := p.ReverseGeocode(context.Background(), 55.75, 37.62)
	if err != nil || name != "Москва" {
		t.Fatalf("got %q, %v", name, err)
	}
}

func TestMissingAPIKey(t *testing.T) {
	p := NewOpenWeather(OpenWeatherConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	if _, err := p.CurrentByCity(context.Background(), "Paris"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
)

const maxBodyBytes = 1 << 20

// OpenWeatherConfig configures the OpenWeatherMap client.
type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string // e.g. https://api.openweathermap.org
	Lang    string
	Client  *http.Client
	// RequestTimeout bounds a whole call including retries.
	RequestTimeout time.Duration
	Attempts       uint
	RetryDelay     time.Duration
}

// OpenWeather implements Provider for OpenWeatherMap.
type OpenWeather struct {
	apiKey   string
	baseURL  string
	lang     string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
	timeout  time.Duration
	attempts uint
	delay    time.Duration
	log      *zap.Logger
}

// NewOpenWeather creates a client; zero config fields get defaults.
func NewOpenWeather(cfg OpenWeatherConfig, log *zap.Logger) *OpenWeather {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 20 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org"
	}
	if cfg.Lang == "" {
		cfg.Lang = "ru"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &OpenWeather{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		lang:     cfg.Lang,
		client:   cfg.Client,
		circuit:  cb,
		timeout:  cfg.RequestTimeout,
		attempts: cfg.Attempts,
		delay:    cfg.RetryDelay,
		log:      log,
	}
}

// CurrentByCity returns current conditions for a city name.
func (p *OpenWeather) CurrentByCity(ctx context.Context, name string) (domain.Conditions, error) {
	v := url.Values{}
	v.Set("q", name)
	var payload owmCurrent
	if err := p.get(ctx, "/data/2.5/weather", v, &payload); err != nil {
		return domain.Conditions{}, err
	}
	return payload.conditions(), nil
}

// CurrentByCoordinates returns current conditions for a coordinate pair.
func (p *OpenWeather) CurrentByCoordinates(ctx context.Context, lat, lon float64) (domain.Conditions, error) {
	var payload owmCurrent
	if err := p.get(ctx, "/data/2.5/weather", coords(lat, lon), &payload); err != nil {
		return domain.Conditions{}, err
	}
	return payload.conditions(), nil
}

// ForecastByCoordinates returns the 5-day / 3-hour forecast.
func (p *OpenWeather) ForecastByCoordinates(ctx context.Context, lat, lon float64) (domain.Forecast, error) {
	var payload struct {
		List []owmEntry `json:"list"`
		City struct {
			Name     string `json:"name"`
			Timezone int    `json:"timezone"`
		} `json:"city"`
	}
	if err := p.get(ctx, "/data/2.5/forecast", coords(lat, lon), &payload); err != nil {
		return domain.Forecast{}, err
	}
	if len(payload.List) == 0 {
		return domain.Forecast{}, ErrNotFound
	}

	f := domain.Forecast{
		City:     payload.City.Name,
		TZOffset: payload.City.Timezone,
		Entries:  make([]domain.ForecastEntry, 0, len(payload.List)),
	}
	for _, e := range payload.List {
		desc, code := e.Weather.first()
		f.Entries = append(f.Entries, domain.ForecastEntry{
			At:          time.Unix(e.Dt, 0).UTC(),
			Temp:        e.Main.Temp,
			FeelsLike:   e.Main.FeelsLike,
			Humidity:    e.Main.Humidity,
			Pressure:    e.Main.Pressure,
			WindSpeed:   e.Wind.Speed,
			Description: desc,
			Code:        code,
			Clouds:      e.Clouds.All,
		})
	}
	return f, nil
}

// PollutionByCoordinates returns the current air-pollution reading.
func (p *OpenWeather) PollutionByCoordinates(ctx context.Context, lat, lon float64) (domain.Pollution, error) {
	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components map[string]float64 `json:"components"`
		} `json:"list"`
	}
	if err := p.get(ctx, "/data/2.5/air_pollution", coords(lat, lon), &payload); err != nil {
		return domain.Pollution{}, err
	}
	if len(payload.List) == 0 {
		return domain.Pollution{}, ErrNotFound
	}

	item := payload.List[0]
	out := domain.Pollution{ProviderIndex: item.Main.AQI}
	for _, c := range owmComponents {
		if v, ok := item.Components[c.key]; ok {
			out.Readings = append(out.Readings, domain.Reading{Pollutant: c.pollutant, Value: v})
		}
	}
	return out, nil
}

// ReverseGeocode resolves coordinates to a place name using the provider's
// geocoding API, preferring the configured language.
func (p *OpenWeather) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	v := coords(lat, lon)
	v.Set("limit", "1")
	var payload []struct {
		Name       string            `json:"name"`
		LocalNames map[string]string `json:"local_names"`
	}
	if err := p.get(ctx, "/geo/1.0/reverse", v, &payload); err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", ErrNotFound
	}
	if n := payload[0].LocalNames[p.lang]; n != "" {
		return n, nil
	}
	if payload[0].Name == "" {
		return "", ErrNotFound
	}
	return payload[0].Name, nil
}

// get performs a GET with retries on transient errors, bounded by the request
// timeout, and decodes the JSON body into out.
func (p *OpenWeather) get(ctx context.Context, path string, v url.Values, out interface{}) error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: api key is not configured", ErrUnauthorized)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	v.Set("appid", p.apiKey)
	v.Set("units", "metric")
	v.Set("lang", p.lang)
	u := p.baseURL + path + "?" + v.Encode()

	var lastErr error
	err := retry.Do(
		func() error {
			lastErr = p.fetch(ctx, u, out)
			if lastErr != nil && !IsTransient(lastErr) {
				return retry.Unrecoverable(lastErr)
			}
			return lastErr
		},
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.MaxDelay(5*time.Second),
		retry.MaxJitter(250*time.Millisecond),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			p.log.Debug("retrying provider call", zap.String("path", path), zap.Uint("attempt", n), zap.Error(err))
		}),
	)
	if err == nil {
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

func (p *OpenWeather) fetch(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		resp, doErr := p.client.Do(req)
		if doErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransient, doErr)
		}
		// Only server-side trouble trips the breaker; 4xx is the caller's problem.
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			return nil, classifyStatus(resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrTransient, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func coords(lat, lon float64) url.Values {
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	v.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return v
}

var owmComponents = []struct {
	key       string
	pollutant domain.Pollutant
}{
	{"so2", domain.PollutantSO2},
	{"no2", domain.PollutantNO2},
	{"pm10", domain.PollutantPM10},
	{"pm2_5", domain.PollutantPM25},
	{"o3", domain.PollutantO3},
	{"co", domain.PollutantCO},
}

type owmWeather []struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

func (w owmWeather) first() (string, int) {
	if len(w) == 0 {
		return "", 0
	}
	return w[0].Description, w[0].ID
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Pressure  float64 `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

type owmEntry struct {
	Dt      int64      `json:"dt"`
	Main    owmMain    `json:"main"`
	Weather owmWeather `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
}

type owmCurrent struct {
	owmEntry
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Timezone int `json:"timezone"`
}

func (c owmCurrent) conditions() domain.Conditions {
	desc, code := c.Weather.first()
	out := domain.Conditions{
		City:        c.Name,
		Lat:         c.Coord.Lat,
		Lon:         c.Coord.Lon,
		Temp:        c.Main.Temp,
		FeelsLike:   c.Main.FeelsLike,
		Humidity:    c.Main.Humidity,
		Pressure:    c.Main.Pressure,
		WindSpeed:   c.Wind.Speed,
		Description: desc,
		Code:        code,
		Clouds:      c.Clouds.All,
		TZOffset:    c.Timezone,
		ObservedAt:  time.Unix(c.Dt, 0).UTC(),
	}
	if c.Sys.Sunrise > 0 {
		out.Sunrise = time.Unix(c.Sys.Sunrise, 0).UTC()
	}
	if c.Sys.Sunset > 0 {
		out.Sunset = time.Unix(c.Sys.Sunset, 0).UTC()
	}
	return out
}

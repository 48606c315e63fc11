package weather

import (
	"context"
	"errors"
	"strings"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"
)

// DefaultPlaceName is shown when no strategy can name a shared location.
const DefaultPlaceName = "Ваше местоположение"

// PlaceStrategy resolves coordinates to a human-readable place name.
type PlaceStrategy interface {
	Name() string
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

// PlaceFunc adapts a function to PlaceStrategy.
type PlaceFunc struct {
	Label string
	Fn    func(ctx context.Context, lat, lon float64) (string, error)
}

func (f PlaceFunc) Name() string { return f.Label }

func (f PlaceFunc) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	return f.Fn(ctx, lat, lon)
}

// PlaceResolver tries each strategy in order until one returns a name.
type PlaceResolver struct {
	strategies []PlaceStrategy
	log        *zap.Logger
}

// NewPlaceResolver creates a resolver that tries strategies in order.
func NewPlaceResolver(log *zap.Logger, strategies ...PlaceStrategy) *PlaceResolver {
	return &PlaceResolver{strategies: strategies, log: log}
}

// Resolve returns the first non-empty name produced by the chain. When every
// strategy fails it falls back to fallback (usually the provider's own city
// name), then to DefaultPlaceName.
func (r *PlaceResolver) Resolve(ctx context.Context, lat, lon float64, fallback string) string {
	for _, s := range r.strategies {
		name, err := s.Resolve(ctx, lat, lon)
		name = strings.TrimSpace(name)
		if err == nil && name != "" {
			return name
		}
		r.log.Debug("place strategy failed",
			zap.String("strategy", s.Name()),
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err),
		)
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return DefaultPlaceName
}

// GoogleGeocoder resolves places through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the geocoder package with apiKey.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Name() string { return "google" }

// Resolve returns the city of the first address. The underlying client has no
// context support, so the call is abandoned (not aborted) on cancellation.
func (g *GoogleGeocoder) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	type result struct {
		addrs []geocoder.Address
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		addrs, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
		ch <- result{addrs, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return "", res.err
		}
		for _, a := range res.addrs {
			if a.City != "" {
				return a.City, nil
			}
		}
		return "", errors.New("google geocoder: no city in results")
	}
}

// OpenWeatherGeocoder adapts the provider's reverse geocoding endpoint.
func OpenWeatherGeocoder(p *OpenWeather) PlaceStrategy {
	return PlaceFunc{Label: "openweather", Fn: p.ReverseGeocode}
}

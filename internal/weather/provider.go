package weather

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/NataKl/weather-API/internal/domain"
)

// Provider is the remote weather-data lookup service.
type Provider interface {
	CurrentByCity(ctx context.Context, name string) (domain.Conditions, error)
	CurrentByCoordinates(ctx context.Context, lat, lon float64) (domain.Conditions, error)
	ForecastByCoordinates(ctx context.Context, lat, lon float64) (domain.Forecast, error)
	PollutionByCoordinates(ctx context.Context, lat, lon float64) (domain.Pollution, error)
}

var (
	ErrNotFound     = errors.New("weather: not found")
	ErrUnauthorized = errors.New("weather: unauthorized")
	ErrRateLimited  = errors.New("weather: rate limited")
	ErrTransient    = errors.New("weather: transient network error")
)

// StatusError is an unexpected HTTP status from the provider.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather: unexpected status %d", e.Code)
}

// IsTransient reports whether err is worth retrying later: network and timeout
// failures, rate limiting, 5xx responses and an open circuit.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimited) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusInternalServerError
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// classifyStatus maps a non-2xx status to a typed error.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &StatusError{Code: code}
	}
}

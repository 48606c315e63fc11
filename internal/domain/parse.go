package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyCity     = errors.New("empty city")
	ErrNoSeparator   = errors.New("expected two cities separated by a comma")
	ErrNotTwoCities  = errors.New("expected exactly two cities")
	ErrBadCoordinate = errors.New("coordinates out of range")
)

// ParseCity trims s and rejects empty input.
func ParseCity(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyCity
	}
	return s, nil
}

// ParseCityPair parses "A, B" into two trimmed, non-empty city names.
func ParseCityPair(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ",") {
		return "", "", ErrNoSeparator
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", ErrNotTwoCities
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if a == "" || b == "" {
		return "", "", ErrNotTwoCities
	}
	return a, b, nil
}

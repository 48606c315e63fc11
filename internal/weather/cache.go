package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
)

// Query identifies what a snapshot was fetched for: a city name or a
// coordinate pair.
type Query struct {
	City     string
	Lat, Lon float64
	ByCoords bool
}

// CityQuery returns a query by city name.
func CityQuery(name string) Query { return Query{City: name} }

// CoordsQuery returns a query by coordinates.
func CoordsQuery(lat, lon float64) Query { return Query{Lat: lat, Lon: lon, ByCoords: true} }

// Matches reports whether two queries ask for the same place.
func (q Query) Matches(o Query) bool {
	if q.ByCoords != o.ByCoords {
		return false
	}
	if q.ByCoords {
		return math.Abs(q.Lat-o.Lat) < 1e-4 && math.Abs(q.Lon-o.Lon) < 1e-4
	}
	return strings.EqualFold(strings.TrimSpace(q.City), strings.TrimSpace(o.City))
}

// Snapshot is the last successful current-conditions response.
type Snapshot struct {
	Query      Query
	Conditions domain.Conditions
	FetchedAt  time.Time
}

// Age returns how old the snapshot is at now.
func (s Snapshot) Age(now time.Time) time.Duration { return now.Sub(s.FetchedAt) }

type snapshotFile struct {
	City        *string           `json:"city"`
	Lat         *float64          `json:"lat"`
	Lon         *float64          `json:"lon"`
	FetchedAt   time.Time         `json:"fetched_at"`
	WeatherData domain.Conditions `json:"weather_data"`
}

// SnapshotCache is a single-slot file cache: the last fetch wins.
type SnapshotCache struct {
	mu   sync.Mutex
	path string
	ttl  time.Duration
	log  *zap.Logger
}

// NewSnapshotCache creates a cache stored at path with the given freshness window.
func NewSnapshotCache(path string, ttl time.Duration, log *zap.Logger) *SnapshotCache {
	return &SnapshotCache{path: path, ttl: ttl, log: log}
}

// Save overwrites the slot.
func (c *SnapshotCache) Save(s Snapshot) error {
	rec := snapshotFile{FetchedAt: s.FetchedAt.UTC(), WeatherData: s.Conditions}
	if s.Query.ByCoords {
		lat, lon := s.Query.Lat, s.Query.Lon
		rec.Lat, rec.Lon = &lat, &lon
	} else {
		city := s.Query.City
		rec.City = &city
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, c.path)
}

// Lookup returns the cached snapshot when it matches q and is younger than
// the freshness window at now.
func (c *SnapshotCache) Lookup(q Query, now time.Time) (Snapshot, bool) {
	c.mu.Lock()
	b, err := os.ReadFile(c.path)
	c.mu.Unlock()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.log.Warn("read weather cache", zap.Error(err))
		}
		return Snapshot{}, false
	}

	var rec snapshotFile
	if err := json.Unmarshal(b, &rec); err != nil {
		c.log.Warn("corrupt weather cache", zap.Error(err))
		return Snapshot{}, false
	}
	s := Snapshot{Conditions: rec.WeatherData, FetchedAt: rec.FetchedAt}
	switch {
	case rec.City != nil:
		s.Query = CityQuery(*rec.City)
	case rec.Lat != nil && rec.Lon != nil:
		s.Query = CoordsQuery(*rec.Lat, *rec.Lon)
	default:
		return Snapshot{}, false
	}

	if age := s.Age(now); age < 0 || age >= c.ttl {
		return Snapshot{}, false
	}
	if !s.Query.Matches(q) {
		return Snapshot{}, false
	}
	return s, true
}

// CachedProvider records every successful current-conditions fetch into a
// SnapshotCache. Other calls pass through.
type CachedProvider struct {
	Provider
	cache *SnapshotCache
	now   func() time.Time
	log   *zap.Logger
}

// NewCachedProvider wraps p.
func NewCachedProvider(p Provider, cache *SnapshotCache, log *zap.Logger) *CachedProvider {
	return &CachedProvider{Provider: p, cache: cache, now: time.Now, log: log}
}

func (p *CachedProvider) CurrentByCity(ctx context.Context, name string) (domain.Conditions, error) {
	c, err := p.Provider.CurrentByCity(ctx, name)
	if err == nil {
		p.remember(CityQuery(name), c)
	}
	return c, err
}

func (p *CachedProvider) CurrentByCoordinates(ctx context.Context, lat, lon float64) (domain.Conditions, error) {
	c, err := p.Provider.CurrentByCoordinates(ctx, lat, lon)
	if err == nil {
		p.remember(CoordsQuery(lat, lon), c)
	}
	return c, err
}

// Lookup exposes the underlying cache for fallback display.
func (p *CachedProvider) Lookup(q Query, now time.Time) (Snapshot, bool) {
	return p.cache.Lookup(q, now)
}

func (p *CachedProvider) remember(q Query, c domain.Conditions) {
	if err := p.cache.Save(Snapshot{Query: q, Conditions: c, FetchedAt: p.now()}); err != nil {
		p.log.Warn("save weather cache", zap.Error(err))
	}
}

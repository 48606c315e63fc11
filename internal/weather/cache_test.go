package weather

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
)

func TestSnapshotCache_Lookup(t *testing.T) {
	now := time.Date(2025, time.May, 5, 12, 0, 0, 0, time.UTC)
	c := NewSnapshotCache(filepath.Join(t.TempDir(), "cache.json"), 3*time.Hour, zap.NewNop())

	if _, ok := c.Lookup(CityQuery("Paris"), now); ok {
		t.Fatal("empty cache must miss")
	}

	snap := Snapshot{
		Query:      CityQuery("Paris"),
		Conditions: domain.Conditions{City: "Париж", Temp: 18.2},
		FetchedAt:  now.Add(-90 * time.Minute),
	}
	if err := c.Save(snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := c.Lookup(CityQuery(" paris "), now)
	if !ok {
		t.Fatal("want hit for same city")
	}
	if got.Conditions.Temp != 18.2 || got.Age(now) != 90*time.Minute {
		t.Fatalf("unexpected snapshot: %+v", got)
	}

	if _, ok := c.Lookup(CityQuery("Berlin"), now); ok {
		t.Fatal("different city must miss")
	}
	if _, ok := c.Lookup(CoordsQuery(48.85, 2.35), now); ok {
		t.Fatal("coordinate query must not match city snapshot")
	}
	if _, ok := c.Lookup(CityQuery("Paris"), now.Add(2*time.Hour)); ok {
		t.Fatal("stale snapshot must miss")
	}
}

func TestSnapshotCache_LastFetchWins(t *testing.T) {
	now := time.Now()
	c := NewSnapshotCache(filepath.Join(t.TempDir(), "cache.json"), time.Hour, zap.NewNop())
	_ = c.Save(Snapshot{Query: CityQuery("Paris"), FetchedAt: now})
	_ = c.Save(Snapshot{Query: CoordsQuery(55.75, 37.62), FetchedAt: now})

	if _, ok := c.Lookup(CityQuery("Paris"), now); ok {
		t.Fatal("overwritten snapshot must miss")
	}
	if _, ok := c.Lookup(CoordsQuery(55.75, 37.62), now); !ok {
		t.Fatal("latest snapshot must hit")
	}
}

func TestSnapshotCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := NewSnapshotCache(path, time.Hour, zap.NewNop())
	if _, ok := c.Lookup(CityQuery("Paris"), time.Now()); ok {
		t.Fatal("corrupt cache must miss")
	}
}

type stubProvider struct {
	Provider
	cond domain.Conditions
	err  error
}

func (s stubProvider) CurrentByCity(context.Context, string) (domain.Conditions, error) {
	return s.cond, s.err
}

func TestCachedProvider_RemembersSuccess(t *testing.T) {
	cache := NewSnapshotCache(filepath.Join(t.TempDir(), "cache.json"), time.Hour, zap.NewNop())
	p := NewCachedProvider(stubProvider{cond: domain.Conditions{City: "Париж"}}, cache, zap.NewNop())

	if _, err := p.CurrentByCity(context.Background(), "Paris"); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Lookup(CityQuery("Paris"), time.Now()); !ok {
		t.Fatal("successful fetch must be cached")
	}

	failing := NewCachedProvider(stubProvider{err: ErrTransient}, cache, zap.NewNop())
	if _, err := failing.CurrentByCity(context.Background(), "Berlin"); !errors.Is(err, ErrTransient) {
		t.Fatalf("want transient error, got %v", err)
	}
	if _, ok := p.Lookup(CityQuery("Paris"), time.Now()); !ok {
		t.Fatal("failed fetch must not overwrite the snapshot")
	}
}

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
)

func TestSQLite_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "weather.db")

	db, err := OpenSQLite(ctx, path, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ts := time.Date(2025, time.May, 5, 10, 0, 0, 0, time.UTC)
	users := map[int64]domain.User{
		1: {ID: 1, NotificationsEnabled: true, Location: &domain.Location{Lat: 59.93, Lon: 30.31, Name: "Санкт-Петербург"}, LastNotifiedAt: &ts},
		2: {ID: 2},
	}
	if err := db.Save(ctx, users); err != nil {
		t.Fatalf("save: %v", err)
	}
	users[2] = domain.User{ID: 2, NotificationsEnabled: true}
	if err := db.Save(ctx, users); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening must not re-run applied migrations.
	db, err = OpenSQLite(ctx, path, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	got, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 users, got %d", len(got))
	}
	if u := got[1]; u.Location == nil || u.Location.Name != "Санкт-Петербург" || !u.LastNotifiedAt.Equal(ts) {
		t.Fatalf("unexpected user 1: %+v", u)
	}
	if !got[2].NotificationsEnabled {
		t.Fatal("upsert did not update user 2")
	}
}

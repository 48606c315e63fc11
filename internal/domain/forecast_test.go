package domain

import (
	"math"
	"testing"
	"time"
)

func entryAt(day, hour int, temp float64, desc string) ForecastEntry {
	return ForecastEntry{
		At:          time.Date(2025, time.May, day, hour, 0, 0, 0, time.UTC),
		Temp:        temp,
		Description: desc,
	}
}

func TestGroupByDay_LimitsToFiveDays(t *testing.T) {
	var entries []ForecastEntry
	for day := 10; day < 16; day++ { // six calendar dates
		entries = append(entries,
			entryAt(day, 9, 10, "ясно"),
			entryAt(day, 15, 20, "ясно"),
		)
	}

	days := GroupByDay(entries, time.UTC, MaxForecastDays)
	if len(days) != 5 {
		t.Fatalf("want 5 days, got %d", len(days))
	}
	if days[0].Date != "2025-05-10" || days[4].Date != "2025-05-14" {
		t.Fatalf("unexpected dates: %s..%s", days[0].Date, days[4].Date)
	}
	for _, d := range days {
		if math.Abs(d.AvgTemp-15) > 1e-9 {
			t.Fatalf("%s: want avg 15, got %v", d.Date, d.AvgTemp)
		}
		if len(d.Entries) != 2 {
			t.Fatalf("%s: want 2 entries, got %d", d.Date, len(d.Entries))
		}
	}
}

func TestGroupByDay_UsesZone(t *testing.T) {
	// 22:00 UTC is already the next day at UTC+3.
	entries := []ForecastEntry{entryAt(10, 20, 1, "a"), entryAt(10, 22, 2, "a")}
	zone := time.FixedZone("", 3*3600)

	days := GroupByDay(entries, zone, 0)
	if len(days) != 2 {
		t.Fatalf("want 2 local days, got %d", len(days))
	}
	if days[1].Date != "2025-05-11" {
		t.Fatalf("want second day 2025-05-11, got %s", days[1].Date)
	}
}

func TestDominantDescription(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want string
	}{
		{"majority", []string{"дождь", "ясно", "ясно"}, "ясно"},
		{"tie first seen wins", []string{"облачно", "дождь", "дождь", "облачно"}, "облачно"},
		{"all distinct", []string{"снег", "туман", "ясно"}, "снег"},
		{"empty", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var entries []ForecastEntry
			for i, d := range tc.in {
				entries = append(entries, entryAt(10, i, 0, d))
			}
			if got := DominantDescription(entries); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEntriesOn(t *testing.T) {
	entries := []ForecastEntry{entryAt(10, 9, 1, "a"), entryAt(11, 9, 2, "b"), entryAt(11, 12, 3, "c")}
	got := EntriesOn(entries, time.UTC, "2025-05-11")
	if len(got) != 2 || got[0].Description != "b" || got[1].Description != "c" {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if len(EntriesOn(entries, time.UTC, "2025-05-20")) != 0 {
		t.Fatal("expected no entries for missing date")
	}
}

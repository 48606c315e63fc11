package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NataKl/weather-API/internal/scheduler"
)

type fixedCounts struct{ total, subscribed int }

func (f fixedCounts) Counts() (int, int) { return f.total, f.subscribed }

type fixedRun struct {
	run scheduler.RunStats
	ok  bool
}

func (f fixedRun) LastRun() (scheduler.RunStats, bool) { return f.run, f.ok }

func TestHealthz(t *testing.T) {
	app := newHTTP(fixedCounts{}, fixedRun{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestStats(t *testing.T) {
	tests := []struct {
		name    string
		runs    fixedRun
		wantRun bool
	}{
		{"before first run", fixedRun{}, false},
		{"after a run", fixedRun{run: scheduler.RunStats{RunID: "r1", Alerted: 2}, ok: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newHTTP(fixedCounts{total: 5, subscribed: 3}, tt.runs)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stats", nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
			}

			var got statsResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Users != 5 || got.Subscribed != 3 {
				t.Fatalf("unexpected counts: %+v", got)
			}
			if (got.LastRun != nil) != tt.wantRun {
				t.Fatalf("last run presence = %v, want %v", got.LastRun != nil, tt.wantRun)
			}
			if tt.wantRun && (got.LastRun.RunID != "r1" || got.LastRun.Alerted != 2) {
				t.Fatalf("unexpected last run: %+v", got.LastRun)
			}
		})
	}
}

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MROIntel/internal/config"
)

func fredCatalogSize() int {
	n := 0
	for _, entry := range fredCatalog {
		n += len(entry.series)
	}
	return n
}

func TestFREDGatherMissingKey(t *testing.T) {
	t.Parallel()

	c := NewFREDClient(config.FREDConfig{BaseURL: "http://unused"}, nil)
	if _, err := c.Gather(context.Background()); err == nil || !strings.Contains(err.Error(), "misconfigured") {
		t.Fatalf("expected misconfigured error, got %v", err)
	}
}

func TestFREDGatherLatestNumericObservation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("unexpected api key: %q", got)
		}
		if got := r.URL.Query().Get("file_type"); got != "json" {
			t.Errorf("unexpected file type: %q", got)
		}
		if r.URL.Query().Get("series_id") == "" {
			t.Errorf("missing series_id")
		}

		w.Header().Set("Content-Type", "application/json")
		// The newest point is a "." placeholder; the previous numeric
		// value must be picked instead.
		w.Write([]byte(`{"observations": [
			{"date": "2026-05-01", "value": "100.0"},
			{"date": "2026-06-01", "value": "101.5"},
			{"date": "2026-07-01", "value": "."}
		]}`))
	}))
	defer server.Close()

	c := NewFREDClient(config.FREDConfig{BaseURL: server.URL, APIKey: "test-key", DaysBack: 90}, nil)
	observations, err := c.Gather(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(observations) != fredCatalogSize() {
		t.Fatalf("expected %d observations, got %d", fredCatalogSize(), len(observations))
	}

	first := observations[0]
	if first.SeriesID != "INDPRO" || first.Category != "industrial_activity" {
		t.Fatalf("unexpected first observation: %+v", first)
	}
	if first.Value != 101.5 || first.Date != "2026-06-01" {
		t.Fatalf("expected latest numeric value, got %+v", first)
	}
	if first.SeriesName == "" || first.Units == "" {
		t.Fatalf("catalog metadata missing: %+v", first)
	}
}

func TestFREDGatherSkipsFailingSeries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewFREDClient(config.FREDConfig{BaseURL: server.URL, APIKey: "test-key"}, nil)
	observations, err := c.Gather(context.Background())
	if err != nil {
		t.Fatalf("series failures must not fail the gather: %v", err)
	}
	if len(observations) != 0 {
		t.Fatalf("expected no observations, got %d", len(observations))
	}
}

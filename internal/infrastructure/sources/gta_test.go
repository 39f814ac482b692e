package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MROIntel/internal/config"
)

func TestGTAGatherMissingKey(t *testing.T) {
	t.Parallel()

	c := NewGTAClient(config.GTAConfig{BaseURL: "http://unused"}, nil)
	if _, err := c.Gather(context.Background()); err == nil || !strings.Contains(err.Error(), "misconfigured") {
		t.Fatalf("expected misconfigured error, got %v", err)
	}
}

func TestGTAGatherRunsQueryCatalog(t *testing.T) {
	t.Parallel()

	var payloads []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "APIKey test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type: %q", got)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		payloads = append(payloads, payload)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"intervention_id": 42,
			"state_act_title": "New work permit quota for foreign workers",
			"gta_evaluation": "Harmful",
			"implementing_jurisdictions": [{"name": "United States of America"}],
			"affected_jurisdictions": [{"name": "India"}],
			"intervention_type": "Labour market access",
			"mast_chapter": "Migration measures",
			"date_implemented": "2026-07-20",
			"is_in_force": 1,
			"sources": "https://example.org/notice; Federal Register"
		}]`))
	}))
	defer server.Close()

	c := NewGTAClient(config.GTAConfig{BaseURL: server.URL, APIKey: "test-key", DaysBack: 30}, nil)
	interventions, err := c.Gather(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One record per catalog query; the migration filter keeps it too
	// since title and chapter both match.
	if len(interventions) != 6 {
		t.Fatalf("expected 6 interventions, got %d", len(interventions))
	}
	if len(payloads) != 6 {
		t.Fatalf("expected 6 queries, got %d", len(payloads))
	}

	for _, payload := range payloads {
		period, ok := payload["implementation_period"].([]any)
		if !ok || len(period) != 2 {
			t.Fatalf("missing implementation_period: %v", payload)
		}
		limit, ok := payload["limit"].(float64)
		if !ok || limit <= 0 || limit > gtaMaxLimit {
			t.Fatalf("bad limit: %v", payload["limit"])
		}
	}

	iv := interventions[0]
	if iv.InterventionID != 42 || iv.Category != "tariffs_trade_policy" {
		t.Fatalf("unexpected first intervention: %+v", iv)
	}
	if !iv.InForce || iv.Evaluation != "Harmful" {
		t.Fatalf("unexpected flags: %+v", iv)
	}
	if !strings.Contains(iv.Description, "Labour market access implemented by United States of America affecting India.") {
		t.Fatalf("unexpected description: %q", iv.Description)
	}
	if len(iv.Sources) != 2 || iv.Sources[0].URL != "https://example.org/notice" || iv.Sources[1].Name != "Federal Register" {
		t.Fatalf("unexpected sources: %+v", iv.Sources)
	}
}

func TestGTAGatherAllQueriesFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewGTAClient(config.GTAConfig{BaseURL: server.URL, APIKey: "wrong"}, nil)
	if _, err := c.Gather(context.Background()); err == nil || !strings.Contains(err.Error(), "queries failed") {
		t.Fatalf("expected aggregate failure, got %v", err)
	}
}

func TestDecodeGTAResponseShapes(t *testing.T) {
	t.Parallel()

	bare := `[{"intervention_id": 1}]`
	records, err := decodeGTAResponse(strings.NewReader(bare))
	if err != nil || len(records) != 1 || records[0].InterventionID != 1 {
		t.Fatalf("bare array: records=%v err=%v", records, err)
	}

	wrapped := `{"data": [{"intervention_id": 2}]}`
	records, err = decodeGTAResponse(strings.NewReader(wrapped))
	if err != nil || len(records) != 1 || records[0].InterventionID != 2 {
		t.Fatalf("wrapped object: records=%v err=%v", records, err)
	}
}

func TestIsMigrationRecord(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  gtaRecord
		want bool
	}{
		{"title keyword", gtaRecord{Title: "Stricter visa rules announced"}, true},
		{"mast chapter", gtaRecord{MASTChapter: "L: Migration measures"}, true},
		{"type keyword", gtaRecord{Type: "Labour market access"}, true},
		{"unrelated", gtaRecord{Title: "Steel import tariff", Type: "Import tariff"}, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isMigrationRecord(tc.rec); got != tc.want {
				t.Fatalf("isMigrationRecord(%+v) = %v, want %v", tc.rec, got, tc.want)
			}
		})
	}
}

func TestFilterMigrationRecordsHonorsLimit(t *testing.T) {
	t.Parallel()

	records := []gtaRecord{
		{Title: "visa change one"},
		{Title: "steel tariff"},
		{Title: "visa change two"},
		{Title: "visa change three"},
	}

	kept := filterMigrationRecords(records, 2)
	if len(kept) != 2 {
		t.Fatalf("expected 2 records, got %d", len(kept))
	}
	if kept[0].Title != "visa change one" || kept[1].Title != "visa change two" {
		t.Fatalf("unexpected records: %+v", kept)
	}
}

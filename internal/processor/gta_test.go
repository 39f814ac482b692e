package processor

import (
	"strings"
	"testing"
	"time"

	"MROIntel/internal/domain"
)

func fixedGTA(now time.Time) *GTA {
	return &GTA{now: func() time.Time { return now }}
}

func TestGTARelevanceFreshHarmful(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	p := fixedGTA(now)

	iv := domain.TradeIntervention{
		Evaluation:      "Harmful",
		AffectedSectors: []string{"manufacturing"},
		DateImplemented: now.AddDate(0, 0, -10).Format("2006-01-02"),
	}

	// 0.5 base + 0.3 harmful + 0.2 adjacency + 0.3 freshness, capped.
	if got := p.relevance(iv); got != 1.0 {
		t.Fatalf("expected 1.0, got %f", got)
	}
}

func TestGTARelevanceStaleNonAdjacent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	p := fixedGTA(now)

	iv := domain.TradeIntervention{
		AffectedSectors: []string{"finance"},
		DateImplemented: now.AddDate(0, 0, -400).Format("2006-01-02"),
	}

	// 0.5 base - 0.2 stale penalty for non-adjacent sectors.
	got := p.relevance(iv)
	if got < 0.29 || got > 0.31 {
		t.Fatalf("expected 0.3, got %f", got)
	}
}

func TestGTARelevanceStaleButAdjacentKeepsScore(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	p := fixedGTA(now)

	iv := domain.TradeIntervention{
		AffectedSectors: []string{"steel"},
		DateImplemented: now.AddDate(0, 0, -400).Format("2006-01-02"),
	}

	// Adjacency bonus applies and the stale penalty is waived.
	got := p.relevance(iv)
	if got < 0.69 || got > 0.71 {
		t.Fatalf("expected 0.7, got %f", got)
	}
}

func TestGTARelevanceUnparseableDate(t *testing.T) {
	t.Parallel()

	p := fixedGTA(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	iv := domain.TradeIntervention{
		Evaluation:      "Harmful",
		DateImplemented: "soon",
	}

	// No freshness adjustment when the date cannot be parsed.
	got := p.relevance(iv)
	if got < 0.79 || got > 0.81 {
		t.Fatalf("expected 0.8, got %f", got)
	}
}

func TestParseInterventionDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"2026-01-15", true, "2026-01-15"},
		{"2026-01-15T10:30:00", true, "2026-01-15"},
		{"2026-01-15 10:30:00", true, "2026-01-15"},
		{"15/01/2026", true, "2026-01-15"},
		{"", false, ""},
		{"soon", false, ""},
	}

	for _, tc := range cases {
		got, ok := ParseInterventionDate(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseInterventionDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && got.Format("2006-01-02") != tc.want {
			t.Fatalf("ParseInterventionDate(%q) = %s, want %s", tc.in, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestGTAProcess(t *testing.T) {
	t.Parallel()

	p := fixedGTA(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

	iv := domain.TradeIntervention{
		Category:         "tariffs_trade_policy",
		InterventionID:   42,
		InterventionType: "Import tariff",
		Evaluation:       "Harmful",
		Description:      "Import tariff implemented by United States of America affecting China.",
		Implementing:     []domain.Jurisdiction{{Name: "United States of America"}},
		Affected:         []domain.Jurisdiction{{Name: "China"}},
		AffectedSectors:  []string{"iron and steel"},
		DateImplemented:  "2026-07-20",
		Sources:          []domain.SourceRef{{URL: "https://example.org/notice"}},
	}

	item := p.Process(iv)

	if item.SourceType != domain.SourceGTA {
		t.Fatalf("unexpected source type: %s", item.SourceType)
	}
	if item.Category != "tariffs_trade_policy" {
		t.Fatalf("unexpected category: %s", item.Category)
	}
	if item.Confidence != 0.9 {
		t.Fatalf("expected sourced confidence 0.9, got %f", item.Confidence)
	}
	if item.Trade == nil || item.Trade.InterventionID != 42 {
		t.Fatalf("missing trade details: %+v", item.Trade)
	}
	if len(item.Trade.ImplementingCountries) != 1 || item.Trade.ImplementingCountries[0] != "United States of America" {
		t.Fatalf("unexpected implementing countries: %v", item.Trade.ImplementingCountries)
	}
	if !strings.Contains(item.SoWhat, "Tariff changes") {
		t.Fatalf("expected tariff so-what, got %q", item.SoWhat)
	}
	if !item.HasSector(domain.SectorManufacturing) {
		t.Fatalf("expected manufacturing mapping for steel, got %v", item.AffectedSectors)
	}
}

func TestGTAProcessUnsourcedConfidence(t *testing.T) {
	t.Parallel()

	p := fixedGTA(time.Now())
	item := p.Process(domain.TradeIntervention{InterventionID: 1})
	if item.Confidence != 0.8 {
		t.Fatalf("expected 0.8 without sources, got %f", item.Confidence)
	}
	if !item.HasSector(domain.SectorGeneral) {
		t.Fatalf("expected general fallback, got %v", item.AffectedSectors)
	}
	if item.Category != "trade_intervention" {
		t.Fatalf("expected category default, got %s", item.Category)
	}
}

package config

import (
	"math"
	"testing"
)

func TestRelevanceBoostEmpty(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	if got := p.RelevanceBoost("completely unrelated text"); got != 0 {
		t.Fatalf("expected no boost, got %f", got)
	}
}

func TestRelevanceBoostComposition(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()

	// Region 0.3 (US) + sector 0.1 (manufacturing at priority 1.0) +
	// keywords 0.10 (US, manufacturing).
	got := p.RelevanceBoost("US manufacturing")
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.50, got %f", got)
	}
}

func TestRelevanceBoostFirstRegionWins(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()

	// Both Canada and Mexico are mentioned; only one region rule applies.
	canadaOnly := p.RelevanceBoost("shipments from canada")
	both := p.RelevanceBoost("shipments from canada and mexico")
	if math.Abs(canadaOnly-both) > 1e-9 {
		t.Fatalf("second region changed the boost: %f vs %f", canadaOnly, both)
	}
}

func TestRelevanceBoostLowPrioritySectorPenalizes(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()

	// hospitality priority 0.4 => (0.4-0.5)*0.2 = -0.02.
	got := p.RelevanceBoost("hospitality outlook")
	if math.Abs(got-(-0.02)) > 1e-9 {
		t.Fatalf("expected -0.02, got %f", got)
	}
}

func TestRelevanceBoostCap(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()

	text := "US domestic manufacturing industrial MRO supply chain construction maintenance repair equipment"
	if got := p.RelevanceBoost(text); got != 0.5 {
		t.Fatalf("expected cap 0.5, got %f", got)
	}
}

func TestShouldExclude(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()

	cases := []struct {
		name string
		text string
		want bool
	}{
		{"keyword", "aviation sector developments", true},
		{"single region mention", "exports to Europe fell", false},
		{"repeated region", "Europe tightened rules and Europe reacted", true},
		{"in scope", "US manufacturing demand is rising", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := p.ShouldExclude(tc.text); got != tc.want {
				t.Fatalf("ShouldExclude(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

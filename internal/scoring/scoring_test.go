package scoring

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBaseRelevanceEmpty(t *testing.T) {
	t.Parallel()

	if got := BaseRelevance(""); got != 0 {
		t.Fatalf("expected 0 for empty text, got %f", got)
	}
	if got := BaseRelevance("nothing relevant here"); got != 0 {
		t.Fatalf("expected 0 for unrelated text, got %f", got)
	}
}

func TestBaseRelevanceDirectTier(t *testing.T) {
	t.Parallel()

	// Two direct hits, nothing else.
	got := BaseRelevance("industrial equipment")
	if !almostEqual(got, 0.3) {
		t.Fatalf("expected 0.30, got %f", got)
	}
}

func TestBaseRelevanceTierSaturation(t *testing.T) {
	t.Parallel()

	// Four direct hits would be 0.6 unclamped; the tier caps at 0.4.
	got := BaseRelevance("industrial equipment distributor operations")
	if !almostEqual(got, 0.4) {
		t.Fatalf("expected direct tier cap 0.40, got %f", got)
	}
}

func TestBaseRelevanceRiskOpportunitySignals(t *testing.T) {
	t.Parallel()

	got := BaseRelevance("risk of disruption but growth ahead")
	// risk + disruption + growth = 3 signals * 0.05.
	if !almostEqual(got, 0.15) {
		t.Fatalf("expected 0.15, got %f", got)
	}
}

func TestBaseRelevanceTotalCap(t *testing.T) {
	t.Parallel()

	text := "industrial equipment distributor operations " +
		"transportation logistics customs border security " +
		"corporate supply chain international cross-border " +
		"risk threat crisis disruption growth expansion"
	got := BaseRelevance(text)
	if got > 1.0 {
		t.Fatalf("score exceeds cap: %f", got)
	}
	if got != 1.0 {
		t.Fatalf("expected saturated score 1.0, got %f", got)
	}
}

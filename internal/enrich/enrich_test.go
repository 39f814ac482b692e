package enrich

import (
	"context"
	"errors"
	"testing"

	"MROIntel/internal/domain"
)

type stubGenerator struct {
	statement string
	err       error
}

func (s *stubGenerator) SoWhat(_ context.Context, _ domain.IntelligenceItem) (string, error) {
	return s.statement, s.err
}

func TestEnricherNilGeneratorUsesTemplate(t *testing.T) {
	t.Parallel()

	e := NewEnricher(nil, nil)
	item := domain.IntelligenceItem{
		RawContent: "inflation pressure on industrial inputs",
		Category:   "economic_outlook",
	}

	got := e.SoWhat(context.Background(), item)
	want := TemplateSoWhat(item.RawContent, item.Category)
	if got != want {
		t.Fatalf("expected template statement, got %q", got)
	}
	if got == "" {
		t.Fatalf("template statement empty")
	}
}

func TestEnricherGeneratorErrorFallsBack(t *testing.T) {
	t.Parallel()

	e := NewEnricher(&stubGenerator{err: errors.New("backend down")}, nil)
	item := domain.IntelligenceItem{RawContent: "tariff changes on trade", Category: "geopolitical"}

	got := e.SoWhat(context.Background(), item)
	if got != TemplateSoWhat(item.RawContent, item.Category) {
		t.Fatalf("expected template fallback, got %q", got)
	}
}

func TestEnricherShortStatementFallsBack(t *testing.T) {
	t.Parallel()

	e := NewEnricher(&stubGenerator{statement: "too short"}, nil)
	item := domain.IntelligenceItem{RawContent: "sanctions on suppliers", Category: "geopolitical"}

	got := e.SoWhat(context.Background(), item)
	if got != TemplateSoWhat(item.RawContent, item.Category) {
		t.Fatalf("expected template fallback, got %q", got)
	}
}

func TestEnricherUngroundedStatementFallsBack(t *testing.T) {
	t.Parallel()

	e := NewEnricher(&stubGenerator{
		statement: "Costs will rise 45% across every category next quarter.",
	}, nil)
	item := domain.IntelligenceItem{
		RawContent:       "costs are rising for industrial categories",
		ProcessedContent: "Costs are rising for industrial categories.",
		Category:         "economic_outlook",
	}

	got := e.SoWhat(context.Background(), item)
	if got != TemplateSoWhat(item.RawContent, item.Category) {
		t.Fatalf("expected template fallback for ungrounded claim, got %q", got)
	}
}

func TestEnricherAcceptsValidStatement(t *testing.T) {
	t.Parallel()

	statement := "Rising industrial costs warrant a review of pricing strategies."
	e := NewEnricher(&stubGenerator{statement: statement}, nil)
	item := domain.IntelligenceItem{
		RawContent:       "industrial costs are rising",
		ProcessedContent: "Industrial costs are rising.",
		Category:         "economic_outlook",
	}

	if got := e.SoWhat(context.Background(), item); got != statement {
		t.Fatalf("expected generated statement, got %q", got)
	}
}

func TestTemplateSoWhatDeterministic(t *testing.T) {
	t.Parallel()

	first := TemplateSoWhat("inflation is rising", "economic_outlook")
	second := TemplateSoWhat("inflation is rising", "economic_outlook")
	if first != second {
		t.Fatalf("template not deterministic: %q vs %q", first, second)
	}
	if first != "Rising input costs will pressure MRO product margins and may require pricing adjustments across industrial categories." {
		t.Fatalf("unexpected template branch: %q", first)
	}
}

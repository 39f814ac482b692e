// Package enrich generates "so what" statements for intelligence items,
// preferring an AI backend and falling back to deterministic templates.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"MROIntel/internal/domain"
)

// Statements shorter than this are treated as generation failures.
const minStatementLength = 20

// Generator produces a "so what" statement for one item.
type Generator interface {
	SoWhat(ctx context.Context, item domain.IntelligenceItem) (string, error)
}

// Enricher applies the attempt -> validate -> fallback contract. A nil
// Enricher, or one without a generator, always uses the template path.
type Enricher struct {
	generator Generator
	validator *FactValidator
	logger    *slog.Logger
}

// NewEnricher wires a generator (may be nil) with fact validation.
func NewEnricher(generator Generator, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		generator: generator,
		validator: NewFactValidator(),
		logger:    logger,
	}
}

// SoWhat returns a validated statement for the item. Any failure along
// the AI path (error, too short, ungrounded claims, first-person text)
// degrades silently to the template statement.
func (e *Enricher) SoWhat(ctx context.Context, item domain.IntelligenceItem) string {
	if e == nil || e.generator == nil {
		return TemplateSoWhat(item.RawContent, item.Category)
	}

	generated, err := e.generator.SoWhat(ctx, item)
	if err != nil {
		e.logger.Warn("so-what generation failed, using template", "category", item.Category, "error", err)
		return TemplateSoWhat(item.RawContent, item.Category)
	}

	generated = strings.TrimSpace(generated)
	if len(generated) <= minStatementLength {
		return TemplateSoWhat(item.RawContent, item.Category)
	}

	corpus := item.ProcessedContent + " " + item.RawContent
	if ok, unsupported := e.validator.Validate(generated, corpus, false); !ok {
		e.logger.Warn("so-what rejected by fact validation, using template",
			"category", item.Category, "unsupported", unsupported)
		return TemplateSoWhat(item.RawContent, item.Category)
	}

	return generated
}

package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/cenkalti/backoff/v5"

	"MROIntel/internal/config"
	"MROIntel/internal/domain"
)

// AnthropicGenerator calls the Claude messages API for so-what
// statements, with bounded retry and usage accounting.
type AnthropicGenerator struct {
	client anthropicsdk.Client
	cfg    config.AIConfig
	usage  *UsageTracker
	logger *slog.Logger
}

var _ Generator = (*AnthropicGenerator)(nil)

// NewAnthropicGenerator builds a generator from config. The returned
// generator shares one usage tracker across all requests.
func NewAnthropicGenerator(cfg config.AIConfig, logger *slog.Logger) *AnthropicGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnthropicGenerator{
		client: anthropicsdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
		usage:  &UsageTracker{},
		logger: logger,
	}
}

// Usage returns accumulated token and cost totals.
func (g *AnthropicGenerator) Usage() UsageSummary {
	return g.usage.Summary()
}

// SoWhat asks the model for a 1-2 sentence implication statement.
// Retries transient failures with exponential backoff; a timeout counts
// as a failed attempt.
func (g *AnthropicGenerator) SoWhat(ctx context.Context, item domain.IntelligenceItem) (string, error) {
	if g.cfg.APIKey == "" {
		return "", fmt.Errorf("anthropic generator misconfigured: missing API key")
	}

	params := anthropicsdk.MessageNewParams{
		Model:       anthropicsdk.Model(g.cfg.Model),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: param.NewOpt(g.cfg.Temperature),
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(soWhatPrompt(item))),
		},
	}

	operation := func() (*anthropicsdk.Message, error) {
		reqCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout())
		defer cancel()

		msg, err := g.client.Messages.New(reqCtx, params)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, err
		}
		return msg, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second

	msg, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(g.cfg.MaxRetries)+1),
	)
	if err != nil {
		g.usage.RecordFailure()
		return "", fmt.Errorf("anthropic so-what request: %w", err)
	}

	g.usage.Record(msg.Usage.InputTokens, msg.Usage.OutputTokens)

	var sb strings.Builder
	for _, block := range msg.Content {
		sb.WriteString(block.Text)
	}
	return sb.String(), nil
}

func soWhatPrompt(item domain.IntelligenceItem) string {
	var sb strings.Builder
	sb.WriteString("Write a 1-2 sentence 'So What' statement explaining the business implication ")
	sb.WriteString("of the following market intelligence for a US MRO (maintenance, repair and operations) distributor.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Use only information present in the content below.\n")
	sb.WriteString("- Do not invent statistics, dates, or company names.\n")
	sb.WriteString("- No first-person phrasing.\n\n")
	fmt.Fprintf(&sb, "Category: %s\n", item.Category)
	fmt.Fprintf(&sb, "Content: %s\n", item.ProcessedContent)
	return sb.String()
}

package enrich

import "sync"

// Claude pricing per million tokens, used for run-cost accounting.
const (
	inputCostPerMTok  = 15.0
	outputCostPerMTok = 75.0
)

// UsageSummary is a point-in-time snapshot of enrichment spend.
type UsageSummary struct {
	Requests     int
	Failed       int
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// UsageTracker accumulates token and cost totals across a run. Safe for
// concurrent use.
type UsageTracker struct {
	mu           sync.Mutex
	requests     int
	failed       int
	inputTokens  int64
	outputTokens int64
}

// Record registers one successful generation.
func (t *UsageTracker) Record(inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests++
	t.inputTokens += inputTokens
	t.outputTokens += outputTokens
}

// RecordFailure registers one generation that exhausted its retries.
func (t *UsageTracker) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests++
	t.failed++
}

// Summary returns the accumulated totals.
func (t *UsageTracker) Summary() UsageSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return UsageSummary{
		Requests:     t.requests,
		Failed:       t.failed,
		InputTokens:  t.inputTokens,
		OutputTokens: t.outputTokens,
		CostUSD: float64(t.inputTokens)/1_000_000*inputCostPerMTok +
			float64(t.outputTokens)/1_000_000*outputCostPerMTok,
	}
}

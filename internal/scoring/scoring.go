// Package scoring computes keyword-based relevance for intelligence text.
package scoring

import "strings"

// Keyword vocabulary feeding the base relevance score. Matching is
// case-insensitive substring presence; each keyword counts once.
var (
	industrialDirectKeywords = []string{
		"industrial", "equipment", "operations", "operator", "airline",
		"airport", "faa", "easa", "icao", "air travel", "business jet",
		"distributor",
	}
	industrialIndirectKeywords = []string{
		"travel", "mobility", "transportation", "logistics", "customs",
		"visa", "border", "immigration", "security", "fuel prices",
	}
	businessImpactKeywords = []string{
		"corporate", "executive", "business travel", "global business",
		"international", "cross-border", "multinational", "supply chain",
	}

	// RiskKeywords flag threat narratives; shared with sector rollups.
	RiskKeywords = []string{
		"risk", "threat", "instability", "conflict", "sanctions", "crisis",
		"disruption", "uncertainty", "volatility", "tension",
	}

	// OpportunityKeywords flag upside narratives; shared with sector rollups.
	OpportunityKeywords = []string{
		"growth", "expansion", "opportunity", "emerging", "recovery",
		"improvement", "investment", "development", "innovation",
	}
)

// BaseRelevance scores text across four weighted keyword tiers, each
// saturating independently, and caps the total at 1.0.
func BaseRelevance(text string) float64 {
	lower := strings.ToLower(text)

	score := tierScore(lower, industrialDirectKeywords, 0.15, 0.4)
	score += tierScore(lower, industrialIndirectKeywords, 0.1, 0.2)
	score += tierScore(lower, businessImpactKeywords, 0.08, 0.2)

	signals := countMatches(lower, RiskKeywords) + countMatches(lower, OpportunityKeywords)
	score += capAt(float64(signals)*0.05, 0.2)

	return capAt(score, 1.0)
}

func tierScore(lower string, keywords []string, weight, limit float64) float64 {
	return capAt(float64(countMatches(lower, keywords))*weight, limit)
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

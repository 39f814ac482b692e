package enrich

import (
	"regexp"
	"strings"
)

// Claim extraction patterns. Every factual claim a generated statement
// makes must be traceable to the source material verbatim.
var claimPatterns = map[string]*regexp.Regexp{
	"percentage":    regexp.MustCompile(`\d+(\.\d+)?%`),
	"dollar_amount": regexp.MustCompile(`(?i)\$\d+(\.\d+)?\s*(billion|million|trillion)?`),
	"date":          regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4}|Q[1-4]\s+\d{4}`),
	"number":        regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d+)?\b`),
	"country":       regexp.MustCompile(`(?i)\b(United States|China|Russia|EU|European Union|Japan|India|Saudi Arabia|Iran|Israel)\b`),
	"company":       regexp.MustCompile(`\b[A-Z][a-z]+\s+(Technologies|Corporation|Inc\.|Ltd\.|Capital|Group|Partners)\b`),
}

var prohibitedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)I believe|I think|In my opinion|From my perspective`),
	regexp.MustCompile(`(?i)Based on my analysis of|My assessment shows`),
	regexp.MustCompile(`(?i)According to sources not provided|External research indicates`),
}

// FactValidator rejects generated statements containing claims absent
// from the source material or first-person editorializing.
type FactValidator struct{}

// NewFactValidator returns a validator with the default claim patterns.
func NewFactValidator() *FactValidator {
	return &FactValidator{}
}

// Validate checks generated text against the source corpus. In strict
// mode a single unsupported claim fails; otherwise up to 20% of claims
// may be unsupported. Prohibited phrasing always fails.
func (v *FactValidator) Validate(generated, corpus string, strict bool) (bool, []string) {
	for _, p := range prohibitedPatterns {
		if p.MatchString(generated) {
			return false, []string{"prohibited phrasing: " + p.FindString(generated)}
		}
	}

	claims := extractClaims(generated)
	if len(claims) == 0 {
		return true, nil
	}

	corpusLower := strings.ToLower(corpus)
	var unsupported []string
	for _, claim := range claims {
		if !strings.Contains(corpusLower, strings.ToLower(claim)) {
			unsupported = append(unsupported, claim)
		}
	}

	if strict {
		return len(unsupported) == 0, unsupported
	}
	return float64(len(unsupported)) <= 0.2*float64(len(claims)), unsupported
}

func extractClaims(text string) []string {
	var claims []string
	seen := map[string]bool{}

	for kind, p := range claimPatterns {
		for _, m := range p.FindAllString(text, -1) {
			// Tiny bare numbers ("1", "90") are too ambiguous to ground.
			if kind == "number" && len(m) <= 2 {
				continue
			}
			if !seen[m] {
				seen[m] = true
				claims = append(claims, m)
			}
		}
	}

	return claims
}

// Package blocklist keeps legacy-client and off-market aviation content
// out of generated reports.
package blocklist

import (
	"regexp"
	"strings"
)

var blockedTerms = []string{
	"solairus",
	"solairus aviation",
	"business aviation",
	"private aviation",
	"charter",
	"aircraft management",
	"flight operations",
	"fbo",
	"fixed base operator",
	"part 135",
	"part 91",
	"tail number",
	"n-number",
	"pilot",
	"crew scheduling",
	"hangar",
	"jet fuel",
	"avgas",
	"flight planning",
	"aircraft",
	"aviation",
	"high net worth",
	"hnw",
	"uhnw",
	"ultra high net worth",
	"talent mobility",
	"entertainment sector",
	"silicon valley dynamics",
	"celebrity travel",
	"executive travel",
	"vip transport",
	"wjfuelusgulf",
	"kerosene-type jet fuel",
}

var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`N\d{3,5}[A-Z]{0,2}`), // tail numbers
	regexp.MustCompile(`(?i)solairus`),
	regexp.MustCompile(`(?i)aviation\s+client`),
	regexp.MustCompile(`(?i)business\s+aviation`),
	regexp.MustCompile(`(?i)private\s+aviation`),
	regexp.MustCompile(`(?i)charter\s+(flight|service|operator)`),
	regexp.MustCompile(`(?i)flight\s+department`),
	regexp.MustCompile(`(?i)high[\-\s]net[\-\s]worth`),
}

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

var sanitizeRules = []replacement{
	{regexp.MustCompile(`(?i)aviation`), "industrial"},
	{regexp.MustCompile(`(?i)aircraft`), "equipment"},
	{regexp.MustCompile(`(?i)flight`), "operations"},
	{regexp.MustCompile(`(?i)pilot`), "operator"},
	{regexp.MustCompile(`(?i)charter`), "service"},
	{regexp.MustCompile(`(?i)jet fuel`), "energy costs"},
	{regexp.MustCompile(`(?i)fbo`), "distributor"},
	{regexp.MustCompile(`(?i)solairus`), "[CLIENT]"},
}

// Check returns every blocked term or pattern the text violates.
func Check(text string) []string {
	var violations []string
	lower := strings.ToLower(text)

	for _, term := range blockedTerms {
		if strings.Contains(lower, term) {
			violations = append(violations, "term: "+term)
		}
	}

	for _, p := range blockedPatterns {
		if p.MatchString(text) {
			violations = append(violations, "pattern: "+p.String())
		}
	}

	return violations
}

// IsClean reports whether text passes the blocklist.
func IsClean(text string) bool {
	return len(Check(text)) == 0
}

// Sanitize rewrites blocked vocabulary into the client's domain. Used as
// a final guard when rendering; items should already have been dropped.
func Sanitize(text string) string {
	out := text
	for _, r := range sanitizeRules {
		out = r.pattern.ReplaceAllString(out, r.with)
	}
	return out
}

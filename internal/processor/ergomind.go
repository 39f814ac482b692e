package processor

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"MROIntel/internal/blocklist"
	"MROIntel/internal/config"
	"MROIntel/internal/domain"
	"MROIntel/internal/enrich"
	"MROIntel/internal/scoring"
)

// SoWhatWriter produces the "so what" statement for a processed item.
type SoWhatWriter interface {
	SoWhat(ctx context.Context, item domain.IntelligenceItem) string
}

var hedgingPhrases = []string{
	"has not identified",
	"have not identified",
	"no evidence of",
	"does not appear",
	"not identified",
	"no significant new",
	"no major new",
	"unclear whether",
	"insufficient data",
	"cannot determine",
	"remains unclear",
}

var keySentenceIndicators = []string{
	"significant", "major", "critical", "important", "key", "forecast",
	"expect", "likely", "will", "could", "increase", "decrease", "rise",
	"fall", "growth",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	ellipsisRe   = regexp.MustCompile(`\.{3,}`)
	multiDotRe   = regexp.MustCompile(`\.{2,}`)
)

// ErgoMind processes free-text research-forum narratives.
type ErgoMind struct {
	profile config.Profile
	soWhat  SoWhatWriter
	logger  *slog.Logger
}

// NewErgoMind builds the forum processor. soWhat may be nil; the item
// then keeps its template statement.
func NewErgoMind(profile config.Profile, soWhat SoWhatWriter, logger *slog.Logger) *ErgoMind {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErgoMind{profile: profile, soWhat: soWhat, logger: logger}
}

// Process converts one narrative into an intelligence item. The second
// return is false when the blocklist rejects the content; that is a
// normal degradation, not an error.
func (p *ErgoMind) Process(ctx context.Context, rawText, category string) (domain.IntelligenceItem, bool) {
	if category == "" {
		category = "general"
	}

	if violations := blocklist.Check(rawText); len(violations) > 0 {
		p.logger.Warn("dropping blocked forum content", "category", category, "violations", violations)
		return domain.IntelligenceItem{}, false
	}

	processed := cleanAndStructure(rawText)

	relevance := scoring.BaseRelevance(rawText) + p.profile.RelevanceBoost(rawText)
	if relevance > 1.0 {
		relevance = 1.0
	}

	sectors := identifySectors(rawText)
	item := domain.IntelligenceItem{
		RawContent:       rawText,
		ProcessedContent: processed,
		Category:         category,
		RelevanceScore:   relevance,
		AffectedSectors:  sectors,
		ActionItems:      forumActionItems(rawText, sectors),
		Confidence:       narrativeConfidence(processed),
		SourceType:       domain.SourceErgoMind,
	}

	if p.soWhat != nil {
		item.SoWhat = p.soWhat.SoWhat(ctx, item)
	} else {
		item.SoWhat = enrich.TemplateSoWhat(rawText, category)
	}

	return item, true
}

// cleanAndStructure normalizes whitespace and punctuation, sentence-cases
// the text, strips hedging sentences, and compresses long unstructured
// passages down to their key sentences.
func cleanAndStructure(text string) string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	text = strings.ReplaceAll(text, "..", ".")
	text = ellipsisRe.ReplaceAllString(text, "...")

	sentences := strings.Split(text, ". ")
	for i, s := range sentences {
		sentences[i] = upperFirst(s)
	}
	text = strings.Join(sentences, ". ")

	var kept []string
	for _, s := range strings.Split(text, ". ") {
		if !containsAny(strings.ToLower(s), hedgingPhrases) {
			kept = append(kept, s)
		}
	}
	if len(kept) > 0 {
		text = multiDotRe.ReplaceAllString(strings.Join(kept, ". "), ".")
	}

	if len(text) > 500 && !strings.Contains(text, "•") {
		sentences := strings.Split(text, ". ")
		if len(sentences) > 3 {
			if key := keySentences(sentences); len(key) > 0 {
				parts := make([]string, len(key))
				for i, s := range key {
					parts[i] = s + "."
				}
				return strings.Join(parts, " ")
			}
		}
	}

	return text
}

func upperFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func keySentences(sentences []string) []string {
	var key []string
	for _, s := range sentences {
		if containsAny(strings.ToLower(s), keySentenceIndicators) {
			key = append(key, s)
			if len(key) == 5 {
				break
			}
		}
	}
	return key
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// identifySectors scores each customer segment against the text:
// keyword hit 1 point, geopolitical trigger 2 points, qualifies at 2.
// Falls back to the general bucket for broadly relevant narratives.
func identifySectors(text string) []domain.Sector {
	lower := strings.ToLower(text)

	var affected []domain.Sector
	for _, sector := range domain.AllSectors() {
		profile, ok := domain.SectorProfiles[sector]
		if !ok {
			continue
		}

		score := 0
		for _, kw := range profile.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		for _, trigger := range profile.Triggers {
			if strings.Contains(lower, trigger) {
				score += 2
			}
		}

		if score >= 2 {
			affected = append(affected, sector)
		}
	}

	if len(affected) == 0 && scoring.BaseRelevance(text) > 0.5 {
		affected = append(affected, domain.SectorGeneral)
	}

	return affected
}

func forumActionItems(text string, sectors []domain.Sector) []string {
	lower := strings.ToLower(text)
	var actions []string

	if containsAny(lower, []string{"sanction", "restriction", "ban", "tariff"}) {
		actions = append(actions,
			"Review supplier exposure to affected regions and identify alternative sourcing",
			"Assess inventory levels for potentially impacted product categories")
	}

	if containsAny(lower, []string{"fuel", "oil price", "energy cost", "diesel"}) {
		actions = append(actions,
			"Update cost projections for energy-intensive product categories",
			"Review transportation and logistics cost assumptions")
	}

	if containsAny(lower, []string{"regulation", "compliance", "osha", "epa"}) {
		actions = append(actions,
			"Review safety and compliance product inventory for regulatory changes",
			"Prepare customer communications on new compliance requirements")
	}

	if containsAny(lower, []string{"safety", "security", "risk"}) {
		actions = append(actions,
			"Assess demand impact for safety equipment and PPE categories",
			"Brief sales teams on safety-related product opportunities")
	}

	for _, s := range sectors {
		switch s {
		case domain.SectorManufacturing:
			switch {
			case strings.Contains(lower, "reshoring") || strings.Contains(lower, "nearshoring"):
				actions = append(actions, "Identify expansion opportunities with manufacturers relocating production")
			case strings.Contains(lower, "automation") || strings.Contains(lower, "robotics"):
				actions = append(actions, "Review industrial automation product portfolio for growth opportunities")
			default:
				actions = append(actions, "Monitor manufacturing PMI for demand signals in industrial supplies")
			}
		case domain.SectorGovernment:
			switch {
			case strings.Contains(lower, "defense") || strings.Contains(lower, "military"):
				actions = append(actions, "Assess impact on $400M defense segment and military base operations")
			case strings.Contains(lower, "infrastructure") || strings.Contains(lower, "federal"):
				actions = append(actions, "Evaluate opportunities from federal infrastructure spending")
			default:
				actions = append(actions, "Monitor government spending and GSA contract implications")
			}
		case domain.SectorCommercial:
			switch {
			case strings.Contains(lower, "office") || strings.Contains(lower, "return"):
				actions = append(actions, "Track office occupancy trends for commercial maintenance demand")
			case strings.Contains(lower, "healthcare") || strings.Contains(lower, "hospital"):
				actions = append(actions, "Assess healthcare facility expansion for maintenance supply demand")
			default:
				actions = append(actions, "Monitor commercial real estate activity for facility maintenance demand")
			}
		case domain.SectorContractors:
			switch {
			case strings.Contains(lower, "infrastructure") || strings.Contains(lower, "spending"):
				actions = append(actions, "Position for increased demand from infrastructure project activity")
			case strings.Contains(lower, "materials") || strings.Contains(lower, "steel") || strings.Contains(lower, "lumber"):
				actions = append(actions, "Review fastener and building supply inventory for price/availability changes")
			default:
				actions = append(actions, "Track construction permits and housing starts for regional demand planning")
			}
		}
	}

	seen := map[string]bool{}
	var unique []string
	for _, a := range actions {
		if !seen[a] {
			seen[a] = true
			unique = append(unique, a)
		}
	}
	if len(unique) > 3 {
		unique = unique[:3]
	}
	return unique
}

// narrativeConfidence is a heuristic over the processed text: structure
// markers, concrete numbers, and a length sweet spot all add certainty.
func narrativeConfidence(processed string) float64 {
	confidence := 0.7

	if strings.Contains(processed, "•") || strings.Contains(processed, "\n") {
		confidence += 0.1
	}

	if strings.ContainsAny(processed, "0123456789") {
		confidence += 0.1
	}

	switch n := len(processed); {
	case n > 100 && n < 1000:
		confidence += 0.1
	case n >= 1000:
		confidence += 0.05
	}

	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

package processor

import (
	"strings"

	"MROIntel/internal/domain"
)

const dedupPrefixLength = 100

// DedupNarratives drops items whose processed content starts with the
// same case-folded 100-character prefix as an earlier item. First seen
// wins; the operation is idempotent.
func DedupNarratives(items []domain.IntelligenceItem) []domain.IntelligenceItem {
	seen := map[string]bool{}
	var unique []domain.IntelligenceItem

	for _, item := range items {
		key := narrativeKey(item.ProcessedContent)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
	}

	return unique
}

func narrativeKey(content string) string {
	runes := []rune(strings.ToLower(content))
	if len(runes) > dedupPrefixLength {
		runes = runes[:dedupPrefixLength]
	}
	return string(runes)
}

// DedupInterventions keeps the first item per intervention ID. Items
// without a usable ID are dropped as malformed.
func DedupInterventions(items []domain.IntelligenceItem) []domain.IntelligenceItem {
	seen := map[int]bool{}
	var unique []domain.IntelligenceItem

	for _, item := range items {
		if item.Trade == nil || item.Trade.InterventionID == 0 {
			continue
		}
		if seen[item.Trade.InterventionID] {
			continue
		}
		seen[item.Trade.InterventionID] = true
		unique = append(unique, item)
	}

	return unique
}

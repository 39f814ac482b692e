package processor

import (
	"regexp"
	"strings"
)

const (
	minSectionLength   = 100
	minParagraphLength = 150
)

var numberedItemRe = regexp.MustCompile(`\n\d+\.`)

// SplitResponse breaks a long forum response into independently
// processable sections. It tries numbered lists, then dash bullets,
// then paragraph breaks; short fragments are dropped. A response with
// no recognizable structure is returned whole.
func SplitResponse(text string) []string {
	if numberedItemRe.MatchString(text) {
		return filterSections(numberedItemRe.Split(text, -1), minSectionLength)
	}

	if strings.Count(text, "\n- ") >= 2 {
		return filterSections(strings.Split(text, "\n- "), minSectionLength)
	}

	if strings.Count(text, "\n\n") >= 2 {
		return filterSections(strings.Split(text, "\n\n"), minParagraphLength)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return []string{trimmed}
}

func filterSections(parts []string, minLen int) []string {
	var sections []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) > minLen {
			sections = append(sections, part)
		}
	}
	return sections
}

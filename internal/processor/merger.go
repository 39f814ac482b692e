package processor

import (
	"sort"
	"strings"
	"time"

	"MROIntel/internal/domain"
	"MROIntel/internal/scoring"
)

// Trade interventions older than this are dropped before merging.
const maxInterventionAge = 180 * 24 * time.Hour

const emptySectorSummary = "No significant developments identified this period."

// Merger combines per-source item lists into one ranked report view.
type Merger struct {
	now func() time.Time
}

// NewMerger returns a merger using wall-clock time for freshness checks.
func NewMerger() *Merger {
	return &Merger{now: time.Now}
}

// Merge concatenates the given lists and stable-sorts by relevance
// descending. No item is dropped here; ties keep their input order.
func (m *Merger) Merge(lists ...[]domain.IntelligenceItem) []domain.IntelligenceItem {
	var merged []domain.IntelligenceItem
	for _, list := range lists {
		merged = append(merged, list...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})

	return merged
}

// FilterStaleInterventions drops trade items implemented more than 180
// days ago. Items whose date cannot be parsed are kept.
func (m *Merger) FilterStaleInterventions(items []domain.IntelligenceItem) []domain.IntelligenceItem {
	cutoff := m.now().Add(-maxInterventionAge)

	var fresh []domain.IntelligenceItem
	for _, item := range items {
		if item.Trade != nil {
			if implDate, ok := ParseInterventionDate(item.Trade.DateImplemented); ok && implDate.Before(cutoff) {
				continue
			}
		}
		fresh = append(fresh, item)
	}
	return fresh
}

// OrganizeBySector fans merged items out into per-sector views. An item
// lands in every sector it is tagged with; general-tagged items appear
// in every sector. Buckets are sorted by relevance descending.
func (m *Merger) OrganizeBySector(items []domain.IntelligenceItem) map[domain.Sector]domain.SectorIntelligence {
	organized := make(map[domain.Sector]domain.SectorIntelligence, len(domain.AllSectors()))

	for _, sector := range domain.AllSectors() {
		var bucket []domain.IntelligenceItem
		for _, item := range items {
			if item.HasSector(sector) || item.HasSector(domain.SectorGeneral) {
				bucket = append(bucket, item)
			}
		}

		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].RelevanceScore > bucket[j].RelevanceScore
		})

		organized[sector] = domain.SectorIntelligence{
			Sector:           sector,
			Items:            bucket,
			Summary:          sectorSummary(bucket),
			KeyRisks:         extractStatements(bucket, scoring.RiskKeywords),
			KeyOpportunities: extractStatements(bucket, scoring.OpportunityKeywords),
		}
	}

	return organized
}

// sectorSummary joins the so-whats of the top three items.
func sectorSummary(items []domain.IntelligenceItem) string {
	var statements []string
	for _, item := range items {
		if item.SoWhat != "" {
			statements = append(statements, item.SoWhat)
			if len(statements) == 3 {
				break
			}
		}
	}

	if len(statements) == 0 {
		return emptySectorSummary
	}
	return strings.Join(statements, " ")
}

// extractStatements collects so-whats of items whose raw content hits
// the given keyword list, capped at 3 unique statements.
func extractStatements(items []domain.IntelligenceItem, keywords []string) []string {
	seen := map[string]bool{}
	var statements []string

	for _, item := range items {
		lower := strings.ToLower(item.RawContent)
		matched := false
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched || item.SoWhat == "" || seen[item.SoWhat] {
			continue
		}
		seen[item.SoWhat] = true
		statements = append(statements, item.SoWhat)
		if len(statements) == 3 {
			break
		}
	}

	return statements
}

package processor

import (
	"strings"
	"time"

	"MROIntel/internal/domain"
)

// GTA sector taxonomy keywords mapped to customer segments.
var gtaSectorKeywords = []struct {
	sector   domain.Sector
	keywords []string
}{
	{domain.SectorManufacturing, []string{
		"manufacturing", "industrial", "machinery", "equipment", "metal",
		"steel", "aluminum", "fabricated metal", "machine tools", "automation",
		"robotics", "automotive", "semiconductor", "electronic",
		"electrical equipment", "motors", "bearings", "pumps", "valves",
		"factory", "production",
	}},
	{domain.SectorGovernment, []string{
		"defense", "military", "government", "federal", "public sector",
		"procurement", "national security", "security", "strategic",
		"infrastructure", "public works",
	}},
	{domain.SectorCommercial, []string{
		"commercial real estate", "office", "retail", "hospitality", "hotel",
		"hospital", "healthcare", "facility", "property management",
		"building maintenance", "hvac", "lighting", "janitorial",
	}},
	{domain.SectorContractors, []string{
		"construction", "building", "infrastructure", "cement", "concrete",
		"steel", "lumber", "timber", "wood", "plumbing", "electrical",
		"housing", "contractor", "renovation", "trades",
	}},
}

var mroAdjacentSectors = []string{
	"industrial", "manufacturing", "machinery", "equipment", "steel", "metal",
	"construction", "building", "energy", "petroleum", "fuel",
	"transportation", "logistics", "agriculture", "farming",
}

// GTA turns trade interventions into intelligence items.
type GTA struct {
	now func() time.Time
}

// NewGTA returns a processor using wall-clock time for freshness decay.
func NewGTA() *GTA {
	return &GTA{now: time.Now}
}

// Process converts one intervention into an intelligence item.
func (p *GTA) Process(iv domain.TradeIntervention) domain.IntelligenceItem {
	category := iv.Category
	if category == "" {
		category = "trade_intervention"
	}

	confidence := 0.8
	if len(iv.Sources) > 0 {
		confidence = 0.9
	}

	return domain.IntelligenceItem{
		RawContent:       iv.Description,
		ProcessedContent: shortDescription(iv.Description, 400),
		Category:         category,
		RelevanceScore:   p.relevance(iv),
		SoWhat:           gtaSoWhat(iv),
		AffectedSectors:  gtaSectors(iv),
		ActionItems:      gtaActionItems(iv),
		Confidence:       confidence,
		Sources:          iv.Sources,
		SourceType:       domain.SourceGTA,
		Trade: &domain.TradeDetails{
			InterventionID:        iv.InterventionID,
			ImplementingCountries: iv.ImplementingCountries(),
			AffectedCountries:     iv.AffectedCountries(),
			DateAnnounced:         iv.DateAnnounced,
			DateImplemented:       iv.DateImplemented,
		},
	}
}

func shortDescription(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// relevance scores an intervention: base 0.5, evaluation severity,
// MRO-adjacency of affected sectors, then freshness decay. Stale items
// are only penalized when they are not MRO-relevant.
func (p *GTA) relevance(iv domain.TradeIntervention) float64 {
	score := 0.5

	switch iv.Evaluation {
	case "Harmful", "Red":
		score += 0.3
	case "Liberalising":
		score += 0.2
	}

	mroRelevant := isMROAdjacent(iv.AffectedSectors)
	if mroRelevant {
		score += 0.2
	}

	if implDate, ok := ParseInterventionDate(iv.DateImplemented); ok {
		daysOld := int(p.now().Sub(implDate).Hours() / 24)
		switch {
		case daysOld < 30:
			score += 0.3
		case daysOld < 60:
			score += 0.2
		case daysOld < 90:
			score += 0.1
		case daysOld < 180:
			// fresh enough, no adjustment
		case daysOld < 365:
			if !mroRelevant {
				score -= 0.1
			}
		default:
			if !mroRelevant {
				score -= 0.2
			}
		}
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

func isMROAdjacent(sectors []string) bool {
	joined := strings.ToLower(strings.Join(sectors, " "))
	for _, kw := range mroAdjacentSectors {
		if strings.Contains(joined, kw) {
			return true
		}
	}
	return false
}

// ParseInterventionDate handles the date formats the intervention feed
// emits. Timestamps are truncated to their date part first.
func ParseInterventionDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	trimmed := value
	if i := strings.IndexAny(trimmed, "T "); i > 0 {
		trimmed = trimmed[:i]
	}

	for _, layout := range []string{"2006-01-02", "02/01/2006", "01/02/2006"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func gtaSoWhat(iv domain.TradeIntervention) string {
	typeLower := strings.ToLower(iv.InterventionType)
	impl := iv.ImplementingCountries()
	affected := iv.AffectedCountries()

	switch {
	case strings.Contains(typeLower, "sanction") || strings.Contains(typeLower, "export"):
		if len(impl) > 0 {
			return "Trade restrictions from " + joinFirst(impl, 2) +
				" may disrupt industrial supply chains and require alternative sourcing strategies."
		}
		return "Export controls may affect availability and pricing of industrial components and equipment."

	case strings.Contains(typeLower, "tariff") || strings.Contains(typeLower, "import"):
		return "Tariff changes will affect import costs for industrial products - review pricing and inventory strategies for affected categories."

	case strings.Contains(typeLower, "capital"):
		if len(affected) > 0 {
			return "Capital controls in " + joinFirst(affected, 2) +
				" may affect supplier payments and cross-border procurement operations."
		}
		return "Financial restrictions may impact supplier relationships and international procurement."

	case strings.Contains(typeLower, "steel") || strings.Contains(typeLower, "metal"):
		return "Steel and metals trade restrictions directly impact manufacturing and construction supply costs - monitor for pricing adjustments."

	case strings.Contains(typeLower, "subsidy") || strings.Contains(typeLower, "grant"):
		return "Government support measures may shift competitive dynamics in affected industrial sectors."

	case strings.Contains(typeLower, "local content"):
		return "Local content requirements may affect sourcing strategies for products sold in or sourced from affected markets."
	}

	switch iv.Evaluation {
	case "Harmful":
		return "This trade barrier may increase costs or limit availability for industrial products in affected markets."
	case "Liberalising":
		return "This trade liberalization may reduce costs or improve availability for industrial products."
	}
	return "This trade policy change warrants monitoring for potential supply chain and pricing impacts."
}

func joinFirst(values []string, n int) string {
	if len(values) > n {
		values = values[:n]
	}
	return strings.Join(values, ", ")
}

func gtaSectors(iv domain.TradeIntervention) []domain.Sector {
	sectorText := strings.ToLower(strings.Join(iv.AffectedSectors, " "))

	var sectors []domain.Sector
	for _, entry := range gtaSectorKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(sectorText, kw) {
				sectors = append(sectors, entry.sector)
				break
			}
		}
	}

	if len(sectors) == 0 {
		sectors = append(sectors, domain.SectorGeneral)
	}
	return sectors
}

func gtaActionItems(iv domain.TradeIntervention) []string {
	typeLower := strings.ToLower(iv.InterventionType)
	sectors := gtaSectors(iv)

	var actions []string
	switch {
	case strings.Contains(typeLower, "sanction") || strings.Contains(typeLower, "export"):
		actions = append(actions,
			"Review supplier exposure to affected regions and identify alternative sources",
			"Assess inventory levels for products that may be affected by restrictions",
			"Update procurement compliance procedures for new requirements")
	case strings.Contains(typeLower, "tariff"):
		actions = append(actions,
			"Analyze cost impact on affected product categories and adjust pricing if needed",
			"Review supplier contracts for tariff pass-through clauses",
			"Evaluate alternative sourcing options to mitigate tariff exposure")
	case strings.Contains(typeLower, "capital"):
		actions = append(actions,
			"Review payment terms with suppliers in affected markets",
			"Assess currency and payment risk for ongoing contracts")
	case strings.Contains(typeLower, "steel") || strings.Contains(typeLower, "metal"):
		actions = append(actions,
			"Review pricing strategy for metal-intensive product categories",
			"Assess domestic sourcing alternatives for affected materials")
	}

	for _, s := range sectors {
		switch s {
		case domain.SectorManufacturing:
			actions = append(actions, "Brief manufacturing sector customers on potential supply chain impacts")
		case domain.SectorGovernment:
			actions = append(actions, "Assess impact on federal/defense procurement and GSA contracts")
		case domain.SectorCommercial:
			actions = append(actions, "Monitor building maintenance product availability and pricing")
		case domain.SectorContractors:
			actions = append(actions, "Monitor construction materials pricing for downstream effects")
		}
	}

	if len(actions) == 0 {
		actions = append(actions,
			"Monitor developments and prepare customer communications if needed",
			"Update market intelligence tracking for this intervention")
	}

	if len(actions) > 3 {
		actions = actions[:3]
	}
	return actions
}

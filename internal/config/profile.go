package config

import "strings"

// RegionBoost is one ordered geographic boost rule.
type RegionBoost struct {
	Region string
	Boost  float64
}

// SectorPriority weights an industry mention; priorities above 0.5 boost,
// below 0.5 penalize.
type SectorPriority struct {
	Sector   string
	Priority float64
}

// Profile captures the client's market focus: what boosts relevance, what
// disqualifies an item outright, and the floor for report inclusion.
// Region and sector tables are ordered; the first match wins.
type Profile struct {
	RegionBoosts        []RegionBoost
	SectorPriorities    []SectorPriority
	MustIncludeKeywords []string
	ExcludeKeywords     []string
	ExcludeRegions      []string
	MinRelevance        float64
	LookbackMonths      int
	ForecastHorizon     string
}

const (
	profileBoostCap        = 0.5
	keywordBoostPerMatch   = 0.05
	keywordBoostCap        = 0.15
	sectorPriorityMidpoint = 0.5
	sectorPriorityScale    = 0.2
)

// DefaultProfile returns the US industrial-distributor profile used for
// report generation.
func DefaultProfile() Profile {
	return Profile{
		RegionBoosts: []RegionBoost{
			{Region: "US", Boost: 0.3},
			{Region: "USA", Boost: 0.3},
			{Region: "United States", Boost: 0.3},
			{Region: "domestic", Boost: 0.25},
			{Region: "America", Boost: 0.2},
			{Region: "USMCA", Boost: 0.2},
			{Region: "Canada", Boost: 0.1},
			{Region: "Mexico", Boost: 0.1},
			{Region: "North America", Boost: 0.15},
		},
		SectorPriorities: []SectorPriority{
			{Sector: "manufacturing", Priority: 1.0},
			{Sector: "industrial", Priority: 1.0},
			{Sector: "construction", Priority: 0.95},
			{Sector: "facilities", Priority: 0.9},
			{Sector: "energy", Priority: 0.85},
			{Sector: "utilities", Priority: 0.85},
			{Sector: "transportation", Priority: 0.8},
			{Sector: "logistics", Priority: 0.8},
			{Sector: "warehousing", Priority: 0.8},
			{Sector: "agriculture", Priority: 0.7},
			{Sector: "food processing", Priority: 0.7},
			{Sector: "government", Priority: 0.75},
			{Sector: "institutional", Priority: 0.75},
			{Sector: "healthcare facilities", Priority: 0.7},
			{Sector: "retail", Priority: 0.5},
			{Sector: "hospitality", Priority: 0.4},
			{Sector: "financial services", Priority: 0.3},
			{Sector: "technology", Priority: 0.4},
		},
		MustIncludeKeywords: []string{
			"US", "domestic", "manufacturing", "industrial", "MRO",
			"supply chain", "construction", "maintenance", "repair",
			"operations", "equipment", "facilities", "contractor",
		},
		ExcludeKeywords: []string{
			"aviation", "aerospace", "defense", "international expansion",
			"global footprint", "emerging markets", "asia pacific",
			"EMEA", "africa",
		},
		ExcludeRegions: []string{
			"Europe", "EU", "Asia Pacific", "Middle East", "Africa",
			"Latin America", "APAC", "EMEA",
		},
		MinRelevance:    0.6,
		LookbackMonths:  3,
		ForecastHorizon: "90 days",
	}
}

// RelevanceBoost returns the additive score adjustment for text matching
// the client's geography, priority sectors, and core keywords. Capped at
// 0.5; one region and one sector rule apply at most.
func (p Profile) RelevanceBoost(text string) float64 {
	lower := strings.ToLower(text)
	boost := 0.0

	for _, rb := range p.RegionBoosts {
		if strings.Contains(lower, strings.ToLower(rb.Region)) {
			boost += rb.Boost
			break
		}
	}

	for _, sp := range p.SectorPriorities {
		if strings.Contains(lower, strings.ToLower(sp.Sector)) {
			boost += (sp.Priority - sectorPriorityMidpoint) * sectorPriorityScale
			break
		}
	}

	matches := 0
	for _, kw := range p.MustIncludeKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matches++
		}
	}
	kwBoost := float64(matches) * keywordBoostPerMatch
	if kwBoost > keywordBoostCap {
		kwBoost = keywordBoostCap
	}
	boost += kwBoost

	if boost > profileBoostCap {
		return profileBoostCap
	}
	return boost
}

// ShouldExclude reports whether text is outside the client's market:
// any exclude keyword, or an excluded region mentioned at least twice.
func (p Profile) ShouldExclude(text string) bool {
	lower := strings.ToLower(text)

	for _, kw := range p.ExcludeKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}

	for _, region := range p.ExcludeRegions {
		if strings.Count(lower, strings.ToLower(region)) >= 2 {
			return true
		}
	}

	return false
}

package domain

// Sector identifies a customer segment used to slice report intelligence.
type Sector string

const (
	SectorManufacturing Sector = "manufacturing"
	SectorGovernment    Sector = "government"
	SectorCommercial    Sector = "commercial"
	SectorContractors   Sector = "contractors"
	SectorGeneral       Sector = "general"
)

// AllSectors lists every sector in report order, cross-sector last.
func AllSectors() []Sector {
	return []Sector{
		SectorManufacturing,
		SectorGovernment,
		SectorCommercial,
		SectorContractors,
		SectorGeneral,
	}
}

// DisplayName returns the human-readable section title for reports.
func (s Sector) DisplayName() string {
	switch s {
	case SectorManufacturing:
		return "Manufacturing"
	case SectorGovernment:
		return "Government"
	case SectorCommercial:
		return "Commercial Facilities"
	case SectorContractors:
		return "Contractors"
	case SectorGeneral:
		return "Cross-Sector"
	}
	return string(s)
}

// SectorProfile carries the keyword and trigger vocabulary used to map
// free-text intelligence onto a customer segment. Keywords count single,
// geopolitical triggers count double during identification.
type SectorProfile struct {
	Keywords []string
	Triggers []string
}

// SectorProfiles holds the segment vocabulary for every non-general sector.
var SectorProfiles = map[Sector]SectorProfile{
	SectorManufacturing: {
		Keywords: []string{
			"industrial production", "factory output", "machinery", "equipment",
			"automation", "robotics", "manufacturing", "assembly", "fabrication",
			"production line", "oem", "plant operations", "industrial equipment",
			"machine tools", "process manufacturing", "discrete manufacturing",
			"lean manufacturing", "quality control", "maintenance", "downtime",
			"spare parts", "reshoring", "nearshoring", "capex", "capital expenditure",
		},
		Triggers: []string{
			"reshoring", "tariffs on industrial goods", "supply chain disruptions",
			"china manufacturing", "nearshoring", "usmca", "trade war",
			"export controls", "industrial policy", "made in america",
			"semiconductor shortage", "chip supply", "automation investments",
			"labor shortages", "factory construction", "steel tariffs",
			"aluminum tariffs", "china tariffs", "section 301", "section 232",
		},
	},
	SectorGovernment: {
		Keywords: []string{
			"federal", "government", "military", "defense", "dod",
			"department of defense", "gsa", "state government", "local government",
			"municipal", "public sector", "va", "veterans affairs",
			"federal procurement", "government contracts", "base maintenance",
			"facility management", "public works", "infrastructure",
			"government spending", "fiscal policy", "budget", "appropriations",
		},
		Triggers: []string{
			"defense budget", "federal spending", "infrastructure bill",
			"government shutdown", "continuing resolution", "procurement policy",
			"buy american", "domestic sourcing", "military modernization",
			"base realignment", "brac", "federal hiring", "government efficiency",
			"gsa schedule", "ndaa", "defense authorization",
		},
	},
	SectorCommercial: {
		Keywords: []string{
			"commercial real estate", "office building", "retail", "hospitality",
			"hotel", "hospital", "healthcare facility", "facility management",
			"building maintenance", "property management", "hvac", "lighting",
			"janitorial", "cleaning", "elevator", "fire safety", "security systems",
			"building automation", "energy efficiency", "tenant improvements",
			"commercial construction", "office occupancy", "return to office",
		},
		Triggers: []string{
			"interest rates", "commercial vacancy rates", "return to office",
			"remote work trends", "retail foot traffic", "hospitality recovery",
			"healthcare expansion", "building codes", "energy efficiency mandates",
			"ada compliance", "fire safety regulations", "indoor air quality",
			"esg requirements",
		},
	},
	SectorContractors: {
		Keywords: []string{
			"contractor", "construction", "electrical contractor",
			"plumbing contractor", "hvac contractor", "general contractor",
			"subcontractor", "trades", "skilled trades", "electrician", "plumber",
			"building", "infrastructure", "renovation", "remodel",
			"new construction", "commercial construction", "residential construction",
			"industrial construction", "housing starts", "building permits",
			"construction spending", "project pipeline",
		},
		Triggers: []string{
			"interest rates", "housing starts", "building permits",
			"construction spending", "infrastructure bill", "materials costs",
			"steel prices", "lumber prices", "labor availability",
			"immigration policy", "skilled trades shortage", "prevailing wage",
			"union labor", "building codes", "zoning regulations",
		},
	},
}

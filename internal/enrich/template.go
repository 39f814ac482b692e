package enrich

import "strings"

// TemplateSoWhat produces a deterministic "so what" statement from the
// item's text and category. It is the fallback for every enrichment
// failure, so the same input always yields the same statement.
func TemplateSoWhat(text, category string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(category, "economic") || strings.Contains(lower, "inflation"):
		switch {
		case strings.Contains(lower, "inflation"):
			return "Rising input costs will pressure MRO product margins and may require pricing adjustments across industrial categories."
		case strings.Contains(lower, "interest rate"):
			return "Higher financing costs may delay equipment purchases, shifting demand toward maintenance and repair over replacement."
		case strings.Contains(lower, "gdp") || strings.Contains(lower, "growth"):
			return "Economic growth patterns suggest shifts in regional MRO demand - adjust inventory and sales coverage accordingly."
		default:
			return "Economic volatility affects industrial customer budgets - emphasize value and total cost of ownership messaging."
		}

	case strings.Contains(category, "geopolitical") || strings.Contains(lower, "sanctions") || strings.Contains(lower, "political"):
		switch {
		case strings.Contains(lower, "sanctions"):
			return "Sanctions may disrupt supply chains for certain product categories - identify alternative sourcing options."
		case strings.Contains(lower, "china") || strings.Contains(lower, "asia"):
			return "Asia-Pacific trade dynamics shifting - assess supplier concentration risk and diversification opportunities."
		case strings.Contains(lower, "russia") || strings.Contains(lower, "ukraine"):
			return "Ongoing conflict impacts energy and commodity markets - monitor downstream effects on industrial customer demand."
		case strings.Contains(lower, "tariff") || strings.Contains(lower, "trade"):
			return "Trade policy changes will affect import costs for key product categories - review pricing and sourcing strategies."
		default:
			return "Geopolitical developments warrant supply chain risk assessment and contingency planning."
		}

	case strings.Contains(category, "regulation") || strings.Contains(lower, "compliance"):
		switch {
		case strings.Contains(lower, "osha") || strings.Contains(lower, "safety"):
			return "New safety regulations create demand opportunities for compliant PPE and safety equipment."
		case strings.Contains(lower, "epa") || strings.Contains(lower, "environmental"):
			return "Environmental compliance requirements driving demand for sustainable products and waste management solutions."
		case strings.Contains(lower, "sustainability"):
			return "Sustainability mandates increasing customer interest in energy-efficient and eco-friendly MRO products."
		default:
			return "Regulatory changes may create new compliance product opportunities - assess portfolio alignment."
		}

	case strings.Contains(lower, "manufacturing") || strings.Contains(lower, "factory") || strings.Contains(lower, "production"):
		switch {
		case strings.Contains(lower, "reshoring") || strings.Contains(lower, "nearshoring"):
			return "Manufacturing reshoring creates growth opportunities - position for new facility outfitting and ongoing MRO needs."
		case strings.Contains(lower, "automation") || strings.Contains(lower, "robotics"):
			return "Automation investments shift maintenance needs - expand portfolio in industrial automation support products."
		case strings.Contains(lower, "downtime") || strings.Contains(lower, "maintenance"):
			return "Unplanned downtime concerns driving preventive maintenance investment - emphasize reliability solutions."
		default:
			return "Manufacturing activity trends signal MRO demand changes - align inventory with production forecasts."
		}

	case strings.Contains(lower, "construction") || strings.Contains(lower, "infrastructure") || strings.Contains(lower, "building"):
		switch {
		case strings.Contains(lower, "infrastructure") || strings.Contains(lower, "spending"):
			return "Infrastructure investment creates sustained demand for construction supplies and safety equipment."
		case strings.Contains(lower, "materials") || strings.Contains(lower, "steel") || strings.Contains(lower, "lumber"):
			return "Materials cost changes affect contractor budgets - position value alternatives and bulk purchasing options."
		case strings.Contains(lower, "housing") || strings.Contains(lower, "residential"):
			return "Residential construction trends impact contractor tool and supply demand - adjust regional coverage."
		default:
			return "Construction activity indicators suggest demand shifts - monitor permit data for regional planning."
		}

	case strings.Contains(lower, "energy") || strings.Contains(lower, "oil") || strings.Contains(lower, "drilling"):
		switch {
		case strings.Contains(lower, "drilling") || strings.Contains(lower, "exploration"):
			return "Oil and gas activity changes impact demand for pumps, valves, and specialty MRO products."
		case strings.Contains(lower, "renewable") || strings.Contains(lower, "solar") || strings.Contains(lower, "wind"):
			return "Clean energy growth creates new MRO product opportunities in solar, wind, and grid infrastructure."
		case strings.Contains(lower, "refinery") || strings.Contains(lower, "downstream"):
			return "Refinery and processing facility needs drive demand for safety equipment and specialized maintenance supplies."
		default:
			return "Energy sector dynamics affect regional MRO demand patterns - align with capex trends."
		}

	case strings.Contains(lower, "freight") || strings.Contains(lower, "trucking") || strings.Contains(lower, "logistics"):
		switch {
		case strings.Contains(lower, "fleet") || strings.Contains(lower, "trucking"):
			return "Fleet activity levels signal demand for vehicle maintenance products and shop supplies."
		case strings.Contains(lower, "warehouse") || strings.Contains(lower, "distribution"):
			return "Warehouse and fulfillment growth drives demand for material handling and packaging supplies."
		default:
			return "Logistics sector trends affect demand for fleet and facility maintenance products."
		}

	case strings.Contains(lower, "agriculture") || strings.Contains(lower, "farming") || strings.Contains(lower, "crop"):
		switch {
		case strings.Contains(lower, "commodity") || strings.Contains(lower, "prices"):
			return "Commodity price trends affect farm equipment investment and maintenance spending patterns."
		case strings.Contains(lower, "weather") || strings.Contains(lower, "drought"):
			return "Weather patterns impact agricultural equipment usage and create demand for irrigation products."
		default:
			return "Agricultural sector outlook suggests seasonal demand patterns - prepare for equipment maintenance cycles."
		}

	case strings.Contains(lower, "supply chain") || strings.Contains(lower, "shortage"):
		return "Supply chain disruptions require proactive inventory management and alternative supplier identification."

	case strings.Contains(category, "security"):
		return "Security concerns may increase demand for safety and access control products."

	case strings.Contains(category, "economic"):
		return "Economic indicators suggest industrial activity shifts - adjust demand forecasts accordingly."
	}

	return "Developments warrant monitoring for potential MRO demand implications across key sectors."
}

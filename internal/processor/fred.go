package processor

import (
	"fmt"
	"strconv"

	"MROIntel/internal/domain"
)

// FRED turns economic observations into intelligence items.
type FRED struct{}

// NewFRED returns the economic-series processor.
func NewFRED() *FRED {
	return &FRED{}
}

// Process converts one observation into an intelligence item.
func (p *FRED) Process(obs domain.EconObservation) domain.IntelligenceItem {
	return domain.IntelligenceItem{
		RawContent:       obs.SeriesID + ": " + strconv.FormatFloat(obs.Value, 'g', -1, 64),
		ProcessedContent: fmt.Sprintf("%s: %s as of %s", obs.SeriesName, formatSeriesValue(obs), obs.Date),
		Category:         "economic_" + obs.Category,
		RelevanceScore:   fredRelevance(obs),
		SoWhat:           fredSoWhat(obs),
		AffectedSectors:  fredSectors(obs.SeriesID),
		ActionItems:      fredActionItems(obs.SeriesID),
		Confidence:       0.95, // official statistics
		SourceType:       domain.SourceFRED,
		Econ: &domain.EconDetails{
			SeriesID:        obs.SeriesID,
			ObservationDate: obs.Date,
			Units:           obs.Units,
			Value:           obs.Value,
		},
	}
}

func formatSeriesValue(obs domain.EconObservation) string {
	v := obs.Value
	switch obs.SeriesID {
	case "DFF", "DGS10", "MORTGAGE30US", "FEDFUNDS", "UNRATE", "A191RL1Q225SBEA", "PCEPILFE", "T10Y2Y":
		return fmt.Sprintf("%.2f%%", v)
	case "DCOILWTICO":
		return fmt.Sprintf("$%.2f/barrel", v)
	case "INDPRO", "IPMAN", "PPIACO", "WPU101":
		return fmt.Sprintf("%.1f (Index)", v)
	case "HOUST", "PERMIT":
		return fmt.Sprintf("%.0fK units", v)
	case "TLRESCONS", "TLNRESCONS", "DGORDER", "CMRMTSPL":
		return fmt.Sprintf("$%.1fB", v/1000)
	case "GDP":
		if v > 1000 {
			return fmt.Sprintf("$%.2fT", v/1000)
		}
		return fmt.Sprintf("$%.1fB", v)
	case "PAYEMS", "MANEMP", "USCONS":
		return fmt.Sprintf("%.1fM workers", v/1000)
	case "BSCICP02USM460S":
		switch {
		case v > 0:
			return fmt.Sprintf("+%.2f (optimistic)", v)
		case v < 0:
			return fmt.Sprintf("%.2f (pessimistic)", v)
		default:
			return "0.00 (neutral)"
		}
	}
	return fmt.Sprintf("%.2f", v)
}

// fredRelevance tiers series by how directly they drive MRO demand and
// adds a small bonus for the most aligned categories.
func fredRelevance(obs domain.EconObservation) float64 {
	score := 0.5

	switch obs.SeriesID {
	case "INDPRO", "IPMAN", "DGORDER":
		score += 0.4
	case "TLNRESCONS", "HOUST", "PERMIT", "MANEMP", "USCONS":
		score += 0.35
	case "PPIACO", "WPU101", "DCOILWTICO", "PCEPILFE":
		score += 0.3
	case "FEDFUNDS", "DFF", "DGS10", "MORTGAGE30US", "UNRATE", "T10Y2Y":
		score += 0.25
	case "GDP", "A191RL1Q225SBEA", "PAYEMS", "CMRMTSPL":
		score += 0.2
	}

	switch obs.Category {
	case "industrial_activity", "construction":
		score += 0.1
	case "commodities":
		score += 0.05
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

func fredSoWhat(obs domain.EconObservation) string {
	v := obs.Value

	switch obs.SeriesID {
	case "INDPRO":
		return "Industrial Production Index directly reflects manufacturing activity - changes signal corresponding shifts in MRO consumables, spare parts, and maintenance supply demand."
	case "IPMAN":
		return "Manufacturing production levels drive core MRO demand for industrial supplies, safety equipment, and plant maintenance products."
	case "CMRMTSPL":
		return "Real manufacturing sales indicate overall industrial economic health and downstream demand for MRO products across the supply chain."
	case "DGORDER":
		if v > 0 {
			return "Rising durable goods orders signal increased manufacturing capital investment - expect growing demand for equipment maintenance and industrial supplies."
		}
		return "Declining durable goods orders suggest manufacturing pullback - monitor for softening MRO demand in equipment-intensive categories."
	case "TLRESCONS":
		return "Residential construction spending drives demand for contractor tools, fasteners, electrical supplies, and building materials."
	case "TLNRESCONS":
		return "Nonresidential construction spending is a major driver for heavy equipment, industrial supplies, and commercial building products."
	case "HOUST":
		switch {
		case v > 1400:
			return "Strong housing starts indicate robust residential construction activity - expect sustained demand for building supplies and contractor equipment."
		case v < 1000:
			return "Weak housing starts signal slowing residential construction - monitor for reduced demand in building materials and tools."
		default:
			return "Housing starts at moderate levels suggest steady but not accelerating construction supply demand."
		}
	case "PERMIT":
		return "Building permits are a leading indicator of future construction activity - rising permits signal upcoming demand for construction supplies and equipment."
	case "UNRATE":
		switch {
		case v < 4.0:
			return "Low unemployment indicates strong labor market and robust industrial activity, supporting MRO demand but potentially creating labor cost pressures."
		case v > 6.0:
			return "Elevated unemployment signals economic weakness - expect reduced manufacturing activity and potential softening of MRO demand."
		default:
			return "Unemployment at moderate levels reflects balanced labor market conditions with stable industrial demand."
		}
	case "PCEPILFE":
		if v > 3.0 {
			return "Elevated core inflation pressures industrial product costs and margins - review pricing strategies and supplier contracts."
		}
		return "Moderate inflation environment supports stable pricing for industrial products and MRO supplies."
	case "FEDFUNDS", "DFF":
		if v > 5.0 {
			return "Elevated interest rates increase equipment financing costs, potentially delaying capital equipment purchases and shifting spend toward maintenance and repair."
		}
		return "Lower interest rates support equipment investment decisions and working capital availability for industrial customers."
	case "T10Y2Y":
		switch {
		case v < 0:
			return "Inverted yield curve signals recession risk - prepare for potential reduction in industrial activity and MRO demand."
		case v < 0.5:
			return "Flat yield curve suggests economic uncertainty - monitor industrial customer spending patterns closely."
		default:
			return "Normal yield curve indicates stable economic outlook supporting continued industrial investment."
		}
	case "PPIACO":
		return "Producer Price Index reflects wholesale cost pressures across industrial products - rising PPI signals margin pressure and potential pricing adjustments."
	case "WPU101":
		return "Iron and steel prices directly impact manufacturing and construction costs - changes flow through to fasteners, tools, and metal products."
	case "DCOILWTICO":
		switch {
		case v > 90:
			return "High crude oil prices increase transportation and logistics costs, affecting product delivery and petroleum-based supplies."
		case v < 50:
			return "Low crude oil prices reduce energy and transportation costs, potentially improving margins on logistics-intensive products."
		default:
			return "Moderate crude oil prices support predictable operational and transportation cost structures."
		}
	case "DGS10":
		return "Long-term Treasury rates influence equipment financing decisions and construction project economics."
	case "MORTGAGE30US":
		if v > 7.0 {
			return "High mortgage rates constrain residential construction activity - expect softer demand for building supplies and residential contractor tools."
		}
		return "Moderate mortgage rates support residential construction activity and related MRO demand."
	case "A191RL1Q225SBEA":
		switch {
		case v > 2.5:
			return "Strong GDP growth indicates expanding industrial activity across all sectors - position for increased MRO demand."
		case v < 0:
			return "Economic contraction signals reduced industrial activity - monitor for softening demand across MRO categories."
		default:
			return "Moderate economic growth supports steady industrial demand patterns."
		}
	case "GDP":
		return "Overall GDP levels reflect total economic activity and aggregate demand for industrial products and services."
	case "PAYEMS":
		return "Total employment levels indicate overall economic health and consumer spending capacity."
	case "MANEMP":
		return "Manufacturing employment directly reflects sector health - rising employment signals growing MRO demand from expanding operations."
	case "USCONS":
		return "Construction employment indicates sector activity levels - rising construction jobs signal sustained demand for building supplies and tools."
	case "BSCICP02USM460S":
		switch {
		case v > 1:
			return "Strong manufacturing confidence suggests increasing capital investment and maintenance spending - expect rising MRO demand."
		case v < -1:
			return "Weak manufacturing confidence signals potential pullback in industrial investment - monitor for demand softening."
		default:
			return "Neutral manufacturing confidence indicates stable but cautious industrial spending environment."
		}
	}

	return "Economic indicator warrants monitoring for potential MRO demand implications."
}

func fredSectors(seriesID string) []domain.Sector {
	switch seriesID {
	case "INDPRO", "IPMAN", "DGORDER", "CMRMTSPL", "MANEMP", "BSCICP02USM460S":
		return []domain.Sector{domain.SectorManufacturing, domain.SectorGeneral}
	case "TLRESCONS", "TLNRESCONS", "HOUST", "PERMIT", "MORTGAGE30US", "USCONS":
		return []domain.Sector{domain.SectorContractors, domain.SectorGeneral}
	case "UNRATE", "PAYEMS":
		return []domain.Sector{domain.SectorManufacturing, domain.SectorContractors, domain.SectorGeneral}
	case "DFF", "DGS10", "FEDFUNDS":
		return []domain.Sector{domain.SectorContractors, domain.SectorManufacturing, domain.SectorGeneral}
	case "DCOILWTICO", "PPIACO", "WPU101", "PCU3311133111", "WPU102501", "PALUMUSDM":
		return []domain.Sector{domain.SectorManufacturing, domain.SectorContractors, domain.SectorGeneral}
	case "FGEXPND", "FDEFX":
		return []domain.Sector{domain.SectorGovernment, domain.SectorGeneral}
	case "PCEPILFE":
		return []domain.Sector{domain.SectorGeneral, domain.SectorManufacturing}
	case "T10Y2Y":
		return []domain.Sector{domain.SectorGeneral}
	case "GDP", "A191RL1Q225SBEA":
		return []domain.Sector{domain.SectorGeneral, domain.SectorManufacturing, domain.SectorContractors}
	}
	return []domain.Sector{domain.SectorGeneral}
}

func fredActionItems(seriesID string) []string {
	var actions []string

	switch seriesID {
	case "INDPRO", "IPMAN":
		actions = append(actions,
			"Monitor industrial production trends for MRO demand signals",
			"Update demand forecasts based on manufacturing activity",
			"Review inventory levels in manufacturing-related categories")
	case "DGORDER":
		actions = append(actions,
			"Track durable goods orders as leading indicator of equipment maintenance demand",
			"Assess capital equipment product positioning based on order trends")
	case "CMRMTSPL":
		actions = append(actions,
			"Monitor manufacturing sales for overall industrial demand trends")
	case "TLRESCONS", "TLNRESCONS":
		actions = append(actions,
			"Adjust construction supplies inventory based on spending trends",
			"Review contractor account activity in affected regions")
	case "HOUST", "PERMIT":
		actions = append(actions,
			"Use permits and starts data to forecast construction supply demand",
			"Position inventory for anticipated construction activity")
	case "DFF", "DGS10", "FEDFUNDS":
		actions = append(actions,
			"Assess impact of financing costs on equipment purchase decisions",
			"Monitor customer capex plans for rate sensitivity",
			"Track construction project financing impacts")
	case "MORTGAGE30US":
		actions = append(actions,
			"Monitor residential construction activity based on mortgage trends",
			"Adjust building supplies forecasts for housing market changes")
	case "DCOILWTICO":
		actions = append(actions,
			"Review transportation and logistics cost assumptions",
			"Monitor petroleum-based product pricing")
	case "PPIACO", "WPU101":
		actions = append(actions,
			"Review pricing strategy based on input cost trends",
			"Assess supplier cost pass-through impacts")
	case "PCEPILFE":
		actions = append(actions,
			"Review pricing strategy for inflation environment",
			"Assess impact on product margins")
	case "UNRATE", "PAYEMS":
		actions = append(actions,
			"Monitor labor market for industrial staffing trends",
			"Assess impact on customer spending patterns")
	case "MANEMP":
		actions = append(actions,
			"Track manufacturing employment as demand indicator",
			"Adjust manufacturing sector coverage strategy")
	case "USCONS":
		actions = append(actions,
			"Monitor construction employment for sector activity",
			"Review construction account coverage strategy")
	case "T10Y2Y":
		actions = append(actions,
			"Monitor yield curve for economic outlook signals",
			"Prepare contingency plans for potential economic shifts")
	case "GDP", "A191RL1Q225SBEA":
		actions = append(actions,
			"Adjust demand forecasts based on economic growth trends",
			"Review capacity planning for projected activity levels")
	case "BSCICP02USM460S":
		actions = append(actions,
			"Use manufacturing confidence as leading demand indicator",
			"Adjust sales strategy based on customer sentiment trends")
	}

	if len(actions) == 0 {
		actions = append(actions,
			"Monitor economic indicator for operational impacts",
			"Brief relevant sectors on trend implications")
	}

	if len(actions) > 3 {
		actions = actions[:3]
	}
	return actions
}

package domain

import "time"

// SourceType names the feed an intelligence item came from.
type SourceType string

const (
	SourceErgoMind SourceType = "ergomind"
	SourceGTA      SourceType = "gta"
	SourceFRED     SourceType = "fred"
)

// SourceRef points at supporting material cited by a source response.
type SourceRef struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// TradeDetails carries the fields only trade-intervention items have.
type TradeDetails struct {
	InterventionID        int      `json:"intervention_id"`
	ImplementingCountries []string `json:"implementing_countries,omitempty"`
	AffectedCountries     []string `json:"affected_countries,omitempty"`
	DateAnnounced         string   `json:"date_announced,omitempty"`
	DateImplemented       string   `json:"date_implemented,omitempty"`
}

// EconDetails carries the fields only economic-observation items have.
type EconDetails struct {
	SeriesID        string  `json:"series_id"`
	ObservationDate string  `json:"observation_date"`
	Units           string  `json:"units,omitempty"`
	Value           float64 `json:"value"`
}

// IntelligenceItem is the normalized record every source processor emits.
// Exactly one of Trade/Econ is set, and only for gta/fred items.
type IntelligenceItem struct {
	RawContent       string        `json:"raw_content"`
	ProcessedContent string        `json:"processed_content"`
	Category         string        `json:"category"`
	RelevanceScore   float64       `json:"relevance_score"`
	Confidence       float64       `json:"confidence"`
	SoWhat           string        `json:"so_what_statement"`
	AffectedSectors  []Sector      `json:"affected_sectors"`
	ActionItems      []string      `json:"action_items,omitempty"`
	SourceType       SourceType    `json:"source_type"`
	Sources          []SourceRef   `json:"sources,omitempty"`
	Trade            *TradeDetails `json:"trade,omitempty"`
	Econ             *EconDetails  `json:"econ,omitempty"`
}

// HasSector reports whether the item is tagged with the given sector.
func (it IntelligenceItem) HasSector(s Sector) bool {
	for _, have := range it.AffectedSectors {
		if have == s {
			return true
		}
	}
	return false
}

// SectorIntelligence is one sector's slice of a report.
type SectorIntelligence struct {
	Sector           Sector             `json:"sector"`
	Items            []IntelligenceItem `json:"items"`
	Summary          string             `json:"summary"`
	KeyRisks         []string           `json:"key_risks,omitempty"`
	KeyOpportunities []string           `json:"key_opportunities,omitempty"`
}

// Report is the merged, partitioned output of one pipeline run.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Items       []IntelligenceItem
	Sectors     map[Sector]SectorIntelligence
}

// RunRecord summarizes one pipeline run for archival and the digest.
type RunRecord struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	ReportPath   string
	ForumItems   int
	TradeItems   int
	EconItems    int
	SectorCounts map[Sector]int
	SourceStatus map[SourceType]string
	AIRequests   int
	AIFailures   int
	AICostUSD    float64
}

const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

package domain

import "strings"

// ForumResponse is one raw answer from the research forum, before
// sectioning and processing.
type ForumResponse struct {
	Category   string
	Query      string
	Response   string
	Success    bool
	Confidence float64
	Sources    []SourceRef
	Error      string
}

// Jurisdiction is a country entry on a trade intervention.
type Jurisdiction struct {
	Name string `json:"name"`
}

// TradeIntervention is one raw record from the trade-intervention database.
type TradeIntervention struct {
	Category         string
	InterventionID   int
	Title            string
	Description      string
	Evaluation       string
	Implementing     []Jurisdiction
	Affected         []Jurisdiction
	InterventionType string
	MASTChapter      string
	AffectedSectors  []string
	DateAnnounced    string
	DateImplemented  string
	DateRemoved      string
	InForce          bool
	URL              string
	Sources          []SourceRef
}

// ImplementingCountries flattens implementing jurisdictions to names.
func (iv TradeIntervention) ImplementingCountries() []string {
	return jurisdictionNames(iv.Implementing)
}

// AffectedCountries flattens affected jurisdictions to names.
func (iv TradeIntervention) AffectedCountries() []string {
	return jurisdictionNames(iv.Affected)
}

func jurisdictionNames(js []Jurisdiction) []string {
	names := make([]string, 0, len(js))
	for _, j := range js {
		if strings.TrimSpace(j.Name) != "" {
			names = append(names, j.Name)
		}
	}
	return names
}

// EconObservation is the latest value of one economic series.
type EconObservation struct {
	Category   string
	SeriesID   string
	SeriesName string
	Date       string
	Units      string
	Value      float64
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"MROIntel/internal/config"
	"MROIntel/internal/domain"
)

type stubForum struct {
	responses []domain.ForumResponse
	err       error
	calls     int
}

func (s *stubForum) Gather(context.Context) ([]domain.ForumResponse, error) {
	s.calls++
	return s.responses, s.err
}

type stubTrade struct {
	trades []domain.TradeIntervention
	err    error
}

func (s *stubTrade) Gather(context.Context) ([]domain.TradeIntervention, error) {
	return s.trades, s.err
}

type stubEcon struct {
	observations []domain.EconObservation
	err          error
}

func (s *stubEcon) Gather(context.Context) ([]domain.EconObservation, error) {
	return s.observations, s.err
}

type stubCache struct {
	forum []domain.ForumResponse
	sets  []string
}

func (c *stubCache) Get(_ context.Context, source string, _ map[string]any, out any) bool {
	if source != string(domain.SourceErgoMind) || c.forum == nil {
		return false
	}
	dst, ok := out.(*[]domain.ForumResponse)
	if !ok {
		return false
	}
	*dst = c.forum
	return true
}

func (c *stubCache) Set(_ context.Context, source string, _ map[string]any, _ any) {
	c.sets = append(c.sets, source)
}

type stubRepository struct {
	record domain.RunRecord
	items  []domain.IntelligenceItem
	saved  bool
}

func (r *stubRepository) SaveRun(_ context.Context, run domain.RunRecord, items []domain.IntelligenceItem) error {
	r.record = run
	r.items = items
	r.saved = true
	return nil
}

type stubRenderer struct {
	path string
	err  error
}

func (r *stubRenderer) Render(context.Context, domain.Report) (string, error) {
	return r.path, r.err
}

type stubNotifier struct {
	digest string
}

func (n *stubNotifier) PublishDigest(_ context.Context, digest string) error {
	n.digest = digest
	return nil
}

func forumNarrative() domain.ForumResponse {
	return domain.ForumResponse{
		Category:   "tariffs_mro_impact",
		Response:   "New steel tariffs will increase industrial equipment costs for US manufacturing. Supply chain disruption risk is growing for factory production lines.",
		Success:    true,
		Confidence: 0.8,
	}
}

func freshIntervention() domain.TradeIntervention {
	return domain.TradeIntervention{
		Category:         "tariffs_trade_policy",
		InterventionID:   42,
		InterventionType: "Import tariff",
		Evaluation:       "Harmful",
		Description:      "Import tariff implemented by United States of America affecting industrial manufacturing imports.",
		AffectedSectors:  []string{"manufacturing"},
		DateImplemented:  time.Now().AddDate(0, 0, -10).Format("2006-01-02"),
	}
}

func TestPipelineRunCollectsAllSources(t *testing.T) {
	t.Parallel()

	repo := &stubRepository{}
	notifier := &stubNotifier{}

	p := NewPipeline(PipelineDeps{
		Forum:      &stubForum{responses: []domain.ForumResponse{forumNarrative()}},
		Trade:      &stubTrade{trades: []domain.TradeIntervention{freshIntervention()}},
		Econ:       &stubEcon{observations: []domain.EconObservation{{Category: "industrial_activity", SeriesID: "INDPRO", SeriesName: "Industrial Production Index", Value: 103.4, Units: "Index"}}},
		Repository: repo,
		Renderer:   &stubRenderer{path: "reports/mro-intel-20260801.docx"},
		Notifier:   notifier,
		Profile:    config.DefaultProfile(),
		Report:     config.ReportConfig{Title: "Test Report", MinRelevance: 0.3},
	})

	trigger := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	record, err := p.Run(context.Background(), trigger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ForumItems != 1 || record.TradeItems != 1 || record.EconItems != 1 {
		t.Fatalf("unexpected item counts: forum %d trade %d econ %d",
			record.ForumItems, record.TradeItems, record.EconItems)
	}
	for _, source := range []domain.SourceType{domain.SourceErgoMind, domain.SourceGTA, domain.SourceFRED} {
		if record.SourceStatus[source] != domain.RunStatusSuccess {
			t.Fatalf("source %s: expected success, got %s", source, record.SourceStatus[source])
		}
	}
	if record.ReportPath != "reports/mro-intel-20260801.docx" {
		t.Fatalf("unexpected report path: %q", record.ReportPath)
	}
	if !repo.saved || len(repo.items) != 3 {
		t.Fatalf("expected 3 archived items, saved=%v items=%d", repo.saved, len(repo.items))
	}
	if !strings.Contains(notifier.digest, "Report: reports/mro-intel-20260801.docx") {
		t.Fatalf("digest missing report path: %q", notifier.digest)
	}
	if record.FinishedAt.Before(record.StartedAt) {
		t.Fatalf("finished before started")
	}
}

func TestPipelineSourceFailureDegrades(t *testing.T) {
	t.Parallel()

	notifier := &stubNotifier{}

	p := NewPipeline(PipelineDeps{
		Forum:    &stubForum{responses: []domain.ForumResponse{forumNarrative()}},
		Trade:    &stubTrade{err: errors.New("api unavailable")},
		Notifier: notifier,
		Profile:  config.DefaultProfile(),
		Report:   config.ReportConfig{Title: "Test Report", MinRelevance: 0.3},
	})

	record, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("source failure must not abort the run: %v", err)
	}
	if record.SourceStatus[domain.SourceGTA] != domain.RunStatusFailed {
		t.Fatalf("expected failed status, got %s", record.SourceStatus[domain.SourceGTA])
	}
	if record.SourceStatus[domain.SourceErgoMind] != domain.RunStatusSuccess {
		t.Fatalf("healthy source flagged: %s", record.SourceStatus[domain.SourceErgoMind])
	}
	if !strings.Contains(notifier.digest, "WARNING: source "+string(domain.SourceGTA)+" failed") {
		t.Fatalf("digest missing failure warning: %q", notifier.digest)
	}
}

func TestPipelineCacheHitSkipsFetch(t *testing.T) {
	t.Parallel()

	forum := &stubForum{responses: []domain.ForumResponse{forumNarrative()}}
	cache := &stubCache{forum: []domain.ForumResponse{forumNarrative()}}

	p := NewPipeline(PipelineDeps{
		Forum:   forum,
		Cache:   cache,
		Profile: config.DefaultProfile(),
		Report:  config.ReportConfig{MinRelevance: 0.3},
	})

	record, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forum.calls != 0 {
		t.Fatalf("cache hit should skip the source, got %d calls", forum.calls)
	}
	if record.ForumItems != 1 {
		t.Fatalf("cached responses not processed: %d items", record.ForumItems)
	}
	for _, source := range cache.sets {
		if source == string(domain.SourceErgoMind) {
			t.Fatalf("cache hit must not be written back")
		}
	}
}

func TestPipelineMinRelevanceFilter(t *testing.T) {
	t.Parallel()

	// A non-harmful, non-adjacent intervention scores 0.8 with the zero
	// profile and must not survive a 0.9 floor.
	iv := domain.TradeIntervention{
		InterventionID:  7,
		Description:     "Export licensing change for financial services.",
		AffectedSectors: []string{"finance"},
		DateImplemented: time.Now().AddDate(0, 0, -10).Format("2006-01-02"),
	}

	p := NewPipeline(PipelineDeps{
		Trade:   &stubTrade{trades: []domain.TradeIntervention{iv}},
		Profile: config.Profile{},
		Report:  config.ReportConfig{MinRelevance: 0.9},
	})

	record, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.TradeItems != 0 {
		t.Fatalf("expected relevance floor to drop the item, got %d", record.TradeItems)
	}
}

func TestPipelineSkipsFailedForumResponses(t *testing.T) {
	t.Parallel()

	failed := domain.ForumResponse{Category: "pricing_strategy", Success: false, Error: "timeout"}
	empty := domain.ForumResponse{Category: "pricing_strategy", Success: true, Response: "   "}

	p := NewPipeline(PipelineDeps{
		Forum:   &stubForum{responses: []domain.ForumResponse{failed, empty}},
		Profile: config.DefaultProfile(),
		Report:  config.ReportConfig{MinRelevance: 0.3},
	})

	record, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ForumItems != 0 {
		t.Fatalf("failed responses must not yield items, got %d", record.ForumItems)
	}
}

func TestBuildDigestMessage(t *testing.T) {
	t.Parallel()

	record := domain.RunRecord{
		StartedAt:  time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC),
		ReportPath: "reports/mro-intel-20260801.docx",
		ForumItems: 4,
		TradeItems: 2,
		EconItems:  8,
		SectorCounts: map[domain.Sector]int{
			domain.SectorManufacturing: 3,
		},
		SourceStatus: map[domain.SourceType]string{
			domain.SourceErgoMind: domain.RunStatusFailed,
			domain.SourceGTA:      domain.RunStatusSuccess,
			domain.SourceFRED:     domain.RunStatusSuccess,
		},
		AIRequests: 5,
		AIFailures: 1,
		AICostUSD:  0.0213,
	}
	items := []domain.IntelligenceItem{
		{RelevanceScore: 0.92, SoWhat: "Review supplier exposure."},
	}

	digest := buildDigestMessage(record, items)

	for _, want := range []string{
		"MRO intelligence run 2026-08-01",
		"Items: forum 4, trade 2, econ 8",
		"WARNING: source " + string(domain.SourceErgoMind) + " failed",
		domain.SectorManufacturing.DisplayName() + ": 3",
		"- [0.92] Review supplier exposure.",
		"Report: reports/mro-intel-20260801.docx",
		"AI: 5 requests (1 failed), $0.0213",
	} {
		if !strings.Contains(digest, want) {
			t.Fatalf("digest missing %q:\n%s", want, digest)
		}
	}
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"MROIntel/internal/config"
	"MROIntel/internal/domain"
	"MROIntel/internal/enrich"
	"MROIntel/internal/ports"
	"MROIntel/internal/processor"
)

// Ingestion gates: forum sections pass on either moderate relevance or
// decent confidence; interventions need relevance alone. The stricter
// MinRelevance filter runs later, after boosting and dedup.
const (
	forumRelevanceGate  = 0.25
	forumConfidenceGate = 0.4
	tradeRelevanceGate  = 0.4
)

// UsageReporter exposes enrichment spend for the run record.
type UsageReporter interface {
	Usage() enrich.UsageSummary
}

// PipelineDeps wires all driven adapters into the report pipeline.
// Every collaborator except Profile and Report may be nil; the pipeline
// degrades instead of failing.
type PipelineDeps struct {
	Forum       ports.ForumSource
	Trade       ports.TradeSource
	Econ        ports.EconSource
	Cache       ports.ResponseCache
	Repository  ports.RunRepository
	Renderer    ports.ReportRenderer
	Notifier    ports.Notifier
	Enricher    processor.SoWhatWriter
	Usage       UsageReporter
	Profile     config.Profile
	Report      config.ReportConfig
	CacheParams map[string]any
	Logger      *slog.Logger
}

// Pipeline implements the report-generation workflow: gather three
// sources concurrently, process and filter each, merge, partition by
// sector, then render, archive, and notify.
type Pipeline struct {
	forum       ports.ForumSource
	trade       ports.TradeSource
	econ        ports.EconSource
	cache       ports.ResponseCache
	repository  ports.RunRepository
	renderer    ports.ReportRenderer
	notifier    ports.Notifier
	usage       UsageReporter
	profile     config.Profile
	report      config.ReportConfig
	cacheParams map[string]any
	logger      *slog.Logger

	ergomind *processor.ErgoMind
	gta      *processor.GTA
	fred     *processor.FRED
	merger   *processor.Merger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		forum:       deps.Forum,
		trade:       deps.Trade,
		econ:        deps.Econ,
		cache:       deps.Cache,
		repository:  deps.Repository,
		renderer:    deps.Renderer,
		notifier:    deps.Notifier,
		usage:       deps.Usage,
		profile:     deps.Profile,
		report:      deps.Report,
		cacheParams: deps.CacheParams,
		logger:      logger,
		ergomind:    processor.NewErgoMind(deps.Profile, deps.Enricher, logger.With("component", "ergomind-processor")),
		gta:         processor.NewGTA(),
		fred:        processor.NewFRED(),
		merger:      processor.NewMerger(),
	}
}

// Run executes one full report generation. Source failures degrade the
// run instead of aborting it; only context cancellation is returned as
// an error.
func (p *Pipeline) Run(ctx context.Context, trigger time.Time) (domain.RunRecord, error) {
	record := domain.RunRecord{
		StartedAt:    trigger,
		SectorCounts: map[domain.Sector]int{},
		SourceStatus: map[domain.SourceType]string{},
	}

	var (
		wg        sync.WaitGroup
		responses []domain.ForumResponse
		trades    []domain.TradeIntervention
		econObs   []domain.EconObservation
		forumOK   bool
		tradeOK   bool
		econOK    bool
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		responses, forumOK = p.gatherForum(ctx)
	}()
	go func() {
		defer wg.Done()
		trades, tradeOK = p.gatherTrade(ctx)
	}()
	go func() {
		defer wg.Done()
		econObs, econOK = p.gatherEcon(ctx)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return record, fmt.Errorf("pipeline canceled: %w", err)
	}

	record.SourceStatus[domain.SourceErgoMind] = statusOf(forumOK)
	record.SourceStatus[domain.SourceGTA] = statusOf(tradeOK)
	record.SourceStatus[domain.SourceFRED] = statusOf(econOK)

	forumItems := p.processForum(ctx, responses)
	tradeItems := p.processTrade(trades)
	econItems := p.processEcon(econObs)

	record.ForumItems = len(forumItems)
	record.TradeItems = len(tradeItems)
	record.EconItems = len(econItems)

	merged := p.merger.Merge(forumItems, tradeItems, econItems)
	sectors := p.merger.OrganizeBySector(merged)
	for sector, intel := range sectors {
		record.SectorCounts[sector] = len(intel.Items)
	}

	report := domain.Report{
		Title:       p.report.Title,
		GeneratedAt: trigger,
		Items:       merged,
		Sectors:     sectors,
	}

	if p.renderer != nil {
		path, err := p.renderer.Render(ctx, report)
		if err != nil {
			p.logger.Error("report rendering failed", "error", err)
		} else {
			record.ReportPath = path
		}
	}

	record.FinishedAt = time.Now()
	if p.usage != nil {
		summary := p.usage.Usage()
		record.AIRequests = summary.Requests
		record.AIFailures = summary.Failed
		record.AICostUSD = summary.CostUSD
	}

	if p.repository != nil {
		if err := p.repository.SaveRun(ctx, record, merged); err != nil {
			p.logger.Error("run archival failed", "error", err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.PublishDigest(ctx, buildDigestMessage(record, merged)); err != nil {
			p.logger.Error("digest notification failed", "error", err)
		}
	}

	return record, nil
}

// gatherForum fetches forum responses with a cache short-circuit. A nil
// source is an empty success; a fetch error is logged and flagged.
func (p *Pipeline) gatherForum(ctx context.Context) ([]domain.ForumResponse, bool) {
	name := string(domain.SourceErgoMind)

	var cached []domain.ForumResponse
	if p.cache != nil && p.cache.Get(ctx, name, p.cacheParams, &cached) {
		p.logger.Info("using cached source data", "source", name, "records", len(cached))
		return cached, true
	}

	if p.forum == nil {
		return nil, true
	}

	responses, err := p.forum.Gather(ctx)
	if err != nil {
		p.logger.Error("source fetch failed", "source", name, "error", err)
		return nil, false
	}

	if p.cache != nil && len(responses) > 0 {
		p.cache.Set(ctx, name, p.cacheParams, responses)
	}
	return responses, true
}

func (p *Pipeline) gatherTrade(ctx context.Context) ([]domain.TradeIntervention, bool) {
	name := string(domain.SourceGTA)

	var cached []domain.TradeIntervention
	if p.cache != nil && p.cache.Get(ctx, name, p.cacheParams, &cached) {
		p.logger.Info("using cached source data", "source", name, "records", len(cached))
		return cached, true
	}

	if p.trade == nil {
		return nil, true
	}

	trades, err := p.trade.Gather(ctx)
	if err != nil {
		p.logger.Error("source fetch failed", "source", name, "error", err)
		return nil, false
	}

	if p.cache != nil && len(trades) > 0 {
		p.cache.Set(ctx, name, p.cacheParams, trades)
	}
	return trades, true
}

func (p *Pipeline) gatherEcon(ctx context.Context) ([]domain.EconObservation, bool) {
	name := string(domain.SourceFRED)

	var cached []domain.EconObservation
	if p.cache != nil && p.cache.Get(ctx, name, p.cacheParams, &cached) {
		p.logger.Info("using cached source data", "source", name, "records", len(cached))
		return cached, true
	}

	if p.econ == nil {
		return nil, true
	}

	observations, err := p.econ.Gather(ctx)
	if err != nil {
		p.logger.Error("source fetch failed", "source", name, "error", err)
		return nil, false
	}

	if p.cache != nil && len(observations) > 0 {
		p.cache.Set(ctx, name, p.cacheParams, observations)
	}
	return observations, true
}

func statusOf(ok bool) string {
	if ok {
		return domain.RunStatusSuccess
	}
	return domain.RunStatusFailed
}

func (p *Pipeline) processForum(ctx context.Context, responses []domain.ForumResponse) []domain.IntelligenceItem {
	var items []domain.IntelligenceItem

	for _, resp := range responses {
		if !resp.Success || strings.TrimSpace(resp.Response) == "" {
			continue
		}

		for _, section := range processor.SplitResponse(resp.Response) {
			if p.profile.ShouldExclude(section) {
				continue
			}

			item, ok := p.ergomind.Process(ctx, section, resp.Category)
			if !ok {
				continue
			}
			item.Sources = resp.Sources

			if item.RelevanceScore > forumRelevanceGate || item.Confidence > forumConfidenceGate {
				items = append(items, item)
			}
		}
	}

	items = processor.DedupNarratives(items)
	items = p.finalFilter(items)
	return p.merger.Merge(items)
}

func (p *Pipeline) processTrade(trades []domain.TradeIntervention) []domain.IntelligenceItem {
	var items []domain.IntelligenceItem

	for _, iv := range trades {
		if p.profile.ShouldExclude(iv.Description) {
			continue
		}

		item := p.gta.Process(iv)
		boost := p.profile.RelevanceBoost(iv.Description + " " + item.SoWhat)
		item.RelevanceScore = capUnit(item.RelevanceScore + boost)

		if item.RelevanceScore > tradeRelevanceGate {
			items = append(items, item)
		}
	}

	items = processor.DedupInterventions(items)
	items = p.merger.FilterStaleInterventions(items)
	items = p.finalFilter(items)
	return p.merger.Merge(items)
}

// processEcon keeps every observation: official series carry no
// narrative to exclude and are pre-selected by configuration.
func (p *Pipeline) processEcon(observations []domain.EconObservation) []domain.IntelligenceItem {
	var items []domain.IntelligenceItem
	for _, obs := range observations {
		items = append(items, p.fred.Process(obs))
	}
	return items
}

// finalFilter enforces the configured relevance floor and re-checks
// exclusion against everything the item will surface in the report.
func (p *Pipeline) finalFilter(items []domain.IntelligenceItem) []domain.IntelligenceItem {
	minScore := p.report.MinRelevance

	var kept []domain.IntelligenceItem
	for _, item := range items {
		if item.RelevanceScore < minScore {
			continue
		}
		content := item.ProcessedContent + " " + item.SoWhat + " " + item.RawContent
		if p.profile.ShouldExclude(content) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func capUnit(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

func buildDigestMessage(record domain.RunRecord, items []domain.IntelligenceItem) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "MRO intelligence run %s\n", record.StartedAt.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Items: forum %d, trade %d, econ %d\n",
		record.ForumItems, record.TradeItems, record.EconItems)

	for _, source := range []domain.SourceType{domain.SourceErgoMind, domain.SourceGTA, domain.SourceFRED} {
		if record.SourceStatus[source] == domain.RunStatusFailed {
			fmt.Fprintf(&sb, "WARNING: source %s failed\n", source)
		}
	}

	for _, sector := range domain.AllSectors() {
		fmt.Fprintf(&sb, "%s: %d\n", sector.DisplayName(), record.SectorCounts[sector])
	}

	top := items
	if len(top) > 3 {
		top = top[:3]
	}
	for _, item := range top {
		fmt.Fprintf(&sb, "- [%.2f] %s\n", item.RelevanceScore, item.SoWhat)
	}

	if record.ReportPath != "" {
		fmt.Fprintf(&sb, "Report: %s\n", record.ReportPath)
	}
	if record.AIRequests > 0 {
		fmt.Fprintf(&sb, "AI: %d requests (%d failed), $%.4f\n",
			record.AIRequests, record.AIFailures, record.AICostUSD)
	}

	return sb.String()
}

package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"MROIntel/internal/config"
	"MROIntel/internal/enrich"
	"MROIntel/internal/infrastructure/cache"
	"MROIntel/internal/infrastructure/render"
	"MROIntel/internal/infrastructure/scheduler"
	"MROIntel/internal/infrastructure/sources"
	"MROIntel/internal/infrastructure/storage"
	"MROIntel/internal/infrastructure/telegram"
	"MROIntel/internal/logging"
	"MROIntel/internal/ports"
	"MROIntel/internal/usecase"
)

// Options toggle optional subsystems at startup.
type Options struct {
	NoCache bool
	NoAI    bool
}

// Application wires config to adapters, the pipeline, and scheduling.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	cache     *cache.RedisCache
	db        *sql.DB
}

// New builds a runnable application. Collaborators whose credentials
// are absent stay nil; the pipeline degrades around them.
func New(cfg config.Config, opts Options, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var responseCache *cache.RedisCache
	if !opts.NoCache {
		responseCache = cache.New(cfg.Cache, baseLogger.With("component", "cache"))
	}

	var db *sql.DB
	var repository ports.RunRepository
	if cfg.Database.DSN != "" {
		opened, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("run archive disabled", "error", err)
		} else {
			db = opened
			repository = storage.NewPostgresRepository(db)
		}
	}

	var forum ports.ForumSource
	if cfg.Sources.ErgoMind.APIKey != "" {
		forum = sources.NewErgoMindClient(cfg.Sources.ErgoMind, cfg.Report, baseLogger.With("component", "ergomind"))
	}
	var trade ports.TradeSource
	if cfg.Sources.GTA.APIKey != "" {
		trade = sources.NewGTAClient(cfg.Sources.GTA, baseLogger.With("component", "gta"))
	}
	var econ ports.EconSource
	if cfg.Sources.FRED.APIKey != "" {
		econ = sources.NewFREDClient(cfg.Sources.FRED, baseLogger.With("component", "fred"))
	}

	var generator *enrich.AnthropicGenerator
	var usage usecase.UsageReporter
	if cfg.AI.Enabled && cfg.AI.APIKey != "" && !opts.NoAI {
		generator = enrich.NewAnthropicGenerator(cfg.AI, baseLogger.With("component", "ai"))
		usage = generator
	}
	enricher := enrich.NewEnricher(generatorOrNil(generator), baseLogger.With("component", "enricher"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	var responsePort ports.ResponseCache
	if responseCache != nil {
		responsePort = responseCache
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Forum:      forum,
		Trade:      trade,
		Econ:       econ,
		Cache:      responsePort,
		Repository: repository,
		Renderer:   render.NewDocxRenderer(cfg.Report, baseLogger.With("component", "renderer")),
		Notifier:   notifier,
		Enricher:   enricher,
		Usage:      usage,
		Profile:    config.DefaultProfile(),
		Report:     cfg.Report,
		CacheParams: map[string]any{
			"gta_days_back":   cfg.Sources.GTA.DaysBack,
			"fred_days_back":  cfg.Sources.FRED.DaysBack,
			"lookback_months": cfg.Report.LookbackMonths,
			"min_relevance":   cfg.Report.MinRelevance,
		},
		Logger: baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline),
		cache:     responseCache,
		db:        db,
	}
}

// RunOnce executes a single report generation.
func (a *Application) RunOnce(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	record, err := a.pipeline.Run(ctx, now)
	if err != nil {
		return err
	}

	a.logger.Info("run complete",
		"report", record.ReportPath,
		"forum_items", record.ForumItems,
		"trade_items", record.TradeItems,
		"econ_items", record.EconItems)
	return nil
}

// Start begins scheduled report generation.
func (a *Application) Start(ctx context.Context) error {
	a.logger.Info("scheduler starting",
		"cron", a.cfg.Scheduler.CronExpression,
		"timezone", a.cfg.Scheduler.Timezone)
	return a.scheduler.Start(ctx)
}

// Stop tears down the scheduler and closes connections.
func (a *Application) Stop(ctx context.Context) error {
	err := a.scheduler.Stop(ctx)

	if a.cache != nil {
		if closeErr := a.cache.Close(); closeErr != nil {
			a.logger.Warn("cache close failed", "error", closeErr)
		}
	}
	if a.db != nil {
		if closeErr := a.db.Close(); closeErr != nil {
			a.logger.Warn("database close failed", "error", closeErr)
		}
	}

	return err
}

// generatorOrNil keeps a typed nil pointer out of the interface value.
func generatorOrNil(generator *enrich.AnthropicGenerator) enrich.Generator {
	if generator == nil {
		return nil
	}
	return generator
}

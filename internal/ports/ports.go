package ports

import (
	"context"
	"time"

	"MROIntel/internal/domain"
)

// ForumSource gathers narrative responses from the research forum.
type ForumSource interface {
	Gather(ctx context.Context) ([]domain.ForumResponse, error)
}

// TradeSource gathers recent trade interventions.
type TradeSource interface {
	Gather(ctx context.Context) ([]domain.TradeIntervention, error)
}

// EconSource gathers the latest economic series observations.
type EconSource interface {
	Gather(ctx context.Context) ([]domain.EconObservation, error)
}

// ResponseCache short-circuits source fetches within a run window.
// Get reports whether a cached value was decoded into out.
type ResponseCache interface {
	Get(ctx context.Context, source string, params map[string]any, out any) bool
	Set(ctx context.Context, source string, params map[string]any, value any)
}

// RunRepository archives completed runs and their item snapshots.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.RunRecord, items []domain.IntelligenceItem) error
}

// ReportRenderer writes the report document and returns its path.
type ReportRenderer interface {
	Render(ctx context.Context, report domain.Report) (string, error)
}

// Notifier streams run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when report generation executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

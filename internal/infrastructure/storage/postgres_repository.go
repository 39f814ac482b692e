package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"MROIntel/internal/domain"
	"MROIntel/internal/ports"
)

// PostgresRepository archives report runs and their item snapshots.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun writes the run summary row plus one snapshot row per item,
// all in one transaction.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.RunRecord, items []domain.IntelligenceItem) error {
	if r.db == nil {
		return nil
	}

	sourceStatus, err := json.Marshal(run.SourceStatus)
	if err != nil {
		return fmt.Errorf("encode source status: %w", err)
	}
	sectorCounts, err := json.Marshal(run.SectorCounts)
	if err != nil {
		return fmt.Errorf("encode sector counts: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run archive: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := r.builder.
		Insert("report_runs").
		Columns("started_at", "finished_at", "report_path",
			"forum_items", "trade_items", "econ_items",
			"source_status", "sector_counts",
			"ai_requests", "ai_failures", "ai_cost_usd").
		Values(run.StartedAt, run.FinishedAt, run.ReportPath,
			run.ForumItems, run.TradeItems, run.EconItems,
			sourceStatus, sectorCounts,
			run.AIRequests, run.AIFailures, run.AICostUSD).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}

	var runID int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&runID); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(items) > 0 {
		if err := r.insertItems(ctx, tx, runID, items); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run archive: %w", err)
	}
	return nil
}

func (r *PostgresRepository) insertItems(ctx context.Context, tx *sql.Tx, runID int64, items []domain.IntelligenceItem) error {
	insert := r.builder.
		Insert("report_items").
		Columns("run_id", "source_type", "category",
			"relevance_score", "confidence",
			"processed_content", "so_what",
			"sectors", "action_items")

	for _, item := range items {
		insert = insert.Values(runID, string(item.SourceType), item.Category,
			item.RelevanceScore, item.Confidence,
			item.ProcessedContent, item.SoWhat,
			pq.StringArray(sectorNames(item.AffectedSectors)),
			pq.StringArray(item.ActionItems))
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build item insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

func sectorNames(sectors []domain.Sector) []string {
	names := make([]string, 0, len(sectors))
	for _, sector := range sectors {
		names = append(names, string(sector))
	}
	return names
}

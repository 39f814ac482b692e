package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"MROIntel/internal/config"
	"MROIntel/internal/domain"
	"MROIntel/internal/ports"
)

// GTA evaluation codes: 1 = Red, 4 = Harmful.
var harmfulEvaluations = []int{1, 4}

// Intervention type codes used by the query catalog. Sanctions and
// export controls: export tariffs (47), import tariffs (18),
// anti-dumping (51), sanctions (52). Technology restrictions add local
// content requirements (28).
var (
	sanctionTypes    = []int{47, 18, 51, 52}
	restrictionTypes = []int{28, 47, 51}
)

const (
	gtaMaxLimit       = 1000
	migrationScanSize = 500
)

// Migration measures are filtered client-side; the upstream filter
// parameters are unreliable for them.
var migrationKeywords = []string{
	"migration", "visa", "immigration", "work permit", "labour market",
	"labor market", "travel ban", "entry restriction", "residence",
	"mobility", "foreign worker", "skilled worker",
}

type gtaQuery struct {
	category string
	limit    int
	daysBack int // overrides the configured window when > 0
	payload  map[string]any
}

// GTAClient fetches trade interventions from the Global Trade Alert
// POST API, one query per monitored category.
type GTAClient struct {
	baseURL  string
	apiKey   string
	daysBack int
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.TradeSource = (*GTAClient)(nil)

// NewGTAClient builds the client from config.
func NewGTAClient(cfg config.GTAConfig, logger *slog.Logger) *GTAClient {
	if logger == nil {
		logger = slog.Default()
	}
	daysBack := cfg.DaysBack
	if daysBack <= 0 {
		daysBack = 30
	}
	return &GTAClient{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		daysBack: daysBack,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
		now:      time.Now,
	}
}

// Gather runs the query catalog and flattens the results. A failed
// query is logged and skipped; the call errors only when the client is
// misconfigured or every query fails.
func (c *GTAClient) Gather(ctx context.Context) ([]domain.TradeIntervention, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gta client misconfigured: missing API key")
	}

	queries := c.buildQueries()

	var (
		interventions []domain.TradeIntervention
		succeeded     int
	)
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return interventions, fmt.Errorf("gta gather canceled: %w", err)
		}

		records, err := c.runQuery(ctx, q)
		if err != nil {
			c.logger.Warn("skipping trade query", "category", q.category, "error", err)
			continue
		}
		succeeded++

		for _, rec := range records {
			interventions = append(interventions, rec.toDomain(q.category))
		}
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("all %d gta queries failed", len(queries))
	}
	return interventions, nil
}

// buildQueries assembles the per-category request payloads. Dates are
// resolved here so cached payloads stay stable within a run.
func (c *GTAClient) buildQueries() []gtaQuery {
	return []gtaQuery{
		{
			category: "tariffs_trade_policy",
			limit:    20,
			payload: map[string]any{
				"intervention_types": sanctionTypes,
				"gta_evaluation":     harmfulEvaluations,
			},
		},
		{
			category: "capital_controls",
			limit:    15,
			payload: map[string]any{
				"mast_chapters":  []int{3},
				"gta_evaluation": harmfulEvaluations,
			},
		},
		{
			category: "industrial_restrictions",
			limit:    15,
			payload: map[string]any{
				"intervention_types": restrictionTypes,
				"affected_sectors":   []string{"software", "semiconductors", "telecommunications", "computers"},
				"gta_evaluation":     harmfulEvaluations,
			},
		},
		{
			category: "industrial_sector",
			limit:    15,
			daysBack: 90,
			payload: map[string]any{
				"affected_sectors": []string{"manufacturing", "machinery", "metals", "construction"},
			},
		},
		{
			category: "harmful_interventions",
			limit:    20,
			payload: map[string]any{
				"gta_evaluation": harmfulEvaluations,
			},
		},
		{
			category: "labor_immigration",
			limit:    15,
			payload:  map[string]any{},
		},
	}
}

func (c *GTAClient) runQuery(ctx context.Context, q gtaQuery) ([]gtaRecord, error) {
	end := c.now()
	daysBack := c.daysBack
	if q.daysBack > 0 {
		daysBack = q.daysBack
	}
	if q.category == "labor_immigration" {
		// Migration measures are infrequent; scan a year back.
		daysBack = 365
	}
	start := end.AddDate(0, 0, -daysBack)

	payload := map[string]any{
		"implementation_period": []string{
			start.Format("2006-01-02"),
			end.Format("2006-01-02"),
		},
		"limit":  q.limit,
		"offset": 0,
	}
	for k, v := range q.payload {
		payload[k] = v
	}

	if q.category == "labor_immigration" {
		payload["limit"] = migrationScanSize
	}
	if limit, ok := payload["limit"].(int); ok && limit > gtaMaxLimit {
		payload["limit"] = gtaMaxLimit
	}

	records, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	if q.category == "labor_immigration" {
		records = filterMigrationRecords(records, q.limit)
	}
	return records, nil
}

func (c *GTAClient) post(ctx context.Context, payload map[string]any) ([]gtaRecord, error) {
	operation := func() ([]gtaRecord, error) {
		return c.doPost(ctx, payload)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
}

func (c *GTAClient) doPost(ctx context.Context, payload map[string]any) ([]gtaRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("encode gta request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build gta request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "APIKey "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gta request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("gta status %d: %s", resp.StatusCode, string(detail))
		// Auth and validation failures will not heal on retry.
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	return decodeGTAResponse(resp.Body)
}

// decodeGTAResponse accepts both response shapes the API serves: a
// bare array of records, or an object wrapping them under "data".
func decodeGTAResponse(r io.Reader) ([]gtaRecord, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode gta response: %w", err)
	}

	var records []gtaRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Data []gtaRecord `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode gta response: %w", err)
	}
	return wrapped.Data, nil
}

type gtaRecord struct {
	InterventionID  int                   `json:"intervention_id"`
	Title           string                `json:"state_act_title"`
	Evaluation      string                `json:"gta_evaluation"`
	Implementing    []domain.Jurisdiction `json:"implementing_jurisdictions"`
	Affected        []domain.Jurisdiction `json:"affected_jurisdictions"`
	Type            string                `json:"intervention_type"`
	MASTChapter     string                `json:"mast_chapter"`
	AffectedSectors []string              `json:"affected_sectors"`
	DateAnnounced   string                `json:"date_announced"`
	DateImplemented string                `json:"date_implemented"`
	DateRemoved     string                `json:"date_removed"`
	IsInForce       int                   `json:"is_in_force"`
	URL             string                `json:"intervention_url"`
	Sources         string                `json:"sources"`
}

func (r gtaRecord) toDomain(category string) domain.TradeIntervention {
	iv := domain.TradeIntervention{
		Category:         category,
		InterventionID:   r.InterventionID,
		Title:            r.Title,
		Evaluation:       r.Evaluation,
		Implementing:     r.Implementing,
		Affected:         r.Affected,
		InterventionType: r.Type,
		MASTChapter:      r.MASTChapter,
		AffectedSectors:  r.AffectedSectors,
		DateAnnounced:    r.DateAnnounced,
		DateImplemented:  r.DateImplemented,
		DateRemoved:      r.DateRemoved,
		InForce:          r.IsInForce == 1,
		URL:              r.URL,
		Sources:          parseSourceList(r.Sources),
	}
	if iv.Evaluation == "" {
		iv.Evaluation = "Unclear"
	}
	iv.Description = describeIntervention(iv)
	return iv
}

// parseSourceList splits the API's semicolon-joined sources field.
func parseSourceList(raw string) []domain.SourceRef {
	var refs []domain.SourceRef
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "http://") || strings.HasPrefix(part, "https://") {
			refs = append(refs, domain.SourceRef{URL: part})
		} else {
			refs = append(refs, domain.SourceRef{Name: part})
		}
	}
	return refs
}

// describeIntervention synthesizes narrative text; the API returns
// structured fields only.
func describeIntervention(iv domain.TradeIntervention) string {
	var sb strings.Builder

	sb.WriteString(iv.InterventionType)
	if names := iv.ImplementingCountries(); len(names) > 0 {
		sb.WriteString(" implemented by ")
		sb.WriteString(strings.Join(names, ", "))
	}
	if names := iv.AffectedCountries(); len(names) > 0 {
		sb.WriteString(" affecting ")
		sb.WriteString(strings.Join(names, ", "))
	}
	sb.WriteString(".")
	if iv.MASTChapter != "" {
		sb.WriteString(" Category: ")
		sb.WriteString(iv.MASTChapter)
		sb.WriteString(".")
	}

	return sb.String()
}

func filterMigrationRecords(records []gtaRecord, limit int) []gtaRecord {
	var matched []gtaRecord
	for _, rec := range records {
		if isMigrationRecord(rec) {
			matched = append(matched, rec)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched
}

func isMigrationRecord(rec gtaRecord) bool {
	if strings.Contains(strings.ToLower(rec.MASTChapter), "migration") {
		return true
	}

	title := strings.ToLower(rec.Title)
	for _, kw := range migrationKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}

	ivType := strings.ToLower(rec.Type)
	for _, kw := range []string{"migration", "labour", "labor", "visa"} {
		if strings.Contains(ivType, kw) {
			return true
		}
	}
	return false
}

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"MROIntel/internal/config"
	"MROIntel/internal/domain"
	"MROIntel/internal/ports"
)

type fredSeries struct {
	id    string
	name  string
	units string
}

// Economic series tracked per category. Category names feed the
// processor's relevance bonus table.
var fredCatalog = []struct {
	category string
	series   []fredSeries
}{
	{"industrial_activity", []fredSeries{
		{"INDPRO", "Industrial Production Index", "Index 2017=100"},
		{"IPMAN", "Industrial Production: Manufacturing", "Index 2017=100"},
		{"CMRMTSPL", "Real Manufacturing and Trade Industries Sales", "Millions of Chained 2017 Dollars"},
		{"DGORDER", "Manufacturers' New Orders: Durable Goods", "Millions of Dollars"},
	}},
	{"construction", []fredSeries{
		{"TLRESCONS", "Total Construction Spending: Residential", "Millions of Dollars"},
		{"TLNRESCONS", "Total Construction Spending: Nonresidential", "Millions of Dollars"},
		{"HOUST", "Housing Starts", "Thousands of Units"},
		{"PERMIT", "Building Permits", "Thousands of Units"},
	}},
	{"business_conditions", []fredSeries{
		{"UNRATE", "Unemployment Rate", "Percent"},
		{"PCEPILFE", "Core PCE Inflation (excluding food and energy)", "Percent Change from Year Ago"},
		{"FEDFUNDS", "Federal Funds Effective Rate", "Percent"},
		{"T10Y2Y", "10-Year Treasury Minus 2-Year (Yield Curve)", "Percent"},
	}},
	{"commodities", []fredSeries{
		{"PPIACO", "Producer Price Index: All Commodities", "Index 1982=100"},
		{"DCOILWTICO", "Crude Oil Prices: West Texas Intermediate (WTI)", "Dollars per Barrel"},
	}},
	{"grainger_commodities", []fredSeries{
		{"WPU101", "PPI: Iron and Steel", "Index 1982=100"},
		{"PCU3311133111", "PPI: Steel Mill Products", "Index Dec 2003=100"},
		{"WPU102501", "PPI: Aluminum Mill Shapes", "Index 1982=100"},
		{"PALUMUSDM", "Global Price of Aluminum", "Dollars per Metric Ton"},
		{"WPU0721", "PPI: Plastic Products", "Index 1982=100"},
	}},
	{"interest_rates", []fredSeries{
		{"DFF", "Federal Funds Effective Rate", "Percent"},
		{"DGS10", "10-Year Treasury Constant Maturity Rate", "Percent"},
		{"MORTGAGE30US", "30-Year Fixed Rate Mortgage Average", "Percent"},
	}},
	{"employment", []fredSeries{
		{"PAYEMS", "Total Nonfarm Payrolls", "Thousands of Persons"},
		{"MANEMP", "Manufacturing Employment", "Thousands of Persons"},
		{"USCONS", "Construction Employment", "Thousands of Persons"},
	}},
	{"government", []fredSeries{
		{"FGEXPND", "Federal Government: Current Expenditures", "Billions of Dollars"},
		{"FDEFX", "Federal Government: National Defense Consumption Expenditures", "Billions of Dollars"},
	}},
}

// FREDClient pulls the latest observation for each tracked economic
// series from the FRED HTTP API.
type FREDClient struct {
	baseURL  string
	apiKey   string
	daysBack int
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.EconSource = (*FREDClient)(nil)

// NewFREDClient builds the client from config.
func NewFREDClient(cfg config.FREDConfig, logger *slog.Logger) *FREDClient {
	if logger == nil {
		logger = slog.Default()
	}
	daysBack := cfg.DaysBack
	if daysBack <= 0 {
		daysBack = 90
	}
	return &FREDClient{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		daysBack: daysBack,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// Gather fetches the latest value per series. Individual series
// failures are logged and skipped; the call fails only when the client
// is misconfigured or the context ends.
func (c *FREDClient) Gather(ctx context.Context) ([]domain.EconObservation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fred client misconfigured: missing API key")
	}

	var observations []domain.EconObservation
	for _, entry := range fredCatalog {
		for _, series := range entry.series {
			if err := ctx.Err(); err != nil {
				return observations, fmt.Errorf("fred gather canceled: %w", err)
			}

			obs, err := c.latestObservation(ctx, series.id)
			if err != nil {
				c.logger.Warn("skipping economic series", "series", series.id, "error", err)
				continue
			}

			observations = append(observations, domain.EconObservation{
				Category:   entry.category,
				SeriesID:   series.id,
				SeriesName: series.name,
				Date:       obs.Date,
				Units:      series.units,
				Value:      obs.value,
			})
		}
	}

	return observations, nil
}

type fredObservation struct {
	Date     string `json:"date"`
	RawValue string `json:"value"`
	value    float64
}

type fredObservationsResponse struct {
	Observations []fredObservation `json:"observations"`
}

func (c *FREDClient) latestObservation(ctx context.Context, seriesID string) (fredObservation, error) {
	operation := func() (fredObservation, error) {
		return c.fetchLatest(ctx, seriesID)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)
}

func (c *FREDClient) fetchLatest(ctx context.Context, seriesID string) (fredObservation, error) {
	start := time.Now().AddDate(0, 0, -c.daysBack).Format("2006-01-02")

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")
	params.Set("observation_start", start)
	params.Set("sort_order", "asc")

	endpoint := c.baseURL + "/series/observations?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fredObservation{}, backoff.Permanent(fmt.Errorf("build fred request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fredObservation{}, fmt.Errorf("fred request %s: %w", seriesID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("fred status %d for %s: %s", resp.StatusCode, seriesID, string(body))
		if resp.StatusCode == http.StatusBadRequest {
			return fredObservation{}, backoff.Permanent(err)
		}
		return fredObservation{}, err
	}

	var payload fredObservationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fredObservation{}, fmt.Errorf("decode fred response for %s: %w", seriesID, err)
	}

	// Observations arrive chronologically; take the newest numeric one.
	// Missing data points are reported as ".".
	for i := len(payload.Observations) - 1; i >= 0; i-- {
		obs := payload.Observations[i]
		if obs.RawValue == "." {
			continue
		}
		value, err := strconv.ParseFloat(obs.RawValue, 64)
		if err != nil {
			continue
		}
		obs.value = value
		return obs, nil
	}

	return fredObservation{}, backoff.Permanent(fmt.Errorf("no numeric observations for %s", seriesID))
}

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/coder/websocket"

	"MROIntel/internal/config"
	"MROIntel/internal/domain"
	"MROIntel/internal/ports"
)

// At most this many queries run against the forum at once.
const forumConcurrency = 3

// Follow-up questions are asked only when the main answer looks solid.
const followUpConfidenceGate = 0.6

const maxFollowUps = 2

type queryTemplate struct {
	category  string
	priority  int
	query     string
	followUps []string
}

// ErgoMindClient streams research narratives from the forum's
// websocket endpoint, one conversation per report run.
type ErgoMindClient struct {
	wsURL          string
	apiKey         string
	userID         string
	timeout        time.Duration
	lookbackMonths int
	logger         *slog.Logger
	now            func() time.Time
}

var _ ports.ForumSource = (*ErgoMindClient)(nil)

// NewErgoMindClient builds the client from config.
func NewErgoMindClient(cfg config.ErgoMindConfig, report config.ReportConfig, logger *slog.Logger) *ErgoMindClient {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	lookback := report.LookbackMonths
	if lookback <= 0 {
		lookback = 3
	}
	return &ErgoMindClient{
		wsURL:          cfg.WebsocketURL,
		apiKey:         cfg.APIKey,
		userID:         cfg.UserID,
		timeout:        timeout,
		lookbackMonths: lookback,
		logger:         logger,
		now:            time.Now,
	}
}

// Gather runs the full query catalog with bounded concurrency. Failed
// queries are recorded with Success=false so the run report can show
// them; the call errors only on misconfiguration or total failure.
func (c *ErgoMindClient) Gather(ctx context.Context) ([]domain.ForumResponse, error) {
	if c.apiKey == "" || c.userID == "" {
		return nil, fmt.Errorf("ergomind client misconfigured: missing API key or user ID")
	}

	templates := c.buildTemplates()
	conversationID := fmt.Sprintf("run-%d", c.now().UnixNano())

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		responses []domain.ForumResponse
	)
	sem := make(chan struct{}, forumConcurrency)

	for _, tmpl := range templates {
		wg.Add(1)
		go func(tmpl queryTemplate) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			results := c.runTemplate(ctx, conversationID, tmpl)
			mu.Lock()
			responses = append(responses, results...)
			mu.Unlock()
		}(tmpl)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return responses, fmt.Errorf("ergomind gather canceled: %w", err)
	}

	succeeded := 0
	for _, resp := range responses {
		if resp.Success {
			succeeded++
		}
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("all %d forum queries failed", len(templates))
	}
	return responses, nil
}

// runTemplate executes a template's main query and, when the answer is
// confident enough, up to two follow-ups.
func (c *ErgoMindClient) runTemplate(ctx context.Context, conversationID string, tmpl queryTemplate) []domain.ForumResponse {
	c.logger.Info("querying forum", "category", tmpl.category, "priority", tmpl.priority)

	main := c.query(ctx, conversationID, tmpl.category, tmpl.query)
	results := []domain.ForumResponse{main}
	if !main.Success {
		return results
	}

	if main.Confidence > followUpConfidenceGate {
		followUps := tmpl.followUps
		if len(followUps) > maxFollowUps {
			followUps = followUps[:maxFollowUps]
		}
		for _, q := range followUps {
			follow := c.query(ctx, conversationID, tmpl.category, q)
			if follow.Success {
				results = append(results, follow)
			}
		}
	}

	return results
}

// query opens a websocket connection and streams one answer. Errors
// become a failed ForumResponse rather than propagating.
func (c *ErgoMindClient) query(ctx context.Context, conversationID, category, question string) domain.ForumResponse {
	resp := domain.ForumResponse{Category: category, Query: question}

	text, sources, err := c.streamQuery(ctx, conversationID, question)
	if err != nil {
		c.logger.Warn("forum query failed", "category", category, "error", err)
		resp.Success = false
		resp.Error = err.Error()
		return resp
	}

	text = stripHTML(text)
	resp.Response = text
	resp.Sources = sources
	resp.Success = true
	resp.Confidence = responseConfidence(text, sources)
	return resp
}

type forumQueryPayload struct {
	Type           string  `json:"type"`
	Message        string  `json:"message"`
	UserID         string  `json:"user_id"`
	ConversationID string  `json:"conversation_id"`
	MaxResults     int     `json:"max_results"`
	MinScore       float64 `json:"min_score"`
}

type forumStreamMessage struct {
	Type    string          `json:"type"`
	Content string          `json:"content"`
	Message string          `json:"message"`
	Sources json.RawMessage `json:"sources"`
}

type forumSource struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (c *ErgoMindClient) streamQuery(ctx context.Context, conversationID, question string) (string, []domain.SourceRef, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	header := http.Header{}
	header.Set("X-API-Key", c.apiKey)

	conn, _, err := websocket.Dial(queryCtx, c.wsURL, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		return "", nil, fmt.Errorf("dial forum websocket: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	payload, err := json.Marshal(forumQueryPayload{
		Type:           "query",
		Message:        question,
		UserID:         c.userID,
		ConversationID: conversationID,
		MaxResults:     10,
		MinScore:       0.0,
	})
	if err != nil {
		return "", nil, fmt.Errorf("encode forum query: %w", err)
	}
	if err := conn.Write(queryCtx, websocket.MessageText, payload); err != nil {
		return "", nil, fmt.Errorf("send forum query: %w", err)
	}

	var (
		chunks   strings.Builder
		sources  []domain.SourceRef
		complete bool
	)

	for !complete {
		_, data, err := conn.Read(queryCtx)
		if err != nil {
			if chunks.Len() > 0 {
				// Partial answers are still usable; the stream often
				// drops without a completion frame.
				break
			}
			return "", nil, fmt.Errorf("read forum stream: %w", err)
		}

		var msg forumStreamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("unparseable forum frame", "error", err)
			continue
		}

		switch msg.Type {
		case "text", "chunk", "delta":
			chunks.WriteString(msg.Content)
		case "sources":
			sources = append(sources, decodeSources(msg.Sources)...)
		case "done", "complete":
			complete = true
		case "error":
			return "", nil, fmt.Errorf("forum error: %s", msg.Message)
		}
	}

	text := chunks.String()
	if text == "" && !complete {
		return "", nil, fmt.Errorf("no response received before timeout")
	}
	return text, sources, nil
}

func decodeSources(raw json.RawMessage) []domain.SourceRef {
	if len(raw) == 0 {
		return nil
	}

	var parsed []forumSource
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}

	var refs []domain.SourceRef
	for _, src := range parsed {
		name := src.Name
		if name == "" {
			name = src.Title
		}
		if name == "" && src.URL == "" {
			continue
		}
		refs = append(refs, domain.SourceRef{Name: name, URL: src.URL})
	}
	return refs
}

// stripHTML flattens markup the forum occasionally embeds in answers.
func stripHTML(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return strings.TrimSpace(doc.Text())
}

// responseConfidence scores an answer on length, sourcing, structure,
// and analytical vocabulary.
func responseConfidence(response string, sources []domain.SourceRef) float64 {
	score := 0.0

	if len(response) > 100 {
		score += 0.3
	}
	if len(response) > 500 {
		score += 0.2
	}

	if len(sources) > 0 {
		score += 0.2
	}
	if len(sources) > 2 {
		score += 0.1
	}

	for _, marker := range []string{"•", "-", "1.", "2."} {
		if strings.Contains(response, marker) {
			score += 0.1
			break
		}
	}

	lower := strings.ToLower(response)
	for _, marker := range []string{"according to", "analysis", "trend", "forecast", "impact"} {
		if strings.Contains(lower, marker) {
			score += 0.1
			break
		}
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// buildTemplates assembles the strategic query catalog. The time
// constraint pins every question to the configured lookback window and
// the US/USMCA focus.
func (c *ErgoMindClient) buildTemplates() []queryTemplate {
	now := c.now()
	currentMonth := now.Format("January 2006")
	lookbackStart := now.AddDate(0, -c.lookbackMonths, 0).Format("January 2006")

	timeConstraint := fmt.Sprintf(
		" Only include information from %s to present. Do not include any events or data older than %d months. Focus on US domestic and USMCA region developments.",
		lookbackStart, c.lookbackMonths,
	)

	return []queryTemplate{
		{
			category: "tariffs_mro_impact",
			priority: 10,
			query:    "What's happening with tariffs that would impact the US MRO market? Include any new Section 301, Section 232, or other tariff changes affecting industrial goods, equipment, and materials." + timeConstraint,
			followUps: []string{
				"How are current tariff changes affecting industrial supply pricing?" + timeConstraint,
				"What pricing strategies should MRO distributors consider?" + timeConstraint,
			},
		},
		{
			category: "us_mro_outlook",
			priority: 10,
			query:    "What are the outlooks for the US MRO market? Include manufacturing activity, construction spending, and industrial demand trends." + timeConstraint,
			followUps: []string{
				"Which MRO product categories are seeing strongest demand?" + timeConstraint,
				"What are the leading indicators for MRO demand in the next 90 days?" + timeConstraint,
			},
		},
		{
			category: "steel_mro_demand",
			priority: 10,
			query:    "What will happen to the price of steel, and how does that affect MRO market demand? Include steel tariffs, supply dynamics, and impact on manufacturing/construction activity." + timeConstraint,
			followUps: []string{
				"What manufacturing sectors are most sensitive to steel costs?" + timeConstraint,
				"How do steel tariffs impact construction project economics and timing?" + timeConstraint,
			},
		},
		{
			category: "pricing_strategy",
			priority: 10,
			query:    "How should industrial MRO distributors approach pricing pass-through given current tariff and commodity cost changes? What pricing strategies are competitors using?" + timeConstraint,
			followUps: []string{
				"What are the pricing elasticity dynamics in MRO distribution?" + timeConstraint,
				"How are suppliers adjusting their pricing to distributors?" + timeConstraint,
			},
		},
		{
			category: "china_tariff_exposure",
			priority: 9,
			query:    "What tariff changes on Chinese industrial goods will impact US MRO distributors? Focus on Section 301 tariffs, industrial supplies, and manufacturing equipment sourced from China." + timeConstraint,
			followUps: []string{
				"How are tariffs affecting the price of industrial supplies sourced from China?" + timeConstraint,
				"What supply chain shifts are occurring as companies reduce China sourcing exposure?" + timeConstraint,
			},
		},
		{
			category: "china_sourcing_shifts",
			priority: 9,
			query:    "What supply chain shifts are occurring as US companies diversify away from China sourcing? Track nearshoring to Mexico, Vietnam alternatives, and domestic reshoring." + timeConstraint,
			followUps: []string{
				"Which product categories are most affected by China-US trade tensions?" + timeConstraint,
				"What is the timeline for supply chain restructuring?" + timeConstraint,
			},
		},
		{
			category: "manufacturing_demand",
			priority: 9,
			query:    "Analyze manufacturing sector trends in " + currentMonth + ", including reshoring initiatives, automation investments, factory construction, and production volumes that drive MRO consumables demand." + timeConstraint,
			followUps: []string{
				"What regions are seeing new manufacturing facility investments?" + timeConstraint,
				"How are production levels affecting maintenance and spare parts demand?" + timeConstraint,
			},
		},
		{
			category: "government_spending",
			priority: 9,
			query:    "What federal, state, and military spending developments in " + currentMonth + " affect MRO procurement? Include defense budget, infrastructure spending, and government facility maintenance." + timeConstraint,
			followUps: []string{
				"What defense procurement opportunities are emerging?" + timeConstraint,
				"How are federal budget dynamics affecting government MRO contracts?" + timeConstraint,
			},
		},
		{
			category: "contractor_activity",
			priority: 9,
			query:    "What were the construction and contractor activity trends in " + currentMonth + "? Include housing starts, building permits, commercial construction, and infrastructure project pipeline." + timeConstraint,
			followUps: []string{
				"How are interest rates and materials costs affecting project economics?" + timeConstraint,
				"What is the outlook for skilled trades labor availability?" + timeConstraint,
			},
		},
		{
			category: "capex_activity",
			priority: 9,
			query:    "What is the outlook for discretionary capital projects and new construction that drive MRO demand? Include capex trends, project delays/cancellations, and investment sentiment." + timeConstraint,
			followUps: []string{
				"Which sectors are delaying or accelerating capital expenditures?" + timeConstraint,
				"What is the outlook for industrial construction starts?" + timeConstraint,
			},
		},
		{
			category: "commercial_facilities",
			priority: 8,
			query:    "What commercial real estate and facilities management trends from " + currentMonth + " affect MRO demand? Include office occupancy, retail activity, healthcare expansion, and building maintenance." + timeConstraint,
			followUps: []string{
				"How are return-to-office trends affecting commercial facility maintenance?" + timeConstraint,
				"What building code or efficiency mandates are driving equipment upgrades?" + timeConstraint,
			},
		},
		{
			category: "aluminum_pricing",
			priority: 8,
			query:    "What are the aluminum price trends and outlook? How do aluminum costs affect industrial product pricing and MRO demand?" + timeConstraint,
			followUps: []string{
				"How are aluminum tariffs affecting manufacturing costs?" + timeConstraint,
				"What is the supply outlook for aluminum products?" + timeConstraint,
			},
		},
		{
			category: "energy_logistics_costs",
			priority: 8,
			query:    "Summarize oil, diesel, and logistics cost trends from " + currentMonth + " and their implications for industrial distribution operations." + timeConstraint,
			followUps: []string{
				"How are energy costs affecting manufacturing and logistics operations?" + timeConstraint,
				"What is the outlook for shipping and freight costs?" + timeConstraint,
			},
		},
		{
			category: "supply_chain_risks",
			priority: 8,
			query:    "What geopolitical developments in " + currentMonth + " have disrupted or threaten to disrupt industrial supply chains, manufacturing inputs, or raw materials affecting the US market?" + timeConstraint,
			followUps: []string{
				"Which supply chain vulnerabilities require immediate attention?" + timeConstraint,
				"What contingency planning is recommended for procurement?" + timeConstraint,
			},
		},
		{
			category: "risk_forecast",
			priority: 8,
			query:    "Based on " + currentMonth + " developments, what are the top risks for US industrial supply chains and MRO demand in the next 90 days?" + timeConstraint,
			followUps: []string{
				"What contingency planning should MRO distributors consider?" + timeConstraint,
				"Which product categories face the highest supply risk?" + timeConstraint,
			},
		},
		{
			category: "competitive_landscape",
			priority: 7,
			query:    "How are digital-first competitors changing pricing and service expectations in industrial distribution? Include Amazon Business, online marketplaces, and B2B ecommerce trends." + timeConstraint,
			followUps: []string{
				"What are the implications of Amazon Business expansion in MRO?" + timeConstraint,
				"How are traditional distributors responding to digital competition?" + timeConstraint,
			},
		},
		{
			category: "opportunity_forecast",
			priority: 7,
			query:    "What emerging opportunities from " + currentMonth + " suggest growth potential for US industrial MRO products and services?" + timeConstraint,
			followUps: []string{
				"Which industrial sectors are increasing capital investment?" + timeConstraint,
				"What regions show strongest industrial growth?" + timeConstraint,
			},
		},
		{
			category: "safety_regulations",
			priority: 7,
			query:    "What OSHA, EPA, and other regulatory changes from " + currentMonth + " affect industrial safety equipment and compliance requirements?" + timeConstraint,
			followUps: []string{
				"What new PPE or safety equipment requirements are being implemented?" + timeConstraint,
				"How are environmental regulations affecting industrial operations?" + timeConstraint,
			},
		},
	}
}

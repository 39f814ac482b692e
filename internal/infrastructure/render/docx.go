package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gingfrederik/docx"

	"MROIntel/internal/blocklist"
	"MROIntel/internal/config"
	"MROIntel/internal/domain"
	"MROIntel/internal/ports"
)

const (
	titleSize   = 20
	sectionSize = 16
	metaSize    = 10

	metaColor = "808080"
)

// Items rendered per sector section.
const maxSectionItems = 8

// DocxRenderer writes the report as a Word document.
type DocxRenderer struct {
	outputDir string
	logger    *slog.Logger
}

var _ ports.ReportRenderer = (*DocxRenderer)(nil)

// NewDocxRenderer builds the renderer from report config.
func NewDocxRenderer(cfg config.ReportConfig, logger *slog.Logger) *DocxRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "reports"
	}
	return &DocxRenderer{outputDir: outputDir, logger: logger}
}

// Render writes the document and returns its path. Every string is
// passed through the publication filter before it reaches the page.
func (r *DocxRenderer) Render(ctx context.Context, report domain.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("render canceled: %w", err)
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f := docx.NewFile()

	titleP := f.AddParagraph()
	titleRun := titleP.AddText(safeText(report.Title))
	titleRun.Size(titleSize)

	meta := f.AddParagraph()
	metaRun := meta.AddText("Generated " + report.GeneratedAt.Format("January 2, 2006"))
	metaRun.Size(metaSize)
	metaRun.Color(metaColor)
	f.AddParagraph()

	r.writeExecutiveSummary(f, report.Items)

	for _, sector := range domain.AllSectors() {
		intel, ok := report.Sectors[sector]
		if !ok {
			continue
		}
		r.writeSector(f, intel)
	}

	path := filepath.Join(r.outputDir, "mro-intel-"+report.GeneratedAt.Format("20060102")+".docx")
	if err := f.Save(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	r.logger.Info("report written", "path", path, "items", len(report.Items))
	return path, nil
}

func (r *DocxRenderer) writeExecutiveSummary(f *docx.File, items []domain.IntelligenceItem) {
	p := f.AddParagraph()
	run := p.AddText("Executive Summary")
	run.Size(sectionSize)

	count := 0
	for _, item := range items {
		if item.SoWhat == "" {
			continue
		}
		f.AddParagraph().AddText("• " + safeText(item.SoWhat))
		count++
		if count == 5 {
			break
		}
	}
	if count == 0 {
		f.AddParagraph().AddText("No significant developments identified this period.")
	}
	f.AddParagraph()
}

func (r *DocxRenderer) writeSector(f *docx.File, intel domain.SectorIntelligence) {
	p := f.AddParagraph()
	run := p.AddText(intel.Sector.DisplayName())
	run.Size(sectionSize)

	if intel.Summary != "" {
		f.AddParagraph().AddText(safeText(intel.Summary))
	}

	items := intel.Items
	if len(items) > maxSectionItems {
		items = items[:maxSectionItems]
	}
	for _, item := range items {
		f.AddParagraph().AddText("• " + safeText(item.ProcessedContent))

		if item.SoWhat != "" {
			sw := f.AddParagraph()
			swRun := sw.AddText("So what: " + safeText(item.SoWhat))
			swRun.Size(metaSize)
		}
		if len(item.ActionItems) > 0 {
			actions := f.AddParagraph()
			actionsRun := actions.AddText("Actions: " + safeText(strings.Join(item.ActionItems, "; ")))
			actionsRun.Size(metaSize)
			actionsRun.Color(metaColor)
		}
	}

	writeStatementList(f, "Key Risks", intel.KeyRisks)
	writeStatementList(f, "Key Opportunities", intel.KeyOpportunities)
	f.AddParagraph()
}

func writeStatementList(f *docx.File, heading string, statements []string) {
	if len(statements) == 0 {
		return
	}
	f.AddParagraph().AddText(heading + ":")
	for _, statement := range statements {
		f.AddParagraph().AddText("- " + safeText(statement))
	}
}

// safeText sanitizes any string that failed the publication check.
func safeText(text string) string {
	if blocklist.IsClean(text) {
		return text
	}
	return blocklist.Sanitize(text)
}

package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MROIntel/internal/config"
	"MROIntel/internal/domain"
)

func TestRenderWritesDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewDocxRenderer(config.ReportConfig{OutputDir: dir}, nil)

	report := domain.Report{
		Title:       "MRO Market Intelligence Report",
		GeneratedAt: time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC),
		Items: []domain.IntelligenceItem{
			{
				ProcessedContent: "Steel tariffs will raise input costs.",
				SoWhat:           "Review supplier exposure.",
				ActionItems:      []string{"Audit steel-dependent SKUs"},
				AffectedSectors:  []domain.Sector{domain.SectorManufacturing},
			},
		},
		Sectors: map[domain.Sector]domain.SectorIntelligence{
			domain.SectorManufacturing: {
				Sector:  domain.SectorManufacturing,
				Summary: "1 development tracked.",
				Items: []domain.IntelligenceItem{
					{
						ProcessedContent: "Steel tariffs will raise input costs.",
						SoWhat:           "Review supplier exposure.",
					},
				},
				KeyRisks: []string{"Review supplier exposure."},
			},
		},
	}

	path, err := r.Render(context.Background(), report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(dir, "mro-intel-20260801.docx")
	if path != want {
		t.Fatalf("expected %q, got %q", want, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat report: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("report file is empty")
	}
}

func TestRenderCanceledContext(t *testing.T) {
	t.Parallel()

	r := NewDocxRenderer(config.ReportConfig{OutputDir: t.TempDir()}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, domain.Report{GeneratedAt: time.Now()}); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestSafeTextSanitizesBlockedTerms(t *testing.T) {
	t.Parallel()

	got := safeText("Demand for aviation parts is rising.")
	if got == "Demand for aviation parts is rising." {
		t.Fatalf("blocked term survived: %q", got)
	}

	clean := "Demand for industrial parts is rising."
	if safeText(clean) != clean {
		t.Fatalf("clean text altered")
	}
}

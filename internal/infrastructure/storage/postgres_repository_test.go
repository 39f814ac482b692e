package storage

import (
	"context"
	"testing"

	"MROIntel/internal/domain"
)

func TestSaveRunWithoutDatabase(t *testing.T) {
	t.Parallel()

	r := NewPostgresRepository(nil)
	err := r.SaveRun(context.Background(), domain.RunRecord{}, []domain.IntelligenceItem{
		{SourceType: domain.SourceFRED},
	})
	if err != nil {
		t.Fatalf("nil database must be a no-op: %v", err)
	}
}

func TestSectorNames(t *testing.T) {
	t.Parallel()

	names := sectorNames([]domain.Sector{domain.SectorManufacturing, domain.SectorGeneral})
	if len(names) != 2 || names[0] != string(domain.SectorManufacturing) {
		t.Fatalf("unexpected names: %v", names)
	}

	if got := sectorNames(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

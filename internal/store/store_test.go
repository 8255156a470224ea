package store

import (
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/nwpdiag/dataimpact/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "impact.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord() models.SummaryRecord {
	rec := models.NewSummaryRecord([]string{"conv_ps", "conv_t"})
	rec.TotalSize = []float64{100, 200}
	rec.AssimSize = []float64{80, 150}
	rec.MeanJoDiff = []float64{-0.1, 0.2}
	rec.SumJoDiff = []float64{-8, 30}
	rec.MaxAbsJoDiff = []float64{3.5, 12}
	return rec
}

func TestRecordAndGetSummary(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordSummary("2024050112", "conv", testRecord()); err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}

	got, err := s.GetSummary("2024050112", "conv")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if got == nil {
		t.Fatal("GetSummary returned nil for recorded cycle")
	}
	if len(got.SensorTypes) != 2 || got.SensorTypes[0] != "conv_ps" {
		t.Errorf("sensor order lost: %v", got.SensorTypes)
	}
	if got.SumJoDiff[1] != 30 || got.MaxAbsJoDiff[0] != 3.5 {
		t.Errorf("values lost: %+v", got)
	}
}

func TestRecordSummaryUpserts(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordSummary("2024050112", "conv", testRecord()); err != nil {
		t.Fatal(err)
	}
	rec := testRecord()
	rec.SumJoDiff[0] = -99
	if err := s.RecordSummary("2024050112", "conv", rec); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	got, err := s.GetSummary("2024050112", "conv")
	if err != nil {
		t.Fatal(err)
	}
	if got.SumJoDiff[0] != -99 {
		t.Errorf("SumJoDiff = %v, want updated value -99", got.SumJoDiff[0])
	}
	if len(got.SensorTypes) != 2 {
		t.Errorf("upsert duplicated rows: %v", got.SensorTypes)
	}
}

func TestGetSummaryMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetSummary("2024050112", "conv")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v for unrecorded cycle, want nil", got)
	}
}

func TestListCycles(t *testing.T) {
	s := openTestStore(t)
	for _, cycle := range []string{"2024050113", "2024050112"} {
		if err := s.RecordSummary(cycle, "conv", testRecord()); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.RecordSummary("2024050112", "sate", testRecord()); err != nil {
		t.Fatal(err)
	}

	cycles, err := s.ListCycles("conv")
	if err != nil {
		t.Fatalf("ListCycles: %v", err)
	}
	if len(cycles) != 2 || cycles[0] != "2024050112" || cycles[1] != "2024050113" {
		t.Errorf("cycles = %v, want ordered conv cycles only", cycles)
	}
}

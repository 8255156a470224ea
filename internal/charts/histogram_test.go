package charts

import (
	"os"
	"testing"
)

func TestBinCounts(t *testing.T) {
	edges := []float64{0, 1, 2, 3}

	tests := []struct {
		name   string
		values []float64
		want   []int
	}{
		{"interior values", []float64{0.5, 1.5, 1.9, 2.5}, []int{1, 2, 1}},
		{"left edge inclusive", []float64{0}, []int{1, 0, 0}},
		{"bin boundary goes right", []float64{1}, []int{0, 1, 0}},
		{"final edge closes last bin", []float64{3}, []int{0, 0, 1}},
		{"out of range dropped", []float64{-0.1, 3.1}, []int{0, 0, 0}},
		{"empty sample", nil, []int{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := binCounts(tt.values, edges)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d bins, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("bin %d = %d, want %d (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestBinCountsConserveInRange(t *testing.T) {
	edges := []float64{-1, -0.5, 0, 0.5, 1}
	values := []float64{-0.9, -0.1, 0.1, 0.49, 0.5, 0.99, 1.0}
	got := binCounts(values, edges)
	total := 0
	for _, c := range got {
		total += c
	}
	if total != len(values) {
		t.Errorf("binned %d of %d in-range values", total, len(values))
	}
}

func TestBarWidth(t *testing.T) {
	if w := barWidth(1000, 0); w != 10 {
		t.Errorf("barWidth with no bins = %d, want fallback 10", w)
	}
	if w := barWidth(1000, 20); w != 44 {
		t.Errorf("barWidth(1000, 20) = %d, want 44", w)
	}
	if w := barWidth(1000, 5000); w != 2 {
		t.Errorf("barWidth floor = %d, want 2", w)
	}
}

func TestRenderHistogramWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := RenderHistogram(HistogramInput{
		Sensor:     "conv_t",
		YYYY:       "2024",
		MM:         "05",
		DD:         "01",
		HH:         "12",
		Cycle:      "2024050112",
		JoDiffs:    []float64{-0.5, -0.1, 0.1, 0.2, 0.75, -0.3, 0.05, -0.02},
		InvObsErrs: []float64{0.5, 0.6, 0.5, 0.7, 0.5, 0.6, 0.5, 0.7},
		TotalSize:  10,
		CountAssim: 8,
	}, dir)
	if err != nil {
		t.Fatalf("RenderHistogram: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("figure not written: %v", err)
	}
	if fi.Size() == 0 {
		t.Error("figure is empty")
	}
}

func TestSensorColors(t *testing.T) {
	colors := SensorColors(5, []int{0, 2}, []int{1, 3})
	if len(colors) != 5 {
		t.Fatalf("got %d colors, want 5", len(colors))
	}
	if colors[0] != colors[2] {
		t.Error("IR sensors not colored alike")
	}
	if colors[1] != colors[3] {
		t.Error("MW sensors not colored alike")
	}
	if colors[0] == colors[1] {
		t.Error("IR and MW share a color")
	}
	if colors[4] == colors[0] || colors[4] == colors[1] {
		t.Error("conventional slot shares a satellite color")
	}
}

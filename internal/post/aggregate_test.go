package post

import (
	"testing"

	"github.com/nwpdiag/dataimpact/internal/models"
)

func TestCycleRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantLen    int
		wantErr    bool
	}{
		{"single cycle", "2024050112", "2024050112", 1, false},
		{"three hours", "2024050112", "2024050114", 3, false},
		{"day boundary", "2024050123", "2024050201", 3, false},
		{"end before start", "2024050112", "2024050111", 0, true},
		{"malformed start", "202405011", "2024050112", 0, true},
		{"malformed hour", "2024050199", "2024050199", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CycleRange(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CycleRange(%s, %s) succeeded, want error", tt.start, tt.end)
				}
				return
			}
			if err != nil {
				t.Fatalf("CycleRange: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("got %d cycles, want %d", len(got), tt.wantLen)
			}
			if got[0] != tt.start || got[len(got)-1] != tt.end {
				t.Errorf("range %v does not span %s..%s", got, tt.start, tt.end)
			}
		})
	}
}

func summaryRec(sensors []string, sums, assims []float64) models.SummaryRecord {
	rec := models.NewSummaryRecord(sensors)
	copy(rec.SumJoDiff, sums)
	copy(rec.AssimSize, assims)
	copy(rec.MeanJoDiff, sums)
	return rec
}

func TestBuildCycleDataFoldsWindSlot(t *testing.T) {
	sate := summaryRec([]string{"abi_g16", "atms_n20"}, []float64{-10, -20}, []float64{100, 200})
	conv := summaryRec([]string{"conv_ps", "conv_t"}, []float64{-1, -2}, []float64{10, 20})
	convUV := summaryRec([]string{"conv_uv"}, []float64{-5}, []float64{50})

	cd, err := BuildCycleData("2024050112", sate, conv, convUV)
	if err != nil {
		t.Fatalf("BuildCycleData: %v", err)
	}

	if len(cd.SensorTypes) != 5 {
		t.Fatalf("SensorTypes = %v, want sate+conv+conv_uv concatenation", cd.SensorTypes)
	}
	if cd.SensorTypes[4] != "conv_uv" {
		t.Errorf("last sensor = %s, want conv_uv", cd.SensorTypes[4])
	}
	if len(cd.SumJoDiff) != 5 || cd.SumJoDiff[0] != -10 || cd.SumJoDiff[4] != -5 {
		t.Errorf("SumJoDiff = %v", cd.SumJoDiff)
	}

	// The wind slot folds into an (nConv+1)-element conventional array.
	if len(cd.ConvSum) != 3 {
		t.Fatalf("ConvSum = %v, want 3 elements", cd.ConvSum)
	}
	if cd.ConvSum[2] != -5 || cd.ConvAssim[2] != 50 {
		t.Errorf("folded wind slot = %v/%v, want -5/50", cd.ConvSum[2], cd.ConvAssim[2])
	}
	if cd.ConvSum[0] != -1 || cd.ConvSum[1] != -2 {
		t.Errorf("conventional slots = %v", cd.ConvSum[:2])
	}
	if len(cd.SateSum) != 2 || cd.SateAssim[1] != 200 {
		t.Errorf("satellite arrays = %v/%v", cd.SateSum, cd.SateAssim)
	}
}

func TestBuildCycleDataRejectsEmptyWindSummary(t *testing.T) {
	sate := summaryRec([]string{"abi_g16"}, []float64{-10}, []float64{100})
	conv := summaryRec([]string{"conv_ps"}, []float64{-1}, []float64{10})
	if _, err := BuildCycleData("2024050112", sate, conv, models.SummaryRecord{}); err == nil {
		t.Error("empty conv_uv summary accepted, want error")
	}
}

func TestTotalsAccumulate(t *testing.T) {
	sate := summaryRec([]string{"abi_g16"}, []float64{-10}, []float64{100})
	conv := summaryRec([]string{"conv_ps"}, []float64{-1}, []float64{10})
	convUV := summaryRec([]string{"conv_uv"}, []float64{-5}, []float64{50})

	cd, err := BuildCycleData("2024050112", sate, conv, convUV)
	if err != nil {
		t.Fatal(err)
	}

	var totals Totals
	if err := totals.Add(cd); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := totals.Add(cd); err != nil {
		t.Fatalf("second Add: %v", err)
	}

	if totals.Cycles != 2 {
		t.Fatalf("Cycles = %d, want 2", totals.Cycles)
	}
	if totals.SateSum[0] != -20 {
		t.Errorf("SateSum = %v, want -20", totals.SateSum[0])
	}
	if totals.ConvSum[1] != -10 {
		t.Errorf("folded wind total = %v, want -10", totals.ConvSum[1])
	}
	if totals.AssimSize[0] != 200 || totals.AssimSize[2] != 100 {
		t.Errorf("AssimSize = %v", totals.AssimSize)
	}
}

func TestTotalsRejectLayoutChange(t *testing.T) {
	sate := summaryRec([]string{"abi_g16"}, []float64{-10}, []float64{100})
	conv := summaryRec([]string{"conv_ps"}, []float64{-1}, []float64{10})
	convUV := summaryRec([]string{"conv_uv"}, []float64{-5}, []float64{50})

	cd, err := BuildCycleData("2024050112", sate, conv, convUV)
	if err != nil {
		t.Fatal(err)
	}

	sate2 := summaryRec([]string{"abi_g16", "atms_n20"}, []float64{-10, -3}, []float64{100, 30})
	cd2, err := BuildCycleData("2024050113", sate2, conv, convUV)
	if err != nil {
		t.Fatal(err)
	}

	var totals Totals
	if err := totals.Add(cd); err != nil {
		t.Fatal(err)
	}
	if err := totals.Add(cd2); err == nil {
		t.Error("layout change accepted mid-range, want error")
	}
}

func TestSelect(t *testing.T) {
	xs := []float64{10, 20, 30, 40}
	got := Select(xs, []int{0, 2, 9})
	if len(got) != 2 || got[0] != 10 || got[1] != 30 {
		t.Errorf("Select = %v, want [10 30] with out-of-range index dropped", got)
	}
}

func TestParseDetailName(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantCycle  string
		wantSensor string
		wantErr    bool
	}{
		{"conventional", "/tmp/out/2024050112_conv_t_detail.json", "2024050112", "conv_t", false},
		{"radiance with dash", "2024050112_cris-fsr_n20_detail.json", "2024050112", "cris-fsr_n20", false},
		{"wrong suffix", "2024050112_conv_t.json", "", "", true},
		{"no sensor part", "2024050112_detail.json", "", "", true},
		{"bad cycle", "notacycle_conv_t_detail.json", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycle, sensor, err := ParseDetailName(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDetailName(%s) succeeded, want error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDetailName: %v", err)
			}
			if cycle != tt.wantCycle || sensor != tt.wantSensor {
				t.Errorf("got (%s, %s), want (%s, %s)", cycle, sensor, tt.wantCycle, tt.wantSensor)
			}
		})
	}
}

package models

import (
	"math"
	"testing"
)

func TestQCCounts(t *testing.T) {
	tbl := &Table{Rows: []Row{
		{UseFlag: 1},
		{UseFlag: 1},
		{UseFlag: -1},
		{UseFlag: 0},
		{UseFlag: 3},
	}}

	tests := []struct {
		name                        string
		assimFlag                   int
		wantAssim, wantMon, wantRej int
	}{
		{"conventional sentinel", 1, 2, 1, 2},
		{"radiance sentinel", 0, 1, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assim, mon, rej := tbl.QCCounts(tt.assimFlag)
			if assim != tt.wantAssim || mon != tt.wantMon || rej != tt.wantRej {
				t.Errorf("QCCounts(%d) = %d/%d/%d, want %d/%d/%d",
					tt.assimFlag, assim, mon, rej, tt.wantAssim, tt.wantMon, tt.wantRej)
			}
		})
	}
}

func TestTableLenNil(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 {
		t.Errorf("nil table Len = %d, want 0", tbl.Len())
	}
}

func TestNewSummaryRecord(t *testing.T) {
	rec := NewSummaryRecord([]string{"a", "b", "c"})
	for _, arr := range [][]float64{rec.TotalSize, rec.AssimSize, rec.MeanJoDiff, rec.SumJoDiff, rec.MaxAbsJoDiff} {
		if len(arr) != 3 {
			t.Fatalf("array length %d, want 3", len(arr))
		}
		for _, v := range arr {
			if v != 0 {
				t.Errorf("fresh record has nonzero value %v", v)
			}
		}
	}
}

func TestDetailRecordAppend(t *testing.T) {
	d := &DetailRecord{}
	d.Append(0.75, 0.5, 40, 250, 850, 120)
	d.Append(-0.3, 0.8, 41, 251, 500, 130)

	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}
	if d.JoDiff[1] != -0.3 || d.ObservationType[0] != 120 {
		t.Errorf("append order lost: %+v", d)
	}

	var nilDet *DetailRecord
	if nilDet.Len() != 0 {
		t.Errorf("nil detail Len = %d, want 0", nilDet.Len())
	}
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{359.5, 359.5},
		{360, 0},
		{-60, 300},
		{-360, 0},
		{720.5, 0.5},
	}
	for _, tt := range tests {
		if got := NormalizeLon(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLon(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

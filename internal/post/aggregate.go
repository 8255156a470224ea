// Package post consumes the persisted per-cycle outputs: it accumulates
// summary records across cycles into the FSOI-proxy bar figures and renders
// spatial maps from detail records.
package post

import (
	"fmt"
	"time"

	"github.com/nwpdiag/dataimpact/internal/models"
)

const cycleLayout = "2006010215"

// CycleRange expands an inclusive start/end cycle pair (YYYYMMDDHH) into the
// hourly cycle strings between them.
func CycleRange(start, end string) ([]string, error) {
	t0, err := time.Parse(cycleLayout, start)
	if err != nil {
		return nil, fmt.Errorf("start cycle %q: %w", start, err)
	}
	t1, err := time.Parse(cycleLayout, end)
	if err != nil {
		return nil, fmt.Errorf("end cycle %q: %w", end, err)
	}
	if t1.Before(t0) {
		return nil, fmt.Errorf("end cycle %s before start %s", end, start)
	}
	var cycles []string
	for t := t0; !t.After(t1); t = t.Add(time.Hour) {
		cycles = append(cycles, t.Format(cycleLayout))
	}
	return cycles, nil
}

// CycleData is one cycle's worth of concatenated summary arrays. The
// conventional totals fold the single wind-vector slot into the last entry
// of an (nConv+1)-element array, the layout the historical figures use.
type CycleData struct {
	Cycle       string
	SensorTypes []string

	SumJoDiff  []float64
	MeanJoDiff []float64
	AssimSize  []float64

	SateSum   []float64
	SateAssim []float64
	ConvSum   []float64
	ConvAssim []float64
}

// BuildCycleData merges the three per-family summary records for one cycle.
func BuildCycleData(cycle string, sate, conv, convUV models.SummaryRecord) (*CycleData, error) {
	if len(convUV.SensorTypes) == 0 {
		return nil, fmt.Errorf("cycle %s: empty conv_uv summary", cycle)
	}

	cd := &CycleData{Cycle: cycle}
	cd.SensorTypes = append(cd.SensorTypes, sate.SensorTypes...)
	cd.SensorTypes = append(cd.SensorTypes, conv.SensorTypes...)
	cd.SensorTypes = append(cd.SensorTypes, convUV.SensorTypes...)

	cd.SumJoDiff = concat(sate.SumJoDiff, conv.SumJoDiff, convUV.SumJoDiff)
	cd.MeanJoDiff = concat(sate.MeanJoDiff, conv.MeanJoDiff, convUV.MeanJoDiff)
	cd.AssimSize = concat(sate.AssimSize, conv.AssimSize, convUV.AssimSize)

	cd.SateSum = append([]float64(nil), sate.SumJoDiff...)
	cd.SateAssim = append([]float64(nil), sate.AssimSize...)

	nFold := len(conv.SensorTypes) + 1
	cd.ConvSum = make([]float64, nFold)
	cd.ConvAssim = make([]float64, nFold)
	copy(cd.ConvSum, conv.SumJoDiff)
	copy(cd.ConvAssim, conv.AssimSize)
	cd.ConvSum[nFold-1] = convUV.SumJoDiff[len(convUV.SumJoDiff)-1]
	cd.ConvAssim[nFold-1] = convUV.AssimSize[len(convUV.AssimSize)-1]

	return cd, nil
}

// Totals accumulates CycleData across cycles for the cycle-averaged figure.
// The folded layout (satellite slots then nConv+1 conventional slots) keeps
// array lengths stable from cycle to cycle.
type Totals struct {
	Cycles      int
	SensorTypes []string

	SumJoDiff []float64
	AssimSize []float64

	SateSum   []float64
	SateAssim []float64
	ConvSum   []float64
	ConvAssim []float64
}

// Add folds one cycle into the running totals. The first cycle fixes the
// sensor layout; later cycles must match it.
func (t *Totals) Add(cd *CycleData) error {
	nSate := len(cd.SateSum)
	folded := concat(cd.SateSum, cd.ConvSum)
	foldedAssim := concat(cd.SateAssim, cd.ConvAssim)

	if t.Cycles == 0 {
		t.SensorTypes = append([]string(nil), cd.SensorTypes...)
		t.SumJoDiff = make([]float64, len(folded))
		t.AssimSize = make([]float64, len(folded))
		t.SateSum = make([]float64, nSate)
		t.SateAssim = make([]float64, nSate)
		t.ConvSum = make([]float64, len(cd.ConvSum))
		t.ConvAssim = make([]float64, len(cd.ConvAssim))
	}
	if len(folded) != len(t.SumJoDiff) || nSate != len(t.SateSum) {
		return fmt.Errorf("cycle %s: sensor layout changed mid-range", cd.Cycle)
	}

	addInto(t.SumJoDiff, folded)
	addInto(t.AssimSize, foldedAssim)
	addInto(t.SateSum, cd.SateSum)
	addInto(t.SateAssim, cd.SateAssim)
	addInto(t.ConvSum, cd.ConvSum)
	addInto(t.ConvAssim, cd.ConvAssim)
	t.Cycles++
	return nil
}

// Select picks the entries of xs at the given indexes, used for the IR/MW
// satellite splits.
func Select(xs []float64, idx []int) []float64 {
	out := make([]float64, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(xs) {
			out = append(out, xs[i])
		}
	}
	return out
}

// Sum adds up a slice.
func Sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}

func concat(slices ...[]float64) []float64 {
	n := 0
	for _, s := range slices {
		n += len(s)
	}
	out := make([]float64, 0, n)
	for _, s := range slices {
		out = append(out, s...)
	}
	return out
}

func addInto(dst, src []float64) {
	for i := range src {
		dst[i] += src[i]
	}
}

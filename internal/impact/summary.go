package impact

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/nwpdiag/dataimpact/internal/models"
)

// CycleSummary collects per-sensor rows into the persisted summary record.
// Sensors that never report stay at their zero values.
type CycleSummary struct {
	rec models.SummaryRecord
}

func NewCycleSummary(sensors []string) *CycleSummary {
	return &CycleSummary{rec: models.NewSummaryRecord(sensors)}
}

// SetSensor fills sensor slot idx from an aggregation result. Call only when
// at least one observation was retained; summary statistics over an empty
// sample are undefined.
func (s *CycleSummary) SetSensor(idx int, res *SensorResult) {
	if res.CountAssim == 0 {
		return
	}
	sample := stats.Sample{Xs: res.JoDiffs}
	s.rec.TotalSize[idx] = float64(res.TotalSize)
	s.rec.AssimSize[idx] = float64(res.CountAssim)
	s.rec.MeanJoDiff[idx] = sample.Mean()
	s.rec.SumJoDiff[idx] = sample.Sum()
	s.rec.MaxAbsJoDiff[idx] = maxAbs(res.JoDiffs)
}

func (s *CycleSummary) Record() models.SummaryRecord {
	return s.rec
}

func maxAbs(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if v := math.Abs(x); v > m {
			m = v
		}
	}
	return m
}

// MeanStd returns the mean and standard deviation of a sample, used for the
// inverse-observation-error annotation lines.
func MeanStd(xs []float64) (mean, std float64) {
	s := stats.Sample{Xs: xs}
	return s.Mean(), s.StdDev()
}

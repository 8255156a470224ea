package impact

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// defaultBins covers [-1, 1) at width 0.1, the fallback for empty or
// degenerate samples.
func defaultBins() []float64 {
	return arange(-1, 1, 0.1)
}

// ComputeBins derives histogram bin edges from a Jo-diff sample. Width is
// (max-min)/sqrt(n), falling back to 0.1 when the sample is constant, and
// edges span [-4*sigma, 4*sigma). Always returns at least two edges.
func ComputeBins(joDiffs []float64) []float64 {
	if len(joDiffs) == 0 {
		return defaultBins()
	}
	s := stats.Sample{Xs: joDiffs}
	std := s.StdDev()
	mn, mx := s.Bounds()
	binsize := (mx - mn) / math.Sqrt(float64(len(joDiffs)))
	if binsize <= 0 || math.IsNaN(binsize) {
		binsize = 0.1
	}
	edges := arange(-4*std, 4*std, binsize)
	if len(edges) < 2 {
		return defaultBins()
	}
	return edges
}

// arange mirrors numpy.arange: values start, start+step, ... strictly below
// stop.
func arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop - start) / step))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		out = append(out, v)
	}
	return out
}

package charts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/nwpdiag/dataimpact/internal/impact"
	"github.com/nwpdiag/dataimpact/internal/metrics"
)

// HistogramInput carries everything the per-sensor histogram needs.
type HistogramInput struct {
	Sensor                string
	YYYY, MM, DD, HH      string
	Cycle                 string
	JoDiffs               []float64
	InvObsErrs            []float64
	TotalSize             int
	CountAssim            int
	CountLarge, CountZero int
}

// RenderHistogram writes the annotated per-sensor Jo-diff histogram to
// {outdir}/{sensor}-{cycle}.png and returns the path.
func RenderHistogram(in HistogramInput, outdir string) (string, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", outdir, err)
	}

	edges := impact.ComputeBins(in.JoDiffs)
	counts := binCounts(in.JoDiffs, edges)

	bars := make([]chart.Value, len(counts))
	labelEvery := len(counts)/8 + 1
	for i, c := range counts {
		v := chart.Value{Value: float64(c)}
		if i%labelEvery == 0 {
			v.Label = fmt.Sprintf("%.2f", edges[i])
		}
		bars[i] = v
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s %s.%s%s %sUTC", in.Sensor, in.YYYY, in.MM, in.DD, in.HH),
		Width:    1000,
		Height:   600,
		BarWidth: barWidth(1000, len(bars)),
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Name:  "Count",
			Style: chart.Style{FontSize: 10},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render histogram: %w", err)
	}
	img, err := decodeRGBA(buf.Bytes())
	if err != nil {
		return "", err
	}

	meanJo, _ := impact.MeanStd(in.JoDiffs)
	sumJo := 0.0
	maxAbs := 0.0
	for _, v := range in.JoDiffs {
		sumJo += v
		if a := abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	meanErr, stdErr := impact.MeanStd(in.InvObsErrs)

	annotateRel(img, []string{
		fmt.Sprintf("Total Obs Size = %d", in.TotalSize),
		fmt.Sprintf("Total Assim Obs Size = %d", in.CountAssim),
		fmt.Sprintf("Mean Jo-diff = %.4f", meanJo),
		fmt.Sprintf("Sum Jo-diff = %.4f", sumJo),
		fmt.Sprintf("Max Abs Jo-diff = %.4f", maxAbs),
		fmt.Sprintf("Total Size, Jo-diff > 25 = %d", in.CountLarge),
		fmt.Sprintf("Total Size, Jo-diff is Zero = %d", in.CountZero),
		fmt.Sprintf("AVG Inv Obs Error = %.4f", meanErr),
		fmt.Sprintf("STD Inv Obs Error = %.4f", stdErr),
	}, 0.66, 0.82, 0.04)

	path := filepath.Join(outdir, fmt.Sprintf("%s-%s.png", in.Sensor, in.Cycle))
	if err := writePNG(img, path); err != nil {
		return "", err
	}
	metrics.FiguresWritten.WithLabelValues("histogram").Inc()
	return path, nil
}

// binCounts histograms values over bin edges. Each bin is half-open
// [edge[i], edge[i+1]) except the last, which also takes values equal to the
// final edge; values outside the edge span are dropped.
func binCounts(values, edges []float64) []int {
	counts := make([]int, len(edges)-1)
	last := len(edges) - 1
	for _, v := range values {
		if v < edges[0] || v > edges[last] {
			continue
		}
		i := sort.SearchFloat64s(edges, v)
		if i > 0 && (i > last || edges[i] != v) {
			i--
		}
		if i >= len(counts) {
			i = len(counts) - 1
		}
		counts[i]++
	}
	return counts
}

func barWidth(figWidth, n int) int {
	if n == 0 {
		return 10
	}
	w := (figWidth - 120) / n
	if w < 2 {
		w = 2
	}
	return w
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

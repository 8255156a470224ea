package post

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nwpdiag/dataimpact/internal/charts"
	"github.com/nwpdiag/dataimpact/internal/persist"
)

// SummaryJob renders the cross-cycle FSOI-proxy figures from persisted
// summary records.
type SummaryJob struct {
	SummaryDir string
	FigDir     string
	Case       string // full-domain or sub-domain
	Mode       string // each, total or both
	Start, End string
	IRIndex    []int
	MWIndex    []int
}

func (j *SummaryJob) Run() error {
	cycles, err := CycleRange(j.Start, j.End)
	if err != nil {
		return err
	}
	outdir := filepath.Join(j.FigDir, j.Case)
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outdir, err)
	}

	var totals Totals
	processed := 0
	for _, cycle := range cycles {
		cd, ok, err := j.loadCycle(cycle)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if j.Mode == "each" || j.Mode == "both" {
			if err := j.renderCycle(cd, outdir); err != nil {
				return err
			}
		}
		if err := totals.Add(cd); err != nil {
			return err
		}
		processed++
	}

	log.Printf("post: accumulated %d of %d cycles", processed, len(cycles))
	if j.Mode == "total" || j.Mode == "both" {
		if totals.Cycles == 0 {
			log.Printf("post: no cycles found, skipping total figure")
			return nil
		}
		if err := j.renderTotal(&totals, outdir); err != nil {
			return err
		}
	}
	return nil
}

// loadCycle reads the three family summaries for one cycle. A cycle with any
// missing file is skipped, not an error; gaps are normal in long ranges.
func (j *SummaryJob) loadCycle(cycle string) (*CycleData, bool, error) {
	paths := map[string]string{
		"sate":    persist.SummaryPath(j.SummaryDir, cycle, "sate"),
		"conv":    persist.SummaryPath(j.SummaryDir, cycle, "conv"),
		"conv_uv": persist.SummaryPath(j.SummaryDir, cycle, "conv_uv"),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, false, nil
		}
	}
	sate, err := persist.ReadSummary(paths["sate"])
	if err != nil {
		return nil, false, err
	}
	conv, err := persist.ReadSummary(paths["conv"])
	if err != nil {
		return nil, false, err
	}
	convUV, err := persist.ReadSummary(paths["conv_uv"])
	if err != nil {
		return nil, false, err
	}
	cd, err := BuildCycleData(cycle, sate, conv, convUV)
	if err != nil {
		return nil, false, err
	}
	return cd, true, nil
}

func (j *SummaryJob) renderCycle(cd *CycleData, outdir string) error {
	irSum := Select(cd.SateSum, j.IRIndex)
	irAssim := Select(cd.SateAssim, j.IRIndex)

	in := charts.BarsInput{
		Title:       fmt.Sprintf("Date = %s", cd.Cycle),
		SensorTypes: cd.SensorTypes,
		Panels: []charts.Panel{
			{Label: "Total Impact [Unitless]", Values: cd.SumJoDiff},
			{Label: "Impact Per Obs [Unitless]", Values: cd.MeanJoDiff},
			{Label: "Assim Obs Size", Values: cd.AssimSize},
		},
		Colors:      charts.SensorColors(len(cd.SensorTypes), j.IRIndex, j.MWIndex),
		HeaderLeft:  impactHeader(cd.SateSum, irSum, cd.ConvSum, "Total Impact", 1),
		HeaderRight: impactHeader(cd.SateAssim, irAssim, cd.ConvAssim, "Total Assim", 1),
	}
	return charts.RenderImpactBars(in, filepath.Join(outdir, cd.Cycle+"-fsoi-proxy.png"))
}

func (j *SummaryJob) renderTotal(t *Totals, outdir string) error {
	n := float64(t.Cycles)
	perCycle := scale(t.SumJoDiff, 1/n)
	perObs := divide(t.SumJoDiff, t.AssimSize)
	assimPerCycle := scale(t.AssimSize, 1/n)

	irSum := Select(t.SateSum, j.IRIndex)
	irAssim := Select(t.SateAssim, j.IRIndex)

	in := charts.BarsInput{
		Title:       fmt.Sprintf("Cycle-Averaged Total Impact (%s)", j.Case),
		SensorTypes: t.SensorTypes,
		Panels: []charts.Panel{
			{Label: "Total Impact [Unitless]", Values: perCycle},
			{Label: "Impact Per Obs [Unitless]", Values: perObs},
			{Label: "Assim Obs Size Per Cycle", Values: assimPerCycle},
		},
		Colors:      charts.SensorColors(len(t.SensorTypes), j.IRIndex, j.MWIndex),
		HeaderLeft:  impactHeader(t.SateSum, irSum, t.ConvSum, "Avg Total Impact", n),
		HeaderRight: impactHeader(t.SateAssim, irAssim, t.ConvAssim, "Avg Assim", n),
	}
	return charts.RenderImpactBars(in, filepath.Join(outdir, "total-fsoi-proxy.png"))
}

// impactHeader builds the three split-summary lines: microwave satellite,
// infrared satellite, conventional. div averages totals over the cycle count.
func impactHeader(sate, ir, conv []float64, prefix string, div float64) []charts.HeaderLine {
	blue := color.RGBA{0, 0, 255, 255}
	red := color.RGBA{255, 0, 0, 255}
	fmtVal := func(v float64) string {
		return humanize.Comma(int64(math.Round(v / div)))
	}
	return []charts.HeaderLine{
		{Text: fmt.Sprintf("%s, MW Satellite = %s", prefix, fmtVal(Sum(sate)-Sum(ir))), Color: blue},
		{Text: fmt.Sprintf("%s, IR Satellite = %s", prefix, fmtVal(Sum(ir))), Color: red},
		{Text: fmt.Sprintf("%s, Conventional = %s", prefix, fmtVal(Sum(conv))), Color: color.Black},
	}
}

func scale(xs []float64, k float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * k
	}
	return out
}

// divide computes xs/ys elementwise, leaving zero where the denominator is
// zero (sensors with no assimilated observations).
func divide(xs, ys []float64) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		if ys[i] != 0 {
			out[i] = xs[i] / ys[i]
		}
	}
	return out
}

// SpatialJob renders one scatter map per detail record within a cycle range.
type SpatialJob struct {
	DetailDir  string
	FigDir     string
	Start, End string
}

func (j *SpatialJob) Run() error {
	cycles, err := CycleRange(j.Start, j.End)
	if err != nil {
		return err
	}
	wanted := make(map[string]bool, len(cycles))
	for _, c := range cycles {
		wanted[c] = true
	}

	files, err := filepath.Glob(filepath.Join(j.DetailDir, "*_detail.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Printf("post: no detail records under %s", j.DetailDir)
		return nil
	}
	log.Printf("post: %d detail records, cycles %s..%s", len(files), j.Start, j.End)

	count := 0
	for _, path := range files {
		cycle, sensor, err := ParseDetailName(path)
		if err != nil {
			log.Printf("post: skipping %s: %v", path, err)
			continue
		}
		if !wanted[cycle] {
			continue
		}
		det, err := persist.ReadDetail(path)
		if err != nil {
			return err
		}
		if det.Len() < 2 {
			log.Printf("post: %s has %d points, skipping map", path, det.Len())
			continue
		}
		out := filepath.Join(j.FigDir, fmt.Sprintf("%s_%s_detail.png", cycle, sensor))
		if err := charts.RenderSpatial(charts.SpatialInput{
			Sensor: sensor,
			Cycle:  cycle,
			Lats:   det.Latitude,
			Lons:   det.Longitude,
			Extent: charts.RRFSAExtent,
		}, out); err != nil {
			return err
		}
		count++
	}
	log.Printf("post: plotted %d detail files", count)
	return nil
}

// ParseDetailName splits a detail filename of the form
// {cycle}_{sensor}_detail.json into its cycle and sensor parts.
func ParseDetailName(path string) (cycle, sensor string, err error) {
	base := filepath.Base(path)
	name, ok := strings.CutSuffix(base, "_detail.json")
	if !ok {
		return "", "", fmt.Errorf("not a detail record name: %s", base)
	}
	i := strings.IndexByte(name, '_')
	if i <= 0 || i == len(name)-1 {
		return "", "", fmt.Errorf("not a detail record name: %s", base)
	}
	cycle, sensor = name[:i], name[i+1:]
	if _, err := CycleRange(cycle, cycle); err != nil {
		return "", "", fmt.Errorf("bad cycle in %s: %w", base, err)
	}
	return cycle, sensor, nil
}

package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/nwpdiag/dataimpact/internal/metrics"
)

// Panel is one bar panel of the cross-cycle impact figure.
type Panel struct {
	Label  string
	Values []float64
}

// HeaderLine is one colored summary line in the figure header.
type HeaderLine struct {
	Text  string
	Color color.Color
}

// BarsInput describes a three-panel grouped impact figure: total impact,
// impact per observation, and assimilated size, one bar per sensor type.
type BarsInput struct {
	Title       string
	SensorTypes []string
	Panels      []Panel
	// Colors gives the per-sensor bar color (IR/MW/conventional split).
	Colors      []drawing.Color
	HeaderLeft  []HeaderLine
	HeaderRight []HeaderLine
}

const barsHeaderHeight = 90

// RenderImpactBars writes the composite figure to path.
func RenderImpactBars(in BarsInput, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	panels := make([]*image.RGBA, 0, len(in.Panels))
	for _, p := range in.Panels {
		img, err := renderBarPanel(p, in.SensorTypes, in.Colors)
		if err != nil {
			return err
		}
		panels = append(panels, img)
	}

	out := composeRow(panels, barsHeaderHeight)
	w := out.Bounds().Dx()

	title := in.Title
	drawText(out, title, (w-textWidth(title, annotationFace))/2, 20, color.Black, annotationFace)
	for i, line := range in.HeaderLeft {
		drawText(out, line.Text, 20, 40+i*16, line.Color, annotationFace)
	}
	for i, line := range in.HeaderRight {
		x := w - 20 - textWidth(line.Text, annotationFace)
		drawText(out, line.Text, x, 40+i*16, line.Color, annotationFace)
	}

	if err := writePNG(out, path); err != nil {
		return err
	}
	metrics.FiguresWritten.WithLabelValues("impact-bars").Inc()
	return nil
}

func renderBarPanel(p Panel, sensors []string, colors []drawing.Color) (*image.RGBA, error) {
	bars := make([]chart.Value, len(p.Values))
	for i, v := range p.Values {
		bar := chart.Value{Value: v, Label: sensors[i]}
		if i < len(colors) {
			bar.Style = chart.Style{FillColor: colors[i], StrokeColor: colors[i]}
		}
		bars[i] = bar
	}

	graph := chart.BarChart{
		Width:    600,
		Height:   700,
		BarWidth: barWidth(600, len(bars)),
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 15, Right: 15, Bottom: 20},
		},
		XAxis: chart.Style{FontSize: 6, TextRotationDegrees: 90},
		YAxis: chart.YAxis{
			Name:  p.Label,
			Style: chart.Style{FontSize: 9},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s panel: %w", p.Label, err)
	}
	return decodeRGBA(buf.Bytes())
}

// SensorColors builds the per-sensor palette: red for infrared satellite
// slots, blue for microwave, black for everything else.
func SensorColors(n int, irIndex, mwIndex []int) []drawing.Color {
	ir := make(map[int]bool, len(irIndex))
	for _, i := range irIndex {
		ir[i] = true
	}
	mw := make(map[int]bool, len(mwIndex))
	for _, i := range mwIndex {
		mw[i] = true
	}
	colors := make([]drawing.Color, n)
	for i := range colors {
		switch {
		case ir[i]:
			colors[i] = chart.ColorRed
		case mw[i]:
			colors[i] = chart.ColorBlue
		default:
			colors[i] = chart.ColorBlack
		}
	}
	return colors
}

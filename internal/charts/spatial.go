package charts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/nwpdiag/dataimpact/internal/metrics"
	"github.com/nwpdiag/dataimpact/internal/models"
)

// SpatialInput describes one observation-location scatter map.
type SpatialInput struct {
	Sensor string
	Cycle  string
	Lats   []float64
	Lons   []float64
	// Extent bounds the axes; zero value means autoscale.
	Extent SpatialExtent
}

type SpatialExtent struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// RRFSAExtent is the default map window, matching the RRFS-A domain.
var RRFSAExtent = SpatialExtent{LatMin: 0, LatMax: 85, LonMin: 140, LonMax: 350}

// RenderSpatial writes an observation scatter map to path. Longitudes are
// normalized to [0, 360) so domains spanning the antimeridian plot
// contiguously. At least two points are required.
func RenderSpatial(in SpatialInput, path string) error {
	if len(in.Lats) != len(in.Lons) {
		return fmt.Errorf("%s: latitude/longitude arrays are not parallel", in.Sensor)
	}
	if len(in.Lats) < 2 {
		return fmt.Errorf("%s: need at least 2 points, have %d", in.Sensor, len(in.Lats))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	lons := make([]float64, len(in.Lons))
	for i, lon := range in.Lons {
		lons[i] = models.NormalizeLon(lon)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s %s spatial distribution (N=%d)", in.Sensor, in.Cycle, len(in.Lats)),
		Width:  1000,
		Height: 500,
		XAxis: chart.XAxis{
			Name: "Longitude",
		},
		YAxis: chart.YAxis{
			Name: "Latitude",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: lons,
				YValues: in.Lats,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    1.5,
					DotColor:    chart.ColorBlue,
				},
			},
		},
	}
	if in.Extent != (SpatialExtent{}) {
		graph.XAxis.Range = &chart.ContinuousRange{Min: in.Extent.LonMin, Max: in.Extent.LonMax}
		graph.YAxis.Range = &chart.ContinuousRange{Min: in.Extent.LatMin, Max: in.Extent.LatMax}
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render spatial map: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	metrics.FiguresWritten.WithLabelValues("spatial").Inc()
	return nil
}

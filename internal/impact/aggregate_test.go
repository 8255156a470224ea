package impact

import (
	"math"
	"testing"

	"github.com/nwpdiag/dataimpact/internal/models"
)

func row(station string, useFlag int, errinv float64, omf ...float64) models.Row {
	return models.Row{
		StationID: station,
		ObsType:   120,
		Latitude:  40,
		Longitude: 250,
		Pressure:  850,
		UseFlag:   useFlag,
		ErrInv:    errinv,
		OmF:       omf,
	}
}

func tables(ges, anl []models.Row) (*models.Table, *models.Table) {
	return &models.Table{Sensor: "conv_t", Rows: ges},
		&models.Table{Sensor: "conv_t", Rows: anl}
}

func TestAggregateSensorComputesJoDiff(t *testing.T) {
	// (anl_omf^2 - ges_omf^2) * errinv^2 = (4 - 1) * 0.25 = 0.75
	ges, anl := tables(
		[]models.Row{row("A1", 1, 0.5, 1.0)},
		[]models.Row{row("A1", 1, 0.5, 2.0)},
	)

	res, err := AggregateSensor(ConventionalFamily(nil), "conv_t", ges, anl, Options{})
	if err != nil {
		t.Fatalf("AggregateSensor: %v", err)
	}
	if res.CountAssim != 1 {
		t.Fatalf("CountAssim = %d, want 1", res.CountAssim)
	}
	if got := res.JoDiffs[0]; math.Abs(got-0.75) > 1e-12 {
		t.Errorf("jo_diff = %v, want 0.75", got)
	}
	if res.TotalSize != 1 {
		t.Errorf("TotalSize = %d, want 1", res.TotalSize)
	}
	if res.CountLarge != 0 || res.CountZero != 0 {
		t.Errorf("CountLarge/CountZero = %d/%d, want 0/0", res.CountLarge, res.CountZero)
	}
	// The guess file's inverse error is never used; only the analysis value
	// enters the metric.
	ges.Rows[0].ErrInv = 99
	res, err = AggregateSensor(ConventionalFamily(nil), "conv_t", ges, anl, Options{})
	if err != nil {
		t.Fatalf("AggregateSensor: %v", err)
	}
	if got := res.JoDiffs[0]; math.Abs(got-0.75) > 1e-12 {
		t.Errorf("jo_diff = %v after guess errinv change, want 0.75", got)
	}
}

func TestAggregateSensorSkipRules(t *testing.T) {
	tests := []struct {
		name    string
		gesFlag int
		anlFlag int
		errinv  float64
		domain  DomainFilter
		want    int
	}{
		{"retained", 1, 1, 0.5, nil, 1},
		{"zero inverse error", 1, 1, 0, nil, 0},
		{"nan inverse error", 1, 1, math.NaN(), nil, 0},
		{"guess not assimilated", -1, 1, 0.5, nil, 0},
		{"analysis not assimilated", 1, -1, 0.5, nil, 0},
		{"both monitored", -1, -1, 0.5, nil, 0},
		{"outside domain", 1, 1, 0.5, func(lat, lon float64) bool { return false }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ges, anl := tables(
				[]models.Row{row("A1", tt.gesFlag, tt.errinv, 1.0)},
				[]models.Row{row("A1", tt.anlFlag, tt.errinv, 2.0)},
			)
			res, err := AggregateSensor(ConventionalFamily(nil), "conv_t", ges, anl, Options{Domain: tt.domain})
			if err != nil {
				t.Fatalf("AggregateSensor: %v", err)
			}
			if res.CountAssim != tt.want {
				t.Errorf("CountAssim = %d, want %d", res.CountAssim, tt.want)
			}
			if res.TotalSize != 1 {
				t.Errorf("TotalSize = %d, want 1 regardless of filtering", res.TotalSize)
			}
		})
	}
}

func TestAggregateSensorOutlierAndZeroCounts(t *testing.T) {
	// Row 0: jo = (100 - 0) * 1 = 100, an outlier.
	// Row 1: jo = 0, counted as zero, not as outlier.
	// Row 2: jo = 0.75, counted as neither.
	ges, anl := tables(
		[]models.Row{row("A1", 1, 1.0, 0.0), row("A2", 1, 1.0, 3.0), row("A3", 1, 0.5, 1.0)},
		[]models.Row{row("A1", 1, 1.0, 10.0), row("A2", 1, 1.0, 3.0), row("A3", 1, 0.5, 2.0)},
	)

	res, err := AggregateSensor(ConventionalFamily(nil), "conv_t", ges, anl, Options{})
	if err != nil {
		t.Fatalf("AggregateSensor: %v", err)
	}
	if res.CountAssim != 3 {
		t.Fatalf("CountAssim = %d, want 3", res.CountAssim)
	}
	if res.CountLarge != 1 {
		t.Errorf("CountLarge = %d, want 1", res.CountLarge)
	}
	if res.CountZero != 1 {
		t.Errorf("CountZero = %d, want 1", res.CountZero)
	}
	// Outliers and zeros stay in the sample; the counts only annotate them.
	if len(res.JoDiffs) != 3 {
		t.Errorf("len(JoDiffs) = %d, want 3", len(res.JoDiffs))
	}
}

func TestAggregateSensorWindComponents(t *testing.T) {
	ges, anl := tables(
		[]models.Row{row("A1", 1, 0.5, 1.0, 2.0)},
		[]models.Row{row("A1", 1, 0.5, 2.0, 1.0)},
	)

	res, err := AggregateSensor(WindFamily(nil), "conv_uv", ges, anl, Options{SaveDetail: true})
	if err != nil {
		t.Fatalf("AggregateSensor: %v", err)
	}
	if res.TotalSize != 2 {
		t.Errorf("TotalSize = %d, want 2 (u and v)", res.TotalSize)
	}
	if res.CountAssim != 2 {
		t.Fatalf("CountAssim = %d, want 2", res.CountAssim)
	}
	// u: (4-1)*0.25 = 0.75, v: (1-4)*0.25 = -0.75
	if got := res.JoDiffs[0]; math.Abs(got-0.75) > 1e-12 {
		t.Errorf("u jo_diff = %v, want 0.75", got)
	}
	if got := res.JoDiffs[1]; math.Abs(got+0.75) > 1e-12 {
		t.Errorf("v jo_diff = %v, want -0.75", got)
	}
	if res.Detail.Len() != 2 {
		t.Errorf("detail has %d entries, want one per component", res.Detail.Len())
	}
}

func TestAggregateSensorMisalignment(t *testing.T) {
	mismatchStation := row("B9", 1, 0.5, 2.0)

	mismatchLat := row("A1", 1, 0.5, 2.0)
	mismatchLat.Latitude = 41

	tests := []struct {
		name string
		anl  models.Row
	}{
		{"station mismatch", mismatchStation},
		{"latitude mismatch", mismatchLat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ges, anl := tables(
				[]models.Row{row("A1", 1, 0.5, 1.0)},
				[]models.Row{tt.anl},
			)
			if _, err := AggregateSensor(ConventionalFamily(nil), "conv_t", ges, anl, Options{}); err == nil {
				t.Error("misaligned pair accepted, want error")
			}
		})
	}
}

func TestAggregateSensorNaNCoordinatesAlign(t *testing.T) {
	g := row("A1", 1, 0.5, 1.0)
	a := row("A1", 1, 0.5, 2.0)
	g.Latitude, a.Latitude = math.NaN(), math.NaN()
	g.Longitude, a.Longitude = math.NaN(), math.NaN()

	ges, anl := tables([]models.Row{g}, []models.Row{a})
	res, err := AggregateSensor(ConventionalFamily(nil), "conv_t", ges, anl, Options{})
	if err != nil {
		t.Fatalf("NaN coordinates on both sides should align: %v", err)
	}
	if res.CountAssim != 1 {
		t.Errorf("CountAssim = %d, want 1", res.CountAssim)
	}
}

func TestAggregateSensorLengthMismatch(t *testing.T) {
	ges, anl := tables(
		[]models.Row{row("A1", 1, 0.5, 1.0), row("A2", 1, 0.5, 1.0)},
		[]models.Row{row("A1", 1, 0.5, 2.0)},
	)
	if _, err := AggregateSensor(ConventionalFamily(nil), "conv_t", ges, anl, Options{}); err == nil {
		t.Error("row count mismatch accepted, want error")
	}
}

func TestAggregateSensorChannelInfo(t *testing.T) {
	g := row("", 0, 0.8, 1.0)
	a := row("", 0, 0.8, 2.0)
	g.Channel, a.Channel = 7, 7

	skippedG := row("", -1, 0.8, 1.0)
	skippedA := row("", -1, 0.8, 2.0)
	skippedG.Channel, skippedA.Channel = 8, 8

	ges, anl := tables([]models.Row{g, skippedG}, []models.Row{a, skippedA})
	res, err := AggregateSensor(RadianceFamily(nil), "atms_n20", ges, anl, Options{SaveChannelInfo: true})
	if err != nil {
		t.Fatalf("AggregateSensor: %v", err)
	}
	if res.ChannelInfo == nil {
		t.Fatal("ChannelInfo is nil, want record")
	}
	if len(res.ChannelInfo.Channels) != 1 {
		t.Fatalf("channel metadata has %d entries, want one per retained row", len(res.ChannelInfo.Channels))
	}
	if res.ChannelInfo.Channels[0] != 7 {
		t.Errorf("channels = %v, want [7]", res.ChannelInfo.Channels)
	}
	if res.CountAssim != 1 {
		t.Errorf("CountAssim = %d, want 1 (monitored row excluded from statistics)", res.CountAssim)
	}
}

package impact

import (
	"fmt"
	"log"
	"math"

	"github.com/nwpdiag/dataimpact/internal/metrics"
	"github.com/nwpdiag/dataimpact/internal/models"
)

const (
	// outlierThreshold flags a suspiciously large |Jo-diff|.
	outlierThreshold = 25.0
	// warnSampleLimit bounds the number of per-observation warnings
	// logged for each sensor.
	warnSampleLimit = 10
)

// Options configures one sensor aggregation.
type Options struct {
	Domain          DomainFilter
	SaveDetail      bool
	SaveChannelInfo bool
}

// SensorResult accumulates one sensor's worth of Jo-diff statistics for one
// cycle.
type SensorResult struct {
	Sensor      string
	TotalSize   int
	JoDiffs     []float64
	InvObsErrs  []float64
	CountAssim  int
	CountLarge  int
	CountZero   int
	Detail      *models.DetailRecord
	ChannelInfo *models.ChannelRecord
}

// AggregateSensor runs the filter/compute loop over a paired guess/analysis
// table. The two tables must hold the same observations in the same order;
// alignment is verified per row and a mismatch is a hard error, since a
// silent misalignment would corrupt every statistic downstream.
func AggregateSensor(fam Family, sensor string, ges, anl *models.Table, opts Options) (*SensorResult, error) {
	if ges.Len() != anl.Len() {
		return nil, fmt.Errorf("%s: guess table has %d rows, analysis table has %d", sensor, ges.Len(), anl.Len())
	}
	if opts.Domain == nil {
		opts.Domain = FullDomain
	}

	res := &SensorResult{
		Sensor:    sensor,
		TotalSize: anl.Len() * fam.Components,
	}
	if opts.SaveDetail {
		res.Detail = &models.DetailRecord{}
	}
	if opts.SaveChannelInfo && fam.Radiance {
		res.ChannelInfo = &models.ChannelRecord{Sensor: sensor}
	}
	compNames := fam.componentNames()

	for i := range anl.Rows {
		g, a := &ges.Rows[i], &anl.Rows[i]
		if err := checkAligned(g, a); err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", sensor, i, err)
		}
		if fam.ProgressEvery > 0 && i%fam.ProgressEvery == 0 {
			log.Printf("%s: processing row %d of %d", sensor, i, anl.Len())
		}

		errinv := a.ErrInv
		if errinv == 0 || math.IsNaN(errinv) {
			continue
		}
		if g.UseFlag != fam.AssimFlag || a.UseFlag != fam.AssimFlag {
			continue
		}
		if !opts.Domain(a.Latitude, a.Longitude) {
			continue
		}

		for c := 0; c < fam.Components; c++ {
			jo := (a.OmF[c]*a.OmF[c] - g.OmF[c]*g.OmF[c]) * errinv * errinv

			if math.Abs(jo) > outlierThreshold {
				res.CountLarge++
				metrics.OutlierValues.WithLabelValues(sensor).Inc()
				if res.CountLarge <= warnSampleLimit {
					comp := ""
					if compNames[c] != "" {
						comp = " comp=" + compNames[c]
					}
					log.Printf("%s: row %d%s jo_diff=%.3f exceeds %.0f (anl_omf=%.3f ges_omf=%.3f errinv=%.3f)",
						sensor, i, comp, jo, outlierThreshold, a.OmF[c], g.OmF[c], errinv)
				}
			} else if jo == 0 {
				res.CountZero++
				metrics.ZeroValues.WithLabelValues(sensor).Inc()
				if res.CountZero <= warnSampleLimit {
					comp := ""
					if compNames[c] != "" {
						comp = " comp=" + compNames[c]
					}
					log.Printf("%s: row %d%s jo_diff == 0, check obs or inverse error", sensor, i, comp)
				}
			}

			res.JoDiffs = append(res.JoDiffs, jo)
			res.InvObsErrs = append(res.InvObsErrs, errinv)
			res.CountAssim++
			if res.Detail != nil {
				res.Detail.Append(jo, errinv, a.Latitude, a.Longitude, a.Pressure, a.ObsType)
			}
		}
		if res.ChannelInfo != nil {
			res.ChannelInfo.Channels = append(res.ChannelInfo.Channels, a.Channel)
			res.ChannelInfo.Latitudes = append(res.ChannelInfo.Latitudes, a.Latitude)
			res.ChannelInfo.Longitudes = append(res.ChannelInfo.Longitudes, a.Longitude)
		}
		metrics.ObservationsRetained.WithLabelValues(sensor).Add(float64(fam.Components))
	}

	log.Printf("%s: |jo_diff|>%.0f count = %d", sensor, outlierThreshold, res.CountLarge)
	log.Printf("%s: jo_diff == 0 count = %d", sensor, res.CountZero)
	return res, nil
}

// checkAligned verifies that a guess/analysis row pair describes the same
// observation. Identity fields are written identically into both files by
// the analysis, so exact comparison is safe.
func checkAligned(g, a *models.Row) error {
	if g.StationID != a.StationID || g.ObsType != a.ObsType ||
		g.ObsSubtype != a.ObsSubtype || g.Channel != a.Channel {
		return fmt.Errorf("guess/analysis identity mismatch (station %q/%q type %d/%d subtype %d/%d channel %d/%d)",
			g.StationID, a.StationID, g.ObsType, a.ObsType, g.ObsSubtype, a.ObsSubtype, g.Channel, a.Channel)
	}
	if !sameCoord(g.Latitude, a.Latitude) || !sameCoord(g.Longitude, a.Longitude) {
		return fmt.Errorf("guess/analysis location mismatch (%.4f,%.4f vs %.4f,%.4f)",
			g.Latitude, g.Longitude, a.Latitude, a.Longitude)
	}
	return nil
}

func sameCoord(x, y float64) bool {
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	return x == y
}

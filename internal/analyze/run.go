// Package analyze drives one cycle of observation-impact processing for one
// sensor family: read the paired guess/analysis diagnostic tables, run the
// aggregation loop per sensor, render the histogram, and persist the summary
// and optional detail/channel records.
package analyze

import (
	"fmt"
	"log"
	"os"

	"github.com/nwpdiag/dataimpact/internal/charts"
	"github.com/nwpdiag/dataimpact/internal/diag"
	"github.com/nwpdiag/dataimpact/internal/impact"
	"github.com/nwpdiag/dataimpact/internal/metrics"
	"github.com/nwpdiag/dataimpact/internal/models"
	"github.com/nwpdiag/dataimpact/internal/persist"
	"github.com/nwpdiag/dataimpact/internal/store"
)

// Run is one family/cycle analysis invocation.
type Run struct {
	Family           impact.Family
	YYYY, MM, DD, HH string
	DataPath         string

	Domain          impact.DomainFilter
	SaveDetail      bool
	SaveChannelInfo bool

	SummaryDir string
	DetailDir  string
	FigDir     string

	// Store, when non-nil, mirrors the summary record into SQLite.
	Store *store.Store
}

// Cycle returns the YYYYMMDDHH cycle string.
func (r *Run) Cycle() string {
	return r.YYYY + r.MM + r.DD + r.HH
}

// Execute processes every sensor of the family for this cycle. A sensor
// whose guess file is absent is skipped with a warning; the summary record
// keeps its zero row. Malformed data is a hard error.
func (r *Run) Execute() error {
	cycle := r.Cycle()
	summary := impact.NewCycleSummary(r.Family.Sensors)

	for ss, sensor := range r.Family.Sensors {
		gesPath := diag.Path(r.DataPath, r.HH, sensor, "ges", cycle)
		anlPath := diag.Path(r.DataPath, r.HH, sensor, "anl", cycle)

		if _, err := os.Stat(gesPath); err != nil {
			log.Printf("missing diag file for %s: %s", sensor, gesPath)
			metrics.MissingDiagFiles.WithLabelValues(sensor).Inc()
			continue
		}

		log.Printf("processing %s", sensor)
		ges, anl, err := r.openPair(sensor, gesPath, anlPath)
		if err != nil {
			return err
		}

		assim, monitored, rejected := ges.QCCounts(r.Family.AssimFlag)
		k := r.Family.Components
		log.Printf("%s: total=%d assimilated=%d monitored=%d rejected=%d",
			sensor, ges.Len()*k, assim*k, monitored*k, rejected*k)

		res, err := impact.AggregateSensor(r.Family, sensor, ges, anl, impact.Options{
			Domain:          r.Domain,
			SaveDetail:      r.SaveDetail,
			SaveChannelInfo: r.SaveChannelInfo,
		})
		if err != nil {
			return err
		}

		if res.CountAssim == 0 {
			log.Printf("%s: no assimilated observations retained", sensor)
			continue
		}

		summary.SetSensor(ss, res)

		figPath, err := charts.RenderHistogram(charts.HistogramInput{
			Sensor:     sensor,
			YYYY:       r.YYYY,
			MM:         r.MM,
			DD:         r.DD,
			HH:         r.HH,
			Cycle:      cycle,
			JoDiffs:    res.JoDiffs,
			InvObsErrs: res.InvObsErrs,
			TotalSize:  res.TotalSize,
			CountAssim: res.CountAssim,
			CountLarge: res.CountLarge,
			CountZero:  res.CountZero,
		}, r.FigDir)
		if err != nil {
			return fmt.Errorf("%s: %w", sensor, err)
		}
		log.Printf("saved figure %s", figPath)

		if res.Detail != nil {
			path, err := persist.WriteDetail(r.DetailDir, cycle, sensor, res.Detail)
			if err != nil {
				return fmt.Errorf("%s: %w", sensor, err)
			}
			log.Printf("saved detail %s", path)
		}
		if res.ChannelInfo != nil {
			path, err := persist.WriteChannelInfo(r.SummaryDir, cycle, res.ChannelInfo)
			if err != nil {
				return fmt.Errorf("%s: %w", sensor, err)
			}
			log.Printf("saved channel metadata %s", path)
		}
	}

	path, err := persist.WriteSummary(r.SummaryDir, cycle, r.Family.Label, summary.Record())
	if err != nil {
		return err
	}
	log.Printf("saved summary %s", path)

	if r.Store != nil {
		if err := r.Store.RecordSummary(cycle, r.Family.Label, summary.Record()); err != nil {
			return fmt.Errorf("mirror summary: %w", err)
		}
	}
	return nil
}

func (r *Run) openPair(sensor, gesPath, anlPath string) (*models.Table, *models.Table, error) {
	open := diag.OpenConventional
	if r.Family.Radiance {
		open = diag.OpenRadiance
	}
	ges, err := open(gesPath, sensor)
	if err != nil {
		return nil, nil, err
	}
	anl, err := open(anlPath, sensor)
	if err != nil {
		return nil, nil, err
	}
	return ges, anl, nil
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ObservationsRetained = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataimpact_observations_retained_total",
			Help: "Observations passing QC and domain filters, per sensor",
		},
		[]string{"sensor"},
	)

	OutlierValues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataimpact_jo_diff_outliers_total",
			Help: "Jo-diff values with absolute value above the outlier threshold",
		},
		[]string{"sensor"},
	)

	ZeroValues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataimpact_jo_diff_zero_total",
			Help: "Jo-diff values exactly equal to zero",
		},
		[]string{"sensor"},
	)

	MissingDiagFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataimpact_missing_diag_files_total",
			Help: "Diagnostic files absent at processing time, per sensor",
		},
		[]string{"sensor"},
	)

	FiguresWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataimpact_figures_written_total",
			Help: "Figures rendered to disk, by figure kind",
		},
		[]string{"kind"},
	)
)

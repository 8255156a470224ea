package diag

import (
	"fmt"

	"github.com/nwpdiag/dataimpact/internal/models"
)

// OpenRadiance reads one satellite radiance diagnostic file. Residuals and
// the inverse observation error are optional in some producer versions and
// default to NaN when absent; identity and QC fields are required.
func OpenRadiance(path, sensor string) (*models.Table, error) {
	nc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	lat, err := floatVar(nc, "Latitude")
	if err != nil {
		return nil, err
	}
	lon, err := floatVar(nc, "Longitude")
	if err != nil {
		return nil, err
	}
	qcFlag, err := intVar(nc, "QC_Flag")
	if err != nil {
		return nil, err
	}
	channel, err := intVar(nc, "Channel_Index")
	if err != nil {
		return nil, err
	}

	n := len(lat)
	omf, err := optionalFloatVar(nc, "Obs_Minus_Forecast_adjusted", n)
	if err != nil {
		return nil, err
	}
	errinv, err := optionalFloatVar(nc, "Inverse_Observation_Error", n)
	if err != nil {
		return nil, err
	}

	if len(lon) != n || len(qcFlag) != n || len(channel) != n || len(omf) != n || len(errinv) != n {
		return nil, fmt.Errorf("%s: ragged variable lengths", path)
	}

	t := &models.Table{Sensor: sensor, Rows: make([]models.Row, n)}
	for i := 0; i < n; i++ {
		t.Rows[i] = models.Row{
			Channel:   channel[i],
			Latitude:  lat[i],
			Longitude: lon[i],
			UseFlag:   qcFlag[i],
			ErrInv:    errinv[i],
			OmF:       []float64{omf[i]},
		}
	}
	return t, nil
}

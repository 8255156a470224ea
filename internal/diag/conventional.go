package diag

import (
	"fmt"
	"strings"

	"github.com/nwpdiag/dataimpact/internal/models"
)

// OpenConventional reads one conventional diagnostic file. Wind-vector
// sensors (conv_uv) carry u/v residual pairs; everything else carries a
// single residual per row.
func OpenConventional(path, sensor string) (*models.Table, error) {
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
	press, err := floatVar(nc, "Pressure")
	if err != nil {
		return nil, err
	}
	useFlag, err := intVar(nc, "Analysis_Use_Flag")
	if err != nil {
		return nil, err
	}
	obsType, err := intVar(nc, "Observation_Type")
	if err != nil {
		return nil, err
	}
	obsSubtype, err := intVar(nc, "Observation_Subtype")
	if err != nil {
		return nil, err
	}
	obsClass, err := stringVar(nc, "Observation_Class")
	if err != nil {
		return nil, err
	}
	station, err := stringVar(nc, "Station_ID")
	if err != nil {
		return nil, err
	}
	errinv, err := floatVar(nc, "Errinv_Final")
	if err != nil {
		return nil, err
	}

	var omf [][]float64
	if isWind(sensor) {
		u, err := floatVar(nc, "u_Obs_Minus_Forecast_adjusted")
		if err != nil {
			return nil, err
		}
		v, err := floatVar(nc, "v_Obs_Minus_Forecast_adjusted")
		if err != nil {
			return nil, err
		}
		omf = [][]float64{u, v}
	} else {
		o, err := floatVar(nc, "Obs_Minus_Forecast_adjusted")
		if err != nil {
			return nil, err
		}
		omf = [][]float64{o}
	}

	n := len(lat)
	for _, col := range [][]float64{lon, press, errinv} {
		if len(col) != n {
			return nil, fmt.Errorf("%s: ragged variable lengths", path)
		}
	}
	if len(useFlag) != n || len(obsType) != n || len(obsSubtype) != n ||
		len(obsClass) != n || len(station) != n {
		return nil, fmt.Errorf("%s: ragged variable lengths", path)
	}
	for _, col := range omf {
		if len(col) != n {
			return nil, fmt.Errorf("%s: ragged residual lengths", path)
		}
	}

	t := &models.Table{Sensor: sensor, Rows: make([]models.Row, n)}
	for i := 0; i < n; i++ {
		row := models.Row{
			StationID:  station[i],
			ObsClass:   obsClass[i],
			ObsType:    obsType[i],
			ObsSubtype: obsSubtype[i],
			Latitude:   lat[i],
			Longitude:  lon[i],
			Pressure:   press[i],
			UseFlag:    useFlag[i],
			ErrInv:     errinv[i],
			OmF:        make([]float64, len(omf)),
		}
		for c := range omf {
			row.OmF[c] = omf[c][i]
		}
		t.Rows[i] = row
	}
	return t, nil
}

func isWind(sensor string) bool {
	return strings.HasSuffix(sensor, "_uv")
}

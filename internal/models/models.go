package models

import "math"

// Row is one observation row from a diagnostic table, in the shape the
// aggregation loop consumes. Guess and analysis tables produce the same
// layout; OmF carries one residual per component (two for wind vectors).
type Row struct {
	StationID  string
	ObsClass   string
	ObsType    int
	ObsSubtype int
	Channel    int
	Latitude   float64
	Longitude  float64
	Pressure   float64
	UseFlag    int
	ErrInv     float64
	OmF        []float64
}

// Table is one diagnostic file's worth of rows for a single sensor.
type Table struct {
	Sensor string
	Rows   []Row
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// QCCounts buckets rows by quality-control disposition given the family's
// assimilated sentinel (1 for conventional, 0 for radiance).
func (t *Table) QCCounts(assimFlag int) (assimilated, monitored, rejected int) {
	for _, r := range t.Rows {
		switch {
		case r.UseFlag == assimFlag:
			assimilated++
		case r.UseFlag < 0:
			monitored++
		default:
			rejected++
		}
	}
	return
}

// SummaryRecord is the per-(cycle, label) persisted summary. The four numeric
// slices are aligned by sensor index with SensorTypes; sensors with no
// assimilated observations stay zero. The on-disk form is a positional
// six-element array (see persist), which downstream readers destructure by
// position.
type SummaryRecord struct {
	SensorTypes  []string
	TotalSize    []float64
	AssimSize    []float64
	MeanJoDiff   []float64
	SumJoDiff    []float64
	MaxAbsJoDiff []float64
}

// NewSummaryRecord returns a record with all-zero slices sized to sensors.
func NewSummaryRecord(sensors []string) SummaryRecord {
	n := len(sensors)
	return SummaryRecord{
		SensorTypes:  sensors,
		TotalSize:    make([]float64, n),
		AssimSize:    make([]float64, n),
		MeanJoDiff:   make([]float64, n),
		SumJoDiff:    make([]float64, n),
		MaxAbsJoDiff: make([]float64, n),
	}
}

// DetailRecord holds per-observation arrays for one (cycle, sensor). All six
// slices are parallel; vector sensors contribute two entries per record.
type DetailRecord struct {
	JoDiff          []float64 `json:"jo_diff"`
	InvObsErrors    []float64 `json:"inv_obs_errors"`
	Latitude        []float64 `json:"latitude"`
	Longitude       []float64 `json:"longitude"`
	Pressure        []float64 `json:"pressure"`
	ObservationType []int     `json:"observation_type"`
}

func (d *DetailRecord) Len() int {
	if d == nil {
		return 0
	}
	return len(d.JoDiff)
}

func (d *DetailRecord) Append(jo, errinv, lat, lon, press float64, obsType int) {
	d.JoDiff = append(d.JoDiff, jo)
	d.InvObsErrors = append(d.InvObsErrors, errinv)
	d.Latitude = append(d.Latitude, lat)
	d.Longitude = append(d.Longitude, lon)
	d.Pressure = append(d.Pressure, press)
	d.ObservationType = append(d.ObservationType, obsType)
}

// ChannelRecord is the optional radiance side file: channel index and
// location for every retained observation of one sensor. Persisted as a
// positional four-element array [sensor, channels, latitudes, longitudes].
type ChannelRecord struct {
	Sensor     string
	Channels   []int
	Latitudes  []float64
	Longitudes []float64
}

// NormalizeLon maps a longitude into [0, 360).
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

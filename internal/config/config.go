// Package config holds the sensor inventory and spatial-domain presets.
// Compiled-in defaults match the operational RRFS cycling setup; a YAML file
// can override any field.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Box is a latitude/longitude bounding box. Longitudes are in [0, 360).
type Box struct {
	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
	LonMin float64 `yaml:"lon_min"`
	LonMax float64 `yaml:"lon_max"`
}

type Config struct {
	// ConvSensors are the conventional scalar diagnostic types.
	ConvSensors []string `yaml:"conv_sensors"`
	// WindSensors are the conventional wind-vector diagnostic types.
	WindSensors []string `yaml:"wind_sensors"`
	// SateSensors are the satellite radiance instruments.
	SateSensors []string `yaml:"sate_sensors"`

	// IRIndex and MWIndex partition SateSensors into infrared and
	// microwave instruments for the post-processing bar charts.
	IRIndex []int `yaml:"ir_index"`
	MWIndex []int `yaml:"mw_index"`

	// Domains are named spatial filters usable as --domain values.
	Domains map[string]Box `yaml:"domains"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ConvSensors: []string{
			"conv_fed", "conv_ps", "conv_pw", "conv_q", "conv_rw", "conv_sst", "conv_t",
		},
		WindSensors: []string{"conv_uv"},
		SateSensors: []string{
			"abi_g16", "abi_g18", "amsua_metop-b", "amsua_metop-c", "amsua_n15",
			"amsua_n18", "amsua_n19", "atms_n20", "atms_n21", "atms_npp",
			"cris-fsr_n20", "cris-fsr_n21", "iasi_metop-b", "iasi_metop-c",
			"mhs_metop-b", "mhs_metop-c", "mhs_n19", "ssmis_f17",
		},
		IRIndex: []int{0, 1, 10, 11, 12, 13},
		MWIndex: []int{2, 3, 4, 5, 6, 7, 8, 9, 14, 15, 16, 17},
		Domains: map[string]Box{
			// RRFS-A domain: 0-85N, 140E eastward to 10W.
			"rrfs-a": {LatMin: 0, LatMax: 85, LonMin: 140, LonMax: 350},
		},
	}
}

// Load reads a YAML file over the defaults. Fields absent from the file keep
// their default values; domains are merged by name.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(override.ConvSensors) > 0 {
		cfg.ConvSensors = override.ConvSensors
	}
	if len(override.WindSensors) > 0 {
		cfg.WindSensors = override.WindSensors
	}
	if len(override.SateSensors) > 0 {
		cfg.SateSensors = override.SateSensors
	}
	if len(override.IRIndex) > 0 {
		cfg.IRIndex = override.IRIndex
	}
	if len(override.MWIndex) > 0 {
		cfg.MWIndex = override.MWIndex
	}
	for name, box := range override.Domains {
		cfg.Domains[name] = box
	}
	return cfg, nil
}

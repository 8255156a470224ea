// Package diag reads GSI NetCDF diagnostic files into observation tables.
// Files are the per-cycle diag_{sensor}_{ges|anl}.{cycle}.nc4 products of the
// analysis, holding one flat array per field.
package diag

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// Path builds the canonical diagnostic file path for one sensor and cycle.
// kind is "ges" or "anl".
func Path(dataPath, hh, sensor, kind, cycle string) string {
	name := fmt.Sprintf("diag_%s_%s.%s.nc4", sensor, kind, cycle)
	return filepath.Join(dataPath, hh, name)
}

// floatVar reads a required numeric variable as float64, accepting the
// float/int widths GSI has used over the years. A missing variable is a data
// error and propagates.
func floatVar(nc api.Group, name string) ([]float64, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	return toFloat64(v, name)
}

// optionalFloatVar reads a variable that some diagnostic producers omit,
// returning n NaN values when it is absent.
func optionalFloatVar(nc api.Group, name string, n int) ([]float64, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		out := make([]float64, n)
		for i := range out {
			out[i] = math.NaN()
		}
		return out, nil
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	return toFloat64(v, name)
}

func toFloat64(v interface{}, name string) ([]float64, error) {
	switch xs := v.(type) {
	case []float64:
		return xs, nil
	case []float32:
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = float64(x)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("variable %s has unsupported type %T", name, v)
	}
}

// intVar reads a numeric variable and rounds to int. Flag variables are
// stored as floats in some diag file generations.
func intVar(nc api.Group, name string) ([]int, error) {
	fs, err := floatVar(nc, name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = roundFlag(f)
	}
	return out, nil
}

// roundFlag converts a stored flag value to its integer form. NaN maps to a
// value no sentinel uses.
func roundFlag(f float64) int {
	if math.IsNaN(f) {
		return math.MinInt32
	}
	return int(math.Round(f))
}

// stringVar reads a character-array variable as trimmed strings.
func stringVar(nc api.Group, name string) ([]string, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	switch xs := v.(type) {
	case []string:
		out := make([]string, len(xs))
		for i, s := range xs {
			out[i] = strings.TrimSpace(s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("variable %s has unsupported type %T", name, v)
	}
}

func open(path string) (api.Group, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return nc, nil
}

package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nwpdiag/dataimpact/internal/models"
)

// DetailPath returns the detail file path for one cycle and sensor.
func DetailPath(dir, cycle, sensor string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_detail.json", cycle, sensor))
}

// WriteDetail persists the per-observation arrays for one sensor. Detail
// output is additive; nothing else depends on its presence.
func WriteDetail(dir, cycle, sensor string, det *models.DetailRecord) (string, error) {
	n := det.Len()
	if len(det.InvObsErrors) != n || len(det.Latitude) != n || len(det.Longitude) != n ||
		len(det.Pressure) != n || len(det.ObservationType) != n {
		return "", fmt.Errorf("detail arrays for %s are not parallel", sensor)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	data, err := json.Marshal(det)
	if err != nil {
		return "", fmt.Errorf("encode detail: %w", err)
	}
	path := DetailPath(dir, cycle, sensor)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadDetail loads a detail record.
func ReadDetail(path string) (*models.DetailRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var det models.DetailRecord
	if err := json.Unmarshal(data, &det); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &det, nil
}

// Package persist writes and reads the serialized analysis products. The
// summary record keeps the historical positional layout
// [sensor_types, total_size, assim_size, mean_jo, sum_jo, max_abs_jo];
// downstream consumers destructure by position, so order and arity are a
// compatibility contract.
package persist

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/nwpdiag/dataimpact/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SummaryPath returns the summary file path for one cycle and family label.
func SummaryPath(dir, cycle, label string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", cycle, label))
}

// WriteSummary persists one cycle summary, creating dir as needed and
// overwriting any previous record.
func WriteSummary(dir, cycle, label string, rec models.SummaryRecord) (string, error) {
	if err := validateSummary(rec); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	payload := []interface{}{
		rec.SensorTypes,
		rec.TotalSize,
		rec.AssimSize,
		rec.MeanJoDiff,
		rec.SumJoDiff,
		rec.MaxAbsJoDiff,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	path := SummaryPath(dir, cycle, label)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadSummary loads a summary record, checking the positional contract.
func ReadSummary(path string) (models.SummaryRecord, error) {
	var rec models.SummaryRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return rec, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(raw) != 6 {
		return rec, fmt.Errorf("%s: summary record has %d elements, want 6", path, len(raw))
	}
	if err := json.Unmarshal(raw[0], &rec.SensorTypes); err != nil {
		return rec, fmt.Errorf("%s: sensor types: %w", path, err)
	}
	targets := []*[]float64{
		&rec.TotalSize, &rec.AssimSize, &rec.MeanJoDiff, &rec.SumJoDiff, &rec.MaxAbsJoDiff,
	}
	for i, tgt := range targets {
		if err := json.Unmarshal(raw[i+1], tgt); err != nil {
			return rec, fmt.Errorf("%s: element %d: %w", path, i+1, err)
		}
	}
	if err := validateSummary(rec); err != nil {
		return rec, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

func validateSummary(rec models.SummaryRecord) error {
	n := len(rec.SensorTypes)
	for _, arr := range [][]float64{
		rec.TotalSize, rec.AssimSize, rec.MeanJoDiff, rec.SumJoDiff, rec.MaxAbsJoDiff,
	} {
		if len(arr) != n {
			return fmt.Errorf("summary arrays not aligned with %d sensor types", n)
		}
	}
	return nil
}

package persist

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/nwpdiag/dataimpact/internal/models"
)

// ChannelPath returns the radiance channel-metadata side file path.
func ChannelPath(dir, cycle, sensor string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_sate_channel_%s.json", cycle, sensor))
}

// WriteChannelInfo persists radiance channel metadata as the positional
// four-element array [sensor, channels, latitudes, longitudes].
func WriteChannelInfo(dir, cycle string, rec *models.ChannelRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	payload := []interface{}{rec.Sensor, rec.Channels, rec.Latitudes, rec.Longitudes}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode channel info: %w", err)
	}
	path := ChannelPath(dir, cycle, rec.Sensor)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadChannelInfo loads a channel-metadata side file.
func ReadChannelInfo(path string) (*models.ChannelRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(raw) != 4 {
		return nil, fmt.Errorf("%s: channel record has %d elements, want 4", path, len(raw))
	}
	rec := &models.ChannelRecord{}
	if err := json.Unmarshal(raw[0], &rec.Sensor); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw[1], &rec.Channels); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw[2], &rec.Latitudes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw[3], &rec.Longitudes); err != nil {
		return nil, err
	}
	return rec, nil
}

// Package store mirrors cycle summary records into SQLite so long impact
// experiments can be queried without re-reading the per-cycle files. The
// mirror is optional; the files under the summary directory remain the
// canonical persisted form.
package store

import (
	"database/sql"
	"fmt"

	"github.com/nwpdiag/dataimpact/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the database at path and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	s := New(db)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSummary upserts one cycle summary, one row per sensor slot.
func (s *Store) RecordSummary(cycle, label string, rec models.SummaryRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for i, sensor := range rec.SensorTypes {
		if _, err := tx.Exec(`
			INSERT INTO cycle_summaries (cycle, label, sensor_idx, sensor, total_size, assim_size, mean_jo_diff, sum_jo_diff, max_abs_jo_diff)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(cycle, label, sensor_idx) DO UPDATE SET
				sensor = excluded.sensor,
				total_size = excluded.total_size,
				assim_size = excluded.assim_size,
				mean_jo_diff = excluded.mean_jo_diff,
				sum_jo_diff = excluded.sum_jo_diff,
				max_abs_jo_diff = excluded.max_abs_jo_diff
		`, cycle, label, i, sensor, rec.TotalSize[i], rec.AssimSize[i],
			rec.MeanJoDiff[i], rec.SumJoDiff[i], rec.MaxAbsJoDiff[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("record summary %s/%s/%s: %w", cycle, label, sensor, err)
		}
	}
	return tx.Commit()
}

// GetSummary reassembles the summary record for one (cycle, label). Returns
// nil when no rows exist.
func (s *Store) GetSummary(cycle, label string) (*models.SummaryRecord, error) {
	rows, err := s.db.Query(`
		SELECT sensor, total_size, assim_size, mean_jo_diff, sum_jo_diff, max_abs_jo_diff
		FROM cycle_summaries
		WHERE cycle = ? AND label = ?
		ORDER BY sensor_idx ASC
	`, cycle, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rec models.SummaryRecord
	for rows.Next() {
		var sensor string
		var total, assim, mean, sum, maxAbs float64
		if err := rows.Scan(&sensor, &total, &assim, &mean, &sum, &maxAbs); err != nil {
			return nil, err
		}
		rec.SensorTypes = append(rec.SensorTypes, sensor)
		rec.TotalSize = append(rec.TotalSize, total)
		rec.AssimSize = append(rec.AssimSize, assim)
		rec.MeanJoDiff = append(rec.MeanJoDiff, mean)
		rec.SumJoDiff = append(rec.SumJoDiff, sum)
		rec.MaxAbsJoDiff = append(rec.MaxAbsJoDiff, maxAbs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(rec.SensorTypes) == 0 {
		return nil, nil
	}
	return &rec, nil
}

// ListCycles returns the distinct cycles recorded for a label, ordered.
func (s *Store) ListCycles(label string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT cycle FROM cycle_summaries WHERE label = ? ORDER BY cycle ASC
	`, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// Package verify audits the analysis database for known data-quality risk
// patterns left behind by the upstream ETL pipeline.
//
// All checks are read-only and independent of each other. Findings are
// informational: they describe the state of the data, they are never
// errors. Only a failure to query the database at all is reported as an
// error, and that is left to the caller to treat as fatal.
package verify

import (
	"context"
	"database/sql"
	"fmt"
)

// SampleLimit caps how many offending rows each check reports.
const SampleLimit = 5

// FragmentedKey identifies a (barrio, year, quarter) key that maps to more
// than one price row — evidence of an incomplete merge upstream.
type FragmentedKey struct {
	BarrioID  int `json:"barrio_id"`
	Anio      int `json:"anio"`
	Trimestre int `json:"trimestre"`
	Rows      int `json:"rows"`
}

// MergeSample is a price row whose identifier fields carry pipe-delimited
// composites, evidence that a multi-source upsert happened.
type MergeSample struct {
	BarrioID  int    `json:"barrio_id"`
	Anio      int    `json:"anio"`
	Trimestre int    `json:"trimestre"`
	DatasetID string `json:"dataset_id"`
	Source    string `json:"source"`
}

// Report holds the results of all three integrity checks.
type Report struct {
	FragmentedGroups int             `json:"fragmented_groups"`
	FragmentSamples  []FragmentedKey `json:"fragment_samples,omitempty"`
	IncompleteRows   int             `json:"incomplete_rows"`
	MergedRows       int             `json:"merged_rows"`
	MergeSamples     []MergeSample   `json:"merge_samples,omitempty"`
}

// Run executes the three integrity checks against the given database.
// The checks are order-insensitive; they run sequentially on the single
// shared connection. Any query failure aborts the run.
func Run(ctx context.Context, db *sql.DB) (*Report, error) {
	report := &Report{}

	if err := checkFragmentation(ctx, db, report); err != nil {
		return nil, err
	}
	if err := checkCompleteness(ctx, db, report); err != nil {
		return nil, err
	}
	if err := checkMergeEvidence(ctx, db, report); err != nil {
		return nil, err
	}

	return report, nil
}

// checkFragmentation finds (barrio_id, anio, trimestre) keys with more than
// one price row. Ordering is fixed so repeated runs over unchanged data
// produce identical reports.
func checkFragmentation(ctx context.Context, db *sql.DB, report *Report) error {
	rows, err := db.QueryContext(ctx, `
		SELECT barrio_id, anio, trimestre, COUNT(*) AS n
		FROM precios_alquiler
		GROUP BY barrio_id, anio, trimestre
		HAVING n > 1
		ORDER BY barrio_id, anio, trimestre
	`)
	if err != nil {
		return fmt.Errorf("fragmentation check failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key FragmentedKey
		if err := rows.Scan(&key.BarrioID, &key.Anio, &key.Trimestre, &key.Rows); err != nil {
			return fmt.Errorf("fragmentation check failed: %w", err)
		}
		report.FragmentedGroups++
		if len(report.FragmentSamples) < SampleLimit {
			report.FragmentSamples = append(report.FragmentSamples, key)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("fragmentation check failed: %w", err)
	}
	return nil
}

// checkCompleteness counts demographic rows missing mean age or density.
// Purely informational; no threshold is applied.
func checkCompleteness(ctx context.Context, db *sql.DB, report *Report) error {
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM demografia
		WHERE edad_media IS NULL OR densidad_hab_km2 IS NULL
	`).Scan(&report.IncompleteRows)
	if err != nil {
		return fmt.Errorf("completeness check failed: %w", err)
	}
	return nil
}

// checkMergeEvidence scans for pipe-delimited identifier fields. Absence is
// not a failure: merges legitimately may not have occurred if the source
// datasets never overlapped.
func checkMergeEvidence(ctx context.Context, db *sql.DB, report *Report) error {
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM precios_alquiler
		WHERE dataset_id LIKE '%|%' OR source LIKE '%|%'
	`).Scan(&report.MergedRows)
	if err != nil {
		return fmt.Errorf("merge evidence check failed: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT barrio_id, anio, trimestre, dataset_id, source
		FROM precios_alquiler
		WHERE dataset_id LIKE '%|%' OR source LIKE '%|%'
		ORDER BY barrio_id, anio, trimestre
		LIMIT ?
	`, SampleLimit)
	if err != nil {
		return fmt.Errorf("merge evidence check failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var s MergeSample
		if err := rows.Scan(&s.BarrioID, &s.Anio, &s.Trimestre, &s.DatasetID, &s.Source); err != nil {
			return fmt.Errorf("merge evidence check failed: %w", err)
		}
		report.MergeSamples = append(report.MergeSamples, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("merge evidence check failed: %w", err)
	}
	return nil
}

// Package store provides SQLite access to the housing analysis database.
//
// The database is normally produced by the upstream ETL pipeline; this
// package only bootstraps a local schema (for development and tests) and
// opens connections for the read-only inspection commands.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Store wraps a connection to the analysis database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the analysis database read-write, creating the file if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open analysis database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping analysis database: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenReadOnly opens the analysis database in read-only mode. The file:
// URI form is required for the driver to honor mode=ro.
// Opening a missing file fails on first query rather than at open time, so
// callers guard with os.Stat first.
func OpenReadOnly(path string) (*sql.DB, error) {
	return sql.Open("sqlite", "file:"+path+"?mode=ro")
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InsertBarrio inserts a neighborhood record.
func (s *Store) InsertBarrio(ctx context.Context, b Barrio) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO barrios (barrio_id, nombre, distrito) VALUES (?, ?, ?)`,
		b.BarrioID, b.Nombre, b.Distrito,
	)
	if err != nil {
		return fmt.Errorf("failed to insert barrio %d: %w", b.BarrioID, err)
	}
	return nil
}

// InsertPriceFact inserts a rental price fact.
func (s *Store) InsertPriceFact(ctx context.Context, f PriceFact) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO precios_alquiler (barrio_id, anio, trimestre, precio_m2, dataset_id, source)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.BarrioID, f.Anio, f.Trimestre, f.PrecioM2, f.DatasetID, f.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price fact: %w", err)
	}
	return nil
}

// InsertDemographicFact inserts a demographic fact. Nil pointer fields
// persist as NULL.
func (s *Store) InsertDemographicFact(ctx context.Context, f DemographicFact) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO demografia (barrio_id, anio, hogares_totales, edad_media, porc_inmigracion, densidad_hab_km2)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.BarrioID, f.Anio, f.HogaresTotales, f.EdadMedia, f.PorcInmigracion, f.DensidadHabKm2,
	)
	if err != nil {
		return fmt.Errorf("failed to insert demographic fact: %w", err)
	}
	return nil
}

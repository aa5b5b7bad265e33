package verify

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// sqlite driver for test database.
	_ "modernc.org/sqlite"
)

// setupTestDB creates a database with the fact-table schema and no rows.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "barrios.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema := `
		CREATE TABLE barrios (
			barrio_id INTEGER PRIMARY KEY,
			nombre TEXT NOT NULL,
			distrito TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE precios_alquiler (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			barrio_id INTEGER NOT NULL,
			anio INTEGER NOT NULL,
			trimestre INTEGER NOT NULL CHECK (trimestre BETWEEN 1 AND 4),
			precio_m2 REAL,
			dataset_id TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE demografia (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			barrio_id INTEGER NOT NULL,
			anio INTEGER NOT NULL,
			hogares_totales INTEGER,
			edad_media REAL,
			porc_inmigracion REAL,
			densidad_hab_km2 REAL
		);
	`
	_, err = db.ExecContext(context.Background(), schema)
	require.NoError(t, err)

	return db
}

func insertPrice(t *testing.T, db *sql.DB, barrioID, anio, trimestre int, datasetID, source string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO precios_alquiler (barrio_id, anio, trimestre, precio_m2, dataset_id, source)
		VALUES (?, ?, ?, 14.5, ?, ?)
	`, barrioID, anio, trimestre, datasetID, source)
	require.NoError(t, err)
}

func insertDemografia(t *testing.T, db *sql.DB, barrioID, anio int, edadMedia, densidad any) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO demografia (barrio_id, anio, edad_media, densidad_hab_km2)
		VALUES (?, ?, ?, ?)
	`, barrioID, anio, edadMedia, densidad)
	require.NoError(t, err)
}

func TestRun_CleanDataset(t *testing.T) {
	db := setupTestDB(t)
	insertPrice(t, db, 1, 2023, 1, "est-mercat-lloguer", "incasol")
	insertPrice(t, db, 1, 2023, 2, "est-mercat-lloguer", "incasol")
	insertDemografia(t, db, 1, 2023, 43.2, 41200.0)

	report, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 0, report.FragmentedGroups)
	assert.Empty(t, report.FragmentSamples)
	assert.Equal(t, 0, report.IncompleteRows)
	assert.Equal(t, 0, report.MergedRows)
	assert.Empty(t, report.MergeSamples)
}

func TestRun_EmptyTables(t *testing.T) {
	db := setupTestDB(t)

	report, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 0, report.FragmentedGroups)
	assert.Equal(t, 0, report.IncompleteRows)
	assert.Equal(t, 0, report.MergedRows)
}

func TestRun_FragmentedKey(t *testing.T) {
	db := setupTestDB(t)
	insertPrice(t, db, 1, 2023, 1, "est-mercat-lloguer", "incasol")
	insertPrice(t, db, 1, 2023, 1, "lloguer-mitja-mensual", "ajuntament")
	insertPrice(t, db, 2, 2023, 1, "est-mercat-lloguer", "incasol")

	report, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FragmentedGroups)
	require.Len(t, report.FragmentSamples, 1)
	assert.Equal(t, FragmentedKey{BarrioID: 1, Anio: 2023, Trimestre: 1, Rows: 2}, report.FragmentSamples[0])
}

func TestRun_FragmentSamplesCapped(t *testing.T) {
	db := setupTestDB(t)
	// Eight fragmented keys, one per barrio.
	for barrio := 1; barrio <= 8; barrio++ {
		insertPrice(t, db, barrio, 2022, 3, "est-mercat-lloguer", "incasol")
		insertPrice(t, db, barrio, 2022, 3, "lloguer-mitja-mensual", "ajuntament")
	}

	report, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 8, report.FragmentedGroups)
	require.Len(t, report.FragmentSamples, SampleLimit)
	// Samples come back in key order.
	for i, s := range report.FragmentSamples {
		assert.Equal(t, i+1, s.BarrioID)
	}
}

func TestRun_IncompleteRows(t *testing.T) {
	db := setupTestDB(t)
	for i := 1; i <= 10; i++ {
		insertDemografia(t, db, i, 2023, 43.2, 41200.0)
	}
	insertDemografia(t, db, 11, 2023, nil, 41200.0)
	insertDemografia(t, db, 12, 2023, 43.2, nil)

	report, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 2, report.IncompleteRows)
}

func TestRun_MergeEvidence(t *testing.T) {
	db := setupTestDB(t)
	insertPrice(t, db, 1, 2023, 1, "est-mercat-lloguer|lloguer-mitja-mensual", "incasol|ajuntament")
	insertPrice(t, db, 2, 2023, 1, "est-mercat-lloguer", "incasol")

	report, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 1, report.MergedRows)
	require.Len(t, report.MergeSamples, 1)
	assert.Equal(t, "est-mercat-lloguer|lloguer-mitja-mensual", report.MergeSamples[0].DatasetID)
	assert.Equal(t, "incasol|ajuntament", report.MergeSamples[0].Source)
}

func TestRun_MergeEvidenceSourceOnly(t *testing.T) {
	db := setupTestDB(t)
	insertPrice(t, db, 3, 2024, 2, "est-mercat-lloguer", "incasol|ajuntament")

	report, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 1, report.MergedRows)
	require.Len(t, report.MergeSamples, 1)
	assert.Equal(t, "incasol|ajuntament", report.MergeSamples[0].Source)
}

func TestRun_MergeSamplesCapped(t *testing.T) {
	db := setupTestDB(t)
	for barrio := 1; barrio <= 7; barrio++ {
		insertPrice(t, db, barrio, 2023, 4, "a|b", "x|y")
	}

	report, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 7, report.MergedRows)
	assert.Len(t, report.MergeSamples, SampleLimit)
}

func TestRun_Deterministic(t *testing.T) {
	db := setupTestDB(t)
	insertPrice(t, db, 4, 2022, 1, "a|b", "incasol")
	insertPrice(t, db, 1, 2023, 2, "est-mercat-lloguer", "incasol")
	insertPrice(t, db, 1, 2023, 2, "lloguer-mitja-mensual", "ajuntament")
	insertDemografia(t, db, 1, 2023, nil, nil)

	first, err := Run(context.Background(), db)
	require.NoError(t, err)
	second, err := Run(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_MissingSchema(t *testing.T) {
	// A database without the fact tables fails the first check.
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fragmentation check failed")
}

func TestRun_QueryErrorsPropagate(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr string
	}{
		{
			name: "fragmentation query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM precios_alquiler GROUP BY").
					WillReturnError(fmt.Errorf("disk I/O error"))
			},
			wantErr: "fragmentation check failed",
		},
		{
			name: "completeness query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM precios_alquiler GROUP BY").
					WillReturnRows(sqlmock.NewRows([]string{"barrio_id", "anio", "trimestre", "n"}))
				mock.ExpectQuery("FROM demografia").
					WillReturnError(fmt.Errorf("disk I/O error"))
			},
			wantErr: "completeness check failed",
		},
		{
			name: "merge evidence query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM precios_alquiler GROUP BY").
					WillReturnRows(sqlmock.NewRows([]string{"barrio_id", "anio", "trimestre", "n"}))
				mock.ExpectQuery("FROM demografia").
					WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))
				mock.ExpectQuery(`dataset_id LIKE`).
					WillReturnError(fmt.Errorf("disk I/O error"))
			},
			wantErr: "merge evidence check failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.setup(mock)

			_, err = Run(context.Background(), db)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "disk I/O error")
		})
	}
}

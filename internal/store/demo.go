package store

import "context"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// LoadDemo populates a freshly migrated database with a small sample of
// neighborhoods and facts so the inspection commands have something to
// show without the full ETL pipeline. The sample intentionally includes
// one merged price row (pipe-delimited dataset_id) and one demographic
// row with missing metrics.
func (s *Store) LoadDemo(ctx context.Context) error {
	barrios := []Barrio{
		{BarrioID: 1, Nombre: "el Raval", Distrito: "Ciutat Vella"},
		{BarrioID: 3, Nombre: "la Barceloneta", Distrito: "Ciutat Vella"},
		{BarrioID: 31, Nombre: "la Vila de Gràcia", Distrito: "Gràcia"},
		{BarrioID: 66, Nombre: "el Besòs i el Maresme", Distrito: "Sant Martí"},
	}
	for _, b := range barrios {
		if err := s.InsertBarrio(ctx, b); err != nil {
			return err
		}
	}

	prices := []PriceFact{
		{BarrioID: 1, Anio: 2023, Trimestre: 1, PrecioM2: 13.2, DatasetID: "est-mercat-lloguer", Source: "incasol"},
		{BarrioID: 1, Anio: 2023, Trimestre: 2, PrecioM2: 13.6, DatasetID: "est-mercat-lloguer|lloguer-mitja-mensual", Source: "incasol|ajuntament"},
		{BarrioID: 3, Anio: 2023, Trimestre: 1, PrecioM2: 15.8, DatasetID: "est-mercat-lloguer", Source: "incasol"},
		{BarrioID: 31, Anio: 2023, Trimestre: 1, PrecioM2: 14.9, DatasetID: "est-mercat-lloguer", Source: "incasol"},
		{BarrioID: 66, Anio: 2023, Trimestre: 1, PrecioM2: 9.4, DatasetID: "est-mercat-lloguer", Source: "incasol"},
	}
	for _, f := range prices {
		if err := s.InsertPriceFact(ctx, f); err != nil {
			return err
		}
	}

	demo := []DemographicFact{
		{BarrioID: 1, Anio: 2023, HogaresTotales: intPtr(20874), EdadMedia: floatPtr(40.3), PorcInmigracion: floatPtr(48.5), DensidadHabKm2: floatPtr(43628)},
		{BarrioID: 3, Anio: 2023, HogaresTotales: intPtr(7390), EdadMedia: floatPtr(44.1), PorcInmigracion: floatPtr(39.2), DensidadHabKm2: floatPtr(11406)},
		{BarrioID: 31, Anio: 2023, HogaresTotales: intPtr(24541), EdadMedia: floatPtr(43.7), PorcInmigracion: floatPtr(20.8), DensidadHabKm2: floatPtr(38330)},
		{BarrioID: 66, Anio: 2023, HogaresTotales: intPtr(9463)}, // metrics pending in the source census
	}
	for _, f := range demo {
		if err := s.InsertDemographicFact(ctx, f); err != nil {
			return err
		}
	}

	return nil
}

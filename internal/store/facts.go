package store

// Barrio is a neighborhood, the spatial unit of aggregation.
type Barrio struct {
	BarrioID int
	Nombre   string
	Distrito string
}

// PriceFact is one rental price observation for a (barrio, year, quarter)
// key. DatasetID and Source may be pipe-delimited composites when the
// upstream ETL merged multiple source records into one row.
type PriceFact struct {
	BarrioID  int
	Anio      int
	Trimestre int
	PrecioM2  float64
	DatasetID string
	Source    string
}

// DemographicFact is one demographic observation for a (barrio, year) pair.
// All metric fields are nullable in the source data.
type DemographicFact struct {
	BarrioID        int
	Anio            int
	HogaresTotales  *int
	EdadMedia       *float64
	PorcInmigracion *float64
	DensidadHabKm2  *float64
}

package domain

import "time"

// RawSaleRow is one source-file row as loaded, before normalization. The
// borough is still the numeric DOF code and free-text fields keep their
// source casing. Easement is carried so the normalizer can verify the
// column is uninformative before dropping it.
type RawSaleRow struct {
	BoroughCode     int
	Neighborhood    string
	BuildingClass   string
	Address         string
	ZipCode         string
	Easement        string
	YearBuilt       int
	GrossSquareFeet float64
	SalePrice       int64
	SaleDate        time.Time
}

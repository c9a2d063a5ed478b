package domain

import (
	"fmt"
	"time"
)

// Borough identifies one of the five NYC boroughs.
type Borough string

const (
	BoroughManhattan    Borough = "Manhattan"
	BoroughBronx        Borough = "Bronx"
	BoroughBrooklyn     Borough = "Brooklyn"
	BoroughQueens       Borough = "Queens"
	BoroughStatenIsland Borough = "StatenIsland"
)

// boroughCodes is the Department of Finance numeric coding used in the
// rolling sales files.
var boroughCodes = map[int]Borough{
	1: BoroughManhattan,
	2: BoroughBronx,
	3: BoroughBrooklyn,
	4: BoroughQueens,
	5: BoroughStatenIsland,
}

// BoroughFromCode maps the DOF numeric borough code to its canonical name.
// Any code outside 1..5 is an error; callers must not drop or default it.
func BoroughFromCode(code int) (Borough, error) {
	b, ok := boroughCodes[code]
	if !ok {
		return "", fmt.Errorf("unknown borough code %d", code)
	}
	return b, nil
}

// ParseBorough inverts String for the five canonical names.
func ParseBorough(s string) (Borough, error) {
	switch Borough(s) {
	case BoroughManhattan, BoroughBronx, BoroughBrooklyn, BoroughQueens, BoroughStatenIsland:
		return Borough(s), nil
	}
	return "", fmt.Errorf("unknown borough name %q", s)
}

// String returns the canonical borough name.
func (b Borough) String() string {
	return string(b)
}

// Code returns the DOF numeric code for the borough, or 0 if unknown.
func (b Borough) Code() int {
	for code, name := range boroughCodes {
		if name == b {
			return code
		}
	}
	return 0
}

// AllBoroughs lists the five boroughs in DOF code order.
func AllBoroughs() []Borough {
	return []Borough{
		BoroughManhattan,
		BoroughBronx,
		BoroughBrooklyn,
		BoroughQueens,
		BoroughStatenIsland,
	}
}

// SaleRecord represents one property transaction from the rolling sales data.
type SaleRecord struct {
	Borough         Borough   `json:"borough" csv:"borough"`
	Neighborhood    string    `json:"neighborhood" csv:"neighborhood"`
	BuildingClass   string    `json:"building_class_at_time_of_sale" csv:"building_class_at_time_of_sale"`
	Address         string    `json:"address" csv:"address"`
	ZipCode         string    `json:"zip_code,omitempty" csv:"zip_code"`
	YearBuilt       int       `json:"year_built,omitempty" csv:"year_built"`
	GrossSquareFeet float64   `json:"gross_square_feet" csv:"gross_square_feet"`
	SalePrice       int64     `json:"sale_price" csv:"sale_price"`
	SaleDate        time.Time `json:"sale_date" csv:"sale_date"`
}

// HasMeasurements reports whether both modeling fields are present and usable.
func (r SaleRecord) HasMeasurements() bool {
	return r.GrossSquareFeet > 0 && r.SalePrice > 0
}

// Key returns a string identity covering every field, used for exact
// duplicate detection.
func (r SaleRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d|%g|%d|%s",
		r.Borough, r.Neighborhood, r.BuildingClass, r.Address, r.ZipCode,
		r.YearBuilt, r.GrossSquareFeet, r.SalePrice,
		r.SaleDate.Format("2006-01-02"))
}

// MultiUnitGroup is a set of records sharing identical (sale price, sale
// date). Groups at or above the configured size cutoff are treated as a
// single multi-unit transaction recorded as several line items. Ephemeral:
// built by the detector, consumed to drive removal, never persisted.
type MultiUnitGroup struct {
	SalePrice int64     `json:"sale_price"`
	SaleDate  time.Time `json:"sale_date"`
	Indices   []int     `json:"indices"`
}

// Size returns the number of member records.
func (g MultiUnitGroup) Size() int {
	return len(g.Indices)
}

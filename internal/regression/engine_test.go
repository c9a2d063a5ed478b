package regression

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nycsales/internal/errors"
	"nycsales/pkg/contracts/domain"
)

func boroughRecord(b domain.Borough, gsf float64, price int64) domain.SaleRecord {
	return domain.SaleRecord{
		Borough:         b,
		Neighborhood:    "Test",
		GrossSquareFeet: gsf,
		SalePrice:       price,
		SaleDate:        time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

// linearRecords generates count records on price = intercept + slope*gsf.
func linearRecords(b domain.Borough, count int, intercept, slope float64) []domain.SaleRecord {
	records := make([]domain.SaleRecord, count)
	for i := range records {
		gsf := float64(500 + 100*i)
		records[i] = boroughRecord(b, gsf, int64(intercept+slope*gsf))
	}
	return records
}

func TestEngine_FitAll_TwoBoroughs(t *testing.T) {
	records := append(
		linearRecords(domain.BoroughBrooklyn, 5, 1000, 800),
		linearRecords(domain.BoroughQueens, 4, 2000, 600)...,
	)

	engine := NewEngine(nil)
	results, err := engine.FitAll(context.Background(), records)
	require.NoError(t, err)

	// Citywide plus exactly one result per borough present in the data.
	require.Len(t, results, 3)
	assert.Equal(t, PartitionCitywide, results[0].Partition)

	boroughs := BoroughResults(results)
	require.Len(t, boroughs, 2)

	// Partition sample sizes sum to the dataset total.
	total := 0
	for _, r := range boroughs {
		total += r.SampleSize
	}
	assert.Equal(t, len(records), total)
	assert.Equal(t, len(records), results[0].SampleSize)

	byPartition := make(map[string]domain.RegressionResult)
	for _, r := range boroughs {
		byPartition[r.Partition] = r
	}
	assert.InDelta(t, 800.0, byPartition["Brooklyn"].Slope.Estimate, 1e-6)
	assert.InDelta(t, 600.0, byPartition["Queens"].Slope.Estimate, 1e-6)
}

func TestEngine_FitAll_InsufficientPartition(t *testing.T) {
	records := append(
		linearRecords(domain.BoroughBrooklyn, 5, 1000, 800),
		// Two Staten Island rows cannot support a two-parameter fit.
		linearRecords(domain.BoroughStatenIsland, 2, 500, 400)...,
	)

	engine := NewEngine(nil)
	_, err := engine.FitAll(context.Background(), records)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeInsufficientData))
	assert.Contains(t, err.Error(), "StatenIsland")
}

func TestEngine_FitAll_Empty(t *testing.T) {
	engine := NewEngine(nil)
	_, err := engine.FitAll(context.Background(), nil)

	// The citywide partition itself is too small.
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeInsufficientData))
}

func TestSortBySlope(t *testing.T) {
	results := []domain.RegressionResult{
		{Partition: "Brooklyn", Slope: domain.Coefficient{Estimate: 800}},
		{Partition: "Bronx", Slope: domain.Coefficient{Estimate: 300}},
		{Partition: "Manhattan", Slope: domain.Coefficient{Estimate: 1800}},
	}

	sorted := SortBySlope(results)

	assert.Equal(t, []string{"Bronx", "Brooklyn", "Manhattan"},
		[]string{sorted[0].Partition, sorted[1].Partition, sorted[2].Partition})
	// Input order untouched.
	assert.Equal(t, "Brooklyn", results[0].Partition)
}

func TestSortByR2(t *testing.T) {
	results := []domain.RegressionResult{
		{Partition: "Queens", RSquared: 0.61},
		{Partition: "Bronx", RSquared: 0.35},
		{Partition: "Manhattan", RSquared: 0.82},
	}

	sorted := SortByR2(results)

	assert.Equal(t, "Bronx", sorted[0].Partition)
	assert.Equal(t, "Queens", sorted[1].Partition)
	assert.Equal(t, "Manhattan", sorted[2].Partition)
}

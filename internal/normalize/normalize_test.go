package normalize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nycsales/internal/errors"
	"nycsales/pkg/contracts/domain"
)

func TestColumnKey(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"BOROUGH", "borough"},
		{"SALE PRICE", "sale_price"},
		{"GROSS SQUARE FEET", "gross_square_feet"},
		{"BUILDING CLASS AT TIME OF SALE", "building_class_at_time_of_sale"},
		{"EASE-MENT", "easement"},
		{"  SALE  DATE ", "sale_date"},
		{"ZIP CODE\n", "zip_code"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ColumnKey(tt.header), "header %q", tt.header)
	}
}

func rawRow(code int, neighborhood, address string) domain.RawSaleRow {
	return domain.RawSaleRow{
		BoroughCode:     code,
		Neighborhood:    neighborhood,
		BuildingClass:   "R4",
		Address:         address,
		ZipCode:         "11102",
		YearBuilt:       1987,
		GrossSquareFeet: 850,
		SalePrice:       720000,
		SaleDate:        time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNormalizer_RecodesAndTitleCases(t *testing.T) {
	n := NewNormalizer(nil)

	records, err := n.Normalize(context.Background(), []domain.RawSaleRow{
		rawRow(4, "ASTORIA", "31-05 NEWTOWN AVE"),
		rawRow(1, "UPPER EAST SIDE (59-79)", "200 EAST END AVENUE"),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.BoroughQueens, records[0].Borough)
	assert.Equal(t, "Astoria", records[0].Neighborhood)
	assert.Equal(t, "31-05 Newtown Ave", records[0].Address)

	assert.Equal(t, domain.BoroughManhattan, records[1].Borough)
	assert.Equal(t, "Upper East Side (59-79)", records[1].Neighborhood)
	assert.Equal(t, "200 East End Avenue", records[1].Address)

	// Building class codes are not free text and stay untouched.
	assert.Equal(t, "R4", records[0].BuildingClass)
}

func TestNormalizer_UnknownCode(t *testing.T) {
	n := NewNormalizer(nil)

	_, err := n.Normalize(context.Background(), []domain.RawSaleRow{
		rawRow(4, "ASTORIA", "31-05 NEWTOWN AVE"),
		rawRow(9, "NOWHERE", "1 FAKE ST"),
	})

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnknownCode))
	assert.Contains(t, err.Error(), "9")
}

func TestNormalizer_RemovesExactDuplicates(t *testing.T) {
	n := NewNormalizer(nil)

	rows := []domain.RawSaleRow{
		rawRow(4, "ASTORIA", "31-05 NEWTOWN AVE"),
		rawRow(4, "ASTORIA", "31-05 NEWTOWN AVE"),
		rawRow(4, "ASTORIA", "31-07 NEWTOWN AVE"),
	}

	records, err := n.Normalize(context.Background(), rows)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// No two output rows identical across every field.
	seen := make(map[string]struct{})
	for _, r := range records {
		_, dup := seen[r.Key()]
		assert.False(t, dup)
		seen[r.Key()] = struct{}{}
	}
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := NewNormalizer(nil)
	rows := []domain.RawSaleRow{
		rawRow(3, "PARK SLOPE", "123 7TH AVE"),
		rawRow(5, "NEW DORP", "77 ROSE AVE"),
	}

	first, err := n.Normalize(context.Background(), rows)
	require.NoError(t, err)
	second, err := n.Normalize(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

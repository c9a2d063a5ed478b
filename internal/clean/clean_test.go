package clean

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nycsales/pkg/contracts/domain"
)

func record(b domain.Borough, neighborhood string, gsf float64, price int64) domain.SaleRecord {
	return domain.SaleRecord{
		Borough:         b,
		Neighborhood:    neighborhood,
		BuildingClass:   "R4",
		Address:         "1 Main St",
		GrossSquareFeet: gsf,
		SalePrice:       price,
		SaleDate:        time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCleaner_PredicateChain(t *testing.T) {
	cleaner := NewCleaner(100000, nil)

	input := []domain.SaleRecord{
		record(domain.BoroughQueens, "Astoria", 850, 720000),   // kept
		record(domain.BoroughQueens, "Astoria", 0, 720000),     // no area
		record(domain.BoroughQueens, "Astoria", 850, 10),       // nominal transfer
		record(domain.BoroughQueens, "Astoria", 850, 99999),    // below threshold
		record(domain.BoroughQueens, "Astoria", 850, 100000),   // exactly at threshold, kept
		record(domain.BoroughBronx, "Riverdale", -10, 500000),  // negative area
	}

	cleaned := cleaner.Clean(context.Background(), input)

	require.Len(t, cleaned, 2)
	for _, r := range cleaned {
		assert.Greater(t, r.GrossSquareFeet, 0.0)
		assert.GreaterOrEqual(t, r.SalePrice, int64(100000))
	}
}

func TestCleaner_SortsByBoroughThenNeighborhood(t *testing.T) {
	cleaner := NewCleaner(1, nil)

	input := []domain.SaleRecord{
		record(domain.BoroughQueens, "Woodside", 800, 500000),
		record(domain.BoroughBronx, "Riverdale", 900, 400000),
		record(domain.BoroughQueens, "Astoria", 850, 700000),
		record(domain.BoroughBronx, "Fordham", 700, 300000),
	}

	cleaned := cleaner.Clean(context.Background(), input)
	require.Len(t, cleaned, 4)

	isSorted := sort.SliceIsSorted(cleaned, func(i, j int) bool {
		if cleaned[i].Borough != cleaned[j].Borough {
			return cleaned[i].Borough < cleaned[j].Borough
		}
		return cleaned[i].Neighborhood < cleaned[j].Neighborhood
	})
	assert.True(t, isSorted)

	assert.Equal(t, "Fordham", cleaned[0].Neighborhood)
	assert.Equal(t, "Riverdale", cleaned[1].Neighborhood)
	assert.Equal(t, "Astoria", cleaned[2].Neighborhood)
	assert.Equal(t, "Woodside", cleaned[3].Neighborhood)
}

func TestCleaner_SortIsStable(t *testing.T) {
	cleaner := NewCleaner(1, nil)

	a := record(domain.BoroughQueens, "Astoria", 850, 700000)
	a.Address = "First"
	b := record(domain.BoroughQueens, "Astoria", 860, 710000)
	b.Address = "Second"

	cleaned := cleaner.Clean(context.Background(), []domain.SaleRecord{a, b})
	require.Len(t, cleaned, 2)
	assert.Equal(t, "First", cleaned[0].Address)
	assert.Equal(t, "Second", cleaned[1].Address)
}

func TestDrop(t *testing.T) {
	records := []domain.SaleRecord{
		record(domain.BoroughQueens, "A", 1, 1),
		record(domain.BoroughQueens, "B", 1, 1),
		record(domain.BoroughQueens, "C", 1, 1),
		record(domain.BoroughQueens, "D", 1, 1),
	}

	kept := Drop(records, []int{1, 3})
	require.Len(t, kept, 2)
	assert.Equal(t, "A", kept[0].Neighborhood)
	assert.Equal(t, "C", kept[1].Neighborhood)

	// No indices leaves the input unchanged.
	assert.Equal(t, records, Drop(records, nil))
}

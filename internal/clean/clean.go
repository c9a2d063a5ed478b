// Package clean applies the fixed filtering rules that produce the
// analysis-ready dataset and persists it as the flat-file snapshot later
// stages read from.
package clean

import (
	"context"
	"log/slog"
	"sort"

	"nycsales/pkg/contracts/domain"
)

// Cleaner applies the predicate chain and canonical ordering.
type Cleaner struct {
	minSalePrice int64
	logger       *slog.Logger
}

// NewCleaner creates a cleaner with the configured minimum sale price,
// which excludes nominal intra-family transfers.
func NewCleaner(minSalePrice int64, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{minSalePrice: minSalePrice, logger: logger}
}

// Clean keeps rows where gross square footage is positive and the sale
// price meets the minimum threshold, then sorts by (borough, neighborhood)
// ascending. The predicate order is fixed; no row is coerced.
func (c *Cleaner) Clean(ctx context.Context, records []domain.SaleRecord) []domain.SaleRecord {
	kept := make([]domain.SaleRecord, 0, len(records))
	var droppedNoArea, droppedPrice int

	for _, r := range records {
		if r.GrossSquareFeet <= 0 {
			droppedNoArea++
			continue
		}
		if r.SalePrice < c.minSalePrice {
			droppedPrice++
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Borough != kept[j].Borough {
			return kept[i].Borough < kept[j].Borough
		}
		return kept[i].Neighborhood < kept[j].Neighborhood
	})

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("input", len(records)),
		slog.Int("kept", len(kept)),
		slog.Int("dropped_no_area", droppedNoArea),
		slog.Int("dropped_below_min_price", droppedPrice),
		slog.Int64("min_sale_price", c.minSalePrice))

	return kept
}

// Drop removes the records at the given indices, preserving the order of
// the remainder. Used to apply the multi-unit detector's verdicts.
func Drop(records []domain.SaleRecord, indices []int) []domain.SaleRecord {
	if len(indices) == 0 {
		return records
	}
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		drop[i] = struct{}{}
	}
	kept := make([]domain.SaleRecord, 0, len(records)-len(drop))
	for i, r := range records {
		if _, gone := drop[i]; gone {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

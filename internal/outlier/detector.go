// Package outlier detects disguised multi-unit transactions: several line
// items sharing an identical sale price and sale date are almost certainly
// one real-world sale recorded row-by-row, and they inflate regression
// influence at extreme price points.
package outlier

import (
	"context"
	"log/slog"
	"sort"

	"nycsales/pkg/contracts/domain"
)

// Report is the detector's verdict over one dataset.
type Report struct {
	// Flagged groups meet the size cutoff; every member is removed.
	Flagged []domain.MultiUnitGroup
	// Pairs are size-2 groups, identified for reporting but kept by the
	// default policy.
	Pairs []domain.MultiUnitGroup
	// Excluded holds indices removed by the explicit price exclusion list.
	Excluded []int
}

// RemoveIndices returns every record index the report says to drop,
// deduplicated and ascending.
func (r Report) RemoveIndices() []int {
	set := make(map[int]struct{})
	for _, g := range r.Flagged {
		for _, i := range g.Indices {
			set[i] = struct{}{}
		}
	}
	for _, i := range r.Excluded {
		set[i] = struct{}{}
	}
	indices := make([]int, 0, len(set))
	for i := range set {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// Detector groups records by (sale price, sale date).
type Detector struct {
	groupSizeCutoff int
	excludedPrices  map[int64]struct{}
	logger          *slog.Logger
}

// NewDetector creates a detector. groupSizeCutoff is the minimum group size
// treated as a multi-unit sale; the threshold is a policy heuristic, not a
// hard law. excludedPrices removes exact-match prices regardless of group
// size.
func NewDetector(groupSizeCutoff int, excludedPrices []int64, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	excluded := make(map[int64]struct{}, len(excludedPrices))
	for _, p := range excludedPrices {
		excluded[p] = struct{}{}
	}
	return &Detector{
		groupSizeCutoff: groupSizeCutoff,
		excludedPrices:  excluded,
		logger:          logger,
	}
}

type groupKey struct {
	price int64
	date  string
}

// Detect builds (price, date) groups and reports which records to remove.
// Groups at or above the cutoff are flagged whole, not just the excess
// members; size-2 groups are reported but kept.
func (d *Detector) Detect(ctx context.Context, records []domain.SaleRecord) Report {
	groups := make(map[groupKey][]int)
	var report Report

	for i, r := range records {
		if _, excluded := d.excludedPrices[r.SalePrice]; excluded {
			report.Excluded = append(report.Excluded, i)
		}
		key := groupKey{price: r.SalePrice, date: r.SaleDate.Format("2006-01-02")}
		groups[key] = append(groups[key], i)
	}

	for key, indices := range groups {
		if len(indices) < 2 {
			continue
		}
		group := domain.MultiUnitGroup{
			SalePrice: key.price,
			SaleDate:  records[indices[0]].SaleDate,
			Indices:   indices,
		}
		if len(indices) >= d.groupSizeCutoff {
			report.Flagged = append(report.Flagged, group)
		} else {
			report.Pairs = append(report.Pairs, group)
		}
	}

	// Map iteration order is random; keep the report deterministic.
	sortGroups(report.Flagged)
	sortGroups(report.Pairs)

	d.logger.InfoContext(ctx, "multi-unit detection complete",
		slog.Int("records", len(records)),
		slog.Int("flagged_groups", len(report.Flagged)),
		slog.Int("pair_groups_kept", len(report.Pairs)),
		slog.Int("price_exclusions", len(report.Excluded)),
		slog.Int("group_size_cutoff", d.groupSizeCutoff))

	return report
}

func sortGroups(groups []domain.MultiUnitGroup) {
	for _, g := range groups {
		sort.Ints(g.Indices)
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].SaleDate.Equal(groups[j].SaleDate) {
			return groups[i].SaleDate.Before(groups[j].SaleDate)
		}
		return groups[i].SalePrice < groups[j].SalePrice
	})
}

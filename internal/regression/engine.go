package regression

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"nycsales/pkg/contracts/domain"
)

// PartitionCitywide labels the fit over the whole cleaned dataset.
const PartitionCitywide = "Citywide"

// Engine runs the per-partition fits over a cleaned dataset.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a regression engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// FitAll fits the citywide model and one model per borough partition.
// Partitions are independent; any partition failing aborts the run, so a
// result set is either complete or absent. Results come back citywide
// first, then boroughs in DOF code order.
func (e *Engine) FitAll(ctx context.Context, records []domain.SaleRecord) ([]domain.RegressionResult, error) {
	e.logger.InfoContext(ctx, "fitting regression models", slog.Int("records", len(records)))

	results := make([]domain.RegressionResult, 0, len(domain.AllBoroughs())+1)

	citywide, err := fitPartition(PartitionCitywide, records)
	if err != nil {
		return nil, fmt.Errorf("citywide fit: %w", err)
	}
	results = append(results, citywide)

	partitions := partitionByBorough(records)
	for _, borough := range domain.AllBoroughs() {
		subset, ok := partitions[borough]
		if !ok {
			// A borough absent from the cleaned data is not a partition; it
			// simply does not appear in the report.
			e.logger.WarnContext(ctx, "borough absent from cleaned data",
				slog.String("borough", borough.String()))
			continue
		}
		result, err := fitPartition(borough.String(), subset)
		if err != nil {
			return nil, fmt.Errorf("fit %s: %w", borough, err)
		}
		results = append(results, result)
	}

	for _, r := range results {
		e.logger.InfoContext(ctx, "fit complete",
			slog.String("partition", r.Partition),
			slog.Int("n", r.SampleSize),
			slog.Float64("slope", r.Slope.Estimate),
			slog.Float64("r_squared", r.RSquared))
	}

	return results, nil
}

func fitPartition(label string, records []domain.SaleRecord) (domain.RegressionResult, error) {
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, r := range records {
		xs[i] = r.GrossSquareFeet
		ys[i] = float64(r.SalePrice)
	}
	return Fit(label, xs, ys)
}

func partitionByBorough(records []domain.SaleRecord) map[domain.Borough][]domain.SaleRecord {
	partitions := make(map[domain.Borough][]domain.SaleRecord)
	for _, r := range records {
		partitions[r.Borough] = append(partitions[r.Borough], r)
	}
	return partitions
}

// BoroughResults filters out the citywide row, leaving only per-borough
// fits for cross-borough comparison.
func BoroughResults(results []domain.RegressionResult) []domain.RegressionResult {
	boroughs := make([]domain.RegressionResult, 0, len(results))
	for _, r := range results {
		if r.Partition != PartitionCitywide {
			boroughs = append(boroughs, r)
		}
	}
	return boroughs
}

// SortBySlope returns a copy ordered ascending by slope estimate. Slopes
// are continuous and effectively unique per partition, so no tie-break is
// needed.
func SortBySlope(results []domain.RegressionResult) []domain.RegressionResult {
	sorted := append([]domain.RegressionResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Slope.Estimate < sorted[j].Slope.Estimate
	})
	return sorted
}

// SortByR2 returns a copy ordered ascending by R-squared.
func SortByR2(results []domain.RegressionResult) []domain.RegressionResult {
	sorted := append([]domain.RegressionResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RSquared < sorted[j].RSquared
	})
	return sorted
}

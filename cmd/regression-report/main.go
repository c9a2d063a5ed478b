// Command regression-report loads the cleaned snapshot and fits the OLS
// models of sale price against gross square footage, citywide and per
// borough, writing coefficient and goodness-of-fit tables plus a text
// summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"nycsales/internal/clean"
	"nycsales/internal/config"
	"nycsales/internal/errors"
	"nycsales/internal/infrastructure"
	"nycsales/internal/regression"
	"nycsales/internal/report"
	"nycsales/pkg/contracts"
	"nycsales/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	snapshotPath := flag.String("snapshot", "", "cleaned snapshot CSV to analyze (overrides config)")
	outputDir := flag.String("out", "", "output directory for report files (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *snapshotPath != "" {
		cfg.Paths.SnapshotPath = *snapshotPath
	}
	if *outputDir != "" {
		cfg.Paths.ReportsDir = *outputDir
	}

	logger, runID := infrastructure.InitializeLogger(cfg.Logging)
	ctx := context.Background()

	logger.InfoContext(ctx, "starting regression report",
		slog.String("version", contracts.GetVersionString()),
		slog.String("snapshot", cfg.Paths.SnapshotPath))

	if _, err := os.Stat(cfg.Paths.SnapshotPath); os.IsNotExist(err) {
		logger.Error("Snapshot not found",
			"path", cfg.Paths.SnapshotPath,
			"hint", "Run the pipeline command first to generate the cleaned snapshot")
		os.Exit(1)
	}

	records, err := clean.ReadSnapshot(ctx, cfg.Paths.SnapshotPath, logger)
	if err != nil {
		logger.Error("Failed to read snapshot", "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Error("Snapshot contains no records", "path", cfg.Paths.SnapshotPath)
		os.Exit(1)
	}

	engine := regression.NewEngine(logger)
	results, err := engine.FitAll(ctx, records)
	if err != nil {
		if errors.IsType(err, errors.ErrTypeInsufficientData) {
			logger.Error("A partition is too small for a two-parameter fit", "error", err)
		} else {
			logger.Error("Failed to fit regression models", "error", err)
		}
		os.Exit(1)
	}

	coefPath := filepath.Join(cfg.Paths.ReportsDir, "regression_coefficients.csv")
	if err := report.WriteCoefficientsCSV(results, coefPath); err != nil {
		logger.Error("Failed to write coefficient table", "error", err)
		os.Exit(1)
	}

	gofPath := filepath.Join(cfg.Paths.ReportsDir, "regression_fit.csv")
	if err := report.WriteGoodnessOfFitCSV(results, gofPath); err != nil {
		logger.Error("Failed to write goodness-of-fit table", "error", err)
		os.Exit(1)
	}

	summaryPath := filepath.Join(cfg.Paths.ReportsDir, "regression_summary.txt")
	if err := report.WriteSummary(results, runID, summaryPath); err != nil {
		logger.Error("Failed to write summary report", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "regression report generated",
		slog.String("coefficients", coefPath),
		slog.String("goodness_of_fit", gofPath),
		slog.String("summary", summaryPath),
		slog.Int("partitions", len(results)))

	printResults(results)
}

func printResults(results []domain.RegressionResult) {
	fmt.Println("\n=== PRICE PER SQUARE FOOT BY PARTITION (ascending slope) ===")
	fmt.Println("Partition     |     n |      Slope |   Intercept |     R2")
	fmt.Println("--------------|-------|------------|-------------|-------")

	boroughs := regression.BoroughResults(results)
	for _, r := range regression.SortBySlope(boroughs) {
		fmt.Printf("%-13s | %5d | %10.2f | %11.2f | %.4f\n",
			r.Partition, r.SampleSize, r.Slope.Estimate, r.Intercept.Estimate, r.RSquared)
	}
	for _, r := range results {
		if r.Partition == regression.PartitionCitywide {
			fmt.Printf("%-13s | %5d | %10.2f | %11.2f | %.4f\n",
				r.Partition, r.SampleSize, r.Slope.Estimate, r.Intercept.Estimate, r.RSquared)
		}
	}
}

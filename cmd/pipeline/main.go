// Command pipeline runs the one-time cleaning pass: it loads the
// per-borough rolling sales workbooks, normalizes and cleans the records,
// removes disguised multi-unit transactions, and writes the analysis-ready
// snapshot CSV that regression-report reads.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"nycsales/internal/clean"
	"nycsales/internal/config"
	"nycsales/internal/infrastructure"
	"nycsales/internal/ingest"
	"nycsales/internal/normalize"
	"nycsales/internal/outlier"
	"nycsales/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	sourceDir := flag.String("source", "", "source directory with per-borough workbooks (overrides config)")
	snapshotPath := flag.String("snapshot", "", "output path for the cleaned snapshot CSV (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *sourceDir != "" {
		cfg.Paths.SourceDir = *sourceDir
	}
	if *snapshotPath != "" {
		cfg.Paths.SnapshotPath = *snapshotPath
	}

	logger, runID := infrastructure.InitializeLogger(cfg.Logging)
	ctx := context.Background()

	logger.InfoContext(ctx, "starting cleaning pipeline",
		slog.String("version", contracts.GetVersionString()),
		slog.String("source_dir", cfg.Paths.SourceDir),
		slog.String("snapshot_path", cfg.Paths.SnapshotPath),
		slog.Int64("min_sale_price", cfg.Policy.MinSalePrice),
		slog.Int("group_size_cutoff", cfg.Policy.GroupSizeCutoff))

	discovery := ingest.NewDiscovery("")
	files, err := discovery.FindSourceFiles(cfg.Paths.SourceDir)
	if err != nil {
		logger.Error("Failed to discover source files", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("No source workbooks found", "source_dir", cfg.Paths.SourceDir)
		os.Exit(1)
	}

	loader := ingest.NewLoader(cfg.Policy.HeaderRowOffset, logger)
	rawRows, err := loader.LoadAll(ctx, files)
	if err != nil {
		logger.Error("Failed to load source files", "error", err)
		os.Exit(1)
	}

	normalizer := normalize.NewNormalizer(logger)
	records, err := normalizer.Normalize(ctx, rawRows)
	if err != nil {
		logger.Error("Failed to normalize records", "error", err)
		os.Exit(1)
	}

	cleaner := clean.NewCleaner(cfg.Policy.MinSalePrice, logger)
	cleaned := cleaner.Clean(ctx, records)

	detector := outlier.NewDetector(cfg.Policy.GroupSizeCutoff, cfg.Policy.ExcludedPrices, logger)
	verdict := detector.Detect(ctx, cleaned)
	removed := verdict.RemoveIndices()
	cleaned = clean.Drop(cleaned, removed)

	logger.InfoContext(ctx, "multi-unit removal applied",
		slog.Int("rows_removed", len(removed)),
		slog.Int("rows_remaining", len(cleaned)))

	if err := clean.WriteSnapshot(ctx, cfg.Paths.SnapshotPath, cleaned, logger); err != nil {
		logger.Error("Failed to write snapshot", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "cleaning pipeline complete",
		slog.String("run_id", runID),
		slog.String("snapshot", cfg.Paths.SnapshotPath),
		slog.Int("records", len(cleaned)))
}

// Package normalize standardizes raw sale rows: canonical column keys,
// borough recoding, title-cased free-text fields, dropped dead columns, and
// exact-duplicate removal.
package normalize

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nycsales/internal/errors"
	"nycsales/pkg/contracts/domain"
)

// ColumnKey rewrites a source column header to the canonical
// lowercase/underscored convention. Hyphens inside words are removed, so the
// source's "EASE-MENT" becomes "easement".
func ColumnKey(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.ReplaceAll(key, "-", "")
	return strings.Join(strings.Fields(key), "_")
}

// Normalizer rewrites raw rows into SaleRecords.
type Normalizer struct {
	logger *slog.Logger
	titler cases.Caser
}

// NewNormalizer creates a normalizer. A nil logger falls back to the
// default.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger: logger,
		titler: cases.Title(language.AmericanEnglish),
	}
}

// Normalize recodes boroughs, title-cases free-text fields, drops the
// easement column, and removes exact duplicate rows. Any borough code
// outside 1..5 aborts the run; rows are never silently dropped or
// defaulted. Input order is preserved, with the first of each duplicate
// set kept.
func (n *Normalizer) Normalize(ctx context.Context, rows []domain.RawSaleRow) ([]domain.SaleRecord, error) {
	n.logger.InfoContext(ctx, "normalizing raw rows", slog.Int("row_count", len(rows)))

	easementValues := 0
	seen := make(map[string]struct{}, len(rows))
	records := make([]domain.SaleRecord, 0, len(rows))

	for i, row := range rows {
		borough, err := domain.BoroughFromCode(row.BoroughCode)
		if err != nil {
			return nil, errors.NewUnknownCodeError(row.BoroughCode).WithContext("row", i)
		}

		if strings.TrimSpace(row.Easement) != "" {
			easementValues++
		}

		record := domain.SaleRecord{
			Borough:         borough,
			Neighborhood:    n.titler.String(strings.TrimSpace(row.Neighborhood)),
			BuildingClass:   strings.TrimSpace(row.BuildingClass),
			Address:         n.titler.String(strings.TrimSpace(row.Address)),
			ZipCode:         strings.TrimSpace(row.ZipCode),
			YearBuilt:       row.YearBuilt,
			GrossSquareFeet: row.GrossSquareFeet,
			SalePrice:       row.SalePrice,
			SaleDate:        row.SaleDate,
		}

		key := record.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, record)
	}

	if easementValues > 0 {
		// The easement column is expected to be all-null in the rolling
		// sales files; surface it if that ever stops holding.
		n.logger.WarnContext(ctx, "dropping easement column with non-empty values",
			slog.Int("non_empty_count", easementValues))
	}

	n.logger.InfoContext(ctx, "normalization complete",
		slog.Int("records", len(records)),
		slog.Int("duplicates_removed", len(rows)-len(records)))

	return records, nil
}

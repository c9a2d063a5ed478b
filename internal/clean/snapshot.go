package clean

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nycsales/internal/errors"
	"nycsales/pkg/contracts/domain"
)

// snapshotHeader is the column order of the persisted analysis dataset.
var snapshotHeader = []string{
	"borough",
	"neighborhood",
	"building_class_at_time_of_sale",
	"address",
	"zip_code",
	"year_built",
	"gross_square_feet",
	"sale_price",
	"sale_date",
}

const snapshotDateFormat = "2006-01-02"

// WriteSnapshot persists the cleaned dataset as the durable flat-file
// snapshot. The snapshot decouples the one-time cleaning cost from repeated
// analysis runs and is never mutated after writing.
func WriteSnapshot(ctx context.Context, path string, records []domain.SaleRecord, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "writing snapshot",
		slog.String("path", path),
		slog.Int("records", len(records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("create snapshot directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("create snapshot file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(snapshotHeader); err != nil {
		return errors.NewStorageError("write snapshot header", err)
	}

	for i, r := range records {
		row := []string{
			r.Borough.String(),
			r.Neighborhood,
			r.BuildingClass,
			r.Address,
			r.ZipCode,
			strconv.Itoa(r.YearBuilt),
			strconv.FormatFloat(r.GrossSquareFeet, 'f', -1, 64),
			strconv.FormatInt(r.SalePrice, 10),
			r.SaleDate.Format(snapshotDateFormat),
		}
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError(fmt.Sprintf("write snapshot row %d", i), err)
		}
	}

	return writer.Error()
}

// ReadSnapshot reloads the analysis dataset written by WriteSnapshot.
func ReadSnapshot(ctx context.Context, path string, logger *slog.Logger) ([]domain.SaleRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("open snapshot "+path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("read snapshot header", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[col] = i
	}
	for _, col := range snapshotHeader {
		if _, ok := idx[col]; !ok {
			return nil, errors.NewParsingError("snapshot missing column "+col, nil)
		}
	}

	var records []domain.SaleRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("read snapshot line %d", line), err)
		}

		record, err := parseSnapshotRow(row, idx)
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("parse snapshot line %d", line), err)
		}
		records = append(records, record)
	}

	logger.InfoContext(ctx, "read snapshot",
		slog.String("path", path),
		slog.Int("records", len(records)))

	return records, nil
}

func parseSnapshotRow(row []string, idx map[string]int) (domain.SaleRecord, error) {
	borough, err := domain.ParseBorough(row[idx["borough"]])
	if err != nil {
		return domain.SaleRecord{}, err
	}

	yearBuilt, err := strconv.Atoi(row[idx["year_built"]])
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("year built: %w", err)
	}
	gsf, err := strconv.ParseFloat(row[idx["gross_square_feet"]], 64)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("gross square feet: %w", err)
	}
	price, err := strconv.ParseInt(row[idx["sale_price"]], 10, 64)
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("sale price: %w", err)
	}
	saleDate, err := time.Parse(snapshotDateFormat, row[idx["sale_date"]])
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("sale date: %w", err)
	}

	return domain.SaleRecord{
		Borough:         borough,
		Neighborhood:    row[idx["neighborhood"]],
		BuildingClass:   row[idx["building_class_at_time_of_sale"]],
		Address:         row[idx["address"]],
		ZipCode:         row[idx["zip_code"]],
		YearBuilt:       yearBuilt,
		GrossSquareFeet: gsf,
		SalePrice:       price,
		SaleDate:        saleDate,
	}, nil
}

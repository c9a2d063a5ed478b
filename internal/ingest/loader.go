package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"nycsales/internal/errors"
	"nycsales/internal/normalize"
	"nycsales/pkg/contracts/domain"
)

// requiredColumns are the canonical keys the header row must provide. The
// source files carry further descriptive columns; those are either mapped
// opportunistically or ignored.
var requiredColumns = []string{
	"borough",
	"neighborhood",
	"building_class_at_time_of_sale",
	"address",
	"gross_square_feet",
	"sale_price",
	"sale_date",
}

// saleDateLayouts are the date renderings seen across rolling sales
// workbook vintages.
var saleDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006-01-02 15:04:05",
}

// Loader reads per-borough rolling sales workbooks.
type Loader struct {
	headerOffset int
	logger       *slog.Logger
}

// NewLoader creates a loader. headerOffset is the number of title rows
// preceding the header row in each workbook.
func NewLoader(headerOffset int, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{headerOffset: headerOffset, logger: logger}
}

// LoadAll loads every source file and concatenates the borough tables into
// one unified table. A missing or malformed file is terminal.
func (l *Loader) LoadAll(ctx context.Context, files []FileInfo) ([]domain.RawSaleRow, error) {
	if len(files) == 0 {
		return nil, errors.NewLoadError("no source files found", nil)
	}

	var all []domain.RawSaleRow
	for _, file := range files {
		rows, err := l.LoadFile(ctx, file.Path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file.Name, err)
		}
		if code, ok := boroughCodeFromFileName(file.Name); ok {
			for i, row := range rows {
				if row.BoroughCode != code {
					return nil, errors.NewLoadError(
						fmt.Sprintf("file %s is named for borough code %d but row %d carries code %d",
							file.Name, code, i+1, row.BoroughCode), nil)
				}
			}
		}
		l.logger.InfoContext(ctx, "loaded source file",
			slog.String("file", file.Name),
			slog.Int("rows", len(rows)))
		all = append(all, rows...)
	}

	l.logger.InfoContext(ctx, "loaded all source files",
		slog.Int("files", len(files)),
		slog.Int("total_rows", len(all)))

	return all, nil
}

// LoadFile reads one borough workbook. The header row must sit exactly at
// the configured offset and contain every required column; anything else is
// a load error.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]domain.RawSaleRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewLoadError("source file missing: "+path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewLoadError("open workbook "+path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewLoadError("workbook has no sheets: "+path, nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewLoadError("read sheet "+sheets[0], err)
	}

	if len(rows) <= l.headerOffset {
		return nil, errors.NewLoadError(
			fmt.Sprintf("workbook %s has %d rows, header expected at row %d", path, len(rows), l.headerOffset+1), nil)
	}

	columnMap, err := l.mapHeader(rows[l.headerOffset])
	if err != nil {
		return nil, fmt.Errorf("header row at offset %d in %s: %w", l.headerOffset, path, err)
	}

	var records []domain.RawSaleRow
	for i := l.headerOffset + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		record, err := l.parseRow(row, columnMap)
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("parse row %d of %s", i+1, path), err).WithContext("row", i+1)
		}
		records = append(records, record)
	}

	return records, nil
}

// mapHeader maps canonical column keys to their positions in the header
// row. A header that does not provide every required column means the
// expected offset does not match the file.
func (l *Loader) mapHeader(header []string) (map[string]int, error) {
	columnMap := make(map[string]int, len(header))
	for i, cell := range header {
		key := normalize.ColumnKey(cell)
		if key == "" {
			continue
		}
		if _, exists := columnMap[key]; !exists {
			columnMap[key] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columnMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewLoadError(
			"header row does not match expected layout, missing columns: "+strings.Join(missing, ", "), nil)
	}

	return columnMap, nil
}

func (l *Loader) parseRow(row []string, columnMap map[string]int) (domain.RawSaleRow, error) {
	cell := func(key string) string {
		idx, ok := columnMap[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	boroughCode, err := strconv.Atoi(cell("borough"))
	if err != nil {
		return domain.RawSaleRow{}, fmt.Errorf("borough code %q: %w", cell("borough"), err)
	}

	saleDate, err := parseSaleDate(cell("sale_date"))
	if err != nil {
		return domain.RawSaleRow{}, err
	}

	// Numeric fields: blank cells mean absent, thousands separators and
	// currency signs appear in some vintages.
	gsf, err := parseOptionalFloat(cell("gross_square_feet"))
	if err != nil {
		return domain.RawSaleRow{}, fmt.Errorf("gross square feet %q: %w", cell("gross_square_feet"), err)
	}
	price, err := parseOptionalInt(cell("sale_price"))
	if err != nil {
		return domain.RawSaleRow{}, fmt.Errorf("sale price %q: %w", cell("sale_price"), err)
	}
	yearBuilt, err := parseOptionalInt(cell("year_built"))
	if err != nil {
		return domain.RawSaleRow{}, fmt.Errorf("year built %q: %w", cell("year_built"), err)
	}

	return domain.RawSaleRow{
		BoroughCode:     boroughCode,
		Neighborhood:    cell("neighborhood"),
		BuildingClass:   cell("building_class_at_time_of_sale"),
		Address:         cell("address"),
		ZipCode:         cell("zip_code"),
		Easement:        cell("easement"),
		YearBuilt:       int(yearBuilt),
		GrossSquareFeet: gsf,
		SalePrice:       price,
		SaleDate:        saleDate,
	}, nil
}

// boroughCodeFromFileName infers the borough a file claims to cover from
// its name, e.g. rollingsales_manhattan.xlsx. Used to cross-check the
// in-file borough column against file provenance.
func boroughCodeFromFileName(name string) (int, bool) {
	lower := strings.ToLower(name)
	for _, b := range domain.AllBoroughs() {
		if strings.Contains(lower, strings.ToLower(b.String())) {
			return b.Code(), true
		}
	}
	return 0, false
}

func parseSaleDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("sale date is empty")
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("sale date %q does not match any known layout", s)
}

func parseOptionalFloat(s string) (float64, error) {
	s = cleanNumeric(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptionalInt(s string) (int64, error) {
	s = cleanNumeric(s)
	if s == "" {
		return 0, nil
	}
	// Some vintages render integer cells with a decimal point.
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	if s == "-" {
		return ""
	}
	return s
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Package report writes the per-partition coefficient and goodness-of-fit
// tables, plus a human-readable summary. These outputs are for reading, not
// machine consumption.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"nycsales/internal/errors"
	"nycsales/internal/regression"
	"nycsales/pkg/contracts/domain"
)

// WriteCoefficientsCSV writes one row per partition per model term.
func WriteCoefficientsCSV(results []domain.RegressionResult, outputPath string) error {
	if len(results) == 0 {
		return errors.NewValidationError("no regression results to write", nil)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return errors.NewStorageError("create report directory", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return errors.NewStorageError("create coefficients file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"partition", "term", "estimate", "std_error", "t_stat", "p_value", "ci_lower_95", "ci_upper_95"}
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("write coefficients header", err)
	}

	for _, result := range results {
		for _, c := range result.Coefficients() {
			row := []string{
				result.Partition,
				c.Term,
				formatFloat(c.Estimate),
				formatFloat(c.StdError),
				formatFloat(c.TStat),
				formatFloat(c.PValue),
				formatFloat(c.CILower),
				formatFloat(c.CIUpper),
			}
			if err := writer.Write(row); err != nil {
				return errors.NewStorageError("write coefficients row for "+result.Partition, err)
			}
		}
	}

	return writer.Error()
}

// WriteGoodnessOfFitCSV writes one goodness-of-fit row per partition.
func WriteGoodnessOfFitCSV(results []domain.RegressionResult, outputPath string) error {
	if len(results) == 0 {
		return errors.NewValidationError("no regression results to write", nil)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return errors.NewStorageError("create report directory", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return errors.NewStorageError("create goodness-of-fit file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"partition", "sample_size", "r_squared", "residual_std_error", "degrees_of_freedom"}
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("write goodness-of-fit header", err)
	}

	for _, result := range results {
		row := []string{
			result.Partition,
			strconv.Itoa(result.SampleSize),
			formatFloat(result.RSquared),
			formatFloat(result.ResidualStdError),
			strconv.Itoa(result.DegreesOfFreedom),
		}
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError("write goodness-of-fit row for "+result.Partition, err)
		}
	}

	return writer.Error()
}

// WriteSummary writes the narrative summary report: the citywide fit, then
// boroughs ordered ascending by slope and separately ascending by R².
func WriteSummary(results []domain.RegressionResult, runID, outputPath string) error {
	if len(results) == 0 {
		return errors.NewValidationError("no regression results to write", nil)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return errors.NewStorageError("create report directory", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return errors.NewStorageError("create summary file", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "NYC Condominium Sales - Price vs. Size Regression Summary\n")
	fmt.Fprintf(file, "=========================================================\n\n")
	fmt.Fprintf(file, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "Run ID: %s\n\n", runID)

	for _, result := range results {
		if result.Partition != regression.PartitionCitywide {
			continue
		}
		fmt.Fprintf(file, "CITYWIDE MODEL\n")
		fmt.Fprintf(file, "--------------\n")
		writeResult(file, result)
	}

	boroughs := regression.BoroughResults(results)
	if len(boroughs) == 0 {
		return nil
	}

	fmt.Fprintf(file, "BOROUGHS BY PRICE PER SQUARE FOOT (ascending slope)\n")
	fmt.Fprintf(file, "---------------------------------------------------\n")
	for i, result := range regression.SortBySlope(boroughs) {
		fmt.Fprintf(file, "%d. %-13s slope %12.2f  (95%% CI %.2f to %.2f)\n",
			i+1, result.Partition, result.Slope.Estimate, result.Slope.CILower, result.Slope.CIUpper)
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "BOROUGHS BY VARIANCE EXPLAINED (ascending R-squared)\n")
	fmt.Fprintf(file, "----------------------------------------------------\n")
	for i, result := range regression.SortByR2(boroughs) {
		fmt.Fprintf(file, "%d. %-13s R2 %.4f  residual std error %.0f  n=%d\n",
			i+1, result.Partition, result.RSquared, result.ResidualStdError, result.SampleSize)
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "PER-BOROUGH DETAIL\n")
	fmt.Fprintf(file, "------------------\n")
	for _, result := range boroughs {
		fmt.Fprintf(file, "%s\n", result.Partition)
		writeResult(file, result)
	}

	return nil
}

func writeResult(file *os.File, result domain.RegressionResult) {
	fmt.Fprintf(file, "n=%d, df=%d, R2=%.4f, residual std error=%.2f\n",
		result.SampleSize, result.DegreesOfFreedom, result.RSquared, result.ResidualStdError)
	for _, c := range result.Coefficients() {
		fmt.Fprintf(file, "  %-18s estimate %14.4f  se %12.4f  t %10.4f  p %.4g  CI [%.4f, %.4f]\n",
			c.Term, c.Estimate, c.StdError, c.TStat, c.PValue, c.CILower, c.CIUpper)
	}
	fmt.Fprintf(file, "\n")
}

// formatFloat renders floats compactly without trailing zero noise.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

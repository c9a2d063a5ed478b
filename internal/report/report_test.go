package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nycsales/internal/regression"
	"nycsales/pkg/contracts/domain"
)

func sampleResults() []domain.RegressionResult {
	return []domain.RegressionResult{
		{
			Partition:  regression.PartitionCitywide,
			SampleSize: 9,
			Intercept: domain.Coefficient{
				Term: "intercept", Estimate: 1500, StdError: 200,
				TStat: 7.5, PValue: 0.0001, CILower: 1090, CIUpper: 1910,
			},
			Slope: domain.Coefficient{
				Term: "gross_square_feet", Estimate: 720, StdError: 40,
				TStat: 18, PValue: 0.00001, CILower: 638, CIUpper: 802,
			},
			RSquared:         0.74,
			ResidualStdError: 180000,
			DegreesOfFreedom: 7,
		},
		{
			Partition:  "Brooklyn",
			SampleSize: 5,
			Intercept:  domain.Coefficient{Term: "intercept", Estimate: 1000},
			Slope:      domain.Coefficient{Term: "gross_square_feet", Estimate: 800},
			RSquared:   0.68, ResidualStdError: 120000, DegreesOfFreedom: 3,
		},
		{
			Partition:  "Queens",
			SampleSize: 4,
			Intercept:  domain.Coefficient{Term: "intercept", Estimate: 2000},
			Slope:      domain.Coefficient{Term: "gross_square_feet", Estimate: 600},
			RSquared:   0.81, ResidualStdError: 90000, DegreesOfFreedom: 2,
		},
	}
}

func TestWriteCoefficientsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "coefficients.csv")
	require.NoError(t, WriteCoefficientsCSV(sampleResults(), path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	// Header plus two terms per partition.
	require.Len(t, rows, 1+2*3)
	assert.Equal(t, []string{"partition", "term", "estimate", "std_error", "t_stat", "p_value", "ci_lower_95", "ci_upper_95"}, rows[0])
	assert.Equal(t, "Citywide", rows[1][0])
	assert.Equal(t, "intercept", rows[1][1])
	assert.Equal(t, "gross_square_feet", rows[2][1])
	assert.Equal(t, "720", rows[2][2])
}

func TestWriteGoodnessOfFitCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fit.csv")
	require.NoError(t, WriteGoodnessOfFitCSV(sampleResults(), path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"partition", "sample_size", "r_squared", "residual_std_error", "degrees_of_freedom"}, rows[0])
	assert.Equal(t, []string{"Citywide", "9", "0.74", "180000", "7"}, rows[1])
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")
	require.NoError(t, WriteSummary(sampleResults(), "run-123", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Run ID: run-123")
	assert.Contains(t, text, "CITYWIDE MODEL")

	// Boroughs ordered ascending by slope: Queens (600) before Brooklyn (800).
	slopeSection := text[strings.Index(text, "ascending slope"):]
	assert.Less(t, strings.Index(slopeSection, "Queens"), strings.Index(slopeSection, "Brooklyn"))

	// And separately ascending by R²: Brooklyn (0.68) before Queens (0.81).
	r2Section := text[strings.Index(text, "ascending R-squared"):]
	assert.Less(t, strings.Index(r2Section, "Brooklyn"), strings.Index(r2Section, "Queens"))
}

func TestWriters_RejectEmptyResults(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, WriteCoefficientsCSV(nil, filepath.Join(dir, "c.csv")))
	assert.Error(t, WriteGoodnessOfFitCSV(nil, filepath.Join(dir, "g.csv")))
	assert.Error(t, WriteSummary(nil, "run", filepath.Join(dir, "s.txt")))
}

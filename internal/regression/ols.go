// Package regression fits ordinary-least-squares models of sale price
// against gross square footage, citywide and per borough. Each fit is a
// pure function of its input subset; nothing is updated incrementally.
package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"nycsales/internal/errors"
	"nycsales/pkg/contracts/domain"
)

// MinSampleSize is the smallest partition that supports a two-parameter fit
// with usable inference: below 3 records the degrees of freedom are <= 0.
const MinSampleSize = 3

const confidenceLevel = 0.95

// Fit estimates sale_price = intercept + slope*gross_square_feet by OLS and
// derives standard errors, t statistics, two-sided p-values and 95%
// confidence intervals from the t distribution with n-2 degrees of freedom.
// Partitions smaller than MinSampleSize fail with an INSUFFICIENT_DATA
// error rather than producing a degenerate fit.
func Fit(partition string, xs, ys []float64) (domain.RegressionResult, error) {
	n := len(xs)
	if n != len(ys) {
		return domain.RegressionResult{}, errors.NewValidationError(
			fmt.Sprintf("partition %s has %d x values but %d y values", partition, n, len(ys)), nil)
	}
	if n < MinSampleSize {
		return domain.RegressionResult{}, errors.NewInsufficientDataError(partition, n)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return domain.RegressionResult{}, errors.NewValidationError(
			fmt.Sprintf("partition %s: gross square footage has zero variance", partition), nil)
	}

	df := n - 2
	xMean := stat.Mean(xs, nil)

	var sse, sst, sxx float64
	yMean := stat.Mean(ys, nil)
	for i := range xs {
		predicted := intercept + slope*xs[i]
		residual := ys[i] - predicted
		sse += residual * residual
		sst += (ys[i] - yMean) * (ys[i] - yMean)
		sxx += (xs[i] - xMean) * (xs[i] - xMean)
	}

	residualStdError := math.Sqrt(sse / float64(df))
	slopeSE := residualStdError / math.Sqrt(sxx)
	interceptSE := residualStdError * math.Sqrt(1.0/float64(n)+xMean*xMean/sxx)

	rSquared := 1.0
	if sst > 0 {
		rSquared = 1 - sse/sst
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	tCrit := tDist.Quantile(1 - (1-confidenceLevel)/2)

	return domain.RegressionResult{
		Partition:        partition,
		SampleSize:       n,
		Intercept:        coefficient("intercept", intercept, interceptSE, tDist, tCrit),
		Slope:            coefficient("gross_square_feet", slope, slopeSE, tDist, tCrit),
		RSquared:         rSquared,
		ResidualStdError: residualStdError,
		DegreesOfFreedom: df,
	}, nil
}

// coefficient assembles the inference row for one term: the t statistic
// tests H0: coefficient = 0, two-sided.
func coefficient(term string, estimate, stdError float64, tDist distuv.StudentsT, tCrit float64) domain.Coefficient {
	tStat := math.Inf(1)
	pValue := 0.0
	if stdError > 0 {
		tStat = estimate / stdError
		pValue = 2 * tDist.Survival(math.Abs(tStat))
	}
	return domain.Coefficient{
		Term:     term,
		Estimate: estimate,
		StdError: stdError,
		TStat:    tStat,
		PValue:   pValue,
		CILower:  estimate - tCrit*stdError,
		CIUpper:  estimate + tCrit*stdError,
	}
}

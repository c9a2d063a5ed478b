package domain

// Coefficient holds the inference for a single model term.
type Coefficient struct {
	Term     string  `json:"term"`
	Estimate float64 `json:"estimate"`
	StdError float64 `json:"std_error"`
	TStat    float64 `json:"t_stat"`
	PValue   float64 `json:"p_value"`
	CILower  float64 `json:"ci_lower"`
	CIUpper  float64 `json:"ci_upper"`
}

// RegressionResult is the immutable output of one OLS fit of sale price
// against gross square footage on a partition of the cleaned dataset.
type RegressionResult struct {
	Partition        string        `json:"partition"`
	SampleSize       int           `json:"sample_size"`
	Intercept        Coefficient   `json:"intercept"`
	Slope            Coefficient   `json:"slope"`
	RSquared         float64       `json:"r_squared"`
	ResidualStdError float64       `json:"residual_std_error"`
	DegreesOfFreedom int           `json:"degrees_of_freedom"`
}

// Coefficients returns the intercept and slope rows in reporting order.
func (r RegressionResult) Coefficients() []Coefficient {
	return []Coefficient{r.Intercept, r.Slope}
}

// IsValid checks basic internal consistency of a fit result.
func (r RegressionResult) IsValid() bool {
	return r.Partition != "" && r.SampleSize >= 3 &&
		r.DegreesOfFreedom == r.SampleSize-2 &&
		r.RSquared >= 0 && r.RSquared <= 1
}

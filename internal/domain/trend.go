package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TrendDirection labels the outcome of a yearly trend fit.
type TrendDirection string

const (
	TrendIncreasing       TrendDirection = "increasing"
	TrendDecreasing       TrendDirection = "decreasing"
	TrendNoSignificant    TrendDirection = "no_significant_trend"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// minTrendYears is the smallest number of distinct years with samples that
// supports a non-degenerate regression.
const minTrendYears = 3

// TrendResult reports the year-over-year trend of a condition's exceedance
// rate. SlopePerDecade and PValue are nil when fewer than three years carry
// samples, with Direction set to insufficient_data.
type TrendResult struct {
	YearlyRates    map[int]float64 `json:"yearly_rates"`
	SlopePerDecade *float64        `json:"slope_per_decade"`
	PValue         *float64        `json:"p_value"`
	Direction      TrendDirection  `json:"direction"`
}

// EstimateTrend groups a sample set's flags by local year, computes one
// exceedance rate per year, and fits an OLS line of rate against year.
// Years with no samples are excluded from the regression, never treated as
// rate zero.
func EstimateTrend(set SampleSet, condition Condition, thresholds Thresholds, significanceLevel float64) TrendResult {
	rates := make(map[int]float64)
	positives := make(map[int]int)
	totals := make(map[int]int)

	for _, s := range set.Samples {
		flags := Classify(s, Derive(s), thresholds)
		year := s.Year()
		totals[year]++
		if flags.Flag(condition) {
			positives[year]++
		}
	}

	for year, n := range totals {
		rates[year] = float64(positives[year]) / float64(n)
	}

	return TrendFromYearlyRates(rates, significanceLevel)
}

// TrendFromYearlyRates fits the yearly exceedance rates directly. The engine
// uses this path so per-sample classification happens once per request.
//
// The slope is rescaled to percentage points per decade (slope/year × 10 ×
// 100). The p-value is the two-sided probability of the slope's t-statistic
// under the Student's t distribution with n−2 degrees of freedom.
func TrendFromYearlyRates(rates map[int]float64, significanceLevel float64) TrendResult {
	result := TrendResult{
		YearlyRates: rates,
		Direction:   TrendInsufficientData,
	}

	if len(rates) < minTrendYears {
		return result
	}

	years := make([]int, 0, len(rates))
	for y := range rates {
		years = append(years, y)
	}
	sort.Ints(years)

	xs := make([]float64, len(years))
	ys := make([]float64, len(years))
	for i, y := range years {
		xs[i] = float64(y)
		ys[i] = rates[y]
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	pValue := slopePValue(xs, ys, slope)

	slopePerDecade := slope * 10 * 100
	result.SlopePerDecade = &slopePerDecade
	result.PValue = &pValue

	switch {
	case pValue > significanceLevel || slope == 0:
		result.Direction = TrendNoSignificant
	case slope > 0:
		result.Direction = TrendIncreasing
	default:
		result.Direction = TrendDecreasing
	}

	return result
}

// slopePValue computes the two-sided p-value for the OLS slope coefficient
// under the standard t-test.
func slopePValue(xs, ys []float64, slope float64) float64 {
	n := len(xs)
	xMean := stat.Mean(xs, nil)
	yMean := stat.Mean(ys, nil)

	var sse, sxx float64
	for i := range xs {
		dx := xs[i] - xMean
		residual := ys[i] - (yMean + slope*dx)
		sse += residual * residual
		sxx += dx * dx
	}

	df := float64(n - 2)
	se := math.Sqrt(sse / df / sxx)

	// A perfect fit leaves no residual variance: the slope is either exactly
	// zero (no trend) or unambiguously nonzero.
	if se == 0 {
		if slope == 0 {
			return 1
		}
		return 0
	}

	t := slope / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}

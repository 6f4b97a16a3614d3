package domain

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// ProbabilityResult is the exceedance probability estimate for one condition.
type ProbabilityResult struct {
	PointEstimate   float64 `json:"point_estimate"`
	CILower         float64 `json:"ci_lower"`
	CIUpper         float64 `json:"ci_upper"`
	ConfidenceLevel float64 `json:"confidence_level"`
	PositiveCount   int     `json:"positive_count"`
	TotalCount      int     `json:"total_count"`
}

// EstimateProbability computes the point estimate k/n and an exact two-sided
// Clopper–Pearson confidence interval over a condition's flag sequence.
//
// The exact interval is derived from Beta quantiles rather than a normal
// approximation: per-condition counts are often near 0 or near n, where the
// normal approximation breaks down.
//
// n = 0 is a defensive fallback (coverage validation rejects it upstream):
// the result is point estimate 0 with the vacuous interval [0, 1].
func EstimateProbability(flags []bool, confidenceLevel float64) ProbabilityResult {
	n := len(flags)
	k := 0
	for _, f := range flags {
		if f {
			k++
		}
	}

	result := ProbabilityResult{
		ConfidenceLevel: confidenceLevel,
		PositiveCount:   k,
		TotalCount:      n,
	}

	if n == 0 {
		result.CIUpper = 1
		return result
	}

	result.PointEstimate = float64(k) / float64(n)
	result.CILower, result.CIUpper = clopperPearson(k, n, confidenceLevel)
	return result
}

// clopperPearson returns the exact two-sided binomial interval for k
// successes in n trials.
//
// Lower bound: Beta⁻¹(α/2; k, n−k+1) when k > 0, exactly 0 otherwise.
// Upper bound: Beta⁻¹(1−α/2; k+1, n−k) when k < n, exactly 1 otherwise.
func clopperPearson(k, n int, confidenceLevel float64) (lower, upper float64) {
	alpha := 1 - confidenceLevel

	lower = 0
	if k > 0 {
		lower = distuv.Beta{
			Alpha: float64(k),
			Beta:  float64(n - k + 1),
		}.Quantile(alpha / 2)
	}

	upper = 1
	if k < n {
		upper = distuv.Beta{
			Alpha: float64(k + 1),
			Beta:  float64(n - k),
		}.Quantile(1 - alpha/2)
	}

	return lower, upper
}

package domain

// CoverageConfig sets the minimum sample-coverage requirements for a
// statistically meaningful estimate.
type CoverageConfig struct {
	MinYears   int `json:"min_years"`
	MinSamples int `json:"min_samples"`
}

// DefaultCoverageConfig returns the standard coverage requirements.
func DefaultCoverageConfig() CoverageConfig {
	return CoverageConfig{MinYears: 15, MinSamples: 8}
}

// CoverageReport summarizes how much history backs a sample set. Computed once
// per SampleSet and immutable afterwards.
type CoverageReport struct {
	DistinctYears int  `json:"distinct_years"`
	TotalSamples  int  `json:"total_samples"`
	Adequate      bool `json:"adequate"`
}

// ValidateCoverage counts distinct local-calendar years and total samples.
// It is a pure predicate; short-circuiting on inadequate coverage is the
// engine's responsibility.
func ValidateCoverage(set SampleSet, cfg CoverageConfig) CoverageReport {
	years := make(map[int]struct{}, len(set.Samples))
	for _, s := range set.Samples {
		years[s.Year()] = struct{}{}
	}

	report := CoverageReport{
		DistinctYears: len(years),
		TotalSamples:  len(set.Samples),
	}
	report.Adequate = report.DistinctYears >= cfg.MinYears && report.TotalSamples >= cfg.MinSamples
	return report
}

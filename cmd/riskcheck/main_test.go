package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/climate-risk-service/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func summaryAssessment() (domain.Assessment, domain.SampleSet) {
	a := domain.Assessment{
		ID:       "risk-0123456789abcdef",
		Outcome:  domain.OutcomeComputed,
		Coverage: domain.CoverageReport{DistinctYears: 20, TotalSamples: 100, Adequate: true},
		Conditions: map[domain.Condition]domain.ConditionAssessment{
			domain.ConditionVeryHot: {
				Probability: &domain.ProbabilityResult{
					PointEstimate:   0.05,
					CILower:         0.016,
					CIUpper:         0.113,
					ConfidenceLevel: 0.95,
					PositiveCount:   5,
					TotalCount:      100,
				},
				Trend: domain.TrendResult{
					YearlyRates:    map[int]float64{2005: 0, 2024: 0.1},
					SlopePerDecade: floatPtr(20.0),
					PValue:         floatPtr(0.01),
					Direction:      domain.TrendIncreasing,
				},
			},
			domain.ConditionVeryCold: {
				Probability: &domain.ProbabilityResult{ConfidenceLevel: 0.95, TotalCount: 100},
				Trend:       domain.TrendResult{Direction: domain.TrendInsufficientData},
			},
		},
		Thresholds:      domain.DefaultThresholds(),
		ConfidenceLevel: 0.95,
		AssessedAt:      time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC),
	}
	set := domain.SampleSet{TargetDayOfYear: 167, TargetHour: 14, WindowDays: 7}
	return a, set
}

func TestPrintAssessment_SlopePerDecadeUnscaled(t *testing.T) {
	a, set := summaryAssessment()

	var buf bytes.Buffer
	printAssessment(&buf, a, set)
	out := buf.String()

	// SlopePerDecade already carries percentage points per decade; the
	// summary must print it as-is.
	assert.Contains(t, out, "trend=increasing (20.0pp/decade, p=0.010)")
	assert.NotContains(t, out, "2000.0pp/decade")
}

func TestPrintAssessment_Layout(t *testing.T) {
	a, set := summaryAssessment()

	var buf bytes.Buffer
	printAssessment(&buf, a, set)
	out := buf.String()

	assert.Contains(t, out, "Assessment risk-0123456789abcdef (computed)")
	assert.Contains(t, out, "samples: 100 across 20 years, window ±7 days around DOY 167 at hour 14")
	assert.Contains(t, out, "P=0.050 [0.016, 0.113]")
	assert.Contains(t, out, "trend=insufficient_data")

	// Conditions print in sorted order regardless of map iteration.
	cold := bytes.Index(buf.Bytes(), []byte("very_cold"))
	hot := bytes.Index(buf.Bytes(), []byte("very_hot"))
	assert.True(t, cold >= 0 && hot >= 0 && cold < hot)
}

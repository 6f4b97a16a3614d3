package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Outcome is the terminal state of a single assessment. There are exactly two;
// the engine is a pure synchronous computation with no retryable middle state.
type Outcome string

const (
	OutcomeComputed             Outcome = "computed"
	OutcomeInsufficientCoverage Outcome = "insufficient_coverage"
)

// ConditionAssessment bundles one condition's probability and trend results.
// Probability is nil when the assessment outcome is insufficient_coverage.
type ConditionAssessment struct {
	Probability *ProbabilityResult `json:"probability,omitempty"`
	Trend       TrendResult        `json:"trend"`
}

// Assessment is the full per-request result bundle.
//
// AssessedAt is the only field not derived from the input; it comes from the
// package clock, so a frozen clock makes repeated assessments bit-identical.
type Assessment struct {
	ID              string                            `json:"id"`
	Outcome         Outcome                           `json:"outcome"`
	Coverage        CoverageReport                    `json:"coverage"`
	Conditions      map[Condition]ConditionAssessment `json:"conditions"`
	Thresholds      Thresholds                        `json:"thresholds"`
	ConfidenceLevel float64                           `json:"confidence_level"`
	AssessedAt      time.Time                         `json:"assessed_at"`
}

// Engine composes the coverage validator, index calculator, classifier,
// probability estimator, and trend estimator over a caller-supplied sample
// set. It is stateless beyond its injected configuration and safe for
// concurrent use; nothing is memoized across calls.
type Engine struct {
	thresholds        Thresholds
	coverage          CoverageConfig
	confidenceLevel   float64
	significanceLevel float64
}

// NewEngine validates the threshold configuration and returns an engine.
// Structural threshold problems surface here, never during assessment.
func NewEngine(thresholds Thresholds, coverage CoverageConfig, confidenceLevel, significanceLevel float64) (*Engine, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return nil, fmt.Errorf("%w: confidence_level must be in (0, 1), got %g", ErrInvalidThresholds, confidenceLevel)
	}
	if significanceLevel <= 0 || significanceLevel >= 1 {
		return nil, fmt.Errorf("%w: significance_level must be in (0, 1), got %g", ErrInvalidThresholds, significanceLevel)
	}
	return &Engine{
		thresholds:        thresholds,
		coverage:          coverage,
		confidenceLevel:   confidenceLevel,
		significanceLevel: significanceLevel,
	}, nil
}

// Assess runs the full pipeline over one sample set.
//
// Coverage gates the probability estimates: an inadequate set yields the
// insufficient_coverage outcome with no per-condition probabilities, never a
// partial computation. Trends are the deliberate exception: they operate on
// per-year rates rather than the aggregate pool, so they are fitted whenever
// enough distinct years exist, even when overall coverage fails the gate.
func (e *Engine) Assess(set SampleSet) Assessment {
	coverage := ValidateCoverage(set, e.coverage)

	// Derived indices are computed once per sample and shared across all
	// condition flags.
	flags := make([]ConditionFlags, len(set.Samples))
	for i, s := range set.Samples {
		flags[i] = Classify(s, Derive(s), e.thresholds)
	}

	conditions := make(map[Condition]ConditionAssessment, len(AllConditions()))
	for _, cond := range AllConditions() {
		ca := ConditionAssessment{
			Trend: e.trend(set, flags, cond),
		}
		if coverage.Adequate {
			seq := make([]bool, len(flags))
			for i, f := range flags {
				seq[i] = f.Flag(cond)
			}
			p := EstimateProbability(seq, e.confidenceLevel)
			ca.Probability = &p
		}
		conditions[cond] = ca
	}

	outcome := OutcomeComputed
	if !coverage.Adequate {
		outcome = OutcomeInsufficientCoverage
	}

	return Assessment{
		ID:              assessmentID(set, e.thresholds),
		Outcome:         outcome,
		Coverage:        coverage,
		Conditions:      conditions,
		Thresholds:      e.thresholds,
		ConfidenceLevel: e.confidenceLevel,
		AssessedAt:      clock.Now().UTC(),
	}
}

// trend computes one condition's yearly rates from the pre-computed flags.
func (e *Engine) trend(set SampleSet, flags []ConditionFlags, cond Condition) TrendResult {
	positives := make(map[int]int)
	totals := make(map[int]int)
	for i, s := range set.Samples {
		year := s.Year()
		totals[year]++
		if flags[i].Flag(cond) {
			positives[year]++
		}
	}

	rates := make(map[int]float64, len(totals))
	for year, n := range totals {
		rates[year] = float64(positives[year]) / float64(n)
	}
	return TrendFromYearlyRates(rates, e.significanceLevel)
}

// assessmentID produces a deterministic ID from the request's identifying
// fields. Reassessing the same sample set and thresholds yields the same ID,
// which keeps downstream publishing idempotent.
func assessmentID(set SampleSet, t Thresholds) string {
	input := fmt.Sprintf("%d|%d|%d|%d|%g|%g|%g|%g|%g",
		set.TargetDayOfYear, set.TargetHour, set.WindowDays, len(set.Samples),
		t.HotC, t.UncomfortableC, t.ColdC, t.WindMS, t.WetMMPerH,
	)
	hash := sha256.Sum256([]byte(input))
	return "risk-" + hex.EncodeToString(hash[:8])
}

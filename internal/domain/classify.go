package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThresholds marks structurally invalid threshold configuration.
// It is returned at configuration load, never at per-sample evaluation time.
var ErrInvalidThresholds = errors.New("invalid threshold configuration")

// Thresholds holds the caller-supplied exceedance limits for each condition.
type Thresholds struct {
	HotC           float64 `json:"hot_c"`
	UncomfortableC float64 `json:"uncomfortable_c"`
	ColdC          float64 `json:"cold_c"`
	WindMS         float64 `json:"wind_ms"`
	WetMMPerH      float64 `json:"wet_mm_per_h"`
}

// DefaultThresholds returns the standard operational limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HotC:           41.0,
		UncomfortableC: 32.0,
		ColdC:          -10.0,
		WindMS:         10.8,
		WetMMPerH:      4.0,
	}
}

// Validate checks the thresholds for structural problems: NaN values,
// non-positive wind/precipitation limits, and inverted temperature ordering
// (cold must sit below uncomfortable, which must not exceed hot).
func (t Thresholds) Validate() error {
	fields := map[string]float64{
		"hot_c":           t.HotC,
		"uncomfortable_c": t.UncomfortableC,
		"cold_c":          t.ColdC,
		"wind_ms":         t.WindMS,
		"wet_mm_per_h":    t.WetMMPerH,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidThresholds, name)
		}
	}
	if t.UncomfortableC > t.HotC {
		return fmt.Errorf("%w: uncomfortable_c (%g) above hot_c (%g)", ErrInvalidThresholds, t.UncomfortableC, t.HotC)
	}
	if t.ColdC >= t.UncomfortableC {
		return fmt.Errorf("%w: cold_c (%g) not below uncomfortable_c (%g)", ErrInvalidThresholds, t.ColdC, t.UncomfortableC)
	}
	if t.WindMS <= 0 {
		return fmt.Errorf("%w: wind_ms must be positive, got %g", ErrInvalidThresholds, t.WindMS)
	}
	if t.WetMMPerH <= 0 {
		return fmt.Errorf("%w: wet_mm_per_h must be positive, got %g", ErrInvalidThresholds, t.WetMMPerH)
	}
	return nil
}

// Classify maps one sample's raw and derived values to exceedance flags.
// All comparisons use closed boundaries (>= / <=).
//
// very_cold is the only flag gated by an index validity flag: wind chill
// outside its validity domain must never register as very cold, even when
// the continuity value happens to fall below the threshold.
func Classify(s Sample, d DerivedIndices, t Thresholds) ConditionFlags {
	return ConditionFlags{
		VeryHot:           d.HeatIndexC >= t.HotC,
		VeryUncomfortable: d.HeatIndexC >= t.UncomfortableC,
		VeryCold:          d.WindChillValid && d.WindChillC <= t.ColdC,
		VeryWindy:         s.WindSpeedMS >= t.WindMS,
		VeryWet:           s.PrecipRateMMPerH >= t.WetMMPerH,
	}
}

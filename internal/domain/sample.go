package domain

import (
	"time"
)

// PrecipSource tags the provenance of a sample's precipitation rate.
type PrecipSource string

const (
	// PrecipSourcePrimary means the rate came from the primary hourly sensor product.
	PrecipSourcePrimary PrecipSource = "primary"
	// PrecipSourceFallback means the rate was derived from a daily total.
	PrecipSourceFallback PrecipSource = "fallback"
	// PrecipSourceMixed means the rate blends primary and fallback data.
	PrecipSourceMixed PrecipSource = "mixed"
)

// Sample is one historical observation at a fixed UTC instant, already mapped
// to a local calendar day and local hour by the collector. Samples with any
// required raw field missing never reach this package.
type Sample struct {
	TimestampUTC time.Time `json:"timestamp_utc"`
	LocalDate    time.Time `json:"local_date"`
	LocalHour    int       `json:"local_hour"`

	TemperatureC        float64 `json:"temperature_c"`
	RelativeHumidityPct float64 `json:"relative_humidity_pct"`
	WindSpeedMS         float64 `json:"wind_speed_ms"`
	PrecipRateMMPerH    float64 `json:"precipitation_rate_mm_per_h"`

	PrecipSource PrecipSource `json:"precipitation_source"`
}

// Year returns the local calendar year the sample belongs to.
func (s Sample) Year() int {
	return s.LocalDate.Year()
}

// SampleSet is the unit of work passed into the engine: samples spanning
// multiple years, all at the same target local hour and within the
// target DOY ± window band. Wraparound at day-of-year boundaries is the
// collector's problem, not this package's.
type SampleSet struct {
	Samples []Sample `json:"samples"`

	TargetDayOfYear int `json:"target_day_of_year"`
	TargetHour      int `json:"target_hour"`
	WindowDays      int `json:"window_days"`
}

// Condition identifies one of the adverse-weather conditions the engine estimates.
type Condition string

const (
	ConditionVeryHot           Condition = "very_hot"
	ConditionVeryUncomfortable Condition = "very_uncomfortable"
	ConditionVeryCold          Condition = "very_cold"
	ConditionVeryWindy         Condition = "very_windy"
	ConditionVeryWet           Condition = "very_wet"

	// ConditionAnyAdverse aggregates the five named conditions: true for a
	// sample when any named flag is true.
	ConditionAnyAdverse Condition = "any_adverse"
)

// NamedConditions returns the five threshold-backed conditions, in stable order.
func NamedConditions() []Condition {
	return []Condition{
		ConditionVeryHot,
		ConditionVeryUncomfortable,
		ConditionVeryCold,
		ConditionVeryWindy,
		ConditionVeryWet,
	}
}

// AllConditions returns the named conditions plus the any_adverse aggregate.
func AllConditions() []Condition {
	return append(NamedConditions(), ConditionAnyAdverse)
}

// DerivedIndices holds the comfort/hazard indices computed from a sample's raw
// values. The values are always populated for continuity; the companion flags
// mark whether each formula was applied inside its physical validity domain.
type DerivedIndices struct {
	HeatIndexC     float64 `json:"heat_index_c"`
	HeatIndexValid bool    `json:"heat_index_valid"`
	WindChillC     float64 `json:"wind_chill_c"`
	WindChillValid bool    `json:"wind_chill_valid"`
}

// Derive computes both indices for a sample.
func Derive(s Sample) DerivedIndices {
	hi, hiValid := HeatIndex(s.TemperatureC, s.RelativeHumidityPct)
	wc, wcValid := WindChill(s.TemperatureC, s.WindSpeedMS)
	return DerivedIndices{
		HeatIndexC:     hi,
		HeatIndexValid: hiValid,
		WindChillC:     wc,
		WindChillValid: wcValid,
	}
}

// ConditionFlags holds the per-sample exceedance flags.
type ConditionFlags struct {
	VeryHot           bool `json:"very_hot"`
	VeryUncomfortable bool `json:"very_uncomfortable"`
	VeryCold          bool `json:"very_cold"`
	VeryWindy         bool `json:"very_windy"`
	VeryWet           bool `json:"very_wet"`
}

// AnyAdverse reports whether any named condition flag is set.
func (f ConditionFlags) AnyAdverse() bool {
	return f.VeryHot || f.VeryUncomfortable || f.VeryCold || f.VeryWindy || f.VeryWet
}

// Flag returns the value of a single condition, including the aggregate.
func (f ConditionFlags) Flag(c Condition) bool {
	switch c {
	case ConditionVeryHot:
		return f.VeryHot
	case ConditionVeryUncomfortable:
		return f.VeryUncomfortable
	case ConditionVeryCold:
		return f.VeryCold
	case ConditionVeryWindy:
		return f.VeryWindy
	case ConditionVeryWet:
		return f.VeryWet
	case ConditionAnyAdverse:
		return f.AnyAdverse()
	default:
		return false
	}
}

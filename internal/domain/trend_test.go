package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendFromYearlyRatesSteadyIncrease(t *testing.T) {
	// Two percentage points per year, perfectly linear.
	rates := map[int]float64{}
	for i := 0; i < 10; i++ {
		rates[2010+i] = 0.10 + 0.02*float64(i)
	}

	result := TrendFromYearlyRates(rates, 0.05)

	require.NotNil(t, result.SlopePerDecade)
	require.NotNil(t, result.PValue)
	assert.InDelta(t, 20.0, *result.SlopePerDecade, 1e-9)
	assert.InDelta(t, 0.0, *result.PValue, 1e-9)
	assert.Equal(t, TrendIncreasing, result.Direction)
}

func TestTrendFromYearlyRatesSteadyDecrease(t *testing.T) {
	rates := map[int]float64{}
	for i := 0; i < 12; i++ {
		rates[2008+i] = 0.40 - 0.015*float64(i)
	}

	result := TrendFromYearlyRates(rates, 0.05)

	require.NotNil(t, result.SlopePerDecade)
	assert.InDelta(t, -15.0, *result.SlopePerDecade, 1e-9)
	assert.Equal(t, TrendDecreasing, result.Direction)
}

func TestTrendFromYearlyRatesFlatHistory(t *testing.T) {
	rates := map[int]float64{}
	for i := 0; i < 8; i++ {
		rates[2012+i] = 0.25
	}

	result := TrendFromYearlyRates(rates, 0.05)

	require.NotNil(t, result.SlopePerDecade)
	require.NotNil(t, result.PValue)
	assert.Equal(t, 0.0, *result.SlopePerDecade)
	assert.Equal(t, 1.0, *result.PValue)
	assert.Equal(t, TrendNoSignificant, result.Direction)
}

func TestTrendFromYearlyRatesNoisyButInsignificant(t *testing.T) {
	// Alternating rates around a flat mean: the fit's slope is tiny relative
	// to the residual spread, so the null is not rejected.
	rates := map[int]float64{
		2015: 0.20, 2016: 0.35, 2017: 0.18, 2018: 0.36,
		2019: 0.21, 2020: 0.34, 2021: 0.19, 2022: 0.35,
	}

	result := TrendFromYearlyRates(rates, 0.05)

	require.NotNil(t, result.PValue)
	assert.Greater(t, *result.PValue, 0.05)
	assert.Equal(t, TrendNoSignificant, result.Direction)
}

func TestTrendFromYearlyRatesTooFewYears(t *testing.T) {
	result := TrendFromYearlyRates(map[int]float64{2020: 0.1, 2021: 0.9}, 0.05)

	assert.Nil(t, result.SlopePerDecade)
	assert.Nil(t, result.PValue)
	assert.Equal(t, TrendInsufficientData, result.Direction)
	assert.Len(t, result.YearlyRates, 2)
}

func TestEstimateTrendClassifiesPerYear(t *testing.T) {
	thresholds := DefaultThresholds()

	// Four samples per year; the number of gale hours grows one per year.
	set := SampleSet{TargetDayOfYear: 166, TargetHour: 14, WindowDays: 7}
	for i := 0; i < 4; i++ {
		year := 2018 + i
		for j := 0; j < 4; j++ {
			wind := 3.0
			if j <= i-1 {
				wind = 15.0
			}
			set.Samples = append(set.Samples, sampleAt(year, time.June, 12+j, 14, 22, 50, wind, 0))
		}
	}

	result := EstimateTrend(set, ConditionVeryWindy, thresholds, 0.05)

	require.Len(t, result.YearlyRates, 4)
	assert.InDelta(t, 0.00, result.YearlyRates[2018], 1e-12)
	assert.InDelta(t, 0.25, result.YearlyRates[2019], 1e-12)
	assert.InDelta(t, 0.50, result.YearlyRates[2020], 1e-12)
	assert.InDelta(t, 0.75, result.YearlyRates[2021], 1e-12)

	require.NotNil(t, result.SlopePerDecade)
	assert.InDelta(t, 250.0, *result.SlopePerDecade, 1e-9)
	assert.Equal(t, TrendIncreasing, result.Direction)
}

func TestEstimateTrendSkipsYearsWithoutSamples(t *testing.T) {
	set := SampleSet{}
	for _, year := range []int{2016, 2018, 2021, 2022} {
		set.Samples = append(set.Samples, sampleAt(year, time.June, 15, 14, 22, 50, 3, 0))
	}

	result := EstimateTrend(set, ConditionVeryWindy, DefaultThresholds(), 0.05)

	assert.Len(t, result.YearlyRates, 4)
	_, has2017 := result.YearlyRates[2017]
	assert.False(t, has2017, "gap years must not appear as zero rates")
}

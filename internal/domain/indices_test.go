package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatIndex(t *testing.T) {
	t.Run("NWS reference value 90F 60pct", func(t *testing.T) {
		// 32.222°C = 90°F; Rothfusz gives ≈99.7°F = 37.6°C.
		hi, valid := HeatIndex(32.222, 60)
		assert.True(t, valid)
		assert.InDelta(t, 37.6, hi, 0.1)
	})

	t.Run("cool dry air stays near simple formula", func(t *testing.T) {
		hi, valid := HeatIndex(20, 30)
		assert.False(t, valid)
		assert.False(t, math.IsNaN(hi))
		// Out-of-domain values are still finite and roughly tracking temperature.
		assert.InDelta(t, 20, hi, 5)
	})

	t.Run("dry adjustment range", func(t *testing.T) {
		hi, valid := HeatIndex(35, 10)
		assert.False(t, valid, "humidity below the validity domain")
		assert.False(t, math.IsNaN(hi))
	})

	t.Run("humid adjustment range", func(t *testing.T) {
		hi, valid := HeatIndex(28, 90)
		assert.True(t, valid)
		assert.Greater(t, hi, 28.0)
	})

	t.Run("boundary is closed", func(t *testing.T) {
		_, valid := HeatIndex(26.7, 40)
		assert.True(t, valid, "exactly 26.7C and 40 RH is inside the domain")

		_, valid = HeatIndex(26.69, 40)
		assert.False(t, valid)

		_, valid = HeatIndex(26.7, 39.99)
		assert.False(t, valid)
	})

	t.Run("never below air temperature at moderate humidity", func(t *testing.T) {
		for _, temp := range []float64{27, 28, 30, 32, 35, 38} {
			for rh := 50.0; rh <= 100; rh += 10 {
				hi, _ := HeatIndex(temp, rh)
				assert.GreaterOrEqual(t, hi, temp-1e-9, "temp=%g rh=%g", temp, rh)
			}
		}
	})

	t.Run("extreme humidity bounds do not panic or NaN", func(t *testing.T) {
		for _, rh := range []float64{0, 100} {
			for _, temp := range []float64{-40, 0, 26.7, 45} {
				hi, _ := HeatIndex(temp, rh)
				assert.False(t, math.IsNaN(hi), "temp=%g rh=%g", temp, rh)
			}
		}
	})
}

func TestWindChill(t *testing.T) {
	t.Run("NWS reference value 20F 15mph", func(t *testing.T) {
		// -6.667°C = 20°F, 6.7056 m/s ≈ 15 mph; formula gives ≈6.2°F = -14.3°C.
		wc, valid := WindChill(-6.667, 6.7056)
		assert.True(t, valid)
		assert.InDelta(t, -14.3, wc, 0.2)
	})

	t.Run("boundary is closed", func(t *testing.T) {
		_, valid := WindChill(10.0, 1.3)
		assert.True(t, valid, "exactly 10°C and 1.3 m/s is inside the domain")

		_, valid = WindChill(10.01, 1.3)
		assert.False(t, valid)

		_, valid = WindChill(10.0, 1.29)
		assert.False(t, valid)
	})

	t.Run("zero wind yields finite value and invalid flag", func(t *testing.T) {
		wc, valid := WindChill(-5, 0)
		assert.False(t, valid)
		assert.False(t, math.IsNaN(wc))
	})

	t.Run("negative wind floored, no NaN", func(t *testing.T) {
		wc, valid := WindChill(-5, -3)
		assert.False(t, valid)
		assert.False(t, math.IsNaN(wc))

		floored, _ := WindChill(-5, 0)
		assert.Equal(t, floored, wc)
	})

	t.Run("monotonically non-increasing in wind", func(t *testing.T) {
		for _, temp := range []float64{-20, -10, 0, 10} {
			prev := math.Inf(1)
			for w := 1.3; w <= 30; w += 0.5 {
				wc, valid := WindChill(temp, w)
				require.True(t, valid)
				assert.LessOrEqual(t, wc, prev+1e-12, "temp=%g wind=%g", temp, w)
				prev = wc
			}
		}
	})

	t.Run("wind chill below air temperature in domain", func(t *testing.T) {
		wc, valid := WindChill(0, 10)
		assert.True(t, valid)
		assert.Less(t, wc, 0.0)
	})
}

func TestIndexSeries(t *testing.T) {
	temps := []float64{30, 20, -5}
	rhs := []float64{80, 50, 40}
	winds := []float64{2, 0.5, 8}

	his, hiValids := HeatIndexSeries(temps, rhs)
	require.Len(t, his, 3)
	assert.True(t, hiValids[0])
	assert.False(t, hiValids[2])

	wcs, wcValids := WindChillSeries(temps, winds)
	require.Len(t, wcs, 3)
	assert.False(t, wcValids[0])
	assert.True(t, wcValids[2])

	for i := range temps {
		hi, hv := HeatIndex(temps[i], rhs[i])
		assert.Equal(t, hi, his[i])
		assert.Equal(t, hv, hiValids[i])

		wc, wv := WindChill(temps[i], winds[i])
		assert.Equal(t, wc, wcs[i])
		assert.Equal(t, wv, wcValids[i])
	}

	assert.Panics(t, func() { HeatIndexSeries([]float64{1}, []float64{1, 2}) })
	assert.Panics(t, func() { WindChillSeries([]float64{1, 2}, []float64{1}) })
}

package domain

import "math"

// Validity domains for the derived indices. Boundaries are closed: a value
// exactly at the limit is inside the domain. Pinned by tests because the
// source formulas leave exact-boundary semantics ambiguous.
const (
	heatIndexMinTempC = 26.7 // 80°F
	heatIndexMinRHPct = 40.0

	windChillMaxTempC  = 10.0 // 50°F
	windChillMinWindMS = 1.3
)

const msToMPH = 2.23694

// HeatIndex computes the NWS heat index (Rothfusz regression) for a
// temperature in Celsius and relative humidity in percent. The regression
// operates in Fahrenheit internally.
//
// The value is always computed so distribution displays stay continuous.
// valid is true only when tempC >= 26.7 and rhPct >= 40, the domain where
// the regression is physically meaningful.
func HeatIndex(tempC, rhPct float64) (float64, bool) {
	tempF := celsiusToFahrenheit(tempC)
	valid := tempC >= heatIndexMinTempC && rhPct >= heatIndexMinRHPct

	// NWS two-step procedure: average of the simple formula and air
	// temperature first, full regression only when that exceeds 80°F.
	hiF := 0.5 * (tempF + 61.0 + (tempF-68.0)*1.2 + rhPct*0.094)

	if hiF >= 80 {
		hiF = -42.379 +
			2.04901523*tempF +
			10.14333127*rhPct -
			0.22475541*tempF*rhPct -
			0.00683783*tempF*tempF -
			0.05481717*rhPct*rhPct +
			0.00122874*tempF*tempF*rhPct +
			0.00085282*tempF*rhPct*rhPct -
			0.00000199*tempF*tempF*rhPct*rhPct

		switch {
		case rhPct < 13 && tempF >= 80 && tempF <= 112:
			hiF -= ((13 - rhPct) / 4) * math.Sqrt((17-math.Abs(tempF-95))/17)
		case rhPct > 85 && tempF >= 80 && tempF <= 87:
			hiF += ((rhPct - 85) / 10) * ((87 - tempF) / 5)
		}
	}

	return fahrenheitToCelsius(hiF), valid
}

// WindChill computes the NWS 2001 wind chill for a temperature in Celsius and
// wind speed in m/s. The formula operates in Fahrenheit and mph internally.
//
// The value is always computed for continuity; valid is true only when
// tempC <= 10 and windMS >= 1.3. Negative wind speeds are floored at zero
// before the 0.16-power term so the formula never yields NaN.
func WindChill(tempC, windMS float64) (float64, bool) {
	valid := tempC <= windChillMaxTempC && windMS >= windChillMinWindMS

	w := windMS
	if w < 0 {
		w = 0
	}

	tempF := celsiusToFahrenheit(tempC)
	windMPH := w * msToMPH
	windPow := math.Pow(windMPH, 0.16)

	wcF := 35.74 + 0.6215*tempF - 35.75*windPow + 0.4275*tempF*windPow

	return fahrenheitToCelsius(wcF), valid
}

// HeatIndexSeries applies HeatIndex element-wise over equal-length slices.
// Panics if the slice lengths differ, matching the contract of paired series.
func HeatIndexSeries(tempC, rhPct []float64) ([]float64, []bool) {
	if len(tempC) != len(rhPct) {
		panic("domain: heat index series length mismatch")
	}
	values := make([]float64, len(tempC))
	valids := make([]bool, len(tempC))
	for i := range tempC {
		values[i], valids[i] = HeatIndex(tempC[i], rhPct[i])
	}
	return values, valids
}

// WindChillSeries applies WindChill element-wise over equal-length slices.
func WindChillSeries(tempC, windMS []float64) ([]float64, []bool) {
	if len(tempC) != len(windMS) {
		panic("domain: wind chill series length mismatch")
	}
	values := make([]float64, len(tempC))
	valids := make([]bool, len(tempC))
	for i := range tempC {
		values[i], valids[i] = WindChill(tempC[i], windMS[i])
	}
	return values, valids
}

func celsiusToFahrenheit(c float64) float64 {
	return c*9.0/5.0 + 32.0
}

func fahrenheitToCelsius(f float64) float64 {
	return (f - 32.0) * 5.0 / 9.0
}

package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// defaultHistogramBins is the bin count used for full-detail responses.
const defaultHistogramBins = 20

// HistogramBin is one bin of a parameter distribution. The upper bound is
// exclusive except for the last bin.
type HistogramBin struct {
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	Count      int     `json:"count"`
	Frequency  float64 `json:"frequency"`
}

// Distribution summarizes one meteorological parameter across a sample set.
type Distribution struct {
	Parameter      string         `json:"parameter"`
	Unit           string         `json:"unit"`
	Bins           []HistogramBin `json:"bins"`
	Mean           float64        `json:"mean"`
	Median         float64        `json:"median"`
	StdDev         float64        `json:"std_dev"`
	ThresholdValue *float64       `json:"threshold_value,omitempty"`
}

// NewDistribution bins the given values into a histogram and computes
// descriptive statistics. When a threshold falls inside the value range it is
// pinned as a bin edge so exceedance counts read directly off the histogram.
// NaN values are dropped before binning.
func NewDistribution(parameter, unit string, values []float64, threshold *float64, nBins int) Distribution {
	if nBins <= 0 {
		nBins = defaultHistogramBins
	}

	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}

	d := Distribution{Parameter: parameter, Unit: unit, ThresholdValue: threshold}
	if len(clean) == 0 {
		return d
	}

	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)

	d.Mean = stat.Mean(clean, nil)
	d.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(clean) > 1 {
		d.StdDev = stat.StdDev(clean, nil)
	}

	edges := binEdges(sorted[0], sorted[len(sorted)-1], threshold, nBins)
	d.Bins = fillBins(edges, sorted)
	return d
}

// binEdges builds nBins+1 edges over [min, max], splitting the range at the
// threshold when it lies inside it.
func binEdges(minVal, maxVal float64, threshold *float64, nBins int) []float64 {
	if minVal == maxVal {
		return []float64{minVal, maxVal}
	}

	if threshold != nil && *threshold > minVal && *threshold < maxVal {
		lower := linspace(minVal, *threshold, nBins/2)
		upper := linspace(*threshold, maxVal, nBins-nBins/2)
		return append(lower, upper[1:]...)
	}
	return linspace(minVal, maxVal, nBins)
}

// linspace returns n+1 evenly spaced edges from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	edges := make([]float64, n+1)
	step := (hi - lo) / float64(n)
	for i := 0; i <= n; i++ {
		edges[i] = lo + float64(i)*step
	}
	edges[n] = hi
	return edges
}

// fillBins counts sorted values into the bins described by edges.
func fillBins(edges []float64, sorted []float64) []HistogramBin {
	if len(edges) < 2 {
		return nil
	}

	bins := make([]HistogramBin, len(edges)-1)
	for i := range bins {
		bins[i].LowerBound = edges[i]
		bins[i].UpperBound = edges[i+1]
	}

	last := len(bins) - 1
	for _, v := range sorted {
		idx := sort.SearchFloat64s(edges, v)
		// SearchFloat64s returns the first edge at or above v. A value sitting
		// exactly on an edge belongs to the bin opening at that edge, so only
		// strictly interior values shift down; the max value clamps to the
		// last bin.
		if idx >= len(edges) || edges[idx] != v {
			idx--
		}
		if idx > last {
			idx = last
		}
		bins[idx].Count++
	}

	total := float64(len(sorted))
	for i := range bins {
		bins[i].Frequency = float64(bins[i].Count) / total
	}
	return bins
}

// Distributions builds the full-detail distribution set for a sample set:
// raw temperature, wind, precipitation rate, and both derived indices, with
// the matching threshold pinned where one applies.
func Distributions(set SampleSet, t Thresholds) []Distribution {
	n := len(set.Samples)
	temps := make([]float64, n)
	winds := make([]float64, n)
	precip := make([]float64, n)
	heatIdx := make([]float64, n)
	windChill := make([]float64, n)

	for i, s := range set.Samples {
		d := Derive(s)
		temps[i] = s.TemperatureC
		winds[i] = s.WindSpeedMS
		precip[i] = s.PrecipRateMMPerH
		heatIdx[i] = d.HeatIndexC
		windChill[i] = d.WindChillC
	}

	return []Distribution{
		NewDistribution("temperature", "°C", temps, nil, defaultHistogramBins),
		NewDistribution("heat_index", "°C", heatIdx, &t.HotC, defaultHistogramBins),
		NewDistribution("wind_chill", "°C", windChill, &t.ColdC, defaultHistogramBins),
		NewDistribution("wind_speed", "m/s", winds, &t.WindMS, defaultHistogramBins),
		NewDistribution("precipitation_rate", "mm/h", precip, &t.WetMMPerH, defaultHistogramBins),
	}
}

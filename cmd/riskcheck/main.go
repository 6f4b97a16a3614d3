// Command riskcheck runs the assessment engine over a sample-set fixture
// without touching the network. It exists for reproducing assessments offline:
// feed it a JSON sample set (the domain.SampleSet shape), and it prints the
// per-condition probabilities and trends the service would have returned.
//
// Usage:
//
//	go run ./cmd/riskcheck -input testdata/fortaleza_june.json
//	go run ./cmd/riskcheck -input set.json -at 2026-08-28T12:00:00Z -json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/climate-risk-service/internal/domain"
)

func main() {
	input := flag.String("input", "", "path to a JSON sample-set fixture")
	at := flag.String("at", "", "pin the assessment time (RFC3339) for reproducible IDs")
	confidence := flag.Float64("confidence", 0.95, "confidence level for exceedance intervals")
	significance := flag.Float64("significance", 0.05, "significance level for trend direction")
	minYears := flag.Int("min-years", 15, "minimum distinct years for adequate coverage")
	minSamples := flag.Int("min-samples", 8, "minimum total samples for adequate coverage")
	asJSON := flag.Bool("json", false, "print the raw assessment as JSON")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*input, *at, *confidence, *significance, *minYears, *minSamples, *asJSON); code != 0 {
		os.Exit(code)
	}
}

func run(inputPath, at string, confidence, significance float64, minYears, minSamples int, asJSON bool) int {
	if at != "" {
		pinned, err := time.Parse(time.RFC3339, at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: parse -at: %v\n", err)
			return 1
		}
		domain.SetClock(clockwork.NewFakeClockAt(pinned))
		defer domain.SetClock(nil)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read fixture: %v\n", err)
		return 1
	}
	var set domain.SampleSet
	if err := json.Unmarshal(data, &set); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse fixture: %v\n", err)
		return 1
	}

	engine, err := domain.NewEngine(
		domain.DefaultThresholds(),
		domain.CoverageConfig{MinYears: minYears, MinSamples: minSamples},
		confidence, significance,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: build engine: %v\n", err)
		return 1
	}

	assessment := engine.Assess(set)

	if asJSON {
		out, err := json.MarshalIndent(assessment, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: encode assessment: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	printAssessment(os.Stdout, assessment, set)
	return 0
}

func printAssessment(w io.Writer, a domain.Assessment, set domain.SampleSet) {
	fmt.Fprintf(w, "Assessment %s (%s)\n", a.ID, a.Outcome)
	fmt.Fprintf(w, "  samples: %d across %d years, window ±%d days around DOY %d at hour %02d\n",
		a.Coverage.TotalSamples, a.Coverage.DistinctYears,
		set.WindowDays, set.TargetDayOfYear, set.TargetHour)
	fmt.Fprintln(w)

	// Stable output order regardless of map iteration.
	conditions := make([]string, 0, len(a.Conditions))
	for c := range a.Conditions {
		conditions = append(conditions, string(c))
	}
	sort.Strings(conditions)

	for _, name := range conditions {
		ca := a.Conditions[domain.Condition(name)]
		fmt.Fprintf(w, "  %-20s", name)
		if ca.Probability != nil {
			fmt.Fprintf(w, " P=%.3f [%.3f, %.3f]", ca.Probability.PointEstimate, ca.Probability.CILower, ca.Probability.CIUpper)
		} else {
			fmt.Fprintf(w, " P=n/a (insufficient coverage)")
		}
		// SlopePerDecade is already in percentage points per decade.
		if ca.Trend.SlopePerDecade != nil {
			fmt.Fprintf(w, "  trend=%s (%.1fpp/decade, p=%.3f)", ca.Trend.Direction, *ca.Trend.SlopePerDecade, *ca.Trend.PValue)
		} else {
			fmt.Fprintf(w, "  trend=%s", ca.Trend.Direction)
		}
		fmt.Fprintln(w)
	}
}

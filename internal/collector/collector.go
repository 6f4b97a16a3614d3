// Package collector assembles the historical sample set for one assessment:
// for every baseline year it fetches the hourly archive over the target day
// of year ± window, filters to the target local hour, and tags precipitation
// provenance. Calendar wraparound at year boundaries happens here, so the
// engine only ever sees a flat band of samples.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-risk-service/internal/adapter/power"
	"github.com/couchcryptid/climate-risk-service/internal/domain"
	"github.com/couchcryptid/climate-risk-service/internal/timezone"
)

// Request identifies the point, moment, and baseline for one collection.
type Request struct {
	Latitude  float64
	Longitude float64

	// TargetDate fixes the day of year; its own year is irrelevant.
	TargetDate time.Time
	TargetHour int // local hour, 0-23
	WindowDays int

	StartYear int
	EndYear   int

	// Timezone is an optional IANA name. Empty means a longitude-based
	// fixed-offset estimate.
	Timezone string
}

// Result carries the assembled sample set plus collection metadata.
type Result struct {
	Set domain.SampleSet

	YearsRequested int
	YearsWithData  int
	TimezoneName   string

	// PrecipSource summarizes provenance across the whole set: primary when
	// every sample carried an hourly rate, fallback when none did, mixed
	// otherwise.
	PrecipSource domain.PrecipSource
}

// Collector fetches and filters archive data into engine-ready sample sets.
type Collector struct {
	provider power.Provider
	logger   *slog.Logger
}

// New creates a collector over an hourly archive provider.
func New(provider power.Provider, logger *slog.Logger) *Collector {
	return &Collector{provider: provider, logger: logger}
}

// Collect assembles the sample set for a request. Upstream failures for
// individual years are logged and skipped; the error return is reserved for
// invalid requests and total collection failure.
func (c *Collector) Collect(ctx context.Context, req Request) (Result, error) {
	if err := validate(req); err != nil {
		return Result{}, err
	}

	loc, err := timezone.Resolve(req.Timezone, req.Longitude)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Set: domain.SampleSet{
			TargetDayOfYear: req.TargetDate.YearDay(),
			TargetHour:      req.TargetHour,
			WindowDays:      req.WindowDays,
		},
		YearsRequested: req.EndYear - req.StartYear + 1,
		TimezoneName:   loc.String(),
	}

	var failedYears int
	for year := req.StartYear; year <= req.EndYear; year++ {
		samples, err := c.collectYear(ctx, req, loc, year)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			c.logger.Warn("skipping year after archive failure", "year", year, "error", err)
			failedYears++
			continue
		}
		if len(samples) == 0 {
			c.logger.Debug("no samples for year", "year", year)
			continue
		}
		result.Set.Samples = append(result.Set.Samples, samples...)
		result.YearsWithData++
	}

	if failedYears == result.YearsRequested {
		return Result{}, fmt.Errorf("archive unavailable for all %d baseline years", failedYears)
	}

	result.PrecipSource = summarizeProvenance(result.Set.Samples)

	c.logger.Info("sample collection complete",
		"samples", len(result.Set.Samples),
		"years_with_data", result.YearsWithData,
		"years_requested", result.YearsRequested,
		"timezone", result.TimezoneName,
	)

	return result, nil
}

// collectYear fetches and filters one year's band around the target day of
// year. AddDate wraps across year boundaries naturally, so a January target
// with a window reaching into the previous December fetches that December.
func (c *Collector) collectYear(ctx context.Context, req Request, loc *time.Location, year int) ([]domain.Sample, error) {
	target := targetInYear(req.TargetDate, year)
	start := target.AddDate(0, 0, -req.WindowDays)
	end := target.AddDate(0, 0, req.WindowDays)

	// The local target hour may fall on the adjacent UTC day at the band
	// edges, so the fetch range is widened by a day on each side.
	observations, err := c.provider.HourlyRange(ctx, req.Latitude, req.Longitude,
		start.AddDate(0, 0, -1), end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	samples := make([]domain.Sample, 0, 2*req.WindowDays+1)
	for _, obs := range observations {
		local := obs.TimestampUTC.In(loc)
		if local.Hour() != req.TargetHour {
			continue
		}
		localDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		if localDate.Before(start) || localDate.After(end) {
			continue
		}

		sample := domain.Sample{
			TimestampUTC:        obs.TimestampUTC,
			LocalDate:           localDate,
			LocalHour:           local.Hour(),
			TemperatureC:        obs.TemperatureC,
			RelativeHumidityPct: obs.RelativeHumidityPct,
			WindSpeedMS:         obs.WindSpeedMS,
			PrecipRateMMPerH:    obs.PrecipRateMMPerH,
			PrecipSource:        domain.PrecipSourcePrimary,
		}
		if obs.PrecipMissing {
			// Missing hourly precipitation reads as a dry hour; the
			// provenance tag keeps the substitution visible downstream.
			sample.PrecipRateMMPerH = 0
			sample.PrecipSource = domain.PrecipSourceFallback
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// targetInYear moves the target date into the given year. February 29 on a
// non-leap year normalizes to March 1.
func targetInYear(target time.Time, year int) time.Time {
	return time.Date(year, target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
}

func summarizeProvenance(samples []domain.Sample) domain.PrecipSource {
	var primary, fallback int
	for _, s := range samples {
		switch s.PrecipSource {
		case domain.PrecipSourceFallback:
			fallback++
		default:
			primary++
		}
	}
	switch {
	case len(samples) == 0 || fallback == 0:
		return domain.PrecipSourcePrimary
	case primary == 0:
		return domain.PrecipSourceFallback
	default:
		return domain.PrecipSourceMixed
	}
}

func validate(req Request) error {
	if req.Latitude < -90 || req.Latitude > 90 {
		return fmt.Errorf("invalid latitude %g: must be -90 to 90", req.Latitude)
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return fmt.Errorf("invalid longitude %g: must be -180 to 180", req.Longitude)
	}
	if req.TargetHour < 0 || req.TargetHour > 23 {
		return fmt.Errorf("invalid target hour %d: must be 0-23", req.TargetHour)
	}
	if req.WindowDays < 0 {
		return fmt.Errorf("invalid window %d: must be >= 0", req.WindowDays)
	}
	if req.StartYear > req.EndYear {
		return fmt.Errorf("baseline start year %d after end year %d", req.StartYear, req.EndYear)
	}
	if req.TargetDate.IsZero() {
		return fmt.Errorf("target date is required")
	}
	return nil
}

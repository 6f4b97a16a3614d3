package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-risk-service/internal/collector"
	"github.com/couchcryptid/climate-risk-service/internal/domain"
)

// RiskRequest is the body of POST /v1/risk.
type RiskRequest struct {
	Latitude   float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" validate:"gte=-180,lte=180"`
	TargetDate string  `json:"target_date" validate:"required,datetime=2006-01-02"`
	TargetHour int     `json:"target_hour" validate:"gte=0,lte=23"`
	WindowDays *int    `json:"window_days,omitempty" validate:"omitempty,gte=0,lte=45"`
	Timezone   string  `json:"timezone,omitempty"`
	Detail     string  `json:"detail,omitempty" validate:"omitempty,oneof=lean full"`
}

// SampleStatistics summarizes the collected sample set.
type SampleStatistics struct {
	TotalSamples        int                 `json:"total_samples"`
	YearsWithData       int                 `json:"years_with_data"`
	YearsRequested      int                 `json:"years_requested"`
	CoverageAdequate    bool                `json:"coverage_adequate"`
	Timezone            string              `json:"timezone"`
	PrecipitationSource domain.PrecipSource `json:"precipitation_source"`
}

// RiskResponse is the body of a successful POST /v1/risk. Distributions are
// present only at the full detail level.
type RiskResponse struct {
	domain.Assessment

	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	TargetDate string  `json:"target_date"`
	TargetHour int     `json:"target_hour"`
	WindowDays int     `json:"window_days"`

	SampleStatistics SampleStatistics      `json:"sample_statistics"`
	Distributions    []domain.Distribution `json:"distributions,omitempty"`
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	var req RiskRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result, ok := s.collect(w, r, req.Latitude, req.Longitude, req.TargetDate, req.TargetHour, req.WindowDays, req.Timezone)
	if !ok {
		return
	}

	s.metrics.AssessmentsInFlight.Inc()
	defer s.metrics.AssessmentsInFlight.Dec()
	started := time.Now()

	assessment := s.engine.Assess(result.Set)

	s.metrics.AssessmentDuration.Observe(time.Since(started).Seconds())
	s.metrics.AssessmentsTotal.WithLabelValues(string(assessment.Outcome)).Inc()
	s.metrics.SampleSetSize.Observe(float64(len(result.Set.Samples)))

	if s.publisher != nil && assessment.Outcome == domain.OutcomeComputed {
		if err := s.publisher.Publish(r.Context(), assessment); err != nil {
			// Publishing is best effort; the assessment is still served.
			s.logger.Error("assessment publish failed", "id", assessment.ID, "error", err)
		}
	}

	resp := RiskResponse{
		Assessment: assessment,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		TargetDate: req.TargetDate,
		TargetHour: req.TargetHour,
		WindowDays: result.Set.WindowDays,
		SampleStatistics: SampleStatistics{
			TotalSamples:        assessment.Coverage.TotalSamples,
			YearsWithData:       result.YearsWithData,
			YearsRequested:      result.YearsRequested,
			CoverageAdequate:    assessment.Coverage.Adequate,
			Timezone:            result.TimezoneName,
			PrecipitationSource: result.PrecipSource,
		},
	}
	if req.Detail == "full" {
		resp.Distributions = domain.Distributions(result.Set, assessment.Thresholds)
	}

	writeJSON(w, http.StatusOK, resp)
}

// collect runs the shared request-to-sample-set path for risk and export.
// On failure it writes the error response and returns ok=false.
func (s *Server) collect(w http.ResponseWriter, r *http.Request,
	lat, lon float64, targetDate string, targetHour int, windowDays *int, tz string) (collector.Result, bool) {

	target, err := time.Parse("2006-01-02", targetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target_date", err.Error())
		return collector.Result{}, false
	}

	window := s.defaults.WindowDays
	if windowDays != nil {
		window = *windowDays
	}

	result, err := s.collector.Collect(r.Context(), collector.Request{
		Latitude:   lat,
		Longitude:  lon,
		TargetDate: target,
		TargetHour: targetHour,
		WindowDays: window,
		StartYear:  s.defaults.StartYear,
		EndYear:    s.defaults.EndYear,
		Timezone:   tz,
	})
	if err != nil {
		if r.Context().Err() != nil {
			writeError(w, http.StatusServiceUnavailable, "request cancelled", "")
			return collector.Result{}, false
		}
		s.logger.Error("sample collection failed", "error", err)
		writeError(w, http.StatusBadGateway, "sample collection failed", err.Error())
		return collector.Result{}, false
	}
	return result, true
}

func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		return false
	}
	return true
}

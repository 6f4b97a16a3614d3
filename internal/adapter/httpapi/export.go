package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-risk-service/internal/export"
)

// ExportRequest is the body of POST /v1/export.
type ExportRequest struct {
	Latitude   float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" validate:"gte=-180,lte=180"`
	TargetDate string  `json:"target_date" validate:"required,datetime=2006-01-02"`
	TargetHour int     `json:"target_hour" validate:"gte=0,lte=23"`
	WindowDays *int    `json:"window_days,omitempty" validate:"omitempty,gte=0,lte=45"`
	Timezone   string  `json:"timezone,omitempty"`
	Format     string  `json:"format" validate:"required,oneof=csv json"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	contentType, err := export.ContentType(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported format", err.Error())
		return
	}

	result, ok := s.collect(w, r, req.Latitude, req.Longitude, req.TargetDate, req.TargetHour, req.WindowDays, req.Timezone)
	if !ok {
		return
	}

	rows := export.Rows(result.Set, req.Latitude, req.Longitude, s.defaults.Thresholds)

	target, _ := time.Parse("2006-01-02", req.TargetDate)
	filename := export.Filename(req.Latitude, req.Longitude, target, req.TargetHour, req.Format, time.Now().UTC())

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	switch req.Format {
	case "csv":
		err = export.WriteCSV(w, rows)
	default:
		err = export.WriteJSON(w, rows)
	}
	if err != nil {
		// Headers are already out; all we can do is log the broken stream.
		s.logger.Error("export write failed", "format", req.Format, "error", err)
	}
}

// Package export flattens a sample set into per-sample rows for download:
// raw values, derived indices, precipitation provenance, and condition flags.
// The column set and order are part of the download contract and stay stable.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-risk-service/internal/domain"
)

// Row is one exported sample. Derived index cells are nil when the formula
// was evaluated outside its validity domain, which serializes to null in
// JSON and an empty CSV cell.
type Row struct {
	TimestampLocal string   `json:"timestamp_local"`
	Year           int      `json:"year"`
	DOY            int      `json:"doy"`
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	T2MC           float64  `json:"t2m_c"`
	RH2MPct        float64  `json:"rh2m_pct"`
	WS10MMS        float64  `json:"ws10m_ms"`
	HIC            *float64 `json:"hi_c"`
	WCTC           *float64 `json:"wct_c"`
	PrecipMMPerH   float64  `json:"precip_mm_per_h"`
	PrecipSource   string   `json:"precip_source"`

	FlagsVeryHot           bool `json:"flags_very_hot"`
	FlagsVeryUncomfortable bool `json:"flags_very_uncomfortable"`
	FlagsVeryCold          bool `json:"flags_very_cold"`
	FlagsVeryWindy         bool `json:"flags_very_windy"`
	FlagsVeryWet           bool `json:"flags_very_wet"`
	FlagsAnyAdverse        bool `json:"flags_any_adverse"`
}

var header = []string{
	"timestamp_local", "year", "doy", "lat", "lon",
	"t2m_c", "rh2m_pct", "ws10m_ms", "hi_c", "wct_c",
	"precip_mm_per_h", "precip_source",
	"flags_very_hot", "flags_very_uncomfortable", "flags_very_cold",
	"flags_very_windy", "flags_very_wet", "flags_any_adverse",
}

// Rows builds export rows for every sample in the set, classifying each
// against the given thresholds.
func Rows(set domain.SampleSet, lat, lon float64, thresholds domain.Thresholds) []Row {
	rows := make([]Row, 0, len(set.Samples))
	for _, s := range set.Samples {
		derived := domain.Derive(s)
		flags := domain.Classify(s, derived, thresholds)

		row := Row{
			TimestampLocal: localTimestamp(s),
			Year:           s.Year(),
			DOY:            s.LocalDate.YearDay(),
			Lat:            lat,
			Lon:            lon,
			T2MC:           s.TemperatureC,
			RH2MPct:        s.RelativeHumidityPct,
			WS10MMS:        s.WindSpeedMS,
			PrecipMMPerH:   s.PrecipRateMMPerH,
			PrecipSource:   string(s.PrecipSource),

			FlagsVeryHot:           flags.VeryHot,
			FlagsVeryUncomfortable: flags.VeryUncomfortable,
			FlagsVeryCold:          flags.VeryCold,
			FlagsVeryWindy:         flags.VeryWindy,
			FlagsVeryWet:           flags.VeryWet,
			FlagsAnyAdverse:        flags.AnyAdverse(),
		}
		if derived.HeatIndexValid {
			hi := derived.HeatIndexC
			row.HIC = &hi
		}
		if derived.WindChillValid {
			wc := derived.WindChillC
			row.WCTC = &wc
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes rows as CSV with the stable header. An empty row slice
// still writes the header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.TimestampLocal,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.DOY),
			formatFloat(r.Lat),
			formatFloat(r.Lon),
			formatFloat(r.T2MC),
			formatFloat(r.RH2MPct),
			formatFloat(r.WS10MMS),
			formatOptional(r.HIC),
			formatOptional(r.WCTC),
			formatFloat(r.PrecipMMPerH),
			r.PrecipSource,
			strconv.FormatBool(r.FlagsVeryHot),
			strconv.FormatBool(r.FlagsVeryUncomfortable),
			strconv.FormatBool(r.FlagsVeryCold),
			strconv.FormatBool(r.FlagsVeryWindy),
			strconv.FormatBool(r.FlagsVeryWet),
			strconv.FormatBool(r.FlagsAnyAdverse),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Filename builds the download filename for Content-Disposition.
func Filename(lat, lon float64, targetDate time.Time, targetHour int, format string, now time.Time) string {
	latStr := fmt.Sprintf("%.1f%s", abs(lat), hemisphere(lat, "N", "S"))
	lonStr := fmt.Sprintf("%.1f%s", abs(lon), hemisphere(lon, "E", "W"))
	return fmt.Sprintf("climate_risk_export_%s_%s_%s_%02dh_%s.%s",
		latStr, lonStr, targetDate.Format("20060102"), targetHour,
		now.Format("20060102_150405"), format)
}

// ContentType returns the MIME type for a supported export format.
func ContentType(format string) (string, error) {
	switch format {
	case "csv":
		return "text/csv", nil
	case "json":
		return "application/json", nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

func localTimestamp(s domain.Sample) string {
	local := time.Date(s.LocalDate.Year(), s.LocalDate.Month(), s.LocalDate.Day(),
		s.LocalHour, 0, 0, 0, time.UTC)
	return local.Format("2006-01-02T15:04:05")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func hemisphere(v float64, positive, negative string) string {
	if v >= 0 {
		return positive
	}
	return negative
}

// Package timezone maps assessment coordinates to a local time zone. Callers
// may supply an IANA zone name; without one the longitude decides a fixed
// solar-time offset estimate. The estimate is within an hour of civil time
// almost everywhere, which is enough for picking the target local hour.
package timezone

import (
	"fmt"
	"math"
	"time"
)

// Resolve returns the location for an assessment. A non-empty IANA name must
// be loadable; an empty name falls back to the longitude estimate.
func Resolve(ianaName string, lon float64) (*time.Location, error) {
	if ianaName != "" {
		loc, err := time.LoadLocation(ianaName)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", ianaName, err)
		}
		return loc, nil
	}
	return FixedOffset(lon), nil
}

// FixedOffset builds a fixed-offset zone from longitude: one hour per 15
// degrees, rounded to the nearest whole hour.
func FixedOffset(lon float64) *time.Location {
	hours := int(math.Round(lon / 15.0))
	name := fmt.Sprintf("UTC%+03d", hours)
	return time.FixedZone(name, hours*3600)
}

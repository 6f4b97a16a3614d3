// Package domain implements the climatological exceedance probability engine.
//
// # Method
//
// The engine answers "how often has this place historically been very hot /
// cold / windy / wet at this calendar day and local hour?" using decades of
// reanalysis observations as a proxy climatology, not a forecast. The
// collector pools samples from every baseline year inside a day-of-year
// window (target ± W days) at one fixed local hour; pooling nearby days
// trades a little seasonal precision for much more statistical power.
//
// Everything in this package is a pure transformation over value types: the
// engine holds only injected configuration, results never reference their
// source sample set, and nothing is cached between calls. Concurrent
// assessments are safe without locking.
//
// # Derived indices
//
// Heat index follows the NWS Rothfusz procedure: the simple averaged formula
// first, then the full regression when that reads 80°F or more, with the
// low-humidity and high-humidity adjustments. Wind chill is the NWS 2001
// formula. Both operate in Fahrenheit (and mph) internally and convert at
// the boundary.
//
// Each index carries a validity flag rather than refusing to evaluate:
// the numeric value is always produced so distributions stay continuous,
// and the flag records whether the input sat inside the formula's physical
// domain. Validity boundaries are closed: exactly 26.7°C / 40% RH is a
// valid heat index, exactly 10°C / 1.3 m/s a valid wind chill. Only the
// very_cold classification is gated on validity; an out-of-domain wind
// chill must never read as dangerously cold.
//
// # Statistics
//
// Exceedance probabilities use the exact Clopper–Pearson interval from Beta
// quantiles (Clopper & Pearson 1934). Per-condition counts are routinely 0
// or n out of a few hundred samples, exactly where the normal approximation
// fails. Trends fit ordinary least squares to one exceedance rate per year
// and test the slope with the standard two-sided t-test; the slope is
// reported in percentage points per decade.
//
// Coverage gates the probabilities: fewer than the configured minimum of
// distinct years or total samples yields an insufficient_coverage outcome
// instead of a number. Trends are exempt from that gate because they consume
// per-year rates, not the pooled count; they carry their own minimum of
// three fitted years.
package domain

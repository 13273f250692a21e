/*
Package generic provides the domain-agnostic pieces of the shift engine.

KEY CONCEPTS:
  - Hours: decimal quantities of worked time (no float drift at the quota boundary)
  - Period: an inclusive UTC range, produced by a PeriodScheme
  - PeriodCalculator: 13 four-week periods per year from the first ISO Monday
  - KeyedMutex: per-key serialization for read-check-write sequences
  - Errors: the taxonomy shared by every layer (errors.go)

DESIGN PRINCIPLES:
  1. UTC everywhere: day boundaries are computed in UTC only
  2. Precision: hours use decimal.Decimal, rounded to 2 places at the edges
  3. Purity: nothing here performs I/O

SEE ALSO:
  - period.go: period schemes and the cache
  - scheduling/: the domain built on top
*/
package generic

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Decimal quantities of worked time
// =============================================================================

// HoursPrecision is the number of decimal places hours are rounded to.
const HoursPrecision = 2

var hundred = decimal.NewFromInt(100)

// HoursFromFloat converts a float to hours. Non-finite values are rejected.
func HoursFromFloat(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, &InvalidInputError{Field: field, Reason: "must be a finite number"}
	}
	return decimal.NewFromFloat(v), nil
}

// HoursBetween returns (end - start) in hours rounded to 2 decimals.
func HoursBetween(start, end time.Time) decimal.Decimal {
	d := end.Sub(start)
	return decimal.NewFromInt(int64(d)).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(HoursPrecision)
}

// SumHours adds up a list of hour values.
func SumHours(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Percentage returns part/whole*100, or 0 when whole is not positive.
// The result is not capped at 100.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Float returns the float value for JSON rendering.
func Float(d decimal.Decimal) float64 { return d.InexactFloat64() }

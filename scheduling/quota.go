/*
quota.go - Admit or reject a shift against the worker's period quota

RULES (in order, first failure wins):
  1. Leave shift: always accepted, no hour checks.
  2. Work shift: resolve the period containing StartTime with the scheme.
     No period -> NO_QUOTA_FOR_PERIOD.
  3. Look up the worker's PeriodHours for that period.
     Missing or maxHours == 0 -> NO_QUOTA_FOR_PERIOD (fail closed).
  4. current = worked hours of the worker's existing shifts in the period
     (the shift being replaced, if any, is excluded).
  5. current + new > max -> QUOTA_EXCEEDED with the numbers.
     current + new == max is accepted.

Rejections are data (Decision), not errors. Errors are reserved for a
failing lookup.
*/
package scheduling

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/generic"
)

// RejectReason is why a shift was not admitted.
type RejectReason string

const (
	RejectNoQuotaForPeriod RejectReason = "NO_QUOTA_FOR_PERIOD"
	RejectQuotaExceeded    RejectReason = "QUOTA_EXCEEDED"
)

// QuotaDetail carries the numbers behind a decision.
// RemainingHours is MaxHours - CurrentHours, before the new shift.
type QuotaDetail struct {
	CurrentHours   decimal.Decimal
	NewShiftHours  decimal.Decimal
	MaxHours       decimal.Decimal
	RemainingHours decimal.Decimal
}

// Decision is the outcome of a quota check.
type Decision struct {
	Accepted bool
	Reason   RejectReason
	Period   generic.Period // zero for leave shifts
	Detail   *QuotaDetail   // nil for leave shifts and NO_QUOTA rejections
}

func accept(period generic.Period, detail *QuotaDetail) Decision {
	return Decision{Accepted: true, Period: period, Detail: detail}
}

// Err converts a rejection to its structured error, nil if accepted.
func (d Decision) Err(workerID string) error {
	if d.Accepted {
		return nil
	}
	switch d.Reason {
	case RejectQuotaExceeded:
		return &generic.QuotaExceededError{
			CurrentHours:   d.Detail.CurrentHours,
			NewShiftHours:  d.Detail.NewShiftHours,
			MaxHours:       d.Detail.MaxHours,
			RemainingHours: d.Detail.RemainingHours,
		}
	default:
		return &generic.NoQuotaError{WorkerID: workerID, Period: d.Period}
	}
}

// PeriodHoursLookup finds the quota record for a worker and period.
// A nil record with a nil error means "no record".
type PeriodHoursLookup func(ctx context.Context, workerID string, period generic.Period) (*PeriodHours, error)

// LookupFrom adapts a PeriodHoursRepository.
func LookupFrom(repo PeriodHoursRepository) PeriodHoursLookup {
	return func(ctx context.Context, workerID string, period generic.Period) (*PeriodHours, error) {
		return repo.FindPeriodHours(ctx, workerID, period.Start, period.End)
	}
}

// Enforcer applies the quota rules with one period scheme.
type Enforcer struct {
	Scheme generic.PeriodScheme
}

func NewEnforcer(scheme generic.PeriodScheme) *Enforcer {
	return &Enforcer{Scheme: scheme}
}

// ValidateNewShift decides whether proposed may be booked for worker.
// existing may contain shifts of any worker and period; it is filtered here.
func (e *Enforcer) ValidateNewShift(
	ctx context.Context,
	worker Worker,
	proposed Shift,
	existing []Shift,
	lookup PeriodHoursLookup,
) (Decision, error) {
	if worker.ID == "" {
		return Decision{}, generic.Invalid("workerId", "required")
	}
	if !proposed.ShiftType.Valid() {
		return Decision{}, generic.Invalid("shiftType", "unknown shift type "+string(proposed.ShiftType))
	}

	// 1. Leave is never constrained by quota.
	if proposed.ShiftType.IsLeave() {
		if proposed.Location != nil && *proposed.Location != "" {
			return Decision{}, generic.Invalid("location", "not allowed for leave shifts")
		}
		return accept(generic.Period{}, nil), nil
	}

	// 2. Period.
	period, ok := e.Scheme.PeriodFor(proposed.StartTime)
	if !ok {
		return Decision{Reason: RejectNoQuotaForPeriod}, nil
	}
	// Work shifts must end inside their period, or no period would count them.
	if proposed.EndTime.After(period.End) {
		return Decision{}, generic.Invalid("endTime", "work shift crosses the end of period "+period.Label)
	}

	// 3. Quota record, fail closed.
	rec, err := lookup(ctx, worker.ID, period)
	if err != nil {
		return Decision{}, err
	}
	if rec == nil || rec.MaxHours.IsZero() {
		return Decision{Reason: RejectNoQuotaForPeriod, Period: period}, nil
	}

	// 4. Existing hours, excluding the shift being replaced.
	var others []Shift
	for _, s := range existing {
		if proposed.ID != "" && s.ID == proposed.ID {
			continue
		}
		others = append(others, s)
	}
	current := WorkedHours(ShiftsInPeriod(others, worker.ID, period.Start, period.End))

	// 5. Compare; equality is allowed.
	detail := &QuotaDetail{
		CurrentHours:   current,
		NewShiftHours:  proposed.HoursWorked,
		MaxHours:       rec.MaxHours,
		RemainingHours: RemainingHours(rec.MaxHours, current),
	}
	if current.Add(proposed.HoursWorked).GreaterThan(rec.MaxHours) {
		return Decision{Reason: RejectQuotaExceeded, Period: period, Detail: detail}, nil
	}
	return accept(period, detail), nil
}

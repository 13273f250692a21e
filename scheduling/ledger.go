/*
ledger.go - Hours ledger: what a worker has used of a period

PURPOSE:
  Turns a set of shifts into the numbers the quota check and the
  statistics screen need: worked hours, leave days, remaining hours,
  completion rate.

CONTAINMENT:
  A shift belongs to a period only if its whole [StartTime, EndTime] lies
  inside [periodStart, periodEnd]. Shifts that straddle a boundary,
  including multi-day leave, are not split; they are left out of both
  periods.

WORK vs LEAVE:
  Only NORMAL_WORKDAY, WEEKEND_DAY and HOLIDAY hours count. Leave shifts
  contribute zero hours and are tallied as leave days according to the
  LeaveCountingPolicy.

REMAINING / COMPLETION:
  Neither is clamped. A negative remaining value is the "exceeded hours"
  signal and a completion rate above 100 is reported as is.

All functions here are pure and independent of shift order.
*/
package scheduling

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/generic"
)

// ShiftsInPeriod filters to workerID's shifts fully contained in
// [periodStart, periodEnd].
func ShiftsInPeriod(all []Shift, workerID string, periodStart, periodEnd time.Time) []Shift {
	var out []Shift
	for _, s := range all {
		if s.WorkerID != workerID {
			continue
		}
		if s.StartTime.Before(periodStart) || s.EndTime.After(periodEnd) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// WorkedHours sums HoursWorked of work-type shifts.
func WorkedHours(shifts []Shift) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shifts {
		if s.ShiftType.IsWork() {
			total = total.Add(s.HoursWorked)
		}
	}
	return total
}

// LeaveDayCounts is the leave tally of a period.
type LeaveDayCounts struct {
	SickLeaveDays   int
	VacationDays    int
	UnpaidLeaveDays int
}

// Total returns the sum of all leave days.
func (c LeaveDayCounts) Total() int {
	return c.SickLeaveDays + c.VacationDays + c.UnpaidLeaveDays
}

// CountLeaveDays tallies leave shifts by type.
func CountLeaveDays(shifts []Shift, policy LeaveCountingPolicy) LeaveDayCounts {
	var c LeaveDayCounts
	for _, s := range shifts {
		if !s.ShiftType.IsLeave() {
			continue
		}
		n := 1
		if policy == LeavePerCalendarDay {
			n = generic.CalendarDaysSpanned(s.StartTime, s.EndTime)
		}
		switch s.ShiftType {
		case ShiftSickLeave:
			c.SickLeaveDays += n
		case ShiftVacation:
			c.VacationDays += n
		case ShiftUnpaidLeave:
			c.UnpaidLeaveDays += n
		}
	}
	return c
}

// RemainingHours is maxHours - workedHours; negative means over quota.
func RemainingHours(maxHours, workedHours decimal.Decimal) decimal.Decimal {
	return maxHours.Sub(workedHours)
}

// CompletionRate is workedHours/maxHours*100, or 0 when maxHours is 0.
func CompletionRate(maxHours, workedHours decimal.Decimal) decimal.Decimal {
	return generic.Percentage(workedHours, maxHours)
}

// =============================================================================
// PERIOD STATS
// =============================================================================

// PeriodStats is the per-worker summary for one period.
type PeriodStats struct {
	WorkerID    string
	PeriodStart time.Time
	PeriodEnd   time.Time

	MaxHours       decimal.Decimal
	WorkedHours    decimal.Decimal
	RemainingHours decimal.Decimal
	CompletionRate decimal.Decimal
	Leave          LeaveDayCounts

	TotalShifts  int
	NormalDays   int
	WeekendDays  int
	HolidayDays  int
	NormalHours  decimal.Decimal
	WeekendHours decimal.Decimal
	HolidayHours decimal.Decimal
}

// Exceeded is true when the worker is over quota.
func (s PeriodStats) Exceeded() bool { return s.RemainingHours.IsNegative() }

// ComputeStats builds PeriodStats from an unfiltered set of shifts.
func ComputeStats(workerID string, periodStart, periodEnd time.Time, all []Shift, maxHours decimal.Decimal, policy LeaveCountingPolicy) PeriodStats {
	shifts := ShiftsInPeriod(all, workerID, periodStart, periodEnd)
	worked := WorkedHours(shifts)

	stats := PeriodStats{
		WorkerID:       workerID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		MaxHours:       maxHours,
		WorkedHours:    worked,
		RemainingHours: RemainingHours(maxHours, worked),
		CompletionRate: CompletionRate(maxHours, worked),
		Leave:          CountLeaveDays(shifts, policy),
		TotalShifts:    len(shifts),
		NormalHours:    decimal.Zero,
		WeekendHours:   decimal.Zero,
		HolidayHours:   decimal.Zero,
	}

	for _, s := range shifts {
		switch s.ShiftType {
		case ShiftNormalWorkday:
			stats.NormalDays++
			stats.NormalHours = stats.NormalHours.Add(s.HoursWorked)
		case ShiftWeekendDay:
			stats.WeekendDays++
			stats.WeekendHours = stats.WeekendHours.Add(s.HoursWorked)
		case ShiftHoliday:
			stats.HolidayDays++
			stats.HolidayHours = stats.HolidayHours.Add(s.HoursWorked)
		}
	}
	return stats
}

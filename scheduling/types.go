// Package scheduling implements shift scheduling against period-hour quotas.
// It uses the generic engine for periods, hours and errors, and talks to
// persistence only through the repository interfaces in store.go.
package scheduling

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/generic"
)

// =============================================================================
// WORKER
// =============================================================================

// Worker is a person shifts are scheduled for.
// WorkerCode is the external, human-facing identifier and is unique.
type Worker struct {
	ID         string
	FirstName  string
	LastName   string
	WorkerCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (w Worker) FullName() string {
	return strings.TrimSpace(w.FirstName + " " + w.LastName)
}

// =============================================================================
// SHIFT TYPES
// =============================================================================

// ShiftType is a closed enumeration.
type ShiftType string

const (
	ShiftNormalWorkday ShiftType = "NORMAL_WORKDAY"
	ShiftWeekendDay    ShiftType = "WEEKEND_DAY"
	ShiftHoliday       ShiftType = "HOLIDAY"
	ShiftSickLeave     ShiftType = "SICK_LEAVE"
	ShiftVacation      ShiftType = "VACATION"
	ShiftUnpaidLeave   ShiftType = "UNPAID_LEAVE"
)

// ShiftTypes lists every valid shift type.
var ShiftTypes = []ShiftType{
	ShiftNormalWorkday, ShiftWeekendDay, ShiftHoliday,
	ShiftSickLeave, ShiftVacation, ShiftUnpaidLeave,
}

func (t ShiftType) Valid() bool {
	for _, v := range ShiftTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsLeave is true for vacation, sick and unpaid leave.
func (t ShiftType) IsLeave() bool {
	return t == ShiftSickLeave || t == ShiftVacation || t == ShiftUnpaidLeave
}

// IsWork is true for the types whose hours count toward the quota.
func (t ShiftType) IsWork() bool {
	return t == ShiftNormalWorkday || t == ShiftWeekendDay || t == ShiftHoliday
}

// ParseShiftType validates s against the enumeration.
func ParseShiftType(s string) (ShiftType, error) {
	t := ShiftType(s)
	if !t.Valid() {
		return "", generic.Invalid("shiftType", "unknown shift type "+s)
	}
	return t, nil
}

// =============================================================================
// SHIFT
// =============================================================================

// Shift is a block of work or leave for one worker.
//
// Leave shifts cover whole days: StartTime is 00:00:00.000 UTC of the first
// day and EndTime 23:59:59.999 UTC of the last. Their HoursWorked is always
// zero and Location is empty.
type Shift struct {
	ID          string
	WorkerID    string
	ShiftType   ShiftType
	StartTime   time.Time
	EndTime     time.Time
	HoursWorked decimal.Decimal
	Location    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShiftInput is a proposed shift as received from a caller.
// HoursWorked nil means "derive from the times".
type ShiftInput struct {
	ShiftType   ShiftType
	StartTime   time.Time
	EndTime     time.Time
	HoursWorked *float64
	Location    *string
}

// Build validates the input and produces the shift to store.
func (in ShiftInput) Build(workerID string) (Shift, error) {
	if workerID == "" {
		return Shift{}, generic.Invalid("workerId", "required")
	}
	if !in.ShiftType.Valid() {
		return Shift{}, generic.Invalid("shiftType", "unknown shift type "+string(in.ShiftType))
	}
	if in.StartTime.IsZero() {
		return Shift{}, generic.Invalid("startTime", "required")
	}
	if in.EndTime.IsZero() {
		return Shift{}, generic.Invalid("endTime", "required")
	}
	if in.EndTime.Before(in.StartTime) {
		return Shift{}, generic.Invalid("endTime", "before startTime")
	}

	var explicit *decimal.Decimal
	if in.HoursWorked != nil {
		h, err := generic.HoursFromFloat("hoursWorked", *in.HoursWorked)
		if err != nil {
			return Shift{}, err
		}
		if h.IsNegative() {
			return Shift{}, generic.Invalid("hoursWorked", "must not be negative")
		}
		if !h.Equal(h.Round(generic.HoursPrecision)) {
			return Shift{}, generic.Invalid("hoursWorked", "at most 2 decimal places")
		}
		explicit = &h
	}

	shift := Shift{
		WorkerID:  workerID,
		ShiftType: in.ShiftType,
	}

	if in.ShiftType.IsLeave() {
		if in.Location != nil && strings.TrimSpace(*in.Location) != "" {
			return Shift{}, generic.Invalid("location", "not allowed for leave shifts")
		}
		if explicit != nil && !explicit.IsZero() {
			return Shift{}, generic.Invalid("hoursWorked", "leave shifts carry no hours")
		}
		shift.StartTime = generic.StartOfDay(in.StartTime)
		shift.EndTime = generic.EndOfDay(in.EndTime)
		shift.HoursWorked = decimal.Zero
		return shift, nil
	}

	shift.StartTime = in.StartTime.UTC()
	shift.EndTime = in.EndTime.UTC()
	if explicit != nil {
		shift.HoursWorked = *explicit
	} else {
		shift.HoursWorked = generic.HoursBetween(shift.StartTime, shift.EndTime)
	}
	if in.Location != nil {
		if loc := strings.TrimSpace(*in.Location); loc != "" {
			shift.Location = &loc
		}
	}
	return shift, nil
}

// =============================================================================
// PERIOD HOURS
// =============================================================================

// PeriodHours is the max-hours quota of one worker in one period.
// Identity is (WorkerID, day of PeriodStart).
type PeriodHours struct {
	ID          string
	WorkerID    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	MaxHours    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// =============================================================================
// LEAVE COUNTING POLICY
// =============================================================================

// LeaveCountingPolicy decides how leave shifts are turned into leave days.
type LeaveCountingPolicy string

const (
	// LeavePerShift counts one leave day per leave shift, whatever its span.
	LeavePerShift LeaveCountingPolicy = "per_shift"

	// LeavePerCalendarDay counts every calendar day the leave shift covers.
	LeavePerCalendarDay LeaveCountingPolicy = "per_calendar_day"
)

// ParseLeaveCountingPolicy maps config values; empty means per-shift.
func ParseLeaveCountingPolicy(s string) (LeaveCountingPolicy, error) {
	switch LeaveCountingPolicy(s) {
	case "", LeavePerShift:
		return LeavePerShift, nil
	case LeavePerCalendarDay:
		return LeavePerCalendarDay, nil
	default:
		return "", generic.Invalid("leave_counting", "unknown policy "+s)
	}
}

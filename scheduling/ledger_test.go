package scheduling_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// P1 of 2024 under the four-week scheme.
var (
	p1Start = generic.Date(2024, time.January, 1)
	p1End   = generic.EndOfDay(generic.Date(2024, time.January, 28))
)

func hours(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func workShift(id, workerID string, t scheduling.ShiftType, start time.Time, h string) scheduling.Shift {
	d := hours(h)
	return scheduling.Shift{
		ID:          id,
		WorkerID:    workerID,
		ShiftType:   t,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(d.Mul(decimal.NewFromInt(int64(time.Hour))).IntPart())),
		HoursWorked: d,
	}
}

func leaveShift(id, workerID string, t scheduling.ShiftType, first, last time.Time) scheduling.Shift {
	return scheduling.Shift{
		ID:          id,
		WorkerID:    workerID,
		ShiftType:   t,
		StartTime:   generic.StartOfDay(first),
		EndTime:     generic.EndOfDay(last),
		HoursWorked: decimal.Zero,
	}
}

func at(day time.Time, hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

// =============================================================================
// CONTAINMENT
// =============================================================================

func TestShiftsInPeriod_OnlyFullyContainedShifts(t *testing.T) {
	// GIVEN: shifts inside, straddling and outside P1, plus another worker's
	shifts := []scheduling.Shift{
		workShift("in", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 10), 8), "8"),
		workShift("straddle", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 28), 20), "8"),
		workShift("after", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 29), 8), "8"),
		workShift("other", "w2", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 10), 8), "8"),
		leaveShift("leave-straddle", "w1", scheduling.ShiftVacation,
			generic.Date(2024, time.January, 27), generic.Date(2024, time.January, 30)),
	}

	// WHEN: filtering to w1 in P1
	got := scheduling.ShiftsInPeriod(shifts, "w1", p1Start, p1End)

	// THEN: only the fully contained shift remains
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].ID)
}

func TestShiftsInPeriod_BoundsAreInclusive(t *testing.T) {
	first := leaveShift("first", "w1", scheduling.ShiftSickLeave, p1Start, p1Start)
	last := leaveShift("last", "w1", scheduling.ShiftSickLeave, p1End, p1End)

	got := scheduling.ShiftsInPeriod([]scheduling.Shift{first, last}, "w1", p1Start, p1End)
	assert.Len(t, got, 2)
}

// =============================================================================
// WORKED HOURS AND LEAVE
// =============================================================================

func TestWorkedHours_CountsOnlyWorkTypes(t *testing.T) {
	day := generic.Date(2024, time.January, 10)
	shifts := []scheduling.Shift{
		workShift("a", "w1", scheduling.ShiftNormalWorkday, at(day, 8), "8"),
		workShift("b", "w1", scheduling.ShiftWeekendDay, at(day.AddDate(0, 0, 3), 8), "6.5"),
		workShift("c", "w1", scheduling.ShiftHoliday, at(day.AddDate(0, 0, 5), 8), "4.25"),
		leaveShift("d", "w1", scheduling.ShiftVacation, day.AddDate(0, 0, 7), day.AddDate(0, 0, 9)),
	}
	assert.Equal(t, "18.75", scheduling.WorkedHours(shifts).String())
	assert.True(t, scheduling.WorkedHours(nil).IsZero())
}

func TestCountLeaveDays_Policies(t *testing.T) {
	// GIVEN: a 3-day vacation shift, a 1-day sick shift and an unpaid day
	day := generic.Date(2024, time.January, 8)
	shifts := []scheduling.Shift{
		leaveShift("v", "w1", scheduling.ShiftVacation, day, day.AddDate(0, 0, 2)),
		leaveShift("s", "w1", scheduling.ShiftSickLeave, day.AddDate(0, 0, 5), day.AddDate(0, 0, 5)),
		leaveShift("u", "w1", scheduling.ShiftUnpaidLeave, day.AddDate(0, 0, 6), day.AddDate(0, 0, 6)),
		workShift("w", "w1", scheduling.ShiftNormalWorkday, at(day.AddDate(0, 0, 10), 8), "8"),
	}

	// WHEN: counting per shift
	perShift := scheduling.CountLeaveDays(shifts, scheduling.LeavePerShift)

	// THEN: every leave shift is one day
	assert.Equal(t, scheduling.LeaveDayCounts{SickLeaveDays: 1, VacationDays: 1, UnpaidLeaveDays: 1}, perShift)
	assert.Equal(t, 3, perShift.Total())

	// WHEN: counting per calendar day
	perDay := scheduling.CountLeaveDays(shifts, scheduling.LeavePerCalendarDay)

	// THEN: the vacation counts all three days
	assert.Equal(t, 3, perDay.VacationDays)
	assert.Equal(t, 5, perDay.Total())
}

// =============================================================================
// STATS
// =============================================================================

func TestComputeStats_UnderQuota(t *testing.T) {
	day := generic.Date(2024, time.January, 8)
	shifts := []scheduling.Shift{
		workShift("a", "w1", scheduling.ShiftNormalWorkday, at(day, 8), "8"),
		workShift("b", "w1", scheduling.ShiftNormalWorkday, at(day.AddDate(0, 0, 1), 8), "8"),
		workShift("c", "w1", scheduling.ShiftWeekendDay, at(day.AddDate(0, 0, 5), 10), "6"),
		workShift("d", "w1", scheduling.ShiftHoliday, at(day.AddDate(0, 0, 7), 8), "2"),
		leaveShift("e", "w1", scheduling.ShiftSickLeave, day.AddDate(0, 0, 9), day.AddDate(0, 0, 9)),
	}

	stats := scheduling.ComputeStats("w1", p1Start, p1End, shifts, hours("160"), scheduling.LeavePerShift)

	assert.Equal(t, "24", stats.WorkedHours.String())
	assert.Equal(t, "136", stats.RemainingHours.String())
	assert.Equal(t, "15", stats.CompletionRate.String())
	assert.False(t, stats.Exceeded())
	assert.Equal(t, 5, stats.TotalShifts)
	assert.Equal(t, 2, stats.NormalDays)
	assert.Equal(t, 1, stats.WeekendDays)
	assert.Equal(t, 1, stats.HolidayDays)
	assert.Equal(t, "16", stats.NormalHours.String())
	assert.Equal(t, "6", stats.WeekendHours.String())
	assert.Equal(t, "2", stats.HolidayHours.String())
	assert.Equal(t, 1, stats.Leave.SickLeaveDays)
}

func TestComputeStats_OverQuotaIsNotClamped(t *testing.T) {
	// GIVEN: 170 hours booked against a 160 quota (e.g. quota lowered later)
	var shifts []scheduling.Shift
	for i := 0; i < 17; i++ {
		shifts = append(shifts, workShift("s", "w1", scheduling.ShiftNormalWorkday,
			at(p1Start.AddDate(0, 0, i), 8), "10"))
	}

	stats := scheduling.ComputeStats("w1", p1Start, p1End, shifts, hours("160"), scheduling.LeavePerShift)

	assert.Equal(t, "-10", stats.RemainingHours.String())
	assert.True(t, stats.Exceeded())
	assert.Equal(t, "106.25", stats.CompletionRate.String())
}

func TestComputeStats_NoQuotaMeansZeroCompletion(t *testing.T) {
	shifts := []scheduling.Shift{
		workShift("a", "w1", scheduling.ShiftNormalWorkday, at(p1Start, 8), "8"),
	}
	stats := scheduling.ComputeStats("w1", p1Start, p1End, shifts, decimal.Zero, scheduling.LeavePerShift)

	assert.True(t, stats.CompletionRate.IsZero())
	assert.Equal(t, "-8", stats.RemainingHours.String())
}

func TestComputeStats_OrderIndependent(t *testing.T) {
	a := workShift("a", "w1", scheduling.ShiftNormalWorkday, at(p1Start, 8), "8")
	b := workShift("b", "w1", scheduling.ShiftHoliday, at(p1Start.AddDate(0, 0, 1), 8), "5")
	c := leaveShift("c", "w1", scheduling.ShiftVacation, p1Start.AddDate(0, 0, 2), p1Start.AddDate(0, 0, 3))

	one := scheduling.ComputeStats("w1", p1Start, p1End, []scheduling.Shift{a, b, c}, hours("40"), scheduling.LeavePerCalendarDay)
	two := scheduling.ComputeStats("w1", p1Start, p1End, []scheduling.Shift{c, b, a}, hours("40"), scheduling.LeavePerCalendarDay)

	assert.Equal(t, one.WorkedHours.String(), two.WorkedHours.String())
	assert.Equal(t, one.CompletionRate.String(), two.CompletionRate.String())
	assert.Equal(t, one.Leave, two.Leave)
	assert.Equal(t, one.TotalShifts, two.TotalShifts)
	assert.Equal(t, 2, two.Leave.VacationDays)
}

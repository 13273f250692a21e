package scheduling_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var worker1 = scheduling.Worker{ID: "w1", FirstName: "Anna", LastName: "Berg", WorkerCode: "W001"}

func fourWeek() *scheduling.Enforcer {
	return scheduling.NewEnforcer(generic.NewPeriodCalculator(nil))
}

// quotaOf returns a lookup with maxHours for every period.
func quotaOf(maxHours string) scheduling.PeriodHoursLookup {
	return func(_ context.Context, workerID string, p generic.Period) (*scheduling.PeriodHours, error) {
		return &scheduling.PeriodHours{
			ID:          "ph-1",
			WorkerID:    workerID,
			PeriodStart: p.Start,
			PeriodEnd:   p.End,
			MaxHours:    hours(maxHours),
		}, nil
	}
}

func noQuota(context.Context, string, generic.Period) (*scheduling.PeriodHours, error) {
	return nil, nil
}

// booked returns n shifts of h hours each on consecutive days from P1 start.
func booked(n int, h string) []scheduling.Shift {
	var out []scheduling.Shift
	for i := 0; i < n; i++ {
		out = append(out, workShift("b"+string(rune('a'+i)), "w1", scheduling.ShiftNormalWorkday,
			at(p1Start.AddDate(0, 0, i), 8), h))
	}
	return out
}

// =============================================================================
// ADMISSION
// =============================================================================

func TestValidateNewShift_UnderQuota_Accepted(t *testing.T) {
	// GIVEN: 120h worked of 160h
	existing := booked(15, "8")
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 20), 8), "8")

	// WHEN: adding 8h
	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, existing, quotaOf("160"))

	// THEN: accepted with the numbers
	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.Equal(t, "P1", d.Period.Label)
	require.NotNil(t, d.Detail)
	assert.Equal(t, "120", d.Detail.CurrentHours.String())
	assert.Equal(t, "40", d.Detail.RemainingHours.String())
	assert.NoError(t, d.Err("w1"))
}

func TestValidateNewShift_OverQuota_Rejected(t *testing.T) {
	// GIVEN: 155h worked of 160h (19 x 8h + 3h)
	existing := booked(19, "8")
	existing = append(existing, workShift("x", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 20), 8), "3"))
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 22), 8), "8")

	// WHEN: adding 8h
	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, existing, quotaOf("160"))

	// THEN: rejected with current 155, new 8, max 160, remaining 5
	require.NoError(t, err)
	assert.False(t, d.Accepted)
	assert.Equal(t, scheduling.RejectQuotaExceeded, d.Reason)
	require.NotNil(t, d.Detail)
	assert.Equal(t, "155", d.Detail.CurrentHours.String())
	assert.Equal(t, "8", d.Detail.NewShiftHours.String())
	assert.Equal(t, "160", d.Detail.MaxHours.String())
	assert.Equal(t, "5", d.Detail.RemainingHours.String())

	var exceeded *generic.QuotaExceededError
	require.ErrorAs(t, d.Err("w1"), &exceeded)
	assert.Equal(t, "5", exceeded.RemainingHours.String())
}

func TestValidateNewShift_ExactlyAtQuota_Accepted(t *testing.T) {
	existing := booked(19, "8") // 152h
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 22), 8), "8")

	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, existing, quotaOf("160"))

	require.NoError(t, err)
	assert.True(t, d.Accepted, "current + new == max is allowed")
}

func TestValidateNewShift_OneHundredthOver_Rejected(t *testing.T) {
	existing := booked(19, "8") // 152h
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 22), 8), "8.01")

	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, existing, quotaOf("160"))

	require.NoError(t, err)
	assert.False(t, d.Accepted)
	assert.Equal(t, scheduling.RejectQuotaExceeded, d.Reason)
}

func TestValidateNewShift_NoRecord_FailsClosed(t *testing.T) {
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 10), 8), "1")

	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, nil, noQuota)

	require.NoError(t, err)
	assert.False(t, d.Accepted)
	assert.Equal(t, scheduling.RejectNoQuotaForPeriod, d.Reason)
	assert.Nil(t, d.Detail)
	assert.ErrorIs(t, d.Err("w1"), generic.ErrNoQuotaForPeriod)
}

func TestValidateNewShift_ZeroQuota_FailsClosed(t *testing.T) {
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 10), 8), "1")

	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, nil, quotaOf("0"))

	require.NoError(t, err)
	assert.Equal(t, scheduling.RejectNoQuotaForPeriod, d.Reason)
}

func TestValidateNewShift_Week53_NoPeriod(t *testing.T) {
	// Dec 29, 2026 is in ISO week 53 of 2026, outside every four-week period
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2026, time.December, 29), 8), "8")

	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, nil, quotaOf("160"))

	require.NoError(t, err)
	assert.Equal(t, scheduling.RejectNoQuotaForPeriod, d.Reason)
	assert.True(t, d.Period.Start.IsZero())
}

func TestValidateNewShift_CrossingPeriodEnd_Invalid(t *testing.T) {
	// GIVEN: an 8h shift from the last evening of P1 into P2
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 28), 20), "8")

	// WHEN: validating
	_, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, nil, quotaOf("8"))

	// THEN: rejected as input, since neither period would count its hours
	var invalid *generic.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "endTime", invalid.Field)
}

func TestValidateNewShift_EndingOnLastMillisecond_Accepted(t *testing.T) {
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.January, 28), 16), "8")
	proposed.EndTime = p1End

	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, nil, quotaOf("8"))

	require.NoError(t, err)
	assert.True(t, d.Accepted)
}

func TestValidateNewShift_LeaveBypassesQuota(t *testing.T) {
	// GIVEN: no quota at all
	proposed := leaveShift("", "w1", scheduling.ShiftVacation, generic.Date(2024, time.January, 8), generic.Date(2024, time.January, 12))

	// WHEN: booking vacation
	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, nil, noQuota)

	// THEN: accepted without a lookup
	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.Nil(t, d.Detail)
}

func TestValidateNewShift_LeaveWithLocation_Invalid(t *testing.T) {
	loc := "Main office"
	proposed := leaveShift("", "w1", scheduling.ShiftSickLeave, p1Start, p1Start)
	proposed.Location = &loc

	_, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, nil, noQuota)

	var invalid *generic.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "location", invalid.Field)
}

func TestValidateNewShift_UpdateExcludesItself(t *testing.T) {
	// GIVEN: 160h booked including the 8h shift "ba" being edited
	existing := booked(20, "8")
	edited := existing[0]
	edited.HoursWorked = hours("8")

	// WHEN: re-validating the same 8h shift
	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, edited, existing, quotaOf("160"))

	// THEN: it does not count against itself
	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.Equal(t, "152", d.Detail.CurrentHours.String())
}

func TestValidateNewShift_IgnoresOtherWorkersAndPeriods(t *testing.T) {
	existing := []scheduling.Shift{
		workShift("o1", "w2", scheduling.ShiftNormalWorkday, at(p1Start, 8), "100"),
		workShift("o2", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.February, 5), 8), "100"),
	}
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(p1Start.AddDate(0, 0, 3), 8), "8")

	d, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, existing, quotaOf("10"))

	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.True(t, d.Detail.CurrentHours.IsZero())
}

func TestValidateNewShift_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	failing := func(context.Context, string, generic.Period) (*scheduling.PeriodHours, error) { return nil, boom }
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(p1Start, 8), "8")

	_, err := fourWeek().ValidateNewShift(context.Background(), worker1, proposed, nil, failing)

	assert.ErrorIs(t, err, boom)
}

func TestValidateNewShift_CalendarMonthScheme(t *testing.T) {
	e := scheduling.NewEnforcer(generic.CalendarMonthScheme{})
	proposed := workShift("", "w1", scheduling.ShiftNormalWorkday, at(generic.Date(2024, time.February, 29), 8), "8")

	d, err := e.ValidateNewShift(context.Background(), worker1, proposed, nil, quotaOf("100"))

	require.NoError(t, err)
	assert.True(t, d.Accepted)
	assert.Equal(t, generic.Date(2024, time.February, 1), d.Period.Start)
}

// =============================================================================
// SHIFT INPUT
// =============================================================================

func TestShiftInputBuild_WorkDerivesHours(t *testing.T) {
	start := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	loc := "  Site A "

	s, err := scheduling.ShiftInput{
		ShiftType: scheduling.ShiftNormalWorkday,
		StartTime: start,
		EndTime:   start.Add(7*time.Hour + 30*time.Minute),
		Location:  &loc,
	}.Build("w1")

	require.NoError(t, err)
	assert.Equal(t, "7.5", s.HoursWorked.String())
	require.NotNil(t, s.Location)
	assert.Equal(t, "Site A", *s.Location)
}

func TestShiftInputBuild_ExplicitHoursWin(t *testing.T) {
	start := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	h := 6.0

	s, err := scheduling.ShiftInput{
		ShiftType:   scheduling.ShiftHoliday,
		StartTime:   start,
		EndTime:     start.Add(8 * time.Hour),
		HoursWorked: &h,
	}.Build("w1")

	require.NoError(t, err)
	assert.Equal(t, "6", s.HoursWorked.String())
}

func TestShiftInputBuild_LeaveNormalizedToWholeDays(t *testing.T) {
	s, err := scheduling.ShiftInput{
		ShiftType: scheduling.ShiftVacation,
		StartTime: time.Date(2024, time.January, 8, 13, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC),
	}.Build("w1")

	require.NoError(t, err)
	assert.Equal(t, generic.Date(2024, time.January, 8), s.StartTime)
	assert.Equal(t, generic.EndOfDay(generic.Date(2024, time.January, 10)), s.EndTime)
	assert.True(t, s.HoursWorked.IsZero())
	assert.Nil(t, s.Location)
}

func TestShiftInputBuild_Invalid(t *testing.T) {
	start := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC)
	negative := -1.0
	four := 4.0
	tiny := 0.004
	loc := "Site A"

	tests := []struct {
		name  string
		in    scheduling.ShiftInput
		field string
	}{
		{"unknown type", scheduling.ShiftInput{ShiftType: "NIGHT", StartTime: start, EndTime: start}, "shiftType"},
		{"missing start", scheduling.ShiftInput{ShiftType: scheduling.ShiftNormalWorkday, EndTime: start}, "startTime"},
		{"end before start", scheduling.ShiftInput{ShiftType: scheduling.ShiftNormalWorkday, StartTime: start, EndTime: start.Add(-time.Hour)}, "endTime"},
		{"negative hours", scheduling.ShiftInput{ShiftType: scheduling.ShiftNormalWorkday, StartTime: start, EndTime: start, HoursWorked: &negative}, "hoursWorked"},
		{"three decimal hours", scheduling.ShiftInput{ShiftType: scheduling.ShiftNormalWorkday, StartTime: start, EndTime: start.Add(time.Hour), HoursWorked: &tiny}, "hoursWorked"},
		{"leave with location", scheduling.ShiftInput{ShiftType: scheduling.ShiftSickLeave, StartTime: start, EndTime: start, Location: &loc}, "location"},
		{"leave with hours", scheduling.ShiftInput{ShiftType: scheduling.ShiftUnpaidLeave, StartTime: start, EndTime: start, HoursWorked: &four}, "hoursWorked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.Build("w1")
			var invalid *generic.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

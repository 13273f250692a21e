package scheduling_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
	"github.com/warp/shift-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*scheduling.Service, *memory.Memory) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.New()
	svc := scheduling.NewService(store, scheduling.Options{Logger: logger})
	return svc, store
}

// seedWorker creates a worker on a 2024 contract with maxHours in P1 of 2024.
// maxHours < 0 skips the quota.
func seedWorker(t *testing.T, svc *scheduling.Service, code string, maxHours float64) scheduling.Worker {
	t.Helper()
	ctx := context.Background()

	w, err := svc.CreateWorker(ctx, scheduling.WorkerInput{FirstName: "Test", LastName: code, WorkerCode: code})
	require.NoError(t, err)
	_, err = svc.CreateContract(ctx, w.ID, generic.Date(2024, time.January, 1), 12)
	require.NoError(t, err)
	if maxHours >= 0 {
		_, _, err = svc.UpsertPeriodHours(ctx, w.ID, p1Start, p1End, maxHours)
		require.NoError(t, err)
	}
	return w
}

func workInput(day time.Time, startHour int, h time.Duration) scheduling.ShiftInput {
	start := at(day, startHour)
	return scheduling.ShiftInput{
		ShiftType: scheduling.ShiftNormalWorkday,
		StartTime: start,
		EndTime:   start.Add(h),
	}
}

func mustBook(t *testing.T, svc *scheduling.Service, workerID string, in scheduling.ShiftInput) scheduling.Shift {
	t.Helper()
	out, err := svc.CheckAndCreateShift(context.Background(), workerID, in)
	require.NoError(t, err)
	require.True(t, out.Decision.Accepted, "expected %s on %s to be accepted", in.ShiftType, generic.DayKey(in.StartTime))
	return *out.Shift
}

// =============================================================================
// QUOTA-CHECKED BOOKING
// =============================================================================

func TestCheckAndCreateShift_EmptyPeriod_Accepted(t *testing.T) {
	// GIVEN: maxHours 160 and no shifts
	svc, _ := newTestService(t)
	w := seedWorker(t, svc, "W001", 160)

	// WHEN: booking 8 hours
	out, err := svc.CheckAndCreateShift(context.Background(), w.ID, workInput(generic.Date(2024, time.January, 10), 8, 8*time.Hour))

	// THEN: accepted, saved, and 152 hours remain
	require.NoError(t, err)
	require.True(t, out.Decision.Accepted)
	require.NotNil(t, out.Shift)
	assert.NotEmpty(t, out.Shift.ID)
	assert.Equal(t, "8", out.Shift.HoursWorked.String())
	require.NotNil(t, out.Stats)
	assert.Equal(t, "152", out.Stats.RemainingHours.String())
	assert.Equal(t, "8", out.Stats.WorkedHours.String())
	assert.Equal(t, "160", out.Decision.Detail.RemainingHours.String())
}

func TestCheckAndCreateShift_NearQuota_Rejected(t *testing.T) {
	// GIVEN: 155 of 160 hours booked
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 160)
	for i := 0; i < 19; i++ {
		mustBook(t, svc, w.ID, workInput(p1Start.AddDate(0, 0, i), 8, 8*time.Hour))
	}
	mustBook(t, svc, w.ID, workInput(p1Start.AddDate(0, 0, 19), 8, 3*time.Hour))

	// WHEN: booking 8 more hours
	out, err := svc.CheckAndCreateShift(ctx, w.ID, workInput(p1Start.AddDate(0, 0, 21), 8, 8*time.Hour))

	// THEN: rejected with the numbers, and nothing is saved
	require.NoError(t, err)
	assert.False(t, out.Decision.Accepted)
	assert.Nil(t, out.Shift)
	assert.Equal(t, scheduling.RejectQuotaExceeded, out.Decision.Reason)
	d := out.Decision.Detail
	require.NotNil(t, d)
	assert.Equal(t, "155", d.CurrentHours.String())
	assert.Equal(t, "8", d.NewShiftHours.String())
	assert.Equal(t, "160", d.MaxHours.String())
	assert.Equal(t, "5", d.RemainingHours.String())

	shifts, err := svc.WorkerShifts(ctx, w.ID, p1Start, p1End)
	require.NoError(t, err)
	assert.Len(t, shifts, 20)
}

func TestCheckAndCreateShift_ShiftsAcrossPeriodEndAreRefused(t *testing.T) {
	// GIVEN: an 8 hour quota in P1
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 8)

	// WHEN: repeatedly booking 20:00 on the last day of P1 to 04:00 in P2
	for i := 0; i < 3; i++ {
		_, err := svc.CheckAndCreateShift(ctx, w.ID, workInput(generic.Date(2024, time.January, 28), 20, 8*time.Hour))

		// THEN: every attempt is invalid input
		var invalid *generic.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "endTime", invalid.Field)
	}

	// AND: nothing was saved, and the quota is still fully available
	shifts, err := svc.WorkerShifts(ctx, w.ID, p1Start, generic.EndOfDay(generic.Date(2024, time.January, 31)))
	require.NoError(t, err)
	assert.Empty(t, shifts)
	mustBook(t, svc, w.ID, workInput(generic.Date(2024, time.January, 28), 8, 8*time.Hour))
}

func TestCheckAndCreateShift_BoundaryAtMax(t *testing.T) {
	// GIVEN: 152 of 160 hours booked
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 160)
	for i := 0; i < 19; i++ {
		mustBook(t, svc, w.ID, workInput(p1Start.AddDate(0, 0, i), 8, 8*time.Hour))
	}

	// WHEN: booking 8.01 hours
	over := 8.01
	in := workInput(p1Start.AddDate(0, 0, 20), 8, 8*time.Hour)
	in.HoursWorked = &over
	out, err := svc.CheckAndCreateShift(ctx, w.ID, in)

	// THEN: rejected
	require.NoError(t, err)
	assert.False(t, out.Decision.Accepted)

	// WHEN: booking exactly 8 hours
	out, err = svc.CheckAndCreateShift(ctx, w.ID, workInput(p1Start.AddDate(0, 0, 20), 8, 8*time.Hour))

	// THEN: accepted, the worker is exactly at quota
	require.NoError(t, err)
	assert.True(t, out.Decision.Accepted)
	assert.True(t, out.Stats.RemainingHours.IsZero())
	assert.False(t, out.Stats.Exceeded())
}

func TestCheckAndCreateShift_NoQuotaRecord_Rejected(t *testing.T) {
	svc, _ := newTestService(t)
	w := seedWorker(t, svc, "W001", -1)

	out, err := svc.CheckAndCreateShift(context.Background(), w.ID, workInput(p1Start, 8, time.Hour))

	require.NoError(t, err)
	assert.False(t, out.Decision.Accepted)
	assert.Equal(t, scheduling.RejectNoQuotaForPeriod, out.Decision.Reason)
	assert.Equal(t, "P1", out.Decision.Period.Label)
}

func TestCheckAndCreateShift_QuotaOfOtherPeriodDoesNotApply(t *testing.T) {
	svc, _ := newTestService(t)
	w := seedWorker(t, svc, "W001", 160)

	// P2 of 2024 starts Jan 29 and has no quota
	out, err := svc.CheckAndCreateShift(context.Background(), w.ID, workInput(generic.Date(2024, time.February, 1), 8, time.Hour))

	require.NoError(t, err)
	assert.Equal(t, scheduling.RejectNoQuotaForPeriod, out.Decision.Reason)
}

func TestCheckAndCreateShift_MultiDayVacation(t *testing.T) {
	// GIVEN: no quota at all
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", -1)

	// WHEN: booking a 5-day vacation
	out, err := svc.CheckAndCreateShift(ctx, w.ID, scheduling.ShiftInput{
		ShiftType: scheduling.ShiftVacation,
		StartTime: generic.Date(2024, time.January, 8),
		EndTime:   generic.Date(2024, time.January, 12),
	})

	// THEN: accepted, zero hours, counted as one vacation day
	require.NoError(t, err)
	require.True(t, out.Decision.Accepted)
	assert.True(t, out.Shift.HoursWorked.IsZero())
	assert.Equal(t, generic.EndOfDay(generic.Date(2024, time.January, 12)), out.Shift.EndTime)
	assert.Nil(t, out.Stats)

	stats, err := svc.ComputePeriodStats(ctx, w.ID, p1Start, p1End)
	require.NoError(t, err)
	assert.True(t, stats.WorkedHours.IsZero())
	assert.Equal(t, 1, stats.Leave.VacationDays)
	assert.True(t, stats.MaxHours.IsZero())
}

func TestCheckAndCreateShift_LeaveWithLocation_Invalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 160)
	loc := "Main office"

	_, err := svc.CheckAndCreateShift(ctx, w.ID, scheduling.ShiftInput{
		ShiftType: scheduling.ShiftSickLeave,
		StartTime: p1Start,
		EndTime:   p1Start,
		Location:  &loc,
	})

	assert.ErrorIs(t, err, generic.ErrInvalidInput)
	shifts, err := svc.WorkerShifts(ctx, w.ID, p1Start, p1End)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestCheckAndCreateShift_UnknownWorker(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CheckAndCreateShift(context.Background(), "nobody", workInput(p1Start, 8, time.Hour))

	assert.True(t, generic.IsNotFound(err))
}

func TestCheckAndUpdateShift_ExcludesOldVersion(t *testing.T) {
	// GIVEN: a worker exactly at a 40 hour quota
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 40)
	var booked []scheduling.Shift
	for i := 0; i < 5; i++ {
		booked = append(booked, mustBook(t, svc, w.ID, workInput(p1Start.AddDate(0, 0, i), 8, 8*time.Hour)))
	}

	// WHEN: moving one shift to another day with the same hours
	moved, err := svc.CheckAndUpdateShift(ctx, booked[0].ID, workInput(p1Start.AddDate(0, 0, 10), 9, 8*time.Hour))

	// THEN: accepted in place
	require.NoError(t, err)
	require.True(t, moved.Decision.Accepted)
	assert.Equal(t, booked[0].ID, moved.Shift.ID)
	assert.Equal(t, booked[0].CreatedAt, moved.Shift.CreatedAt)
	assert.Equal(t, "32", moved.Decision.Detail.CurrentHours.String())
	assert.True(t, moved.Stats.RemainingHours.IsZero())

	// WHEN: lengthening it by an hour
	longer, err := svc.CheckAndUpdateShift(ctx, booked[0].ID, workInput(p1Start.AddDate(0, 0, 10), 9, 9*time.Hour))

	// THEN: rejected and the stored shift is unchanged
	require.NoError(t, err)
	assert.False(t, longer.Decision.Accepted)
	stored, err := svc.GetShift(ctx, booked[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "8", stored.HoursWorked.String())
	assert.Equal(t, at(p1Start.AddDate(0, 0, 10), 9), stored.StartTime)
}

func TestCheckAndUpdateShift_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CheckAndUpdateShift(context.Background(), "missing", workInput(p1Start, 8, time.Hour))

	assert.True(t, generic.IsNotFound(err))
}

func TestCheckAndCreateShift_ConcurrentBookingsNeverExceedQuota(t *testing.T) {
	// GIVEN: a 40 hour quota
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 40)

	// WHEN: 12 goroutines each try to book 8 hours at once
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := svc.CheckAndCreateShift(ctx, w.ID, workInput(p1Start.AddDate(0, 0, i), 8, 8*time.Hour))
			if !assert.NoError(t, err) {
				return
			}
			if out.Decision.Accepted {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	// THEN: exactly five fit, and the ledger agrees
	assert.Equal(t, 5, accepted)
	stats, err := svc.ComputePeriodStats(ctx, w.ID, p1Start, p1End)
	require.NoError(t, err)
	assert.Equal(t, "40", stats.WorkedHours.String())
	assert.False(t, stats.Exceeded())
}

// =============================================================================
// PERIOD HOURS
// =============================================================================

func TestUpsertPeriodHours_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", -1)

	first, created, err := svc.UpsertPeriodHours(ctx, w.ID, p1Start, p1End, 160)
	require.NoError(t, err)
	assert.True(t, created)

	// Same period given with different times of day is the same record
	second, created, err := svc.UpsertPeriodHours(ctx, w.ID, at(p1Start, 10), p1End, 120)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "120", second.MaxHours.String())

	recs, err := svc.ListPeriodHours(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	maxHours, err := svc.GetOrDefaultMaxHours(ctx, w.ID, p1Start, p1End)
	require.NoError(t, err)
	assert.Equal(t, "120", maxHours.String())
}

func TestUpsertPeriodHours_Invalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", -1)

	_, _, err := svc.UpsertPeriodHours(ctx, w.ID, p1Start, p1End, -1)
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	_, _, err = svc.UpsertPeriodHours(ctx, w.ID, p1End, p1Start, 10)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	_, _, err = svc.UpsertPeriodHours(ctx, "nobody", p1Start, p1End, 10)
	assert.True(t, generic.IsNotFound(err))
}

func TestGetOrDefaultMaxHours_ZeroWhenMissing(t *testing.T) {
	svc, _ := newTestService(t)
	w := seedWorker(t, svc, "W001", -1)

	maxHours, err := svc.GetOrDefaultMaxHours(context.Background(), w.ID, p1Start, p1End)

	require.NoError(t, err)
	assert.True(t, maxHours.IsZero())
}

func TestLoweringQuotaShowsExceededHours(t *testing.T) {
	// GIVEN: 40 hours booked under a 40 hour quota
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 40)
	for i := 0; i < 5; i++ {
		mustBook(t, svc, w.ID, workInput(p1Start.AddDate(0, 0, i), 8, 8*time.Hour))
	}

	// WHEN: the quota is lowered to 30
	_, _, err := svc.UpsertPeriodHours(ctx, w.ID, p1Start, p1End, 30)
	require.NoError(t, err)

	// THEN: stats report 10 hours over
	stats, err := svc.ComputePeriodStats(ctx, w.ID, p1Start, p1End)
	require.NoError(t, err)
	assert.Equal(t, "-10", stats.RemainingHours.String())
	assert.True(t, stats.Exceeded())
}

// =============================================================================
// WORKERS AND CONTRACTS
// =============================================================================

func TestCreateWorker_DuplicateCodeConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedWorker(t, svc, "W001", -1)

	_, err := svc.CreateWorker(ctx, scheduling.WorkerInput{FirstName: "Other", LastName: "Person", WorkerCode: "W001"})

	assert.ErrorIs(t, err, generic.ErrConflict)
}

// failingContracts wraps a store so that saving a contract inside a
// transaction fails after the worker was written.
type failingContracts struct {
	*memory.Memory
}

func (f failingContracts) WithTx(ctx context.Context, fn func(scheduling.Repository) error) error {
	return f.Memory.WithTx(ctx, func(repo scheduling.Repository) error {
		return fn(failingContractRepo{repo})
	})
}

type failingContractRepo struct {
	scheduling.Repository
}

func (failingContractRepo) SaveContract(context.Context, scheduling.Contract) (scheduling.Contract, error) {
	return scheduling.Contract{}, errors.New("disk full")
}

func TestCreateWorkerWithContract(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	w, c, err := svc.CreateWorkerWithContract(ctx,
		scheduling.WorkerInput{FirstName: "Anna", LastName: "Berg", WorkerCode: "W001"},
		generic.Date(2024, time.January, 31), 1)

	require.NoError(t, err)
	assert.Equal(t, w.ID, c.WorkerID)
	assert.Equal(t, generic.Date(2024, time.February, 29), c.EndDate)
	cs, err := svc.ListContracts(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, cs, 1)
}

func TestCreateWorkerWithContract_FailedContractSavesNothing(t *testing.T) {
	// GIVEN: a store whose contract writes fail
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := scheduling.NewService(failingContracts{memory.New()}, scheduling.Options{Logger: logger})
	ctx := context.Background()

	// WHEN: creating a worker with a contract
	_, _, err := svc.CreateWorkerWithContract(ctx,
		scheduling.WorkerInput{FirstName: "Anna", LastName: "Berg", WorkerCode: "W001"},
		generic.Date(2024, time.January, 1), 12)

	// THEN: the worker write is rolled back with the contract
	assert.ErrorIs(t, err, generic.ErrStorage)
	workers, err := svc.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestCreateWorkerWithContract_InvalidDuration(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateWorkerWithContract(ctx,
		scheduling.WorkerInput{FirstName: "Anna", LastName: "Berg", WorkerCode: "W001"},
		generic.Date(2024, time.January, 1), 0)

	var invalid *generic.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "duration", invalid.Field)
	workers, err := svc.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestDeletePeriodHours_UnknownIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 160)
	recs, err := svc.ListPeriodHours(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.NoError(t, svc.DeletePeriodHours(ctx, recs[0].ID))

	assert.True(t, generic.IsNotFound(svc.DeletePeriodHours(ctx, recs[0].ID)))
	maxHours, err := svc.GetOrDefaultMaxHours(ctx, w.ID, p1Start, p1End)
	require.NoError(t, err)
	assert.True(t, maxHours.IsZero())
}

func TestCreateWorker_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateWorker(context.Background(), scheduling.WorkerInput{FirstName: "  ", LastName: "X", WorkerCode: "W9"})

	var invalid *generic.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "firstName", invalid.Field)
}

func TestCreateContract_OverlapConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", -1) // 2024 contract

	_, err := svc.CreateContract(ctx, w.ID, generic.Date(2024, time.June, 1), 12)
	assert.ErrorIs(t, err, generic.ErrConflict)

	next, err := svc.CreateContract(ctx, w.ID, generic.Date(2025, time.January, 1), 12)
	require.NoError(t, err)

	active, ok, err := svc.ActiveContractOn(ctx, w.ID, generic.Date(2025, time.March, 3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, next.ID, active.ID)
}

func TestUpdateContract_RederivesEndDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", -1)
	contracts, err := svc.ListContracts(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, contracts, 1)

	updated, err := svc.UpdateContract(ctx, contracts[0].ID, generic.Date(2024, time.January, 1), 6)

	require.NoError(t, err)
	assert.Equal(t, generic.Date(2024, time.June, 30), updated.EndDate)
}

func TestDeleteWorker_Cascades(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	w := seedWorker(t, svc, "W001", 160)
	s := mustBook(t, svc, w.ID, workInput(p1Start, 8, 8*time.Hour))

	require.NoError(t, svc.DeleteWorker(ctx, w.ID))

	_, err := svc.GetShift(ctx, s.ID)
	assert.True(t, generic.IsNotFound(err))
	contracts, err := svc.ListContracts(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, contracts)
	assert.True(t, generic.IsNotFound(svc.DeleteWorker(ctx, w.ID)))
}

// =============================================================================
// READS
// =============================================================================

func TestDayRoster(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	busy := seedWorker(t, svc, "W001", 160)
	idle := seedWorker(t, svc, "W002", 160)
	day := generic.Date(2024, time.January, 10)
	mustBook(t, svc, busy.ID, workInput(day, 14, 4*time.Hour))
	mustBook(t, svc, busy.ID, workInput(day, 8, 4*time.Hour))

	roster, err := svc.DayRoster(ctx, day)

	require.NoError(t, err)
	require.Len(t, roster, 2)
	for _, line := range roster {
		switch line.Worker.ID {
		case busy.ID:
			require.NotNil(t, line.Shift)
			assert.Equal(t, at(day, 8), line.Shift.StartTime, "earliest shift wins")
		case idle.ID:
			assert.Nil(t, line.Shift)
		}
	}
}

func TestListShifts_ReversedRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListShifts(context.Background(), p1End, p1Start)

	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

func TestComputePeriodStats_UnknownWorker(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ComputePeriodStats(context.Background(), "nobody", p1Start, p1End)

	assert.True(t, generic.IsNotFound(err))
}

func TestCalendarMonthScheme_Service(t *testing.T) {
	// GIVEN: a service configured for calendar-month quotas
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := scheduling.NewService(memory.New(), scheduling.Options{
		Scheme: generic.CalendarMonthScheme{},
		Logger: logger,
	})
	ctx := context.Background()
	w, err := svc.CreateWorker(ctx, scheduling.WorkerInput{FirstName: "A", LastName: "B", WorkerCode: "W1"})
	require.NoError(t, err)
	_, _, err = svc.UpsertPeriodHours(ctx, w.ID, generic.Date(2024, time.February, 1), generic.Date(2024, time.February, 29), 10)
	require.NoError(t, err)

	// WHEN / THEN: a February shift is checked against the February quota
	out, err := svc.CheckAndCreateShift(ctx, w.ID, workInput(generic.Date(2024, time.February, 29), 8, 8*time.Hour))
	require.NoError(t, err)
	assert.True(t, out.Decision.Accepted)
	assert.Equal(t, "2", out.Stats.RemainingHours.String())

	out, err = svc.CheckAndCreateShift(ctx, w.ID, workInput(generic.Date(2024, time.March, 1), 8, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, scheduling.RejectNoQuotaForPeriod, out.Decision.Reason)
}

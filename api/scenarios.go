/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for demos. Each scenario goes through scheduling.Service, so the
	seeded data obeys the same rules as API traffic.

AVAILABLE SCENARIOS:

	staff-roster: three workers, year-long contracts, a quota for every
	              period of the current year
	near-quota:   one worker 5 hours short of a 160 hour quota
	leave-mix:    work and leave shifts in the current period

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create workers and contracts
 3. Set period quotas
 4. Book shifts through the quota check

USAGE VIA API:

	POST /api/scenarios/load
	{"scenarioId": "near-quota"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase
  - scheduling/service.go: the operations used here
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "staff-roster",
		Name:        "Staff Roster",
		Description: "Three workers on 12-month contracts with quotas for every period of the year",
	},
	{
		ID:          "near-quota",
		Name:        "Near Quota",
		Description: "One worker with 155 of 160 hours booked in the current period",
	},
	{
		ID:          "leave-mix",
		Name:        "Leave Mix",
		Description: "Work, vacation and sick leave in the current period",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}

	if err := h.LoadScenarioByID(r.Context(), req.ScenarioID); err != nil {
		h.writeDomainError(w, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// LoadScenarioByID resets the database and loads scenario id.
func (h *Handler) LoadScenarioByID(ctx context.Context, id string) error {
	var load func(context.Context) error
	switch id {
	case "staff-roster":
		load = h.loadStaffRosterScenario
	case "near-quota":
		load = h.loadNearQuotaScenario
	case "leave-mix":
		load = h.loadLeaveMixScenario
	default:
		return generic.Invalid("scenarioId", "unknown scenario "+id)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Service.Reset(ctx); err != nil {
		return err
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		return err
	}
	h.currentScenario = id
	h.log.WithField("scenario", id).Info("Scenario loaded")
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

type demoWorker struct {
	first, last, code string
	maxHours          float64
}

func (h *Handler) loadStaffRosterScenario(ctx context.Context) error {
	year := h.now().UTC().Year()
	roster := []demoWorker{
		{"John", "Doe", "W001", 160},
		{"Jane", "Smith", "W002", 140},
		{"Mike", "Johnson", "W003", 120},
	}

	periods := periodsInYear(h.Service.Scheme(), year)
	for _, d := range roster {
		wk, err := h.seedWorker(ctx, d, generic.Date(year, time.January, 1), 12)
		if err != nil {
			return err
		}
		for _, p := range periods {
			if _, _, err := h.Service.UpsertPeriodHours(ctx, wk.ID, p.Start, p.End, d.maxHours); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handler) loadNearQuotaScenario(ctx context.Context) error {
	period, ok := h.Service.Scheme().PeriodFor(h.now())
	if !ok {
		return fmt.Errorf("no quota period contains %s", generic.DayKey(h.now()))
	}

	wk, err := h.seedWorker(ctx, demoWorker{"Anna", "Berg", "W100", 160}, generic.StartOfMonth(period.Start.Year(), period.Start.Month()), 12)
	if err != nil {
		return err
	}
	if _, _, err := h.Service.UpsertPeriodHours(ctx, wk.ID, period.Start, period.End, 160); err != nil {
		return err
	}

	// 19 x 8h + 3h = 155h
	for i := 0; i < 19; i++ {
		if err := h.seedShift(ctx, wk.ID, scheduling.ShiftNormalWorkday, generic.AddDays(period.Start, i), 8, 8); err != nil {
			return err
		}
	}
	return h.seedShift(ctx, wk.ID, scheduling.ShiftNormalWorkday, generic.AddDays(period.Start, 19), 8, 3)
}

func (h *Handler) loadLeaveMixScenario(ctx context.Context) error {
	period, ok := h.Service.Scheme().PeriodFor(h.now())
	if !ok {
		return fmt.Errorf("no quota period contains %s", generic.DayKey(h.now()))
	}

	wk, err := h.seedWorker(ctx, demoWorker{"Lena", "Novak", "W200", 120}, generic.StartOfMonth(period.Start.Year(), period.Start.Month()), 6)
	if err != nil {
		return err
	}
	if _, _, err := h.Service.UpsertPeriodHours(ctx, wk.ID, period.Start, period.End, 120); err != nil {
		return err
	}

	// Week 1: four workdays and a weekend day.
	for i := 0; i < 4; i++ {
		if err := h.seedShift(ctx, wk.ID, scheduling.ShiftNormalWorkday, generic.AddDays(period.Start, i), 9, 8); err != nil {
			return err
		}
	}
	if err := h.seedShift(ctx, wk.ID, scheduling.ShiftWeekendDay, generic.AddDays(period.Start, 5), 10, 6); err != nil {
		return err
	}

	// Week 2: three days of vacation in one shift.
	if _, err := h.Service.CheckAndCreateShift(ctx, wk.ID, scheduling.ShiftInput{
		ShiftType: scheduling.ShiftVacation,
		StartTime: generic.AddDays(period.Start, 7),
		EndTime:   generic.AddDays(period.Start, 9),
	}); err != nil {
		return err
	}

	// Week 3: a sick day and a holiday shift.
	day := generic.AddDays(period.Start, 14)
	if _, err := h.Service.CheckAndCreateShift(ctx, wk.ID, scheduling.ShiftInput{
		ShiftType: scheduling.ShiftSickLeave,
		StartTime: day,
		EndTime:   day,
	}); err != nil {
		return err
	}
	return h.seedShift(ctx, wk.ID, scheduling.ShiftHoliday, generic.AddDays(period.Start, 16), 8, 6)
}

func (h *Handler) seedWorker(ctx context.Context, d demoWorker, contractStart time.Time, months int) (scheduling.Worker, error) {
	wk, err := h.Service.CreateWorker(ctx, scheduling.WorkerInput{FirstName: d.first, LastName: d.last, WorkerCode: d.code})
	if err != nil {
		return scheduling.Worker{}, err
	}
	if _, err := h.Service.CreateContract(ctx, wk.ID, contractStart, months); err != nil {
		return scheduling.Worker{}, err
	}
	return wk, nil
}

// seedShift books a work shift on day from startHour for hours.
func (h *Handler) seedShift(ctx context.Context, workerID string, t scheduling.ShiftType, day time.Time, startHour, hours int) error {
	start := generic.StartOfDay(day).Add(time.Duration(startHour) * time.Hour)
	out, err := h.Service.CheckAndCreateShift(ctx, workerID, scheduling.ShiftInput{
		ShiftType: t,
		StartTime: start,
		EndTime:   start.Add(time.Duration(hours) * time.Hour),
	})
	if err != nil {
		return err
	}
	return out.Decision.Err(workerID)
}

// periodsInYear lists the quota periods of year. Four-week periods come
// straight from the calculator, so P13 is kept even when it ends in January.
func periodsInYear(scheme generic.PeriodScheme, year int) []generic.Period {
	if pc, ok := scheme.(*generic.PeriodCalculator); ok {
		return pc.PeriodsForYear(year)
	}

	var out []generic.Period
	day := generic.Date(year, time.January, 1)
	for day.Year() == year {
		p, ok := scheme.PeriodFor(day)
		if !ok {
			day = generic.AddDays(day, 1)
			continue
		}
		if p.Start.Year() == year {
			out = append(out, p)
		}
		day = generic.AddDays(generic.StartOfDay(p.End), 1)
	}
	return out
}

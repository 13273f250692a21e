/*
handlers.go - HTTP API handlers for the shift engine

PURPOSE:
  Exposes workers, contracts, shifts, period quotas and statistics via a
  REST API. Handles HTTP request/response and JSON, and delegates every
  rule to scheduling.Service.

ENDPOINTS:
  Workers:
    GET    /api/workers                      List workers with active contract
    POST   /api/workers                      Create worker (optional first contract)
    GET    /api/workers/{id}                 Worker details
    PUT    /api/workers/{id}                 Update worker
    DELETE /api/workers/{id}                 Delete worker and everything it owns
    GET    /api/workers/{id}/contracts       Worker contracts
    POST   /api/workers/{id}/contracts       Add contract
    GET    /api/workers/{id}/shifts          Shifts overlapping ?start=&end=
    GET    /api/workers/{id}/stats           Period stats (?periodStart=&periodEnd= or ?date=)
    GET    /api/workers/{id}/period-hours    Quota records

  Contracts:
    GET    /api/contracts                    All contracts
    GET    /api/contracts/{id}               Contract
    PUT    /api/contracts/{id}               Update start/duration
    DELETE /api/contracts/{id}               Delete

  Shifts:
    GET    /api/shifts                       Shifts starting in ?start=&end=
    POST   /api/shifts                       Quota-checked create
    GET    /api/shifts/day-status            Roster for ?date= (default today)
    GET    /api/shifts/{id}                  Shift
    PUT    /api/shifts/{id}                  Quota-checked update
    DELETE /api/shifts/{id}                  Delete

  Period hours:
    GET    /api/period-hours                 {maxHours} for ?workerId=&periodStart=&periodEnd=
    POST   /api/period-hours                 Idempotent upsert
    DELETE /api/period-hours/{id}            Delete

  Periods:
    GET    /api/periods                      The 13 periods of ?year=
    GET    /api/periods/current              Quota period containing ?date=

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate worker code, overlapping contracts)
  - 422: Quota rejection, with the numbers behind it
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *scheduling.Service
	Periods *generic.PeriodCalculator
	log     *logrus.Entry
	now     func() time.Time

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler around svc.
func NewHandler(svc *scheduling.Service, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Service: svc,
		Periods: generic.NewPeriodCalculator(generic.NewMemoryPeriodCache()),
		log:     logger.WithField("component", "api"),
		now:     time.Now,
	}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers with their active contract today.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workers, err := h.Service.ListWorkers(ctx)
	if err != nil {
		h.writeDomainError(w, "Failed to list workers", err)
		return
	}
	contracts, err := h.Service.ListContracts(ctx, "")
	if err != nil {
		h.writeDomainError(w, "Failed to list contracts", err)
		return
	}

	byWorker := make(map[string][]scheduling.Contract)
	for _, c := range contracts {
		byWorker[c.WorkerID] = append(byWorker[c.WorkerID], c)
	}

	today := h.now()
	dtos := make([]WorkerDTO, len(workers))
	for i, wk := range workers {
		var active *scheduling.Contract
		if c, ok := scheduling.ActiveContract(byWorker[wk.ID], today); ok {
			active = &c
		}
		dtos[i] = toWorkerDTO(wk, active)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorker returns one worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	wk, err := h.Service.GetWorker(ctx, id)
	if err != nil {
		h.writeDomainError(w, "Failed to get worker", err)
		return
	}
	c, ok, err := h.Service.ActiveContractOn(ctx, id, h.now())
	if err != nil {
		h.writeDomainError(w, "Failed to get active contract", err)
		return
	}
	var active *scheduling.Contract
	if ok {
		active = &c
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(wk, active))
}

// CreateWorker creates a worker and, if given, its first contract.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req WorkerRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}

	var start time.Time
	if req.Contract != nil {
		var err error
		if start, err = generic.ParseDay(req.Contract.StartDate); err != nil {
			h.writeDomainError(w, "Invalid request", generic.Invalid("startDate", "expected YYYY-MM-DD"))
			return
		}
	}

	in := scheduling.WorkerInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		WorkerCode: req.WorkerID,
	}
	if req.Contract == nil {
		wk, err := h.Service.CreateWorker(ctx, in)
		if err != nil {
			h.writeDomainError(w, "Failed to create worker", err)
			return
		}
		writeJSON(w, http.StatusCreated, toWorkerDTO(wk, nil))
		return
	}

	wk, c, err := h.Service.CreateWorkerWithContract(ctx, in, start, req.Contract.Duration)
	if err != nil {
		h.writeDomainError(w, "Failed to create worker", err)
		return
	}
	var active *scheduling.Contract
	if c.ActiveOn(h.now()) {
		active = &c
	}
	writeJSON(w, http.StatusCreated, toWorkerDTO(wk, active))
}

// UpdateWorker replaces the worker's names and code.
func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	var req WorkerRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}

	wk, err := h.Service.UpdateWorker(r.Context(), chi.URLParam(r, "id"), scheduling.WorkerInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		WorkerCode: req.WorkerID,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to update worker", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(wk, nil))
}

// DeleteWorker removes a worker and cascades.
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteWorker(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete worker", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ListContracts returns every contract, or the worker's when routed under
// /workers/{id}.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")
	if workerID != "" {
		if _, err := h.Service.GetWorker(r.Context(), workerID); err != nil {
			h.writeDomainError(w, "Failed to get worker", err)
			return
		}
	}
	contracts, err := h.Service.ListContracts(r.Context(), workerID)
	if err != nil {
		h.writeDomainError(w, "Failed to list contracts", err)
		return
	}
	dtos := make([]ContractDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toContractDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetContract returns one contract.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetContract(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get contract", err)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// CreateContract adds a contract to the worker in the URL.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req ContractRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}
	start, err := generic.ParseDay(req.StartDate)
	if err != nil {
		h.writeDomainError(w, "Invalid request", generic.Invalid("startDate", "expected YYYY-MM-DD"))
		return
	}

	c, err := h.Service.CreateContract(r.Context(), chi.URLParam(r, "id"), start, req.Duration)
	if err != nil {
		h.writeDomainError(w, "Failed to create contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContractDTO(c))
}

// UpdateContract changes start and duration; the end date is re-derived.
func (h *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	var req ContractRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}
	start, err := generic.ParseDay(req.StartDate)
	if err != nil {
		h.writeDomainError(w, "Invalid request", generic.Invalid("startDate", "expected YYYY-MM-DD"))
		return
	}

	c, err := h.Service.UpdateContract(r.Context(), chi.URLParam(r, "id"), start, req.Duration)
	if err != nil {
		h.writeDomainError(w, "Failed to update contract", err)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(c))
}

// DeleteContract removes a contract.
func (h *Handler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteContract(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete contract", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns shifts starting in [start, end].
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r, "start", "end")
	if err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}
	shifts, err := h.Service.ListShifts(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, "Failed to list shifts", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTOs(shifts))
}

// ListWorkerShifts returns the worker's shifts overlapping [start, end].
func (h *Handler) ListWorkerShifts(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r, "start", "end")
	if err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}
	shifts, err := h.Service.WorkerShifts(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		h.writeDomainError(w, "Failed to list shifts", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTOs(shifts))
}

// GetShift returns one shift.
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get shift", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTO(s))
}

// CreateShift books a shift if the worker's quota admits it.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}
	if req.WorkerID == "" {
		h.writeDomainError(w, "Invalid request", generic.Invalid("workerId", "required"))
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}

	out, err := h.Service.CheckAndCreateShift(r.Context(), req.WorkerID, in)
	if err != nil {
		h.writeDomainError(w, "Failed to create shift", err)
		return
	}
	h.writeOutcome(w, http.StatusCreated, req.WorkerID, out)
}

// UpdateShift replaces a shift; the old version does not count against
// the quota of the new one.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}

	id := chi.URLParam(r, "id")
	out, err := h.Service.CheckAndUpdateShift(r.Context(), id, in)
	if err != nil {
		h.writeDomainError(w, "Failed to update shift", err)
		return
	}
	workerID := req.WorkerID
	if out.Shift != nil {
		workerID = out.Shift.WorkerID
	}
	h.writeOutcome(w, http.StatusOK, workerID, out)
}

func (h *Handler) writeOutcome(w http.ResponseWriter, status int, workerID string, out scheduling.Outcome) {
	if !out.Decision.Accepted {
		writeJSON(w, http.StatusUnprocessableEntity, toRejectionDTO(workerID, out.Decision))
		return
	}
	resp := ShiftResultDTO{Shift: toShiftDTO(*out.Shift)}
	if out.Stats != nil {
		stats := toPeriodStatsDTO(*out.Stats)
		resp.Stats = &stats
	}
	writeJSON(w, status, resp)
}

// DeleteShift removes a shift.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteShift(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DayStatus lists every worker with what they do on ?date= (default today).
func (h *Handler) DayStatus(w http.ResponseWriter, r *http.Request) {
	day := h.now()
	if s := r.URL.Query().Get("date"); s != "" {
		var err error
		if day, err = generic.ParseTimestamp(s); err != nil {
			h.writeDomainError(w, "Invalid request", generic.Invalid("date", "expected YYYY-MM-DD"))
			return
		}
	}

	roster, err := h.Service.DayRoster(r.Context(), day)
	if err != nil {
		h.writeDomainError(w, "Failed to get day status", err)
		return
	}

	dtos := make([]DayStatusDTO, len(roster))
	for i, line := range roster {
		dto := DayStatusDTO{
			WorkerID:   line.Worker.ID,
			WorkerName: line.Worker.FullName(),
			Status:     statusNotWorking,
		}
		if s := line.Shift; s != nil {
			start, end := formatTimestamp(s.StartTime), formatTimestamp(s.EndTime)
			dto.Status = string(s.ShiftType)
			dto.Location = s.Location
			dto.ShiftStart = &start
			dto.ShiftEnd = &end
		}
		dtos[i] = dto
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PERIOD HOURS AND STATISTICS
// =============================================================================

// GetPeriodHours returns {maxHours} for one worker and period, 0 if unset.
func (h *Handler) GetPeriodHours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	workerID := q.Get("workerId")
	if workerID == "" {
		h.writeDomainError(w, "Invalid request", generic.Invalid("workerId", "required"))
		return
	}
	from, to, err := parseRange(r, "periodStart", "periodEnd")
	if err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}

	maxHours, err := h.Service.GetOrDefaultMaxHours(r.Context(), workerID, from, to)
	if err != nil {
		h.writeDomainError(w, "Failed to get period hours", err)
		return
	}
	writeJSON(w, http.StatusOK, PeriodHoursDTO{
		WorkerID:    workerID,
		PeriodStart: formatTimestamp(generic.StartOfDay(from)),
		PeriodEnd:   formatTimestamp(generic.EndOfDay(to)),
		MaxHours:    generic.Float(maxHours),
	})
}

// ListWorkerPeriodHours returns every quota of the worker in the URL.
func (h *Handler) ListWorkerPeriodHours(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")
	if _, err := h.Service.GetWorker(r.Context(), workerID); err != nil {
		h.writeDomainError(w, "Failed to get worker", err)
		return
	}
	recs, err := h.Service.ListPeriodHours(r.Context(), workerID)
	if err != nil {
		h.writeDomainError(w, "Failed to list period hours", err)
		return
	}
	dtos := make([]PeriodHoursDTO, len(recs))
	for i, p := range recs {
		dtos[i] = toPeriodHoursDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertPeriodHours sets a quota. 201 on insert, 200 on update.
func (h *Handler) UpsertPeriodHours(w http.ResponseWriter, r *http.Request) {
	var req PeriodHoursRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeDomainError(w, "Invalid request", err)
		return
	}
	start, err := generic.ParseTimestamp(req.PeriodStart)
	if err != nil {
		h.writeDomainError(w, "Invalid request", generic.Invalid("periodStart", err.Error()))
		return
	}
	end, err := generic.ParseTimestamp(req.PeriodEnd)
	if err != nil {
		h.writeDomainError(w, "Invalid request", generic.Invalid("periodEnd", err.Error()))
		return
	}

	rec, created, err := h.Service.UpsertPeriodHours(r.Context(), req.WorkerID, start, end, *req.MaxHours)
	if err != nil {
		h.writeDomainError(w, "Failed to save period hours", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, PeriodHoursResultDTO{PeriodHoursDTO: toPeriodHoursDTO(rec), Created: created})
}

// DeletePeriodHours removes a quota record.
func (h *Handler) DeletePeriodHours(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePeriodHours(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, "Failed to delete period hours", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetWorkerStats returns the statistics row of the worker for a period,
// given either as ?periodStart=&periodEnd= or as the quota period of ?date=.
func (h *Handler) GetWorkerStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var from, to time.Time
	if q.Get("periodStart") != "" || q.Get("periodEnd") != "" {
		var err error
		if from, to, err = parseRange(r, "periodStart", "periodEnd"); err != nil {
			h.writeDomainError(w, "Invalid request", err)
			return
		}
	} else {
		day := h.now()
		if s := q.Get("date"); s != "" {
			var err error
			if day, err = generic.ParseTimestamp(s); err != nil {
				h.writeDomainError(w, "Invalid request", generic.Invalid("date", err.Error()))
				return
			}
		}
		p, ok := h.Service.Scheme().PeriodFor(day)
		if !ok {
			h.writeDomainError(w, "No period", generic.NotFound("period", generic.DayKey(day)))
			return
		}
		from, to = p.Start, p.End
	}

	stats, err := h.Service.ComputePeriodStats(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		h.writeDomainError(w, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodStatsDTO(stats))
}

// =============================================================================
// PERIODS
// =============================================================================

// ListPeriods returns the 13 four-week periods of ?year= (default this year).
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	year := h.now().UTC().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 || y > 9999 {
			h.writeDomainError(w, "Invalid request", generic.Invalid("year", "expected a four-digit year"))
			return
		}
		year = y
	}

	periods := h.Periods.PeriodsForYear(year)
	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CurrentPeriod returns the quota period containing ?date= (default today).
func (h *Handler) CurrentPeriod(w http.ResponseWriter, r *http.Request) {
	day := h.now()
	if s := r.URL.Query().Get("date"); s != "" {
		var err error
		if day, err = generic.ParseTimestamp(s); err != nil {
			h.writeDomainError(w, "Invalid request", generic.Invalid("date", err.Error()))
			return
		}
	}
	p, ok := h.Service.Scheme().PeriodFor(day)
	if !ok {
		h.writeDomainError(w, "No period", generic.NotFound("period", generic.DayKey(day)))
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(p))
}

// =============================================================================
// HELPERS
// =============================================================================

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Reset(r.Context()); err != nil {
		h.writeDomainError(w, "Failed to reset database", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseRange reads two required timestamp query parameters.
func parseRange(r *http.Request, fromKey, toKey string) (time.Time, time.Time, error) {
	q := r.URL.Query()
	if q.Get(fromKey) == "" {
		return time.Time{}, time.Time{}, generic.Invalid(fromKey, "required")
	}
	if q.Get(toKey) == "" {
		return time.Time{}, time.Time{}, generic.Invalid(toKey, "required")
	}
	from, err := generic.ParseTimestamp(q.Get(fromKey))
	if err != nil {
		return time.Time{}, time.Time{}, generic.Invalid(fromKey, err.Error())
	}
	to, err := generic.ParseTimestamp(q.Get(toKey))
	if err != nil {
		return time.Time{}, time.Time{}, generic.Invalid(toKey, err.Error())
	}
	// A bare date as upper bound means the whole day.
	if len(q.Get(toKey)) == len(generic.DayLayout) {
		to = generic.EndOfDay(to)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, generic.Invalid(toKey, "before "+fromKey)
	}
	return from, to, nil
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var (
		invalid  *generic.InvalidInputError
		exceeded *generic.QuotaExceededError
		noQuota  *generic.NoQuotaError
	)
	switch {
	case errors.As(err, &exceeded):
		writeJSON(w, http.StatusUnprocessableEntity, QuotaRejectionDTO{
			Error:          err.Error(),
			Reason:         string(scheduling.RejectQuotaExceeded),
			CurrentHours:   floatPtr(generic.Float(exceeded.CurrentHours)),
			NewShiftHours:  floatPtr(generic.Float(exceeded.NewShiftHours)),
			MaxHours:       floatPtr(generic.Float(exceeded.MaxHours)),
			RemainingHours: floatPtr(generic.Float(exceeded.RemainingHours)),
		})
	case errors.As(err, &noQuota):
		writeJSON(w, http.StatusUnprocessableEntity, QuotaRejectionDTO{
			Error:    err.Error(),
			Reason:   string(scheduling.RejectNoQuotaForPeriod),
			WorkerID: noQuota.WorkerID,
		})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Field: invalid.Field, Details: err.Error()})
	case errors.Is(err, generic.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, generic.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, generic.ErrConflict):
		writeError(w, http.StatusConflict, message, err)
	default:
		h.log.WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

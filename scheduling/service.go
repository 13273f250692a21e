/*
service.go - Quota-checked shift booking and period statistics

PURPOSE:
  The entry point the API layer calls. Orchestrates repositories, the
  Enforcer and the ledger:

    checkAndCreateShift -> lock (worker, period) -> tx {
        find existing shifts -> find quota -> decide -> save
    }

CONCURRENCY:
  Two concurrent bookings for the same worker and period would otherwise
  both read the same worked hours and jointly exceed the quota. Every
  quota-checked write holds a KeyedMutex entry for (worker, period start)
  and runs its read and write in one store transaction.

OPERATIONS:
  CheckAndCreateShift   validate + admit/reject + save
  CheckAndUpdateShift   same, with the old version excluded from the tally
  ComputePeriodStats    worked hours, leave days, remaining, completion
  GetOrDefaultMaxHours  quota or 0 when none is recorded
  UpsertPeriodHours     idempotent quota upsert keyed on (worker, start day)

SEE ALSO:
  - quota.go: the admission rules
  - ledger.go: the arithmetic
  - staff.go: worker and contract operations
*/
package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/shift-engine/generic"
)

// Options configure a Service. Zero values pick the defaults.
type Options struct {
	Scheme      generic.PeriodScheme
	LeavePolicy LeaveCountingPolicy
	Logger      *logrus.Logger
	Locks       *generic.KeyedMutex
	NewID       func() string
}

// Service implements the scheduling operations on top of a Store.
type Service struct {
	store       Store
	enforcer    *Enforcer
	leavePolicy LeaveCountingPolicy
	locks       *generic.KeyedMutex
	newID       func() string
	log         *logrus.Entry
}

func NewService(store Store, opts Options) *Service {
	if opts.Scheme == nil {
		opts.Scheme = generic.NewPeriodCalculator(generic.NewMemoryPeriodCache())
	}
	if opts.LeavePolicy == "" {
		opts.LeavePolicy = LeavePerShift
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Locks == nil {
		opts.Locks = generic.NewKeyedMutex()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		store:       store,
		enforcer:    NewEnforcer(opts.Scheme),
		leavePolicy: opts.LeavePolicy,
		locks:       opts.Locks,
		newID:       opts.NewID,
		log:         opts.Logger.WithField("component", "scheduling"),
	}
}

// Scheme returns the period scheme quota enforcement uses.
func (s *Service) Scheme() generic.PeriodScheme { return s.enforcer.Scheme }

// LeavePolicy returns the configured leave counting policy.
func (s *Service) LeavePolicy() LeaveCountingPolicy { return s.leavePolicy }

// Outcome is the result of a quota-checked write.
// Shift is nil when the decision is a rejection.
type Outcome struct {
	Shift    *Shift
	Decision Decision
	Stats    *PeriodStats // period stats after the write, work shifts only
}

// =============================================================================
// SHIFT BOOKING
// =============================================================================

// CheckAndCreateShift books a new shift for workerID if the quota allows it.
func (s *Service) CheckAndCreateShift(ctx context.Context, workerID string, in ShiftInput) (Outcome, error) {
	shift, err := in.Build(workerID)
	if err != nil {
		return Outcome{}, err
	}
	return s.checkAndSave(ctx, shift)
}

// CheckAndUpdateShift replaces shift id with in. The worker stays the same.
func (s *Service) CheckAndUpdateShift(ctx context.Context, id string, in ShiftInput) (Outcome, error) {
	current, err := s.store.GetShift(ctx, id)
	if err != nil {
		return Outcome{}, generic.Storage("get shift", err)
	}
	if current == nil {
		return Outcome{}, generic.NotFound("shift", id)
	}

	shift, err := in.Build(current.WorkerID)
	if err != nil {
		return Outcome{}, err
	}
	shift.ID = current.ID
	shift.CreatedAt = current.CreatedAt
	return s.checkAndSave(ctx, shift)
}

func (s *Service) checkAndSave(ctx context.Context, shift Shift) (Outcome, error) {
	log := s.log.WithFields(logrus.Fields{
		"worker_id":  shift.WorkerID,
		"shift_type": shift.ShiftType,
		"start":      shift.StartTime.Format(time.RFC3339),
		"hours":      shift.HoursWorked.String(),
	})

	if shift.ShiftType.IsWork() {
		if period, ok := s.enforcer.Scheme.PeriodFor(shift.StartTime); ok {
			unlock, err := s.locks.Lock(ctx, quotaKey(shift.WorkerID, period.Start))
			if err != nil {
				return Outcome{}, err
			}
			defer unlock()
		}
	}

	var out Outcome
	err := s.store.WithTx(ctx, func(repo Repository) error {
		worker, err := repo.GetWorker(ctx, shift.WorkerID)
		if err != nil {
			return generic.Storage("get worker", err)
		}
		if worker == nil {
			return generic.NotFound("worker", shift.WorkerID)
		}

		var existing []Shift
		if shift.ShiftType.IsWork() {
			if period, ok := s.enforcer.Scheme.PeriodFor(shift.StartTime); ok {
				existing, err = repo.FindShiftsForWorkerInRange(ctx, worker.ID, period.Start, period.End)
				if err != nil {
					return generic.Storage("find shifts", err)
				}
			}
		}

		decision, err := s.enforcer.ValidateNewShift(ctx, *worker, shift, existing, LookupFrom(repo))
		if err != nil {
			return generic.Storage("find period hours", err)
		}
		out.Decision = decision
		if !decision.Accepted {
			return nil
		}

		if shift.ID == "" {
			shift.ID = s.newID()
		}
		saved, err := repo.SaveShift(ctx, shift)
		if err != nil {
			return generic.Storage("save shift", err)
		}
		out.Shift = &saved

		if decision.Detail != nil {
			all := append(withoutShift(existing, saved.ID), saved)
			stats := ComputeStats(worker.ID, decision.Period.Start, decision.Period.End, all, decision.Detail.MaxHours, s.leavePolicy)
			out.Stats = &stats
		}
		return nil
	})
	if err != nil {
		if generic.IsClientError(err) || generic.IsNotFound(err) {
			log.WithError(err).Warn("Shift not saved")
		} else {
			log.WithError(err).Error("Failed to save shift")
		}
		return Outcome{}, err
	}

	if !out.Decision.Accepted {
		fields := logrus.Fields{"reason": out.Decision.Reason, "period": out.Decision.Period.Key()}
		if d := out.Decision.Detail; d != nil {
			fields["current_hours"] = d.CurrentHours.String()
			fields["max_hours"] = d.MaxHours.String()
		}
		log.WithFields(fields).Warn("Shift rejected by quota")
		return out, nil
	}

	log.WithField("shift_id", out.Shift.ID).Info("Shift saved")
	return out, nil
}

func withoutShift(shifts []Shift, id string) []Shift {
	out := make([]Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func quotaKey(workerID string, periodStart time.Time) string {
	return workerID + "|" + generic.DayKey(periodStart)
}

// =============================================================================
// STATISTICS AND QUOTAS
// =============================================================================

// ComputePeriodStats summarizes workerID's shifts in [periodStart, periodEnd].
// The bounds are widened to whole UTC days.
func (s *Service) ComputePeriodStats(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (PeriodStats, error) {
	period, err := generic.NewPeriod(periodStart, periodEnd)
	if err != nil {
		return PeriodStats{}, err
	}
	if err := s.requireWorker(ctx, s.store, workerID); err != nil {
		return PeriodStats{}, err
	}

	shifts, err := s.store.FindShiftsForWorkerInRange(ctx, workerID, period.Start, period.End)
	if err != nil {
		return PeriodStats{}, generic.Storage("find shifts", err)
	}
	maxHours, err := s.GetOrDefaultMaxHours(ctx, workerID, period.Start, period.End)
	if err != nil {
		return PeriodStats{}, err
	}
	return ComputeStats(workerID, period.Start, period.End, shifts, maxHours, s.leavePolicy), nil
}

// GetOrDefaultMaxHours returns the recorded quota, or 0 when there is none.
func (s *Service) GetOrDefaultMaxHours(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (decimal.Decimal, error) {
	rec, err := s.store.FindPeriodHours(ctx, workerID, generic.StartOfDay(periodStart), generic.EndOfDay(periodEnd))
	if err != nil {
		return decimal.Zero, generic.Storage("find period hours", err)
	}
	if rec == nil {
		return decimal.Zero, nil
	}
	return rec.MaxHours, nil
}

// UpsertPeriodHours sets the quota of workerID for the period starting on
// periodStart's day. Calling it twice with the same arguments leaves one
// record. created is true when a new record was inserted.
func (s *Service) UpsertPeriodHours(ctx context.Context, workerID string, periodStart, periodEnd time.Time, maxHours float64) (rec PeriodHours, created bool, err error) {
	limit, err := generic.HoursFromFloat("maxHours", maxHours)
	if err != nil {
		return PeriodHours{}, false, err
	}
	if limit.IsNegative() {
		return PeriodHours{}, false, generic.Invalid("maxHours", "must not be negative")
	}
	period, err := generic.NewPeriod(periodStart, periodEnd)
	if err != nil {
		return PeriodHours{}, false, err
	}

	unlock, err := s.locks.Lock(ctx, quotaKey(workerID, period.Start))
	if err != nil {
		return PeriodHours{}, false, err
	}
	defer unlock()

	err = s.store.WithTx(ctx, func(repo Repository) error {
		if err := s.requireWorker(ctx, repo, workerID); err != nil {
			return err
		}

		existing, err := repo.FindPeriodHours(ctx, workerID, period.Start, period.End)
		if err != nil {
			return generic.Storage("find period hours", err)
		}

		next := PeriodHours{
			ID:          s.newID(),
			WorkerID:    workerID,
			PeriodStart: period.Start,
			PeriodEnd:   period.End,
			MaxHours:    limit,
		}
		if existing != nil {
			next.ID = existing.ID
			next.CreatedAt = existing.CreatedAt
		} else {
			created = true
		}

		rec, err = repo.SavePeriodHours(ctx, next)
		return generic.Storage("save period hours", err)
	})
	if err != nil {
		return PeriodHours{}, false, err
	}

	s.log.WithFields(logrus.Fields{
		"worker_id":    workerID,
		"period_start": generic.DayKey(period.Start),
		"max_hours":    limit.String(),
		"created":      created,
	}).Info("Period hours saved")
	return rec, created, nil
}

// ListPeriodHours returns every quota record of a worker.
func (s *Service) ListPeriodHours(ctx context.Context, workerID string) ([]PeriodHours, error) {
	recs, err := s.store.ListPeriodHours(ctx, workerID)
	return recs, generic.Storage("list period hours", err)
}

// DeletePeriodHours removes a quota record. An unknown id is a NotFoundError.
func (s *Service) DeletePeriodHours(ctx context.Context, id string) error {
	rec, err := s.store.GetPeriodHours(ctx, id)
	if err != nil {
		return generic.Storage("get period hours", err)
	}
	if rec == nil {
		return generic.NotFound("period hours", id)
	}
	if err := s.store.DeletePeriodHours(ctx, id); err != nil {
		return generic.Storage("delete period hours", err)
	}
	s.log.WithFields(logrus.Fields{"period_hours_id": id, "worker_id": rec.WorkerID}).Info("Period hours deleted")
	return nil
}

func (s *Service) requireWorker(ctx context.Context, repo WorkerRepository, workerID string) error {
	if workerID == "" {
		return generic.Invalid("workerId", "required")
	}
	w, err := repo.GetWorker(ctx, workerID)
	if err != nil {
		return generic.Storage("get worker", err)
	}
	if w == nil {
		return generic.NotFound("worker", workerID)
	}
	return nil
}

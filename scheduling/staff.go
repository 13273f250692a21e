package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/shift-engine/generic"
)

// =============================================================================
// WORKERS
// =============================================================================

// WorkerInput is the editable part of a Worker.
type WorkerInput struct {
	FirstName  string
	LastName   string
	WorkerCode string
}

func (in WorkerInput) validate() (WorkerInput, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.WorkerCode = strings.TrimSpace(in.WorkerCode)
	switch {
	case in.FirstName == "":
		return in, generic.Invalid("firstName", "required")
	case in.LastName == "":
		return in, generic.Invalid("lastName", "required")
	case in.WorkerCode == "":
		return in, generic.Invalid("workerId", "required")
	}
	return in, nil
}

// CreateWorker adds a worker. A duplicate WorkerCode is a conflict.
func (s *Service) CreateWorker(ctx context.Context, in WorkerInput) (Worker, error) {
	in, err := in.validate()
	if err != nil {
		return Worker{}, err
	}
	w, err := s.store.SaveWorker(ctx, Worker{
		ID:         s.newID(),
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		WorkerCode: in.WorkerCode,
	})
	if err != nil {
		return Worker{}, generic.Storage("save worker", err)
	}
	s.log.WithFields(logrus.Fields{"worker_id": w.ID, "worker_code": w.WorkerCode}).Info("Worker created")
	return w, nil
}

// CreateWorkerWithContract adds a worker and its first contract in one
// transaction. Either both are saved or neither is.
func (s *Service) CreateWorkerWithContract(ctx context.Context, in WorkerInput, startDate time.Time, duration int) (Worker, Contract, error) {
	in, err := in.validate()
	if err != nil {
		return Worker{}, Contract{}, err
	}
	workerID := s.newID()
	c, err := NewContract(workerID, startDate, duration)
	if err != nil {
		return Worker{}, Contract{}, err
	}
	c.ID = s.newID()

	var w Worker
	err = s.store.WithTx(ctx, func(repo Repository) error {
		w, err = repo.SaveWorker(ctx, Worker{
			ID:         workerID,
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			WorkerCode: in.WorkerCode,
		})
		if err != nil {
			return generic.Storage("save worker", err)
		}
		c, err = repo.SaveContract(ctx, c)
		return generic.Storage("save contract", err)
	})
	if err != nil {
		return Worker{}, Contract{}, err
	}
	s.log.WithFields(logrus.Fields{
		"worker_id":   w.ID,
		"worker_code": w.WorkerCode,
		"contract_id": c.ID,
		"end":         generic.DayKey(c.EndDate),
	}).Info("Worker created with contract")
	return w, c, nil
}

// UpdateWorker replaces the editable fields of worker id.
func (s *Service) UpdateWorker(ctx context.Context, id string, in WorkerInput) (Worker, error) {
	in, err := in.validate()
	if err != nil {
		return Worker{}, err
	}
	var out Worker
	err = s.store.WithTx(ctx, func(repo Repository) error {
		w, err := repo.GetWorker(ctx, id)
		if err != nil {
			return generic.Storage("get worker", err)
		}
		if w == nil {
			return generic.NotFound("worker", id)
		}
		w.FirstName, w.LastName, w.WorkerCode = in.FirstName, in.LastName, in.WorkerCode
		out, err = repo.SaveWorker(ctx, *w)
		return generic.Storage("save worker", err)
	})
	return out, err
}

// GetWorker returns the worker or a NotFoundError.
func (s *Service) GetWorker(ctx context.Context, id string) (Worker, error) {
	w, err := s.store.GetWorker(ctx, id)
	if err != nil {
		return Worker{}, generic.Storage("get worker", err)
	}
	if w == nil {
		return Worker{}, generic.NotFound("worker", id)
	}
	return *w, nil
}

func (s *Service) ListWorkers(ctx context.Context) ([]Worker, error) {
	ws, err := s.store.ListWorkers(ctx)
	return ws, generic.Storage("list workers", err)
}

// DeleteWorker removes the worker with its contracts, shifts and quotas.
func (s *Service) DeleteWorker(ctx context.Context, id string) error {
	if _, err := s.GetWorker(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteWorker(ctx, id); err != nil {
		return generic.Storage("delete worker", err)
	}
	s.log.WithField("worker_id", id).Info("Worker deleted")
	return nil
}

// =============================================================================
// CONTRACTS
// =============================================================================

// CreateContract adds a contract for workerID. It may not overlap another
// contract of the same worker.
func (s *Service) CreateContract(ctx context.Context, workerID string, startDate time.Time, duration int) (Contract, error) {
	c, err := NewContract(workerID, startDate, duration)
	if err != nil {
		return Contract{}, err
	}
	c.ID = s.newID()
	return s.saveContract(ctx, c)
}

// UpdateContract changes the term of contract id and re-derives EndDate.
func (s *Service) UpdateContract(ctx context.Context, id string, startDate time.Time, duration int) (Contract, error) {
	current, err := s.store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, generic.Storage("get contract", err)
	}
	if current == nil {
		return Contract{}, generic.NotFound("contract", id)
	}
	c := *current
	c.StartDate = startDate
	c.Duration = duration
	if err := c.normalize(); err != nil {
		return Contract{}, err
	}
	return s.saveContract(ctx, c)
}

func (s *Service) saveContract(ctx context.Context, c Contract) (Contract, error) {
	var out Contract
	err := s.store.WithTx(ctx, func(repo Repository) error {
		if err := s.requireWorker(ctx, repo, c.WorkerID); err != nil {
			return err
		}
		existing, err := repo.ListContracts(ctx, c.WorkerID)
		if err != nil {
			return generic.Storage("list contracts", err)
		}
		if err := CheckNoOverlap(c, existing); err != nil {
			return err
		}
		out, err = repo.SaveContract(ctx, c)
		return generic.Storage("save contract", err)
	})
	if err != nil {
		return Contract{}, err
	}
	s.log.WithFields(logrus.Fields{
		"contract_id": out.ID,
		"worker_id":   out.WorkerID,
		"start":       generic.DayKey(out.StartDate),
		"end":         generic.DayKey(out.EndDate),
	}).Info("Contract saved")
	return out, nil
}

// GetContract returns the contract or a NotFoundError.
func (s *Service) GetContract(ctx context.Context, id string) (Contract, error) {
	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, generic.Storage("get contract", err)
	}
	if c == nil {
		return Contract{}, generic.NotFound("contract", id)
	}
	return *c, nil
}

// ListContracts returns workerID's contracts, or all when workerID is empty.
func (s *Service) ListContracts(ctx context.Context, workerID string) ([]Contract, error) {
	cs, err := s.store.ListContracts(ctx, workerID)
	return cs, generic.Storage("list contracts", err)
}

func (s *Service) DeleteContract(ctx context.Context, id string) error {
	if _, err := s.GetContract(ctx, id); err != nil {
		return err
	}
	return generic.Storage("delete contract", s.store.DeleteContract(ctx, id))
}

// ActiveContractOn returns the worker's contract covering day.
// ok is false when the worker has none.
func (s *Service) ActiveContractOn(ctx context.Context, workerID string, day time.Time) (c Contract, ok bool, err error) {
	if err := s.requireWorker(ctx, s.store, workerID); err != nil {
		return Contract{}, false, err
	}
	cs, err := s.ListContracts(ctx, workerID)
	if err != nil {
		return Contract{}, false, err
	}
	c, ok = ActiveContract(cs, day)
	return c, ok, nil
}

// =============================================================================
// SHIFT READS
// =============================================================================

// GetShift returns the shift or a NotFoundError.
func (s *Service) GetShift(ctx context.Context, id string) (Shift, error) {
	sh, err := s.store.GetShift(ctx, id)
	if err != nil {
		return Shift{}, generic.Storage("get shift", err)
	}
	if sh == nil {
		return Shift{}, generic.NotFound("shift", id)
	}
	return *sh, nil
}

// ListShifts returns shifts starting in [from, to] of all workers.
func (s *Service) ListShifts(ctx context.Context, from, to time.Time) ([]Shift, error) {
	if to.Before(from) {
		return nil, generic.ErrInvalidPeriod
	}
	out, err := s.store.ListShiftsInRange(ctx, from, to)
	return out, generic.Storage("list shifts", err)
}

// WorkerShifts returns workerID's shifts overlapping [from, to].
func (s *Service) WorkerShifts(ctx context.Context, workerID string, from, to time.Time) ([]Shift, error) {
	if to.Before(from) {
		return nil, generic.ErrInvalidPeriod
	}
	if err := s.requireWorker(ctx, s.store, workerID); err != nil {
		return nil, err
	}
	out, err := s.store.FindShiftsForWorkerInRange(ctx, workerID, from, to)
	return out, generic.Storage("find shifts", err)
}

// DeleteShift removes a shift. Removing hours never needs a quota check.
func (s *Service) DeleteShift(ctx context.Context, id string) error {
	if _, err := s.GetShift(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteShift(ctx, id); err != nil {
		return generic.Storage("delete shift", err)
	}
	s.log.WithField("shift_id", id).Info("Shift deleted")
	return nil
}

// WorkerDay is one line of the day roster. Shift is nil when the worker
// has no shift starting that day.
type WorkerDay struct {
	Worker Worker
	Shift  *Shift
}

// DayRoster lists every worker with the first shift starting on day.
func (s *Service) DayRoster(ctx context.Context, day time.Time) ([]WorkerDay, error) {
	workers, err := s.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}
	shifts, err := s.ListShifts(ctx, generic.StartOfDay(day), generic.EndOfDay(day))
	if err != nil {
		return nil, err
	}

	first := make(map[string]Shift, len(shifts))
	for _, sh := range shifts {
		if _, seen := first[sh.WorkerID]; !seen {
			first[sh.WorkerID] = sh
		}
	}

	out := make([]WorkerDay, len(workers))
	for i, w := range workers {
		out[i] = WorkerDay{Worker: w}
		if sh, ok := first[w.ID]; ok {
			out[i].Shift = &sh
		}
	}
	return out, nil
}

// Reset deletes every record. Dev and demo use only.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return generic.Storage("reset", err)
	}
	s.log.Warn("All data reset")
	return nil
}

// Package memory provides an in-memory scheduling.Store for tests and dev.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu  sync.RWMutex
	now func() time.Time
	d   *data
}

type data struct {
	workers     map[string]scheduling.Worker
	contracts   map[string]scheduling.Contract
	shifts      map[string]scheduling.Shift
	periodHours map[string]scheduling.PeriodHours
}

func newData() *data {
	return &data{
		workers:     make(map[string]scheduling.Worker),
		contracts:   make(map[string]scheduling.Contract),
		shifts:      make(map[string]scheduling.Shift),
		periodHours: make(map[string]scheduling.PeriodHours),
	}
}

func New() *Memory {
	return &Memory{now: time.Now, d: newData()}
}

var _ scheduling.Store = (*Memory)(nil)

func (m *Memory) stamp() time.Time {
	return m.now().UTC().Truncate(time.Millisecond)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a transaction.
// Simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(ctx context.Context, fn func(scheduling.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.d.clone()
	if err := fn(&txView{m: m}); err != nil {
		m.d = snapshot
		return err
	}
	return nil
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.workers {
		c.workers[k] = v
	}
	for k, v := range d.contracts {
		c.contracts[k] = v
	}
	for k, v := range d.shifts {
		c.shifts[k] = v
	}
	for k, v := range d.periodHours {
		c.periodHours[k] = v
	}
	return c
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d = newData()
	return nil
}

// =============================================================================
// LOCKED ENTRY POINTS
// =============================================================================

func (m *Memory) GetWorker(_ context.Context, id string) (*scheduling.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.getWorker(id), nil
}

func (m *Memory) ListWorkers(_ context.Context) ([]scheduling.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.listWorkers(), nil
}

func (m *Memory) SaveWorker(_ context.Context, w scheduling.Worker) (scheduling.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.saveWorker(w, m.stamp())
}

func (m *Memory) DeleteWorker(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d.deleteWorker(id)
	return nil
}

func (m *Memory) GetContract(_ context.Context, id string) (*scheduling.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.getContract(id), nil
}

func (m *Memory) ListContracts(_ context.Context, workerID string) ([]scheduling.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.listContracts(workerID), nil
}

func (m *Memory) SaveContract(_ context.Context, c scheduling.Contract) (scheduling.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.saveContract(c, m.stamp())
}

func (m *Memory) DeleteContract(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.d.contracts, id)
	return nil
}

func (m *Memory) FindShiftsForWorkerInRange(_ context.Context, workerID string, from, to time.Time) ([]scheduling.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.findShifts(workerID, from, to), nil
}

func (m *Memory) ListShiftsInRange(_ context.Context, from, to time.Time) ([]scheduling.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.listShifts(from, to), nil
}

func (m *Memory) GetShift(_ context.Context, id string) (*scheduling.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.getShift(id), nil
}

func (m *Memory) SaveShift(_ context.Context, s scheduling.Shift) (scheduling.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.saveShift(s, m.stamp())
}

func (m *Memory) DeleteShift(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.d.shifts, id)
	return nil
}

func (m *Memory) FindPeriodHours(_ context.Context, workerID string, periodStart, _ time.Time) (*scheduling.PeriodHours, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.findPeriodHours(workerID, periodStart), nil
}

func (m *Memory) SavePeriodHours(_ context.Context, rec scheduling.PeriodHours) (scheduling.PeriodHours, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d.savePeriodHours(rec, m.stamp())
}

func (m *Memory) ListPeriodHours(_ context.Context, workerID string) ([]scheduling.PeriodHours, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.listPeriodHours(workerID), nil
}

func (m *Memory) GetPeriodHours(_ context.Context, id string) (*scheduling.PeriodHours, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.d.getPeriodHours(id), nil
}

func (m *Memory) DeletePeriodHours(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.d.periodHours, id)
	return nil
}

// =============================================================================
// TRANSACTIONAL VIEW - runs with m.mu already held
// =============================================================================

type txView struct {
	m *Memory
}

func (tv *txView) GetWorker(_ context.Context, id string) (*scheduling.Worker, error) {
	return tv.m.d.getWorker(id), nil
}

func (tv *txView) ListWorkers(_ context.Context) ([]scheduling.Worker, error) {
	return tv.m.d.listWorkers(), nil
}

func (tv *txView) SaveWorker(_ context.Context, w scheduling.Worker) (scheduling.Worker, error) {
	return tv.m.d.saveWorker(w, tv.m.stamp())
}

func (tv *txView) DeleteWorker(_ context.Context, id string) error {
	tv.m.d.deleteWorker(id)
	return nil
}

func (tv *txView) GetContract(_ context.Context, id string) (*scheduling.Contract, error) {
	return tv.m.d.getContract(id), nil
}

func (tv *txView) ListContracts(_ context.Context, workerID string) ([]scheduling.Contract, error) {
	return tv.m.d.listContracts(workerID), nil
}

func (tv *txView) SaveContract(_ context.Context, c scheduling.Contract) (scheduling.Contract, error) {
	return tv.m.d.saveContract(c, tv.m.stamp())
}

func (tv *txView) DeleteContract(_ context.Context, id string) error {
	delete(tv.m.d.contracts, id)
	return nil
}

func (tv *txView) FindShiftsForWorkerInRange(_ context.Context, workerID string, from, to time.Time) ([]scheduling.Shift, error) {
	return tv.m.d.findShifts(workerID, from, to), nil
}

func (tv *txView) ListShiftsInRange(_ context.Context, from, to time.Time) ([]scheduling.Shift, error) {
	return tv.m.d.listShifts(from, to), nil
}

func (tv *txView) GetShift(_ context.Context, id string) (*scheduling.Shift, error) {
	return tv.m.d.getShift(id), nil
}

func (tv *txView) SaveShift(_ context.Context, s scheduling.Shift) (scheduling.Shift, error) {
	return tv.m.d.saveShift(s, tv.m.stamp())
}

func (tv *txView) DeleteShift(_ context.Context, id string) error {
	delete(tv.m.d.shifts, id)
	return nil
}

func (tv *txView) FindPeriodHours(_ context.Context, workerID string, periodStart, _ time.Time) (*scheduling.PeriodHours, error) {
	return tv.m.d.findPeriodHours(workerID, periodStart), nil
}

func (tv *txView) SavePeriodHours(_ context.Context, rec scheduling.PeriodHours) (scheduling.PeriodHours, error) {
	return tv.m.d.savePeriodHours(rec, tv.m.stamp())
}

func (tv *txView) ListPeriodHours(_ context.Context, workerID string) ([]scheduling.PeriodHours, error) {
	return tv.m.d.listPeriodHours(workerID), nil
}

func (tv *txView) GetPeriodHours(_ context.Context, id string) (*scheduling.PeriodHours, error) {
	return tv.m.d.getPeriodHours(id), nil
}

func (tv *txView) DeletePeriodHours(_ context.Context, id string) error {
	delete(tv.m.d.periodHours, id)
	return nil
}

// =============================================================================
// DATA OPERATIONS - caller holds the lock
// =============================================================================

func (d *data) getWorker(id string) *scheduling.Worker {
	w, ok := d.workers[id]
	if !ok {
		return nil
	}
	return &w
}

func (d *data) listWorkers() []scheduling.Worker {
	out := make([]scheduling.Worker, 0, len(d.workers))
	for _, w := range d.workers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

func (d *data) saveWorker(w scheduling.Worker, now time.Time) (scheduling.Worker, error) {
	for _, other := range d.workers {
		if other.ID != w.ID && other.WorkerCode == w.WorkerCode {
			return scheduling.Worker{}, &generic.ConflictError{
				Reason: fmt.Sprintf("worker code %q already exists", w.WorkerCode),
			}
		}
	}
	if prev, ok := d.workers[w.ID]; ok {
		w.CreatedAt = prev.CreatedAt
	} else if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	d.workers[w.ID] = w
	return w, nil
}

func (d *data) deleteWorker(id string) {
	delete(d.workers, id)
	for k, c := range d.contracts {
		if c.WorkerID == id {
			delete(d.contracts, k)
		}
	}
	for k, s := range d.shifts {
		if s.WorkerID == id {
			delete(d.shifts, k)
		}
	}
	for k, p := range d.periodHours {
		if p.WorkerID == id {
			delete(d.periodHours, k)
		}
	}
}

func (d *data) getContract(id string) *scheduling.Contract {
	c, ok := d.contracts[id]
	if !ok {
		return nil
	}
	return &c
}

func (d *data) listContracts(workerID string) []scheduling.Contract {
	var out []scheduling.Contract
	for _, c := range d.contracts {
		if workerID == "" || c.WorkerID == workerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (d *data) saveContract(c scheduling.Contract, now time.Time) (scheduling.Contract, error) {
	if _, ok := d.workers[c.WorkerID]; !ok {
		return scheduling.Contract{}, generic.NotFound("worker", c.WorkerID)
	}
	if prev, ok := d.contracts[c.ID]; ok {
		c.CreatedAt = prev.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	d.contracts[c.ID] = c
	return c, nil
}

func (d *data) findShifts(workerID string, from, to time.Time) []scheduling.Shift {
	var out []scheduling.Shift
	for _, s := range d.shifts {
		if s.WorkerID != workerID {
			continue
		}
		if s.EndTime.Before(from) || s.StartTime.After(to) {
			continue
		}
		out = append(out, s)
	}
	sortShifts(out)
	return out
}

func (d *data) listShifts(from, to time.Time) []scheduling.Shift {
	var out []scheduling.Shift
	for _, s := range d.shifts {
		if s.StartTime.Before(from) || s.StartTime.After(to) {
			continue
		}
		out = append(out, s)
	}
	sortShifts(out)
	return out
}

func sortShifts(s []scheduling.Shift) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].StartTime.Equal(s[j].StartTime) {
			return s[i].StartTime.Before(s[j].StartTime)
		}
		return s[i].ID < s[j].ID
	})
}

func (d *data) getPeriodHours(id string) *scheduling.PeriodHours {
	p, ok := d.periodHours[id]
	if !ok {
		return nil
	}
	return &p
}

func (d *data) getShift(id string) *scheduling.Shift {
	s, ok := d.shifts[id]
	if !ok {
		return nil
	}
	return &s
}

func (d *data) saveShift(s scheduling.Shift, now time.Time) (scheduling.Shift, error) {
	if _, ok := d.workers[s.WorkerID]; !ok {
		return scheduling.Shift{}, generic.NotFound("worker", s.WorkerID)
	}
	s.StartTime = s.StartTime.UTC().Truncate(time.Millisecond)
	s.EndTime = s.EndTime.UTC().Truncate(time.Millisecond)
	if prev, ok := d.shifts[s.ID]; ok {
		s.CreatedAt = prev.CreatedAt
	} else if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	d.shifts[s.ID] = s
	return s, nil
}

func (d *data) findPeriodHours(workerID string, periodStart time.Time) *scheduling.PeriodHours {
	day := generic.DayKey(periodStart)
	for _, p := range d.periodHours {
		if p.WorkerID == workerID && generic.DayKey(p.PeriodStart) == day {
			return &p
		}
	}
	return nil
}

func (d *data) savePeriodHours(rec scheduling.PeriodHours, now time.Time) (scheduling.PeriodHours, error) {
	if _, ok := d.workers[rec.WorkerID]; !ok {
		return scheduling.PeriodHours{}, generic.NotFound("worker", rec.WorkerID)
	}
	// Upsert on (worker, day): an existing record keeps its ID.
	if prev := d.findPeriodHours(rec.WorkerID, rec.PeriodStart); prev != nil {
		rec.ID = prev.ID
		rec.CreatedAt = prev.CreatedAt
	} else if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	d.periodHours[rec.ID] = rec
	return rec, nil
}

func (d *data) listPeriodHours(workerID string) []scheduling.PeriodHours {
	var out []scheduling.PeriodHours
	for _, p := range d.periodHours {
		if workerID == "" || p.WorkerID == workerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out
}

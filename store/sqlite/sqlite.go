/*
Package sqlite provides a SQLite-backed implementation of scheduling.Store.

PURPOSE:
  Persists workers, contracts, shifts and period-hour quotas. In production
  the same patterns apply to PostgreSQL with minor dialect changes.

KEY TABLES:
  workers:             worker_code is UNIQUE
  contracts:           start/end dates as YYYY-MM-DD, duration in months
  shifts:              one row per work or leave block
  worker_period_hours: quota per (worker_id, period_day)

  Child tables reference workers with ON DELETE CASCADE, so deleting a
  worker removes its contracts, shifts and quotas.

TIME FORMAT:
  Instants are stored as TEXT in "2006-01-02T15:04:05.000Z" (UTC,
  millisecond precision). The fixed width makes string comparison in SQL
  match chronological order. Hours are stored as decimal TEXT.

INDEXES:
  - idx_shifts_worker_start: range lookup for the quota check (hot path)
  - idx_period_hours_worker_day: upsert identity for quotas

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single open connection, which
  also keeps ":memory:" databases on one connection. Queries inside WithTx
  run on the *sql.Tx without re-acquiring the mutex.

USAGE:
  store, err := sqlite.New("./data/shifts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := scheduling.NewService(store, scheduling.Options{})

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - scheduling/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// TimeLayout is the stored form of every instant.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Store implements scheduling.Store using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var _ scheduling.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		worker_code TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		duration INTEGER NOT NULL CHECK (duration >= 1),
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_worker
		ON contracts(worker_id, start_date);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		shift_type TEXT NOT NULL CHECK (shift_type IN (
			'NORMAL_WORKDAY', 'WEEKEND_DAY', 'HOLIDAY',
			'SICK_LEAVE', 'VACATION', 'UNPAID_LEAVE')),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		hours_worked TEXT NOT NULL DEFAULT '0',
		location TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Quota check reads a worker's shifts in a period (hot path)
	CREATE INDEX IF NOT EXISTS idx_shifts_worker_start
		ON shifts(worker_id, start_time);
	CREATE INDEX IF NOT EXISTS idx_shifts_start
		ON shifts(start_time);

	-- Quota identity is (worker, UTC day of period start)
	CREATE TABLE IF NOT EXISTS worker_period_hours (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		period_day TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		max_hours TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_period_hours_worker_day
		ON worker_period_hours(worker_id, period_day);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(scheduling.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&repo{q: sqlTx, now: s.now}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

func (s *Store) base() *repo { return &repo{q: s.db, now: s.now} }

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repo runs the queries. It never touches Store.mu.
type repo struct {
	q   querier
	now func() time.Time
}

func (r *repo) stamp() string { return formatTime(r.now()) }

// =============================================================================
// WORKERS
// =============================================================================

func (s *Store) GetWorker(ctx context.Context, id string) (*scheduling.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().GetWorker(ctx, id)
}

func (s *Store) ListWorkers(ctx context.Context) ([]scheduling.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().ListWorkers(ctx)
}

func (s *Store) SaveWorker(ctx context.Context, w scheduling.Worker) (scheduling.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base().SaveWorker(ctx, w)
}

func (s *Store) DeleteWorker(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base().DeleteWorker(ctx, id)
}

const workerColumns = "id, first_name, last_name, worker_code, created_at, updated_at"

func (r *repo) GetWorker(ctx context.Context, id string) (*scheduling.Worker, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+workerColumns+" FROM workers WHERE id = ?", id)
	w, err := scanWorker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repo) ListWorkers(ctx context.Context) ([]scheduling.Worker, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+workerColumns+" FROM workers ORDER BY last_name, first_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []scheduling.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (r *repo) SaveWorker(ctx context.Context, w scheduling.Worker) (scheduling.Worker, error) {
	now := r.stamp()
	query := `
		INSERT INTO workers (id, first_name, last_name, worker_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			worker_code = excluded.worker_code,
			updated_at = excluded.updated_at
	`
	_, err := r.q.ExecContext(ctx, query, w.ID, w.FirstName, w.LastName, w.WorkerCode, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return scheduling.Worker{}, &generic.ConflictError{
				Reason: fmt.Sprintf("worker code %q already exists", w.WorkerCode),
			}
		}
		return scheduling.Worker{}, fmt.Errorf("failed to save worker: %w", err)
	}
	saved, err := r.GetWorker(ctx, w.ID)
	if err != nil {
		return scheduling.Worker{}, err
	}
	return *saved, nil
}

func (r *repo) DeleteWorker(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM workers WHERE id = ?", id)
	return err
}

func scanWorker(row scanner) (scheduling.Worker, error) {
	var (
		w                    scheduling.Worker
		createdAt, updatedAt string
	)
	if err := row.Scan(&w.ID, &w.FirstName, &w.LastName, &w.WorkerCode, &createdAt, &updatedAt); err != nil {
		return w, err
	}
	var err error
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return w, err
	}
	w.UpdatedAt, err = parseTime(updatedAt)
	return w, err
}

// =============================================================================
// CONTRACTS
// =============================================================================

func (s *Store) GetContract(ctx context.Context, id string) (*scheduling.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().GetContract(ctx, id)
}

func (s *Store) ListContracts(ctx context.Context, workerID string) ([]scheduling.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().ListContracts(ctx, workerID)
}

func (s *Store) SaveContract(ctx context.Context, c scheduling.Contract) (scheduling.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base().SaveContract(ctx, c)
}

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base().DeleteContract(ctx, id)
}

const contractColumns = "id, worker_id, start_date, duration, end_date, created_at, updated_at"

func (r *repo) GetContract(ctx context.Context, id string) (*scheduling.Contract, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+contractColumns+" FROM contracts WHERE id = ?", id)
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) ListContracts(ctx context.Context, workerID string) ([]scheduling.Contract, error) {
	query := "SELECT " + contractColumns + " FROM contracts"
	var args []any
	if workerID != "" {
		query += " WHERE worker_id = ?"
		args = append(args, workerID)
	}
	query += " ORDER BY start_date, id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []scheduling.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *repo) SaveContract(ctx context.Context, c scheduling.Contract) (scheduling.Contract, error) {
	now := r.stamp()
	query := `
		INSERT INTO contracts (id, worker_id, start_date, duration, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			duration = excluded.duration,
			end_date = excluded.end_date,
			updated_at = excluded.updated_at
	`
	_, err := r.q.ExecContext(ctx, query,
		c.ID, c.WorkerID,
		generic.DayKey(c.StartDate), c.Duration, generic.DayKey(c.EndDate),
		now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return scheduling.Contract{}, generic.NotFound("worker", c.WorkerID)
		}
		return scheduling.Contract{}, fmt.Errorf("failed to save contract: %w", err)
	}
	saved, err := r.GetContract(ctx, c.ID)
	if err != nil {
		return scheduling.Contract{}, err
	}
	return *saved, nil
}

func (r *repo) DeleteContract(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM contracts WHERE id = ?", id)
	return err
}

func scanContract(row scanner) (scheduling.Contract, error) {
	var (
		c                    scheduling.Contract
		start, end           string
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.ID, &c.WorkerID, &start, &c.Duration, &end, &createdAt, &updatedAt); err != nil {
		return c, err
	}
	var err error
	if c.StartDate, err = generic.ParseDay(start); err != nil {
		return c, err
	}
	if c.EndDate, err = generic.ParseDay(end); err != nil {
		return c, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return c, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	return c, err
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) FindShiftsForWorkerInRange(ctx context.Context, workerID string, from, to time.Time) ([]scheduling.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().FindShiftsForWorkerInRange(ctx, workerID, from, to)
}

func (s *Store) ListShiftsInRange(ctx context.Context, from, to time.Time) ([]scheduling.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().ListShiftsInRange(ctx, from, to)
}

func (s *Store) GetShift(ctx context.Context, id string) (*scheduling.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().GetShift(ctx, id)
}

func (s *Store) SaveShift(ctx context.Context, shift scheduling.Shift) (scheduling.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base().SaveShift(ctx, shift)
}

func (s *Store) DeleteShift(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base().DeleteShift(ctx, id)
}

const shiftColumns = "id, worker_id, shift_type, start_time, end_time, hours_worked, location, created_at, updated_at"

func (r *repo) FindShiftsForWorkerInRange(ctx context.Context, workerID string, from, to time.Time) ([]scheduling.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts
		WHERE worker_id = ? AND start_time <= ? AND end_time >= ?
		ORDER BY start_time, id`
	return r.queryShifts(ctx, query, workerID, formatTime(to), formatTime(from))
}

func (r *repo) ListShiftsInRange(ctx context.Context, from, to time.Time) ([]scheduling.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts
		WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time, id`
	return r.queryShifts(ctx, query, formatTime(from), formatTime(to))
}

func (r *repo) GetShift(ctx context.Context, id string) (*scheduling.Shift, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+shiftColumns+" FROM shifts WHERE id = ?", id)
	sh, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (r *repo) SaveShift(ctx context.Context, sh scheduling.Shift) (scheduling.Shift, error) {
	now := r.stamp()
	query := `
		INSERT INTO shifts (id, worker_id, shift_type, start_time, end_time, hours_worked, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			shift_type = excluded.shift_type,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			hours_worked = excluded.hours_worked,
			location = excluded.location,
			updated_at = excluded.updated_at
	`
	_, err := r.q.ExecContext(ctx, query,
		sh.ID, sh.WorkerID, string(sh.ShiftType),
		formatTime(sh.StartTime), formatTime(sh.EndTime),
		sh.HoursWorked, nullString(sh.Location),
		now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return scheduling.Shift{}, generic.NotFound("worker", sh.WorkerID)
		}
		return scheduling.Shift{}, fmt.Errorf("failed to save shift: %w", err)
	}
	saved, err := r.GetShift(ctx, sh.ID)
	if err != nil {
		return scheduling.Shift{}, err
	}
	return *saved, nil
}

func (r *repo) DeleteShift(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM shifts WHERE id = ?", id)
	return err
}

func (r *repo) queryShifts(ctx context.Context, query string, args ...any) ([]scheduling.Shift, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []scheduling.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

func scanShift(row scanner) (scheduling.Shift, error) {
	var (
		sh                   scheduling.Shift
		shiftType            string
		start, end           string
		location             sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&sh.ID, &sh.WorkerID, &shiftType, &start, &end,
		&sh.HoursWorked, &location, &createdAt, &updatedAt)
	if err != nil {
		return sh, err
	}
	sh.ShiftType = scheduling.ShiftType(shiftType)
	if location.Valid {
		loc := location.String
		sh.Location = &loc
	}
	if sh.StartTime, err = parseTime(start); err != nil {
		return sh, err
	}
	if sh.EndTime, err = parseTime(end); err != nil {
		return sh, err
	}
	if sh.CreatedAt, err = parseTime(createdAt); err != nil {
		return sh, err
	}
	sh.UpdatedAt, err = parseTime(updatedAt)
	return sh, err
}

// =============================================================================
// PERIOD HOURS
// =============================================================================

func (s *Store) FindPeriodHours(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (*scheduling.PeriodHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().FindPeriodHours(ctx, workerID, periodStart, periodEnd)
}

func (s *Store) SavePeriodHours(ctx context.Context, rec scheduling.PeriodHours) (scheduling.PeriodHours, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base().SavePeriodHours(ctx, rec)
}

func (s *Store) ListPeriodHours(ctx context.Context, workerID string) ([]scheduling.PeriodHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().ListPeriodHours(ctx, workerID)
}

func (s *Store) GetPeriodHours(ctx context.Context, id string) (*scheduling.PeriodHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base().GetPeriodHours(ctx, id)
}

func (s *Store) DeletePeriodHours(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base().DeletePeriodHours(ctx, id)
}

const periodHoursColumns = "id, worker_id, period_start, period_end, max_hours, created_at, updated_at"

func (r *repo) FindPeriodHours(ctx context.Context, workerID string, periodStart, _ time.Time) (*scheduling.PeriodHours, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+periodHoursColumns+" FROM worker_period_hours WHERE worker_id = ? AND period_day = ?",
		workerID, generic.DayKey(periodStart))
	p, err := scanPeriodHours(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePeriodHours upserts on (worker_id, period_day). An existing row keeps
// its id and created_at.
func (r *repo) SavePeriodHours(ctx context.Context, rec scheduling.PeriodHours) (scheduling.PeriodHours, error) {
	now := r.stamp()
	query := `
		INSERT INTO worker_period_hours
		(id, worker_id, period_day, period_start, period_end, max_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id, period_day) DO UPDATE SET
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			max_hours = excluded.max_hours,
			updated_at = excluded.updated_at
	`
	_, err := r.q.ExecContext(ctx, query,
		rec.ID, rec.WorkerID, generic.DayKey(rec.PeriodStart),
		formatTime(rec.PeriodStart), formatTime(rec.PeriodEnd),
		rec.MaxHours, now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return scheduling.PeriodHours{}, generic.NotFound("worker", rec.WorkerID)
		}
		return scheduling.PeriodHours{}, fmt.Errorf("failed to save period hours: %w", err)
	}
	saved, err := r.FindPeriodHours(ctx, rec.WorkerID, rec.PeriodStart, rec.PeriodEnd)
	if err != nil {
		return scheduling.PeriodHours{}, err
	}
	return *saved, nil
}

func (r *repo) GetPeriodHours(ctx context.Context, id string) (*scheduling.PeriodHours, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+periodHoursColumns+" FROM worker_period_hours WHERE id = ?", id)
	p, err := scanPeriodHours(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ListPeriodHours(ctx context.Context, workerID string) ([]scheduling.PeriodHours, error) {
	query := "SELECT " + periodHoursColumns + " FROM worker_period_hours"
	var args []any
	if workerID != "" {
		query += " WHERE worker_id = ?"
		args = append(args, workerID)
	}
	query += " ORDER BY period_start"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query period hours: %w", err)
	}
	defer rows.Close()

	var recs []scheduling.PeriodHours
	for rows.Next() {
		p, err := scanPeriodHours(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, p)
	}
	return recs, rows.Err()
}

func (r *repo) DeletePeriodHours(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, "DELETE FROM worker_period_hours WHERE id = ?", id)
	return err
}

func scanPeriodHours(row scanner) (scheduling.PeriodHours, error) {
	var (
		p                    scheduling.PeriodHours
		start, end           string
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.WorkerID, &start, &end, &p.MaxHours, &createdAt, &updatedAt); err != nil {
		return p, err
	}
	var err error
	if p.PeriodStart, err = parseTime(start); err != nil {
		return p, err
	}
	if p.PeriodEnd, err = parseTime(end); err != nil {
		return p, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return p, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	return p, err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"shifts", "worker_period_hours", "contracts", "workers"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad stored time %q: %w", s, err)
	}
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) &&
		(se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

func isForeignKeyError(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

/*
store.go - Persistence interfaces for workers, contracts, shifts and quotas

PURPOSE:
  Defines the boundary between the scheduling rules and the database.
  Implementations:
  - store/sqlite: production SQLite
  - store/memory: in-memory, for tests and dev

CONVENTIONS:
  - Get* returns (nil, nil) when the record doesn't exist
  - Save* inserts or updates by ID and returns the stored record
  - Times are stored and compared in UTC with millisecond precision

ATOMICITY:
  WithTx runs fn against a Repository bound to one transaction. The quota
  check (read existing hours, compare, save shift) runs inside it so the
  read and the write are one unit against the datastore.
*/
package scheduling

import (
	"context"
	"time"
)

// ShiftRepository stores shifts.
type ShiftRepository interface {
	// FindShiftsForWorkerInRange returns the worker's shifts overlapping
	// [from, to], ordered by StartTime.
	FindShiftsForWorkerInRange(ctx context.Context, workerID string, from, to time.Time) ([]Shift, error)

	// ListShiftsInRange returns every shift starting in [from, to].
	ListShiftsInRange(ctx context.Context, from, to time.Time) ([]Shift, error)

	GetShift(ctx context.Context, id string) (*Shift, error)
	SaveShift(ctx context.Context, shift Shift) (Shift, error)
	DeleteShift(ctx context.Context, id string) error
}

// PeriodHoursRepository stores period quotas.
type PeriodHoursRepository interface {
	// FindPeriodHours matches on worker and the UTC day of periodStart.
	// periodEnd is not part of the identity.
	FindPeriodHours(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (*PeriodHours, error)

	// SavePeriodHours upserts on (worker, day of PeriodStart).
	SavePeriodHours(ctx context.Context, rec PeriodHours) (PeriodHours, error)

	// GetPeriodHours returns nil when id is unknown.
	GetPeriodHours(ctx context.Context, id string) (*PeriodHours, error)
	ListPeriodHours(ctx context.Context, workerID string) ([]PeriodHours, error)
	DeletePeriodHours(ctx context.Context, id string) error
}

// WorkerRepository stores workers. Deleting a worker cascades to its
// contracts, shifts and period hours.
type WorkerRepository interface {
	GetWorker(ctx context.Context, id string) (*Worker, error)
	ListWorkers(ctx context.Context) ([]Worker, error)
	SaveWorker(ctx context.Context, w Worker) (Worker, error)
	DeleteWorker(ctx context.Context, id string) error
}

// ContractRepository stores contracts.
type ContractRepository interface {
	GetContract(ctx context.Context, id string) (*Contract, error)

	// ListContracts returns the worker's contracts by StartDate, or all
	// contracts when workerID is empty.
	ListContracts(ctx context.Context, workerID string) ([]Contract, error)

	SaveContract(ctx context.Context, c Contract) (Contract, error)
	DeleteContract(ctx context.Context, id string) error
}

// Repository is every collaborator the scheduling rules use.
type Repository interface {
	ShiftRepository
	PeriodHoursRepository
	WorkerRepository
	ContractRepository
}

// Store is a Repository with transactions.
type Store interface {
	Repository

	// WithTx executes fn within a transaction.
	// If fn returns an error the transaction is rolled back.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// Reset deletes all data. Dev and demo use only.
	Reset(ctx context.Context) error
}

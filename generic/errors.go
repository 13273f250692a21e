/*
errors.go - Centralized error types for the shift engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. InvalidInput - malformed request, never retried
  2. NotFound     - referenced worker/shift/contract is missing
  3. Quota        - business rule rejections (QuotaExceeded, NoQuotaForPeriod)
  4. Conflict     - overlapping contracts, duplicate keys, concurrent writes
  5. Storage      - datastore failures, logged and propagated

USAGE:
    if errors.Is(err, generic.ErrNotFound) {
        // 404
    }
*/
package generic

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed input (missing field, bad enum,
	// negative or non-finite numbers, end before start).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded is the business rejection for a shift that would push
	// the worker over the period's max hours.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrNoQuotaForPeriod is the business rejection when the worker has no
	// period-hours record (or maxHours is 0) for the shift's period.
	ErrNoQuotaForPeriod = errors.New("no quota for period")

	// ErrConflict is returned for overlapping contracts, duplicate unique keys
	// and concurrent modifications.
	ErrConflict = errors.New("conflict")

	// ErrStorage wraps datastore failures.
	ErrStorage = errors.New("storage error")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = fmt.Errorf("%w: period ends before it starts", ErrInvalidInput)
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError names the offending field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError describes a uniqueness or overlap violation.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return "conflict: " + e.Reason }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// StorageError wraps a datastore failure with the operation that failed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// QuotaExceededError carries the numbers the UI needs to explain a rejection.
type QuotaExceededError struct {
	CurrentHours   decimal.Decimal
	NewShiftHours  decimal.Decimal
	MaxHours       decimal.Decimal
	RemainingHours decimal.Decimal
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: current %s + new %s > max %s (remaining %s)",
		e.CurrentHours, e.NewShiftHours, e.MaxHours, e.RemainingHours)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// NoQuotaError names the period without quota.
type NoQuotaError struct {
	WorkerID string
	Period   Period
}

func (e *NoQuotaError) Error() string {
	if e.Period.Start.IsZero() {
		return fmt.Sprintf("no quota for worker %s: date is outside every period", e.WorkerID)
	}
	return fmt.Sprintf("no quota for worker %s in %s", e.WorkerID, e.Period)
}

func (e *NoQuotaError) Unwrap() error { return ErrNoQuotaForPeriod }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// Invalid is shorthand for an InvalidInputError.
func Invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// NotFound is shorthand for a NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// Storage wraps err as a StorageError unless it already carries a
// taxonomy sentinel.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsRetryable returns true if the error might succeed on a retry with fresh data.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsClientError returns true if the error is due to the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrNoQuotaForPeriod) ||
		errors.Is(err, ErrConflict)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

package scheduling

import (
	"fmt"
	"time"

	"github.com/warp/shift-engine/generic"
)

// =============================================================================
// CONTRACT
// =============================================================================

// Contract is a worker's employment term. EndDate is always derived from
// StartDate and Duration and is never set independently.
type Contract struct {
	ID        string
	WorkerID  string
	StartDate time.Time
	Duration  int // months
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContractEndDate returns startDate + months - 1 day. Month overflow is
// clamped, so a contract starting Jan 31 for one month ends Feb 27/28.
func ContractEndDate(startDate time.Time, months int) time.Time {
	return generic.AddDays(generic.AddMonthsClamped(startDate, months), -1)
}

// NewContract validates and derives the end date.
func NewContract(workerID string, startDate time.Time, duration int) (Contract, error) {
	c := Contract{WorkerID: workerID, StartDate: generic.StartOfDay(startDate), Duration: duration}
	if err := c.normalize(); err != nil {
		return Contract{}, err
	}
	return c, nil
}

func (c *Contract) normalize() error {
	if c.WorkerID == "" {
		return generic.Invalid("workerId", "required")
	}
	if c.StartDate.IsZero() {
		return generic.Invalid("startDate", "required")
	}
	if c.Duration < 1 {
		return generic.Invalid("duration", "must be at least 1 month")
	}
	c.StartDate = generic.StartOfDay(c.StartDate)
	c.EndDate = ContractEndDate(c.StartDate, c.Duration)
	return nil
}

// Overlaps reports whether the two contracts' [StartDate, EndDate] ranges
// share at least one day.
func (c Contract) Overlaps(other Contract) bool {
	return !c.StartDate.After(other.EndDate) && !other.StartDate.After(c.EndDate)
}

// ActiveOn reports whether day falls in [StartDate, EndDate].
func (c Contract) ActiveOn(day time.Time) bool {
	d := generic.StartOfDay(day)
	return !d.Before(c.StartDate) && !d.After(c.EndDate)
}

// CheckNoOverlap returns a ConflictError if c overlaps any of existing,
// skipping the record with c's own ID.
func CheckNoOverlap(c Contract, existing []Contract) error {
	for _, other := range existing {
		if other.ID != "" && other.ID == c.ID {
			continue
		}
		if other.WorkerID != c.WorkerID {
			continue
		}
		if c.Overlaps(other) {
			return &generic.ConflictError{Reason: fmt.Sprintf(
				"contract %s..%s overlaps contract %s (%s..%s)",
				generic.DayKey(c.StartDate), generic.DayKey(c.EndDate),
				other.ID, generic.DayKey(other.StartDate), generic.DayKey(other.EndDate))}
		}
	}
	return nil
}

// ActiveContract returns the contract covering day, if any.
func ActiveContract(contracts []Contract, day time.Time) (Contract, bool) {
	for _, c := range contracts {
		if c.ActiveOn(day) {
			return c, true
		}
	}
	return Contract{}, false
}

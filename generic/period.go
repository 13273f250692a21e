package generic

import (
	"fmt"
	"sync"
	"time"
)

// =============================================================================
// PERIOD - The scope every quota and statistic is computed for
// =============================================================================

// Period is a contiguous UTC range [Start, End], both ends inclusive.
// Start is 00:00:00.000 of the first day, End is 23:59:59.999 of the last day.
//
// Examples:
//   - 4-week period P1 of 2024: 2024-01-01 .. 2024-01-28, weeks [1 2 3 4]
//   - Calendar month 2024-02: 2024-02-01 .. 2024-02-29
type Period struct {
	Start time.Time
	End   time.Time
	Label string
	Weeks []int
}

// Contains returns true if t is within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// ContainsRange returns true if [start, end] fits entirely inside the period.
func (p Period) ContainsRange(start, end time.Time) bool {
	return p.Contains(start) && p.Contains(end)
}

// Days returns the number of calendar days in the period.
func (p Period) Days() int {
	return CalendarDaysSpanned(p.Start, p.End)
}

// Key identifies the period by its first day. Two periods with the same
// start day are the same period for quota purposes.
func (p Period) Key() string { return DayKey(p.Start) }

func (p Period) String() string {
	return fmt.Sprintf("%s[%s, %s]", p.Label, DayKey(p.Start), DayKey(p.End))
}

func (p Period) clone() Period {
	c := p
	c.Weeks = append([]int(nil), p.Weeks...)
	return c
}

// NewPeriod normalizes the given days to a UTC period.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: StartOfDay(start), End: EndOfDay(end)}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

// PeriodScheme maps a date to the period used for quota enforcement.
type PeriodScheme interface {
	// Name identifies the scheme in config and logs.
	Name() string

	// PeriodFor returns the period containing t, or false if t is in none.
	PeriodFor(t time.Time) (Period, bool)
}

// Scheme names accepted by config.
const (
	SchemeFourWeek      = "four_week"
	SchemeCalendarMonth = "calendar_month"
)

// NewScheme builds a PeriodScheme by name.
func NewScheme(name string) (PeriodScheme, error) {
	switch name {
	case "", SchemeFourWeek:
		return NewPeriodCalculator(NewMemoryPeriodCache()), nil
	case SchemeCalendarMonth:
		return CalendarMonthScheme{}, nil
	default:
		return nil, &InvalidInputError{Field: "period_scheme", Reason: fmt.Sprintf("unknown scheme %q", name)}
	}
}

// =============================================================================
// PERIOD CACHE - Injectable memoization of periods per year
// =============================================================================

// PeriodCache stores computed periods per year. Periods are a pure function
// of the year, so entries never need invalidation.
type PeriodCache interface {
	Get(year int) ([]Period, bool)
	Put(year int, periods []Period)
}

// MemoryPeriodCache is a concurrency-safe map cache.
type MemoryPeriodCache struct {
	mu    sync.RWMutex
	years map[int][]Period
}

func NewMemoryPeriodCache() *MemoryPeriodCache {
	return &MemoryPeriodCache{years: make(map[int][]Period)}
}

func (c *MemoryPeriodCache) Get(year int) ([]Period, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.years[year]
	return p, ok
}

func (c *MemoryPeriodCache) Put(year int, periods []Period) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.years[year] = periods
}

// Len reports how many years are cached.
func (c *MemoryPeriodCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.years)
}

// NoPeriodCache recomputes every time.
type NoPeriodCache struct{}

func (NoPeriodCache) Get(int) ([]Period, bool) { return nil, false }
func (NoPeriodCache) Put(int, []Period)        {}

// =============================================================================
// PERIOD CALCULATOR - 4-week periods anchored on the first ISO Monday
// =============================================================================

const (
	PeriodsPerYear = 13
	PeriodWeeks    = 4
	PeriodDays     = PeriodWeeks * 7
)

// PeriodCalculator computes the 13 four-week periods of a year.
//
// Period i (0..12) spans [firstMonday + 28i days, firstMonday + 28i + 27 days].
// 13 x 28 = 364 days, so in ISO years with 53 weeks the last week belongs
// to no period.
type PeriodCalculator struct {
	cache PeriodCache
}

// NewPeriodCalculator creates a calculator. A nil cache disables caching.
func NewPeriodCalculator(cache PeriodCache) *PeriodCalculator {
	if cache == nil {
		cache = NoPeriodCache{}
	}
	return &PeriodCalculator{cache: cache}
}

func (pc *PeriodCalculator) Name() string { return SchemeFourWeek }

// FirstMondayOfYear returns the Monday that begins ISO week 1 of year.
// If Jan 1 is Friday, Saturday or Sunday it belongs to the previous ISO
// year, so the Monday after it is used.
func FirstMondayOfYear(year int) time.Time {
	jan1 := Date(year, time.January, 1)
	monday := StartOfISOWeek(jan1)
	if ISOWeekday(jan1) > 4 {
		monday = AddDays(monday, 7)
	}
	return monday
}

// FirstMondayOfYear is the method form of the package function.
func (pc *PeriodCalculator) FirstMondayOfYear(year int) time.Time {
	return FirstMondayOfYear(year)
}

// PeriodsForYear returns the 13 periods of year, ordered by start.
// The returned slice is a copy; callers may modify it.
func (pc *PeriodCalculator) PeriodsForYear(year int) []Period {
	periods, ok := pc.cache.Get(year)
	if !ok {
		periods = computePeriods(year)
		pc.cache.Put(year, periods)
	}

	out := make([]Period, len(periods))
	for i, p := range periods {
		out[i] = p.clone()
	}
	return out
}

func computePeriods(year int) []Period {
	first := FirstMondayOfYear(year)
	periods := make([]Period, 0, PeriodsPerYear)

	for i := 0; i < PeriodsPerYear; i++ {
		start := AddDays(first, i*PeriodDays)
		end := EndOfDay(AddDays(start, PeriodDays-1))

		var weeks []int
		for d := start; !d.After(end); d = AddDays(d, 7) {
			w := ISOWeek(d)
			if !containsInt(weeks, w) {
				weeks = append(weeks, w)
			}
		}

		periods = append(periods, Period{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("P%d", i+1),
			Weeks: weeks,
		})
	}
	return periods
}

// PeriodContaining returns the period of t's own calendar year containing t.
// Dates before that year's first period, or after its last, are not found;
// they are never wrapped into a neighbouring year.
func (pc *PeriodCalculator) PeriodContaining(t time.Time) (Period, bool) {
	u := t.UTC()
	for _, p := range pc.PeriodsForYear(u.Year()) {
		if p.Contains(u) {
			return p, true
		}
	}
	return Period{}, false
}

// IndexOf returns the 0-based index of the period containing t in its
// calendar year, or -1.
func (pc *PeriodCalculator) IndexOf(t time.Time) int {
	u := t.UTC()
	for i, p := range pc.PeriodsForYear(u.Year()) {
		if p.Contains(u) {
			return i
		}
	}
	return -1
}

// PeriodFor resolves the quota period for t. Unlike PeriodContaining it also
// looks at the neighbouring years' periods, because the first period of a
// year can start in late December of the previous one.
func (pc *PeriodCalculator) PeriodFor(t time.Time) (Period, bool) {
	u := t.UTC()
	for _, year := range []int{u.Year(), u.Year() + 1, u.Year() - 1} {
		for _, p := range pc.PeriodsForYear(year) {
			if p.Contains(u) {
				return p, true
			}
		}
	}
	return Period{}, false
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// =============================================================================
// CALENDAR MONTH SCHEME
// =============================================================================

// CalendarMonthScheme uses [1st, last day] of the month as the period.
type CalendarMonthScheme struct{}

func (CalendarMonthScheme) Name() string { return SchemeCalendarMonth }

func (CalendarMonthScheme) PeriodFor(t time.Time) (Period, bool) {
	u := t.UTC()
	return Period{
		Start: StartOfMonth(u.Year(), u.Month()),
		End:   EndOfMonth(u.Year(), u.Month()),
		Label: u.Format("2006-01"),
		Weeks: nil,
	}, true
}

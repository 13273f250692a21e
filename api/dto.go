/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator tags. decodeRequest decodes
  and validates in one step and reports the first failing field by its
  JSON name. Rules that need the domain (leave shifts without location,
  quota checks) stay in the scheduling package.

NUMBERS:
  Hours are decimals internally and float64 on the wire.

SEE ALSO:
  - handlers.go: Uses these types
  - scheduling/types.go: Domain model
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// timestampLayout renders instants in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string { return t.UTC().Format(timestampLayout) }

// =============================================================================
// WORKERS AND CONTRACTS
// =============================================================================

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID             string       `json:"id"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	WorkerID       string       `json:"workerId"`
	FullName       string       `json:"fullName"`
	Active         bool         `json:"active"`
	ActiveContract *ContractDTO `json:"activeContract,omitempty"`
	CreatedAt      string       `json:"createdAt,omitempty"`
	UpdatedAt      string       `json:"updatedAt,omitempty"`
}

// WorkerRequest creates or updates a worker. Contract is only read on create.
type WorkerRequest struct {
	FirstName string           `json:"firstName" validate:"required,max=100"`
	LastName  string           `json:"lastName" validate:"required,max=100"`
	WorkerID  string           `json:"workerId" validate:"required,max=50"`
	Contract  *ContractRequest `json:"contract,omitempty" validate:"omitempty"`
}

// ContractDTO represents a contract in API responses.
type ContractDTO struct {
	ID        string `json:"id"`
	WorkerID  string `json:"workerId"`
	StartDate string `json:"startDate"`
	Duration  int    `json:"duration"`
	EndDate   string `json:"endDate"`
}

// ContractRequest creates or updates a contract. EndDate is always derived.
type ContractRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	Duration  int    `json:"duration" validate:"required,min=1,max=600"`
}

func toWorkerDTO(w scheduling.Worker, active *scheduling.Contract) WorkerDTO {
	dto := WorkerDTO{
		ID:        w.ID,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		WorkerID:  w.WorkerCode,
		FullName:  w.FullName(),
		Active:    active != nil,
		CreatedAt: formatTimestamp(w.CreatedAt),
		UpdatedAt: formatTimestamp(w.UpdatedAt),
	}
	if active != nil {
		c := toContractDTO(*active)
		dto.ActiveContract = &c
	}
	return dto
}

func toContractDTO(c scheduling.Contract) ContractDTO {
	return ContractDTO{
		ID:        c.ID,
		WorkerID:  c.WorkerID,
		StartDate: generic.DayKey(c.StartDate),
		Duration:  c.Duration,
		EndDate:   generic.DayKey(c.EndDate),
	}
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a shift in API responses.
type ShiftDTO struct {
	ID          string  `json:"id"`
	WorkerID    string  `json:"workerId"`
	ShiftType   string  `json:"shiftType"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	HoursWorked float64 `json:"hoursWorked"`
	Location    *string `json:"location"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// ShiftRequest creates or updates a shift. WorkerID is ignored on update.
// HoursWorked absent means "derive from the times".
type ShiftRequest struct {
	WorkerID    string   `json:"workerId"`
	ShiftType   string   `json:"shiftType" validate:"required,oneof=NORMAL_WORKDAY WEEKEND_DAY HOLIDAY SICK_LEAVE VACATION UNPAID_LEAVE"`
	StartTime   string   `json:"startTime" validate:"required"`
	EndTime     string   `json:"endTime" validate:"required"`
	HoursWorked *float64 `json:"hoursWorked,omitempty" validate:"omitempty,gte=0"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=200"`
}

// toInput parses the timestamps. Domain validation happens in Build.
func (req ShiftRequest) toInput() (scheduling.ShiftInput, error) {
	start, err := generic.ParseTimestamp(req.StartTime)
	if err != nil {
		return scheduling.ShiftInput{}, generic.Invalid("startTime", err.Error())
	}
	end, err := generic.ParseTimestamp(req.EndTime)
	if err != nil {
		return scheduling.ShiftInput{}, generic.Invalid("endTime", err.Error())
	}
	return scheduling.ShiftInput{
		ShiftType:   scheduling.ShiftType(req.ShiftType),
		StartTime:   start,
		EndTime:     end,
		HoursWorked: req.HoursWorked,
		Location:    req.Location,
	}, nil
}

// ShiftResultDTO is returned by a successful create or update.
type ShiftResultDTO struct {
	Shift ShiftDTO        `json:"shift"`
	Stats *PeriodStatsDTO `json:"stats,omitempty"`
}

// QuotaRejectionDTO is the 422 body of a shift the quota does not admit.
type QuotaRejectionDTO struct {
	Error          string   `json:"error"`
	Reason         string   `json:"reason"`
	WorkerID       string   `json:"workerId"`
	PeriodStart    string   `json:"periodStart,omitempty"`
	PeriodEnd      string   `json:"periodEnd,omitempty"`
	CurrentHours   *float64 `json:"currentHours,omitempty"`
	NewShiftHours  *float64 `json:"newShiftHours,omitempty"`
	MaxHours       *float64 `json:"maxHours,omitempty"`
	RemainingHours *float64 `json:"remainingHours,omitempty"`
}

// DayStatusDTO is one worker's line in the day roster.
type DayStatusDTO struct {
	WorkerID   string  `json:"workerId"`
	WorkerName string  `json:"workerName"`
	Status     string  `json:"status"`
	Location   *string `json:"location"`
	ShiftStart *string `json:"shiftStart"`
	ShiftEnd   *string `json:"shiftEnd"`
}

// statusNotWorking marks a worker without a shift in the day roster.
const statusNotWorking = "NOT_WORKING"

func toShiftDTO(s scheduling.Shift) ShiftDTO {
	return ShiftDTO{
		ID:          s.ID,
		WorkerID:    s.WorkerID,
		ShiftType:   string(s.ShiftType),
		StartTime:   formatTimestamp(s.StartTime),
		EndTime:     formatTimestamp(s.EndTime),
		HoursWorked: generic.Float(s.HoursWorked),
		Location:    s.Location,
		CreatedAt:   formatTimestamp(s.CreatedAt),
		UpdatedAt:   formatTimestamp(s.UpdatedAt),
	}
}

func toShiftDTOs(shifts []scheduling.Shift) []ShiftDTO {
	out := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		out[i] = toShiftDTO(s)
	}
	return out
}

func toRejectionDTO(workerID string, d scheduling.Decision) QuotaRejectionDTO {
	dto := QuotaRejectionDTO{
		Error:    d.Err(workerID).Error(),
		Reason:   string(d.Reason),
		WorkerID: workerID,
	}
	if !d.Period.Start.IsZero() {
		dto.PeriodStart = formatTimestamp(d.Period.Start)
		dto.PeriodEnd = formatTimestamp(d.Period.End)
	}
	if d.Detail != nil {
		dto.CurrentHours = floatPtr(generic.Float(d.Detail.CurrentHours))
		dto.NewShiftHours = floatPtr(generic.Float(d.Detail.NewShiftHours))
		dto.MaxHours = floatPtr(generic.Float(d.Detail.MaxHours))
		dto.RemainingHours = floatPtr(generic.Float(d.Detail.RemainingHours))
	}
	return dto
}

// =============================================================================
// PERIOD HOURS AND STATISTICS
// =============================================================================

// PeriodHoursRequest upserts a worker's quota for one period.
type PeriodHoursRequest struct {
	WorkerID    string   `json:"workerId" validate:"required"`
	PeriodStart string   `json:"periodStart" validate:"required"`
	PeriodEnd   string   `json:"periodEnd" validate:"required"`
	MaxHours    *float64 `json:"maxHours" validate:"required,gte=0"`
}

// PeriodHoursDTO represents a quota record.
type PeriodHoursDTO struct {
	ID          string  `json:"id,omitempty"`
	WorkerID    string  `json:"workerId"`
	PeriodStart string  `json:"periodStart"`
	PeriodEnd   string  `json:"periodEnd"`
	MaxHours    float64 `json:"maxHours"`
}

// PeriodHoursResultDTO wraps an upsert result.
type PeriodHoursResultDTO struct {
	PeriodHoursDTO
	Created bool `json:"created"`
}

// LeaveDaysDTO is the leave tally of a period.
type LeaveDaysDTO struct {
	SickLeave   int `json:"sickLeave"`
	Vacation    int `json:"vacation"`
	UnpaidLeave int `json:"unpaidLeave"`
	Total       int `json:"total"`
}

// PeriodStatsDTO is the statistics row of one worker for one period.
type PeriodStatsDTO struct {
	WorkerID       string       `json:"workerId"`
	PeriodStart    string       `json:"periodStart"`
	PeriodEnd      string       `json:"periodEnd"`
	MaxHours       float64      `json:"maxHours"`
	WorkedHours    float64      `json:"workedHours"`
	RemainingHours float64      `json:"remainingHours"`
	CompletionRate float64      `json:"completionRate"`
	Exceeded       bool         `json:"exceeded"`
	LeaveDays      LeaveDaysDTO `json:"leaveDays"`
	TotalShifts    int          `json:"totalShifts"`
	NormalDays     int          `json:"normalDays"`
	WeekendDays    int          `json:"weekendDays"`
	HolidayDays    int          `json:"holidayDays"`
	NormalHours    float64      `json:"normalHours"`
	WeekendHours   float64      `json:"weekendHours"`
	HolidayHours   float64      `json:"holidayHours"`
}

func toPeriodHoursDTO(p scheduling.PeriodHours) PeriodHoursDTO {
	return PeriodHoursDTO{
		ID:          p.ID,
		WorkerID:    p.WorkerID,
		PeriodStart: formatTimestamp(p.PeriodStart),
		PeriodEnd:   formatTimestamp(p.PeriodEnd),
		MaxHours:    generic.Float(p.MaxHours),
	}
}

func toPeriodStatsDTO(s scheduling.PeriodStats) PeriodStatsDTO {
	return PeriodStatsDTO{
		WorkerID:       s.WorkerID,
		PeriodStart:    formatTimestamp(s.PeriodStart),
		PeriodEnd:      formatTimestamp(s.PeriodEnd),
		MaxHours:       generic.Float(s.MaxHours),
		WorkedHours:    generic.Float(s.WorkedHours),
		RemainingHours: generic.Float(s.RemainingHours),
		CompletionRate: generic.Float(s.CompletionRate.Round(2)),
		Exceeded:       s.Exceeded(),
		LeaveDays: LeaveDaysDTO{
			SickLeave:   s.Leave.SickLeaveDays,
			Vacation:    s.Leave.VacationDays,
			UnpaidLeave: s.Leave.UnpaidLeaveDays,
			Total:       s.Leave.Total(),
		},
		TotalShifts:  s.TotalShifts,
		NormalDays:   s.NormalDays,
		WeekendDays:  s.WeekendDays,
		HolidayDays:  s.HolidayDays,
		NormalHours:  generic.Float(s.NormalHours),
		WeekendHours: generic.Float(s.WeekendHours),
		HolidayHours: generic.Float(s.HolidayHours),
	}
}

// =============================================================================
// PERIODS
// =============================================================================

// PeriodDTO is one quota period.
type PeriodDTO struct {
	Label     string `json:"label,omitempty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Weeks     []int  `json:"weeks,omitempty"`
	Days      int    `json:"days"`
}

func toPeriodDTO(p generic.Period) PeriodDTO {
	return PeriodDTO{
		Label:     p.Label,
		StartDate: formatTimestamp(p.Start),
		EndDate:   formatTimestamp(p.End),
		Weeks:     p.Weeks,
		Days:      p.Days(),
	}
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenarioId" validate:"required"`
}

// ErrorResponse is the body of every non-quota error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DECODING
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeRequest decodes the JSON body into dst and validates it.
// Failures are InvalidInputErrors.
func decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return generic.Invalid("body", "malformed JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return generic.Invalid(fe.Field(), describeRule(fe))
		}
		return generic.Invalid("body", err.Error())
	}
	return nil
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

func floatPtr(f float64) *float64 { return &f }

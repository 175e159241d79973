package attendance

import (
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SyncRequest struct {
	Month string `json:"month"` // YYYY-MM
}

func (r *SyncRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SyncResponse summarizes one attendance sync: what was fetched, how the
// aggregates matched against the roster, and what is blocking payroll.
type SyncResponse struct {
	Month             string                `json:"month"`
	PagesFetched      int                   `json:"pages_fetched"`
	RecordsFetched    int                   `json:"records_fetched"`
	Aggregates        int                   `json:"aggregates"`
	ExactMatches      int                   `json:"exact_matches"`
	FallbackMatches   int                   `json:"fallback_matches"`
	Unmatched         int                   `json:"unmatched"`
	PendingQuarantine int                   `json:"pending_quarantine"`
	DroppedRecords    []DroppedRecordDetail `json:"dropped_records,omitempty"`
	Matches           []MatchDetail         `json:"matches"`
}

type MatchDetail struct {
	TimeRecorderID string  `json:"time_recorder_id"`
	Name           string  `json:"name,omitempty"`
	Type           string  `json:"type"`
	EmployeeID     *string `json:"employee_id,omitempty"`
	Reason         string  `json:"reason,omitempty"`
}

type DroppedRecordDetail struct {
	Date    string `json:"date"`
	Segment string `json:"segment,omitempty"`
	Reason  string `json:"reason"`
}

type AggregateResponse struct {
	TimeRecorderID         string          `json:"time_recorder_id"`
	EmployeeID             string          `json:"employee_id,omitempty"`
	Month                  string          `json:"month"`
	WorkDays               int             `json:"work_days"`
	ScheduledDays          int             `json:"scheduled_days"`
	AbsenceDays            int             `json:"absence_days"`
	PaidLeaveDays          int             `json:"paid_leave_days"`
	WorkedHours            decimal.Decimal `json:"worked_hours"`
	ScheduledHours         decimal.Decimal `json:"scheduled_hours"`
	StatutoryOvertimeHours decimal.Decimal `json:"statutory_overtime_hours"`
	WithinCompanyHours     decimal.Decimal `json:"within_company_hours"`
	LateNightHours         decimal.Decimal `json:"late_night_hours"`
	HolidayHours           decimal.Decimal `json:"holiday_hours"`
	BasePayAdjustment      decimal.Decimal `json:"base_pay_adjustment"`
	OvertimeAdjustment     decimal.Decimal `json:"overtime_adjustment"`
	OtherAllowance         decimal.Decimal `json:"other_allowance"`
}

type ListAggregateResponse struct {
	Month string              `json:"month"`
	Data  []AggregateResponse `json:"data"`
}

type QuarantineEntryResponse struct {
	Key                string  `json:"key"`
	Month              string  `json:"month"`
	TimeRecorderID     string  `json:"time_recorder_id"`
	Name               string  `json:"name,omitempty"`
	Reason             string  `json:"reason"`
	Status             string  `json:"status"`
	AssignedEmployeeID *string `json:"assigned_employee_id,omitempty"`
}

type ListQuarantineResponse struct {
	Data         []QuarantineEntryResponse `json:"data"`
	PendingCount int                       `json:"pending_count"`
}

type AssignQuarantineRequest struct {
	Key        string `json:"-"`
	EmployeeID string `json:"employee_id"`
}

func (r *AssignQuarantineRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Key) {
		errs = append(errs, validator.ValidationError{Field: "key", Message: "is required"})
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MonthlyAdjustmentRequest records ad-hoc adjustments on an aggregate.
type MonthlyAdjustmentRequest struct {
	Month              string          `json:"-"`
	EmployeeID         string          `json:"-"`
	BasePayAdjustment  decimal.Decimal `json:"base_pay_adjustment"`
	OvertimeAdjustment decimal.Decimal `json:"overtime_adjustment"`
	OtherAllowance     decimal.Decimal `json:"other_allowance"`
}

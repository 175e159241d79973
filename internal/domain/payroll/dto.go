package payroll

import (
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RunPayrollRequest struct {
	Month string `json:"month"` // YYYY-MM
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ResultResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Month        string `json:"month"`

	BasePay            decimal.Decimal `json:"base_pay"`
	DutyAllowance      decimal.Decimal `json:"duty_allowance"`
	CommuteAllowance   decimal.Decimal `json:"commute_allowance"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	LateNightPay       decimal.Decimal `json:"late_night_pay"`
	HolidayPay         decimal.Decimal `json:"holiday_pay"`
	BasePayAdjustment  decimal.Decimal `json:"base_pay_adjustment"`
	OvertimeAdjustment decimal.Decimal `json:"overtime_adjustment"`
	OtherAllowance     decimal.Decimal `json:"other_allowance"`
	Gross              decimal.Decimal `json:"gross"`

	HealthInsurance      decimal.Decimal `json:"health_insurance"`
	NursingCareInsurance decimal.Decimal `json:"nursing_care_insurance"`
	PensionInsurance     decimal.Decimal `json:"pension_insurance"`
	EmploymentInsurance  decimal.Decimal `json:"employment_insurance"`
	IncomeTax            decimal.Decimal `json:"income_tax"`
	ResidentTax          decimal.Decimal `json:"resident_tax"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
	Net                  decimal.Decimal `json:"net"`

	EmployerHealth     decimal.Decimal `json:"employer_health"`
	EmployerNursing    decimal.Decimal `json:"employer_nursing"`
	EmployerPension    decimal.Decimal `json:"employer_pension"`
	EmployerEmployment decimal.Decimal `json:"employer_employment"`
	EmployerChildLevy  decimal.Decimal `json:"employer_child_levy"`
	EmployerTotal      decimal.Decimal `json:"employer_total"`
	CompanyCost        decimal.Decimal `json:"company_cost"`
}

type SnapshotResponse struct {
	Month          string           `json:"month"`
	Confirmed      bool             `json:"confirmed"`
	ComputedAt     string           `json:"computed_at"`
	SnapshotStored bool             `json:"snapshot_stored"`
	Results        []ResultResponse `json:"results"`
}

type RegradeRequest struct {
	// TargetMonth is the month the new grades take effect; the averaging
	// window is the three months ending the month before it.
	TargetMonth string `json:"target_month"`
}

func (r *RegradeRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidMonth(r.TargetMonth); !ok {
		errs = append(errs, validator.ValidationError{Field: "target_month", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RegradeResultResponse struct {
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	AverageGross    decimal.Decimal `json:"average_gross"`
	MonthsAveraged  int             `json:"months_averaged"`
	PreviousGrade   int             `json:"previous_grade"`
	NewGrade        int             `json:"new_grade"`
	StandardMonthly decimal.Decimal `json:"standard_monthly"`
	Changed         bool            `json:"changed"`
}

type RegradeResponse struct {
	TargetMonth string                  `json:"target_month"`
	Window      []string                `json:"window"`
	Results     []RegradeResultResponse `json:"results"`
}

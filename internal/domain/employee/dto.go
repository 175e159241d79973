package employee

import (
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	TimeRecorderID      string           `json:"time_recorder_id"`
	FullName            string           `json:"full_name"`
	Classification      string           `json:"classification"`
	HireDate            string           `json:"hire_date"`
	BasePay             decimal.Decimal  `json:"base_pay"`
	DutyAllowance       decimal.Decimal  `json:"duty_allowance"`
	CommuteAllowance    decimal.Decimal  `json:"commute_allowance"`
	StandardMonthly     decimal.Decimal  `json:"standard_monthly"`
	AverageMonthlyHours decimal.Decimal  `json:"average_monthly_hours"`
	FixedOvertimeHours  decimal.Decimal  `json:"fixed_overtime_hours"`
	FixedOvertimePay    decimal.Decimal  `json:"fixed_overtime_pay"`
	NursingCareInsured  bool             `json:"nursing_care_insured"`
	PensionInsured      bool             `json:"pension_insured"`
	EmploymentInsured   bool             `json:"employment_insured"`
	Dependents          int              `json:"dependents"`
	WithholdingOverride *decimal.Decimal `json:"withholding_override,omitempty"`
	ResidentTaxMonthly  decimal.Decimal  `json:"resident_tax_monthly"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if validator.IsEmpty(r.TimeRecorderID) {
		errs = append(errs, validator.ValidationError{Field: "time_recorder_id", Message: "is required for active employees"})
	}
	if !Classification(r.Classification).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "classification", Message: "must be 'regular', 'contract' or 'officer'"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.BasePay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_pay", Message: "must be non-negative"})
	}
	if !r.AverageMonthlyHours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "average_monthly_hours", Message: "must be positive"})
	}
	if r.FixedOvertimeHours.IsNegative() || r.FixedOvertimePay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "fixed_overtime", Message: "hours and pay must be non-negative"})
	}
	if (r.NursingCareInsured || r.PensionInsured || r.EmploymentInsured) && !r.StandardMonthly.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "standard_monthly", Message: "must be positive when insurance flags are set"})
	}
	if Classification(r.Classification) == ClassificationOfficer && r.EmploymentInsured {
		errs = append(errs, validator.ValidationError{Field: "employment_insured", Message: "officers are not eligible for employment insurance"})
	}
	if r.Dependents < 0 {
		errs = append(errs, validator.ValidationError{Field: "dependents", Message: "must be non-negative"})
	}
	if r.WithholdingOverride != nil && r.WithholdingOverride.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "withholding_override", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID                  string
	TimeRecorderID      *string          `json:"time_recorder_id,omitempty"`
	FullName            *string          `json:"full_name,omitempty"`
	Classification      *string          `json:"classification,omitempty"`
	BasePay             *decimal.Decimal `json:"base_pay,omitempty"`
	DutyAllowance       *decimal.Decimal `json:"duty_allowance,omitempty"`
	CommuteAllowance    *decimal.Decimal `json:"commute_allowance,omitempty"`
	StandardMonthly     *decimal.Decimal `json:"standard_monthly,omitempty"`
	AverageMonthlyHours *decimal.Decimal `json:"average_monthly_hours,omitempty"`
	FixedOvertimeHours  *decimal.Decimal `json:"fixed_overtime_hours,omitempty"`
	FixedOvertimePay    *decimal.Decimal `json:"fixed_overtime_pay,omitempty"`
	NursingCareInsured  *bool            `json:"nursing_care_insured,omitempty"`
	PensionInsured      *bool            `json:"pension_insured,omitempty"`
	EmploymentInsured   *bool            `json:"employment_insured,omitempty"`
	Dependents          *int             `json:"dependents,omitempty"`
	WithholdingOverride *decimal.Decimal `json:"withholding_override,omitempty"`
	ResidentTaxMonthly  *decimal.Decimal `json:"resident_tax_monthly,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "cannot be blank"})
	}
	if r.Classification != nil && !Classification(*r.Classification).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "classification", Message: "must be 'regular', 'contract' or 'officer'"})
	}
	if r.BasePay != nil && r.BasePay.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_pay", Message: "must be non-negative"})
	}
	if r.AverageMonthlyHours != nil && !r.AverageMonthlyHours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "average_monthly_hours", Message: "must be positive"})
	}
	if r.Dependents != nil && *r.Dependents < 0 {
		errs = append(errs, validator.ValidationError{Field: "dependents", Message: "must be non-negative"})
	}
	if r.WithholdingOverride != nil && r.WithholdingOverride.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "withholding_override", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                  string           `json:"id"`
	TimeRecorderID      string           `json:"time_recorder_id"`
	FullName            string           `json:"full_name"`
	Classification      string           `json:"classification"`
	Status              string           `json:"status"`
	HireDate            string           `json:"hire_date"`
	SeparationDate      *string          `json:"separation_date,omitempty"`
	BasePay             decimal.Decimal  `json:"base_pay"`
	DutyAllowance       decimal.Decimal  `json:"duty_allowance"`
	CommuteAllowance    decimal.Decimal  `json:"commute_allowance"`
	StandardMonthly     decimal.Decimal  `json:"standard_monthly"`
	AverageMonthlyHours decimal.Decimal  `json:"average_monthly_hours"`
	FixedOvertimeHours  decimal.Decimal  `json:"fixed_overtime_hours"`
	FixedOvertimePay    decimal.Decimal  `json:"fixed_overtime_pay"`
	NursingCareInsured  bool             `json:"nursing_care_insured"`
	PensionInsured      bool             `json:"pension_insured"`
	EmploymentInsured   bool             `json:"employment_insured"`
	Dependents          int              `json:"dependents"`
	WithholdingOverride *decimal.Decimal `json:"withholding_override,omitempty"`
	ResidentTaxMonthly  decimal.Decimal  `json:"resident_tax_monthly"`
	InsuranceGrade      int              `json:"insurance_grade"`
}

type ListEmployeeResponse struct {
	Data       []EmployeeResponse `json:"data"`
	TotalCount int                `json:"total_count"`
}

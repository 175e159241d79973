package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             string
	TimeRecorderID string // identifier on the external timekeeping source
	FullName       string
	Classification Classification
	Status         Status
	HireDate       time.Time
	SeparationDate *time.Time

	// Compensation
	BasePay             decimal.Decimal
	DutyAllowance       decimal.Decimal
	CommuteAllowance    decimal.Decimal
	StandardMonthly     decimal.Decimal // banded reference salary for insurance premiums
	AverageMonthlyHours decimal.Decimal // divisor for the hourly rate, configured per employee
	FixedOvertimeHours  decimal.Decimal
	FixedOvertimePay    decimal.Decimal

	// Insurance eligibility
	NursingCareInsured bool
	PensionInsured     bool
	EmploymentInsured  bool

	Dependents          int
	WithholdingOverride *decimal.Decimal // fixed monthly income tax, bypasses the bracket table
	ResidentTaxMonthly  decimal.Decimal

	InsuranceGrade int

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Classification string

const (
	ClassificationRegular  Classification = "regular"
	ClassificationContract Classification = "contract"
	ClassificationOfficer  Classification = "officer"
)

func (c Classification) IsValid() bool {
	switch c {
	case ClassificationRegular, ClassificationContract, ClassificationOfficer:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusSeparated Status = "separated"
)

// HasFixedOvertime reports whether the employee is on a deemed-overtime
// contract: a flat payment covering a pre-agreed number of overtime hours.
func (e Employee) HasFixedOvertime() bool {
	return e.FixedOvertimeHours.IsPositive() && e.FixedOvertimePay.IsPositive()
}

// IsActive reports whether the employee participates in payroll runs.
func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result is the full payroll outcome for one (employee, month). All
// amounts are whole yen.
type Result struct {
	EmployeeID   string
	EmployeeName string
	Month        string

	// Earnings
	BasePay            decimal.Decimal
	DutyAllowance      decimal.Decimal
	CommuteAllowance   decimal.Decimal
	OvertimePay        decimal.Decimal // statutory + within-company, or the fixed amount plus excess
	LateNightPay       decimal.Decimal
	HolidayPay         decimal.Decimal
	BasePayAdjustment  decimal.Decimal
	OvertimeAdjustment decimal.Decimal
	OtherAllowance     decimal.Decimal
	Gross              decimal.Decimal

	// Employee-side deductions
	HealthInsurance      decimal.Decimal
	NursingCareInsurance decimal.Decimal
	PensionInsurance     decimal.Decimal
	EmploymentInsurance  decimal.Decimal
	IncomeTax            decimal.Decimal
	ResidentTax          decimal.Decimal
	TotalDeductions      decimal.Decimal
	Net                  decimal.Decimal

	// Employer-side mirror
	EmployerHealth     decimal.Decimal
	EmployerNursing    decimal.Decimal
	EmployerPension    decimal.Decimal
	EmployerEmployment decimal.Decimal
	EmployerChildLevy  decimal.Decimal
	EmployerTotal      decimal.Decimal
	CompanyCost        decimal.Decimal // gross + employer total
}

// Snapshot is one month's persisted payroll result set. Writes are last
// write wins at the month-key granularity; a confirmed snapshot refuses
// automated overwrite until explicitly unlocked.
type Snapshot struct {
	Month      string // YYYY-MM
	Results    []Result
	Confirmed  bool
	ComputedAt time.Time
}

// GrossFor returns the gross pay recorded for an employee, and whether
// the snapshot contains one.
func (s Snapshot) GrossFor(employeeID string) (decimal.Decimal, bool) {
	for _, r := range s.Results {
		if r.EmployeeID == employeeID {
			return r.Gross, true
		}
	}
	return decimal.Zero, false
}

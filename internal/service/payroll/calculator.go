package payroll

import (
	"fmt"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	ratesService "github.com/paylane-hq/payroll-backend-go/internal/service/rates"
	"github.com/shopspring/decimal"
)

// Calculator computes one employee's payroll for one month from the
// employee master record, the month's attendance aggregate and the rate
// configuration snapshot. It holds no mutable state, so computations for
// different employees may run concurrently on one Calculator.
type Calculator struct {
	cfg rates.Config
}

func NewCalculator(cfg rates.Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// ceilPay rounds pay up to the next whole yen. Overtime is always
// rounded in the employee's favor.
func ceilPay(hourly, hours, multiplier decimal.Decimal) decimal.Decimal {
	return hourly.Mul(hours).Mul(multiplier).Ceil()
}

// floorYen rounds a deduction down to a whole yen.
func floorYen(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Floor()
}

// Compute produces the full payroll result. A zero or missing average
// monthly hours divisor and negative hour inputs are rejected before any
// arithmetic.
func (c *Calculator) Compute(emp employee.Employee, agg attendance.MonthlyAggregate) (payroll.Result, error) {
	if !emp.AverageMonthlyHours.IsPositive() {
		return payroll.Result{}, fmt.Errorf("employee %s: %w", emp.ID, payroll.ErrZeroAverageHours)
	}
	if agg.StatutoryOvertimeMinutes < 0 || agg.WithinCompanyMinutes < 0 ||
		agg.LateNightMinutes < 0 || agg.HolidayMinutes < 0 || agg.WorkedMinutes < 0 {
		return payroll.Result{}, fmt.Errorf("employee %s: %w", emp.ID, payroll.ErrNegativeHours)
	}
	if emp.Classification == employee.ClassificationOfficer && emp.EmploymentInsured {
		return payroll.Result{}, fmt.Errorf("employee %s: %w", emp.ID, employee.ErrOfficerEmploymentInsurance)
	}

	hourly := emp.BasePay.Add(emp.DutyAllowance).Div(emp.AverageMonthlyHours)

	statutoryHours := agg.StatutoryOvertimeHours()
	withinHours := agg.WithinCompanyHours()

	var overtimePay decimal.Decimal
	if emp.HasFixedOvertime() {
		// The flat deemed-overtime amount covers statutory plus
		// within-company hours up to the fixed allotment; only the excess
		// is paid on top, at the statutory multiplier.
		overtimePay = emp.FixedOvertimePay
		combined := statutoryHours.Add(withinHours)
		if excess := combined.Sub(emp.FixedOvertimeHours); excess.IsPositive() {
			overtimePay = overtimePay.Add(ceilPay(hourly, excess, c.cfg.Multipliers.Statutory))
		}
	} else {
		overtimePay = ceilPay(hourly, statutoryHours, c.cfg.Multipliers.Statutory).
			Add(ceilPay(hourly, withinHours, c.cfg.Multipliers.WithinCompany))
	}

	// Late-night and holiday premiums are never absorbed into the fixed
	// amount.
	lateNightPay := ceilPay(hourly, agg.LateNightHours(), c.cfg.Multipliers.LateNight)
	holidayPay := ceilPay(hourly, agg.HolidayHours(), c.cfg.Multipliers.Holiday)

	gross := emp.BasePay.
		Add(emp.DutyAllowance).
		Add(emp.CommuteAllowance).
		Add(overtimePay).
		Add(lateNightPay).
		Add(holidayPay).
		Add(agg.BasePayAdjustment).
		Add(agg.OvertimeAdjustment).
		Add(agg.OtherAllowance)

	// Employee-side insurance on the standard monthly remuneration.
	health := floorYen(emp.StandardMonthly, c.cfg.EmployeeRates.Health)
	nursing := decimal.Zero
	if emp.NursingCareInsured {
		nursing = floorYen(emp.StandardMonthly, c.cfg.EmployeeRates.NursingCare)
	}
	pension := decimal.Zero
	if emp.PensionInsured {
		pension = floorYen(emp.StandardMonthly, c.cfg.EmployeeRates.Pension)
	}
	employment := decimal.Zero
	if emp.EmploymentInsured {
		employment = floorYen(gross, c.cfg.EmployeeRates.Employment)
	}

	taxable := gross.Sub(health).Sub(nursing).Sub(pension).Sub(employment)
	incomeTax, err := ratesService.EstimateWithholding(c.cfg, taxable, emp.WithholdingOverride)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("employee %s: %w", emp.ID, err)
	}
	residentTax := emp.ResidentTaxMonthly

	totalDeductions := health.Add(nursing).Add(pension).Add(employment).Add(incomeTax).Add(residentTax)
	net := gross.Sub(totalDeductions)

	// Employer-side mirror with employer rates; the child levy applies on
	// the standard monthly remuneration regardless of other flags.
	erHealth := floorYen(emp.StandardMonthly, c.cfg.EmployerRates.Health)
	erNursing := decimal.Zero
	if emp.NursingCareInsured {
		erNursing = floorYen(emp.StandardMonthly, c.cfg.EmployerRates.NursingCare)
	}
	erPension := decimal.Zero
	if emp.PensionInsured {
		erPension = floorYen(emp.StandardMonthly, c.cfg.EmployerRates.Pension)
	}
	erEmployment := decimal.Zero
	if emp.EmploymentInsured && emp.Classification != employee.ClassificationOfficer {
		erEmployment = floorYen(gross, c.cfg.EmployerRates.Employment)
	}
	erChildLevy := floorYen(emp.StandardMonthly, c.cfg.ChildLevyRate)

	employerTotal := erHealth.Add(erNursing).Add(erPension).Add(erEmployment).Add(erChildLevy)

	return payroll.Result{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Month:        agg.Month,

		BasePay:            emp.BasePay,
		DutyAllowance:      emp.DutyAllowance,
		CommuteAllowance:   emp.CommuteAllowance,
		OvertimePay:        overtimePay,
		LateNightPay:       lateNightPay,
		HolidayPay:         holidayPay,
		BasePayAdjustment:  agg.BasePayAdjustment,
		OvertimeAdjustment: agg.OvertimeAdjustment,
		OtherAllowance:     agg.OtherAllowance,
		Gross:              gross,

		HealthInsurance:      health,
		NursingCareInsurance: nursing,
		PensionInsurance:     pension,
		EmploymentInsurance:  employment,
		IncomeTax:            incomeTax,
		ResidentTax:          residentTax,
		TotalDeductions:      totalDeductions,
		Net:                  net,

		EmployerHealth:     erHealth,
		EmployerNursing:    erNursing,
		EmployerPension:    erPension,
		EmployerEmployment: erEmployment,
		EmployerChildLevy:  erChildLevy,
		EmployerTotal:      employerTotal,
		CompanyCost:        gross.Add(employerTotal),
	}, nil
}

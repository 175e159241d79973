package payroll

import (
	"testing"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func regularEmployee() employee.Employee {
	return employee.Employee{
		ID:                  "emp-1",
		FullName:            "佐藤一郎",
		Classification:      employee.ClassificationRegular,
		Status:              employee.StatusActive,
		BasePay:             d("210000"),
		DutyAllowance:       d("10000"),
		StandardMonthly:     d("220000"),
		AverageMonthlyHours: d("173"),
		NursingCareInsured:  false,
		PensionInsured:      true,
		EmploymentInsured:   true,
	}
}

func TestComputeMonthlyOvertimePay(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	agg := attendance.MonthlyAggregate{
		Month:                    "2026-04",
		StatutoryOvertimeMinutes: 600, // 10h
	}

	result, err := calc.Compute(emp, agg)
	require.NoError(t, err)

	// hourly = (210000+10000)/173 = 1271.67...; ×10h ×1.25 = 15895.95,
	// rounded up in the employee's favor.
	assert.True(t, result.OvertimePay.Equal(d("15896")), "got %s", result.OvertimePay)
	assert.True(t, result.Gross.Equal(d("235896")), "got %s", result.Gross)
}

func TestComputeSplitsStatutoryAndWithinCompanyRates(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	emp.BasePay = d("173000")
	emp.DutyAllowance = decimal.Zero // hourly = exactly 1000

	agg := attendance.MonthlyAggregate{
		Month:                    "2026-04",
		StatutoryOvertimeMinutes: 240, // 4h at 1.25
		WithinCompanyMinutes:     120, // 2h at 1.00
	}

	result, err := calc.Compute(emp, agg)
	require.NoError(t, err)
	assert.True(t, result.OvertimePay.Equal(d("7000")), "got %s", result.OvertimePay)
}

func TestComputeFixedOvertimeAbsorption(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	emp.BasePay = d("300000")
	emp.DutyAllowance = decimal.Zero
	emp.AverageMonthlyHours = d("160") // hourly = 1875
	emp.FixedOvertimeHours = d("20")
	emp.FixedOvertimePay = d("40000")

	t.Run("actual hours under the allotment pay the flat amount", func(t *testing.T) {
		agg := attendance.MonthlyAggregate{Month: "2026-04", StatutoryOvertimeMinutes: 600} // 10h < 20h
		result, err := calc.Compute(emp, agg)
		require.NoError(t, err)
		assert.True(t, result.OvertimePay.Equal(d("40000")), "got %s", result.OvertimePay)
	})

	t.Run("zero overtime still pays the flat amount", func(t *testing.T) {
		result, err := calc.Compute(emp, attendance.MonthlyAggregate{Month: "2026-04"})
		require.NoError(t, err)
		assert.True(t, result.OvertimePay.Equal(d("40000")), "got %s", result.OvertimePay)
	})

	t.Run("excess over the allotment is paid at the statutory rate", func(t *testing.T) {
		// 18h statutory + 7h within-company = 25h; 5h excess.
		agg := attendance.MonthlyAggregate{
			Month:                    "2026-04",
			StatutoryOvertimeMinutes: 1080,
			WithinCompanyMinutes:     420,
		}
		result, err := calc.Compute(emp, agg)
		require.NoError(t, err)
		// 40000 + ceil(1875 × 5 × 1.25) = 40000 + 11719
		assert.True(t, result.OvertimePay.Equal(d("51719")), "got %s", result.OvertimePay)
	})

	t.Run("late-night and holiday premiums are never absorbed", func(t *testing.T) {
		agg := attendance.MonthlyAggregate{
			Month:            "2026-04",
			LateNightMinutes: 120, // 2h × 1.25
			HolidayMinutes:   480, // 8h × 1.35
		}
		result, err := calc.Compute(emp, agg)
		require.NoError(t, err)
		assert.True(t, result.OvertimePay.Equal(d("40000")))
		// ceil(1875×2×1.25) and 1875×8×1.35 respectively.
		assert.True(t, result.LateNightPay.Equal(d("4688")), "got %s", result.LateNightPay)
		assert.True(t, result.HolidayPay.Equal(d("20250")), "got %s", result.HolidayPay)
	})
}

func TestComputeDeductionsFloorToWholeYen(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	emp.NursingCareInsured = true
	agg := attendance.MonthlyAggregate{Month: "2026-04"}

	result, err := calc.Compute(emp, agg)
	require.NoError(t, err)

	// Standard monthly 220000: health 0.0499, nursing 0.0091, pension 0.0915.
	assert.True(t, result.HealthInsurance.Equal(d("10978")), "got %s", result.HealthInsurance)
	assert.True(t, result.NursingCareInsurance.Equal(d("2002")), "got %s", result.NursingCareInsurance)
	assert.True(t, result.PensionInsurance.Equal(d("20130")), "got %s", result.PensionInsurance)
	// Employment insurance on gross (220000 × 0.006 = 1320).
	assert.True(t, result.EmploymentInsurance.Equal(d("1320")), "got %s", result.EmploymentInsurance)

	expectedNet := result.Gross.Sub(result.TotalDeductions)
	assert.True(t, result.Net.Equal(expectedNet))
}

func TestComputeInsuranceFlagsGateDeductions(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	emp.NursingCareInsured = false
	emp.PensionInsured = false
	emp.EmploymentInsured = false

	result, err := calc.Compute(emp, attendance.MonthlyAggregate{Month: "2026-04"})
	require.NoError(t, err)

	assert.True(t, result.NursingCareInsurance.IsZero())
	assert.True(t, result.PensionInsurance.IsZero())
	assert.True(t, result.EmploymentInsurance.IsZero())
	// Health applies regardless of the optional flags.
	assert.True(t, result.HealthInsurance.IsPositive())
	// Employer child levy is unconditional: 220000 × 0.0036.
	assert.True(t, result.EmployerChildLevy.Equal(d("792")), "got %s", result.EmployerChildLevy)
}

func TestComputeWithholdingOverrideBypassesBrackets(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	override := d("12345")
	emp.WithholdingOverride = &override

	result, err := calc.Compute(emp, attendance.MonthlyAggregate{Month: "2026-04"})
	require.NoError(t, err)
	assert.True(t, result.IncomeTax.Equal(override))
}

func TestComputeRejectsOfficerWithEmploymentInsurance(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	emp.Classification = employee.ClassificationOfficer
	emp.EmploymentInsured = true

	_, err := calc.Compute(emp, attendance.MonthlyAggregate{Month: "2026-04"})
	assert.ErrorIs(t, err, employee.ErrOfficerEmploymentInsurance)
}

func TestComputeRejectsZeroAverageHours(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	emp.AverageMonthlyHours = decimal.Zero

	_, err := calc.Compute(emp, attendance.MonthlyAggregate{Month: "2026-04"})
	assert.ErrorIs(t, err, payroll.ErrZeroAverageHours)
}

func TestComputeRejectsNegativeMinutes(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	agg := attendance.MonthlyAggregate{Month: "2026-04", StatutoryOvertimeMinutes: -60}

	_, err := calc.Compute(regularEmployee(), agg)
	assert.ErrorIs(t, err, payroll.ErrNegativeHours)
}

func TestComputeZeroAggregateIsTotal(t *testing.T) {
	// Payroll is a total function over active employees: a month with no
	// synced attendance still produces base pay minus fixed deductions.
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()

	result, err := calc.Compute(emp, attendance.MonthlyAggregate{Month: "2026-04"})
	require.NoError(t, err)

	assert.True(t, result.Gross.Equal(d("220000")), "got %s", result.Gross)
	assert.True(t, result.OvertimePay.IsZero())
	assert.True(t, result.Net.IsPositive())
	assert.True(t, result.Net.LessThan(result.Gross))
}

func TestComputeOvertimeAlwaysRoundsUp(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()

	hourly := emp.BasePay.Add(emp.DutyAllowance).Div(emp.AverageMonthlyHours)
	for minutes := 0; minutes <= 600; minutes += 37 {
		agg := attendance.MonthlyAggregate{Month: "2026-04", StatutoryOvertimeMinutes: minutes}
		result, err := calc.Compute(emp, agg)
		require.NoError(t, err)

		exact := hourly.Mul(agg.StatutoryOvertimeHours()).Mul(d("1.25"))
		assert.True(t, result.OvertimePay.GreaterThanOrEqual(exact),
			"minutes=%d pay=%s exact=%s", minutes, result.OvertimePay, exact)
		assert.True(t, result.OvertimePay.Sub(exact).LessThan(d("1")))
		assert.True(t, result.OvertimePay.Equal(result.OvertimePay.Floor()), "whole yen")
	}
}

func TestComputeAdjustmentsFlowIntoGross(t *testing.T) {
	calc := NewCalculator(rates.DefaultConfig())
	emp := regularEmployee()
	agg := attendance.MonthlyAggregate{
		Month:              "2026-04",
		BasePayAdjustment:  d("-5000"),
		OvertimeAdjustment: d("3000"),
		OtherAllowance:     d("1500"),
	}

	result, err := calc.Compute(emp, agg)
	require.NoError(t, err)
	assert.True(t, result.Gross.Equal(d("219500")), "got %s", result.Gross)
}

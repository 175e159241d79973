package rates

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsuranceRates holds the premium rates applied to the standard monthly
// remuneration (or to gross pay, for employment insurance).
type InsuranceRates struct {
	Health      decimal.Decimal
	NursingCare decimal.Decimal
	Pension     decimal.Decimal
	Employment  decimal.Decimal
}

// OvertimeMultipliers holds the premium multipliers per overtime category.
type OvertimeMultipliers struct {
	Statutory     decimal.Decimal // hours beyond the legal threshold
	WithinCompany decimal.Decimal // beyond schedule but within the legal limit
	LateNight     decimal.Decimal
	Holiday       decimal.Decimal
}

// InsuranceGrade is one band of the standard monthly remuneration table.
// Bands are contiguous and ordered by Grade. The top band is open-ended,
// which is represented by a zero Upper bound.
type InsuranceGrade struct {
	Grade           int
	Lower           decimal.Decimal
	Upper           decimal.Decimal
	StandardMonthly decimal.Decimal
}

// OpenEnded reports whether the band has no upper bound.
func (g InsuranceGrade) OpenEnded() bool {
	return g.Upper.IsZero()
}

// Contains reports whether amount falls in [Lower, Upper). The top band
// accepts every amount at or above its lower bound.
func (g InsuranceGrade) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(g.Lower) {
		return false
	}
	return g.OpenEnded() || amount.LessThan(g.Upper)
}

// TaxBracket is one row of the progressive withholding table, ordered by
// Threshold. A flat bracket has Rate zero and pays Flat; a linear bracket
// pays floor((taxable - SlopeFrom) * Rate + Base).
type TaxBracket struct {
	Threshold decimal.Decimal
	Flat      decimal.Decimal
	Rate      decimal.Decimal
	Base      decimal.Decimal
	SlopeFrom decimal.Decimal
}

// Config is the full rate/bracket configuration for one computation run.
// It is an immutable snapshot: the engine receives it as a parameter and
// never mutates it, so historical months can be recomputed with the table
// in effect at the time.
type Config struct {
	Version       string
	EffectiveFrom time.Time
	EmployeeRates InsuranceRates
	EmployerRates InsuranceRates
	ChildLevyRate decimal.Decimal // employer-only contribution on standard monthly remuneration
	Multipliers   OvertimeMultipliers
	Grades        []InsuranceGrade
	TaxBrackets   []TaxBracket
}

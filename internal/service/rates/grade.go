package rates

import (
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/shopspring/decimal"
)

// GradeForAmount returns the band whose [lower, upper) range contains the
// amount. The top band is open-ended. Amounts below the first band's
// lower bound resolve to the first band, since the table is meant to
// cover every remuneration the roster can hold.
func GradeForAmount(cfg rates.Config, amount decimal.Decimal) (rates.InsuranceGrade, error) {
	if len(cfg.Grades) == 0 {
		return rates.InsuranceGrade{}, rates.ErrEmptyGradeTable
	}

	for _, grade := range cfg.Grades {
		if grade.Contains(amount) {
			return grade, nil
		}
	}

	// Below the first band's lower bound.
	return cfg.Grades[0], nil
}

// GradeForStandardMonthly returns the band whose standard monthly
// remuneration equals value exactly. A miss returns ErrGradeNotOnTable,
// which callers treat as a warning: manually entered off-table values
// are tolerated.
func GradeForStandardMonthly(cfg rates.Config, value decimal.Decimal) (rates.InsuranceGrade, error) {
	if len(cfg.Grades) == 0 {
		return rates.InsuranceGrade{}, rates.ErrEmptyGradeTable
	}

	for _, grade := range cfg.Grades {
		if grade.StandardMonthly.Equal(value) {
			return grade, nil
		}
	}
	return rates.InsuranceGrade{}, rates.ErrGradeNotOnTable
}

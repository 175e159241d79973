package rates

import (
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/shopspring/decimal"
)

// EstimateWithholding returns the monthly income tax withheld for the
// taxable amount (gross minus insurance deductions). A non-nil override
// is returned verbatim with no bracket lookup. Every bracket formula
// rounds down to the nearest whole yen.
func EstimateWithholding(cfg rates.Config, taxable decimal.Decimal, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	if len(cfg.TaxBrackets) == 0 {
		return decimal.Zero, rates.ErrEmptyTaxBrackets
	}

	// Brackets are ordered by threshold; take the last one at or below
	// the taxable amount.
	bracket := cfg.TaxBrackets[0]
	for _, b := range cfg.TaxBrackets {
		if taxable.LessThan(b.Threshold) {
			break
		}
		bracket = b
	}

	if bracket.Rate.IsZero() {
		return bracket.Flat, nil
	}
	return taxable.Sub(bracket.SlopeFrom).Mul(bracket.Rate).Add(bracket.Base).Floor(), nil
}

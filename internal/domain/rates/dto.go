package rates

import (
	"time"

	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type InsuranceRatesPayload struct {
	Health      decimal.Decimal `json:"health"`
	NursingCare decimal.Decimal `json:"nursing_care"`
	Pension     decimal.Decimal `json:"pension"`
	Employment  decimal.Decimal `json:"employment"`
}

type MultipliersPayload struct {
	Statutory     decimal.Decimal `json:"statutory"`
	WithinCompany decimal.Decimal `json:"within_company"`
	LateNight     decimal.Decimal `json:"late_night"`
	Holiday       decimal.Decimal `json:"holiday"`
}

type GradePayload struct {
	Grade           int             `json:"grade"`
	Lower           decimal.Decimal `json:"lower"`
	Upper           decimal.Decimal `json:"upper"` // zero on the open-ended top band
	StandardMonthly decimal.Decimal `json:"standard_monthly"`
}

type BracketPayload struct {
	Threshold decimal.Decimal `json:"threshold"`
	Flat      decimal.Decimal `json:"flat"`
	Rate      decimal.Decimal `json:"rate"`
	Base      decimal.Decimal `json:"base"`
	SlopeFrom decimal.Decimal `json:"slope_from"`
}

// SaveConfigRequest stores a new configuration version. Saving never
// touches past snapshots: historical months keep computing with the
// version that was effective at the time.
type SaveConfigRequest struct {
	Version       string                `json:"version"`
	EffectiveFrom string                `json:"effective_from"` // YYYY-MM-DD
	EmployeeRates InsuranceRatesPayload `json:"employee_rates"`
	EmployerRates InsuranceRatesPayload `json:"employer_rates"`
	ChildLevyRate decimal.Decimal       `json:"child_levy_rate"`
	Multipliers   MultipliersPayload    `json:"multipliers"`
	Grades        []GradePayload        `json:"grades"`
	TaxBrackets   []BracketPayload      `json:"tax_brackets"`
}

func (r *SaveConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Version) {
		errs = append(errs, validator.ValidationError{Field: "version", Message: "version is required"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be in YYYY-MM-DD format"})
	}
	if len(r.Grades) == 0 {
		errs = append(errs, validator.ValidationError{Field: "grades", Message: "at least one insurance grade is required"})
	}
	for i := 1; i < len(r.Grades); i++ {
		prev, cur := r.Grades[i-1], r.Grades[i]
		if cur.Grade <= prev.Grade || !cur.Lower.Equal(prev.Upper) {
			errs = append(errs, validator.ValidationError{Field: "grades", Message: "grades must be ordered and contiguous"})
			break
		}
	}
	if len(r.Grades) > 0 && !r.Grades[len(r.Grades)-1].Upper.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "grades", Message: "top grade must be open-ended"})
	}
	if len(r.TaxBrackets) == 0 {
		errs = append(errs, validator.ValidationError{Field: "tax_brackets", Message: "at least one tax bracket is required"})
	}
	for i := 1; i < len(r.TaxBrackets); i++ {
		if !r.TaxBrackets[i].Threshold.GreaterThan(r.TaxBrackets[i-1].Threshold) {
			errs = append(errs, validator.ValidationError{Field: "tax_brackets", Message: "bracket thresholds must be strictly increasing"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToConfig builds the immutable configuration snapshot from a validated
// request.
func (r *SaveConfigRequest) ToConfig() Config {
	effectiveFrom, _ := validator.IsValidDate(r.EffectiveFrom)

	cfg := Config{
		Version:       r.Version,
		EffectiveFrom: effectiveFrom,
		EmployeeRates: InsuranceRates(r.EmployeeRates),
		EmployerRates: InsuranceRates(r.EmployerRates),
		ChildLevyRate: r.ChildLevyRate,
		Multipliers:   OvertimeMultipliers(r.Multipliers),
	}
	for _, g := range r.Grades {
		cfg.Grades = append(cfg.Grades, InsuranceGrade(g))
	}
	for _, b := range r.TaxBrackets {
		cfg.TaxBrackets = append(cfg.TaxBrackets, TaxBracket(b))
	}
	return cfg
}

type ConfigResponse struct {
	Version       string                `json:"version"`
	EffectiveFrom string                `json:"effective_from"`
	EmployeeRates InsuranceRatesPayload `json:"employee_rates"`
	EmployerRates InsuranceRatesPayload `json:"employer_rates"`
	ChildLevyRate decimal.Decimal       `json:"child_levy_rate"`
	Multipliers   MultipliersPayload    `json:"multipliers"`
	Grades        []GradePayload        `json:"grades"`
	TaxBrackets   []BracketPayload      `json:"tax_brackets"`
}

// ToResponse flattens a configuration into its wire form.
func (c Config) ToResponse() ConfigResponse {
	resp := ConfigResponse{
		Version:       c.Version,
		EffectiveFrom: c.EffectiveFrom.Format(time.DateOnly),
		EmployeeRates: InsuranceRatesPayload(c.EmployeeRates),
		EmployerRates: InsuranceRatesPayload(c.EmployerRates),
		ChildLevyRate: c.ChildLevyRate,
		Multipliers:   MultipliersPayload(c.Multipliers),
	}
	for _, g := range c.Grades {
		resp.Grades = append(resp.Grades, GradePayload(g))
	}
	for _, b := range c.TaxBrackets {
		resp.TaxBrackets = append(resp.TaxBrackets, BracketPayload(b))
	}
	return resp
}

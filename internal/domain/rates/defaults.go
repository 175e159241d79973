package rates

import (
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func yen(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// DefaultConfig returns the built-in configuration used for seeding and
// tests. Production runs load a versioned snapshot from the configuration
// store instead; rates and brackets change yearly.
func DefaultConfig() Config {
	return Config{
		Version:       "default",
		EffectiveFrom: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		EmployeeRates: InsuranceRates{
			Health:      d("0.0499"),
			NursingCare: d("0.0091"),
			Pension:     d("0.0915"),
			Employment:  d("0.006"),
		},
		EmployerRates: InsuranceRates{
			Health:      d("0.0499"),
			NursingCare: d("0.0091"),
			Pension:     d("0.0915"),
			Employment:  d("0.0095"),
		},
		ChildLevyRate: d("0.0036"),
		Multipliers: OvertimeMultipliers{
			Statutory:     d("1.25"),
			WithinCompany: d("1.00"),
			LateNight:     d("1.25"),
			Holiday:       d("1.35"),
		},
		Grades:      defaultGrades(),
		TaxBrackets: defaultTaxBrackets(),
	}
}

// defaultGrades is a standard monthly remuneration table. Bands are
// lower-inclusive, upper-exclusive; the last band is open-ended.
func defaultGrades() []InsuranceGrade {
	rows := []struct {
		grade           int
		lower, upper    int64
		standardMonthly int64
	}{
		{1, 0, 63000, 58000},
		{2, 63000, 73000, 68000},
		{3, 73000, 83000, 78000},
		{4, 83000, 93000, 88000},
		{5, 93000, 101000, 98000},
		{6, 101000, 107000, 104000},
		{7, 107000, 114000, 110000},
		{8, 114000, 122000, 118000},
		{9, 122000, 130000, 126000},
		{10, 130000, 138000, 134000},
		{11, 138000, 146000, 142000},
		{12, 146000, 155000, 150000},
		{13, 155000, 165000, 160000},
		{14, 165000, 175000, 170000},
		{15, 175000, 185000, 180000},
		{16, 185000, 195000, 190000},
		{17, 195000, 210000, 200000},
		{18, 210000, 230000, 220000},
		{19, 230000, 250000, 240000},
		{20, 250000, 270000, 260000},
		{21, 270000, 290000, 280000},
		{22, 290000, 310000, 300000},
		{23, 310000, 330000, 320000},
		{24, 330000, 350000, 340000},
		{25, 350000, 370000, 360000},
		{26, 370000, 395000, 380000},
		{27, 395000, 425000, 410000},
		{28, 425000, 455000, 440000},
		{29, 455000, 485000, 470000},
		{30, 485000, 515000, 500000},
		{31, 515000, 545000, 530000},
		{32, 545000, 575000, 560000},
		{33, 575000, 605000, 590000},
		{34, 605000, 635000, 620000},
		{35, 635000, 0, 650000}, // open-ended top band
	}

	grades := make([]InsuranceGrade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, InsuranceGrade{
			Grade:           r.grade,
			Lower:           yen(r.lower),
			Upper:           yen(r.upper),
			StandardMonthly: yen(r.standardMonthly),
		})
	}
	return grades
}

// defaultTaxBrackets is the simplified single-column monthly withholding
// table. All bracket formulas round down to the nearest whole yen.
func defaultTaxBrackets() []TaxBracket {
	return []TaxBracket{
		{Threshold: yen(0), Flat: yen(0)},
		{Threshold: yen(88000), Flat: yen(130)},
		{Threshold: yen(89000), Rate: d("0.05"), Base: yen(0), SlopeFrom: yen(88000)},
		{Threshold: yen(100000), Rate: d("0.1023"), Base: yen(630), SlopeFrom: yen(100000)},
		{Threshold: yen(409000), Rate: d("0.2046"), Base: yen(31628), SlopeFrom: yen(409000)},
	}
}

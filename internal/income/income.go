// Package income rolls rent assumptions up into gross income, vacancy loss,
// operating expenses, NOI and annual debt service.
package income

import "github.com/sells-group/deal-cli/internal/model"

// Statement is the stabilized first-year income/expense rollup.
type Statement struct {
	GrossMonthlyIncome       float64 `json:"gross_monthly_income"`  // GMI
	MonthlyVacancyLoss       float64 `json:"monthly_vacancy_loss"`  // VCL
	AnnualGrossIncome        float64 `json:"annual_gross_income"`   // GMI × 12
	AnnualVacancyLoss        float64 `json:"annual_vacancy_loss"`   // VCL × 12
	AnnualOperatingExpenses  float64 `json:"annual_operating_expenses"`
	MonthlyOperatingExpenses float64 `json:"monthly_operating_expenses"`
	NOI                      float64 `json:"noi"`
}

// GrossMonthlyIncome returns GMI = monthly rent + other property income.
func GrossMonthlyIncome(monthlyRent, otherIncome float64) float64 {
	return monthlyRent + otherIncome
}

// VacancyCreditLoss returns VCL = GMI × vacancy rate.
func VacancyCreditLoss(gmi, vacancyRate float64) float64 {
	return gmi * vacancyRate
}

// AnnualOperatingExpenses returns OE = opex rate × GMI × 12. The rate applies
// to gross rent, before vacancy.
func AnnualOperatingExpenses(gmi, operatingExpenseRate float64) float64 {
	return operatingExpenseRate * gmi * 12
}

// NOI returns (GMI − VCL) × 12 − annual OE.
func NOI(gmi, vcl, annualOE float64) float64 {
	return (gmi-vcl)*12 - annualOE
}

// AnnualDebtService returns ADS = 12 × monthly payment.
func AnnualDebtService(monthlyPayment float64) float64 {
	return 12 * monthlyPayment
}

// Rollup computes the full statement for the given rent assumptions.
func Rollup(r model.RentAssumptions) Statement {
	gmi := GrossMonthlyIncome(r.MonthlyRent, r.OtherMonthlyIncome)
	vcl := VacancyCreditLoss(gmi, r.VacancyRate)
	oe := AnnualOperatingExpenses(gmi, r.OperatingExpenseRate)
	return Statement{
		GrossMonthlyIncome:       gmi,
		MonthlyVacancyLoss:       vcl,
		AnnualGrossIncome:        gmi * 12,
		AnnualVacancyLoss:        vcl * 12,
		AnnualOperatingExpenses:  oe,
		MonthlyOperatingExpenses: oe / 12,
		NOI:                      NOI(gmi, vcl, oe),
	}
}

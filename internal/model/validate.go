package model

import (
	"math"
	"strconv"
)

// Horizon bounds for cash-flow projection.
const (
	MinHorizonYears     = 1
	MaxHorizonYears     = 50
	DefaultHorizonYears = 30
)

type validator struct {
	errs ValidationErrors
}

func (v *validator) add(field, reason string) {
	v.errs = append(v.errs, NewInvalidInput(field, reason))
}

func (v *validator) positive(field string, x float64) {
	if math.IsNaN(x) || x <= 0 {
		v.add(field, "must be > 0")
	}
}

func (v *validator) nonNegative(field string, x float64) {
	if math.IsNaN(x) || x < 0 {
		v.add(field, "must be >= 0")
	}
}

func (v *validator) fraction(field string, x float64) {
	if math.IsNaN(x) || x < 0 || x > 1 {
		v.add(field, "must be within [0, 1]")
	}
}

// Validate checks the property fields the engine depends on.
func (p Property) Validate() error {
	var v validator
	p.validate(&v)
	return v.errs.orNil()
}

func (p Property) validate(v *validator) {
	v.positive("property.price", p.Price)
	v.positive("property.surface_m2", p.SurfaceM2)
	if p.Rooms < 0 {
		v.add("property.rooms", "must be >= 0")
	}
	if p.Bedrooms < 0 {
		v.add("property.bedrooms", "must be >= 0")
	}
}

// Validate checks financing amounts, rate and term.
func (f FinancingTerms) Validate() error {
	var v validator
	f.validate(&v)
	return v.errs.orNil()
}

func (f FinancingTerms) validate(v *validator) {
	v.nonNegative("financing.down_payment", f.DownPayment)
	v.nonNegative("financing.loan_amount", f.LoanAmount)
	v.nonNegative("financing.annual_rate", f.AnnualRate)
	v.nonNegative("financing.closing_costs", f.ClosingCosts)
	v.nonNegative("financing.renovation_costs", f.RenovationCosts)
	if f.TermYears < 1 {
		v.add("financing.term_years", "must be >= 1")
	}
}

// Validate checks rent and rate bounds.
func (r RentAssumptions) Validate() error {
	var v validator
	r.validate(&v)
	return v.errs.orNil()
}

func (r RentAssumptions) validate(v *validator) {
	v.nonNegative("rent.monthly_rent", r.MonthlyRent)
	v.nonNegative("rent.other_monthly_income", r.OtherMonthlyIncome)
	v.fraction("rent.vacancy_rate", r.VacancyRate)
	v.fraction("rent.operating_expense_rate", r.OperatingExpenseRate)
	v.nonNegative("rent.rent_escalation_rate", r.RentEscalationRate)
}

// ValidateHorizon checks a projection horizon in years.
func ValidateHorizon(years int) error {
	if years < MinHorizonYears || years > MaxHorizonYears {
		return NewInvalidInput("horizon_years", "must be within [1, 50]")
	}
	return nil
}

// Validate checks every field of the deal and returns all problems at once.
func (d Deal) Validate() error {
	var v validator
	d.Property.validate(&v)
	d.Financing.validate(&v)
	d.Rent.validate(&v)
	v.nonNegative("costs.monthly_insurance", d.Costs.MonthlyInsurance)
	v.nonNegative("costs.monthly_management_fee", d.Costs.MonthlyManagementFee)

	if d.HorizonYears != 0 && (d.HorizonYears < MinHorizonYears || d.HorizonYears > MaxHorizonYears) {
		v.add("horizon_years", "must be within [1, 50]")
	}
	if d.AppreciationRate != nil && *d.AppreciationRate <= -1 {
		v.add("appreciation_rate", "must be > -1")
	}
	if d.MarginalTaxRate != nil {
		v.fraction("marginal_tax_rate", *d.MarginalTaxRate)
	}
	for i, c := range d.Comparables {
		if c.PricePerM2 <= 0 {
			v.add("comparables["+strconv.Itoa(i)+"].price_per_m2", "must be > 0")
		}
	}
	return v.errs.orNil()
}

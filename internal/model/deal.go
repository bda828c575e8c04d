// Package model defines the value objects consumed and produced by the deal
// evaluation engine. Values are built once per evaluation and never mutated.
package model

import "time"

// Property describes the asset being purchased.
type Property struct {
	Price      float64 `json:"price" yaml:"price"`
	SurfaceM2  float64 `json:"surface_m2" yaml:"surface_m2"`
	Rooms      int     `json:"rooms" yaml:"rooms"`
	Bedrooms   int     `json:"bedrooms" yaml:"bedrooms"`
	PostalCode string  `json:"postal_code" yaml:"postal_code"`
	DPEGrade   string  `json:"dpe_grade,omitempty" yaml:"dpe_grade"` // energy grade A-G
}

// FinancingTerms describes how the purchase is funded. DownPayment +
// LoanAmount should roughly equal Price + fees; the caller owns that check.
type FinancingTerms struct {
	DownPayment     float64 `json:"down_payment" yaml:"down_payment"`
	LoanAmount      float64 `json:"loan_amount" yaml:"loan_amount"`
	AnnualRate      float64 `json:"annual_rate" yaml:"annual_rate"`
	TermYears       int     `json:"term_years" yaml:"term_years"`
	ClosingCosts    float64 `json:"closing_costs,omitempty" yaml:"closing_costs"`
	RenovationCosts float64 `json:"renovation_costs,omitempty" yaml:"renovation_costs"`
}

// InitialOutlay is the cash invested at year 0.
func (f FinancingTerms) InitialOutlay() float64 {
	return f.DownPayment + f.ClosingCosts + f.RenovationCosts
}

// RentAssumptions holds the income side of the deal. Rates are fractions.
type RentAssumptions struct {
	MonthlyRent          float64 `json:"monthly_rent" yaml:"monthly_rent"`
	OtherMonthlyIncome   float64 `json:"other_monthly_income,omitempty" yaml:"other_monthly_income"`
	VacancyRate          float64 `json:"vacancy_rate" yaml:"vacancy_rate"`
	OperatingExpenseRate float64 `json:"operating_expense_rate" yaml:"operating_expense_rate"` // fraction of gross rent
	RentEscalationRate   float64 `json:"rent_escalation_rate,omitempty" yaml:"rent_escalation_rate"`
}

// OwnershipCosts are monthly charges that enter TMC but not NOI.
type OwnershipCosts struct {
	MonthlyInsurance     float64 `json:"monthly_insurance,omitempty" yaml:"monthly_insurance"`
	MonthlyManagementFee float64 `json:"monthly_management_fee,omitempty" yaml:"monthly_management_fee"`
}

// ComparableSale is one DVF transaction supplied by a valuation collaborator.
type ComparableSale struct {
	PricePerM2 float64   `json:"price_per_m2" yaml:"price_per_m2"`
	SaleDate   time.Time `json:"sale_date" yaml:"sale_date"`
	SurfaceM2  float64   `json:"surface_m2" yaml:"surface_m2"`
}

// ListingAdjustments are the transparent listing signals behind the listing delta.
type ListingAdjustments struct {
	PriceCutPct        float64 `json:"price_cut_pct,omitempty" yaml:"price_cut_pct"` // e.g. -0.10
	DaysOnMarket       int     `json:"days_on_market,omitempty" yaml:"days_on_market"`
	MedianDaysOnMarket int     `json:"median_days_on_market,omitempty" yaml:"median_days_on_market"`
	ConditionPenalty   float64 `json:"condition_penalty,omitempty" yaml:"condition_penalty"`
}

// Deal bundles every input of a single evaluation.
type Deal struct {
	Name        string           `json:"name" yaml:"name"`
	Property    Property         `json:"property" yaml:"property"`
	Financing   FinancingTerms   `json:"financing" yaml:"financing"`
	Rent        RentAssumptions  `json:"rent" yaml:"rent"`
	Costs       OwnershipCosts   `json:"costs" yaml:"costs"`
	TaxRegime   string           `json:"tax_regime,omitempty" yaml:"tax_regime"`
	Comparables []ComparableSale `json:"comparables,omitempty" yaml:"comparables"`

	// MarketDelta and ListingDelta are pre-computed adjustment factors. When
	// ListingDelta is nil it is derived from Listing.
	MarketDelta  float64             `json:"market_delta,omitempty" yaml:"market_delta"`
	ListingDelta *float64            `json:"listing_delta,omitempty" yaml:"listing_delta"`
	Listing      *ListingAdjustments `json:"listing,omitempty" yaml:"listing"`

	// Overrides. Zero/nil means "use policy or reference data".
	HorizonYears     int      `json:"horizon_years,omitempty" yaml:"horizon_years"`
	AppreciationRate *float64 `json:"appreciation_rate,omitempty" yaml:"appreciation_rate"`
	MarginalTaxRate  *float64 `json:"marginal_tax_rate,omitempty" yaml:"marginal_tax_rate"`
}

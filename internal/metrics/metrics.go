// Package metrics computes coverage and return ratios for a deal.
//
// Ratios that have no meaningful value for a given input (DSCR without debt
// service, CoC without invested cash) return ErrUndefinedMetric instead of a
// placeholder number, and are carried as nil in a Snapshot.
package metrics

import (
	"github.com/rotisserie/eris"
)

// ErrUndefinedMetric marks a ratio whose denominator is zero by construction.
// It is not fatal: the rest of the evaluation is still computed.
var ErrUndefinedMetric = eris.New("metric undefined")

// DSCR returns the Debt Service Coverage Ratio.
//
// FORMULA: DSCR = NOI ÷ ADS
//
// An all-cash purchase (ADS = 0) has no debt to cover; the ratio is
// undefined rather than zero or infinite.
func DSCR(noi, ads float64) (float64, error) {
	if ads == 0 {
		return 0, eris.Wrap(ErrUndefinedMetric, "dscr: no annual debt service")
	}
	return noi / ads, nil
}

// CapRate returns NOI ÷ purchase price. Price is validated > 0 upstream;
// a non-positive price returns 0.
func CapRate(noi, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return noi / price
}

// PreTaxCashFlow returns the annual pre-tax cash flow, NOI − ADS.
func PreTaxCashFlow(noi, ads float64) float64 {
	return noi - ads
}

// CashOnCash returns annual pre-tax cash flow ÷ initial cash invested.
func CashOnCash(annualPreTaxCashFlow, initialCash float64) (float64, error) {
	if initialCash == 0 {
		return 0, eris.Wrap(ErrUndefinedMetric, "coc: no initial cash invested")
	}
	return annualPreTaxCashFlow / initialCash, nil
}

// LTV returns loan amount ÷ purchase price.
func LTV(loanAmount, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return loanAmount / price
}

// PricePerM2 returns price ÷ surface.
func PricePerM2(price, surfaceM2 float64) float64 {
	if surfaceM2 <= 0 {
		return 0
	}
	return price / surfaceM2
}

// PriceToRent returns the number of years of gross rent needed to recover
// the price: price ÷ (monthly rent × 12).
func PriceToRent(price, monthlyRent float64) (float64, error) {
	if monthlyRent <= 0 {
		return 0, eris.Wrap(ErrUndefinedMetric, "price-to-rent: no rent")
	}
	return price / (monthlyRent * 12), nil
}

// YieldOnCost returns stabilized NOI ÷ (price + capex).
func YieldOnCost(noi, price, capex float64) float64 {
	total := price + capex
	if total <= 0 {
		return 0
	}
	return noi / total
}

// TMCInput holds the monthly components of total monthly cost.
type TMCInput struct {
	MonthlyPayment           float64 // principal + interest
	MonthlyOperatingExpenses float64
	MonthlyInsurance         float64
	MonthlyManagementFee     float64
	MonthlyTaxEffect         float64 // positive = tax saving, negative = extra tax
}

// TMC returns the total monthly cost of ownership.
//
// FORMULA: TMC = P + I + monthly OE + insurance + management − monthly tax effect
func TMC(in TMCInput) float64 {
	return in.MonthlyPayment + in.MonthlyOperatingExpenses + in.MonthlyInsurance +
		in.MonthlyManagementFee - in.MonthlyTaxEffect
}

// IsUndefined reports whether err marks an undefined metric.
func IsUndefined(err error) bool {
	return eris.Is(err, ErrUndefinedMetric)
}

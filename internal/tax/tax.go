// Package tax computes taxable income and tax for the French rental regimes
// the engine supports: LMNP micro-BIC, location nue micro-foncier and régime
// réel.
package tax

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Regime defaults.
const (
	DefaultMicroBICAbatement     = 0.50
	DefaultMicroFoncierAbatement = 0.30
	DefaultSocialChargesRate     = 0.172
)

// Regime names accepted by ParseRegime.
const (
	NameMicroBIC     = "lmnp_micro_bic"
	NameMicroFoncier = "location_nue_micro_foncier"
	NameReel         = "regime_reel"
)

// ErrUnknownRegime is returned for a regime name or value the calculator does
// not handle.
var ErrUnknownRegime = eris.New("tax: unknown regime")

// Regime is the closed set of supported tax regimes. Only types in this
// package implement it.
type Regime interface {
	Name() string
	regime()
}

// MicroBIC is the furnished-rental regime: a flat abatement on gross rent.
type MicroBIC struct {
	AbatementRate float64
}

// MicroFoncier is the unfurnished-rental regime: a flat abatement on gross rent.
type MicroFoncier struct {
	FlatAbatement float64
}

// Reel taxes gross rent net of actual expenses and loan interest.
type Reel struct {
	DeductibleExpenses float64
	LoanInterest       float64
}

func (MicroBIC) Name() string     { return NameMicroBIC }
func (MicroFoncier) Name() string { return NameMicroFoncier }
func (Reel) Name() string         { return NameReel }

func (MicroBIC) regime()     {}
func (MicroFoncier) regime() {}
func (Reel) regime()         {}

// ParseRegime maps a regime name to its variant with default parameters.
// Reel is returned with zero expenses; callers fill them per year.
func ParseRegime(name string) (Regime, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameMicroBIC, "lmnp", "micro_bic":
		return MicroBIC{AbatementRate: DefaultMicroBICAbatement}, nil
	case NameMicroFoncier, "location_nue", "micro_foncier":
		return MicroFoncier{FlatAbatement: DefaultMicroFoncierAbatement}, nil
	case NameReel, "reel":
		return Reel{}, nil
	default:
		return nil, eris.Wrapf(ErrUnknownRegime, "tax: regime %q", name)
	}
}

// WithYear returns r with the year-specific deductions applied. Only Reel
// carries per-year deductions; the micro regimes are returned unchanged.
func WithYear(r Regime, operatingExpenses, loanInterest float64) Regime {
	if _, ok := r.(Reel); ok {
		return Reel{DeductibleExpenses: operatingExpenses, LoanInterest: loanInterest}
	}
	return r
}

// Input holds the regime-independent tax inputs.
type Input struct {
	GrossAnnualRent   float64
	MarginalRate      float64
	SocialChargesRate float64
}

// Result is the tax computed for one year under one regime.
type Result struct {
	Regime        string  `json:"regime"`
	TaxableIncome float64 `json:"taxable_income"`
	IncomeTax     float64 `json:"income_tax"`
	SocialCharges float64 `json:"social_charges"`
	TotalTax      float64 `json:"total_tax"`
	Deficit       float64 `json:"deficit"` // ≤ 0, réel only
}

// Compute returns the tax owed on in under regime r.
func Compute(r Regime, in Input) (Result, error) {
	if in.GrossAnnualRent < 0 || math.IsNaN(in.GrossAnnualRent) {
		return Result{}, eris.Errorf("tax: gross annual rent must be >= 0, got %v", in.GrossAnnualRent)
	}
	if in.MarginalRate < 0 || in.MarginalRate > 1 {
		return Result{}, eris.Errorf("tax: marginal rate must be within [0, 1], got %v", in.MarginalRate)
	}
	if in.SocialChargesRate < 0 || in.SocialChargesRate > 1 {
		return Result{}, eris.Errorf("tax: social charges rate must be within [0, 1], got %v", in.SocialChargesRate)
	}

	switch v := r.(type) {
	case MicroBIC:
		if v.AbatementRate < 0 || v.AbatementRate > 1 {
			return Result{}, eris.Errorf("tax: micro-BIC abatement must be within [0, 1], got %v", v.AbatementRate)
		}
		return flat(v.Name(), in.GrossAnnualRent*(1-v.AbatementRate), in), nil
	case MicroFoncier:
		if v.FlatAbatement < 0 || v.FlatAbatement > 1 {
			return Result{}, eris.Errorf("tax: micro-foncier abatement must be within [0, 1], got %v", v.FlatAbatement)
		}
		return flat(v.Name(), in.GrossAnnualRent*(1-v.FlatAbatement), in), nil
	case Reel:
		taxable := in.GrossAnnualRent - v.DeductibleExpenses - v.LoanInterest
		res := Result{
			Regime:        v.Name(),
			TaxableIncome: taxable,
			IncomeTax:     math.Max(0, taxable*in.MarginalRate),
			SocialCharges: math.Max(0, taxable*in.SocialChargesRate),
			Deficit:       math.Min(0, taxable),
		}
		res.TotalTax = res.IncomeTax + res.SocialCharges
		return res, nil
	default:
		return Result{}, eris.Wrapf(ErrUnknownRegime, "tax: %T", r)
	}
}

func flat(name string, taxable float64, in Input) Result {
	res := Result{
		Regime:        name,
		TaxableIncome: taxable,
		IncomeTax:     taxable * in.MarginalRate,
		SocialCharges: taxable * in.SocialChargesRate,
	}
	res.TotalTax = res.IncomeTax + res.SocialCharges
	return res
}

// MonthlyTax is the total annual tax spread over twelve months.
func (r Result) MonthlyTax() float64 {
	return r.TotalTax / 12
}

// AfterTaxMonthlyMargin returns pre-tax monthly cash flow − total tax ÷ 12.
func AfterTaxMonthlyMargin(preTaxMonthly float64, r Result) float64 {
	return preTaxMonthly - r.MonthlyTax()
}

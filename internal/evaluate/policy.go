package evaluate

import (
	"github.com/sells-group/deal-cli/internal/config"
	"github.com/sells-group/deal-cli/internal/model"
	"github.com/sells-group/deal-cli/internal/tax"
	"github.com/sells-group/deal-cli/internal/valuation"
)

// Verdict is the overall investment call on a deal.
type Verdict string

// Verdicts.
const (
	Buy     Verdict = "BUY"
	Caution Verdict = "CAUTION"
	Pass    Verdict = "PASS"
)

// Policy holds the caller-owned thresholds and defaults applied on top of the
// numeric engine.
type Policy struct {
	BuyMinDSCR        float64
	CautionMinDSCR    float64
	TargetIRR         float64
	DiscountRate      float64
	SellingCostRate   float64
	PriceBand         float64
	HorizonYears      int
	MarginalTaxRate   float64
	SocialChargesRate float64
	ForwardLooking    bool // apply the forward adjustment to appreciation lookups
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		BuyMinDSCR:        1.2,
		CautionMinDSCR:    1.0,
		TargetIRR:         0.06,
		DiscountRate:      0.05,
		SellingCostRate:   0.08,
		PriceBand:         valuation.DefaultBand,
		HorizonYears:      model.DefaultHorizonYears,
		MarginalTaxRate:   0.30,
		SocialChargesRate: tax.DefaultSocialChargesRate,
		ForwardLooking:    true,
	}
}

// PolicyFromConfig builds a Policy from the evaluation config section.
func PolicyFromConfig(c config.EvaluationConfig) Policy {
	return Policy{
		BuyMinDSCR:        c.BuyMinDSCR,
		CautionMinDSCR:    c.CautionMinDSCR,
		TargetIRR:         c.TargetIRR,
		DiscountRate:      c.DiscountRate,
		SellingCostRate:   c.SellingCostRate,
		PriceBand:         c.PriceBand,
		HorizonYears:      c.HorizonYears,
		MarginalTaxRate:   c.MarginalTaxRate,
		SocialChargesRate: c.SocialChargesRate,
		ForwardLooking:    c.ForwardLooking,
	}
}

// Verdict applies the threshold rules. A nil DSCR (no debt) counts as fully
// covered; a nil IRR never reaches BUY.
//
//	BUY     coverage ≥ BuyMinDSCR and IRR ≥ TargetIRR
//	CAUTION coverage in [CautionMinDSCR, BuyMinDSCR), or strong coverage with a low or missing IRR
//	PASS    coverage < CautionMinDSCR
func (p Policy) Verdict(dscr, irr *float64) Verdict {
	strong := dscr == nil || *dscr >= p.BuyMinDSCR
	irrOK := irr != nil && *irr >= p.TargetIRR

	switch {
	case strong && irrOK:
		return Buy
	case strong:
		return Caution
	case *dscr >= p.CautionMinDSCR:
		return Caution
	default:
		return Pass
	}
}

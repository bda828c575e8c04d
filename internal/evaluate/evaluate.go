// Package evaluate composes the calculation packages into a full deal
// evaluation: metrics, projection, returns, tax, valuation, rent compliance,
// strategy fit and an overall verdict.
package evaluate

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/deal-cli/internal/income"
	"github.com/sells-group/deal-cli/internal/metrics"
	"github.com/sells-group/deal-cli/internal/model"
	"github.com/sells-group/deal-cli/internal/projection"
	"github.com/sells-group/deal-cli/internal/refdata"
	"github.com/sells-group/deal-cli/internal/strategy"
	"github.com/sells-group/deal-cli/internal/tax"
	"github.com/sells-group/deal-cli/internal/tvm"
	"github.com/sells-group/deal-cli/internal/valuation"
)

// Report is the complete result of evaluating one deal.
type Report struct {
	ID                    string                      `json:"id"`
	Name                  string                      `json:"name"`
	Verdict               Verdict                     `json:"verdict"`
	Metrics               metrics.Snapshot            `json:"metrics"`
	Statement             income.Statement            `json:"statement"`
	AppreciationRate      float64                     `json:"appreciation_rate"`
	HorizonYears          int                         `json:"horizon_years"`
	CashFlows             []projection.YearlyCashFlow `json:"cash_flows"`
	Sale                  projection.Sale             `json:"sale"`
	Tax                   *tax.Result                 `json:"tax,omitempty"`
	AfterTaxMonthlyMargin *float64                    `json:"after_tax_monthly_margin,omitempty"`
	Valuation             *valuation.Result           `json:"valuation,omitempty"`
	RentCompliance        *refdata.Compliance         `json:"rent_compliance,omitempty"`
	Strategies            []strategy.Result           `json:"strategies"`
	IRRUnavailable        string                      `json:"irr_unavailable,omitempty"`
	Warnings              []string                    `json:"warnings,omitempty"`
}

// Evaluator runs evaluations against a fixed policy and reference tables.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	policy Policy
	tables *refdata.Tables
}

// New creates an Evaluator. tables may be nil, in which case appreciation
// defaults to 0 and rent compliance is skipped.
func New(policy Policy, tables *refdata.Tables) *Evaluator {
	return &Evaluator{policy: policy, tables: tables}
}

// Policy returns the evaluator's policy.
func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Evaluate runs the full evaluation of d. Only invalid input fails the call;
// undefined metrics and a missing IRR are reported inside the Report.
func (e *Evaluator) Evaluate(d model.Deal) (*Report, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	p := e.policy
	log := zap.L().With(zap.String("deal", d.Name))

	horizon := d.HorizonYears
	if horizon == 0 {
		horizon = p.HorizonYears
	}
	marginal := p.MarginalTaxRate
	if d.MarginalTaxRate != nil {
		marginal = *d.MarginalTaxRate
	}

	var regime tax.Regime
	if strings.TrimSpace(d.TaxRegime) != "" {
		r, err := tax.ParseRegime(d.TaxRegime)
		if err != nil {
			return nil, model.NewInvalidInput("tax_regime", "must be one of "+
				strings.Join([]string{tax.NameMicroBIC, tax.NameMicroFoncier, tax.NameReel}, ", "))
		}
		regime = r
	}

	r := &Report{
		ID:               uuid.New().String(),
		Name:             d.Name,
		HorizonYears:     horizon,
		AppreciationRate: e.appreciation(d),
	}

	proj, err := projection.Project(projection.Input{
		Price:             d.Property.Price,
		Financing:         d.Financing,
		Rent:              d.Rent,
		AppreciationRate:  r.AppreciationRate,
		HorizonYears:      horizon,
		Regime:            regime,
		MarginalTaxRate:   marginal,
		SocialChargesRate: p.SocialChargesRate,
	})
	if err != nil {
		return nil, err
	}
	r.CashFlows = proj.Years
	r.Sale = proj.SaleSummary(p.SellingCostRate)
	r.Statement = income.Rollup(d.Rent)

	snap := snapshot(d, proj, r.Statement)

	if t := proj.Years[1].Tax; t != nil {
		r.Tax = t
		margin := tax.AfterTaxMonthlyMargin(metrics.PreTaxCashFlow(snap.NOI, snap.ADS)/12, *t)
		r.AfterTaxMonthlyMargin = &margin
		snap.TMC = metrics.TMC(tmcInput(d, snap, r.Statement, -t.MonthlyTax()))
	}

	flows := proj.EquityCashFlows(p.SellingCostRate)
	irr, err := tvm.IRR(flows)
	switch {
	case err == nil:
		snap.IRR = &irr
	case tvm.IsNoSolution(err):
		r.IRRUnavailable = err.Error()
		log.Debug("evaluate: irr unavailable", zap.Error(err))
	default:
		return nil, eris.Wrap(err, "evaluate: irr")
	}

	npv, err := tvm.NPV(flows, p.DiscountRate)
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: npv")
	}
	snap.NPV = npv
	snap.EquityMultiple = metrics.Optional(tvm.EquityMultiple(r.Sale.TotalReturn, proj.InitialOutlay))
	r.Metrics = snap

	if len(d.Comparables) > 0 {
		v, err := valuation.Appraise(d, p.PriceBand)
		switch {
		case err == nil:
			r.Valuation = v
		case errors.Is(err, valuation.ErrNoComparables):
			r.Warnings = append(r.Warnings, "no usable comparable sales")
		default:
			return nil, eris.Wrap(err, "evaluate: valuation")
		}
	}

	if e.tables != nil && d.Property.PostalCode != "" {
		c, err := e.tables.CheckCompliance(d.Property.PostalCode, d.Rent.MonthlyRent, d.Property.SurfaceM2)
		if err != nil {
			r.Warnings = append(r.Warnings, "rent compliance: "+err.Error())
		} else {
			r.RentCompliance = c
		}
	}

	r.Strategies = strategy.Score(e.strategyInputs(d, r))
	r.Verdict = p.Verdict(snap.DSCR, snap.IRR)

	log.Info("evaluate: complete",
		zap.String("id", r.ID),
		zap.String("verdict", string(r.Verdict)),
		zap.Int("horizon_years", horizon),
	)
	return r, nil
}

func (e *Evaluator) appreciation(d model.Deal) float64 {
	if d.AppreciationRate != nil {
		return *d.AppreciationRate
	}
	if e.tables == nil || d.Property.PostalCode == "" {
		return 0
	}
	return e.tables.AppreciationRate(d.Property.PostalCode, e.policy.ForwardLooking)
}

func snapshot(d model.Deal, proj *projection.Projection, st income.Statement) metrics.Snapshot {
	price := d.Property.Price
	ads := income.AnnualDebtService(proj.MonthlyPayment)

	s := metrics.Snapshot{
		MonthlyPayment: proj.MonthlyPayment,
		NOI:            st.NOI,
		ADS:            ads,
		DSCR:           metrics.Optional(metrics.DSCR(st.NOI, ads)),
		CapRate:        metrics.CapRate(st.NOI, price),
		CoC:            metrics.Optional(metrics.CashOnCash(metrics.PreTaxCashFlow(st.NOI, ads), proj.InitialOutlay)),
		LTV:            metrics.LTV(d.Financing.LoanAmount, price),
		PricePerM2:     metrics.PricePerM2(price, d.Property.SurfaceM2),
		PriceToRent:    metrics.Optional(metrics.PriceToRent(price, d.Rent.MonthlyRent)),
		YieldOnCost:    metrics.YieldOnCost(st.NOI, price, d.Financing.RenovationCosts),
	}
	s.TMC = metrics.TMC(tmcInput(d, s, st, 0))
	return s
}

func tmcInput(d model.Deal, s metrics.Snapshot, st income.Statement, monthlyTaxEffect float64) metrics.TMCInput {
	return metrics.TMCInput{
		MonthlyPayment:           s.MonthlyPayment,
		MonthlyOperatingExpenses: st.MonthlyOperatingExpenses,
		MonthlyInsurance:         d.Costs.MonthlyInsurance,
		MonthlyManagementFee:     d.Costs.MonthlyManagementFee,
		MonthlyTaxEffect:         monthlyTaxEffect,
	}
}

func (e *Evaluator) strategyInputs(d model.Deal, r *Report) strategy.Inputs {
	in := strategy.Inputs{
		TMC:        r.Metrics.TMC,
		MarketRent: d.Rent.MonthlyRent,
		DSCR:       r.Metrics.DSCR,
		IRR:        r.Metrics.IRR,
		Bedrooms:   d.Property.Bedrooms,
		DPEGrade:   d.Property.DPEGrade,
	}
	if c := r.RentCompliance; c != nil {
		in.MarketRent = c.Band.Median * d.Property.SurfaceM2
		if c.Legal() {
			compliant := c.IsCompliant
			in.RentCompliant = &compliant
		}
	}
	if r.Valuation != nil {
		in.Discount = r.Valuation.Discount
	}
	return in
}

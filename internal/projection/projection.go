// Package projection builds the year-by-year cash-flow series of a deal from
// its mortgage schedule, income rollup and tax regime.
package projection

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/deal-cli/internal/income"
	"github.com/sells-group/deal-cli/internal/model"
	"github.com/sells-group/deal-cli/internal/mortgage"
	"github.com/sells-group/deal-cli/internal/tax"
	"github.com/sells-group/deal-cli/internal/tvm"
)

// Input is everything a projection needs. A nil Regime projects pre-tax only.
type Input struct {
	Price             float64
	Financing         model.FinancingTerms
	Rent              model.RentAssumptions
	AppreciationRate  float64
	HorizonYears      int // 0 = model.DefaultHorizonYears
	Regime            tax.Regime
	MarginalTaxRate   float64
	SocialChargesRate float64
}

// YearlyCashFlow is one row of the projection. Year 0 is the purchase.
type YearlyCashFlow struct {
	Year               int         `json:"year"`
	RentalIncome       float64     `json:"rental_income"`
	VacancyLoss        float64     `json:"vacancy_loss"`
	OperatingExpenses  float64     `json:"operating_expenses"`
	NOI                float64     `json:"noi"`
	DebtService        float64     `json:"debt_service"`
	InterestPaid       float64     `json:"interest_paid"`
	CashFlow           float64     `json:"cash_flow"`
	CumulativeCashFlow float64     `json:"cumulative_cash_flow"`
	PropertyValue      float64     `json:"property_value"`
	LoanBalance        float64     `json:"loan_balance"`
	Equity             float64     `json:"equity"`
	Tax                *tax.Result `json:"tax,omitempty"`
	AfterTaxCashFlow   float64     `json:"after_tax_cash_flow"`
}

// Projection is the full series, horizon+1 rows in year order.
type Projection struct {
	Years          []YearlyCashFlow `json:"years"`
	MonthlyPayment float64          `json:"monthly_payment"`
	InitialOutlay  float64          `json:"initial_outlay"`
}

// Project computes the cash-flow series for in.
func Project(in Input) (*Projection, error) {
	horizon := in.HorizonYears
	if horizon == 0 {
		horizon = model.DefaultHorizonYears
	}
	if err := model.ValidateHorizon(horizon); err != nil {
		return nil, err
	}
	if in.Price <= 0 || math.IsNaN(in.Price) {
		return nil, model.NewInvalidInput("price", "must be > 0")
	}
	if in.AppreciationRate <= -1 {
		return nil, model.NewInvalidInput("appreciation_rate", "must be > -1")
	}
	if err := in.Financing.Validate(); err != nil {
		return nil, err
	}
	if err := in.Rent.Validate(); err != nil {
		return nil, err
	}

	fin := in.Financing
	payment := mortgage.MonthlyPayment(fin.LoanAmount, fin.AnnualRate, fin.TermYears)
	schedule := mortgage.Schedule(fin.LoanAmount, fin.AnnualRate, fin.TermYears)
	ads := income.AnnualDebtService(payment)
	base := income.Rollup(in.Rent)

	outlay := fin.InitialOutlay()
	p := &Projection{
		Years:          make([]YearlyCashFlow, 0, horizon+1),
		MonthlyPayment: payment,
		InitialOutlay:  outlay,
	}
	p.Years = append(p.Years, YearlyCashFlow{
		Year:               0,
		CashFlow:           -outlay,
		CumulativeCashFlow: -outlay,
		PropertyValue:      in.Price,
		LoanBalance:        fin.LoanAmount,
		Equity:             in.Price - fin.LoanAmount,
		AfterTaxCashFlow:   -outlay,
	})

	cumulative := -outlay
	for y := 1; y <= horizon; y++ {
		growth := math.Pow(1+in.Rent.RentEscalationRate, float64(y-1))
		gross := base.AnnualGrossIncome * growth
		row := YearlyCashFlow{
			Year:              y,
			RentalIncome:      gross,
			VacancyLoss:       gross * in.Rent.VacancyRate,
			OperatingExpenses: gross * in.Rent.OperatingExpenseRate,
			InterestPaid:      mortgage.InterestForYear(schedule, y),
			LoanBalance:       mortgage.BalanceAfter(schedule, y*12),
			PropertyValue:     in.Price * math.Pow(1+in.AppreciationRate, float64(y)),
		}
		row.NOI = row.RentalIncome - row.VacancyLoss - row.OperatingExpenses
		if y <= fin.TermYears {
			row.DebtService = ads
		}
		row.CashFlow = row.NOI - row.DebtService
		cumulative += row.CashFlow
		row.CumulativeCashFlow = cumulative
		row.Equity = row.PropertyValue - row.LoanBalance
		row.AfterTaxCashFlow = row.CashFlow

		if in.Regime != nil {
			res, err := tax.Compute(tax.WithYear(in.Regime, row.OperatingExpenses, row.InterestPaid), tax.Input{
				GrossAnnualRent:   row.RentalIncome - row.VacancyLoss,
				MarginalRate:      in.MarginalTaxRate,
				SocialChargesRate: in.SocialChargesRate,
			})
			if err != nil {
				return nil, eris.Wrapf(err, "projection: tax for year %d", y)
			}
			row.Tax = &res
			row.AfterTaxCashFlow = row.CashFlow - res.TotalTax
		}
		p.Years = append(p.Years, row)
	}
	return p, nil
}

// Horizon returns the number of projected years after year 0.
func (p *Projection) Horizon() int {
	return len(p.Years) - 1
}

// Final returns the last projected year.
func (p *Projection) Final() YearlyCashFlow {
	return p.Years[len(p.Years)-1]
}

// CashFlows returns the pre-tax cash flows, year 0 first.
func (p *Projection) CashFlows() []float64 {
	out := make([]float64, len(p.Years))
	for i, y := range p.Years {
		out[i] = y.CashFlow
	}
	return out
}

// AfterTaxCashFlows returns the after-tax cash flows, year 0 first.
func (p *Projection) AfterTaxCashFlows() []float64 {
	out := make([]float64, len(p.Years))
	for i, y := range p.Years {
		out[i] = y.AfterTaxCashFlow
	}
	return out
}

// EquityCashFlows returns the series to equity with the property sold at the
// end of the horizon: the final year carries the net sale proceeds.
func (p *Projection) EquityCashFlows(sellingCostRate float64) []float64 {
	flows := p.CashFlows()
	flows[len(flows)-1] += p.SaleSummary(sellingCostRate).NetSaleProceeds
	return flows
}

// Sale is the outcome of selling at the end of the horizon.
type Sale struct {
	FinalPropertyValue float64  `json:"final_property_value"`
	SellingCosts       float64  `json:"selling_costs"`
	RemainingLoan      float64  `json:"remaining_loan"`
	NetSaleProceeds    float64  `json:"net_sale_proceeds"`
	TotalCashFlows     float64  `json:"total_cash_flows"` // years 1..H
	TotalReturn        float64  `json:"total_return"`
	ReturnOnEquity     *float64 `json:"return_on_equity"`
}

// SaleSummary breaks down the total return of holding to the horizon and
// selling.
func (p *Projection) SaleSummary(sellingCostRate float64) Sale {
	final := p.Final()
	s := Sale{
		FinalPropertyValue: final.PropertyValue,
		SellingCosts:       final.PropertyValue * sellingCostRate,
		RemainingLoan:      final.LoanBalance,
		NetSaleProceeds:    tvm.NetSaleProceeds(final.PropertyValue, sellingCostRate, final.LoanBalance),
	}
	for _, y := range p.Years[1:] {
		s.TotalCashFlows += y.CashFlow
	}
	s.TotalReturn = s.TotalCashFlows + s.NetSaleProceeds
	if p.InitialOutlay > 0 {
		roe := s.TotalReturn / p.InitialOutlay
		s.ReturnOnEquity = &roe
	}
	return s
}

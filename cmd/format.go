package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/deal-cli/internal/evaluate"
	"github.com/sells-group/deal-cli/internal/mortgage"
	"github.com/sells-group/deal-cli/internal/refdata"
)

// printer groups thousands in table output.
var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("%.2f", v)
}

func pct(v float64) string {
	return printer.Sprintf("%.2f%%", v*100)
}

func optPct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return pct(*v)
}

func optRatio(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return printer.Sprintf("%.2f", *v)
}

// formatReport writes a human-readable evaluation report to out.
func formatReport(out io.Writer, r *evaluate.Report, showYears bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	m := r.Metrics

	_, _ = fmt.Fprintf(w, "Deal:\t%s\n", r.Name)
	_, _ = fmt.Fprintf(w, "Verdict:\t%s\n", r.Verdict)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Monthly payment:\t%s\n", money(m.MonthlyPayment))
	_, _ = fmt.Fprintf(w, "NOI:\t%s\n", money(m.NOI))
	_, _ = fmt.Fprintf(w, "Annual debt service:\t%s\n", money(m.ADS))
	_, _ = fmt.Fprintf(w, "DSCR:\t%s\n", optRatio(m.DSCR))
	_, _ = fmt.Fprintf(w, "Cap rate:\t%s\n", pct(m.CapRate))
	_, _ = fmt.Fprintf(w, "Cash on cash:\t%s\n", optPct(m.CoC))
	_, _ = fmt.Fprintf(w, "IRR:\t%s\n", optPct(m.IRR))
	if r.IRRUnavailable != "" {
		_, _ = fmt.Fprintf(w, "  IRR unavailable:\t%s\n", r.IRRUnavailable)
	}
	_, _ = fmt.Fprintf(w, "NPV:\t%s\n", money(m.NPV))
	_, _ = fmt.Fprintf(w, "LTV:\t%s\n", pct(m.LTV))
	_, _ = fmt.Fprintf(w, "Total monthly cost:\t%s\n", money(m.TMC))
	_, _ = fmt.Fprintf(w, "Price per m²:\t%s\n", money(m.PricePerM2))
	_, _ = fmt.Fprintf(w, "Price to rent:\t%s\n", optRatio(m.PriceToRent))
	_, _ = fmt.Fprintf(w, "Equity multiple:\t%s\n", optRatio(m.EquityMultiple))
	_, _ = fmt.Fprintf(w, "Yield on cost:\t%s\n", pct(m.YieldOnCost))
	_, _ = fmt.Fprintf(w, "Appreciation:\t%s\n", pct(r.AppreciationRate))
	_, _ = fmt.Fprintf(w, "Net sale proceeds (year %d):\t%s\n", r.HorizonYears, money(r.Sale.NetSaleProceeds))

	if t := r.Tax; t != nil {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "Tax regime:\t%s\n", t.Regime)
		_, _ = fmt.Fprintf(w, "Taxable income:\t%s\n", money(t.TaxableIncome))
		_, _ = fmt.Fprintf(w, "Total tax:\t%s\n", money(t.TotalTax))
		if r.AfterTaxMonthlyMargin != nil {
			_, _ = fmt.Fprintf(w, "After-tax monthly margin:\t%s\n", money(*r.AfterTaxMonthlyMargin))
		}
	}

	if v := r.Valuation; v != nil {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "Comparables:\t%d\n", v.Comparables)
		_, _ = fmt.Fprintf(w, "Median price per m²:\t%s\n", money(v.MedianPerM2))
		_, _ = fmt.Fprintf(w, "Now-cast value:\t%s\n", money(v.Nowcast))
		_, _ = fmt.Fprintf(w, "Price verdict:\t%s\n", v.Verdict)
	}

	if c := r.RentCompliance; c != nil {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "Rent per m²:\t%s\n", money(c.RentPerM2))
		_, _ = fmt.Fprintf(w, "Rent status:\t%s\n", c.Status)
	}

	if len(r.Strategies) > 0 {
		_, _ = fmt.Fprintln(w)
		for _, s := range r.Strategies {
			_, _ = fmt.Fprintf(w, "%s:\t%.2f\t%s\n", s.Profile, s.Score, strings.Join(s.Reasons, "; "))
		}
	}

	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintf(w, "Warning:\t%s\n", warn)
	}
	_ = w.Flush()

	if showYears {
		_, _ = fmt.Fprintln(out)
		formatCashFlows(out, r)
	}
}

// formatCashFlows writes the yearly projection as a table.
func formatCashFlows(out io.Writer, r *evaluate.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(w, "YEAR\tNOI\tDEBT SERVICE\tCASH FLOW\tCUMULATIVE\tVALUE\tLOAN\tEQUITY\t")
	for _, y := range r.CashFlows {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			y.Year,
			money(y.NOI),
			money(y.DebtService),
			money(y.CashFlow),
			money(y.CumulativeCashFlow),
			money(y.PropertyValue),
			money(y.LoanBalance),
			money(y.Equity),
		)
	}
	_ = w.Flush()
}

// formatOutcomes writes one line per batch outcome.
func formatOutcomes(out io.Writer, outcomes []evaluate.Outcome) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tDEAL\tVERDICT\tDSCR\tIRR\tCOC\tTMC\tBEST FIT")
	_, _ = fmt.Fprintln(w, "-\t----\t-------\t----\t---\t---\t---\t--------")

	for _, o := range outcomes {
		name := o.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		if o.Failed() {
			_, _ = fmt.Fprintf(w, "%d\t%s\tERROR\t%s\n", o.Index, name, o.Err)
			continue
		}
		r := o.Report
		best := ""
		if len(r.Strategies) > 0 {
			best = r.Strategies[0].Profile.String()
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Index,
			name,
			r.Verdict,
			optRatio(r.Metrics.DSCR),
			optPct(r.Metrics.IRR),
			optPct(r.Metrics.CoC),
			money(r.Metrics.TMC),
			best,
		)
	}
	_ = w.Flush()
}

// formatSchedule writes an amortization schedule, monthly or summed per year.
func formatSchedule(out io.Writer, schedule []mortgage.Period, yearly bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	if !yearly {
		_, _ = fmt.Fprintln(w, "PERIOD\tPAYMENT\tINTEREST\tPRINCIPAL\tBALANCE\t")
		for _, p := range schedule {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
				p.Number, money(p.Payment), money(p.Interest), money(p.Principal), money(p.RemainingBalance))
		}
		_ = w.Flush()
		return
	}

	_, _ = fmt.Fprintln(w, "YEAR\tINTEREST\tPRINCIPAL\tBALANCE\t")
	years := (len(schedule) + 11) / 12
	for y := 1; y <= years; y++ {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n",
			y,
			money(mortgage.InterestForYear(schedule, y)),
			money(mortgage.PrincipalForYear(schedule, y)),
			money(mortgage.BalanceAfter(schedule, min(y*12, len(schedule)))),
		)
	}
	_ = w.Flush()
}

// formatCompliance writes a rent-control check.
func formatCompliance(out io.Writer, postalCode string, c *refdata.Compliance) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	kind := "legal cap"
	if c.IsEstimate {
		kind = "regional estimate"
	}
	_, _ = fmt.Fprintf(w, "Postal code:\t%s\n", postalCode)
	_, _ = fmt.Fprintf(w, "Band (%s):\t%s - %s €/m² (median %s)\n", kind, money(c.Band.Min), money(c.Band.Max), money(c.Band.Median))
	_, _ = fmt.Fprintf(w, "Rent per m²:\t%s\n", money(c.RentPerM2))
	_, _ = fmt.Fprintf(w, "Band position:\t%s\n", pct(c.BandPosition))
	_, _ = fmt.Fprintf(w, "Compliant:\t%t\n", c.IsCompliant)
	_, _ = fmt.Fprintf(w, "Status:\t%s\n", c.Status)
	_ = w.Flush()
}

package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/deal-cli/internal/evaluate"
	"github.com/sells-group/deal-cli/internal/projection"
)

// BatchHeader is the column layout of WriteBatchCSV.
var BatchHeader = []string{
	"index", "name", "verdict", "dscr", "cap_rate", "coc", "irr", "npv",
	"tmc", "monthly_payment", "top_strategy", "error",
}

// WriteBatchCSV writes one row per batch outcome. Undefined metrics are
// written as empty cells; failed deals carry only their error.
func WriteBatchCSV(w io.Writer, outcomes []evaluate.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BatchHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, o := range outcomes {
		rec := make([]string, len(BatchHeader))
		rec[0] = strconv.Itoa(o.Index)
		rec[1] = o.Name
		if o.Failed() {
			rec[11] = o.Err.Error()
		} else if r := o.Report; r != nil {
			m := r.Metrics
			rec[2] = string(r.Verdict)
			rec[3] = optional(m.DSCR, 4)
			rec[4] = fixed(m.CapRate, 4)
			rec[5] = optional(m.CoC, 4)
			rec[6] = optional(m.IRR, 4)
			rec[7] = fixed(m.NPV, 2)
			rec[8] = fixed(m.TMC, 2)
			rec[9] = fixed(m.MonthlyPayment, 2)
			if len(r.Strategies) > 0 {
				rec[10] = r.Strategies[0].Profile.String()
			}
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrapf(err, "export: write csv row %d", o.Index)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteCashFlowCSV writes the yearly projection with money rounded to cents.
func WriteCashFlowCSV(w io.Writer, years []projection.YearlyCashFlow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cashFlowHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, y := range years {
		var tax float64
		if y.Tax != nil {
			tax = y.Tax.TotalTax
		}
		rec := []string{strconv.Itoa(y.Year)}
		for _, v := range []float64{
			y.RentalIncome, y.VacancyLoss, y.OperatingExpenses, y.NOI,
			y.DebtService, y.InterestPaid, y.CashFlow, y.CumulativeCashFlow,
			y.PropertyValue, y.LoanBalance, y.Equity, tax, y.AfterTaxCashFlow,
		} {
			rec = append(rec, fixed(v, 2))
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrapf(err, "export: write csv year %d", y.Year)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func optional(v *float64, places int32) string {
	if v == nil {
		return ""
	}
	return fixed(*v, places)
}

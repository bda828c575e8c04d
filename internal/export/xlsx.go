// Package export writes evaluation results to XLSX workbooks and CSV files.
package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/deal-cli/internal/evaluate"
	"github.com/sells-group/deal-cli/internal/model"
	"github.com/sells-group/deal-cli/internal/mortgage"
)

// Sheet names and cell formats.
const (
	DefaultCashFlowSheet = "Cash Flow"
	SummarySheet         = "Summary"
	AmortizationSheet    = "Amortization"

	moneyFormat   = "#,##0.00"
	percentFormat = "0.00%"
	ratioFormat   = "0.00"
)

// WorkbookOptions configures the evaluation workbook.
type WorkbookOptions struct {
	CashFlowSheet string // default DefaultCashFlowSheet
	Amortization  bool   // add the monthly amortization schedule
}

var cashFlowHeader = []string{
	"Year", "Rental income", "Vacancy loss", "Operating expenses", "NOI",
	"Debt service", "Interest", "Cash flow", "Cumulative cash flow",
	"Property value", "Loan balance", "Equity", "Tax", "After-tax cash flow",
}

// Workbook builds a workbook with a summary sheet, the yearly cash-flow
// projection and, optionally, the loan amortization schedule.
func Workbook(r *evaluate.Report, f model.FinancingTerms, opts WorkbookOptions) (*xlsx.File, error) {
	if r == nil {
		return nil, eris.New("export: nil report")
	}
	name := opts.CashFlowSheet
	if name == "" {
		name = DefaultCashFlowSheet
	}

	file := xlsx.NewFile()

	summary, err := file.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "export: add summary sheet")
	}
	writeSummary(summary, r)

	cf, err := file.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "export: add sheet %q", name)
	}
	writeCashFlows(cf, r)

	if opts.Amortization && f.LoanAmount > 0 {
		am, err := file.AddSheet(AmortizationSheet)
		if err != nil {
			return nil, eris.Wrap(err, "export: add amortization sheet")
		}
		writeAmortization(am, mortgage.Schedule(f.LoanAmount, f.AnnualRate, f.TermYears))
	}

	return file, nil
}

// WriteWorkbook builds the workbook and writes it to w.
func WriteWorkbook(w io.Writer, r *evaluate.Report, f model.FinancingTerms, opts WorkbookOptions) error {
	file, err := Workbook(r, f, opts)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

// SaveWorkbook builds the workbook and saves it to path.
func SaveWorkbook(path string, r *evaluate.Report, f model.FinancingTerms, opts WorkbookOptions) error {
	file, err := Workbook(r, f, opts)
	if err != nil {
		return err
	}
	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func writeSummary(sheet *xlsx.Sheet, r *evaluate.Report) {
	m := r.Metrics
	labelRow(sheet, "Deal", r.Name)
	labelRow(sheet, "Verdict", string(r.Verdict))
	labelRow(sheet, "Evaluation ID", r.ID)

	moneyRow(sheet, "Monthly payment", m.MonthlyPayment)
	moneyRow(sheet, "NOI", m.NOI)
	moneyRow(sheet, "Annual debt service", m.ADS)
	optionalRow(sheet, "DSCR", m.DSCR, ratioFormat)
	percentRow(sheet, "Cap rate", m.CapRate)
	optionalRow(sheet, "Cash on cash", m.CoC, percentFormat)
	optionalRow(sheet, "IRR", m.IRR, percentFormat)
	moneyRow(sheet, "NPV", m.NPV)
	percentRow(sheet, "LTV", m.LTV)
	moneyRow(sheet, "Total monthly cost", m.TMC)
	moneyRow(sheet, "Price per m²", m.PricePerM2)
	optionalRow(sheet, "Price to rent", m.PriceToRent, ratioFormat)
	optionalRow(sheet, "Equity multiple", m.EquityMultiple, ratioFormat)
	percentRow(sheet, "Yield on cost", m.YieldOnCost)
	percentRow(sheet, "Appreciation", r.AppreciationRate)

	moneyRow(sheet, "Net sale proceeds", r.Sale.NetSaleProceeds)
	moneyRow(sheet, "Total return", r.Sale.TotalReturn)

	if r.Valuation != nil {
		moneyRow(sheet, "Now-cast value", r.Valuation.Nowcast)
		labelRow(sheet, "Price verdict", string(r.Valuation.Verdict))
	}
	if r.Tax != nil {
		labelRow(sheet, "Tax regime", r.Tax.Regime)
		moneyRow(sheet, "Annual tax (year 1)", r.Tax.TotalTax)
	}
	for _, s := range r.Strategies {
		row := sheet.AddRow()
		row.AddCell().SetString("Strategy: " + s.Profile.String())
		row.AddCell().SetFloatWithFormat(s.Score, ratioFormat)
	}
}

func writeCashFlows(sheet *xlsx.Sheet, r *evaluate.Report) {
	header(sheet, cashFlowHeader)
	for _, y := range r.CashFlows {
		row := sheet.AddRow()
		row.AddCell().SetInt(y.Year)
		var tax float64
		if y.Tax != nil {
			tax = y.Tax.TotalTax
		}
		for _, v := range []float64{
			y.RentalIncome, y.VacancyLoss, y.OperatingExpenses, y.NOI,
			y.DebtService, y.InterestPaid, y.CashFlow, y.CumulativeCashFlow,
			y.PropertyValue, y.LoanBalance, y.Equity, tax, y.AfterTaxCashFlow,
		} {
			row.AddCell().SetFloatWithFormat(Cents(v), moneyFormat)
		}
	}
}

func writeAmortization(sheet *xlsx.Sheet, schedule []mortgage.Period) {
	header(sheet, []string{"Period", "Payment", "Interest", "Principal", "Remaining balance"})
	for _, p := range schedule {
		row := sheet.AddRow()
		row.AddCell().SetInt(p.Number)
		for _, v := range []float64{p.Payment, p.Interest, p.Principal, p.RemainingBalance} {
			row.AddCell().SetFloatWithFormat(Cents(v), moneyFormat)
		}
	}
}

func header(sheet *xlsx.Sheet, cols []string) {
	row := sheet.AddRow()
	for _, c := range cols {
		cell := row.AddCell()
		cell.SetString(c)
		style := xlsx.NewStyle()
		style.Font.Bold = true
		style.ApplyFont = true
		cell.SetStyle(style)
	}
}

func labelRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

func moneyRow(sheet *xlsx.Sheet, label string, v float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloatWithFormat(Cents(v), moneyFormat)
}

func percentRow(sheet *xlsx.Sheet, label string, v float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloatWithFormat(v, percentFormat)
}

// optionalRow writes "n/a" for undefined metrics.
func optionalRow(sheet *xlsx.Sheet, label string, v *float64, format string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	if v == nil {
		row.AddCell().SetString("n/a")
		return
	}
	row.AddCell().SetFloatWithFormat(*v, format)
}

// Cents rounds a money amount half away from zero to two decimals.
func Cents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ReadSheet reads every row of the named sheet of an XLSX file as strings.
func ReadSheet(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open workbook")
	}
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, eris.Errorf("export: sheet %q not found", sheetName)
	}
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.Value
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/deal-cli/internal/dealfile"
	"github.com/sells-group/deal-cli/internal/evaluate"
	"github.com/sells-group/deal-cli/internal/export"
	"github.com/sells-group/deal-cli/internal/model"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a single deal",
	Long:  "Evaluates one deal given on flags or read from --file (the first deal of the file is used).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := dealFromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		ev, err := initEvaluator("evaluate")
		if err != nil {
			return err
		}

		r, err := ev.Evaluate(d)
		if err != nil {
			return eris.Wrap(err, "evaluate")
		}

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			if err := cfg.Validate("export"); err != nil {
				return err
			}
			if err := export.SaveWorkbook(path, r, d.Financing, export.WorkbookOptions{
				CashFlowSheet: cfg.Export.SheetName,
				Amortization:  true,
			}); err != nil {
				return err
			}
			zap.L().Info("evaluate: workbook saved", zap.String("path", path))
		}

		format, _ := cmd.Flags().GetString("format")
		years, _ := cmd.Flags().GetBool("years")
		return writeReport(os.Stdout, r, format, years)
	},
}

func writeReport(out io.Writer, r *evaluate.Report, format string, years bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "table", "":
		formatReport(out, r, years)
		return nil
	default:
		return eris.Errorf("unknown format %q (want table or json)", format)
	}
}

// dealFromFlags builds a deal from --file, then applies any flag that was
// set explicitly on top of it. Without --file every flag applies, defaults
// included.
func dealFromFlags(fs *pflag.FlagSet) (model.Deal, error) {
	var d model.Deal
	path, _ := fs.GetString("file")
	use := func(name string) bool { return path == "" || fs.Changed(name) }
	if path != "" {
		deals, err := dealfile.Load(path)
		if err != nil {
			return d, err
		}
		if len(deals) == 0 {
			return d, eris.Errorf("no deals in %s", path)
		}
		d = deals[0]
	}

	floats := map[string]*float64{
		"price":            &d.Property.Price,
		"surface":          &d.Property.SurfaceM2,
		"down-payment":     &d.Financing.DownPayment,
		"loan-amount":      &d.Financing.LoanAmount,
		"annual-rate":      &d.Financing.AnnualRate,
		"closing-costs":    &d.Financing.ClosingCosts,
		"renovation-costs": &d.Financing.RenovationCosts,
		"monthly-rent":     &d.Rent.MonthlyRent,
		"vacancy-rate":     &d.Rent.VacancyRate,
		"opex-rate":        &d.Rent.OperatingExpenseRate,
		"rent-escalation":  &d.Rent.RentEscalationRate,
		"insurance":        &d.Costs.MonthlyInsurance,
		"management-fee":   &d.Costs.MonthlyManagementFee,
		"market-delta":     &d.MarketDelta,
	}
	for name, dst := range floats {
		if use(name) {
			*dst, _ = fs.GetFloat64(name)
		}
	}

	ints := map[string]*int{
		"rooms":     &d.Property.Rooms,
		"bedrooms":  &d.Property.Bedrooms,
		"loan-term": &d.Financing.TermYears,
		"horizon":   &d.HorizonYears,
	}
	for name, dst := range ints {
		if use(name) {
			*dst, _ = fs.GetInt(name)
		}
	}

	strs := map[string]*string{
		"name":        &d.Name,
		"postal-code": &d.Property.PostalCode,
		"dpe":         &d.Property.DPEGrade,
		"regime":      &d.TaxRegime,
	}
	for name, dst := range strs {
		if use(name) {
			*dst, _ = fs.GetString(name)
		}
	}

	optional := map[string]**float64{
		"appreciation":  &d.AppreciationRate,
		"marginal-rate": &d.MarginalTaxRate,
		"listing-delta": &d.ListingDelta,
	}
	for name, dst := range optional {
		if fs.Changed(name) {
			v, _ := fs.GetFloat64(name)
			*dst = &v
		}
	}

	if d.Name == "" {
		d.Name = "deal"
	}
	return d, nil
}

func init() {
	registerDealFlags(evaluateCmd.Flags())
	f := evaluateCmd.Flags()
	f.String("format", "table", "output format: table or json")
	f.Bool("years", false, "include the yearly cash-flow table")
	f.String("xlsx", "", "also write the evaluation workbook to this path")
	rootCmd.AddCommand(evaluateCmd)
}

// registerDealFlags adds the deal input flags read by dealFromFlags.
func registerDealFlags(f *pflag.FlagSet) {
	f.String("file", "", "read the deal from a YAML, CSV or XLSX file")
	f.String("name", "", "deal name")
	f.Float64("price", 0, "purchase price (€)")
	f.Float64("surface", 0, "surface (m²)")
	f.Int("rooms", 0, "number of rooms")
	f.Int("bedrooms", 0, "number of bedrooms")
	f.String("postal-code", "", "postal code, drives appreciation and rent control")
	f.String("dpe", "", "energy grade A-G")
	f.Float64("down-payment", 0, "down payment (€)")
	f.Float64("loan-amount", 0, "loan principal (€)")
	f.Float64("annual-rate", 0, "loan annual rate as a fraction (0.035)")
	f.Int("loan-term", 20, "loan term in years")
	f.Float64("closing-costs", 0, "closing costs paid in cash (€)")
	f.Float64("renovation-costs", 0, "renovation costs paid in cash (€)")
	f.Float64("monthly-rent", 0, "monthly rent (€)")
	f.Float64("vacancy-rate", 0.05, "vacancy rate as a fraction")
	f.Float64("opex-rate", 0.25, "operating expenses as a fraction of gross rent")
	f.Float64("rent-escalation", 0, "annual rent escalation as a fraction")
	f.Float64("insurance", 0, "monthly insurance (€)")
	f.Float64("management-fee", 0, "monthly management fee (€)")
	f.String("regime", "", "tax regime: lmnp_micro_bic, location_nue_micro_foncier or regime_reel")
	f.Float64("marginal-rate", 0, "marginal income tax rate (defaults to evaluation.marginal_tax_rate)")
	f.Int("horizon", 0, "projection horizon in years (defaults to evaluation.horizon_years)")
	f.Float64("appreciation", 0, "annual appreciation override as a fraction")
	f.Float64("market-delta", 0, "market adjustment applied to the now-cast")
	f.Float64("listing-delta", 0, "listing adjustment override applied to the now-cast")
}

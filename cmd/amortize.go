package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/deal-cli/internal/model"
	"github.com/sells-group/deal-cli/internal/mortgage"
)

var amortizeCmd = &cobra.Command{
	Use:   "amortize",
	Short: "Print a loan amortization schedule",
	RunE: func(cmd *cobra.Command, _ []string) error {
		principal, _ := cmd.Flags().GetFloat64("principal")
		rate, _ := cmd.Flags().GetFloat64("annual-rate")
		term, _ := cmd.Flags().GetInt("term")
		yearly, _ := cmd.Flags().GetBool("yearly")
		format, _ := cmd.Flags().GetString("format")

		f := model.FinancingTerms{LoanAmount: principal, AnnualRate: rate, TermYears: term}
		if err := f.Validate(); err != nil {
			return err
		}
		if principal <= 0 {
			return model.NewInvalidInput("principal", "must be > 0")
		}

		schedule := mortgage.Schedule(principal, rate, term)
		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(schedule)
		case "table":
			formatSchedule(os.Stdout, schedule, yearly)
			return nil
		default:
			return eris.Errorf("unknown format %q (want table or json)", format)
		}
	},
}

func init() {
	amortizeCmd.Flags().Float64("principal", 0, "loan principal (€)")
	amortizeCmd.Flags().Float64("annual-rate", 0, "annual rate as a fraction (0.035)")
	amortizeCmd.Flags().Int("term", 20, "term in years")
	amortizeCmd.Flags().Bool("yearly", false, "sum the schedule per year")
	amortizeCmd.Flags().String("format", "table", "output format: table or json")
	rootCmd.AddCommand(amortizeCmd)
}

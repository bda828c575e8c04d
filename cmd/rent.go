package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/deal-cli/internal/refdata"
)

var rentCmd = &cobra.Command{
	Use:   "rent",
	Short: "Check a rent against rent-control bands",
	Long:  "Checks a monthly rent against the legal band of a rent-controlled postal code, or against the regional market estimate elsewhere.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		postal, _ := cmd.Flags().GetString("postal-code")
		rent, _ := cmd.Flags().GetFloat64("monthly-rent")
		surface, _ := cmd.Flags().GetFloat64("surface")

		tables, err := refdata.Load(cfg.Refdata.Path)
		if err != nil {
			return err
		}
		c, err := tables.CheckCompliance(postal, rent, surface)
		if err != nil {
			return err
		}
		formatCompliance(os.Stdout, postal, c)
		return nil
	},
}

func init() {
	rentCmd.Flags().String("postal-code", "", "postal code")
	rentCmd.Flags().Float64("monthly-rent", 0, "monthly rent excluding charges (€)")
	rentCmd.Flags().Float64("surface", 0, "surface (m²)")
	_ = rentCmd.MarkFlagRequired("postal-code")
	_ = rentCmd.MarkFlagRequired("surface")
	rootCmd.AddCommand(rentCmd)
}

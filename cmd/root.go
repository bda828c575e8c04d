package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/deal-cli/internal/config"
	"github.com/sells-group/deal-cli/internal/evaluate"
	"github.com/sells-group/deal-cli/internal/refdata"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "deal-cli",
	Short: "Real-estate deal evaluation engine",
	Long:  "Evaluates French residential rental deals: financing, cash flow, IRR/NPV, tax regime, valuation against comparables, rent control and strategy fit.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initEvaluator validates the config for mode and builds an evaluator over
// the configured reference tables.
func initEvaluator(mode string) (*evaluate.Evaluator, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	tables, err := refdata.Load(cfg.Refdata.Path)
	if err != nil {
		return nil, err
	}
	return evaluate.New(evaluate.PolicyFromConfig(cfg.Evaluation), tables), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

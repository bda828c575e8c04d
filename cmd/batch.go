package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/deal-cli/internal/dealfile"
	"github.com/sells-group/deal-cli/internal/evaluate"
	"github.com/sells-group/deal-cli/internal/export"
	"github.com/sells-group/deal-cli/internal/model"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate every deal in a file",
	Long:  "Evaluates the deals of a YAML, CSV or XLSX file in parallel. A deal that fails is reported and does not stop the others.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return eris.New("batch: --file is required")
		}
		deals, err := dealfile.Load(path)
		if err != nil {
			return err
		}

		ev, err := initEvaluator("batch")
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		out := io.Writer(os.Stdout)
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return eris.Wrapf(err, "batch: create %s", output)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		return processBatch(ctx, ev, deals, batchOptions{
			Limit:       limit,
			Concurrency: cfg.Batch.Concurrency,
			Format:      format,
		}, out)
	},
}

type batchOptions struct {
	Limit       int
	Concurrency int
	Format      string
}

// processBatch applies the limit, evaluates the deals and writes the outcomes
// to out.
func processBatch(ctx context.Context, ev *evaluate.Evaluator, deals []model.Deal, opts batchOptions, out io.Writer) error {
	switch opts.Format {
	case "table", "csv", "json":
	default:
		return eris.Errorf("batch: unknown format %q (want table, csv or json)", opts.Format)
	}

	if len(deals) == 0 {
		zap.L().Info("batch: no deals found")
		return nil
	}
	if opts.Limit > 0 && len(deals) > opts.Limit {
		deals = deals[:opts.Limit]
	}

	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("batch: starting", zap.Int("deals", len(deals)))

	outcomes, err := ev.EvaluateAll(ctx, deals, opts.Concurrency)
	if err != nil {
		return eris.Wrap(err, "batch: evaluate")
	}

	var failed int
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	log.Info("batch: finished",
		zap.Int("succeeded", len(outcomes)-failed),
		zap.Int("failed", failed),
	)

	switch opts.Format {
	case "csv":
		return export.WriteBatchCSV(out, outcomes)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			RunID    string             `json:"run_id"`
			Outcomes []evaluate.Outcome `json:"outcomes"`
		}{runID, outcomes})
	default:
		formatOutcomes(out, outcomes)
		return nil
	}
}

func init() {
	batchCmd.Flags().String("file", "", "YAML, CSV or XLSX file of deals")
	batchCmd.Flags().Int("limit", 0, "max number of deals to evaluate (0 = all)")
	batchCmd.Flags().String("format", "table", "output format: table, csv or json")
	batchCmd.Flags().String("output", "", "write output to this file instead of stdout")
	rootCmd.AddCommand(batchCmd)
}

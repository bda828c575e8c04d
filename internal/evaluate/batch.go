package evaluate

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/deal-cli/internal/model"
)

// Outcome is the result of one deal in a batch. In a batch that ran to
// completion exactly one of Report and Err is set.
type Outcome struct {
	Index  int     `json:"index"`
	Name   string  `json:"name"`
	Report *Report `json:"report,omitempty"`
	Err    error   `json:"-"`
}

// Failed reports whether the deal could not be evaluated.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// MarshalJSON adds the error message, if any, as "error".
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	var msg string
	if o.Err != nil {
		msg = o.Err.Error()
	}
	return json.Marshal(struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain(o), msg})
}

// EvaluateAll evaluates deals concurrently with at most concurrency workers.
// A failing deal is recorded in its Outcome and does not stop the batch.
// Outcomes are returned in input order. The only error returned is a
// cancelled context.
func (e *Evaluator) EvaluateAll(ctx context.Context, deals []model.Deal, concurrency int) ([]Outcome, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	out := make([]Outcome, len(deals))
	if len(deals) == 0 {
		zap.L().Info("evaluate: empty batch")
		return out, nil
	}

	zap.L().Info("evaluate: processing batch",
		zap.Int("deals", len(deals)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for i, d := range deals {
		out[i] = Outcome{Index: i, Name: d.Name}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log := zap.L().With(zap.Int("index", i), zap.String("deal", d.Name))

			r, err := e.Evaluate(d)
			if err != nil {
				failed.Add(1)
				out[i].Err = err
				log.Warn("evaluate: deal failed", zap.Error(err))
				return nil // keep going
			}

			succeeded.Add(1)
			out[i].Report = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Warn("evaluate: batch interrupted",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
			zap.Error(err),
		)
		return out, err
	}

	zap.L().Info("evaluate: batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return out, nil
}

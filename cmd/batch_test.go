package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-cli/internal/evaluate"
	"github.com/sells-group/deal-cli/internal/model"
)

func batchDeals() []model.Deal {
	rate := 0.02
	base := model.Deal{
		Property: model.Property{Price: 200_000, SurfaceM2: 40},
		Financing: model.FinancingTerms{
			DownPayment: 40_000,
			LoanAmount:  160_000,
			AnnualRate:  0.035,
			TermYears:   20,
		},
		Rent:             model.RentAssumptions{MonthlyRent: 1100, VacancyRate: 0.05, OperatingExpenseRate: 0.2},
		HorizonYears:     10,
		AppreciationRate: &rate,
	}
	good, other, bad := base, base, base
	good.Name = "good"
	other.Name = "other"
	other.Rent.MonthlyRent = 700
	bad.Name = "bad"
	bad.Property.SurfaceM2 = 0
	return []model.Deal{good, bad, other}
}

func testEvaluator() *evaluate.Evaluator {
	return evaluate.New(evaluate.DefaultPolicy(), nil)
}

func TestProcessBatch_Table(t *testing.T) {
	var buf bytes.Buffer
	err := processBatch(context.Background(), testEvaluator(), batchDeals(), batchOptions{
		Concurrency: 2,
		Format:      "table",
	}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "VERDICT")
	assert.Contains(t, out, "good")
	assert.Contains(t, out, "other")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "property.surface_m2")
}

func TestProcessBatch_CSVWithLimit(t *testing.T) {
	var buf bytes.Buffer
	err := processBatch(context.Background(), testEvaluator(), batchDeals(), batchOptions{
		Limit:       2,
		Concurrency: 4,
		Format:      "csv",
	}, &buf)
	require.NoError(t, err)

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "good", recs[1][1])
	assert.Equal(t, "bad", recs[2][1])
	assert.NotEmpty(t, recs[2][len(recs[2])-1])
}

func TestProcessBatch_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := processBatch(context.Background(), testEvaluator(), batchDeals(), batchOptions{
		Concurrency: 1,
		Format:      "json",
	}, &buf)
	require.NoError(t, err)

	var decoded struct {
		RunID    string           `json:"run_id"`
		Outcomes []map[string]any `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.RunID, 36)
	require.Len(t, decoded.Outcomes, 3)
	assert.Contains(t, decoded.Outcomes[1]["error"], "surface_m2")
	assert.NotNil(t, decoded.Outcomes[0]["report"])
}

func TestProcessBatch_EmptyAndBadFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, processBatch(context.Background(), testEvaluator(), nil, batchOptions{Format: "table"}, &buf))
	assert.Empty(t, buf.String())

	err := processBatch(context.Background(), testEvaluator(), batchDeals(), batchOptions{Format: "xml"}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestProcessBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := processBatch(ctx, testEvaluator(), batchDeals(), batchOptions{Concurrency: 1, Format: "table"}, &buf)
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-cli/internal/evaluate"
	"github.com/sells-group/deal-cli/internal/model"
)

func newDealFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerDealFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestDealFromFlags_FlagsOnly(t *testing.T) {
	fs := newDealFlags(t,
		"--price", "500000",
		"--surface", "60",
		"--down-payment", "100000",
		"--loan-amount", "400000",
		"--annual-rate", "0.03",
		"--monthly-rent", "2000",
		"--regime", "lmnp",
		"--appreciation", "0.02",
	)

	d, err := dealFromFlags(fs)
	require.NoError(t, err)
	assert.Equal(t, "deal", d.Name)
	assert.InDelta(t, 500_000, d.Property.Price, 1e-9)
	assert.Equal(t, 20, d.Financing.TermYears)
	assert.InDelta(t, 0.05, d.Rent.VacancyRate, 1e-12)
	assert.InDelta(t, 0.25, d.Rent.OperatingExpenseRate, 1e-12)
	assert.Equal(t, "lmnp", d.TaxRegime)
	require.NotNil(t, d.AppreciationRate)
	assert.InDelta(t, 0.02, *d.AppreciationRate, 1e-12)
	assert.Nil(t, d.MarginalTaxRate)
	assert.Nil(t, d.ListingDelta)
	assert.NoError(t, d.Validate())
}

func TestDealFromFlags_FileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: from file
property:
  price: 300000
  surface_m2: 50
financing:
  down_payment: 60000
  loan_amount: 240000
  annual_rate: 0.035
  term_years: 25
rent:
  monthly_rent: 1200
  vacancy_rate: 0.02
`), 0o644))

	fs := newDealFlags(t, "--file", path, "--monthly-rent", "1300")
	d, err := dealFromFlags(fs)
	require.NoError(t, err)

	assert.Equal(t, "from file", d.Name)
	assert.InDelta(t, 1300, d.Rent.MonthlyRent, 1e-9)
	// Unset flags keep the file values, not the flag defaults.
	assert.Equal(t, 25, d.Financing.TermYears)
	assert.InDelta(t, 0.02, d.Rent.VacancyRate, 1e-12)
	assert.Zero(t, d.Rent.OperatingExpenseRate)
}

func TestDealFromFlags_MissingFile(t *testing.T) {
	fs := newDealFlags(t, "--file", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := dealFromFlags(fs)
	assert.Error(t, err)
}

func sampleReport(t *testing.T) *evaluate.Report {
	t.Helper()
	rate := 0.02
	r, err := evaluate.New(evaluate.DefaultPolicy(), nil).Evaluate(model.Deal{
		Name:     "sample",
		Property: model.Property{Price: 500_000, SurfaceM2: 60, Bedrooms: 2},
		Financing: model.FinancingTerms{
			DownPayment: 100_000,
			LoanAmount:  400_000,
			AnnualRate:  0.03,
			TermYears:   20,
		},
		Rent: model.RentAssumptions{
			MonthlyRent:          2000,
			VacancyRate:          0.05,
			OperatingExpenseRate: 0.25,
		},
		TaxRegime:        "regime_reel",
		HorizonYears:     5,
		AppreciationRate: &rate,
	})
	require.NoError(t, err)
	return r
}

func TestWriteReport(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, r, "json", false))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sample", decoded["name"])
	assert.Equal(t, "PASS", decoded["verdict"])

	buf.Reset()
	require.NoError(t, writeReport(&buf, r, "table", true))
	out := buf.String()
	assert.Contains(t, out, "Verdict:")
	assert.Contains(t, out, "2,218.39")
	assert.Contains(t, out, "regime_reel")
	assert.Contains(t, out, "YEAR")

	assert.Error(t, writeReport(&buf, r, "yaml", false))
}

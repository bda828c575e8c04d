package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-cli/internal/income"
	"github.com/sells-group/deal-cli/internal/model"
	"github.com/sells-group/deal-cli/internal/mortgage"
)

func TestReferenceScenario(t *testing.T) {
	t.Parallel()

	payment := mortgage.MonthlyPayment(400_000, 0.03, 20)
	ads := income.AnnualDebtService(payment)
	st := income.Rollup(model.RentAssumptions{
		MonthlyRent:          2000,
		VacancyRate:          0.05,
		OperatingExpenseRate: 0.25,
	})

	assert.InDelta(t, 2218.39, payment, 0.01)
	assert.InDelta(t, 26_620.68, ads, 0.01)
	assert.InDelta(t, 16_800, st.NOI, 1e-9)

	dscr, err := DSCR(st.NOI, ads)
	require.NoError(t, err)
	assert.InDelta(t, 0.631, dscr, 0.001)

	assert.InDelta(t, 0.0336, CapRate(st.NOI, 500_000), 1e-6)

	coc, err := CashOnCash(PreTaxCashFlow(st.NOI, ads), 100_000)
	require.NoError(t, err)
	assert.InDelta(t, -0.0982, coc, 0.0001)

	assert.InDelta(t, 0.8, LTV(400_000, 500_000), 1e-9)
	assert.InDelta(t, 10_000, PricePerM2(500_000, 50), 1e-9)

	ptr, err := PriceToRent(500_000, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 20.833, ptr, 0.001)
}

func TestDSCR_AllCashIsUndefined(t *testing.T) {
	t.Parallel()

	v, err := DSCR(16_800, 0)
	require.Error(t, err)
	assert.True(t, IsUndefined(err))
	assert.Zero(t, v)
	assert.Nil(t, Optional(v, err))
}

func TestDSCR_Monotonic(t *testing.T) {
	t.Parallel()

	const ads = 20_000.0
	prev, err := DSCR(-5000, ads)
	require.NoError(t, err)
	for noi := -4000.0; noi <= 60_000; noi += 1000 {
		cur, err := DSCR(noi, ads)
		require.NoError(t, err)
		assert.Greater(t, cur, prev, "DSCR must increase with NOI")
		prev = cur
	}

	const noi = 18_000.0
	prev, err = DSCR(noi, 1000)
	require.NoError(t, err)
	for a := 2000.0; a <= 80_000; a += 1000 {
		cur, err := DSCR(noi, a)
		require.NoError(t, err)
		assert.Less(t, cur, prev, "DSCR must decrease with ADS")
		prev = cur
	}
}

func TestCashOnCash_NoCash(t *testing.T) {
	t.Parallel()

	_, err := CashOnCash(1000, 0)
	assert.True(t, IsUndefined(err))
}

func TestPriceToRent_NoRent(t *testing.T) {
	t.Parallel()

	_, err := PriceToRent(300_000, 0)
	assert.True(t, IsUndefined(err))
}

func TestTMC(t *testing.T) {
	t.Parallel()

	got := TMC(TMCInput{
		MonthlyPayment:           2218.39,
		MonthlyOperatingExpenses: 500,
		MonthlyInsurance:         30,
		MonthlyManagementFee:     120,
		MonthlyTaxEffect:         50,
	})
	assert.InDelta(t, 2818.39, got, 1e-9)
}

func TestYieldOnCost(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.04, YieldOnCost(20_000, 450_000, 50_000), 1e-9)
	assert.Zero(t, YieldOnCost(20_000, 0, 0))
}

func TestOptionalAndValue(t *testing.T) {
	t.Parallel()

	p := Optional(0, nil)
	require.NotNil(t, p)
	v, ok := Value(p)
	assert.True(t, ok)
	assert.Zero(t, v)

	_, ok = Value(nil)
	assert.False(t, ok)
}

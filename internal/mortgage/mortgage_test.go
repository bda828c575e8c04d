package mortgage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     int
		want      float64
		delta     float64
	}{
		{"reference scenario", 400_000, 0.03, 20, 2218.39, 0.05},
		{"thirty years at 4%", 300_000, 0.04, 30, 1432.25, 0.05},
		{"zero rate", 240_000, 0, 20, 1000, 1e-9},
		{"zero principal", 0, 0.03, 20, 0, 0},
		{"zero term", 100_000, 0.03, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, MonthlyPayment(tt.principal, tt.rate, tt.years), tt.delta)
		})
	}
}

func TestSchedule_PrincipalSumsToLoan(t *testing.T) {
	t.Parallel()

	rates := []float64{0, 0.001, 0.015, 0.03, 0.0725, 0.15}
	terms := []int{1, 7, 15, 20, 25, 30}

	for _, rate := range rates {
		for _, years := range terms {
			t.Run(fmt.Sprintf("%.4f_%dy", rate, years), func(t *testing.T) {
				t.Parallel()
				const principal = 387_654.32
				sched := Schedule(principal, rate, years)
				require.Len(t, sched, years*12)

				var sum float64
				for _, p := range sched {
					sum += p.Principal
				}
				assert.InDelta(t, principal, sum, 1e-2)
				assert.Equal(t, 0.0, sched[len(sched)-1].RemainingBalance)
			})
		}
	}
}

func TestSchedule_Ordering(t *testing.T) {
	t.Parallel()

	sched := Schedule(400_000, 0.03, 20)
	require.NotEmpty(t, sched)

	first := sched[0]
	assert.Equal(t, 1, first.Number)
	assert.InDelta(t, 1000, first.Interest, 1e-9) // 400k × 0.25%
	assert.InDelta(t, 2218.39-1000, first.Principal, 0.05)

	for i := 1; i < len(sched); i++ {
		assert.Equal(t, i+1, sched[i].Number)
		assert.LessOrEqual(t, sched[i].RemainingBalance, sched[i-1].RemainingBalance)
	}
}

func TestSchedule_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Schedule(0, 0.03, 20))
	assert.Nil(t, Schedule(100_000, 0.03, 0))
}

func TestBalanceAfter(t *testing.T) {
	t.Parallel()

	sched := Schedule(120_000, 0, 10)

	assert.InDelta(t, 120_000, BalanceAfter(sched, 0), 1e-6)
	assert.InDelta(t, 108_000, BalanceAfter(sched, 12), 1e-6)
	assert.InDelta(t, 0, BalanceAfter(sched, 120), 1e-9)
	assert.InDelta(t, 0, BalanceAfter(sched, 500), 1e-9)
	assert.InDelta(t, 0, BalanceAfter(nil, 12), 1e-9)
}

func TestYearAggregates(t *testing.T) {
	t.Parallel()

	sched := Schedule(400_000, 0.03, 20)

	var interest, principal float64
	for y := 1; y <= 20; y++ {
		interest += InterestForYear(sched, y)
		principal += PrincipalForYear(sched, y)
	}
	assert.InDelta(t, TotalInterest(sched), interest, 1e-6)
	assert.InDelta(t, 400_000, principal, 1e-2)

	assert.Greater(t, InterestForYear(sched, 1), InterestForYear(sched, 20))
	assert.Zero(t, InterestForYear(sched, 21))
	assert.Zero(t, InterestForYear(sched, 0))
}

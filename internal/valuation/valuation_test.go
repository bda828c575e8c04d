package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/deal-cli/internal/model"
)

func comps(prices ...float64) []model.ComparableSale {
	out := make([]model.ComparableSale, len(prices))
	for i, p := range prices {
		out[i] = model.ComparableSale{
			PricePerM2: p,
			SurfaceM2:  50,
			SaleDate:   time.Date(2025, time.Month(i%12+1), 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func TestMedianPricePerM2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"single", []float64{9500}, 9500},
		{"odd unsorted", []float64{11_000, 9000, 10_000}, 10_000},
		{"even", []float64{9000, 12_000, 10_000, 11_000}, 10_500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := MedianPricePerM2(comps(tt.prices...))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := MedianPricePerM2(nil)
	assert.ErrorIs(t, err, ErrNoComparables)
}

func TestSelectComparables(t *testing.T) {
	t.Parallel()

	all := []model.ComparableSale{
		{PricePerM2: 10_000, SurfaceM2: 50, SaleDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{PricePerM2: 11_000, SurfaceM2: 45, SaleDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{PricePerM2: 12_000, SurfaceM2: 120, SaleDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{PricePerM2: 0, SurfaceM2: 50, SaleDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	assert.Len(t, SelectComparables(all, Filter{}), 3)

	recent := SelectComparables(all, Filter{Since: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})
	assert.Len(t, recent, 2)

	similar := SelectComparables(all, Filter{SurfaceM2: 50, SurfaceTolerance: 0.2})
	require.Len(t, similar, 2)
	assert.InDelta(t, 10_000, similar[0].PricePerM2, 1e-9)
	assert.InDelta(t, 11_000, similar[1].PricePerM2, 1e-9)
}

func TestNowcastValue(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 500_000, NowcastValue(10_000, 50, 0, 0), 1e-6)
	assert.InDelta(t, 10_000*50*1.05*0.9, NowcastValue(10_000, 50, 0.05, -0.10), 1e-6)
}

func TestPriceVerdict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price, nowcast float64
		want           Verdict
	}{
		{470_000, 500_000, UnderPriced},
		{475_000, 500_000, Average},
		{500_000, 500_000, Average},
		{525_000, 500_000, Average},
		{530_000, 500_000, Overpriced},
		{500_000, 0, Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceVerdict(tt.price, tt.nowcast), "price %v nowcast %v", tt.price, tt.nowcast)
	}

	assert.Equal(t, Average, PriceVerdictWithBand(540_000, 500_000, 0.10))
	assert.Equal(t, Overpriced, PriceVerdictWithBand(560_000, 500_000, 0.10))
}

func TestDiscount(t *testing.T) {
	t.Parallel()

	d, ok := Discount(450_000, 500_000)
	require.True(t, ok)
	assert.InDelta(t, -0.10, d, 1e-9)

	_, ok = Discount(450_000, 0)
	assert.False(t, ok)
}

func TestListingDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		adj  model.ListingAdjustments
		dpe  string
		want float64
	}{
		{"neutral", model.ListingAdjustments{}, "C", 0},
		{"price cut", model.ListingAdjustments{PriceCutPct: -0.10}, "C", -0.10},
		{"stale", model.ListingAdjustments{DaysOnMarket: 50, MedianDaysOnMarket: 30}, "C", -0.05},
		{"very stale", model.ListingAdjustments{DaysOnMarket: 70, MedianDaysOnMarket: 30}, "C", -0.10},
		{"default median", model.ListingAdjustments{DaysOnMarket: 61}, "c", -0.10},
		{"dpe premium", model.ListingAdjustments{}, "a", 0.05},
		{"dpe G with condition", model.ListingAdjustments{ConditionPenalty: -0.05}, "G", -0.20},
		{"unknown dpe", model.ListingAdjustments{}, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ListingDelta(tt.adj, tt.dpe), 1e-9)
		})
	}
}

func TestAppraise(t *testing.T) {
	t.Parallel()

	d := model.Deal{
		Property:    model.Property{Price: 450_000, SurfaceM2: 50, DPEGrade: "D"},
		Comparables: comps(9800, 10_000, 10_200),
		MarketDelta: 0.02,
		Listing:     &model.ListingAdjustments{PriceCutPct: -0.03},
	}

	res, err := Appraise(d, DefaultBand)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Comparables)
	assert.InDelta(t, 10_000, res.MedianPerM2, 1e-9)
	assert.InDelta(t, -0.05, res.ListingDelta, 1e-9)
	assert.InDelta(t, 500_000*1.02*0.95, res.Nowcast, 1e-6)
	assert.Equal(t, UnderPriced, res.Verdict)
	require.NotNil(t, res.Discount)
	assert.Less(t, *res.Discount, 0.0)

	override := 0.0
	d.ListingDelta = &override
	res, err = Appraise(d, DefaultBand)
	require.NoError(t, err)
	assert.Zero(t, res.ListingDelta)

	d.Comparables = nil
	_, err = Appraise(d, DefaultBand)
	assert.ErrorIs(t, err, ErrNoComparables)
}

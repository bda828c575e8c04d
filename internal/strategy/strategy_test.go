package strategy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func byProfile(results []Result) map[Profile]Result {
	m := make(map[Profile]Result, len(results))
	for _, r := range results {
		m[r.Profile] = r
	}
	return m
}

func TestWeightsSumTo100(t *testing.T) {
	t.Parallel()

	for _, p := range Profiles() {
		assert.InDelta(t, 100, WeightSum(p), 1e-9, p.String())
	}
}

func TestBandNormalize(t *testing.T) {
	t.Parallel()

	b := band{1.0, 1.5, false}
	assert.Zero(t, b.normalize(0.6))
	assert.InDelta(t, 0.5, b.normalize(1.25), 1e-9)
	assert.InDelta(t, 1, b.normalize(3), 1e-9)

	inv := band{-0.15, 0, true}
	assert.InDelta(t, 1, inv.normalize(-0.20), 1e-9)
	assert.InDelta(t, 0, inv.normalize(0.05), 1e-9)

	assert.InDelta(t, 0.5, band{1, 1, false}.normalize(7), 1e-9)
}

func TestScore_TypicalDeal(t *testing.T) {
	t.Parallel()

	results := Score(Inputs{
		TMC:           1300,
		MarketRent:    1500,
		DSCR:          ptr(1.25),
		IRR:           ptr(0.07),
		Discount:      ptr(-0.075),
		RentCompliant: ptr(true),
		Bedrooms:      3,
		DPEGrade:      "F",
	})
	require.Len(t, results, 5)

	got := byProfile(results)
	assert.InDelta(t, 56, got[OwnerOccupier].Score, 0.01)
	assert.InDelta(t, 50, got[LocationNue].Score, 0.01)
	assert.InDelta(t, 41.67, got[LMNP].Score, 0.01)
	assert.InDelta(t, 27.83, got[Colocation].Score, 0.01)
	assert.InDelta(t, 40, got[ValueAdd].Score, 0.01)

	order := []Profile{OwnerOccupier, LocationNue, LMNP, ValueAdd, Colocation}
	for i, p := range order {
		assert.Equal(t, p, results[i].Profile, "position %d", i)
	}

	assert.Contains(t, got[OwnerOccupier].Pros, "Monthly cost €200 less than renting")
	assert.Contains(t, got[ValueAdd].Pros, "DPE F: major energy upgrade potential")
	assert.Contains(t, got[Colocation].Reasons, "Multiple-room premium")
}

func TestScore_MissingMetricsAndTies(t *testing.T) {
	t.Parallel()

	results := Score(Inputs{})
	got := byProfile(results)

	assert.InDelta(t, 50, got[OwnerOccupier].Score, 1e-9)
	assert.InDelta(t, 75, got[LocationNue].Score, 1e-9, "undefined DSCR scores full, missing IRR neutral")
	assert.InDelta(t, 75, got[LMNP].Score, 1e-9)
	assert.InDelta(t, 18, got[Colocation].Score, 1e-9)
	assert.InDelta(t, 50, got[ValueAdd].Score, 1e-9)

	order := []Profile{LocationNue, LMNP, OwnerOccupier, ValueAdd, Colocation}
	for i, p := range order {
		assert.Equal(t, p, results[i].Profile, "position %d", i)
	}
}

func TestScore_Penalties(t *testing.T) {
	t.Parallel()

	base := Inputs{DSCR: ptr(1.5), IRR: ptr(0.12), Bedrooms: 4}
	compliant := byProfile(Score(base))

	nc := base
	nc.RentCompliant = ptr(false)
	penalized := byProfile(Score(nc))

	assert.InDelta(t, compliant[LocationNue].Score*0.7, penalized[LocationNue].Score, 0.01)
	assert.InDelta(t, compliant[LMNP].Score*0.7, penalized[LMNP].Score, 0.01)
	assert.InDelta(t, compliant[Colocation].Score, penalized[Colocation].Score, 1e-9)
	assert.Contains(t, penalized[LocationNue].Cons, "Rent exceeds legal ceiling (encadrement)")

	studio := base
	studio.Bedrooms = 1
	s := byProfile(Score(studio))
	assert.Less(t, s[Colocation].Score, compliant[Colocation].Score*0.3+0.01)
	assert.Contains(t, s[Colocation].Cons, "Insufficient bedrooms for colocation")
}

func TestScore_BoundedAndSorted(t *testing.T) {
	t.Parallel()

	dscrs := []*float64{nil, ptr(-2.0), ptr(0.5), ptr(1.2), ptr(9.0)}
	irrs := []*float64{nil, ptr(-0.5), ptr(0.04), ptr(0.5)}
	discounts := []*float64{nil, ptr(-0.8), ptr(0.0), ptr(0.6)}

	for _, d := range dscrs {
		for _, irr := range irrs {
			for _, disc := range discounts {
				results := Score(Inputs{
					TMC: 5000, MarketRent: 800, DSCR: d, IRR: irr, Discount: disc,
					RentCompliant: ptr(false), Bedrooms: 7, DPEGrade: "B",
				})
				for i, r := range results {
					assert.GreaterOrEqual(t, r.Score, 0.0)
					assert.LessOrEqual(t, r.Score, 100.0)
					if i > 0 {
						assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
					}
				}
			}
		}
	}
}

func TestProfileJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Result{Profile: LMNP, Score: 12.5})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"profile":"LMNP"`)

	assert.Equal(t, "Profile(9)", Profile(9).String())
}

// Package strategy scores how well a deal fits each supported investment
// profile. Scores are weighted sums of normalized metric components on a
// 0-100 scale.
package strategy

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Profile is an investment strategy. The declaration order is the
// tie-break priority when two profiles score the same.
type Profile int

// Supported profiles, in priority order.
const (
	OwnerOccupier Profile = iota
	LocationNue
	LMNP
	Colocation
	ValueAdd
)

var profileNames = [...]string{
	OwnerOccupier: "Owner-occupier",
	LocationNue:   "Location nue",
	LMNP:          "LMNP",
	Colocation:    "Colocation",
	ValueAdd:      "Value-Add",
}

// Profiles returns every profile in priority order.
func Profiles() []Profile {
	return []Profile{OwnerOccupier, LocationNue, LMNP, Colocation, ValueAdd}
}

func (p Profile) String() string {
	if p < 0 || int(p) >= len(profileNames) {
		return fmt.Sprintf("Profile(%d)", int(p))
	}
	return profileNames[p]
}

// MarshalText renders the profile by name.
func (p Profile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Penalty multipliers.
const (
	nonCompliantPenalty  = 0.7
	fewBedroomsPenalty   = 0.3
	minColocationBedroom = 2
)

// Inputs are the metrics the scorer consumes. Nil pointers mean the metric
// is undefined or unavailable.
type Inputs struct {
	TMC           float64  // total monthly cost of ownership
	MarketRent    float64  // monthly rent for an equivalent unit; 0 = unknown
	DSCR          *float64 // nil for an all-cash purchase
	IRR           *float64
	Discount      *float64 // price ÷ now-cast − 1; negative = below market
	RentCompliant *bool    // nil = no rent-control data
	Bedrooms      int
	DPEGrade      string
}

// Result is the fit of one profile.
type Result struct {
	Profile    Profile            `json:"profile"`
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components"`
	Reasons    []string           `json:"reasons"`
	Pros       []string           `json:"pros"`
	Cons       []string           `json:"cons"`
}

// band maps a metric linearly onto [0, 1] between lo and hi. Inverted bands
// give 1 at lo and 0 at hi.
type band struct {
	lo, hi float64
	invert bool
}

func (b band) normalize(v float64) float64 {
	if b.hi == b.lo {
		return 0.5
	}
	n := (v - b.lo) / (b.hi - b.lo)
	if b.invert {
		n = 1 - n
	}
	return clamp(n, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// neutral is the component score for an unavailable metric.
const neutral = 0.5

// component is one weighted term of a profile's fit.
type component struct {
	name   string
	weight float64
	score  func(Inputs) float64
}

func dscrComponent(weight float64, b band) component {
	return component{"dscr", weight, func(in Inputs) float64 {
		if in.DSCR == nil {
			return 1 // nothing to cover
		}
		return b.normalize(*in.DSCR)
	}}
}

func irrComponent(weight float64, b band) component {
	return component{"irr", weight, func(in Inputs) float64 {
		if in.IRR == nil {
			return neutral
		}
		return b.normalize(*in.IRR)
	}}
}

func discountComponent(weight float64, b band) component {
	return component{"discount", weight, func(in Inputs) float64 {
		if in.Discount == nil {
			return neutral
		}
		return b.normalize(*in.Discount)
	}}
}

var profileComponents = map[Profile][]component{
	OwnerOccupier: {
		{"cost_vs_rent", 60, func(in Inputs) float64 {
			if in.MarketRent <= 0 {
				return neutral
			}
			return band{-1000, 1000, true}.normalize(in.TMC - in.MarketRent)
		}},
		discountComponent(40, band{-0.15, 0, true}),
	},
	LocationNue: {
		dscrComponent(50, band{1.0, 1.5, false}),
		irrComponent(50, band{0.02, 0.12, false}),
	},
	LMNP: {
		dscrComponent(50, band{1.0, 1.5, false}),
		irrComponent(50, band{0.03, 0.15, false}),
	},
	Colocation: {
		dscrComponent(40, band{1.0, 1.8, false}),
		irrComponent(40, band{0.05, 0.20, false}),
		{"bedrooms", 20, func(in Inputs) float64 {
			return band{1, 5, false}.normalize(float64(in.Bedrooms))
		}},
	},
	ValueAdd: {
		discountComponent(40, band{-0.30, 0, true}),
		irrComponent(30, band{0.08, 0.25, false}),
		{"dpe", 30, func(in Inputs) float64 {
			if poorDPE(in.DPEGrade) {
				return 1
			}
			return neutral
		}},
	},
}

// WeightSum returns the sum of a profile's component weights.
func WeightSum(p Profile) float64 {
	var sum float64
	for _, c := range profileComponents[p] {
		sum += c.weight
	}
	return sum
}

// Score fits every profile against in and returns the results sorted by
// score descending, ties kept in priority order.
func Score(in Inputs) []Result {
	results := make([]Result, 0, len(profileComponents))
	for _, p := range Profiles() {
		results = append(results, scoreProfile(p, in))
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results
}

func scoreProfile(p Profile, in Inputs) Result {
	comps := profileComponents[p]
	components := make(map[string]float64, len(comps))
	var total, weights float64
	for _, c := range comps {
		s := c.score(in)
		components[c.name] = s
		total += s * c.weight
		weights += c.weight
	}
	if weights > 0 {
		total = total / weights * 100
	}

	r := Result{Profile: p, Components: components}
	describe(p, in, &r)

	switch p {
	case LocationNue, LMNP:
		if in.RentCompliant != nil && !*in.RentCompliant {
			total *= nonCompliantPenalty
		}
	case Colocation:
		if in.Bedrooms < minColocationBedroom {
			total *= fewBedroomsPenalty
		}
	}

	r.Score = math.Round(clamp(total, 0, 100)*100) / 100
	return r
}

func poorDPE(grade string) bool {
	switch strings.ToUpper(strings.TrimSpace(grade)) {
	case "E", "F", "G":
		return true
	}
	return false
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// describe fills reasons, pros and cons from the metrics behind the score.
func describe(p Profile, in Inputs, r *Result) {
	nonCompliant := in.RentCompliant != nil && !*in.RentCompliant

	switch p {
	case OwnerOccupier:
		if in.MarketRent > 0 {
			diff := in.TMC - in.MarketRent
			if diff < 0 {
				r.Pros = append(r.Pros, fmt.Sprintf("Monthly cost €%.0f less than renting", -diff))
				r.Reasons = append(r.Reasons, "Ownership cheaper than renting")
			} else {
				r.Cons = append(r.Cons, fmt.Sprintf("Monthly cost €%.0f more than renting", diff))
			}
		}
		if in.Discount != nil {
			switch d := *in.Discount; {
			case d < -0.05:
				r.Pros = append(r.Pros, fmt.Sprintf("Priced %.0f%% below market", -d*100))
			case d > 0.05:
				r.Cons = append(r.Cons, fmt.Sprintf("Priced %.0f%% above market", d*100))
			}
		}
		r.Pros = append(r.Pros, "Builds equity through principal payments")
		r.Cons = append(r.Cons, "Lower liquidity than renting")

	case LocationNue, LMNP:
		describeCoverage(in, r, 1.2)
		hi, lo := 0.08, 0.04
		if p == LMNP {
			hi, lo = 0.10, 0.05
		}
		if in.IRR != nil {
			switch irr := *in.IRR; {
			case irr > hi:
				r.Pros = append(r.Pros, "Excellent IRR: "+pct(irr))
				r.Reasons = append(r.Reasons, "High return potential")
			case irr < lo:
				r.Cons = append(r.Cons, "Low IRR: "+pct(irr))
			}
		} else {
			r.Cons = append(r.Cons, "IRR unavailable")
		}
		if nonCompliant {
			r.Cons = append(r.Cons, "Rent exceeds legal ceiling (encadrement)")
			r.Reasons = append(r.Reasons, "Legal risk with current rent")
		}
		if p == LocationNue {
			r.Pros = append(r.Pros, "30% flat tax abatement (micro-foncier)")
			r.Cons = append(r.Cons, "Lower rent than furnished")
		} else {
			r.Pros = append(r.Pros, "50% gross rent abatement (micro-BIC)")
			r.Cons = append(r.Cons, "Furniture and turnover costs")
		}

	case Colocation:
		if in.Bedrooms < minColocationBedroom {
			r.Cons = append(r.Cons, "Insufficient bedrooms for colocation")
			r.Reasons = append(r.Reasons, "Not suitable for flatsharing")
		} else if in.Bedrooms >= 3 {
			r.Pros = append(r.Pros, fmt.Sprintf("%d bedrooms suit room-by-room letting", in.Bedrooms))
			r.Reasons = append(r.Reasons, "Multiple-room premium")
		}
		describeCoverage(in, r, 1.4)
		if in.IRR != nil && *in.IRR > 0.15 {
			r.Pros = append(r.Pros, "Exceptional IRR: "+pct(*in.IRR))
		}
		if nonCompliant {
			r.Cons = append(r.Cons, "Room rents may exceed encadrement limits")
		}
		r.Cons = append(r.Cons, "Multiple leases to manage")

	case ValueAdd:
		if in.Discount != nil && *in.Discount < -0.10 {
			r.Pros = append(r.Pros, fmt.Sprintf("Significant discount: %.0f%%", -*in.Discount*100))
			r.Reasons = append(r.Reasons, "Below-market acquisition")
		}
		grade := strings.ToUpper(strings.TrimSpace(in.DPEGrade))
		switch {
		case poorDPE(grade):
			r.Pros = append(r.Pros, fmt.Sprintf("DPE %s: major energy upgrade potential", grade))
			r.Reasons = append(r.Reasons, "Renovation value-add opportunity")
		case grade != "":
			r.Cons = append(r.Cons, fmt.Sprintf("DPE %s: limited energy upgrade value", grade))
		}
		if in.IRR != nil && *in.IRR > 0.15 {
			r.Pros = append(r.Pros, "High IRR: "+pct(*in.IRR))
		}
		r.Cons = append(r.Cons, "Requires upfront renovation capital")
	}
}

func describeCoverage(in Inputs, r *Result, strong float64) {
	if in.DSCR == nil {
		r.Pros = append(r.Pros, "No debt service to cover")
		return
	}
	switch dscr := *in.DSCR; {
	case dscr > strong:
		r.Pros = append(r.Pros, fmt.Sprintf("Strong cash flow (DSCR: %.2f)", dscr))
		r.Reasons = append(r.Reasons, "Positive monthly cash flow")
	case dscr < 1.0:
		r.Cons = append(r.Cons, fmt.Sprintf("Negative cash flow (DSCR: %.2f)", dscr))
		r.Reasons = append(r.Reasons, "Monthly losses expected")
	}
}

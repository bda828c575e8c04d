// Package tvm implements time-value-of-money calculations: NPV, IRR, net
// sale proceeds and equity multiple.
package tvm

import (
	"math"

	"github.com/rotisserie/eris"
)

// Solver limits. Tolerance is the absolute NPV residual accepted as a root.
const (
	Tolerance     = 1e-6
	MaxIterations = 200
)

// Rates outside (minRate, maxRate] are not searched.
const (
	minRate = -0.9999
	maxRate = 1000.0
)

var (
	// ErrNoRealSolution is returned when a cash-flow series has no IRR the
	// solver can find: no sign change, or no convergence within MaxIterations.
	ErrNoRealSolution = eris.New("irr: no real solution")

	// ErrInvalidRate is returned for discount rates at or below -100%.
	ErrInvalidRate = eris.New("discount rate must be > -1")
)

// scanGrid is the ascending set of rates probed to bracket a root.
var scanGrid = []float64{
	minRate, -0.99, -0.95, -0.9, -0.8, -0.7, -0.6, -0.5, -0.4, -0.3, -0.2, -0.15,
	-0.1, -0.05, -0.02, 0, 0.02, 0.05, 0.08, 0.1, 0.15, 0.2, 0.3, 0.5, 0.75, 1,
	1.5, 2, 3, 5, 10, 25, 100, maxRate,
}

// guess is the rate around which the bracket closest to typical real-estate
// returns is preferred when a series has several roots.
const guess = 0.1

// NPV returns Σ CF_t / (1 + rate)^t with CF_0 undiscounted.
func NPV(cashFlows []float64, rate float64) (float64, error) {
	if rate <= -1 || math.IsNaN(rate) {
		return 0, eris.Wrapf(ErrInvalidRate, "npv: rate %v", rate)
	}
	return npv(cashFlows, rate), nil
}

func npv(cashFlows []float64, rate float64) float64 {
	var sum float64
	factor := 1.0
	for _, cf := range cashFlows {
		sum += cf / factor
		factor *= 1 + rate
	}
	return sum
}

// dnpv returns d(NPV)/d(rate).
func dnpv(cashFlows []float64, rate float64) float64 {
	var sum float64
	for t, cf := range cashFlows {
		if t == 0 {
			continue
		}
		sum -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return sum
}

// IRR returns the rate r solving 0 = Σ CF_t / (1 + r)^t.
//
// The series needs at least two flows and one sign change. A root is
// bracketed by scanning a fixed rate grid, then refined with Newton steps
// that fall back to bisection whenever a step leaves the bracket. Failure
// to bracket or converge returns ErrNoRealSolution.
func IRR(cashFlows []float64) (float64, error) {
	if len(cashFlows) < 2 {
		return 0, eris.Wrap(ErrNoRealSolution, "irr: need at least two cash flows")
	}
	if !hasSignChange(cashFlows) {
		return 0, eris.Wrap(ErrNoRealSolution, "irr: cash flows never change sign")
	}

	lo, hi, ok := bracket(cashFlows)
	if !ok {
		return 0, eris.Wrap(ErrNoRealSolution, "irr: no bracketing interval")
	}
	r, ok := refine(cashFlows, lo, hi)
	if !ok {
		return 0, eris.Wrapf(ErrNoRealSolution, "irr: no convergence in %d iterations", MaxIterations)
	}
	return r, nil
}

// IsNoSolution reports whether err signals an unavailable IRR.
func IsNoSolution(err error) bool {
	return eris.Is(err, ErrNoRealSolution)
}

func hasSignChange(cashFlows []float64) bool {
	var pos, neg bool
	for _, cf := range cashFlows {
		switch {
		case cf > 0:
			pos = true
		case cf < 0:
			neg = true
		}
		if pos && neg {
			return true
		}
	}
	return false
}

// bracket returns the grid interval containing a sign change of NPV that is
// closest to guess.
func bracket(cashFlows []float64) (float64, float64, bool) {
	var (
		found        bool
		bestLo       float64
		bestHi       float64
		bestDistance = math.Inf(1)
	)

	prevRate := scanGrid[0]
	prevVal := npv(cashFlows, prevRate)
	if prevVal == 0 {
		return prevRate, prevRate, true
	}

	for _, rate := range scanGrid[1:] {
		val := npv(cashFlows, rate)
		if val == 0 {
			return rate, rate, true
		}
		if finite(val) && finite(prevVal) && (val > 0) != (prevVal > 0) {
			d := distance(prevRate, rate, guess)
			if d < bestDistance {
				bestDistance = d
				bestLo, bestHi = prevRate, rate
				found = true
			}
		}
		prevRate, prevVal = rate, val
	}
	return bestLo, bestHi, found
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func distance(lo, hi, x float64) float64 {
	switch {
	case x < lo:
		return lo - x
	case x > hi:
		return x - hi
	default:
		return 0
	}
}

// refine runs a safeguarded Newton iteration inside [lo, hi].
func refine(cashFlows []float64, lo, hi float64) (float64, bool) {
	if lo == hi {
		return lo, true
	}

	fLo := npv(cashFlows, lo)
	r := (lo + hi) / 2
	for range MaxIterations {
		f := npv(cashFlows, r)
		if math.Abs(f) <= Tolerance {
			return r, true
		}

		// Shrink the bracket around the root.
		if (f > 0) == (fLo > 0) {
			lo, fLo = r, f
		} else {
			hi = r
		}
		if hi-lo <= 1e-15*math.Max(1, math.Abs(r)) {
			// The bracket collapsed to adjacent floats; the residual left is
			// rounding noise from the size of the flows.
			return r, true
		}

		next := r
		if d := dnpv(cashFlows, r); d != 0 {
			next = r - f/d
		}
		if next <= lo || next >= hi || next == r {
			next = (lo + hi) / 2
		}
		r = next
	}
	return 0, false
}

// NetSaleProceeds returns resale price − selling costs − remaining loan.
func NetSaleProceeds(resalePrice, sellingCostRate, remainingLoan float64) float64 {
	return resalePrice - resalePrice*sellingCostRate - remainingLoan
}

// ErrNoEquity is returned by EquityMultiple when nothing was invested.
var ErrNoEquity = eris.New("equity multiple: no equity invested")

// EquityMultiple returns total distributions to equity ÷ total equity invested.
func EquityMultiple(totalDistributions, totalEquity float64) (float64, error) {
	if totalEquity == 0 {
		return 0, ErrNoEquity
	}
	return totalDistributions / totalEquity, nil
}

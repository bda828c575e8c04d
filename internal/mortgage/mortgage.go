// Package mortgage computes amortizing-loan payments and schedules.
package mortgage

import "math"

// Period is one monthly payment of an amortization schedule.
type Period struct {
	Number           int     `json:"number"`
	Payment          float64 `json:"payment"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// MonthlyPayment returns the level monthly payment of an amortizing loan.
//
// FORMULA: M = P × i / (1 − (1 + i)^−n), i = annualRate/12, n = termYears×12
//
// A zero rate falls back to M = P/n. A non-positive principal or term
// yields 0.
func MonthlyPayment(principal, annualRate float64, termYears int) float64 {
	if principal <= 0 || termYears <= 0 {
		return 0
	}
	n := float64(termYears * 12)
	if annualRate == 0 {
		return principal / n
	}
	i := annualRate / 12
	return principal * i / (1 - math.Pow(1+i, -n))
}

// Schedule returns the full monthly amortization schedule. The final
// period absorbs floating-point drift: its principal portion equals the
// balance still outstanding and its remaining balance is exactly 0.
func Schedule(principal, annualRate float64, termYears int) []Period {
	if principal <= 0 || termYears <= 0 {
		return nil
	}

	n := termYears * 12
	i := annualRate / 12
	payment := MonthlyPayment(principal, annualRate, termYears)

	schedule := make([]Period, 0, n)
	balance := principal
	for k := 1; k <= n; k++ {
		interest := balance * i
		princ := payment - interest
		if k == n {
			princ = balance
		}
		balance -= princ
		if k == n || balance < 0 {
			balance = 0
		}
		schedule = append(schedule, Period{
			Number:           k,
			Payment:          interest + princ,
			Interest:         interest,
			Principal:        princ,
			RemainingBalance: balance,
		})
	}
	return schedule
}

// BalanceAfter returns the balance outstanding after the given number of
// payments. Period 0 (or an empty schedule) returns the opening balance;
// periods past the term return 0.
func BalanceAfter(schedule []Period, period int) float64 {
	if len(schedule) == 0 {
		return 0
	}
	if period <= 0 {
		first := schedule[0]
		return first.RemainingBalance + first.Principal
	}
	if period >= len(schedule) {
		return 0
	}
	return schedule[period-1].RemainingBalance
}

// InterestForYear sums the interest paid during the given 1-indexed loan year.
func InterestForYear(schedule []Period, year int) float64 {
	var sum float64
	for _, p := range yearSlice(schedule, year) {
		sum += p.Interest
	}
	return sum
}

// PrincipalForYear sums the principal repaid during the given 1-indexed loan year.
func PrincipalForYear(schedule []Period, year int) float64 {
	var sum float64
	for _, p := range yearSlice(schedule, year) {
		sum += p.Principal
	}
	return sum
}

// TotalInterest sums interest over the whole schedule.
func TotalInterest(schedule []Period) float64 {
	var sum float64
	for _, p := range schedule {
		sum += p.Interest
	}
	return sum
}

func yearSlice(schedule []Period, year int) []Period {
	if year < 1 {
		return nil
	}
	start := (year - 1) * 12
	if start >= len(schedule) {
		return nil
	}
	end := min(start+12, len(schedule))
	return schedule[start:end]
}

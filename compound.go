package viewprofit

import "math"

// Accumulate compounds a sequence of percent returns, ordered oldest-first:
//
//	A_i = 100·(Π_{j≤i}(1 + r_j/100) − 1)
//
// A non finite return marks an undefined period: its accumulated value is NaN
// and it does not contribute to the following ones.
func Accumulate(perc []float64) []float64 {
	out := make([]float64, len(perc))
	product := 1.0
	for i, r := range perc {
		if !finite(r) {
			out[i] = math.NaN()
			continue
		}
		product *= 1 + r/100
		out[i] = 100 * (product - 1)
	}
	return out
}

// Decompose is the inverse of Accumulate: it returns the per period percent
// returns of an accumulated series, ordered oldest-first.
func Decompose(acc []float64) []float64 {
	out := make([]float64, len(acc))
	prev := 0.0
	for i, a := range acc {
		out[i] = 100 * ((1+a/100)/(1+prev/100) - 1)
		prev = a
	}
	return out
}

// CumulativeSum returns the running sum of values.
func CumulativeSum(values []float64) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}

// reverseCumulativeSum returns the running sum of newest-first values taken
// from the oldest one: out[i] is the sum of values[i:].
func reverseCumulativeSum(values []float64) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i := len(values) - 1; i >= 0; i-- {
		sum += values[i]
		out[i] = sum
	}
	return out
}

// reverseAccumulate is Accumulate applied to newest-first values.
func reverseAccumulate(perc []float64) []float64 {
	return reversed(Accumulate(reversed(perc)))
}

func reversed(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

// GrossReturn is the balance change of a period that is not explained by flows.
func GrossReturn(starting, ending, deposit, withdrawal float64) float64 {
	return ending - starting - deposit + withdrawal
}

// ReturnPerc is ret as a percent of the capital invested during the period.
//
// A period with no capital has an undefined return: the result is ±Inf or NaN,
// never a panic.
func ReturnPerc(ret, starting, deposit, withdrawal float64) float64 {
	return 100 * ret / (starting + deposit - withdrawal)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

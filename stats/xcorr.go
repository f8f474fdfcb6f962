package stats

import "slices"

// CrossCorrelation returns the raw (not normalized) cross-correlation of a
// reference sequence a with b:
//
//	c[n] = Σ_{m≥n} a[m]·b[m−n]   for n in 0..N−1
//
// The result is reversed so that it reads from the largest lag down to lag 0.
func CrossCorrelation(a, b []float64) ([]float64, error) {
	if err := sameLength("cross correlation", a, b); err != nil {
		return nil, err
	}
	out := make([]float64, len(a))
	for n := range a {
		var sum float64
		for m := n; m < len(a); m++ {
			sum += a[m] * b[m-n]
		}
		out[n] = sum
	}
	slices.Reverse(out)
	return out, nil
}

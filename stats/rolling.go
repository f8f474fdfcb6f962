package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CorrelationTolerance is the spread below which ExpandingCorrelation does not
// normalize the covariance sum.
const CorrelationTolerance = 0.001

// ExpandingStdDev returns, for every index i, the standard deviation of
// values[0..i] around their mean, divided by i. The first point is 0.
func ExpandingStdDev(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		window := values[:i+1]
		avg := stat.Mean(window, nil)
		var sum float64
		for _, v := range window {
			sum += (v - avg) * (v - avg)
		}
		out[i] = math.Sqrt(sum / float64(i))
	}
	return out
}

// SecondDerivative returns the discrete second derivative of values with a unit
// step: central difference for interior points, forward at the first point and
// backward at the last one. It needs at least 3 points.
func SecondDerivative(values []float64) ([]float64, error) {
	n := len(values)
	if err := needPoints("second derivative", 3, n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range values {
		switch i {
		case 0:
			out[i] = values[2] - 2*values[1] + values[0]
		case n - 1:
			out[i] = values[i] - 2*values[i-1] + values[i-2]
		default:
			out[i] = values[i+1] - 2*values[i] + values[i-1]
		}
	}
	return out, nil
}

// ExpandingCorrelation returns the Pearson correlation of a and b computed for
// every index i on a[0..i] and b[0..i].
//
// When the sample standard deviation of either window is under
// CorrelationTolerance the covariance sum is returned as is, which is 0 for
// the first point.
func ExpandingCorrelation(a, b []float64) ([]float64, error) {
	if err := sameLength("expanding correlation", a, b); err != nil {
		return nil, err
	}
	out := make([]float64, len(a))
	for i := range a {
		wa, wb := a[:i+1], b[:i+1]
		avgA, avgB := stat.Mean(wa, nil), stat.Mean(wb, nil)

		var cov, varA, varB float64
		for m := range wa {
			da, db := wa[m]-avgA, wb[m]-avgB
			cov += da * db
			varA += da * da
			varB += db * db
		}
		out[i] = cov
		if i > 0 && math.Sqrt(varA/float64(i)) > CorrelationTolerance && math.Sqrt(varB/float64(i)) > CorrelationTolerance {
			out[i] /= math.Sqrt(varA) * math.Sqrt(varB)
		}
	}
	return out, nil
}

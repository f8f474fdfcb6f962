package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCA_ProportionalRows(t *testing.T) {
	a := []float64{1.2, -0.4, 2.5, 0.9, -1.7}
	scaled := func(k float64) []float64 {
		out := make([]float64, len(a))
		for i, v := range a {
			out[i] = k * v
		}
		return out
	}
	names := []string{"a", "b", "c"}
	data := [][]float64{scaled(1), scaled(2), scaled(3)}

	for _, standardize := range []bool{false, true} {
		res, err := PCA(names, data, standardize)
		require.NoError(t, err)
		assert.InDelta(t, 100, res.ExplainedVariance[0], 1e-6, "standardize=%v", standardize)
		assert.InDelta(t, 0, res.ExplainedVariance[1], 1e-6, "standardize=%v", standardize)
		// the middle row is the column mean, it projects on the origin.
		assert.InDelta(t, 0, res.Projections["b"].PC1, 1e-9)
		assert.InDelta(t, -res.Projections["a"].PC1, res.Projections["c"].PC1, 1e-9)
	}
}

func TestPCA_KnownCovariance(t *testing.T) {
	// centered data, covariance = [[4 1] [1 1]], eigenvalues (5±√13)/2
	data := [][]float64{{2, 0}, {0, 1}, {-2, -1}}
	res, err := PCA([]string{"x", "y", "z"}, data, false)
	require.NoError(t, err)

	l1, l2 := (5+math.Sqrt(13))/2, (5-math.Sqrt(13))/2
	require.Len(t, res.Eigenvalues, 2)
	assert.InDelta(t, l2, res.Eigenvalues[0], 1e-9, "eigenvalues are ascending")
	assert.InDelta(t, l1, res.Eigenvalues[1], 1e-9)
	assert.InDelta(t, 100*l1/5, res.ExplainedVariance[0], 1e-9)
	assert.InDelta(t, 100*l2/5, res.ExplainedVariance[1], 1e-9)
	assert.LessOrEqual(t, res.ExplainedVariance[0]+res.ExplainedVariance[1], 100+1e-9)

	// projections preserve the distance to the origin in 2 dimensions.
	for i, name := range []string{"x", "y", "z"} {
		p := res.Projections[name]
		norm := math.Hypot(data[i][0], data[i][1])
		assert.InDelta(t, norm, math.Hypot(p.PC1, p.PC2), 1e-9, name)
	}
}

func TestPCA_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		names []string
		data  [][]float64
		want  error
	}{
		{"no rows", nil, nil, ErrInsufficientData},
		{"single column", []string{"a", "b"}, [][]float64{{1}, {2}}, ErrInsufficientData},
		{"ragged", []string{"a", "b"}, [][]float64{{1, 2}, {1}}, ErrInvalidInput},
		{"names", []string{"a"}, [][]float64{{1, 2}, {2, 1}}, ErrInvalidInput},
		{"not finite", []string{"a", "b"}, [][]float64{{1, math.NaN()}, {2, 1}}, ErrInvalidInput},
		{"no variance", []string{"a", "b"}, [][]float64{{1, 2}, {1, 2}}, ErrSolver},
		{"single row", []string{"a"}, [][]float64{{1, 2}}, ErrSolver},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PCA(tc.names, tc.data, true)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPCA_NoVariance(t *testing.T) {
	_, err := PCA([]string{"a", "b"}, [][]float64{{0, 0, 0}, {0, 0, 0}}, false)
	assert.ErrorIs(t, err, ErrSolver)
	assert.ErrorIs(t, err, ErrNoVariance)
}

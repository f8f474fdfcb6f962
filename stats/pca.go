package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// scaleTolerance is the column standard deviation under which a column is
// centered but left unscaled.
const scaleTolerance = 0.0001

// Point2 is a coordinate in the plane of the first two principal components.
type Point2 struct {
	PC1, PC2 float64
}

// PCAResult holds the outcome of a principal component analysis.
type PCAResult struct {
	// ExplainedVariance are the percentages of total variance captured by PC1 and PC2.
	ExplainedVariance [2]float64
	// Projections maps each row name to its coordinates on PC1 and PC2.
	Projections map[string]Point2
	// Eigenvalues of the covariance matrix in ascending order, as returned by the solver.
	Eigenvalues []float64
}

// PCA runs a principal component analysis of a names x columns matrix (one
// row per fund, one column per month).
//
// Columns are always mean centered, and divided by their population standard
// deviation when standardize is true. The covariance matrix is Xᵀ·X/(n−1), or
// Xᵀ·X for a single row. The symmetric solver returns eigenvalues in
// ascending order, so PC1 and PC2 are the last two.
func PCA(names []string, data [][]float64, standardize bool) (*PCAResult, error) {
	rows := len(data)
	if err := needPoints("pca rows", 1, rows); err != nil {
		return nil, err
	}
	if len(names) != rows {
		return nil, fmt.Errorf("pca: %w: %d names for %d rows", ErrInvalidInput, len(names), rows)
	}
	cols := len(data[0])
	if err := needPoints("pca columns", 2, cols); err != nil {
		return nil, err
	}

	x := mat.NewDense(rows, cols, nil)
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("pca: %w: row %q has %d columns, want %d", ErrInvalidInput, names[i], len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("pca: %w: row %q column %d is %v", ErrInvalidInput, names[i], j, v)
			}
		}
		x.SetRow(i, row)
	}
	center(x, standardize)

	// covariance = alpha·Xᵀ·X computed directly as a symmetric matrix.
	alpha := 1.0
	if rows > 1 {
		alpha = 1 / float64(rows-1)
	}
	var cov mat.SymDense
	cov.SymOuterK(alpha, x.T())

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return nil, fmt.Errorf("pca: %w", ErrSolver)
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	var total float64
	for _, v := range values {
		total += v
	}
	if total == 0 || math.IsNaN(total) {
		return nil, fmt.Errorf("pca: %w: %w (total %v)", ErrSolver, ErrNoVariance, total)
	}

	n := len(values)
	res := &PCAResult{
		ExplainedVariance: [2]float64{100 * values[n-1] / total, 100 * values[n-2] / total},
		Projections:       make(map[string]Point2, rows),
		Eigenvalues:       values,
	}

	// projection matrix made of the two last eigenvectors.
	proj := mat.NewDense(cols, 2, nil)
	proj.SetCol(0, mat.Col(nil, n-1, &vectors))
	proj.SetCol(1, mat.Col(nil, n-2, &vectors))
	var p mat.Dense
	p.Mul(x, proj)
	for i, name := range names {
		res.Projections[name] = Point2{PC1: p.At(i, 0), PC2: p.At(i, 1)}
	}
	return res, nil
}

// center subtracts each column's mean and, when scale is true, divides it by
// its population standard deviation if that is above scaleTolerance.
func center(x *mat.Dense, scale bool) {
	rows, cols := x.Dims()
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		for i := range col {
			col[i] -= mean
			if scale && std > scaleTolerance {
				col[i] /= std
			}
		}
		x.SetCol(j, col)
	}
}

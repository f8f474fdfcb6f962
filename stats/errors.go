// Package stats implements the cross-series statistics computed on top of
// return series: expanding standard deviation and correlation, discrete
// second derivative, raw cross-correlation and principal component analysis.
//
// All functions are pure: inputs are never modified and results are freshly
// allocated. Sequences are ordered oldest-first unless stated otherwise.
package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is matched by errors.Is for every *InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrLengthMismatch is returned when two sequences must have the same length.
	ErrLengthMismatch = errors.New("sequences have different lengths")
	// ErrInvalidInput is returned for ragged or non finite matrices.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSolver is returned when the eigen decomposition cannot be computed.
	ErrSolver = errors.New("eigen decomposition failed")
	// ErrNoVariance is returned with ErrSolver when the data does not vary at all.
	ErrNoVariance = errors.New("no variance")
)

// InsufficientDataError reports that an operation needs more points than it was given.
type InsufficientDataError struct {
	Op   string // operation name
	Need int    // minimum number of points
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need at least %d points, got %d", e.Op, e.Need, e.Got)
}

// Is makes errors.Is(err, ErrInsufficientData) true.
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// needPoints returns an *InsufficientDataError if got < need.
func needPoints(op string, need, got int) error {
	if got < need {
		return &InsufficientDataError{Op: op, Need: need, Got: got}
	}
	return nil
}

func sameLength(op string, a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("%s: %w: %d != %d", op, ErrLengthMismatch, len(a), len(b))
	}
	return nil
}

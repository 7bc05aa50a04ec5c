// Package series normalizes multivariate time series into a uniform
// per-trial representation.
//
// A recording is passed as a slice of gonum matrices, one per trial. A single
// continuous recording is a one-element slice (see Table). Normalize copies
// every trial into a dense matrix with observations in rows and variables in
// columns, and reports the per-trial observation counts together with the
// variable count shared by all trials.
package series

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShapeMismatch is returned when trial counts, observation counts or
	// variable counts disagree.
	ErrShapeMismatch = errors.New("series: shape mismatch")

	// ErrInvalidDim is returned for an observation axis other than 1 or 2.
	ErrInvalidDim = errors.New("series: dim must be 1 or 2")

	// ErrEmpty is returned for an empty collection or an empty trial.
	ErrEmpty = errors.New("series: empty input")
)

// Dim selects which axis of a table holds observations.
type Dim int

const (
	// ObsRows means observations are rows and variables are columns.
	ObsRows Dim = 1
	// ObsCols means observations are columns and variables are rows.
	ObsCols Dim = 2
)

// Valid reports whether d is ObsRows or ObsCols.
func (d Dim) Valid() bool {
	return d == ObsRows || d == ObsCols
}

// ShapeError describes which dimension disagreed and where.
type ShapeError struct {
	What     string // "trials", "observations" or "variables"
	Index    int    // trial index, -1 when the mismatch is not trial specific
	Expected int
	Got      int
}

func (e *ShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("series: %s must have size %d, got %d", e.What, e.Expected, e.Got)
	}
	return fmt.Sprintf("series: trial %d: %s must have size %d, got %d", e.Index, e.What, e.Expected, e.Got)
}

// Unwrap makes errors.Is(err, ErrShapeMismatch) hold for every ShapeError.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// Collection is a normalized time series: one dense observations × variables
// matrix per trial.
type Collection struct {
	Trials []*mat.Dense
	NObs   []int // observations per trial
	NVar   int   // variables, identical for every trial
}

// Table wraps a single continuous recording as a one-trial collection.
func Table(m mat.Matrix) []mat.Matrix {
	return []mat.Matrix{m}
}

// Normalize copies tables into a Collection with observations in rows.
// The caller's matrices are never modified.
func Normalize(tables []mat.Matrix, dim Dim) (*Collection, error) {
	if !dim.Valid() {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDim, dim)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no trials", ErrEmpty)
	}

	c := &Collection{
		Trials: make([]*mat.Dense, len(tables)),
		NObs:   make([]int, len(tables)),
	}
	for i, t := range tables {
		if t == nil {
			return nil, fmt.Errorf("%w: trial %d is nil", ErrEmpty, i)
		}
		r, cols := t.Dims()
		if r == 0 || cols == 0 {
			return nil, fmt.Errorf("%w: trial %d has shape %dx%d", ErrEmpty, i, r, cols)
		}

		var d *mat.Dense
		if dim == ObsCols {
			d = mat.DenseCopyOf(t.T())
		} else {
			d = mat.DenseCopyOf(t)
		}
		nobs, nvar := d.Dims()

		if i == 0 {
			c.NVar = nvar
		} else if nvar != c.NVar {
			return nil, &ShapeError{What: "variables", Index: i, Expected: c.NVar, Got: nvar}
		}
		c.Trials[i] = d
		c.NObs[i] = nobs
	}
	return c, nil
}

// Len returns the number of trials.
func (c *Collection) Len() int {
	return len(c.Trials)
}

// Pair checks that x and y can be regressed on each other: same number of
// trials and the same number of observations in each pair of trials.
func Pair(x, y *Collection) error {
	if x.Len() != y.Len() {
		return &ShapeError{What: "trials", Index: -1, Expected: x.Len(), Got: y.Len()}
	}
	for i := range x.NObs {
		if x.NObs[i] != y.NObs[i] {
			return &ShapeError{What: "observations", Index: i, Expected: x.NObs[i], Got: y.NObs[i]}
		}
	}
	return nil
}

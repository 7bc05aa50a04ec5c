// Package covmat builds time-lagged design matrices and accumulates the
// covariance matrices used to solve lagged linear regressions.
//
// The design matrix of a predictor x with nvar variables and lag set lags has
// one leading bias column of ones followed by len(lags) blocks of nvar
// columns. Column 1+k*nvar+v holds variable v delayed by lags[k] samples, so
// row t of that column is x[t-lags[k]][v], or zero outside the recording.
package covmat

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-trf/series"
)

var (
	ErrInvalidSplit   = errors.New("covmat: split must be a positive integer")
	ErrNoLags         = errors.New("covmat: empty lag set")
	ErrNoObservations = errors.New("covmat: no observations left after truncation")
)

// Mode selects how lags enter the regression.
type Mode int

const (
	// Joint regresses on all lags at once: one system of width nvar*nlag+1.
	Joint Mode = iota
	// PerLag regresses on each lag independently: nlag systems of width nvar+1.
	PerLag
)

func (m Mode) String() string {
	switch m {
	case Joint:
		return "joint"
	case PerLag:
		return "per-lag"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Width returns the size of one regression system including the bias.
func Width(nvar, nlag int, mode Mode) int {
	if mode == PerLag {
		return nvar + 1
	}
	return nvar*nlag + 1
}

// Covariance holds summed auto- and cross-covariance matrices. In Joint mode
// XX and XY have one element; in PerLag mode they have one element per lag.
type Covariance struct {
	Mode Mode
	XX   []*mat.Dense // width × width
	XY   []*mat.Dense // width × target variables
}

// LagGen returns the lagged design matrix of x. With bias a leading column of
// ones is added. Without zeropad the rows that would contain padding for any
// lag are dropped (see Truncate); nil is returned when no row survives.
func LagGen(x *mat.Dense, lags []int, zeropad, bias bool) *mat.Dense {
	n, nvar := x.Dims()
	off := 0
	if bias {
		off = 1
	}
	xl := mat.NewDense(n, off+nvar*len(lags), nil)

	for t := 0; t < n; t++ {
		row := xl.RawRowView(t)
		if bias {
			row[0] = 1
		}
		for k, lag := range lags {
			src := t - lag
			if src < 0 || src >= n {
				continue
			}
			col := off + k*nvar
			copy(row[col:col+nvar], x.RawRowView(src))
		}
	}

	if !zeropad {
		return Truncate(xl, lags[0], lags[len(lags)-1])
	}
	return xl
}

// Truncate drops the rows of x that a lag window [tmin, tmax] (in samples)
// would fill with padding. It returns a view of x, or nil when nothing is
// left.
func Truncate(x *mat.Dense, tmin, tmax int) *mat.Dense {
	n, c := x.Dims()
	start := max(0, tmax)
	end := min(n, n+tmin)
	if end <= start {
		return nil
	}
	return x.Slice(start, end, 0, c).(*mat.Dense)
}

// Segments splits n observations into split contiguous segments of at most
// ceil(n/split) observations. Empty segments are omitted.
func Segments(n, split int) [][2]int {
	size := (n + split - 1) / split
	segs := make([][2]int, 0, split)
	for j := 0; j < split; j++ {
		lo := size * j
		hi := min(size*(j+1), n)
		if lo >= hi {
			break
		}
		segs = append(segs, [2]int{lo, hi})
	}
	return segs
}

// Accumulate sums, over trials and segments, the covariance of the
// bias-augmented lagged design of x with itself and with y. Trials are
// observations × variables. Each trial is cut into split segments that are
// lagged independently, which bounds the size of the design matrix held in
// memory at the cost of treating segment edges like trial edges.
func Accumulate(x, y []*mat.Dense, lags []int, mode Mode, split int, zeropad bool) (*Covariance, error) {
	if len(lags) == 0 {
		return nil, ErrNoLags
	}
	if split < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSplit, split)
	}
	if len(x) != len(y) {
		return nil, &series.ShapeError{What: "trials", Index: -1, Expected: len(x), Got: len(y)}
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no trials", series.ErrEmpty)
	}

	_, xvar := x[0].Dims()
	_, yvar := y[0].Dims()
	for i := range x {
		xn, xv := x[i].Dims()
		yn, yv := y[i].Dims()
		switch {
		case xv != xvar:
			return nil, &series.ShapeError{What: "variables", Index: i, Expected: xvar, Got: xv}
		case yv != yvar:
			return nil, &series.ShapeError{What: "variables", Index: i, Expected: yvar, Got: yv}
		case xn != yn:
			return nil, &series.ShapeError{What: "observations", Index: i, Expected: xn, Got: yn}
		}
	}

	nsys := 1
	if mode == PerLag {
		nsys = len(lags)
	}
	width := Width(xvar, len(lags), mode)
	cov := &Covariance{
		Mode: mode,
		XX:   make([]*mat.Dense, nsys),
		XY:   make([]*mat.Dense, nsys),
	}
	for k := 0; k < nsys; k++ {
		cov.XX[k] = mat.NewDense(width, width, nil)
		cov.XY[k] = mat.NewDense(width, yvar, nil)
	}

	used := 0
	for i := range x {
		n, _ := x[i].Dims()
		for _, seg := range Segments(n, split) {
			xs := x[i].Slice(seg[0], seg[1], 0, xvar).(*mat.Dense)
			ys := y[i].Slice(seg[0], seg[1], 0, yvar).(*mat.Dense)

			xl := LagGen(xs, lags, zeropad, true)
			if xl == nil {
				continue
			}
			if !zeropad {
				ys = Truncate(ys, lags[0], lags[len(lags)-1])
			}
			rows, _ := xl.Dims()
			used += rows

			if mode == PerLag {
				for k := range lags {
					lo := 1 + k*xvar
					var xk mat.Dense
					xk.Augment(xl.ColView(0), xl.Slice(0, rows, lo, lo+xvar))
					accumulate(cov.XX[k], cov.XY[k], &xk, ys)
				}
				continue
			}
			accumulate(cov.XX[0], cov.XY[0], xl, ys)
		}
	}
	if used == 0 {
		return nil, fmt.Errorf("%w: lags %d..%d", ErrNoObservations, lags[0], lags[len(lags)-1])
	}
	return cov, nil
}

// accumulate adds xl'xl to cxx and xl'y to cxy.
func accumulate(cxx, cxy, xl *mat.Dense, y mat.Matrix) {
	var xx, xy mat.Dense
	xx.Mul(xl.T(), xl)
	xy.Mul(xl.T(), y)
	vecmath.AddBlockInPlace(cxx.RawMatrix().Data, xx.RawMatrix().Data)
	vecmath.AddBlockInPlace(cxy.RawMatrix().Data, xy.RawMatrix().Data)
}

package trf

import (
	"fmt"
	"math"
	"runtime"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-trf/covmat"
)

// solve dispatches on the covariance mode. The result holds one weight block
// per system: a single (xvar*nlag+1)×yvar block for a joint fit, or nlag
// blocks of (xvar+1)×yvar for a per-lag fit.
func solve(cov *covmat.Covariance, m *mat.Dense, delta float64) ([]*mat.Dense, error) {
	if cov.Mode == covmat.PerLag {
		return solvePerLag(cov, m, delta)
	}
	w, err := solveSystem(cov.XX[0], cov.XY[0], m, delta)
	if err != nil {
		return nil, err
	}
	return []*mat.Dense{w}, nil
}

// solvePerLag solves every lag's system concurrently. The systems share only
// read-only inputs and each goroutine writes its own slot.
func solvePerLag(cov *covmat.Covariance, m *mat.Dense, delta float64) ([]*mat.Dense, error) {
	out := make([]*mat.Dense, len(cov.XX))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := range cov.XX {
		g.Go(func() error {
			w, err := solveSystem(cov.XX[k], cov.XY[k], m, delta)
			if err != nil {
				return fmt.Errorf("lag index %d: %w", k, err)
			}
			out[k] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// solveSystem returns (cxx + m)⁻¹·cxy / delta.
func solveSystem(cxx, cxy, m *mat.Dense, delta float64) (*mat.Dense, error) {
	var a mat.Dense
	a.Add(cxx, m)

	var w mat.Dense
	if err := w.Solve(&a, cxy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNumerical, err)
	}

	raw := w.RawMatrix().Data
	vecmath.ScaleBlockInPlace(raw, 1/delta)
	// NaN and Inf propagate through the sum.
	if s := vecmath.Sum(raw); math.IsNaN(s) || math.IsInf(s, 0) {
		return nil, fmt.Errorf("%w: non-finite weights", ErrNumerical)
	}
	return &w, nil
}

package trf

import (
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"
)

// Penalty is the regularization matrix of one fit, already scaled by
// lambda/delta. Index 0 is the bias.
type Penalty struct {
	Method Method
	Lambda float64 // effective strength, zero for OLS
	M      *mat.Dense
}

// NewPenalty builds the mvar×mvar penalty for method and scales it by
// lambda/delta, where delta is the sampling interval in seconds.
func NewPenalty(method Method, mvar int, lambda, delta float64) Penalty {
	var m *mat.Dense
	switch method {
	case Ridge:
		m = RidgeMatrix(mvar)
	case Tikhonov:
		m = TikhonovMatrix(mvar)
	default:
		lambda = 0
		m = OLSMatrix(mvar)
	}
	vecmath.ScaleBlockInPlace(m.RawMatrix().Data, lambda/delta)
	return Penalty{Method: method, Lambda: lambda, M: m}
}

// RidgeMatrix returns the identity with the bias entry zeroed.
func RidgeMatrix(mvar int) *mat.Dense {
	m := identity(mvar)
	m.Set(0, 0, 0)
	return m
}

// TikhonovMatrix returns the second-difference smoothness penalty: 1 on the
// diagonal, -0.5 on the first off-diagonals, 0.5 in the first weight and last
// corner entries, and a zero bias row and column.
func TikhonovMatrix(mvar int) *mat.Dense {
	m := identity(mvar)
	for i := 0; i+1 < mvar; i++ {
		m.Set(i, i+1, -0.5)
		m.Set(i+1, i, -0.5)
	}
	if mvar > 1 {
		m.Set(1, 1, 0.5)
		m.Set(mvar-1, mvar-1, 0.5)
		m.Set(1, 0, 0)
		m.Set(0, 1, 0)
	}
	m.Set(0, 0, 0)
	return m
}

// OLSMatrix returns the zero matrix.
func OLSMatrix(mvar int) *mat.Dense {
	return mat.NewDense(mvar, mvar, nil)
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

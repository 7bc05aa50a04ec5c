package trf

import (
	"gonum.org/v1/gonum/mat"
)

// Model is a fitted temporal response function. It is not modified after
// Fit returns.
type Model struct {
	// W holds one xvar × yvar weight matrix per lag, in the order of T.
	W []*mat.Dense
	// B is the bias: 1 × yvar for a Multi model, nlag × yvar for a Single
	// model (one row per independent lag model).
	B *mat.Dense
	// T holds the lag times in milliseconds.
	T []float64

	Fs   float64
	Dir  Direction
	Type Type
}

// Dims returns the predictor variable count, the lag count and the target
// variable count.
func (m *Model) Dims() (xvar, nlag, yvar int) {
	nlag = len(m.W)
	if nlag == 0 {
		return 0, 0, 0
	}
	xvar, yvar = m.W[0].Dims()
	return xvar, nlag, yvar
}

// Weight returns the weight from predictor variable v at lag index lag to
// target variable j.
func (m *Model) Weight(v, lag, j int) float64 {
	return m.W[lag].At(v, j)
}

// assemble splits the solved blocks into bias and per-lag weights.
// Joint blocks are (1+xvar*nlag) × yvar with lag-major feature blocks;
// per-lag blocks are (1+xvar) × yvar.
func assemble(ws []*mat.Dense, xvar, nlag, yvar int, typ Type) (w []*mat.Dense, b *mat.Dense) {
	w = make([]*mat.Dense, nlag)
	if typ == Single {
		b = mat.NewDense(nlag, yvar, nil)
		for k, wk := range ws {
			b.SetRow(k, wk.RawRowView(0))
			w[k] = mat.DenseCopyOf(wk.Slice(1, 1+xvar, 0, yvar))
		}
		return w, b
	}

	joint := ws[0]
	b = mat.NewDense(1, yvar, nil)
	b.SetRow(0, joint.RawRowView(0))
	for k := 0; k < nlag; k++ {
		lo := 1 + k*xvar
		w[k] = mat.DenseCopyOf(joint.Slice(lo, lo+xvar, 0, yvar))
	}
	return w, b
}

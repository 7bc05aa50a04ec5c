package trf

import (
	"math"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-trf/covmat"
)

// condition returns the 2-norm condition number of a, or +Inf when the SVD
// fails or a is singular.
func condition(a mat.Matrix) float64 {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return math.Inf(1)
	}
	values := svd.Values(nil)
	if len(values) == 0 {
		return math.Inf(1)
	}
	lo := floats.Min(values)
	if lo == 0 {
		return math.Inf(1)
	}
	return floats.Max(values) / lo
}

// logSystems reports the conditioning of each regularized system. The SVDs
// are only computed when debug logging is enabled.
func logSystems(logger *zap.Logger, cov *covmat.Covariance, pen Penalty) {
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	conds := make([]float64, len(cov.XX))
	for k, cxx := range cov.XX {
		var a mat.Dense
		a.Add(cxx, pen.M)
		conds[k] = condition(&a)
	}
	logger.Debug("regularized systems",
		zap.Int("systems", len(conds)),
		zap.Float64("maxCondition", floats.Max(conds)),
		zap.Float64("minCondition", floats.Min(conds)),
	)
}

// Package trf fits temporal response functions: regularized linear models
// that map a stimulus onto a neural response (forward, encoding) or a
// response back onto the stimulus (backward, decoding) through a window of
// time lags.
//
// Weights are normalized by the sampling interval, so a model fitted on the
// same data at a different sampling rate, with lag bounds and lambda scaled
// accordingly, describes the same continuous kernel.
package trf

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-trf/covmat"
	"github.com/n0madic/go-trf/series"
)

// Fit trains a temporal response function relating stim and resp.
//
// stim and resp hold one table per trial; by default observations are rows.
// fs is the sampling rate in Hz, tmin and tmax bound the lag window in
// milliseconds and lambda is the regularization strength. dir selects a
// forward (stim → resp) or backward (resp → stim) model; the lag window is
// always given from the stimulus point of view.
func Fit(stim, resp []mat.Matrix, fs float64, dir Direction, tmin, tmax, lambda float64, opts ...Option) (*Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateArgs(fs, dir, tmin, tmax, lambda); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	xs, ys, lo, hi := resolveDirection(stim, resp, dir, tmin, tmax)
	x, err := normalize("predictor", xs, cfg.dim)
	if err != nil {
		return nil, err
	}
	y, err := normalize("target", ys, cfg.dim)
	if err != nil {
		return nil, err
	}
	if err := series.Pair(x, y); err != nil {
		return nil, fmt.Errorf("trf: %w", err)
	}

	if err := checkWindow(lo, hi, fs, dir, x.NVar, cfg.typ.mode()); err != nil {
		return nil, err
	}
	lags := Lags(lo, hi, fs, dir)
	delta := 1 / fs

	cov, err := covmat.Accumulate(x.Trials, y.Trials, lags, cfg.typ.mode(), cfg.split, cfg.zeropad)
	if err != nil {
		if errors.Is(err, covmat.ErrNoObservations) || errors.Is(err, covmat.ErrNoLags) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return nil, fmt.Errorf("trf: %w", err)
	}

	mvar := covmat.Width(x.NVar, len(lags), cfg.typ.mode())
	pen := NewPenalty(cfg.method, mvar, lambda, delta)

	cfg.logger.Debug("fitting",
		zap.Stringer("dir", dir),
		zap.Int("minLag", lags[0]),
		zap.Int("maxLag", lags[len(lags)-1]),
		zap.Int("mvar", mvar),
		zap.Stringer("method", cfg.method),
		zap.Float64("lambda", pen.Lambda),
		zap.Stringer("type", cfg.typ),
		zap.Int("trials", x.Len()),
	)
	logSystems(cfg.logger, cov, pen)

	ws, err := solve(cov, pen.M, delta)
	if err != nil {
		return nil, err
	}

	w, b := assemble(ws, x.NVar, len(lags), y.NVar, cfg.typ)
	return &Model{
		W:    w,
		B:    b,
		T:    lagTimes(lags, fs),
		Fs:   fs,
		Dir:  dir,
		Type: cfg.typ,
	}, nil
}

func validateArgs(fs float64, dir Direction, tmin, tmax, lambda float64) error {
	switch {
	case !(fs > 0) || math.IsInf(fs, 0):
		return invalidArgf("fs must be a positive finite number, got %v", fs)
	case !finite(tmin) || !finite(tmax):
		return invalidArgf("tmin and tmax must be finite, got %v and %v", tmin, tmax)
	case tmin > tmax:
		return invalidArgf("tmin must not exceed tmax, got %v > %v", tmin, tmax)
	case !(lambda >= 0) || math.IsInf(lambda, 0):
		return invalidArgf("lambda must be a non-negative finite number, got %v", lambda)
	case !dir.valid():
		return invalidArgf("direction must be 1 or -1, got %d", int(dir))
	}
	return nil
}

func normalize(role string, tables []mat.Matrix, dim series.Dim) (*series.Collection, error) {
	c, err := series.Normalize(tables, dim)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, series.ErrShapeMismatch):
		return nil, fmt.Errorf("trf: %s: %w", role, err)
	default:
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, role, err)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

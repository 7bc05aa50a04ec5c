package trf

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/n0madic/go-trf/covmat"
)

// resolveDirection picks the predictor and target series. Backward models
// regress the stimulus on the response, and their lag window is swapped so
// that, after the sign flip in Lags, it becomes a negative-lag window
// of an encoding problem.
func resolveDirection(stim, resp []mat.Matrix, dir Direction, tmin, tmax float64) (x, y []mat.Matrix, lo, hi float64) {
	if dir == Backward {
		return resp, stim, tmax, tmin
	}
	return stim, resp, tmin, tmax
}

const (
	// MaxWidth is the largest regression system, bias included, that Fit
	// builds. Wider windows are rejected with ErrInvalidArgument.
	MaxWidth = 1 << 14

	// maxLag bounds the magnitude of a single sample lag.
	maxLag = math.MaxInt32
)

// Lags returns the sample lags spanning [tmin, tmax] milliseconds at fs Hz,
// multiplied by the direction sign. The window is widened outwards to whole
// samples. For backward models tmin and tmax are the swapped bounds returned
// by resolveDirection, so the sign flip yields the negated forward window.
//
// Lags returns nil for an inverted window, for lags beyond ±2³¹-1 samples and
// for windows of more than MaxWidth samples. Fit rejects such windows before
// calling it, so only direct callers see nil.
func Lags(tmin, tmax, fs float64, dir Direction) []int {
	lo, hi := lagBounds(tmin, tmax, fs, dir)
	if checkBounds(lo, hi) != nil {
		return nil
	}
	lags := make([]int, 0, int(hi-lo)+1)
	for l := int(lo); l <= int(hi); l++ {
		lags = append(lags, l)
	}
	return lags
}

func lagBounds(tmin, tmax, fs float64, dir Direction) (lo, hi float64) {
	return math.Floor(tmin / 1e3 * fs * float64(dir)), math.Ceil(tmax / 1e3 * fs * float64(dir))
}

func checkBounds(lo, hi float64) error {
	switch {
	case !(lo <= hi):
		return invalidArgf("lag window %v..%v samples is empty", lo, hi)
	case math.Abs(lo) > maxLag || math.Abs(hi) > maxLag:
		return invalidArgf("lag window %v..%v samples exceeds ±%d", lo, hi, maxLag)
	case hi-lo+1 > MaxWidth:
		return invalidArgf("lag window of %v samples exceeds %d", hi-lo+1, MaxWidth)
	}
	return nil
}

// checkWindow validates the lag window of a fit before any allocation: every
// lag must fit the int range and the regression system must not exceed
// MaxWidth.
func checkWindow(tmin, tmax, fs float64, dir Direction, xvar int, mode covmat.Mode) error {
	lo, hi := lagBounds(tmin, tmax, fs, dir)
	if err := checkBounds(lo, hi); err != nil {
		return err
	}
	nlag := int(hi-lo) + 1
	if w := covmat.Width(xvar, nlag, mode); w > MaxWidth {
		return invalidArgf("system width %d (%d variables × %d lags) exceeds %d", w, xvar, nlag, MaxWidth)
	}
	return nil
}

// lagTimes converts sample lags back to milliseconds.
func lagTimes(lags []int, fs float64) []float64 {
	t := make([]float64, len(lags))
	for i, l := range lags {
		t[i] = float64(l)
	}
	floats.Scale(1e3/fs, t)
	return t
}

package trf

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ModelState is the serializable form of a Model
type ModelState struct {
	Version int         `gob:"version"`
	XVar    int         `gob:"xvar"`
	YVar    int         `gob:"yvar"`
	Fs      float64     `gob:"fs"`
	Dir     int         `gob:"dir"`
	Type    int         `gob:"type"`
	T       []float64   `gob:"t"`
	WData   [][]float64 `gob:"w_data"` // one flattened xvar × yvar matrix per lag
	BData   []float64   `gob:"b_data"` // flattened bias rows
}

const stateVersion = 1

// ErrInvalidState is returned by Load for a state that no fit could produce.
var ErrInvalidState = errors.New("trf: invalid model state")

// Save serializes the model to gob format
func (m *Model) Save(w io.Writer) error {
	xvar, nlag, yvar := m.Dims()
	state := ModelState{
		Version: stateVersion,
		XVar:    xvar,
		YVar:    yvar,
		Fs:      m.Fs,
		Dir:     int(m.Dir),
		Type:    int(m.Type),
		T:       append([]float64(nil), m.T...),
		WData:   make([][]float64, nlag),
		BData:   flatten(m.B),
	}
	for k, wk := range m.W {
		state.WData[k] = flatten(wk)
	}

	encoder := gob.NewEncoder(w)
	return encoder.Encode(state)
}

// Load deserializes a model saved with Save
func Load(r io.Reader) (*Model, error) {
	decoder := gob.NewDecoder(r)

	var state ModelState
	if err := decoder.Decode(&state); err != nil {
		return nil, err
	}

	if state.Version != stateVersion {
		return nil, fmt.Errorf("%w: unsupported gob version %d", ErrInvalidState, state.Version)
	}

	dir := Direction(state.Dir)
	typ := Type(state.Type)
	nlag := len(state.WData)
	switch {
	case !(state.Fs > 0) || math.IsInf(state.Fs, 0):
		return nil, fmt.Errorf("%w: fs %v", ErrInvalidState, state.Fs)
	case !dir.valid():
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidState, state.Dir)
	case !typ.valid():
		return nil, fmt.Errorf("%w: type %d", ErrInvalidState, state.Type)
	case state.XVar < 1 || state.YVar < 1 || nlag == 0:
		return nil, fmt.Errorf("%w: empty model", ErrInvalidState)
	case len(state.T) != nlag:
		return nil, fmt.Errorf("%w: %d lag times for %d lags", ErrInvalidState, len(state.T), nlag)
	}

	bRows := 1
	if typ == Single {
		bRows = nlag
	}
	if len(state.BData) != bRows*state.YVar {
		return nil, fmt.Errorf("%w: bias data length %d", ErrInvalidState, len(state.BData))
	}

	m := &Model{
		W:    make([]*mat.Dense, nlag),
		B:    mat.NewDense(bRows, state.YVar, append([]float64(nil), state.BData...)),
		T:    append([]float64(nil), state.T...),
		Fs:   state.Fs,
		Dir:  dir,
		Type: typ,
	}
	for k, data := range state.WData {
		if len(data) != state.XVar*state.YVar {
			return nil, fmt.Errorf("%w: lag index %d: weight data length %d", ErrInvalidState, k, len(data))
		}
		m.W[k] = mat.NewDense(state.XVar, state.YVar, append([]float64(nil), data...))
	}
	return m, nil
}

func flatten(d *mat.Dense) []float64 {
	r, c := d.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, d.RawRowView(i)...)
	}
	return out
}

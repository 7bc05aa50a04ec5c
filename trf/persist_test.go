package trf

import (
	"bytes"
	"encoding/gob"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSaveLoad(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	stim := []mat.Matrix{randomDense(rng, 60, 2)}
	resp := []mat.Matrix{randomDense(rng, 60, 3)}

	for _, typ := range []Type{Multi, Single} {
		t.Run(typ.String(), func(t *testing.T) {
			orig, err := Fit(stim, resp, 8, Backward, -125, 250, 1, WithType(typ))
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, orig.Save(&buf))

			loaded, err := Load(&buf)
			require.NoError(t, err)

			assertModelsEqual(t, orig, loaded)
			assert.Equal(t, orig.Fs, loaded.Fs)
			assert.Equal(t, orig.Dir, loaded.Dir)
			assert.Equal(t, orig.Type, loaded.Type)
		})
	}
}

func TestLoadRejectsBadState(t *testing.T) {
	valid := func() ModelState {
		return ModelState{
			Version: stateVersion,
			XVar:    1,
			YVar:    2,
			Fs:      10,
			Dir:     int(Forward),
			Type:    int(Multi),
			T:       []float64{0, 100},
			WData:   [][]float64{{1, 2}, {3, 4}},
			BData:   []float64{5, 6},
		}
	}

	tests := []struct {
		name   string
		mutate func(*ModelState)
	}{
		{"version", func(s *ModelState) { s.Version = 2 }},
		{"zero fs", func(s *ModelState) { s.Fs = 0 }},
		{"negative fs", func(s *ModelState) { s.Fs = -10 }},
		{"nan fs", func(s *ModelState) { s.Fs = math.NaN() }},
		{"infinite fs", func(s *ModelState) { s.Fs = math.Inf(1) }},
		{"direction", func(s *ModelState) { s.Dir = 0 }},
		{"type", func(s *ModelState) { s.Type = 3 }},
		{"no lags", func(s *ModelState) { s.WData = nil; s.T = nil }},
		{"lag times", func(s *ModelState) { s.T = []float64{0} }},
		{"weights", func(s *ModelState) { s.WData[1] = []float64{3} }},
		{"bias", func(s *ModelState) { s.Type = int(Single) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := valid()
			tt.mutate(&state)

			var buf bytes.Buffer
			require.NoError(t, gob.NewEncoder(&buf).Encode(state))
			_, err := Load(&buf)
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}

	state := valid()
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(state))
	m, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2.0, m.Weight(0, 0, 1))
	assert.Equal(t, 3.0, m.Weight(0, 1, 0))

	_, err = Load(bytes.NewReader([]byte("garbage")))
	assert.Error(t, err)
}

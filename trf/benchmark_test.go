package trf

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// BenchmarkFit measures fitting across window lengths and model types
func BenchmarkFit(b *testing.B) {
	windows := []float64{125, 500, 1000}

	for _, tmax := range windows {
		b.Run(fmt.Sprintf("Multi_tmax%.0f", tmax), func(b *testing.B) {
			benchmarkFit(b, tmax, Multi)
		})

		b.Run(fmt.Sprintf("Single_tmax%.0f", tmax), func(b *testing.B) {
			benchmarkFit(b, tmax, Single)
		})
	}
}

func benchmarkFit(b *testing.B, tmax float64, typ Type) {
	rng := rand.New(rand.NewSource(42))
	stim := []mat.Matrix{randomDense(rng, 2000, 4), randomDense(rng, 2000, 4)}
	resp := []mat.Matrix{randomDense(rng, 2000, 8), randomDense(rng, 2000, 8)}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Fit(stim, resp, 64, Forward, 0, tmax, 1, WithType(typ)); err != nil {
			b.Fatalf("Fit() error = %v", err)
		}
	}
}

func BenchmarkSaveLoad(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	stim := []mat.Matrix{randomDense(rng, 1000, 4)}
	resp := []mat.Matrix{randomDense(rng, 1000, 8)}
	m, err := Fit(stim, resp, 64, Forward, 0, 500, 1)
	if err != nil {
		b.Fatalf("Fit() error = %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		if err := m.Save(&buf); err != nil {
			b.Fatalf("Save() error = %v", err)
		}
		if _, err := Load(&buf); err != nil {
			b.Fatalf("Load() error = %v", err)
		}
	}
}

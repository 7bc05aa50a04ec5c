package covmat

import (
	"fmt"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// BenchmarkAccumulate measures covariance accumulation across lag counts
func BenchmarkAccumulate(b *testing.B) {
	for _, nlag := range []int{8, 32, 64} {
		for _, mode := range []Mode{Joint, PerLag} {
			b.Run(fmt.Sprintf("%s_lags%d", mode, nlag), func(b *testing.B) {
				benchmarkAccumulate(b, nlag, mode, 1)
			})
		}
		b.Run(fmt.Sprintf("Joint_lags%d_split4", nlag), func(b *testing.B) {
			benchmarkAccumulate(b, nlag, Joint, 4)
		})
	}
}

func benchmarkAccumulate(b *testing.B, nlag int, mode Mode, split int) {
	rng := rand.New(rand.NewSource(42))
	x := []*mat.Dense{randomDense(rng, 2000, 4)}
	y := []*mat.Dense{randomDense(rng, 2000, 8)}
	lags := make([]int, nlag)
	for i := range lags {
		lags[i] = i
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Accumulate(x, y, lags, mode, split, true); err != nil {
			b.Fatalf("Accumulate() error = %v", err)
		}
	}
}

func BenchmarkLagGen(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	x := randomDense(rng, 2000, 4)
	lags := make([]int, 32)
	for i := range lags {
		lags[i] = i - 8
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		LagGen(x, lags, false, true)
	}
}

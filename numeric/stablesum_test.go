package numeric_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/volfix/numeric"
)

// TestStableSumCancellation verifies that catastrophic cancellation is
// compensated: a naive left-to-right sum of these terms returns 0.
func TestStableSumCancellation(t *testing.T) {
	var sum numeric.StableSum
	sum.Add(1e16)
	sum.Add(1.0)
	sum.Add(-1e16)

	require.Equal(t, 1.0, sum.Get())
}

// TestStableSumOrderInvariance verifies that any permutation of the input
// yields the same result within ε·Σ|x_i|.
func TestStableSumOrderInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	terms := make([]float64, 1000)
	absTotal := 0.0
	for i := range terms {
		terms[i] = (rng.Float64() - 0.5) * math.Pow(10, float64(rng.Intn(12)))
		absTotal += math.Abs(terms[i])
	}

	reference := sumOf(terms)
	for trial := 0; trial < 10; trial++ {
		rng.Shuffle(len(terms), func(i, j int) { terms[i], terms[j] = terms[j], terms[i] })
		require.InDelta(t, reference, sumOf(terms), numeric.DefaultEpsilon*absTotal)
	}
}

// TestStableSumReset verifies that Reset yields a fresh accumulator.
func TestStableSumReset(t *testing.T) {
	var sum numeric.StableSum
	sum.Add(5)
	sum.Reset()
	sum.AddProduct(2, 3)

	require.Equal(t, 6.0, sum.Get())
}

func sumOf(terms []float64) float64 {
	var sum numeric.StableSum
	for _, v := range terms {
		sum.Add(v)
	}

	return sum.Get()
}

package linalg_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/volfix/linalg"
	"github.com/katalvlaran/volfix/mip"
)

// buildPairMatrix builds the two-row matrix
//
//	A1: 1·c1 + 2·c2
//	A2:        3·c2 + 4·c3
//
// used by the residual checks.
func buildPairMatrix(t *testing.T) *mip.ConstraintMatrix {
	t.Helper()

	b := mip.NewProblemBuilder()
	b.Reserve(4, 2, 3)
	b.SetColUbAll([]float64{1, 1, 1})
	b.SetRowRhsAll([]float64{2, 3})
	b.AddEntry(0, 0, 1)
	b.AddEntry(0, 1, 2)
	b.AddEntry(1, 1, 3)
	b.AddEntry(1, 2, 4)

	p, err := b.Build()
	require.NoError(t, err)

	return p.ConstraintMatrix()
}

// TestAxMinusB verifies the exact residual from the sparse product:
// A·(2,3,3) − (1,2) = (7, 19).
func TestAxMinusB(t *testing.T) {
	a := buildPairMatrix(t)

	out := make([]float64, 2)
	linalg.AxMinusB(a, []float64{2, 3, 3}, []float64{1, 2}, out)

	require.Equal(t, []float64{7, 19}, out)
}

// TestBMinusAx verifies the mirrored residual b − A·x.
func TestBMinusAx(t *testing.T) {
	a := buildPairMatrix(t)

	out := make([]float64, 2)
	linalg.BMinusAx(a, []float64{2, 3, 3}, []float64{1, 2}, out)

	require.Equal(t, []float64{-7, -19}, out)
}

// TestBMinusXA verifies the reduced-cost vector c − πᵀA.
func TestBMinusXA(t *testing.T) {
	a := buildPairMatrix(t)

	out := make([]float64, 3)
	linalg.BMinusXA(a, []float64{1, 2}, []float64{5, 5, 5}, out)

	// c1: 5 − 1·1 = 4; c2: 5 − (2·1 + 3·2) = −3; c3: 5 − 4·2 = −3
	require.Equal(t, []float64{4, -3, -3}, out)
}

// TestAffineKernels verifies BPlusSx and QBPlusSx, including aliasing of
// the output with an input.
func TestAffineKernels(t *testing.T) {
	b := []float64{1, 2, 3}
	x := []float64{2, 2, 2}

	out := make([]float64, 3)
	linalg.BPlusSx(b, 0.5, x, out)
	require.Equal(t, []float64{2, 3, 4}, out)

	linalg.QBPlusSx(2, b, -1, x, out)
	require.Equal(t, []float64{0, 2, 4}, out)

	// out aliasing x: x ← 0.25·b + 0.75·x
	linalg.QBPlusSx(0.25, b, 0.75, x, x)
	require.Equal(t, []float64{1.75, 2.0, 2.25}, x)
}

// TestDotAndNorms verifies Multi, L1Norm, L2Norm.
func TestDotAndNorms(t *testing.T) {
	u := []float64{1, -2, 3}
	v := []float64{4, 5, -6}

	require.Equal(t, -24.0, linalg.Multi(u, v))
	require.Equal(t, 6.0, linalg.L1Norm(u))
	require.InDelta(t, math.Sqrt(14), linalg.L2Norm(u), 1e-12)
}

// TestMultiIsStable verifies cancellation resistance of the dot product.
func TestMultiIsStable(t *testing.T) {
	u := []float64{1e16, 1, -1e16}
	v := []float64{1, 1, 1}

	require.Equal(t, 1.0, linalg.Multi(u, v))
}

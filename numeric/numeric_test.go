package numeric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/volfix/numeric"
)

// TestPredicatesNearTolerance verifies the relative-epsilon predicates right
// at the tolerance boundary.
func TestPredicatesNearTolerance(t *testing.T) {
	num := numeric.Default()

	require.True(t, num.IsZero(0))
	require.True(t, num.IsZero(1e-10))
	require.False(t, num.IsZero(1e-8))

	require.True(t, num.IsEq(1.0, 1.0+1e-10))
	require.False(t, num.IsEq(1.0, 1.0+1e-8))

	// Relative scaling: a gap of 1e-7 is equality at magnitude 1e3.
	require.True(t, num.IsEq(1e3, 1e3+1e-7))

	require.True(t, num.IsLT(1.0, 2.0))
	require.False(t, num.IsLT(1.0, 1.0+1e-10))
	require.True(t, num.IsLE(1.0, 1.0+1e-10))
	require.True(t, num.IsGT(2.0, 1.0))
	require.True(t, num.IsGE(1.0+1e-10, 1.0))
}

// TestIntegralityAndRounding verifies the feasibility-tolerance rounding
// helpers used by the diving code.
func TestIntegralityAndRounding(t *testing.T) {
	num := numeric.Default()

	require.True(t, num.IsIntegral(3.0))
	require.True(t, num.IsIntegral(3.0+1e-7))
	require.True(t, num.IsIntegral(2.9999999))
	require.False(t, num.IsIntegral(3.1))

	require.Equal(t, 3.0, num.Round(2.5))
	require.Equal(t, -3.0, num.Round(-2.5))

	require.Equal(t, 3.0, num.FeasFloor(3.0-1e-7))
	require.Equal(t, 2.0, num.FeasFloor(2.9))
	require.Equal(t, 3.0, num.FeasCeil(3.0+1e-7))
	require.Equal(t, 4.0, num.FeasCeil(3.1))
}

// TestIsHuge verifies the infinity cutoff.
func TestIsHuge(t *testing.T) {
	num := numeric.Default()

	require.True(t, num.IsHuge(math.Inf(1)))
	require.True(t, num.IsHuge(-1e31))
	require.False(t, num.IsHuge(1e20))
}

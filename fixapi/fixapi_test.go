package fixapi_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/volfix/fixapi"
	"github.com/katalvlaran/volfix/heuristic"
)

// writeInstance drops a tiny PBO covering instance into a temp dir:
//
//	min: +2 x1 +3 x2 +1 x3 ;
//	x1 + x2 + x3 ≥ 2
func writeInstance(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cover.opb")
	src := "* cover\nmin: +2 x1 +3 x2 +1 x3 ;\n+1 x1 +1 x2 +1 x3 >= 2 ;\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	return path
}

// TestSetupAndCallAlgorithm verifies the full handle lifecycle.
func TestSetupAndCallAlgorithm(t *testing.T) {
	h, err := fixapi.Setup(writeInstance(t), 0, false)
	require.NoError(t, err)
	defer fixapi.DeleteProblemInstance(h)

	out := make([]float64, 3)
	objValue := math.Inf(1)
	found, err := fixapi.CallAlgorithm(h,
		[]float64{0.5, 0.1, 0.9}, out, &objValue,
		fixapi.CallOptions{OneOpt: heuristic.OneOptPropagate})
	require.NoError(t, err)
	require.True(t, found)

	// the cheapest cover is x1 + x3 at objective 3
	require.Equal(t, 3.0, objValue)
	require.Equal(t, []float64{1, 0, 1}, out)
}

// TestCallSimpleHeuristic verifies the bound-driven path.
func TestCallSimpleHeuristic(t *testing.T) {
	h, err := fixapi.Setup(writeInstance(t), 0, false)
	require.NoError(t, err)
	defer fixapi.DeleteProblemInstance(h)

	out := make([]float64, 3)
	objValue := math.Inf(1)
	found, err := fixapi.CallSimpleHeuristic(h, out, &objValue)
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, math.IsInf(objValue, 1))
}

// TestDimensionMismatch verifies buffer validation.
func TestDimensionMismatch(t *testing.T) {
	h, err := fixapi.Setup(writeInstance(t), 0, false)
	require.NoError(t, err)
	defer fixapi.DeleteProblemInstance(h)

	objValue := math.Inf(1)
	_, err = fixapi.CallAlgorithm(h, []float64{0.5}, []float64{0},
		&objValue, fixapi.CallOptions{})
	require.ErrorIs(t, err, fixapi.ErrDimensionMismatch)
}

// TestUnknownHandle verifies the registry guard after deletion.
func TestUnknownHandle(t *testing.T) {
	h, err := fixapi.Setup(writeInstance(t), 0, false)
	require.NoError(t, err)
	fixapi.DeleteProblemInstance(h)

	objValue := math.Inf(1)
	_, err = fixapi.CallAlgorithm(h, nil, nil, &objValue, fixapi.CallOptions{})
	require.ErrorIs(t, err, fixapi.ErrUnknownHandle)
}

// TestUnsupportedFormat verifies the extension dispatch.
func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.lp")
	require.NoError(t, os.WriteFile(path, []byte("min: x;"), 0o644))

	_, err := fixapi.Setup(path, 0, false)
	require.ErrorIs(t, err, fixapi.ErrUnsupportedFormat)
}

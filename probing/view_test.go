package probing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/probing"
)

// buildSingleEquation builds
//
//	A1: x1 + x2 + x3 + x4 = 2,  x1..x3 binary, x4 integer in [0,3].
func buildSingleEquation(t *testing.T) *mip.Problem {
	t.Helper()

	b := mip.NewProblemBuilder()
	b.Reserve(4, 1, 4)
	b.SetObjAll([]float64{1, 2, 3, 4})
	b.SetColLbAll([]float64{0, 0, 0, 0})
	b.SetColUbAll([]float64{1, 1, 1, 3})
	b.SetColIntegralAll([]bool{true, true, true, true})
	b.SetRowLhs(0, 2)
	b.SetRowRhs(0, 2)
	for c := 0; c < 4; c++ {
		b.AddEntry(0, c, 1)
	}

	p, err := b.Build()
	require.NoError(t, err)

	return p
}

// buildConflictProblem builds the binary system
//
//	A1: x1 + x3           = 1
//	A2: x1 + x2 + x3      = 2
//	A3: x2 + x3 + x4 + x5 = 3
//	A4:           x4 + x5 = 2
//
// where fixing x3 = 1 is infeasible and x3 = 0 is feasible.
func buildConflictProblem(t *testing.T) *mip.Problem {
	t.Helper()

	entries := [][2]int{
		{0, 0}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
		{2, 1}, {2, 2}, {2, 3}, {2, 4},
		{3, 3}, {3, 4},
	}
	rhs := []float64{1, 2, 3, 2}

	b := mip.NewProblemBuilder()
	b.Reserve(len(entries), 4, 5)
	b.SetObjAll([]float64{1, 1, 1, 1, 1})
	b.SetColLbAll([]float64{0, 0, 0, 0, 0})
	b.SetColUbAll([]float64{1, 1, 1, 1, 1})
	b.SetColIntegralAll([]bool{true, true, true, true, true})
	b.SetRowLhsAll(rhs)
	b.SetRowRhsAll(rhs)
	for _, e := range entries {
		b.AddEntry(e[0], e[1], 1)
	}

	p, err := b.Build()
	require.NoError(t, err)

	return p
}

// TestSetProbingColumnCollapsesDomain verifies lb = ub = v after a fixing.
func TestSetProbingColumnCollapsesDomain(t *testing.T) {
	view := probing.NewView(buildSingleEquation(t), numeric.Default())

	view.SetProbingColumn(0, 1)

	require.Equal(t, 1.0, view.ProbingLowerBounds()[0])
	require.Equal(t, 1.0, view.ProbingUpperBounds()[0])
	require.True(t, view.IsFixed(0))
	require.Equal(t, []probing.Fixing{{Column: 0, Value: 1}}, view.Fixings())
}

// TestPropagationTightensGeneralInteger verifies that fixing x1 = 1 in the
// single-equation problem pulls the upper bound of x4 from 3 down to 1,
// with the propagating row recorded as the reason.
func TestPropagationTightensGeneralInteger(t *testing.T) {
	view := probing.NewView(buildSingleEquation(t), numeric.Default())

	view.SetProbingColumn(0, 1)
	view.PropagateDomains()

	require.False(t, view.IsInfeasible())
	require.Equal(t, 1.0, view.ProbingUpperBounds()[3])

	var propagated []probing.SingleBoundChange
	for _, bc := range view.BoundChanges() {
		if !bc.IsDecision() {
			propagated = append(propagated, bc)
		}
	}
	require.NotEmpty(t, propagated)
	require.Equal(t, 3, propagated[0].Column)
	require.Equal(t, 0, propagated[0].ReasonRow)
	require.True(t, propagated[0].IsUpperBound)
	require.Equal(t, 1, propagated[0].Depth)
}

// TestPropagationDetectsConflict verifies the infeasibility latch on the
// conflict problem: fixing x3 = 1 forces x4 = x5 = 1 through A4, which
// overloads A3 against the x2 = 1 forced by A2.
func TestPropagationDetectsConflict(t *testing.T) {
	view := probing.NewView(buildConflictProblem(t), numeric.Default())

	view.SetProbingColumn(2, 1)
	view.PropagateDomains()

	require.True(t, view.IsInfeasible())

	// The latch is sticky: further propagation is a no-op.
	view.PropagateDomains()
	require.True(t, view.IsInfeasible())
}

// TestPropagationFixedPoint verifies that the feasible branch x3 = 0
// propagates to the unique completion (1,1,0,1,1).
func TestPropagationFixedPoint(t *testing.T) {
	view := probing.NewView(buildConflictProblem(t), numeric.Default())

	view.SetProbingColumn(2, 0)
	view.PropagateDomains()

	require.False(t, view.IsInfeasible())
	want := []float64{1, 1, 0, 1, 1}
	require.Equal(t, want, view.ProbingLowerBounds())
	require.Equal(t, want, view.ProbingUpperBounds())
}

// TestResetRestoresBaseProblem verifies bit-identical bounds and flags
// after Reset, with all trails cleared.
func TestResetRestoresBaseProblem(t *testing.T) {
	p := buildSingleEquation(t)
	view := probing.NewView(p, numeric.Default())

	view.SetProbingColumn(0, 1)
	view.PropagateDomains()
	view.Reset()

	require.Equal(t, p.LowerBounds(), view.ProbingLowerBounds())
	require.Equal(t, p.UpperBounds(), view.ProbingUpperBounds())
	require.Equal(t, p.ColFlags(), view.ProbingDomainFlags())
	require.Empty(t, view.Fixings())
	require.Empty(t, view.BoundChanges())
	require.False(t, view.IsInfeasible())
	require.Equal(t, 0, view.Depth())

	// The view is fully reusable after Reset.
	view.SetProbingColumn(1, 1)
	view.PropagateDomains()
	require.False(t, view.IsInfeasible())
}

// TestFixingOutsideDomainLatchesInfeasible verifies the guard on decision
// values outside the current bounds.
func TestFixingOutsideDomainLatchesInfeasible(t *testing.T) {
	view := probing.NewView(buildSingleEquation(t), numeric.Default())

	view.SetProbingColumn(0, 7)

	require.True(t, view.IsInfeasible())
}

// TestIsWithinBounds verifies the tolerance-aware domain membership check.
func TestIsWithinBounds(t *testing.T) {
	view := probing.NewView(buildSingleEquation(t), numeric.Default())

	require.True(t, view.IsWithinBounds(3, 0))
	require.True(t, view.IsWithinBounds(3, 3))
	require.True(t, view.IsWithinBounds(3, 3+1e-8))
	require.False(t, view.IsWithinBounds(3, 4))
	require.False(t, view.IsWithinBounds(3, -1))
}

// TestDecisionDepthIncrements verifies depth bookkeeping across decisions.
func TestDecisionDepthIncrements(t *testing.T) {
	view := probing.NewView(buildConflictProblem(t), numeric.Default())

	view.SetProbingColumn(2, 0)
	require.Equal(t, 1, view.Depth())
	view.PropagateDomains()

	view.SetProbingColumn(0, 1)
	require.Equal(t, 2, view.Depth())

	for _, bc := range view.BoundChanges() {
		require.LessOrEqual(t, bc.Depth, view.Depth())
		require.GreaterOrEqual(t, bc.Depth, 1)
	}
}

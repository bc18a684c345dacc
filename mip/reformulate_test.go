package mip_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
)

// TestReformulatePassThrough verifies that equations and `≥`-rows survive
// unchanged.
func TestReformulatePassThrough(t *testing.T) {
	b := mip.NewProblemBuilder()
	b.Reserve(4, 2, 2)
	b.SetColUbAll([]float64{1, 1})
	b.AddEntry(0, 0, 1)
	b.AddEntry(0, 1, 1)
	b.AddEntry(1, 0, 2)
	b.AddEntry(1, 1, -1)
	b.SetRowLhs(0, 2)
	b.SetRowRhs(0, 2)
	b.SetRowLhs(1, 1)

	p, err := b.Build()
	require.NoError(t, err)

	ref, err := mip.Reformulate(p)
	require.NoError(t, err)

	require.Equal(t, 2, ref.NRows())
	require.True(t, ref.RowFlags()[0].Has(mip.RowEquation))
	require.True(t, ref.RowFlags()[1].Has(mip.RowRhsInf))
	require.Equal(t, 2.0, ref.ConstraintMatrix().LeftHandSides()[0])
	require.Equal(t, 1.0, ref.ConstraintMatrix().LeftHandSides()[1])
	require.Equal(t, []float64{2, -1}, ref.ConstraintMatrix().RowCoefficients(1).Values)
}

// TestReformulateLeqRow verifies that a `≤`-row is negated into a `≥`-row
// with side −rhs.
func TestReformulateLeqRow(t *testing.T) {
	b := mip.NewProblemBuilder()
	b.Reserve(2, 1, 2)
	b.SetColUbAll([]float64{1, 1})
	b.AddEntry(0, 0, 1)
	b.AddEntry(0, 1, 2)
	b.SetRowRhs(0, 2)

	p, err := b.Build()
	require.NoError(t, err)

	ref, err := mip.Reformulate(p)
	require.NoError(t, err)

	require.Equal(t, 1, ref.NRows())
	require.True(t, ref.RowFlags()[0].Has(mip.RowRhsInf))
	require.Equal(t, []float64{-1, -2}, ref.ConstraintMatrix().RowCoefficients(0).Values)
	require.Equal(t, -2.0, ref.ConstraintMatrix().LeftHandSides()[0])
}

// TestReformulateRangedRow verifies that a two-sided non-equation row is
// expanded into two `≥`-rows whose sides preserve the original feasibility
// region bit-identically.
func TestReformulateRangedRow(t *testing.T) {
	b := mip.NewProblemBuilder()
	b.Reserve(2, 1, 2)
	b.SetColUbAll([]float64{4, 4})
	b.AddEntry(0, 0, 1)
	b.AddEntry(0, 1, 3)
	b.SetRowLhs(0, 1)
	b.SetRowRhs(0, 5)

	p, err := b.Build()
	require.NoError(t, err)

	ref, err := mip.Reformulate(p)
	require.NoError(t, err)
	require.Equal(t, 2, ref.NRows())

	m := ref.ConstraintMatrix()
	// −A x ≥ −rhs
	require.True(t, m.RowFlags()[0].Has(mip.RowRhsInf))
	require.Equal(t, []float64{-1, -3}, m.RowCoefficients(0).Values)
	require.Equal(t, -5.0, m.LeftHandSides()[0])
	// A x ≥ lhs
	require.True(t, m.RowFlags()[1].Has(mip.RowRhsInf))
	require.Equal(t, []float64{1, 3}, m.RowCoefficients(1).Values)
	require.Equal(t, 1.0, m.LeftHandSides()[1])

	// The column data is copied verbatim.
	require.Equal(t, p.LowerBounds(), ref.LowerBounds())
	require.Equal(t, p.UpperBounds(), ref.UpperBounds())
	require.Equal(t, p.Objective().Coefficients, ref.Objective().Coefficients)
}

// TestObjectiveBound verifies the box bound of cᵀx and the unbounded error.
func TestObjectiveBound(t *testing.T) {
	num := numeric.Default()

	b := mip.NewProblemBuilder()
	b.Reserve(2, 1, 3)
	b.SetObjAll([]float64{2, -3, 0})
	b.SetColLbAll([]float64{0, -1, 0})
	b.SetColUbAll([]float64{4, 5, 9})
	b.AddEntry(0, 0, 1)
	b.SetRowRhs(0, 1)

	p, err := b.Build()
	require.NoError(t, err)

	bound, err := mip.ObjectiveBound(p, num)
	require.NoError(t, err)
	// 2·4 + (−3)·(−1) = 11; the zero coefficient contributes nothing.
	require.Equal(t, 11.0, bound)
}

// TestObjectiveBoundUnbounded verifies the error carries the column index.
func TestObjectiveBoundUnbounded(t *testing.T) {
	num := numeric.Default()

	b := mip.NewProblemBuilder()
	b.Reserve(1, 1, 2)
	b.SetObjAll([]float64{0, 1})
	b.SetColLbAll([]float64{0, 0})
	b.SetColUb(0, 1)
	// column 1 keeps its default infinite upper bound
	b.AddEntry(0, 0, 1)
	b.SetRowRhs(0, 1)

	p, err := b.Build()
	require.NoError(t, err)

	_, err = mip.ObjectiveBound(p, num)
	var unb *mip.UnboundedObjectiveError
	require.ErrorAs(t, err, &unb)
	require.Equal(t, 1, unb.Col)
}

package mip

import (
	"github.com/katalvlaran/volfix/numeric"
)

// Reformulate rewrites every row of p as either an equation or a `≥`-row,
// the only forms the Volume Algorithm consumes:
//
//   - equations and `≥`-rows pass through unchanged
//   - a `≤`-row  A_i x ≤ rhs  becomes  −A_i x ≥ −rhs
//   - a two-sided non-equation row becomes both `≥`-rows
//
// The feasibility region is preserved exactly: only signs are flipped and
// sides moved, no coefficient is rescaled.  Column data is copied verbatim.
func Reformulate(p *Problem) (*Problem, error) {
	m := p.ConstraintMatrix()

	nnz := 0
	nRows := 0
	for r := 0; r < p.NRows(); r++ {
		nRows++
		nnz += m.RowCoefficients(r).Len()
		flags := m.RowFlags()[r]
		if flags.Has(RowEquation) || flags.Has(RowLhsInf) || flags.Has(RowRhsInf) {
			continue
		}
		// ranged row: expands into two `≥`-rows
		nRows++
		nnz += m.RowCoefficients(r).Len()
	}

	b := NewProblemBuilder()
	b.Reserve(nnz, nRows, p.NCols())
	b.SetProblemName(p.Name())
	b.SetObjOffset(p.Objective().Offset)

	for c := 0; c < p.NCols(); c++ {
		flags := p.ColFlags()[c]
		b.SetColLb(c, p.LowerBounds()[c])
		b.SetColUb(c, p.UpperBounds()[c])
		b.SetColLbInf(c, flags.Has(ColLbInf))
		b.SetColUbInf(c, flags.Has(ColUbInf))
		b.SetColIntegral(c, flags.Has(ColIntegral))
		b.SetObj(c, p.Objective().Coefficients[c])
		b.SetColName(c, p.ColName(c))
	}

	counter := 0
	for r := 0; r < p.NRows(); r++ {
		row := m.RowCoefficients(r)
		flags := m.RowFlags()[r]
		lhs := m.LeftHandSides()[r]
		rhs := m.RightHandSides()[r]

		switch {
		case flags.Has(RowEquation):
			b.AddRowEntries(counter, row.Indices, row.Values)
			b.SetRowLhs(counter, lhs)
			b.SetRowRhs(counter, rhs)
		case flags.Has(RowLhsInf):
			// ≤-row: negate into ≥
			b.AddRowEntries(counter, row.Indices, negated(row.Values))
			b.SetRowLhs(counter, -rhs)
			b.SetRowRhsInf(counter, true)
		case flags.Has(RowRhsInf):
			// already a ≥-row
			b.AddRowEntries(counter, row.Indices, row.Values)
			b.SetRowLhs(counter, lhs)
			b.SetRowRhsInf(counter, true)
		default:
			// ranged row: −A_i x ≥ −rhs and A_i x ≥ lhs
			b.AddRowEntries(counter, row.Indices, negated(row.Values))
			b.SetRowLhs(counter, -rhs)
			b.SetRowRhsInf(counter, true)
			counter++
			b.AddRowEntries(counter, row.Indices, row.Values)
			b.SetRowLhs(counter, lhs)
			b.SetRowRhsInf(counter, true)
		}
		counter++
	}

	return b.Build()
}

// ObjectiveBound computes the box upper bound of cᵀx over the variable
// domains: each coefficient contributes its worst finite value.  It is the
// UB₀ hint handed to the Volume Algorithm.
//
// Returns an *UnboundedObjectiveError naming the first column whose
// relevant bound is infinite.
func ObjectiveBound(p *Problem, num numeric.Num) (float64, error) {
	var bound numeric.StableSum
	obj := p.Objective().Coefficients

	for c := 0; c < p.NCols(); c++ {
		switch {
		case num.IsZero(obj[c]):
			continue
		case num.IsLT(obj[c], 0):
			if p.ColFlags()[c].Has(ColLbInf) {
				return 0, &UnboundedObjectiveError{Col: c}
			}
			bound.AddProduct(obj[c], p.LowerBounds()[c])
		default:
			if p.ColFlags()[c].Has(ColUbInf) {
				return 0, &UnboundedObjectiveError{Col: c}
			}
			bound.AddProduct(obj[c], p.UpperBounds()[c])
		}
	}

	return bound.Get(), nil
}

func negated(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = -v
	}

	return out
}

package probing

import (
	"math"

	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
)

// rowActivity tracks the finite part of a row's minimal and maximal
// activity plus the number of infinite contributions on each side.
type rowActivity struct {
	min     float64
	max     float64
	ninfMin int
	ninfMax int
}

// View is a mutable bound-tightening overlay on an immutable Problem.
// Create one per diving goroutine with NewView; all buffers are allocated
// once and reused across Reset calls.
type View struct {
	prob *mip.Problem
	num  numeric.Num

	lower []float64
	upper []float64
	flags []mip.ColFlag

	activities []rowActivity

	fixings      []Fixing
	boundChanges []SingleBoundChange
	depth        int
	infeasible   bool
}

// NewView creates a view over prob, initialized to the base domains.
func NewView(prob *mip.Problem, num numeric.Num) *View {
	v := &View{
		prob:       prob,
		num:        num,
		lower:      make([]float64, prob.NCols()),
		upper:      make([]float64, prob.NCols()),
		flags:      make([]mip.ColFlag, prob.NCols()),
		activities: make([]rowActivity, prob.NRows()),
	}
	v.Reset()

	return v
}

// Reset discards all fixings and propagations: bounds and flags equal the
// base problem's exactly, activities are recomputed from scratch, trails
// are truncated and the infeasible latch cleared.  O(n + nnz).
func (v *View) Reset() {
	copy(v.lower, v.prob.LowerBounds())
	copy(v.upper, v.prob.UpperBounds())
	copy(v.flags, v.prob.ColFlags())
	v.fixings = v.fixings[:0]
	v.boundChanges = v.boundChanges[:0]
	v.depth = 0
	v.infeasible = false
	v.recomputeActivities()
}

// Problem returns the underlying immutable problem.
func (v *View) Problem() *mip.Problem { return v.prob }

// Num returns the numeric kernel of the view.
func (v *View) Num() numeric.Num { return v.num }

// IsInfeasible reports whether infeasibility has been latched.
func (v *View) IsInfeasible() bool { return v.infeasible }

// Depth returns the current decision depth.
func (v *View) Depth() int { return v.depth }

// ProbingLowerBounds returns the current lower bounds.  Read-only.
func (v *View) ProbingLowerBounds() []float64 { return v.lower }

// ProbingUpperBounds returns the current upper bounds.  Read-only.
func (v *View) ProbingUpperBounds() []float64 { return v.upper }

// ProbingDomainFlags returns the current column flags.  Read-only.
func (v *View) ProbingDomainFlags() []mip.ColFlag { return v.flags }

// Obj returns the objective coefficients of the base problem.
func (v *View) Obj() []float64 { return v.prob.Objective().Coefficients }

// Fixings returns a copy of the decision trail, in issue order.
// Propagation-implied tightenings are not part of it.
func (v *View) Fixings() []Fixing {
	return append([]Fixing(nil), v.fixings...)
}

// BoundChanges returns the bound-change records accumulated since the last
// Reset, decisions and propagations interleaved in event order.  The slice
// aliases view storage and is invalidated by the next mutation.
func (v *View) BoundChanges() []SingleBoundChange { return v.boundChanges }

// IsIntegerVariable reports whether column c is integer-constrained.
func (v *View) IsIntegerVariable(c int) bool {
	return v.flags[c].Has(mip.ColIntegral)
}

// IsWithinBounds reports whether value lies inside the current domain of
// column c, under the feasibility tolerance.
func (v *View) IsWithinBounds(c int, value float64) bool {
	if !v.flags[c].Has(mip.ColLbInf) && !v.num.IsFeasGE(value, v.lower[c]) {
		return false
	}
	if !v.flags[c].Has(mip.ColUbInf) && !v.num.IsFeasLE(value, v.upper[c]) {
		return false
	}

	return true
}

// IsFixed reports whether column c has collapsed to a single value.
func (v *View) IsFixed(c int) bool {
	return !v.flags[c].Has(mip.ColLbInf) && !v.flags[c].Has(mip.ColUbInf) &&
		v.num.IsFeasEq(v.lower[c], v.upper[c])
}

// SetProbingColumn appends (col, value) to the decision trail and collapses
// the column's domain to exactly value.  The caller must follow up with
// PropagateDomains.  A value outside the current domain latches the view
// infeasible.
func (v *View) SetProbingColumn(col int, value float64) {
	v.depth++
	v.fixings = append(v.fixings, Fixing{Column: col, Value: value})

	if !v.IsWithinBounds(col, value) {
		v.infeasible = true
		return
	}

	if v.flags[col].Has(mip.ColLbInf) || !v.num.IsEq(v.lower[col], value) {
		v.applyLower(col, value)
		v.record(col, value, DecisionReason, true, false)
	} else {
		v.applyLower(col, value)
	}
	if v.flags[col].Has(mip.ColUbInf) || !v.num.IsEq(v.upper[col], value) {
		v.applyUpper(col, value)
		v.record(col, value, DecisionReason, false, true)
	} else {
		v.applyUpper(col, value)
	}
	v.flags[col] |= mip.ColFixed
}

// PropagateDomains iterates all bound tightenings implied by the row
// activities to a fixed point: rows in index order, sweeps until a full
// pass changes nothing, capped at maxPropagationSweeps.  Stops immediately
// once infeasibility is detected.
func (v *View) PropagateDomains() {
	if v.infeasible {
		return
	}
	nRows := v.prob.NRows()
	for sweep := 0; sweep < maxPropagationSweeps; sweep++ {
		changed := false
		for r := 0; r < nRows; r++ {
			v.propagateRow(r, &changed)
			if v.infeasible {
				return
			}
		}
		if !changed {
			return
		}
	}
}

// propagateRow applies every tightening implied by row r.
func (v *View) propagateRow(r int, changed *bool) {
	m := v.prob.ConstraintMatrix()
	rf := m.RowFlags()[r]
	if rf.Has(mip.RowRedundant) {
		return
	}
	lhs := m.LeftHandSides()[r]
	rhs := m.RightHandSides()[r]
	hasLhs := !rf.Has(mip.RowLhsInf)
	hasRhs := !rf.Has(mip.RowRhsInf)
	act := &v.activities[r]

	// row conflict: the reachable activity interval misses the sides
	if hasRhs && act.ninfMin == 0 && act.min > rhs+v.num.FeasTol {
		v.infeasible = true
		return
	}
	if hasLhs && act.ninfMax == 0 && act.max < lhs-v.num.FeasTol {
		v.infeasible = true
		return
	}

	row := m.RowCoefficients(r)
	for k, j := range row.Indices {
		a := row.Values[k]

		cMin, infMin := v.minContribution(j, a)

		if hasRhs {
			rest := act.ninfMin
			if infMin {
				rest--
			}
			if rest == 0 {
				residual := act.min
				if !infMin {
					residual -= cMin
				}
				limit := (rhs - residual) / a
				if a > 0 {
					*changed = v.tightenUpper(j, limit, r) || *changed
				} else {
					*changed = v.tightenLower(j, limit, r) || *changed
				}
				if v.infeasible {
					return
				}
			}
		}
		if hasLhs {
			cMax, infMax := v.maxContribution(j, a)
			rest := act.ninfMax
			if infMax {
				rest--
			}
			if rest == 0 {
				residual := act.max
				if !infMax {
					residual -= cMax
				}
				limit := (lhs - residual) / a
				if a > 0 {
					*changed = v.tightenLower(j, limit, r) || *changed
				} else {
					*changed = v.tightenUpper(j, limit, r) || *changed
				}
				if v.infeasible {
					return
				}
			}
		}
	}
}

// tightenUpper narrows the upper bound of column j to value (floored for
// integral columns).  Improvements below the feasibility tolerance are
// discarded.  Reports whether the bound moved.
func (v *View) tightenUpper(j int, value float64, reason int) bool {
	if math.IsNaN(value) || value >= v.num.HugeVal {
		return false
	}
	if v.flags[j].Has(mip.ColIntegral) {
		value = v.num.FeasFloor(value)
	}
	if !v.flags[j].Has(mip.ColUbInf) && value >= v.upper[j]-v.num.FeasTol {
		return false
	}

	v.applyUpper(j, value)
	v.record(j, value, reason, false, true)
	v.checkDomain(j)

	return true
}

// tightenLower narrows the lower bound of column j to value (ceiled for
// integral columns).
func (v *View) tightenLower(j int, value float64, reason int) bool {
	if math.IsNaN(value) || value <= -v.num.HugeVal {
		return false
	}
	if v.flags[j].Has(mip.ColIntegral) {
		value = v.num.FeasCeil(value)
	}
	if !v.flags[j].Has(mip.ColLbInf) && value <= v.lower[j]+v.num.FeasTol {
		return false
	}

	v.applyLower(j, value)
	v.record(j, value, reason, true, false)
	v.checkDomain(j)

	return true
}

// checkDomain latches infeasibility once lb exceeds ub beyond tolerance.
func (v *View) checkDomain(j int) {
	if v.flags[j].Has(mip.ColLbInf) || v.flags[j].Has(mip.ColUbInf) {
		return
	}
	if v.lower[j] > v.upper[j]+v.num.FeasTol {
		v.infeasible = true
	}
}

func (v *View) record(col int, value float64, reason int, isLb, isUb bool) {
	v.boundChanges = append(v.boundChanges, SingleBoundChange{
		Column:       col,
		NewValue:     value,
		ReasonRow:    reason,
		IsLowerBound: isLb,
		IsUpperBound: isUb,
		Depth:        v.depth,
	})
}

// applyLower moves the lower bound of column j and updates the activity of
// every row the column appears in.
func (v *View) applyLower(j int, value float64) {
	wasInf := v.flags[j].Has(mip.ColLbInf)
	old := v.lower[j]
	v.lower[j] = value
	v.flags[j] &^= mip.ColLbInf

	col := v.prob.ConstraintMatrix().ColCoefficients(j)
	for k, r := range col.Indices {
		a := col.Values[k]
		act := &v.activities[r]
		if a > 0 {
			if wasInf {
				act.ninfMin--
				act.min += a * value
			} else {
				act.min += a * (value - old)
			}
		} else {
			if wasInf {
				act.ninfMax--
				act.max += a * value
			} else {
				act.max += a * (value - old)
			}
		}
	}
}

// applyUpper moves the upper bound of column j and updates the activity of
// every row the column appears in.
func (v *View) applyUpper(j int, value float64) {
	wasInf := v.flags[j].Has(mip.ColUbInf)
	old := v.upper[j]
	v.upper[j] = value
	v.flags[j] &^= mip.ColUbInf

	col := v.prob.ConstraintMatrix().ColCoefficients(j)
	for k, r := range col.Indices {
		a := col.Values[k]
		act := &v.activities[r]
		if a > 0 {
			if wasInf {
				act.ninfMax--
				act.max += a * value
			} else {
				act.max += a * (value - old)
			}
		} else {
			if wasInf {
				act.ninfMin--
				act.min += a * value
			} else {
				act.min += a * (value - old)
			}
		}
	}
}

// minContribution returns column j's contribution to the minimal activity
// of a row where it has coefficient a, and whether it is infinite.
func (v *View) minContribution(j int, a float64) (float64, bool) {
	if a > 0 {
		if v.flags[j].Has(mip.ColLbInf) {
			return 0, true
		}
		return a * v.lower[j], false
	}
	if v.flags[j].Has(mip.ColUbInf) {
		return 0, true
	}
	return a * v.upper[j], false
}

// maxContribution returns column j's contribution to the maximal activity.
func (v *View) maxContribution(j int, a float64) (float64, bool) {
	if a > 0 {
		if v.flags[j].Has(mip.ColUbInf) {
			return 0, true
		}
		return a * v.upper[j], false
	}
	if v.flags[j].Has(mip.ColLbInf) {
		return 0, true
	}
	return a * v.lower[j], false
}

// recomputeActivities rebuilds every row activity from the current bounds.
func (v *View) recomputeActivities() {
	m := v.prob.ConstraintMatrix()
	for r := range v.activities {
		act := rowActivity{}
		row := m.RowCoefficients(r)
		for k, j := range row.Indices {
			a := row.Values[k]
			if c, inf := v.minContribution(j, a); inf {
				act.ninfMin++
			} else {
				act.min += c
			}
			if c, inf := v.maxContribution(j, a); inf {
				act.ninfMax++
			} else {
				act.max += c
			}
		}
		v.activities[r] = act
	}
}

package mip

// Problem is a presolved minimization MILP.  It is immutable once built;
// all partial-assignment state lives in probing.View overlays that borrow
// the Problem read-only, which is what makes the parallel diving phase
// synchronisation-free.
type Problem struct {
	name string

	objective Objective
	matrix    ConstraintMatrix

	lower    []float64
	upper    []float64
	colFlags []ColFlag

	rowNames []string
	colNames []string
}

// Name returns the instance name.
func (p *Problem) Name() string { return p.name }

// NRows returns the number of rows.
func (p *Problem) NRows() int { return p.matrix.nRows }

// NCols returns the number of columns.
func (p *Problem) NCols() int { return p.matrix.nCols }

// Objective returns the objective.
func (p *Problem) Objective() Objective { return p.objective }

// ConstraintMatrix returns the constraint matrix.
func (p *Problem) ConstraintMatrix() *ConstraintMatrix { return &p.matrix }

// LowerBounds returns the column lower bounds.  Entries of columns flagged
// ColLbInf are meaningless.
func (p *Problem) LowerBounds() []float64 { return p.lower }

// UpperBounds returns the column upper bounds.  Entries of columns flagged
// ColUbInf are meaningless.
func (p *Problem) UpperBounds() []float64 { return p.upper }

// ColFlags returns the per-column flag set.
func (p *Problem) ColFlags() []ColFlag { return p.colFlags }

// RowFlags returns the per-row flag set.
func (p *Problem) RowFlags() []RowFlag { return p.matrix.rowFlags }

// VariableDomains returns the bounds and flags as one read-only view.
func (p *Problem) VariableDomains() VariableDomains {
	return VariableDomains{LowerBounds: p.lower, UpperBounds: p.upper, Flags: p.colFlags}
}

// RowName returns the name of row r, or "" when unnamed.
func (p *Problem) RowName(r int) string {
	if r < len(p.rowNames) {
		return p.rowNames[r]
	}

	return ""
}

// ColName returns the name of column c, or "" when unnamed.
func (p *Problem) ColName(c int) string {
	if c < len(p.colNames) {
		return p.colNames[c]
	}

	return ""
}

// NumIntegerCols counts the integer-constrained columns.
func (p *Problem) NumIntegerCols() int {
	n := 0
	for _, f := range p.colFlags {
		if f.Has(ColIntegral) {
			n++
		}
	}

	return n
}

package mip

// ConstraintMatrix stores the sparse constraint matrix A of a problem in
// both row-major (CSR) and column-major (CSC) form, together with the row
// sides and row flags.
//
// Both orderings are built once; RowCoefficients and ColCoefficients are
// O(1) slicing operations.  The matrix is immutable after Build.
type ConstraintMatrix struct {
	nRows int
	nCols int

	// CSR
	rowStart []int
	rowCols  []int
	rowVals  []float64

	// CSC
	colStart []int
	colRows  []int
	colVals  []float64

	lhs      []float64
	rhs      []float64
	rowFlags []RowFlag
}

// NRows returns the number of rows.
func (m *ConstraintMatrix) NRows() int { return m.nRows }

// NCols returns the number of columns.
func (m *ConstraintMatrix) NCols() int { return m.nCols }

// NNZ returns the number of stored non-zero entries.
func (m *ConstraintMatrix) NNZ() int { return len(m.rowVals) }

// RowCoefficients returns the non-zeros of row r in column order.
func (m *ConstraintMatrix) RowCoefficients(r int) SparseView {
	return SparseView{
		Indices: m.rowCols[m.rowStart[r]:m.rowStart[r+1]],
		Values:  m.rowVals[m.rowStart[r]:m.rowStart[r+1]],
	}
}

// ColCoefficients returns the non-zeros of column c in row order.
func (m *ConstraintMatrix) ColCoefficients(c int) SparseView {
	return SparseView{
		Indices: m.colRows[m.colStart[c]:m.colStart[c+1]],
		Values:  m.colVals[m.colStart[c]:m.colStart[c+1]],
	}
}

// LeftHandSides returns the lhs vector.  Entries of rows flagged RowLhsInf
// are meaningless.
func (m *ConstraintMatrix) LeftHandSides() []float64 { return m.lhs }

// RightHandSides returns the rhs vector.  Entries of rows flagged RowRhsInf
// are meaningless.
func (m *ConstraintMatrix) RightHandSides() []float64 { return m.rhs }

// RowFlags returns the per-row flag set.
func (m *ConstraintMatrix) RowFlags() []RowFlag { return m.rowFlags }

// buildCSC derives the column-major ordering from the row-major one.
func (m *ConstraintMatrix) buildCSC() {
	nnz := len(m.rowVals)
	m.colStart = make([]int, m.nCols+1)
	m.colRows = make([]int, nnz)
	m.colVals = make([]float64, nnz)

	for _, c := range m.rowCols {
		m.colStart[c+1]++
	}
	for c := 0; c < m.nCols; c++ {
		m.colStart[c+1] += m.colStart[c]
	}

	next := make([]int, m.nCols)
	copy(next, m.colStart[:m.nCols])
	for r := 0; r < m.nRows; r++ {
		for k := m.rowStart[r]; k < m.rowStart[r+1]; k++ {
			c := m.rowCols[k]
			m.colRows[next[c]] = r
			m.colVals[next[c]] = m.rowVals[k]
			next[c]++
		}
	}
}

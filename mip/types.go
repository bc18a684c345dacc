package mip

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates a builder input whose length disagrees
	// with the declared number of rows or columns.
	ErrDimensionMismatch = errors.New("mip: input length does not match declared dimensions")
	// ErrEntryOutOfRange indicates a matrix entry outside the declared shape.
	ErrEntryOutOfRange = errors.New("mip: matrix entry out of range")
	// ErrFreeRow indicates an active row with no finite side.
	ErrFreeRow = errors.New("mip: active row has no finite side")
	// ErrEmptyDomain indicates a column with lb > ub at build time.
	ErrEmptyDomain = errors.New("mip: column lower bound exceeds upper bound")
)

// UnboundedObjectiveError reports an objective-bound query on a column whose
// relevant bound is infinite.
type UnboundedObjectiveError struct {
	// Col is the offending column index.
	Col int
}

func (e *UnboundedObjectiveError) Error() string {
	return fmt.Sprintf("mip: cannot bound objective, variable %d is unbounded", e.Col)
}

// RowFlag is a bitmask describing one row of the constraint matrix.
type RowFlag uint8

const (
	// RowLhsInf marks a row without a finite left-hand side.
	RowLhsInf RowFlag = 1 << iota
	// RowRhsInf marks a row without a finite right-hand side.
	RowRhsInf
	// RowEquation marks a row with lhs == rhs.
	RowEquation
	// RowRedundant marks a row that can never be violated under the
	// problem's bounds; propagation and feasibility checks skip it.
	RowRedundant
)

// Has reports whether all bits of f are set.
func (r RowFlag) Has(f RowFlag) bool { return r&f == f }

// ColFlag is a bitmask describing one column of the problem.
type ColFlag uint8

const (
	// ColLbInf marks a column without a finite lower bound.
	ColLbInf ColFlag = 1 << iota
	// ColUbInf marks a column without a finite upper bound.
	ColUbInf
	// ColIntegral marks an integer-constrained column.
	ColIntegral
	// ColInactive marks a column removed by presolve.
	ColInactive
	// ColFixed marks a column with lb == ub.
	ColFixed
)

// Has reports whether all bits of f are set.
func (c ColFlag) Has(f ColFlag) bool { return c&f == f }

// SparseView is one row or column of the constraint matrix: parallel
// index/value slices of the non-zero entries.  Views alias the matrix
// storage and must be treated as read-only.
type SparseView struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v SparseView) Len() int { return len(v.Indices) }

// Objective is the linear objective cᵀx + offset of a minimization problem.
type Objective struct {
	Coefficients []float64
	Offset       float64
}

// VariableDomains is a read-only view of the column bounds and flags.
type VariableDomains struct {
	LowerBounds []float64
	UpperBounds []float64
	Flags       []ColFlag
}

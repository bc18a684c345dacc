// Package mip models a presolved mixed-integer linear program: objective,
// sparse constraint matrix in row- and column-major form, row sides with
// flags, and variable domains.
//
// 🚀 What lives here?
//
//	A minimization MILP over n columns and m rows:
//		• objective coefficients c (length n) plus a constant offset
//		• sparse matrix A, stored simultaneously as CSR and CSC
//		• per-row sides (lhs, rhs) with flags {has-lhs, has-rhs, equation, redundant}
//		• per-column domains (lb, ub) with flags {has-lb, has-ub, integral, inactive, fixed}
//
// A Problem is immutable once built; construct it through ProblemBuilder.
// Mutation during diving happens on a probing.View overlay, never here.
//
// ✨ Also provided:
//   - Reformulate — rewrite every row as `=` or `≥` (the form the Volume
//     Algorithm consumes), preserving the feasibility region exactly
//   - ObjectiveBound — the box upper bound of cᵀx used to seed the Volume
//     Algorithm's target
//
// Invariants: every active row has at least one finite side; every
// integral column with two finite bounds has lb ≤ ub with both integral.
package mip

// Package volfix is a primal heuristic engine for mixed-integer linear
// programs — from the numeric kernel up to a parallel fix-and-propagate
// search seeded by the Volume Algorithm.
//
// 🚀 What is volfix?
//
//	A library (plus the cmd/volfix binary) that tries to turn the LP
//	relaxation of a MILP into a good feasible integer solution:
//		• Numeric kernel: tolerance predicates & compensated summation
//		• Problem model: sparse CSR/CSC matrix, row/column flags, domains
//		• Volume Algorithm: Lagrangian smoothing → continuous estimate x̄
//		• Probing view: reversible bound tightening with a fixings trail
//		• Rounding strategies: fractional, Farkas (↑/↓), seeded random
//		• Fix-and-Propagate: diving with backtracking & one-opt improvement
//		• Orchestrator: parallel strategies, best-solution reduction
//
// ✨ Why volfix?
//
//   - Deterministic – fixed seeds reproduce every dive and reduction bit
//     for bit
//   - Parallel where it pays – strategy dives fan out over a bounded
//     worker group with zero shared mutable state
//   - Honest about failure – infeasibility and time limits are latched
//     state, never panics or errors
//
// Under the hood, everything is organized per concern:
//
//	numeric/   — Num predicates & StableSum
//	mip/       — Problem, builder, reformulation to =/≥ form
//	linalg/    — sparse residuals, reduced costs, norms
//	probing/   — the reversible bound-tightening view
//	rounding/  — variable-selection strategies
//	fixprop/   — the diver and the simple initial heuristic
//	volume/    — the Volume Algorithm
//	heuristic/ — the parallel orchestrator
//	parse/     — MPS & PBO readers
//	fixapi/    — handle-based entry points for external solvers
//
// Dive into DESIGN.md for the component map and the reasoning behind the
// larger decisions.
//
//	go get github.com/katalvlaran/volfix
package volfix

// Package probing implements a layered, reversible bound-tightening view
// over an immutable mip.Problem.
//
// 🚀 What is a probing view?
//
//	A View represents a partial assignment by narrowing column domains on
//	top of a shared, read-only problem.  Diving code fixes variables with
//	SetProbingColumn, then calls PropagateDomains to pull every bound
//	tightening implied by the row activities to a fixed point.  When a
//	column's domain empties, the view latches infeasible — the only
//	failure channel; there is no error surface, and Reset restores the
//	base problem exactly.
//
// ✨ Key pieces:
//   - the fixings trail: every decision in issue order, for backtracking
//   - bound-change records: (column, value, reason row, depth) per
//     tightening, decisions marked with reason −1 — raw material for
//     conflict analysis
//   - incremental row-activity bookkeeping with infinite-contribution
//     counters, so each propagation sweep touches only arithmetic
//
// Propagation is deterministic: rows are processed in index order until a
// complete sweep changes nothing, capped at a fixed sweep budget.
// Tightenings below the feasibility tolerance are discarded.
//
// A View is owned by exactly one goroutine; the underlying Problem may be
// shared by any number of views.
package probing

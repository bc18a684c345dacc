// Package heuristic orchestrates the parallel fix-and-propagate search:
// one probing view, one solution buffer and one rounding strategy per
// worker, dispatched over a bounded errgroup, reduced to the single best
// integer solution.
//
// The strategy portfolio is fixed: Farkas round-down, Farkas round-up,
// fractional, and seeded random.  Each parallel task owns its view,
// buffer and strategy exclusively; the shared Problem is read-only, so the
// parallel region needs no synchronisation, and the reduction after the
// barrier is a deterministic index-ordered scan (strict objective
// less-than, ties to the lower strategy index).
//
// After a successful dive the one-opt pass re-runs per candidate, again in
// parallel: binary columns in order of decreasing objective magnitude get
// a single bit-flip, kept only when re-propagation stays feasible and the
// objective strictly improves.
//
// All buffers are allocated once in New and reused across calls.
package heuristic

// Package fixprop implements the fix-and-propagate diver: starting from a
// continuous estimate x̄, it repeatedly asks a rounding strategy for the
// next (variable, value) fixing, applies it to a probing view and
// propagates, until every integral column is fixed or infeasibility is
// detected.
//
// ⚙️ The dive:
//
//	while strategy proposes a fixing:
//	  set the column, propagate
//	  on infeasibility: either stop, or backtrack by flipping the last
//	  decision (±1 towards the other side of x̄) after replaying the rest
//	  of the trail; a second infeasibility abandons backtracking
//	complete all still-unfixed columns by clamping x̄ into their domains
//
// Also here:
//   - OneOpt — re-fix a single column of a feasible solution and complete,
//     the building block of the local-search improvement pass
//   - FindInitialSolution — the bound-driven simple heuristic (zero,
//     lower-bound, upper-bound and random modes)
//
// Infeasibility is expected and recoverable; it is reported as a boolean,
// never as an error.  A non-integral estimate for an integer column at
// completion time panics while the view is still feasible; after a failed
// dive the completion rounds it instead.
package fixprop

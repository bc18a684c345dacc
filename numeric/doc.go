// Package numeric provides the tolerance-aware floating-point kernel used
// throughout volfix: epsilon-parameterised comparison predicates, feasible
// rounding helpers, and a compensated (Kahan–Neumaier) summation
// accumulator.
//
// 🚀 Why a kernel?
//
//	MILP engines live and die by consistent tolerance handling.  A raw
//	`==` on two float64 values is meaningless after a few thousand sparse
//	dot products; every equality, ordering and integrality decision in the
//	engine must go through the same pair of epsilons.  Num is that single
//	authority: an immutable value type carried explicitly by every
//	component (no package-level singleton).
//
// ✨ Key features:
//   - IsZero / IsEq / IsLT / IsLE / IsGT / IsGE — relative-epsilon predicates
//   - IsIntegral / Round / FeasFloor / FeasCeil — feasibility-tolerance rounding
//   - StableSum — compensated summation bounding cancellation error
//
// ⚙️ Usage:
//
//	num := numeric.Default()
//	if num.IsIntegral(x) { ... }
//
//	var sum numeric.StableSum
//	for _, v := range terms {
//	  sum.Add(v)
//	}
//	total := sum.Get()
//
// Both types are plain values: copy freely, share across goroutines.
package numeric

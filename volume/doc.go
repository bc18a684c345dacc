// Package volume implements the Volume Algorithm, an approximate
// Lagrangian dual method that produces a continuous primal estimate x̄ and
// a lower bound z̄ for a reformulated MILP whose rows are all `=` or `≥`
// and whose duals on `≥`-rows are non-negative.
//
// 🚀 One round:
//
//	step  = f · (UB − z̄) / ‖v‖²            (v = b − A x̄)
//	π_t   = P(π̄ + step·v)                   (project ≥-row duals to ≥ 0)
//	x_t   = argmin (c − π_tᵀA)x  over the box bounds, z_t its value
//	α*    = minimizer of ‖α r_t + (1−α) v‖  clamped to [α_max/10, α_max]
//	x̄     ← α x_t + (1−α) x̄
//	z_t > z̄ → accept π_t, z̄
//
// Iterations come in three colours driving the f-ladder: green (strong
// improvement, v·r_t ≥ 0) multiplies f up hard, yellow (improvement
// without alignment) nudges it up after a run, red (no improvement)
// decays it after a longer run.  Every 100 rounds a stalling z̄ halves
// α_max down to its floor.
//
// Stopping: primal violation small and duality gap closed, a configured
// fraction of integer variables stable at integral values, the context
// deadline, or the iteration limit — whichever comes first; the best
// smoothed state so far is always returned.
//
// Solve is strictly single-threaded; all iteration buffers are allocated
// once up front.
package volume

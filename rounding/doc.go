// Package rounding provides the variable-selection strategies used by the
// fix-and-propagate diver.
//
// A Strategy inspects the continuous estimate x̄ and the probing view's
// current domains and proposes the next (column, value) fixing.  Once every
// integral column is integer-valued on x̄ and inside its domain, a strategy
// returns the invalid fixing and the dive stops.
//
// Variants:
//   - Fractional — most fractional column first, rounded to nearest
//   - Farkas     — reduced-cost driven, in a round-up and a round-down
//     orientation
//   - Random     — seedable, rounds up with probability equal to the
//     fractional part
//
// Every strategy is deterministic for a fixed seed and returns values
// inside the view's current bounds; ties break on the lower column index.
// Strategies are not safe for concurrent use — the orchestrator gives each
// parallel dive its own instance.
package rounding

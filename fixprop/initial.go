package fixprop

import (
	"math/rand"

	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/probing"
)

// InitialSolutionMode selects how FindInitialSolution values the columns.
type InitialSolutionMode int

const (
	// InitialZero prefers zero when the domain allows it, else the nearest
	// bound.
	InitialZero InitialSolutionMode = iota
	// InitialLowerBound takes the lower bound when finite, else the upper.
	InitialLowerBound
	// InitialUpperBound takes the upper bound when finite, else the lower.
	InitialUpperBound
	// InitialRandom draws uniformly from [lb, ub], rounded for integer
	// columns; a one-sided domain degenerates to its finite bound.
	InitialRandom
)

// FindInitialSolution constructs a solution without a continuous estimate
// by walking the columns in index order, valuing each per mode, fixing and
// propagating.  The view is Reset first.  Returns true on infeasibility.
//
// rng is consulted only by InitialRandom and may be nil otherwise.
func (d *Driver) FindInitialSolution(
	mode InitialSolutionMode,
	view *probing.View,
	result []float64,
	rng *rand.Rand,
) bool {
	view.Reset()

	n := len(view.ProbingLowerBounds())
	for i := 0; i < n; i++ {
		lower := view.ProbingLowerBounds()
		upper := view.ProbingUpperBounds()
		flags := view.ProbingDomainFlags()
		if d.num.IsFeasEq(upper[i], lower[i]) {
			continue
		}

		hasLb := !flags[i].Has(mip.ColLbInf)
		hasUb := !flags[i].Has(mip.ColUbInf)

		var value float64
		switch mode {
		case InitialZero:
			switch {
			case hasUb && d.num.IsLT(upper[i], 0):
				value = upper[i]
			case hasLb && d.num.IsGT(lower[i], 0):
				value = lower[i]
			default:
				value = 0
			}
		case InitialLowerBound:
			switch {
			case hasLb:
				value = lower[i]
			case hasUb:
				value = upper[i]
			default:
				value = 0
			}
		case InitialUpperBound:
			switch {
			case hasUb:
				value = upper[i]
			case hasLb:
				value = lower[i]
			default:
				value = 0
			}
		case InitialRandom:
			switch {
			case hasLb && hasUb:
				value = lower[i] + rng.Float64()*(upper[i]-lower[i])
				if view.IsIntegerVariable(i) {
					value = d.num.Round(value)
				}
			case hasLb:
				value = lower[i]
			case hasUb:
				value = upper[i]
			default:
				value = 0
			}
		}

		d.log.Debugf("fix var %d to %g", i, value)
		view.SetProbingColumn(i, value)
		if d.probe(view) {
			return true
		}
	}
	createSolution(result, view)

	return false
}

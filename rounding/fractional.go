package rounding

import (
	"math"

	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/probing"
)

// Fractional picks the integral column whose estimate is furthest from an
// integer and rounds it to the nearest one.  Ties break on the lower
// column index.
type Fractional struct {
	num numeric.Num
}

// NewFractional returns a fractional rounding strategy.
func NewFractional(num numeric.Num) *Fractional {
	return &Fractional{num: num}
}

// Name implements Strategy.
func (s *Fractional) Name() string { return "fractional" }

// SelectRoundingVariable implements Strategy.
func (s *Fractional) SelectRoundingVariable(solution []float64, view *probing.View) probing.Fixing {
	best := probing.InvalidFixing
	bestFrac := -1.0

	for j := range solution {
		if !needsRounding(view, solution, j) {
			continue
		}
		frac := math.Abs(solution[j] - s.num.Round(solution[j]))
		if frac > bestFrac {
			bestFrac = frac
			best = probing.Fixing{
				Column: j,
				Value:  clampToDomain(view, s.num, j, s.num.Round(solution[j])),
			}
		}
	}

	return best
}

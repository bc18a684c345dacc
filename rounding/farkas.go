package rounding

import (
	"math"

	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/probing"
)

// Farkas ranks columns by a Farkas-certificate-inspired score: the reduced
// cost c_j − π·A_j with respect to the last dual iterate.  A positive
// score favours the floor of the estimate, a negative one the ceiling.
// The two orientations differ in the direction taken when the score
// vanishes: the round-up orientation ceils, the other floors.
type Farkas struct {
	num     numeric.Num
	roundUp bool
	duals   []float64
}

// NewFarkas returns a Farkas strategy with the given tie orientation.
// Until SetDuals is called the dual iterate is all-zero and the score
// degenerates to the objective coefficient.
func NewFarkas(num numeric.Num, roundUp bool) *Farkas {
	return &Farkas{num: num, roundUp: roundUp}
}

// SetDuals installs the dual iterate the scores are computed against.
// The slice is not copied; the caller keeps ownership.
func (s *Farkas) SetDuals(pi []float64) { s.duals = pi }

// Name implements Strategy.
func (s *Farkas) Name() string {
	if s.roundUp {
		return "farkas-up"
	}

	return "farkas-down"
}

// SelectRoundingVariable implements Strategy.
func (s *Farkas) SelectRoundingVariable(solution []float64, view *probing.View) probing.Fixing {
	best := probing.InvalidFixing
	bestScore := -1.0

	for j := range solution {
		if !needsRounding(view, solution, j) {
			continue
		}
		score := s.reducedCost(view, j)
		if abs := math.Abs(score); abs > bestScore {
			bestScore = abs
			best = probing.Fixing{
				Column: j,
				Value:  clampToDomain(view, s.num, j, s.choose(score, solution[j])),
			}
		}
	}

	return best
}

// reducedCost computes c_j − π·A_j against the installed duals.
func (s *Farkas) reducedCost(view *probing.View, j int) float64 {
	var sum numeric.StableSum
	sum.Add(view.Obj()[j])
	if s.duals != nil {
		col := view.Problem().ConstraintMatrix().ColCoefficients(j)
		for k, r := range col.Indices {
			sum.AddProduct(-col.Values[k], s.duals[r])
		}
	}

	return sum.Get()
}

// choose maps a score to a rounding direction for estimate x.
func (s *Farkas) choose(score, x float64) float64 {
	switch {
	case s.num.IsGT(score, 0):
		return s.num.FeasFloor(x)
	case s.num.IsLT(score, 0):
		return s.num.FeasCeil(x)
	case s.roundUp:
		return s.num.FeasCeil(x)
	default:
		return s.num.FeasFloor(x)
	}
}

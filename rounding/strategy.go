package rounding

import (
	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/probing"
)

// Strategy chooses the next (variable, value) fixing from a continuous
// estimate.  SelectRoundingVariable returns the invalid fixing once every
// integral column is integer-valued on the estimate and inside its domain.
type Strategy interface {
	// SelectRoundingVariable proposes the next fixing for the dive.  The
	// returned value always lies within the view's current bounds.
	SelectRoundingVariable(solution []float64, view *probing.View) probing.Fixing
	// Name identifies the strategy in logs.
	Name() string
}

// needsRounding reports whether column j still requires a rounding
// decision: integer-constrained, not yet fixed, and either fractional on
// the estimate or outside its current domain.
func needsRounding(view *probing.View, solution []float64, j int) bool {
	if !view.IsIntegerVariable(j) || view.IsFixed(j) {
		return false
	}
	if !view.Num().IsIntegral(solution[j]) {
		return true
	}

	return !view.IsWithinBounds(j, solution[j])
}

// clampToDomain forces the integral value v into column j's current
// domain.  Propagation keeps integral bounds integral, so the clamped
// endpoints are valid choices.
func clampToDomain(view *probing.View, num numeric.Num, j int, v float64) float64 {
	lb := view.ProbingLowerBounds()[j]
	ub := view.ProbingUpperBounds()[j]
	if !view.ProbingDomainFlags()[j].Has(mip.ColLbInf) && num.IsLT(v, lb) {
		v = num.FeasCeil(lb)
	}
	if !view.ProbingDomainFlags()[j].Has(mip.ColUbInf) && num.IsGT(v, ub) {
		v = num.FeasFloor(ub)
	}

	return v
}

package volume

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/volfix/linalg"
	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
)

// Algorithm holds the adaptive state of one Volume Algorithm run.  Create
// a fresh one per Solve call; the smoothing weight and step factor mutate
// during the run.
type Algorithm struct {
	num    numeric.Num
	log    *logrus.Logger
	params Parameters

	alpha    float64
	alphaMax float64
	f        float64
}

// New returns an Algorithm with normalized parameters.  A nil logger
// discards all output.
func New(num numeric.Num, log *logrus.Logger, params Parameters) *Algorithm {
	params.normalize()

	return &Algorithm{
		num:      num,
		log:      ensureLogger(log),
		params:   params,
		alpha:    params.Alpha,
		alphaMax: params.AlphaMax,
		f:        params.F,
	}
}

// Solve minimizes cᵀx over Ax = b / Ax ≥ b and the box bounds of domains,
// in the Lagrangian-dual sense: it returns the smoothed primal x̄, the
// accepted duals π̄ and the bound z̄.
//
// pi is the initial dual iterate (length = rows of A); boxUpperBound is
// the UB₀ hint; numIntVars the number of integer variables for the
// stability stop.  Cancellation is cooperative per round: on a ctx
// deadline the best state so far is returned.
func (a *Algorithm) Solve(
	ctx context.Context,
	c []float64,
	matrix *mip.ConstraintMatrix,
	b []float64,
	domains mip.VariableDomains,
	pi []float64,
	numIntVars int,
	boxUpperBound float64,
) Result {
	nRows := matrix.NRows()
	assertRowForm(matrix)

	counter := 1
	improvement := false
	weakIter := 0
	noImproveIter := 0

	vT := make([]float64, nRows)
	violT := make([]float64, nRows)
	residualT := make([]float64, nRows)
	piT := append([]float64(nil), pi...)
	piBar := append([]float64(nil), pi...)
	xT := make([]float64, len(c))
	redcost := make([]float64, len(c))
	a.projectDuals(matrix, piT)

	// solve (6) once with the initial duals to seed x̄ and z̄
	zBar := a.solveSubproblem(c, matrix, b, domains, piBar, xT, redcost)
	xBar := append([]float64(nil), xT...)
	zBarOld := zBar

	upperBoundResetVal := boxUpperBound
	if a.num.IsGE(boxUpperBound, 1.0) {
		upperBoundResetVal = 1.0
	}
	upperBound := 0.0
	finiteUpperBound := false

	xBarLast := append([]float64(nil), xBar...)
	fixedIntCount := make([]int, len(xBar))
	a.initFixedIntCount(xBar, domains, fixedIntCount)

	linalg.BMinusAx(matrix, xBar, b, vT)
	a.calcViolations(matrix, piBar, vT, violT)

	for a.shouldContinue(ctx, violT, nRows, c, xBar, zBar, numIntVars, fixedIntCount, counter-1) {
		a.log.Debugf("volume round %d", counter)

		// step 1: v_t = b − A x̄ and π_t = π̄ + step·v_t
		a.updateUpperBound(zBar, upperBoundResetVal, &upperBound, &finiteUpperBound)
		if !a.num.IsGT(upperBound, zBar) {
			panic(fmt.Sprintf("volume: upper bound target %g not above z̄ %g", upperBound, zBar))
		}
		norm := linalg.L2Norm(vT)
		step := a.f * (upperBound - zBar) / (norm * norm)
		a.log.Debugf("  step size: %g", step)
		linalg.BPlusSx(piBar, step, vT, piT)
		a.projectDuals(matrix, piT)

		// solve (6) with π_t
		zT := a.solveSubproblem(c, matrix, b, domains, piT, xT, redcost)

		// optimal smoothing weight from the two residuals
		linalg.BMinusAx(matrix, xT, b, residualT)
		a.calcAlpha(residualT, vT)

		copy(xBarLast, xBar)
		// x̄ ← α x_t + (1−α) x̄
		linalg.QBPlusSx(a.alpha, xT, 1-a.alpha, xBar, xBar)

		// step 2: accept on improvement
		if a.num.IsGT(zT, zBar) {
			improvement = true
			zBar = zT
			copy(piBar, piT)
		} else {
			improvement = false
		}

		a.updateFixedIntCount(xBar, xBarLast, domains, fixedIntCount)

		linalg.BMinusAx(matrix, xBar, b, vT)
		a.calcViolations(matrix, piBar, vT, violT)

		a.updateF(improvement, vT, residualT, &weakIter, &noImproveIter)

		if counter%100 == 0 {
			a.updateAlphaMax(zBar, zBarOld)
			zBarOld = zBar
		}

		counter++
	}

	a.log.Infof("volume algorithm performed %d rounds, z̄ = %g", counter-1, zBar)

	return Result{XBar: xBar, Duals: piBar, ZBar: zBar, Iterations: counter}
}

// assertRowForm checks the reformulation contract: a row without a finite
// rhs must have a finite lhs (it is a `≥`-row).
func assertRowForm(matrix *mip.ConstraintMatrix) {
	for i, rf := range matrix.RowFlags() {
		if rf.Has(mip.RowRhsInf) && rf.Has(mip.RowLhsInf) {
			panic(fmt.Sprintf("volume: row %d has no finite side", i))
		}
	}
}

// projectDuals clamps the dual of every `≥`-row to π ≥ 0; equality-row
// duals stay free.
func (a *Algorithm) projectDuals(matrix *mip.ConstraintMatrix, pi []float64) {
	for i, rf := range matrix.RowFlags() {
		if rf.Has(mip.RowRhsInf) {
			pi[i] = a.num.Max(pi[i], 0)
		}
	}
}

// solveSubproblem minimizes (c − πᵀA)x + π·b over the box bounds alone.
// The minimizer is written into solution; the optimal value is returned.
// An infinite direction makes the subproblem unbounded and yields the
// minimum representable value.
func (a *Algorithm) solveSubproblem(
	c []float64,
	matrix *mip.ConstraintMatrix,
	b []float64,
	domains mip.VariableDomains,
	pi []float64,
	solution []float64,
	redcost []float64,
) float64 {
	linalg.BMinusXA(matrix, pi, c, redcost)

	var obj numeric.StableSum
	obj.Add(linalg.Multi(b, pi))

	for i := range redcost {
		switch {
		case a.num.IsZero(redcost[i]):
			if domains.Flags[i].Has(mip.ColLbInf) {
				solution[i] = 0
			} else {
				solution[i] = domains.LowerBounds[i]
			}
			continue
		case a.num.IsGT(redcost[i], 0):
			if domains.Flags[i].Has(mip.ColLbInf) {
				return -math.MaxFloat64
			}
			solution[i] = domains.LowerBounds[i]
		default:
			if domains.Flags[i].Has(mip.ColUbInf) {
				return -math.MaxFloat64
			}
			solution[i] = domains.UpperBounds[i]
		}
		obj.AddProduct(redcost[i], solution[i])
	}

	return obj.Get()
}

// shouldContinue evaluates the stopping criteria; true keeps iterating.
func (a *Algorithm) shouldContinue(
	ctx context.Context,
	viol []float64,
	nRows int,
	c []float64,
	xBar []float64,
	zBar float64,
	numIntVars int,
	fixedIntCount []int,
	iterations int,
) bool {
	if ctx.Err() != nil {
		return false
	}
	if iterations >= a.params.MaxIterations {
		return false
	}

	primalFeas := a.num.IsLT(linalg.L1Norm(viol), float64(nRows)*a.params.ConAbsTol)

	objVal := linalg.Multi(c, xBar)
	var dualityGap bool
	if a.num.IsZero(zBar) {
		dualityGap = a.num.IsLT(math.Abs(objVal), a.params.ObjAbsTol)
	} else {
		dualityGap = a.num.IsLT(math.Abs(objVal-zBar), math.Abs(zBar)*a.params.ObjRelTol)
	}
	if primalFeas && dualityGap {
		return false
	}

	if numIntVars > 0 {
		stable := 0
		for _, cnt := range fixedIntCount {
			if cnt > a.params.FixedIntVarIterCheck {
				stable++
			}
		}
		if a.num.IsGE(float64(stable), float64(numIntVars)*a.params.FixedIntVarThreshold) {
			return false
		}
	}

	return true
}

// updateUpperBound maintains the moving target UB the step size is scaled
// against: it stays a sliver above z̄ and is pushed up whenever z̄ closes
// in on it.
func (a *Algorithm) updateUpperBound(zBar, resetVal float64, upperBound *float64, finite *bool) {
	switch {
	case !*finite:
		if a.num.IsZero(zBar) {
			*upperBound = resetVal
		} else {
			*upperBound = zBar + math.Abs(zBar)*0.06
		}
		*finite = true
		a.log.Debugf("  upper bound target: %g", *upperBound)
	case a.num.IsGE(zBar, *upperBound-math.Abs(*upperBound)*0.05):
		if a.num.IsZero(zBar) {
			*upperBound = resetVal
		} else {
			*upperBound = a.num.Max(*upperBound+math.Abs(*upperBound)*0.03,
				zBar+math.Abs(zBar)*0.06)
		}
		a.log.Debugf("  upper bound target: %g", *upperBound)
	}
}

// calcAlpha sets the smoothing weight to the minimizer of
// ‖α r_t + (1−α) r̄‖, clamped to [α_max/10, α_max].
func (a *Algorithm) calcAlpha(residualT, residualBar []float64) {
	tt := linalg.Multi(residualT, residualT)
	tb := linalg.Multi(residualT, residualBar)
	bb := linalg.Multi(residualBar, residualBar)

	alphaOpt := a.alphaMax
	if denom := tt + bb - 2*tb; a.num.IsGT(denom, 0) {
		alphaOpt = (bb - tb) / denom
	}

	switch {
	case a.num.IsLT(alphaOpt, a.alphaMax/10):
		a.alpha = a.alphaMax / 10
	case a.num.IsGT(alphaOpt, a.alphaMax):
		a.alpha = a.alphaMax
	default:
		a.alpha = alphaOpt
	}
	a.log.Debugf("  alpha: %g (opt %g, max %g)", a.alpha, alphaOpt, a.alphaMax)
}

// updateF walks the step-factor ladder: green iterations multiply f up
// strongly, a run of yellow ones nudges it up, a run of red ones decays it.
func (a *Algorithm) updateF(improvement bool, vT, residualT []float64, weakIter, noImproveIter *int) {
	if improvement {
		if a.num.IsGE(linalg.Multi(vT, residualT), 0) {
			// green
			a.f = a.num.Min(a.params.FStrongIncrFactor*a.f, a.params.FMax)
			a.log.Debugf("  increased f: %g", a.f)
			return
		}
		// yellow
		*weakIter++
		if *weakIter >= a.params.WeakImprovementIterLimit {
			*weakIter = 0
			a.f = a.num.Min(a.params.FWeakIncrFactor*a.f, a.params.FMax)
			a.log.Debugf("  increased f: %g", a.f)
		}
		return
	}

	// red
	*noImproveIter++
	if *noImproveIter >= a.params.NonImprovementIterLimit {
		*noImproveIter = 0
		if a.num.IsGE(a.params.FDecrFactor*a.f, a.params.FMin) {
			a.f = a.params.FDecrFactor * a.f
			a.log.Debugf("  decreased f: %g", a.f)
		}
	}
}

// updateAlphaMax halves the smoothing ceiling when z̄ stalled over the
// last 100-round window, floored at alphaMaxFloor.
func (a *Algorithm) updateAlphaMax(zBar, zBarOld float64) {
	if a.num.IsLT(zBar, zBarOld+0.01*math.Abs(zBarOld)) &&
		a.num.IsGE(a.alphaMax/2, alphaMaxFloor) {
		a.alphaMax /= 2
	}
}

// calcViolations masks the residual on `≥`-rows where complementary
// slackness holds: a satisfied inequality with a zero dual contributes no
// violation.
func (a *Algorithm) calcViolations(matrix *mip.ConstraintMatrix, pi, residual, viol []float64) {
	copy(viol, residual)
	for i, rf := range matrix.RowFlags() {
		if rf.Has(mip.RowRhsInf) && a.num.IsLT(residual[i], 0) && a.num.IsZero(pi[i]) {
			viol[i] = 0
		}
	}
}

// initFixedIntCount seeds the stability counters with the integral columns
// of the initial x̄.
func (a *Algorithm) initFixedIntCount(xBar []float64, domains mip.VariableDomains, count []int) {
	for i := range xBar {
		if domains.Flags[i].Has(mip.ColIntegral) && a.num.IsIntegral(xBar[i]) {
			count[i] = 1
		}
	}
}

// updateFixedIntCount advances the per-column stability counters: an
// integral column that kept an integral, unchanged value extends its run,
// anything else resets to zero.
func (a *Algorithm) updateFixedIntCount(xBar, xBarLast []float64, domains mip.VariableDomains, count []int) {
	for i := range xBar {
		if domains.Flags[i].Has(mip.ColIntegral) && a.num.IsIntegral(xBar[i]) &&
			a.num.IsEq(xBar[i], xBarLast[i]) {
			count[i]++
		} else {
			count[i] = 0
		}
	}
}

// ensureLogger substitutes a discarding logger for nil.
func ensureLogger(log *logrus.Logger) *logrus.Logger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

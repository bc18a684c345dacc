package fixprop

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/probing"
	"github.com/katalvlaran/volfix/rounding"
)

// DiveOptions configures one fix-and-propagate run.
//   - PerformBacktracking: on infeasibility, flip the last decision and
//     retry once per dive level instead of giving up.
//   - StopAtInfeasibility: return immediately on the first unrecovered
//     infeasibility instead of completing a best-effort assignment.
//   - MaxBacktracks: cap on successful backtracks per run; 0 or negative
//     means unlimited.
type DiveOptions struct {
	PerformBacktracking bool
	StopAtInfeasibility bool
	MaxBacktracks       int
}

// DiveResult reports the outcome of one run.
type DiveResult struct {
	// Infeasible reports that no feasible assignment was reached.
	Infeasible bool
	// Backtracks counts the successful backtracks performed.
	Backtracks int
}

// Driver runs fix-and-propagate dives.  A Driver is stateless apart from
// its kernel and logger and may be shared across sequential runs; each
// concurrent dive needs its own probing view.
type Driver struct {
	num numeric.Num
	log *logrus.Logger
}

// NewDriver returns a Driver.  A nil logger discards all output.
func NewDriver(num numeric.Num, log *logrus.Logger) *Driver {
	return &Driver{num: num, log: ensureLogger(log)}
}

// FixAndPropagate dives from contSolution to a full integer assignment,
// writing it into result (length = number of columns).  The view is Reset
// first.  Returns the infeasibility verdict and the backtrack count.
//
// Cancellation is cooperative: when ctx expires mid-dive the run is
// abandoned and reported infeasible.
func (d *Driver) FixAndPropagate(
	ctx context.Context,
	contSolution []float64,
	result []float64,
	strategy rounding.Strategy,
	view *probing.View,
	opts DiveOptions,
) DiveResult {
	view.Reset()

	if !opts.PerformBacktracking {
		if aborted := d.diveToLeaf(ctx, contSolution, strategy, opts.StopAtInfeasibility, view); aborted {
			return DiveResult{Infeasible: true}
		}
		if opts.StopAtInfeasibility && view.IsInfeasible() {
			return DiveResult{Infeasible: true}
		}
		d.fixRemaining(contSolution, view)
		createSolution(result, view)

		return DiveResult{Infeasible: view.IsInfeasible()}
	}

	backtracks := 0
	for {
		if aborted := d.diveToLeaf(ctx, contSolution, strategy, true, view); aborted {
			return DiveResult{Infeasible: true, Backtracks: backtracks}
		}

		if !view.IsInfeasible() {
			d.fixRemaining(contSolution, view)
			createSolution(result, view)

			return DiveResult{Infeasible: view.IsInfeasible(), Backtracks: backtracks}
		}

		fixings := view.Fixings()
		exhausted := len(fixings) == 0 ||
			(opts.MaxBacktracks > 0 && backtracks >= opts.MaxBacktracks)
		if !exhausted {
			d.log.Debugf("backtracking at depth %d", len(fixings))
			last := fixings[len(fixings)-1]

			view.Reset()
			for _, fx := range fixings[:len(fixings)-1] {
				view.SetProbingColumn(fx.Column, fx.Value)
				d.probe(view)
			}
			flipped := d.flipValue(last.Value, contSolution[last.Column])
			view.SetProbingColumn(last.Column, flipped)
			if !d.probe(view) {
				backtracks++
				continue
			}
		}

		// backtracking failed or was exhausted: complete the remaining
		// variables and return the verdict unchanged
		if opts.StopAtInfeasibility {
			return DiveResult{Infeasible: true, Backtracks: backtracks}
		}
		d.fixRemaining(contSolution, view)
		createSolution(result, view)

		return DiveResult{Infeasible: view.IsInfeasible(), Backtracks: backtracks}
	}
}

// OneOpt re-fixes a single column of a feasible integer solution, then
// propagates and completes the remaining columns, writing the candidate
// into result.  The caller must Reset the view beforehand.  Returns true
// when the flip is infeasible.
func (d *Driver) OneOpt(
	feasibleSolution []float64,
	col int,
	newValue float64,
	view *probing.View,
	result []float64,
) bool {
	view.SetProbingColumn(col, newValue)
	if d.probe(view) {
		return true
	}
	d.fixRemaining(feasibleSolution, view)
	createSolution(result, view)

	return view.IsInfeasible()
}

// diveToLeaf fixes strategy-selected variables until the strategy returns
// the invalid sentinel or (when stopAtInfeasibility) the view latches.
// Reports whether the dive was aborted by ctx.
func (d *Driver) diveToLeaf(
	ctx context.Context,
	contSolution []float64,
	strategy rounding.Strategy,
	stopAtInfeasibility bool,
	view *probing.View,
) bool {
	for {
		if ctx.Err() != nil {
			return true
		}
		fixing := strategy.SelectRoundingVariable(contSolution, view)
		if fixing.IsInvalid() {
			return false
		}
		if !view.IsWithinBounds(fixing.Column, fixing.Value) {
			panic(fmt.Sprintf("fixprop: strategy %s proposed %g outside the domain of column %d",
				strategy.Name(), fixing.Value, fixing.Column))
		}
		d.log.Debugf("fix var %d to %g", fixing.Column, fixing.Value)

		view.SetProbingColumn(fixing.Column, fixing.Value)
		if d.probe(view) && stopAtInfeasibility {
			return false
		}
	}
}

// probe propagates and reports the infeasibility latch.
func (d *Driver) probe(view *probing.View) bool {
	if view.IsInfeasible() {
		return true
	}
	view.PropagateDomains()

	return view.IsInfeasible()
}

// flipValue returns the backtrack value of a decision: one step from the
// rounded value towards the other side of the estimate.
func (d *Driver) flipValue(value, solutionValue float64) float64 {
	if d.num.IsGE(value, solutionValue) {
		return value - 1
	}

	return value + 1
}

// fixRemaining assigns every still-unfixed column by clamping the estimate
// into its current domain, propagating after each assignment.  While the
// view is feasible, an in-domain estimate for an integer column must
// already be integral and anything else panics; on an infeasible view
// (best-effort completion after a failed dive) it is rounded.
func (d *Driver) fixRemaining(contSolution []float64, view *probing.View) {
	lower := view.ProbingLowerBounds()
	upper := view.ProbingUpperBounds()

	for j := range contSolution {
		if d.num.IsFeasEq(lower[j], upper[j]) {
			continue
		}
		geLb := d.num.IsFeasGE(contSolution[j], lower[j])
		leUb := d.num.IsFeasLE(contSolution[j], upper[j])

		var value float64
		switch {
		case geLb && leUb:
			value = contSolution[j]
			if view.IsIntegerVariable(j) {
				if !d.num.IsIntegral(value) && !view.IsInfeasible() {
					panic(fmt.Sprintf("fixprop: non-integral value %g for integer column %d at completion", value, j))
				}
				value = d.num.Round(value)
			}
		case geLb:
			value = upper[j]
		default:
			value = lower[j]
		}

		view.SetProbingColumn(j, value)
		d.log.Debugf("fix remaining var %d to %g", j, value)
		d.probe(view)
	}
}

// createSolution copies the collapsed domains into result.  On an
// infeasible view some columns may not have collapsed; the upper bound is
// reported and the caller discards the vector.
func createSolution(result []float64, view *probing.View) {
	copy(result, view.ProbingUpperBounds())
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

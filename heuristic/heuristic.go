package heuristic

import (
	"context"
	"io"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/volfix/fixprop"
	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/probing"
	"github.com/katalvlaran/volfix/rounding"
)

// OneOptMode selects the improvement pass after a successful dive.
type OneOptMode int

const (
	// OneOptOff disables the improvement pass.
	OneOptOff OneOptMode = iota
	// OneOptFeasibility keeps a flip only when it stays feasible.
	OneOptFeasibility
	// OneOptPropagate additionally re-propagates and completes after each
	// flip.
	OneOptPropagate
)

// Default option values of the orchestrator.
const (
	DefaultThreads   = 8
	DefaultTimeLimit = 10 * time.Minute
)

// Options configures a Heuristic.
type Options struct {
	// Threads bounds the number of concurrently running dives.
	Threads int
	// TimeLimit bounds the whole search when the caller's context carries
	// no earlier deadline.
	TimeLimit time.Duration
	// Seed drives the random rounding strategy.
	Seed int64
	// MaxBacktracks caps backtracking per dive; 0 or negative: unlimited.
	MaxBacktracks int
	// OneOpt selects the improvement pass.
	OneOpt OneOptMode
	// Log receives progress output; nil discards.
	Log *logrus.Logger
}

// normalize substitutes defaults for zero values.
func (o *Options) normalize() {
	if o.Threads <= 0 {
		o.Threads = DefaultThreads
	}
	if o.TimeLimit <= 0 {
		o.TimeLimit = DefaultTimeLimit
	}
	if o.Log == nil {
		o.Log = logrus.New()
		o.Log.SetOutput(io.Discard)
	}
}

// Heuristic owns the per-strategy views, buffers and strategies of the
// parallel search.  Create one per problem with New and reuse it across
// calls; it is not safe for concurrent use by multiple callers.
type Heuristic struct {
	num     numeric.Num
	opts    Options
	problem *mip.Problem
	driver  *fixprop.Driver

	strategies   []rounding.Strategy
	views        []*probing.View
	intSolutions [][]float64
	oneOptBuf    [][]float64
	objValue     []float64
	infeasible   []bool

	colsSortedByObj []int
}

// New builds the strategy portfolio and pre-allocates every per-strategy
// buffer.
func New(num numeric.Num, problem *mip.Problem, opts Options) *Heuristic {
	opts.normalize()

	h := &Heuristic{
		num:     num,
		opts:    opts,
		problem: problem,
		driver:  fixprop.NewDriver(num, opts.Log),
		strategies: []rounding.Strategy{
			rounding.NewFarkas(num, false),
			rounding.NewFarkas(num, true),
			rounding.NewFractional(num),
			rounding.NewRandom(num, opts.Seed),
		},
	}

	n := problem.NCols()
	for range h.strategies {
		h.views = append(h.views, probing.NewView(problem, num))
		h.intSolutions = append(h.intSolutions, make([]float64, n))
		h.oneOptBuf = append(h.oneOptBuf, make([]float64, n))
		h.objValue = append(h.objValue, 0)
		h.infeasible = append(h.infeasible, true)
	}

	obj := problem.Objective().Coefficients
	h.colsSortedByObj = make([]int, n)
	for i := range h.colsSortedByObj {
		h.colsSortedByObj[i] = i
	}
	sort.SliceStable(h.colsSortedByObj, func(a, b int) bool {
		ca := math.Abs(obj[h.colsSortedByObj[a]])
		cb := math.Abs(obj[h.colsSortedByObj[b]])
		if ca != cb {
			return ca > cb
		}

		return h.colsSortedByObj[a] < h.colsSortedByObj[b]
	})

	return h
}

// SetMaxBacktracks adjusts the per-dive backtrack cap between calls
// without disturbing the pre-allocated buffers.
func (h *Heuristic) SetMaxBacktracks(n int) { h.opts.MaxBacktracks = n }

// SetOneOptMode adjusts the improvement pass between calls.
func (h *Heuristic) SetOneOptMode(mode OneOptMode) { h.opts.OneOpt = mode }

// SetDuals installs the dual iterate of the last volume run into the
// Farkas strategies.
func (h *Heuristic) SetDuals(pi []float64) {
	for _, s := range h.strategies {
		if farkas, ok := s.(*rounding.Farkas); ok {
			farkas.SetDuals(pi)
		}
	}
}

// PerformFixAndPropagate dives all strategies in parallel from the
// continuous estimate, runs the configured one-opt pass on the feasible
// candidates, and installs the best result into bestObjVal /
// currentBestSolution when it strictly improves (or when no incumbent
// exists yet).  Reports whether the incumbent changed.
func (h *Heuristic) PerformFixAndPropagate(
	ctx context.Context,
	primalHeurSol []float64,
	bestObjVal *float64,
	currentBestSolution *[]float64,
) bool {
	ctx, cancel := h.withTimeLimit(ctx)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(h.opts.Threads)
	for i := range h.strategies {
		group.Go(func() error {
			res := h.driver.FixAndPropagate(gctx, primalHeurSol,
				h.intSolutions[i], h.strategies[i], h.views[i],
				fixprop.DiveOptions{
					PerformBacktracking: true,
					MaxBacktracks:       h.opts.MaxBacktracks,
				})
			h.infeasible[i] = res.Infeasible
			if res.Infeasible {
				h.objValue[i] = 0
				return nil
			}
			h.objValue[i] = h.objectiveValue(h.intSolutions[i])
			h.opts.Log.Infof("dive %s found objective %g (%d backtracks)",
				h.strategies[i].Name(), h.objValue[i], res.Backtracks)

			return nil
		})
	}
	// the dives never return errors; the barrier is all we need
	_ = group.Wait()

	if h.opts.OneOpt != OneOptOff {
		h.performOneOpt(ctx)
	}

	return h.evaluate(bestObjVal, currentBestSolution)
}

// PerformOneOpt runs the improvement pass on an externally supplied
// feasible solution, writing the improved vector back in place.  Returns
// the (possibly unchanged) objective value.
func (h *Heuristic) PerformOneOpt(ctx context.Context, solution []float64) float64 {
	ctx, cancel := h.withTimeLimit(ctx)
	defer cancel()

	copy(h.intSolutions[0], solution)
	h.infeasible[0] = false
	h.objValue[0] = h.objectiveValue(solution)
	h.oneOptScan(ctx, 0)
	copy(solution, h.intSolutions[0])

	return h.objValue[0]
}

// FindInitialSolution runs the bound-driven simple heuristic and installs
// the result when feasible.  Reports whether a solution was found.
func (h *Heuristic) FindInitialSolution(
	mode fixprop.InitialSolutionMode,
	bestObjVal *float64,
	currentBestSolution *[]float64,
) bool {
	rng := rand.New(rand.NewSource(h.opts.Seed))
	infeasible := h.driver.FindInitialSolution(mode, h.views[0], h.intSolutions[0], rng)
	if infeasible {
		return false
	}
	h.infeasible[0] = false
	h.objValue[0] = h.objectiveValue(h.intSolutions[0])
	for i := 1; i < len(h.infeasible); i++ {
		h.infeasible[i] = true
	}

	return h.evaluate(bestObjVal, currentBestSolution)
}

// performOneOpt scans every feasible candidate in parallel.
func (h *Heuristic) performOneOpt(ctx context.Context) {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(h.opts.Threads)
	for i := range h.strategies {
		if h.infeasible[i] {
			continue
		}
		group.Go(func() error {
			h.oneOptScan(gctx, i)
			return nil
		})
	}
	_ = group.Wait()
}

// oneOptScan walks the binary columns of candidate i in order of
// decreasing objective magnitude and keeps every strictly improving,
// still-feasible single bit-flip.  The scan ends at the first zero
// objective coefficient.
func (h *Heuristic) oneOptScan(ctx context.Context, i int) {
	obj := h.problem.Objective().Coefficients
	lower := h.problem.LowerBounds()
	upper := h.problem.UpperBounds()

	for _, j := range h.colsSortedByObj {
		if ctx.Err() != nil {
			return
		}
		if h.num.IsZero(obj[j]) {
			break
		}
		if !h.problem.ColFlags()[j].Has(mip.ColIntegral) ||
			!h.num.IsZero(lower[j]) || !h.num.IsEq(upper[j], 1) {
			continue
		}

		solVal := h.intSolutions[i][j]
		var newVal float64
		if h.num.IsGT(obj[j], 0) {
			if h.num.IsZero(solVal) {
				continue
			}
			newVal = 0
		} else {
			if !h.num.IsZero(solVal) {
				continue
			}
			newVal = 1
		}

		var infeasible bool
		if h.opts.OneOpt == OneOptFeasibility {
			infeasible = !h.flipRemainsFeasible(h.intSolutions[i], j, newVal)
			if !infeasible {
				copy(h.oneOptBuf[i], h.intSolutions[i])
				h.oneOptBuf[i][j] = newVal
			}
		} else {
			h.views[i].Reset()
			infeasible = h.driver.OneOpt(h.intSolutions[i], j, newVal, h.views[i], h.oneOptBuf[i])
		}
		if infeasible {
			h.opts.Log.Debugf("one-opt flip of var %d: infeasible", j)
			continue
		}
		value := h.objectiveValue(h.oneOptBuf[i])
		if h.num.IsLT(value, h.objValue[i]) {
			h.opts.Log.Infof("one-opt flip of var %d: improved objective %g", j, value)
			copy(h.intSolutions[i], h.oneOptBuf[i])
			h.objValue[i] = value
		}
	}
}

// evaluate reduces the per-strategy outcomes into the incumbent.
func (h *Heuristic) evaluate(bestObjVal *float64, currentBestSolution *[]float64) bool {
	bestIndex := -1
	for i := range h.objValue {
		if h.infeasible[i] {
			continue
		}
		noIncumbent := len(*currentBestSolution) == 0 && bestIndex == -1
		if h.num.IsLT(h.objValue[i], *bestObjVal) || noIncumbent {
			bestIndex = i
			*bestObjVal = h.objValue[i]
		}
	}
	if bestIndex == -1 {
		h.opts.Log.Info("fix-and-propagate did not improve the incumbent")
		return false
	}

	if len(*currentBestSolution) == 0 {
		*currentBestSolution = make([]float64, len(h.intSolutions[bestIndex]))
		h.opts.Log.Infof("fix-and-propagate found an initial solution: %g", *bestObjVal)
	} else {
		h.opts.Log.Infof("fix-and-propagate found a new solution: %g", *bestObjVal)
	}
	copy(*currentBestSolution, h.intSolutions[bestIndex])

	return true
}

// flipRemainsFeasible checks every row touching column j against the
// solution with x_j replaced by newVal, without propagating.
func (h *Heuristic) flipRemainsFeasible(solution []float64, j int, newVal float64) bool {
	m := h.problem.ConstraintMatrix()
	col := m.ColCoefficients(j)
	for _, r := range col.Indices {
		rf := m.RowFlags()[r]
		if rf.Has(mip.RowRedundant) {
			continue
		}
		row := m.RowCoefficients(r)
		var activity numeric.StableSum
		for k, c := range row.Indices {
			v := solution[c]
			if c == j {
				v = newVal
			}
			activity.AddProduct(row.Values[k], v)
		}
		act := activity.Get()
		if !rf.Has(mip.RowLhsInf) && !h.num.IsFeasGE(act, m.LeftHandSides()[r]) {
			return false
		}
		if !rf.Has(mip.RowRhsInf) && !h.num.IsFeasLE(act, m.RightHandSides()[r]) {
			return false
		}
	}

	return true
}

// objectiveValue evaluates cᵀx by stable summation, without the constant
// offset.
func (h *Heuristic) objectiveValue(solution []float64) float64 {
	var sum numeric.StableSum
	obj := h.problem.Objective().Coefficients
	for j, v := range solution {
		sum.AddProduct(obj[j], v)
	}

	return sum.Get()
}

// withTimeLimit derives the cooperative deadline of one call.
func (h *Heuristic) withTimeLimit(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.opts.TimeLimit)
}

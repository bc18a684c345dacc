package fixapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/volfix/fixprop"
	"github.com/katalvlaran/volfix/heuristic"
	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/parse"
)

var (
	// ErrUnknownHandle indicates a handle that was never issued or was
	// already deleted.
	ErrUnknownHandle = errors.New("fixapi: unknown handle")
	// ErrUnsupportedFormat indicates an instance file with an unknown
	// extension.
	ErrUnsupportedFormat = errors.New("fixapi: unsupported instance format")
	// ErrDimensionMismatch indicates a solution buffer whose length does
	// not match the problem.
	ErrDimensionMismatch = errors.New("fixapi: buffer length does not match column count")
)

// Handle identifies one problem instance in the registry.
type Handle int64

// InfeasibleCopyStrategy selects which candidate vector is copied out when
// no dive is feasible.  Accepted for interface compatibility and recorded
// on the instance; the reduction itself never copies infeasible vectors.
type InfeasibleCopyStrategy int

const (
	// CopyNothing leaves the output untouched on failure.
	CopyNothing InfeasibleCopyStrategy = iota
	// CopyBestEffort is recorded on the instance; CallAlgorithm leaves the
	// output untouched on failure, as with CopyNothing.
	CopyBestEffort
)

// CallOptions carries the per-call knobs of CallAlgorithm.
type CallOptions struct {
	// InfeasibleCopy selects the failure copy-out behavior.
	InfeasibleCopy InfeasibleCopyStrategy
	// ApplyConflicts requests conflict constraints to be collected.
	// Recorded; conflict analysis is not performed by this engine.
	ApplyConflicts bool
	// ConstraintBundleSize batches collected conflicts.  Recorded.
	ConstraintBundleSize int
	// MaxBacktracks caps backtracking per dive; 0 or negative: unlimited.
	MaxBacktracks int
	// OneOpt selects the improvement pass.
	OneOpt heuristic.OneOptMode
	// RemainingTime bounds the call.
	RemainingTime time.Duration
}

// instance is everything a handle owns.
type instance struct {
	problem *mip.Problem
	heur    *heuristic.Heuristic
	num     numeric.Num
	log     *logrus.Logger

	addCutoff bool
	opts      CallOptions
}

var (
	mu       sync.Mutex
	registry = map[Handle]*instance{}
	next     Handle
)

// Setup parses the instance at filename and returns a handle to a fresh
// engine around it.  Verbosity maps onto logrus levels (0 silent, 1 info,
// 2+ debug).  addCutoffConstraint is recorded for callers that bound the
// objective externally.
func Setup(filename string, verbosity int, addCutoffConstraint bool) (Handle, error) {
	problem, err := load(filename)
	if err != nil {
		return 0, err
	}

	log := logrus.New()
	switch {
	case verbosity <= 0:
		log.SetOutput(io.Discard)
	case verbosity == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.DebugLevel)
	}

	num := numeric.Default()
	inst := &instance{
		problem:   problem,
		num:       num,
		log:       log,
		addCutoff: addCutoffConstraint,
		heur:      heuristic.New(num, problem, heuristic.Options{Log: log}),
	}

	mu.Lock()
	defer mu.Unlock()
	next++
	registry[next] = inst

	return next, nil
}

// CallAlgorithm runs fix-and-propagate (and the configured one-opt pass)
// on contSolution, writing the best integer solution into out and the
// objective into currentObjValue when a strictly better solution is
// found.  Reports whether the incumbent improved.
func CallAlgorithm(
	h Handle,
	contSolution []float64,
	out []float64,
	currentObjValue *float64,
	opts CallOptions,
) (bool, error) {
	inst, err := lookup(h)
	if err != nil {
		return false, err
	}
	if len(contSolution) != inst.problem.NCols() || len(out) != inst.problem.NCols() {
		return false, fmt.Errorf("%w: want %d", ErrDimensionMismatch, inst.problem.NCols())
	}
	inst.opts = opts
	inst.heur.SetMaxBacktracks(opts.MaxBacktracks)
	inst.heur.SetOneOptMode(opts.OneOpt)

	ctx, cancel := callContext(opts.RemainingTime)
	defer cancel()

	best := append([]float64(nil), out...)
	if !hasIncumbent(currentObjValue) {
		best = best[:0]
	}
	found := inst.heur.PerformFixAndPropagate(ctx, contSolution, currentObjValue, &best)
	if found {
		copy(out, best)
	}

	return found, nil
}

// PerformOneOpt runs the improvement pass on sol in place, updating
// currentObjValue.
func PerformOneOpt(
	h Handle,
	sol []float64,
	mode heuristic.OneOptMode,
	currentObjValue *float64,
	remainingTime time.Duration,
) error {
	inst, err := lookup(h)
	if err != nil {
		return err
	}
	if len(sol) != inst.problem.NCols() {
		return fmt.Errorf("%w: want %d", ErrDimensionMismatch, inst.problem.NCols())
	}
	if mode == heuristic.OneOptOff {
		return nil
	}

	ctx, cancel := callContext(remainingTime)
	defer cancel()

	inst.heur.SetOneOptMode(mode)
	*currentObjValue = inst.heur.PerformOneOpt(ctx, sol)

	return nil
}

// CallSimpleHeuristic runs the bound-driven initial-solution search and
// writes the result into out on success.
func CallSimpleHeuristic(h Handle, out []float64, currentObjValue *float64) (bool, error) {
	inst, err := lookup(h)
	if err != nil {
		return false, err
	}
	if len(out) != inst.problem.NCols() {
		return false, fmt.Errorf("%w: want %d", ErrDimensionMismatch, inst.problem.NCols())
	}

	var best []float64
	found := inst.heur.FindInitialSolution(fixprop.InitialLowerBound, currentObjValue, &best)
	if found {
		copy(out, best)
	}

	return found, nil
}

// DeleteProblemInstance releases the handle and everything it owns.
func DeleteProblemInstance(h Handle) {
	mu.Lock()
	defer mu.Unlock()
	delete(registry, h)
}

func lookup(h Handle) (*instance, error) {
	mu.Lock()
	defer mu.Unlock()
	inst, ok := registry[h]
	if !ok {
		return nil, ErrUnknownHandle
	}

	return inst, nil
}

// load dispatches on the file extension.
func load(filename string) (*mip.Problem, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mps":
		return parse.MPS(filename)
	case ".opb", ".pbo":
		return parse.PBO(filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func callContext(remaining time.Duration) (context.Context, context.CancelFunc) {
	if remaining > 0 {
		return context.WithTimeout(context.Background(), remaining)
	}

	return context.WithCancel(context.Background())
}

// hasIncumbent reports whether the caller's objective value denotes an
// existing solution rather than the "no incumbent" sentinel.
func hasIncumbent(objValue *float64) bool {
	return objValue != nil && !numeric.Default().IsHuge(*objValue)
}

// Command volfix reads a MILP instance, runs the Volume Algorithm on its
// reformulation and dives the resulting estimate with the parallel
// fix-and-propagate heuristic, reporting the best integer solution found.
//
// Exit code 0 means a normal run (the incumbent may or may not have been
// improved); exit code 1 means a setup or parse error.  Progress goes to
// stdout, errors to stderr.
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/volfix/heuristic"
	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/parse"
	"github.com/katalvlaran/volfix/volume"
)

type solveConfig struct {
	timeLimit     time.Duration
	threads       int
	seed          int64
	verbosity     int
	oneOpt        int
	maxBacktracks int
	settingsFile  string
	hardThreshold float64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "volfix",
		Short:         "primal heuristic engine for mixed-integer linear programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSolveCmd())

	return root
}

func newSolveCmd() *cobra.Command {
	cfg := solveConfig{}

	cmd := &cobra.Command{
		Use:   "solve <instance>",
		Short: "search a feasible integer solution for an MPS or PBO instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadSettings(&cfg); err != nil {
				return err
			}
			return solve(cmd, args[0], cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeLimit, "time-limit", volume.DefaultTimeLimit,
		"wall-clock limit for the whole run")
	cmd.Flags().IntVar(&cfg.threads, "threads", heuristic.DefaultThreads,
		"number of parallel diving workers")
	cmd.Flags().Int64Var(&cfg.seed, "seed", 0,
		"seed of the random rounding strategy")
	cmd.Flags().IntVarP(&cfg.verbosity, "verbosity", "v", 1,
		"0 = quiet, 1 = progress, 2 = debug")
	cmd.Flags().IntVar(&cfg.oneOpt, "one-opt", int(heuristic.OneOptPropagate),
		"one-opt mode: 0 = off, 1 = feasibility check, 2 = with propagation")
	cmd.Flags().IntVar(&cfg.maxBacktracks, "max-backtracks", 0,
		"backtrack cap per dive (0 = unlimited)")
	cmd.Flags().Float64Var(&cfg.hardThreshold, "hard-constraint-threshold", 0,
		"drop rows whose coefficient ratio exceeds this before the volume phase (0 = off)")
	cmd.Flags().StringVar(&cfg.settingsFile, "settings", "",
		"settings file (YAML/TOML) overriding the defaults")

	return cmd
}

// loadSettings merges an optional settings file into cfg via viper.
func loadSettings(cfg *solveConfig) error {
	if cfg.settingsFile == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(cfg.settingsFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	if v.IsSet("time_limit") {
		cfg.timeLimit = v.GetDuration("time_limit")
	}
	if v.IsSet("threads") {
		cfg.threads = v.GetInt("threads")
	}
	if v.IsSet("seed") {
		cfg.seed = v.GetInt64("seed")
	}
	if v.IsSet("one_opt") {
		cfg.oneOpt = v.GetInt("one_opt")
	}
	if v.IsSet("max_backtracks") {
		cfg.maxBacktracks = v.GetInt("max_backtracks")
	}
	if v.IsSet("hard_constraint_threshold") {
		cfg.hardThreshold = v.GetFloat64("hard_constraint_threshold")
	}

	return nil
}

func solve(cmd *cobra.Command, path string, cfg solveConfig) error {
	num := numeric.Default()
	log := newLogger(cmd.OutOrStdout(), cfg.verbosity)

	start := time.Now()
	problem, err := loadInstance(path)
	if err != nil {
		return err
	}
	log.Infof("read %s: %d rows, %d cols (%.3fs)",
		problem.Name(), problem.NRows(), problem.NCols(), time.Since(start).Seconds())

	volProblem := problem
	if cfg.hardThreshold > 0 {
		volProblem, err = dropHardConstraints(problem, cfg.hardThreshold, num)
		if err != nil {
			return err
		}
		log.Infof("hard-constraint filter kept %d of %d rows",
			volProblem.NRows(), problem.NRows())
	}

	reformulated, err := mip.Reformulate(volProblem)
	if err != nil {
		return err
	}
	upperBound, err := mip.ObjectiveBound(volProblem, num)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeLimit)
	defer cancel()

	params := volume.DefaultParameters()
	params.TimeLimit = cfg.timeLimit
	alg := volume.New(num, log, params)
	res := alg.Solve(ctx,
		reformulated.Objective().Coefficients,
		reformulated.ConstraintMatrix(),
		reformulated.ConstraintMatrix().LeftHandSides(),
		reformulated.VariableDomains(),
		make([]float64, reformulated.NRows()),
		reformulated.NumIntegerCols(),
		upperBound)

	heur := heuristic.New(num, problem, heuristic.Options{
		Threads:       cfg.threads,
		TimeLimit:     cfg.timeLimit,
		Seed:          cfg.seed,
		MaxBacktracks: cfg.maxBacktracks,
		OneOpt:        heuristic.OneOptMode(cfg.oneOpt),
		Log:           log,
	})
	heur.SetDuals(res.Duals)

	bestObj := math.Inf(1)
	var best []float64
	found := heur.PerformFixAndPropagate(ctx, res.XBar, &bestObj, &best)

	out := cmd.OutOrStdout()
	if !found {
		fmt.Fprintln(out, "no feasible integer solution found")
		return nil
	}
	fmt.Fprintf(out, "objective %g (lower bound %g)\n",
		bestObj+problem.Objective().Offset, res.ZBar+problem.Objective().Offset)
	for j, v := range best {
		if num.IsZero(v) {
			continue
		}
		name := problem.ColName(j)
		if name == "" {
			name = fmt.Sprintf("x%d", j+1)
		}
		fmt.Fprintf(out, "  %s = %g\n", name, v)
	}

	return nil
}

func loadInstance(path string) (*mip.Problem, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mps":
		return parse.MPS(path)
	case ".opb", ".pbo":
		return parse.PBO(path)
	default:
		return nil, fmt.Errorf("unsupported instance format: %s", path)
	}
}

// dropHardConstraints rebuilds the problem without rows whose
// max/min absolute coefficient ratio exceeds threshold.
func dropHardConstraints(p *mip.Problem, threshold float64, num numeric.Num) (*mip.Problem, error) {
	m := p.ConstraintMatrix()

	keep := make([]bool, p.NRows())
	nnz, nRows := 0, 0
	for r := 0; r < p.NRows(); r++ {
		row := m.RowCoefficients(r)
		minAbs, maxAbs := math.Inf(1), 0.0
		for _, v := range row.Values {
			a := math.Abs(v)
			minAbs = math.Min(minAbs, a)
			maxAbs = math.Max(maxAbs, a)
		}
		if row.Len() > 0 && num.IsGT(maxAbs/minAbs, threshold) {
			continue
		}
		keep[r] = true
		nnz += row.Len()
		nRows++
	}
	if nRows == p.NRows() {
		return p, nil
	}

	b := mip.NewProblemBuilder()
	b.Reserve(nnz, nRows, p.NCols())
	b.SetProblemName(p.Name())
	b.SetObjOffset(p.Objective().Offset)
	for c := 0; c < p.NCols(); c++ {
		flags := p.ColFlags()[c]
		b.SetColLb(c, p.LowerBounds()[c])
		b.SetColUb(c, p.UpperBounds()[c])
		b.SetColLbInf(c, flags.Has(mip.ColLbInf))
		b.SetColUbInf(c, flags.Has(mip.ColUbInf))
		b.SetColIntegral(c, flags.Has(mip.ColIntegral))
		b.SetObj(c, p.Objective().Coefficients[c])
		b.SetColName(c, p.ColName(c))
	}
	counter := 0
	for r := 0; r < p.NRows(); r++ {
		if !keep[r] {
			continue
		}
		row := m.RowCoefficients(r)
		b.AddRowEntries(counter, row.Indices, row.Values)
		flags := m.RowFlags()[r]
		if !flags.Has(mip.RowLhsInf) {
			b.SetRowLhs(counter, m.LeftHandSides()[r])
		}
		if !flags.Has(mip.RowRhsInf) {
			b.SetRowRhs(counter, m.RightHandSides()[r])
		}
		b.SetRowName(counter, p.RowName(r))
		counter++
	}

	return b.Build()
}

func newLogger(out io.Writer, verbosity int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case verbosity <= 0:
		log.SetOutput(io.Discard)
	case verbosity == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

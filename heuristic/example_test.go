package heuristic_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/volfix/heuristic"
	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
)

// ExampleHeuristic_PerformFixAndPropagate rounds a fractional estimate of
// a small covering problem into its cheapest integer solution.
func ExampleHeuristic_PerformFixAndPropagate() {
	b := mip.NewProblemBuilder()
	b.Reserve(3, 1, 3)
	b.SetObjAll([]float64{2, 3, 1})
	b.SetColLbAll([]float64{0, 0, 0})
	b.SetColUbAll([]float64{1, 1, 1})
	b.SetColIntegralAll([]bool{true, true, true})
	b.SetRowLhs(0, 2) // x1 + x2 + x3 ≥ 2
	b.AddEntry(0, 0, 1)
	b.AddEntry(0, 1, 1)
	b.AddEntry(0, 2, 1)
	problem, _ := b.Build()

	h := heuristic.New(numeric.Default(), problem, heuristic.Options{Seed: 1})

	bestObj := 0.0
	var best []float64
	found := h.PerformFixAndPropagate(context.Background(),
		[]float64{0.5, 0.1, 0.9}, &bestObj, &best)

	fmt.Println(found, bestObj, best)
	// Output: true 3 [1 0 1]
}

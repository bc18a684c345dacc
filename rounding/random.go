package rounding

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/volfix/numeric"
	"github.com/katalvlaran/volfix/probing"
)

// Random picks a uniformly random unfixed integral column and rounds its
// estimate up with probability equal to its fractional part.  Fully
// deterministic for a fixed seed.
type Random struct {
	num numeric.Num
	rng *rand.Rand
}

// NewRandom returns a random rounding strategy seeded with seed.
func NewRandom(num numeric.Num, seed int64) *Random {
	return &Random{num: num, rng: rand.New(rand.NewSource(seed))}
}

// Name implements Strategy.
func (s *Random) Name() string { return "random" }

// SelectRoundingVariable implements Strategy.
func (s *Random) SelectRoundingVariable(solution []float64, view *probing.View) probing.Fixing {
	var candidates []int
	for j := range solution {
		if needsRounding(view, solution, j) {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return probing.InvalidFixing
	}

	j := candidates[s.rng.Intn(len(candidates))]
	frac := solution[j] - math.Floor(solution[j])

	var v float64
	if s.rng.Float64() < frac {
		v = s.num.FeasCeil(solution[j])
	} else {
		v = s.num.FeasFloor(solution[j])
	}

	return probing.Fixing{Column: j, Value: clampToDomain(view, s.num, j, v)}
}

package numeric

import "math"

// StableSum accumulates float64 terms with Kahan–Neumaier compensation,
// bounding the cancellation error independently of the order in which
// terms arrive.
//
// Every dot product and objective evaluation in the engine must go through
// a StableSum rather than a bare `+=` loop.
//
// The zero value is an empty sum ready for use:
//
//	var sum StableSum
//	sum.Add(1e16)
//	sum.Add(1.0)
//	sum.Add(-1e16)
//	_ = sum.Get() // 1.0
type StableSum struct {
	sum          float64
	compensation float64
}

// Add accumulates v into the sum.
func (s *StableSum) Add(v float64) {
	t := s.sum + v
	if math.Abs(s.sum) >= math.Abs(v) {
		// low-order digits of v were lost
		s.compensation += (s.sum - t) + v
	} else {
		// low-order digits of s.sum were lost
		s.compensation += (v - t) + s.sum
	}
	s.sum = t
}

// AddProduct accumulates a*b into the sum.
func (s *StableSum) AddProduct(a, b float64) {
	s.Add(a * b)
}

// Get returns the compensated total.  The accumulator stays usable; further
// Add calls continue the same sum.
func (s *StableSum) Get() float64 {
	return s.sum + s.compensation
}

// Reset discards all accumulated terms.
func (s *StableSum) Reset() {
	s.sum = 0
	s.compensation = 0
}

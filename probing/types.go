package probing

// Fixing assigns one column to a concrete value.  The invalid sentinel
// (negative column) signals "no more variables to round".
type Fixing struct {
	Column int
	Value  float64
}

// InvalidFixing is the sentinel returned by rounding strategies once every
// integral column is integer-valued.
var InvalidFixing = Fixing{Column: -1}

// IsInvalid reports whether f is the sentinel.
func (f Fixing) IsInvalid() bool { return f.Column < 0 }

// DecisionReason marks a bound change issued by the diver rather than
// implied by a row.
const DecisionReason = -1

// SingleBoundChange records one bound tightening for conflict analysis.
type SingleBoundChange struct {
	// Column is the tightened column.
	Column int
	// NewValue is the new bound value.
	NewValue float64
	// ReasonRow is the propagating row, or DecisionReason for a decision.
	ReasonRow int
	// IsLowerBound reports a lower-bound tightening.
	IsLowerBound bool
	// IsUpperBound reports an upper-bound tightening.
	IsUpperBound bool
	// Depth is the decision depth at which the change happened.  It is
	// monotone non-decreasing along the trail, incremented per decision.
	Depth int
}

// IsDecision reports whether the change is a branching decision.
func (c SingleBoundChange) IsDecision() bool { return c.ReasonRow == DecisionReason }

// maxPropagationSweeps caps the number of full row sweeps per
// PropagateDomains call.
const maxPropagationSweeps = 100

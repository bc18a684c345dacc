package volume

import "time"

// Default parameter values of the Volume Algorithm.
const (
	DefaultTimeLimit                = 10 * time.Minute
	DefaultAlpha                    = 0.5
	DefaultAlphaMax                 = 0.1
	DefaultF                        = 0.2
	DefaultFMin                     = 0.0005
	DefaultFMax                     = 2.0
	DefaultFStrongIncrFactor        = 2.0
	DefaultFWeakIncrFactor          = 1.1
	DefaultFDecrFactor              = 0.66
	DefaultObjRelTol                = 0.01
	DefaultObjAbsTol                = 0.01
	DefaultConAbsTol                = 0.02
	DefaultWeakImprovementIterLimit = 2
	DefaultNonImprovementIterLimit  = 20
	DefaultMaxIterations            = 1000
	DefaultFixedIntVarThreshold     = 0.8
	DefaultFixedIntVarIterCheck     = 50
	DefaultThresholdHardConstraints = 1.0

	// alphaMaxFloor is the smallest value α_max is ever halved down to.
	alphaMaxFloor = 1e-4
)

// Parameters configures one Solve call.  Zero values are replaced by the
// defaults in normalize, so a literal with only a few fields set is fine.
type Parameters struct {
	// TimeLimit bounds the wall-clock time of Solve.
	TimeLimit time.Duration
	// Alpha is the initial smoothing weight of the primal average.
	Alpha float64
	// AlphaMax is the upper bound of the adaptive smoothing weight.
	AlphaMax float64
	// F is the initial step-scaling factor.
	F float64
	// FMin and FMax clamp the step-scaling factor.
	FMin float64
	FMax float64
	// FStrongIncrFactor multiplies f on green iterations.
	FStrongIncrFactor float64
	// FWeakIncrFactor multiplies f after a run of yellow iterations.
	FWeakIncrFactor float64
	// FDecrFactor multiplies f after a run of red iterations.
	FDecrFactor float64
	// ObjRelTol is the relative duality-gap tolerance.
	ObjRelTol float64
	// ObjAbsTol is the absolute duality-gap tolerance used when z̄ ≈ 0.
	ObjAbsTol float64
	// ConAbsTol is the average primal-feasibility tolerance per row.
	ConAbsTol float64
	// WeakImprovementIterLimit is the yellow-run length that triggers a
	// weak f increase.
	WeakImprovementIterLimit int
	// NonImprovementIterLimit is the red-run length that triggers an f
	// decrease.
	NonImprovementIterLimit int
	// MaxIterations bounds the number of rounds.
	MaxIterations int
	// FixedIntVarThreshold is the fraction of integer variables that must
	// be integral-valued and unchanged to stop early.
	FixedIntVarThreshold float64
	// FixedIntVarIterCheck is the stability window (in rounds) a variable
	// must survive to count towards the threshold.
	FixedIntVarIterCheck int
	// ThresholdHardConstraints is the coefficient-ratio filter applied by
	// the caller before Solve; the algorithm itself never reads it.
	ThresholdHardConstraints float64
}

// DefaultParameters returns the engine defaults.
func DefaultParameters() Parameters {
	return Parameters{
		TimeLimit:                DefaultTimeLimit,
		Alpha:                    DefaultAlpha,
		AlphaMax:                 DefaultAlphaMax,
		F:                        DefaultF,
		FMin:                     DefaultFMin,
		FMax:                     DefaultFMax,
		FStrongIncrFactor:        DefaultFStrongIncrFactor,
		FWeakIncrFactor:          DefaultFWeakIncrFactor,
		FDecrFactor:              DefaultFDecrFactor,
		ObjRelTol:                DefaultObjRelTol,
		ObjAbsTol:                DefaultObjAbsTol,
		ConAbsTol:                DefaultConAbsTol,
		WeakImprovementIterLimit: DefaultWeakImprovementIterLimit,
		NonImprovementIterLimit:  DefaultNonImprovementIterLimit,
		MaxIterations:            DefaultMaxIterations,
		FixedIntVarThreshold:     DefaultFixedIntVarThreshold,
		FixedIntVarIterCheck:     DefaultFixedIntVarIterCheck,
		ThresholdHardConstraints: DefaultThresholdHardConstraints,
	}
}

// normalize substitutes defaults for zero values.
func (p *Parameters) normalize() {
	def := DefaultParameters()
	if p.TimeLimit <= 0 {
		p.TimeLimit = def.TimeLimit
	}
	if p.Alpha == 0 {
		p.Alpha = def.Alpha
	}
	if p.AlphaMax == 0 {
		p.AlphaMax = def.AlphaMax
	}
	if p.F == 0 {
		p.F = def.F
	}
	if p.FMin == 0 {
		p.FMin = def.FMin
	}
	if p.FMax == 0 {
		p.FMax = def.FMax
	}
	if p.FStrongIncrFactor == 0 {
		p.FStrongIncrFactor = def.FStrongIncrFactor
	}
	if p.FWeakIncrFactor == 0 {
		p.FWeakIncrFactor = def.FWeakIncrFactor
	}
	if p.FDecrFactor == 0 {
		p.FDecrFactor = def.FDecrFactor
	}
	if p.ObjRelTol == 0 {
		p.ObjRelTol = def.ObjRelTol
	}
	if p.ObjAbsTol == 0 {
		p.ObjAbsTol = def.ObjAbsTol
	}
	if p.ConAbsTol == 0 {
		p.ConAbsTol = def.ConAbsTol
	}
	if p.WeakImprovementIterLimit == 0 {
		p.WeakImprovementIterLimit = def.WeakImprovementIterLimit
	}
	if p.NonImprovementIterLimit == 0 {
		p.NonImprovementIterLimit = def.NonImprovementIterLimit
	}
	if p.MaxIterations == 0 {
		p.MaxIterations = def.MaxIterations
	}
	if p.FixedIntVarThreshold == 0 {
		p.FixedIntVarThreshold = def.FixedIntVarThreshold
	}
	if p.FixedIntVarIterCheck == 0 {
		p.FixedIntVarIterCheck = def.FixedIntVarIterCheck
	}
	if p.ThresholdHardConstraints == 0 {
		p.ThresholdHardConstraints = def.ThresholdHardConstraints
	}
}

// Result is the outcome of one Solve call.
type Result struct {
	// XBar is the smoothed primal estimate.
	XBar []float64
	// Duals is the accepted dual iterate π̄.
	Duals []float64
	// ZBar is the smoothed lower bound.
	ZBar float64
	// Iterations is the final value of the round counter, which starts at
	// 1: one more than the number of rounds performed.
	Iterations int
}

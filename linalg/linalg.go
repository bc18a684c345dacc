package linalg

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/numeric"
)

// BMinusAx writes the residual out = b − A·x, one stable sum per row.
// out must have length A.NRows(); it may alias b but not x.
func BMinusAx(a *mip.ConstraintMatrix, x, b, out []float64) {
	for r := 0; r < a.NRows(); r++ {
		row := a.RowCoefficients(r)
		var sum numeric.StableSum
		sum.Add(b[r])
		for k, c := range row.Indices {
			sum.AddProduct(-row.Values[k], x[c])
		}
		out[r] = sum.Get()
	}
}

// AxMinusB writes out = A·x − b, one stable sum per row.
func AxMinusB(a *mip.ConstraintMatrix, x, b, out []float64) {
	for r := 0; r < a.NRows(); r++ {
		row := a.RowCoefficients(r)
		var sum numeric.StableSum
		sum.Add(-b[r])
		for k, c := range row.Indices {
			sum.AddProduct(row.Values[k], x[c])
		}
		out[r] = sum.Get()
	}
}

// BMinusXA writes the reduced-cost vector out = c − πᵀA, one stable sum
// per column.  out must have length A.NCols(); it may alias c but not pi.
func BMinusXA(a *mip.ConstraintMatrix, pi, c, out []float64) {
	for j := 0; j < a.NCols(); j++ {
		col := a.ColCoefficients(j)
		var sum numeric.StableSum
		sum.Add(c[j])
		for k, r := range col.Indices {
			sum.AddProduct(-col.Values[k], pi[r])
		}
		out[j] = sum.Get()
	}
}

// BPlusSx writes out = b + s·x.  out may alias b.
func BPlusSx(b []float64, s float64, x, out []float64) {
	floats.AddScaledTo(out, b, s, x)
}

// QBPlusSx writes out = q·b + s·x.  out may alias b or x; the kernel is
// written elementwise so either aliasing is safe.
func QBPlusSx(q float64, b []float64, s float64, x, out []float64) {
	for i := range out {
		out[i] = q*b[i] + s*x[i]
	}
}

// Multi returns the dot product u·v via stable summation.
func Multi(u, v []float64) float64 {
	var sum numeric.StableSum
	for i := range u {
		sum.AddProduct(u[i], v[i])
	}

	return sum.Get()
}

// L1Norm returns Σ|v_i| via stable summation.
func L1Norm(v []float64) float64 {
	var sum numeric.StableSum
	for _, x := range v {
		sum.Add(math.Abs(x))
	}

	return sum.Get()
}

// L2Norm returns the Euclidean norm of v via stable summation of squares.
func L2Norm(v []float64) float64 {
	var sum numeric.StableSum
	for _, x := range v {
		sum.AddProduct(x, x)
	}

	return math.Sqrt(sum.Get())
}

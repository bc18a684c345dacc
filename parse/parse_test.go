package parse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/volfix/mip"
	"github.com/katalvlaran/volfix/parse"
)

const sampleMPS = `NAME          TESTPROB
ROWS
 N  COST
 L  LIM1
 G  LIM2
 E  MYEQN
COLUMNS
    X1        COST         1.0   LIM1         1.0
    X1        LIM2         1.0
    MARKER                 'MARKER'                 'INTORG'
    X2        COST         2.0   LIM1         1.0
    X2        MYEQN       -1.0
    MARKER                 'MARKER'                 'INTEND'
    X3        COST        -1.0   MYEQN        1.0
RHS
    RHS       LIM1         4.0   LIM2         1.0
    RHS       MYEQN        7.0
BOUNDS
 UP BND       X1           4.0
 LO BND       X2          -1.0
ENDATA
`

// TestMPSSections verifies rows, columns, sides, bounds and integrality.
func TestMPSSections(t *testing.T) {
	p, err := parse.MPSFrom(strings.NewReader(sampleMPS), "testprob")
	require.NoError(t, err)

	require.Equal(t, "TESTPROB", p.Name())
	require.Equal(t, 3, p.NRows())
	require.Equal(t, 3, p.NCols())

	require.Equal(t, []float64{1, 2, -1}, p.Objective().Coefficients)

	m := p.ConstraintMatrix()
	// LIM1 is a ≤-row at 4
	require.True(t, m.RowFlags()[0].Has(mip.RowLhsInf))
	require.Equal(t, 4.0, m.RightHandSides()[0])
	// LIM2 is a ≥-row at 1
	require.True(t, m.RowFlags()[1].Has(mip.RowRhsInf))
	require.Equal(t, 1.0, m.LeftHandSides()[1])
	// MYEQN is an equation at 7
	require.True(t, m.RowFlags()[2].Has(mip.RowEquation))
	require.Equal(t, 7.0, m.LeftHandSides()[2])
	require.Equal(t, 7.0, m.RightHandSides()[2])

	// X2 is integral through the marker pair, X1 and X3 are not
	require.False(t, p.ColFlags()[0].Has(mip.ColIntegral))
	require.True(t, p.ColFlags()[1].Has(mip.ColIntegral))
	require.False(t, p.ColFlags()[2].Has(mip.ColIntegral))

	require.Equal(t, 4.0, p.UpperBounds()[0])
	require.Equal(t, -1.0, p.LowerBounds()[1])
	require.True(t, p.ColFlags()[2].Has(mip.ColUbInf))

	// matrix entries survive in row-major order
	require.Equal(t, []float64{1, 1}, m.RowCoefficients(0).Values)
	require.Equal(t, []float64{-1, 1}, m.RowCoefficients(2).Values)
}

// TestMPSRanges verifies the RANGES section on each row kind.
func TestMPSRanges(t *testing.T) {
	src := `NAME RANGED
ROWS
 N  OBJ
 L  R1
 G  R2
COLUMNS
    X1        OBJ          1.0   R1           1.0
    X1        R2           1.0
RHS
    RHS       R1           8.0   R2           2.0
RANGES
    RNG       R1           3.0   R2           5.0
ENDATA
`
	p, err := parse.MPSFrom(strings.NewReader(src), "ranged")
	require.NoError(t, err)

	m := p.ConstraintMatrix()
	require.Equal(t, 5.0, m.LeftHandSides()[0])
	require.Equal(t, 8.0, m.RightHandSides()[0])
	require.Equal(t, 2.0, m.LeftHandSides()[1])
	require.Equal(t, 7.0, m.RightHandSides()[1])
}

// TestMPSSyntaxError verifies that malformed input wraps ErrSyntax.
func TestMPSSyntaxError(t *testing.T) {
	src := "ROWS\n X  BAD\nENDATA\n"
	_, err := parse.MPSFrom(strings.NewReader(src), "bad")
	require.ErrorIs(t, err, parse.ErrSyntax)
}

const samplePBO = `* a tiny pseudo-Boolean instance
min: +1 x1 +2 x2 -3 ~x3 ;
+1 x1 +1 x2 >= 1 ;
+2 x1 -1 ~x2 +1 x3 = 2 ;
`

// TestPBOExpandsNegatedLiterals verifies the `~x` expansion into negated
// coefficients and side offsets, and the binary integral defaults.
func TestPBOExpandsNegatedLiterals(t *testing.T) {
	p, err := parse.PBOFrom(strings.NewReader(samplePBO), "tiny")
	require.NoError(t, err)

	require.Equal(t, 2, p.NRows())
	require.Equal(t, 3, p.NCols())

	// objective: 1·x1 + 2·x2 − 3·(1−x3) = 1·x1 + 2·x2 + 3·x3 − 3
	require.Equal(t, []float64{1, 2, 3}, p.Objective().Coefficients)
	require.Equal(t, -3.0, p.Objective().Offset)

	for c := 0; c < 3; c++ {
		require.True(t, p.ColFlags()[c].Has(mip.ColIntegral))
		require.Equal(t, 0.0, p.LowerBounds()[c])
		require.Equal(t, 1.0, p.UpperBounds()[c])
	}

	m := p.ConstraintMatrix()
	// row 0: x1 + x2 ≥ 1
	require.True(t, m.RowFlags()[0].Has(mip.RowRhsInf))
	require.Equal(t, 1.0, m.LeftHandSides()[0])
	// row 1: 2·x1 − (1 − x2) + x3 = 2  ⇒  2·x1 + x2 + x3 = 3
	require.True(t, m.RowFlags()[1].Has(mip.RowEquation))
	require.Equal(t, 3.0, m.LeftHandSides()[1])
	require.Equal(t, []float64{2, 1, 1}, m.RowCoefficients(1).Values)
}

// TestPBORequiresObjectiveFirst verifies the format contract.
func TestPBORequiresObjectiveFirst(t *testing.T) {
	_, err := parse.PBOFrom(strings.NewReader("+1 x1 >= 1 ;\n"), "bad")
	require.ErrorIs(t, err, parse.ErrSyntax)
}

// TestPBOMissingSemicolon verifies line termination checking.
func TestPBOMissingSemicolon(t *testing.T) {
	_, err := parse.PBOFrom(strings.NewReader("min: +1 x1\n"), "bad")
	require.ErrorIs(t, err, parse.ErrSyntax)
}

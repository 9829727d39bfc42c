package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnnydotdev/zokrates-go/analysis"
	coreerrors "github.com/johnnydotdev/zokrates-go/errors"
	"github.com/johnnydotdev/zokrates-go/ir"
	"github.com/johnnydotdev/zokrates-go/ir/bn254"
	"github.com/johnnydotdev/zokrates-go/solver"
)

// TestUnconstrainedDetection covers a private argument that never appears
// in any constraint being reported, with a message containing "found 1
// occurrence".
func TestUnconstrainedDetection(t *testing.T) {
	f := bn254.Field{}
	const privateArg, out0 ir.Variable = 1, 2

	prog := ir.Prog{Main: ir.Function{
		Arguments: []ir.Parameter{{ID: privateArg, Private: true}},
		Statements: []ir.Statement{
			ir.NewConstraint(ir.FromLinComb(f, ir.Constant(f, f.FromUint64(42))), ir.FromVariable(f, out0), ""),
		},
		Returns: []ir.Variable{out0},
	}}

	n, ok := analysis.Check(prog)
	require.False(t, ok)
	require.Equal(t, 1, n)

	err := coreerrors.AnalysisError{Path: "test.zok", Count: n}
	require.Contains(t, err.Error(), "found 1 occurrence")
}

func TestNoUnconstrainedWhenEveryPrivateArgumentIsUsed(t *testing.T) {
	f := bn254.Field{}
	const x ir.Variable = 1

	prog := ir.Prog{Main: ir.Function{
		Arguments: []ir.Parameter{{ID: x, Private: true}},
		Statements: []ir.Statement{
			ir.NewConstraint(ir.NewQuadComb(ir.FromVariable(f, x), ir.FromVariable(f, x)), ir.FromVariable(f, x), ""),
		},
		Returns: []ir.Variable{x},
	}}

	n, ok := analysis.Check(prog)
	require.True(t, ok)
	require.Zero(t, n)
}

func TestPublicArgumentIsNeverASuspect(t *testing.T) {
	f := bn254.Field{}
	const x ir.Variable = 1

	prog := ir.Prog{Main: ir.Function{
		Arguments: []ir.Parameter{{ID: x, Private: false}},
		Returns:   []ir.Variable{x},
	}}

	n, ok := analysis.Check(prog)
	require.True(t, ok)
	require.Zero(t, n)
}

// TestDirectiveOutputClearedOnlyByConstraint exercises a subtlety:
// a directive's outputs are suspects even though the directive's own
// inputs reference other variables; only a later Constraint's use of the
// output clears it.
func TestDirectiveOutputClearedOnlyByConstraint(t *testing.T) {
	f := bn254.Field{}
	const x, isZero, inv ir.Variable = 1, 2, 3

	directiveOnly := ir.Prog{Main: ir.Function{
		Arguments: []ir.Parameter{{ID: x, Private: true}},
		Statements: []ir.Statement{
			ir.Directive{
				Inputs:  []ir.QuadComb{ir.FromLinComb(f, ir.FromVariable(f, x))},
				Outputs: []ir.Variable{isZero, inv},
				Solver:  solver.ConditionEq{},
			},
			ir.NewConstraint(ir.NewQuadComb(ir.FromVariable(f, x), ir.FromVariable(f, inv)), ir.Constant(f, f.One()), ""),
		},
	}}

	// isZero is never referenced by a constraint: still a suspect.
	n, ok := analysis.Check(directiveOnly)
	require.False(t, ok)
	require.Equal(t, 1, n)
}

package gadgets

import (
	"math/big"

	"github.com/johnnydotdev/zokrates-go/ir"
	"github.com/johnnydotdev/zokrates-go/solver"
)

// UnpackToBitwidth synthesizes the bit-decomposition gadget: one argument
// (the value), a Bits(width) directive producing width boolean cs
// variables, a booleanity constraint per bit, and a single reconstruction
// constraint tying the weighted sum of bits back to the argument. Bits are
// high-bit first: the first return value o_1 carries weight 2^(width-1).
//
// Variable layout mirrors sha256_round: id 0 is reserved for the global ONE
// wire (unused inside this gadget itself, but left untouched so the
// flattener's remapFolder — which always maps a gadget's local id 0 onto
// the enclosing program's ONE — can't alias it onto a real output bit). The
// width bit variables occupy ids [1, width+1), the argument occupies id
// width+1.
func UnpackToBitwidth(f ir.Field, width int) ir.Function {
	bits := make([]ir.Variable, width)
	for i := 0; i < width; i++ {
		bits[i] = ir.Variable(i + 1)
	}
	argID := ir.Variable(width + 1)

	var statements []ir.Statement
	statements = append(statements, ir.Directive{
		Inputs:  []ir.QuadComb{ir.FromLinComb(f, ir.FromVariable(f, argID))},
		Outputs: bits,
		Solver:  solver.Bits{Width: width},
	})

	for _, b := range bits {
		// b*(1-b) = 0
		quad := ir.NewQuadComb(ir.FromVariable(f, b), ir.Constant(f, f.One()).Add(ir.Summand(f.One().Neg(), b)))
		statements = append(statements, ir.NewConstraint(quad, ir.Zero(), ""))
	}

	// argument = sum_i bits[i] * 2^(width-1-i)
	sum := ir.Zero()
	weight := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
	for i := 0; i < width; i++ {
		sum = sum.Add(ir.Summand(f.FromBigInt(weight), bits[i]))
		weight = new(big.Int).Rsh(weight, 1)
	}
	statements = append(statements, ir.NewConstraint(ir.FromLinComb(f, ir.FromVariable(f, argID)), sum, ""))

	return ir.Function{
		Name:       "unpack_to_bitwidth",
		Arguments:  []ir.Parameter{{ID: argID, Private: true}},
		Statements: statements,
		Returns:    bits,
	}
}


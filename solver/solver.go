// Package solver implements concrete, pure prover-side functions that back
// an ir.Directive: weighted-bit decomposition (Bits), the is-zero/inverse
// pair used for equality (ConditionEq), and plain field inversion (Inverse).
// The SHA-256 compression-round solver lives in package gadgets, next to the
// R1CS wiring it pairs with.
package solver

import (
	"fmt"

	"github.com/johnnydotdev/zokrates-go/ir"
)

// bitSource is implemented by Element types that can report their bit
// decomposition; ir.Element itself stays field-agnostic, so Bits falls back
// to an error for an Element that doesn't support it.
type bitSource interface {
	Bit(i int) uint64
}

// Bits decomposes a single field element into Width bits, high-bit first
// (o_1 is the most significant bit), matching the ordering the
// unpack_to_bitwidth gadget asserts against.
type Bits struct {
	Width int
}

var _ ir.Solver = Bits{}

func (b Bits) Name() string   { return "bits" }
func (b Bits) NumOutputs() int { return b.Width }

func (b Bits) Solve(f ir.Field, inputs []ir.Element) ([]ir.Element, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("solver bits: expected 1 input, got %d", len(inputs))
	}
	src, ok := inputs[0].(bitSource)
	if !ok {
		return nil, fmt.Errorf("solver bits: element type %T does not support bit extraction", inputs[0])
	}
	out := make([]ir.Element, b.Width)
	for i := 0; i < b.Width; i++ {
		// o_1 (out[0]) is the most significant bit: host bit index Width-1-i.
		out[i] = f.FromUint64(src.Bit(b.Width - 1 - i))
	}
	return out, nil
}

// ConditionEq decides whether a field element is zero, returning the pair
// (is_zero_flag, inverse_or_zero): the flag is 1 iff the input is zero, and
// the second output is the input's inverse when nonzero (an arbitrary value,
// conventionally zero, otherwise). This is the classic "inverse trick" used
// to flatten an equality assertion without branching inside the constraint
// system.
type ConditionEq struct{}

var _ ir.Solver = ConditionEq{}

func (ConditionEq) Name() string    { return "condition_eq" }
func (ConditionEq) NumOutputs() int { return 2 }

func (ConditionEq) Solve(f ir.Field, inputs []ir.Element) ([]ir.Element, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("solver condition_eq: expected 1 input, got %d", len(inputs))
	}
	x := inputs[0]
	if x.IsZero() {
		return []ir.Element{f.One(), f.Zero()}, nil
	}
	inv, ok := x.Inverse()
	if !ok {
		return nil, fmt.Errorf("solver condition_eq: nonzero element has no inverse (internal error)")
	}
	return []ir.Element{f.Zero(), inv}, nil
}

// Inverse computes the plain field inverse of its single input, for the
// flattener's non-constant-divisor division: the constraint system pairs
// this directive's output with two R1CS checks (divisor*inv == 1,
// dividend*inv == quotient) that make the division unsatisfiable if the
// prover supplies a divisor of zero, rather than returning a flag the way
// ConditionEq does.
type Inverse struct{}

var _ ir.Solver = Inverse{}

func (Inverse) Name() string    { return "inverse" }
func (Inverse) NumOutputs() int { return 1 }

func (Inverse) Solve(f ir.Field, inputs []ir.Element) ([]ir.Element, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("solver inverse: expected 1 input, got %d", len(inputs))
	}
	inv, ok := inputs[0].Inverse()
	if !ok {
		return nil, fmt.Errorf("solver inverse: division by zero")
	}
	return []ir.Element{inv}, nil
}

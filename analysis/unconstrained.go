// Package analysis implements the unconstrained-variable analyzer: the
// soundness check that every non-deterministic witness value (a private
// argument, or a directive output) is tied down by at least one Constraint
// before the program reaches a proving backend.
//
// Ported from a Rust static-analysis pass's UnconstrainedVariableDetector,
// re-expressed through the ir.Visitor traversal abstraction, and
// cross-checked against an independent checkVariables-style pass that does
// the same secret/public/hint accounting natively against a compiled R1CS
// rather than this repo's IR.
package analysis

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/johnnydotdev/zokrates-go/ir"
)

// UnconstrainedVariableDetector implements ir.Visitor. It tracks a
// "suspects" bitset (one bit per variable id, via
// github.com/bits-and-blooms/bitset) seeded by private arguments and
// directive outputs, then clears a bit whenever that variable is used
// inside a Constraint's linear or quadratic operands.
type UnconstrainedVariableDetector struct {
	ir.BaseVisitor

	suspects *bitset.BitSet
}

// New builds a detector sized for fn.
func New(fn ir.Function) *UnconstrainedVariableDetector {
	d := &UnconstrainedVariableDetector{suspects: bitset.New(uint(fn.NumVariables() + 1))}
	d.Self = d
	return d
}

func (d *UnconstrainedVariableDetector) grow(v ir.Variable) {
	if uint(v) >= d.suspects.Len() {
		grown := bitset.New(uint(v) + 1)
		grown.InPlaceUnion(d.suspects)
		d.suspects = grown
	}
}

func (d *UnconstrainedVariableDetector) suspect(v ir.Variable) {
	d.grow(v)
	d.suspects.Set(uint(v))
}

func (d *UnconstrainedVariableDetector) clear(v ir.Variable) {
	d.grow(v)
	d.suspects.Clear(uint(v))
}

// VisitFunction walks arguments (marking private ones as suspects),
// statements, and returns, mirroring ir.BaseVisitor's default traversal but
// inserting the private-argument seeding step before any statement is
// visited.
func (d *UnconstrainedVariableDetector) VisitFunction(fn ir.Function) {
	for _, p := range fn.Arguments {
		if p.Private {
			d.suspect(p.ID)
		}
	}
	for _, s := range fn.Statements {
		d.VisitStatement(s)
	}
	for _, v := range fn.Returns {
		d.VisitVariable(v)
	}
}

// VisitDirective marks every output as a suspect. Only a use inside a
// constraint's linear/quadratic combination clears a suspect — a
// directive's inputs do not, since a directive does not itself constrain
// anything; a variable that feeds a directive and nothing else is still
// unconstrained.
func (d *UnconstrainedVariableDetector) VisitDirective(dir ir.Directive) {
	for _, v := range dir.Outputs {
		d.suspect(v)
	}
}

// VisitConstraint clears every variable referenced in either operand: a
// constraint is the only thing that can bind a witness value.
func (d *UnconstrainedVariableDetector) VisitConstraint(c ir.Constraint) {
	d.VisitQuadComb(c.Quad)
	d.VisitLinComb(c.Lin)
}

func (d *UnconstrainedVariableDetector) VisitLinComb(l ir.LinComb) {
	for _, t := range l.Terms {
		d.clear(t.Variable)
	}
}

// Count returns the number of variables that remain suspects after a full
// traversal: witness-only variables that never appeared inside a
// Constraint.
func (d *UnconstrainedVariableDetector) Count() int {
	return int(d.suspects.Count())
}

// Check runs the detector over prog and returns the count of unconstrained
// variables found, with ok true exactly when that count is zero.
func Check(prog ir.Prog) (int, bool) {
	d := New(prog.Main)
	d.VisitFunction(prog.Main)
	n := d.Count()
	return n, n == 0
}

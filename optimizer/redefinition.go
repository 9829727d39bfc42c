// Package optimizer implements the redefinition optimizer: a single-pass,
// substitution-based simplifier that eliminates chains like `b := a; c := b`
// by propagating linear assignments forward through the program.
//
// Ported in spirit from a Rust redefinition-optimizer implementation's
// RedefinitionOptimizer/fold_statement/fold_linear_combination, re-expressed
// through the ir.Folder traversal abstraction rather than a bespoke visitor.
// The ignore set uses github.com/bits-and-blooms/bitset instead of a bare
// map, the same compact bitset gnark forks in this repo's lineage pull in
// transitively for wire/witness bookkeeping (see DESIGN.md).
package optimizer

import (
	"github.com/bits-and-blooms/bitset"

	coreerrors "github.com/johnnydotdev/zokrates-go/errors"
	"github.com/johnnydotdev/zokrates-go/ir"
)

// RedefinitionOptimizer performs one fixpoint-in-one-pass traversal over a
// Prog's statements. It implements ir.Folder by embedding
// ir.BaseFolder and overriding only the statement-level methods; LinComb/
// QuadComb/Variable folding is handled inline by substitute rather than
// through the generic Fold* recursion, since substitution needs to reduce
// to canonical form as it goes.
type RedefinitionOptimizer struct {
	ir.BaseFolder

	field ir.Field
	path  string

	// substitution maps a Variable to the canonical LinComb that replaces
	// it everywhere it is used.
	substitution map[ir.Variable]ir.LinComb
	// ignore holds variables that must never be substituted away: ONE,
	// every return, every argument, every directive output, and any
	// variable defined by a genuine quadratic.
	ignore *bitset.BitSet

	err error
}

// New builds a RedefinitionOptimizer over field f: ONE, every return, and
// every argument go into ignore before traversal begins.
func New(f ir.Field, fn ir.Function, path string) *RedefinitionOptimizer {
	o := &RedefinitionOptimizer{
		field:        f,
		path:         path,
		substitution: map[ir.Variable]ir.LinComb{},
		ignore:       bitset.New(uint(fn.NumVariables() + 1)),
	}
	o.Self = o
	o.markIgnore(ir.One)
	for _, v := range fn.Returns {
		o.markIgnore(v)
	}
	for _, p := range fn.Arguments {
		o.markIgnore(p.ID)
	}
	return o
}

func (o *RedefinitionOptimizer) markIgnore(v ir.Variable) {
	o.growIgnore(v)
	o.ignore.Set(uint(v))
}

func (o *RedefinitionOptimizer) growIgnore(v ir.Variable) {
	if uint(v) >= o.ignore.Len() {
		grown := bitset.New(uint(v) + 1)
		grown.InPlaceUnion(o.ignore)
		o.ignore = grown
	}
}

func (o *RedefinitionOptimizer) isIgnored(v ir.Variable) bool {
	return o.ignore.Test(uint(v))
}

// Optimize runs the redefinition optimizer over prog and returns the
// rewritten program. It returns an error only for an InternalError: a
// compile-time solver invocation on a fully-constant directive that itself
// fails.
func Optimize(f ir.Field, prog ir.Prog, path string) (ir.Prog, error) {
	o := New(f, prog.Main, path)
	prog.Main = o.FoldFunction(prog.Main)
	if o.err != nil {
		return ir.Prog{}, o.err
	}
	return prog, nil
}

// substituteLinComb rewrites every term of l through the current
// substitution map, recursively expanding a substituted variable's own
// LinComb (which may itself reference other substituted variables), then
// reduces to canonical form.
func (o *RedefinitionOptimizer) substituteLinComb(l ir.LinComb) ir.LinComb {
	out := ir.Zero()
	for _, t := range l.Terms {
		if repl, ok := o.substitution[t.Variable]; ok {
			out = out.Add(o.substituteLinComb(repl).MulScalar(t.Coefficient))
			continue
		}
		out = out.Add(ir.LinComb{Terms: []ir.Term{t}})
	}
	return out.Reduce()
}

func (o *RedefinitionOptimizer) substituteQuadComb(q ir.QuadComb) ir.QuadComb {
	return ir.QuadComb{A: o.substituteLinComb(q.A), B: o.substituteLinComb(q.B)}
}

// FoldStatement dispatches to the constraint/directive handlers, each of
// which may drop the statement entirely (returning no Statement) instead of
// re-emitting it.
func (o *RedefinitionOptimizer) FoldStatement(s ir.Statement) []ir.Statement {
	switch st := s.(type) {
	case ir.Constraint:
		return o.foldConstraint(st)
	case ir.Directive:
		return o.foldDirective(st)
	default:
		return []ir.Statement{s}
	}
}

// foldDirective rewrites a Directive's inputs, then either folds a
// fully-constant directive away at compile time (binding its outputs in
// substitution) or re-emits it with its outputs marked ignore.
func (o *RedefinitionOptimizer) foldDirective(d ir.Directive) []ir.Statement {
	inputs := make([]ir.QuadComb, len(d.Inputs))
	allConstant := true
	constants := make([]ir.Element, len(d.Inputs))
	for i, q := range d.Inputs {
		rq := o.substituteQuadComb(q)
		inputs[i] = rq
		if k, ok := rq.IsConstant(o.field); ok {
			constants[i] = k
		} else {
			allConstant = false
		}
	}

	if allConstant {
		outs, err := d.Solver.Solve(o.field, constants)
		if err != nil {
			o.err = coreerrors.InternalError{
				Path:    o.path,
				Message: "compile-time solver invocation failed on constant directive inputs",
				Cause:   err,
			}
			return nil
		}
		for i, v := range d.Outputs {
			o.substitution[v] = ir.Constant(o.field, outs[i])
		}
		return nil
	}

	d.Inputs = inputs
	for _, v := range d.Outputs {
		o.markIgnore(v)
	}
	return []ir.Statement{d}
}

// foldConstraint decides whether a Constraint defines a substitutable
// variable, must stay because it's quadratic or protected, or is already a
// tautology.
func (o *RedefinitionOptimizer) foldConstraint(c ir.Constraint) []ir.Statement {
	c.Quad = o.substituteQuadComb(c.Quad)
	c.Lin = o.substituteLinComb(c.Lin)

	if c.Lin.IsZero() {
		return []ir.Statement{c}
	}

	t, ok := c.Lin.TrySummand()
	if !ok {
		return []ir.Statement{c}
	}
	v := t.Variable

	if o.isIgnored(v) {
		return []ir.Statement{c}
	}
	if _, already := o.substitution[v]; already {
		return []ir.Statement{c}
	}

	if linear, ok := c.Quad.TryLinear(o.field); ok {
		canonical, ok := linear.DivScalar(t.Coefficient)
		if !ok {
			// t.Coefficient == 0 cannot happen: TrySummand only returns
			// nonzero coefficients (Reduce drops zero terms).
			o.markIgnore(v)
			return []ir.Statement{c}
		}
		o.substitution[v] = canonical.Reduce()
		return nil
	}

	// v is defined by a genuine quadratic: keep the constraint and make
	// sure v is never substituted by a later, unrelated linear definition.
	o.markIgnore(v)
	return []ir.Statement{c}
}

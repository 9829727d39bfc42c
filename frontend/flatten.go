// Package frontend implements the flattening stage: it walks a
// typedast.Program and lowers it directly to IR statements in canonical
// LinComb/QuadComb form, folding a separate "IR Lowering" stage into the
// same pass, since this repo's ir package has no pre-normalized
// representation to lower from.
//
// Grounded throughout on vck3000-gnark/frontend/r1cs/api.go's constraint-
// builder methods (Add/Sub/Mul/Div/Inverse/Xor/IsZero/ToBinary): the same
// "reduce, then decide whether a new internal variable and constraint are
// actually needed" shape, re-targeted at this repo's ir.LinComb instead of
// compiled.Variable.
package frontend

import (
	"fmt"

	coreerrors "github.com/johnnydotdev/zokrates-go/errors"
	"github.com/johnnydotdev/zokrates-go/gadgets"
	"github.com/johnnydotdev/zokrates-go/ir"
	"github.com/johnnydotdev/zokrates-go/solver"
	"github.com/johnnydotdev/zokrates-go/typedast"
)

// Flattener lowers one typedast.Program into an ir.Prog. It owns variable
// allocation via a monotonic counter: once a Variable is handed out it is
// never reused or renamed.
type Flattener struct {
	field ir.Field
	cfg   typedast.Config
	path  string

	next  ir.Variable
	env   map[string]ir.LinComb
	stmts []ir.Statement
}

// NewFlattener constructs a Flattener over field f. path is the source file
// name attached to any FlattenError this Flattener produces.
func NewFlattener(f ir.Field, cfg typedast.Config, path string) *Flattener {
	return &Flattener{
		field: f,
		cfg:   cfg,
		path:  path,
		next:  ir.One + 1,
		env:   map[string]ir.LinComb{},
	}
}

// Flatten lowers prog's main function into an ir.Prog under cfg.
func Flatten(f ir.Field, prog *typedast.Program, cfg typedast.Config, path string) (ir.Prog, error) {
	fl := NewFlattener(f, cfg, path)
	fn, err := fl.flattenFunction(&prog.Main)
	if err != nil {
		return ir.Prog{}, err
	}
	return ir.Prog{Main: fn}, nil
}

func (fl *Flattener) fail(format string, args ...interface{}) error {
	return coreerrors.FlattenError{Path: fl.path, Message: fmt.Sprintf(format, args...)}
}

func (fl *Flattener) fresh() ir.Variable {
	v := fl.next
	fl.next++
	return v
}

func (fl *Flattener) emit(s ir.Statement) {
	fl.stmts = append(fl.stmts, s)
}

func (fl *Flattener) flattenFunction(fn *typedast.Function) (ir.Function, error) {
	args := make([]ir.Parameter, len(fn.Arguments))
	for i, p := range fn.Arguments {
		id := fl.fresh()
		args[i] = ir.Parameter{ID: id, Private: p.Private}
		fl.env[p.Name] = ir.FromVariable(fl.field, id)
	}

	var returns []ir.Variable
	for _, s := range fn.Body {
		switch st := s.(type) {
		case typedast.Assignment:
			vals, err := fl.flattenMulti(st.Value, len(st.Names))
			if err != nil {
				return ir.Function{}, err
			}
			for i, name := range st.Names {
				fl.env[name] = vals[i]
			}
		case typedast.Return:
			for _, e := range st.Values {
				lc, err := fl.flattenExpr(e)
				if err != nil {
					return ir.Function{}, err
				}
				returns = append(returns, fl.materialize(lc))
			}
		default:
			return ir.Function{}, fl.fail("unknown statement type %T", s)
		}
	}

	return ir.Function{
		Name:       fn.Name,
		Arguments:  args,
		Statements: fl.stmts,
		Returns:    returns,
	}, nil
}

// materialize binds lc to a concrete Variable: if lc is already a bare
// variable with coefficient 1, that variable is reused (no new constraint);
// otherwise a fresh variable v is allocated and a constraint lc == v is
// emitted, the same "reduce, then add a binding constraint only if needed"
// shape vck3000-gnark/frontend/r1cs/api.go's Add/Sub use.
func (fl *Flattener) materialize(lc ir.LinComb) ir.Variable {
	if t, ok := lc.Reduce().TrySummand(); ok && t.Coefficient.Equal(fl.field.One()) {
		return t.Variable
	}
	v := fl.fresh()
	fl.emit(ir.NewConstraint(ir.FromLinComb(fl.field, lc), ir.FromVariable(fl.field, v), ""))
	return v
}

// mul returns a*b, introducing at most one new auxiliary variable and one
// R1CS constraint: constants are folded directly into coefficients instead
// of a constraint.
func (fl *Flattener) mul(a, b ir.LinComb) ir.LinComb {
	if k, ok := a.TryConstant(fl.field); ok {
		return b.MulScalar(k).Reduce()
	}
	if k, ok := b.TryConstant(fl.field); ok {
		return a.MulScalar(k).Reduce()
	}
	res := fl.fresh()
	fl.emit(ir.NewConstraint(ir.NewQuadComb(a, b), ir.FromVariable(fl.field, res), ""))
	return ir.FromVariable(fl.field, res)
}

// assertBoolean emits b*(1-b) == 0, the field encoding of a boolean value.
func (fl *Flattener) assertBoolean(b ir.LinComb) {
	one := ir.Constant(fl.field, fl.field.One())
	quad := ir.NewQuadComb(b, one.Add(b.Neg()))
	fl.emit(ir.NewConstraint(quad, ir.Zero(), ""))
}

// eq implements equality comparison: the ConditionEq solver plus the two
// R1CS checks that tie its isZero/inv outputs to the actual difference,
// returning the boolean isZero flag as l == r's value.
func (fl *Flattener) eq(l, r ir.LinComb) ir.LinComb {
	diff := l.Add(r.Neg()).Reduce()
	isZero := fl.fresh()
	inv := fl.fresh()
	fl.emit(ir.Directive{
		Inputs:  []ir.QuadComb{ir.FromLinComb(fl.field, diff)},
		Outputs: []ir.Variable{isZero, inv},
		Solver:  solver.ConditionEq{},
	})

	one := ir.Constant(fl.field, fl.field.One())
	rhs := one.Add(ir.FromVariable(fl.field, isZero).Neg())
	fl.emit(ir.NewConstraint(ir.NewQuadComb(diff, ir.FromVariable(fl.field, inv)), rhs, ""))
	fl.emit(ir.NewConstraint(ir.NewQuadComb(ir.FromVariable(fl.field, isZero), diff), ir.Zero(), ""))

	isZeroLC := ir.FromVariable(fl.field, isZero)
	fl.assertBoolean(isZeroLC)
	return isZeroLC
}

// inverse allocates a directive computing 1/r and the R1CS check r*inv==1
// that makes the surrounding constraint system unsatisfiable if a malicious
// prover's witness has r == 0.
func (fl *Flattener) inverse(r ir.LinComb) ir.LinComb {
	inv := fl.fresh()
	fl.emit(ir.Directive{
		Inputs:  []ir.QuadComb{ir.FromLinComb(fl.field, r)},
		Outputs: []ir.Variable{inv},
		Solver:  solver.Inverse{},
	})
	one := ir.Constant(fl.field, fl.field.One())
	fl.emit(ir.NewConstraint(ir.NewQuadComb(r, ir.FromVariable(fl.field, inv)), one, ""))
	return ir.FromVariable(fl.field, inv)
}

// div implements x/y. A constant divisor distributes the field inverse
// directly into the coefficients; a non-constant divisor is gated by guard
// before inversion when Config.IsolateBranches is set and guard is not the
// trivial constant 1, so that a zero divisor in an untaken conditional arm
// cannot make the whole program unsatisfiable.
func (fl *Flattener) div(x, y ir.LinComb, guard ir.LinComb) (ir.LinComb, error) {
	if k, ok := y.TryConstant(fl.field); ok {
		if k.IsZero() {
			return ir.LinComb{}, fl.fail("division by constant zero")
		}
		out, _ := x.DivScalar(k)
		return out.Reduce(), nil
	}

	divisor := y
	if fl.cfg.IsolateBranches && !fl.isTrivialGuard(guard) {
		divisor = fl.gate(y, guard)
	}
	inv := fl.inverse(divisor)
	return fl.mul(x, inv), nil
}

// gate returns guard*(y-1) + 1: the divisor as-is when guard == 1, and the
// safe value 1 when guard == 0, so a directive invoked under an untaken
// branch never needs to invert zero.
func (fl *Flattener) gate(y, guard ir.LinComb) ir.LinComb {
	one := ir.Constant(fl.field, fl.field.One())
	yMinusOne := y.Add(one.Neg())
	return one.Add(fl.mul(guard, yMinusOne)).Reduce()
}

func (fl *Flattener) isTrivialGuard(guard ir.LinComb) bool {
	k, ok := guard.TryConstant(fl.field)
	return ok && k.Equal(fl.field.One())
}

func (fl *Flattener) flattenExpr(e typedast.Expr) (ir.LinComb, error) {
	return fl.flattenExprGuarded(e, ir.Constant(fl.field, fl.field.One()))
}

func (fl *Flattener) flattenExprGuarded(e typedast.Expr, guard ir.LinComb) (ir.LinComb, error) {
	switch n := e.(type) {
	case typedast.VariableRef:
		lc, ok := fl.env[n.Name]
		if !ok {
			return ir.LinComb{}, fl.fail("undefined variable %q", n.Name)
		}
		return lc, nil

	case typedast.Constant:
		return ir.Constant(fl.field, fl.field.FromBigInt(n.Value)), nil

	case typedast.Not:
		v, err := fl.flattenExprGuarded(n.Operand, guard)
		if err != nil {
			return ir.LinComb{}, err
		}
		one := ir.Constant(fl.field, fl.field.One())
		return one.Add(v.Neg()).Reduce(), nil

	case typedast.BinaryExpr:
		l, err := fl.flattenExprGuarded(n.Left, guard)
		if err != nil {
			return ir.LinComb{}, err
		}
		r, err := fl.flattenExprGuarded(n.Right, guard)
		if err != nil {
			return ir.LinComb{}, err
		}
		return fl.flattenBinary(n.Op, l, r, guard)

	case typedast.Conditional:
		return fl.flattenConditional(&n)

	case typedast.Call:
		outs, err := fl.flattenCall(&n)
		if err != nil {
			return ir.LinComb{}, err
		}
		if len(outs) != 1 {
			return ir.LinComb{}, fl.fail("gadget %q returns %d values, expected exactly 1 in expression position", n.Gadget, len(outs))
		}
		return outs[0], nil

	default:
		return ir.LinComb{}, fl.fail("unsupported expression type %T", e)
	}
}

func (fl *Flattener) flattenBinary(op typedast.BinaryOp, l, r ir.LinComb, guard ir.LinComb) (ir.LinComb, error) {
	switch op {
	case typedast.OpAdd:
		return l.Add(r).Reduce(), nil
	case typedast.OpSub:
		return l.Add(r.Neg()).Reduce(), nil
	case typedast.OpMul:
		return fl.mul(l, r), nil
	case typedast.OpDiv:
		return fl.div(l, r, guard)
	case typedast.OpEq:
		return fl.eq(l, r), nil
	case typedast.OpAnd:
		return fl.mul(l, r), nil
	case typedast.OpOr:
		return l.Add(r).Add(fl.mul(l, r).Neg()).Reduce(), nil
	default:
		return ir.LinComb{}, fl.fail("unsupported binary operator %d", op)
	}
}

// flattenConditional implements the ternary c ? then : else as
// else + c*(then-else), a single multiplexer constraint. Both arms are
// flattened unconditionally (no short-circuiting exists at this layer); when
// Config.IsolateBranches is set each arm's own divisions are gated by that
// arm's selector (c for Then, 1-c for Else) via flattenExprGuarded.
func (fl *Flattener) flattenConditional(n *typedast.Conditional) (ir.LinComb, error) {
	cond, err := fl.flattenExpr(n.Cond)
	if err != nil {
		return ir.LinComb{}, err
	}
	one := ir.Constant(fl.field, fl.field.One())
	notCond := one.Add(cond.Neg()).Reduce()

	thenVal, err := fl.flattenExprGuarded(n.Then, cond)
	if err != nil {
		return ir.LinComb{}, err
	}
	elseVal, err := fl.flattenExprGuarded(n.Else, notCond)
	if err != nil {
		return ir.LinComb{}, err
	}

	diff := thenVal.Add(elseVal.Neg()).Reduce()
	return elseVal.Add(fl.mul(cond, diff)).Reduce(), nil
}

// flattenMulti flattens an expression in a statement position that may bind
// more than one name at once (a multi-output gadget Call); any other
// expression must bind exactly one name.
func (fl *Flattener) flattenMulti(e typedast.Expr, want int) ([]ir.LinComb, error) {
	if c, ok := e.(typedast.Call); ok {
		outs, err := fl.flattenCall(&c)
		if err != nil {
			return nil, err
		}
		if len(outs) != want {
			return nil, fl.fail("gadget %q returns %d values, assignment expects %d", c.Gadget, len(outs), want)
		}
		return outs, nil
	}
	if want != 1 {
		return nil, fl.fail("expression assigns %d names but produces a single value", want)
	}
	lc, err := fl.flattenExpr(e)
	if err != nil {
		return nil, err
	}
	return []ir.LinComb{lc}, nil
}

func (fl *Flattener) flattenCall(c *typedast.Call) ([]ir.LinComb, error) {
	args := make([]ir.LinComb, len(c.Args))
	for i, a := range c.Args {
		lc, err := fl.flattenExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = lc
	}

	switch c.Gadget {
	case typedast.GadgetUnpackToBitwidth:
		if c.Width <= 0 || c.Width > fl.field.RequiredBits() {
			return nil, fl.fail("unpack_to_bitwidth: width %d out of range [1, %d]", c.Width, fl.field.RequiredBits())
		}
		fn := gadgets.UnpackToBitwidth(fl.field, c.Width)
		return fl.inlineGadget(fn, args)

	case typedast.GadgetSha256Round:
		fn, err := gadgets.Sha256RoundFunction(fl.field)
		if err != nil {
			return nil, fl.fail("sha256_round: %v", err)
		}
		return fl.inlineGadget(fn, args)

	default:
		return nil, fl.fail("unknown embedded gadget %q", c.Gadget)
	}
}

// inlineGadget inlines a synthesized gadget Function into the flattener's
// own statement stream, remapping every local variable id (including the
// gadget's own ONE, which maps to this Flattener's ONE) through a
// remapFolder, then binding each remapped argument to the caller-supplied
// LinComb with one constraint. Reuses the Folder/Visitor traversal
// abstraction rather than inventing new remapping scaffolding.
func (fl *Flattener) inlineGadget(gadgetFn ir.Function, args []ir.LinComb) ([]ir.LinComb, error) {
	if len(args) != len(gadgetFn.Arguments) {
		return nil, fl.fail("gadget expects %d arguments, got %d", len(gadgetFn.Arguments), len(args))
	}

	rf := newRemapFolder(fl)
	remapped := rf.FoldFunction(gadgetFn)

	for i, p := range remapped.Arguments {
		fl.emit(ir.NewConstraint(ir.FromLinComb(fl.field, ir.FromVariable(fl.field, p.ID)), args[i], ""))
	}
	fl.stmts = append(fl.stmts, remapped.Statements...)

	outs := make([]ir.LinComb, len(remapped.Returns))
	for i, v := range remapped.Returns {
		outs[i] = ir.FromVariable(fl.field, v)
	}
	return outs, nil
}

// remapFolder rewrites a gadget Function's locally-numbered variables onto
// fresh ids from the enclosing Flattener's allocator, except for ONE, which
// always maps to the enclosing program's own ONE.
type remapFolder struct {
	ir.BaseFolder
	fl     *Flattener
	mapped map[ir.Variable]ir.Variable
}

func newRemapFolder(fl *Flattener) *remapFolder {
	r := &remapFolder{fl: fl, mapped: map[ir.Variable]ir.Variable{ir.One: ir.One}}
	r.Self = r
	return r
}

func (r *remapFolder) FoldVariable(v ir.Variable) ir.Variable {
	if g, ok := r.mapped[v]; ok {
		return g
	}
	g := r.fl.fresh()
	r.mapped[v] = g
	return g
}

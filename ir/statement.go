package ir

// Statement is the tagged union of things that appear in a Function body: a
// Constraint (checked by the verifier) or a Directive (prover-only hint).
type Statement interface {
	isStatement()
}

// Constraint asserts Quad == Lin. Msg is an optional human-readable label
// (e.g. naming which source assertion produced it); empty means none.
type Constraint struct {
	Quad QuadComb
	Lin  LinComb
	Msg  string
}

func (Constraint) isStatement() {}

// NewConstraint builds a labeled constraint.
func NewConstraint(q QuadComb, l LinComb, msg string) Constraint {
	return Constraint{Quad: q, Lin: l, Msg: msg}
}

// Directive runs Solver on the values of Inputs to populate Outputs. It
// constrains nothing by itself.
type Directive struct {
	Inputs  []QuadComb
	Outputs []Variable
	Solver  Solver
}

func (Directive) isStatement() {}

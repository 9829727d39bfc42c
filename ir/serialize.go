package ir

import "encoding/json"

// wireExpr is the on-disk expression shape for a LinComb/QuadComb: a sum of
// terms, where a term is either a bare variable/constant or a product. The
// invariant downstream consumers (the proving backend, explicitly out of
// scope here) rely on is that every product node is always nested inside a
// sum node, even a trivial one — this lets a reader always expect "Add" at
// the top of any expression without special-casing a bare "Mult".
type wireExpr struct {
	Op    string      `json:"op"` // "add" or "mult"
	Terms []wireTerm  `json:"terms,omitempty"`
	Left  *wireExpr   `json:"left,omitempty"`
	Right *wireExpr   `json:"right,omitempty"`
}

type wireTerm struct {
	Coefficient []byte `json:"coefficient"`
	Variable    int    `json:"variable"`
}

func linCombToWire(l LinComb) wireExpr {
	terms := make([]wireTerm, len(l.Terms))
	for i, t := range l.Terms {
		terms[i] = wireTerm{Coefficient: t.Coefficient.Bytes(), Variable: int(t.Variable)}
	}
	return wireExpr{Op: "add", Terms: terms}
}

// quadCombToWire always wraps the product in an "add" node with a single
// "mult" child, preserving the Add-wraps-Mult invariant even though the
// addition here has nothing to add to.
func quadCombToWire(q QuadComb) wireExpr {
	a := linCombToWire(q.A)
	b := linCombToWire(q.B)
	mult := wireExpr{Op: "mult", Left: &a, Right: &b}
	return wireExpr{Op: "add", Left: &mult}
}

type wireConstraint struct {
	Quad wireExpr `json:"quad"`
	Lin  wireExpr `json:"lin"`
	Msg  string   `json:"msg,omitempty"`
}

type wireDirective struct {
	Inputs  []wireExpr `json:"inputs"`
	Outputs []int      `json:"outputs"`
	Solver  string     `json:"solver"`
}

type wireFunction struct {
	Name       string           `json:"name"`
	Arguments  []wireParameter  `json:"arguments"`
	Constraints []wireConstraint `json:"constraints"`
	Directives  []wireDirective  `json:"directives"`
	Returns    []int            `json:"returns"`
}

type wireParameter struct {
	ID      int  `json:"id"`
	Private bool `json:"private"`
}

// Marshal serializes a Prog to its wire representation. Statement order
// within the function is not preserved across the constraint/directive
// split; a reader that needs original ordering should not rely on this
// format (the core never needs to re-read its own output, only to hand it
// downstream).
func Marshal(p Prog) ([]byte, error) {
	fn := wireFunction{Name: p.Main.Name, Returns: make([]int, len(p.Main.Returns))}
	for i, v := range p.Main.Returns {
		fn.Returns[i] = int(v)
	}
	fn.Arguments = make([]wireParameter, len(p.Main.Arguments))
	for i, a := range p.Main.Arguments {
		fn.Arguments[i] = wireParameter{ID: int(a.ID), Private: a.Private}
	}
	for _, s := range p.Main.Statements {
		switch st := s.(type) {
		case Constraint:
			fn.Constraints = append(fn.Constraints, wireConstraint{
				Quad: quadCombToWire(st.Quad),
				Lin:  linCombToWire(st.Lin),
				Msg:  st.Msg,
			})
		case Directive:
			inputs := make([]wireExpr, len(st.Inputs))
			for i, q := range st.Inputs {
				inputs[i] = quadCombToWire(q)
			}
			outputs := make([]int, len(st.Outputs))
			for i, v := range st.Outputs {
				outputs[i] = int(v)
			}
			fn.Directives = append(fn.Directives, wireDirective{
				Inputs:  inputs,
				Outputs: outputs,
				Solver:  st.Solver.Name(),
			})
		}
	}
	return json.Marshal(fn)
}

package ir

// Parameter is a function argument: a variable plus its public/private
// visibility.
type Parameter struct {
	ID      Variable
	Private bool
}

// Function is a flat, already-inlined sequence of statements over a fixed
// set of arguments, returning a fixed set of variables. "main" is the
// entrypoint function of a Prog; embedded gadgets also produce Functions,
// which the flattener inlines into main and discards.
type Function struct {
	Name      string
	Arguments []Parameter
	Statements []Statement
	Returns   []Variable
}

// NumVariables reports one past the highest variable id referenced anywhere
// in the function (arguments, statement operands, returns), i.e. the size a
// dense witness vector for this function alone would need. This is a
// convenience for callers that want to size their own bookkeeping; it is not
// meaningful once a Function has been inlined into a larger Prog.
func (fn *Function) NumVariables() int {
	max := Variable(-1)
	bump := func(v Variable) {
		if v > max {
			max = v
		}
	}
	for _, p := range fn.Arguments {
		bump(p.ID)
	}
	for _, s := range fn.Statements {
		switch st := s.(type) {
		case Constraint:
			for _, t := range st.Quad.A.Terms {
				bump(t.Variable)
			}
			for _, t := range st.Quad.B.Terms {
				bump(t.Variable)
			}
			for _, t := range st.Lin.Terms {
				bump(t.Variable)
			}
		case Directive:
			for _, q := range st.Inputs {
				for _, t := range q.A.Terms {
					bump(t.Variable)
				}
				for _, t := range q.B.Terms {
					bump(t.Variable)
				}
			}
			for _, v := range st.Outputs {
				bump(v)
			}
		}
	}
	for _, v := range fn.Returns {
		bump(v)
	}
	return int(max) + 1
}

// Abi describes a Prog's public interface (argument names/types, return
// layout). It is built upstream of the core covered here; compiler.Compile
// neither receives nor sets one. It carries no behavior of its own.
type Abi struct {
	Signature string
}

// Prog is the top-level compiled artifact: a main Function plus which of its
// arguments are private.
type Prog struct {
	Main Function
}

package ir

// Folder rewrites an IR tree, returning a (possibly) transformed copy at
// every level. Passes that only need to change a handful of node kinds embed
// BaseFolder and override just those methods; BaseFolder's defaults recurse
// into children and otherwise return the node unchanged.
type Folder interface {
	FoldProg(p Prog) Prog
	FoldFunction(fn Function) Function
	FoldStatement(s Statement) []Statement
	FoldConstraint(c Constraint) Statement
	FoldDirective(d Directive) Statement
	FoldQuadComb(q QuadComb) QuadComb
	FoldLinComb(l LinComb) LinComb
	FoldVariable(v Variable) Variable
}

// BaseFolder is the identity Folder: every method recurses into its
// children and changes nothing. Embed it by value and override the methods
// a given pass cares about.
type BaseFolder struct {
	Self Folder
}

func (b *BaseFolder) self() Folder {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseFolder) FoldProg(p Prog) Prog {
	p.Main = b.self().FoldFunction(p.Main)
	return p
}

func (b *BaseFolder) FoldFunction(fn Function) Function {
	self := b.self()
	newArgs := make([]Parameter, len(fn.Arguments))
	for i, a := range fn.Arguments {
		a.ID = self.FoldVariable(a.ID)
		newArgs[i] = a
	}
	fn.Arguments = newArgs

	var out []Statement
	for _, s := range fn.Statements {
		out = append(out, self.FoldStatement(s)...)
	}
	fn.Statements = out

	rets := make([]Variable, len(fn.Returns))
	for i, v := range fn.Returns {
		rets[i] = self.FoldVariable(v)
	}
	fn.Returns = rets
	return fn
}

func (b *BaseFolder) FoldStatement(s Statement) []Statement {
	self := b.self()
	switch st := s.(type) {
	case Constraint:
		return []Statement{self.FoldConstraint(st)}
	case Directive:
		return []Statement{self.FoldDirective(st)}
	default:
		return []Statement{s}
	}
}

func (b *BaseFolder) FoldConstraint(c Constraint) Statement {
	self := b.self()
	c.Quad = self.FoldQuadComb(c.Quad)
	c.Lin = self.FoldLinComb(c.Lin)
	return c
}

func (b *BaseFolder) FoldDirective(d Directive) Statement {
	self := b.self()
	inputs := make([]QuadComb, len(d.Inputs))
	for i, q := range d.Inputs {
		inputs[i] = self.FoldQuadComb(q)
	}
	d.Inputs = inputs
	outs := make([]Variable, len(d.Outputs))
	for i, v := range d.Outputs {
		outs[i] = self.FoldVariable(v)
	}
	d.Outputs = outs
	return d
}

func (b *BaseFolder) FoldQuadComb(q QuadComb) QuadComb {
	self := b.self()
	q.A = self.FoldLinComb(q.A)
	q.B = self.FoldLinComb(q.B)
	return q
}

func (b *BaseFolder) FoldLinComb(l LinComb) LinComb {
	self := b.self()
	terms := make([]Term, len(l.Terms))
	for i, t := range l.Terms {
		t.Variable = self.FoldVariable(t.Variable)
		terms[i] = t
	}
	return LinComb{Terms: terms}
}

func (b *BaseFolder) FoldVariable(v Variable) Variable {
	return v
}

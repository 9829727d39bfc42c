package ir

// Visitor performs read-only inspection of an IR tree. Unlike Folder it
// cannot change the tree; passes that only need to observe a subset of node
// kinds embed BaseVisitor and override those methods.
type Visitor interface {
	VisitProg(p Prog)
	VisitFunction(fn Function)
	VisitStatement(s Statement)
	VisitConstraint(c Constraint)
	VisitDirective(d Directive)
	VisitQuadComb(q QuadComb)
	VisitLinComb(l LinComb)
	VisitVariable(v Variable)
}

// BaseVisitor recurses into every child and does nothing else. Embed it by
// value and override the methods a given pass cares about.
type BaseVisitor struct {
	Self Visitor
}

func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseVisitor) VisitProg(p Prog) {
	b.self().VisitFunction(p.Main)
}

func (b *BaseVisitor) VisitFunction(fn Function) {
	self := b.self()
	for _, a := range fn.Arguments {
		self.VisitVariable(a.ID)
	}
	for _, s := range fn.Statements {
		self.VisitStatement(s)
	}
	for _, v := range fn.Returns {
		self.VisitVariable(v)
	}
}

func (b *BaseVisitor) VisitStatement(s Statement) {
	self := b.self()
	switch st := s.(type) {
	case Constraint:
		self.VisitConstraint(st)
	case Directive:
		self.VisitDirective(st)
	}
}

func (b *BaseVisitor) VisitConstraint(c Constraint) {
	self := b.self()
	self.VisitQuadComb(c.Quad)
	self.VisitLinComb(c.Lin)
}

func (b *BaseVisitor) VisitDirective(d Directive) {
	self := b.self()
	for _, q := range d.Inputs {
		self.VisitQuadComb(q)
	}
	for _, v := range d.Outputs {
		self.VisitVariable(v)
	}
}

func (b *BaseVisitor) VisitQuadComb(q QuadComb) {
	self := b.self()
	self.VisitLinComb(q.A)
	self.VisitLinComb(q.B)
}

func (b *BaseVisitor) VisitLinComb(l LinComb) {
	self := b.self()
	for _, t := range l.Terms {
		self.VisitVariable(t.Variable)
	}
}

func (b *BaseVisitor) VisitVariable(v Variable) {}

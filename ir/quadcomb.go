package ir

// QuadComb is an unordered pair of linear combinations denoting their
// product A*B. A constraint asserts that a QuadComb equals a LinComb.
type QuadComb struct {
	A LinComb
	B LinComb
}

// NewQuadComb builds A*B.
func NewQuadComb(a, b LinComb) QuadComb {
	return QuadComb{A: a, B: b}
}

// FromLinComb lifts a LinComb to a QuadComb by multiplying by the constant 1
// (ONE*l), used when a constraint's left side is purely linear.
func FromLinComb(f Field, l LinComb) QuadComb {
	return QuadComb{A: Constant(f, f.One()), B: l}
}

// Reduce canonicalizes both sides.
func (q QuadComb) Reduce() QuadComb {
	return QuadComb{A: q.A.Reduce(), B: q.B.Reduce()}
}

// TryLinear succeeds when one side reduces to a constant scalar, returning
// the other side scaled by that scalar. A QuadComb with a constant side is
// "linear-reducible": it does not need a genuine multiplication constraint.
func (q QuadComb) TryLinear(f Field) (LinComb, bool) {
	if k, ok := q.A.TryConstant(f); ok {
		return q.B.MulScalar(k), true
	}
	if k, ok := q.B.TryConstant(f); ok {
		return q.A.MulScalar(k), true
	}
	return LinComb{}, false
}

// IsConstant reports whether both sides reduce to a plain scalar.
func (q QuadComb) IsConstant(f Field) (Element, bool) {
	a, aok := q.A.TryConstant(f)
	b, bok := q.B.TryConstant(f)
	if aok && bok {
		return a.Mul(b), true
	}
	return nil, false
}

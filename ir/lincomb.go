/*
Copyright © 2020 ConsenSys

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ir

import "sort"

// Term is a single (coefficient, variable) summand of a LinComb. Grounded on
// vck3000-gnark/frontend/r1cs/api.go's compiled.Term (compiled.Pack/Unpack):
// the pair-of-ids shape is kept but the separate CoeffTable indirection is
// dropped, storing the Element inline.
type Term struct {
	Coefficient Element
	Variable    Variable
}

// LinComb is a linear combination of variables: an ordered sequence of
// (coefficient, variable) terms.
type LinComb struct {
	Terms []Term
}

// Summand builds the single-term LinComb k*v.
func Summand(k Element, v Variable) LinComb {
	if k.IsZero() {
		return LinComb{}
	}
	return LinComb{Terms: []Term{{Coefficient: k, Variable: v}}}
}

// FromVariable builds the LinComb 1*v.
func FromVariable(f Field, v Variable) LinComb {
	return Summand(f.One(), v)
}

// Constant builds the LinComb k*ONE.
func Constant(f Field, k Element) LinComb {
	return Summand(k, One)
}

// Zero is the empty linear combination.
func Zero() LinComb {
	return LinComb{}
}

// Add returns the (un-reduced) concatenation l + o. Callers that need a
// canonical result should call Reduce.
func (l LinComb) Add(o LinComb) LinComb {
	terms := make([]Term, 0, len(l.Terms)+len(o.Terms))
	terms = append(terms, l.Terms...)
	terms = append(terms, o.Terms...)
	return LinComb{Terms: terms}
}

// MulScalar returns l scaled by k.
func (l LinComb) MulScalar(k Element) LinComb {
	if k.IsZero() {
		return LinComb{}
	}
	terms := make([]Term, len(l.Terms))
	for i, t := range l.Terms {
		terms[i] = Term{Coefficient: t.Coefficient.Mul(k), Variable: t.Variable}
	}
	return LinComb{Terms: terms}
}

// Neg returns -l.
func (l LinComb) Neg() LinComb {
	terms := make([]Term, len(l.Terms))
	for i, t := range l.Terms {
		terms[i] = Term{Coefficient: t.Coefficient.Neg(), Variable: t.Variable}
	}
	return LinComb{Terms: terms}
}

// DivScalar distributes the field inverse of k over l. Returns false if k is
// zero.
func (l LinComb) DivScalar(k Element) (LinComb, bool) {
	inv, ok := k.Inverse()
	if !ok {
		return LinComb{}, false
	}
	return l.MulScalar(inv), true
}

// Reduce returns the canonical form: terms grouped by variable with
// coefficients summed, zero-coefficient terms removed, variables in
// ascending order.
func (l LinComb) Reduce() LinComb {
	if len(l.Terms) == 0 {
		return l
	}
	terms := make([]Term, len(l.Terms))
	copy(terms, l.Terms)
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Variable < terms[j].Variable })

	out := make([]Term, 0, len(terms))
	i := 0
	for i < len(terms) {
		v := terms[i].Variable
		sum := terms[i].Coefficient
		j := i + 1
		for j < len(terms) && terms[j].Variable == v {
			sum = sum.Add(terms[j].Coefficient)
			j++
		}
		if !sum.IsZero() {
			out = append(out, Term{Coefficient: sum, Variable: v})
		}
		i = j
	}
	return LinComb{Terms: out}
}

// IsZero reports whether the canonical form of l has no terms.
func (l LinComb) IsZero() bool {
	return len(l.Reduce().Terms) == 0
}

// TryConstant succeeds iff the canonical form contains only the ONE term (or
// no terms at all, i.e. the constant zero).
func (l LinComb) TryConstant(f Field) (Element, bool) {
	c := l.Reduce()
	switch len(c.Terms) {
	case 0:
		return f.Zero(), true
	case 1:
		if c.Terms[0].Variable == One {
			return c.Terms[0].Coefficient, true
		}
	}
	return nil, false
}

// TrySummand succeeds iff the canonical form has exactly one non-ONE term and
// no ONE term.
func (l LinComb) TrySummand() (Term, bool) {
	c := l.Reduce()
	if len(c.Terms) != 1 {
		return Term{}, false
	}
	if c.Terms[0].Variable == One {
		return Term{}, false
	}
	return c.Terms[0], true
}

// Equal reports whether l and o have identical canonical forms.
func (l LinComb) Equal(o LinComb) bool {
	a, b := l.Reduce(), o.Reduce()
	if len(a.Terms) != len(b.Terms) {
		return false
	}
	for i := range a.Terms {
		if a.Terms[i].Variable != b.Terms[i].Variable {
			return false
		}
		if !a.Terms[i].Coefficient.Equal(b.Terms[i].Coefficient) {
			return false
		}
	}
	return true
}

// Variables returns the set of variables appearing with a nonzero
// coefficient in the canonical form, in ascending order.
func (l LinComb) Variables() []Variable {
	c := l.Reduce()
	out := make([]Variable, len(c.Terms))
	for i, t := range c.Terms {
		out[i] = t.Variable
	}
	return out
}

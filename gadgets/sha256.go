// Package gadgets implements the two embedded circuits the flattener can
// inline: weighted-bit decomposition (unpack_to_bitwidth) and one SHA-256
// compression round (sha256_round). Both are ported from ZoKrates'
// embed.rs, translated into the R1CS construction idiom
// vck3000-gnark/frontend/r1cs/api.go uses (newR1C-style single-constraint
// gates, boolean-via-multiplication assertions).
package gadgets

import (
	"fmt"
	"math/bits"

	"github.com/johnnydotdev/zokrates-go/ir"
)

// sha256K holds the 64 round constants from FIPS 180-4.
var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// bitRef indexes a wire in a roundPlan: either one of the 768 function
// arguments, the ONE/zero constants, or the result of a gate. The same
// indices are used by constraintsFromPlan (to allocate ir.Variables) and by
// EvaluateSha256RoundTrace (to compute concrete values), so the two never
// disagree on wiring — they just interpret the same gate list differently.
type bitRef int

type gateKind int

const (
	gateConst gateKind = iota // a fixed 0/1 value
	gateInput                 // the i-th of the 768 directive inputs, taken verbatim
	gateXor                   // args[0] xor args[1]
	gateAnd                   // args[0] and args[1]
	// gateCarry computes (a+b+c-sum)/2, the carry-out of a full adder whose
	// sum bit (args[3]) was already computed as xor(xor(a,b),c).
	gateCarry
)

type gate struct {
	kind     gateKind
	args     [4]bitRef
	constVal uint64 // for gateConst
	inputIdx int     // for gateInput
}

type roundPlan struct {
	gates []gate
	zero  bitRef
	one   bitRef
}

func (p *roundPlan) add(g gate) bitRef {
	p.gates = append(p.gates, g)
	return bitRef(len(p.gates) - 1)
}

func (p *roundPlan) constBit(v uint64) bitRef {
	return p.add(gate{kind: gateConst, constVal: v})
}

func (p *roundPlan) inputBit(i int) bitRef {
	return p.add(gate{kind: gateInput, inputIdx: i})
}

func (p *roundPlan) xor(a, b bitRef) bitRef {
	return p.add(gate{kind: gateXor, args: [4]bitRef{a, b}})
}

func (p *roundPlan) and(a, b bitRef) bitRef {
	return p.add(gate{kind: gateAnd, args: [4]bitRef{a, b}})
}

// fullAdder returns (sum, carry) for a+b+cin.
func (p *roundPlan) fullAdder(a, b, cin bitRef) (bitRef, bitRef) {
	t1 := p.xor(a, b)
	sum := p.xor(t1, cin)
	carry := p.add(gate{kind: gateCarry, args: [4]bitRef{a, b, cin, sum}})
	return sum, carry
}

type word32 [32]bitRef

func (p *roundPlan) constWord(v uint32) word32 {
	var w word32
	for i := range w {
		w[i] = p.constBit(uint64((v >> i) & 1))
	}
	return w
}

// rotr rotates a word right by n, bit i of the result takes the value of
// bit (i+n)%32 of the input (index 0 = least significant bit throughout).
func rotr(w word32, n int) word32 {
	var out word32
	for i := range out {
		out[i] = w[(i+n)%32]
	}
	return out
}

func (p *roundPlan) shr(w word32, n int) word32 {
	var out word32
	for i := range out {
		if i+n < 32 {
			out[i] = w[i+n]
		} else {
			out[i] = p.zero
		}
	}
	return out
}

func (p *roundPlan) xorWords(words ...word32) word32 {
	acc := words[0]
	for _, w := range words[1:] {
		var next word32
		for i := range next {
			next[i] = p.xor(acc[i], w[i])
		}
		acc = next
	}
	return acc
}

func (p *roundPlan) addMod32Pair(x, y word32) word32 {
	var sum word32
	carry := p.zero
	for i := 0; i < 32; i++ {
		s, c := p.fullAdder(x[i], y[i], carry)
		sum[i] = s
		carry = c
	}
	return sum
}

func (p *roundPlan) addMod32(words ...word32) word32 {
	acc := words[0]
	for _, w := range words[1:] {
		acc = p.addMod32Pair(acc, w)
	}
	return acc
}

func (p *roundPlan) bigSigma0(a word32) word32 {
	return p.xorWords(rotr(a, 2), rotr(a, 13), rotr(a, 22))
}

func (p *roundPlan) bigSigma1(e word32) word32 {
	return p.xorWords(rotr(e, 6), rotr(e, 11), rotr(e, 25))
}

func (p *roundPlan) smallSigma0(w word32) word32 {
	return p.xorWords(rotr(w, 7), rotr(w, 18), p.shr(w, 3))
}

func (p *roundPlan) smallSigma1(w word32) word32 {
	return p.xorWords(rotr(w, 17), rotr(w, 19), p.shr(w, 10))
}

func (p *roundPlan) ch(e, f, g word32) word32 {
	var out word32
	for i := range out {
		t1 := p.xor(f[i], g[i])
		t2 := p.and(e[i], t1)
		out[i] = p.xor(g[i], t2)
	}
	return out
}

func (p *roundPlan) maj(a, b, c word32) word32 {
	var out word32
	for i := range out {
		x3 := p.xor(p.xor(a[i], b[i]), c[i])
		out[i] = p.add(gate{kind: gateCarry, args: [4]bitRef{a[i], b[i], c[i], x3}})
	}
	return out
}

// sha256RoundPlan is the fixed gate sequence for one SHA-256 block
// compression: 512 message-schedule bits then 256 hash-state bits in,
// 256 updated hash-state bits out. Identical every time it is built (the
// control flow never depends on input values), so building it once and
// interpreting it twice (constraints, trace) keeps both interpretations in
// lockstep by construction.
type sha256RoundPlan struct {
	plan         *roundPlan
	messageBits  [512]bitRef
	hashBits     [256]bitRef
	outputBits   [256]bitRef
}

func buildSha256RoundPlan() *sha256RoundPlan {
	p := &roundPlan{}
	p.one = p.constBit(1)
	p.zero = p.constBit(0)

	var message [512]bitRef
	for i := range message {
		message[i] = p.inputBit(i)
	}
	var hash [256]bitRef
	for i := range hash {
		hash[i] = p.inputBit(512 + i)
	}

	var w [64]word32
	for i := 0; i < 16; i++ {
		for b := 0; b < 32; b++ {
			w[i][b] = message[i*32+b]
		}
	}
	for t := 16; t < 64; t++ {
		s0 := p.smallSigma0(w[t-15])
		s1 := p.smallSigma1(w[t-2])
		w[t] = p.addMod32(w[t-16], s0, w[t-7], s1)
	}

	var h [8]word32
	for i := 0; i < 8; i++ {
		for b := 0; b < 32; b++ {
			h[i][b] = hash[i*32+b]
		}
	}
	a, bb, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	for t := 0; t < 64; t++ {
		S1 := p.bigSigma1(e)
		chv := p.ch(e, f, g)
		t1 := p.addMod32(hh, S1, chv, p.constWord(sha256K[t]), w[t])
		S0 := p.bigSigma0(a)
		majv := p.maj(a, bb, c)
		t2 := p.addMod32(S0, majv)
		hh = g
		g = f
		f = e
		e = p.addMod32(d, t1)
		d = c
		c = bb
		bb = a
		a = p.addMod32(t1, t2)
	}

	out := [8]word32{
		p.addMod32(h[0], a), p.addMod32(h[1], bb), p.addMod32(h[2], c), p.addMod32(h[3], d),
		p.addMod32(h[4], e), p.addMod32(h[5], f), p.addMod32(h[6], g), p.addMod32(h[7], hh),
	}
	var output [256]bitRef
	for i := 0; i < 8; i++ {
		for b := 0; b < 32; b++ {
			output[i*32+b] = out[i][b]
		}
	}

	return &sha256RoundPlan{plan: p, messageBits: message, hashBits: hash, outputBits: output}
}

var sharedSha256Plan = buildSha256RoundPlan()

// Sha256RoundInputCount and Sha256RoundOutputCount fix the Directive's
// interface: 768 inputs (512 message-schedule bits + 256 hash bits) and 256
// outputs (the recomputed hash state).
const (
	Sha256RoundInputCount  = 768
	Sha256RoundOutputCount = 256
)

// Sha256RoundFunction synthesizes the embedded circuit: a directive running
// the sha256_round solver over the 768 argument variables, one argument-
// binding constraint per input bit, and the R1CS constraints that check
// every derived gate, followed by a return of the 256 output variables.
// Variable layout follows embed.rs: cs variables occupy ids [0, V), V =
// len(gates); function arguments occupy ids [V, V+768).
func Sha256RoundFunction(f ir.Field) (ir.Function, error) {
	plan := sharedSha256Plan
	v := len(plan.plan.gates)

	args := make([]ir.Parameter, Sha256RoundInputCount)
	for i := 0; i < Sha256RoundInputCount; i++ {
		args[i] = ir.Parameter{ID: ir.Variable(v + i), Private: true}
	}

	var statements []ir.Statement
	directiveInputs := make([]ir.QuadComb, Sha256RoundInputCount)
	for i := 0; i < Sha256RoundInputCount; i++ {
		directiveInputs[i] = ir.FromLinComb(f, ir.FromVariable(f, ir.Variable(v+i)))
	}
	// Gate 0 is always the plan's "one" wire (the first thing
	// buildSha256RoundPlan allocates), which remapFolder maps onto the
	// enclosing program's own ONE; it is never a directive output.
	directiveOutputs := make([]ir.Variable, v-1)
	for i := 1; i < v; i++ {
		directiveOutputs[i-1] = ir.Variable(i)
	}
	statements = append(statements, ir.Directive{
		Inputs:  directiveInputs,
		Outputs: directiveOutputs,
		Solver:  Sha256RoundSolver{},
	})

	// Bind the cs input-echo gates to the actual function arguments.
	for i := 0; i < Sha256RoundInputCount; i++ {
		csVar := ir.Variable(int(plan.inputGateRef(i)))
		argVar := ir.Variable(v + i)
		statements = append(statements, ir.NewConstraint(
			ir.FromLinComb(f, ir.FromVariable(f, csVar)),
			ir.FromVariable(f, argVar),
			"",
		))
	}

	cons, err := constraintsFromPlan(plan.plan, f)
	if err != nil {
		return ir.Function{}, err
	}
	statements = append(statements, cons...)

	returns := make([]ir.Variable, Sha256RoundOutputCount)
	for i, r := range plan.outputBits {
		returns[i] = ir.Variable(int(r))
	}

	return ir.Function{
		Name:      "sha256_round",
		Arguments: args,
		Statements: statements,
		Returns:   returns,
	}, nil
}

func (p *sha256RoundPlan) inputGateRef(i int) bitRef {
	if i < 512 {
		return p.messageBits[i]
	}
	return p.hashBits[i-512]
}

// constraintsFromPlan emits one constraint per gate: a const gate is pinned
// to its literal value (v_i = k*ONE), an input gate is pinned by the
// caller's argument-binding constraint and needs none here, and every
// derived gate gets the constraint that actually checks its computation.
// Without the const binding a prover could assign a round-constant or zero
// wire — populated only by the Sha256RoundSolver directive — any value it
// likes, since nothing else in the gate list would otherwise constrain it.
func constraintsFromPlan(p *roundPlan, f ir.Field) ([]ir.Statement, error) {
	two := f.FromUint64(2)
	invTwo, ok := two.Inverse()
	if !ok {
		return nil, fmt.Errorf("gadgets: field has no inverse of 2")
	}

	var out []ir.Statement
	for idx, g := range p.gates {
		self := ir.Variable(idx)
		switch g.kind {
		case gateConst:
			out = append(out, ir.NewConstraint(
				ir.FromLinComb(f, ir.FromVariable(f, self)),
				ir.Constant(f, f.FromUint64(g.constVal)),
				"",
			))
		case gateInput:
			// no constraint: pinned by the caller's argument-binding constraint.
		case gateXor:
			a, b := ir.Variable(g.args[0]), ir.Variable(g.args[1])
			// 2a*b = a+b-o  =>  o = a+b-2ab
			quad := ir.NewQuadComb(ir.Summand(two, a), ir.FromVariable(f, b))
			lin := ir.FromVariable(f, a).Add(ir.FromVariable(f, b)).Add(ir.Summand(f.One().Neg(), self))
			out = append(out, ir.NewConstraint(quad, lin, ""))
		case gateAnd:
			a, b := ir.Variable(g.args[0]), ir.Variable(g.args[1])
			quad := ir.NewQuadComb(ir.FromVariable(f, a), ir.FromVariable(f, b))
			out = append(out, ir.NewConstraint(quad, ir.FromVariable(f, self), ""))
		case gateCarry:
			a, b, c, sum := ir.Variable(g.args[0]), ir.Variable(g.args[1]), ir.Variable(g.args[2]), ir.Variable(g.args[3])
			// carry = (a+b+c-sum)/2
			lin := ir.FromVariable(f, a).Add(ir.FromVariable(f, b)).Add(ir.FromVariable(f, c)).Add(ir.Summand(f.One().Neg(), sum))
			quad := ir.NewQuadComb(ir.Constant(f, invTwo), lin)
			out = append(out, ir.NewConstraint(quad, ir.FromVariable(f, self), ""))
		}
	}
	return out, nil
}

// EvaluateSha256RoundTrace computes the value of every cs variable (gate) in
// plan order, given the 768 concrete input bits. It is the pure function
// backing the sha256_round Solver: by construction it walks the same gate
// list constraintsFromPlan consumed, so its i-th output is exactly the
// value the i-th constraint (if any) pins variable i to.
func EvaluateSha256RoundTrace(f ir.Field, inputs []ir.Element) ([]ir.Element, error) {
	if len(inputs) != Sha256RoundInputCount {
		return nil, fmt.Errorf("sha256_round: expected %d inputs, got %d", Sha256RoundInputCount, len(inputs))
	}
	p := sharedSha256Plan.plan
	vals := make([]ir.Element, len(p.gates))
	for idx, g := range p.gates {
		switch g.kind {
		case gateConst:
			vals[idx] = f.FromUint64(g.constVal)
		case gateInput:
			vals[idx] = inputs[g.inputIdx]
		case gateXor:
			a, b := vals[g.args[0]], vals[g.args[1]]
			vals[idx] = xorBit(f, a, b)
		case gateAnd:
			vals[idx] = vals[g.args[0]].Mul(vals[g.args[1]])
		case gateCarry:
			a, b, c, sum := vals[g.args[0]], vals[g.args[1]], vals[g.args[2]], vals[g.args[3]]
			total := a.Add(b).Add(c).Sub(sum)
			two := f.FromUint64(2)
			invTwo, ok := two.Inverse()
			if !ok {
				return nil, fmt.Errorf("sha256_round: field has no inverse of 2")
			}
			vals[idx] = total.Mul(invTwo)
		}
	}
	return vals, nil
}

func xorBit(f ir.Field, a, b ir.Element) ir.Element {
	ab := a.Mul(b)
	two := f.FromUint64(2)
	return a.Add(b).Sub(ab.Mul(two))
}

// Sha256RoundVariableCount returns the number of cs variables (gates) in the
// shared plan, i.e. the width of the witness trace the solver produces.
func Sha256RoundVariableCount() int {
	return len(sharedSha256Plan.plan.gates)
}

// Sha256RoundSolver implements ir.Solver for the embedded sha256_round
// gadget, delegating to EvaluateSha256RoundTrace so the directive and the
// constraint builder above always agree on wiring. Gate 0 (the plan's "one"
// wire) is dropped from the returned values: it is never a directive
// output (see Sha256RoundFunction), so the solver's output count and order
// must match that.
type Sha256RoundSolver struct{}

var _ ir.Solver = Sha256RoundSolver{}

func (Sha256RoundSolver) Name() string    { return "sha256_round" }
func (Sha256RoundSolver) NumOutputs() int { return Sha256RoundVariableCount() - 1 }

func (Sha256RoundSolver) Solve(f ir.Field, inputs []ir.Element) ([]ir.Element, error) {
	full, err := EvaluateSha256RoundTrace(f, inputs)
	if err != nil {
		return nil, err
	}
	return full[1:], nil
}

// referenceCompress is the plain-arithmetic SHA-256 compression function
// (FIPS 180-4), used only by tests as an independent check on the bit-level
// gadget's arithmetic.
func referenceCompress(w0 [16]uint32, h0 [8]uint32) [8]uint32 {
	var w [64]uint32
	copy(w[:16], w0[:])
	for t := 16; t < 64; t++ {
		s0 := bits.RotateLeft32(w[t-15], -7) ^ bits.RotateLeft32(w[t-15], -18) ^ (w[t-15] >> 3)
		s1 := bits.RotateLeft32(w[t-2], -17) ^ bits.RotateLeft32(w[t-2], -19) ^ (w[t-2] >> 10)
		w[t] = w[t-16] + s0 + w[t-7] + s1
	}
	a, b, c, d, e, f, g, h := h0[0], h0[1], h0[2], h0[3], h0[4], h0[5], h0[6], h0[7]
	for t := 0; t < 64; t++ {
		s1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + sha256K[t] + w[t]
		s0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj
		h, g, f, e = g, f, e, d+t1
		d, c, b, a = c, b, a, t1+t2
	}
	return [8]uint32{h0[0] + a, h0[1] + b, h0[2] + c, h0[3] + d, h0[4] + e, h0[5] + f, h0[6] + g, h0[7] + h}
}

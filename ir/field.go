// Package ir implements the arithmetic intermediate representation that the
// flattener emits and the optimizer/analyzer consume: linear and quadratic
// combinations over variables, R1CS constraints, non-deterministic
// directives, and the Prog/Function containers around them.
package ir

import "math/big"

// Element is a single value in F_p. Implementations must be comparable by
// value (Equal) and must never mutate the receiver or the argument.
//
// The core never assumes a particular prime; the only concrete
// implementation shipped here is ir/bn254, wrapping gnark-crypto's bn254 fr
// element.
type Element interface {
	Add(Element) Element
	Sub(Element) Element
	Mul(Element) Element
	Neg() Element
	// Inverse returns (x⁻¹, true), or (undefined, false) if the receiver is
	// zero.
	Inverse() (Element, bool)
	IsZero() bool
	Equal(Element) bool
	// Bytes returns the big-endian encoding of the element (to_bytes_be).
	Bytes() []byte
	String() string
}

// Field manufactures Elements and reports field-wide constants: an
// abstraction over the concrete prime field so the rest of the package never
// hard-codes a modulus. RequiredBits in particular parameterizes the
// bit-decomposition gadget.
type Field interface {
	Zero() Element
	One() Element
	FromUint64(uint64) Element
	FromBigInt(*big.Int) Element
	// RequiredBits returns β = ⌈log₂ p⌉, the host bit-width of the field.
	RequiredBits() int
	Modulus() *big.Int
}

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

// Package bn254 implements ir.Field over the BN254 (a.k.a. BN128) scalar
// field, using gnark-crypto's fr.Element — the same field library every
// gnark fork in the retrieval pack depends on.
package bn254

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/johnnydotdev/zokrates-go/ir"
)

// Field is the BN254 scalar field instance. It carries no state; it exists
// so ir.Field has something concrete to name.
type Field struct{}

var _ ir.Field = Field{}

func (Field) Zero() ir.Element { return Element{} }

func (Field) One() ir.Element {
	var e fr.Element
	e.SetOne()
	return Element{e}
}

func (Field) FromUint64(v uint64) ir.Element {
	var e fr.Element
	e.SetUint64(v)
	return Element{e}
}

func (Field) FromBigInt(v *big.Int) ir.Element {
	var e fr.Element
	e.SetBigInt(v)
	return Element{e}
}

// RequiredBits returns β = ⌈log₂ p⌉ for the BN254 scalar field (254 bits).
func (Field) RequiredBits() int {
	return fr.Bits
}

func (Field) Modulus() *big.Int {
	return fr.Modulus()
}

// Element wraps fr.Element to satisfy ir.Element.
type Element struct {
	v fr.Element
}

var _ ir.Element = Element{}

func (e Element) Add(o ir.Element) ir.Element {
	var r fr.Element
	r.Add(&e.v, &o.(Element).v)
	return Element{r}
}

func (e Element) Sub(o ir.Element) ir.Element {
	var r fr.Element
	r.Sub(&e.v, &o.(Element).v)
	return Element{r}
}

func (e Element) Mul(o ir.Element) ir.Element {
	var r fr.Element
	r.Mul(&e.v, &o.(Element).v)
	return Element{r}
}

func (e Element) Neg() ir.Element {
	var r fr.Element
	r.Neg(&e.v)
	return Element{r}
}

func (e Element) Inverse() (ir.Element, bool) {
	if e.v.IsZero() {
		return Element{}, false
	}
	var r fr.Element
	r.Inverse(&e.v)
	return Element{r}, true
}

func (e Element) IsZero() bool {
	return e.v.IsZero()
}

func (e Element) Equal(o ir.Element) bool {
	other, ok := o.(Element)
	if !ok {
		return false
	}
	return e.v.Equal(&other.v)
}

func (e Element) Bytes() []byte {
	b := e.v.Bytes()
	return b[:]
}

func (e Element) String() string {
	return e.v.String()
}

// Bit returns the i-th bit (0 = least significant) of the element's
// canonical big.Int representation. Used by the Bits solver.
func (e Element) Bit(i int) uint64 {
	var b big.Int
	e.v.BigInt(&b)
	return uint64(b.Bit(i))
}

package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnnydotdev/zokrates-go/ir"
	"github.com/johnnydotdev/zokrates-go/ir/bn254"
)

func TestLinCombReduceMergesAndSortsTerms(t *testing.T) {
	f := bn254.Field{}
	l := ir.LinComb{Terms: []ir.Term{
		{Coefficient: f.FromUint64(2), Variable: 3},
		{Coefficient: f.FromUint64(5), Variable: 1},
		{Coefficient: f.FromUint64(3), Variable: 3},
	}}
	reduced := l.Reduce()
	require.Len(t, reduced.Terms, 2)
	require.Equal(t, ir.Variable(1), reduced.Terms[0].Variable)
	require.Equal(t, ir.Variable(3), reduced.Terms[1].Variable)
	require.True(t, reduced.Terms[1].Coefficient.Equal(f.FromUint64(5)))
}

func TestLinCombReduceDropsZeroCoefficients(t *testing.T) {
	f := bn254.Field{}
	l := ir.LinComb{Terms: []ir.Term{
		{Coefficient: f.FromUint64(7), Variable: 2},
		{Coefficient: f.FromUint64(7).Neg(), Variable: 2},
	}}
	reduced := l.Reduce()
	require.Empty(t, reduced.Terms)
	require.True(t, reduced.IsZero())
}

func TestTryConstantSucceedsOnlyForBareOneTerm(t *testing.T) {
	f := bn254.Field{}
	c := ir.Constant(f, f.FromUint64(9))
	v, ok := c.TryConstant(f)
	require.True(t, ok)
	require.True(t, v.Equal(f.FromUint64(9)))

	mixed := c.Add(ir.FromVariable(f, 4))
	_, ok = mixed.TryConstant(f)
	require.False(t, ok)

	zero := ir.Zero()
	v, ok = zero.TryConstant(f)
	require.True(t, ok)
	require.True(t, v.IsZero())
}

func TestTrySummandRejectsOneTermAndMultiTerm(t *testing.T) {
	f := bn254.Field{}
	single := ir.Summand(f.FromUint64(4), 7)
	term, ok := single.TrySummand()
	require.True(t, ok)
	require.Equal(t, ir.Variable(7), term.Variable)

	withOne := single.Add(ir.Constant(f, f.FromUint64(1)))
	_, ok = withOne.TrySummand()
	require.False(t, ok)
}

func TestQuadCombTryLinearScalesOtherSide(t *testing.T) {
	f := bn254.Field{}
	q := ir.NewQuadComb(ir.Constant(f, f.FromUint64(3)), ir.FromVariable(f, 5))
	lin, ok := q.TryLinear(f)
	require.True(t, ok)
	term, ok := lin.TrySummand()
	require.True(t, ok)
	require.True(t, term.Coefficient.Equal(f.FromUint64(3)))

	notLinear := ir.NewQuadComb(ir.FromVariable(f, 1), ir.FromVariable(f, 2))
	_, ok = notLinear.TryLinear(f)
	require.False(t, ok)
}

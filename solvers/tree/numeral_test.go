package tree

import (
	"math"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosmt/smt"
)

func newTestManager(t *testing.T, nonLinear bool) *smt.Manager[*Node] {
	m, err := NewManager(Config{NonLinearArithmetic: nonLinear})
	require.Nil(t, err)
	return m
}

func decompose(t *testing.T, m *smt.Manager[*Node], f smt.Formula) smt.TermShape[*Node] {
	shape, err := m.Creator().Backend().Decompose(m.Creator().ExtractInfo(f))
	require.Nil(t, err)
	return shape
}

func Test_multiplyLinear(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	k := im.MakeNumberInt64(3)

	product, err := im.Multiply(k, x)
	require.Nil(t, err)

	shape := decompose(t, m, product)
	assert.Equal(t, smt.FuncAppShape, shape.Kind)
	assert.Equal(t, smt.MulKind, shape.Decl.Kind)
}

func Test_multiplyFallsBackToUF(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)

	product, err := im.Multiply(x, y)
	require.Nil(t, err)

	shape := decompose(t, m, product)
	assert.Equal(t, smt.FuncAppShape, shape.Kind)
	assert.Equal(t, smt.UFKind, shape.Decl.Kind)
	assert.Equal(t, "Integer__*_", shape.Decl.Name)
}

func Test_multiplyNonLinear(t *testing.T) {
	m := newTestManager(t, true)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)

	square, err := im.Multiply(x, x)
	require.Nil(t, err)

	shape := decompose(t, m, square)
	assert.Equal(t, smt.MulKind, shape.Decl.Kind)
}

func Test_divideAndModuloDispatch(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)
	five := im.MakeNumberInt64(5)

	linear, err := im.Divide(x, five)
	require.Nil(t, err)
	assert.Equal(t, smt.DivKind, decompose(t, m, linear).Decl.Kind)

	// A literal dividend does not make the division linear.
	uf, err := im.Divide(five, y)
	require.Nil(t, err)
	assert.Equal(t, "Integer__/_", decompose(t, m, uf).Decl.Name)

	mod, err := im.Modulo(x, five)
	require.Nil(t, err)
	assert.Equal(t, smt.ModuloKind, decompose(t, m, mod).Decl.Kind)

	modUF, err := im.Modulo(x, y)
	require.Nil(t, err)
	assert.Equal(t, "Integer__%_", decompose(t, m, modUF).Decl.Name)
}

func Test_rationalModuloUsesUF(t *testing.T) {
	m := newTestManager(t, false)
	rm, err := m.RationalManager()
	require.Nil(t, err)

	x, err := rm.MakeVariable("rx")
	require.Nil(t, err)
	two := rm.MakeNumberInt64(2)

	mod, err := rm.Modulo(x, two)
	require.Nil(t, err)
	assert.Equal(t, "Rational__%_", decompose(t, m, mod).Decl.Name)
}

func Test_rationalNonLinearModuloUnsupported(t *testing.T) {
	m := newTestManager(t, true)
	rm, err := m.RationalManager()
	require.Nil(t, err)

	x, err := rm.MakeVariable("rx")
	require.Nil(t, err)
	y, err := rm.MakeVariable("ry")
	require.Nil(t, err)

	_, err = rm.Modulo(x, y)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrUnsupportedOperation))
	assert.Contains(t, err.Error(), "non-linear arithmetic")
}

func Test_decimalAsInteger(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	n, err := im.MakeNumber("1.25")
	require.Nil(t, err)

	shape := decompose(t, m, n)
	require.Equal(t, smt.FuncAppShape, shape.Kind)
	assert.Equal(t, smt.DivKind, shape.Decl.Kind)
	require.Len(t, shape.Args, 2)
	assert.Equal(t, "125", shape.Args[0].num.RatString())
	assert.Equal(t, "100", shape.Args[1].num.RatString())
}

func Test_makeNumberVariants(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)
	rm, err := m.RationalManager()
	require.Nil(t, err)

	a := im.MakeNumberInt64(42)
	b, err := im.MakeNumberBig(big.NewInt(42))
	require.Nil(t, err)
	c, err := im.MakeNumber("42")
	require.Nil(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	half, err := rm.MakeNumberFloat64(0.5)
	require.Nil(t, err)
	alsoHalf, err := rm.MakeNumberRat(big.NewRat(1, 2))
	require.Nil(t, err)
	assert.Equal(t, half, alsoHalf)

	assert.True(t, rm.IsNumeral(half))
}

func Test_makeNumberFloat64(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)
	rm, err := m.RationalManager()
	require.Nil(t, err)

	three, err := im.MakeNumberFloat64(3.0)
	require.Nil(t, err)
	assert.Equal(t, im.MakeNumberInt64(3), three)

	// A fractional value on the integer manager keeps its exact value as a
	// division term instead of failing.
	frac, err := im.MakeNumberFloat64(1.25)
	require.Nil(t, err)
	viaString, err := im.MakeNumber("1.25")
	require.Nil(t, err)
	assert.Equal(t, viaString, frac)
	assert.Equal(t, smt.DivKind, decompose(t, m, frac).Decl.Kind)

	quarter, err := rm.MakeNumberFloat64(0.25)
	require.Nil(t, err)
	assert.Equal(t, "1/4", m.Creator().ExtractInfo(quarter).num.RatString())

	_, err = im.MakeNumberFloat64(math.NaN())
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))
	_, err = rm.MakeNumberFloat64(math.Inf(1))
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))
}

func Test_sumFoldsFromZero(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	total, err := im.Sum(nil)
	require.Nil(t, err)
	assert.True(t, im.IsNumeral(total))

	one := im.MakeNumberInt64(1)
	two := im.MakeNumberInt64(2)
	total, err = im.Sum([]smt.IntegerFormula{one, two})
	require.Nil(t, err)
	assert.Equal(t, im.MakeNumberInt64(3), total)
}

func Test_modularCongruence(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)

	cong, err := im.ModularCongruence(x, y, 7)
	require.Nil(t, err)
	assert.Equal(t, smt.BooleanTypeKind, m.GetFormulaType(cong).Kind)

	_, err = im.ModularCongruence(x, y, 0)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))
}

package yices

import (
	"math/big"
	"testing"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosmt/smt"
)

func Test_unsupportedTheories(t *testing.T) {
	Init()
	defer Exit()

	m, err := NewManager()
	require.Nil(t, err)

	_, err = m.IntegerManager()
	assert.True(t, errors.Is(err, smt.ErrUnsupportedTheory))
	_, err = m.RationalManager()
	assert.True(t, errors.Is(err, smt.ErrUnsupportedTheory))
	_, err = m.FloatingPointManager()
	assert.True(t, errors.Is(err, smt.ErrUnsupportedTheory))
	_, err = m.ArrayManager()
	assert.True(t, errors.Is(err, smt.ErrUnsupportedTheory))
	_, err = m.QuantifiedManager()
	assert.True(t, errors.Is(err, smt.ErrUnsupportedTheory))

	_, err = m.MakeVariable(smt.IntegerType, "x")
	assert.True(t, errors.Is(err, smt.ErrUnsupportedTheory))

	_, err = m.BitvectorManager()
	assert.Nil(t, err)
}

func Test_booleanTerms(t *testing.T) {
	Init()
	defer Exit()

	m, err := NewManager()
	require.Nil(t, err)
	bm := m.BooleanManager()

	assert.True(t, bm.IsTrue(bm.MakeTrue()))
	assert.True(t, bm.IsFalse(bm.MakeFalse()))

	p, err := bm.MakeVariable("p")
	require.Nil(t, err)
	assert.False(t, bm.IsTrue(p))

	shape, err := m.Creator().Backend().Decompose(m.Creator().ExtractInfo(p))
	require.Nil(t, err)
	assert.Equal(t, smt.FreeVariableShape, shape.Kind)
	assert.Equal(t, "p", shape.Name)

	np, err := bm.Not(p)
	require.Nil(t, err)
	_, err = m.Creator().Backend().Decompose(m.Creator().ExtractInfo(np))
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrUnsupportedOperation))
}

func Test_bitvectorSolving(t *testing.T) {
	Init()
	defer Exit()

	m, err := NewManager()
	require.Nil(t, err)
	bm, err := m.BitvectorManager()
	require.Nil(t, err)

	a, err := bm.MakeVariable(8, "a")
	require.Nil(t, err)
	b, err := bm.MakeVariable(8, "b")
	require.Nil(t, err)

	three, err := bm.MakeBitvector(8, int64(3))
	require.Nil(t, err)
	ten, err := bm.MakeBitvector(8, int64(10))
	require.Nil(t, err)

	sum, err := bm.Add(a, b)
	require.Nil(t, err)
	sumIsTen, err := bm.Equal(sum, ten)
	require.Nil(t, err)
	aIsThree, err := bm.Equal(a, three)
	require.Nil(t, err)

	solver := NewSolver(m)
	require.Nil(t, solver.Assert(sumIsTen, aIsThree))

	status, model, err := solver.Check()
	require.Nil(t, err)
	require.Equal(t, StatusSat, status)
	defer model.Close()

	v, err := model.BitvectorValue(b)
	require.Nil(t, err)
	assert.Equal(t, big.NewInt(7), v)
}

func Test_solverPushPop(t *testing.T) {
	Init()
	defer Exit()

	m, err := NewManager()
	require.Nil(t, err)
	bm, err := m.BitvectorManager()
	require.Nil(t, err)

	x, err := bm.MakeVariable(8, "x")
	require.Nil(t, err)
	zero, err := bm.MakeBitvector(8, int64(0))
	require.Nil(t, err)
	one, err := bm.MakeBitvector(8, int64(1))
	require.Nil(t, err)

	isZero, err := bm.Equal(x, zero)
	require.Nil(t, err)
	isOne, err := bm.Equal(x, one)
	require.Nil(t, err)

	solver := NewSolver(m)
	require.Nil(t, solver.Assert(isZero))
	require.Nil(t, solver.Push())
	require.Nil(t, solver.Assert(isOne))

	status, _, err := solver.Check()
	require.Nil(t, err)
	assert.Equal(t, StatusUnsat, status)

	require.Nil(t, solver.Pop())
	status, model, err := solver.Check()
	require.Nil(t, err)
	assert.Equal(t, StatusSat, status)
	if model != nil {
		model.Close()
	}
}

func Test_uninterpretedFunctionSolving(t *testing.T) {
	Init()
	defer Exit()

	m, err := NewManager()
	require.Nil(t, err)
	bm, err := m.BitvectorManager()
	require.Nil(t, err)
	fm := m.FunctionManager()

	a, err := bm.MakeVariable(8, "ua")
	require.Nil(t, err)
	b, err := bm.MakeVariable(8, "ub")
	require.Nil(t, err)

	decl, err := fm.DeclareFunction("g", smt.BitvectorType(8), smt.BitvectorType(8))
	require.Nil(t, err)
	ga, err := fm.CallFunction(decl, a)
	require.Nil(t, err)
	gb, err := fm.CallFunction(decl, b)
	require.Nil(t, err)

	// a = b together with g(a) != g(b) violates congruence.
	same, err := bm.Equal(a, b)
	require.Nil(t, err)
	appsEqual, err := bm.Equal(ga.(smt.BitvectorFormula), gb.(smt.BitvectorFormula))
	require.Nil(t, err)
	appsDiffer, err := m.BooleanManager().Not(appsEqual)
	require.Nil(t, err)

	solver := NewSolver(m)
	require.Nil(t, solver.Assert(same, appsDiffer))

	status, _, err := solver.Check()
	require.Nil(t, err)
	assert.Equal(t, StatusUnsat, status)
}

func Test_typeOfRejectsFunctionTerms(t *testing.T) {
	Init()
	defer Exit()

	m, err := NewManager()
	require.Nil(t, err)

	decl, err := m.FunctionManager().DeclareFunction("h", smt.BitvectorType(8), smt.BitvectorType(8))
	require.Nil(t, err)

	fn := decl.Symbol().(yices2.TermT)
	assert.Panics(t, func() { m.Creator().Backend().TypeOf(fn) })
}

func Test_importSharesTerms(t *testing.T) {
	Init()
	defer Exit()

	src, err := NewManager()
	require.Nil(t, err)
	dst, err := NewManager()
	require.Nil(t, err)

	p, err := src.BooleanManager().MakeVariable("shared_p")
	require.Nil(t, err)

	out, ok := dst.Creator().Backend().(smt.Importer[yices2.TermT]).Import(
		src.Creator().Backend(), src.Creator().ExtractInfo(p))
	require.True(t, ok)
	assert.Equal(t, src.Creator().ExtractInfo(p), out)
}

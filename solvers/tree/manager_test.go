package tree

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosmt/smt"
)

func Test_makeVariableDispatch(t *testing.T) {
	m := newTestManager(t, false)

	for _, typ := range []smt.Type{
		smt.BooleanType,
		smt.IntegerType,
		smt.RationalType,
		smt.BitvectorType(8),
		smt.FloatingPointType(8, 24),
		smt.ArrayType(smt.IntegerType, smt.IntegerType),
	} {
		v, err := m.MakeVariable(typ, "v_"+typ.String())
		require.Nil(t, err)
		assert.True(t, m.GetFormulaType(v).Equals(typ))
	}
}

func Test_makeVariableNameClash(t *testing.T) {
	m := newTestManager(t, false)

	_, err := m.MakeVariable(smt.IntegerType, "x")
	require.Nil(t, err)
	_, err = m.MakeVariable(smt.BooleanType, "x")
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))

	// Same name and type is idempotent.
	a, err := m.MakeVariable(smt.IntegerType, "x")
	require.Nil(t, err)
	b, err := m.MakeVariable(smt.IntegerType, "x")
	require.Nil(t, err)
	assert.Equal(t, a, b)
}

func Test_makeEqualDispatch(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)
	rm, err := m.RationalManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)
	r, err := rm.MakeVariable("r")
	require.Nil(t, err)

	eq, err := m.MakeEqual(x, y)
	require.Nil(t, err)
	assert.Equal(t, smt.EqKind, decompose(t, m, eq).Decl.Kind)

	mixed, err := m.MakeEqual(x, r)
	require.Nil(t, err)
	assert.Equal(t, smt.BooleanTypeKind, m.GetFormulaType(mixed).Kind)

	p, err := m.BooleanManager().MakeVariable("p")
	require.Nil(t, err)
	_, err = m.MakeEqual(p, x)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))
}

func Test_managerRejectsForeignCreator(t *testing.T) {
	envA := NewEnv()
	creatorA := smt.NewCreator[*Node](envA)
	envB := NewEnv()
	creatorB := smt.NewCreator[*Node](envB)

	booleans := smt.NewBooleanManager[*Node](creatorB, boolOps{env: envB})
	functions := smt.NewFunctionManager[*Node](creatorA, funcOps{env: envA})

	_, err := smt.NewManager(creatorA, booleans, functions, smt.Theories[*Node]{})
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "different creator")
}

func Test_splitNumeralEquality(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)
	bm, err := m.BitvectorManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)
	eq, err := im.Equal(x, y)
	require.Nil(t, err)

	parts, err := m.SplitNumeralEquality(eq)
	require.Nil(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, smt.LteKind, decompose(t, m, parts[0]).Decl.Kind)
	assert.Equal(t, smt.GteKind, decompose(t, m, parts[1]).Decl.Kind)

	a, err := bm.MakeVariable(8, "a")
	require.Nil(t, err)
	b, err := bm.MakeVariable(8, "b")
	require.Nil(t, err)
	bvEq, err := bm.Equal(a, b)
	require.Nil(t, err)
	parts, err = m.SplitNumeralEquality(bvEq)
	require.Nil(t, err)
	assert.Len(t, parts, 2)

	// A boolean equivalence stays whole.
	p, err := m.BooleanManager().MakeVariable("p")
	require.Nil(t, err)
	q, err := m.BooleanManager().MakeVariable("q")
	require.Nil(t, err)
	equiv, err := m.BooleanManager().Equivalence(p, q)
	require.Nil(t, err)
	parts, err = m.SplitNumeralEquality(equiv)
	require.Nil(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, smt.BooleanFormula(equiv), parts[0])
}

func Test_substitute(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)
	z, err := im.MakeVariable("z")
	require.Nil(t, err)

	sum, err := im.Add(x, y)
	require.Nil(t, err)
	lt, err := im.LessThan(sum, x)
	require.Nil(t, err)

	out, err := m.Substitute(lt, map[smt.Formula]smt.Formula{x: z})
	require.Nil(t, err)

	vars, err := m.ExtractVariables(out)
	require.Nil(t, err)
	assert.Contains(t, vars, "z")
	assert.Contains(t, vars, "y")
	assert.NotContains(t, vars, "x")
}

func Test_substituteRejectsTypeChange(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	p, err := m.BooleanManager().MakeVariable("p")
	require.Nil(t, err)
	gt, err := im.GreaterThan(x, im.MakeNumberInt64(0))
	require.Nil(t, err)

	_, err = m.Substitute(gt, map[smt.Formula]smt.Formula{x: p})
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))
}

func Test_simplify(t *testing.T) {
	m := newTestManager(t, false)
	bm := m.BooleanManager()

	p, err := bm.MakeVariable("p")
	require.Nil(t, err)
	conj, err := bm.And(bm.MakeTrue(), p)
	require.Nil(t, err)

	out, err := m.Simplify(conj)
	require.Nil(t, err)
	assert.Equal(t, smt.Formula(p), out)

	np, err := bm.Not(p)
	require.Nil(t, err)
	nnp, err := bm.Not(np)
	require.Nil(t, err)
	out, err = m.Simplify(nnp)
	require.Nil(t, err)
	assert.Equal(t, smt.Formula(p), out)
}

func Test_simplifyIdempotent(t *testing.T) {
	m := newTestManager(t, false)
	bm := m.BooleanManager()

	p, err := bm.MakeVariable("p")
	require.Nil(t, err)
	q, err := bm.MakeVariable("q")
	require.Nil(t, err)

	np, err := bm.Not(p)
	require.Nil(t, err)
	nnp, err := bm.Not(np)
	require.Nil(t, err)
	inner, err := bm.And(nnp, bm.MakeTrue(), q)
	require.Nil(t, err)
	f, err := bm.Or(inner, bm.MakeFalse())
	require.Nil(t, err)

	once, err := m.Simplify(f)
	require.Nil(t, err)
	twice, err := m.Simplify(once)
	require.Nil(t, err)
	assert.Equal(t, once, twice)
}

func Test_dumpRequiresBoolean(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	_, err = m.Dump(x)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))
}

func Test_dumpParseRoundTrip(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)
	sum, err := im.Add(x, y)
	require.Nil(t, err)
	lt, err := im.LessThan(sum, im.MakeNumberInt64(10))
	require.Nil(t, err)

	dumped, err := m.Dump(lt)
	require.Nil(t, err)
	assert.Contains(t, dumped, "declare-fun x")
	assert.Contains(t, dumped, "(assert (< (+ x y) 10))")

	parsed, err := m.Parse(dumped)
	require.Nil(t, err)
	assert.Equal(t, smt.BooleanFormula(lt), parsed)
}

func Test_translateIdentity(t *testing.T) {
	m := newTestManager(t, false)
	p, err := m.BooleanManager().MakeVariable("p")
	require.Nil(t, err)

	out, err := smt.Translate(context.Background(), m, p, m)
	require.Nil(t, err)
	assert.Equal(t, smt.BooleanFormula(p), out)
}

func Test_translateAcrossEnvironments(t *testing.T) {
	src := newTestManager(t, false)
	dst := newTestManager(t, false)

	im, err := src.IntegerManager()
	require.Nil(t, err)
	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	gt, err := im.GreaterThan(x, im.MakeNumberInt64(3))
	require.Nil(t, err)

	out, err := smt.Translate(context.Background(), src, gt, dst)
	require.Nil(t, err)

	srcDump, err := src.Dump(gt)
	require.Nil(t, err)
	dstDump, err := dst.Dump(out)
	require.Nil(t, err)
	assert.Equal(t, srcDump, dstDump)
}

func Test_translateCancelled(t *testing.T) {
	src := newTestManager(t, false)
	dst := newTestManager(t, false)

	p, err := src.BooleanManager().MakeVariable("p")
	require.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = smt.Translate(ctx, src, p, dst)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInterrupted))
}

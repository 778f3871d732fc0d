package tree

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosmt/smt"
)

type countingTransformer struct {
	smt.IdentityTransformer
	funcApps int
}

func (c *countingTransformer) TransformFuncApp(f smt.Formula, args []smt.Formula, decl smt.FuncDecl, rebuild smt.Rebuild) (smt.Formula, error) {
	c.funcApps++
	return rebuild(args)
}

func Test_transformVisitsSharedSubtermOnce(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)
	shared, err := im.Add(x, y)
	require.Nil(t, err)

	// shared appears twice below but is one DAG node.
	left, err := im.LessThan(shared, im.MakeNumberInt64(1))
	require.Nil(t, err)
	right, err := im.GreaterThan(shared, im.MakeNumberInt64(10))
	require.Nil(t, err)
	both, err := m.BooleanManager().Or(left, right)
	require.Nil(t, err)

	tr := &countingTransformer{}
	out, err := smt.TransformRecursively(m.Creator(), both, tr)
	require.Nil(t, err)
	assert.Equal(t, smt.Formula(both), out)
	// or, <, >, and one shared +.
	assert.Equal(t, 4, tr.funcApps)
}

type renamingTransformer struct {
	smt.IdentityTransformer
	manager *smt.Manager[*Node]
}

func (r *renamingTransformer) TransformFreeVariable(f smt.Formula, name string) (smt.Formula, error) {
	return r.manager.MakeVariable(r.manager.GetFormulaType(f), name+"_renamed")
}

func Test_transformRebuildsParents(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	gt, err := im.GreaterThan(x, im.MakeNumberInt64(0))
	require.Nil(t, err)

	out, err := smt.TransformRecursively(m.Creator(), gt, &renamingTransformer{manager: m})
	require.Nil(t, err)

	vars, err := m.ExtractVariables(out)
	require.Nil(t, err)
	assert.Contains(t, vars, "x_renamed")
	assert.NotContains(t, vars, "x")
}

type abortingVisitor struct {
	smt.TraversalVisitor
	visited int
}

func (a *abortingVisitor) VisitFuncApp(f smt.Formula, args []smt.Formula, decl smt.FuncDecl, rebuild smt.Rebuild) (smt.TraversalProcess, error) {
	a.visited++
	return smt.TraversalAbort, nil
}

func (a *abortingVisitor) VisitFreeVariable(f smt.Formula, name string) (smt.TraversalProcess, error) {
	a.visited++
	return smt.TraversalContinue, nil
}

func Test_visitRecursivelyAbort(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	gt, err := im.GreaterThan(x, im.MakeNumberInt64(0))
	require.Nil(t, err)

	v := &abortingVisitor{}
	require.Nil(t, smt.VisitRecursively(m.Creator(), gt, v))
	// The root application aborts before any child is reached.
	assert.Equal(t, 1, v.visited)
}

func Test_extractVariablesAndUFs(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	y, err := im.MakeVariable("y")
	require.Nil(t, err)

	// x * y without non-linear support applies the fallback UF.
	product, err := im.Multiply(x, y)
	require.Nil(t, err)
	gt, err := im.GreaterThan(product, im.MakeNumberInt64(4))
	require.Nil(t, err)

	vars, err := m.ExtractVariables(gt)
	require.Nil(t, err)
	assert.Len(t, vars, 2)

	all, err := m.ExtractVariablesAndUFs(gt)
	require.Nil(t, err)
	assert.Len(t, all, 3)
	assert.Contains(t, all, "Integer__*_")
}

type rebuildingVisitor struct {
	smt.TraversalVisitor
	rebuilt smt.Formula
}

func (r *rebuildingVisitor) VisitFuncApp(f smt.Formula, args []smt.Formula, decl smt.FuncDecl, rebuild smt.Rebuild) (smt.TraversalProcess, error) {
	out, err := rebuild(args)
	if err != nil {
		return smt.TraversalAbort, err
	}
	r.rebuilt = out
	return smt.TraversalAbort, nil
}

func Test_visitRebuildIsIdentityOnSameArgs(t *testing.T) {
	m := newTestManager(t, false)
	im, err := m.IntegerManager()
	require.Nil(t, err)

	x, err := im.MakeVariable("x")
	require.Nil(t, err)
	lt, err := im.LessThan(x, im.MakeNumberInt64(2))
	require.Nil(t, err)

	v := &rebuildingVisitor{}
	require.Nil(t, smt.VisitRecursively(m.Creator(), lt, v))
	assert.Equal(t, smt.Formula(lt), v.rebuilt)
}

func Test_rebuildRejectsWrongArity(t *testing.T) {
	m := newTestManager(t, false)
	bm := m.BooleanManager()
	p, err := bm.MakeVariable("p")
	require.Nil(t, err)
	np, err := bm.Not(p)
	require.Nil(t, err)

	_, err = smt.Visit[*Node, smt.Formula](m.Creator(), np, &truncatingVisitor{})
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))
}

type truncatingVisitor struct{}

func (truncatingVisitor) VisitConstant(f smt.Formula, value any) (smt.Formula, error) {
	return f, nil
}

func (truncatingVisitor) VisitFreeVariable(f smt.Formula, name string) (smt.Formula, error) {
	return f, nil
}

func (truncatingVisitor) VisitBoundVariable(f smt.Formula, index int) (smt.Formula, error) {
	return f, nil
}

func (truncatingVisitor) VisitFuncApp(f smt.Formula, args []smt.Formula, decl smt.FuncDecl, rebuild smt.Rebuild) (smt.Formula, error) {
	return rebuild(nil)
}

func (truncatingVisitor) VisitQuantifier(f smt.BooleanFormula, q smt.Quantifier, bound []smt.Formula, body smt.BooleanFormula) (smt.Formula, error) {
	return f, nil
}

func Test_nnfTactic(t *testing.T) {
	m := newTestManager(t, false)
	bm := m.BooleanManager()

	p, err := bm.MakeVariable("p")
	require.Nil(t, err)
	q, err := bm.MakeVariable("q")
	require.Nil(t, err)
	conj, err := bm.And(p, q)
	require.Nil(t, err)
	neg, err := bm.Not(conj)
	require.Nil(t, err)

	out, err := m.ApplyTactic(context.Background(), neg, smt.TacticNNF)
	require.Nil(t, err)

	dumped, err := m.Dump(out)
	require.Nil(t, err)
	assert.Contains(t, dumped, "(assert (or (not p) (not q)))")
}

func Test_nnfImplication(t *testing.T) {
	m := newTestManager(t, false)
	bm := m.BooleanManager()

	p, err := bm.MakeVariable("p")
	require.Nil(t, err)
	q, err := bm.MakeVariable("q")
	require.Nil(t, err)
	impl, err := bm.Implication(p, q)
	require.Nil(t, err)

	out, err := m.ApplyTactic(context.Background(), impl, smt.TacticNNF)
	require.Nil(t, err)

	dumped, err := m.Dump(out)
	require.Nil(t, err)
	assert.Contains(t, dumped, "(assert (or (not p) q))")
}

func Test_tseitinCNFShape(t *testing.T) {
	m := newTestManager(t, false)
	bm := m.BooleanManager()

	p, err := bm.MakeVariable("p")
	require.Nil(t, err)
	q, err := bm.MakeVariable("q")
	require.Nil(t, err)
	r, err := bm.MakeVariable("r")
	require.Nil(t, err)
	inner, err := bm.And(q, r)
	require.Nil(t, err)
	f, err := bm.Or(p, inner)
	require.Nil(t, err)

	out, err := m.ApplyTactic(context.Background(), f, smt.TacticTseitinCNF)
	require.Nil(t, err)

	// Top level is a conjunction whose members are literals or disjunctions
	// of literals.
	shape := decompose(t, m, out)
	require.Equal(t, smt.AndKind, shape.Decl.Kind)
	for _, clause := range shape.Args {
		cs, err := m.Creator().Backend().Decompose(clause)
		require.Nil(t, err)
		if cs.Kind != smt.FuncAppShape {
			continue
		}
		assert.NotEqual(t, smt.AndKind, cs.Decl.Kind)
		for _, lit := range cs.Args {
			ls, err := m.Creator().Backend().Decompose(lit)
			require.Nil(t, err)
			if ls.Kind == smt.FuncAppShape {
				assert.Equal(t, smt.NotKind, ls.Decl.Kind)
			}
		}
	}

	vars, err := m.ExtractVariables(out)
	require.Nil(t, err)
	assert.Contains(t, vars, "_cnf_1")
}

func Test_qeLightUnsupported(t *testing.T) {
	m := newTestManager(t, false)
	p, err := m.BooleanManager().MakeVariable("p")
	require.Nil(t, err)

	_, err = m.ApplyTactic(context.Background(), p, smt.TacticQELight)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrUnsupportedOperation))
}

func Test_tacticCancelled(t *testing.T) {
	m := newTestManager(t, false)
	bm := m.BooleanManager()
	p, err := bm.MakeVariable("p")
	require.Nil(t, err)
	np, err := bm.Not(p)
	require.Nil(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.ApplyTactic(ctx, np, smt.TacticNNF)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInterrupted))
}

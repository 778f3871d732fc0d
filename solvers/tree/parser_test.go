package tree

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosmt/smt"
)

func Test_parseScript(t *testing.T) {
	m := newTestManager(t, false)

	f, err := m.Parse(`
(declare-fun x () Int)
(declare-fun y () Int)
(declare-fun f (Int Int) Int)
(assert (= (f x y) 7))
`)
	require.Nil(t, err)

	all, err := m.ExtractVariablesAndUFs(f)
	require.Nil(t, err)
	assert.Contains(t, all, "x")
	assert.Contains(t, all, "y")
	assert.Contains(t, all, "f")
}

func Test_parseMultipleAsserts(t *testing.T) {
	m := newTestManager(t, false)

	f, err := m.Parse(`
(declare-const p Bool)
(declare-const q Bool)
(assert p)
(assert q)
`)
	require.Nil(t, err)
	assert.Equal(t, smt.AndKind, decompose(t, m, f).Decl.Kind)
}

func Test_parseBitvectorScript(t *testing.T) {
	m := newTestManager(t, false)

	f, err := m.Parse(`
(declare-fun a () (_ BitVec 8))
(assert (bvult (bvadd a (_ bv1 8)) (_ bv16 8)))
`)
	require.Nil(t, err)

	dumped, err := m.Dump(f)
	require.Nil(t, err)
	assert.Contains(t, dumped, "(assert (bvult (bvadd a (_ bv1 8)) (_ bv16 8)))")
}

func Test_parseComments(t *testing.T) {
	m := newTestManager(t, false)

	_, err := m.Parse(`
; free boolean symbol
(declare-const p Bool)
(assert p) ; trailing note
`)
	require.Nil(t, err)
}

func Test_parseErrors(t *testing.T) {
	m := newTestManager(t, false)

	_, err := m.Parse("(assert (= x 1))")
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, smt.ErrInvalidArgument))

	_, err = m.Parse("(declare-const p Bool)")
	require.NotNil(t, err)

	_, err = m.Parse("(declare-const x Int)\n(assert x)")
	require.NotNil(t, err)

	_, err = m.Parse("(declare-const p Bool")
	require.NotNil(t, err)
}

func Test_parseRealCoercion(t *testing.T) {
	m := newTestManager(t, false)

	f, err := m.Parse(`
(declare-fun r () Real)
(assert (< r (/ 5 2)))
`)
	require.Nil(t, err)

	shape := decompose(t, m, f)
	require.Equal(t, smt.LtKind, shape.Decl.Kind)
	assert.Equal(t, smt.RationalTypeKind, shape.Args[1].typ.Kind)
	assert.Equal(t, "5/2", shape.Args[1].num.RatString())
}

func Test_parseNegativeNumeral(t *testing.T) {
	m := newTestManager(t, false)

	f, err := m.Parse(`
(declare-fun x () Int)
(assert (< x (- 3)))
`)
	require.Nil(t, err)

	shape := decompose(t, m, f)
	assert.Equal(t, "-3", shape.Args[1].num.RatString())
}

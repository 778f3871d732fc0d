package smt

import (
	"context"

	"github.com/pkg/errors"
)

// Theories bundles the optional theory managers of a solver environment.
// Absent theories stay nil and surface as unsupported-theory errors from the
// manager accessors.
type Theories[T comparable] struct {
	Integers       *IntegerManager[T]
	Rationals      *RationalManager[T]
	Bitvectors     *BitvectorManager[T]
	FloatingPoints *FloatingPointManager[T]
	Arrays         *ArrayManager[T]
	Quantified     *QuantifiedManager[T]
}

// Manager is the solver-environment façade. It composes the boolean and
// function managers, which every environment has, with whatever theory
// managers the backend supports.
type Manager[T comparable] struct {
	creator   *Creator[T]
	booleans  *BooleanManager[T]
	functions *FunctionManager[T]

	integers   *IntegerManager[T]
	rationals  *RationalManager[T]
	bitvectors *BitvectorManager[T]
	floats     *FloatingPointManager[T]
	arrays     *ArrayManager[T]
	quantified *QuantifiedManager[T]
}

// NewManager builds the façade. Every manager must be built on the same
// creator; a mismatch means formulas of different environments would be mixed
// and is rejected.
func NewManager[T comparable](
	creator *Creator[T],
	booleans *BooleanManager[T],
	functions *FunctionManager[T],
	theories Theories[T],
) (*Manager[T], error) {
	if booleans == nil || functions == nil {
		return nil, errInvalidf("boolean and function managers are required")
	}
	check := func(name string, c *Creator[T]) error {
		if c != creator {
			return errInvalidf("%s manager was built on a different creator", name)
		}
		return nil
	}
	if err := check("boolean", booleans.Creator()); err != nil {
		return nil, err
	}
	if err := check("function", functions.Creator()); err != nil {
		return nil, err
	}
	if theories.Integers != nil {
		if err := check("integer", theories.Integers.Creator()); err != nil {
			return nil, err
		}
	}
	if theories.Rationals != nil {
		if err := check("rational", theories.Rationals.Creator()); err != nil {
			return nil, err
		}
	}
	if theories.Bitvectors != nil {
		if err := check("bitvector", theories.Bitvectors.Creator()); err != nil {
			return nil, err
		}
	}
	if theories.FloatingPoints != nil {
		if err := check("floating-point", theories.FloatingPoints.Creator()); err != nil {
			return nil, err
		}
	}
	if theories.Arrays != nil {
		if err := check("array", theories.Arrays.Creator()); err != nil {
			return nil, err
		}
	}
	if theories.Quantified != nil {
		if err := check("quantified", theories.Quantified.Creator()); err != nil {
			return nil, err
		}
	}
	return &Manager[T]{
		creator:    creator,
		booleans:   booleans,
		functions:  functions,
		integers:   theories.Integers,
		rationals:  theories.Rationals,
		bitvectors: theories.Bitvectors,
		floats:     theories.FloatingPoints,
		arrays:     theories.Arrays,
		quantified: theories.Quantified,
	}, nil
}

func (m *Manager[T]) Creator() *Creator[T] { return m.creator }

func (m *Manager[T]) BooleanManager() *BooleanManager[T]   { return m.booleans }
func (m *Manager[T]) FunctionManager() *FunctionManager[T] { return m.functions }

func (m *Manager[T]) IntegerManager() (*IntegerManager[T], error) {
	if m.integers == nil {
		return nil, errors.Wrap(ErrUnsupportedTheory, "solver does not support integer theory")
	}
	return m.integers, nil
}

func (m *Manager[T]) RationalManager() (*RationalManager[T], error) {
	if m.rationals == nil {
		return nil, errors.Wrap(ErrUnsupportedTheory, "solver does not support rational theory")
	}
	return m.rationals, nil
}

func (m *Manager[T]) BitvectorManager() (*BitvectorManager[T], error) {
	if m.bitvectors == nil {
		return nil, errors.Wrap(ErrUnsupportedTheory, "solver does not support bitvector theory")
	}
	return m.bitvectors, nil
}

func (m *Manager[T]) FloatingPointManager() (*FloatingPointManager[T], error) {
	if m.floats == nil {
		return nil, errors.Wrap(ErrUnsupportedTheory, "solver does not support floating-point theory")
	}
	return m.floats, nil
}

func (m *Manager[T]) ArrayManager() (*ArrayManager[T], error) {
	if m.arrays == nil {
		return nil, errors.Wrap(ErrUnsupportedTheory, "solver does not support array theory")
	}
	return m.arrays, nil
}

func (m *Manager[T]) QuantifiedManager() (*QuantifiedManager[T], error) {
	if m.quantified == nil {
		return nil, errors.Wrap(ErrUnsupportedTheory, "solver does not support quantifier theory")
	}
	return m.quantified, nil
}

// GetFormulaType reports the type of any formula of this environment.
func (m *Manager[T]) GetFormulaType(f Formula) Type {
	return m.creator.GetFormulaType(f)
}

// MakeVariable creates a free variable of the given type, dispatching to the
// matching theory manager.
func (m *Manager[T]) MakeVariable(typ Type, name string) (Formula, error) {
	switch typ.Kind {
	case BooleanTypeKind:
		return m.booleans.MakeVariable(name)
	case IntegerTypeKind:
		im, err := m.IntegerManager()
		if err != nil {
			return nil, err
		}
		return im.MakeVariable(name)
	case RationalTypeKind:
		rm, err := m.RationalManager()
		if err != nil {
			return nil, err
		}
		return rm.MakeVariable(name)
	case BitvectorTypeKind:
		bm, err := m.BitvectorManager()
		if err != nil {
			return nil, err
		}
		return bm.MakeVariable(typ.Width, name)
	case FloatingPointTypeKind:
		fm, err := m.FloatingPointManager()
		if err != nil {
			return nil, err
		}
		return fm.MakeVariable(typ, name)
	case ArrayTypeKind:
		am, err := m.ArrayManager()
		if err != nil {
			return nil, err
		}
		return am.MakeArray(name, *typ.Index, *typ.Element)
	}
	return nil, errInvalidf("cannot make variable of type %s", typ)
}

// MakeEqual builds equality between two formulas of the same theory. Integer
// and rational operands may be mixed; the comparison is then rational.
func (m *Manager[T]) MakeEqual(a, b Formula) (BooleanFormula, error) {
	switch x := a.(type) {
	case BooleanFormula:
		y, ok := b.(BooleanFormula)
		if !ok {
			return nil, m.equalityMismatch(a, b)
		}
		return m.booleans.Equivalence(x, y)
	case IntegerFormula:
		switch y := b.(type) {
		case IntegerFormula:
			im, err := m.IntegerManager()
			if err != nil {
				return nil, err
			}
			return im.Equal(x, y)
		case RationalFormula:
			return m.mixedNumeralEqual(a, b)
		}
		return nil, m.equalityMismatch(a, b)
	case RationalFormula:
		switch b.(type) {
		case IntegerFormula, RationalFormula:
			return m.mixedNumeralEqual(a, b)
		}
		return nil, m.equalityMismatch(a, b)
	case BitvectorFormula:
		y, ok := b.(BitvectorFormula)
		if !ok {
			return nil, m.equalityMismatch(a, b)
		}
		bm, err := m.BitvectorManager()
		if err != nil {
			return nil, err
		}
		return bm.Equal(x, y)
	case FloatingPointFormula:
		y, ok := b.(FloatingPointFormula)
		if !ok {
			return nil, m.equalityMismatch(a, b)
		}
		fm, err := m.FloatingPointManager()
		if err != nil {
			return nil, err
		}
		return fm.Equal(x, y)
	case ArrayFormula:
		y, ok := b.(ArrayFormula)
		if !ok {
			return nil, m.equalityMismatch(a, b)
		}
		am, err := m.ArrayManager()
		if err != nil {
			return nil, err
		}
		return am.Equivalence(x, y)
	}
	return nil, m.equalityMismatch(a, b)
}

func (m *Manager[T]) mixedNumeralEqual(a, b Formula) (BooleanFormula, error) {
	rm, err := m.RationalManager()
	if err != nil {
		return nil, err
	}
	t, err := rm.backend.Equal(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}

func (m *Manager[T]) equalityMismatch(a, b Formula) error {
	return errInvalidf("cannot make equality between %s and %s",
		m.GetFormulaType(a), m.GetFormulaType(b))
}

// Simplify applies native simplification when the backend provides it and
// returns the input unchanged otherwise.
func (m *Manager[T]) Simplify(f Formula) (Formula, error) {
	s, ok := m.creator.Backend().(Simplifier[T])
	if !ok {
		return f, nil
	}
	t, err := s.Simplify(m.creator.ExtractInfo(f))
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateWithTypeOf(t), nil
}

// ExtractVariables collects the free variables of f by name.
func (m *Manager[T]) ExtractVariables(f Formula) (map[string]Formula, error) {
	return ExtractVariables(m.creator, f)
}

// ExtractVariablesAndUFs collects free variables and applied uninterpreted
// functions of f by name.
func (m *Manager[T]) ExtractVariablesAndUFs(f Formula) (map[string]Formula, error) {
	return ExtractVariablesAndUFs(m.creator, f)
}

type substitutionTransformer[T comparable] struct {
	IdentityTransformer
	creator *Creator[T]
	mapping map[T]Formula
}

func (s *substitutionTransformer[T]) lookup(f Formula) (Formula, bool) {
	r, ok := s.mapping[s.creator.ExtractInfo(f)]
	return r, ok
}

func (s *substitutionTransformer[T]) TransformConstant(f Formula, value any) (Formula, error) {
	if r, ok := s.lookup(f); ok {
		return r, nil
	}
	return f, nil
}

func (s *substitutionTransformer[T]) TransformFreeVariable(f Formula, name string) (Formula, error) {
	if r, ok := s.lookup(f); ok {
		return r, nil
	}
	return f, nil
}

func (s *substitutionTransformer[T]) TransformFuncApp(f Formula, args []Formula, decl FuncDecl, rebuild Rebuild) (Formula, error) {
	if r, ok := s.lookup(f); ok {
		return r, nil
	}
	return rebuild(args)
}

// Substitute replaces occurrences of the mapping's keys in f by their values,
// in parallel. Keys are matched against the original formula, not against
// already-rewritten parts. Backends providing Substitutor run natively;
// otherwise the rewrite runs over TransformRecursively.
func (m *Manager[T]) Substitute(f Formula, mapping map[Formula]Formula) (Formula, error) {
	for from, to := range mapping {
		ft, tt := m.GetFormulaType(from), m.GetFormulaType(to)
		if !ft.Equals(tt) {
			return nil, errInvalidf("substitution of %s by %s changes the type", ft, tt)
		}
	}
	if sub, ok := m.creator.Backend().(Substitutor[T]); ok {
		from := make([]T, 0, len(mapping))
		to := make([]T, 0, len(mapping))
		for k, v := range mapping {
			from = append(from, m.creator.ExtractInfo(k))
			to = append(to, m.creator.ExtractInfo(v))
		}
		t, err := sub.Substitute(m.creator.ExtractInfo(f), from, to)
		if err != nil {
			return nil, err
		}
		return m.creator.EncapsulateWithTypeOf(t), nil
	}
	tr := &substitutionTransformer[T]{creator: m.creator, mapping: map[T]Formula{}}
	for k, v := range mapping {
		tr.mapping[m.creator.ExtractInfo(k)] = v
	}
	return TransformRecursively(m.creator, f, tr)
}

// SplitNumeralEquality splits a top-level equality over integers, rationals
// or bitvectors into the pair [a <= b, a >= b]. Any other formula is returned
// unchanged as a single-element slice. Interpolation engines produce stronger
// interpolants from the split form.
func (m *Manager[T]) SplitNumeralEquality(f BooleanFormula) ([]BooleanFormula, error) {
	t := m.creator.ExtractInfo(f)
	shape, err := m.creator.Backend().Decompose(t)
	if err != nil {
		return nil, err
	}
	if shape.Kind != FuncAppShape || shape.Decl.Kind != EqKind || len(shape.Args) != 2 {
		return []BooleanFormula{f}, nil
	}
	a, b := shape.Args[0], shape.Args[1]

	var le, ge T
	switch m.creator.Backend().TypeOf(a).Kind {
	case IntegerTypeKind:
		im, err := m.IntegerManager()
		if err != nil {
			return nil, err
		}
		if le, err = im.backend.LessOrEquals(a, b); err != nil {
			return nil, err
		}
		if ge, err = im.backend.GreaterOrEquals(a, b); err != nil {
			return nil, err
		}
	case RationalTypeKind:
		rm, err := m.RationalManager()
		if err != nil {
			return nil, err
		}
		if le, err = rm.backend.LessOrEquals(a, b); err != nil {
			return nil, err
		}
		if ge, err = rm.backend.GreaterOrEquals(a, b); err != nil {
			return nil, err
		}
	case BitvectorTypeKind:
		bm, err := m.BitvectorManager()
		if err != nil {
			return nil, err
		}
		if le, err = bm.backend.LessOrEquals(a, b, false); err != nil {
			return nil, err
		}
		if ge, err = bm.backend.GreaterOrEquals(a, b, false); err != nil {
			return nil, err
		}
	default:
		return []BooleanFormula{f}, nil
	}
	return []BooleanFormula{
		m.creator.EncapsulateBoolean(le),
		m.creator.EncapsulateBoolean(ge),
	}, nil
}

// Dump serializes a boolean formula including the declarations of its
// symbols. Non-boolean formulas are rejected.
func (m *Manager[T]) Dump(f Formula) (string, error) {
	if m.GetFormulaType(f).Kind != BooleanTypeKind {
		return "", errInvalidf("can only dump boolean formulas, got %s", m.GetFormulaType(f))
	}
	return m.creator.Backend().Dump(m.creator.ExtractInfo(f))
}

// Parse deserializes a boolean formula produced by Dump, possibly by a
// different environment.
func (m *Manager[T]) Parse(s string) (BooleanFormula, error) {
	t, err := m.creator.Backend().Parse(s)
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}

// Translate moves a formula into the target environment. Same environment is
// the identity; a target that can import the source's native terms does so
// directly; everything else goes through a dump and parse round trip.
func Translate[S comparable, D comparable](
	ctx context.Context,
	source *Manager[S], f BooleanFormula, target *Manager[D],
) (BooleanFormula, error) {
	if any(source.creator) == any(target.creator) {
		return f, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(ErrInterrupted, "translate")
	}
	if imp, ok := target.creator.Backend().(Importer[D]); ok {
		if t, ok := imp.Import(source.creator.Backend(), source.creator.ExtractInfo(f)); ok {
			return target.creator.EncapsulateBoolean(t), nil
		}
	}
	dumped, err := source.Dump(f)
	if err != nil {
		return nil, errors.Wrap(err, "dumping for translation")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(ErrInterrupted, "translate")
	}
	out, err := target.Parse(dumped)
	if err != nil {
		return nil, errors.Wrap(err, "parsing translated formula")
	}
	return out, nil
}

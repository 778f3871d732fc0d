package smt

import "fmt"

// Creator wraps native terms into typed Formula values and unwraps them
// again. One creator belongs to one solver environment; formulas made by a
// different creator are foreign and must never be mixed in.
type Creator[T comparable] struct {
	backend TermBackend[T]
}

func NewCreator[T comparable](backend TermBackend[T]) *Creator[T] {
	return &Creator[T]{backend: backend}
}

func (c *Creator[T]) Backend() TermBackend[T] { return c.backend }

// Encapsulate wraps a native term as a formula of the given type.
func (c *Creator[T]) Encapsulate(typ Type, t T) Formula {
	switch typ.Kind {
	case BooleanTypeKind:
		return boolFormula[T]{info: t}
	case IntegerTypeKind:
		return intFormula[T]{info: t}
	case RationalTypeKind:
		return ratFormula[T]{info: t}
	case BitvectorTypeKind:
		return bvFormula[T]{info: t}
	case FloatingPointTypeKind:
		return fpFormula[T]{info: t}
	case ArrayTypeKind:
		return arrFormula[T]{info: t}
	}
	panic(fmt.Sprintf("cannot encapsulate term of unknown type %s", typ))
}

func (c *Creator[T]) EncapsulateBoolean(t T) BooleanFormula {
	return boolFormula[T]{info: t}
}

// EncapsulateWithTypeOf asks the backend for the term's type and wraps
// accordingly.
func (c *Creator[T]) EncapsulateWithTypeOf(t T) Formula {
	return c.Encapsulate(c.backend.TypeOf(t), t)
}

// ExtractInfo unwraps a formula back to its native term. Handing in a formula
// built by a creator with a different handle type is a caller bug and panics.
func (c *Creator[T]) ExtractInfo(f Formula) T {
	switch w := f.(type) {
	case boolFormula[T]:
		return w.info
	case intFormula[T]:
		return w.info
	case ratFormula[T]:
		return w.info
	case bvFormula[T]:
		return w.info
	case fpFormula[T]:
		return w.info
	case arrFormula[T]:
		return w.info
	}
	panic(fmt.Sprintf("formula %T belongs to a different solver environment", f))
}

func (c *Creator[T]) extractAll(fs []Formula) []T {
	ts := make([]T, len(fs))
	for i, f := range fs {
		ts[i] = c.ExtractInfo(f)
	}
	return ts
}

// GetFormulaType reports the type of a formula via the backend.
func (c *Creator[T]) GetFormulaType(f Formula) Type {
	return c.backend.TypeOf(c.ExtractInfo(f))
}

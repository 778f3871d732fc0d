package smt

// FloatingPointManager builds IEEE floating-point formulas.
type FloatingPointManager[T comparable] struct {
	creator *Creator[T]
	backend FloatingPointBackend[T]
}

func NewFloatingPointManager[T comparable](creator *Creator[T], backend FloatingPointBackend[T]) *FloatingPointManager[T] {
	return &FloatingPointManager[T]{creator: creator, backend: backend}
}

func (m *FloatingPointManager[T]) Creator() *Creator[T] { return m.creator }

func (m *FloatingPointManager[T]) wrap(t T) FloatingPointFormula {
	return fpFormula[T]{info: t}
}

func (m *FloatingPointManager[T]) MakeNumber(value float64, typ Type) (FloatingPointFormula, error) {
	if typ.Kind != FloatingPointTypeKind {
		return nil, errInvalidf("%s is not a floating-point type", typ)
	}
	t, err := m.backend.MakeNumber(value, typ.Exponent, typ.Mantissa)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *FloatingPointManager[T]) MakeVariable(typ Type, name string) (FloatingPointFormula, error) {
	if typ.Kind != FloatingPointTypeKind {
		return nil, errInvalidf("%s is not a floating-point type", typ)
	}
	t, err := m.backend.MakeVariable(typ.Exponent, typ.Mantissa, name)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *FloatingPointManager[T]) Negate(f FloatingPointFormula) (FloatingPointFormula, error) {
	t, err := m.backend.Negate(m.creator.ExtractInfo(f))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *FloatingPointManager[T]) Add(a, b FloatingPointFormula) (FloatingPointFormula, error) {
	return m.binary(m.backend.Add, a, b)
}

func (m *FloatingPointManager[T]) Subtract(a, b FloatingPointFormula) (FloatingPointFormula, error) {
	return m.binary(m.backend.Subtract, a, b)
}

func (m *FloatingPointManager[T]) Multiply(a, b FloatingPointFormula) (FloatingPointFormula, error) {
	return m.binary(m.backend.Multiply, a, b)
}

func (m *FloatingPointManager[T]) Divide(a, b FloatingPointFormula) (FloatingPointFormula, error) {
	return m.binary(m.backend.Divide, a, b)
}

// Equal is floating-point equality, not bit equality: NaN compares unequal to
// everything including itself.
func (m *FloatingPointManager[T]) Equal(a, b FloatingPointFormula) (BooleanFormula, error) {
	return m.comparison(m.backend.Equal, a, b)
}

func (m *FloatingPointManager[T]) GreaterThan(a, b FloatingPointFormula) (BooleanFormula, error) {
	return m.comparison(m.backend.GreaterThan, a, b)
}

func (m *FloatingPointManager[T]) LessThan(a, b FloatingPointFormula) (BooleanFormula, error) {
	return m.comparison(m.backend.LessThan, a, b)
}

func (m *FloatingPointManager[T]) binary(op func(T, T) (T, error), a, b FloatingPointFormula) (FloatingPointFormula, error) {
	t, err := op(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *FloatingPointManager[T]) comparison(op func(T, T) (T, error), a, b FloatingPointFormula) (BooleanFormula, error) {
	t, err := op(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}
